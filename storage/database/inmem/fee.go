package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/fee"
	"github.com/trezcool/vidyalaya/core/student"
)

type feeRepository struct {
	db *DB
}

var _ fee.Repository = (*feeRepository)(nil) // interface compliance check

func NewFeeRepository(db *DB) *feeRepository {
	return &feeRepository{db: db}
}

func (repo *feeRepository) CreateFee(_ context.Context, f fee.Fee, _ ...core.DBExecutor) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[f.StudentID]; !ok {
		return fee.Fee{}, student.ErrNotFound
	}
	f.ID = repo.db.nextID("fees")
	repo.db.fees[f.ID] = f
	return f, nil
}

func (repo *feeRepository) GetFee(_ context.Context, id int, _ ...core.DBExecutor) (fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if f, ok := repo.db.fees[id]; ok {
		return f, nil
	}
	return fee.Fee{}, fee.ErrNotFound
}

func (repo *feeRepository) UpdateFee(_ context.Context, f fee.Fee, _ ...core.DBExecutor) (fee.Fee, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.fees[f.ID]
	if !ok {
		return fee.Fee{}, fee.ErrNotFound
	}
	orig.PaidAmount = f.PaidAmount
	orig.PaymentDate = f.PaymentDate
	orig.Remark = f.Remark
	repo.db.fees[f.ID] = orig
	return orig, nil
}

func (repo *feeRepository) DeleteFee(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.fees[id]; !ok {
		return fee.ErrNotFound
	}
	delete(repo.db.fees, id)
	return nil
}

func (repo *feeRepository) QueryStudentFees(_ context.Context, studentID int, _ ...core.DBExecutor) ([]fee.Fee, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	fees := make([]fee.Fee, 0)
	for _, f := range repo.db.fees {
		if f.StudentID == studentID {
			fees = append(fees, f)
		}
	}
	sort.Slice(fees, func(i, j int) bool {
		if cmp := compareTimes(fees[i].CreatedAt, fees[j].CreatedAt); cmp != 0 {
			return cmp > 0
		}
		return fees[i].ID > fees[j].ID
	})
	return fees, nil
}
