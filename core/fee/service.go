package fee

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/student"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError(errors.New("fee record not found"))

	errNegativePaid = errors.New("paid amount cannot be negative")
)

type (
	Repository interface {
		// CreateFee and UpdateFee persist Due() alongside the amounts.
		CreateFee(ctx context.Context, f Fee, exec ...core.DBExecutor) (Fee, error)
		GetFee(ctx context.Context, id int, exec ...core.DBExecutor) (Fee, error)
		UpdateFee(ctx context.Context, f Fee, exec ...core.DBExecutor) (Fee, error)
		DeleteFee(ctx context.Context, id int, exec ...core.DBExecutor) error
		// QueryStudentFees returns the fees of a student, newest first.
		QueryStudentFees(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]Fee, error)
	}

	StudentFinder interface {
		GetStudent(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error)
		GetStudentByCode(ctx context.Context, code string, exec ...core.DBExecutor) (student.Student, error)
	}

	Service struct {
		tx       core.Transactor
		repo     Repository
		students StudentFinder
		nowFunc  func() time.Time
	}
)

func NewService(tx core.Transactor, repo Repository, students StudentFinder) *Service {
	return &Service{tx: tx, repo: repo, students: students, nowFunc: time.Now}
}

func (svc *Service) Create(ctx context.Context, nf NewFee) (Fee, error) {
	var created Fee
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		if _, err := svc.students.GetStudent(ctx, nf.StudentID, exec); err != nil {
			return err
		}
		var err error
		created, err = svc.repo.CreateFee(ctx, Fee{
			StudentID:  nf.StudentID,
			Amount:     nf.Amount,
			PaidAmount: nf.PaidAmount,
			Remark:     null.StringFromPtr(nf.Remark),
			CreatedAt:  svc.nowFunc().UTC(),
		}, exec)
		return err
	})
	if err != nil {
		return Fee{}, err
	}
	return created, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Fee, error) {
	return svc.repo.GetFee(ctx, id)
}

// Update records a payment and/or a remark. The due amount follows from the stored amount.
func (svc *Service) Update(ctx context.Context, id int, uf UpdateFee) (Fee, error) {
	var updated Fee
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		f, err := svc.repo.GetFee(ctx, id, exec)
		if err != nil {
			return err
		}
		if uf.PaidAmount != nil {
			f.record(*uf.PaidAmount, svc.nowFunc().UTC())
		}
		if uf.Remark != nil {
			f.Remark = null.StringFrom(*uf.Remark)
		}
		updated, err = svc.repo.UpdateFee(ctx, f, exec)
		return err
	})
	if err != nil {
		return Fee{}, err
	}
	return updated, nil
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteFee(ctx, id)
}

func (svc *Service) ListForStudent(ctx context.Context, studentID int) ([]Fee, error) {
	return svc.repo.QueryStudentFees(ctx, studentID)
}

// ListForStudentRef accepts either a numeric student id or a student code.
// An unknown student has no fees.
func (svc *Service) ListForStudentRef(ctx context.Context, ref string) ([]Fee, error) {
	ref = core.CleanString(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		return svc.ListForStudent(ctx, id)
	}

	stu, err := svc.students.GetStudentByCode(ctx, ref)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return []Fee{}, nil
		}
		return nil, errors.Wrap(err, "resolving student code")
	}
	return svc.ListForStudent(ctx, stu.ID)
}
