package inmemdb

import (
	"context"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/dashboard"
)

type dashboardRepository struct {
	db *DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(db *DB) *dashboardRepository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) CountStudents(_ context.Context, _ ...core.DBExecutor) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.students), nil
}

func (repo *dashboardRepository) CountDocuments(_ context.Context, _ ...core.DBExecutor) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.db.documents), nil
}

func (repo *dashboardRepository) CountAttendance(_ context.Context, date core.Date, _ ...core.DBExecutor) (present, marked int, err error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, rec := range repo.db.attendances {
		if !rec.Date.Equal(date) {
			continue
		}
		marked++
		if rec.Status == attendance.StatusPresent {
			present++
		}
	}
	return present, marked, nil
}

func (repo *dashboardRepository) SumFees(_ context.Context, _ ...core.DBExecutor) (paid, due float64, err error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, f := range repo.db.fees {
		paid += f.PaidAmount
		due += f.Due()
	}
	return paid, due, nil
}
