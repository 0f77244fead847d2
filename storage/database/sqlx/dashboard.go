package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/dashboard"
)

type dashboardRepository struct {
	repository
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(exec core.DBExecutor) *dashboardRepository {
	return &dashboardRepository{repository{exec: exec}}
}

func (repo dashboardRepository) count(ctx context.Context, table string, exec []core.DBExecutor) (int, error) {
	var n int
	if err := repo.getExec(exec).GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, errors.Wrapf(err, "counting %s", table)
	}
	return n, nil
}

func (repo dashboardRepository) CountStudents(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "students", exec)
}

func (repo dashboardRepository) CountDocuments(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	return repo.count(ctx, "pdfs", exec)
}

func (repo dashboardRepository) CountAttendance(ctx context.Context, date core.Date, exec ...core.DBExecutor) (present, marked int, err error) {
	var row struct {
		Present int `db:"present"`
		Marked  int `db:"marked"`
	}
	q := `SELECT COUNT(*) FILTER (WHERE status = $2) AS present, COUNT(*) AS marked
		FROM attendances WHERE date = $1`
	if err = repo.getExec(exec).GetContext(ctx, &row, q, date, attendance.StatusPresent); err != nil {
		return 0, 0, errors.Wrap(err, "counting attendance")
	}
	return row.Present, row.Marked, nil
}

func (repo dashboardRepository) SumFees(ctx context.Context, exec ...core.DBExecutor) (paid, due float64, err error) {
	var row struct {
		Paid float64 `db:"paid"`
		Due  float64 `db:"due"`
	}
	q := "SELECT COALESCE(SUM(paid_amount), 0) AS paid, COALESCE(SUM(due_amount), 0) AS due FROM fees"
	if err = repo.getExec(exec).GetContext(ctx, &row, q); err != nil {
		return 0, 0, errors.Wrap(err, "summing fees")
	}
	return row.Paid, row.Due, nil
}
