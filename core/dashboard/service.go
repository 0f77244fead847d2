package dashboard

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
)

type Summary struct {
	TotalStudents             int     `json:"total_students"`
	TodayAttendancePercentage float64 `json:"today_attendance_percentage"`
	TotalFeesCollected        float64 `json:"total_fees_collected"`
	TotalPendingFees          float64 `json:"total_pending_fees"`
	TotalDocuments            int     `json:"total_pdfs"`
}

type (
	Repository interface {
		CountStudents(ctx context.Context, exec ...core.DBExecutor) (int, error)
		// CountAttendance counts the records marked on date, and how many of them are PRESENT.
		CountAttendance(ctx context.Context, date core.Date, exec ...core.DBExecutor) (present, marked int, err error)
		// SumFees totals paid and due amounts over every fee record.
		SumFees(ctx context.Context, exec ...core.DBExecutor) (paid, due float64, err error)
		CountDocuments(ctx context.Context, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo, nowFunc: time.Now}
}

func attendancePercentage(present, marked int) float64 {
	if marked == 0 {
		return 0
	}
	return float64(present) / float64(marked) * 100
}

// Summary aggregates the admin dashboard figures. Empty tables yield zeros.
func (svc *Service) Summary(ctx context.Context) (Summary, error) {
	var (
		sum Summary
		err error
	)
	if sum.TotalStudents, err = svc.repo.CountStudents(ctx); err != nil {
		return Summary{}, errors.Wrap(err, "counting students")
	}

	present, marked, err := svc.repo.CountAttendance(ctx, core.DateOf(svc.nowFunc()))
	if err != nil {
		return Summary{}, errors.Wrap(err, "counting today's attendance")
	}
	sum.TodayAttendancePercentage = attendancePercentage(present, marked)

	if sum.TotalFeesCollected, sum.TotalPendingFees, err = svc.repo.SumFees(ctx); err != nil {
		return Summary{}, errors.Wrap(err, "summing fees")
	}
	if sum.TotalDocuments, err = svc.repo.CountDocuments(ctx); err != nil {
		return Summary{}, errors.Wrap(err, "counting documents")
	}
	return sum, nil
}
