package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/student"
)

type (
	Repository interface {
		// UpsertAttendance inserts rec, or overwrites the status of the record already held for
		// (rec.StudentID, rec.Date). The class of an existing record is kept.
		UpsertAttendance(ctx context.Context, rec Record, exec ...core.DBExecutor) (Record, error)
		// QueryStudentAttendance returns the records of a student, latest date first.
		QueryStudentAttendance(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]Record, error)
	}

	StudentStore interface {
		GetStudent(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error)
		QueryStudents(ctx context.Context, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error)
	}

	Service struct {
		tx       core.Transactor
		repo     Repository
		students StudentStore
	}
)

func NewService(tx core.Transactor, repo Repository, students StudentStore) *Service {
	return &Service{tx: tx, repo: repo, students: students}
}

// Roster lists the students of class for attendance marking, in roll order.
func (svc *Service) Roster(ctx context.Context, class int) ([]student.RosterEntry, error) {
	if err := core.CheckClass(class); err != nil {
		return nil, err
	}
	students, err := svc.students.QueryStudents(ctx, student.QueryFilter{
		Class:     class,
		Orderings: []core.DBOrdering{{Field: student.OrderRoll, Ascending: true}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	roster := make([]student.RosterEntry, 0, len(students))
	for _, stu := range students {
		roster = append(roster, stu.RosterEntry())
	}
	return roster, nil
}

// Mark records status for a student on date; marking the same day again overwrites the status.
func (svc *Service) Mark(ctx context.Context, studentID, class int, date core.Date, status Status) (Record, error) {
	var rec Record
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		if _, err := svc.students.GetStudent(ctx, studentID, exec); err != nil {
			return err
		}
		var err error
		rec, err = svc.repo.UpsertAttendance(ctx, Record{
			StudentID: studentID,
			Class:     class,
			Date:      date,
			Status:    status,
		}, exec)
		return err
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// MarkBulk marks every entry independently. Unknown students are reported in the result and do
// not stop the batch; any other failure does.
func (svc *Service) MarkBulk(ctx context.Context, bm BulkMark) (BulkResult, error) {
	res := BulkResult{FailedStudentIDs: []int{}}
	for _, m := range bm.Attendances {
		_, err := svc.Mark(ctx, m.StudentID, bm.Class, bm.Date, m.Status)
		switch errors.Cause(err) {
		case nil:
			res.Success++
		case student.ErrNotFound:
			res.Failed++
			res.FailedStudentIDs = append(res.FailedStudentIDs, m.StudentID)
		default:
			return res, errors.Wrapf(err, "marking attendance of student %d", m.StudentID)
		}
	}
	return res, nil
}

func (svc *Service) History(ctx context.Context, studentID int) ([]Record, error) {
	return svc.repo.QueryStudentAttendance(ctx, studentID)
}
