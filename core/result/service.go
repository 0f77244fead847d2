package result

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/student"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError(errors.New("result not found"))

	errClassMismatch = errors.New("student class mismatch")
)

type (
	Repository interface {
		// CreateResults inserts every result whose (student, class, subject, exam type) is not
		// recorded yet and returns the number inserted. Existing rows are left untouched.
		CreateResults(ctx context.Context, results []Result, exec ...core.DBExecutor) (int, error)
		GetResult(ctx context.Context, id int, exec ...core.DBExecutor) (Result, error)
		UpdateResult(ctx context.Context, r Result, exec ...core.DBExecutor) (Result, error)
		DeleteResult(ctx context.Context, id int, exec ...core.DBExecutor) error
		QueryResults(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Result, error)
	}

	StudentFinder interface {
		GetStudent(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error)
	}

	Service struct {
		tx       core.Transactor
		repo     Repository
		students StudentFinder
	}
)

func NewService(tx core.Transactor, repo Repository, students StudentFinder) *Service {
	return &Service{tx: tx, repo: repo, students: students}
}

// CreateResults records a full exam for one student. nr must have been validated.
// Subjects already recorded for that exam are skipped; the count of new rows is returned.
func (svc *Service) CreateResults(ctx context.Context, nr NewResults) (int, error) {
	var created int
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		stu, err := svc.students.GetStudent(ctx, nr.StudentID, exec)
		if err != nil {
			return err
		}
		if stu.Class != nr.Class {
			return core.NewValidationError(
				errClassMismatch,
				core.FieldError{Field: "student_class", Error: errClassMismatch.Error()},
			)
		}
		created, err = svc.repo.CreateResults(ctx, nr.results(), exec)
		return err
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (svc *Service) Get(ctx context.Context, id int) (Result, error) {
	return svc.repo.GetResult(ctx, id)
}

func (svc *Service) Update(ctx context.Context, id int, marks float64) (Result, error) {
	var updated Result
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		r, err := svc.repo.GetResult(ctx, id, exec)
		if err != nil {
			return err
		}
		r.Marks = marks
		updated, err = svc.repo.UpdateResult(ctx, r, exec)
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return updated, nil
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteResult(ctx, id)
}

// StudentResults returns the results of a student grouped by exam type.
func (svc *Service) StudentResults(ctx context.Context, studentID int) ([]Result, error) {
	return svc.repo.QueryResults(ctx, QueryFilter{
		StudentID: studentID,
		Orderings: []core.DBOrdering{
			{Field: "exam_type", Ascending: true},
			{Field: "subject", Ascending: true},
		},
	})
}

// ClassResults returns the results recorded for class, optionally for a single exam type.
func (svc *Service) ClassResults(ctx context.Context, class int, examType string) ([]Result, error) {
	if err := core.CheckClass(class); err != nil {
		return nil, err
	}
	return svc.repo.QueryResults(ctx, QueryFilter{
		Class:    class,
		ExamType: core.CleanString(examType),
		Orderings: []core.DBOrdering{
			{Field: "student_id", Ascending: true},
			{Field: "exam_type", Ascending: true},
			{Field: "subject", Ascending: true},
		},
	})
}
