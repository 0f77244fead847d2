package student

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/vidyalaya/core"
)

// maxCodeAttempts bounds how many times an allocation is retried after a code collision.
const maxCodeAttempts = 5

var (
	// errors
	ErrNotFound                = core.NewNotFoundError(errors.New("student not found"))
	ErrNationalIDExists        = core.NewConflictError(errors.New("national id already exists"))
	ErrCodeAllocationExhausted = core.NewConflictError(errors.New("student code already exists"))

	// ErrCodeExists is returned by repositories when an insert collides on the student code.
	ErrCodeExists = errors.New("student code collision")
)

type (
	Repository interface {
		// LockClassCodes returns the codes of every student in class, locking them until the
		// surrounding transaction ends so concurrent allocations serialize.
		LockClassCodes(ctx context.Context, class int, exec ...core.DBExecutor) ([]string, error)
		CodeExists(ctx context.Context, code string, exec ...core.DBExecutor) (bool, error)
		CreateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		GetStudent(ctx context.Context, id int, exec ...core.DBExecutor) (Student, error)
		GetStudentByCode(ctx context.Context, code string, exec ...core.DBExecutor) (Student, error)
		QueryStudents(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Student, error)
		UpdateStudent(ctx context.Context, stu Student, exec ...core.DBExecutor) (Student, error)
		// DeleteStudent removes the student along with their attendance, fee and result records.
		DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	Service struct {
		tx      core.Transactor
		repo    Repository
		nowFunc func() time.Time
	}
)

func NewService(tx core.Transactor, repo Repository) *Service {
	return &Service{tx: tx, repo: repo, nowFunc: time.Now}
}

// nextCode computes the next free code of class. It must run inside the insert transaction.
func (svc *Service) nextCode(ctx context.Context, class int, exec core.DBExecutor) (string, error) {
	codes, err := svc.repo.LockClassCodes(ctx, class, exec)
	if err != nil {
		return "", errors.Wrap(err, "locking class codes")
	}
	roll := NextRoll(codes, class)
	for {
		code := FormatCode(class, roll)
		exists, err := svc.repo.CodeExists(ctx, code, exec)
		if err != nil {
			return "", errors.Wrap(err, "probing student code")
		}
		if !exists {
			return code, nil
		}
		roll++
	}
}

// Create registers a new Student, allocating its code in the same transaction as the insert.
// Code collisions are retried; a duplicate national id is reported at once.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	stu := Student{
		Name:       ns.Name,
		Class:      ns.Class,
		DOB:        ns.DOB,
		NationalID: ns.NationalID,
		FatherName: null.StringFromPtr(ns.FatherName),
		MotherName: null.StringFromPtr(ns.MotherName),
		Phone:      null.StringFromPtr(ns.Phone),
		Address:    null.StringFromPtr(ns.Address),
		CreatedAt:  svc.nowFunc().UTC(),
	}

	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		var created Student
		err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
			code, err := svc.nextCode(ctx, stu.Class, exec)
			if err != nil {
				return err
			}
			stu.Code = code
			created, err = svc.repo.CreateStudent(ctx, stu, exec)
			return err
		})
		switch errors.Cause(err) {
		case nil:
			return created, nil
		case ErrCodeExists:
			continue
		default:
			return Student{}, err
		}
	}
	return Student{}, ErrCodeAllocationExhausted
}

func (svc *Service) Get(ctx context.Context, id int) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) GetByCode(ctx context.Context, code string) (Student, error) {
	return svc.repo.GetStudentByCode(ctx, core.CleanString(code))
}

// QueryAll returns every student, newest first.
func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, QueryFilter{
		Orderings: []core.DBOrdering{{Field: "created_at"}, {Field: "id"}},
	})
}

// QueryByClass returns the students of class in roll order.
func (svc *Service) QueryByClass(ctx context.Context, class int) ([]Student, error) {
	if err := core.CheckClass(class); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudents(ctx, QueryFilter{
		Class:     class,
		Orderings: []core.DBOrdering{{Field: OrderRoll, Ascending: true}},
	})
}

func (svc *Service) Update(ctx context.Context, id int, us UpdateStudent) (Student, error) {
	var updated Student
	err := svc.tx.WithTx(ctx, func(exec core.DBExecutor) error {
		stu, err := svc.repo.GetStudent(ctx, id, exec)
		if err != nil {
			return err
		}
		updated, err = svc.repo.UpdateStudent(ctx, us.apply(stu), exec)
		return err
	})
	if err != nil {
		return Student{}, err
	}
	return updated, nil
}

func (svc *Service) Delete(ctx context.Context, id int) error {
	return svc.repo.DeleteStudent(ctx, id)
}
