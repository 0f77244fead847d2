package sqlxrepos

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/result"
	"github.com/trezcool/vidyalaya/core/student"
)

const resultColumns = "id, student_id, class, subject, marks, exam_type"

type resultRepository struct {
	repository
}

var _ result.Repository = (*resultRepository)(nil) // interface compliance check

func NewResultRepository(exec core.DBExecutor) *resultRepository {
	return &resultRepository{repository{exec: exec}}
}

func (repo resultRepository) CreateResults(ctx context.Context, results []result.Result, exec ...core.DBExecutor) (int, error) {
	exe := repo.getExec(exec)
	q := `INSERT INTO results (student_id, class, subject, marks, exam_type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (student_id, class, subject, exam_type) DO NOTHING`

	var created int
	for _, r := range results {
		res, err := exe.ExecContext(ctx, q, r.StudentID, r.Class, r.Subject, r.Marks, r.ExamType)
		if err != nil {
			if _, ok := constraintViolation(err, foreignKeyViolation); ok {
				return 0, student.ErrNotFound
			}
			return 0, errors.Wrapf(err, "inserting %s result", r.Subject)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, errors.Wrap(err, "counting inserted results")
		}
		created += int(n)
	}
	return created, nil
}

func (repo resultRepository) GetResult(ctx context.Context, id int, exec ...core.DBExecutor) (result.Result, error) {
	var r result.Result
	q := "SELECT " + resultColumns + " FROM results WHERE id = $1"
	if err := repo.getExec(exec).GetContext(ctx, &r, q, id); err != nil {
		return result.Result{}, trapNoRowsErr(err, result.ErrNotFound, "finding result by ID")
	}
	return r, nil
}

func (repo resultRepository) UpdateResult(ctx context.Context, r result.Result, exec ...core.DBExecutor) (result.Result, error) {
	q := "UPDATE results SET marks = $2 WHERE id = $1 RETURNING " + resultColumns
	var updated result.Result
	if err := repo.getExec(exec).GetContext(ctx, &updated, q, r.ID, r.Marks); err != nil {
		return result.Result{}, trapNoRowsErr(err, result.ErrNotFound, "updating result")
	}
	return updated, nil
}

func (repo resultRepository) DeleteResult(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, "DELETE FROM results WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting result")
	}
	return checkAffected(res, result.ErrNotFound, "deleting result")
}

func (repo resultRepository) QueryResults(ctx context.Context, filter result.QueryFilter, exec ...core.DBExecutor) ([]result.Result, error) {
	var (
		conds []string
		args  []interface{}
	)
	where := func(col string, val interface{}) {
		args = append(args, val)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if filter.StudentID != 0 {
		where("student_id", filter.StudentID)
	}
	if filter.Class != 0 {
		where("class", filter.Class)
	}
	if filter.ExamType != "" {
		where("exam_type", filter.ExamType)
	}

	q := "SELECT " + resultColumns + " FROM results"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += orderBy(filter.Orderings, "id", "student_id", "class", "subject", "exam_type")

	results := make([]result.Result, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &results, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying results")
	}
	return results, nil
}
