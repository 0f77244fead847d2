package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/student"
)

const (
	studentColumns = "id, student_code, name, class, dob, national_id, father_name, mother_name, phone, address, created_at"

	studentCodeKey       = "students_student_code_key"
	studentNationalIDKey = "students_national_id_key"

	// first key of the advisory locks taken while allocating student codes
	codeAllocationLockSpace = 1001
)

type studentRepository struct {
	repository
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{repository{exec: exec}}
}

// trapUniqueErr maps unique violations of the students table to the student errors.
func (repo studentRepository) trapUniqueErr(err error, msg string) error {
	if constraint, ok := constraintViolation(err, uniqueViolation); ok {
		switch constraint {
		case studentCodeKey:
			return student.ErrCodeExists
		case studentNationalIDKey:
			return student.ErrNationalIDExists
		}
	}
	return errors.Wrap(err, msg)
}

func (repo studentRepository) LockClassCodes(ctx context.Context, class int, exec ...core.DBExecutor) ([]string, error) {
	exe := repo.getExec(exec)
	// serializes allocations of a class, including the first one when no row can be locked yet
	if _, err := exe.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1::int, $2::int)", codeAllocationLockSpace, class); err != nil {
		return nil, errors.Wrap(err, "acquiring class lock")
	}

	codes := make([]string, 0)
	q := "SELECT student_code FROM students WHERE class = $1 FOR UPDATE"
	if err := exe.SelectContext(ctx, &codes, q, class); err != nil {
		return nil, errors.Wrap(err, "selecting class codes")
	}
	return codes, nil
}

func (repo studentRepository) CodeExists(ctx context.Context, code string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	q := "SELECT EXISTS (SELECT 1 FROM students WHERE student_code = $1)"
	if err := repo.getExec(exec).GetContext(ctx, &exists, q, code); err != nil {
		return false, errors.Wrap(err, "checking student code")
	}
	return exists, nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	q := `INSERT INTO students (student_code, name, class, dob, national_id, father_name, mother_name, phone, address, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + studentColumns
	var created student.Student
	err := repo.getExec(exec).GetContext(
		ctx, &created, q,
		stu.Code, stu.Name, stu.Class, stu.DOB, stu.NationalID,
		stu.FatherName, stu.MotherName, stu.Phone, stu.Address, stu.CreatedAt,
	)
	if err != nil {
		return student.Student{}, repo.trapUniqueErr(err, "inserting student")
	}
	return created, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int, exec ...core.DBExecutor) (student.Student, error) {
	var stu student.Student
	q := "SELECT " + studentColumns + " FROM students WHERE id = $1"
	if err := repo.getExec(exec).GetContext(ctx, &stu, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student by ID")
	}
	return stu, nil
}

func (repo studentRepository) GetStudentByCode(ctx context.Context, code string, exec ...core.DBExecutor) (student.Student, error) {
	var stu student.Student
	q := "SELECT " + studentColumns + " FROM students WHERE student_code = $1"
	if err := repo.getExec(exec).GetContext(ctx, &stu, q, code); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student by code")
	}
	return stu, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Student, error) {
	var args []interface{}
	q := "SELECT " + studentColumns + " FROM students"
	if filter.Class != 0 {
		q += " WHERE class = $1"
		args = append(args, filter.Class)
	}
	q += orderBy(rollOrderings(filter.Orderings), "id", "student_code", "length(student_code)", "name", "class", "created_at")

	students := make([]student.Student, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &students, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	return students, nil
}

func (repo studentRepository) UpdateStudent(ctx context.Context, stu student.Student, exec ...core.DBExecutor) (student.Student, error) {
	q := `UPDATE students
		SET name = $2, class = $3, father_name = $4, mother_name = $5, phone = $6, address = $7
		WHERE id = $1
		RETURNING ` + studentColumns
	var updated student.Student
	err := repo.getExec(exec).GetContext(
		ctx, &updated, q,
		stu.ID, stu.Name, stu.Class, stu.FatherName, stu.MotherName, stu.Phone, stu.Address,
	)
	if err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "updating student")
	}
	return updated, nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int, exec ...core.DBExecutor) error {
	res, err := repo.getExec(exec).ExecContext(ctx, "DELETE FROM students WHERE id = $1", id)
	if err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return checkAffected(res, student.ErrNotFound, "deleting student")
}

// rollOrderings expands student.OrderRoll into the columns it sorts on.
func rollOrderings(orderings []core.DBOrdering) []core.DBOrdering {
	expanded := make([]core.DBOrdering, 0, len(orderings)+1)
	for _, ord := range orderings {
		if ord.Field == student.OrderRoll {
			expanded = append(expanded,
				core.DBOrdering{Field: "length(student_code)", Ascending: ord.Ascending},
				core.DBOrdering{Field: "student_code", Ascending: ord.Ascending},
			)
			continue
		}
		expanded = append(expanded, ord)
	}
	return expanded
}
