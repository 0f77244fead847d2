package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

func (repo *studentRepository) LockClassCodes(_ context.Context, class int, _ ...core.DBExecutor) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	codes := make([]string, 0)
	for _, stu := range repo.db.students {
		if stu.Class == class {
			codes = append(codes, stu.Code)
		}
	}
	return codes, nil
}

func (repo *studentRepository) CodeExists(_ context.Context, code string, _ ...core.DBExecutor) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stu := range repo.db.students {
		if stu.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (repo *studentRepository) CreateStudent(_ context.Context, stu student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, s := range repo.db.students {
		if s.Code == stu.Code {
			return student.Student{}, student.ErrCodeExists
		}
		if s.NationalID == stu.NationalID {
			return student.Student{}, student.ErrNationalIDExists
		}
	}
	stu.ID = repo.db.nextID("students")
	repo.db.students[stu.ID] = stu
	return stu, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id int, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if stu, ok := repo.db.students[id]; ok {
		return stu, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByCode(_ context.Context, code string, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, stu := range repo.db.students {
		if stu.Code == code {
			return stu, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(_ context.Context, filter student.QueryFilter, _ ...core.DBExecutor) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, stu := range repo.db.students {
		if filter.Class == 0 || stu.Class == filter.Class {
			students = append(students, stu)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		return lessStudents(students[i], students[j], filter.Orderings)
	})
	return students, nil
}

func lessStudents(a, b student.Student, orderings []core.DBOrdering) bool {
	for _, ord := range orderings {
		var cmp int
		switch ord.Field {
		case "id":
			cmp = compareInts(a.ID, b.ID)
		case "student_code":
			cmp = compareStrings(a.Code, b.Code)
		case student.OrderRoll:
			if cmp = compareInts(len(a.Code), len(b.Code)); cmp == 0 {
				cmp = compareStrings(a.Code, b.Code)
			}
		case "name":
			cmp = compareStrings(a.Name, b.Name)
		case "class":
			cmp = compareInts(a.Class, b.Class)
		case "created_at":
			cmp = compareTimes(a.CreatedAt, b.CreatedAt)
		}
		if cmp != 0 {
			return (cmp < 0) == ord.Ascending
		}
	}
	return a.ID < b.ID
}

func (repo *studentRepository) UpdateStudent(_ context.Context, stu student.Student, _ ...core.DBExecutor) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.students[stu.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	orig.Name = stu.Name
	orig.Class = stu.Class
	orig.FatherName = stu.FatherName
	orig.MotherName = stu.MotherName
	orig.Phone = stu.Phone
	orig.Address = stu.Address
	repo.db.students[stu.ID] = orig
	return orig, nil
}

func (repo *studentRepository) DeleteStudent(_ context.Context, id int, _ ...core.DBExecutor) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[id]; !ok {
		return student.ErrNotFound
	}
	delete(repo.db.students, id)

	// ON DELETE CASCADE
	for recID, rec := range repo.db.attendances {
		if rec.StudentID == id {
			delete(repo.db.attendances, recID)
		}
	}
	for feeID, f := range repo.db.fees {
		if f.StudentID == id {
			delete(repo.db.fees, feeID)
		}
	}
	for resID, r := range repo.db.results {
		if r.StudentID == id {
			delete(repo.db.results, resID)
		}
	}
	return nil
}
