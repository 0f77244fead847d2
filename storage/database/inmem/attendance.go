package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/student"
)

type attendanceRepository struct {
	db *DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) *attendanceRepository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertAttendance(_ context.Context, rec attendance.Record, _ ...core.DBExecutor) (attendance.Record, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[rec.StudentID]; !ok {
		return attendance.Record{}, student.ErrNotFound
	}
	for id, existing := range repo.db.attendances {
		if existing.StudentID == rec.StudentID && existing.Date.Equal(rec.Date) {
			existing.Status = rec.Status
			repo.db.attendances[id] = existing
			return existing, nil
		}
	}
	rec.ID = repo.db.nextID("attendances")
	repo.db.attendances[rec.ID] = rec
	return rec, nil
}

func (repo *attendanceRepository) QueryStudentAttendance(_ context.Context, studentID int, _ ...core.DBExecutor) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.Record, 0)
	for _, rec := range repo.db.attendances {
		if rec.StudentID == studentID {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[j].Date.Before(records[i].Date) })
	return records, nil
}
