package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/student"
)

const attendanceColumns = "id, student_id, class, date, status"

type attendanceRepository struct {
	repository
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(exec core.DBExecutor) *attendanceRepository {
	return &attendanceRepository{repository{exec: exec}}
}

func (repo attendanceRepository) UpsertAttendance(ctx context.Context, rec attendance.Record, exec ...core.DBExecutor) (attendance.Record, error) {
	q := `INSERT INTO attendances (student_id, class, date, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, date) DO UPDATE SET status = EXCLUDED.status
		RETURNING ` + attendanceColumns
	var saved attendance.Record
	if err := repo.getExec(exec).GetContext(ctx, &saved, q, rec.StudentID, rec.Class, rec.Date, rec.Status); err != nil {
		if _, ok := constraintViolation(err, foreignKeyViolation); ok {
			return attendance.Record{}, student.ErrNotFound
		}
		return attendance.Record{}, errors.Wrap(err, "upserting attendance")
	}
	return saved, nil
}

func (repo attendanceRepository) QueryStudentAttendance(ctx context.Context, studentID int, exec ...core.DBExecutor) ([]attendance.Record, error) {
	q := "SELECT " + attendanceColumns + " FROM attendances WHERE student_id = $1 ORDER BY date DESC"
	records := make([]attendance.Record, 0)
	if err := repo.getExec(exec).SelectContext(ctx, &records, q, studentID); err != nil {
		return nil, errors.Wrap(err, "querying student attendance")
	}
	return records, nil
}
