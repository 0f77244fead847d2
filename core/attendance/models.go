package attendance

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/vidyalaya/core"
)

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusHoliday Status = "HOLIDAY"
)

var Statuses = []Status{StatusPresent, StatusAbsent, StatusHoliday}

func (s Status) Valid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Record is the attendance of one student on one day. Class is copied when the record is created.
type Record struct {
	ID        int       `json:"id" db:"id"`
	StudentID int       `json:"student_id" db:"student_id"`
	Class     int       `json:"class" db:"class"`
	Date      core.Date `json:"date" db:"date"`
	Status    Status    `json:"status" db:"status"`
}

// Summary is the student facing view of a Record.
type Summary struct {
	Date   core.Date `json:"date"`
	Status Status    `json:"status"`
}

func (r Record) Summary() Summary {
	return Summary{Date: r.Date, Status: r.Status}
}

type Mark struct {
	StudentID int    `json:"student_id" validate:"required"`
	Status    Status `json:"status" validate:"oneof=PRESENT ABSENT HOLIDAY"`
}

// BulkMark marks a whole class for one date.
type BulkMark struct {
	Class       int       `json:"class" validate:"required,schoolclass"`
	Date        core.Date `json:"date" validate:"required"`
	Attendances []Mark    `json:"attendances" validate:"dive"`
}

func (bm *BulkMark) Validate(validate *validator.Validate) error {
	for i := range bm.Attendances {
		status := Status(strings.ToUpper(core.CleanString(string(bm.Attendances[i].Status))))
		if status == "" {
			status = StatusPresent
		}
		bm.Attendances[i].Status = status
	}
	return validate.Struct(bm)
}

type BulkResult struct {
	Success          int   `json:"success"`
	Failed           int   `json:"failed"`
	FailedStudentIDs []int `json:"failed_student_ids"`
}
