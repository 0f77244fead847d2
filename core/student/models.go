package student

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/vidyalaya/core"
)

var errBlankName = errors.New("name cannot be blank")

type Student struct {
	ID         int         `json:"id" db:"id"`
	Code       string      `json:"student_code" db:"student_code"`
	Name       string      `json:"name" db:"name"`
	Class      int         `json:"class" db:"class"`
	DOB        core.Date   `json:"dob" db:"dob"`
	NationalID string      `json:"national_id" db:"national_id"`
	FatherName null.String `json:"father_name" db:"father_name"`
	MotherName null.String `json:"mother_name" db:"mother_name"`
	Phone      null.String `json:"phone" db:"phone"`
	Address    null.String `json:"address" db:"address"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"` // UTC
}

// Profile is what a student sees of their own record.
type Profile struct {
	ID        int         `json:"id"`
	Code      string      `json:"student_code"`
	Name      string      `json:"name"`
	Class     int         `json:"class"`
	DOB       core.Date   `json:"dob"`
	Phone     null.String `json:"phone"`
	Address   null.String `json:"address"`
	CreatedAt time.Time   `json:"created_at"`
}

func (s Student) Profile() Profile {
	return Profile{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		Class:     s.Class,
		DOB:       s.DOB,
		Phone:     s.Phone,
		Address:   s.Address,
		CreatedAt: s.CreatedAt,
	}
}

// RosterEntry is the slim view used when marking attendance.
type RosterEntry struct {
	ID    int    `json:"id"`
	Code  string `json:"student_code"`
	Name  string `json:"name"`
	Class int    `json:"class"`
}

func (s Student) RosterEntry() RosterEntry {
	return RosterEntry{ID: s.ID, Code: s.Code, Name: s.Name, Class: s.Class}
}

// NewStudent contains information needed to register a Student. The code is allocated, never supplied.
type NewStudent struct {
	Name       string    `json:"name" validate:"required,max=100"`
	Class      int       `json:"class" validate:"required,schoolclass"`
	DOB        core.Date `json:"dob" validate:"required"`
	NationalID string    `json:"national_id" validate:"required,len=12,digits"`
	FatherName *string   `json:"father_name" validate:"omitempty,max=100"`
	MotherName *string   `json:"mother_name" validate:"omitempty,max=100"`
	Phone      *string   `json:"phone" validate:"omitempty,max=15"`
	Address    *string   `json:"address" validate:"omitempty,max=255"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.NationalID = core.CleanString(ns.NationalID)
	ns.FatherName = core.CleanStringPtr(ns.FatherName)
	ns.MotherName = core.CleanStringPtr(ns.MotherName)
	ns.Phone = core.CleanStringPtr(ns.Phone)
	ns.Address = core.CleanStringPtr(ns.Address)
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Absent (nil) fields are left untouched.
type UpdateStudent struct {
	Name       *string `json:"name" validate:"omitempty,max=100"`
	Class      *int    `json:"class"`
	FatherName *string `json:"father_name" validate:"omitempty,max=100"`
	MotherName *string `json:"mother_name" validate:"omitempty,max=100"`
	Phone      *string `json:"phone" validate:"omitempty,max=15"`
	Address    *string `json:"address" validate:"omitempty,max=255"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	if us.Name != nil {
		name := core.CleanString(*us.Name)
		if name == "" {
			return core.NewValidationError(errBlankName, core.FieldError{Field: "name", Error: errBlankName.Error()})
		}
		us.Name = &name
	}
	if us.Class != nil && !core.ValidClass(*us.Class) {
		return core.NewValidationError(
			core.ErrInvalidClass,
			core.FieldError{Field: "class", Error: core.ErrInvalidClass.Error()},
		)
	}
	us.FatherName = core.CleanStringPtr(us.FatherName)
	us.MotherName = core.CleanStringPtr(us.MotherName)
	us.Phone = core.CleanStringPtr(us.Phone)
	us.Address = core.CleanStringPtr(us.Address)
	return validate.Struct(us)
}

// apply copies the set fields of us onto stu.
func (us UpdateStudent) apply(stu Student) Student {
	if us.Name != nil {
		stu.Name = *us.Name
	}
	if us.Class != nil {
		stu.Class = *us.Class
	}
	if us.FatherName != nil {
		stu.FatherName = null.StringFrom(*us.FatherName)
	}
	if us.MotherName != nil {
		stu.MotherName = null.StringFrom(*us.MotherName)
	}
	if us.Phone != nil {
		stu.Phone = null.StringFrom(*us.Phone)
	}
	if us.Address != nil {
		stu.Address = null.StringFrom(*us.Address)
	}
	return stu
}

// OrderRoll orders students by roll number: shorter codes first, then by code, so STU3999
// sorts before STU31000.
const OrderRoll = "roll"

type QueryFilter struct {
	Class     int // 0: all classes
	Orderings []core.DBOrdering
}
