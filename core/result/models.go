package result

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
)

type Subject string

const (
	SubjectHindi             Subject = "HINDI"
	SubjectEnglish           Subject = "ENGLISH"
	SubjectMaths             Subject = "MATHS"
	SubjectScience           Subject = "SCIENCE"
	SubjectSocialStudies     Subject = "SOCIAL_STUDIES"
	SubjectPhysicalEducation Subject = "PHYSICAL_EDUCATION"
	SubjectArt               Subject = "ART"

	// no longer accepted on input
	SubjectPhysics   Subject = "PHYSICS"
	SubjectChemistry Subject = "CHEMISTRY"
	SubjectBiology   Subject = "BIOLOGY"
	SubjectComputer  Subject = "COMPUTER"
)

var (
	// RequiredSubjects must all be marked, and nothing else, when recording an exam.
	RequiredSubjects = []Subject{
		SubjectHindi,
		SubjectEnglish,
		SubjectMaths,
		SubjectScience,
		SubjectSocialStudies,
		SubjectPhysicalEducation,
		SubjectArt,
	}
	legacySubjects = []Subject{SubjectPhysics, SubjectChemistry, SubjectBiology, SubjectComputer}
)

func (s Subject) Canonical() bool {
	for _, subj := range RequiredSubjects {
		if s == subj {
			return true
		}
	}
	return false
}

// Valid reports whether s may appear on a stored result, legacy subjects included.
func (s Subject) Valid() bool {
	if s.Canonical() {
		return true
	}
	for _, subj := range legacySubjects {
		if s == subj {
			return true
		}
	}
	return false
}

const (
	MinMarks = 0
	MaxMarks = 100
)

var (
	errSubjectSet = errors.New(fmt.Sprintf("marks must include exactly: %s", joinSubjects(RequiredSubjects)))
	errMarksRange = errors.New(fmt.Sprintf("marks must be between %d and %d", MinMarks, MaxMarks))
)

func joinSubjects(subjects []Subject) string {
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func validMarks(marks float64) bool {
	return marks >= MinMarks && marks <= MaxMarks
}

type Result struct {
	ID        int     `json:"id" db:"id"`
	StudentID int     `json:"student_id" db:"student_id"`
	Class     int     `json:"class" db:"class"`
	Subject   Subject `json:"subject" db:"subject"`
	Marks     float64 `json:"marks" db:"marks"`
	ExamType  string  `json:"exam_type" db:"exam_type"`
}

// SubjectMarks is the student facing view of a Result.
type SubjectMarks struct {
	Subject  Subject `json:"subject"`
	Marks    float64 `json:"marks"`
	ExamType string  `json:"exam_type"`
}

func (r Result) SubjectMarks() SubjectMarks {
	return SubjectMarks{Subject: r.Subject, Marks: r.Marks, ExamType: r.ExamType}
}

// NewResults records the marks of one student for one exam, one entry per subject.
type NewResults struct {
	StudentID int                `json:"student_id" validate:"required"`
	Class     int                `json:"student_class" validate:"required,schoolclass"`
	ExamType  string             `json:"exam_type" validate:"required,max=50"`
	Marks     map[string]float64 `json:"marks" validate:"required"`

	subjects map[Subject]float64
}

func (nr *NewResults) Validate(validate *validator.Validate) error {
	nr.ExamType = core.CleanString(nr.ExamType)
	if err := validate.Struct(nr); err != nil {
		return err
	}

	subjects := make(map[Subject]float64, len(nr.Marks))
	for name, marks := range nr.Marks {
		subjects[Subject(strings.ToUpper(core.CleanString(name)))] = marks
	}
	if !sameSubjects(subjects) {
		return core.NewValidationError(errSubjectSet, core.FieldError{Field: "marks", Error: errSubjectSet.Error()})
	}

	var flds []core.FieldError
	for _, subj := range RequiredSubjects {
		if !validMarks(subjects[subj]) {
			flds = append(flds, core.FieldError{
				Field: "marks." + string(subj),
				Error: fmt.Sprintf("marks for %s must be between %d and %d", subj, MinMarks, MaxMarks),
			})
		}
	}
	if len(flds) > 0 {
		return core.NewValidationError(errMarksRange, flds...)
	}

	nr.subjects = subjects
	return nil
}

func sameSubjects(subjects map[Subject]float64) bool {
	if len(subjects) != len(RequiredSubjects) {
		return false
	}
	for _, subj := range RequiredSubjects {
		if _, ok := subjects[subj]; !ok {
			return false
		}
	}
	return true
}

// results expands nr into one Result per subject, in subject order.
func (nr NewResults) results() []Result {
	res := make([]Result, 0, len(nr.subjects))
	for subj, marks := range nr.subjects {
		res = append(res, Result{
			StudentID: nr.StudentID,
			Class:     nr.Class,
			Subject:   subj,
			Marks:     marks,
			ExamType:  nr.ExamType,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Subject < res[j].Subject })
	return res
}

type UpdateResult struct {
	Marks *float64 `json:"marks" validate:"required"`
}

func (ur *UpdateResult) Validate(validate *validator.Validate) error {
	if err := validate.Struct(ur); err != nil {
		return err
	}
	if !validMarks(*ur.Marks) {
		return core.NewValidationError(errMarksRange, core.FieldError{Field: "marks", Error: errMarksRange.Error()})
	}
	return nil
}

type QueryFilter struct {
	StudentID int    // 0: any
	Class     int    // 0: any
	ExamType  string // "": any
	Orderings []core.DBOrdering
}
