package testutil

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/core/dashboard"
	"github.com/trezcool/vidyalaya/core/document"
	"github.com/trezcool/vidyalaya/core/fee"
	"github.com/trezcool/vidyalaya/core/result"
	"github.com/trezcool/vidyalaya/core/student"
	logsvc "github.com/trezcool/vidyalaya/services/logger"
	"github.com/trezcool/vidyalaya/storage/blob"
	inmemdb "github.com/trezcool/vidyalaya/storage/database/inmem"
)

// App bundles the services of the application over an in-memory database and a temporary
// local blob store.
type App struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	DB         *inmemdb.DB
	Blobs      *blob.LocalStore

	AuthSvc       *auth.Service
	StudentSvc    *student.Service
	AttendanceSvc *attendance.Service
	FeeSvc        *fee.Service
	ResultSvc     *result.Service
	DocumentSvc   *document.Service
	DashboardSvc  *dashboard.Service
}

// NewLogger returns a logger that discards everything.
func NewLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)
	return logger
}

func NewValidator() (*validator.Validate, ut.Translator) {
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	auth.InitValidators(validate, translator)
	return validate, translator
}

func NewApp(t *testing.T) *App {
	t.Helper()

	conf := core.NewTestConfig()
	conf.Storage.UploadDir = t.TempDir()

	blobs, err := blob.NewLocalStore(conf.Storage.UploadDir)
	if err != nil {
		t.Fatalf("NewLocalStore() failed: %v", err)
	}
	tokens, err := auth.NewTokenService(conf)
	if err != nil {
		t.Fatalf("NewTokenService() failed: %v", err)
	}
	validate, translator := NewValidator()
	logger := NewLogger(conf)

	db := inmemdb.Open()
	tx := inmemdb.NewTransactor(db)
	studentRepo := inmemdb.NewStudentRepository(db)

	return &App{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		DB:         db,
		Blobs:      blobs,

		AuthSvc:       auth.NewService(inmemdb.NewAdminRepository(db), studentRepo, tokens, validate),
		StudentSvc:    student.NewService(tx, studentRepo),
		AttendanceSvc: attendance.NewService(tx, inmemdb.NewAttendanceRepository(db), studentRepo),
		FeeSvc:        fee.NewService(tx, inmemdb.NewFeeRepository(db), studentRepo),
		ResultSvc:     result.NewService(tx, inmemdb.NewResultRepository(db), studentRepo),
		DocumentSvc:   document.NewService(tx, inmemdb.NewDocumentRepository(db), blobs, logger),
		DashboardSvc:  dashboard.NewService(inmemdb.NewDashboardRepository(db)),
	}
}

func CreateAdmin(t *testing.T, app *App, uname, pwd string) auth.Admin {
	t.Helper()
	admin, err := app.AuthSvc.AddAdmin(context.Background(), uname, pwd)
	if err != nil {
		t.Fatalf("CreateAdmin() failed: %v", err)
	}
	return admin
}

func CreateStudent(t *testing.T, app *App, name string, class int, dob core.Date, nationalID string) student.Student {
	t.Helper()
	stu, err := app.StudentSvc.Create(context.Background(), student.NewStudent{
		Name:       name,
		Class:      class,
		DOB:        dob,
		NationalID: nationalID,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return stu
}

func CreateFee(t *testing.T, app *App, studentID int, amount, paid float64) fee.Fee {
	t.Helper()
	f, err := app.FeeSvc.Create(context.Background(), fee.NewFee{StudentID: studentID, Amount: amount, PaidAmount: paid})
	if err != nil {
		t.Fatalf("CreateFee() failed: %v", err)
	}
	return f
}

func MarkAttendance(t *testing.T, app *App, stu student.Student, date core.Date, status attendance.Status) attendance.Record {
	t.Helper()
	rec, err := app.AttendanceSvc.Mark(context.Background(), stu.ID, stu.Class, date, status)
	if err != nil {
		t.Fatalf("MarkAttendance() failed: %v", err)
	}
	return rec
}

// CreateDocument records doc as is, bypassing upload; no file is stored.
func CreateDocument(t *testing.T, app *App, doc document.Document) document.Document {
	t.Helper()
	if doc.UploadDate.IsZero() {
		doc.UploadDate = time.Now().UTC()
	}
	created, err := inmemdb.NewDocumentRepository(app.DB).CreateDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("CreateDocument() failed: %v", err)
	}
	return created
}

// FullMarks returns marks for every required subject, all set to marks.
func FullMarks(marks float64) map[string]float64 {
	m := make(map[string]float64, len(result.RequiredSubjects))
	for _, subj := range result.RequiredSubjects {
		m[string(subj)] = marks
	}
	return m
}

func Token(t *testing.T, app *App, p auth.Principal) string {
	t.Helper()
	token, err := app.AuthSvc.IssueToken(p)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token.AccessToken
}

// Date parses a YYYY-MM-DD date or fails the test.
func Date(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("Date(%q) failed: %v", s, err)
	}
	return d
}
