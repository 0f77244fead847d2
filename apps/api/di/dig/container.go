package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/vidyalaya/apps/api/echo"
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
	"github.com/trezcool/vidyalaya/storage/database"
	sqlxrepos "github.com/trezcool/vidyalaya/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// ServerParam gathers what the API server is built from.
type ServerParam struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	AuthSvc       *auth.Service
	StudentSvc    *student.Service
	AttendanceSvc *attendance.Service
	FeeSvc        *fee.Service
	ResultSvc     *result.Service
	DocumentSvc   *document.Service
	DashboardSvc  *dashboard.Service
	Blobs         document.BlobStore
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.MigrateUp(db.DB); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db, db
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := core.NewValidator(translator)
	auth.InitValidators(validate, translator)
	return validate
}

func newTokenService(conf *core.Config, logger core.Logger) *auth.TokenService {
	tokens, err := auth.NewTokenService(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up token service: %v", err), err)
	}
	return tokens
}

func newBlobStore(conf *core.Config, logger core.Logger) document.BlobStore {
	blobs, err := blob.NewStore(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up blob store: %v", err), err)
	}
	return blobs
}

func newServer(p ServerParam) *echoapi.Server {
	var uploadRoot string
	if local, ok := p.Blobs.(*blob.LocalStore); ok {
		uploadRoot = local.Root()
	}
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Validate:      p.Validate,
		Translator:    p.Translator,
		AuthSvc:       p.AuthSvc,
		StudentSvc:    p.StudentSvc,
		AttendanceSvc: p.AttendanceSvc,
		FeeSvc:        p.FeeSvc,
		ResultSvc:     p.ResultSvc,
		DocumentSvc:   p.DocumentSvc,
		DashboardSvc:  p.DashboardSvc,
		UploadRoot:    uploadRoot,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(database.NewTransactor, dig.As(new(core.Transactor))))
	must(c.Provide(newBlobStore))

	// repositories
	must(c.Provide(
		sqlxrepos.NewStudentRepository,
		dig.As(
			new(student.Repository),
			new(auth.StudentFinder),
			new(attendance.StudentStore),
			new(fee.StudentFinder),
			new(result.StudentFinder),
		),
	))
	must(c.Provide(sqlxrepos.NewAdminRepository, dig.As(new(auth.Repository))))
	must(c.Provide(sqlxrepos.NewAttendanceRepository, dig.As(new(attendance.Repository))))
	must(c.Provide(sqlxrepos.NewFeeRepository, dig.As(new(fee.Repository))))
	must(c.Provide(sqlxrepos.NewResultRepository, dig.As(new(result.Repository))))
	must(c.Provide(sqlxrepos.NewDocumentRepository, dig.As(new(document.Repository))))
	must(c.Provide(sqlxrepos.NewDashboardRepository, dig.As(new(dashboard.Repository))))

	// services
	must(c.Provide(newTokenService))
	must(c.Provide(auth.NewService))
	must(c.Provide(student.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(fee.NewService))
	must(c.Provide(result.NewService))
	must(c.Provide(document.NewService))
	must(c.Provide(dashboard.NewService))

	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
