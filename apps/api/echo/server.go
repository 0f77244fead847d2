package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/attendance"
	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/core/dashboard"
	"github.com/trezcool/vidyalaya/core/document"
	"github.com/trezcool/vidyalaya/core/fee"
	"github.com/trezcool/vidyalaya/core/result"
	"github.com/trezcool/vidyalaya/core/student"
)

type ServerDeps struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

	AuthSvc       *auth.Service
	StudentSvc    *student.Service
	AttendanceSvc *attendance.Service
	FeeSvc        *fee.Service
	ResultSvc     *result.Service
	DocumentSvc   *document.Service
	DashboardSvc  *dashboard.Service

	// UploadRoot is the directory holding the uploads/ tree; empty when files live in a remote
	// blob store, in which case no static routes are mounted.
	UploadRoot     string
	DisableReqLogs bool
}

type Server struct {
	deps     ServerDeps
	app      *echo.Echo
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOriginFunc:  allowOrigin(conf.CORS, s.deps.Logger),
		AllowCredentials: true,
	}))
	s.app.Use(metricsMiddleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)

	s.app.GET("/health", health)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if root := s.deps.UploadRoot; root != "" {
		s.app.Static("/uploads", filepath.Join(root, document.RootDir))
		s.app.Static("/notice", filepath.Join(root, filepath.FromSlash(document.CategoryNotice.Dir())))
	}

	jwt := jwtMiddleware(s.deps.AuthSvc, false)
	optionalJWT := jwtMiddleware(s.deps.AuthSvc, true)
	g := s.app.Group("")

	registerAuthAPI(g, s.deps.AuthSvc, s.deps.Validate)
	registerStudentAPI(g, jwt, s.deps.StudentSvc, s.deps.Validate)
	registerAttendanceAPI(g, jwt, s.deps.AttendanceSvc, s.deps.Validate)
	registerFeeAPI(g, jwt, s.deps.FeeSvc, s.deps.Validate)
	registerResultAPI(g, jwt, s.deps.ResultSvc, s.deps.Validate)
	registerDashboardAPI(g, jwt, s.deps.DashboardSvc)
	registerDocumentAPI(g, jwt, optionalJWT, s.deps.DocumentSvc, s.deps.Validate)
	registerPortalAPI(g, jwt, portalServices{
		students:   s.deps.StudentSvc,
		attendance: s.deps.AttendanceSvc,
		fees:       s.deps.FeeSvc,
		results:    s.deps.ResultSvc,
		documents:  s.deps.DocumentSvc,
	})
	registerPublicAPI(g, s.deps.DocumentSvc, conf)
	registerProbeAPI(g, jwt)
}

// allowOrigin accepts the configured origins plus any origin matching the configured pattern.
func allowOrigin(conf core.CORSConfig, logger core.Logger) func(origin string) (bool, error) {
	allowed := make(map[string]struct{}, len(conf.AllowOrigins))
	for _, o := range conf.AllowOrigins {
		allowed[o] = struct{}{}
	}
	var pattern *regexp.Regexp
	if conf.AllowOriginRegex != "" {
		var err error
		if pattern, err = regexp.Compile("^(?:" + conf.AllowOriginRegex + ")$"); err != nil {
			logger.Error("invalid CORS origin pattern", err, map[string]interface{}{"pattern": conf.AllowOriginRegex})
		}
	}
	return func(origin string) (bool, error) {
		if _, ok := allowed[origin]; ok {
			return true, nil
		}
		return pattern != nil && pattern.MatchString(origin), nil
	}
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors reports fatal errors of the listener.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal is notified on SIGINT, SIGTERM and when a handler hits a shutdown error.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
