package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	"github.com/jmoiron/sqlx"

	dig_container "github.com/trezcool/vidyalaya/apps/api/di/dig"
	echoapi "github.com/trezcool/vidyalaya/apps/api/echo"
	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/core/document"
)

func main() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		authSvc *auth.Service,
		docSvc *document.Service,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		apiLogger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

		dbLogger := dbLoggerParam.Logger
		defer func() {
			if err := db.Close(); err != nil {
				dbLogger.Fatal("Failed to close", err)
			}
		}()
		defer apiLogger.Info("Application stopped")

		runStartupTasks(conf, apiLogger, authSvc, docSvc)

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		// Expose important info under /debug/vars.
		expvar.NewString("build").Set(conf.Build)
		expvar.NewString("env").Set(conf.Env)

		go func() {
			if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
				apiLogger.Error(fmt.Sprintf("debug server closed: %v", err), err)
			}
		}()

		// =========================================================================
		// Start API Service

		go func() {
			server.Start()
		}()

		// =========================================================================
		// Shutdown

		select {
		case err := <-server.Errors():
			apiLogger.Fatal(fmt.Sprintf("server error: %v", err), err)

		case sig := <-server.ShutdownSignal():
			apiLogger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

			// give outstanding requests a deadline for completion
			ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
			defer cancel()

			// asking listener to shut down and shed load
			if err := server.Shutdown(ctx); err != nil {
				apiLogger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

				if err = server.Close(); err != nil {
					apiLogger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
				}
			}
		}
	}))
}

// runStartupTasks seeds the default admin and rewrites legacy document paths.
// Both are idempotent, so they run on every start.
func runStartupTasks(conf *core.Config, logger core.Logger, authSvc *auth.Service, docSvc *document.Service) {
	ctx := context.Background()

	created, err := authSvc.SeedDefaultAdmin(ctx, conf.Admin.DefaultUsername, conf.Admin.DefaultPassword)
	if err != nil {
		logger.Fatal(fmt.Sprintf("seeding default admin: %v", err), err)
	}
	if created {
		logger.Info(fmt.Sprintf("default admin %q created", conf.Admin.DefaultUsername))
	}

	updated, err := docSvc.NormalizeLegacyPaths(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("normalizing legacy document paths: %v", err), err)
		return
	}
	if updated > 0 {
		logger.Info(fmt.Sprintf("normalized %d legacy document paths", updated))
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
