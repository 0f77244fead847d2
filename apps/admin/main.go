package main

import (
	"log"
	"os"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/core/document"
	logsvc "github.com/trezcool/vidyalaya/services/logger"
	"github.com/trezcool/vidyalaya/storage/blob"
	"github.com/trezcool/vidyalaya/storage/database"
	sqlxrepos "github.com/trezcool/vidyalaya/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	// set up services
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	auth.InitValidators(validate, translator)

	tokens, err := auth.NewTokenService(conf)
	errAndDie(err)
	blobs, err := blob.NewStore(conf)
	errAndDie(err)

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!conf.Debug)

	// start CLI
	cli := commandLine{
		conf:    conf,
		db:      db.DB,
		authSvc: auth.NewService(sqlxrepos.NewAdminRepository(db), sqlxrepos.NewStudentRepository(db), tokens, validate),
		docSvc: document.NewService(
			database.NewTransactor(db),
			sqlxrepos.NewDocumentRepository(db),
			blobs,
			appLogger,
		),
	}
	if err = cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		_ = db.Close()
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
