package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/core/document"
	"github.com/trezcool/vidyalaya/tests"
)

const adminPwd = "Sup3r$ecret"

func setup(t *testing.T) (*commandLine, *testutil.App) {
	app := testutil.NewApp(t)

	// start CLI
	return &commandLine{
		conf:    app.Conf,
		authSvc: app.AuthSvc,
		docSvc:  app.DocumentSvc,
	}, app
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantErrFn  func(error) bool
	extra      interface{}
}

// checkErr fails t unless err matches what tt expects.
func checkErr(t *testing.T, tt cliTest, err error) {
	switch {
	case err == nil:
		if tt.wantErr != nil || tt.wantErrStr != "" || tt.wantErrFn != nil {
			t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
		}
	case tt.wantErr != nil:
		if errors.Cause(err) != tt.wantErr {
			t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
		}
	case tt.wantErrFn != nil:
		if !tt.wantErrFn(err) {
			t.Errorf("cli.run() unexpected error = %v", err)
		}
	case tt.wantErrStr != "":
		if err.Error() != tt.wantErrStr {
			t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
		}
	default:
		t.Errorf("cli.run() unexpected error = %v", err)
	}
}

func isValidationError(err error) bool {
	_, ok := errors.Cause(err).(validator.ValidationErrors)
	return ok
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var ran []string
	origMigrateFunc := migrateFunc
	t.Cleanup(func() { migrateFunc = origMigrateFunc })
	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		ran = append(ran, command)
		return nil
	}

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "down-to", args: []string{"migrate", "down-to", "1"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_sections", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	want := []string{"up", "up-to", "down", "down-to", "status", "create"}
	if fmt.Sprint(ran) != fmt.Sprint(want) {
		t.Errorf("migrations ran = %v, want %v", ran, want)
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli, app := setup(t)
	testutil.CreateAdmin(t, app, "principal", adminPwd)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"adduser", "-username", "clerk"}, wantErr: errHelp},
		{name: "username taken", args: []string{"adduser", "-username", "principal"}, extra: extra{pwd: "An0ther$ecret"}, wantErr: auth.ErrAdminExists},
		{name: "weak password", args: []string{"adduser", "-username", "clerk"}, extra: extra{pwd: "password"}, wantErrFn: isValidationError},
		{name: "created", args: []string{"adduser", "-username", "clerk"}, extra: extra{pwd: "Cl3rk#Desk"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	if _, err := app.AuthSvc.AuthenticateAdmin(context.Background(), auth.AdminLogin{Username: "clerk", Password: "Cl3rk#Desk"}); err != nil {
		t.Errorf("AuthenticateAdmin() error = %v", err)
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, app := setup(t)
	testutil.CreateAdmin(t, app, "principal", adminPwd)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "admin not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "N3w$ecret!"}, wantErr: auth.ErrAdminNotFound},
		{name: "reset", args: []string{"resetpassword", "-username", "principal"}, extra: extra{pwd: "N3w$ecret!"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			checkErr(t, tt, cli.run(args))
		})
	}

	ctx := context.Background()
	if _, err := app.AuthSvc.AuthenticateAdmin(ctx, auth.AdminLogin{Username: "principal", Password: adminPwd}); err == nil {
		t.Error("old password still accepted")
	}
	if _, err := app.AuthSvc.AuthenticateAdmin(ctx, auth.AdminLogin{Username: "principal", Password: "N3w$ecret!"}); err != nil {
		t.Errorf("AuthenticateAdmin() with new password error = %v", err)
	}
}

func Test_commandLine_seed(t *testing.T) {
	cli, app := setup(t)

	for i := 0; i < 2; i++ {
		if err := cli.run([]string{"admin", "seed"}); err != nil {
			t.Fatalf("cli.run(seed) #%d error = %v", i, err)
		}
	}

	login := auth.AdminLogin{Username: app.Conf.Admin.DefaultUsername, Password: app.Conf.Admin.DefaultPassword}
	if _, err := app.AuthSvc.AuthenticateAdmin(context.Background(), login); err != nil {
		t.Errorf("AuthenticateAdmin() with seeded admin error = %v", err)
	}
}

func Test_commandLine_normalizePaths(t *testing.T) {
	cli, app := setup(t)
	ctx := context.Background()

	legacy := []string{`NOTICE\holiday.pdf`, "uploads/EVENT/sports.pdf", "uploads/circular/ok.pdf"}
	ids := make([]int, len(legacy))
	for i, p := range legacy {
		doc := testutil.CreateDocument(t, app, document.Document{Title: "doc", Category: document.CategoryNotice, FilePath: p, IsPublic: true})
		ids[i] = doc.ID
	}

	if err := cli.run([]string{"admin", "normalizepaths"}); err != nil {
		t.Fatalf("cli.run(normalizepaths) error = %v", err)
	}

	want := []string{"uploads/notice/holiday.pdf", "uploads/event/sports.pdf", "uploads/circular/ok.pdf"}
	for i, id := range ids {
		doc, err := app.DocumentSvc.Get(ctx, id, auth.AdminPrincipal{ID: 1})
		if err != nil {
			t.Fatalf("DocumentSvc.Get() error = %v", err)
		}
		if doc.FilePath != want[i] {
			t.Errorf("FilePath = %s, want %s", doc.FilePath, want[i])
		}
	}

	updated, err := app.DocumentSvc.NormalizeLegacyPaths(ctx)
	if err != nil {
		t.Fatalf("NormalizeLegacyPaths() error = %v", err)
	}
	if updated != 0 {
		t.Errorf("second normalization updated %d documents, want 0", updated)
	}
}
