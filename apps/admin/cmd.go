package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/vidyalaya/core"
	"github.com/trezcool/vidyalaya/core/auth"
	"github.com/trezcool/vidyalaya/core/document"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	db      *sql.DB
	authSvc *auth.Service
	docSvc  *document.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, ...)")
	fmt.Println("  adduser -username USERNAME - create an admin account")
	fmt.Println("  resetpassword -username USERNAME - reset an admin's password")
	fmt.Println("  seed - create the default admin if missing")
	fmt.Println("  normalizepaths - rewrite legacy document paths")
}

// promptPassword reads a password from the terminal without echoing it.
func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserUname := addUserCmd.String("username", "", "The admin's username. The password will be prompted next.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The admin's username. The password will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "adduser", "resetpassword":
		cmd, uname := addUserCmd, addUserUname
		if args[1] == "resetpassword" {
			cmd, uname = resetPasswordCmd, resetPasswordUname
		}
		if err := cmd.Parse(args[2:]); err != nil {
			return err
		}
		if *uname == "" {
			cmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			cmd.Usage()
			return errHelp
		}
		if args[1] == "adduser" {
			return cli.addUser(*uname, pwd)
		}
		return cli.resetPassword(*uname, pwd)
	case "seed":
		return cli.seed()
	case "normalizepaths":
		return cli.normalizePaths()
	default:
		cli.printUsage()
		return errHelp
	}
}
