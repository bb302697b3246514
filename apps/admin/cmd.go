package main

import (
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/chorale-hq/chorale/core/org"
	"github.com/chorale-hq/chorale/core/user"
)

var (
	errHelp = errors.New("provided help")

	// readPasswordFunc is a variable so tests can swap the prompt out.
	readPasswordFunc = term.ReadPassword
)

type commandLine struct {
	db      *sqlx.DB
	orgSvc  org.Service
	userSvc user.Service
}

func (cmd *commandLine) run(args []string) error {
	if len(args) < 2 {
		cmd.usage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		return cmd.migrate(args[2:])
	case "createorg":
		return cmd.createOrg(args[2:])
	case "addstaff":
		return cmd.addStaff(args[2:])
	case "resetpassword":
		return cmd.resetPassword(args[2:])
	case "help":
		cmd.usage()
		return errHelp
	default:
		fmt.Printf("unknown command %q\n\n", args[1])
		cmd.usage()
		return errHelp
	}
}

func (cmd *commandLine) usage() {
	fmt.Print(`Usage: admin <command> [options]

Commands:
  migrate        apply pending database migrations
  createorg      create an organization
  addstaff       create a staff user within an organization
  resetpassword  set a new password for an existing user
  help           show this help
`)
}

// promptPassword reads the password twice without echoing it.
func (cmd *commandLine) promptPassword() (string, error) {
	fmt.Print("Password: ")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}

	fmt.Print("Confirm password: ")
	confirm, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", errors.Wrap(err, "reading password confirmation")
	}

	if string(pwd) != string(confirm) {
		return "", errors.New("passwords do not match")
	}
	return string(pwd), nil
}
