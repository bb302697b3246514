package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/user"
)

func (cmd *commandLine) resetPassword(args []string) error {
	fset := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	username := fset.String("username", "", "username or email of the account (required)")
	if err := fset.Parse(args); err != nil {
		return errHelp
	}

	usr, err := cmd.userSvc.GetByUsernameOrEmail(*username)
	if err != nil {
		return errors.Wrap(err, "finding user")
	}

	pwd, err := cmd.promptPassword()
	if err != nil {
		return err
	}

	uu := user.UpdateUser{Password: pwd, PasswordConfirm: pwd}
	if err = uu.Validate(usr, cmd.userSvc); err != nil {
		return errors.Wrap(err, "validating password")
	}
	if _, err = cmd.userSvc.Update(usr.ID, uu); err != nil {
		return errors.Wrap(err, "updating user")
	}

	fmt.Printf("password updated for %q\n", usr.Username)
	return nil
}
