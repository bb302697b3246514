package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/user"
)

func (cmd *commandLine) addStaff(args []string) error {
	fset := flag.NewFlagSet("addstaff", flag.ContinueOnError)
	orgSlug := fset.String("org", "", "organization slug (required)")
	name := fset.String("name", "", "full name (required)")
	username := fset.String("username", "", "login username (required)")
	email := fset.String("email", "", "email address")
	admin := fset.Bool("admin", false, "grant the admin role as well")
	if err := fset.Parse(args); err != nil {
		return errHelp
	}

	o, err := cmd.orgSvc.GetBySlug(*orgSlug)
	if err != nil {
		return errors.Wrap(err, "finding organization")
	}

	pwd, err := cmd.promptPassword()
	if err != nil {
		return err
	}

	roles := []string{user.RoleStaff}
	if *admin {
		roles = append(roles, user.RoleAdmin)
	}
	nu := user.NewUser{
		Name:            *name,
		Username:        *username,
		Email:           *email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	}
	if err = nu.Validate(cmd.userSvc); err != nil {
		return errors.Wrap(err, "validating user")
	}

	usr, err := cmd.userSvc.Create(o.ID, nu)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	fmt.Printf("user %q created (id=%d) in organization %q\n", usr.Username, usr.ID, o.Name)
	return nil
}
