package main

import (
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/storage/database"
)

func (cmd *commandLine) migrate(args []string) error {
	fset := flag.NewFlagSet("migrate", flag.ContinueOnError)
	if err := fset.Parse(args); err != nil {
		return errHelp
	}

	if err := database.Migrate(cmd.db); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	fmt.Println("migrations applied")
	return nil
}
