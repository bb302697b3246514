// Command admin groups administrative tasks: database migrations,
// organization bootstrap, staff account management.
package main

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core"
	"github.com/chorale-hq/chorale/core/org"
	"github.com/chorale-hq/chorale/core/user"
	emailsvc "github.com/chorale-hq/chorale/services/email"
	"github.com/chorale-hq/chorale/storage/database"
	sqlxrepos "github.com/chorale-hq/chorale/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lshortfile)
	if err := run(std, os.Args); err != nil {
		if errors.Cause(err) == errHelp {
			os.Exit(2)
		}
		std.Fatalf("main error: %+v", err)
	}
}

func run(std *log.Logger, args []string) error {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return errors.Wrap(err, "creating database")
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()

	mailSvc := emailsvc.NewConsoleService()
	cmd := &commandLine{
		db:      db,
		orgSvc:  org.NewService(sqlxrepos.NewOrganizationRepository(db)),
		userSvc: user.NewService(sqlxrepos.NewUserRepository(db), mailSvc),
	}
	return cmd.run(args)
}
