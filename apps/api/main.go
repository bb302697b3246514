package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	echoapi "github.com/chorale-hq/chorale/apps/api/echo"
	"github.com/chorale-hq/chorale/core"
	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/dashboard"
	"github.com/chorale-hq/chorale/core/event"
	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/org"
	"github.com/chorale-hq/chorale/core/program"
	"github.com/chorale-hq/chorale/core/user"
	emailsvc "github.com/chorale-hq/chorale/services/email"
	logsvc "github.com/chorale-hq/chorale/services/logger"
	"github.com/chorale-hq/chorale/storage/database"
	sqlxrepos "github.com/chorale-hq/chorale/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	if err := run(std); err != nil {
		std.Fatalf("main error: %+v", err)
	}
}

func run(std *log.Logger) error {
	var appLogger core.Logger
	var mailSvc core.EmailService
	if core.Conf.Debug {
		appLogger = logsvc.NewStdLogger(std)
		mailSvc = emailsvc.NewConsoleService()
	} else {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
		mailSvc = emailsvc.NewSendgridService(appLogger)
	}

	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return errors.Wrap(err, "creating database")
	}
	db, err := database.Open(core.Conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer db.Close()

	if err = database.Migrate(db); err != nil {
		return errors.Wrap(err, "migrating database")
	}

	orgSvc := org.NewService(sqlxrepos.NewOrganizationRepository(db))
	userSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	memberSvc := member.NewService(sqlxrepos.NewMemberRepository(db))
	programSvc := program.NewService(sqlxrepos.NewProgramRepository(db))
	eventSvc := event.NewService(sqlxrepos.NewEventRepository(db))
	auditionSvc := audition.NewService(sqlxrepos.NewAuditionRepository(db), memberSvc, orgSvc, mailSvc)
	dashboardSvc := dashboard.NewService(sqlxrepos.NewDashboardRepository(db))

	app := echoapi.NewServer(&echoapi.Options{
		Address:      core.Conf.Server.Address(),
		Logger:       appLogger,
		UserSvc:      userSvc,
		OrgSvc:       orgSvc,
		MemberSvc:    memberSvc,
		ProgramSvc:   programSvc,
		EventSvc:     eventSvc,
		AuditionSvc:  auditionSvc,
		DashboardSvc: dashboardSvc,
	})

	serverErrors := make(chan error, 1)
	go func() {
		appLogger.Info("api server listening on " + core.Conf.Server.Address())
		serverErrors <- app.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-serverErrors:
		return errors.Wrap(err, "server error")
	case <-app.ShutdownSignal():
		appLogger.Warn("integrity issue detected: shutting down")
	case sig := <-quit:
		appLogger.Info("received signal " + sig.String() + ": shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = app.Stop(ctx); err != nil {
		return errors.Wrap(err, "stopping server gracefully")
	}
	return nil
}
