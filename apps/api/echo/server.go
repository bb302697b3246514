// Package echoapi exposes the application over HTTP via the echo framework.
package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/chorale-hq/chorale/core"
	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/dashboard"
	"github.com/chorale-hq/chorale/core/event"
	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/org"
	"github.com/chorale-hq/chorale/core/program"
	"github.com/chorale-hq/chorale/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger       core.Logger
		UserSvc      user.Service
		OrgSvc       org.Service
		MemberSvc    member.Service
		ProgramSvc   program.Service
		EventSvc     event.Service
		AuditionSvc  audition.Service
		DashboardSvc dashboard.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
		// ShutdownSignal is closed when a fatal error requires the
		// process to shut the server down.
		ShutdownSignal() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerMemberAPI(v1, jwt, s.opts.MemberSvc)
	registerProgramAPI(v1, jwt, s.opts.ProgramSvc)
	registerEventAPI(v1, jwt, s.opts.EventSvc)
	registerAuditionAPI(v1, jwt, s.opts.AuditionSvc)
	registerDashboardAPI(v1, jwt, s.opts.DashboardSvc)
	registerPublicAPI(v1, s.opts.AuditionSvc, s.opts.OrgSvc, s.opts.EventSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ShutdownSignal() <-chan struct{} { return s.shutdown }

func (s *server) signalShutdown() {
	defer func() { recover() }() // the channel may already be closed
	close(s.shutdown)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
