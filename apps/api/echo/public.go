package echoapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/event"
	"github.com/chorale-hq/chorale/core/org"
)

// publicAPI serves the unauthenticated surface: audition sign-up and the
// read-only calendar feed. Nothing here may leak claimant details.
type publicAPI struct {
	auditionSvc audition.Service
	orgSvc      org.Service
	eventSvc    event.Service
}

func registerPublicAPI(g *echo.Group, auditionSvc audition.Service, orgSvc org.Service, eventSvc event.Service) {
	api := publicAPI{auditionSvc: auditionSvc, orgSvc: orgSvc, eventSvc: eventSvc}

	pg := g.Group("/public")
	pg.GET("/auditions/:id", api.retrieveAuditionDate)
	pg.POST("/auditions/slots/:id/signup", api.signUp)
	pg.GET("/calendar/:token", api.calendarFeed)
}

func (api publicAPI) retrieveAuditionDate(ctx echo.Context) error {
	d, err := api.auditionSvc.GetPublic(intParam(ctx, "id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api publicAPI) signUp(ctx echo.Context) error {
	data := new(audition.SignUp)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}

	slot, err := api.auditionSvc.SignUp(intParam(ctx, "id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, audition.PublicSlot{
		ID:          slot.ID,
		StartsAt:    slot.StartsAt,
		IsAvailable: slot.IsAvailable(),
	})
}

func (api publicAPI) calendarFeed(ctx echo.Context) error {
	token := strings.TrimSuffix(ctx.Param("token"), ".ics")

	o, err := api.orgSvc.GetByFeedToken(token)
	if err != nil {
		return errHttpNotFound
	}
	ics, err := api.eventSvc.Feed(o.ID, o.Name)
	if err != nil {
		return errors.Wrap(err, "rendering calendar feed")
	}
	return ctx.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
