package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/event"
)

type eventAPI struct {
	svc event.Service
}

func registerEventAPI(g *echo.Group, jwtMid echo.MiddlewareFunc, svc event.Service) {
	api := eventAPI{svc: svc}
	staff := staffMiddleware()

	vg := g.Group("/venues", jwtMid, staff)
	vg.POST("", api.createVenue)
	vg.GET("", api.queryVenues)
	vg.DELETE("/:id", api.destroyVenue)

	eg := g.Group("/events", jwtMid, staff)
	eg.POST("", api.create)
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)
	eg.DELETE("/:id", api.destroy)
	eg.PUT("/:id/attendance/:memberID", api.setAttendance)
	eg.GET("/:id/attendance", api.queryAttendance)
}

func (api eventAPI) createVenue(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(event.NewVenue)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	v, err := api.svc.CreateVenue(claims.OrgID, *data)
	if err != nil {
		return errors.Wrap(err, "creating venue")
	}
	return ctx.JSON(http.StatusCreated, v)
}

func (api eventAPI) queryVenues(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	venues, err := api.svc.QueryVenues(claims.OrgID)
	if err != nil {
		return errors.Wrap(err, "querying venues")
	}
	return ctx.JSON(http.StatusOK, venues)
}

func (api eventAPI) destroyVenue(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.DeleteVenue(intParam(ctx, "id"), claims.OrgID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api eventAPI) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(event.NewEvent)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	e, err := api.svc.Create(claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api eventAPI) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var events []event.Event
	if projectID, _ := strconv.Atoi(ctx.QueryParam("project_id")); projectID != 0 {
		events, err = api.svc.QueryByProject(projectID, claims.OrgID)
	} else {
		events, err = api.svc.Query(claims.OrgID)
	}
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api eventAPI) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	e, err := api.svc.GetByID(intParam(ctx, "id"), claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api eventAPI) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Delete(intParam(ctx, "id"), claims.OrgID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api eventAPI) setAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(event.SetAttendance)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	a, err := api.svc.SetAttendance(intParam(ctx, "id"), intParam(ctx, "memberID"), claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api eventAPI) queryAttendance(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	records, err := api.svc.QueryAttendance(intParam(ctx, "id"), claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}
