package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/audition"
)

type auditionAPI struct {
	svc audition.Service
}

func registerAuditionAPI(g *echo.Group, jwtMid echo.MiddlewareFunc, svc audition.Service) {
	api := auditionAPI{svc: svc}
	staff := staffMiddleware()

	dg := g.Group("/audition-dates", jwtMid, staff)
	dg.POST("", api.create)
	dg.GET("", api.queryByYear)
	dg.GET("/:id", api.retrieve)
	dg.DELETE("/:id", api.destroy)

	sg := g.Group("/audition-slots", jwtMid, staff)
	sg.PUT("/:id/status", api.updateStatus)
	sg.PUT("/:id/notes", api.updateNotes)
}

func (api auditionAPI) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(audition.NewAuditionDate)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	d, err := api.svc.Create(claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api auditionAPI) queryByYear(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	yearID, _ := strconv.Atoi(ctx.QueryParam("program_year_id"))
	dates, err := api.svc.QueryByYear(yearID, claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dates)
}

func (api auditionAPI) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	d, err := api.svc.Get(intParam(ctx, "id"), claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, d)
}

func (api auditionAPI) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Delete(intParam(ctx, "id"), claims.OrgID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api auditionAPI) updateStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(audition.UpdateSlotStatus)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}

	slot, err := api.svc.UpdateStatus(intParam(ctx, "id"), claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slot)
}

func (api auditionAPI) updateNotes(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(audition.UpdateSlotNotes)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}

	slot, err := api.svc.UpdateNotes(intParam(ctx, "id"), claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, slot)
}
