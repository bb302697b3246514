package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/member"
)

type memberAPI struct {
	svc member.Service
}

func registerMemberAPI(g *echo.Group, jwtMid echo.MiddlewareFunc, svc member.Service) {
	api := memberAPI{svc: svc}

	mg := g.Group("/members", jwtMid, staffMiddleware())
	mg.POST("", api.create)
	mg.GET("", api.filter)
	mg.DELETE("", api.destroyMultiple)
	mg.GET("/:id", api.retrieve)
	mg.PUT("/:id", api.update)
	mg.DELETE("/:id", api.destroy)
}

func (api memberAPI) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(member.NewMember)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	m, err := api.svc.Create(claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, m)
}

func (api memberAPI) filter(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	filter := new(member.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding filter")
	}

	members, err := api.svc.Filter(claims.OrgID, *filter)
	if err != nil {
		return errors.Wrap(err, "filtering members")
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api memberAPI) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	m, err := api.svc.GetByID(intParam(ctx, "id"), claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api memberAPI) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(member.UpdateMember)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	m, err := api.svc.Update(intParam(ctx, "id"), claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, m)
}

func (api memberAPI) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.Delete(claims.OrgID, intParam(ctx, "id")); err != nil {
		return errors.Wrap(err, "deleting member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api memberAPI) destroyMultiple(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(DestroyMultipleRequest)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if len(data.IDs) > 0 {
		if err := api.svc.Delete(claims.OrgID, data.IDs...); err != nil {
			return errors.Wrap(err, "deleting members")
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}
