package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/dashboard"
)

type dashboardAPI struct {
	svc dashboard.Service
}

func registerDashboardAPI(g *echo.Group, jwtMid echo.MiddlewareFunc, svc dashboard.Service) {
	api := dashboardAPI{svc: svc}
	g.GET("/dashboard", api.summarize, jwtMid, staffMiddleware())
}

func (api dashboardAPI) summarize(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	yearID, _ := strconv.Atoi(ctx.QueryParam("program_year_id"))
	summary, err := api.svc.Summarize(claims.OrgID, yearID)
	if err != nil {
		return errors.Wrap(err, "summarizing")
	}
	return ctx.JSON(http.StatusOK, summary)
}
