package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/program"
)

type programAPI struct {
	svc program.Service
}

func registerProgramAPI(g *echo.Group, jwtMid echo.MiddlewareFunc, svc program.Service) {
	api := programAPI{svc: svc}
	staff := staffMiddleware()

	yg := g.Group("/program-years", jwtMid, staff)
	yg.POST("", api.createYear)
	yg.GET("", api.queryYears)
	yg.GET("/:id", api.retrieveYear)
	yg.DELETE("/:id", api.destroyYear)

	pg := g.Group("/projects", jwtMid, staff)
	pg.POST("", api.createProject)
	pg.GET("", api.queryProjects)
	pg.GET("/:id", api.retrieveProject)
	pg.PUT("/:id", api.updateProject)
	pg.DELETE("/:id", api.destroyProject)
}

func (api programAPI) createYear(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(program.NewProgramYear)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	py, err := api.svc.CreateYear(claims.OrgID, *data)
	if err != nil {
		return errors.Wrap(err, "creating program year")
	}
	return ctx.JSON(http.StatusCreated, py)
}

func (api programAPI) queryYears(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	years, err := api.svc.QueryYears(claims.OrgID)
	if err != nil {
		return errors.Wrap(err, "querying program years")
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api programAPI) retrieveYear(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	py, err := api.svc.GetYear(intParam(ctx, "id"), claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, py)
}

func (api programAPI) destroyYear(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.DeleteYear(intParam(ctx, "id"), claims.OrgID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api programAPI) createProject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(program.NewProject)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	p, err := api.svc.CreateProject(claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api programAPI) queryProjects(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	yearID, _ := strconv.Atoi(ctx.QueryParam("program_year_id"))
	projects, err := api.svc.QueryProjectsByYear(yearID, claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (api programAPI) retrieveProject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	p, err := api.svc.GetProject(intParam(ctx, "id"), claims.OrgID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api programAPI) updateProject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(program.UpdateProject)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	p, err := api.svc.UpdateProject(intParam(ctx, "id"), claims.OrgID, *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api programAPI) destroyProject(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if err := api.svc.DeleteProject(intParam(ctx, "id"), claims.OrgID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
