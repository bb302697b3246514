package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/user"
)

type userAPI struct {
	svc user.Service
}

func registerUserAPI(g *echo.Group, jwtMid echo.MiddlewareFunc, svc user.Service) {
	api := userAPI{svc: svc}

	ug := g.Group("/users")

	// un-authed endpoints
	ug.POST("/login", api.login)
	ug.POST("/password-reset", api.resetPassword)
	ug.POST("/password-reset-confirm", api.confirmPasswordReset)

	ag := ug.Group("", jwtMid)
	ag.POST("/token-refresh", api.refreshToken)

	admin := adminMiddleware()
	ag.POST("", api.create, admin)
	ag.GET("", api.query, admin)
	ag.DELETE("", api.destroyMultiple, admin)
	ag.GET("/roles", api.queryRoles, admin)

	dg := ag.Group("/:id", api.ctxUserOrAdminMiddleware())
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, admin)
}

// ctxUserOrAdminMiddleware only lets a user through to their own detail
// endpoints; admins may access any user's.
func (api userAPI) ctxUserOrAdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin || claims.UserID() == intParam(ctx, "id") {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// getOrgUser fetches the user at :id, hiding users of other organizations.
func (api userAPI) getOrgUser(ctx echo.Context) (user.User, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, errors.Wrap(err, "getting context claims")
	}
	usr, err := api.svc.GetByID(intParam(ctx, "id"))
	if err != nil {
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	if usr.OrgID != claims.OrgID {
		return user.User{}, errHttpNotFound
	}
	return usr, nil
}

func (api userAPI) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(data.Username, data.Password, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api userAPI) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api userAPI) resetPassword(ctx echo.Context) error {
	data := new(PasswordResetRequest)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// an unknown email reads the same as a known one
	if err := api.svc.RequestPasswordReset(data.Email); err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return errors.Wrap(err, "requesting password reset")
		}
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "password reset email sent"})
}

func (api userAPI) confirmPasswordReset(ctx echo.Context) error {
	data := new(user.ResetUserPassword)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if err := api.svc.ResetPassword(*data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "password has been reset"})
}

func (api userAPI) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(user.NewUser)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	usr, err := api.svc.Create(claims.OrgID, *data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api userAPI) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	users, err := api.svc.QueryByOrg(claims.OrgID)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api userAPI) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, user.Roles)
}

func (api userAPI) retrieve(ctx echo.Context) error {
	usr, err := api.getOrgUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api userAPI) update(ctx echo.Context) error {
	usr, err := api.getOrgUser(ctx)
	if err != nil {
		return err
	}

	data := new(user.UpdateUser)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}
	if err := data.Validate(usr, api.svc); err != nil {
		return err
	}

	// only admins may change roles or (de)activate accounts
	if claims, err := getContextClaims(ctx); err == nil && !claims.IsAdmin {
		data.Roles = nil
		data.IsActive = nil
	}

	usr, err = api.svc.Update(usr.ID, *data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api userAPI) destroy(ctx echo.Context) error {
	usr, err := api.getOrgUser(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(usr.ID); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api userAPI) destroyMultiple(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := new(DestroyMultipleRequest)
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding data")
	}

	// keep IDs scoped to the caller's organization
	var ids []int
	for _, id := range data.IDs {
		if usr, err := api.svc.GetByID(id); err == nil && usr.OrgID == claims.OrgID {
			ids = append(ids, id)
		}
	}
	if len(ids) > 0 {
		if err := api.svc.Delete(ids...); err != nil {
			return errors.Wrap(err, "deleting users")
		}
	}
	return ctx.NoContent(http.StatusNoContent)
}
