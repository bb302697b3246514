package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/chorale-hq/chorale/core"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}

	DestroyMultipleRequest struct {
		IDs []int `query:"id"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return core.Validate.Struct(lr)
}

func (pr *PasswordResetRequest) Validate() error {
	pr.Email = core.CleanString(pr.Email, true /* lower */)
	return core.Validate.Struct(pr)
}

// intParam parses a numeric path parameter; a malformed value reads as 0
// and falls through to the not-found paths.
func intParam(ctx echo.Context, name string) int {
	id, _ := strconv.Atoi(ctx.Param(name))
	return id
}
