package echoapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core/user"
)

func TestUserAPI(t *testing.T) {
	adminToken := getToken(t, adminUsr)
	staffToken := getToken(t, staffUsr)
	plainToken := getToken(t, plainUsr)

	tests := []httpTest{
		{
			name: "login requires credentials", method: http.MethodPost, path: "/v1/users/login",
			body: echo.Map{}, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "login rejects bad credentials", method: http.MethodPost, path: "/v1/users/login",
			body: LoginRequest{Username: "ada.admin", Password: "nope"}, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "login returns a token", method: http.MethodPost, path: "/v1/users/login",
			body: LoginRequest{Username: "ada.admin", Password: testUserPwd}, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp LoginResponse
				unmarchallObj(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			},
		},
		{
			name: "token refresh", method: http.MethodPost, path: "/v1/users/token-refresh",
			token: plainToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp LoginResponse
				unmarchallObj(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			},
		},
		{
			name: "query requires a token", method: http.MethodGet, path: "/v1/users",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "query is admin only", method: http.MethodGet, path: "/v1/users",
			token: staffToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "admin lists only their org's users", method: http.MethodGet, path: "/v1/users",
			token: adminToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var users []user.User
				unmarchallObj(t, rec, &users)
				require.GreaterOrEqual(t, len(users), 3)
				for _, usr := range users {
					assert.Equal(t, testOrg.ID, usr.OrgID)
					assert.NotEqual(t, otherUsr.ID, usr.ID)
				}
			},
		},
		{
			name: "roles listing", method: http.MethodGet, path: "/v1/users/roles",
			token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, user.Roles),
		},
		{
			name: "users may retrieve themselves", method: http.MethodGet,
			path: fmt.Sprintf("/v1/users/%d", plainUsr.ID),
			token: plainToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var usr user.User
				unmarchallObj(t, rec, &usr)
				assert.Equal(t, plainUsr.ID, usr.ID)
				assert.NotContains(t, rec.Body.String(), "password")
			},
		},
		{
			name: "users may not retrieve others", method: http.MethodGet,
			path: fmt.Sprintf("/v1/users/%d", staffUsr.ID),
			token: plainToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "admins cannot reach another org's user", method: http.MethodGet,
			path: fmt.Sprintf("/v1/users/%d", otherUsr.ID),
			token: adminToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "password reset request", method: http.MethodPost, path: "/v1/users/password-reset",
			body: PasswordResetRequest{Email: "sam@example.com"}, wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "password reset email sent"}),
		},
		{
			name: "password reset does not reveal unknown emails", method: http.MethodPost,
			path: "/v1/users/password-reset",
			body: PasswordResetRequest{Email: "nobody@example.com"}, wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "password reset email sent"}),
		},
		{
			name: "password reset confirm rejects a bad token", method: http.MethodPost,
			path: "/v1/users/password-reset-confirm",
			body: user.ResetUserPassword{
				Token: "bad-token", UID: "AbCd",
				Password: testUserPwd, PasswordConfirm: testUserPwd,
			},
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid token"}),
		},
	}
	for _, tt := range tests {
		tt.run(t)
	}
}

func TestUserAPIUpdate(t *testing.T) {
	usr, err := tUserSvc.Create(testOrg.ID, user.NewUser{
		Name: "Renate Singer", Username: "renate.s", Email: "renate@example.com",
		Password: testUserPwd, PasswordConfirm: testUserPwd,
	})
	require.NoError(t, err)
	token := getToken(t, usr)

	httpTest{
		name: "user renames themselves", method: http.MethodPut,
		path: fmt.Sprintf("/v1/users/%d", usr.ID),
		body: echo.Map{"name": "Renate S. Singer"}, token: token, wantCode: http.StatusOK,
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			var got user.User
			unmarchallObj(t, rec, &got)
			assert.Equal(t, "Renate S. Singer", got.Name)
		},
	}.run(t)

	httpTest{
		name: "non-admin cannot grant themselves roles", method: http.MethodPut,
		path: fmt.Sprintf("/v1/users/%d", usr.ID),
		body: echo.Map{"roles": []string{user.RoleAdmin}}, token: token, wantCode: http.StatusOK,
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			var got user.User
			unmarchallObj(t, rec, &got)
			assert.Empty(t, got.Roles)
		},
	}.run(t)

	httpTest{
		name: "admin deletes the user", method: http.MethodDelete,
		path:  fmt.Sprintf("/v1/users/%d", usr.ID),
		token: getToken(t, adminUsr), wantCode: http.StatusNoContent,
	}.run(t)
}
