package echoapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core/member"
)

func TestMemberAPI(t *testing.T) {
	staffToken := getToken(t, staffUsr)
	plainToken := getToken(t, plainUsr)

	seeded, err := tMemberSvc.Create(testOrg.ID, member.NewMember{
		FirstName: "Lena", LastName: "Okafor",
		Email: "lena.okafor@example.com", VoicePart: member.VoiceAlto,
	})
	require.NoError(t, err)

	tests := []httpTest{
		{
			name: "requires a token", method: http.MethodGet, path: "/v1/members",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "staff only", method: http.MethodGet, path: "/v1/members",
			token: plainToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "creates a member", method: http.MethodPost, path: "/v1/members",
			token: staffToken, wantCode: http.StatusCreated,
			body: member.NewMember{
				FirstName: "Tomas", LastName: "Vidal",
				Email: "tomas.vidal@example.com", VoicePart: member.VoiceBass,
			},
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got member.Member
				unmarchallObj(t, rec, &got)
				assert.NotZero(t, got.ID)
				assert.Equal(t, member.RoleMember, got.Role)
				assert.True(t, got.IsActive)
			},
		},
		{
			name: "rejects a duplicate email", method: http.MethodPost, path: "/v1/members",
			token: staffToken, wantCode: http.StatusBadRequest,
			body: member.NewMember{
				FirstName: "Lena2", LastName: "Okafor2",
				Email: "lena.okafor@example.com",
			},
			wantData: marchallObj(t, map[string]string{"email": "a member with this email already exists"}),
		},
		{
			name: "rejects an unknown voice part", method: http.MethodPost, path: "/v1/members",
			token: staffToken, wantCode: http.StatusBadRequest,
			body: member.NewMember{
				FirstName: "Nadia", LastName: "Petrova",
				Email: "nadia.petrova@example.com", VoicePart: "baritone2",
			},
			wantData: marchallObj(t, map[string]string{"voice_part": "invalid voice part"}),
		},
		{
			name: "filters by search", method: http.MethodGet,
			path:  "/v1/members?search=okafor",
			token: staffToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var members []member.Member
				unmarchallObj(t, rec, &members)
				require.Len(t, members, 1)
				assert.Equal(t, seeded.ID, members[0].ID)
			},
		},
		{
			name: "retrieves a member", method: http.MethodGet,
			path:  fmt.Sprintf("/v1/members/%d", seeded.ID),
			token: staffToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got member.Member
				unmarchallObj(t, rec, &got)
				assert.Equal(t, "Lena Okafor", got.FullName())
			},
		},
		{
			name: "updates a member", method: http.MethodPut,
			path:  fmt.Sprintf("/v1/members/%d", seeded.ID),
			body:  member.UpdateMember{VoicePart: member.VoiceSoprano, Role: member.RoleSection},
			token: staffToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got member.Member
				unmarchallObj(t, rec, &got)
				assert.Equal(t, member.VoiceSoprano, got.VoicePart)
				assert.Equal(t, member.RoleSection, got.Role)
			},
		},
		{
			name: "unknown member", method: http.MethodGet, path: "/v1/members/999999",
			token: staffToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "member not found"}),
		},
	}
	for _, tt := range tests {
		tt.run(t)
	}

	t.Run("deletes a member", func(t *testing.T) {
		doomed, err := tMemberSvc.Create(testOrg.ID, member.NewMember{
			FirstName: "Gone", LastName: "Soon", Email: "gone.soon@example.com",
		})
		require.NoError(t, err)

		httpTest{
			name: "delete", method: http.MethodDelete,
			path:  fmt.Sprintf("/v1/members/%d", doomed.ID),
			token: staffToken, wantCode: http.StatusNoContent,
		}.run(t)

		_, err = tMemberSvc.GetByID(doomed.ID, testOrg.ID)
		assert.Error(t, err)
	})
}
