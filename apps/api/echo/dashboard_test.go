package echoapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/dashboard"
	"github.com/chorale-hq/chorale/core/event"
	"github.com/chorale-hq/chorale/core/member"
	"github.com/chorale-hq/chorale/core/program"
)

func TestDashboardAPI(t *testing.T) {
	staffToken := getToken(t, staffUsr)
	plainToken := getToken(t, plainUsr)

	py := newTestProgramYear(t)
	project, err := tProgramSvc.CreateProject(testOrg.ID, program.NewProject{
		ProgramYearID: py.ID, Name: "Dashboard Project",
	})
	require.NoError(t, err)

	_, err = tMemberSvc.Create(testOrg.ID, member.NewMember{
		FirstName: "Dana", LastName: "Brooks", Email: "dana.brooks@example.com",
	})
	require.NoError(t, err)

	starts := time.Now().UTC().AddDate(0, 1, 0)
	_, err = tEventSvc.Create(testOrg.ID, event.NewEvent{
		ProjectID: project.ID, Name: "Future Concert", Kind: event.KindConcert,
		StartsAt: starts, EndsAt: starts.Add(2 * time.Hour),
	})
	require.NoError(t, err)

	_, err = tAuditionSvc.Create(testOrg.ID, audition.NewAuditionDate{
		ProgramYearID: py.ID, Date: "2026-10-05",
		StartTime: "18:00", EndTime: "19:00", BlockLengthMinutes: 20,
	})
	require.NoError(t, err)

	httpTest{
		name: "staff only", method: http.MethodGet, path: "/v1/dashboard",
		token: plainToken, wantCode: http.StatusForbidden,
		wantData: marchallObj(t, httpErr{Error: "permission denied"}),
	}.run(t)

	httpTest{
		name: "summarizes the organization", method: http.MethodGet,
		path:  fmt.Sprintf("/v1/dashboard?program_year_id=%d", py.ID),
		token: staffToken, wantCode: http.StatusOK,
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			var got dashboard.Summary
			unmarchallObj(t, rec, &got)
			assert.GreaterOrEqual(t, got.ActiveMembers, 1)
			assert.GreaterOrEqual(t, got.UpcomingEvents, 1)
			assert.GreaterOrEqual(t, got.OpenAuditionSlots, 3)
			assert.GreaterOrEqual(t, got.Projects, 1)
		},
	}.run(t)
}
