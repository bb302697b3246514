package echoapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core/program"
)

func TestProgramAPI(t *testing.T) {
	staffToken := getToken(t, staffUsr)

	start := time.Date(2027, 9, 1, 0, 0, 0, 0, time.UTC)

	var yearID int
	httpTest{
		name: "creates a program year", method: http.MethodPost, path: "/v1/program-years",
		token: staffToken, wantCode: http.StatusCreated,
		body: program.NewProgramYear{Name: "2027-2028", StartDate: start, EndDate: start.AddDate(0, 10, 0)},
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			var got program.ProgramYear
			unmarchallObj(t, rec, &got)
			require.NotZero(t, got.ID)
			yearID = got.ID
		},
	}.run(t)

	httpTest{
		name: "rejects a year ending before it starts", method: http.MethodPost, path: "/v1/program-years",
		token: staffToken, wantCode: http.StatusBadRequest,
		body: program.NewProgramYear{Name: "Backwards", StartDate: start, EndDate: start.AddDate(0, -1, 0)},
	}.run(t)

	var projectID int
	httpTest{
		name: "creates a project in the year", method: http.MethodPost, path: "/v1/projects",
		token: staffToken, wantCode: http.StatusCreated,
		body: program.NewProject{ProgramYearID: yearID, Name: "Spring Gala", Description: "Annual fundraiser"},
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			var got program.Project
			unmarchallObj(t, rec, &got)
			require.NotZero(t, got.ID)
			projectID = got.ID
		},
	}.run(t)

	httpTest{
		name: "rejects a project in an unknown year", method: http.MethodPost, path: "/v1/projects",
		token: staffToken, wantCode: http.StatusNotFound,
		body: program.NewProject{ProgramYearID: 999999, Name: "Orphan"},
		wantData: marchallObj(t, httpErr{Error: "program year not found"}),
	}.run(t)

	httpTest{
		name: "lists the year's projects", method: http.MethodGet,
		path:  fmt.Sprintf("/v1/projects?program_year_id=%d", yearID),
		token: staffToken, wantCode: http.StatusOK,
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			var projects []program.Project
			unmarchallObj(t, rec, &projects)
			require.Len(t, projects, 1)
			assert.Equal(t, "Spring Gala", projects[0].Name)
		},
	}.run(t)

	httpTest{
		name: "renames a project", method: http.MethodPut,
		path:  fmt.Sprintf("/v1/projects/%d", projectID),
		token: staffToken, wantCode: http.StatusOK,
		body:  program.UpdateProject{Name: "Spring Gala 2028"},
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			var got program.Project
			unmarchallObj(t, rec, &got)
			assert.Equal(t, "Spring Gala 2028", got.Name)
		},
	}.run(t)

	httpTest{
		name: "deleting the year removes its projects", method: http.MethodDelete,
		path:  fmt.Sprintf("/v1/program-years/%d", yearID),
		token: staffToken, wantCode: http.StatusNoContent,
		extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
			_, err := tProgramSvc.GetProject(projectID, testOrg.ID)
			assert.Error(t, err)
		},
	}.run(t)
}
