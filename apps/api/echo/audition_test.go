package echoapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core/audition"
	"github.com/chorale-hq/chorale/core/program"
)

func newTestProgramYear(t *testing.T) program.ProgramYear {
	t.Helper()

	py, err := tProgramSvc.CreateYear(testOrg.ID, program.NewProgramYear{
		Name:      "2026-2027",
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return py
}

func TestAuditionAPI(t *testing.T) {
	staffToken := getToken(t, staffUsr)
	plainToken := getToken(t, plainUsr)

	py := newTestProgramYear(t)
	d, err := tAuditionSvc.Create(testOrg.ID, audition.NewAuditionDate{
		ProgramYearID: py.ID, Date: "2026-09-14",
		StartTime: "18:00", EndTime: "21:00", BlockLengthMinutes: 20,
	})
	require.NoError(t, err)
	slotID := d.Slots[0].ID

	tests := []httpTest{
		{
			name: "requires a token", method: http.MethodGet, path: "/v1/audition-dates",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "staff only", method: http.MethodGet, path: "/v1/audition-dates",
			token: plainToken, wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "schedules a date with its slots", method: http.MethodPost, path: "/v1/audition-dates",
			token: staffToken, wantCode: http.StatusCreated,
			body: audition.NewAuditionDate{
				ProgramYearID: py.ID, Date: "2026-09-15",
				StartTime: "10:00", EndTime: "12:00", BlockLengthMinutes: 30,
			},
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got audition.AuditionDate
				unmarchallObj(t, rec, &got)
				assert.NotZero(t, got.ID)
				require.Len(t, got.Slots, 4)
				for _, s := range got.Slots {
					assert.Equal(t, audition.StatusPending, s.Status)
					assert.False(t, s.MemberID.Valid)
				}
			},
		},
		{
			name: "rejects a block that does not divide the window", method: http.MethodPost,
			path: "/v1/audition-dates", token: staffToken, wantCode: http.StatusBadRequest,
			body: audition.NewAuditionDate{
				ProgramYearID: py.ID, Date: "2026-09-15",
				StartTime: "18:00", EndTime: "21:00", BlockLengthMinutes: 25,
			},
			wantData: marchallObj(t, map[string]string{
				"block_length_minutes": "must evenly divide the audition window",
			}),
		},
		{
			name: "rejects a malformed date", method: http.MethodPost,
			path: "/v1/audition-dates", token: staffToken, wantCode: http.StatusBadRequest,
			body: audition.NewAuditionDate{
				ProgramYearID: py.ID, Date: "Sept 14",
				StartTime: "18:00", EndTime: "21:00", BlockLengthMinutes: 20,
			},
			wantData: marchallObj(t, map[string]string{"date": "must be a valid date (YYYY-MM-DD)"}),
		},
		{
			name: "rejects an empty payload", method: http.MethodPost,
			path: "/v1/audition-dates", token: staffToken, wantCode: http.StatusBadRequest,
			body: echo.Map{},
			wantData: marchallObj(t, map[string]string{
				"program_year_id":      "this field is required",
				"date":                 "this field is required",
				"start_time":           "this field is required",
				"end_time":             "this field is required",
				"block_length_minutes": "this field is required",
			}),
		},
		{
			name: "lists dates for a program year", method: http.MethodGet,
			path:  fmt.Sprintf("/v1/audition-dates?program_year_id=%d", py.ID),
			token: staffToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var dates []audition.AuditionDate
				unmarchallObj(t, rec, &dates)
				assert.GreaterOrEqual(t, len(dates), 1)
			},
		},
		{
			name: "date detail includes slots", method: http.MethodGet,
			path:  fmt.Sprintf("/v1/audition-dates/%d", d.ID),
			token: staffToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got audition.AuditionDate
				unmarchallObj(t, rec, &got)
				assert.Equal(t, d.ID, got.ID)
				assert.Len(t, got.Slots, 9)
			},
		},
		{
			name: "unknown date", method: http.MethodGet, path: "/v1/audition-dates/999999",
			token: staffToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "audition date not found"}),
		},
		{
			name: "updates a slot's status", method: http.MethodPut,
			path:  fmt.Sprintf("/v1/audition-slots/%d/status", slotID),
			body:  audition.UpdateSlotStatus{Status: "accepted"},
			token: staffToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got audition.AuditionSlot
				unmarchallObj(t, rec, &got)
				assert.Equal(t, audition.StatusAccepted, got.Status)
			},
		},
		{
			name: "rejects an unknown status", method: http.MethodPut,
			path:  fmt.Sprintf("/v1/audition-slots/%d/status", slotID),
			body:  audition.UpdateSlotStatus{Status: "maybe"},
			token: staffToken, wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "invalid status"}),
		},
		{
			name: "updates a slot's notes", method: http.MethodPut,
			path:  fmt.Sprintf("/v1/audition-slots/%d/notes", slotID),
			body:  echo.Map{"notes": "strong tenor, sight-reads well"},
			token: staffToken, wantCode: http.StatusOK,
			extra: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var got audition.AuditionSlot
				unmarchallObj(t, rec, &got)
				assert.Equal(t, "strong tenor, sight-reads well", got.Notes.String)
			},
		},
		{
			name: "unknown slot", method: http.MethodPut, path: "/v1/audition-slots/999999/status",
			body:  audition.UpdateSlotStatus{Status: "accepted"},
			token: staffToken, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: "audition slot not found"}),
		},
	}
	for _, tt := range tests {
		tt.run(t)
	}

	t.Run("deletes a date with its slots", func(t *testing.T) {
		doomed, err := tAuditionSvc.Create(testOrg.ID, audition.NewAuditionDate{
			ProgramYearID: py.ID, Date: "2026-09-16",
			StartTime: "09:00", EndTime: "10:00", BlockLengthMinutes: 20,
		})
		require.NoError(t, err)

		httpTest{
			name: "delete", method: http.MethodDelete,
			path:  fmt.Sprintf("/v1/audition-dates/%d", doomed.ID),
			token: staffToken, wantCode: http.StatusNoContent,
		}.run(t)

		_, err = tAuditionSvc.Get(doomed.ID, testOrg.ID)
		assert.Error(t, err)
	})
}
