package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chorale-hq/chorale/core/user"
)

type httpErr struct {
	Error string `json:"error"`
}

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

// httpTest describes one request/response expectation against testApp.
type httpTest struct {
	name     string
	method   string
	path     string
	body     interface{}
	token    string
	wantCode int
	wantData []byte
	extra    func(t *testing.T, rec *httptest.ResponseRecorder)
}

func (tt httpTest) run(t *testing.T) {
	t.Run(tt.name, func(t *testing.T) {
		var body io.Reader
		if tt.body != nil {
			body = bytes.NewReader(marchallObj(t, tt.body))
		}

		req := httptest.NewRequest(tt.method, tt.path, body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if tt.token != "" {
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.token)
		}

		rec := httptest.NewRecorder()
		testApp.ServeHTTP(rec, req)
		checkCodeAndData(t, rec, tt.wantCode, tt.wantData)

		if tt.extra != nil {
			tt.extra(t, rec)
		}
	})
}

func checkCodeAndData(t *testing.T, rec *httptest.ResponseRecorder, wantCode int, wantData []byte) {
	t.Helper()

	assert.Equal(t, wantCode, rec.Code, "body: %s", rec.Body.String())
	if wantData == nil {
		return
	}
	eq, err := jsonBytesEqual(rec.Body.Bytes(), wantData)
	require.NoError(t, err)
	assert.True(t, eq, "want: %s\ngot:  %s", wantData, rec.Body.String())
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(GetUserClaims(usr))
	require.NoError(t, err)
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func unmarchallObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), obj))
}

// jsonBytesEqual compares the JSON in two byte slices regardless of key order.
func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}
