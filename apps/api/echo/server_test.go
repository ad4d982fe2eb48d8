package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/storage/database/inmem"
	"github.com/trezcool/academia/tests"
)

type app struct {
	*echoapi.Server
	svc testutil.Services
}

func setup(t *testing.T) app {
	t.Helper()
	svc := testutil.NewServices(inmemdb.Open())
	validate, translator := testutil.NewValidator()

	srv := echoapi.NewServer(
		&core.Config{TestMode: true, Server: core.ServerConfig{DisableReqLogs: true}},
		&echoapi.Deps{
			Logger:        testutil.NewLogger(),
			Validate:      validate,
			Translator:    translator,
			StudentSvc:    svc.Students,
			ClassSvc:      svc.Classes,
			AssignmentSvc: svc.Assignments,
			GradeSvc:      svc.Grades,
			AttendanceSvc: svc.Attendance,
			GradebookSvc:  svc.Gradebooks,
		},
	)
	return app{Server: srv, svc: svc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
	// wantFields are the fields expected in a 400 response, when their messages do not matter
	wantFields []string
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	if method == "" {
		method = http.MethodGet
	}
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

func marshal(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal() failed: %v", err)
	}
	return data
}

func (a app) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newRequest(tt.method, tt.path, tt.body)
	a.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
	return rec
}

func (a app) runTests(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.do(t, tt)
		})
	}
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, rec.Body.String())

	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
	if len(tt.wantFields) > 0 {
		var fields map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fields))
		for _, f := range tt.wantFields {
			assert.Contains(t, fields, f)
		}
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestServer_home(t *testing.T) {
	a := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	a.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Academia API!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestServer_notFound(t *testing.T) {
	a := setup(t)
	a.runTests(t, []httpTest{
		{name: "unknown route", path: "/v1/courses", wantCode: http.StatusNotFound, wantData: marshal(t, httpErr{Error: "Not Found"})},
		{name: "trailing slash", path: "/v1/classes/", wantData: []byte(`[]`)},
	})
}
