package echoapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/academia/core"
)

type loggerMock struct {
	errors []string
}

func (l *loggerMock) Debug(string, ...interface{}) {}
func (l *loggerMock) Info(string, ...interface{})  {}
func (l *loggerMock) Warn(string, ...interface{})  {}
func (l *loggerMock) Fatal(string, ...interface{}) {}

func (l *loggerMock) Error(msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}

func Test_errorResponse(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  interface{}
	}{
		{
			name:     "validation",
			err:      errors.Wrap(core.NewValidationError(nil, core.FieldError{Field: "score", Error: "too low"}), "creating grade"),
			wantCode: http.StatusBadRequest,
			wantMsg:  map[string]string{"score": "too low"},
		},
		{
			name:     "validation without fields",
			err:      core.NewValidationError(errors.New("at least one record is required")),
			wantCode: http.StatusBadRequest,
			wantMsg:  "at least one record is required",
		},
		{
			name:     "not found",
			err:      errors.Wrap(core.NewNotFoundError("grade", 3), "finding grade by ID"),
			wantCode: http.StatusNotFound,
			wantMsg:  "grade 3 not found",
		},
		{
			name:     "partial failure",
			err:      &core.PartialFailure{Op: "create grade", Message: "violates not-null constraint", Failed: 1, Total: 3},
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  echo.Map{"error": "violates not-null constraint", "failed": 1, "total": 3},
		},
		{
			name:     "store",
			err:      errors.Wrap(core.NewStoreError("query grades", errors.New("connection refused")), "querying grades"),
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "query grades: connection refused",
		},
		{
			name:     "http",
			err:      echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"),
			wantCode: http.StatusMethodNotAllowed,
			wantMsg:  "nope",
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  http.StatusText(http.StatusInternalServerError),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := errorResponse(tt.err, core.NewTranslator())
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func Test_appHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantLogged   bool
		wantShutdown bool
	}{
		{name: "client error", err: core.NewNotFoundError("student", 1)},
		{name: "store error", err: core.NewStoreError("query students", errors.New("connection refused")), wantLogged: true},
		{name: "shutdown", err: errors.Wrap(core.NewShutdownError("integrity issue"), "marking attendance"), wantLogged: true, wantShutdown: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := new(loggerMock)
			var shutdown bool
			handler := newAppHTTPErrorHandler(logger, core.NewTranslator(), func() { shutdown = true })

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/students", nil)
			rec := httptest.NewRecorder()
			handler(tt.err, e.NewContext(req, rec))

			assert.Equal(t, tt.wantLogged, len(logger.errors) == 1)
			assert.Equal(t, tt.wantShutdown, shutdown)
			assert.NotEmpty(t, rec.Body.String())
		})
	}
}
