package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rashad2003/Student-Attendance-Management/core"
	"github.com/Rashad2003/Student-Attendance-Management/core/attendance"
	"github.com/Rashad2003/Student-Attendance-Management/core/notify"
	"github.com/Rashad2003/Student-Attendance-Management/core/student"
	logsvc "github.com/Rashad2003/Student-Attendance-Management/services/logger"
)

func TestFindSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantOK   bool
		wantCode int
	}{
		{"no record", attendance.ErrNoRecord, true, http.StatusOK},
		{"student not found", student.ErrNotFound, true, http.StatusNotFound},
		{"no phone", notify.ErrNoPhone, true, http.StatusNotFound},
		{"concurrent update", attendance.ErrConcurrentUpdate, false, 0},
		{"unrelated", errors.New(attendance.ErrNoRecord.Error()), false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findSentinel(tt.err)
			if assert.Equal(t, tt.wantOK, ok) && ok {
				assert.Equal(t, tt.wantCode, got.code)
			}
		})
	}
}

func TestAppHTTPErrorHandler(t *testing.T) {
	conf := core.NewTestConfig()
	buf := new(bytes.Buffer)
	logger := logsvc.NewRollbarLogger(buf, "API", conf)
	logger.Enable(false)

	var shutdownSignalled bool
	e := echo.New()
	e.HTTPErrorHandler = newAppHTTPErrorHandler(logger, core.NewTranslator(), newAuthenticator(conf, nil), func() {
		shutdownSignalled = true
	})
	e.GET("/concurrent", func(echo.Context) error { return errors.Wrap(attendance.ErrConcurrentUpdate, "marking attendance") })
	e.GET("/disconnected", func(echo.Context) error {
		return errors.Wrap(core.NewShutdownError("database client is disconnected"), "finding attendance day")
	})
	e.GET("/missing", func(echo.Context) error { return errors.Wrap(student.ErrNotFound, "notifying parent") })

	tests := []struct {
		path         string
		wantCode     int
		wantMessage  string
		wantLogged   string
		wantShutdown bool
	}{
		{"/concurrent", http.StatusInternalServerError, attendance.ErrConcurrentUpdate.Error(), "too many concurrent updates", false},
		{"/disconnected", http.StatusInternalServerError, "database client is disconnected", "database client is disconnected", true},
		{"/missing", http.StatusNotFound, "Student not found", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			buf.Reset()
			shutdownSignalled = false

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)

			var res errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantMessage, res.Message)

			if tt.wantLogged == "" {
				assert.Empty(t, buf.String())
			} else {
				assert.Contains(t, buf.String(), tt.wantLogged)
			}
			assert.Equal(t, tt.wantShutdown, shutdownSignalled)
		})
	}
}
