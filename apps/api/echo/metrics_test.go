package echoapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_middleware(t *testing.T) {
	m := NewMetrics()
	e := echo.New()
	e.Use(m.middleware())
	e.GET("/ping/:id", func(ctx echo.Context) error { return ctx.NoContent(http.StatusOK) })
	e.GET("/teapot", func(ctx echo.Context) error { return errors.Wrap(echo.NewHTTPError(http.StatusTeapot), "brewing") })
	e.GET("/boom", func(ctx echo.Context) error { return errors.New("boom") })

	for _, path := range []string{"/ping/1", "/ping/2", "/teapot", "/boom"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/ping/:id", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/teapot", "418")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/boom", "error")))

	m.MergeConflicts.Inc()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "attendance_merge_conflicts_total 1"))
	assert.True(t, strings.Contains(rec.Body.String(), `http_requests_total{method="GET",route="/teapot",status="418"} 1`))
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		op   string
		role string
		want bool
	}{
		{opUserRegister, "Admin", true},
		{opUserRegister, "Faculty", false},
		{opStudentAdd, "Faculty", true},
		{opStudentDelete, "Faculty", false},
		{opAttendanceMark, "Faculty", true},
		{opNotifyParent, "Admin", true},
		{opNotifyParent, "", false},
		{"unknown.op", "Admin", false},
	}
	for _, tt := range tests {
		t.Run(tt.op+"/"+tt.role, func(t *testing.T) {
			assert.Equal(t, tt.want, allowed(tt.op, tt.role))
		})
	}
}
