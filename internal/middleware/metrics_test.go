package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetricsDispatchesErrorOnce(t *testing.T) {
	e := echo.New()
	calls := 0
	base := e.HTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		calls++
		base(err, c)
	}
	e.Use(PrometheusMetrics())
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestPrometheusMetricsPassesSuccessThrough(t *testing.T) {
	e := echo.New()
	e.Use(PrometheusMetrics())
	e.GET("/ok", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
