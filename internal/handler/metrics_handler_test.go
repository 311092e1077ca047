package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/metrics"
)

func TestMetricsHandlerHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil)

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "\"status\":\"ok\"")
}

func TestMetricsHandlerPrometheusUnavailableWithoutCollector(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(nil)

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Prometheus(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsHandlerPrometheusServesCollector(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(metrics.New())

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.Prometheus(c)

	require.Equal(t, http.StatusOK, w.Code)
}
