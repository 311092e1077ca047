package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/domain"
)

func TestMetricsObserveSolveAndScrape(t *testing.T) {
	m := New()
	m.ObserveSolve("GREEDY", 50*time.Millisecond, 12, true, false)
	m.SetConflictCounts(map[domain.Severity]int{domain.SeverityCritical: 2, domain.SeverityHigh: 1})
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.ObserveHTTPRequest("POST", "/schedules/1/generate", 200, 10*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "sched_solve_duration_seconds")
	assert.Contains(t, body, "sched_schedule_conflicts")
	assert.Contains(t, body, "sched_sis_cache_hit_ratio 0.5")
}

func TestMetricsNilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSolve("GREEDY", time.Second, 1, true, false)
		m.SetConflictCounts(nil)
		m.RecordCacheLookup(true)
		m.ObserveHTTPRequest("GET", "/x", 500, time.Second)
	})
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 503, rec.Code)
}
