package rediscache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/config"
	"github.com/noah-isme/sched-engine/internal/domain"
)

func TestHTTPGatewayFetchTeachers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teachers", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]domain.Teacher{{ID: "t1", Name: "Jane Doe", Active: true}})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(config.SISConfig{BaseURL: srv.URL, APIKey: "secret", Timeout: 5 * time.Second})
	teachers, err := gw.FetchTeachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Jane Doe", teachers[0].Name)
}

func TestHTTPGatewayFetchFailureReturnsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gw := NewHTTPGateway(config.SISConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	courses, err := gw.FetchCourses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, courses)
}

func TestHTTPGatewayHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	gw := NewHTTPGateway(config.SISConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	assert.True(t, gw.HealthCheck(context.Background()))
}

func TestHTTPGatewayTeacherAvailabilityEscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/teachers/t 1/availability", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]domain.TimeWindow{{Day: domain.Monday, Start: domain.NewTimeOfDay(8, 0), End: domain.NewTimeOfDay(9, 0)}})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(config.SISConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
	windows, err := gw.FetchTeacherAvailability(context.Background(), "t 1")
	require.NoError(t, err)
	require.Len(t, windows, 1)
}
