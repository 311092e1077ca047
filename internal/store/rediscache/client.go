// Package rediscache implements ports.SISGateway: an HTTP client against
// the external Student Information System, and a Redis-backed caching
// decorator around it, grounded on the teacher's pkg/cache and
// internal/repository/cache_repository.go cache-aside pattern.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/noah-isme/sched-engine/internal/config"
	"github.com/noah-isme/sched-engine/internal/domain"
)

// HTTPGateway is a read-only ports.SISGateway backed by the SIS's HTTP
// API. Every fetch returns an empty slice on a non-2xx response rather
// than an error, per spec.md §6: "the core treats an empty list as
// 'no data,' never as 'error.'"
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway builds a gateway from the process's SIS configuration.
func NewHTTPGateway(cfg config.SISConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (g *HTTPGateway) get(ctx context.Context, path string, dest interface{}) error {
	u, err := url.JoinPath(g.baseURL, path)
	if err != nil {
		return fmt.Errorf("build sis url %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build sis request %s: %w", path, err)
	}
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("sis request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("sis request %s: status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read sis response %s: %w", path, err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode sis response %s: %w", path, err)
	}
	return nil
}

// FetchStudents returns every student the SIS knows about, or an empty
// slice if the fetch fails.
func (g *HTTPGateway) FetchStudents(ctx context.Context) ([]domain.Student, error) {
	var students []domain.Student
	if err := g.get(ctx, "/students", &students); err != nil {
		return []domain.Student{}, nil
	}
	return students, nil
}

// FetchTeachers returns every teacher the SIS knows about, or an empty
// slice if the fetch fails.
func (g *HTTPGateway) FetchTeachers(ctx context.Context) ([]domain.Teacher, error) {
	var teachers []domain.Teacher
	if err := g.get(ctx, "/teachers", &teachers); err != nil {
		return []domain.Teacher{}, nil
	}
	return teachers, nil
}

// FetchCourses returns every course the SIS knows about, or an empty
// slice if the fetch fails.
func (g *HTTPGateway) FetchCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if err := g.get(ctx, "/courses", &courses); err != nil {
		return []domain.Course{}, nil
	}
	return courses, nil
}

// FetchEnrollments returns every active enrollment the SIS knows about,
// or an empty slice if the fetch fails.
func (g *HTTPGateway) FetchEnrollments(ctx context.Context) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	if err := g.get(ctx, "/enrollments", &enrollments); err != nil {
		return []domain.Enrollment{}, nil
	}
	return enrollments, nil
}

// FetchLunchAssignments returns the lunch-period window assigned to each
// grade or cohort key. conflict.Detector's MISSING_LUNCH_BREAK pass does
// not read it; that pass uses the fixed lunch window in internal/domain.
func (g *HTTPGateway) FetchLunchAssignments(ctx context.Context) (map[string]domain.TimeWindow, error) {
	var assignments map[string]domain.TimeWindow
	if err := g.get(ctx, "/lunch-assignments", &assignments); err != nil {
		return map[string]domain.TimeWindow{}, nil
	}
	return assignments, nil
}

// FetchTeacherAvailability returns the blackout/available windows the SIS
// holds for a teacher, if any.
func (g *HTTPGateway) FetchTeacherAvailability(ctx context.Context, teacherID string) ([]domain.TimeWindow, error) {
	var windows []domain.TimeWindow
	path := fmt.Sprintf("/teachers/%s/availability", url.PathEscape(teacherID))
	if err := g.get(ctx, path, &windows); err != nil {
		return []domain.TimeWindow{}, nil
	}
	return windows, nil
}

// HealthCheck reports whether the SIS's health endpoint responds 2xx.
func (g *HTTPGateway) HealthCheck(ctx context.Context) bool {
	var dummy struct{}
	return g.get(ctx, "/health", &dummy) == nil
}
