package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/metrics"
	"github.com/noah-isme/sched-engine/internal/ports"
)

const (
	keyStudents    = "sis:students"
	keyTeachers    = "sis:teachers"
	keyCourses     = "sis:courses"
	keyEnrollments = "sis:enrollments"
	keyLunch       = "sis:lunch-assignments"
)

// CachingGateway wraps a ports.SISGateway with the process-wide,
// read-mostly SIS cache described in spec.md §5: entries are served from
// Redis until ttl expires, then refreshed from the wrapped gateway on the
// next read. Concurrent readers share the same cached value; Redis
// itself serializes the read-then-refresh race, so no local locking is
// needed.
type CachingGateway struct {
	inner   ports.SISGateway
	client  *redis.Client
	logger  *zap.Logger
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewCachingGateway wraps inner with a Redis cache-aside layer.
func NewCachingGateway(inner ports.SISGateway, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachingGateway {
	return &CachingGateway{inner: inner, client: client, logger: logger, ttl: ttl}
}

// SetMetrics attaches a Prometheus collector the gateway reports SIS
// cache hit/miss lookups through. Optional: unset leaves RecordCacheLookup
// a no-op, per metrics.Metrics's own nil-safety.
func (g *CachingGateway) SetMetrics(m *metrics.Metrics) {
	g.metrics = m
}

func (g *CachingGateway) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if g.client == nil {
		g.metrics.RecordCacheLookup(false)
		return false
	}
	raw, err := g.client.Get(ctx, key).Bytes()
	if err != nil {
		g.metrics.RecordCacheLookup(false)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		g.logger.Warn("sis cache decode failed", zap.String("key", key), zap.Error(err))
		g.metrics.RecordCacheLookup(false)
		return false
	}
	g.metrics.RecordCacheLookup(true)
	return true
}

func (g *CachingGateway) toCache(ctx context.Context, key string, value interface{}) {
	if g.client == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		g.logger.Warn("sis cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := g.client.Set(ctx, key, payload, g.ttl).Err(); err != nil {
		g.logger.Warn("sis cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// FetchStudents returns the cached student snapshot, refreshing it from
// the SIS on a miss.
func (g *CachingGateway) FetchStudents(ctx context.Context) ([]domain.Student, error) {
	var students []domain.Student
	if g.fromCache(ctx, keyStudents, &students) {
		return students, nil
	}
	students, err := g.inner.FetchStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch students: %w", err)
	}
	g.toCache(ctx, keyStudents, students)
	return students, nil
}

// FetchTeachers returns the cached teacher snapshot, refreshing it from
// the SIS on a miss.
func (g *CachingGateway) FetchTeachers(ctx context.Context) ([]domain.Teacher, error) {
	var teachers []domain.Teacher
	if g.fromCache(ctx, keyTeachers, &teachers) {
		return teachers, nil
	}
	teachers, err := g.inner.FetchTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch teachers: %w", err)
	}
	g.toCache(ctx, keyTeachers, teachers)
	return teachers, nil
}

// FetchCourses returns the cached course snapshot, refreshing it from the
// SIS on a miss.
func (g *CachingGateway) FetchCourses(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	if g.fromCache(ctx, keyCourses, &courses) {
		return courses, nil
	}
	courses, err := g.inner.FetchCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch courses: %w", err)
	}
	g.toCache(ctx, keyCourses, courses)
	return courses, nil
}

// FetchEnrollments returns the cached enrollment snapshot, refreshing it
// from the SIS on a miss.
func (g *CachingGateway) FetchEnrollments(ctx context.Context) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	if g.fromCache(ctx, keyEnrollments, &enrollments) {
		return enrollments, nil
	}
	enrollments, err := g.inner.FetchEnrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch enrollments: %w", err)
	}
	g.toCache(ctx, keyEnrollments, enrollments)
	return enrollments, nil
}

// FetchLunchAssignments returns the cached lunch-window map, refreshing
// it from the SIS on a miss.
func (g *CachingGateway) FetchLunchAssignments(ctx context.Context) (map[string]domain.TimeWindow, error) {
	var assignments map[string]domain.TimeWindow
	if g.fromCache(ctx, keyLunch, &assignments) {
		return assignments, nil
	}
	assignments, err := g.inner.FetchLunchAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch lunch assignments: %w", err)
	}
	g.toCache(ctx, keyLunch, assignments)
	return assignments, nil
}

// FetchTeacherAvailability returns the cached availability windows for a
// single teacher, refreshing on a miss. Availability is cached per
// teacher id since it is read incrementally rather than as one snapshot.
func (g *CachingGateway) FetchTeacherAvailability(ctx context.Context, teacherID string) ([]domain.TimeWindow, error) {
	key := fmt.Sprintf("sis:availability:%s", teacherID)
	var windows []domain.TimeWindow
	if g.fromCache(ctx, key, &windows) {
		return windows, nil
	}
	windows, err := g.inner.FetchTeacherAvailability(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("fetch teacher availability: %w", err)
	}
	g.toCache(ctx, key, windows)
	return windows, nil
}

// HealthCheck always hits the wrapped gateway directly; liveness is
// never served from cache.
func (g *CachingGateway) HealthCheck(ctx context.Context) bool {
	return g.inner.HealthCheck(ctx)
}

// Invalidate clears every cached SIS key, used when an operator forces a
// refresh ahead of the ttl.
func (g *CachingGateway) Invalidate(ctx context.Context) error {
	if g.client == nil {
		return nil
	}
	iter := g.client.Scan(ctx, 0, "sis:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := g.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("invalidate sis cache key %s: %w", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan sis cache keys: %w", err)
	}
	return nil
}
