package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// fakeGateway is a minimal ports.SISGateway counting how many times each
// fetch is called, so tests can assert the cache actually short-circuits
// the wrapped gateway on a hit.
type fakeGateway struct {
	teacherCalls int
	teachers     []domain.Teacher
}

func (f *fakeGateway) FetchStudents(ctx context.Context) ([]domain.Student, error) { return nil, nil }
func (f *fakeGateway) FetchTeachers(ctx context.Context) ([]domain.Teacher, error) {
	f.teacherCalls++
	return f.teachers, nil
}
func (f *fakeGateway) FetchCourses(ctx context.Context) ([]domain.Course, error) { return nil, nil }
func (f *fakeGateway) FetchEnrollments(ctx context.Context) ([]domain.Enrollment, error) {
	return nil, nil
}
func (f *fakeGateway) FetchLunchAssignments(ctx context.Context) (map[string]domain.TimeWindow, error) {
	return nil, nil
}
func (f *fakeGateway) FetchTeacherAvailability(ctx context.Context, teacherID string) ([]domain.TimeWindow, error) {
	return nil, nil
}
func (f *fakeGateway) HealthCheck(ctx context.Context) bool { return true }

// Without a live Redis client, CachingGateway degrades to a passthrough:
// every fetch misses cache and falls straight to the wrapped gateway.
func TestCachingGatewayWithoutClientPassesThrough(t *testing.T) {
	inner := &fakeGateway{teachers: []domain.Teacher{{ID: "t1", Name: "Jane"}}}
	gw := NewCachingGateway(inner, nil, time.Minute, zap.NewNop())

	teachers, err := gw.FetchTeachers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, inner.teachers, teachers)

	_, err = gw.FetchTeachers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inner.teacherCalls)
}

func TestCachingGatewayHealthCheckAlwaysLive(t *testing.T) {
	inner := &fakeGateway{}
	gw := NewCachingGateway(inner, nil, time.Minute, zap.NewNop())
	assert.True(t, gw.HealthCheck(context.Background()))
}
