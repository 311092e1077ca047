// Package ports declares the interfaces the engine consumes from storage
// and the SIS gateway (spec.md §6). No implementation detail leaks upward:
// internal/store/postgres and internal/store/rediscache satisfy these, but
// internal/engine, internal/feasibility, internal/matcher, internal/conflict,
// and internal/solver only ever see the interfaces below.
package ports

import (
	"context"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// Repository is the persistence contract for schedules, slots, conflicts
// and their cascading deletes, per spec.md §6.
type Repository interface {
	ListActiveTeachers(ctx context.Context) ([]domain.Teacher, error)
	ListActiveCourses(ctx context.Context) ([]domain.Course, error)
	ListActiveRooms(ctx context.Context) ([]domain.Room, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)

	FindScheduleSlotsByScheduleID(ctx context.Context, scheduleID string) ([]domain.ScheduleSlot, error)
	FindEnrollmentsByScheduleID(ctx context.Context, scheduleID string) ([]domain.Enrollment, error)
	FindEnrollmentsBySlotID(ctx context.Context, slotID string) ([]domain.Enrollment, error)

	FindConflictsBySchedule(ctx context.Context, scheduleID string) ([]domain.Conflict, error)
	SaveConflicts(ctx context.Context, scheduleID string, conflicts []domain.Conflict) error
	DeleteConflictsBySchedule(ctx context.Context, scheduleID string) error
	CountActiveBySchedule(ctx context.Context, scheduleID string) (int, error)

	FindSchedule(ctx context.Context, scheduleID string) (*domain.Schedule, error)
	SaveSchedule(ctx context.Context, schedule *domain.Schedule, slots []domain.ScheduleSlot) error
	DeleteSchedule(ctx context.Context, scheduleID string) error

	// UpdateCourseBinding persists the matcher's course->teacher binding
	// (C3 mutates the Course<->Teacher edge, per spec.md §3's lifecycle
	// note); it does not touch slots or conflicts.
	UpdateCourseBinding(ctx context.Context, courseID, teacherID string) error
}

// SISGateway is the read-only contract over the external Student
// Information System, per spec.md §6. Every fetch returns a list or empty
// on error; callers must never treat an empty list as a failure.
type SISGateway interface {
	FetchStudents(ctx context.Context) ([]domain.Student, error)
	FetchTeachers(ctx context.Context) ([]domain.Teacher, error)
	FetchCourses(ctx context.Context) ([]domain.Course, error)
	FetchEnrollments(ctx context.Context) ([]domain.Enrollment, error)
	FetchLunchAssignments(ctx context.Context) (map[string]domain.TimeWindow, error)
	FetchTeacherAvailability(ctx context.Context, teacherID string) ([]domain.TimeWindow, error)
	HealthCheck(ctx context.Context) bool
}
