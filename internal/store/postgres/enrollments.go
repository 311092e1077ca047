package postgres

import (
	"context"
	"fmt"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const enrollmentsByScheduleQuery = `
SELECT e.id, e.student_id, e.course_id, e.active
FROM enrollments e
JOIN schedule_slots sl ON sl.course_id = e.course_id
WHERE sl.schedule_id = $1 AND e.active = true`

// FindEnrollmentsByScheduleID returns every active enrollment for a course
// currently bound into the given schedule.
func (s *Store) FindEnrollmentsByScheduleID(ctx context.Context, scheduleID string) ([]domain.Enrollment, error) {
	var rows []enrollmentRow
	if err := s.db.SelectContext(ctx, &rows, enrollmentsByScheduleQuery, scheduleID); err != nil {
		return nil, fmt.Errorf("find enrollments by schedule: %w", err)
	}
	enrollments := make([]domain.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toDomain())
	}
	return enrollments, nil
}

const enrollmentsBySlotQuery = `
SELECT e.id, e.student_id, e.course_id, e.active
FROM enrollments e
JOIN schedule_slots sl ON sl.course_id = e.course_id
WHERE sl.id = $1 AND e.active = true`

// FindEnrollmentsBySlotID returns every active enrollment for the course
// bound to a single slot, used by incremental conflict checks.
func (s *Store) FindEnrollmentsBySlotID(ctx context.Context, slotID string) ([]domain.Enrollment, error) {
	var rows []enrollmentRow
	if err := s.db.SelectContext(ctx, &rows, enrollmentsBySlotQuery, slotID); err != nil {
		return nil, fmt.Errorf("find enrollments by slot: %w", err)
	}
	enrollments := make([]domain.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, row.toDomain())
	}
	return enrollments, nil
}
