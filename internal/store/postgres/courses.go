package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const listActiveCoursesQuery = `SELECT id, code, name, subject, requires_lab, required_room_type, enrollment, max_students, min_enrollment, sessions_per_week, credits, priority_level, level, teacher_id, room_id, active FROM courses WHERE active = true ORDER BY code ASC`

// ListActiveCourses returns every active course section for roster assembly.
func (s *Store) ListActiveCourses(ctx context.Context) ([]domain.Course, error) {
	var rows []courseRow
	if err := s.db.SelectContext(ctx, &rows, listActiveCoursesQuery); err != nil {
		return nil, fmt.Errorf("list active courses: %w", err)
	}
	courses := make([]domain.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toDomain())
	}
	return courses, nil
}

// UpdateCourseBinding sets a course's bound teacher, the persistence side
// of the C3 match step.
func (s *Store) UpdateCourseBinding(ctx context.Context, courseID, teacherID string) error {
	const query = `UPDATE courses SET teacher_id = $1, updated_at = $2 WHERE id = $3`
	if _, err := s.db.ExecContext(ctx, query, teacherID, time.Now().UTC(), courseID); err != nil {
		return fmt.Errorf("update course binding: %w", err)
	}
	return nil
}
