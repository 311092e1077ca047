package postgres

import (
	"context"
	"fmt"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const listActiveTeachersQuery = `SELECT id, name, department, certifications, planning_day, planning_start, planning_end, max_periods_per_day, active FROM teachers WHERE active = true ORDER BY name ASC`

// ListActiveTeachers returns every active teacher for roster assembly.
func (s *Store) ListActiveTeachers(ctx context.Context) ([]domain.Teacher, error) {
	var rows []teacherRow
	if err := s.db.SelectContext(ctx, &rows, listActiveTeachersQuery); err != nil {
		return nil, fmt.Errorf("list active teachers: %w", err)
	}
	teachers := make([]domain.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, row.toDomain())
	}
	return teachers, nil
}
