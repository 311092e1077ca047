package postgres

import (
	"context"
	"fmt"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const listStudentsQuery = `SELECT id, grade_level, gpa, iep, section_504, gifted FROM students ORDER BY id ASC`

// ListStudents returns every enrolled student.
func (s *Store) ListStudents(ctx context.Context) ([]domain.Student, error) {
	var rows []studentRow
	if err := s.db.SelectContext(ctx, &rows, listStudentsQuery); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	students := make([]domain.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toDomain())
	}
	return students, nil
}
