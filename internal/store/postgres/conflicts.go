package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const findConflictsByScheduleQuery = `SELECT id, schedule_id, type, severity, slot_ids, teacher_ids, room_ids, course_ids, description FROM conflicts WHERE schedule_id = $1 ORDER BY severity ASC`

// FindConflictsBySchedule returns every conflict recorded against a
// schedule's last validation pass.
func (s *Store) FindConflictsBySchedule(ctx context.Context, scheduleID string) ([]domain.Conflict, error) {
	var rows []conflictRow
	if err := s.db.SelectContext(ctx, &rows, findConflictsByScheduleQuery, scheduleID); err != nil {
		return nil, fmt.Errorf("find conflicts by schedule: %w", err)
	}
	conflicts := make([]domain.Conflict, 0, len(rows))
	for _, row := range rows {
		conflicts = append(conflicts, row.toDomain())
	}
	return conflicts, nil
}

const insertConflictQuery = `INSERT INTO conflicts (id, schedule_id, type, severity, slot_ids, teacher_ids, room_ids, course_ids, description) VALUES (:id, :schedule_id, :type, :severity, :slot_ids, :teacher_ids, :room_ids, :course_ids, :description)`

// SaveConflicts replaces a schedule's conflict set within one transaction,
// assigning a fresh id to any conflict that does not already carry one.
func (s *Store) SaveConflicts(ctx context.Context, scheduleID string, conflicts []domain.Conflict) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save conflicts: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM conflicts WHERE schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("clear conflicts: %w", err)
	}

	for i := range conflicts {
		c := conflicts[i]
		c.ScheduleID = scheduleID
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		row := conflictRowFromDomain(c)
		if _, err = sqlx.NamedExecContext(ctx, tx, insertConflictQuery, row); err != nil {
			return fmt.Errorf("insert conflict: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save conflicts: %w", err)
	}
	return nil
}

// DeleteConflictsBySchedule clears a schedule's conflict set, called
// before a fresh detection pass recomputes it.
func (s *Store) DeleteConflictsBySchedule(ctx context.Context, scheduleID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conflicts WHERE schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("delete conflicts by schedule: %w", err)
	}
	return nil
}

const countCriticalConflictsQuery = `SELECT COUNT(*) FROM conflicts WHERE schedule_id = $1 AND severity = 'CRITICAL'`

// CountActiveBySchedule returns the number of CRITICAL-severity conflicts
// on a schedule, the gate lifecycle.Manager.Publish checks before
// allowing PUBLISHED.
func (s *Store) CountActiveBySchedule(ctx context.Context, scheduleID string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, countCriticalConflictsQuery, scheduleID); err != nil {
		return 0, fmt.Errorf("count active conflicts: %w", err)
	}
	return count, nil
}
