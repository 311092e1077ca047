package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sched-engine/internal/domain"
)

const findScheduleQuery = `SELECT id, name, status, score, version, meta FROM schedules WHERE id = $1`

// FindSchedule loads a schedule by id, returning (nil, nil) when it does
// not exist so callers can distinguish "not found" from a storage error.
func (s *Store) FindSchedule(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	var row scheduleRow
	if err := s.db.GetContext(ctx, &row, findScheduleQuery, scheduleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find schedule: %w", err)
	}
	sched, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &sched, nil
}

const findSlotsByScheduleQuery = `SELECT id, schedule_id, course_id, teacher_id, room_id, day_of_week, start_minute, end_minute FROM schedule_slots WHERE schedule_id = $1 ORDER BY day_of_week ASC, start_minute ASC`

// FindScheduleSlotsByScheduleID returns every slot placed in a schedule.
func (s *Store) FindScheduleSlotsByScheduleID(ctx context.Context, scheduleID string) ([]domain.ScheduleSlot, error) {
	var rows []slotRow
	if err := s.db.SelectContext(ctx, &rows, findSlotsByScheduleQuery, scheduleID); err != nil {
		return nil, fmt.Errorf("find schedule slots: %w", err)
	}
	slots := make([]domain.ScheduleSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toDomain())
	}
	return slots, nil
}

const upsertScheduleQuery = `
INSERT INTO schedules (id, name, status, score, version, meta)
VALUES (:id, :name, :status, :score, :version, :meta)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	status = EXCLUDED.status,
	score = EXCLUDED.score,
	version = EXCLUDED.version,
	meta = EXCLUDED.meta`

const insertSlotQuery = `INSERT INTO schedule_slots (id, schedule_id, course_id, teacher_id, room_id, day_of_week, start_minute, end_minute) VALUES (:id, :schedule_id, :course_id, :teacher_id, :room_id, :day_of_week, :start_minute, :end_minute)`

// SaveSchedule upserts the schedule header and, when slots is non-nil,
// replaces the schedule's entire slot set within one transaction. A nil
// slots argument lets a pure status/header update (e.g. Archive) skip
// rewriting slots that did not change.
func (s *Store) SaveSchedule(ctx context.Context, schedule *domain.Schedule, slots []domain.ScheduleSlot) error {
	row, err := scheduleRowFromDomain(*schedule)
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save schedule: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = sqlx.NamedExecContext(ctx, tx, upsertScheduleQuery, row); err != nil {
		return fmt.Errorf("upsert schedule: %w", err)
	}

	if slots != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM schedule_slots WHERE schedule_id = $1`, schedule.ID); err != nil {
			return fmt.Errorf("clear schedule slots: %w", err)
		}
		for i := range slots {
			slotPayload := slotRowFromDomain(slots[i])
			if _, err = sqlx.NamedExecContext(ctx, tx, insertSlotQuery, slotPayload); err != nil {
				return fmt.Errorf("insert schedule slot: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save schedule: %w", err)
	}
	return nil
}

// DeleteSchedule removes a schedule and its slots; conflicts cascade via
// the foreign key, mirroring the ON DELETE CASCADE the teacher relies on
// for term/class deletes.
func (s *Store) DeleteSchedule(ctx context.Context, scheduleID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, scheduleID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
