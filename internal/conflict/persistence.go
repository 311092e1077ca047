package conflict

import (
	"context"

	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/ports"
)

// Store wraps a Detector with conflict persistence. It offers HasConflicts
// and Refresh only; saving or clearing on their own goes through the
// Repository directly. Refresh issues the clear and the save as two
// separate Repository calls, so they do not share one transaction.
type Store struct {
	detector *Detector
	repo     ports.Repository
}

// NewStore builds a Store over a Detector and the repository it persists
// through.
func NewStore(detector *Detector, repo ports.Repository) *Store {
	return &Store{detector: detector, repo: repo}
}

// HasConflicts answers hasConflicts? in O(1) via the repository's
// persisted counter, per spec.md §4.3.
func (s *Store) HasConflicts(ctx context.Context, scheduleID string) (bool, error) {
	n, err := s.repo.CountActiveBySchedule(ctx, scheduleID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Refresh is clear + detect + save: it recomputes every conflict for a
// schedule from its current slots/enrollments and persists the result,
// replacing whatever was previously stored.
func (s *Store) Refresh(ctx context.Context, in Input) (ValidationSummary, error) {
	if err := s.repo.DeleteConflictsBySchedule(ctx, in.ScheduleID); err != nil {
		return ValidationSummary{}, err
	}
	summary := s.detector.ValidateSchedule(in)
	if err := s.repo.SaveConflicts(ctx, in.ScheduleID, summary.Conflicts); err != nil {
		return ValidationSummary{}, err
	}
	return summary, nil
}
