// Package lifecycle implements the schedule lifecycle manager (C6): the
// state machine over a Schedule (DRAFT -> IN_PROGRESS -> REVIEW ->
// PUBLISHED -> ARCHIVED) and the exclusive per-schedule locking spec.md
// §5 requires around every state transition and slot write.
package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/conflict"
	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/ports"
)

// Manager owns every Schedule state transition: generate, validate,
// publish, archive, clone, delete. It serializes all of those (plus any
// slot write) per schedule via a per-ID exclusive lock; readers never
// block each other, only a concurrent writer on the same schedule.
type Manager struct {
	repo     ports.Repository
	detector *conflict.Detector

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New builds a Manager over the given repository and detector
// configuration.
func New(repo ports.Repository, cfg domain.SchedulerConfiguration) *Manager {
	return &Manager{
		repo:     repo,
		detector: conflict.New(cfg),
		locks:    make(map[string]*sync.Mutex),
	}
}

// lockFor returns the exclusive mutex for scheduleID, creating it on
// first use. Locks are never removed: a schedule's lock lives for the
// process lifetime, matching spec.md §5's "per-schedule lock" model.
func (m *Manager) lockFor(scheduleID string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[scheduleID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[scheduleID] = l
	}
	return l
}

// Create starts a new Schedule in DRAFT.
func (m *Manager) Create(ctx context.Context, name string) (*domain.Schedule, error) {
	sched := &domain.Schedule{
		ID:     uuid.NewString(),
		Name:   name,
		Status: domain.StatusDraft,
	}
	if err := m.repo.SaveSchedule(ctx, sched, nil); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return sched, nil
}

// BeginGenerate transitions DRAFT -> IN_PROGRESS so the caller can run
// C5 against it. It is the only transition C6 exposes that does not also
// persist slots; the caller persists the solver's output via
// CompleteGenerate.
func (m *Manager) BeginGenerate(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	lock := m.lockFor(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := m.mustLoad(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status == domain.StatusArchived {
		return nil, apperr.ErrScheduleImmutable
	}
	sched.Status = domain.StatusInProgress
	if err := m.repo.SaveSchedule(ctx, sched, nil); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return sched, nil
}

// CompleteGenerate transitions IN_PROGRESS -> REVIEW, persisting the
// solver's resulting slots and score and refreshing conflicts.
func (m *Manager) CompleteGenerate(ctx context.Context, scheduleID string, slots []domain.ScheduleSlot, score float64, enrollments []domain.Enrollment, roster domain.Roster) (*domain.Schedule, []domain.Conflict, error) {
	lock := m.lockFor(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := m.mustLoad(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	if sched.Status == domain.StatusArchived {
		return nil, nil, apperr.ErrScheduleImmutable
	}
	sched.Status = domain.StatusReview
	sched.Score = score
	sched.Version++
	if err := m.repo.SaveSchedule(ctx, sched, slots); err != nil {
		return nil, nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}

	conflicts, err := m.refreshConflicts(ctx, sched.ID, slots, roster, enrollments)
	if err != nil {
		return nil, nil, err
	}
	return sched, conflicts, nil
}

// Publish transitions REVIEW -> PUBLISHED, refusing with
// SCHEDULE_HAS_CRITICAL_CONFLICTS if C4 finds any CRITICAL conflict.
func (m *Manager) Publish(ctx context.Context, scheduleID string, roster domain.Roster, enrollments []domain.Enrollment) (*domain.Schedule, error) {
	lock := m.lockFor(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := m.mustLoad(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status == domain.StatusArchived {
		return nil, apperr.ErrScheduleImmutable
	}

	slots, err := m.repo.FindScheduleSlotsByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	summary := m.detector.ValidateSchedule(conflict.Input{
		ScheduleID:  scheduleID,
		Slots:       slots,
		Roster:      roster,
		Enrollments: enrollments,
	})
	if summary.CriticalCount > 0 {
		return nil, apperr.ErrScheduleHasCriticalConflicts
	}

	sched.Status = domain.StatusPublished
	if err := m.repo.SaveSchedule(ctx, sched, nil); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return sched, nil
}

// Archive transitions any non-ARCHIVED schedule directly to ARCHIVED.
// ARCHIVED is terminal: archiving an already-archived schedule is a no-op
// success, not an error, matching idempotent-operation conventions
// elsewhere in the engine.
func (m *Manager) Archive(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	lock := m.lockFor(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := m.mustLoad(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if sched.Status == domain.StatusArchived {
		return sched, nil
	}
	sched.Status = domain.StatusArchived
	if err := m.repo.SaveSchedule(ctx, sched, nil); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return sched, nil
}

// Clone produces a new DRAFT schedule with deep-copied slots (fresh IDs,
// same day/time/room/teacher bindings) and no conflicts, per spec.md
// §4.5. The source schedule is read-only for this operation and is not
// locked; only the new schedule's ID is.
func (m *Manager) Clone(ctx context.Context, scheduleID, newName string) (*domain.Schedule, error) {
	source, err := m.mustLoad(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	sourceSlots, err := m.repo.FindScheduleSlotsByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}

	clone := &domain.Schedule{
		ID:     uuid.NewString(),
		Name:   newName,
		Status: domain.StatusDraft,
		Score:  source.Score,
	}
	lock := m.lockFor(clone.ID)
	lock.Lock()
	defer lock.Unlock()

	clonedSlots := make([]domain.ScheduleSlot, len(sourceSlots))
	for i, slot := range sourceSlots {
		clonedSlots[i] = domain.ScheduleSlot{
			ID:         uuid.NewString(),
			ScheduleID: clone.ID,
			CourseID:   slot.CourseID,
			TeacherID:  slot.TeacherID,
			RoomID:     slot.RoomID,
			Window:     slot.Window,
		}
	}
	if err := m.repo.SaveSchedule(ctx, clone, clonedSlots); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return clone, nil
}

// Delete removes a schedule and cascades to its slots and conflicts. Only
// DRAFT and ARCHIVED schedules may be deleted; anything else is
// SCHEDULE_IMMUTABLE (a REVIEW/IN_PROGRESS/PUBLISHED schedule must be
// archived first).
func (m *Manager) Delete(ctx context.Context, scheduleID string) error {
	lock := m.lockFor(scheduleID)
	lock.Lock()
	defer lock.Unlock()

	sched, err := m.mustLoad(ctx, scheduleID)
	if err != nil {
		return err
	}
	if sched.Status != domain.StatusDraft && sched.Status != domain.StatusArchived {
		return apperr.ErrScheduleImmutable
	}
	if err := m.repo.DeleteConflictsBySchedule(ctx, scheduleID); err != nil {
		return apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	if err := m.repo.DeleteSchedule(ctx, scheduleID); err != nil {
		return apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return nil
}

// refreshConflicts clears and recomputes the conflict set for a schedule,
// mirroring internal/conflict.Store's idempotent refresh.
func (m *Manager) refreshConflicts(ctx context.Context, scheduleID string, slots []domain.ScheduleSlot, roster domain.Roster, enrollments []domain.Enrollment) ([]domain.Conflict, error) {
	if err := m.repo.DeleteConflictsBySchedule(ctx, scheduleID); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	conflicts := m.detector.DetectAll(conflict.Input{
		ScheduleID:  scheduleID,
		Slots:       slots,
		Roster:      roster,
		Enrollments: enrollments,
	})
	if err := m.repo.SaveConflicts(ctx, scheduleID, conflicts); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return conflicts, nil
}

func (m *Manager) mustLoad(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	sched, err := m.repo.FindSchedule(ctx, scheduleID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	if sched == nil {
		return nil, apperr.ErrScheduleNotFound
	}
	return sched, nil
}
