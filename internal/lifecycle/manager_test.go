package lifecycle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/domain"
)

// fakeRepo is an in-memory stand-in for ports.Repository, mirroring the
// teacher's sqlmock-backed repository tests but without the database.
type fakeRepo struct {
	schedules map[string]*domain.Schedule
	slots     map[string][]domain.ScheduleSlot
	conflicts map[string][]domain.Conflict
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		schedules: map[string]*domain.Schedule{},
		slots:     map[string][]domain.ScheduleSlot{},
		conflicts: map[string][]domain.Conflict{},
	}
}

func (f *fakeRepo) ListActiveTeachers(ctx context.Context) ([]domain.Teacher, error) { return nil, nil }
func (f *fakeRepo) ListActiveCourses(ctx context.Context) ([]domain.Course, error)    { return nil, nil }
func (f *fakeRepo) ListActiveRooms(ctx context.Context) ([]domain.Room, error)        { return nil, nil }
func (f *fakeRepo) ListStudents(ctx context.Context) ([]domain.Student, error)        { return nil, nil }
func (f *fakeRepo) FindScheduleSlotsByScheduleID(ctx context.Context, scheduleID string) ([]domain.ScheduleSlot, error) {
	return f.slots[scheduleID], nil
}
func (f *fakeRepo) FindEnrollmentsByScheduleID(ctx context.Context, scheduleID string) ([]domain.Enrollment, error) {
	return nil, nil
}
func (f *fakeRepo) FindEnrollmentsBySlotID(ctx context.Context, slotID string) ([]domain.Enrollment, error) {
	return nil, nil
}
func (f *fakeRepo) FindConflictsBySchedule(ctx context.Context, scheduleID string) ([]domain.Conflict, error) {
	return f.conflicts[scheduleID], nil
}
func (f *fakeRepo) SaveConflicts(ctx context.Context, scheduleID string, conflicts []domain.Conflict) error {
	f.conflicts[scheduleID] = conflicts
	return nil
}
func (f *fakeRepo) DeleteConflictsBySchedule(ctx context.Context, scheduleID string) error {
	delete(f.conflicts, scheduleID)
	return nil
}
func (f *fakeRepo) CountActiveBySchedule(ctx context.Context, scheduleID string) (int, error) {
	return len(f.conflicts[scheduleID]), nil
}
func (f *fakeRepo) FindSchedule(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	sched, ok := f.schedules[scheduleID]
	if !ok {
		return nil, nil
	}
	cp := *sched
	return &cp, nil
}
func (f *fakeRepo) SaveSchedule(ctx context.Context, schedule *domain.Schedule, slots []domain.ScheduleSlot) error {
	cp := *schedule
	f.schedules[schedule.ID] = &cp
	if slots != nil {
		f.slots[schedule.ID] = slots
	}
	return nil
}
func (f *fakeRepo) DeleteSchedule(ctx context.Context, scheduleID string) error {
	delete(f.schedules, scheduleID)
	delete(f.slots, scheduleID)
	return nil
}
func (f *fakeRepo) UpdateCourseBinding(ctx context.Context, courseID, teacherID string) error {
	return nil
}

func TestLifecycle_GenerateReviewPublishArchive(t *testing.T) {
	repo := newFakeRepo()
	mgr := New(repo, domain.DefaultConfiguration())
	ctx := context.Background()

	sched, err := mgr.Create(ctx, "Fall 2026")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, sched.Status)

	sched, err = mgr.BeginGenerate(ctx, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, sched.Status)

	slots := []domain.ScheduleSlot{
		{ID: "s1", ScheduleID: sched.ID, CourseID: "c1", TeacherID: "t1", RoomID: "r1",
			Window: domain.TimeWindow{Day: domain.Monday, Start: domain.NewTimeOfDay(9, 0), End: domain.NewTimeOfDay(9, 50)}},
	}
	roster := domain.NewRoster(
		[]domain.Teacher{{ID: "t1", Active: true}},
		[]domain.Course{{ID: "c1", Active: true, Enrollment: 10, MaxStudents: 30}},
		[]domain.Room{{ID: "r1", Capacity: 30, Available: true}},
		nil,
	)
	sched, conflicts, err := mgr.CompleteGenerate(ctx, sched.ID, slots, 12.5, nil, roster)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReview, sched.Status)
	assert.Equal(t, 1, sched.Version)
	assert.Empty(t, conflicts)

	published, err := mgr.Publish(ctx, sched.ID, roster, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, published.Status)

	archived, err := mgr.Archive(ctx, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, archived.Status)

	// Archive is idempotent on an already-archived schedule.
	archivedAgain, err := mgr.Archive(ctx, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, archivedAgain.Status)
}

func TestLifecycle_PublishRefusesOnCriticalConflicts(t *testing.T) {
	repo := newFakeRepo()
	mgr := New(repo, domain.DefaultConfiguration())
	ctx := context.Background()

	sched, err := mgr.Create(ctx, "Spring 2026")
	require.NoError(t, err)
	_, err = mgr.BeginGenerate(ctx, sched.ID)
	require.NoError(t, err)

	slots := []domain.ScheduleSlot{
		{ID: "s1", ScheduleID: sched.ID, CourseID: "c1", TeacherID: "t1", RoomID: "r1",
			Window: domain.TimeWindow{Day: domain.Monday, Start: domain.NewTimeOfDay(9, 0), End: domain.NewTimeOfDay(9, 50)}},
		{ID: "s2", ScheduleID: sched.ID, CourseID: "c2", TeacherID: "t1", RoomID: "r1",
			Window: domain.TimeWindow{Day: domain.Monday, Start: domain.NewTimeOfDay(9, 0), End: domain.NewTimeOfDay(9, 50)}},
	}
	roster := domain.NewRoster(
		[]domain.Teacher{{ID: "t1", Active: true}},
		[]domain.Course{
			{ID: "c1", Active: true, Enrollment: 10, MaxStudents: 30},
			{ID: "c2", Active: true, Enrollment: 10, MaxStudents: 30},
		},
		[]domain.Room{{ID: "r1", Capacity: 30, Available: true}},
		nil,
	)
	_, conflicts, err := mgr.CompleteGenerate(ctx, sched.ID, slots, 0, nil, roster)
	require.NoError(t, err)
	require.NotEmpty(t, conflicts)

	_, err = mgr.Publish(ctx, sched.ID, roster, nil)
	require.Error(t, err)
	appErr := apperr.FromError(err)
	assert.Equal(t, apperr.ErrScheduleHasCriticalConflicts.Code, appErr.Code)
}

func TestLifecycle_ArchivedIsImmutable(t *testing.T) {
	repo := newFakeRepo()
	mgr := New(repo, domain.DefaultConfiguration())
	ctx := context.Background()

	sched, err := mgr.Create(ctx, "Old Term")
	require.NoError(t, err)
	_, err = mgr.Archive(ctx, sched.ID)
	require.NoError(t, err)

	_, err = mgr.BeginGenerate(ctx, sched.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.ErrScheduleImmutable, err)
}

func TestLifecycle_DeleteOnlyDraftOrArchived(t *testing.T) {
	repo := newFakeRepo()
	mgr := New(repo, domain.DefaultConfiguration())
	ctx := context.Background()

	sched, err := mgr.Create(ctx, "Term")
	require.NoError(t, err)
	_, err = mgr.BeginGenerate(ctx, sched.ID)
	require.NoError(t, err)

	err = mgr.Delete(ctx, sched.ID)
	assert.Equal(t, apperr.ErrScheduleImmutable, err)

	_, err = mgr.Archive(ctx, sched.ID)
	require.NoError(t, err)
	err = mgr.Delete(ctx, sched.ID)
	assert.NoError(t, err)
}

func TestLifecycle_CloneDeepCopiesSlotsWithFreshIDs(t *testing.T) {
	repo := newFakeRepo()
	mgr := New(repo, domain.DefaultConfiguration())
	ctx := context.Background()

	sched, err := mgr.Create(ctx, "Original")
	require.NoError(t, err)
	_, err = mgr.BeginGenerate(ctx, sched.ID)
	require.NoError(t, err)

	slots := []domain.ScheduleSlot{
		{ID: "s1", ScheduleID: sched.ID, CourseID: "c1", TeacherID: "t1", RoomID: "r1",
			Window: domain.TimeWindow{Day: domain.Monday, Start: domain.NewTimeOfDay(9, 0), End: domain.NewTimeOfDay(9, 50)}},
	}
	roster := domain.NewRoster(
		[]domain.Teacher{{ID: "t1", Active: true}},
		[]domain.Course{{ID: "c1", Active: true, Enrollment: 10, MaxStudents: 30}},
		[]domain.Room{{ID: "r1", Capacity: 30, Available: true}},
		nil,
	)
	_, _, err = mgr.CompleteGenerate(ctx, sched.ID, slots, 0, nil, roster)
	require.NoError(t, err)

	clone, err := mgr.Clone(ctx, sched.ID, "Clone of Original")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, clone.Status)
	assert.NotEqual(t, sched.ID, clone.ID)

	cloneSlots := repo.slots[clone.ID]
	require.Len(t, cloneSlots, len(slots))
	assert.NotEqual(t, slots[0].ID, cloneSlots[0].ID)
	assert.Equal(t, slots[0].CourseID, cloneSlots[0].CourseID)
	assert.Equal(t, slots[0].TeacherID, cloneSlots[0].TeacherID)
	assert.Equal(t, slots[0].RoomID, cloneSlots[0].RoomID)
	assert.Equal(t, slots[0].Window, cloneSlots[0].Window)
	assert.Empty(t, repo.conflicts[clone.ID])
}
