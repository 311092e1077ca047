package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// fakeRepo is a minimal in-memory ports.Repository for engine-level
// orchestration tests; it is not meant to exercise persistence edge cases
// (internal/lifecycle and internal/store own those).
type fakeRepo struct {
	teachers  []domain.Teacher
	courses   []domain.Course
	rooms     []domain.Room
	students  []domain.Student
	schedules map[string]*domain.Schedule
	slots     map[string][]domain.ScheduleSlot
	conflicts map[string][]domain.Conflict
	bindings  map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		schedules: map[string]*domain.Schedule{},
		slots:     map[string][]domain.ScheduleSlot{},
		conflicts: map[string][]domain.Conflict{},
		bindings:  map[string]string{},
	}
}

func (f *fakeRepo) ListActiveTeachers(ctx context.Context) ([]domain.Teacher, error) { return f.teachers, nil }
func (f *fakeRepo) ListActiveCourses(ctx context.Context) ([]domain.Course, error)    { return f.courses, nil }
func (f *fakeRepo) ListActiveRooms(ctx context.Context) ([]domain.Room, error)        { return f.rooms, nil }
func (f *fakeRepo) ListStudents(ctx context.Context) ([]domain.Student, error)        { return f.students, nil }
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
	f.bindings[courseID] = teacherID
	for i := range f.courses {
		if f.courses[i].ID == courseID {
			f.courses[i].TeacherID = teacherID
		}
	}
	return nil
}

// fakeSIS is a minimal ports.SISGateway backed by fixed slices.
type fakeSIS struct {
	enrollments []domain.Enrollment
}

func (f *fakeSIS) FetchStudents(ctx context.Context) ([]domain.Student, error)    { return nil, nil }
func (f *fakeSIS) FetchTeachers(ctx context.Context) ([]domain.Teacher, error)    { return nil, nil }
func (f *fakeSIS) FetchCourses(ctx context.Context) ([]domain.Course, error)      { return nil, nil }
func (f *fakeSIS) FetchEnrollments(ctx context.Context) ([]domain.Enrollment, error) {
	return f.enrollments, nil
}
func (f *fakeSIS) FetchLunchAssignments(ctx context.Context) (map[string]domain.TimeWindow, error) {
	return nil, nil
}
func (f *fakeSIS) FetchTeacherAvailability(ctx context.Context, teacherID string) ([]domain.TimeWindow, error) {
	return nil, nil
}
func (f *fakeSIS) HealthCheck(ctx context.Context) bool { return true }

func smallFixture() *fakeRepo {
	repo := newFakeRepo()
	repo.teachers = []domain.Teacher{
		{ID: "t1", Certifications: []string{"math"}, Active: true, MaxPeriodsPerDay: 7},
	}
	repo.courses = []domain.Course{
		{ID: "c1", Subject: "math", Enrollment: 15, MaxStudents: 30, Active: true, SessionsPerWeek: 1},
	}
	repo.rooms = []domain.Room{
		{ID: "r1", Capacity: 30, RoomType: domain.RoomClassroom, Available: true, MaxConcurrentClasses: 1},
	}
	return repo
}

func TestEngine_GenerateProducesReviewSchedule(t *testing.T) {
	repo := smallFixture()
	sis := &fakeSIS{}
	eng := New(repo, sis, domain.DefaultConfiguration())

	result, err := eng.Generate(context.Background(), GenerateScheduleRequest{
		ScheduleName:    "Fall Term",
		AlgorithmChoice: domain.AlgorithmGreedy,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReview, result.Status)
	assert.NotEmpty(t, result.ScheduleID)
	assert.Equal(t, "t1", repo.bindings["c1"])
}

func TestEngine_FeasibilitySurfacesNoTeacherViolation(t *testing.T) {
	repo := newFakeRepo()
	repo.courses = []domain.Course{{ID: "c1", Subject: "algebra", Active: true, SessionsPerWeek: 1}}
	sis := &fakeSIS{}
	eng := New(repo, sis, domain.DefaultConfiguration())

	result, err := eng.Feasibility(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, domain.SeverityCritical, result.Violations[0].Severity)
}

func TestEngine_PublishThenArchive(t *testing.T) {
	repo := smallFixture()
	sis := &fakeSIS{}
	eng := New(repo, sis, domain.DefaultConfiguration())

	result, err := eng.Generate(context.Background(), GenerateScheduleRequest{
		ScheduleName:    "Spring Term",
		AlgorithmChoice: domain.AlgorithmGreedy,
	})
	require.NoError(t, err)

	published, err := eng.Publish(context.Background(), result.ScheduleID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, published.Status)

	archived, err := eng.Archive(context.Background(), result.ScheduleID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, archived.Status)
}

func TestEngine_GenerateStagedProposalRequiresExplicitCommit(t *testing.T) {
	repo := smallFixture()
	sis := &fakeSIS{}
	eng := New(repo, sis, domain.DefaultConfiguration())

	staged, err := eng.Generate(context.Background(), GenerateScheduleRequest{
		ScheduleName:    "Staged Term",
		AlgorithmChoice: domain.AlgorithmGreedy,
		StageForReview:  true,
	})
	require.NoError(t, err)
	assert.True(t, staged.Staged)
	assert.NotEmpty(t, staged.ProposalID)
	assert.Equal(t, domain.StatusInProgress, staged.Status)

	// Nothing is persisted into REVIEW until the proposal is committed.
	sched, ok := repo.schedules[staged.ScheduleID]
	require.True(t, ok)
	assert.Equal(t, domain.StatusInProgress, sched.Status)

	committed, err := eng.CommitProposal(context.Background(), staged.ProposalID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReview, committed.Status)
	assert.Equal(t, staged.ScheduleID, committed.ScheduleID)

	// A second commit of the same (now-deleted) proposal id fails.
	_, err = eng.CommitProposal(context.Background(), staged.ProposalID)
	require.Error(t, err)
}

func TestEngine_DiscardProposalPreventsLateCommit(t *testing.T) {
	repo := smallFixture()
	sis := &fakeSIS{}
	eng := New(repo, sis, domain.DefaultConfiguration())

	staged, err := eng.Generate(context.Background(), GenerateScheduleRequest{
		ScheduleName:    "Discarded Term",
		AlgorithmChoice: domain.AlgorithmGreedy,
		StageForReview:  true,
	})
	require.NoError(t, err)

	eng.DiscardProposal(staged.ProposalID)

	_, err = eng.CommitProposal(context.Background(), staged.ProposalID)
	require.Error(t, err)
}

func TestEngine_CheckSlotFlagsTeacherDoubleBooking(t *testing.T) {
	repo := smallFixture()
	repo.courses = append(repo.courses, domain.Course{
		ID: "c2", Subject: "math", Enrollment: 10, MaxStudents: 30, Active: true, SessionsPerWeek: 1, TeacherID: "t1",
	})
	sis := &fakeSIS{}
	eng := New(repo, sis, domain.DefaultConfiguration())

	existing := domain.ScheduleSlot{
		ID: "existing", ScheduleID: "sched1", CourseID: "c2", TeacherID: "t1", RoomID: "r1",
		Window: domain.TimeWindow{Day: domain.Monday, Start: domain.NewTimeOfDay(9, 0), End: domain.NewTimeOfDay(9, 50)},
	}
	repo.slots["sched1"] = []domain.ScheduleSlot{existing}

	candidate := domain.ScheduleSlot{
		ID: "candidate", ScheduleID: "sched1", CourseID: "c1", TeacherID: "t1", RoomID: "r1",
		Window: domain.TimeWindow{Day: domain.Monday, Start: domain.NewTimeOfDay(9, 0), End: domain.NewTimeOfDay(9, 50)},
	}
	conflicts, err := eng.CheckSlot(context.Background(), "sched1", candidate)
	require.NoError(t, err)
	assert.NotEmpty(t, conflicts)
}
