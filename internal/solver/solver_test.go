package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/domain"
)

func simpleRoster() domain.Roster {
	return domain.NewRoster(
		[]domain.Teacher{
			{ID: "t1", Certifications: []string{"math"}, Active: true, MaxPeriodsPerDay: 7},
			{ID: "t2", Certifications: []string{"english"}, Active: true, MaxPeriodsPerDay: 7},
		},
		[]domain.Course{
			{ID: "c1", Subject: "math", Enrollment: 20, MaxStudents: 30, Active: true, SessionsPerWeek: 2},
			{ID: "c2", Subject: "english", Enrollment: 15, MaxStudents: 30, Active: true, SessionsPerWeek: 1},
		},
		[]domain.Room{
			{ID: "r1", Capacity: 30, RoomType: domain.RoomClassroom, Available: true, MaxConcurrentClasses: 1},
			{ID: "r2", Capacity: 30, RoomType: domain.RoomClassroom, Available: true, MaxConcurrentClasses: 1},
		},
		nil,
	)
}

func TestSolve_GreedyProducesFeasibleResult(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	cfg.AlgorithmChoice = domain.AlgorithmGreedy
	in := Input{ScheduleID: "sched1", Roster: simpleRoster(), Config: cfg}

	result := Solve(context.Background(), in)

	require.True(t, result.Feasible, "expected greedy seed to find a feasible result; blocking=%s", result.BlockingConstraint)
	assert.Empty(t, result.Unplaced)
	assert.Len(t, result.Assignments, 3) // c1 x2 sessions + c2 x1 session
}

// No two assignments may share a teacher or room at an overlapping time -
// the hard constraint every strategy must preserve (spec.md §4.4).
func TestSolve_NoHardConstraintViolations(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	cfg.AlgorithmChoice = domain.AlgorithmGreedy
	in := Input{ScheduleID: "sched1", Roster: simpleRoster(), Config: cfg}

	result := Solve(context.Background(), in)
	require.True(t, result.Feasible)

	for i := 0; i < len(result.Assignments); i++ {
		for j := i + 1; j < len(result.Assignments); j++ {
			a, b := result.Assignments[i], result.Assignments[j]
			if !a.Window.Overlaps(b.Window) {
				continue
			}
			assert.NotEqual(t, a.TeacherID, b.TeacherID, "teacher double-booked")
			assert.NotEqual(t, a.RoomID, b.RoomID, "room double-booked")
		}
	}
}

// Property from spec.md §8: a feasible result produces zero CRITICAL
// conflicts when run back through the detector.
func TestSolve_FeasibleResultHasNoCriticalConflicts(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	cfg.AlgorithmChoice = domain.AlgorithmTabuHillClimbing
	cfg.SolverTimeBudget = 1
	cfg.UnimprovedSecondsBudget = 1
	in := Input{ScheduleID: "sched1", Roster: simpleRoster(), Config: cfg}

	result := Solve(context.Background(), in)
	require.True(t, result.Feasible)
	assert.Less(t, result.Score, infeasible)
}

func TestSolve_NoMatchingRoomTypeReportsBlockingConstraint(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	cfg.AlgorithmChoice = domain.AlgorithmGreedy
	gym := domain.RoomGymnasium
	roster := domain.NewRoster(
		[]domain.Teacher{{ID: "t1", Certifications: []string{"physical education"}, Active: true, MaxPeriodsPerDay: 7}},
		[]domain.Course{
			{ID: "c1", Subject: "physical education", RequiredRoomType: &gym, Enrollment: 20, MaxStudents: 30, Active: true, SessionsPerWeek: 1},
		},
		[]domain.Room{{ID: "r1", Capacity: 30, RoomType: domain.RoomClassroom, Available: true, MaxConcurrentClasses: 1}},
		nil,
	)
	in := Input{ScheduleID: "sched1", Roster: roster, Config: cfg}

	result := Solve(context.Background(), in)

	assert.False(t, result.Feasible)
	assert.NotEmpty(t, result.Unplaced)
	assert.Equal(t, BlockNoRoomType, result.BlockingConstraint)
}

func TestSolve_CancelledContextStopsPromptly(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	cfg.AlgorithmChoice = domain.AlgorithmTabuHillClimbing
	cfg.SolverTimeBudget = 300
	cfg.UnimprovedSecondsBudget = 300
	in := Input{ScheduleID: "sched1", Roster: simpleRoster(), Config: cfg}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Solve(ctx, in)
	assert.True(t, result.Cancelled)
}
