package solver

import (
	"context"
	"math/rand"
	"time"

	"github.com/noah-isme/sched-engine/internal/conflict"
	"github.com/noah-isme/sched-engine/internal/domain"
)

// graceWindow is added to the solver time budget when Solve derives its
// context deadline, so the budget's own deadline check ends the search
// before the context times out. A cancelled caller context stops the
// search at its next budget check.
const graceWindow = 500 * time.Millisecond

// searchBudget tracks the stopping conditions shared by every local-search
// strategy: a hard iteration cap, a wall-clock deadline, an unimproved-time
// deadline that resets on every improving move, and context cancellation.
type searchBudget struct {
	ctx                context.Context
	deadline           time.Time
	unimprovedDeadline time.Time
	unimprovedBudget   time.Duration
	maxIterations      int
	cancelled          bool
}

func newSearchBudget(ctx context.Context, cfg timeBudget) *searchBudget {
	now := cfg.now
	return &searchBudget{
		ctx:                ctx,
		deadline:           now.Add(cfg.total),
		unimprovedDeadline: now.Add(cfg.unimproved),
		unimprovedBudget:   cfg.unimproved,
		maxIterations:      cfg.maxIterations,
	}
}

// timeBudget is the plain-data form of the time-related configuration a
// caller supplies, keeping searchBudget itself free of a direct
// domain.SchedulerConfiguration dependency.
type timeBudget struct {
	now           time.Time
	total         time.Duration
	unimproved    time.Duration
	maxIterations int
}

func (b *searchBudget) exhausted(iterations int) bool {
	if b.maxIterations > 0 && iterations >= b.maxIterations {
		return true
	}
	select {
	case <-b.ctx.Done():
		b.cancelled = true
		return true
	default:
	}
	now := timeNow()
	if !b.deadline.IsZero() && now.After(b.deadline) {
		return true
	}
	if !b.unimprovedDeadline.IsZero() && now.After(b.unimprovedDeadline) {
		return true
	}
	return false
}

func (b *searchBudget) noteImprovement() {
	b.unimprovedDeadline = timeNow().Add(b.unimprovedBudget)
}

// timeNow is a seam so tests can exercise budget exhaustion deterministically.
var timeNow = time.Now

// Solve assigns every section a (time, room, teacher) binding: it always
// seeds with a deterministic greedy construction first, then - unless the
// configuration selects plain GREEDY - refines with tabu hill-climbing or
// simulated annealing until a termination condition fires (time budget
// elapsed, unimproved-time budget elapsed since the start or the last
// improving move, or ctx is cancelled; no iteration cap is set). The
// tabu search also stops when no hard-feasible move remains. The search always
// returns the best feasible solution it found, or the lowest-
// infeasibility partial result with BlockingConstraint set.
func Solve(ctx context.Context, in Input) Result {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(in.Config.SolverTimeBudget)*time.Second+graceWindow)
	defer cancel()

	detector := conflict.New(in.Config)
	grid := BuildTimeGrid(in.Config)
	s := newState(in, detector, grid)

	greedySeed(s)

	budget := newSearchBudget(ctx, timeBudget{
		now:           timeNow(),
		total:         time.Duration(in.Config.SolverTimeBudget) * time.Second,
		unimproved:    time.Duration(in.Config.UnimprovedSecondsBudget) * time.Second,
		maxIterations: 0,
	})

	switch in.Config.AlgorithmChoice {
	case domain.AlgorithmTabuHillClimbing:
		return tabuHillClimb(s, budget)
	case domain.AlgorithmSimulatedAnnealing:
		rng := rand.New(rand.NewSource(int64(seedFromSchedule(in.ScheduleID))))
		return simulatedAnnealing(s, budget, rng)
	default:
		return buildResult(s, s.score(), 0, false)
	}
}

// seedFromSchedule derives a stable RNG seed from the schedule ID so the
// same Input always anneals identically.
func seedFromSchedule(scheduleID string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(scheduleID); i++ {
		h ^= uint64(scheduleID[i])
		h *= 1099511628211
	}
	return h
}
