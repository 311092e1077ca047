// Package engine wires the six components into the operations an outer
// transport layer (cmd/sched-engine's HTTP handlers) calls: generate,
// validate, check a candidate slot, match a single course, run a
// feasibility audit, and the lifecycle verbs, per spec.md §2's data flow
// SIS+repository -> C2 -> C3 -> C5 -> C4 -> C6.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/conflict"
	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/feasibility"
	"github.com/noah-isme/sched-engine/internal/lifecycle"
	"github.com/noah-isme/sched-engine/internal/matcher"
	"github.com/noah-isme/sched-engine/internal/metrics"
	"github.com/noah-isme/sched-engine/internal/ports"
	"github.com/noah-isme/sched-engine/internal/solver"
)

// Engine is the composition root for the four algorithmic subsystems
// (C2-C5) plus the lifecycle manager (C6) over a single repository/SIS
// pair.
type Engine struct {
	repo      ports.Repository
	sis       ports.SISGateway
	cfg       domain.SchedulerConfiguration
	analyzer  *feasibility.Analyzer
	matcher   *matcher.Matcher
	detector  *conflict.Detector
	lifecycle *lifecycle.Manager
	metrics   *metrics.Metrics
	proposals *proposalStore
}

// New builds an Engine. cfg supplies every tunable named in spec.md §3/§7;
// callers generally start from domain.DefaultConfiguration() and override
// per-request fields.
func New(repo ports.Repository, sis ports.SISGateway, cfg domain.SchedulerConfiguration) *Engine {
	return &Engine{
		repo:      repo,
		sis:       sis,
		cfg:       cfg,
		analyzer:  feasibility.New(cfg),
		matcher:   matcher.New(cfg),
		detector:  conflict.New(cfg),
		lifecycle: lifecycle.New(repo, cfg),
		proposals: newProposalStore(time.Duration(cfg.ProposalTTLSeconds) * time.Second),
	}
}

// SetMetrics attaches a Prometheus collector the engine publishes
// conflict-severity gauges through. Optional: a nil/unset collector
// degrades every call to a no-op, per metrics.Metrics's own nil-safety.
func (e *Engine) SetMetrics(m *metrics.Metrics) {
	e.metrics = m
}

// GenerateScheduleRequest mirrors spec.md §6's solver input contract.
type GenerateScheduleRequest struct {
	ScheduleName            string
	TargetWeekdays          []domain.Weekday
	EarliestStart           domain.TimeOfDay
	LatestEnd               domain.TimeOfDay
	PassingMinutes          int
	TimeBudgetSeconds       int
	UnimprovedSecondsBudget int
	AlgorithmChoice         domain.AlgorithmChoice
	WeightOverrides         map[string]float64

	// StageForReview holds the solve result in the proposal cache instead
	// of committing it to REVIEW immediately, per SPEC_FULL.md's
	// "Proposal cache with TTL" supplement: the caller inspects the
	// returned ProposalID's score/warnings, then calls CommitProposal (or
	// lets it expire via DiscardProposal/the store's ttl).
	StageForReview bool
}

// GenerateScheduleResult mirrors spec.md §6's solver output contract,
// plus the staged-proposal bookkeeping the TTL cache adds.
type GenerateScheduleResult struct {
	ScheduleID     string
	ProposalID     string
	Staged         bool
	Status         domain.ScheduleStatus
	SummaryScore   float64
	SeverityCounts map[domain.Severity]int
	Warnings       []string
	Errors         []string
	DurationMs     int64
}

// Generate runs the full C2->C3->C5->C4->C6 pipeline: audits feasibility
// (attached as warnings, never fatal), binds unassigned courses to
// teachers, solves for time/room assignments, validates the result, and
// persists it via the lifecycle manager, landing the schedule in REVIEW.
func (e *Engine) Generate(ctx context.Context, req GenerateScheduleRequest) (*GenerateScheduleResult, error) {
	start := time.Now()
	if req.ScheduleName == "" {
		return nil, apperr.ErrInvalidInput
	}

	roster, enrollments, err := e.loadRoster(ctx)
	if err != nil {
		return nil, err
	}

	cfg := e.effectiveConfig(req)

	// C2: feasibility audit. Violations never abort generation; they
	// surface as warnings on the result per spec.md §7's propagation
	// policy for C2.
	audit := e.analyzer.Analyze(roster, len(cfg.Weekdays))
	var warnings []string
	for _, v := range audit.Violations {
		warnings = append(warnings, string(v.Type)+": "+v.Description)
	}

	// C3: bind every unbound course to a certified teacher.
	matchResult := e.matcher.Match(roster)
	for _, binding := range matchResult.Bindings {
		course := roster.Courses[binding.CourseID]
		course.TeacherID = binding.TeacherID
		roster.Courses[binding.CourseID] = course
		if err := e.repo.UpdateCourseBinding(ctx, binding.CourseID, binding.TeacherID); err != nil {
			return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
		}
	}
	for _, failure := range matchResult.Failures {
		warnings = append(warnings, string(failure.Reason)+": "+failure.Message)
	}

	sched, err := e.lifecycle.Create(ctx, req.ScheduleName)
	if err != nil {
		return nil, err
	}
	if _, err := e.lifecycle.BeginGenerate(ctx, sched.ID); err != nil {
		return nil, err
	}

	// C5: solve.
	result := solver.Solve(ctx, solver.Input{
		ScheduleID:  sched.ID,
		Roster:      roster,
		Enrollments: enrollments,
		Config:      cfg,
	})

	if result.Cancelled {
		return nil, apperr.ErrCancelled
	}
	if !result.Feasible {
		return &GenerateScheduleResult{
			ScheduleID:   sched.ID,
			Status:       domain.StatusInProgress,
			SummaryScore: result.Score,
			Warnings:     warnings,
			Errors:       []string{string(apperr.ErrInfeasibleWithinBudget.Code) + ": " + string(result.BlockingConstraint)},
			DurationMs:   time.Since(start).Milliseconds(),
		}, apperr.ErrInfeasibleWithinBudget
	}

	slots := make([]domain.ScheduleSlot, len(result.Assignments))
	for i, a := range result.Assignments {
		slots[i] = a.ToSlot(sched.ID)
	}

	// Stage the solve result before it touches C6 at all: an operator
	// inspecting a REVIEW-stage solve (or a retry after a transient
	// CompleteGenerate failure) reads the same proposal back by id.
	proposalID := uuid.NewString()
	e.proposals.save(stagedProposal{
		id:          proposalID,
		scheduleID:  sched.ID,
		slots:       slots,
		score:       result.Score,
		warnings:    warnings,
		enrollments: enrollments,
		roster:      roster,
		stagedAt:    start,
	})

	if req.StageForReview {
		return &GenerateScheduleResult{
			ScheduleID:   sched.ID,
			ProposalID:   proposalID,
			Staged:       true,
			Status:       domain.StatusInProgress,
			SummaryScore: result.Score,
			Warnings:     warnings,
			DurationMs:   time.Since(start).Milliseconds(),
		}, nil
	}

	return e.CommitProposal(ctx, proposalID)
}

// CommitProposal accepts a staged proposal (one Generate produced, either
// automatically or via StageForReview) into a persisted Schedule via
// C6.CompleteGenerate, landing it in REVIEW. Committing an unknown or
// TTL-expired proposal id fails with ErrProposalNotFound.
func (e *Engine) CommitProposal(ctx context.Context, proposalID string) (*GenerateScheduleResult, error) {
	p, ok := e.proposals.get(proposalID)
	if !ok {
		return nil, apperr.ErrProposalNotFound
	}

	finalSched, conflicts, err := e.lifecycle.CompleteGenerate(ctx, p.scheduleID, p.slots, p.score, p.enrollments, p.roster)
	if err != nil {
		return nil, err
	}
	e.proposals.delete(proposalID)

	severityCounts := map[domain.Severity]int{}
	for _, c := range conflicts {
		severityCounts[c.Severity]++
	}
	e.metrics.SetConflictCounts(severityCounts)

	return &GenerateScheduleResult{
		ScheduleID:     finalSched.ID,
		ProposalID:     proposalID,
		Status:         finalSched.Status,
		SummaryScore:   finalSched.Score,
		SeverityCounts: severityCounts,
		Warnings:       p.warnings,
		DurationMs:     time.Since(p.stagedAt).Milliseconds(),
	}, nil
}

// DiscardProposal drops a staged proposal without committing it. The
// underlying DRAFT/IN_PROGRESS schedule is left for the caller to archive
// or delete; discarding an already-committed or already-expired id is a
// no-op.
func (e *Engine) DiscardProposal(proposalID string) {
	e.proposals.delete(proposalID)
}

// Validate re-runs C4 over a schedule's current slots and returns the
// full ValidationSummary, used both by an explicit "validate" call and
// before publish.
func (e *Engine) Validate(ctx context.Context, scheduleID string) (*conflict.ValidationSummary, error) {
	roster, enrollments, err := e.loadRoster(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := e.repo.FindScheduleSlotsByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	summary := e.detector.ValidateSchedule(conflict.Input{
		ScheduleID:  scheduleID,
		Slots:       slots,
		Roster:      roster,
		Enrollments: enrollments,
	})
	e.metrics.SetConflictCounts(summary.SeverityCounts)
	return &summary, nil
}

// CheckSlot runs C4's incremental detector against a single candidate
// slot without persisting it, for an editor's "does this move create a
// conflict?" check.
func (e *Engine) CheckSlot(ctx context.Context, scheduleID string, candidate domain.ScheduleSlot) ([]domain.Conflict, error) {
	roster, enrollments, err := e.loadRoster(ctx)
	if err != nil {
		return nil, err
	}
	existing, err := e.repo.FindScheduleSlotsByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return e.detector.DetectPotentialConflicts(conflict.Input{
		ScheduleID:  scheduleID,
		Slots:       existing,
		Roster:      roster,
		Enrollments: enrollments,
	}, candidate), nil
}

// MatchCourse runs C3 for a single course, returning its binding or
// failure without touching any other course.
func (e *Engine) MatchCourse(ctx context.Context, courseID string) (*matcher.Binding, *matcher.Failure, error) {
	roster, _, err := e.loadRoster(ctx)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := roster.Courses[courseID]; !ok {
		return nil, nil, apperr.ErrNotFound
	}
	result := e.matcher.Match(roster)
	for i := range result.Bindings {
		if result.Bindings[i].CourseID == courseID {
			if err := e.repo.UpdateCourseBinding(ctx, courseID, result.Bindings[i].TeacherID); err != nil {
				return nil, nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
			}
			return &result.Bindings[i], nil, nil
		}
	}
	for i := range result.Failures {
		if result.Failures[i].CourseID == courseID {
			return nil, &result.Failures[i], nil
		}
	}
	return nil, nil, apperr.ErrInternal
}

// Feasibility runs C2's standalone pre-solve audit.
func (e *Engine) Feasibility(ctx context.Context) (*feasibility.Result, error) {
	roster, _, err := e.loadRoster(ctx)
	if err != nil {
		return nil, err
	}
	result := e.analyzer.Analyze(roster, len(e.cfg.Weekdays))
	return &result, nil
}

// Publish, Archive, Clone, and Delete pass through to the lifecycle
// manager; the engine's only value-add over calling it directly is
// bundling the roster a publish validation needs.
func (e *Engine) Publish(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	roster, enrollments, err := e.loadRoster(ctx)
	if err != nil {
		return nil, err
	}
	return e.lifecycle.Publish(ctx, scheduleID, roster, enrollments)
}

func (e *Engine) Archive(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	return e.lifecycle.Archive(ctx, scheduleID)
}

func (e *Engine) Clone(ctx context.Context, scheduleID, newName string) (*domain.Schedule, error) {
	return e.lifecycle.Clone(ctx, scheduleID, newName)
}

func (e *Engine) Delete(ctx context.Context, scheduleID string) error {
	return e.lifecycle.Delete(ctx, scheduleID)
}

// loadRoster assembles a Roster from the repository's SIS-synced cache
// (teachers/courses/rooms/students), plus the full active enrollment set.
func (e *Engine) loadRoster(ctx context.Context) (domain.Roster, []domain.Enrollment, error) {
	teachers, err := e.repo.ListActiveTeachers(ctx)
	if err != nil {
		return domain.Roster{}, nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	courses, err := e.repo.ListActiveCourses(ctx)
	if err != nil {
		return domain.Roster{}, nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	rooms, err := e.repo.ListActiveRooms(ctx)
	if err != nil {
		return domain.Roster{}, nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	students, err := e.repo.ListStudents(ctx)
	if err != nil {
		return domain.Roster{}, nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	roster := domain.NewRoster(teachers, courses, rooms, students)

	enrollments, err := e.sis.FetchEnrollments(ctx)
	if err != nil {
		return domain.Roster{}, nil, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, apperr.ErrInternal.Message)
	}
	return roster, enrollments, nil
}

// effectiveConfig overlays a generate request's overrides onto the
// engine's base SchedulerConfiguration.
func (e *Engine) effectiveConfig(req GenerateScheduleRequest) domain.SchedulerConfiguration {
	cfg := e.cfg
	if len(req.TargetWeekdays) > 0 {
		cfg.Weekdays = req.TargetWeekdays
	}
	if req.EarliestStart > 0 {
		cfg.EarliestStart = req.EarliestStart
	}
	if req.LatestEnd > 0 {
		cfg.LatestEnd = req.LatestEnd
	}
	if req.PassingMinutes > 0 {
		cfg.PassingMinutes = req.PassingMinutes
	}
	if req.TimeBudgetSeconds > 0 {
		cfg.SolverTimeBudget = req.TimeBudgetSeconds
	}
	if req.UnimprovedSecondsBudget > 0 {
		cfg.UnimprovedSecondsBudget = req.UnimprovedSecondsBudget
	}
	if req.AlgorithmChoice != "" {
		cfg.AlgorithmChoice = req.AlgorithmChoice
	}
	if len(req.WeightOverrides) > 0 {
		cfg.WeightVector = mergeWeights(cfg.WeightVector, req.WeightOverrides)
	}
	return cfg
}

func mergeWeights(base, overrides map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(base))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
