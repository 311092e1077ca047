// Package solver implements the constraint-based schedule solver (C5):
// assigns a time slot, room, and teacher to every course section (a
// teacher bound by the matcher is tried first but is not fixed: any
// certified, active teacher may be chosen) so that every hard constraint in
// spec.md §4.4 holds and the weighted soft-penalty sum is minimized,
// subject to a time budget.
package solver

import (
	"github.com/noah-isme/sched-engine/internal/conflict"
	"github.com/noah-isme/sched-engine/internal/domain"
)

// Section is one weekly meeting of a course: a course with
// SessionsPerWeek=k expands into k Sections, indexed 0..k-1.
type Section struct {
	CourseID string
	Index    int
}

// Assignment is a candidate (time, room, teacher) binding for a Section.
type Assignment struct {
	Section   Section
	SlotID    string
	Window    domain.TimeWindow
	RoomID    string
	TeacherID string
}

// ToSlot renders an Assignment as a domain.ScheduleSlot for persistence
// and for feeding the conflict detector.
func (a Assignment) ToSlot(scheduleID string) domain.ScheduleSlot {
	return domain.ScheduleSlot{
		ID:         a.SlotID,
		ScheduleID: scheduleID,
		CourseID:   a.Section.CourseID,
		TeacherID:  a.TeacherID,
		RoomID:     a.RoomID,
		Window:     a.Window,
	}
}

// BlockingConstraint names the first hard constraint that kept a section
// from being placed at all, surfaced in Result on infeasibility.
type BlockingConstraint string

const (
	BlockNoCertifiedTeacher BlockingConstraint = "NO_CERTIFIED_TEACHER"
	BlockNoRoomCapacity     BlockingConstraint = "NO_ROOM_CAPACITY"
	BlockNoRoomType         BlockingConstraint = "NO_ROOM_TYPE_MATCH"
	BlockNoTimeSlot         BlockingConstraint = "NO_FEASIBLE_TIME_SLOT"
	BlockNone               BlockingConstraint = ""
)

// Result is Solve's return value: the best feasible assignment set found
// (or the lowest-infeasibility partial if none was feasible), its score,
// and enough metadata to build a GenerateScheduleResult (spec.md §6).
type Result struct {
	Assignments        []Assignment
	Unplaced           []Section
	Feasible           bool
	Score              float64
	BlockingConstraint BlockingConstraint
	Iterations         int
	Cancelled          bool
}

// Input bundles everything Solve needs: the roster to assign against, the
// scheduler configuration (time grid, weights, budgets, algorithm choice),
// and the schedule these assignments will belong to (used only to build
// ScheduleSlot IDs/detector input, never persisted by the solver itself).
type Input struct {
	ScheduleID  string
	Roster      domain.Roster
	Enrollments []domain.Enrollment
	Config      domain.SchedulerConfiguration
}

// state is the solver's mutable working copy during search: the current
// assignment for every section (some may be absent if unplaced) plus the
// set of sections that could not be placed.
type state struct {
	input      Input
	detector   *conflict.Detector
	grid       []domain.TimeWindow
	sections   []Section
	assignment map[Section]Assignment // present sections only
	unplaced   map[Section]bool
}

func newState(in Input, detector *conflict.Detector, grid []domain.TimeWindow) *state {
	return &state{
		input:      in,
		detector:   detector,
		grid:       grid,
		sections:   expandSections(in.Roster),
		assignment: make(map[Section]Assignment),
		unplaced:   make(map[Section]bool),
	}
}

// expandSections materializes one Section per weekly meeting of every
// active course, deterministically ordered by course ID then index.
func expandSections(roster domain.Roster) []Section {
	ids := sortedCourseIDs(roster)
	var out []Section
	for _, id := range ids {
		course := roster.Courses[id]
		if !course.Active {
			continue
		}
		n := course.SessionsPerWeek
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			out = append(out, Section{CourseID: id, Index: i})
		}
	}
	return out
}

// slots renders the current assignment set as a ScheduleSlot slice, for
// feeding the conflict detector or persisting.
func (s *state) slots() []domain.ScheduleSlot {
	out := make([]domain.ScheduleSlot, 0, len(s.assignment))
	for _, a := range s.assignment {
		out = append(out, a.ToSlot(s.input.ScheduleID))
	}
	return out
}

func (s *state) detectorInput() conflict.Input {
	return conflict.Input{
		ScheduleID:  s.input.ScheduleID,
		Slots:       s.slots(),
		Roster:      s.input.Roster,
		Enrollments: s.input.Enrollments,
	}
}

// criticalCount returns how many CRITICAL conflicts the current
// assignment set produces; zero means the state is hard-feasible.
func (s *state) criticalCount() int {
	summary := s.detector.ValidateSchedule(s.detectorInput())
	return summary.CriticalCount
}
