package solver

import (
	"math"
	"sort"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// infeasible is the score assigned to an assignment set with one or more
// CRITICAL conflicts, per spec.md §4.4 ("infeasible score = infinity").
const infeasible = math.MaxFloat64

// midMorningStart/End bound the "mid-morning band" difficulty placement
// soft constraint prefers for high-priority/advanced courses.
var (
	midMorningStart = domain.NewTimeOfDay(9, 0)
	midMorningEnd   = domain.NewTimeOfDay(11, 0)
)

// score computes the weighted soft-penalty sum for the current state, or
// infeasible if any hard constraint (surfaced as a CRITICAL conflict, or a
// section left unplaced) is violated.
func (s *state) score() float64 {
	if len(s.unplaced) > 0 {
		return infeasible
	}
	summary := s.detector.ValidateSchedule(s.detectorInput())
	if summary.CriticalCount > 0 {
		return infeasible
	}

	weights := s.input.Config.WeightVector
	w := func(key string, fallback float64) float64 {
		if v, ok := weights[key]; ok {
			return v
		}
		return fallback
	}

	var total float64
	total += w("teacherWorkloadBalance", 50) * s.teacherWorkloadVariance()
	total += w("studentGaps", 30) * s.studentGapMinutes()
	total += w("lunchBreak", 20) * countBySeverityType(summary.Conflicts, domain.ConflictMissingLunch)
	total += w("crossBuildingMoves", 10) * countBySeverityType(summary.Conflicts, domain.ConflictBuildingTravel)
	total += w("difficultyPlacement", 10) * s.difficultyPlacementPenalty()
	total += w("subjectGrouping", 10) * s.subjectGroupingPenalty()
	// "preferences" (teacher/room preferences) has no source of truth in
	// the core domain model (spec.md §3 names no preference field on
	// Teacher/Room) - left at zero as an extension point; a site that adds
	// preference data can fold it in here.
	return total
}

func countBySeverityType(conflicts []domain.Conflict, t domain.ConflictType) float64 {
	var n float64
	for _, c := range conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// teacherWorkloadVariance is the population variance of TeachingPeriods
// across every teacher with at least one assigned slot, per spec.md
// §4.4's "teacher workload balance".
func (s *state) teacherWorkloadVariance() float64 {
	slots := s.slots()
	counts := map[string]int{}
	for _, slot := range slots {
		counts[slot.TeacherID]++
	}
	if len(counts) == 0 {
		return 0
	}
	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	mean := sum / float64(len(counts))
	var variance float64
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	return variance / float64(len(counts))
}

// studentGapMinutes sums, per student per day, the minutes between
// consecutive enrolled slots (a proxy for "minimize student gaps").
func (s *state) studentGapMinutes() float64 {
	slots := s.slots()
	slotByCourse := map[string][]domain.ScheduleSlot{}
	for _, slot := range slots {
		slotByCourse[slot.CourseID] = append(slotByCourse[slot.CourseID], slot)
	}
	byStudentDay := map[string][]domain.ScheduleSlot{}
	for _, e := range s.input.Enrollments {
		if !e.Active {
			continue
		}
		for _, slot := range slotByCourse[e.CourseID] {
			key := e.StudentID + "|" + slot.DayOfWeek().String()
			byStudentDay[key] = append(byStudentDay[key], slot)
		}
	}
	var total float64
	for _, daySlots := range byStudentDay {
		sort.Slice(daySlots, func(i, j int) bool { return daySlots[i].StartTime() < daySlots[j].StartTime() })
		for i := 0; i < len(daySlots)-1; i++ {
			gap := daySlots[i+1].StartTime().Sub(daySlots[i].EndTime())
			if gap > 0 {
				total += float64(gap)
			}
		}
	}
	return total
}

// difficultyPlacementPenalty penalizes high-priority/advanced courses
// scheduled outside the mid-morning band, per spec.md §4.4's "spread
// difficult/advanced courses into the mid-morning band".
func (s *state) difficultyPlacementPenalty() float64 {
	var penalty float64
	for section, a := range s.assignment {
		course, ok := s.input.Roster.Courses[section.CourseID]
		if !ok || course.PriorityLevel == nil || *course.PriorityLevel < 8 {
			continue
		}
		if a.Window.Start.Before(midMorningStart) || !a.Window.End.Before(midMorningEnd.Add(1)) {
			penalty++
		}
	}
	return penalty
}

// subjectGroupingPenalty penalizes sessions of the same course that are
// scheduled on the same day (spec.md §4.4's "group related subjects/
// adjacent sections of the same course" - sessions should spread across
// distinct days, not cluster).
func (s *state) subjectGroupingPenalty() float64 {
	seenDay := map[string]map[domain.Weekday]int{}
	for section, a := range s.assignment {
		if seenDay[section.CourseID] == nil {
			seenDay[section.CourseID] = map[domain.Weekday]int{}
		}
		seenDay[section.CourseID][a.Window.Day]++
	}
	var penalty float64
	for _, dayCounts := range seenDay {
		for _, n := range dayCounts {
			if n > 1 {
				penalty += float64(n - 1)
			}
		}
	}
	return penalty
}
