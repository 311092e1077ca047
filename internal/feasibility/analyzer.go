// Package feasibility implements the pre-schedule feasibility analyzer
// (C2): before solving, determine whether supply (teachers, rooms,
// periods) can meet demand and emit actionable fixes, per spec.md §4.1.
// Every audit is pure and read-only over the cached inventory.
package feasibility

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/matcher"
)

// ViolationType enumerates the categories analyze() can emit.
type ViolationType string

const (
	ViolationNoTeacher          ViolationType = "NO_TEACHER"
	ViolationNoRoom             ViolationType = "NO_ROOM"
	ViolationRoomCapacity       ViolationType = "ROOM_CAPACITY"
	ViolationTeacherOverload    ViolationType = "TEACHER_OVERLOAD"
	ViolationRoomTypeMismatch   ViolationType = "ROOM_TYPE_MISMATCH"
	ViolationSchedulingConflict ViolationType = "SCHEDULING_CONFLICT"
	ViolationInsufficientRooms  ViolationType = "INSUFFICIENT_ROOMS"
)

// Action is one suggested corrective step, targeting a single entity.
type Action struct {
	ActionType string
	EntityID   string
	Params     map[string]any
}

// Violation is one feasibility finding with zero or more suggested fixes.
type Violation struct {
	Type        ViolationType
	EntityID    string
	EntityName  string
	Description string
	Severity    domain.Severity
	Actions     []Action
}

// Result is analyze()'s output.
type Result struct {
	Violations     []Violation
	SeverityCounts map[domain.Severity]int
	CanAutoFix     bool
}

// Analyzer runs the four audits of spec.md §4.1 over a Roster.
type Analyzer struct {
	cfg domain.SchedulerConfiguration
}

// New builds an Analyzer using the scheduler configuration for workload
// caps. The weekly period count is not taken from the configuration; it
// is passed to each Analyze call.
func New(cfg domain.SchedulerConfiguration) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze runs the course->teacher audit, room supply vs demand audit,
// room capacity audit, and teacher workload audit, per spec.md §4.1.
func (a *Analyzer) Analyze(roster domain.Roster, periodsPerWeek int) Result {
	var violations []Violation
	violations = append(violations, a.auditCourseTeacher(roster)...)
	violations = append(violations, a.auditRoomSupply(roster, periodsPerWeek)...)
	violations = append(violations, a.auditRoomCapacity(roster)...)
	violations = append(violations, a.auditTeacherWorkload(roster)...)

	counts := map[domain.Severity]int{}
	autoFix := len(violations) > 0
	for _, v := range violations {
		counts[v.Severity]++
		if len(v.Actions) == 0 {
			autoFix = false
		}
	}
	return Result{Violations: violations, SeverityCounts: counts, CanAutoFix: autoFix}
}

// auditCourseTeacher flags active courses without a bound teacher,
// enumerating certified candidates with headroom; CRITICAL severity.
func (a *Analyzer) auditCourseTeacher(roster domain.Roster) []Violation {
	var out []Violation
	for _, courseID := range sortedCourseIDs(roster) {
		course := roster.Courses[courseID]
		if !course.Active || course.HasTeacher() {
			continue
		}
		candidates := certifiedCandidatesWithHeadroom(roster, course, a.cfg)
		v := Violation{
			Type:        ViolationNoTeacher,
			EntityID:    course.ID,
			EntityName:  course.Name,
			Severity:    domain.SeverityCritical,
			Description: fmt.Sprintf("course %s (%s) has no assigned teacher", course.ID, course.Subject),
		}
		if len(candidates) == 0 {
			v.Actions = []Action{{
				ActionType: "hire",
				EntityID:   course.ID,
				Params:     map[string]any{"subject": course.Subject},
			}}
		} else {
			for _, id := range candidates {
				v.Actions = append(v.Actions, Action{
					ActionType: "assign",
					EntityID:   id,
					Params:     map[string]any{"courseId": course.ID},
				})
			}
		}
		out = append(out, v)
	}
	return out
}

// auditRoomSupply compares weekly demand (sum of sessionsPerWeek) against
// weekly supply (sum of maxConcurrentClasses x periods-per-week) for each
// specialized subject, per spec.md §4.1.
func (a *Analyzer) auditRoomSupply(roster domain.Roster, periodsPerWeek int) []Violation {
	demand := map[domain.RoomType]int{}
	for _, course := range roster.Courses {
		if !course.Active {
			continue
		}
		rt := specializedRoomType(course)
		if rt == nil {
			continue
		}
		demand[*rt] += course.SessionsPerWeek
	}

	supply := map[domain.RoomType]int{}
	roomCount := map[domain.RoomType]int{}
	for _, room := range roster.Rooms {
		if !room.Available {
			continue
		}
		supply[room.RoomType] += room.EffectiveMaxConcurrentClasses() * periodsPerWeek
		roomCount[room.RoomType]++
	}

	var out []Violation
	for _, rt := range sortedRoomTypes(demand) {
		need := demand[rt]
		have := supply[rt]
		if need <= have {
			continue
		}
		shortfall := need - have
		affectedSections := countSectionsOfType(roster, rt)
		severity := domain.SeverityMedium
		if affectedSections > 3 {
			severity = domain.SeverityHigh
		}
		additionalRoomsNeeded := ceilDiv(shortfall, max(1, periodsPerWeek))
		totalRoomsNeeded := roomCount[rt] + additionalRoomsNeeded
		targetConcurrency := ceilDiv(need, max(1, periodsPerWeek*max(1, roomCount[rt])))

		v := Violation{
			Type:        ViolationInsufficientRooms,
			EntityID:    string(rt),
			EntityName:  string(rt),
			Severity:    severity,
			Description: fmt.Sprintf("%s demand is %d periods/week but supply is only %d periods/week (shortfall %d)", rt, need, have, shortfall),
			Actions: []Action{
				{ActionType: "add_rooms", EntityID: string(rt), Params: map[string]any{
					"additionalRooms": additionalRoomsNeeded, "totalRoomsNeeded": totalRoomsNeeded,
				}},
				{ActionType: "enable_sharing", EntityID: string(rt), Params: map[string]any{
					"maxConcurrentClasses": max(targetConcurrency, 2),
				}},
				{ActionType: "reduce_sections", EntityID: string(rt), Params: map[string]any{
					"reduceBy": ceilDiv(shortfall, max(1, periodsPerWeek)),
				}},
			},
		}
		out = append(out, v)
	}
	return out
}

// auditRoomCapacity flags courses whose enrollment exceeds the largest
// standard classroom, suggesting specific rooms that fit.
func (a *Analyzer) auditRoomCapacity(roster domain.Roster) []Violation {
	largestClassroom := 0
	for _, room := range roster.Rooms {
		if room.RoomType == domain.RoomClassroom && room.EffectiveMaxCapacity() > largestClassroom {
			largestClassroom = room.EffectiveMaxCapacity()
		}
	}

	var out []Violation
	for _, courseID := range sortedCourseIDs(roster) {
		course := roster.Courses[courseID]
		if !course.Active || course.Enrollment <= largestClassroom {
			continue
		}
		var fitting []string
		for _, roomID := range sortedRoomIDs(roster) {
			room := roster.Rooms[roomID]
			if room.Schedulable() && room.EffectiveMaxCapacity() >= course.Enrollment {
				fitting = append(fitting, roomID)
			}
		}
		excess := course.Enrollment - largestClassroom
		severity := domain.SeverityLow
		switch {
		case excess > 15:
			severity = domain.SeverityHigh
		case excess > 5:
			severity = domain.SeverityMedium
		}
		v := Violation{
			Type:        ViolationRoomCapacity,
			EntityID:    course.ID,
			EntityName:  course.Name,
			Severity:    severity,
			Description: fmt.Sprintf("course %s enrollment (%d) exceeds the largest standard classroom (%d)", course.ID, course.Enrollment, largestClassroom),
		}
		for _, roomID := range fitting {
			v.Actions = append(v.Actions, Action{ActionType: "use_room", EntityID: roomID, Params: map[string]any{"courseId": course.ID}})
		}
		out = append(out, v)
	}
	return out
}

// auditTeacherWorkload flags teachers whose currently bound course count
// exceeds the per-teacher cap, enumerating target teachers with spare
// capacity and matching certification for each overloaded course.
func (a *Analyzer) auditTeacherWorkload(roster domain.Roster) []Violation {
	workload := courseCountByTeacher(roster)
	var out []Violation
	for _, teacherID := range sortedTeacherIDs(roster) {
		teacher := roster.Teachers[teacherID]
		count := workload[teacherID]
		if count <= a.cfg.WorkloadHardCap {
			continue
		}
		v := Violation{
			Type:        ViolationTeacherOverload,
			EntityID:    teacher.ID,
			EntityName:  teacher.Name,
			Severity:    domain.SeverityHigh,
			Description: fmt.Sprintf("teacher %s is bound to %d courses, exceeding the cap of %d", teacher.ID, count, a.cfg.WorkloadHardCap),
		}
		for _, courseID := range sortedCourseIDs(roster) {
			course := roster.Courses[courseID]
			if course.TeacherID != teacher.ID {
				continue
			}
			for _, candidateID := range sortedTeacherIDs(roster) {
				if candidateID == teacher.ID {
					continue
				}
				candidate := roster.Teachers[candidateID]
				if !candidate.Active || workload[candidateID] >= a.cfg.WorkloadHardCap {
					continue
				}
				if qualified, _ := matcher.Certified(candidate.Certifications, course.Subject); qualified {
					v.Actions = append(v.Actions, Action{
						ActionType: "reassign",
						EntityID:   candidateID,
						Params:     map[string]any{"courseId": course.ID, "fromTeacherId": teacher.ID},
					})
				}
			}
		}
		out = append(out, v)
	}
	return out
}

func specializedRoomType(course domain.Course) *domain.RoomType {
	if course.RequiredRoomType != nil {
		return course.RequiredRoomType
	}
	if course.RequiresLab {
		t := domain.RoomLab
		return &t
	}
	return nil
}

func certifiedCandidatesWithHeadroom(roster domain.Roster, course domain.Course, cfg domain.SchedulerConfiguration) []string {
	workload := courseCountByTeacher(roster)
	var out []string
	for _, teacherID := range sortedTeacherIDs(roster) {
		teacher := roster.Teachers[teacherID]
		if !teacher.Active {
			continue
		}
		if qualified, _ := matcher.Certified(teacher.Certifications, course.Subject); !qualified {
			continue
		}
		if workload[teacherID] >= cfg.WorkloadHardCap {
			continue
		}
		out = append(out, teacherID)
	}
	return out
}

func courseCountByTeacher(roster domain.Roster) map[string]int {
	out := make(map[string]int)
	for _, c := range roster.Courses {
		if c.Active && c.HasTeacher() {
			out[c.TeacherID]++
		}
	}
	return out
}

func countSectionsOfType(roster domain.Roster, rt domain.RoomType) int {
	count := 0
	for _, c := range roster.Courses {
		if !c.Active {
			continue
		}
		if specType := specializedRoomType(c); specType != nil && *specType == rt {
			count++
		}
	}
	return count
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func sortedCourseIDs(roster domain.Roster) []string {
	ids := make([]string, 0, len(roster.Courses))
	for id := range roster.Courses {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedRoomIDs(roster domain.Roster) []string {
	ids := make([]string, 0, len(roster.Rooms))
	for id := range roster.Rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedTeacherIDs(roster domain.Roster) []string {
	ids := make([]string, 0, len(roster.Teachers))
	for id := range roster.Teachers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedRoomTypes(m map[domain.RoomType]int) []domain.RoomType {
	types := make([]domain.RoomType, 0, len(m))
	for t := range m {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
