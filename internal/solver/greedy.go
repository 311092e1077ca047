package solver

import (
	"sort"
	"strconv"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// greedySeed places every section, one at a time, into the first
// (time, room, teacher) combination that satisfies all hard constraints,
// breaking ties by the lowest marginal soft-penalty contribution. It is
// run unconditionally before any local-search refinement, per spec.md §5
// ("construction always starts from a deterministic greedy seed").
func greedySeed(s *state) {
	order := orderSectionsByCriticality(s)
	for _, section := range order {
		if !placeSection(s, section) {
			s.unplaced[section] = true
		}
	}
}

// orderSectionsByCriticality sorts sections so the hardest to place go
// first: labs before general classrooms, larger enrollment before
// smaller, then course ID/index for determinism.
func orderSectionsByCriticality(s *state) []Section {
	sections := append([]Section(nil), s.sections...)
	course := func(sec Section) domain.Course { return s.input.Roster.Courses[sec.CourseID] }
	sort.Slice(sections, func(i, j int) bool {
		ci, cj := course(sections[i]), course(sections[j])
		if ci.RequiresLab != cj.RequiresLab {
			return ci.RequiresLab
		}
		if ci.Enrollment != cj.Enrollment {
			return ci.Enrollment > cj.Enrollment
		}
		if sections[i].CourseID != sections[j].CourseID {
			return sections[i].CourseID < sections[j].CourseID
		}
		return sections[i].Index < sections[j].Index
	})
	return sections
}

// placeSection tries every (room, window, teacher) combination in a fixed
// deterministic order and commits the first hard-feasible one, preferring
// among equally-feasible options the one with the smallest marginal
// increase to the running soft-penalty score. Returns false if no
// combination is hard-feasible.
func placeSection(s *state, section Section) bool {
	course, ok := s.input.Roster.Courses[section.CourseID]
	if !ok {
		return false
	}
	rooms := roomsFor(s.input.Roster, course)
	teachers := candidateTeachers(s.input.Roster, course)
	if len(rooms) == 0 || len(teachers) == 0 {
		return false
	}

	type candidate struct {
		window    domain.TimeWindow
		roomID    string
		teacherID string
	}
	var best *candidate
	bestScore := infeasible

	for _, window := range s.grid {
		for _, roomID := range rooms {
			for _, teacherID := range teachers {
				a := Assignment{
					Section:   section,
					SlotID:    syntheticSlotID(section),
					Window:    window,
					RoomID:    roomID,
					TeacherID: teacherID,
				}
				if !hardFeasible(s, a) {
					continue
				}
				s.assignment[section] = a
				marginal := s.score()
				delete(s.assignment, section)
				if marginal < bestScore {
					bestScore = marginal
					c := candidate{window: window, roomID: roomID, teacherID: teacherID}
					best = &c
					if marginal == 0 {
						goto done
					}
				}
			}
		}
	}
done:
	if best == nil {
		return false
	}
	s.assignment[section] = Assignment{
		Section:   section,
		SlotID:    syntheticSlotID(section),
		Window:    best.window,
		RoomID:    best.roomID,
		TeacherID: best.teacherID,
	}
	return true
}

func syntheticSlotID(section Section) string {
	return section.CourseID + "#" + strconv.Itoa(section.Index)
}

// hardFeasible reports whether placing a alongside every already-committed
// assignment (excluding a.Section itself) violates no hard constraint:
// no teacher/room double-booking, teacher daily-period cap, room capacity
// and type. Student double-booking is not checked here; it surfaces as a
// CRITICAL detector conflict, which makes score() infeasible.
func hardFeasible(s *state, a Assignment) bool {
	room, ok := s.input.Roster.Rooms[a.RoomID]
	if !ok || !roomFits(room, s.input.Roster.Courses[a.Section.CourseID]) {
		return false
	}
	teacher, ok := s.input.Roster.Teachers[a.TeacherID]
	if !ok || !teacher.Active {
		return false
	}

	dailyCount := 0
	roomConcurrent := 0
	for sec, existing := range s.assignment {
		if sec == a.Section {
			continue
		}
		if existing.Window.Overlaps(a.Window) {
			if existing.TeacherID == a.TeacherID {
				return false
			}
			if existing.RoomID == a.RoomID {
				roomConcurrent++
			}
		}
		if existing.TeacherID == a.TeacherID && existing.Window.Day == a.Window.Day {
			dailyCount++
		}
	}
	if roomConcurrent+1 > room.EffectiveMaxConcurrentClasses() {
		return false
	}
	if dailyCount+1 > teacher.EffectiveMaxPeriodsPerDay() {
		return false
	}
	return true
}
