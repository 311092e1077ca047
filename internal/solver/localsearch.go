package solver

import (
	"sort"
)

// tabuListLength is the number of most-recent moves held in tabu memory,
// per spec.md §5 ("short-term memory of the last ~7 moves").
const tabuListLength = 7

// move is a single neighborhood step: reassign one section to a new
// (window, room, teacher) triple.
type move struct {
	section Section
	next    Assignment
}

// tabuKey identifies a move for tabu-membership checks: reverting a
// section back to an assignment it just left is forbidden for
// tabuListLength iterations.
type tabuKey struct {
	section Section
	slotKey string
}

func keyOf(a Assignment) string {
	return a.Window.Day.String() + "|" + a.Window.Start.String() + "|" + a.RoomID + "|" + a.TeacherID
}

// tabuHillClimb refines a greedy-seeded state via tabu search: at each
// step it evaluates every single-section reassignment in the
// neighborhood, takes the best non-tabu move (or a tabu move that beats
// the incumbent best - aspiration), and stops when the iteration or
// deadline budget in budget is exhausted.
func tabuHillClimb(s *state, budget *searchBudget) Result {
	best := snapshotAssignment(s)
	bestScore := s.score()
	tabu := make(map[tabuKey]int)
	iterations := 0

	for !budget.exhausted(iterations) {
		iterations++
		candidateMove, candidateScore, ok := bestNeighborMove(s, tabu, bestScore)
		if !ok {
			break
		}
		applyMove(s, candidateMove)
		tabu[tabuKey{section: candidateMove.section, slotKey: keyOf(candidateMove.next)}] = iterations + tabuListLength
		expireTabu(tabu, iterations)

		if candidateScore < bestScore {
			bestScore = candidateScore
			best = snapshotAssignment(s)
			budget.noteImprovement()
		}
	}

	restoreAssignment(s, best)
	return buildResult(s, bestScore, iterations, budget.cancelled)
}

func expireTabu(tabu map[tabuKey]int, iteration int) {
	for k, expiry := range tabu {
		if expiry <= iteration {
			delete(tabu, k)
		}
	}
}

// bestNeighborMove scans every section's candidate (window, room, teacher)
// alternatives and returns the hard-feasible move with the lowest
// resulting score, skipping tabu moves unless they'd beat bestScore
// (aspiration criterion).
func bestNeighborMove(s *state, tabu map[tabuKey]int, bestScore float64) (move, float64, bool) {
	var chosen move
	chosenScore := infeasible
	found := false

	for _, section := range s.sections {
		if s.unplaced[section] {
			continue
		}
		course := s.input.Roster.Courses[section.CourseID]
		current := s.assignment[section]
		for _, window := range s.grid {
			for _, roomID := range roomsFor(s.input.Roster, course) {
				for _, teacherID := range candidateTeachers(s.input.Roster, course) {
					if window == current.Window && roomID == current.RoomID && teacherID == current.TeacherID {
						continue
					}
					candidate := Assignment{Section: section, SlotID: current.SlotID, Window: window, RoomID: roomID, TeacherID: teacherID}
					if !hardFeasibleExcluding(s, section, candidate) {
						continue
					}
					prior := s.assignment[section]
					s.assignment[section] = candidate
					sc := s.score()
					s.assignment[section] = prior

					tabbed := tabu[tabuKey{section: section, slotKey: keyOf(candidate)}] > 0
					if tabbed && sc >= bestScore {
						continue
					}
					if sc < chosenScore {
						chosenScore = sc
						chosen = move{section: section, next: candidate}
						found = true
					}
				}
			}
		}
	}
	return chosen, chosenScore, found
}

func hardFeasibleExcluding(s *state, section Section, a Assignment) bool {
	prior, hadPrior := s.assignment[section]
	delete(s.assignment, section)
	ok := hardFeasible(s, a)
	if hadPrior {
		s.assignment[section] = prior
	}
	return ok
}

func applyMove(s *state, m move) {
	s.assignment[m.section] = m.next
}

func snapshotAssignment(s *state) map[Section]Assignment {
	out := make(map[Section]Assignment, len(s.assignment))
	for k, v := range s.assignment {
		out[k] = v
	}
	return out
}

func restoreAssignment(s *state, snapshot map[Section]Assignment) {
	s.assignment = snapshot
}

func buildResult(s *state, score float64, iterations int, cancelled bool) Result {
	assignments := make([]Assignment, 0, len(s.assignment))
	for _, a := range s.assignment {
		assignments = append(assignments, a)
	}
	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].Section.CourseID != assignments[j].Section.CourseID {
			return assignments[i].Section.CourseID < assignments[j].Section.CourseID
		}
		return assignments[i].Section.Index < assignments[j].Section.Index
	})
	var unplaced []Section
	for sec := range s.unplaced {
		unplaced = append(unplaced, sec)
	}
	sort.Slice(unplaced, func(i, j int) bool {
		if unplaced[i].CourseID != unplaced[j].CourseID {
			return unplaced[i].CourseID < unplaced[j].CourseID
		}
		return unplaced[i].Index < unplaced[j].Index
	})

	result := Result{
		Assignments: assignments,
		Unplaced:    unplaced,
		Feasible:    len(unplaced) == 0 && score < infeasible,
		Score:       score,
		Iterations:  iterations,
		Cancelled:   cancelled,
	}
	if !result.Feasible {
		result.BlockingConstraint = classifyBlockingConstraint(s, unplaced)
	}
	return result
}

// classifyBlockingConstraint inspects the first unplaced section to name
// why: no certified teacher, no room with capacity, no room of the
// required type, or simply no open slot combination.
func classifyBlockingConstraint(s *state, unplaced []Section) BlockingConstraint {
	if len(unplaced) == 0 {
		return BlockNone
	}
	course := s.input.Roster.Courses[unplaced[0].CourseID]
	if len(candidateTeachers(s.input.Roster, course)) == 0 {
		return BlockNoCertifiedTeacher
	}
	rooms := roomsFor(s.input.Roster, course)
	if len(rooms) == 0 {
		if course.RequiredRoomType != nil {
			return BlockNoRoomType
		}
		return BlockNoRoomCapacity
	}
	return BlockNoTimeSlot
}
