package solver

import (
	"math"
	"math/rand"
)

// Simulated-annealing schedule, patterned on the Metropolis-acceptance/
// geometric-cooling approach used for graph-coloring timetable solvers:
// start hot enough to accept most moves, cool geometrically each
// iteration, and reheat if the budget says the search has stagnated.
const (
	initialTemperature = 100.0
	coolingRate        = 0.995
	reheatTemperature  = 40.0
)

// simulatedAnnealing refines a greedy-seeded state by repeatedly
// proposing a random-ish (but deterministic, via rng) single-section
// move and accepting it outright if it improves the score, or
// probabilistically via exp(-delta/temperature) otherwise.
func simulatedAnnealing(s *state, budget *searchBudget, rng *rand.Rand) Result {
	best := snapshotAssignment(s)
	bestScore := s.score()
	current := bestScore
	temperature := initialTemperature
	iterations := 0

	moves := enumerateMoves(s)
	if len(moves) == 0 {
		return buildResult(s, bestScore, 0, budget.cancelled)
	}

	for !budget.exhausted(iterations) {
		iterations++
		candidate := moves[rng.Intn(len(moves))]
		prior, hadPrior := s.assignment[candidate.section]
		if !hardFeasibleExcluding(s, candidate.section, candidate.next) {
			continue
		}
		s.assignment[candidate.section] = candidate.next
		next := s.score()

		delta := next - current
		accept := delta < 0
		if !accept && next < infeasible && current < infeasible {
			probability := math.Exp(-delta / temperature)
			accept = rng.Float64() < probability
		}

		if accept {
			current = next
			if current < bestScore {
				bestScore = current
				best = snapshotAssignment(s)
				budget.noteImprovement()
			}
		} else {
			if hadPrior {
				s.assignment[candidate.section] = prior
			} else {
				delete(s.assignment, candidate.section)
			}
		}

		temperature *= coolingRate
		if temperature < 1 {
			temperature = reheatTemperature
		}
	}

	restoreAssignment(s, best)
	return buildResult(s, bestScore, iterations, budget.cancelled)
}

// enumerateMoves lists every hard-feasibility-unchecked (section, window,
// room, teacher) alternative once, for the annealer to sample from.
func enumerateMoves(s *state) []move {
	var moves []move
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
					moves = append(moves, move{
						section: section,
						next:    Assignment{Section: section, SlotID: current.SlotID, Window: window, RoomID: roomID, TeacherID: teacherID},
					})
				}
			}
		}
	}
	return moves
}
