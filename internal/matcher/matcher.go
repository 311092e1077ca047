// Package matcher implements the smart teacher-course matcher (C3): binds
// unassigned courses to certified teachers while balancing workload within
// per-teacher limits.
package matcher

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// FailureReason distinguishes why a course could not be bound.
type FailureReason string

const (
	ReasonNoCertifiedTeacher FailureReason = "NO_CERTIFIED_TEACHER"
	ReasonTeachersAtCapacity FailureReason = "TEACHERS_AT_CAPACITY"
)

// Binding records a single course-to-teacher assignment the matcher made.
type Binding struct {
	CourseID  string
	TeacherID string
	Score     float64
	Sequenced bool // true if bound by sequence-reuse rather than best score
}

// Failure records a course the matcher could not bind.
type Failure struct {
	CourseID string
	Reason   FailureReason
	Message  string
}

// Result is the outcome of a single Match invocation.
type Result struct {
	Bindings []Binding
	Failures []Failure
}

// Matcher binds unassigned courses to certified teachers under workload
// caps, preferring to keep course sequences with the same instructor.
type Matcher struct {
	cfg domain.SchedulerConfiguration
}

// New builds a Matcher using the given scheduler configuration for workload
// thresholds and mode.
func New(cfg domain.SchedulerConfiguration) *Matcher {
	return &Matcher{cfg: cfg}
}

// globalLock serializes invocations per spec.md §4.2's concurrency note: a
// single invocation is serial, and overlapping concurrent invocations must
// not interleave. Disjoint-course-set callers pay a small serialization
// cost in exchange for never needing to prove their sets are disjoint.
var globalLock sync.Mutex

// Match binds every unassigned, active course in roster to a certified
// teacher, honoring per-teacher workload caps. Successful bindings made
// before an unqualifiable course is reached are kept; the matcher never
// rolls back partial sequences on failure.
func (m *Matcher) Match(roster domain.Roster) Result {
	globalLock.Lock()
	defer globalLock.Unlock()

	load := newWorkloadSnapshot(m.cfg.WorkloadMode)
	var unassigned []domain.Course
	for _, c := range roster.Courses {
		if !c.Active {
			continue
		}
		if c.HasTeacher() {
			load.add(c.TeacherID, m.units(c))
			continue
		}
		unassigned = append(unassigned, c)
	}

	ordered := orderForAssignment(unassigned)

	result := Result{}
	sequenceTeacher := make(map[string]string) // sequence key -> bound teacher id

	for _, course := range ordered {
		key := sequenceKey(course)

		if teacherID, ok := sequenceTeacher[key]; ok {
			if teacher, exists := roster.Teachers[teacherID]; exists && teacher.Active {
				if qualified, _ := matcherCertified(teacher, course); qualified && load.headroom(teacherID, m.cfg) {
					load.add(teacherID, m.units(course))
					result.Bindings = append(result.Bindings, Binding{CourseID: course.ID, TeacherID: teacherID, Sequenced: true})
					continue
				}
			}
		}

		candidateID, score, failReason := m.bestCandidate(roster, load, course)
		if candidateID == "" {
			result.Failures = append(result.Failures, Failure{
				CourseID: course.ID,
				Reason:   failReason,
				Message:  failureMessage(failReason, course),
			})
			continue
		}

		load.add(candidateID, m.units(course))
		result.Bindings = append(result.Bindings, Binding{CourseID: course.ID, TeacherID: candidateID, Score: score})
		sequenceTeacher[key] = candidateID
	}

	return result
}

func (m *Matcher) units(c domain.Course) float64 {
	switch m.cfg.WorkloadMode {
	case domain.WorkloadByCredits:
		if c.Credits != nil {
			return float64(*c.Credits)
		}
		// Open question resolved in DESIGN.md: missing credits falls back
		// to counting the course as one unit rather than zero.
		return 1
	case domain.WorkloadBySessionsPerWeek:
		if c.SessionsPerWeek > 0 {
			return float64(c.SessionsPerWeek)
		}
		return 1
	default:
		return 1
	}
}

func (m *Matcher) bestCandidate(roster domain.Roster, load *workloadSnapshot, course domain.Course) (teacherID string, score float64, reason FailureReason) {
	type candidate struct {
		id       string
		score    float64
		load     float64
	}
	var qualified []candidate
	anyCertified := false

	ids := sortedTeacherIDs(roster.Teachers)
	for _, id := range ids {
		teacher := roster.Teachers[id]
		if !teacher.Active {
			continue
		}
		ok, exact := matcherCertified(teacher, course)
		if !ok {
			continue
		}
		anyCertified = true
		if !load.headroom(id, m.cfg) {
			continue
		}
		certScore := 75.0
		if exact {
			certScore = 100.0
		}
		bonus := load.bonus(id, m.cfg)
		qualified = append(qualified, candidate{id: id, score: certScore + bonus, load: load.get(id)})
	}

	if len(qualified) == 0 {
		if anyCertified {
			return "", 0, ReasonTeachersAtCapacity
		}
		return "", 0, ReasonNoCertifiedTeacher
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].score != qualified[j].score {
			return qualified[i].score > qualified[j].score
		}
		if qualified[i].load != qualified[j].load {
			return qualified[i].load < qualified[j].load
		}
		return qualified[i].id < qualified[j].id
	})
	best := qualified[0]
	return best.id, best.score, ""
}

func matcherCertified(teacher domain.Teacher, course domain.Course) (qualified bool, exact bool) {
	return Certified(teacher.Certifications, course.Subject)
}

func failureMessage(reason FailureReason, course domain.Course) string {
	switch reason {
	case ReasonTeachersAtCapacity:
		return "teachers certified for " + course.Subject + " are all at capacity"
	default:
		return "no teacher certified for " + course.Subject
	}
}

func sortedTeacherIDs(teachers map[string]domain.Teacher) []string {
	ids := make([]string, 0, len(teachers))
	for id := range teachers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// workloadSnapshot tracks per-teacher load under the configured mode. Reads
// are safe for concurrent callers; mutation is confined to the Matcher's
// own serialized Match call, per spec.md §5.
type workloadSnapshot struct {
	mu   sync.RWMutex
	mode domain.WorkloadMode
	load map[string]float64
}

func newWorkloadSnapshot(mode domain.WorkloadMode) *workloadSnapshot {
	return &workloadSnapshot{mode: mode, load: make(map[string]float64)}
}

func (w *workloadSnapshot) add(teacherID string, units float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.load[teacherID] += units
}

func (w *workloadSnapshot) get(teacherID string) float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.load[teacherID]
}

func (w *workloadSnapshot) headroom(teacherID string, cfg domain.SchedulerConfiguration) bool {
	return w.get(teacherID) < float64(cfg.WorkloadHardCap)
}

// bonus computes the workload scoring bonus from spec.md §4.2.
func (w *workloadSnapshot) bonus(teacherID string, cfg domain.SchedulerConfiguration) float64 {
	current := w.get(teacherID)
	switch {
	case current <= 0:
		return 50
	case current < float64(cfg.WorkloadOptimal):
		return 45
	case current == float64(cfg.WorkloadOptimal):
		return 20
	case current < float64(cfg.WorkloadHardCap):
		return 5
	default:
		return -1 // disqualified by headroom() before this is reached
	}
}

// levelSuffix matches trailing level indicators stripped to derive a
// sequence key, e.g. "Algebra 1" / "Algebra II" / "Algebra Honors" all
// reduce to "Algebra".
var levelSuffix = regexp.MustCompile(`(?i)\s+(\d+|i|ii|iii|iv|ap|honors|intro|advanced)$`)

func sequenceKey(c domain.Course) string {
	name := strings.TrimSpace(c.Name)
	for {
		trimmed := levelSuffix.ReplaceAllString(name, "")
		if trimmed == name {
			break
		}
		name = strings.TrimSpace(trimmed)
	}
	return strings.ToLower(c.Subject) + "|" + strings.ToLower(name)
}

// orderForAssignment partitions courses into sequence groups (emitted
// first) and singletons, sorted within each group by priorityLevel then
// level, per spec.md §4.2 step 2.
func orderForAssignment(courses []domain.Course) []domain.Course {
	groups := make(map[string][]domain.Course)
	for _, c := range courses {
		key := sequenceKey(c)
		groups[key] = append(groups[key], c)
	}

	var sequenceKeys []string
	var singletons []domain.Course
	for key, members := range groups {
		if len(members) > 1 {
			sequenceKeys = append(sequenceKeys, key)
		} else {
			singletons = append(singletons, members[0])
		}
	}
	sort.Strings(sequenceKeys)

	byPriorityThenLevel := func(items []domain.Course) {
		sort.SliceStable(items, func(i, j int) bool {
			pi, pj := priorityOf(items[i]), priorityOf(items[j])
			if pi != pj {
				return pi > pj
			}
			if items[i].Level != items[j].Level {
				return items[i].Level < items[j].Level
			}
			return items[i].ID < items[j].ID
		})
	}

	var ordered []domain.Course
	for _, key := range sequenceKeys {
		members := groups[key]
		byPriorityThenLevel(members)
		ordered = append(ordered, members...)
	}
	byPriorityThenLevel(singletons)
	ordered = append(ordered, singletons...)
	return ordered
}

func priorityOf(c domain.Course) int {
	if c.PriorityLevel != nil {
		return *c.PriorityLevel
	}
	return 0
}
