// Package conflict implements the conflict detector / validator (C4):
// given a Schedule's slots, enumerate every violation at graded severity,
// both exhaustively (detectAllConflicts/validateSchedule) and incrementally
// for a single candidate slot (detectPotentialConflicts), per spec.md §4.3.
package conflict

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/matcher"
)

// DefaultPreferredBreakMinutes and the lunch window are hard-coded per spec.md §9's
// open question (the source hard-codes them; whether they should join
// SchedulerConfiguration is left undecided). Kept as package constants so a
// future config field can override them without touching call sites.
const (
	DefaultPreferredBreakMinutes = 15
	DefaultMaxConsecutive        = 4
	MissingPrepThreshold         = 7
	MissingLunchPeriodThreshold  = 5
	MissingLunchGapMinutes       = 30
)

// Detector runs the thirteen detection passes of spec.md §4.3 over a
// Roster and a concrete slot set. It holds no mutable state and no I/O;
// persistence (saveConflicts/clearConflicts/refreshConflicts) is the
// caller's concern via internal/ports.Repository.
type Detector struct {
	cfg domain.SchedulerConfiguration
}

// New builds a Detector using the given scheduler configuration for
// per-teacher caps, max consecutive periods, and the school-day window.
func New(cfg domain.SchedulerConfiguration) *Detector {
	return &Detector{cfg: cfg}
}

// Input bundles everything a detection pass needs: the slot set under
// scrutiny, the roster it resolves against, and active enrollments.
type Input struct {
	ScheduleID  string
	Slots       []domain.ScheduleSlot
	Roster      domain.Roster
	Enrollments []domain.Enrollment // active only
}

// ValidationSummary is validateSchedule's result: conflicts grouped and
// counted by severity, plus the overall valid bit.
type ValidationSummary struct {
	Conflicts      []domain.Conflict
	SeverityCounts map[domain.Severity]int
	Valid          bool // true iff CriticalCount == 0
	CriticalCount  int
}

// DetectAll runs every category and returns the combined, severity-sorted
// conflict set for the schedule in in.ScheduleID.
func (d *Detector) DetectAll(in Input) []domain.Conflict {
	var all []domain.Conflict
	all = append(all, d.detectTimeOverlaps(in)...)
	all = append(all, d.detectBackToBackNoBreak(in)...)
	all = append(all, d.detectMissingLunch(in)...)
	all = append(all, d.detectExcessiveConsecutive(in)...)
	all = append(all, d.detectRoomCapacity(in)...)
	all = append(all, d.detectRoomTypeMismatch(in)...)
	all = append(all, d.detectTeacherOverload(in)...)
	all = append(all, d.detectMissingPrep(in)...)
	all = append(all, d.detectSubjectMismatch(in)...)
	all = append(all, d.detectBuildingTravel(in)...)
	all = append(all, d.detectStudentConflicts(in)...)
	all = append(all, d.detectEnrollmentCounts(in)...)
	all = append(all, d.detectDuplicateEnrollments(in)...)
	for i := range all {
		all[i].ScheduleID = in.ScheduleID
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Severity.Rank() < all[j].Severity.Rank() })
	return all
}

// ValidateSchedule is DetectAll plus the severity summary and publish gate
// (spec.md §8: "publish(S) succeeds iff validateSchedule(S).criticalCount==0").
func (d *Detector) ValidateSchedule(in Input) ValidationSummary {
	conflicts := d.DetectAll(in)
	counts := map[domain.Severity]int{}
	for _, c := range conflicts {
		counts[c.Severity]++
	}
	critical := counts[domain.SeverityCritical]
	return ValidationSummary{
		Conflicts:      conflicts,
		SeverityCounts: counts,
		Valid:          critical == 0,
		CriticalCount:  critical,
	}
}

// DetectPotentialConflicts runs only categories 1 and 5-7 against candidate
// as if it were inserted into in.Slots, used by the solver as a fast
// scoring oracle (spec.md §4.3's "detectPotentialConflicts(slot)").
func (d *Detector) DetectPotentialConflicts(in Input, candidate domain.ScheduleSlot) []domain.Conflict {
	trial := Input{
		ScheduleID:  in.ScheduleID,
		Slots:       append(append([]domain.ScheduleSlot{}, in.Slots...), candidate),
		Roster:      in.Roster,
		Enrollments: in.Enrollments,
	}
	var out []domain.Conflict
	for _, c := range d.detectTimeOverlaps(trial) {
		if referencesSlot(c, candidate.ID) {
			out = append(out, c)
		}
	}
	for _, c := range d.detectRoomCapacity(trial) {
		if referencesSlot(c, candidate.ID) {
			out = append(out, c)
		}
	}
	for _, c := range d.detectRoomTypeMismatch(trial) {
		if referencesSlot(c, candidate.ID) {
			out = append(out, c)
		}
	}
	for _, c := range d.detectTeacherOverload(trial) {
		if referencesSlot(c, candidate.ID) {
			out = append(out, c)
		}
	}
	return out
}

func referencesSlot(c domain.Conflict, slotID string) bool {
	for _, id := range c.SlotIDs {
		if id == slotID {
			return true
		}
	}
	return false
}

// --- Category 1: time overlap / teacher & room double-booking ---

func (d *Detector) detectTimeOverlaps(in Input) []domain.Conflict {
	var out []domain.Conflict
	byDay := groupByDay(in.Slots)
	for _, day := range sortedDays(byDay) {
		slots := byDay[day]
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots); j++ {
				a, b := slots[i], slots[j]
				if !a.Overlaps(b) {
					continue
				}
				if a.SameTeacher(b) {
					out = append(out, domain.Conflict{
						Type:        domain.ConflictTeacherOverload,
						Severity:    domain.SeverityCritical,
						SlotIDs:     []string{a.ID, b.ID},
						TeacherIDs:  []string{a.TeacherID},
						Description: fmt.Sprintf("teacher %s is double-booked on %s: overlapping slots %s and %s", a.TeacherID, a.DayOfWeek(), a.ID, b.ID),
					})
				}
				if a.SameRoom(b) && !roomSharingSatisfied(in.Roster, a.RoomID, overlappingRoomSlots(slots, a.RoomID, i)) {
					out = append(out, domain.Conflict{
						Type:        domain.ConflictRoomDoubleBooking,
						Severity:    domain.SeverityCritical,
						SlotIDs:     []string{a.ID, b.ID},
						RoomIDs:     []string{a.RoomID},
						Description: fmt.Sprintf("room %s is double-booked on %s: overlapping slots %s and %s", a.RoomID, a.DayOfWeek(), a.ID, b.ID),
					})
				}
			}
		}
	}
	return out
}

// overlappingRoomSlots counts how many slots in the day share roomID and
// overlap with slots[idx], used to evaluate maxConcurrentClasses.
func overlappingRoomSlots(daySlots []domain.ScheduleSlot, roomID string, idx int) int {
	count := 1
	for k, s := range daySlots {
		if k == idx || s.RoomID != roomID {
			continue
		}
		if s.Overlaps(daySlots[idx]) {
			count++
		}
	}
	return count
}

func roomSharingSatisfied(roster domain.Roster, roomID string, concurrent int) bool {
	room, ok := roster.Rooms[roomID]
	if !ok {
		return false
	}
	if !room.AllowSharing {
		return false
	}
	return concurrent <= room.EffectiveMaxConcurrentClasses()
}

// --- Category 2: back-to-back without break ---

func (d *Detector) detectBackToBackNoBreak(in Input) []domain.Conflict {
	breakMinutes := DefaultPreferredBreakMinutes
	var out []domain.Conflict
	for _, teacherID := range sortedTeacherIDs(in.Roster) {
		for _, day := range d.cfg.Weekdays {
			slots := sortedByStart(domain.SlotsOnDay(domain.SlotsForTeacher(in.Slots, teacherID), day))
			for i := 0; i < len(slots)-1; i++ {
				if slots[i].Window.Touches(slots[i+1].Window) {
					out = append(out, domain.Conflict{
						Type:        domain.ConflictBackToBack,
						Severity:    domain.SeverityLow,
						SlotIDs:     []string{slots[i].ID, slots[i+1].ID},
						TeacherIDs:  []string{teacherID},
						Description: fmt.Sprintf("teacher %s has back-to-back periods on %s with no %d-minute break", teacherID, day, breakMinutes),
					})
				}
			}
		}
	}
	return out
}

// --- Category 3: missing lunch break ---

func (d *Detector) detectMissingLunch(in Input) []domain.Conflict {
	var out []domain.Conflict
	for _, teacherID := range sortedTeacherIDs(in.Roster) {
		for _, day := range d.cfg.Weekdays {
			slots := sortedByStart(domain.SlotsOnDay(domain.SlotsForTeacher(in.Slots, teacherID), day))
			if len(slots) < MissingLunchPeriodThreshold {
				continue
			}
			if hasLunchGap(slots) {
				continue
			}
			out = append(out, domain.Conflict{
				Type:        domain.ConflictMissingLunch,
				Severity:    domain.SeverityMedium,
				SlotIDs:     slotIDs(slots),
				TeacherIDs:  []string{teacherID},
				Description: fmt.Sprintf("teacher %s has %d periods on %s with no lunch break in [%s,%s)", teacherID, len(slots), day, domain.LunchWindowStart, domain.LunchWindowEnd),
			})
		}
	}
	return out
}

func hasLunchGap(slots []domain.ScheduleSlot) bool {
	if len(slots) == 0 {
		return false
	}
	windowStart, windowEnd := domain.LunchWindowStart, domain.LunchWindowEnd
	// A gap before the first slot, after the last, or between consecutive
	// slots counts if it overlaps [windowStart,windowEnd) by >=30 minutes.
	prevEnd := slots[0].Window.Start
	if windowStart.Before(prevEnd) {
		prevEnd = windowStart
	}
	gaps := [][2]domain.TimeOfDay{}
	if slots[0].StartTime().After(windowStart) {
		gaps = append(gaps, [2]domain.TimeOfDay{windowStart, slots[0].StartTime()})
	}
	for i := 0; i < len(slots)-1; i++ {
		gaps = append(gaps, [2]domain.TimeOfDay{slots[i].EndTime(), slots[i+1].StartTime()})
	}
	gaps = append(gaps, [2]domain.TimeOfDay{slots[len(slots)-1].EndTime(), windowEnd})
	for _, g := range gaps {
		start, end := g[0], g[1]
		if start.Before(windowStart) {
			start = windowStart
		}
		if end.After(windowEnd) {
			end = windowEnd
		}
		if end.Sub(start) >= MissingLunchGapMinutes {
			return true
		}
	}
	return false
}

// --- Category 4: excessive consecutive classes ---

func (d *Detector) detectExcessiveConsecutive(in Input) []domain.Conflict {
	maxConsecutive := d.cfg.MaxConsecutive
	if maxConsecutive <= 0 {
		maxConsecutive = DefaultMaxConsecutive
	}
	var out []domain.Conflict
	for _, teacherID := range sortedTeacherIDs(in.Roster) {
		for _, day := range d.cfg.Weekdays {
			slots := sortedByStart(domain.SlotsOnDay(domain.SlotsForTeacher(in.Slots, teacherID), day))
			run := 1
			for i := 1; i < len(slots); i++ {
				if slots[i-1].Window.Touches(slots[i].Window) {
					run++
				} else {
					run = 1
				}
				if run > maxConsecutive {
					start := i - run + 1
					out = append(out, domain.Conflict{
						Type:        domain.ConflictExcessiveConsecutive,
						Severity:    domain.SeverityMedium,
						SlotIDs:     slotIDs(slots[start : i+1]),
						TeacherIDs:  []string{teacherID},
						Description: fmt.Sprintf("teacher %s has %d consecutive periods on %s, exceeding the configured maximum of %d", teacherID, run, day, maxConsecutive),
					})
				}
			}
		}
	}
	return out
}

// --- Category 5: room capacity exceeded ---

func (d *Detector) detectRoomCapacity(in Input) []domain.Conflict {
	var out []domain.Conflict
	enrollCount := enrollmentCountByCourse(in.Enrollments)
	for _, slot := range in.Slots {
		room, ok := in.Roster.Rooms[slot.RoomID]
		if !ok {
			continue
		}
		course, ok := in.Roster.Courses[slot.CourseID]
		if !ok {
			continue
		}
		count := enrollCount[slot.CourseID]
		if count == 0 {
			count = course.Enrollment
		}
		if count > room.EffectiveMaxCapacity() {
			out = append(out, domain.Conflict{
				Type:        domain.ConflictRoomCapacity,
				Severity:    domain.SeverityHigh,
				SlotIDs:     []string{slot.ID},
				RoomIDs:     []string{slot.RoomID},
				CourseIDs:   []string{slot.CourseID},
				Description: fmt.Sprintf("course %s has %d enrolled students but room %s holds %d", slot.CourseID, count, slot.RoomID, room.EffectiveMaxCapacity()),
			})
		}
	}
	return out
}

// --- Category 6: room type mismatch ---

var subjectToRoomTypes = map[string][]domain.RoomType{
	"science":  {domain.RoomScienceLab, domain.RoomLab, domain.RoomSTEMLab},
	"computer": {domain.RoomComputerLab, domain.RoomLab},
	"art":      {domain.RoomArtStudio},
	"music":    {domain.RoomMusicRoom, domain.RoomBandRoom, domain.RoomChorusRoom},
	"pe":       {domain.RoomGymnasium},
	"drama":    {domain.RoomTheater, domain.RoomAuditorium},
	"culinary": {domain.RoomCulinaryLab},
}

func (d *Detector) detectRoomTypeMismatch(in Input) []domain.Conflict {
	var out []domain.Conflict
	for _, slot := range in.Slots {
		course, ok := in.Roster.Courses[slot.CourseID]
		if !ok {
			continue
		}
		room, ok := in.Roster.Rooms[slot.RoomID]
		if !ok {
			continue
		}
		if course.RequiresLab && !domain.LabTypes[room.RoomType] {
			out = append(out, domain.Conflict{
				Type:        domain.ConflictRoomTypeMismatch,
				Severity:    domain.SeverityMedium,
				SlotIDs:     []string{slot.ID},
				RoomIDs:     []string{slot.RoomID},
				CourseIDs:   []string{slot.CourseID},
				Description: fmt.Sprintf("course %s requires a lab but is assigned to room %s of type %s", slot.CourseID, slot.RoomID, room.RoomType),
			})
			continue
		}
		if want, ok := matchingRoomTypes(course.Subject); ok && !containsRoomType(want, room.RoomType) {
			out = append(out, domain.Conflict{
				Type:        domain.ConflictRoomTypeMismatch,
				Severity:    domain.SeverityLow,
				SlotIDs:     []string{slot.ID},
				RoomIDs:     []string{slot.RoomID},
				CourseIDs:   []string{slot.CourseID},
				Description: fmt.Sprintf("course %s (%s) is assigned to room %s of type %s, not a typical room for this subject", slot.CourseID, course.Subject, slot.RoomID, room.RoomType),
			})
		}
	}
	return out
}

func matchingRoomTypes(subject string) ([]domain.RoomType, bool) {
	for _, family := range []matcher.Family{
		matcher.FamilyScience, matcher.FamilyComputing, matcher.FamilyArts, matcher.FamilyPE,
	} {
		if !matcher.MatchesFamily(subject, family) {
			continue
		}
		switch family {
		case matcher.FamilyScience:
			return subjectToRoomTypes["science"], true
		case matcher.FamilyComputing:
			return subjectToRoomTypes["computer"], true
		case matcher.FamilyArts:
			return append(append([]domain.RoomType{}, subjectToRoomTypes["art"]...), append(subjectToRoomTypes["music"], subjectToRoomTypes["drama"]...)...), true
		case matcher.FamilyPE:
			return subjectToRoomTypes["pe"], true
		}
	}
	return nil, false
}

func containsRoomType(types []domain.RoomType, t domain.RoomType) bool {
	for _, x := range types {
		if x == t {
			return true
		}
	}
	return false
}

// --- Category 7: teacher overload / excessive hours ---

func (d *Detector) detectTeacherOverload(in Input) []domain.Conflict {
	var out []domain.Conflict
	for _, teacherID := range sortedTeacherIDs(in.Roster) {
		teacher := in.Roster.Teachers[teacherID]
		cap := teacher.EffectiveMaxPeriodsPerDay()
		for _, day := range d.cfg.Weekdays {
			slots := domain.SlotsOnDay(domain.SlotsForTeacher(in.Slots, teacherID), day)
			if len(slots) > cap {
				out = append(out, domain.Conflict{
					Type:        domain.ConflictTeacherExcessiveHrs,
					Severity:    domain.SeverityHigh,
					SlotIDs:     slotIDs(slots),
					TeacherIDs:  []string{teacherID},
					Description: fmt.Sprintf("teacher %s has %d periods on %s, exceeding the cap of %d", teacherID, len(slots), day, cap),
				})
			}
		}
	}
	return out
}

// --- Category 8: missing preparation period ---

func (d *Detector) detectMissingPrep(in Input) []domain.Conflict {
	var out []domain.Conflict
	for _, teacherID := range sortedTeacherIDs(in.Roster) {
		for _, day := range d.cfg.Weekdays {
			slots := domain.SlotsOnDay(domain.SlotsForTeacher(in.Slots, teacherID), day)
			if len(slots) >= MissingPrepThreshold {
				out = append(out, domain.Conflict{
					Type:        domain.ConflictMissingPrep,
					Severity:    domain.SeverityMedium,
					SlotIDs:     slotIDs(slots),
					TeacherIDs:  []string{teacherID},
					Description: fmt.Sprintf("teacher %s has %d teaching periods on %s with no non-teaching slot", teacherID, len(slots), day),
				})
			}
		}
	}
	return out
}

// --- Category 9: subject mismatch ---

func (d *Detector) detectSubjectMismatch(in Input) []domain.Conflict {
	var out []domain.Conflict
	for _, slot := range in.Slots {
		teacher, ok := in.Roster.Teachers[slot.TeacherID]
		if !ok || teacher.Department == "" {
			continue
		}
		course, ok := in.Roster.Courses[slot.CourseID]
		if !ok {
			continue
		}
		qualified, _ := matcher.Certified([]string{teacher.Department}, course.Subject)
		if !qualified {
			out = append(out, domain.Conflict{
				Type:        domain.ConflictSubjectMismatch,
				Severity:    domain.SeverityLow,
				SlotIDs:     []string{slot.ID},
				TeacherIDs:  []string{slot.TeacherID},
				CourseIDs:   []string{slot.CourseID},
				Description: fmt.Sprintf("teacher %s's department (%s) does not match course %s's subject (%s)", slot.TeacherID, teacher.Department, slot.CourseID, course.Subject),
			})
		}
	}
	return out
}

// --- Category 10: building travel time ---

func (d *Detector) detectBuildingTravel(in Input) []domain.Conflict {
	var out []domain.Conflict
	for _, teacherID := range sortedTeacherIDs(in.Roster) {
		for _, day := range d.cfg.Weekdays {
			slots := sortedByStart(domain.SlotsOnDay(domain.SlotsForTeacher(in.Slots, teacherID), day))
			for i := 0; i < len(slots)-1; i++ {
				if !slots[i].Window.Touches(slots[i+1].Window) {
					continue
				}
				roomA, okA := in.Roster.Rooms[slots[i].RoomID]
				roomB, okB := in.Roster.Rooms[slots[i+1].RoomID]
				if !okA || !okB || roomA.Building == roomB.Building {
					continue
				}
				out = append(out, domain.Conflict{
					Type:        domain.ConflictBuildingTravel,
					Severity:    domain.SeverityLow,
					SlotIDs:     []string{slots[i].ID, slots[i+1].ID},
					TeacherIDs:  []string{teacherID},
					RoomIDs:     []string{slots[i].RoomID, slots[i+1].RoomID},
					Description: fmt.Sprintf("teacher %s moves from building %s to %s between back-to-back periods on %s", teacherID, roomA.Building, roomB.Building, day),
				})
			}
		}
	}
	return out
}

// --- Category 11: student schedule conflicts ---

func (d *Detector) detectStudentConflicts(in Input) []domain.Conflict {
	var out []domain.Conflict
	slotsByCourse := make(map[string][]domain.ScheduleSlot)
	for _, s := range in.Slots {
		slotsByCourse[s.CourseID] = append(slotsByCourse[s.CourseID], s)
	}
	byStudent := make(map[string][]domain.ScheduleSlot)
	for _, e := range in.Enrollments {
		if !e.Active {
			continue
		}
		for _, s := range slotsByCourse[e.CourseID] {
			byStudent[e.StudentID] = append(byStudent[e.StudentID], s)
		}
	}
	for _, studentID := range sortedKeys(byStudent) {
		slots := byStudent[studentID]
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots); j++ {
				if slots[i].ID == slots[j].ID {
					continue
				}
				if slots[i].Overlaps(slots[j]) {
					out = append(out, domain.Conflict{
						Type:        domain.ConflictStudentOverlap,
						Severity:    domain.SeverityCritical,
						SlotIDs:     []string{slots[i].ID, slots[j].ID},
						CourseIDs:   []string{slots[i].CourseID, slots[j].CourseID},
						Description: fmt.Sprintf("student %s has overlapping enrolled slots %s and %s on %s", studentID, slots[i].ID, slots[j].ID, slots[i].DayOfWeek()),
					})
				}
			}
		}
	}
	return out
}

// --- Category 12: section over/under-enrollment ---

func (d *Detector) detectEnrollmentCounts(in Input) []domain.Conflict {
	var out []domain.Conflict
	counts := enrollmentCountByCourse(in.Enrollments)
	seenCourse := make(map[string]bool)
	for _, slot := range in.Slots {
		if seenCourse[slot.CourseID] {
			continue
		}
		seenCourse[slot.CourseID] = true
		course, ok := in.Roster.Courses[slot.CourseID]
		if !ok {
			continue
		}
		count := counts[slot.CourseID]
		if count == 0 {
			count = course.Enrollment
		}
		if course.MaxStudents > 0 && count > course.MaxStudents {
			out = append(out, domain.Conflict{
				Type:        domain.ConflictSectionOverEnrolled,
				Severity:    domain.SeverityHigh,
				CourseIDs:   []string{slot.CourseID},
				Description: fmt.Sprintf("course %s has %d active enrollments, exceeding maxStudents %d", slot.CourseID, count, course.MaxStudents),
			})
		}
		if course.MinEnrollment > 0 && count < course.MinEnrollment {
			out = append(out, domain.Conflict{
				Type:        domain.ConflictSectionUnderEnrolled,
				Severity:    domain.SeverityMedium,
				CourseIDs:   []string{slot.CourseID},
				Description: fmt.Sprintf("course %s has %d active enrollments, below the minimum of %d", slot.CourseID, count, course.MinEnrollment),
			})
		}
	}
	return out
}

// --- Category 13: duplicate student enrollments ---

func (d *Detector) detectDuplicateEnrollments(in Input) []domain.Conflict {
	var out []domain.Conflict
	counts := make(map[[2]string]int)
	for _, e := range in.Enrollments {
		if !e.Active {
			continue
		}
		counts[[2]string{e.StudentID, e.CourseID}]++
	}
	keys := make([][2]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		if counts[k] > 1 {
			out = append(out, domain.Conflict{
				Type:        domain.ConflictDuplicateEnrollment,
				Severity:    domain.SeverityHigh,
				CourseIDs:   []string{k[1]},
				Description: fmt.Sprintf("student %s has %d active enrollments in course %s", k[0], counts[k], k[1]),
			})
		}
	}
	return out
}

// --- shared helpers ---

func groupByDay(slots []domain.ScheduleSlot) map[domain.Weekday][]domain.ScheduleSlot {
	out := make(map[domain.Weekday][]domain.ScheduleSlot)
	for _, s := range slots {
		out[s.DayOfWeek()] = append(out[s.DayOfWeek()], s)
	}
	return out
}

func sortedDays(byDay map[domain.Weekday][]domain.ScheduleSlot) []domain.Weekday {
	days := make([]domain.Weekday, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

func sortedByStart(slots []domain.ScheduleSlot) []domain.ScheduleSlot {
	out := append([]domain.ScheduleSlot{}, slots...)
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime() < out[j].StartTime() })
	return out
}

func sortedTeacherIDs(roster domain.Roster) []string {
	ids := make([]string, 0, len(roster.Teachers))
	for id := range roster.Teachers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys(m map[string][]domain.ScheduleSlot) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func slotIDs(slots []domain.ScheduleSlot) []string {
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

func enrollmentCountByCourse(enrollments []domain.Enrollment) map[string]int {
	out := make(map[string]int)
	for _, e := range enrollments {
		if e.Active {
			out[e.CourseID]++
		}
	}
	return out
}
