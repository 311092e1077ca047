package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/domain"
)

func baseRoster() domain.Roster {
	return domain.NewRoster(
		[]domain.Teacher{
			{ID: "t1", Name: "T1", Department: "math", Active: true, MaxPeriodsPerDay: 7},
		},
		[]domain.Course{
			{ID: "c1", Subject: "math", Enrollment: 32, MaxStudents: 30, Active: true, SessionsPerWeek: 1},
			{ID: "c2", Subject: "math", Enrollment: 20, MaxStudents: 30, Active: true, SessionsPerWeek: 1},
		},
		[]domain.Room{
			{ID: "r1", Capacity: 30, RoomType: domain.RoomClassroom, Available: true},
		},
		nil,
	)
}

func slot(id, course, teacher, room string, day domain.Weekday, startH, startM, endH, endM int) domain.ScheduleSlot {
	return domain.ScheduleSlot{
		ID: id, CourseID: course, TeacherID: teacher, RoomID: room,
		Window: domain.TimeWindow{Day: day, Start: domain.NewTimeOfDay(startH, startM), End: domain.NewTimeOfDay(endH, endM)},
	}
}

// Scenario 1 from spec.md §8: two sections assigned to the same teacher
// overlapping Monday 09:00-09:50 yield exactly one CRITICAL conflict
// referencing both slots.
func TestDetectAll_TeacherDoubleBooking(t *testing.T) {
	roster := baseRoster()
	d := New(domain.DefaultConfiguration())
	in := Input{
		ScheduleID: "s1",
		Roster:     roster,
		Slots: []domain.ScheduleSlot{
			slot("slotA", "c1", "t1", "r1", domain.Monday, 9, 0, 9, 50),
			slot("slotB", "c2", "t1", "r1", domain.Monday, 9, 0, 9, 50),
		},
	}
	conflicts := d.DetectAll(in)
	var teacherConflicts []domain.Conflict
	for _, c := range conflicts {
		if c.Type == domain.ConflictTeacherOverload && c.Severity == domain.SeverityCritical {
			teacherConflicts = append(teacherConflicts, c)
		}
	}
	require.Len(t, teacherConflicts, 1)
	assert.ElementsMatch(t, []string{"slotA", "slotB"}, teacherConflicts[0].SlotIDs)
}

// Scenario 2 from spec.md §8: course with enrollment 32 in a 30-capacity
// room yields one HIGH conflict whose text contains "32" and "30".
func TestDetectAll_RoomCapacityExceeded(t *testing.T) {
	roster := baseRoster()
	d := New(domain.DefaultConfiguration())
	in := Input{
		ScheduleID: "s1",
		Roster:     roster,
		Slots:      []domain.ScheduleSlot{slot("slotA", "c1", "t1", "r1", domain.Monday, 9, 0, 9, 50)},
	}
	conflicts := d.DetectAll(in)
	var found *domain.Conflict
	for i, c := range conflicts {
		if c.Type == domain.ConflictRoomCapacity {
			found = &conflicts[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, domain.SeverityHigh, found.Severity)
	assert.Contains(t, found.Description, "32")
	assert.Contains(t, found.Description, "30")
}

// Scenario 5 from spec.md §8: a teacher with 5 contiguous 50-min periods
// from 09:00 to 13:10 with no >=30-min gap in [11:00,13:00) yields one
// MEDIUM MISSING_LUNCH_BREAK conflict.
func TestDetectAll_MissingLunchBreak(t *testing.T) {
	roster := baseRoster()
	d := New(domain.DefaultConfiguration())
	var slots []domain.ScheduleSlot
	start := domain.NewTimeOfDay(9, 0)
	for i := 0; i < 5; i++ {
		id := string(rune('A' + i))
		end := start.Add(50)
		slots = append(slots, domain.ScheduleSlot{
			ID: "lunch" + id, CourseID: "c1", TeacherID: "t1", RoomID: "r1",
			Window: domain.TimeWindow{Day: domain.Monday, Start: start, End: end},
		})
		start = end
	}
	in := Input{ScheduleID: "s1", Roster: roster, Slots: slots}
	conflicts := d.DetectAll(in)
	var found bool
	for _, c := range conflicts {
		if c.Type == domain.ConflictMissingLunch {
			found = true
			assert.Equal(t, domain.SeverityMedium, c.Severity)
		}
	}
	assert.True(t, found, "expected a MISSING_LUNCH_BREAK conflict")
}

func TestValidateSchedule_PublishGate(t *testing.T) {
	roster := baseRoster()
	d := New(domain.DefaultConfiguration())
	in := Input{
		ScheduleID: "s1",
		Roster:     roster,
		Slots: []domain.ScheduleSlot{
			slot("slotA", "c1", "t1", "r1", domain.Monday, 9, 0, 9, 50),
			slot("slotB", "c2", "t1", "r1", domain.Monday, 9, 0, 9, 50),
		},
	}
	summary := d.ValidateSchedule(in)
	assert.False(t, summary.Valid)
	assert.Greater(t, summary.CriticalCount, 0)
}

// Incremental subset property from spec.md §8: DetectPotentialConflicts
// for an inserted slot is a subset of DetectAll's conflicts referencing it.
func TestDetectPotentialConflicts_SubsetOfBatch(t *testing.T) {
	roster := baseRoster()
	d := New(domain.DefaultConfiguration())
	existing := []domain.ScheduleSlot{slot("slotA", "c1", "t1", "r1", domain.Monday, 9, 0, 9, 50)}
	candidate := slot("slotB", "c2", "t1", "r1", domain.Monday, 9, 0, 9, 50)

	potential := d.DetectPotentialConflicts(Input{ScheduleID: "s1", Roster: roster, Slots: existing}, candidate)

	batch := d.DetectAll(Input{ScheduleID: "s1", Roster: roster, Slots: append(existing, candidate)})
	batchTypes := map[domain.ConflictType]bool{}
	for _, c := range batch {
		if referencesSlot(c, candidate.ID) {
			batchTypes[c.Type] = true
		}
	}
	for _, c := range potential {
		assert.True(t, referencesSlot(c, candidate.ID))
		assert.True(t, batchTypes[c.Type], "potential conflict type %s not present in batch result", c.Type)
	}
	assert.NotEmpty(t, potential)
}
