package domain

// Roster is a read-only, pre-materialized snapshot of the entities a task
// needs, looked up once per task per spec.md §9 ("cyclic object graphs ...
// navigation is lookup through the repository or a pre-materialized index
// for the duration of a task").
type Roster struct {
	Teachers map[string]Teacher
	Courses  map[string]Course
	Rooms    map[string]Room
	Students map[string]Student
}

// NewRoster indexes slices of entities by ID.
func NewRoster(teachers []Teacher, courses []Course, rooms []Room, students []Student) Roster {
	r := Roster{
		Teachers: make(map[string]Teacher, len(teachers)),
		Courses:  make(map[string]Course, len(courses)),
		Rooms:    make(map[string]Room, len(rooms)),
		Students: make(map[string]Student, len(students)),
	}
	for _, t := range teachers {
		r.Teachers[t.ID] = t
	}
	for _, c := range courses {
		r.Courses[c.ID] = c
	}
	for _, rm := range rooms {
		r.Rooms[rm.ID] = rm
	}
	for _, s := range students {
		r.Students[s.ID] = s
	}
	return r
}

// TeacherWorkload returns a teacher's derived AssignedCourses and
// TeachingPeriods counts over the given slots (spec.md §3's "derived
// quantities computed from the current binding").
func TeacherWorkload(teacherID string, slots []ScheduleSlot) (assignedCourses int, teachingPeriods int) {
	seen := make(map[string]bool)
	for _, slot := range slots {
		if slot.TeacherID != teacherID {
			continue
		}
		teachingPeriods++
		if !seen[slot.CourseID] {
			seen[slot.CourseID] = true
			assignedCourses++
		}
	}
	return assignedCourses, teachingPeriods
}

// SlotsOnDay filters slots to those scheduled on the given day.
func SlotsOnDay(slots []ScheduleSlot, day Weekday) []ScheduleSlot {
	var result []ScheduleSlot
	for _, s := range slots {
		if s.DayOfWeek() == day {
			result = append(result, s)
		}
	}
	return result
}

// SlotsForTeacher filters slots bound to the given teacher.
func SlotsForTeacher(slots []ScheduleSlot, teacherID string) []ScheduleSlot {
	var result []ScheduleSlot
	for _, s := range slots {
		if s.TeacherID == teacherID {
			result = append(result, s)
		}
	}
	return result
}

// SlotsForRoom filters slots bound to the given room.
func SlotsForRoom(slots []ScheduleSlot, roomID string) []ScheduleSlot {
	var result []ScheduleSlot
	for _, s := range slots {
		if s.RoomID == roomID {
			result = append(result, s)
		}
	}
	return result
}

// WithinSchoolDay reports whether a window falls inside the configured
// weekday set and earliest/latest bounds (invariant 5/6 in spec.md §3).
func WithinSchoolDay(w TimeWindow, cfg SchedulerConfiguration) bool {
	if !w.Valid() {
		return false
	}
	dayAllowed := false
	for _, d := range cfg.Weekdays {
		if d == w.Day {
			dayAllowed = true
			break
		}
	}
	if !dayAllowed {
		return false
	}
	return !w.Start.Before(cfg.EarliestStart) && !w.End.After(cfg.LatestEnd)
}
