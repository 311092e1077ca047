package solver

import (
	"sort"

	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/matcher"
)

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

// roomFits reports whether room can host course: available, schedulable,
// capacity sufficient, and (when the course requires one) a matching room
// type, per the hard constraints in spec.md §4.4.
func roomFits(room domain.Room, course domain.Course) bool {
	if !room.Schedulable() {
		return false
	}
	if room.EffectiveMaxCapacity() < course.Enrollment {
		return false
	}
	if course.RequiresLab && !domain.LabTypes[room.RoomType] {
		return false
	}
	if course.RequiredRoomType != nil && room.RoomType != *course.RequiredRoomType {
		return false
	}
	return true
}

// candidateTeachers returns, in preference order, teacher IDs qualified to
// teach course: the course's already-bound teacher first (matcher output
// from C3), then every other certified, active teacher.
func candidateTeachers(roster domain.Roster, course domain.Course) []string {
	var out []string
	if course.HasTeacher() {
		out = append(out, course.TeacherID)
	}
	for _, id := range sortedTeacherIDs(roster) {
		if id == course.TeacherID {
			continue
		}
		teacher := roster.Teachers[id]
		if !teacher.Active {
			continue
		}
		if qualified, _ := matcher.Certified(teacher.Certifications, course.Subject); qualified {
			out = append(out, id)
		}
	}
	return out
}

// roomsFor returns every schedulable room ID that fits course, in
// ascending room-ID order (a stable, deterministic order).
func roomsFor(roster domain.Roster, course domain.Course) []string {
	var out []string
	for _, id := range sortedRoomIDs(roster) {
		if roomFits(roster.Rooms[id], course) {
			out = append(out, id)
		}
	}
	return out
}
