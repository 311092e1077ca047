package postgres

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// teacherRow mirrors the teachers table; certifications is a Postgres
// text[] decoded through pq.StringArray, the same pattern the teacher's
// repository uses for every array column.
type teacherRow struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	Department       string         `db:"department"`
	Certifications   pq.StringArray `db:"certifications"`
	PlanningDay      sql.NullInt64  `db:"planning_day"`
	PlanningStart    sql.NullInt64  `db:"planning_start"`
	PlanningEnd      sql.NullInt64  `db:"planning_end"`
	MaxPeriodsPerDay int            `db:"max_periods_per_day"`
	Active           bool           `db:"active"`
}

func (r teacherRow) toDomain() domain.Teacher {
	t := domain.Teacher{
		ID:               r.ID,
		Name:             r.Name,
		Department:       r.Department,
		Certifications:   []string(r.Certifications),
		MaxPeriodsPerDay: r.MaxPeriodsPerDay,
		Active:           r.Active,
	}
	if r.PlanningDay.Valid && r.PlanningStart.Valid && r.PlanningEnd.Valid {
		window := domain.TimeWindow{
			Day:   domain.Weekday(r.PlanningDay.Int64),
			Start: domain.TimeOfDay(r.PlanningStart.Int64),
			End:   domain.TimeOfDay(r.PlanningEnd.Int64),
		}
		t.PlanningPeriod = &window
	}
	return t
}

// courseRow mirrors the courses table.
type courseRow struct {
	ID               string         `db:"id"`
	Code             string         `db:"code"`
	Name             string         `db:"name"`
	Subject          string         `db:"subject"`
	RequiresLab      bool           `db:"requires_lab"`
	RequiredRoomType sql.NullString `db:"required_room_type"`
	Enrollment       int            `db:"enrollment"`
	MaxStudents      int            `db:"max_students"`
	MinEnrollment    int            `db:"min_enrollment"`
	SessionsPerWeek  int            `db:"sessions_per_week"`
	Credits          sql.NullInt64  `db:"credits"`
	PriorityLevel    sql.NullInt64  `db:"priority_level"`
	Level            string         `db:"level"`
	TeacherID        string         `db:"teacher_id"`
	RoomID           string         `db:"room_id"`
	Active           bool           `db:"active"`
}

func (r courseRow) toDomain() domain.Course {
	c := domain.Course{
		ID:              r.ID,
		Code:            r.Code,
		Name:            r.Name,
		Subject:         r.Subject,
		RequiresLab:     r.RequiresLab,
		Enrollment:      r.Enrollment,
		MaxStudents:     r.MaxStudents,
		MinEnrollment:   r.MinEnrollment,
		SessionsPerWeek: r.SessionsPerWeek,
		Level:           r.Level,
		TeacherID:       r.TeacherID,
		RoomID:          r.RoomID,
		Active:          r.Active,
	}
	if r.RequiredRoomType.Valid {
		rt := domain.RoomType(r.RequiredRoomType.String)
		c.RequiredRoomType = &rt
	}
	if r.Credits.Valid {
		v := int(r.Credits.Int64)
		c.Credits = &v
	}
	if r.PriorityLevel.Valid {
		v := int(r.PriorityLevel.Int64)
		c.PriorityLevel = &v
	}
	return c
}

// roomRow mirrors the rooms table.
type roomRow struct {
	ID                   string `db:"id"`
	Number               string `db:"number"`
	Building             string `db:"building"`
	Floor                int    `db:"floor"`
	Capacity             int    `db:"capacity"`
	RoomType             string `db:"room_type"`
	AllowSharing         bool   `db:"allow_sharing"`
	MaxConcurrentClasses int    `db:"max_concurrent_classes"`
	Available            bool   `db:"available"`
}

func (r roomRow) toDomain() domain.Room {
	return domain.Room{
		ID:                   r.ID,
		Number:               r.Number,
		Building:             r.Building,
		Floor:                r.Floor,
		Capacity:             r.Capacity,
		RoomType:             domain.RoomType(r.RoomType),
		AllowSharing:         r.AllowSharing,
		MaxConcurrentClasses: r.MaxConcurrentClasses,
		Available:            r.Available,
	}
}

// studentRow mirrors the students table.
type studentRow struct {
	ID         string          `db:"id"`
	GradeLevel int             `db:"grade_level"`
	GPA        sql.NullFloat64 `db:"gpa"`
	IEP        bool            `db:"iep"`
	Section504 bool            `db:"section_504"`
	Gifted     bool            `db:"gifted"`
}

func (r studentRow) toDomain() domain.Student {
	s := domain.Student{
		ID:         r.ID,
		GradeLevel: r.GradeLevel,
		IEP:        r.IEP,
		Section504: r.Section504,
		Gifted:     r.Gifted,
	}
	if r.GPA.Valid {
		v := r.GPA.Float64
		s.GPA = &v
	}
	return s
}

// enrollmentRow mirrors the enrollments table.
type enrollmentRow struct {
	ID        string `db:"id"`
	StudentID string `db:"student_id"`
	CourseID  string `db:"course_id"`
	Active    bool   `db:"active"`
}

func (r enrollmentRow) toDomain() domain.Enrollment {
	return domain.Enrollment{ID: r.ID, StudentID: r.StudentID, CourseID: r.CourseID, Active: r.Active}
}

// slotRow mirrors the schedule_slots table. The window is stored as a
// weekday index plus minute-of-day bounds rather than a time type, since
// domain.TimeOfDay is already minutes-since-midnight.
type slotRow struct {
	ID         string `db:"id"`
	ScheduleID string `db:"schedule_id"`
	CourseID   string `db:"course_id"`
	TeacherID  string `db:"teacher_id"`
	RoomID     string `db:"room_id"`
	DayOfWeek  int    `db:"day_of_week"`
	StartMin   int    `db:"start_minute"`
	EndMin     int    `db:"end_minute"`
}

func (r slotRow) toDomain() domain.ScheduleSlot {
	return domain.ScheduleSlot{
		ID:         r.ID,
		ScheduleID: r.ScheduleID,
		CourseID:   r.CourseID,
		TeacherID:  r.TeacherID,
		RoomID:     r.RoomID,
		Window: domain.TimeWindow{
			Day:   domain.Weekday(r.DayOfWeek),
			Start: domain.TimeOfDay(r.StartMin),
			End:   domain.TimeOfDay(r.EndMin),
		},
	}
}

func slotRowFromDomain(s domain.ScheduleSlot) slotRow {
	return slotRow{
		ID:         s.ID,
		ScheduleID: s.ScheduleID,
		CourseID:   s.CourseID,
		TeacherID:  s.TeacherID,
		RoomID:     s.RoomID,
		DayOfWeek:  int(s.Window.Day),
		StartMin:   int(s.Window.Start),
		EndMin:     int(s.Window.End),
	}
}

// scheduleRow mirrors the schedules table. Meta is stored as jsonb.
type scheduleRow struct {
	ID      string `db:"id"`
	Name    string `db:"name"`
	Status  string `db:"status"`
	Score   float64 `db:"score"`
	Version int    `db:"version"`
	Meta    []byte `db:"meta"`
}

func (r scheduleRow) toDomain() (domain.Schedule, error) {
	sched := domain.Schedule{
		ID:      r.ID,
		Name:    r.Name,
		Status:  domain.ScheduleStatus(r.Status),
		Score:   r.Score,
		Version: r.Version,
	}
	if len(r.Meta) > 0 {
		meta := map[string]any{}
		if err := json.Unmarshal(r.Meta, &meta); err != nil {
			return domain.Schedule{}, err
		}
		sched.Meta = meta
	}
	return sched, nil
}

func scheduleRowFromDomain(s domain.Schedule) (scheduleRow, error) {
	row := scheduleRow{
		ID:      s.ID,
		Name:    s.Name,
		Status:  string(s.Status),
		Score:   s.Score,
		Version: s.Version,
	}
	if s.Meta != nil {
		raw, err := json.Marshal(s.Meta)
		if err != nil {
			return scheduleRow{}, err
		}
		row.Meta = raw
	} else {
		row.Meta = []byte("{}")
	}
	return row, nil
}

// conflictRow mirrors the conflicts table.
type conflictRow struct {
	ID          string         `db:"id"`
	ScheduleID  string         `db:"schedule_id"`
	Type        string         `db:"type"`
	Severity    string         `db:"severity"`
	SlotIDs     pq.StringArray `db:"slot_ids"`
	TeacherIDs  pq.StringArray `db:"teacher_ids"`
	RoomIDs     pq.StringArray `db:"room_ids"`
	CourseIDs   pq.StringArray `db:"course_ids"`
	Description string         `db:"description"`
}

func (r conflictRow) toDomain() domain.Conflict {
	return domain.Conflict{
		ID:          r.ID,
		ScheduleID:  r.ScheduleID,
		Type:        domain.ConflictType(r.Type),
		Severity:    domain.Severity(r.Severity),
		SlotIDs:     []string(r.SlotIDs),
		TeacherIDs:  []string(r.TeacherIDs),
		RoomIDs:     []string(r.RoomIDs),
		CourseIDs:   []string(r.CourseIDs),
		Description: r.Description,
	}
}

func conflictRowFromDomain(c domain.Conflict) conflictRow {
	return conflictRow{
		ID:          c.ID,
		ScheduleID:  c.ScheduleID,
		Type:        string(c.Type),
		Severity:    string(c.Severity),
		SlotIDs:     pq.StringArray(c.SlotIDs),
		TeacherIDs:  pq.StringArray(c.TeacherIDs),
		RoomIDs:     pq.StringArray(c.RoomIDs),
		CourseIDs:   pq.StringArray(c.CourseIDs),
		Description: c.Description,
	}
}
