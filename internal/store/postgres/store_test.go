package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/domain"
)

func newStoreMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return New(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestStoreListActiveTeachers(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "name", "department", "certifications", "planning_day", "planning_start", "planning_end", "max_periods_per_day", "active"}).
		AddRow("t1", "Jane Doe", "Math", pq.StringArray{"mathematics", "algebra"}, nil, nil, nil, 7, true)
	mock.ExpectQuery(regexp.QuoteMeta(listActiveTeachersQuery)).WillReturnRows(rows)

	teachers, err := store.ListActiveTeachers(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, "Jane Doe", teachers[0].Name)
	assert.Contains(t, teachers[0].Certifications, "mathematics")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListActiveCourses(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "code", "name", "subject", "requires_lab", "required_room_type", "enrollment", "max_students", "min_enrollment", "sessions_per_week", "credits", "priority_level", "level", "teacher_id", "room_id", "active"}).
		AddRow("c1", "MATH101", "Algebra I", "mathematics", false, nil, 20, 30, 10, 5, nil, nil, "9", "", "", true)
	mock.ExpectQuery(regexp.QuoteMeta(listActiveCoursesQuery)).WillReturnRows(rows)

	courses, err := store.ListActiveCourses(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Algebra I", courses[0].Name)
	assert.False(t, courses[0].HasTeacher())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpdateCourseBinding(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE courses SET teacher_id = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("t1", sqlmock.AnyArg(), "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.UpdateCourseBinding(context.Background(), "c1", "t1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFindScheduleNotFound(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(findScheduleQuery)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	sched, err := store.FindSchedule(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, sched)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveScheduleReplacesSlots(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedules")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_slots WHERE schedule_id = $1")).
		WithArgs("sched1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_slots")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	sched := &domain.Schedule{ID: "sched1", Name: "Fall", Status: domain.StatusReview, Version: 1}
	slots := []domain.ScheduleSlot{
		{ID: "s1", ScheduleID: "sched1", CourseID: "c1", TeacherID: "t1", RoomID: "r1",
			Window: domain.TimeWindow{Day: domain.Monday, Start: domain.NewTimeOfDay(9, 0), End: domain.NewTimeOfDay(9, 50)}},
	}
	err := store.SaveSchedule(context.Background(), sched, slots)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreCountActiveBySchedule(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(countCriticalConflictsQuery)).
		WithArgs("sched1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := store.CountActiveBySchedule(context.Background(), "sched1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
