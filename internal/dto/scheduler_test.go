package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestSlotCheckRequestValidation(t *testing.T) {
	v := validator.New()

	valid := SlotCheckRequest{
		CourseID: "course-1", TeacherID: "teacher-1", RoomID: "room-1",
		Day: "MONDAY", StartMinutes: 480, EndMinutes: 540,
	}
	require.NoError(t, v.Struct(valid))

	endBeforeStart := valid
	endBeforeStart.EndMinutes = 400
	require.Error(t, v.Struct(endBeforeStart))

	badDay := valid
	badDay.Day = "FUNDAY"
	require.Error(t, v.Struct(badDay))

	missingCourse := valid
	missingCourse.CourseID = ""
	require.Error(t, v.Struct(missingCourse))
}

func TestGenerateScheduleRequestValidation(t *testing.T) {
	v := validator.New()

	require.NoError(t, v.Struct(GenerateScheduleRequest{Name: "Fall 2026"}))

	require.Error(t, v.Struct(GenerateScheduleRequest{}))

	require.Error(t, v.Struct(GenerateScheduleRequest{
		Name:            "Fall 2026",
		AlgorithmChoice: "RANDOM_GUESS",
	}))

	require.NoError(t, v.Struct(GenerateScheduleRequest{
		Name:            "Fall 2026",
		AlgorithmChoice: "SIMULATED_ANNEALING",
		TargetWeekdays:  []string{"MONDAY", "WEDNESDAY"},
	}))
}

func TestLoginRequestValidation(t *testing.T) {
	v := validator.New()

	require.NoError(t, v.Struct(LoginRequest{Email: "a@example.com", Password: "x"}))
	require.Error(t, v.Struct(LoginRequest{Email: "not-an-email", Password: "x"}))
	require.Error(t, v.Struct(LoginRequest{Email: "a@example.com"}))
}
