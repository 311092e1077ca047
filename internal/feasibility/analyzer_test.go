package feasibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sched-engine/internal/domain"
)

// Scenario 4 from spec.md §8: 4 science lab courses each sessionsPerWeek=5
// and one SCIENCE_LAB room with maxConcurrentClasses=1 (effectively 1)
// yields INSUFFICIENT_ROOMS with shortfall 20 over a 5-period week.
func TestAnalyze_InsufficientRooms(t *testing.T) {
	courses := make([]domain.Course, 0, 4)
	for i := 0; i < 4; i++ {
		courses = append(courses, domain.Course{
			ID: string(rune('A' + i)), Subject: "biology", RequiresLab: true,
			SessionsPerWeek: 5, Active: true, Enrollment: 20, MaxStudents: 30,
		})
	}
	rooms := []domain.Room{
		{ID: "lab1", RoomType: domain.RoomScienceLab, Available: true, MaxConcurrentClasses: 1, Capacity: 30},
	}
	roster := domain.NewRoster(nil, courses, rooms, nil)

	a := New(domain.DefaultConfiguration())
	result := a.Analyze(roster, 5)

	var found *Violation
	for i, v := range result.Violations {
		if v.Type == ViolationInsufficientRooms {
			found = &result.Violations[i]
		}
	}
	require.NotNil(t, found)
	assert.Contains(t, found.Description, "20")
	assert.NotEmpty(t, found.Actions)

	var actionTypes []string
	for _, act := range found.Actions {
		actionTypes = append(actionTypes, act.ActionType)
	}
	assert.Contains(t, actionTypes, "add_rooms")
	assert.Contains(t, actionTypes, "enable_sharing")
	assert.Contains(t, actionTypes, "reduce_sections")
}

func TestAnalyze_NoTeacherCritical(t *testing.T) {
	courses := []domain.Course{{ID: "c1", Subject: "algebra", Active: true, SessionsPerWeek: 1}}
	roster := domain.NewRoster(nil, courses, nil, nil)
	a := New(domain.DefaultConfiguration())
	result := a.Analyze(roster, 5)

	require.Len(t, result.Violations, 1)
	v := result.Violations[0]
	assert.Equal(t, ViolationNoTeacher, v.Type)
	assert.Equal(t, domain.SeverityCritical, v.Severity)
	require.Len(t, v.Actions, 1)
	assert.Equal(t, "hire", v.Actions[0].ActionType)
}

func TestAnalyze_TeacherWorkloadOverload(t *testing.T) {
	cfg := domain.DefaultConfiguration()
	teachers := []domain.Teacher{
		{ID: "t1", Certifications: []string{"math"}, Active: true},
		{ID: "t2", Certifications: []string{"math"}, Active: true},
	}
	courses := []domain.Course{}
	for i := 0; i < cfg.WorkloadHardCap+2; i++ {
		courses = append(courses, domain.Course{
			ID: "c" + string(rune('0'+i)), Subject: "math", Active: true,
			TeacherID: "t1", SessionsPerWeek: 1,
		})
	}
	roster := domain.NewRoster(teachers, courses, nil, nil)
	a := New(cfg)
	result := a.Analyze(roster, 5)

	var found bool
	for _, v := range result.Violations {
		if v.Type == ViolationTeacherOverload && v.EntityID == "t1" {
			found = true
			assert.NotEmpty(t, v.Actions)
		}
	}
	assert.True(t, found)
}
