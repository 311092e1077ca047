package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/conflict"
	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/dto"
	"github.com/noah-isme/sched-engine/internal/engine"
	"github.com/noah-isme/sched-engine/internal/export"
	"github.com/noah-isme/sched-engine/internal/feasibility"
	"github.com/noah-isme/sched-engine/internal/matcher"
	"github.com/noah-isme/sched-engine/internal/response"
)

// ScheduleHandler exposes the lifecycle and validation endpoints over a
// previously generated schedule.
type ScheduleHandler struct {
	engine   *engine.Engine
	validate *validator.Validate
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(e *engine.Engine) *ScheduleHandler {
	return &ScheduleHandler{engine: e, validate: validator.New()}
}

// Validate godoc
// @Summary Re-run the conflict detector over a schedule's current slots
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id}/validate [post]
func (h *ScheduleHandler) Validate(c *gin.Context) {
	summary, err := h.engine.Validate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toValidationSummaryResponse(*summary))
}

// CheckSlot godoc
// @Summary Check whether a candidate slot would introduce a conflict
// @Description Runs the incremental detector without persisting the slot.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.SlotCheckRequest true "Candidate slot"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/check-slot [post]
func (h *ScheduleHandler) CheckSlot(c *gin.Context) {
	var req dto.SlotCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	candidate := domain.ScheduleSlot{
		ScheduleID: c.Param("id"),
		CourseID:   req.CourseID,
		TeacherID:  req.TeacherID,
		RoomID:     req.RoomID,
		Window: domain.TimeWindow{
			Day:   domain.ParseWeekday(req.Day),
			Start: domain.TimeOfDay(req.StartMinutes),
			End:   domain.TimeOfDay(req.EndMinutes),
		},
	}

	conflicts, err := h.engine.CheckSlot(c.Request.Context(), c.Param("id"), candidate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflictsToView(conflicts))
}

// MatchCourse godoc
// @Summary Run the teacher matcher for a single course
// @Tags Scheduler
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{courseId}/match [post]
func (h *ScheduleHandler) MatchCourse(c *gin.Context) {
	binding, failure, err := h.engine.MatchCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toMatchCourseResponse(c.Param("courseId"), binding, failure))
}

// Feasibility godoc
// @Summary Run the standalone pre-solve feasibility audit
// @Tags Scheduler
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scheduler/feasibility [get]
func (h *ScheduleHandler) Feasibility(c *gin.Context) {
	result, err := h.engine.Feasibility(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toFeasibilityResponse(*result))
}

// FeasibilityReport godoc
// @Summary Download the feasibility audit as a PDF report
// @Tags Scheduler
// @Produce application/pdf
// @Success 200 {file} binary
// @Router /scheduler/feasibility/report [get]
func (h *ScheduleHandler) FeasibilityReport(c *gin.Context) {
	result, err := h.engine.Feasibility(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	pdf, err := export.FeasibilityReportPDF(*result)
	if err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrInternal.Code, apperr.ErrInternal.Status, "failed to render feasibility report"))
		return
	}
	c.Header("Content-Disposition", "attachment; filename=feasibility-report.pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Publish godoc
// @Summary Publish a reviewed schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedules/{id}/publish [post]
func (h *ScheduleHandler) Publish(c *gin.Context) {
	schedule, err := h.engine.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toScheduleResponse(schedule))
}

// Archive godoc
// @Summary Archive a published schedule
// @Tags Schedules
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/archive [post]
func (h *ScheduleHandler) Archive(c *gin.Context) {
	schedule, err := h.engine.Archive(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toScheduleResponse(schedule))
}

// Clone godoc
// @Summary Clone a schedule into a new draft
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param payload body dto.CloneScheduleRequest true "Clone payload"
// @Success 201 {object} response.Envelope
// @Router /schedules/{id}/clone [post]
func (h *ScheduleHandler) Clone(c *gin.Context) {
	var req dto.CloneScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid clone payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid clone payload"))
		return
	}

	schedule, err := h.engine.Clone(c.Request.Context(), c.Param("id"), req.NewName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, toScheduleResponse(schedule))
}

// Delete godoc
// @Summary Delete a draft or archived schedule
// @Tags Schedules
// @Param id path string true "Schedule ID"
// @Success 204
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.engine.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func toValidationSummaryResponse(summary conflict.ValidationSummary) dto.ValidationSummaryResponse {
	return dto.ValidationSummaryResponse{
		Conflicts:      conflictsToView(summary.Conflicts),
		SeverityCounts: severityCountsToView(summary.SeverityCounts),
		Valid:          summary.Valid,
		CriticalCount:  summary.CriticalCount,
	}
}

func conflictsToView(conflicts []domain.Conflict) []dto.ConflictView {
	views := make([]dto.ConflictView, len(conflicts))
	for i, conf := range conflicts {
		views[i] = dto.ConflictView{
			ID:          conf.ID,
			ScheduleID:  conf.ScheduleID,
			Type:        string(conf.Type),
			Severity:    string(conf.Severity),
			SlotIDs:     conf.SlotIDs,
			TeacherIDs:  conf.TeacherIDs,
			RoomIDs:     conf.RoomIDs,
			CourseIDs:   conf.CourseIDs,
			Description: conf.Description,
		}
	}
	return views
}

func toMatchCourseResponse(courseID string, binding *matcher.Binding, failure *matcher.Failure) dto.MatchCourseResponse {
	if binding != nil {
		return dto.MatchCourseResponse{
			CourseID:  binding.CourseID,
			TeacherID: binding.TeacherID,
			Score:     binding.Score,
			Sequenced: binding.Sequenced,
		}
	}
	if failure != nil {
		return dto.MatchCourseResponse{
			CourseID: courseID,
			Reason:   string(failure.Reason),
			Message:  failure.Message,
		}
	}
	return dto.MatchCourseResponse{CourseID: courseID}
}

func toFeasibilityResponse(result feasibility.Result) dto.FeasibilityResponse {
	violations := make([]dto.ViolationView, len(result.Violations))
	for i, v := range result.Violations {
		actions := make([]dto.ActionView, len(v.Actions))
		for j, a := range v.Actions {
			actions[j] = dto.ActionView{ActionType: a.ActionType, EntityID: a.EntityID, Params: a.Params}
		}
		violations[i] = dto.ViolationView{
			Type:        string(v.Type),
			EntityID:    v.EntityID,
			EntityName:  v.EntityName,
			Description: v.Description,
			Severity:    string(v.Severity),
			Actions:     actions,
		}
	}
	return dto.FeasibilityResponse{
		Violations:     violations,
		SeverityCounts: severityCountsToView(result.SeverityCounts),
		CanAutoFix:     result.CanAutoFix,
	}
}

func toScheduleResponse(schedule *domain.Schedule) dto.ScheduleResponse {
	if schedule == nil {
		return dto.ScheduleResponse{}
	}
	return dto.ScheduleResponse{
		ID:      schedule.ID,
		Name:    schedule.Name,
		Status:  string(schedule.Status),
		Score:   schedule.Score,
		Version: schedule.Version,
		Meta:    schedule.Meta,
	}
}
