package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/sched-engine/internal/apperr"
	"github.com/noah-isme/sched-engine/internal/domain"
	"github.com/noah-isme/sched-engine/internal/dto"
	"github.com/noah-isme/sched-engine/internal/engine"
	"github.com/noah-isme/sched-engine/internal/metrics"
	"github.com/noah-isme/sched-engine/internal/response"
)

// ScheduleGeneratorHandler exposes the C2->C3->C5->C4->C6 generate pipeline.
type ScheduleGeneratorHandler struct {
	engine   *engine.Engine
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(e *engine.Engine, m *metrics.Metrics) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{engine: e, metrics: m, validate: validator.New()}
}

// Generate godoc
// @Summary Generate a conflict-free schedule proposal
// @Description Runs the feasibility audit, teacher matcher, solver, and
// @Description validator, landing the schedule in REVIEW.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, apperr.Wrap(err, apperr.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}

	engineReq := toEngineGenerateRequest(req)
	result, err := h.engine.Generate(c.Request.Context(), engineReq)
	if h.metrics != nil && result != nil {
		duration := time.Duration(result.DurationMs) * time.Millisecond
		cancelled := err != nil && apperr.FromError(err).Code == apperr.ErrCancelled.Code
		h.metrics.ObserveSolve(string(engineReq.AlgorithmChoice), duration, 0, err == nil, cancelled)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, toGenerateResponse(result))
}

func toEngineGenerateRequest(req dto.GenerateScheduleRequest) engine.GenerateScheduleRequest {
	weekdays := make([]domain.Weekday, 0, len(req.TargetWeekdays))
	for _, name := range req.TargetWeekdays {
		weekdays = append(weekdays, domain.ParseWeekday(name))
	}
	return engine.GenerateScheduleRequest{
		ScheduleName:            req.Name,
		TargetWeekdays:          weekdays,
		EarliestStart:           domain.TimeOfDay(req.EarliestStartMinutes),
		LatestEnd:               domain.TimeOfDay(req.LatestEndMinutes),
		PassingMinutes:          req.PassingMinutes,
		TimeBudgetSeconds:       req.TimeBudgetSeconds,
		UnimprovedSecondsBudget: req.UnimprovedSecondsBudget,
		AlgorithmChoice:         domain.AlgorithmChoice(req.AlgorithmChoice),
		WeightOverrides:         req.WeightOverrides,
		StageForReview:          req.StageForReview,
	}
}

// CommitProposal godoc
// @Summary Commit a staged generate proposal into REVIEW
// @Description Accepts a proposal id returned by Generate with
// @Description stageForReview=true, persisting its slots and landing the
// @Description schedule in REVIEW. Unknown or TTL-expired ids fail with
// @Description PROPOSAL_NOT_FOUND.
// @Tags Scheduler
// @Produce json
// @Param proposalId path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/proposals/{proposalId}/commit [post]
func (h *ScheduleGeneratorHandler) CommitProposal(c *gin.Context) {
	result, err := h.engine.CommitProposal(c.Request.Context(), c.Param("proposalId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, toGenerateResponse(result))
}

func toGenerateResponse(result *engine.GenerateScheduleResult) dto.GenerateScheduleResponse {
	if result == nil {
		return dto.GenerateScheduleResponse{}
	}
	return dto.GenerateScheduleResponse{
		ScheduleID:     result.ScheduleID,
		ProposalID:     result.ProposalID,
		Staged:         result.Staged,
		Status:         string(result.Status),
		SummaryScore:   result.SummaryScore,
		SeverityCounts: severityCountsToView(result.SeverityCounts),
		Warnings:       result.Warnings,
		Errors:         result.Errors,
		DurationMs:     result.DurationMs,
	}
}

func severityCountsToView(counts map[domain.Severity]int) map[string]int {
	if counts == nil {
		return nil
	}
	out := make(map[string]int, len(counts))
	for sev, n := range counts {
		out[string(sev)] = n
	}
	return out
}
