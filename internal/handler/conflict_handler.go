package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
	"github.com/xianfire/campus-api/pkg/response"
)

type conflictService interface {
	Report(ctx context.Context) (*dto.ConflictReport, error)
	Summary(ctx context.Context) (*models.ConflictSummary, error)
	Validate(ctx context.Context, req dto.ValidateScheduleRequest) (*models.ValidationResult, error)
	ScheduleConflicts(ctx context.Context, id string) ([]models.Conflict, error)
	AutoResolve(ctx context.Context) (*dto.ResolutionResponse, error)
}

// ConflictHandler exposes the conflict-detection endpoints.
type ConflictHandler struct {
	service conflictService
}

// NewConflictHandler constructs handler.
func NewConflictHandler(svc conflictService) *ConflictHandler {
	return &ConflictHandler{service: svc}
}

// Report godoc
// @Summary Full conflict report
// @Description Runs detection over every stored schedule and returns all
// @Description room, faculty and capacity conflicts with a summary.
// @Tags Conflicts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /conflicts [get]
func (h *ConflictHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Summary godoc
// @Summary Conflict summary
// @Tags Conflicts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /conflicts/summary [get]
func (h *ConflictHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Validate godoc
// @Summary Validate a candidate schedule
// @Description Checks a schedule against the stored timetable without
// @Description persisting it. Warnings never affect validity.
// @Tags Conflicts
// @Accept json
// @Produce json
// @Param payload body dto.ValidateScheduleRequest true "Candidate schedule"
// @Success 200 {object} response.Envelope
// @Router /conflicts/validate [post]
func (h *ConflictHandler) Validate(c *gin.Context) {
	var req dto.ValidateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ScheduleConflicts godoc
// @Summary Conflicts for one schedule
// @Tags Conflicts
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/conflicts [get]
func (h *ConflictHandler) ScheduleConflicts(c *gin.Context) {
	conflicts, err := h.service.ScheduleConflicts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conflicts, nil)
}

// AutoResolve godoc
// @Summary Propose resolutions for room conflicts
// @Description Suggests room changes for current room conflicts. Proposals
// @Description are advisory; no schedule is modified.
// @Tags Conflicts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /conflicts/resolve [post]
func (h *ConflictHandler) AutoResolve(c *gin.Context) {
	resolutions, err := h.service.AutoResolve(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resolutions, nil)
}
