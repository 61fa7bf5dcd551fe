package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	"github.com/xianfire/campus-api/internal/service"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
	"github.com/xianfire/campus-api/pkg/response"
)

// BuildingHandler manages building endpoints.
type BuildingHandler struct {
	service *service.BuildingService
}

// NewBuildingHandler constructs handler.
func NewBuildingHandler(svc *service.BuildingService) *BuildingHandler {
	return &BuildingHandler{service: svc}
}

// List godoc
// @Summary List buildings
// @Tags Buildings
// @Produce json
// @Param collegeId query string false "Filter by college"
// @Param search query string false "Search by name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /buildings [get]
func (h *BuildingHandler) List(c *gin.Context) {
	var filter models.BuildingFilter
	filter.CollegeID = c.Query("collegeId")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	buildings, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buildings, pagination)
}

// Get godoc
// @Summary Get building
// @Tags Buildings
// @Produce json
// @Param id path string true "Building ID"
// @Success 200 {object} response.Envelope
// @Router /buildings/{id} [get]
func (h *BuildingHandler) Get(c *gin.Context) {
	building, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, building, nil)
}

// Create godoc
// @Summary Create building
// @Tags Buildings
// @Accept json
// @Produce json
// @Param payload body dto.CreateBuildingRequest true "Building payload"
// @Success 201 {object} response.Envelope
// @Router /buildings [post]
func (h *BuildingHandler) Create(c *gin.Context) {
	var req dto.CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	building, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, building)
}

// Update godoc
// @Summary Update building
// @Tags Buildings
// @Accept json
// @Produce json
// @Param id path string true "Building ID"
// @Param payload body dto.UpdateBuildingRequest true "Building payload"
// @Success 200 {object} response.Envelope
// @Router /buildings/{id} [put]
func (h *BuildingHandler) Update(c *gin.Context) {
	var req dto.UpdateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	building, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, building, nil)
}

// Delete godoc
// @Summary Delete building
// @Tags Buildings
// @Produce json
// @Param id path string true "Building ID"
// @Success 204
// @Router /buildings/{id} [delete]
func (h *BuildingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
