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

// CollegeHandler manages college endpoints.
type CollegeHandler struct {
	service *service.CollegeService
}

// NewCollegeHandler constructs handler.
func NewCollegeHandler(svc *service.CollegeService) *CollegeHandler {
	return &CollegeHandler{service: svc}
}

// List godoc
// @Summary List colleges
// @Tags Colleges
// @Produce json
// @Param search query string false "Search by name or abbreviation"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /colleges [get]
func (h *CollegeHandler) List(c *gin.Context) {
	var filter models.CollegeFilter
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	colleges, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, colleges, pagination)
}

// Get godoc
// @Summary Get college
// @Tags Colleges
// @Produce json
// @Param id path string true "College ID"
// @Success 200 {object} response.Envelope
// @Router /colleges/{id} [get]
func (h *CollegeHandler) Get(c *gin.Context) {
	college, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, college, nil)
}

// Create godoc
// @Summary Create college
// @Tags Colleges
// @Accept json
// @Produce json
// @Param payload body dto.CreateCollegeRequest true "College payload"
// @Success 201 {object} response.Envelope
// @Router /colleges [post]
func (h *CollegeHandler) Create(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	college, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, college)
}

// Update godoc
// @Summary Update college
// @Tags Colleges
// @Accept json
// @Produce json
// @Param id path string true "College ID"
// @Param payload body dto.UpdateCollegeRequest true "College payload"
// @Success 200 {object} response.Envelope
// @Router /colleges/{id} [put]
func (h *CollegeHandler) Update(c *gin.Context) {
	var req dto.UpdateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	college, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, college, nil)
}

// Delete godoc
// @Summary Delete college
// @Tags Colleges
// @Produce json
// @Param id path string true "College ID"
// @Success 204
// @Router /colleges/{id} [delete]
func (h *CollegeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
