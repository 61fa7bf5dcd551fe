package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
)

type conflictServiceMock struct {
	report       *dto.ConflictReport
	reportErr    error
	summary      *models.ConflictSummary
	validation   *models.ValidationResult
	validateErr  error
	lastValidate dto.ValidateScheduleRequest
	conflicts    []models.Conflict
	conflictsErr error
	resolutions  *dto.ResolutionResponse
}

func (m *conflictServiceMock) Report(ctx context.Context) (*dto.ConflictReport, error) {
	return m.report, m.reportErr
}

func (m *conflictServiceMock) Summary(ctx context.Context) (*models.ConflictSummary, error) {
	return m.summary, nil
}

func (m *conflictServiceMock) Validate(ctx context.Context, req dto.ValidateScheduleRequest) (*models.ValidationResult, error) {
	m.lastValidate = req
	return m.validation, m.validateErr
}

func (m *conflictServiceMock) ScheduleConflicts(ctx context.Context, id string) ([]models.Conflict, error) {
	return m.conflicts, m.conflictsErr
}

func (m *conflictServiceMock) AutoResolve(ctx context.Context) (*dto.ResolutionResponse, error) {
	return m.resolutions, nil
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestConflictHandlerReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		report: &dto.ConflictReport{
			GeneratedAt: time.Now().UTC(),
			Conflicts: []models.Conflict{
				{Type: models.ConflictRoom, Severity: models.SeverityHigh, Message: "Room A101 is double-booked"},
			},
			Summary: models.ConflictSummary{Total: 1, High: 1},
		},
	}
	handler := NewConflictHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/conflicts", nil)
	handler.Report(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "double-booked")
}

func TestConflictHandlerReportError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		reportErr: appErrors.Clone(appErrors.ErrInternal, "failed to load schedules"),
	}
	handler := NewConflictHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/conflicts", nil)
	handler.Report(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestConflictHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		summary: &models.ConflictSummary{Total: 2, High: 1, Medium: 1, ByType: map[string]int{"room_conflict": 2}},
	}
	handler := NewConflictHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/conflicts/summary", nil)
	handler.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "room_conflict")
}

func TestConflictHandlerValidate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		validation: &models.ValidationResult{IsValid: true, Conflicts: []models.Conflict{}, Warnings: []models.Warning{}},
	}
	handler := NewConflictHandler(mockSvc)

	payload, _ := json.Marshal(dto.ValidateScheduleRequest{
		SubjectCode: "CS101",
		Faculty:     "Dr. Santos",
		RoomName:    "A101",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Days:        []string{"Monday"},
	})
	c, w := newGinContext(http.MethodPost, "/conflicts/validate", payload)
	handler.Validate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "CS101", mockSvc.lastValidate.SubjectCode)
	require.Contains(t, w.Body.String(), "is_valid")
}

func TestConflictHandlerValidateBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConflictHandler(&conflictServiceMock{})

	c, w := newGinContext(http.MethodPost, "/conflicts/validate", []byte("{not json"))
	handler.Validate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConflictHandlerScheduleConflicts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		conflicts: []models.Conflict{
			{Type: models.ConflictFaculty, Severity: models.SeverityHigh, Message: "Dr. Santos is double-booked"},
		},
	}
	handler := NewConflictHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/schedules/s1/conflicts", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	handler.ScheduleConflicts(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Dr. Santos")
}

func TestConflictHandlerScheduleConflictsNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		conflictsErr: appErrors.Clone(appErrors.ErrNotFound, "schedule not found"),
	}
	handler := NewConflictHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/schedules/missing/conflicts", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.ScheduleConflicts(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestConflictHandlerAutoResolve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &conflictServiceMock{
		resolutions: &dto.ResolutionResponse{
			Resolutions: []models.Resolution{
				{Resolution: models.ResolutionRoomChange, NewRoom: "A102"},
			},
			Unresolved: 0,
		},
	}
	handler := NewConflictHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/conflicts/resolve", nil)
	handler.AutoResolve(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "A102")
}
