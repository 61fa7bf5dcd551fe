package service

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/xianfire/campus-api/internal/conflict"
	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleRecord, int, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleRecord, error)
	Create(ctx context.Context, schedule *models.ScheduleRecord) error
	Update(ctx context.Context, schedule *models.ScheduleRecord) error
	Delete(ctx context.Context, id string) error
}

type scheduleConflictChecker interface {
	Validate(ctx context.Context, req dto.ValidateScheduleRequest) (*models.ValidationResult, error)
	InvalidateCache(ctx context.Context)
}

// ScheduleService coordinates schedule writes. Every create and update is
// validated against the rest of the timetable first; conflicting writes are
// rejected, advisory warnings are passed through to the caller.
type ScheduleService struct {
	repo      scheduleRepository
	conflicts scheduleConflictChecker
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService.
func NewScheduleService(repo scheduleRepository, conflicts scheduleConflictChecker, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, conflicts: conflicts, validator: validate, logger: logger}
}

// List returns schedules with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.ScheduleRecord, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return schedules, pagination, nil
}

// Get loads a single schedule.
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.ScheduleRecord, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// Create inserts a new schedule after conflict validation.
func (s *ScheduleService) Create(ctx context.Context, req dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	start, end, err := normalizeTimes(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	schedule := models.ScheduleRecord{
		SubjectCode:  req.SubjectCode,
		SubjectTitle: req.SubjectTitle,
		Faculty:      req.Faculty,
		RoomName:     req.RoomName,
		Building:     req.Building,
		StartTime:    start,
		EndTime:      end,
		Days:         pq.StringArray(normalizeDays(req.Days)),
		MaxStudents:  req.MaxStudents,
		Semester:     req.Semester,
		SchoolYear:   req.SchoolYear,
		Status:       "active",
	}

	result, err := s.ensureNoConflict(ctx, schedule)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	s.conflicts.InvalidateCache(ctx)

	return &dto.ScheduleResponse{Schedule: schedule, Warnings: result.Warnings}, nil
}

// Update modifies an existing schedule after conflict validation.
func (s *ScheduleService) Update(ctx context.Context, id string, req dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	updated := *existing
	applyScheduleUpdate(&updated, req)

	start, end, err := normalizeTimes(updated.StartTime, updated.EndTime)
	if err != nil {
		return nil, err
	}
	updated.StartTime = start
	updated.EndTime = end

	result, err := s.ensureNoConflict(ctx, updated)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule")
	}
	s.conflicts.InvalidateCache(ctx)

	return &dto.ScheduleResponse{Schedule: updated, Warnings: result.Warnings}, nil
}

// Delete removes a schedule entry.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	s.conflicts.InvalidateCache(ctx)
	return nil
}

func (s *ScheduleService) ensureNoConflict(ctx context.Context, schedule models.ScheduleRecord) (*models.ValidationResult, error) {
	result, err := s.conflicts.Validate(ctx, dto.ValidateScheduleRequest{
		ID:          schedule.ID,
		SubjectCode: schedule.SubjectCode,
		Faculty:     schedule.Faculty,
		RoomName:    schedule.RoomName,
		StartTime:   schedule.StartTime,
		EndTime:     schedule.EndTime,
		Days:        schedule.Days,
		MaxStudents: schedule.MaxStudents,
	})
	if err != nil {
		return nil, err
	}
	if !result.IsValid {
		domainErr := &models.ScheduleConflictError{Conflicts: result.Conflicts}
		return nil, appErrors.Wrap(domainErr, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, "schedule conflicts detected")
	}
	return result, nil
}

func applyScheduleUpdate(schedule *models.ScheduleRecord, req dto.UpdateScheduleRequest) {
	if req.SubjectCode != nil {
		schedule.SubjectCode = *req.SubjectCode
	}
	if req.SubjectTitle != nil {
		schedule.SubjectTitle = *req.SubjectTitle
	}
	if req.Faculty != nil {
		schedule.Faculty = *req.Faculty
	}
	if req.RoomName != nil {
		schedule.RoomName = *req.RoomName
	}
	if req.Building != nil {
		schedule.Building = *req.Building
	}
	if req.StartTime != nil {
		schedule.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		schedule.EndTime = *req.EndTime
	}
	if req.Days != nil {
		schedule.Days = pq.StringArray(normalizeDays(req.Days))
	}
	if req.MaxStudents != nil {
		schedule.MaxStudents = req.MaxStudents
	}
	if req.Status != nil {
		schedule.Status = *req.Status
	}
}

func normalizeTimes(startRaw, endRaw string) (string, string, error) {
	start, ok := conflict.NormalizeClock(startRaw)
	if !ok {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "start_time is not a valid clock time")
	}
	end, ok := conflict.NormalizeClock(endRaw)
	if !ok {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "end_time is not a valid clock time")
	}
	startMin, _ := conflict.ParseClock(start)
	endMin, _ := conflict.ParseClock(end)
	if endMin <= startMin {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}
	return start, end, nil
}

var canonicalDays = map[string]string{
	"monday":    "Monday",
	"tuesday":   "Tuesday",
	"wednesday": "Wednesday",
	"thursday":  "Thursday",
	"friday":    "Friday",
	"saturday":  "Saturday",
	"sunday":    "Sunday",
}

// normalizeDays maps day names to their canonical capitalization. Day overlap
// is an exact string match, so mixed-case input has to be folded here.
func normalizeDays(days []string) []string {
	out := make([]string, 0, len(days))
	for _, day := range days {
		trimmed := strings.TrimSpace(day)
		if trimmed == "" {
			continue
		}
		if canonical, ok := canonicalDays[strings.ToLower(trimmed)]; ok {
			out = append(out, canonical)
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
