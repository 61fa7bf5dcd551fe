package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/xianfire/campus-api/internal/conflict"
	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	"github.com/xianfire/campus-api/pkg/config"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
)

const conflictReportCacheKey = "conflicts:report"

type conflictScheduleSource interface {
	ListAll(ctx context.Context) ([]models.ScheduleRecord, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleRecord, error)
}

type conflictRoomSource interface {
	Directory(ctx context.Context) (*models.RoomDirectory, error)
}

type conflictCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ConflictService runs the detection engine over the stored timetable.
// Reports are cached for the configured TTL and invalidated on any schedule
// or room mutation.
type ConflictService struct {
	schedules conflictScheduleSource
	rooms     conflictRoomSource
	cache     conflictCache
	metrics   *MetricsService
	engineCfg config.EngineConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConflictService instantiates ConflictService. Cache and metrics may be
// nil.
func NewConflictService(schedules conflictScheduleSource, rooms conflictRoomSource, cache conflictCache, metrics *MetricsService, engineCfg config.EngineConfig, validate *validator.Validate, logger *zap.Logger) *ConflictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{
		schedules: schedules,
		rooms:     rooms,
		cache:     cache,
		metrics:   metrics,
		engineCfg: engineCfg,
		validator: validate,
		logger:    logger,
	}
}

// EngineConfig converts the configured thresholds into engine units.
// Unparseable clock strings fall back to the engine defaults.
func (s *ConflictService) EngineConfig() conflict.Config {
	cfg := conflict.Config{
		DefaultRoomCapacity: s.engineCfg.DefaultRoomCapacity,
		MaxDuration:         int(s.engineCfg.MaxClassDuration.Minutes()),
	}
	if minutes, ok := conflict.ParseClock(s.engineCfg.EarliestStart); ok {
		cfg.EarliestStart = minutes
	}
	if minutes, ok := conflict.ParseClock(s.engineCfg.LatestStart); ok {
		cfg.LatestStart = minutes
	}
	return cfg
}

func (s *ConflictService) newDetector(ctx context.Context) (*conflict.Detector, error) {
	schedules, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedules")
	}
	rooms, err := s.rooms.Directory(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	return conflict.NewDetector(schedules, rooms, s.EngineConfig()), nil
}

// Validate checks a candidate schedule against the stored timetable without
// persisting anything.
func (s *ConflictService) Validate(ctx context.Context, req dto.ValidateScheduleRequest) (*models.ValidationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}

	candidate, err := s.candidateFromRequest(req)
	if err != nil {
		return nil, err
	}

	detector, err := s.newDetector(ctx)
	if err != nil {
		return nil, err
	}

	result := detector.Validate(candidate)
	return &result, nil
}

// Report runs a full detection pass, serving a cached result when available.
func (s *ConflictService) Report(ctx context.Context) (*dto.ConflictReport, error) {
	if s.cache != nil {
		var cached dto.ConflictReport
		if err := s.cache.Get(ctx, conflictReportCacheKey, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("conflict report cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	detector, err := s.newDetector(ctx)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	report := &dto.ConflictReport{
		GeneratedAt: time.Now().UTC(),
		Conflicts:   detector.Detect(nil),
		Summary:     detector.Summary(),
	}
	s.metrics.ObserveDetection(time.Since(started), report.Summary.High, report.Summary.Medium, report.Summary.Low)

	if s.cache != nil {
		if err := s.cache.Set(ctx, conflictReportCacheKey, report, s.engineCfg.ReportCacheTTL); err != nil {
			s.logger.Warn("conflict report cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

// Summary returns only the aggregate counts of a detection pass.
func (s *ConflictService) Summary(ctx context.Context) (*models.ConflictSummary, error) {
	report, err := s.Report(ctx)
	if err != nil {
		return nil, err
	}
	return &report.Summary, nil
}

// ScheduleConflicts returns the conflicts involving one stored schedule.
func (s *ConflictService) ScheduleConflicts(ctx context.Context, scheduleID string) ([]models.Conflict, error) {
	if _, err := s.schedules.FindByID(ctx, scheduleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}

	detector, err := s.newDetector(ctx)
	if err != nil {
		return nil, err
	}
	detector.Detect(nil)
	return detector.ConflictsFor(scheduleID), nil
}

// AutoResolve proposes room changes for current room conflicts. Nothing is
// applied; the proposals are advisory.
func (s *ConflictService) AutoResolve(ctx context.Context) (*dto.ResolutionResponse, error) {
	detector, err := s.newDetector(ctx)
	if err != nil {
		return nil, err
	}
	conflicts := detector.Detect(nil)
	resolutions := detector.AutoResolve()

	unresolved := len(conflicts) - len(resolutions)
	if unresolved < 0 {
		unresolved = 0
	}
	return &dto.ResolutionResponse{Resolutions: resolutions, Unresolved: unresolved}, nil
}

// InvalidateCache drops cached reports. Called after schedule or room writes.
func (s *ConflictService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "conflicts:*"); err != nil {
		s.logger.Warn("conflict cache invalidation failed", zap.Error(err))
	}
}

func (s *ConflictService) candidateFromRequest(req dto.ValidateScheduleRequest) (models.ScheduleRecord, error) {
	start, ok := conflict.NormalizeClock(req.StartTime)
	if !ok {
		return models.ScheduleRecord{}, appErrors.Clone(appErrors.ErrValidation, "start_time is not a valid clock time")
	}
	end, ok := conflict.NormalizeClock(req.EndTime)
	if !ok {
		return models.ScheduleRecord{}, appErrors.Clone(appErrors.ErrValidation, "end_time is not a valid clock time")
	}

	return models.ScheduleRecord{
		ID:          req.ID,
		SubjectCode: req.SubjectCode,
		Faculty:     req.Faculty,
		RoomName:    req.RoomName,
		StartTime:   start,
		EndTime:     end,
		Days:        pq.StringArray(normalizeDays(req.Days)),
		MaxStudents: req.MaxStudents,
	}, nil
}
