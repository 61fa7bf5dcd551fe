package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
)

type collegeRepository interface {
	List(ctx context.Context, filter models.CollegeFilter) ([]models.College, int, error)
	FindByID(ctx context.Context, id string) (*models.College, error)
	Create(ctx context.Context, college *models.College) error
	Update(ctx context.Context, college *models.College) error
	Delete(ctx context.Context, id string) error
}

// CollegeService manages academic colleges.
type CollegeService struct {
	repo      collegeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCollegeService instantiates CollegeService.
func NewCollegeService(repo collegeRepository, validate *validator.Validate, logger *zap.Logger) *CollegeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollegeService{repo: repo, validator: validate, logger: logger}
}

// List returns colleges with pagination metadata.
func (s *CollegeService) List(ctx context.Context, filter models.CollegeFilter) ([]models.College, *models.Pagination, error) {
	colleges, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list colleges")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return colleges, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads a single college.
func (s *CollegeService) Get(ctx context.Context, id string) (*models.College, error) {
	college, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}
	return college, nil
}

// Create registers a new college.
func (s *CollegeService) Create(ctx context.Context, req dto.CreateCollegeRequest) (*models.College, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid college payload")
	}

	college := models.College{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		Description:  req.Description,
		Established:  req.Established,
	}
	if err := s.repo.Create(ctx, &college); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create college")
	}
	return &college, nil
}

// Update modifies a college.
func (s *CollegeService) Update(ctx context.Context, id string, req dto.UpdateCollegeRequest) (*models.College, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid college payload")
	}

	college, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}

	if req.Name != nil {
		college.Name = *req.Name
	}
	if req.Abbreviation != nil {
		college.Abbreviation = *req.Abbreviation
	}
	if req.Description != nil {
		college.Description = *req.Description
	}
	if req.Established != nil {
		college.Established = *req.Established
	}

	if err := s.repo.Update(ctx, college); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update college")
	}
	return college, nil
}

// Delete removes a college.
func (s *CollegeService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "college not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete college")
	}
	return nil
}
