package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xianfire/campus-api/internal/models"
)

const collegeColumns = "id, name, abbreviation, description, building_count, established, created_at, updated_at"

// CollegeRepository provides persistence for colleges.
type CollegeRepository struct {
	db *sqlx.DB
}

// NewCollegeRepository creates a new college repository.
func NewCollegeRepository(db *sqlx.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// List returns colleges with optional name search.
func (r *CollegeRepository) List(ctx context.Context, filter models.CollegeFilter) ([]models.College, int, error) {
	base := "FROM colleges WHERE 1=1"
	var args []interface{}

	if filter.Search != "" {
		base += fmt.Sprintf(" AND (name ILIKE $%d OR abbreviation ILIKE $%d)", len(args)+1, len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY name ASC LIMIT %d OFFSET %d", collegeColumns, base, size, offset)
	var colleges []models.College
	if err := r.db.SelectContext(ctx, &colleges, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list colleges: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count colleges: %w", err)
	}

	return colleges, total, nil
}

// FindByID loads a college by id.
func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*models.College, error) {
	query := fmt.Sprintf("SELECT %s FROM colleges WHERE id = $1", collegeColumns)
	var college models.College
	if err := r.db.GetContext(ctx, &college, query, id); err != nil {
		return nil, err
	}
	return &college, nil
}

// Create stores a new college.
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) error {
	if college.ID == "" {
		college.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if college.CreatedAt.IsZero() {
		college.CreatedAt = now
	}
	college.UpdatedAt = now

	const query = `INSERT INTO colleges (id, name, abbreviation, description, building_count, established, created_at, updated_at) VALUES (:id, :name, :abbreviation, :description, :building_count, :established, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, college); err != nil {
		return fmt.Errorf("create college: %w", err)
	}
	return nil
}

// Update modifies a college.
func (r *CollegeRepository) Update(ctx context.Context, college *models.College) error {
	college.UpdatedAt = time.Now().UTC()
	const query = `UPDATE colleges SET name = :name, abbreviation = :abbreviation, description = :description, building_count = :building_count, established = :established, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, college); err != nil {
		return fmt.Errorf("update college: %w", err)
	}
	return nil
}

// Delete removes a college by id.
func (r *CollegeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM colleges WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete college: %w", err)
	}
	return nil
}
