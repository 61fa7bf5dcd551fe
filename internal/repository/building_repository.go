package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/xianfire/campus-api/internal/models"
)

const buildingColumns = "b.id, b.name, b.college_id, c.name AS college_name, b.room_count, b.floors, b.year_built, b.created_at, b.updated_at"

// BuildingRepository provides persistence for buildings.
type BuildingRepository struct {
	db *sqlx.DB
}

// NewBuildingRepository creates a new building repository.
func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

// List returns buildings with their college names resolved.
func (r *BuildingRepository) List(ctx context.Context, filter models.BuildingFilter) ([]models.Building, int, error) {
	base := "FROM buildings b JOIN colleges c ON c.id = b.college_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.CollegeID != "" {
		conditions = append(conditions, fmt.Sprintf("b.college_id = $%d", len(args)+1))
		args = append(args, filter.CollegeID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("b.name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY b.name ASC LIMIT %d OFFSET %d", buildingColumns, base, size, offset)
	var buildings []models.Building
	if err := r.db.SelectContext(ctx, &buildings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list buildings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count buildings: %w", err)
	}

	return buildings, total, nil
}

// FindByID loads a building by id.
func (r *BuildingRepository) FindByID(ctx context.Context, id string) (*models.Building, error) {
	query := fmt.Sprintf("SELECT %s FROM buildings b JOIN colleges c ON c.id = b.college_id WHERE b.id = $1", buildingColumns)
	var building models.Building
	if err := r.db.GetContext(ctx, &building, query, id); err != nil {
		return nil, err
	}
	return &building, nil
}

// Create stores a new building.
func (r *BuildingRepository) Create(ctx context.Context, building *models.Building) error {
	if building.ID == "" {
		building.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if building.CreatedAt.IsZero() {
		building.CreatedAt = now
	}
	building.UpdatedAt = now

	const query = `INSERT INTO buildings (id, name, college_id, room_count, floors, year_built, created_at, updated_at) VALUES (:id, :name, :college_id, :room_count, :floors, :year_built, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, building); err != nil {
		return fmt.Errorf("create building: %w", err)
	}
	return nil
}

// Update modifies a building.
func (r *BuildingRepository) Update(ctx context.Context, building *models.Building) error {
	building.UpdatedAt = time.Now().UTC()
	const query = `UPDATE buildings SET name = :name, college_id = :college_id, room_count = :room_count, floors = :floors, year_built = :year_built, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, building); err != nil {
		return fmt.Errorf("update building: %w", err)
	}
	return nil
}

// Delete removes a building by id.
func (r *BuildingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM buildings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete building: %w", err)
	}
	return nil
}
