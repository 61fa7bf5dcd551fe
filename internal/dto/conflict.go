package dto

import (
	"time"

	"github.com/xianfire/campus-api/internal/models"
)

// ValidateScheduleRequest captures POST /conflicts/validate payload. The
// candidate is checked against every stored schedule without being persisted.
type ValidateScheduleRequest struct {
	ID          string   `json:"id"`
	SubjectCode string   `json:"subject_code" validate:"required"`
	Faculty     string   `json:"faculty" validate:"required"`
	RoomName    string   `json:"room_name" validate:"required"`
	StartTime   string   `json:"start_time" validate:"required"`
	EndTime     string   `json:"end_time" validate:"required"`
	Days        []string `json:"days" validate:"required,min=1,dive,required"`
	MaxStudents *int     `json:"max_students" validate:"omitempty,min=1"`
}

// ConflictReport is the full detection result over the stored timetable.
type ConflictReport struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Conflicts   []models.Conflict      `json:"conflicts"`
	Summary     models.ConflictSummary `json:"summary"`
}

// ResolutionResponse lists the advisory resolutions the engine proposes.
type ResolutionResponse struct {
	Resolutions []models.Resolution `json:"resolutions"`
	Unresolved  int                 `json:"unresolved"`
}
