package dto

import "github.com/xianfire/campus-api/internal/models"

// CreateScheduleRequest captures the payload for adding a class schedule.
// Times accept 24-hour "HH:MM" or 12-hour "hh:mm AM/PM" and are normalized
// before validation against the rest of the timetable.
type CreateScheduleRequest struct {
	SubjectCode  string   `json:"subject_code" validate:"required"`
	SubjectTitle string   `json:"subject_title"`
	Faculty      string   `json:"faculty" validate:"required"`
	RoomName     string   `json:"room_name" validate:"required"`
	Building     string   `json:"building"`
	StartTime    string   `json:"start_time" validate:"required"`
	EndTime      string   `json:"end_time" validate:"required"`
	Days         []string `json:"days" validate:"required,min=1,dive,required"`
	MaxStudents  *int     `json:"max_students" validate:"omitempty,min=1"`
	Semester     string   `json:"semester"`
	SchoolYear   string   `json:"school_year"`
}

// UpdateScheduleRequest carries the mutable fields of a schedule. Nil fields
// keep their stored values.
type UpdateScheduleRequest struct {
	SubjectCode  *string  `json:"subject_code"`
	SubjectTitle *string  `json:"subject_title"`
	Faculty      *string  `json:"faculty"`
	RoomName     *string  `json:"room_name"`
	Building     *string  `json:"building"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	Days         []string `json:"days"`
	MaxStudents  *int     `json:"max_students" validate:"omitempty,min=1"`
	Status       *string  `json:"status"`
}

// ScheduleResponse wraps a stored schedule plus any advisory warnings raised
// while saving it.
type ScheduleResponse struct {
	Schedule models.ScheduleRecord `json:"schedule"`
	Warnings []models.Warning      `json:"warnings,omitempty"`
}
