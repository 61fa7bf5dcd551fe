package models

import (
	"time"

	"github.com/lib/pq"
)

// ScheduleRecord represents a scheduled class occurrence within a term.
// StartTime and EndTime are wall-clock times of day in 24-hour HH:MM form;
// Days holds the weekday names the occurrence repeats on.
type ScheduleRecord struct {
	ID           string         `db:"id" json:"id"`
	SubjectCode  string         `db:"subject_code" json:"subject_code"`
	SubjectTitle string         `db:"subject_title" json:"subject_title"`
	Faculty      string         `db:"faculty" json:"faculty"`
	RoomName     string         `db:"room_name" json:"room_name"`
	Building     string         `db:"building" json:"building"`
	StartTime    string         `db:"start_time" json:"start_time"`
	EndTime      string         `db:"end_time" json:"end_time"`
	Days         pq.StringArray `db:"days" json:"days"`
	MaxStudents  *int           `db:"max_students" json:"max_students,omitempty"`
	Semester     string         `db:"semester" json:"semester"`
	SchoolYear   string         `db:"school_year" json:"school_year"`
	Status       string         `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	Faculty    string
	RoomName   string
	Building   string
	Day        string
	Semester   string
	SchoolYear string
	Status     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
