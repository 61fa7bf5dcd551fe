package models

import "time"

// Building represents a campus building owned by a college.
type Building struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	CollegeID   string    `db:"college_id" json:"college_id"`
	CollegeName string    `db:"college_name" json:"college_name"`
	RoomCount   int       `db:"room_count" json:"room_count"`
	Floors      int       `db:"floors" json:"floors"`
	YearBuilt   string    `db:"year_built" json:"year_built"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// BuildingFilter describes query params for listing buildings.
type BuildingFilter struct {
	CollegeID string
	Search    string
	Page      int
	PageSize  int
}
