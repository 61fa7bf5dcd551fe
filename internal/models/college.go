package models

import "time"

// College represents an academic college within the university.
type College struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Abbreviation  string    `db:"abbreviation" json:"abbreviation"`
	Description   string    `db:"description" json:"description"`
	BuildingCount int       `db:"building_count" json:"building_count"`
	Established   string    `db:"established" json:"established"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// CollegeFilter describes query params for listing colleges.
type CollegeFilter struct {
	Search   string
	Page     int
	PageSize int
}
