package dto

// CreateRoomRequest captures the payload for registering a room.
type CreateRoomRequest struct {
	Name         string   `json:"name" validate:"required"`
	BuildingName string   `json:"building_name" validate:"required"`
	Capacity     int      `json:"capacity" validate:"required,min=1"`
	Type         string   `json:"type" validate:"required"`
	Equipment    []string `json:"equipment"`
	Floor        int      `json:"floor" validate:"omitempty,min=0"`
}

// UpdateRoomRequest carries the mutable fields of a room.
type UpdateRoomRequest struct {
	Name         *string  `json:"name"`
	BuildingName *string  `json:"building_name"`
	Capacity     *int     `json:"capacity" validate:"omitempty,min=1"`
	Type         *string  `json:"type"`
	Equipment    []string `json:"equipment"`
	IsAvailable  *bool    `json:"is_available"`
	Floor        *int     `json:"floor"`
}

// CreateBuildingRequest captures the payload for registering a building.
type CreateBuildingRequest struct {
	Name      string `json:"name" validate:"required"`
	CollegeID string `json:"college_id" validate:"required"`
	Floors    int    `json:"floors" validate:"omitempty,min=1"`
	YearBuilt string `json:"year_built"`
}

// UpdateBuildingRequest carries the mutable fields of a building.
type UpdateBuildingRequest struct {
	Name      *string `json:"name"`
	CollegeID *string `json:"college_id"`
	Floors    *int    `json:"floors" validate:"omitempty,min=1"`
	YearBuilt *string `json:"year_built"`
}

// CreateCollegeRequest captures the payload for registering a college.
type CreateCollegeRequest struct {
	Name         string `json:"name" validate:"required"`
	Abbreviation string `json:"abbreviation" validate:"required"`
	Description  string `json:"description"`
	Established  string `json:"established"`
}

// UpdateCollegeRequest carries the mutable fields of a college.
type UpdateCollegeRequest struct {
	Name         *string `json:"name"`
	Abbreviation *string `json:"abbreviation"`
	Description  *string `json:"description"`
	Established  *string `json:"established"`
}
