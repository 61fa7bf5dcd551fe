package models

import (
	"time"

	"github.com/lib/pq"
)

// Room represents a bookable room within a campus building.
type Room struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	BuildingName string         `db:"building_name" json:"building_name"`
	Capacity     int            `db:"capacity" json:"capacity"`
	Type         string         `db:"type" json:"type"`
	Equipment    pq.StringArray `db:"equipment" json:"equipment"`
	IsAvailable  bool           `db:"is_available" json:"is_available"`
	Floor        int            `db:"floor" json:"floor"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// RoomFilter describes query params for listing rooms.
type RoomFilter struct {
	BuildingName string
	Type         string
	Available    *bool
	MinCapacity  int
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}

// RoomInfo is the capacity/type/building view the conflict engine consumes.
type RoomInfo struct {
	Capacity int    `json:"capacity"`
	Type     string `json:"type"`
	Building string `json:"building"`
}

// RoomDirectory maps room names to RoomInfo while preserving insertion order.
// Iteration order matters: the alternative-room search picks the first
// eligible room, so the order rooms were added is the tie-break.
type RoomDirectory struct {
	names []string
	rooms map[string]RoomInfo
}

// NewRoomDirectory builds an empty directory.
func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{rooms: make(map[string]RoomInfo)}
}

// Add registers a room. Re-adding an existing name updates the info in place
// without changing its position.
func (d *RoomDirectory) Add(name string, info RoomInfo) {
	if name == "" {
		return
	}
	if _, exists := d.rooms[name]; !exists {
		d.names = append(d.names, name)
	}
	d.rooms[name] = info
}

// Lookup returns the info for a room name.
func (d *RoomDirectory) Lookup(name string) (RoomInfo, bool) {
	if d == nil {
		return RoomInfo{}, false
	}
	info, ok := d.rooms[name]
	return info, ok
}

// Names returns room names in insertion order.
func (d *RoomDirectory) Names() []string {
	if d == nil {
		return nil
	}
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len reports the number of rooms in the directory.
func (d *RoomDirectory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}
