package conflict

import (
	"fmt"

	"github.com/xianfire/campus-api/internal/models"
)

const noAlternativeRoom = "No suitable alternative rooms found. Consider changing the schedule time."

// SuggestRoomAlternative proposes a replacement room for a pair of
// room-conflicting schedules. The first directory-order room large enough for
// the bigger class and free during the conflict window on a's days wins.
func (d *Detector) SuggestRoomAlternative(a, b models.ScheduleRecord) string {
	required := d.requiredCapacity(a)
	if rb := d.requiredCapacity(b); rb > required {
		required = rb
	}

	window := overlapWindow(a, b)
	for _, name := range d.rooms.Names() {
		info, _ := d.rooms.Lookup(name)
		if info.Capacity < required {
			continue
		}
		if d.isRoomBusy(name, window, a.Days) {
			continue
		}
		return fmt.Sprintf("Consider moving to %s which is available during this time", name)
	}
	return noAlternativeRoom
}

// FindAlternativeRoom searches for a room the schedule could move to without
// introducing any conflict. It validates a hypothetical copy per candidate
// room, so cost is O(rooms x n^2); fine at institutional scale.
func (d *Detector) FindAlternativeRoom(schedule models.ScheduleRecord) (string, bool) {
	required := d.requiredCapacity(schedule)
	for _, name := range d.rooms.Names() {
		if name == schedule.RoomName {
			continue
		}
		info, _ := d.rooms.Lookup(name)
		if info.Capacity < required {
			continue
		}
		hypothetical := schedule
		hypothetical.RoomName = name
		if d.Validate(hypothetical).IsValid {
			return name, true
		}
	}
	return "", false
}

// AutoResolve proposes a room change for each room conflict in the last
// Detect result. Schedules are never mutated; the caller decides what to
// apply. The conflict list is restored afterwards since the hypothetical
// validations clobber it.
func (d *Detector) AutoResolve() []models.Resolution {
	tracked := d.conflicts
	defer func() { d.conflicts = tracked }()

	resolutions := make([]models.Resolution, 0)
	for _, c := range tracked {
		if c.Type != models.ConflictRoom || len(c.Schedules) == 0 {
			continue
		}
		first := c.Schedules[0]
		room, ok := d.FindAlternativeRoom(first)
		if !ok {
			continue
		}
		resolutions = append(resolutions, models.Resolution{
			Resolution: models.ResolutionRoomChange,
			Details:    fmt.Sprintf("Move %s to %s", first.SubjectCode, room),
			Schedule:   first,
			NewRoom:    room,
			Conflict:   c,
		})
	}
	return resolutions
}

// isRoomBusy re-checks time and day overlap for the window against the full
// snapshot. A nil window or empty day set means nothing to collide with.
func (d *Detector) isRoomBusy(roomName string, window *models.OverlapWindow, days []string) bool {
	if window == nil || len(days) == 0 {
		return false
	}
	probe := models.ScheduleRecord{StartTime: window.Start, EndTime: window.End}
	for _, s := range d.schedules {
		if s.RoomName != roomName {
			continue
		}
		if hasTimeOverlap(probe, s) && hasDayOverlap(days, s.Days) {
			return true
		}
	}
	return false
}

func (d *Detector) requiredCapacity(s models.ScheduleRecord) int {
	if s.MaxStudents != nil && *s.MaxStudents > 0 {
		return *s.MaxStudents
	}
	return d.cfg.DefaultRoomCapacity
}
