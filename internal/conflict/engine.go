package conflict

import (
	"fmt"

	"github.com/xianfire/campus-api/internal/models"
)

// Config tunes the detection thresholds. Zero values fall back to the
// defaults the thresholds were designed around.
type Config struct {
	// DefaultRoomCapacity is the assumed enrollment when a schedule carries
	// no max_students value, used only by the alternative-room search.
	DefaultRoomCapacity int
	// EarliestStart / LatestStart bound the normal teaching window in
	// minutes since midnight; starts outside it raise an advisory warning.
	EarliestStart int
	LatestStart   int
	// MaxDuration is the advisory class-length ceiling in minutes.
	MaxDuration int
}

func (c Config) withDefaults() Config {
	if c.DefaultRoomCapacity <= 0 {
		c.DefaultRoomCapacity = 20
	}
	if c.EarliestStart <= 0 {
		c.EarliestStart = 7 * 60
	}
	if c.LatestStart <= 0 {
		c.LatestStart = 18 * 60
	}
	if c.MaxDuration <= 0 {
		c.MaxDuration = 180
	}
	return c
}

// Detector runs conflict detection over an immutable snapshot of the
// schedule set and a room directory. It performs no I/O; every call
// recomputes the full conflict list, and the last result is retained only
// for the summary and filter helpers.
type Detector struct {
	schedules []models.ScheduleRecord
	rooms     *models.RoomDirectory
	cfg       Config
	conflicts []models.Conflict
}

// NewDetector builds a detector over the given snapshot. The detector does
// not copy or mutate the inputs; callers must not modify them for the
// detector's lifetime.
func NewDetector(schedules []models.ScheduleRecord, rooms *models.RoomDirectory, cfg Config) *Detector {
	return &Detector{
		schedules: schedules,
		rooms:     rooms,
		cfg:       cfg.withDefaults(),
	}
}

// Detect runs a full pairwise detection pass. When candidate is non-nil it
// is evaluated as if it had been added to the snapshot, replacing any stored
// record with the same id so an edited schedule is judged by its new values,
// not the stale stored ones.
func (d *Detector) Detect(candidate *models.ScheduleRecord) []models.Conflict {
	working := d.schedules
	if candidate != nil {
		working = make([]models.ScheduleRecord, 0, len(d.schedules)+1)
		for _, s := range d.schedules {
			if s.ID == candidate.ID {
				continue
			}
			working = append(working, s)
		}
		working = append(working, *candidate)
	}

	conflicts := make([]models.Conflict, 0)
	conflicts = append(conflicts, d.roomConflicts(working)...)
	conflicts = append(conflicts, d.facultyConflicts(working)...)
	conflicts = append(conflicts, d.capacityViolations(working)...)

	d.conflicts = conflicts
	return conflicts
}

// Summary aggregates the last Detect result by severity and type.
func (d *Detector) Summary() models.ConflictSummary {
	summary := models.ConflictSummary{ByType: make(map[string]int)}
	for _, c := range d.conflicts {
		summary.Total++
		switch c.Severity {
		case models.SeverityHigh:
			summary.High++
		case models.SeverityMedium:
			summary.Medium++
		case models.SeverityLow:
			summary.Low++
		}
		summary.ByType[string(c.Type)]++
	}
	return summary
}

// ConflictsFor filters the last Detect result to conflicts involving the
// given schedule id.
func (d *Detector) ConflictsFor(scheduleID string) []models.Conflict {
	matched := make([]models.Conflict, 0)
	for _, c := range d.conflicts {
		if c.Involves(scheduleID) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (d *Detector) roomConflicts(working []models.ScheduleRecord) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	for i := 0; i < len(working); i++ {
		for j := i + 1; j < len(working); j++ {
			a, b := working[i], working[j]
			if !d.hasRoomConflict(a, b) {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Type:         models.ConflictRoom,
				Severity:     models.SeverityHigh,
				Message:      fmt.Sprintf("Room %s is double-booked", a.RoomName),
				Details:      fmt.Sprintf("%s and %s are both scheduled in %s", a.SubjectCode, b.SubjectCode, a.RoomName),
				Schedules:    []models.ScheduleRecord{a, b},
				ConflictTime: overlapWindow(a, b),
				Suggestion:   d.SuggestRoomAlternative(a, b),
			})
		}
	}
	return conflicts
}

func (d *Detector) facultyConflicts(working []models.ScheduleRecord) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	for i := 0; i < len(working); i++ {
		for j := i + 1; j < len(working); j++ {
			a, b := working[i], working[j]
			if !d.hasFacultyConflict(a, b) {
				continue
			}
			conflicts = append(conflicts, models.Conflict{
				Type:         models.ConflictFaculty,
				Severity:     models.SeverityHigh,
				Message:      fmt.Sprintf("%s is double-booked", a.Faculty),
				Details:      fmt.Sprintf("%s is scheduled for both %s and %s", a.Faculty, a.SubjectCode, b.SubjectCode),
				Schedules:    []models.ScheduleRecord{a, b},
				ConflictTime: overlapWindow(a, b),
				Suggestion:   "Consider rescheduling one of the classes or assigning a different faculty member",
			})
		}
	}
	return conflicts
}

func (d *Detector) capacityViolations(working []models.ScheduleRecord) []models.Conflict {
	conflicts := make([]models.Conflict, 0)
	for _, record := range working {
		info, ok := d.rooms.Lookup(record.RoomName)
		if !ok || record.MaxStudents == nil || *record.MaxStudents <= info.Capacity {
			continue
		}
		conflicts = append(conflicts, models.Conflict{
			Type:       models.ConflictCapacity,
			Severity:   models.SeverityMedium,
			Message:    fmt.Sprintf("%s capacity exceeded", record.RoomName),
			Details:    fmt.Sprintf("%s has %d students but %s only accommodates %d", record.SubjectCode, *record.MaxStudents, record.RoomName, info.Capacity),
			Schedules:  []models.ScheduleRecord{record},
			Suggestion: fmt.Sprintf("Consider moving to a larger room or reducing class size to %d", info.Capacity),
		})
	}
	return conflicts
}

func (d *Detector) hasRoomConflict(a, b models.ScheduleRecord) bool {
	if a.RoomName == "" || a.RoomName != b.RoomName {
		return false
	}
	if a.ID == b.ID {
		return false
	}
	return hasTimeOverlap(a, b) && hasDayOverlap(a.Days, b.Days)
}

func (d *Detector) hasFacultyConflict(a, b models.ScheduleRecord) bool {
	if a.Faculty == "" || a.Faculty != b.Faculty {
		return false
	}
	if a.ID == b.ID {
		return false
	}
	return hasTimeOverlap(a, b) && hasDayOverlap(a.Days, b.Days)
}

// hasTimeOverlap treats schedules as half-open minute intervals [start, end):
// back-to-back classes do not overlap. A malformed time makes the record
// unmatchable rather than conflicting.
func hasTimeOverlap(a, b models.ScheduleRecord) bool {
	s1, ok1 := parseClock(a.StartTime)
	e1, ok2 := parseClock(a.EndTime)
	s2, ok3 := parseClock(b.StartTime)
	e2, ok4 := parseClock(b.EndTime)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return false
	}
	return s1 < e2 && s2 < e1
}

func hasDayOverlap(days1, days2 []string) bool {
	for _, d1 := range days1 {
		for _, d2 := range days2 {
			if d1 == d2 {
				return true
			}
		}
	}
	return false
}

// overlapWindow computes the intersection of the two schedules' time ranges.
// Returns nil when the ranges do not intersect or either is malformed.
func overlapWindow(a, b models.ScheduleRecord) *models.OverlapWindow {
	s1, ok1 := parseClock(a.StartTime)
	e1, ok2 := parseClock(a.EndTime)
	s2, ok3 := parseClock(b.StartTime)
	e2, ok4 := parseClock(b.EndTime)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil
	}

	start := s1
	if s2 > start {
		start = s2
	}
	end := e1
	if e2 < end {
		end = e2
	}
	if start >= end {
		return nil
	}

	return &models.OverlapWindow{
		Start:    formatClock(start),
		End:      formatClock(end),
		Duration: end - start,
	}
}
