package conflict

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/xianfire/campus-api/internal/models"
)

// Validate evaluates a candidate schedule as if it were added to the
// snapshot. Conflicts are matched strictly by the candidate's id: a candidate
// without one is assigned a synthetic uuid before injection, so a stored
// record can never be mistaken for the candidate.
func (d *Detector) Validate(candidate models.ScheduleRecord) models.ValidationResult {
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}

	all := d.Detect(&candidate)
	own := make([]models.Conflict, 0)
	for _, c := range all {
		if c.Involves(candidate.ID) {
			own = append(own, c)
		}
	}

	return models.ValidationResult{
		IsValid:   len(own) == 0,
		Conflicts: own,
		Warnings:  d.Warnings(candidate),
	}
}

// Warnings produces advisory findings for a candidate. They never block
// acceptance.
func (d *Detector) Warnings(candidate models.ScheduleRecord) []models.Warning {
	warnings := make([]models.Warning, 0)

	start, startOK := parseClock(candidate.StartTime)
	end, endOK := parseClock(candidate.EndTime)

	if startOK && endOK && candidate.Faculty != "" && d.hasBackToBack(candidate, start, end) {
		warnings = append(warnings, models.Warning{
			Type:       models.WarningBackToBack,
			Message:    fmt.Sprintf("%s has back-to-back classes", candidate.Faculty),
			Suggestion: "Consider adding a break between classes",
		})
	}

	if startOK && (start < d.cfg.EarliestStart || start > d.cfg.LatestStart) {
		warnings = append(warnings, models.Warning{
			Type:       models.WarningUnusualHours,
			Message:    fmt.Sprintf("Class scheduled outside normal hours (%s - %s)", formatClock(d.cfg.EarliestStart), formatClock(d.cfg.LatestStart)),
			Suggestion: "Confirm if this time is acceptable",
		})
	}

	if startOK && endOK && end-start > d.cfg.MaxDuration {
		warnings = append(warnings, models.Warning{
			Type:       models.WarningLongDuration,
			Message:    fmt.Sprintf("Class duration exceeds %d minutes", d.cfg.MaxDuration),
			Suggestion: "Consider adding breaks or splitting into multiple sessions",
		})
	}

	return warnings
}

// hasBackToBack reports whether some existing schedule of the same faculty on
// a shared day ends exactly when the candidate starts, or starts exactly when
// it ends. Minute-exact adjacency only; overlap is a conflict, not a warning.
func (d *Detector) hasBackToBack(candidate models.ScheduleRecord, start, end int) bool {
	for _, s := range d.schedules {
		if s.Faculty != candidate.Faculty || s.ID == candidate.ID {
			continue
		}
		if !hasDayOverlap(s.Days, candidate.Days) {
			continue
		}
		sStart, ok1 := parseClock(s.StartTime)
		sEnd, ok2 := parseClock(s.EndTime)
		if !ok1 || !ok2 {
			continue
		}
		if sEnd == start || end == sStart {
			return true
		}
	}
	return false
}
