package models

// ConflictType classifies a detected scheduling conflict.
type ConflictType string

const (
	ConflictRoom     ConflictType = "room_conflict"
	ConflictFaculty  ConflictType = "faculty_conflict"
	ConflictCapacity ConflictType = "capacity_violation"
)

// Severity grades how serious a conflict is.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// OverlapWindow is the time intersection of two conflicting schedules,
// formatted as HH:MM with the duration in minutes.
type OverlapWindow struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration int    `json:"duration"`
}

// Conflict is a detected scheduling violation. Schedules holds the offending
// record(s): two for pairwise conflicts, one for capacity violations.
type Conflict struct {
	Type         ConflictType     `json:"type"`
	Severity     Severity         `json:"severity"`
	Message      string           `json:"message"`
	Details      string           `json:"details"`
	Schedules    []ScheduleRecord `json:"schedules"`
	ConflictTime *OverlapWindow   `json:"conflict_time,omitempty"`
	Suggestion   string           `json:"suggestion"`
}

// Involves reports whether the conflict touches the given schedule id.
func (c Conflict) Involves(scheduleID string) bool {
	for _, s := range c.Schedules {
		if s.ID == scheduleID {
			return true
		}
	}
	return false
}

// WarningType classifies an advisory finding.
type WarningType string

const (
	WarningBackToBack   WarningType = "back_to_back"
	WarningUnusualHours WarningType = "unusual_hours"
	WarningLongDuration WarningType = "long_duration"
)

// Warning is a non-blocking advisory finding about a candidate schedule.
type Warning struct {
	Type       WarningType `json:"type"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion"`
}

// ValidationResult is the verdict for a candidate schedule. Warnings never
// affect IsValid.
type ValidationResult struct {
	IsValid   bool       `json:"is_valid"`
	Conflicts []Conflict `json:"conflicts"`
	Warnings  []Warning  `json:"warnings"`
}

// ConflictSummary aggregates a detection pass by severity and type.
type ConflictSummary struct {
	Total  int            `json:"total"`
	High   int            `json:"high"`
	Medium int            `json:"medium"`
	Low    int            `json:"low"`
	ByType map[string]int `json:"by_type"`
}

// Resolution is an advisory proposal to clear a conflict. Nothing is mutated;
// the caller decides whether to apply it.
type Resolution struct {
	Resolution string         `json:"resolution"`
	Details    string         `json:"details"`
	Schedule   ScheduleRecord `json:"schedule"`
	NewRoom    string         `json:"new_room"`
	Conflict   Conflict       `json:"conflict"`
}

// ResolutionRoomChange is the only resolution kind currently proposed.
const ResolutionRoomChange = "room_change"

// ScheduleConflictError carries the conflicts that blocked a schedule write.
type ScheduleConflictError struct {
	Conflicts []Conflict
}

func (e *ScheduleConflictError) Error() string {
	return "schedule conflicts detected"
}
