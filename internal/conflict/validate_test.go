package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianfire/campus-api/internal/models"
)

func TestValidateRejectsRoomClash(t *testing.T) {
	existing := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	candidate := sched("", "MATH201", "Prof. Cruz", "A101", "09:00", "10:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{existing}, testDirectory(), Config{})
	result := d.Validate(candidate)

	assert.False(t, result.IsValid)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictRoom, result.Conflicts[0].Type)
}

func TestValidateAssignsSyntheticID(t *testing.T) {
	// two stored records already conflict with each other; a clean candidate
	// must not inherit their conflicts
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday")
	candidate := sched("", "ENG102", "Ms. Garcia", "C301", "13:00", "14:00", "Friday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	result := d.Validate(candidate)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Conflicts)
}

func TestValidateSameSubjectSameStartDistinctRecord(t *testing.T) {
	// a stored record sharing subject code and start time with the candidate
	// is matched by id, never by the legacy subject+start heuristic
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday")
	candidate := sched("", "CS101", "Ms. Garcia", "C301", "09:00", "10:00", "Friday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	result := d.Validate(candidate)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Conflicts)
}

func TestValidateReplacesStoredRecordWithSameID(t *testing.T) {
	// schedules 1 and 2 double-book A101; editing schedule 1 into a free room
	// must be judged against its new values, not the stored ones
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday")
	edited := sched("1", "CS101", "Dr. Santos", "C301", "09:00", "10:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	result := d.Validate(edited)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Conflicts)
}

func TestValidateBackToBackWarning(t *testing.T) {
	// Dr. Santos teaches 08:00-10:00 Monday; candidate starts 10:00 in a
	// different room: no conflict, one back_to_back warning
	existing := sched("1", "CS101", "Dr. Santos", "A101", "08:00", "10:00", "Monday")
	candidate := sched("", "CS201", "Dr. Santos", "B201", "10:00", "12:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{existing}, testDirectory(), Config{})
	result := d.Validate(candidate)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Conflicts)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, models.WarningBackToBack, result.Warnings[0].Type)
}

func TestValidateWarningsDoNotBlock(t *testing.T) {
	candidate := sched("", "CS500", "Dr. Kim", "A101", "05:00", "09:00", "Saturday")

	d := NewDetector(nil, testDirectory(), Config{})
	result := d.Validate(candidate)

	assert.True(t, result.IsValid)
	types := make([]models.WarningType, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		types = append(types, w.Type)
	}
	assert.Contains(t, types, models.WarningUnusualHours)
	assert.Contains(t, types, models.WarningLongDuration)
}

func TestWarningsUnusualHoursBounds(t *testing.T) {
	d := NewDetector(nil, testDirectory(), Config{})

	early := sched("", "X", "F", "A101", "06:59", "08:00", "Monday")
	assert.Len(t, d.Warnings(early), 1)

	onOpen := sched("", "X", "F", "A101", "07:00", "08:00", "Monday")
	assert.Empty(t, d.Warnings(onOpen))

	onClose := sched("", "X", "F", "A101", "18:00", "19:00", "Monday")
	assert.Empty(t, d.Warnings(onClose))

	late := sched("", "X", "F", "A101", "18:01", "19:00", "Monday")
	assert.Len(t, d.Warnings(late), 1)
}

func TestWarningsLongDurationBoundary(t *testing.T) {
	d := NewDetector(nil, testDirectory(), Config{})

	exactly := sched("", "X", "F", "A101", "09:00", "12:00", "Monday")
	assert.Empty(t, d.Warnings(exactly))

	over := sched("", "X", "F", "A101", "09:00", "12:01", "Monday")
	warnings := d.Warnings(over)
	require.Len(t, warnings, 1)
	assert.Equal(t, models.WarningLongDuration, warnings[0].Type)
}

func TestWarningsCustomThresholds(t *testing.T) {
	d := NewDetector(nil, testDirectory(), Config{
		EarliestStart: 8 * 60,
		LatestStart:   17 * 60,
		MaxDuration:   120,
	})

	candidate := sched("", "X", "F", "A101", "07:30", "10:00", "Monday")
	warnings := d.Warnings(candidate)
	require.Len(t, warnings, 2)
	assert.Equal(t, models.WarningUnusualHours, warnings[0].Type)
	assert.Equal(t, models.WarningLongDuration, warnings[1].Type)
}

func TestWarningsMalformedTimesProduceNothing(t *testing.T) {
	d := NewDetector(nil, testDirectory(), Config{})
	candidate := sched("", "X", "F", "A101", "bogus", "also-bogus", "Monday")
	assert.Empty(t, d.Warnings(candidate))
}
