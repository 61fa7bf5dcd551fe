package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianfire/campus-api/internal/models"
)

func intPtr(v int) *int { return &v }

func sched(id, subject, faculty, room, start, end string, days ...string) models.ScheduleRecord {
	return models.ScheduleRecord{
		ID:          id,
		SubjectCode: subject,
		Faculty:     faculty,
		RoomName:    room,
		StartTime:   start,
		EndTime:     end,
		Days:        days,
	}
}

func testDirectory() *models.RoomDirectory {
	dir := models.NewRoomDirectory()
	dir.Add("A101", models.RoomInfo{Capacity: 40, Type: "Lecture Hall", Building: "IT Main Building"})
	dir.Add("A102", models.RoomInfo{Capacity: 35, Type: "Classroom", Building: "IT Main Building"})
	dir.Add("B201", models.RoomInfo{Capacity: 25, Type: "Computer Lab", Building: "IT Laboratory Building"})
	dir.Add("C301", models.RoomInfo{Capacity: 50, Type: "Laboratory", Building: "Engineering Complex A"})
	return dir
}

func TestDetectRoomConflictWithOverlapWindow(t *testing.T) {
	// schedule X 09:00-10:00 Mon/Wed and Y 09:30-10:30 Mon/Wed share A101
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday", "Wednesday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday", "Wednesday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	conflicts := d.Detect(nil)

	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, models.ConflictRoom, c.Type)
	assert.Equal(t, models.SeverityHigh, c.Severity)
	require.NotNil(t, c.ConflictTime)
	assert.Equal(t, "09:30", c.ConflictTime.Start)
	assert.Equal(t, "10:00", c.ConflictTime.End)
	assert.Equal(t, 30, c.ConflictTime.Duration)
	assert.Len(t, c.Schedules, 2)
}

func TestDetectDisjointDaysNoConflict(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday", "Wednesday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Tuesday", "Thursday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	assert.Empty(t, d.Detect(nil))
}

func TestDetectBackToBackIsNotAConflict(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "08:00", "10:00", "Monday")
	y := sched("2", "CS102", "Prof. Cruz", "A101", "10:00", "12:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	assert.Empty(t, d.Detect(nil))
}

func TestDetectOneMinuteOverlapIsAConflict(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "08:00", "10:01", "Monday")
	y := sched("2", "CS102", "Prof. Cruz", "A101", "10:00", "12:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	conflicts := d.Detect(nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictRoom, conflicts[0].Type)
	assert.Equal(t, 1, conflicts[0].ConflictTime.Duration)
}

func TestDetectFacultyConflictAcrossRooms(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "11:00", "Monday")
	y := sched("2", "CS201", "Dr. Santos", "B201", "10:00", "12:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	conflicts := d.Detect(nil)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictFaculty, conflicts[0].Type)
	assert.Contains(t, conflicts[0].Message, "Dr. Santos")
}

func TestDetectSelfExclusionByID(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, x}, testDirectory(), Config{})
	assert.Empty(t, d.Detect(nil))
}

func TestDetectSymmetry(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday")

	forward := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{}).Detect(nil)
	reverse := NewDetector([]models.ScheduleRecord{y, x}, testDirectory(), Config{}).Detect(nil)

	require.Len(t, forward, 1)
	require.Len(t, reverse, 1)
	assert.Equal(t, forward[0].Type, reverse[0].Type)
	assert.Equal(t, forward[0].ConflictTime, reverse[0].ConflictTime)
}

func TestDetectIdempotence(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	first := d.Detect(nil)
	second := d.Detect(nil)
	assert.Equal(t, first, second)
}

func TestDetectCapacityViolation(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "B201", "09:00", "10:00", "Monday")
	x.MaxStudents = intPtr(60)

	d := NewDetector([]models.ScheduleRecord{x}, testDirectory(), Config{})
	conflicts := d.Detect(nil)

	require.Len(t, conflicts, 1)
	c := conflicts[0]
	assert.Equal(t, models.ConflictCapacity, c.Type)
	assert.Equal(t, models.SeverityMedium, c.Severity)
	assert.Contains(t, c.Details, "60 students")
	assert.Contains(t, c.Details, "25")
}

func TestDetectCapacityWithinLimitNoViolation(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "C301", "09:00", "10:00", "Monday")
	x.MaxStudents = intPtr(50)
	y := sched("2", "CS102", "Prof. Cruz", "C301", "13:00", "14:00", "Monday")
	// y has no max_students at all

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	assert.Empty(t, d.Detect(nil))
}

func TestDetectUnknownRoomNoCapacityViolation(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "Z999", "09:00", "10:00", "Monday")
	x.MaxStudents = intPtr(500)

	d := NewDetector([]models.ScheduleRecord{x}, testDirectory(), Config{})
	assert.Empty(t, d.Detect(nil))
}

func TestDetectMissingKeysNeverMatch(t *testing.T) {
	// two records with empty roomName and empty faculty at the same time
	x := sched("1", "CS101", "", "", "09:00", "10:00", "Monday")
	y := sched("2", "CS102", "", "", "09:00", "10:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	assert.Empty(t, d.Detect(nil))
}

func TestDetectMalformedTimeFailsSoft(t *testing.T) {
	bad := sched("1", "CS101", "Dr. Santos", "A101", "not-a-time", "10:00", "Monday")
	x := sched("2", "CS102", "Dr. Reyes", "A102", "09:00", "10:00", "Monday")
	y := sched("3", "CS103", "Dr. Reyes", "B201", "09:30", "10:30", "Monday")

	d := NewDetector([]models.ScheduleRecord{bad, x, y}, testDirectory(), Config{})
	conflicts := d.Detect(nil)

	// the malformed record is skipped, the faculty conflict among the
	// well-formed records is still reported
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictFaculty, conflicts[0].Type)
}

func TestDetectMissingDaysNoConflict(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00")
	y := sched("2", "CS102", "Prof. Cruz", "A101", "09:00", "10:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x, y}, testDirectory(), Config{})
	assert.Empty(t, d.Detect(nil))
}

func TestDetectCandidateInjection(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	candidate := sched("99", "CS999", "Prof. Cruz", "A101", "09:00", "10:00", "Monday")

	d := NewDetector([]models.ScheduleRecord{x}, testDirectory(), Config{})
	require.Empty(t, d.Detect(nil))

	conflicts := d.Detect(&candidate)
	require.Len(t, conflicts, 1)
	assert.True(t, conflicts[0].Involves("99"))
}

func TestSummaryCountsBySeverityAndType(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday")
	z := sched("3", "PHYS301", "Dr. Kim", "B201", "13:00", "14:00", "Monday")
	z.MaxStudents = intPtr(30)

	d := NewDetector([]models.ScheduleRecord{x, y, z}, testDirectory(), Config{})
	d.Detect(nil)

	summary := d.Summary()
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.High)
	assert.Equal(t, 1, summary.Medium)
	assert.Equal(t, 0, summary.Low)
	assert.Equal(t, 1, summary.ByType[string(models.ConflictRoom)])
	assert.Equal(t, 1, summary.ByType[string(models.ConflictCapacity)])
}

func TestConflictsForFiltersByScheduleID(t *testing.T) {
	x := sched("1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday")
	y := sched("2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday")
	z := sched("3", "ENG102", "Ms. Garcia", "C301", "13:00", "14:30", "Tuesday")

	d := NewDetector([]models.ScheduleRecord{x, y, z}, testDirectory(), Config{})
	d.Detect(nil)

	assert.Len(t, d.ConflictsFor("1"), 1)
	assert.Len(t, d.ConflictsFor("2"), 1)
	assert.Empty(t, d.ConflictsFor("3"))
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		raw     string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"9", 0, false},
		{"", 0, false},
		{"ab:cd", 0, false},
	}
	for _, tc := range cases {
		minutes, ok := parseClock(tc.raw)
		assert.Equal(t, tc.ok, ok, "parse %q", tc.raw)
		if tc.ok {
			assert.Equal(t, tc.minutes, minutes, "parse %q", tc.raw)
		}
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:05", formatClock(5))
	assert.Equal(t, "09:30", formatClock(570))
	assert.Equal(t, "23:59", formatClock(1439))
}
