package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xianfire/campus-api/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func scheduleRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "subject_code", "subject_title", "faculty", "room_name", "building",
		"start_time", "end_time", "days", "max_students", "semester", "school_year",
		"status", "created_at", "updated_at",
	})
}

func TestScheduleRepositoryList(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := scheduleRows().
		AddRow("s1", "CS101", "Intro to Computing", "Dr. Santos", "A101", "Main",
			"09:00", "10:00", pq.StringArray{"Monday", "Wednesday"}, 35, "1st", "2025-2026",
			"active", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + scheduleColumns + " FROM schedules WHERE 1=1 ORDER BY start_time ASC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM schedules WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.ScheduleFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "CS101", list[0].SubjectCode)
	assert.Equal(t, pq.StringArray{"Monday", "Wednesday"}, list[0].Days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListFiltersByFacultyAndDay(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE 1=1 AND faculty = $1 AND $2 = ANY(days)")).
		WithArgs("Dr. Santos", "Monday").
		WillReturnRows(scheduleRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("Dr. Santos", "Monday").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	list, total, err := repo.List(context.Background(), models.ScheduleFilter{Faculty: "Dr. Santos", Day: "Monday"})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := scheduleRows().
		AddRow("s1", "CS101", "Intro to Computing", "Dr. Santos", "A101", "Main",
			"09:00", "10:00", pq.StringArray{"Monday"}, nil, "1st", "2025-2026",
			"active", time.Now(), time.Now()).
		AddRow("s2", "MATH201", "Calculus II", "Prof. Cruz", "A102", "Main",
			"10:00", "11:30", pq.StringArray{"Tuesday"}, 40, "1st", "2025-2026",
			"active", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules ORDER BY created_at ASC, id ASC")).
		WillReturnRows(rows)

	list, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].MaxStudents)
	require.NotNil(t, list[1].MaxStudents)
	assert.Equal(t, 40, *list[1].MaxStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryCreateAndDelete(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec("INSERT INTO schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	sched := &models.ScheduleRecord{
		SubjectCode: "CS101",
		Faculty:     "Dr. Santos",
		RoomName:    "A101",
		StartTime:   "09:00",
		EndTime:     "10:00",
		Days:        pq.StringArray{"Monday"},
	}
	require.NoError(t, repo.Create(context.Background(), sched))
	assert.NotEmpty(t, sched.ID)
	assert.False(t, sched.CreatedAt.IsZero())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedules WHERE id = $1")).
		WithArgs(sched.ID).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), sched.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	rows := scheduleRows().
		AddRow("s1", "CS101", "Intro to Computing", "Dr. Santos", "A101", "Main",
			"09:00", "10:00", pq.StringArray{"Monday"}, 35, "1st", "2025-2026",
			"active", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedules WHERE id = $1")).
		WithArgs("s1").
		WillReturnRows(rows)

	sched, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "A101", sched.RoomName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
