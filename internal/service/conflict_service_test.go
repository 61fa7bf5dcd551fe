package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xianfire/campus-api/internal/dto"
	"github.com/xianfire/campus-api/internal/models"
	"github.com/xianfire/campus-api/pkg/config"
	appErrors "github.com/xianfire/campus-api/pkg/errors"
)

type stubScheduleSource struct {
	schedules []models.ScheduleRecord
	listCalls int
}

func (s *stubScheduleSource) ListAll(ctx context.Context) ([]models.ScheduleRecord, error) {
	s.listCalls++
	return s.schedules, nil
}

func (s *stubScheduleSource) FindByID(ctx context.Context, id string) (*models.ScheduleRecord, error) {
	for i := range s.schedules {
		if s.schedules[i].ID == id {
			return &s.schedules[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubRoomSource struct {
	dir *models.RoomDirectory
}

func (s *stubRoomSource) Directory(ctx context.Context) (*models.RoomDirectory, error) {
	return s.dir, nil
}

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func record(id, subject, faculty, room, start, end string, days ...string) models.ScheduleRecord {
	return models.ScheduleRecord{
		ID:          id,
		SubjectCode: subject,
		Faculty:     faculty,
		RoomName:    room,
		StartTime:   start,
		EndTime:     end,
		Days:        pq.StringArray(days),
	}
}

func conflictFixture() (*stubScheduleSource, *stubRoomSource) {
	dir := models.NewRoomDirectory()
	dir.Add("A101", models.RoomInfo{Capacity: 40, Building: "Main"})
	dir.Add("A102", models.RoomInfo{Capacity: 35, Building: "Main"})

	schedules := &stubScheduleSource{schedules: []models.ScheduleRecord{
		record("s1", "CS101", "Dr. Santos", "A101", "09:00", "10:00", "Monday"),
		record("s2", "MATH201", "Prof. Cruz", "A101", "09:30", "10:30", "Monday"),
	}}
	return schedules, &stubRoomSource{dir: dir}
}

func TestConflictServiceReport(t *testing.T) {
	schedules, rooms := conflictFixture()
	svc := NewConflictService(schedules, rooms, nil, nil, config.EngineConfig{}, nil, zap.NewNop())

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.Total)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, models.ConflictRoom, report.Conflicts[0].Type)
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestConflictServiceReportUsesCache(t *testing.T) {
	schedules, rooms := conflictFixture()
	cache := newMemoryCache()
	svc := NewConflictService(schedules, rooms, cache, nil, config.EngineConfig{ReportCacheTTL: time.Minute}, nil, zap.NewNop())

	_, err := svc.Report(context.Background())
	require.NoError(t, err)
	_, err = svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, schedules.listCalls)
}

func TestConflictServiceInvalidateCache(t *testing.T) {
	schedules, rooms := conflictFixture()
	cache := newMemoryCache()
	svc := NewConflictService(schedules, rooms, cache, nil, config.EngineConfig{ReportCacheTTL: time.Minute}, nil, zap.NewNop())

	_, err := svc.Report(context.Background())
	require.NoError(t, err)
	svc.InvalidateCache(context.Background())
	_, err = svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, schedules.listCalls)
}

func TestConflictServiceValidateNormalizesTimes(t *testing.T) {
	schedules, rooms := conflictFixture()
	svc := NewConflictService(schedules, rooms, nil, nil, config.EngineConfig{}, nil, zap.NewNop())

	// 09:30 AM collides with the stored 09:00-10:00 booking in A101
	result, err := svc.Validate(context.Background(), dto.ValidateScheduleRequest{
		SubjectCode: "BIO101",
		Faculty:     "Dr. Lee",
		RoomName:    "A101",
		StartTime:   "09:30 AM",
		EndTime:     "10:30 AM",
		Days:        []string{"Monday"},
	})
	require.NoError(t, err)
	assert.False(t, result.IsValid)
}

func TestConflictServiceValidateRejectsBadClock(t *testing.T) {
	schedules, rooms := conflictFixture()
	svc := NewConflictService(schedules, rooms, nil, nil, config.EngineConfig{}, nil, zap.NewNop())

	_, err := svc.Validate(context.Background(), dto.ValidateScheduleRequest{
		SubjectCode: "BIO101",
		Faculty:     "Dr. Lee",
		RoomName:    "A101",
		StartTime:   "25:00",
		EndTime:     "26:00",
		Days:        []string{"Monday"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestConflictServiceScheduleConflicts(t *testing.T) {
	schedules, rooms := conflictFixture()
	svc := NewConflictService(schedules, rooms, nil, nil, config.EngineConfig{}, nil, zap.NewNop())

	conflicts, err := svc.ScheduleConflicts(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)
}

func TestConflictServiceScheduleConflictsNotFound(t *testing.T) {
	schedules, rooms := conflictFixture()
	svc := NewConflictService(schedules, rooms, nil, nil, config.EngineConfig{}, nil, zap.NewNop())

	_, err := svc.ScheduleConflicts(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestConflictServiceAutoResolve(t *testing.T) {
	schedules, rooms := conflictFixture()
	svc := NewConflictService(schedules, rooms, nil, nil, config.EngineConfig{}, nil, zap.NewNop())

	resp, err := svc.AutoResolve(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Resolutions, 1)
	assert.Equal(t, "A102", resp.Resolutions[0].NewRoom)
	assert.Zero(t, resp.Unresolved)
}

func TestConflictServiceEngineConfig(t *testing.T) {
	svc := NewConflictService(nil, nil, nil, nil, config.EngineConfig{
		DefaultRoomCapacity: 25,
		EarliestStart:       "08:00",
		LatestStart:         "17:30",
		MaxClassDuration:    2 * time.Hour,
	}, nil, zap.NewNop())

	cfg := svc.EngineConfig()
	assert.Equal(t, 25, cfg.DefaultRoomCapacity)
	assert.Equal(t, 8*60, cfg.EarliestStart)
	assert.Equal(t, 17*60+30, cfg.LatestStart)
	assert.Equal(t, 120, cfg.MaxDuration)
}
