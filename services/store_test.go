package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waitline/models"
)

func setupTestQueueStore() (*QueueStore, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewQueueStore(db), mock
}

func TestQueueStore_ActiveServices(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectSMembers("active_services").SetVal([]string{"barber-1", "clinic-2"})

	serviceIDs, err := store.ActiveServices(ctx)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"barber-1", "clinic-2"}, serviceIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetQueueSnapshot(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	first, _ := json.Marshal(models.QueueItem{ID: "e1", UserID: "u1", Position: 1, ServiceTime: 60})
	second, _ := json.Marshal(models.QueueItem{ID: "e2", UserID: "u2", Position: 2, ServiceTime: 60})

	mock.ExpectLRange("queue:entries:barber-1", 0, -1).SetVal([]string{
		string(first),
		"{not json",
		string(second),
	})

	items, err := store.GetQueueSnapshot(ctx, "barber-1")

	require.NoError(t, err)
	require.Len(t, items, 2) // malformed entry is skipped
	assert.Equal(t, "u1", items[0].UserID)
	assert.Equal(t, "u2", items[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetServiceProfile(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectHGetAll("service:profile:barber-1").SetVal(map[string]string{
		"average_service_time": "420.5",
		"servers":              "3",
		"total_no_shows":       "12",
		"total_entries":        "240",
	})

	profile, err := store.GetServiceProfile(ctx, "barber-1")

	require.NoError(t, err)
	assert.Equal(t, "barber-1", profile.ServiceID)
	assert.Equal(t, 420.5, profile.AverageServiceTime)
	assert.Equal(t, 3, profile.Servers)
	assert.Equal(t, 12, profile.TotalNoShows)
	assert.Equal(t, 240, profile.TotalEntries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetServiceProfile_VenueLocation(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectHGetAll("service:profile:salon-1").SetVal(map[string]string{
		"average_service_time": "60",
		"venue_lat":            "17.9757",
		"venue_lng":            "102.6331",
	})

	profile, err := store.GetServiceProfile(ctx, "salon-1")

	require.NoError(t, err)
	require.NotNil(t, profile.Location)
	assert.Equal(t, 17.9757, profile.Location.Lat)
	assert.Equal(t, 102.6331, profile.Location.Lng)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetServiceProfile_PartialVenueLocationIgnored(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectHGetAll("service:profile:salon-2").SetVal(map[string]string{
		"average_service_time": "60",
		"venue_lat":            "17.9757", // longitude missing
	})

	profile, err := store.GetServiceProfile(ctx, "salon-2")

	require.NoError(t, err)
	assert.Nil(t, profile.Location)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetServiceProfile_MissingDefaultsToOneServer(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectHGetAll("service:profile:unknown").SetVal(map[string]string{})

	profile, err := store.GetServiceProfile(ctx, "unknown")

	require.NoError(t, err)
	assert.Equal(t, 1, profile.Servers)
	assert.Equal(t, 0.0, profile.AverageServiceTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_SaveEstimate(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectSet("queue:estimate:barber-1:u1", 420, 2*time.Minute).SetVal("OK")

	err := store.SaveEstimate(ctx, "barber-1", "u1", 420, 2*time.Minute)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetEstimate(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectGet("queue:estimate:barber-1:u1").SetVal("420")

	seconds, ok, err := store.GetEstimate(ctx, "barber-1", "u1")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 420, seconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetEstimate_Missing(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectGet("queue:estimate:barber-1:ghost").RedisNil()

	seconds, ok, err := store.GetEstimate(ctx, "barber-1", "ghost")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, seconds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_SaveAndGetRecommendation(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	rec := models.LeaveTimeRecommendation{
		Position:                  7,
		EstimatedWaitTime:         420,
		TravelTime:                120,
		BufferTime:                300,
		RecommendedLeaveInSeconds: 0,
		LeaveAt:                   time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
		Confidence:                models.ConfidenceHigh,
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	mock.ExpectSet("queue:recommendation:barber-1:u1", data, 2*time.Minute).SetVal("OK")
	mock.ExpectGet("queue:recommendation:barber-1:u1").SetVal(string(data))

	require.NoError(t, store.SaveRecommendation(ctx, "barber-1", "u1", rec, 2*time.Minute))

	loaded, ok, err := store.GetRecommendation(ctx, "barber-1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, loaded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueueStore_GetRecommendation_Missing(t *testing.T) {
	store, mock := setupTestQueueStore()
	defer mock.ClearExpect()

	ctx := context.Background()

	mock.ExpectGet("queue:recommendation:barber-1:ghost").RedisNil()

	_, ok, err := store.GetRecommendation(ctx, "barber-1", "ghost")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
