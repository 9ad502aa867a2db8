package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waitline/models"
)

func TestMultiServerScheduler_SingleServer_SequentialIntervals(t *testing.T) {
	scheduler := NewMultiServerScheduler()

	items := []models.QueueItem{
		{ID: "a", ServiceTime: 10},
		{ID: "b", ServiceTime: 20},
		{ID: "c", ServiceTime: 5},
	}

	assignments := scheduler.CalculateCompletionTimes(items, 1)
	require.Len(t, assignments, 3)

	assert.Equal(t, "a", assignments[0].Item.ID)
	assert.Equal(t, 0.0, assignments[0].StartSeconds)
	assert.Equal(t, 10.0, assignments[0].EndSeconds)

	assert.Equal(t, "b", assignments[1].Item.ID)
	assert.Equal(t, 10.0, assignments[1].StartSeconds)
	assert.Equal(t, 30.0, assignments[1].EndSeconds)

	assert.Equal(t, "c", assignments[2].Item.ID)
	assert.Equal(t, 30.0, assignments[2].StartSeconds)
	assert.Equal(t, 35.0, assignments[2].EndSeconds)
}

func TestMultiServerScheduler_TwoServers_ParallelStart(t *testing.T) {
	scheduler := NewMultiServerScheduler()

	items := []models.QueueItem{
		{ID: "a", ServiceTime: 10},
		{ID: "b", ServiceTime: 10},
	}

	assignments := scheduler.CalculateCompletionTimes(items, 2)
	require.Len(t, assignments, 2)

	// Two free servers: both items start immediately.
	assert.Equal(t, 0.0, assignments[0].StartSeconds)
	assert.Equal(t, 0.0, assignments[1].StartSeconds)
	assert.Equal(t, 10.0, assignments[0].EndSeconds)
	assert.Equal(t, 10.0, assignments[1].EndSeconds)
}

func TestMultiServerScheduler_EarliestServerWins(t *testing.T) {
	scheduler := NewMultiServerScheduler()

	items := []models.QueueItem{
		{ID: "a", ServiceTime: 10},
		{ID: "b", ServiceTime: 20},
		{ID: "c", ServiceTime: 5},
		{ID: "d", ServiceTime: 5},
	}

	assignments := scheduler.CalculateCompletionTimes(items, 2)
	require.Len(t, assignments, 4)

	// Servers free at {10, 20} after a and b; c takes the one free at 10.
	assert.Equal(t, 10.0, assignments[2].StartSeconds)
	assert.Equal(t, 15.0, assignments[2].EndSeconds)

	// d takes the server free at 15 again.
	assert.Equal(t, 15.0, assignments[3].StartSeconds)
	assert.Equal(t, 20.0, assignments[3].EndSeconds)
}

func TestMultiServerScheduler_ByPosition_SortsBeforeScheduling(t *testing.T) {
	scheduler := NewMultiServerScheduler()

	items := []models.QueueItem{
		{ID: "third", Position: 3, ServiceTime: 10},
		{ID: "first", Position: 1, ServiceTime: 10},
		{ID: "second", Position: 2, ServiceTime: 10},
	}

	assignments := scheduler.CalculateCompletionTimesByPosition(items, 1)
	require.Len(t, assignments, 3)

	assert.Equal(t, "first", assignments[0].Item.ID)
	assert.Equal(t, "second", assignments[1].Item.ID)
	assert.Equal(t, "third", assignments[2].Item.ID)

	// Input slice is left untouched.
	assert.Equal(t, "third", items[0].ID)
}

func TestMultiServerScheduler_ByPosition_StableForTies(t *testing.T) {
	scheduler := NewMultiServerScheduler()

	items := []models.QueueItem{
		{ID: "a", Position: 1, ServiceTime: 10},
		{ID: "b", Position: 1, ServiceTime: 10},
		{ID: "c", Position: 1, ServiceTime: 10},
	}

	assignments := scheduler.CalculateCompletionTimesByPosition(items, 1)
	require.Len(t, assignments, 3)

	assert.Equal(t, "a", assignments[0].Item.ID)
	assert.Equal(t, "b", assignments[1].Item.ID)
	assert.Equal(t, "c", assignments[2].Item.ID)
}

func TestMultiServerScheduler_EmptyInput(t *testing.T) {
	scheduler := NewMultiServerScheduler()

	assignments := scheduler.CalculateCompletionTimes(nil, 3)
	assert.Empty(t, assignments)
}

func TestMultiServerScheduler_ServerCountFloorsAtOne(t *testing.T) {
	scheduler := NewMultiServerScheduler()

	items := []models.QueueItem{
		{ID: "a", ServiceTime: 10},
		{ID: "b", ServiceTime: 10},
	}

	assignments := scheduler.CalculateCompletionTimes(items, 0)
	require.Len(t, assignments, 2)
	assert.Equal(t, 10.0, assignments[1].StartSeconds)
}
