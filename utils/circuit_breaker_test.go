package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransport = errors.New("transport down")

func trippedBreaker(t *testing.T, settings Settings) *CircuitBreaker {
	t.Helper()
	cb := NewCircuitBreakerWithSettings("test", settings)
	for i := uint32(0); i < settings.MaxRequests; i++ {
		_, err := cb.Execute(context.Background(), func() (any, error) {
			return nil, errTransport
		})
		require.ErrorIs(t, err, errTransport)
	}
	require.Equal(t, StateOpen, cb.State())
	return cb
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")

	result, err := cb.Execute(context.Background(), func() (any, error) {
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_PassesThroughFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")

	_, err := cb.Execute(context.Background(), func() (any, error) {
		return nil, errTransport
	})

	assert.ErrorIs(t, err, errTransport)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_TripsOpenAndRejects(t *testing.T) {
	cb := trippedBreaker(t, Settings{
		MaxRequests:  5,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.6,
	})

	called := false
	_, err := cb.Execute(context.Background(), func() (any, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, ErrBreakerOpen)
	assert.False(t, called, "open breaker must not run the request")
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := trippedBreaker(t, Settings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      20 * time.Millisecond,
		FailureRatio: 0.6,
	})

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateHalfOpen, cb.State())

	_, err := cb.Execute(context.Background(), func() (any, error) {
		return nil, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := trippedBreaker(t, Settings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      20 * time.Millisecond,
		FailureRatio: 0.6,
	})

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	_, err := cb.Execute(context.Background(), func() (any, error) {
		return nil, errTransport
	})

	assert.ErrorIs(t, err, errTransport)
	assert.Equal(t, StateOpen, cb.State())

	_, err = cb.Execute(context.Background(), func() (any, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

func TestCircuitBreaker_HalfOpenLimitsConcurrentProbes(t *testing.T) {
	cb := trippedBreaker(t, Settings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      20 * time.Millisecond,
		FailureRatio: 0.6,
	})

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	// while the single allowed probe is in flight, a second probe is rejected
	_, err := cb.Execute(context.Background(), func() (any, error) {
		_, inner := cb.Execute(context.Background(), func() (any, error) {
			return nil, nil
		})
		assert.ErrorIs(t, inner, ErrTooManyRequests)
		return nil, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}
