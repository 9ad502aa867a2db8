package models

import (
	"time"
)

// Confidence is the coarse reliability tag attached to a wait estimate.
// It depends on queue depth only: the deeper the queue, the more room
// there is for the estimate to drift.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ConfidenceForPosition maps a queue position to a confidence label.
// Positions of 10 or fewer are high, 11-20 medium, anything deeper low.
func ConfidenceForPosition(position int) Confidence {
	switch {
	case position <= 10:
		return ConfidenceHigh
	case position <= 20:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// LeaveTimeRecommendation tells a user when to leave for the venue.
// All durations are in seconds.
type LeaveTimeRecommendation struct {
	Position                  int        `json:"position"`
	EstimatedWaitTime         int        `json:"estimated_wait_time"`
	TravelTime                int        `json:"travel_time"`
	BufferTime                int        `json:"buffer_time"`
	RecommendedLeaveInSeconds int        `json:"recommended_leave_in_seconds"`
	LeaveAt                   time.Time  `json:"leave_at"`
	Confidence                Confidence `json:"confidence"`
}
