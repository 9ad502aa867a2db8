package services

import (
	"math"
	"time"

	"waitline/geo"
	"waitline/models"
)

// Default buffer policy for leave-time recommendations, in seconds.
const (
	DefaultBufferFraction = 0.2
	DefaultMinBufferTime  = 300
	DefaultMaxBufferTime  = 1800
)

// DefaultTravelSpeedKmh is assumed when the caller has no better speed
// estimate (urban driving).
const DefaultTravelSpeedKmh = 30.0

// LeaveTimeOptions tunes a leave-time recommendation. Zero values are used
// as-is; start from DefaultLeaveTimeOptions and override what you need.
// CurrentTime exists so tests can pin the recommendation timestamp; the
// zero value means "now".
type LeaveTimeOptions struct {
	VarianceServiceTime float64
	BufferFraction      float64
	MinBufferTime       int
	MaxBufferTime       int
	CurrentTime         time.Time
}

func DefaultLeaveTimeOptions() LeaveTimeOptions {
	return LeaveTimeOptions{
		VarianceServiceTime: DefaultVarianceServiceTime,
		BufferFraction:      DefaultBufferFraction,
		MinBufferTime:       DefaultMinBufferTime,
		MaxBufferTime:       DefaultMaxBufferTime,
	}
}

// LeaveTimeAdvisor composes the wait estimator with travel time and a
// buffer policy to recommend when a user should leave for the venue.
type LeaveTimeAdvisor struct {
	estimator *WaitTimeEstimator
}

func NewLeaveTimeAdvisor(estimator *WaitTimeEstimator) *LeaveTimeAdvisor {
	if estimator == nil {
		estimator = NewWaitTimeEstimator(nil)
	}
	return &LeaveTimeAdvisor{estimator: estimator}
}

// CalculateRecommendedLeaveTime recommends a departure time for a party at
// the given position. travelTime is in seconds. The buffer is a fraction of
// the wait estimate clamped to the configured bounds, and the recommended
// departure is never in the past (floored at "leave now").
func (a *LeaveTimeAdvisor) CalculateRecommendedLeaveTime(position int, averageServiceTime float64, travelTime int, opts LeaveTimeOptions) models.LeaveTimeRecommendation {
	estimatedWaitTime := a.estimator.CalculateWaitTime(position, averageServiceTime, opts.VarianceServiceTime)

	bufferTime := int(math.Round(float64(estimatedWaitTime) * opts.BufferFraction))
	if bufferTime < opts.MinBufferTime {
		bufferTime = opts.MinBufferTime
	}
	if bufferTime > opts.MaxBufferTime {
		bufferTime = opts.MaxBufferTime
	}

	leaveIn := estimatedWaitTime - travelTime - bufferTime
	if leaveIn < 0 {
		leaveIn = 0
	}

	currentTime := opts.CurrentTime
	if currentTime.IsZero() {
		currentTime = time.Now()
	}

	return models.LeaveTimeRecommendation{
		Position:                  position,
		EstimatedWaitTime:         estimatedWaitTime,
		TravelTime:                travelTime,
		BufferTime:                bufferTime,
		RecommendedLeaveInSeconds: leaveIn,
		LeaveAt:                   currentTime.Add(time.Duration(leaveIn) * time.Second),
		Confidence:                models.ConfidenceForPosition(position),
	}
}

// EstimateTravelTime converts the geodesic distance between two points into
// travel seconds at the given average speed. Non-positive speeds fall back
// to DefaultTravelSpeedKmh.
func (a *LeaveTimeAdvisor) EstimateTravelTime(from, to geo.Coordinates, speedKmh float64) (int, error) {
	if speedKmh <= 0 {
		speedKmh = DefaultTravelSpeedKmh
	}
	distanceKm, err := geo.Distance(from, to, geo.UnitKilometers)
	if err != nil {
		return 0, err
	}
	return int(math.Ceil(distanceKm / speedKmh * 3600)), nil
}
