package services

import (
	"math"
	"math/rand"
)

// DefaultVarianceServiceTime is the spread applied to wait estimates when
// the caller does not pick one: the multiplier is drawn uniformly from
// [1-variance, 1+variance].
const DefaultVarianceServiceTime = 0.2

// WaitTimeEstimator turns "position N, average service time T" into
// time-denominated wait predictions. All methods are pure apart from the
// injected randomness, so a single estimator is safe for concurrent use.
type WaitTimeEstimator struct {
	randFloat func() float64
}

// NewWaitTimeEstimator builds an estimator. randFloat supplies uniform
// values in [0, 1) for the variance multiplier; pass nil for the default
// source, or a fixed function to pin estimates in tests.
func NewWaitTimeEstimator(randFloat func() float64) *WaitTimeEstimator {
	if randFloat == nil {
		randFloat = rand.Float64
	}
	return &WaitTimeEstimator{randFloat: randFloat}
}

// CalculateWaitTime estimates the wait in seconds for a party at the given
// position. The base estimate is position * averageServiceTime; when
// varianceServiceTime > 0 the result is scaled by a factor drawn uniformly
// from [1-variance, 1+variance]. The result is floored at 0 and rounded.
//
// Variance values above 1 are accepted and not clamped, which lets the low
// end of the draw go negative before the floor kicks in. That mirrors how
// the estimate has always behaved in production clients.
func (e *WaitTimeEstimator) CalculateWaitTime(position int, averageServiceTime, varianceServiceTime float64) int {
	estimate := float64(position) * averageServiceTime
	if varianceServiceTime > 0 {
		factor := 1 - varianceServiceTime + e.randFloat()*2*varianceServiceTime
		estimate *= factor
	}
	if estimate < 0 {
		estimate = 0
	}
	return int(math.Round(estimate))
}

// EstimateTimeUntilPosition estimates the seconds until the party advances
// from currentPosition to targetPosition. Invalid orderings (target behind
// current, or either side already at the front) mean there is nothing left
// to wait for and return 0.
func (e *WaitTimeEstimator) EstimateTimeUntilPosition(currentPosition, targetPosition int, averageServiceTime float64) int {
	if currentPosition <= 0 || targetPosition <= 0 || targetPosition > currentPosition {
		return 0
	}
	return int(math.Round(float64(currentPosition-targetPosition) * averageServiceTime))
}

// CalculateNoShowProbability derives the historical no-show rate for a
// service, clamped to [0, 1]. Without history there is no signal and the
// probability is 0.
func (e *WaitTimeEstimator) CalculateNoShowProbability(totalNoShows, totalEntries int) float64 {
	if totalEntries <= 0 {
		return 0
	}
	probability := float64(totalNoShows) / float64(totalEntries)
	if probability < 0 {
		return 0
	}
	if probability > 1 {
		return 1
	}
	return probability
}

// AdjustForNoShowProbability shortens a wait estimate to account for
// parties ahead that will not show up. The decay factor is
// 1 - p*(1 - e^(-position/10)): the deeper in the queue, the more
// cancellations get absorbed before the party's turn.
func (e *WaitTimeEstimator) AdjustForNoShowProbability(estimatedWaitTime int, noShowProbability float64, position int) int {
	if noShowProbability <= 0 || position <= 0 {
		return estimatedWaitTime
	}
	decay := 1 - noShowProbability*(1-math.Exp(-float64(position)/10))
	adjusted := float64(estimatedWaitTime) * decay
	if adjusted < 0 {
		adjusted = 0
	}
	return int(math.Round(adjusted))
}

// EstimateServedInTime returns how many parties the given server pool can
// fully serve within timePeriod seconds.
func (e *WaitTimeEstimator) EstimateServedInTime(timePeriod, averageServiceTime float64, numServers int) int {
	if averageServiceTime <= 0 {
		return 0
	}
	if numServers < 1 {
		numServers = 1
	}
	return int(math.Floor(timePeriod * float64(numServers) / averageServiceTime))
}

// CalculateOptimalServers returns the minimum number of servers needed to
// keep the wait for the whole queue at or below targetWaitTime seconds.
// Degenerate inputs collapse to a single server rather than failing.
func (e *WaitTimeEstimator) CalculateOptimalServers(queueLength int, averageServiceTime, targetWaitTime float64) int {
	if queueLength <= 0 || targetWaitTime <= 0 {
		return 1
	}
	servers := int(math.Ceil(float64(queueLength) * averageServiceTime / targetWaitTime))
	if servers < 1 {
		return 1
	}
	return servers
}
