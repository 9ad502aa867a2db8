package monitoring

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	queueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "waitline_queue_depth",
			Help: "Current number of parties waiting per service",
		},
		[]string{"service_id"},
	)

	waitEstimateSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waitline_wait_estimate_seconds",
			Help:    "Distribution of computed wait estimates",
			Buckets: prometheus.ExponentialBuckets(30, 2, 10),
		},
		[]string{"service_id"},
	)

	estimateOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitline_estimate_operations_total",
			Help: "Total estimate operations",
		},
		[]string{"operation", "service_id", "status"},
	)

	notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitline_notifications_total",
			Help: "Total notification publishes",
		},
		[]string{"type", "status"},
	)
)

// Monitor exposes the engine's metrics and samples queue depths from Redis
// in the background.
type Monitor struct {
	redis    *redis.Client
	stopChan chan struct{}
}

func NewMonitor(redisClient *redis.Client) *Monitor {
	monitor := &Monitor{
		redis:    redisClient,
		stopChan: make(chan struct{}),
	}

	if redisClient != nil {
		go monitor.collectQueueDepths()
	}

	return monitor
}

func (m *Monitor) collectQueueDepths() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sampleQueueDepths()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) sampleQueueDepths() {
	ctx := context.Background()

	keys, err := m.redis.Keys(ctx, "queue:entries:*").Result()
	if err != nil {
		log.Printf("Error listing queue keys: %v", err)
		return
	}
	for _, key := range keys {
		length, err := m.redis.LLen(ctx, key).Result()
		if err != nil {
			log.Printf("Error reading depth of %s: %v", key, err)
			continue
		}
		queueDepth.WithLabelValues(key[len("queue:entries:"):]).Set(float64(length))
	}
}

// Stop halts the background depth collector.
func (m *Monitor) Stop() {
	close(m.stopChan)
}

// SetQueueDepth records the current queue depth for a service.
func (m *Monitor) SetQueueDepth(serviceID string, depth int) {
	queueDepth.WithLabelValues(serviceID).Set(float64(depth))
}

// ObserveWaitEstimate records a computed wait estimate.
func (m *Monitor) ObserveWaitEstimate(serviceID string, waitSeconds int) {
	waitEstimateSeconds.WithLabelValues(serviceID).Observe(float64(waitSeconds))
}

// TrackEstimateOperation counts an estimate operation outcome.
func (m *Monitor) TrackEstimateOperation(operation, serviceID, status string) {
	estimateOperations.WithLabelValues(operation, serviceID, status).Inc()
}

// TrackNotification counts a notification publish outcome.
func (m *Monitor) TrackNotification(notifyType, status string) {
	notifications.WithLabelValues(notifyType, status).Inc()
}
