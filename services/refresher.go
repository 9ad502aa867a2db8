package services

import (
	"context"
	"log"
	"sync"
	"time"

	"waitline/config"
	"waitline/models"
	"waitline/monitoring"
)

// EstimateRefresher periodically recomputes wait estimates and leave-time
// recommendations for every active service, persists them, and pushes
// throttled position and turn-soon notifications. One goroutine covers all
// services.
type EstimateRefresher struct {
	store     *QueueStore
	estimator *WaitTimeEstimator
	advisor   *LeaveTimeAdvisor
	planner   *NotificationTimingPlanner
	notifier  *Notifier
	monitor   *monitoring.Monitor
	config    *config.Config

	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewEstimateRefresher(store *QueueStore, estimator *WaitTimeEstimator, planner *NotificationTimingPlanner, notifier *Notifier, monitor *monitoring.Monitor, cfg *config.Config) *EstimateRefresher {
	if estimator == nil {
		estimator = NewWaitTimeEstimator(nil)
	}
	if planner == nil {
		planner = NewNotificationTimingPlanner(nil)
	}
	return &EstimateRefresher{
		store:     store,
		estimator: estimator,
		advisor:   NewLeaveTimeAdvisor(estimator),
		planner:   planner,
		notifier:  notifier,
		monitor:   monitor,
		config:    cfg,
		stopChan:  make(chan struct{}),
	}
}

// Start launches the refresh loop.
func (r *EstimateRefresher) Start() {
	r.wg.Add(1)
	go r.loop()
	log.Println("Estimate refresher started")
}

func (r *EstimateRefresher) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refreshAll()
		case <-r.stopChan:
			log.Println("Estimate refresher stopping")
			return
		}
	}
}

func (r *EstimateRefresher) refreshAll() {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.RefreshInterval)
	defer cancel()

	serviceIDs, err := r.store.ActiveServices(ctx)
	if err != nil {
		log.Printf("Error listing active services: %v", err)
		return
	}

	for _, serviceID := range serviceIDs {
		r.RefreshService(ctx, serviceID)
	}
}

// RefreshService recomputes and persists the wait estimate and leave-time
// recommendation for every party in one service's queue, notifying users
// whose turn is near or whose position warrants an update.
func (r *EstimateRefresher) RefreshService(ctx context.Context, serviceID string) {
	profile, err := r.store.GetServiceProfile(ctx, serviceID)
	if err != nil {
		log.Printf("Error loading profile for service %s: %v", serviceID, err)
		r.monitor.TrackEstimateOperation("refresh", serviceID, "error")
		return
	}

	items, err := r.store.GetQueueSnapshot(ctx, serviceID)
	if err != nil {
		log.Printf("Error snapshotting queue for service %s: %v", serviceID, err)
		r.monitor.TrackEstimateOperation("refresh", serviceID, "error")
		return
	}

	r.monitor.SetQueueDepth(serviceID, len(items))
	if len(items) == 0 {
		return
	}

	noShowProbability := r.estimator.CalculateNoShowProbability(profile.TotalNoShows, profile.TotalEntries)

	for _, item := range items {
		waitSeconds := r.estimator.CalculateWaitTime(item.Position, profile.AverageServiceTime, r.config.VarianceServiceTime)
		waitSeconds = r.estimator.AdjustForNoShowProbability(waitSeconds, noShowProbability, item.Position)
		travelTime := r.travelTime(item, profile)

		if err := r.store.SaveEstimate(ctx, serviceID, item.UserID, waitSeconds, r.config.EstimateTTL); err != nil {
			log.Printf("Error saving estimate for user %s: %v", item.UserID, err)
		}
		r.monitor.ObserveWaitEstimate(serviceID, waitSeconds)

		rec := r.advisor.CalculateRecommendedLeaveTime(item.Position, profile.AverageServiceTime, travelTime, r.leaveTimeOptions())
		if err := r.store.SaveRecommendation(ctx, serviceID, item.UserID, rec, r.config.EstimateTTL); err != nil {
			log.Printf("Error saving recommendation for user %s: %v", item.UserID, err)
		}

		payload, ok := r.notificationFor(item, waitSeconds, travelTime)
		if !ok {
			continue
		}
		if err := r.notifier.PublishPayload(ctx, item.UserID, payload); err != nil {
			log.Printf("Error notifying user %s: %v", item.UserID, err)
			r.monitor.TrackNotification(string(payload.Type), "error")
		} else {
			r.monitor.TrackNotification(string(payload.Type), "success")
		}
	}

	r.monitor.TrackEstimateOperation("refresh", serviceID, "success")
}

// notificationFor picks the notification a party should receive on this
// refresh, if any. An imminent turn beats a routine position update: once
// the wait no longer covers travel plus the configured lead time, the party
// needs to get moving.
func (r *EstimateRefresher) notificationFor(item models.QueueItem, waitSeconds, travelTime int) (models.NotificationPayload, bool) {
	leadSeconds := int(r.config.TurnSoonLeadTime.Seconds())
	if item.Position > 0 && r.planner.FireOffsetSeconds(waitSeconds, travelTime, leadSeconds) == 0 {
		return r.planner.TurnSoon(waitSeconds / 60), true
	}
	if ShouldNotifyPosition(item.Position) {
		return r.planner.PositionUpdate(item.Position, waitSeconds/60), true
	}
	return models.NotificationPayload{}, false
}

// travelTime estimates how long the party needs to reach the venue, when
// both sides have shared a location. Without one the trip counts as zero.
func (r *EstimateRefresher) travelTime(item models.QueueItem, profile models.ServiceProfile) int {
	if item.Location == nil || profile.Location == nil {
		return 0
	}
	seconds, err := r.advisor.EstimateTravelTime(*item.Location, *profile.Location, r.config.TravelSpeedKmh)
	if err != nil {
		log.Printf("Error estimating travel time for user %s: %v", item.UserID, err)
		return 0
	}
	return seconds
}

func (r *EstimateRefresher) leaveTimeOptions() LeaveTimeOptions {
	return LeaveTimeOptions{
		VarianceServiceTime: r.config.VarianceServiceTime,
		BufferFraction:      r.config.BufferFraction,
		MinBufferTime:       int(r.config.MinBufferTime.Seconds()),
		MaxBufferTime:       int(r.config.MaxBufferTime.Seconds()),
		CurrentTime:         r.planner.Now(),
	}
}

// Shutdown stops the refresh loop and waits for it to drain.
func (r *EstimateRefresher) Shutdown() {
	log.Println("Shutting down estimate refresher...")
	close(r.stopChan)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Estimate refresher stopped")
	case <-time.After(30 * time.Second):
		log.Println("Timeout waiting for estimate refresher to stop")
	}
}
