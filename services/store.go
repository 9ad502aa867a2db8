package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"waitline/geo"
	"waitline/models"
)

// QueueStore reads the queue state the estimation engine needs from Redis
// and persists computed estimates with a TTL. The queue itself is owned by
// the booking side of the product; this store only snapshots it.
type QueueStore struct {
	Redis *redis.Client
}

func NewQueueStore(redisClient *redis.Client) *QueueStore {
	return &QueueStore{Redis: redisClient}
}

func entriesKey(serviceID string) string {
	return fmt.Sprintf("queue:entries:%s", serviceID)
}

func profileKey(serviceID string) string {
	return fmt.Sprintf("service:profile:%s", serviceID)
}

func estimateKey(serviceID, userID string) string {
	return fmt.Sprintf("queue:estimate:%s:%s", serviceID, userID)
}

func recommendationKey(serviceID, userID string) string {
	return fmt.Sprintf("queue:recommendation:%s:%s", serviceID, userID)
}

// ActiveServices lists the services with a live queue.
func (s *QueueStore) ActiveServices(ctx context.Context) ([]string, error) {
	serviceIDs, err := s.Redis.SMembers(ctx, "active_services").Result()
	if err != nil {
		return nil, fmt.Errorf("store: list active services: %w", err)
	}
	return serviceIDs, nil
}

// GetQueueSnapshot returns the current queue entries for a service in queue
// order. Entries that fail to decode are skipped rather than failing the
// whole snapshot.
func (s *QueueStore) GetQueueSnapshot(ctx context.Context, serviceID string) ([]models.QueueItem, error) {
	raw, err := s.Redis.LRange(ctx, entriesKey(serviceID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("store: snapshot queue %s: %w", serviceID, err)
	}

	items := make([]models.QueueItem, 0, len(raw))
	for _, data := range raw {
		var item models.QueueItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetServiceProfile fetches the average handling time, server pool size and
// no-show history for a service. A missing profile yields the zero profile
// with a single server.
func (s *QueueStore) GetServiceProfile(ctx context.Context, serviceID string) (models.ServiceProfile, error) {
	fields, err := s.Redis.HGetAll(ctx, profileKey(serviceID)).Result()
	if err != nil {
		return models.ServiceProfile{}, fmt.Errorf("store: profile %s: %w", serviceID, err)
	}

	profile := models.ServiceProfile{
		ServiceID: serviceID,
		Servers:   1,
	}
	if v, ok := fields["average_service_time"]; ok {
		profile.AverageServiceTime, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := fields["servers"]; ok {
		if servers, err := strconv.Atoi(v); err == nil && servers > 0 {
			profile.Servers = servers
		}
	}
	if v, ok := fields["total_no_shows"]; ok {
		profile.TotalNoShows, _ = strconv.Atoi(v)
	}
	if v, ok := fields["total_entries"]; ok {
		profile.TotalEntries, _ = strconv.Atoi(v)
	}
	if latStr, ok := fields["venue_lat"]; ok {
		if lngStr, ok := fields["venue_lng"]; ok {
			lat, latErr := strconv.ParseFloat(latStr, 64)
			lng, lngErr := strconv.ParseFloat(lngStr, 64)
			if latErr == nil && lngErr == nil {
				profile.Location = &geo.Coordinates{Lat: lat, Lng: lng}
			}
		}
	}
	return profile, nil
}

// SaveEstimate stores the latest wait estimate for a user so status reads
// can serve it without recomputing. Estimates go stale fast, hence the TTL.
func (s *QueueStore) SaveEstimate(ctx context.Context, serviceID, userID string, waitSeconds int, ttl time.Duration) error {
	if err := s.Redis.Set(ctx, estimateKey(serviceID, userID), waitSeconds, ttl).Err(); err != nil {
		return fmt.Errorf("store: save estimate %s/%s: %w", serviceID, userID, err)
	}
	return nil
}

// GetEstimate reads a previously saved wait estimate. A missing key returns
// ok=false, not an error.
func (s *QueueStore) GetEstimate(ctx context.Context, serviceID, userID string) (int, bool, error) {
	value, err := s.Redis.Get(ctx, estimateKey(serviceID, userID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	} else if err != nil {
		return 0, false, fmt.Errorf("store: get estimate %s/%s: %w", serviceID, userID, err)
	}

	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("store: get estimate %s/%s: %w", serviceID, userID, err)
	}
	return seconds, true, nil
}

// SaveRecommendation stores the latest leave-time recommendation for a user
// alongside their wait estimate, with the same staleness TTL.
func (s *QueueStore) SaveRecommendation(ctx context.Context, serviceID, userID string, rec models.LeaveTimeRecommendation, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode recommendation %s/%s: %w", serviceID, userID, err)
	}
	if err := s.Redis.Set(ctx, recommendationKey(serviceID, userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("store: save recommendation %s/%s: %w", serviceID, userID, err)
	}
	return nil
}

// GetRecommendation reads a previously saved leave-time recommendation. A
// missing key returns ok=false, not an error.
func (s *QueueStore) GetRecommendation(ctx context.Context, serviceID, userID string) (models.LeaveTimeRecommendation, bool, error) {
	value, err := s.Redis.Get(ctx, recommendationKey(serviceID, userID)).Result()
	if err == redis.Nil {
		return models.LeaveTimeRecommendation{}, false, nil
	} else if err != nil {
		return models.LeaveTimeRecommendation{}, false, fmt.Errorf("store: get recommendation %s/%s: %w", serviceID, userID, err)
	}

	var rec models.LeaveTimeRecommendation
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return models.LeaveTimeRecommendation{}, false, fmt.Errorf("store: get recommendation %s/%s: %w", serviceID, userID, err)
	}
	return rec, true, nil
}
