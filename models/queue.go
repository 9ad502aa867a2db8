package models

import (
	"time"

	"waitline/geo"
)

// QueueItem is one party waiting for a service. Position is 1-based;
// zero or a negative value means the party is next. Location is the
// party's last shared position, when they opted in.
type QueueItem struct {
	ID          string           `json:"id"`
	UserID      string           `json:"user_id"`
	ServiceID   string           `json:"service_id"`
	Position    int              `json:"position"`
	ServiceTime float64          `json:"service_time"` // seconds to serve this party
	JoinedAt    time.Time        `json:"joined_at"`
	Status      EntryStatus      `json:"status"`
	Location    *geo.Coordinates `json:"location,omitempty"`
}

// CompletionAssignment is the projected service window for one queue item.
// Times are seconds measured from the moment the schedule was computed;
// which server the item landed on is internal bookkeeping and not exposed.
type CompletionAssignment struct {
	Item         QueueItem `json:"item"`
	StartSeconds float64   `json:"start_seconds"`
	EndSeconds   float64   `json:"end_seconds"`
}

// ServiceProfile is what the persistence layer knows about a venue service:
// the running average handling time, the historical no-show counts the
// estimator folds into its predictions, and the venue location used for
// travel-time estimates.
type ServiceProfile struct {
	ServiceID          string           `json:"service_id"`
	AverageServiceTime float64          `json:"average_service_time"` // seconds per party
	Servers            int              `json:"servers"`
	TotalNoShows       int              `json:"total_no_shows"`
	TotalEntries       int              `json:"total_entries"`
	Location           *geo.Coordinates `json:"location,omitempty"`
}
