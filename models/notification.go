package models

import (
	"time"
)

// NotificationType enumerates the queue lifecycle events that produce a
// push notification.
type NotificationType string

const (
	NotifyPositionChanged     NotificationType = "position_changed"
	NotifyTurnSoon            NotificationType = "turn_soon"
	NotifyTurnNow             NotificationType = "turn_now"
	NotifyQueuePaused         NotificationType = "queue_paused"
	NotifyQueueResumed        NotificationType = "queue_resumed"
	NotifyQueueClosed         NotificationType = "queue_closed"
	NotifyAppointmentReminder NotificationType = "appointment_reminder"
	NotifyCustom              NotificationType = "custom"
)

// NotificationPriority controls delivery urgency on the client.
type NotificationPriority string

const (
	PriorityDefault NotificationPriority = "default"
	PriorityHigh    NotificationPriority = "high"
	PriorityMax     NotificationPriority = "max"
)

// Rank orders priorities for sorting: max sorts before high, high before
// default. Unknown values sort last.
func (p NotificationPriority) Rank() int {
	switch p {
	case PriorityMax:
		return 0
	case PriorityHigh:
		return 1
	case PriorityDefault:
		return 2
	default:
		return 3
	}
}

// NotificationPayload is the transport-agnostic message handed to the
// delivery layer (push, SMS, email). TTL is in seconds.
type NotificationPayload struct {
	ID        string               `json:"id"`
	Type      NotificationType     `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Data      map[string]any       `json:"data,omitempty"`
	Priority  NotificationPriority `json:"priority"`
	TTL       int                  `json:"ttl,omitempty"`
	Sound     string               `json:"sound,omitempty"`
	Badge     int                  `json:"badge,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}
