package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"waitline/models"
	"waitline/timeutil"
)

// NotificationTimingPlanner derives when queue notifications should fire
// and builds the payloads the delivery layer sends. The clock is injectable
// so payload timestamps can be pinned in tests.
type NotificationTimingPlanner struct {
	nowFn func() time.Time
}

func NewNotificationTimingPlanner(nowFn func() time.Time) *NotificationTimingPlanner {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &NotificationTimingPlanner{nowFn: nowFn}
}

// Now reports the planner's current time. Composing services use it so
// their derived timestamps share the planner clock.
func (p *NotificationTimingPlanner) Now() time.Time {
	return p.nowFn()
}

// FireOffsetSeconds is the delay, in seconds from now, at which a "your
// turn is coming" notification should fire: late enough to be relevant,
// early enough to cover the trip plus the lead time. Never negative; 0
// means fire immediately.
func (p *NotificationTimingPlanner) FireOffsetSeconds(estimatedWaitTime, travelTime, leadTime int) int {
	offset := estimatedWaitTime - travelTime - leadTime
	if offset < 0 {
		offset = 0
	}
	return offset
}

// FireTime resolves the fire offset against the planner clock.
func (p *NotificationTimingPlanner) FireTime(estimatedWaitTime, travelTime, leadTime int) time.Time {
	offset := p.FireOffsetSeconds(estimatedWaitTime, travelTime, leadTime)
	return p.nowFn().Add(time.Duration(offset) * time.Second)
}

// PositionUpdate builds the payload for a position change. minutesRemaining
// is appended when positive; pass 0 to omit it.
func (p *NotificationTimingPlanner) PositionUpdate(position, minutesRemaining int) models.NotificationPayload {
	var message string
	switch {
	case position <= 0:
		message = "You're next! 🎉"
	case position == 1:
		message = "Almost there! You're #1 in line"
	default:
		message = fmt.Sprintf("You are #%d in line", position)
	}
	if minutesRemaining > 0 {
		message = fmt.Sprintf("%s (about %d min)", message, minutesRemaining)
	}

	return p.newPayload(models.NotifyPositionChanged, "Queue update", message, models.PriorityDefault, map[string]any{
		"position":       position,
		"position_label": timeutil.FormatPosition(position),
	})
}

// TurnSoon builds the heads-up notification fired ahead of a party's turn.
func (p *NotificationTimingPlanner) TurnSoon(minutesRemaining int) models.NotificationPayload {
	payload := p.newPayload(
		models.NotifyTurnSoon,
		"Your turn is coming up",
		fmt.Sprintf("Get ready! About %d minutes until it's your turn.", minutesRemaining),
		models.PriorityHigh,
		map[string]any{"minutes_remaining": minutesRemaining},
	)
	payload.Sound = "default"
	return payload
}

// TurnNow builds the notification sent when a party is called.
func (p *NotificationTimingPlanner) TurnNow() models.NotificationPayload {
	payload := p.newPayload(
		models.NotifyTurnNow,
		"It's your turn!",
		"Please proceed to the counter now.",
		models.PriorityMax,
		nil,
	)
	payload.Sound = "default"
	return payload
}

// QueuePaused builds the notification for a paused queue. reason may be
// empty.
func (p *NotificationTimingPlanner) QueuePaused(reason string) models.NotificationPayload {
	message := "The queue is temporarily paused. We'll let you know when it resumes."
	if reason != "" {
		message = fmt.Sprintf("The queue is temporarily paused: %s", reason)
	}
	return p.newPayload(models.NotifyQueuePaused, "Queue paused", message, models.PriorityHigh, nil)
}

// QueueResumed builds the notification for a resumed queue.
func (p *NotificationTimingPlanner) QueueResumed() models.NotificationPayload {
	return p.newPayload(
		models.NotifyQueueResumed,
		"Queue resumed",
		"The line is moving again. Your position is unchanged.",
		models.PriorityDefault,
		nil,
	)
}

// QueueClosed builds the notification for a closed queue.
func (p *NotificationTimingPlanner) QueueClosed() models.NotificationPayload {
	return p.newPayload(
		models.NotifyQueueClosed,
		"Queue closed",
		"The queue has closed for today. Thanks for your patience.",
		models.PriorityHigh,
		nil,
	)
}

// AppointmentReminder builds the reminder for a booked slot, phrased
// relative to the planner clock ("30 minutes from now").
func (p *NotificationTimingPlanner) AppointmentReminder(startsAt time.Time) models.NotificationPayload {
	return p.newPayload(
		models.NotifyAppointmentReminder,
		"Appointment reminder",
		fmt.Sprintf("Your appointment starts %s.", timeutil.FormatRelativeTime(startsAt, p.nowFn())),
		models.PriorityHigh,
		map[string]any{"starts_at": startsAt.Unix()},
	)
}

// Custom builds a free-form notification.
func (p *NotificationTimingPlanner) Custom(title, message string) models.NotificationPayload {
	return p.newPayload(models.NotifyCustom, title, message, models.PriorityDefault, nil)
}

func (p *NotificationTimingPlanner) newPayload(notifyType models.NotificationType, title, message string, priority models.NotificationPriority, data map[string]any) models.NotificationPayload {
	return models.NotificationPayload{
		ID:        uuid.NewString(),
		Type:      notifyType,
		Title:     title,
		Message:   message,
		Data:      data,
		Priority:  priority,
		CreatedAt: p.nowFn(),
	}
}

// GroupByType buckets notifications by their lifecycle event.
func GroupByType(payloads []models.NotificationPayload) map[models.NotificationType][]models.NotificationPayload {
	groups := make(map[models.NotificationType][]models.NotificationPayload)
	for _, payload := range payloads {
		groups[payload.Type] = append(groups[payload.Type], payload)
	}
	return groups
}

// SortByPriority returns a copy of payloads ordered max, high, default and,
// within a priority, newest first. The sort is stable.
func SortByPriority(payloads []models.NotificationPayload) []models.NotificationPayload {
	sorted := make([]models.NotificationPayload, len(payloads))
	copy(sorted, payloads)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority.Rank() != sorted[j].Priority.Rank() {
			return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}
