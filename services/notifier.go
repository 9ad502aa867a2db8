package services

import (
	"context"
	"fmt"

	pubnub "github.com/pubnub/go"

	"waitline/models"
	"waitline/utils"
)

// Notifier delivers notification payloads to per-user PubNub channels. A
// circuit breaker guards the publish path so a PubNub outage cannot stall
// the refresh loop.
type Notifier struct {
	pubnub  *pubnub.PubNub
	breaker *utils.CircuitBreaker
}

func NewNotifier(pn *pubnub.PubNub) *Notifier {
	return &Notifier{
		pubnub:  pn,
		breaker: utils.NewCircuitBreaker("pubnub-publish"),
	}
}

// PublishPayload sends a payload to the user's channel. A nil PubNub client
// (tests, notifications disabled) is a no-op.
func (n *Notifier) PublishPayload(ctx context.Context, userID string, payload models.NotificationPayload) error {
	if n.pubnub == nil {
		return nil
	}

	channel := fmt.Sprintf("user-%s", userID)
	_, err := n.breaker.Execute(ctx, func() (any, error) {
		_, _, err := n.pubnub.Publish().
			Channel(channel).
			Message(map[string]any{
				"id":       payload.ID,
				"type":     string(payload.Type),
				"title":    payload.Title,
				"message":  payload.Message,
				"data":     payload.Data,
				"priority": string(payload.Priority),
				"sound":    payload.Sound,
			}).
			Execute()
		return nil, err
	})
	return err
}

// ShouldNotifyPosition throttles position notifications: parties near the
// front hear about every change, parties far back only on round numbers.
func ShouldNotifyPosition(position int) bool {
	switch {
	case position <= 5:
		return true
	case position <= 20:
		return position%2 == 0
	case position <= 100:
		return position%10 == 0
	default:
		return position%50 == 0
	}
}
