package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type EventType string

const (
	EventOrderSaved      EventType = "order.saved"
	EventOrderSynced     EventType = "order.synced"
	EventOrderSyncFailed EventType = "order.sync_failed"
	EventOrderShipped    EventType = "order.shipped"
	EventStockPushed     EventType = "stock.pushed"
)

// Event is a notification about a state change, published for downstream consumers.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	OrderID    string    `json:"orderId,omitempty"`
	RemoteID   string    `json:"remoteId,omitempty"`
	SKU        string    `json:"sku,omitempty"`
	LocationID string    `json:"locationId,omitempty"`
	Level      *int      `json:"level,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

func NewEvent(t EventType) Event {
	return Event{ID: uuid.NewString(), Type: t, At: time.Now().UTC()}
}

// Key is the partitioning key: the order id, else the SKU.
func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.SKU
}

type EventPublisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func publish(ctx context.Context, p EventPublisher, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logrus.WithError(err).WithField("event", ev.Type).Warn("publish event")
	}
}
