// Package events carries domain events from the services to the outside world:
// staff consoles, tracking pages and message brokers.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
)

// Event types.
const (
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status"
	PaymentUpdated     = "payment.updated"
	DeliveryDispatched = "delivery.dispatched"
	DeliveryStatus     = "delivery.status"
	DeliveryLocation   = "delivery.location"
)

type Event struct {
	Type          string      `json:"event"`
	OrderID       uint        `json:"order_id,omitempty"`
	DeliveryToken string      `json:"-"`
	Data          interface{} `json:"data"`
	At            time.Time   `json:"at"`
}

func New(eventType string, orderID uint, data interface{}) Event {
	return Event{Type: eventType, OrderID: orderID, Data: data, At: time.Now()}
}

// ForDelivery also routes the event to the delivery's tracking subscribers.
func (e Event) ForDelivery(token string) Event {
	e.DeliveryToken = token
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher, collecting their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// LogPublisher writes every event to the info logger.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	utils.InfoLogger.WithFields(map[string]interface{}{
		"event":    e.Type,
		"order_id": e.OrderID,
	}).Info("event published")
	return nil
}

// Emit publishes and logs a failure instead of returning it. Event delivery
// never fails the request that produced the event.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		utils.ErrorLogger.WithError(err).Errorf("publish %s", e.Type)
	}
}
