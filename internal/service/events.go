package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/artisan_market/internal/cart"
	"github.com/Skotchmaster/artisan_market/internal/checkout"
)

const EventOrderPlaced = "ORDER_PLACED"

// Publisher is satisfied by mykafka.Producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type CartEvent struct {
	Type       string      `json:"type"`
	Session    string      `json:"session"`
	Items      []cart.Line `json:"items"`
	Total      int64       `json:"total"`
	Quantity   int         `json:"quantity"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type OrderPlacedEvent struct {
	Type             string                 `json:"type"`
	Session          string                 `json:"session"`
	ConfirmationID   uuid.UUID              `json:"confirmation_id"`
	PaymentReference string                 `json:"payment_reference"`
	PaymentMethod    checkout.PaymentMethod `json:"payment_method"`
	Summary          checkout.Summary       `json:"summary"`
	Items            []cart.Line            `json:"items"`
	PlacedAt         time.Time              `json:"placed_at"`
}

func newCartEvent(key string, a cart.Action, s cart.State, at time.Time) CartEvent {
	return CartEvent{
		Type:       a.Type(),
		Session:    key,
		Items:      s.Items,
		Total:      s.Total,
		Quantity:   s.Quantity(),
		OccurredAt: at,
	}
}

func newOrderPlacedEvent(key string, r checkout.OrderResult) OrderPlacedEvent {
	return OrderPlacedEvent{
		Type:             EventOrderPlaced,
		Session:          key,
		ConfirmationID:   r.ConfirmationID,
		PaymentReference: r.PaymentReference,
		PaymentMethod:    r.PaymentMethod,
		Summary:          r.Summary,
		Items:            r.Items,
		PlacedAt:         r.PlacedAt,
	}
}
