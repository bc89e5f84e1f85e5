// Package events publishes best-effort domain notifications about store and
// product changes.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type names a domain event.
type Type string

const (
	TypeStoreCreated            Type = "store.created"
	TypeStoreTracked            Type = "store.tracked"
	TypeStoreProductsAssociated Type = "store_products.associated"
)

// Envelope is the JSON body of every published event.
type Envelope struct {
	EventID    uuid.UUID       `json:"event_id"`
	Type       Type            `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEnvelope marshals data under a fresh event id.
func NewEnvelope(eventType Type, occurredAt time.Time, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Envelope{
		EventID:    uuid.New(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		Data:       raw,
	}, nil
}

// Publisher delivers envelopes. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
}

// Noop drops every event. It backs the service when no topic is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Envelope) error { return nil }

type StoreCreated struct {
	StoreID         uuid.UUID `json:"store_id"`
	Name            string    `json:"name"`
	Lat             float64   `json:"lat"`
	Lng             float64   `json:"lng"`
	CreatedByUserID uuid.UUID `json:"created_by_user_id"`
}

type StoreTracked struct {
	StoreID uuid.UUID `json:"store_id"`
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
}

type StoreProductsAssociated struct {
	UserID     uuid.UUID   `json:"user_id"`
	StoreIDs   []uuid.UUID `json:"store_ids"`
	ProductIDs []uuid.UUID `json:"product_ids"`
	Created    int64       `json:"created"`
}
