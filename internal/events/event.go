// Package events publishes domain events after a write has committed. Delivery
// is best effort: a failed publish is logged and never fails the request.
package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated         Type = "booking.created"
	BookingStatusChanged   Type = "booking.status_changed"
	BookingDeleted         Type = "booking.deleted"
	ObjectOwnerTransferred Type = "object.owner_transferred"
	ExchangeCreated        Type = "exchange.created"
	ExchangeApproved       Type = "exchange.approved"
	ExchangeRejected       Type = "exchange.rejected"
	ExchangeContactsShared Type = "exchange.contacts_shared"
)

const (
	EntityBooking  = "booking"
	EntityExchange = "exchange"
	EntityObject   = "object"
)

const SchemaVersion = "1"

type Event struct {
	ID             string         `json:"id"`
	Type           Type           `json:"type"`
	EntityType     string         `json:"entity_type"`
	EntityID       int64          `json:"entity_id"`
	Status         string         `json:"status,omitempty"`
	PreviousStatus string         `json:"previous_status,omitempty"`
	ActorID        *int64         `json:"actor_id,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
	Data           map[string]any `json:"data,omitempty"`
}

func New(t Type, entityType string, entityID int64) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		EntityType: entityType,
		EntityID:   entityID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) WithStatus(previous, current string) Event {
	e.PreviousStatus = previous
	e.Status = current
	return e
}

func (e Event) WithActor(userID int64) Event {
	e.ActorID = &userID
	return e
}

func (e Event) With(key string, value any) Event {
	data := make(map[string]any, len(e.Data)+1)
	for k, v := range e.Data {
		data[k] = v
	}
	data[key] = value
	e.Data = data
	return e
}

// Key partitions events so every change of one entity lands in order.
func (e Event) Key() string {
	return e.EntityType + ":" + strconv.FormatInt(e.EntityID, 10)
}
