// Package history keeps an append-only audit trail of domain events in Mongo.
package history

import (
	"time"

	"swapstay/internal/events"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const CollectionName = "status_history"

type StatusChange struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	EventID        string             `bson:"event_id" json:"event_id"`
	EventType      string             `bson:"event_type" json:"event_type"`
	EntityType     string             `bson:"entity_type" json:"entity_type"`
	EntityID       int64              `bson:"entity_id" json:"entity_id"`
	PreviousStatus string             `bson:"previous_status,omitempty" json:"previous_status,omitempty"`
	Status         string             `bson:"status,omitempty" json:"status,omitempty"`
	ActorID        *int64             `bson:"actor_id,omitempty" json:"actor_id,omitempty"`
	CorrelationID  string             `bson:"correlation_id,omitempty" json:"correlation_id,omitempty"`
	Data           map[string]any     `bson:"data,omitempty" json:"data,omitempty"`
	OccurredAt     time.Time          `bson:"occurred_at" json:"occurred_at"`
	RecordedAt     time.Time          `bson:"recorded_at" json:"recorded_at"`
}

func FromEvent(ev events.Event, correlationID string, recordedAt time.Time) *StatusChange {
	return &StatusChange{
		EventID:        ev.ID,
		EventType:      string(ev.Type),
		EntityType:     ev.EntityType,
		EntityID:       ev.EntityID,
		PreviousStatus: ev.PreviousStatus,
		Status:         ev.Status,
		ActorID:        ev.ActorID,
		CorrelationID:  correlationID,
		Data:           ev.Data,
		OccurredAt:     ev.OccurredAt.UTC().Truncate(time.Millisecond),
		RecordedAt:     recordedAt.UTC().Truncate(time.Millisecond),
	}
}
