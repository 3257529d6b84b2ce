package handler

import (
	"context"
	"fmt"
	"time"

	"swapstay/internal/events"
	"swapstay/internal/history"
	"swapstay/internal/history/repository"
	"swapstay/pkg/kafka"
	"swapstay/pkg/logger"
)

// EventHandler turns domain events read from Kafka into history documents.
type EventHandler struct {
	repo repository.HistoryRepository
	log  *logger.Logger
	now  func() time.Time
}

func NewEventHandler(repo repository.HistoryRepository, log *logger.Logger) *EventHandler {
	return &EventHandler{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// Handle is a kafka.MessageHandler. Undecodable messages are permanent
// failures and go to the DLQ; store errors are retried.
func (h *EventHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var ev events.Event
	if err := msg.DecodeValue(&ev); err != nil {
		return kafka.NewPermanentError("invalid event payload", err)
	}
	if ev.ID == "" {
		ev.ID = msg.GetEventID()
	}
	if ev.ID == "" || ev.Type == "" || ev.EntityType == "" {
		return kafka.NewPermanentError(fmt.Sprintf("incomplete event at offset %d", msg.Offset), nil)
	}

	change := history.FromEvent(ev, msg.GetCorrelationID(), h.now())
	inserted, err := h.repo.Save(ctx, change)
	if err != nil {
		return kafka.NewTransientError("failed to store status change", err)
	}

	if !inserted {
		h.log.Debug("Duplicate event skipped", "event_id", ev.ID, "event_type", ev.Type)
		return nil
	}
	h.log.Info("Status change recorded",
		"event_id", ev.ID,
		"event_type", ev.Type,
		"entity", ev.Key(),
		"status", ev.Status,
	)
	return nil
}
