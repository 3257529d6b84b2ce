package service

import (
	"context"

	"swapstay/internal/events"
	"swapstay/internal/history"
	"swapstay/internal/history/repository"
	"swapstay/pkg/config"
	apperrors "swapstay/pkg/errors"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type HistoryService interface {
	ListForEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]*history.StatusChange, error)
}

type historyService struct {
	repo repository.HistoryRepository
	cfg  *config.Config
}

func NewHistoryService(repo repository.HistoryRepository, cfg *config.Config) HistoryService {
	return &historyService{repo: repo, cfg: cfg}
}

// ListForEntity returns the recorded changes of one entity, oldest first.
func (s *historyService) ListForEntity(ctx context.Context, entityType string, entityID int64, limit int) ([]*history.StatusChange, error) {
	switch entityType {
	case events.EntityBooking, events.EntityExchange, events.EntityObject:
	default:
		return nil, apperrors.InvalidInput("entity must be one of: booking, exchange, object")
	}

	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	changes, err := s.repo.FindByEntity(ctx, entityType, entityID, int64(limit))
	if err != nil {
		s.cfg.Log.Error("Failed to load status history",
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve history", err)
	}
	return changes, nil
}
