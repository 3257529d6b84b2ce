package repository

import (
	"context"
	"fmt"
	"time"

	"swapstay/internal/history"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type HistoryRepository interface {
	// Save stores change once per event id. It reports false when the event
	// was already recorded.
	Save(ctx context.Context, change *history.StatusChange) (bool, error)
	FindByEntity(ctx context.Context, entityType string, entityID int64, limit int64) ([]*history.StatusChange, error)
}

type mongoHistoryRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewMongoHistoryRepository(client *mongo.Client, databaseName string, timeout time.Duration) HistoryRepository {
	return &mongoHistoryRepository{
		collection: client.Database(databaseName).Collection(history.CollectionName),
		timeout:    timeout,
	}
}

func (r *mongoHistoryRepository) Save(ctx context.Context, change *history.StatusChange) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"event_id": change.EventID}
	update := bson.M{"$setOnInsert": change}
	result, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, fmt.Errorf("failed to save status change %s: %w", change.EventID, err)
	}
	return result.UpsertedCount == 1, nil
}

func (r *mongoHistoryRepository) FindByEntity(ctx context.Context, entityType string, entityID int64, limit int64) ([]*history.StatusChange, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"entity_type": entityType, "entity_id": entityID}
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find status history: %w", err)
	}
	defer cursor.Close(ctx)

	changes := make([]*history.StatusChange, 0)
	if err := cursor.All(ctx, &changes); err != nil {
		return nil, fmt.Errorf("failed to decode status history: %w", err)
	}
	return changes, nil
}
