package mongo

import (
	"context"
	"fmt"

	"swapstay/internal/history"
	"swapstay/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	StatusHistoryIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_event_id"),
		},
		{Keys: bson.D{
			{Key: "entity_type", Value: 1},
			{Key: "entity_id", Value: 1},
			{Key: "occurred_at", Value: 1},
		}},
		{Keys: bson.D{{Key: "event_type", Value: 1}}},
	}

	StatusHistoryValidator = bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required":  []string{"event_id", "event_type", "entity_type", "entity_id", "occurred_at", "recorded_at"},
			"properties": bson.M{
				"event_id":    bson.M{"bsonType": "string", "minLength": 1},
				"event_type":  bson.M{"bsonType": "string", "minLength": 1},
				"entity_type": bson.M{"enum": []string{"booking", "exchange", "object"}},
				"entity_id":   bson.M{"bsonType": "long"},
				"occurred_at": bson.M{"bsonType": "date"},
				"recorded_at": bson.M{"bsonType": "date"},
			},
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string, log *logger.Logger) error {
	db := client.Database(dbName)
	log.Info("Running Mongo migrations", "database", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		history.CollectionName: {
			Indexes:   StatusHistoryIndexes,
			Validator: StatusHistoryValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
		log.Info("Collection ready", "collection", name)
	}

	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating collection validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	_, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	return err
}
