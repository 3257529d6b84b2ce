package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	historyhandler "swapstay/internal/history/handler"
	historyrepository "swapstay/internal/history/repository"
	"swapstay/pkg/config"
	"swapstay/pkg/kafka"
	kafkamw "swapstay/pkg/kafka/middleware"
)

const ServiceName = "swapstay-history"

func main() {
	cfg := config.Load(ServiceName)
	if !cfg.Kafka.Enabled {
		cfg.Log.Fatal("History worker requires KAFKA_ENABLED=true")
	}
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	repo := historyrepository.NewMongoHistoryRepository(cfg.Client.Mongo, cfg.MongoDatabaseName, cfg.MongoConnTimeout)
	eventHandler := historyhandler.NewEventHandler(repo, cfg.Log)

	consumer, err := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.HistoryGroup, eventHandler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	metrics := kafkamw.NewMetrics()
	consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("History worker started",
		"topic", cfg.Kafka.EventsTopic,
		"group", cfg.Kafka.HistoryGroup,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("History worker stopped", metrics.Snapshot().LogAttrs()...)
}
