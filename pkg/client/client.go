package client

import (
	"context"
	"time"

	"swapstay/pkg/db/postgres"
	"swapstay/pkg/kafka"
	kafka_config "swapstay/pkg/kafka/config"
	kafkamw "swapstay/pkg/kafka/middleware"
	"swapstay/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client owns the process-wide connections to the backing services.
type Client struct {
	Postgres     *pgxpool.Pool
	Mongo        *mongo.Client
	Producer     *kafka.Producer
	KafkaMetrics *kafkamw.Metrics
}

func NewClient() *Client {
	return &Client{KafkaMetrics: kafkamw.NewMetrics()}
}

func (c *Client) SetPostgres(log *logger.Logger, opts postgres.Options) {
	pool, err := postgres.NewPool(context.Background(), opts)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	log.Info("Successfully connected to PostgreSQL",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)
	c.Postgres = pool
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

func (c *Client) SetKafkaProducer(log *logger.Logger, cfg *kafka_config.Config) {
	producer, err := kafka.NewProducer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamw.LoggingProducerMiddleware(log))
	producer.Use(c.KafkaMetrics.ProducerMiddleware())

	log.Info("Kafka producer ready", "topic", producer.Topic())
	c.Producer = producer
}

// GracefulShutdown closes every connection that was opened.
func (c *Client) GracefulShutdown(log *logger.Logger) {
	if c.Producer != nil {
		if err := c.Producer.Close(); err != nil {
			log.Error("Failed to close Kafka producer", "error", err)
		}
		log.Info("Kafka producer closed", c.KafkaMetrics.Snapshot().LogAttrs()...)
	}

	if c.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}

	if c.Postgres != nil {
		c.Postgres.Close()
	}
	log.Info("Backing connections closed")
}
