package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"swapstay/pkg/client"
	"swapstay/pkg/db/postgres"
	kafkaconfig "swapstay/pkg/kafka/config"
	"swapstay/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL        string
	DBMaxConns         int
	DBMinConns         int
	DBMaxConnLifetime  time.Duration
	DBConnTimeout      time.Duration
	DBStatementTimeout time.Duration

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port           string
	AllowedOrigins []string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Kafka *kafkaconfig.Config

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	loadDotEnv()

	log := logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	cfg := &Config{
		DatabaseURL:        getEnvStr(EnvDatabaseURL, DefaultDatabaseURL),
		DBMaxConns:         getEnvNum(EnvDBMaxConns, DefaultDBMaxConns),
		DBMinConns:         getEnvNum(EnvDBMinConns, DefaultDBMinConns),
		DBMaxConnLifetime:  getEnvDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),
		DBConnTimeout:      getEnvDuration(EnvDBConnTimeout, DefaultDBConnTimeout),
		DBStatementTimeout: getEnvDuration(EnvDBStatementTimeout, DefaultDBStatementTimeout),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:           getEnvStr(EnvPort, DefaultPort),
		AllowedOrigins: splitList(getEnvStr(EnvAppURL, DefaultAppURL)),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Kafka: kafkaCfg,

		Log:    log,
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// loadDotEnv reads an optional .env from the repository root or the working
// directory. Real environment variables always win.
func loadDotEnv() {
	if err := godotenv.Load("../.env"); err != nil {
		_ = godotenv.Load(".env")
	}
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, postgres.Options{
		URL:              cfg.DatabaseURL,
		MaxConns:         int32(cfg.DBMaxConns),
		MinConns:         int32(cfg.DBMinConns),
		MaxConnLifetime:  cfg.DBMaxConnLifetime,
		ConnTimeout:      cfg.DBConnTimeout,
		StatementTimeout: cfg.DBStatementTimeout,
		ApplicationName:  "swapstay",
	})
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetKafkaProducer() {
	if !cfg.Kafka.Enabled {
		return
	}
	cfg.Client.SetKafkaProducer(cfg.Log, cfg.Kafka)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.DatabaseURL == "" {
		errors = append(errors, "DatabaseURL cannot be empty")
	} else if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.DatabaseURL) {
		errors = append(errors, fmt.Sprintf("DatabaseURL must start with 'postgres://' or 'postgresql://', got: %s", redactURL(cfg.DatabaseURL)))
	}
	if cfg.DBMaxConns <= 0 {
		errors = append(errors, fmt.Sprintf("DBMaxConns must be positive, got: %d", cfg.DBMaxConns))
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DBMinConns (%d) must be between 0 and DBMaxConns (%d)", cfg.DBMinConns, cfg.DBMaxConns))
	}
	if cfg.DBMaxConnLifetime <= 0 {
		errors = append(errors, fmt.Sprintf("DBMaxConnLifetime must be positive, got: %s", cfg.DBMaxConnLifetime))
	}
	if cfg.DBConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("DBConnTimeout must be positive, got: %s", cfg.DBConnTimeout))
	}
	if cfg.DBStatementTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("DBStatementTimeout must be positive, got: %s", cfg.DBStatementTimeout))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURL(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if len(cfg.AllowedOrigins) == 0 {
		errors = append(errors, "AllowedOrigins needs at least one origin (use * to allow all)")
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= cfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("WriteTimeout (%s) must exceed RequestTimeout (%s)", cfg.WriteTimeout, cfg.RequestTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"database_url", redactURL(cfg.DatabaseURL),
		"db_max_conns", cfg.DBMaxConns,
		"db_min_conns", cfg.DBMinConns,
		"db_max_conn_lifetime", cfg.DBMaxConnLifetime,
		"db_statement_timeout", cfg.DBStatementTimeout,
		"mongo_uri", redactURL(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"allowed_origins", cfg.AllowedOrigins,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
	cfg.Kafka.LogConfiguration(cfg.Log)
}

var credentialRegex = regexp.MustCompile(`^([a-z+]+://)[^:@/]+(:[^@/]*)?@`)

// redactURL hides the user and password of a connection string.
func redactURL(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.TrimSuffix(part, "/"))
		}
	}
	return out
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
