package config

const (
	EnvDatabaseURL        = "DATABASE_URL"
	EnvDBMaxConns         = "DB_MAX_CONNS"
	EnvDBMinConns         = "DB_MIN_CONNS"
	EnvDBMaxConnLifetime  = "DB_MAX_CONN_LIFETIME"
	EnvDBConnTimeout      = "DB_CONN_TIMEOUT"
	EnvDBStatementTimeout = "DB_STATEMENT_TIMEOUT"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvAppURL   = "APP_URL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
