package config

const (
	EnvStoreDriver = "STORE_DRIVER"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPostgresURL         = "POSTGRES_URL"
	EnvPostgresConnTimeout = "POSTGRES_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"
	EnvDotEnv    = "DOTENV_PATH"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"
	EnvRateLimit      = "RATE_LIMIT_PER_MINUTE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvDefaultBufferMin      = "DEFAULT_BUFFER_MIN"
	EnvFacilityBufferMin     = "FACILITY_BUFFER_MIN"
	EnvPrefetchLookaheadDays = "PREFETCH_LOOKAHEAD_DAYS"
	EnvMaxBatchCandidates    = "MAX_BATCH_CANDIDATES"

	EnvBlackoutFailPolicy    = "BLACKOUT_FAIL_POLICY"
	EnvExclusivityFailPolicy = "EXCLUSIVITY_FAIL_POLICY"
)
