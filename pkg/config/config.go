package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fleetbook/pkg/client"
	"fleetbook/pkg/logger"

	"github.com/joho/godotenv"
)

// Buffers is the single table of cleanup defaults. On a facility boat every
// booking gets FacilityMin. Elsewhere a booking's own stored cleanup
// minutes win over DefaultMin.
type Buffers struct {
	DefaultMin  int
	FacilityMin int
}

// For returns the buffer a new candidate gets on a boat.
func (b Buffers) For(isFacility bool) int {
	if isFacility {
		return b.FacilityMin
	}
	return b.DefaultMin
}

// Stored resolves an existing booking's buffer from its persisted value.
func (b Buffers) Stored(cleanupMin *int) int {
	if cleanupMin != nil && *cleanupMin >= 0 {
		return *cleanupMin
	}
	return b.DefaultMin
}

// Existing resolves the buffer of a booking already on a boat.
func (b Buffers) Existing(isFacility bool, cleanupMin *int) int {
	if isFacility {
		return b.FacilityMin
	}
	return b.Stored(cleanupMin)
}

// FailurePolicy says what a checker reports when the store cannot be read.
// Each error class gets exactly one policy.
type FailurePolicy struct {
	Blackout    string
	Exclusivity string
}

func (p FailurePolicy) BlackoutFailsOpen() bool {
	return p.Blackout != FailClosed
}

func (p FailurePolicy) ExclusivityFailsClosed() bool {
	return p.Exclusivity != FailOpen
}

type Config struct {
	StoreDriver string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	PostgresURL         string
	PostgresConnTimeout time.Duration

	Port string

	RequestTimeout time.Duration
	MaxRequestSize int
	RateLimit      int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Buffers               Buffers
	PrefetchLookaheadDays int
	MaxBatchCandidates    int
	FailurePolicy         FailurePolicy

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	dotEnvErr := loadDotEnv()

	cfg := &Config{
		StoreDriver: strings.ToLower(getEnvStr(EnvStoreDriver, DefaultStoreDriver)),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		PostgresURL:         getEnvStr(EnvPostgresURL, DefaultPostgresURL),
		PostgresConnTimeout: getEnvDuration(EnvPostgresConnTimeout, DefaultPostgresConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),
		RateLimit:      getEnvNum(EnvRateLimit, DefaultRateLimit),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Buffers: Buffers{
			DefaultMin:  getEnvNum(EnvDefaultBufferMin, DefaultBufferMin),
			FacilityMin: getEnvNum(EnvFacilityBufferMin, DefaultFacilityBufferMin),
		},
		PrefetchLookaheadDays: getEnvNum(EnvPrefetchLookaheadDays, DefaultPrefetchLookaheadDays),
		MaxBatchCandidates:    getEnvNum(EnvMaxBatchCandidates, DefaultMaxBatchCandidates),
		FailurePolicy: FailurePolicy{
			Blackout:    strings.ToLower(getEnvStr(EnvBlackoutFailPolicy, DefaultBlackoutFailPolicy)),
			Exclusivity: strings.ToLower(getEnvStr(EnvExclusivityFailPolicy, DefaultExclusivityFailPolicy)),
		},

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if dotEnvErr != nil {
		cfg.Log.Warn("Failed to load .env file", "error", dotEnvErr)
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// Defaults returns a configuration built only from compiled-in defaults.
// It performs no environment lookups and opens no connections.
func Defaults(log *logger.Logger) *Config {
	return &Config{
		StoreDriver:           DefaultStoreDriver,
		MongoURI:              DefaultMongoURI,
		MongoDatabaseName:     DefaultMongoDatabaseName,
		MongoConnTimeout:      DefaultMongoConnTimeout,
		PostgresURL:           DefaultPostgresURL,
		PostgresConnTimeout:   DefaultPostgresConnTimeout,
		Port:                  DefaultPort,
		RequestTimeout:        DefaultRequestTimeout,
		MaxRequestSize:        DefaultMaxRequestSize,
		RateLimit:             DefaultRateLimit,
		ReadTimeout:           DefaultReadTimeout,
		WriteTimeout:          DefaultWriteTimeout,
		IdleTimeout:           DefaultIdleTimeout,
		ShutdownTimeout:       DefaultShutdownTimeout,
		Buffers:               Buffers{DefaultMin: DefaultBufferMin, FacilityMin: DefaultFacilityBufferMin},
		PrefetchLookaheadDays: DefaultPrefetchLookaheadDays,
		MaxBatchCandidates:    DefaultMaxBatchCandidates,
		FailurePolicy:         FailurePolicy{Blackout: DefaultBlackoutFailPolicy, Exclusivity: DefaultExclusivityFailPolicy},
		Log:                   log,
		Client:                client.NewClient(),
	}
}

// loadDotEnv reads DOTENV_PATH (or ./.env) into the process environment.
// Variables already set in the environment are not overridden.
func loadDotEnv() error {
	path := getEnvStr(EnvDotEnv, ".env")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) SetPostgres() {
	cfg.Client.SetPostgres(cfg.Log, cfg.PostgresURL, cfg.PostgresConnTimeout)
}

// SetStore connects whichever backend STORE_DRIVER selects.
func (cfg *Config) SetStore() {
	switch cfg.StoreDriver {
	case StorePostgres:
		cfg.SetPostgres()
	default:
		cfg.SetMongo()
	}
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	switch cfg.StoreDriver {
	case StoreMongo:
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case StorePostgres:
		if !regexp.MustCompile(`^postgres(ql)?://`).MatchString(cfg.PostgresURL) {
			errors = append(errors, fmt.Sprintf("PostgresURL must start with 'postgres://' or 'postgresql://', got: %s", redactURI(cfg.PostgresURL)))
		}
		if cfg.PostgresConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("PostgresConnTimeout must be positive, got: %s", cfg.PostgresConnTimeout))
		}
	default:
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of %q or %q, got: %s", StoreMongo, StorePostgres, cfg.StoreDriver))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.RateLimit < 0 {
		errors = append(errors, fmt.Sprintf("RateLimit cannot be negative, got: %d", cfg.RateLimit))
	}

	if cfg.Buffers.DefaultMin < 0 {
		errors = append(errors, fmt.Sprintf("DefaultBufferMin cannot be negative, got: %d", cfg.Buffers.DefaultMin))
	}
	if cfg.Buffers.FacilityMin < 0 {
		errors = append(errors, fmt.Sprintf("FacilityBufferMin cannot be negative, got: %d", cfg.Buffers.FacilityMin))
	}
	if cfg.PrefetchLookaheadDays < 0 || cfg.PrefetchLookaheadDays > MaxLookaheadDays {
		errors = append(errors, fmt.Sprintf("PrefetchLookaheadDays must be between 0 and %d, got: %d", MaxLookaheadDays, cfg.PrefetchLookaheadDays))
	}
	if cfg.MaxBatchCandidates <= 0 {
		errors = append(errors, fmt.Sprintf("MaxBatchCandidates must be positive, got: %d", cfg.MaxBatchCandidates))
	}

	if !validPolicy(cfg.FailurePolicy.Blackout) {
		errors = append(errors, fmt.Sprintf("BlackoutFailPolicy must be %q or %q, got: %s", FailOpen, FailClosed, cfg.FailurePolicy.Blackout))
	}
	if !validPolicy(cfg.FailurePolicy.Exclusivity) {
		errors = append(errors, fmt.Sprintf("ExclusivityFailPolicy must be %q or %q, got: %s", FailOpen, FailClosed, cfg.FailurePolicy.Exclusivity))
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

func validPolicy(p string) bool {
	return p == FailOpen || p == FailClosed
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"store_driver", cfg.StoreDriver,
		"mongo_uri", redactURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"postgres_url", redactURI(cfg.PostgresURL),
		"postgres_conn_timeout", cfg.PostgresConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"rate_limit_per_minute", cfg.RateLimit,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"default_buffer_min", cfg.Buffers.DefaultMin,
		"facility_buffer_min", cfg.Buffers.FacilityMin,
		"prefetch_lookahead_days", cfg.PrefetchLookaheadDays,
		"max_batch_candidates", cfg.MaxBatchCandidates,
		"blackout_fail_policy", cfg.FailurePolicy.Blackout,
		"exclusivity_fail_policy", cfg.FailurePolicy.Exclusivity,
	)
}

func redactURI(uri string) string {
	credentialRegex := regexp.MustCompile(`^([a-z+]+://)[^:/@]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
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
