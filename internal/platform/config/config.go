package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
	BackendMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	// Account store
	StorageBackend string
	DatabaseURL    string
	EnableDBCheck  bool
	RunMigrations  bool
	DBMaxConns     int32
	// StoreTimeout bounds each account store call made by the mutator.
	StoreTimeout time.Duration

	// Ledger
	LedgerBackend      string
	MySQLDSN           string
	MySQLMaxRetries    int
	MySQLRetryInterval time.Duration
	SideEffectTimeout  time.Duration

	// Events
	RabbitMQURL    string
	EventExchange  string
	EventQueueSize int
	PublishTimeout time.Duration

	// Notifier
	NotifierQueue    string
	NotifierDedupTTL time.Duration

	// Redis backs the rate limiter store and notifier deduplication.
	RedisURL  string
	RateLimit string

	// Auth is enabled when JWTSecret is set.
	JWTSecret string
	JWTIssuer string

	CORSAllowedOrigins []string

	ConflictRetryAttempts  int
	ConflictRetryBaseDelay time.Duration

	ReconcileSchedule  string
	ReconcileBatchSize int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_BACKEND", BackendPostgres)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("DB_MAX_CONNS", 0)
	viper.SetDefault("STORE_TIMEOUT", "5s")
	viper.SetDefault("LEDGER_BACKEND", "")
	viper.SetDefault("MYSQL_DSN", "")
	viper.SetDefault("MYSQL_MAX_RETRIES", 10)
	viper.SetDefault("MYSQL_RETRY_INTERVAL", "2s")
	viper.SetDefault("SIDE_EFFECT_TIMEOUT", "2s")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("EVENT_EXCHANGE", "balance.transactions")
	viper.SetDefault("EVENT_QUEUE_SIZE", 1024)
	viper.SetDefault("PUBLISH_TIMEOUT", "5s")
	viper.SetDefault("NOTIFIER_QUEUE", "balance.notifications")
	viper.SetDefault("NOTIFIER_DEDUP_TTL", "24h")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ISSUER", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("CONFLICT_RETRY_ATTEMPTS", 0)
	viper.SetDefault("CONFLICT_RETRY_BASE_DELAY", "20ms")
	viper.SetDefault("RECONCILE_SCHEDULE", "")
	viper.SetDefault("RECONCILE_BATCH_SIZE", 100)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.StorageBackend = backendOrDefault("STORAGE_BACKEND", BackendPostgres, BackendPostgres, BackendMemory)
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.StorageBackend == BackendPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")
	cfg.DBMaxConns = viper.GetInt32("DB_MAX_CONNS")
	cfg.StoreTimeout = durationOrDefault("STORE_TIMEOUT", 5*time.Second)

	// The ledger follows the account store unless configured separately.
	cfg.LedgerBackend = backendOrDefault("LEDGER_BACKEND", cfg.StorageBackend, BackendPostgres, BackendMySQL, BackendMemory)
	cfg.MySQLDSN = viper.GetString("MYSQL_DSN")
	if cfg.LedgerBackend == BackendMySQL && cfg.MySQLDSN == "" {
		log.Println("Warning: LEDGER_BACKEND is mysql but MYSQL_DSN is not set.")
	}
	cfg.MySQLMaxRetries = viper.GetInt("MYSQL_MAX_RETRIES")
	cfg.MySQLRetryInterval = durationOrDefault("MYSQL_RETRY_INTERVAL", 2*time.Second)
	cfg.SideEffectTimeout = durationOrDefault("SIDE_EFFECT_TIMEOUT", 2*time.Second)

	cfg.RabbitMQURL = viper.GetString("RABBITMQ_URL")
	if cfg.RabbitMQURL == "" {
		log.Println("Warning: RABBITMQ_URL not set. Transaction events will only be logged.")
	}
	cfg.EventExchange = viper.GetString("EVENT_EXCHANGE")
	cfg.EventQueueSize = viper.GetInt("EVENT_QUEUE_SIZE")
	if cfg.EventQueueSize <= 0 {
		log.Printf("Warning: Invalid value for EVENT_QUEUE_SIZE (%d). Defaulting to 1024.\n", cfg.EventQueueSize)
		cfg.EventQueueSize = 1024
	}
	cfg.PublishTimeout = durationOrDefault("PUBLISH_TIMEOUT", 5*time.Second)

	cfg.NotifierQueue = viper.GetString("NOTIFIER_QUEUE")
	cfg.NotifierDedupTTL = durationOrDefault("NOTIFIER_DEDUP_TTL", 24*time.Hour)

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. API authentication is disabled.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.ConflictRetryAttempts = viper.GetInt("CONFLICT_RETRY_ATTEMPTS")
	if cfg.ConflictRetryAttempts < 0 {
		log.Printf("Warning: Invalid value for CONFLICT_RETRY_ATTEMPTS (%d). Disabling retries.\n", cfg.ConflictRetryAttempts)
		cfg.ConflictRetryAttempts = 0
	}
	cfg.ConflictRetryBaseDelay = durationOrDefault("CONFLICT_RETRY_BASE_DELAY", 20*time.Millisecond)

	cfg.ReconcileSchedule = viper.GetString("RECONCILE_SCHEDULE")
	cfg.ReconcileBatchSize = viper.GetInt("RECONCILE_BATCH_SIZE")
	if cfg.ReconcileBatchSize <= 0 {
		cfg.ReconcileBatchSize = 100
	}

	return cfg, nil
}

// AuthEnabled reports whether bearer token auth guards the API.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func backendOrDefault(key string, def string, allowed ...string) string {
	raw := strings.ToLower(strings.TrimSpace(viper.GetString(key)))
	if raw == "" {
		return def
	}
	for _, a := range allowed {
		if raw == a {
			return raw
		}
	}
	log.Printf("Warning: Unsupported value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
	return def
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
