package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	MigrationsURL string

	// Redis is optional. Without it outcomes are served from postgres only
	// and every replica sweeps holds.
	RedisURL            string
	IdempotencyCacheTTL time.Duration

	// Ledger unit-of-work tuning
	LedgerTxMaxRetries     int
	LedgerTxInitialBackoff time.Duration
	LedgerTxMaxBackoff     time.Duration
	DBLockTimeout          time.Duration
	DecisionTimeout        time.Duration
	HomeCountry            string

	HoldSweepInterval  time.Duration
	HoldSweepBatchSize int

	// Rate limits in ulule/limiter formatted rates, e.g. "100-S".
	WebhookRateLimit   string
	APIRateLimit       string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("IDEMPOTENCY_CACHE_TTL", "24h")
	v.SetDefault("LEDGER_TX_MAX_RETRIES", 3)
	v.SetDefault("LEDGER_TX_INITIAL_BACKOFF", "25ms")
	v.SetDefault("LEDGER_TX_MAX_BACKOFF", "250ms")
	v.SetDefault("DB_LOCK_TIMEOUT", "2s")
	v.SetDefault("DECISION_TIMEOUT", "5s")
	v.SetDefault("HOME_COUNTRY", "US")
	v.SetDefault("HOLD_SWEEP_INTERVAL", "1m")
	v.SetDefault("HOLD_SWEEP_BATCH_SIZE", 500)
	v.SetDefault("WEBHOOK_RATE_LIMIT", "200-S")
	v.SetDefault("API_RATE_LIMIT", "20-S")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            v.GetString("PGSQL_URL"),
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		MigrationsURL:          v.GetString("MIGRATIONS_PATH"),
		RedisURL:               v.GetString("REDIS_URL"),
		IdempotencyCacheTTL:    durationOrDefault(v, "IDEMPOTENCY_CACHE_TTL", 24*time.Hour),
		LedgerTxMaxRetries:     v.GetInt("LEDGER_TX_MAX_RETRIES"),
		LedgerTxInitialBackoff: durationOrDefault(v, "LEDGER_TX_INITIAL_BACKOFF", 25*time.Millisecond),
		LedgerTxMaxBackoff:     durationOrDefault(v, "LEDGER_TX_MAX_BACKOFF", 250*time.Millisecond),
		DBLockTimeout:          durationOrDefault(v, "DB_LOCK_TIMEOUT", 2*time.Second),
		DecisionTimeout:        durationOrDefault(v, "DECISION_TIMEOUT", 5*time.Second),
		HomeCountry:            strings.ToUpper(v.GetString("HOME_COUNTRY")),
		HoldSweepInterval:      durationOrDefault(v, "HOLD_SWEEP_INTERVAL", time.Minute),
		HoldSweepBatchSize:     v.GetInt("HOLD_SWEEP_BATCH_SIZE"),
		WebhookRateLimit:       v.GetString("WEBHOOK_RATE_LIMIT"),
		APIRateLimit:           v.GetString("API_RATE_LIMIT"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.LedgerTxMaxRetries < 1 {
		log.Printf("Warning: Invalid value for LEDGER_TX_MAX_RETRIES (%d). Defaulting to 3.\n", cfg.LedgerTxMaxRetries)
		cfg.LedgerTxMaxRetries = 3
	}
	if cfg.HoldSweepBatchSize < 1 {
		log.Printf("Warning: Invalid value for HOLD_SWEEP_BATCH_SIZE (%d). Defaulting to 500.\n", cfg.HoldSweepBatchSize)
		cfg.HoldSweepBatchSize = 500
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set. Outcome cache and sweep lock are disabled.")
	}

	return cfg, nil
}

// durationOrDefault parses a duration key, falling back on bad input.
func durationOrDefault(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
