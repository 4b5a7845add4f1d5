package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	RunMigrations bool
	JWTSecret     string
	JWTIssuer     string

	// PostingPolicyFile is an optional YAML file overriding the built-in posting rules.
	PostingPolicyFile string

	BackfillWorkers   int
	BackfillBatchSize int

	// RateLimit uses the limiter format, e.g. "100-M" for 100 requests per minute.
	RateLimit          string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "pos-ledger")
	viper.SetDefault("POSTING_POLICY_FILE", "")
	viper.SetDefault("BACKFILL_WORKERS", 4)
	viper.SetDefault("BACKFILL_BATCH_SIZE", 100)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		Port:              viper.GetString("PORT"),
		IsProduction:      viper.GetBool("IS_PRODUCTION"),
		RunMigrations:     viper.GetBool("RUN_MIGRATIONS"),
		JWTSecret:         viper.GetString("JWT_SECRET"),
		JWTIssuer:         viper.GetString("JWT_ISSUER"),
		PostingPolicyFile: viper.GetString("POSTING_POLICY_FILE"),
		BackfillWorkers:   viper.GetInt("BACKFILL_WORKERS"),
		BackfillBatchSize: viper.GetInt("BACKFILL_BATCH_SIZE"),
		RateLimit:         viper.GetString("RATE_LIMIT"),
	}

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set. Falling back to the in-memory store.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.BackfillWorkers <= 0 {
		log.Printf("Warning: Invalid BACKFILL_WORKERS (%d). Defaulting to 4.\n", cfg.BackfillWorkers)
		cfg.BackfillWorkers = 4
	}
	if cfg.BackfillBatchSize <= 0 {
		log.Printf("Warning: Invalid BACKFILL_BATCH_SIZE (%d). Defaulting to 100.\n", cfg.BackfillBatchSize)
		cfg.BackfillBatchSize = 100
	}

	return cfg, nil
}
