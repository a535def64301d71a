package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	TelegramToken string

	// Database configuration
	DatabaseURL string

	// Resolver configuration
	ResolveHighThreshold     int // Score at which a unique fuzzy match auto-resolves (0-100)
	ResolveDisambigThreshold int // Minimum score for a disambiguation candidate (0-100)
	MaxCandidates            int // Maximum candidates offered for disambiguation

	// Rate limiting
	RateLimitMaxTokens     int // Messages allowed per refill interval
	RateLimitRefillSeconds int // Seconds for a drained bucket to refill fully

	// Display
	HistoryLimit int // Transactions shown per history request

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Telegram
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Defaults
		ResolveHighThreshold:     90,
		ResolveDisambigThreshold: 60,
		MaxCandidates:            5,
		RateLimitMaxTokens:       10,
		RateLimitRefillSeconds:   60,
		HistoryLimit:             10,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	overrideInt := func(name string, dst *int) {
		if v := os.Getenv(name); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil {
				*dst = parsed
			}
		}
	}
	overrideInt("RESOLVE_HIGH_THRESHOLD", &config.ResolveHighThreshold)
	overrideInt("RESOLVE_DISAMBIG_THRESHOLD", &config.ResolveDisambigThreshold)
	overrideInt("MAX_CANDIDATES", &config.MaxCandidates)
	overrideInt("RATE_LIMIT_MAX_TOKENS", &config.RateLimitMaxTokens)
	overrideInt("RATE_LIMIT_REFILL_SECONDS", &config.RateLimitRefillSeconds)
	overrideInt("HISTORY_LIMIT", &config.HistoryLimit)

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.TelegramToken == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
