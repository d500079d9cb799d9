package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// SSOT: every environment variable is read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Market data provider (Financial Modeling Prep)
	FMP FMPConfig

	// Database (watchlist persistence)
	Database DatabaseConfig

	// Redis (optional widget cache)
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Screener pipeline tunables
	Screener ScreenerConfig
}

// FMPConfig holds Financial Modeling Prep API configuration.
type FMPConfig struct {
	APIKey       string
	BaseURL      string
	RequestDelay time.Duration // minimum gap between consecutive provider calls
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL     string
	Enabled bool

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// ScreenerConfig holds the screening pipeline tunables.
type ScreenerConfig struct {
	QuoteBatchSize  int // symbols per batched quote call
	FundamentalsCap int // max candidates enriched with ratio data
	PageSize        int // results per page
	DefaultLimit    int // default server-side result cap
}

// Load reads configuration from environment variables. A non-empty envFile
// names the dotenv file to load first; empty searches the default locations.
// SSOT: only this function calls os.Getenv().
func Load(envFile string) (*Config, error) {
	loadEnvFile(envFile)

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		FMP: FMPConfig{
			APIKey:       getEnv("FMP_API_KEY", ""),
			BaseURL:      getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/api/v3"),
			RequestDelay: getEnvAsDuration("FMP_REQUEST_DELAY", "250ms"),
		},

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Enabled:         getEnvAsBool("DATABASE_ENABLED", true),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		Screener: ScreenerConfig{
			QuoteBatchSize:  getEnvAsInt("SCREENER_QUOTE_BATCH_SIZE", 50),
			FundamentalsCap: getEnvAsInt("SCREENER_FUNDAMENTALS_CAP", 100),
			PageSize:        getEnvAsInt("SCREENER_PAGE_SIZE", 50),
			DefaultLimit:    getEnvAsInt("SCREENER_DEFAULT_LIMIT", 1000),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.FMP.APIKey == "" {
		return fmt.Errorf("FMP_API_KEY is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DATABASE_ENABLED=true")
	}

	if c.Screener.QuoteBatchSize < 1 || c.Screener.QuoteBatchSize > 50 {
		return fmt.Errorf("SCREENER_QUOTE_BATCH_SIZE must be between 1 and 50")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile(explicit string) {
	if explicit != "" {
		_ = godotenv.Load(explicit)
		return
	}

	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
