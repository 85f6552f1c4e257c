// Package config resolves niveshak configuration once at startup.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is built once by Load and passed by
// value into constructors; nothing reads the environment after startup.
type Config struct {
	Env  string
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Pipeline endpoints
	PipelineAPIKey string

	// Price sources
	RequestTimeout    time.Duration
	YahooBaseURL      string
	AMFINavURL        string
	AMFICacheTTL      time.Duration
	MFAPIBaseURL      string
	IndstocksBaseURL  string
	IndstocksAPIToken string
	NearestDayWindow  int

	// LLM fallback
	OpenAIAPIKey     string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string
	GeminiRateLimit  int
	GeminiRateWindow time.Duration
	GeminiMaxWait    time.Duration
	LLMBatchSize     int

	// Background refresh
	RefreshEnabled  bool
	RefreshInterval time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults and validating typed values.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "niveshak"),
		DBPassword: getEnv("DB_PASSWORD", "niveshak"),
		DBName:     getEnv("DB_NAME", "niveshak"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		YahooBaseURL:      getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		AMFINavURL:        getEnv("AMFI_NAV_URL", "https://www.amfiindia.com/spages/NAVAll.txt"),
		MFAPIBaseURL:      getEnv("MFAPI_BASE_URL", "https://api.mfapi.in"),
		IndstocksBaseURL:  getEnv("INDSTOCKS_BASE_URL", "https://api.indstocks.com"),
		IndstocksAPIToken: os.Getenv("INDSTOCKS_API_TOKEN"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey: firstEnv("GOOGLE_API_KEY", "GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.AMFICacheTTL, err = parseDuration("AMFI_CACHE_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.GeminiRateWindow, err = parseDuration("GEMINI_RATE_WINDOW", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = parseDuration("REFRESH_INTERVAL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.GeminiMaxWait, err = parseNonNegativeDuration("GEMINI_MAX_WAIT", 0); err != nil {
		return Config{}, err
	}
	if cfg.NearestDayWindow, err = parsePositiveInt("NEAREST_DAY_WINDOW", 7); err != nil {
		return Config{}, err
	}
	if cfg.GeminiRateLimit, err = parsePositiveInt("GEMINI_RATE_LIMIT", 8); err != nil {
		return Config{}, err
	}
	if cfg.LLMBatchSize, err = parsePositiveInt("LLM_BATCH_SIZE", 20); err != nil {
		return Config{}, err
	}
	if cfg.RefreshEnabled, err = parseBool("REFRESH_ENABLED", false); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DSN returns the PostgreSQL keyword/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrateURL returns the postgres:// URL form used by golang-migrate.
func (c Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// firstEnv returns the first non-empty value among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	d, err := parseNonNegativeDuration(key, def)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func parseNonNegativeDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %v", key, d)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s: must be true, false, 1, or 0, got %q", key, s)
	}
}
