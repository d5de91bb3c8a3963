package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// HTTP
	Port  int
	Debug bool

	// Provider credentials and budgets
	NewsAPIKey      string
	GNewsAPIKey     string
	NewsAPIQuota    int // requests per day, 0 = unlimited
	GNewsQuota      int
	SourcesPath     string // yaml list of RSS feeds
	AdapterTimeout  time.Duration

	// Feed defaults
	HomeCountry     string
	DefaultLanguage string
	PageSize        int
	MaxPageSize     int

	// Pipeline tuning
	DedupThreshold   float64
	TopCategories    int // profile cutoff
	TopKeywords      int // profile cutoff
	ForYouCategories int // per-category fan-out width
	HistoryLimit     int
	CacheTTL         time.Duration

	// Collaborators
	JWTSecret   string
	DatabaseURL string // empty = file store
	HistoryPath string // file store location
	GeminiAPIKey string

	// Scraper / AI retry policy
	RetryAttempts int
	RetryDelay    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:             8080,
		SourcesPath:      "configs/sources.yaml",
		AdapterTimeout:   10 * time.Second,
		HomeCountry:      "in",
		DefaultLanguage:  "en",
		PageSize:         10,
		MaxPageSize:      50,
		DedupThreshold:   0.8,
		TopCategories:    5,
		TopKeywords:      20,
		ForYouCategories: 3,
		HistoryLimit:     200,
		CacheTTL:         5 * time.Minute,
		HistoryPath:      "newshub_users.json",
		RetryAttempts:    3,
		RetryDelay:       2 * time.Second,
	}

	cfg.NewsAPIKey = os.Getenv("NEWS_API_KEY")
	cfg.GNewsAPIKey = os.Getenv("GNEWS_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.Port = getEnvIntOrDefault("PORT", cfg.Port)
	cfg.NewsAPIQuota = getEnvIntOrDefault("NEWS_API_DAILY_QUOTA", 100)
	cfg.GNewsQuota = getEnvIntOrDefault("GNEWS_DAILY_QUOTA", 100)
	cfg.PageSize = getEnvIntOrDefault("PAGE_SIZE", cfg.PageSize)
	cfg.MaxPageSize = getEnvIntOrDefault("MAX_PAGE_SIZE", cfg.MaxPageSize)
	cfg.TopCategories = getEnvIntOrDefault("PROFILE_TOP_CATEGORIES", cfg.TopCategories)
	cfg.TopKeywords = getEnvIntOrDefault("PROFILE_TOP_KEYWORDS", cfg.TopKeywords)
	cfg.ForYouCategories = getEnvIntOrDefault("FOR_YOU_CATEGORIES", cfg.ForYouCategories)
	cfg.HistoryLimit = getEnvIntOrDefault("HISTORY_LIMIT", cfg.HistoryLimit)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)

	cfg.SourcesPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesPath)
	cfg.HomeCountry = getEnvOrDefault("HOME_COUNTRY", cfg.HomeCountry)
	cfg.DefaultLanguage = getEnvOrDefault("DEFAULT_LANGUAGE", cfg.DefaultLanguage)
	cfg.HistoryPath = getEnvOrDefault("HISTORY_FILE_PATH", cfg.HistoryPath)

	if v := os.Getenv("ADAPTER_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.AdapterTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("CACHE_TTL_MINUTES"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.CacheTTL = time.Duration(val) * time.Minute
		}
	}
	if v := os.Getenv("DEDUP_THRESHOLD"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil && val > 0 && val <= 1 {
			cfg.DedupThreshold = val
		}
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.PageSize <= 0 || c.PageSize > c.MaxPageSize {
		return fmt.Errorf("PAGE_SIZE must be between 1 and %d", c.MaxPageSize)
	}
	if c.DedupThreshold <= 0 || c.DedupThreshold > 1 {
		return fmt.Errorf("DEDUP_THRESHOLD must be in (0, 1]")
	}
	return nil
}
