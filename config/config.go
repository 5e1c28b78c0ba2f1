package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fermingonzalezs/scrapper-bot/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Telegram bot
	TelegramBotToken string
	TelegramChatID   string

	// eBay search parameters
	SearchURL   string
	SearchQuery string
	CategoryID  string

	// Scraping behavior
	WatchInterval  time.Duration
	RateLimitBlock time.Duration
	FetchDetails   bool
	DetailLimit    int

	// Interest filter thresholds
	MinPrice              float64
	MaxPrice              float64
	PremiumBrands         []string
	MaxTimeRemainingHours float64
	MinBids               int
	ExcludeKeywords       []string
	MinDiscountPercent    float64
	AltValueBrands        []string

	// Redis configuration (notified-listing store)
	RedisAddr   string
	RedisDB     int
	NotifiedTTL time.Duration

	// Memcache configuration (rate-limit cache)
	MemcacheAddr string

	// Metrics endpoint
	MetricsAddr string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	watchInterval, _ := strconv.Atoi(getEnv("WATCH_INTERVAL_SECONDS", "300"))
	blockSeconds, _ := strconv.Atoi(getEnv("RATE_LIMIT_BLOCK_SECONDS", "500"))
	notifiedTTL, _ := strconv.Atoi(getEnv("NOTIFIED_TTL_HOURS", "168"))
	detailLimit, _ := strconv.Atoi(getEnv("DETAIL_LIMIT", "5"))
	minBids, _ := strconv.Atoi(getEnv("MIN_BIDS", "3"))

	return Config{
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),

		SearchURL:   getEnv("EBAY_SEARCH_URL", "https://www.ebay.com/sch/i.html"),
		SearchQuery: getEnv("SEARCH_QUERY", "laptop"),
		CategoryID:  getEnv("CATEGORY_ID", "0"),

		WatchInterval:  time.Duration(watchInterval) * time.Second,
		RateLimitBlock: time.Duration(blockSeconds) * time.Second,
		FetchDetails:   getEnv("FETCH_DETAILS", "false") == "true",
		DetailLimit:    detailLimit,

		MinPrice:              getEnvFloat("MIN_PRICE", 100),
		MaxPrice:              getEnvFloat("MAX_PRICE", 1500),
		PremiumBrands:         getEnvList("PREMIUM_BRANDS", "MacBook,ThinkPad,XPS,Surface,Alienware,Dell,Lenovo"),
		MaxTimeRemainingHours: getEnvFloat("MAX_TIME_REMAINING_HOURS", 48),
		MinBids:               minBids,
		ExcludeKeywords:       getEnvList("EXCLUDE_KEYWORDS", "parts,repair,broken,cracked,as is,for parts,damaged"),
		MinDiscountPercent:    getEnvFloat("MIN_DISCOUNT_PERCENT", 20),
		AltValueBrands:        getEnvList("ALT_VALUE_BRANDS", "MacBook,ThinkPad,XPS,Surface"),

		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     redisDB,
		NotifiedTTL: time.Duration(notifiedTTL) * time.Hour,

		MemcacheAddr: getEnv("MEMCACHE_ADDR", "localhost:11211"),

		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),

		Environment: getEnv("SCRAPPER_ENVIRONMENT", "development"),
	}
}

// Validate checks that required settings are present and consistent
func (c *Config) Validate() error {
	if c.TelegramBotToken == "" {
		return errors.NewValidation("config", "TELEGRAM_BOT_TOKEN is not set")
	}
	if c.TelegramChatID == "" {
		return errors.NewValidation("config", "TELEGRAM_CHAT_ID is not set")
	}
	if c.MinPrice < 0 || c.MaxPrice < c.MinPrice {
		return errors.NewValidation("config", "invalid price range")
	}
	if c.MaxTimeRemainingHours <= 0 {
		return errors.NewValidation("config", "MAX_TIME_REMAINING_HOURS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvFloat retrieves a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvList retrieves a comma-separated environment variable as a trimmed slice
func getEnvList(key, defaultValue string) []string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
