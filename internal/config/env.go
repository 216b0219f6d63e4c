package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names understood by FromEnv.
const (
	EnvBaseUrl           = "REVIEW_PARSER_BASE_URL"
	EnvUserAgent         = "REVIEW_PARSER_USER_AGENT"
	EnvFetchTimeout      = "REVIEW_PARSER_FETCH_TIMEOUT"
	EnvCacheMaxEntries   = "REVIEW_PARSER_CACHE_MAX_ENTRIES"
	EnvCacheExpiry       = "REVIEW_PARSER_CACHE_EXPIRY"
	EnvListenAddr        = "REVIEW_PARSER_LISTEN_ADDR"
	EnvRatingAttribute   = "REVIEW_PARSER_RATING_ATTRIBUTE"
	EnvReviewsCountClass = "REVIEW_PARSER_REVIEWS_COUNT_CLASS"
)

// FromEnv builds a Config from environment variables, reading a .env file
// first when one exists. Durations use Go syntax ("24h", "10s").
//
// REVIEW_PARSER_CACHE_MAX_ENTRIES is mandatory, like the cacheMaxEntries
// argument of WithDefault: when it is absent Build rejects the config.
func FromEnv() (Config, error) {
	// A missing .env file is fine, the process environment still applies
	_ = godotenv.Load()

	cfg := WithDefault(getEnvInt(EnvCacheMaxEntries, 0))

	if baseUrl := os.Getenv(EnvBaseUrl); baseUrl != "" {
		cfg.WithBaseUrl(baseUrl)
	}
	if agent := os.Getenv(EnvUserAgent); agent != "" {
		cfg.WithUserAgent(agent)
	}
	if timeout := getEnvDuration(EnvFetchTimeout, 0); timeout != 0 {
		cfg.WithFetchTimeout(timeout)
	}
	if expiry := getEnvDuration(EnvCacheExpiry, 0); expiry != 0 {
		cfg.WithCacheExpiry(expiry)
	}
	if addr := os.Getenv(EnvListenAddr); addr != "" {
		cfg.WithListenAddr(addr)
	}
	if attribute := os.Getenv(EnvRatingAttribute); attribute != "" {
		cfg.WithRatingAttribute(attribute)
	}
	if class := os.Getenv(EnvReviewsCountClass); class != "" {
		cfg.WithReviewsCountClass(class)
	}

	return cfg.Build()
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err == nil {
			return d
		}
	}
	return fallback
}
