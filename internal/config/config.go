package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	//===============
	// Upstream
	//===============
	// Base URL of the review site. The page URL for a domain key is this
	// value with the key appended verbatim, so it normally ends with a
	// trailing separator, e.g. "https://www.trustpilot.com/review/".
	baseUrl string
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Maximum time of a single fetch request
	fetchTimeout time.Duration

	//===============
	// Cache
	//===============
	// Maximum number of cached parse results held at once
	cacheMaxEntries int
	// Idle time after which an unaccessed cache entry expires.
	// Every hit restarts the clock.
	cacheExpiry time.Duration

	//===============
	// Server
	//===============
	// Address the HTTP API listens on
	listenAddr string

	//===============
	// Extraction
	//===============
	// Attribute marking the element whose text carries the rating
	ratingAttribute string
	// Space-separated class signature of the element whose text carries
	// the review count
	reviewsCountClass string
}

type configDTO struct {
	BaseUrl           string        `json:"baseUrl,omitempty"`
	UserAgent         string        `json:"userAgent,omitempty"`
	FetchTimeout      time.Duration `json:"fetchTimeout,omitempty"`
	CacheMaxEntries   int           `json:"cacheMaxEntries"`
	CacheExpiry       time.Duration `json:"cacheExpiry,omitempty"`
	ListenAddr        string        `json:"listenAddr,omitempty"`
	RatingAttribute   string        `json:"ratingAttribute,omitempty"`
	ReviewsCountClass string        `json:"reviewsCountClass,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {

	// Start with default config
	cfg, err := WithDefault(dto.CacheMaxEntries).Build()
	if err != nil {
		return Config{}, err
	}

	// For other fields, only override if non-zero value is provided
	if dto.BaseUrl != "" {
		cfg.baseUrl = dto.BaseUrl
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.FetchTimeout != 0 {
		cfg.fetchTimeout = dto.FetchTimeout
	}
	if dto.CacheExpiry != 0 {
		cfg.cacheExpiry = dto.CacheExpiry
	}
	if dto.ListenAddr != "" {
		cfg.listenAddr = dto.ListenAddr
	}
	if dto.RatingAttribute != "" {
		cfg.ratingAttribute = dto.RatingAttribute
	}
	if dto.ReviewsCountClass != "" {
		cfg.reviewsCountClass = dto.ReviewsCountClass
	}

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with the provided cache bound and default
// values for all other fields. cacheMaxEntries is mandatory and has no
// default: the operator must size the cache for the deployment, and Build
// rejects a non-positive bound.
func WithDefault(cacheMaxEntries int) *Config {
	defaultConfig := Config{
		baseUrl:           "",
		userAgent:         "review-parser/1.0",
		fetchTimeout:      time.Second * 10,
		cacheMaxEntries:   cacheMaxEntries,
		cacheExpiry:       24 * time.Hour,
		listenAddr:        ":8080",
		ratingAttribute:   "data-rating-typography",
		reviewsCountClass: "typography_body-l__KUYFJ typography_appearance-subtle__8_H2l styles_text__W4hWi",
	}
	return &defaultConfig
}

func (c *Config) WithBaseUrl(baseUrl string) *Config {
	c.baseUrl = baseUrl
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithFetchTimeout(timeout time.Duration) *Config {
	c.fetchTimeout = timeout
	return c
}

func (c *Config) WithCacheMaxEntries(maxEntries int) *Config {
	c.cacheMaxEntries = maxEntries
	return c
}

func (c *Config) WithCacheExpiry(expiry time.Duration) *Config {
	c.cacheExpiry = expiry
	return c
}

func (c *Config) WithListenAddr(addr string) *Config {
	c.listenAddr = addr
	return c
}

func (c *Config) WithRatingAttribute(attribute string) *Config {
	c.ratingAttribute = attribute
	return c
}

func (c *Config) WithReviewsCountClass(class string) *Config {
	c.reviewsCountClass = class
	return c
}

func (c *Config) Build() (Config, error) {
	if c.cacheMaxEntries <= 0 {
		return Config{}, fmt.Errorf("%w: cacheMaxEntries must be positive", ErrInvalidConfig)
	}

	if c.cacheExpiry <= 0 {
		return Config{}, fmt.Errorf("%w: cacheExpiry must be positive", ErrInvalidConfig)
	}

	if c.fetchTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: fetchTimeout must be positive", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) BaseUrl() string {
	return c.baseUrl
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) FetchTimeout() time.Duration {
	return c.fetchTimeout
}

func (c Config) CacheMaxEntries() int {
	return c.cacheMaxEntries
}

func (c Config) CacheExpiry() time.Duration {
	return c.cacheExpiry
}

func (c Config) ListenAddr() string {
	return c.listenAddr
}

func (c Config) RatingAttribute() string {
	return c.ratingAttribute
}

func (c Config) ReviewsCountClass() string {
	return c.reviewsCountClass
}
