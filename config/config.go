package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config holds carousel client configuration.
type Config struct {
	APIBaseURL          string
	Page                int
	PageLimit           int
	APITimeout          time.Duration
	ImageTimeout        time.Duration
	TransitionDelay     time.Duration
	PrefetchParallelism int
	ImageCacheSize      int
	MaxImageBytes       int
	UserAgent           string
	StoreBackend        string // memory or redis
	RedisAddr           string
	RedisDB             int
	RedisPrefix         string
	MetricsAddr         string
	Verbose             bool
}

// DefaultConfig returns defaults suitable for a local server.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:          "http://localhost:8000/api",
		Page:                1,
		PageLimit:           20,
		APITimeout:          10 * time.Second,
		ImageTimeout:        15 * time.Second,
		TransitionDelay:     300 * time.Millisecond,
		PrefetchParallelism: 8,
		ImageCacheSize:      256,
		MaxImageBytes:       10 * 1024 * 1024,
		UserAgent:           "swell-carousel/1.0",
		StoreBackend:        "memory",
		RedisAddr:           "localhost:6379",
		RedisDB:             0,
		RedisPrefix:         "swell:",
		MetricsAddr:         "",
		Verbose:             false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("api base URL must include a host")
	}

	if c.Page <= 0 {
		return fmt.Errorf("page must be positive")
	}
	if c.PageLimit < 1 || c.PageLimit > 50 {
		return fmt.Errorf("page limit must be between 1 and 50")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}
	if c.ImageTimeout <= 0 {
		return fmt.Errorf("image timeout must be positive")
	}
	if c.TransitionDelay <= 0 {
		return fmt.Errorf("transition delay must be positive")
	}
	if c.PrefetchParallelism <= 0 {
		return fmt.Errorf("prefetch parallelism must be positive")
	}
	if c.ImageCacheSize <= 0 {
		return fmt.Errorf("image cache size must be positive")
	}
	if c.MaxImageBytes < 0 {
		return fmt.Errorf("max image bytes cannot be negative")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	switch c.StoreBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("redis address cannot be empty with the redis store")
		}
		if c.RedisDB < 0 {
			return fmt.Errorf("redis db cannot be negative")
		}
	default:
		return fmt.Errorf("store backend must be memory or redis")
	}

	return nil
}
