package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPageSize is the number of tags requested per page
const DefaultPageSize = 10

// Config holds all configuration for the application
type Config struct {
	APIBaseURL     string
	PageSize       int
	Port           string
	BucketName     string
	FilterDebounce time.Duration
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	RenderWait     time.Duration
	APIRateLimit   float64
	LogLevel       string
	LogFormat      string
}

// ErrInvalidAPIBaseURL is returned when TAGS_API_BASE_URL is not an absolute http(s) URL
var ErrInvalidAPIBaseURL = errors.New("TAGS_API_BASE_URL must be an absolute http(s) URL")

// ErrBucketNameNotSet is returned when an export destination is required but BUCKET_NAME is empty
var ErrBucketNameNotSet = errors.New("BUCKET_NAME environment variable not set")

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// A missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL: getEnv("TAGS_API_BASE_URL", "http://localhost:3333"),
		PageSize:   DefaultPageSize,
		Port:       getEnv("PORT", "8080"),
		BucketName: os.Getenv("BUCKET_NAME"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
	}

	if err := validateBaseURL(cfg.APIBaseURL); err != nil {
		return nil, err
	}

	var err error
	if cfg.FilterDebounce, err = parseDuration("FILTER_DEBOUNCE", "0s"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration("TAGS_CACHE_TTL", "5m"); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.RenderWait, err = parseDuration("RENDER_WAIT", "750ms"); err != nil {
		return nil, err
	}

	rate, err := strconv.ParseFloat(getEnv("API_RATE_LIMIT", "10"), 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT %q: must be a positive number", os.Getenv("API_RATE_LIMIT"))
	}
	cfg.APIRateLimit = rate

	return cfg, nil
}

// RequireBucket returns ErrBucketNameNotSet when no export bucket is configured
func (c *Config) RequireBucket() error {
	if c.BucketName == "" {
		return ErrBucketNameNotSet
	}
	return nil
}

// ServerAddress returns the server address with port
func (c *Config) ServerAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// PrintServerStartMessage prints a message when the server starts
func (c *Config) PrintServerStartMessage() {
	fmt.Printf("Starting server at port %s\n", c.Port)
	fmt.Printf("Tags URL: http://localhost:%s/tags\n", c.Port)
	fmt.Printf("Tags API: %s\n", c.APIBaseURL)
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidAPIBaseURL
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
