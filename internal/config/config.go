package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/recallflash/internal/logger"
)

type Config struct {
	Addr                  string
	DBPath                string
	LogLevel              string
	TimeZone              string
	GeneratorURL          string
	GeneratorAPIKey       string
	GeneratorTimeout      time.Duration
	GeneratorBatchSize    int
	GenerationWorkerCount int
	GenerationQueueSize   int
	SessionIdleTimeout    time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                  envOr("ADDR", ":8080"),
		DBPath:                envOr("DB_PATH", "file:recallflash.db"),
		LogLevel:              envOr("LOG_LEVEL", "INFO"),
		TimeZone:              envOr("TIMEZONE", "UTC"),
		GeneratorURL:          os.Getenv("GENERATOR_URL"),
		GeneratorAPIKey:       os.Getenv("GENERATOR_API_KEY"),
		GeneratorTimeout:      time.Duration(envIntOr("GENERATOR_TIMEOUT", 60)) * time.Second,
		GeneratorBatchSize:    envIntOr("GENERATOR_BATCH_SIZE", 15),
		GenerationWorkerCount: envIntOr("GENERATION_WORKER_COUNT", 2),
		GenerationQueueSize:   envIntOr("GENERATION_QUEUE_SIZE", 32),
		SessionIdleTimeout:    time.Duration(envIntOr("SESSION_IDLE_TIMEOUT", 120)) * time.Minute,
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil || c.TimeZone == "" {
		errs = append(errs, fmt.Errorf("TIMEZONE %q is not a known time zone", c.TimeZone))
	}
	if c.GeneratorURL != "" {
		u, err := url.Parse(c.GeneratorURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("GENERATOR_URL %q must be an absolute http(s) URL", c.GeneratorURL))
		}
	}
	if c.GeneratorTimeout <= 0 {
		errs = append(errs, errors.New("GENERATOR_TIMEOUT must be positive"))
	}
	if c.GeneratorBatchSize < 1 || c.GeneratorBatchSize > 100 {
		errs = append(errs, fmt.Errorf("GENERATOR_BATCH_SIZE must be between 1 and 100, got %d", c.GeneratorBatchSize))
	}
	if c.GenerationWorkerCount < 1 {
		errs = append(errs, fmt.Errorf("GENERATION_WORKER_COUNT must be at least 1, got %d", c.GenerationWorkerCount))
	}
	if c.GenerationQueueSize < 1 {
		errs = append(errs, fmt.Errorf("GENERATION_QUEUE_SIZE must be at least 1, got %d", c.GenerationQueueSize))
	}
	if c.SessionIdleTimeout <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
