package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Port string `validate:"required,numeric"`

	// Auth
	APIKey string

	// Source document
	DocsURL     string `validate:"required,url"`
	LinkBaseURL string `validate:"required,url"`

	// Output
	OutputFormat string `validate:"oneof=json yaml yml"`

	// Worker pool
	WorkerCount  int `validate:"min=1,max=64"`
	MaxQueueSize int `validate:"min=1"`

	// Upload and fetch limits
	MaxUploadBytes int64         `validate:"min=1"`
	FetchTimeout   time.Duration `validate:"min=1s"`
	FetchMaxBytes  int64         `validate:"min=1"`

	// Job state
	JobTTL time.Duration `validate:"min=1m"`

	// Logging
	LogLevel      string `validate:"oneof=debug info warn error"`
	LogFormat     string `validate:"oneof=json text"`
	LogFile       string
	LogMaxSizeMB  int `validate:"min=1"`
	LogMaxBackups int `validate:"min=0"`
	LogMaxAgeDays int `validate:"min=0"`
	LogCompress   bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("TGSCHEMA_API_KEY"),

		DocsURL:     envOr("DOCS_URL", "https://core.telegram.org/bots/api"),
		LinkBaseURL: envOr("LINK_BASE_URL", "https://core.telegram.org/bots/api"),

		OutputFormat: strings.ToLower(envOr("OUTPUT_FORMAT", "json")),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 20971520), // 20MB
		FetchTimeout:   envDuration("FETCH_TIMEOUT", 30*time.Second),
		FetchMaxBytes:  envInt64("FETCH_MAX_BYTES", 20971520),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		LogLevel:      strings.ToLower(envOr("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(envOr("LOG_FORMAT", "json")),
		LogFile:       os.Getenv("LOG_FILE"),
		LogMaxSizeMB:  envInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups: envInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays: envInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   envBool("LOG_COMPRESS", false),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20971520
	}
	if cfg.FetchMaxBytes <= 0 {
		cfg.FetchMaxBytes = 20971520
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every setting used by the one-shot commands.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ValidateServe additionally requires the settings of the HTTP server.
func (c Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("TGSCHEMA_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
