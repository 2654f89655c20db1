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

// Config holds all service settings, populated from environment variables.
type Config struct {
	// CSV export URLs for the three officer-facing sheets.
	TrafficSheetURL     string `validate:"required,url"`
	EnforcementSheetURL string `validate:"required,url"`
	SafetySheetURL      string `validate:"required,url"`

	FetchTimeout    time.Duration `validate:"gt=0"`
	RefreshInterval time.Duration `validate:"gt=0"`

	HTTPAddr        string        `validate:"required"`
	LogLevel        string        `validate:"oneof=debug info warn error"`
	LogFormat       string        `validate:"oneof=json text"`
	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Kafka sink for normalized snapshots; optional.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Redis snapshot cache; optional, falls back to in-memory.
	RedisEnabled bool
	RedisAddr    string
	SnapshotTTL  time.Duration

	// Sheet-fetch rate limiting (the sheet host throttles aggressively).
	RateLimitRequests int           `validate:"gt=0"`
	RateLimitWindow   time.Duration `validate:"gt=0"`
}

// Load reads configuration from environment variables, applying defaults
// where unset, and validates the result.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parseDuration("REFRESH_INTERVAL", "1m")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	snapshotTTL, err := parseDuration("SNAPSHOT_TTL", "10m")
	if err != nil {
		return nil, err
	}
	rateWindow, err := parseDuration("SHEETS_RATE_WINDOW", "1m")
	if err != nil {
		return nil, err
	}
	rateRequests, err := parseInt("SHEETS_RATE_LIMIT", 30)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TrafficSheetURL:     os.Getenv("TRAFFIC_SHEET_URL"),
		EnforcementSheetURL: os.Getenv("ENFORCEMENT_SHEET_URL"),
		SafetySheetURL:      os.Getenv("SAFETY_SHEET_URL"),
		FetchTimeout:        fetchTimeout,
		RefreshInterval:     refreshInterval,
		HTTPAddr:            envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:            envOrDefault("LOG_LEVEL", "info"),
		LogFormat:           envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:     shutdownTimeout,
		KafkaEnabled:        os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:        parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:          envOrDefault("KAFKA_SINK_TOPIC", "normalized-incidents"),
		RedisEnabled:        os.Getenv("REDIS_ENABLED") == "true",
		RedisAddr:           envOrDefault("REDIS_ADDR", "localhost:6379"),
		SnapshotTTL:         snapshotTTL,
		RateLimitRequests:   rateRequests,
		RateLimitWindow:     rateWindow,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
	}
	if cfg.RedisEnabled && cfg.RedisAddr == "" {
		return nil, errors.New("REDIS_ENABLED is true but REDIS_ADDR is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
