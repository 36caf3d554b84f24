package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/telewind/telewind/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourceURL         string
	SourceTZOffsetHrs int
	FetchTimeout      time.Duration
	PollInterval      time.Duration
	SpeedThreshold    float64
	WindSector        domain.Sector
	CandidateSteps    uint8
	CooldownSteps     uint8
	TelegramToken     string
	DatabasePath      string
	KafkaBrokers      []string
	KafkaEventsTopic  string
	HTTPAddr          string
	LogLevel          string
	LogFormat         string
	ShutdownTimeout   time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	pollInterval, err := parseDuration("POLL_INTERVAL", "55s")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	threshold, err := parseFloat("SPEED_THRESHOLD", 5.0)
	if err != nil {
		return nil, err
	}

	sector, err := domain.ParseSector(envOrDefault("WIND_SECTOR", "270-90"))
	if err != nil {
		return nil, fmt.Errorf("invalid WIND_SECTOR: %w", err)
	}

	candidateSteps, err := parseSteps("CANDIDATE_STEPS", 5)
	if err != nil {
		return nil, err
	}
	cooldownSteps, err := parseSteps("COOLDOWN_STEPS", 5)
	if err != nil {
		return nil, err
	}

	tzOffset, err := parseInt("SOURCE_TZ_OFFSET_HOURS", 10)
	if err != nil {
		return nil, err
	}
	if tzOffset < -12 || tzOffset > 14 {
		return nil, errors.New("SOURCE_TZ_OFFSET_HOURS out of range [-12,14]")
	}

	cfg := &Config{
		SourceURL:         envOrDefault("SOURCE_URL", "http://3volna.ru/anemometer/getwind?id=1"),
		SourceTZOffsetHrs: tzOffset,
		FetchTimeout:      fetchTimeout,
		PollInterval:      pollInterval,
		SpeedThreshold:    threshold,
		WindSector:        sector,
		CandidateSteps:    candidateSteps,
		CooldownSteps:     cooldownSteps,
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabasePath:      envOrDefault("DATABASE_PATH", "telewind.db"),
		KafkaBrokers:      parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaEventsTopic:  envOrDefault("KAFKA_EVENTS_TOPIC", "wind-events"),
		HTTPAddr:          envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		LogFormat:         envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if cfg.TelegramToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, errors.New("POLL_INTERVAL must be positive")
	}
	if cfg.KafkaEventsEnabled() && cfg.KafkaEventsTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_EVENTS_TOPIC is empty")
	}

	return cfg, nil
}

// KafkaEventsEnabled reports whether fired events should also be published
// to Kafka. The sink is optional and enabled by configuring brokers.
func (c *Config) KafkaEventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// SourceLocation returns the station's fixed-offset time zone.
func (c *Config) SourceLocation() *time.Location {
	name := fmt.Sprintf("UTC%+d", c.SourceTZOffsetHrs)
	return time.FixedZone(name, c.SourceTZOffsetHrs*3600)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseSteps(key string, fallback uint8) (uint8, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint8(v), nil
}

func parseBrokers(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
