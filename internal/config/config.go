// Package config loads the daemon configuration from environment
// variables, with defaults matching the public BIWAPP widget feed.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/saicode/bombalarm/internal/biwapp"
)

// Config holds all configuration for the alarm daemon.
type Config struct {
	// Feed configuration
	FeedURL      string
	FeedLocation string

	// Delivery configuration
	WebhookURL    string
	DeliveryDelay time.Duration

	// Map rendering (optional, maps are skipped when empty)
	MapboxToken string

	// Polling
	PollInterval time.Duration

	// Local state files
	StateDir string

	// HTTP status/metrics listener
	ListenAddr string
}

// FromEnv loads configuration from environment variables. The Discord
// webhook URL is the only required setting.
func FromEnv() (*Config, error) {
	cfg := &Config{
		FeedURL:      getEnv("BIWAPP_FEED_URL", biwapp.DefaultFeedURL),
		FeedLocation: getEnv("BIWAPP_LOCATION", "allPWA"),

		WebhookURL:    os.Getenv("DISCORD_WEBHOOK_URL"),
		DeliveryDelay: getDurationEnv("DELIVERY_DELAY", 2*time.Second),

		MapboxToken: os.Getenv("MAPBOX_TOKEN"),

		PollInterval: getDurationEnv("POLL_INTERVAL", 2*time.Minute),

		StateDir: getEnv("STATE_DIR", "."),

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
	}

	if cfg.WebhookURL == "" {
		return nil, errors.New("DISCORD_WEBHOOK_URL must be set")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable or returns a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
