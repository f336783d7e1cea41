package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// AppConfig carries everything both binaries read from the environment.
// Every value has a working default except the provider key, whose absence
// is the documented degraded mode rather than an error.
type AppConfig struct {
	Port        string
	OpenAIKey   string
	OpenAIModel string

	// APIBaseURL is where the watcher reaches the backend.
	APIBaseURL string
	// FeedURL is the feed surface the watcher drives the browser to.
	FeedURL string

	// DevCORS accepts any origin, for local development only.
	DevCORS bool

	SettingsFile string

	ProviderTimeout time.Duration
	SyncTimeout     time.Duration
	ResyncInterval  time.Duration
	Debounce        time.Duration
}

func Load() *AppConfig {
	return &AppConfig{
		Port:            envOr("PORT", "3000"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", ""),
		APIBaseURL:      envOr("FEEDBUDDY_API_URL", "http://localhost:3000"),
		FeedURL:         envOr("FEEDBUDDY_FEED_URL", "https://www.linkedin.com/feed/"),
		DevCORS:         envBool("FEEDBUDDY_DEV_CORS"),
		SettingsFile:    envOr("FEEDBUDDY_SETTINGS_FILE", "feedbuddy-settings.json"),
		ProviderTimeout: envDuration("FEEDBUDDY_PROVIDER_TIMEOUT", 30*time.Second),
		SyncTimeout:     envDuration("FEEDBUDDY_SYNC_TIMEOUT", 15*time.Second),
		ResyncInterval:  envDuration("FEEDBUDDY_RESYNC_INTERVAL", 30*time.Second),
		Debounce:        envDuration("FEEDBUDDY_DEBOUNCE", 2*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Config: invalid duration %q for %s, using %v", raw, key, fallback)
		return fallback
	}
	return d
}
