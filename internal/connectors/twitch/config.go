package twitch

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/clipper/internal/core/domain"
	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the Helix API root.
	DefaultBaseURL = "https://api.twitch.tv/helix"

	// DefaultRequestsPerSecond is the proactive throttle rate.
	// Helix allows 800 points per minute for user tokens.
	DefaultRequestsPerSecond = 10.0

	// EnvClientID is the environment variable holding the application client ID.
	EnvClientID = "CLIPPER_CLIENT_ID"
)

// Config holds connector settings.
type Config struct {
	// ClientID is the registered application's client ID. Required.
	ClientID string

	// BaseURL overrides DefaultBaseURL.
	BaseURL string

	// RequestsPerSecond overrides DefaultRequestsPerSecond.
	RequestsPerSecond float64

	// RetryDelay overrides the initial retry backoff.
	RetryDelay time.Duration
}

// ConfigFromStore builds a Config from the config store.
// envClientID, when non-empty, takes precedence over the stored client ID.
func ConfigFromStore(store driven.ConfigStore, envClientID string) Config {
	cfg := Config{
		ClientID:          strings.TrimSpace(envClientID),
		RequestsPerSecond: store.GetFloat(driven.ConfigRequestsPerSecond),
	}
	if cfg.ClientID == "" {
		cfg.ClientID = strings.TrimSpace(store.GetString(driven.ConfigClientID))
	}
	return cfg
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: twitch client ID is not configured (set %s or %s)",
			domain.ErrInvalidInput, EnvClientID, driven.ConfigClientID)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: requests per second must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = RetryDelay
	}
	return c
}
