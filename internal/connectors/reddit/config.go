package reddit

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/threadscout/internal/core/domain"
)

const (
	// DefaultBaseURL is the OAuth API host.
	DefaultBaseURL = "https://oauth.reddit.com"

	// DefaultTokenURL is the app-only token endpoint.
	DefaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	// DefaultRequestsPerMinute is Reddit's documented free-tier budget.
	DefaultRequestsPerMinute = 60

	// MaxPageSize is the largest listing page the API returns.
	MaxPageSize = 100
)

// Config holds the settings for a Reddit client.
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string

	// RequestsPerMinute is the proactive request budget.
	RequestsPerMinute int

	// BaseURL and TokenURL override the API endpoints (tests only).
	BaseURL  string
	TokenURL string
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(s domain.RedditSettings) Config {
	return Config{
		ClientID:          s.ClientID,
		ClientSecret:      s.ClientSecret,
		UserAgent:         s.UserAgent,
		RequestsPerMinute: s.RequestsPerMinute,
	}
}

// withDefaults fills unset fields and validates credentials.
func (c Config) withDefaults() (Config, error) {
	if c.ClientID == "" || c.ClientSecret == "" {
		return c, fmt.Errorf("%w: reddit client_id and client_secret are required", domain.ErrAuthInvalid)
	}
	if c.UserAgent == "" {
		c.UserAgent = domain.DefaultAppSettings().Reddit.UserAgent
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return c, nil
}

// normaliseCommunity strips an "r/" or "/r/" prefix.
func normaliseCommunity(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimPrefix(name, "r/")
	return strings.Trim(name, "/")
}
