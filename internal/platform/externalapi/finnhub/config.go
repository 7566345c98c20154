// Package finnhub provides a client for the Finnhub market-data API.
package finnhub

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the public Finnhub REST endpoint.
	DefaultBaseURL = "https://finnhub.io/api/v1"
	// DefaultRequestsPerMinute matches the free-tier quota.
	DefaultRequestsPerMinute = 60

	// EnvKeyAPIKey is the primary credential variable.
	EnvKeyAPIKey = "FINNHUB_API_KEY"
	// EnvKeyAPIKeyFallback is read when EnvKeyAPIKey is unset, for deployments sharing the frontend's env.
	EnvKeyAPIKeyFallback = "NEXT_PUBLIC_FINNHUB_API_KEY"
)

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey            string        // API key sent as the token query parameter
	BaseURL           string        // Base URL for the API (e.g., "https://finnhub.io/api/v1")
	Timeout           time.Duration // HTTP request timeout
	RequestsPerMinute int           // Outbound request budget; 0 disables limiting
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("FINNHUB_BASE_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	rpm := DefaultRequestsPerMinute
	if v, err := strconv.Atoi(os.Getenv("FINNHUB_RATE_LIMIT")); err == nil && v >= 0 {
		rpm = v
	}
	key := os.Getenv(EnvKeyAPIKey)
	if key == "" {
		key = os.Getenv(EnvKeyAPIKeyFallback)
	}
	return Config{
		APIKey:            key,
		BaseURL:           base,
		Timeout:           10 * time.Second,
		RequestsPerMinute: rpm,
	}
}
