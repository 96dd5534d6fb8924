package ratelimit

import (
	"strings"
	"time"

	"github.com/jonathan/resume-scorer/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

const (
	defaultCleanupInterval = 5 * time.Minute
	defaultIdleTimeout     = time.Hour

	// Requests outside the scoring endpoints get this multiple of the
	// scoring limit.
	readMultiplier = 10
)

// FromSettings builds a limiter configuration from the rate_limit section of
// the application config.
func FromSettings(s config.RateLimitConfig) *Config {
	if !s.IsEnabled() {
		return &Config{Enabled: false}
	}

	perMinute := s.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = config.Default().RateLimit.RequestsPerMinute
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    perMinute * readMultiplier,
		DefaultWindow:   time.Minute,
		DefaultBurst:    perMinute * readMultiplier,
		CleanupInterval: defaultCleanupInterval,
		IdleTimeout:     defaultIdleTimeout,
		Whitelist:       parseIPList(s.Whitelist),
		Blacklist:       parseIPList(s.Blacklist),
		EndpointConfigs: DefaultEndpointConfigs(perMinute, s.Burst),
	}
}

// DefaultEndpointConfigs returns the limits for the scoring endpoints.
func DefaultEndpointConfigs(perMinute, burst int) []EndpointConfig {
	return []EndpointConfig{
		{Path: "/api/analyze", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		{Path: "/api/score", Method: "POST", Limit: perMinute, Window: time.Minute, Burst: burst},
		// GET /health is unlimited, handled by the matcher
	}
}

// parseIPList converts a list of IP addresses into a lookup set.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
