package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ApplyEnv
const (
	EnvPrefix       = "RESUME_SCORER_"
	EnvPort         = "PORT"
	EnvRedisURL     = "REDIS_URL"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// ApplyEnv overlays environment variables onto c. Set variables win over
// file values.
func (c *Config) ApplyEnv() {
	c.Server.Port = getEnvInt(EnvPort, c.Server.Port)
	c.Server.Port = getEnvInt(EnvPrefix+"PORT", c.Server.Port)
	c.Server.MaxUploadBytes = int64(getEnvInt(EnvPrefix+"MAX_UPLOAD_BYTES", int(c.Server.MaxUploadBytes)))
	if origins := getEnvString(EnvPrefix+"ALLOWED_ORIGINS", ""); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}

	c.Embedding.Provider = strings.ToLower(getEnvString(EnvPrefix+"EMBEDDING_PROVIDER", c.Embedding.Provider))
	c.Embedding.Model = getEnvString(EnvPrefix+"EMBEDDING_MODEL", c.Embedding.Model)
	c.Embedding.BaseURL = getEnvString(EnvPrefix+"EMBEDDING_BASE_URL", c.Embedding.BaseURL)
	c.Embedding.Dimensions = getEnvInt(EnvPrefix+"EMBEDDING_DIMENSIONS", c.Embedding.Dimensions)
	c.Embedding.Timeout = Duration(getEnvDuration(EnvPrefix+"EMBEDDING_TIMEOUT", c.Embedding.Timeout.Std()))
	if c.Embedding.APIKey == "" {
		switch c.Embedding.Provider {
		case "gemini":
			c.Embedding.APIKey = os.Getenv(EnvGeminiAPIKey)
		case "openai":
			c.Embedding.APIKey = os.Getenv(EnvOpenAIAPIKey)
		}
	}

	c.Cache.RedisURL = getEnvString(EnvRedisURL, c.Cache.RedisURL)
	c.Cache.Enabled = getEnvBool(EnvPrefix+"CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.TTL = Duration(getEnvDuration(EnvPrefix+"CACHE_TTL", c.Cache.TTL.Std()))
	c.Cache.MaxEntries = getEnvInt(EnvPrefix+"CACHE_MAX_ENTRIES", c.Cache.MaxEntries)

	c.Log.Format = getEnvString(EnvPrefix+"LOG_FORMAT", c.Log.Format)
	c.Log.Level = getEnvString(EnvPrefix+"LOG_LEVEL", c.Log.Level)

	if value := os.Getenv(EnvPrefix + "RATE_LIMIT_ENABLED"); value != "" {
		if enabled, err := strconv.ParseBool(value); err == nil {
			c.RateLimit.Enabled = &enabled
		}
	}
	c.RateLimit.RequestsPerMinute = getEnvInt(EnvPrefix+"RATE_LIMIT_RPM", c.RateLimit.RequestsPerMinute)
	c.RateLimit.Burst = getEnvInt(EnvPrefix+"RATE_LIMIT_BURST", c.RateLimit.Burst)
	if list := getEnvString(EnvPrefix+"RATE_LIMIT_WHITELIST", ""); list != "" {
		c.RateLimit.Whitelist = splitList(list)
	}
	if list := getEnvString(EnvPrefix+"RATE_LIMIT_BLACKLIST", ""); list != "" {
		c.RateLimit.Blacklist = splitList(list)
	}
}

// getEnvString gets an environment variable as a string with a default value.
func getEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool gets an environment variable as a boolean with a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvDuration gets an environment variable as a duration with a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
