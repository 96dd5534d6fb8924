// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/resume-scorer/internal/logger"
)

// Config is the full scorer configuration. It can be loaded from a JSON or
// YAML file; every field is optional and missing values use Default().
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
	Log       LogConfig       `json:"log" yaml:"log"`
	RateLimit RateLimitConfig `json:"rate_limit" yaml:"rate_limit"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	MaxUploadBytes int64    `json:"max_upload_bytes,omitempty" yaml:"max_upload_bytes,omitempty" validate:"gte=0"`
	ReadTimeout    Duration `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty" validate:"gte=0"`
	WriteTimeout   Duration `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty" validate:"gte=0"`
	IdleTimeout    Duration `json:"idle_timeout,omitempty" yaml:"idle_timeout,omitempty" validate:"gte=0"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// EmbeddingConfig selects the embedding provider used for semantic matching.
type EmbeddingConfig struct {
	Provider   string   `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=hashing gemini openai"`
	Model      string   `json:"model,omitempty" yaml:"model,omitempty"`
	BaseURL    string   `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"omitempty,url"`
	APIKey     string   `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Dimensions int      `json:"dimensions,omitempty" yaml:"dimensions,omitempty" validate:"gte=0"`
	BatchSize  int      `json:"batch_size,omitempty" yaml:"batch_size,omitempty" validate:"gte=0"`
	MaxRetries int      `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"gte=0,lte=10"`
	Timeout    Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"gte=0"`
}

// CacheConfig configures the embedding cache. A Redis URL selects Redis;
// otherwise Enabled selects an in-process cache holding at most MaxEntries
// vectors.
type CacheConfig struct {
	Enabled    bool     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	RedisURL   string   `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`
	TTL        Duration `json:"ttl,omitempty" yaml:"ttl,omitempty" validate:"gte=0"`
	Prefix     string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	MaxEntries int      `json:"max_entries,omitempty" yaml:"max_entries,omitempty" validate:"gte=0"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=console json"`
	Level  string `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

// RateLimitConfig configures per-client rate limiting of the HTTP API.
type RateLimitConfig struct {
	Enabled           *bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	RequestsPerMinute int      `json:"requests_per_minute,omitempty" yaml:"requests_per_minute,omitempty" validate:"gte=0"`
	Burst             int      `json:"burst,omitempty" yaml:"burst,omitempty" validate:"gte=0"`
	Whitelist         []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty" validate:"dive,ip"`
	Blacklist         []string `json:"blacklist,omitempty" yaml:"blacklist,omitempty" validate:"dive,ip"`
}

// IsEnabled reports whether rate limiting is on. Unset means enabled.
func (r RateLimitConfig) IsEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// LoggerConfig converts to the logger package's config.
func (l LogConfig) LoggerConfig() logger.Config {
	return logger.Config{Format: l.Format, Level: l.Level}
}

// Default returns the built-in configuration.
func Default() Config {
	enabled := true
	return Config{
		Server: ServerConfig{
			Port:           5000,
			MaxUploadBytes: 10 << 20,
			ReadTimeout:    Duration(30 * time.Second),
			WriteTimeout:   Duration(300 * time.Second),
			IdleTimeout:    Duration(60 * time.Second),
		},
		Embedding: EmbeddingConfig{
			Provider:   "hashing",
			MaxRetries: 2,
			Timeout:    Duration(30 * time.Second),
		},
		Cache: CacheConfig{
			TTL:        Duration(24 * time.Hour),
			Prefix:     "resume-scorer:",
			MaxEntries: 10000,
		},
		Log: LogConfig{
			Format: "console",
			Level:  "info",
		},
		RateLimit: RateLimitConfig{
			Enabled:           &enabled,
			RequestsPerMinute: 30,
			Burst:             5,
		},
	}
}

// Load reads the optional file at path, overlays the environment, fills
// defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	merged := cfg.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

var (
	configValidator = validator.New(validator.WithRequiredStructEnabled())
)

// Validate checks struct-tag ranges and cross-field rules.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' validation (got %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.Embedding.Provider == "gemini" && c.Embedding.APIKey == "" {
		return fmt.Errorf("config error: 'embedding.api_key' (or GEMINI_API_KEY) is required for the gemini provider")
	}
	if c.Embedding.Provider == "hashing" && c.Embedding.Model != "" {
		return fmt.Errorf("config error: 'embedding.model' is not used by the hashing provider")
	}
	if c.Cache.RedisURL != "" && !strings.HasPrefix(c.Cache.RedisURL, "redis://") && !strings.HasPrefix(c.Cache.RedisURL, "rediss://") {
		return fmt.Errorf("config error: 'cache.redis_url' must start with redis:// or rediss://")
	}
	if c.RateLimit.IsEnabled() && c.RateLimit.RequestsPerMinute == 0 {
		return fmt.Errorf("config error: 'rate_limit.requests_per_minute' must be positive when rate limiting is enabled")
	}

	return nil
}

// fieldPath turns a validator namespace like "Config.Embedding.BaseURL"
// into the config key path "embedding.base_url".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snakeCase(p)
	}
	return strings.Join(parts, ".")
}

func snakeCase(s string) string {
	var sb strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				sb.WriteByte('_')
			}
		}
		if upper {
			r += 'a' - 'A'
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// Server
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Server.MaxUploadBytes == 0 {
		result.Server.MaxUploadBytes = defaults.Server.MaxUploadBytes
	}
	if result.Server.ReadTimeout == 0 {
		result.Server.ReadTimeout = defaults.Server.ReadTimeout
	}
	if result.Server.WriteTimeout == 0 {
		result.Server.WriteTimeout = defaults.Server.WriteTimeout
	}
	if result.Server.IdleTimeout == 0 {
		result.Server.IdleTimeout = defaults.Server.IdleTimeout
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}

	// Embedding
	if result.Embedding.Provider == "" {
		result.Embedding.Provider = defaults.Embedding.Provider
	}
	if result.Embedding.Model == "" {
		result.Embedding.Model = defaults.Embedding.Model
	}
	if result.Embedding.BaseURL == "" {
		result.Embedding.BaseURL = defaults.Embedding.BaseURL
	}
	if result.Embedding.APIKey == "" {
		result.Embedding.APIKey = defaults.Embedding.APIKey
	}
	if result.Embedding.Dimensions == 0 {
		result.Embedding.Dimensions = defaults.Embedding.Dimensions
	}
	if result.Embedding.BatchSize == 0 {
		result.Embedding.BatchSize = defaults.Embedding.BatchSize
	}
	if result.Embedding.MaxRetries == 0 {
		result.Embedding.MaxRetries = defaults.Embedding.MaxRetries
	}
	if result.Embedding.Timeout == 0 {
		result.Embedding.Timeout = defaults.Embedding.Timeout
	}

	// Cache
	if result.Cache.RedisURL == "" {
		result.Cache.RedisURL = defaults.Cache.RedisURL
	}
	if result.Cache.TTL == 0 {
		result.Cache.TTL = defaults.Cache.TTL
	}
	if result.Cache.Prefix == "" {
		result.Cache.Prefix = defaults.Cache.Prefix
	}
	if result.Cache.MaxEntries == 0 {
		result.Cache.MaxEntries = defaults.Cache.MaxEntries
	}

	// Log
	if result.Log.Format == "" {
		result.Log.Format = defaults.Log.Format
	}
	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}

	// Rate limit
	if result.RateLimit.Enabled == nil {
		result.RateLimit.Enabled = defaults.RateLimit.Enabled
	}
	if result.RateLimit.RequestsPerMinute == 0 {
		result.RateLimit.RequestsPerMinute = defaults.RateLimit.RequestsPerMinute
	}
	if result.RateLimit.Burst == 0 {
		result.RateLimit.Burst = defaults.RateLimit.Burst
	}

	// Bool fields other than rate_limit.enabled cannot distinguish unset
	// from false, so they are not merged.

	return result
}
