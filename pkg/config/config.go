package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/protoreg/pkg/observability"
)

// DefaultConfigFile is the config file looked up in the working directory
// when no explicit path is given.
const DefaultConfigFile = ".protoreg.yaml"

// Config holds all tool configuration
type Config struct {
	// Registry configuration
	Registry RegistryConfig `yaml:"registry"`

	// Retrieval configuration
	Retrieve RetrieveConfig `yaml:"retrieve"`

	// Observability configuration
	Observability ObservabilityConfig `yaml:"observability"`
}

// RegistryConfig holds schema registry client configuration
type RegistryConfig struct {
	// Base URLs of the registry; the first reachable one is used
	URLs []string `yaml:"urls"`

	// Authentication (opaque to the pipeline; forwarded on every request)
	BearerToken   string `yaml:"bearer_token"`
	BasicUser     string `yaml:"basic_user"`
	BasicPassword string `yaml:"basic_password"`

	// Per-request timeout
	Timeout time.Duration `yaml:"timeout"`

	// Retry policy for transient transport failures
	RetryMaxAttempts  int           `yaml:"retry_max_attempts"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay"`
	RetryMaxDelay     time.Duration `yaml:"retry_max_delay"`

	// Number of immutable (subject, version) responses kept in the LRU cache
	CacheSize int `yaml:"cache_size"`
}

// RetrieveConfig holds retrieval pipeline configuration
type RetrieveConfig struct {
	// Maximum concurrent reference fetches
	Concurrency int `yaml:"concurrency"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel observability.LogLevel `yaml:"-"`

	// LogLevelName is the textual form used in the YAML file
	LogLevelName string `yaml:"log_level"`
}

// Default returns the built-in defaults
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			Timeout:           30 * time.Second,
			RetryMaxAttempts:  3,
			RetryInitialDelay: 500 * time.Millisecond,
			RetryMaxDelay:     10 * time.Second,
			CacheSize:         256,
		},
		Retrieve: RetrieveConfig{
			Concurrency: 8,
		},
		Observability: ObservabilityConfig{
			LogLevel:     observability.InfoLevel,
			LogLevelName: "info",
		},
	}
}

// Load builds configuration from defaults, an optional YAML file, and
// environment variables, in increasing precedence. An empty path means
// DefaultConfigFile if it exists, otherwise file loading is skipped.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Observability.LogLevelName != "" {
		cfg.Observability.LogLevel = observability.ParseLogLevel(cfg.Observability.LogLevelName)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides configuration from PROTOREG_* environment variables
func (c *Config) applyEnv() {
	if urls := getEnv("PROTOREG_REGISTRY_URLS", ""); urls != "" {
		c.Registry.URLs = splitAndTrim(urls)
	}
	if token := getEnv("PROTOREG_BEARER_TOKEN", ""); token != "" {
		c.Registry.BearerToken = token
	}
	if user := getEnv("PROTOREG_BASIC_USER", ""); user != "" {
		c.Registry.BasicUser = user
	}
	if pass := getEnv("PROTOREG_BASIC_PASSWORD", ""); pass != "" {
		c.Registry.BasicPassword = pass
	}
	if timeout := getEnvDuration("PROTOREG_TIMEOUT", 0); timeout > 0 {
		c.Registry.Timeout = timeout
	}
	if attempts := getEnvInt("PROTOREG_RETRY_MAX_ATTEMPTS", 0); attempts > 0 {
		c.Registry.RetryMaxAttempts = attempts
	}
	if delay := getEnvDuration("PROTOREG_RETRY_INITIAL_DELAY", 0); delay > 0 {
		c.Registry.RetryInitialDelay = delay
	}
	if delay := getEnvDuration("PROTOREG_RETRY_MAX_DELAY", 0); delay > 0 {
		c.Registry.RetryMaxDelay = delay
	}
	if size := getEnvInt("PROTOREG_CACHE_SIZE", 0); size > 0 {
		c.Registry.CacheSize = size
	}
	if conc := getEnvInt("PROTOREG_RETRIEVE_CONCURRENCY", 0); conc > 0 {
		c.Retrieve.Concurrency = conc
	}
	if level := getEnv("PROTOREG_LOG_LEVEL", ""); level != "" {
		c.Observability.LogLevelName = level
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Registry.Timeout <= 0 {
		return fmt.Errorf("registry timeout must be positive")
	}
	if c.Registry.RetryMaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1")
	}
	if c.Registry.RetryInitialDelay <= 0 {
		return fmt.Errorf("retry initial delay must be positive")
	}
	if c.Registry.RetryMaxDelay < c.Registry.RetryInitialDelay {
		return fmt.Errorf("retry max delay must be at least the initial delay")
	}
	if c.Registry.CacheSize < 1 {
		return fmt.Errorf("cache size must be at least 1")
	}
	if c.Retrieve.Concurrency < 1 {
		return fmt.Errorf("retrieve concurrency must be at least 1")
	}
	return nil
}

// splitAndTrim splits a comma-separated list and trims whitespace
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
