// Package config loads the gateway configuration from defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	BindPortEnvVar  = "PORT"
	BindPortDefault = "8080"

	UpstashURLEnvVar   = "UPSTASH_REDIS_REST_URL"
	UpstashTokenEnvVar = "UPSTASH_REDIS_REST_TOKEN"

	StoreBackendEnvVar = "STORE_BACKEND"
	DBUrlEnvVar        = "DATABASE_URL"

	TelemetryEnabledEnvVar = "OTEL_ENABLED"
	LogLevelEnvVar         = "LOG_LEVEL"
)

const (
	StoreTimeoutSecEnvVar  = "STORE_TIMEOUT_SEC"
	StoreTimeoutSecDefault = 5

	FetchTimeoutSecEnvVar  = "FETCH_TIMEOUT_SEC"
	FetchTimeoutSecDefault = 10

	// PingIntervalSecEnvVar controls how often an open push channel emits a ping event.
	PingIntervalSecEnvVar  = "SSE_PING_INTERVAL_SEC"
	PingIntervalSecDefault = 30
)

const defaultLogLevel = "info"

// StoreBackend selects the implementation behind the key-value store adapter.
type StoreBackend string

const (
	StoreBackendUpstash StoreBackend = "upstash"
	StoreBackendSQL     StoreBackend = "sql"
	StoreBackendMemory  StoreBackend = "memory"
)

// Config is the complete runtime configuration of the gateway.
type Config struct {
	Port string `yaml:"port"`

	Store StoreConfig `yaml:"store"`

	FetchTimeoutSec int `yaml:"fetch_timeout_sec"`
	PingIntervalSec int `yaml:"ping_interval_sec"`

	TelemetryEnabled bool   `yaml:"telemetry_enabled"`
	LogLevel         string `yaml:"log_level"`
}

// StoreConfig describes the backing key-value store.
type StoreConfig struct {
	// Backend is one of upstash, sql or memory.
	// When empty it is derived from which of UpstashURL and DSN is set.
	Backend StoreBackend `yaml:"backend"`

	UpstashURL   string `yaml:"upstash_url"`
	UpstashToken string `yaml:"upstash_token"`

	// DSN is used by the sql backend. A postgres:// DSN selects Postgres,
	// anything else is treated as a SQLite file path.
	DSN string `yaml:"dsn"`

	TimeoutSec int `yaml:"timeout_sec"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Config {
	return &Config{
		Port: BindPortDefault,
		Store: StoreConfig{
			TimeoutSec: StoreTimeoutSecDefault,
		},
		FetchTimeoutSec: FetchTimeoutSecDefault,
		PingIntervalSec: PingIntervalSecDefault,
		LogLevel:        defaultLogLevel,
	}
}

// Load builds the configuration.
// precedence: environment variable > config file > default
// The config file is optional; an empty path skips it.
func Load(fs afero.Fs, path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := c.applyEnv(fs); err != nil {
		return nil, err
	}
	if err := c.resolveStoreBackend(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(fs afero.Fs) error {
	if v := os.Getenv(BindPortEnvVar); v != "" {
		c.Port = v
	}
	if v := os.Getenv(UpstashURLEnvVar); v != "" {
		c.Store.UpstashURL = v
	}
	token, err := getEnvOrFile(fs, UpstashTokenEnvVar)
	if err != nil {
		return fmt.Errorf("failed to get upstash token: %w", err)
	}
	if token != "" {
		c.Store.UpstashToken = token
	}
	if v := os.Getenv(StoreBackendEnvVar); v != "" {
		c.Store.Backend = StoreBackend(strings.ToLower(v))
	}
	if v := os.Getenv(DBUrlEnvVar); v != "" {
		c.Store.DSN = v
	}
	if v := os.Getenv(LogLevelEnvVar); v != "" {
		c.LogLevel = strings.ToLower(v)
	}

	if err := positiveIntEnv(StoreTimeoutSecEnvVar, &c.Store.TimeoutSec); err != nil {
		return err
	}
	if err := positiveIntEnv(FetchTimeoutSecEnvVar, &c.FetchTimeoutSec); err != nil {
		return err
	}
	if err := positiveIntEnv(PingIntervalSecEnvVar, &c.PingIntervalSec); err != nil {
		return err
	}

	if v := os.Getenv(TelemetryEnabledEnvVar); v != "" {
		switch strings.ToLower(v) {
		case "true", "1":
			c.TelemetryEnabled = true
		case "false", "0":
			c.TelemetryEnabled = false
		default:
			return fmt.Errorf(
				"invalid value for %s environment variable: '%s', valid values are 'true' or 'false'",
				TelemetryEnabledEnvVar, v,
			)
		}
	}
	return nil
}

// resolveStoreBackend validates the configured backend, or picks one when none was given:
// upstash if a REST URL is set, sql if a DSN is set, memory otherwise.
func (c *Config) resolveStoreBackend() error {
	switch c.Store.Backend {
	case "":
		switch {
		case c.Store.UpstashURL != "":
			c.Store.Backend = StoreBackendUpstash
		case c.Store.DSN != "":
			c.Store.Backend = StoreBackendSQL
		default:
			c.Store.Backend = StoreBackendMemory
		}
	case StoreBackendUpstash:
		if c.Store.UpstashURL == "" {
			return fmt.Errorf("store backend %s requires %s to be set", StoreBackendUpstash, UpstashURLEnvVar)
		}
	case StoreBackendSQL:
		if c.Store.DSN == "" {
			return fmt.Errorf("store backend %s requires %s to be set", StoreBackendSQL, DBUrlEnvVar)
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf(
			"invalid store backend '%s', valid values are '%s', '%s' and '%s'",
			c.Store.Backend, StoreBackendUpstash, StoreBackendSQL, StoreBackendMemory,
		)
	}
	return nil
}

// StoreTimeout returns the per-command timeout for the backing store.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.Store.TimeoutSec) * time.Second
}

// FetchTimeout returns the timeout for outbound content retrieval.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// PingInterval returns the keep-alive interval of push channels.
func (c *Config) PingInterval() time.Duration {
	return time.Duration(c.PingIntervalSec) * time.Second
}

// getEnvOrFile returns the value of the given environment variable.
// If the environment variable is not set, it checks for a corresponding
// _FILE environment variable and reads the value from the file if it exists.
// If both are set, the value of the plain environment variable takes precedence.
func getEnvOrFile(fs afero.Fs, envVar string) (string, error) {
	val := os.Getenv(envVar)
	if val != "" {
		return val, nil
	}

	fileEnvVar := envVar + "_FILE"
	filePath := os.Getenv(fileEnvVar)
	if filePath != "" {
		data, err := afero.ReadFile(fs, filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", fileEnvVar, err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	return "", nil
}

func positiveIntEnv(envVar string, dst *int) error {
	s := strings.TrimSpace(os.Getenv(envVar))
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fmt.Errorf("invalid value for %s: '%s', must be a positive integer", envVar, s)
	}
	*dst = v
	return nil
}
