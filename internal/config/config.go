// Package config loads and validates the service configuration from YAML,
// with ${ENV} expansion and optional .env loading.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/megamenu/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Sources []SourceType  `yaml:"sources,omitempty"` // ordered acquisition strategies
	Cache   CacheConfig   `yaml:"cache"`
	Retry   RetryConfig   `yaml:"retry"`
	Server  ServerConfig  `yaml:"server"`
	Daemon  DaemonConfig  `yaml:"daemon"`
	Logging LoggingConfig `yaml:"logging"`
}

// SourceType selects a retrieval strategy.
type SourceType string

const (
	SourceFile SourceType = "file" // direct raw-content retrieval by server-relative path
	SourceMeta SourceType = "meta" // metadata lookup, then content retrieval by resolved path
	SourceList SourceType = "list" // HTML list-view extraction
	SourceGit  SourceType = "git"  // menu file read from a git repository
)

// StoreConfig describes the remote document store holding the menu file.
// This is the properties bag the host platform previously supplied.
type StoreConfig struct {
	BaseURL   string    `yaml:"base_url"`
	SitePath  string    `yaml:"site_path,omitempty"` // server-relative site prefix
	Folder    string    `yaml:"folder,omitempty"`    // folder holding the menu file
	Filename  string    `yaml:"filename,omitempty"`  // menu source file name
	ConstName string    `yaml:"const_name,omitempty"`
	AuthToken string    `yaml:"auth_token,omitempty"`
	ListURL   string    `yaml:"list_url,omitempty"` // list-view page for the list source
	Git       GitConfig `yaml:"git,omitempty"`
}

// GitConfig describes the repository used by the git source.
type GitConfig struct {
	URL    string `yaml:"url,omitempty"`
	Branch string `yaml:"branch,omitempty"`
	Path   string `yaml:"path,omitempty"` // path of the menu file inside the repo
}

// CacheBackend selects the cache implementation.
type CacheBackend string

const (
	CacheMemory CacheBackend = "memory"
	CacheSQLite CacheBackend = "sqlite"
)

// CacheConfig controls the TTL cache. TTL is a duration string ("30m").
type CacheConfig struct {
	Backend CacheBackend `yaml:"backend,omitempty"`
	Path    string       `yaml:"path,omitempty"` // sqlite database path
	TTL     string       `yaml:"ttl,omitempty"`
}

// TTLDuration parses the configured TTL; zero/missing falls back to the
// default.
func (c CacheConfig) TTLDuration() time.Duration {
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		return d
	}
	return DefaultTTL
}

// RetryConfig maps onto retry.Policy. Delays are duration strings.
type RetryConfig struct {
	Mode       string `yaml:"mode,omitempty"` // fixed|linear|exponential
	Initial    string `yaml:"initial,omitempty"`
	Max        string `yaml:"max,omitempty"`
	MaxRetries int    `yaml:"max_retries"`
}

// InitialDuration parses the initial backoff delay (0 when unset).
func (c RetryConfig) InitialDuration() time.Duration {
	d, _ := time.ParseDuration(c.Initial)
	return d
}

// MaxDuration parses the backoff cap (0 when unset).
func (c RetryConfig) MaxDuration() time.Duration {
	d, _ := time.ParseDuration(c.Max)
	return d
}

// ServerConfig controls the HTTP surface.
type ServerConfig struct {
	Addr       string `yaml:"addr,omitempty"`
	AdminToken string `yaml:"admin_token,omitempty"` // required for the upload endpoint
}

// DaemonConfig controls background refresh and invalidation.
type DaemonConfig struct {
	RefreshInterval string     `yaml:"refresh_interval,omitempty"`
	WatchConfig     bool       `yaml:"watch_config"`
	NATS            NATSConfig `yaml:"nats,omitempty"`
}

// RefreshDuration parses the refresh interval; zero/missing falls back to
// the default.
func (c DaemonConfig) RefreshDuration() time.Duration {
	if d, err := time.ParseDuration(c.RefreshInterval); err == nil && d > 0 {
		return d
	}
	return DefaultRefresh
}

// NATSConfig controls the cache-invalidation bus.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// LoggingConfig controls slog setup.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug|info|warn|error
	Format string `yaml:"format,omitempty"` // text|json
}

// Load loads configuration from the specified file, expanding ${ENV}
// references after loading any .env file present.
func Load(configPath string) (*Config, error) {
	// Load .env if present; existing process env wins.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Note: .env file not loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- path comes from the CLI flag
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to read config file")
	}

	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to parse config file")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints not expressible as defaults.
func (c *Config) Validate() error {
	for _, s := range c.Sources {
		switch s {
		case SourceFile, SourceMeta:
			if c.Store.BaseURL == "" {
				return errors.ConfigError("store.base_url is required for file/meta sources")
			}
		case SourceList:
			if c.Store.ListURL == "" {
				return errors.ConfigError("store.list_url is required for the list source")
			}
		case SourceGit:
			if c.Store.Git.URL == "" || c.Store.Git.Path == "" {
				return errors.ConfigError("store.git.url and store.git.path are required for the git source")
			}
		default:
			return errors.ConfigError("unknown source type").WithContext("source", string(s))
		}
	}
	if c.Cache.Backend == CacheSQLite && c.Cache.Path == "" {
		return errors.ConfigError("cache.path is required for the sqlite backend")
	}
	for _, field := range []struct{ name, value string }{
		{"cache.ttl", c.Cache.TTL},
		{"retry.initial", c.Retry.Initial},
		{"retry.max", c.Retry.Max},
		{"daemon.refresh_interval", c.Daemon.RefreshInterval},
	} {
		if field.value == "" {
			continue
		}
		if _, err := time.ParseDuration(field.value); err != nil {
			return errors.ConfigError("invalid duration").
				WithContext("field", field.name).
				WithContext("value", field.value)
		}
	}
	return nil
}
