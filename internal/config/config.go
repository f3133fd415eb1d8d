// ABOUTME: Liftlog configuration management with backend selection.
// ABOUTME: Handles the JSON config file, LIFTLOG_* env overrides, validation, and the storage factory.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/harperreed/liftlog/internal/charm"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is the prefix for environment overrides, e.g. LIFTLOG_BACKEND.
	EnvPrefix = "liftlog"

	DefaultBackend    = "sqlite"
	DefaultLogLevel   = "warn"
	DefaultListenAddr = "127.0.0.1:8080"
	DefaultTopLimit   = 10
)

// Keys lists the settable configuration keys in display order.
var Keys = []string{"backend", "data_dir", "log_level", "listen_addr", "top_limit"}

// Config stores liftlog configuration.
type Config struct {
	// Backend selects where raw uploads live: "sqlite" (default), "badger" or "charm".
	Backend string `json:"backend,omitempty" envconfig:"backend" validate:"omitempty,oneof=sqlite badger charm"`

	// DataDir is the root directory for data storage.
	// SQLite puts liftlog.db here, Badger uses a badger/ subdirectory.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/liftlog.
	DataDir string `json:"data_dir,omitempty" envconfig:"data_dir"`

	LogLevel   string `json:"log_level,omitempty" envconfig:"log_level" validate:"omitempty,oneof=debug info warn error"`
	ListenAddr string `json:"listen_addr,omitempty" envconfig:"listen_addr"`

	// TopLimit is the default number of sets returned by top-set queries.
	TopLimit int `json:"top_limit,omitempty" envconfig:"top_limit" validate:"gte=0"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return DefaultBackend
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetListenAddr returns the HTTP listen address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// GetTopLimit returns the default top-set limit.
func (c *Config) GetTopLimit() int {
	if c.TopLimit <= 0 {
		return DefaultTopLimit
	}
	return c.TopLimit
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case "sqlite":
		return storage.Open(filepath.Join(dataDir, storage.DBFilename))
	case "badger":
		return storage.OpenBadger(filepath.Join(dataDir, "badger"))
	case "charm":
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// Set assigns a configuration key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "log_level":
		c.LogLevel = strings.ToLower(value)
	case "listen_addr":
		c.ListenAddr = value
	case "top_limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("top_limit must be a number: %w", err)
		}
		c.TopLimit = n
	default:
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

// Get returns the effective value for a configuration key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "backend":
		return c.GetBackend(), nil
	case "data_dir":
		return c.GetDataDir(), nil
	case "log_level":
		return c.GetLogLevel(), nil
	case "listen_addr":
		return c.GetListenAddr(), nil
	case "top_limit":
		return strconv.Itoa(c.GetTopLimit()), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "liftlog", "config.json")
}

// LoadFile reads config from disk without applying environment overrides.
func LoadFile() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads config from disk, applies LIFTLOG_* overrides, and validates.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
