// Package config handles the XDG configuration directory, the TOML config
// file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "tasklist"

	// ConfigFile is the TOML config filename inside the config directory.
	ConfigFile = "config.toml"

	// LogFile is the default diagnostic log filename used by the TUI.
	LogFile = "tasklist.log"

	// DefaultBaseURL is the task API endpoint used when none is configured.
	DefaultBaseURL = "http://localhost:8080"

	// DefaultServerAddr is the listen address of the serve command.
	DefaultServerAddr = ":8080"

	// DefaultDatabase is the database name used by the mongo store.
	DefaultDatabase = "tasklist"
)

// Store drivers accepted by the serve command.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	// BaseURL is the task API endpoint all routes are appended to.
	BaseURL string `toml:"base_url"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFormat is one of text, json, logfmt.
	LogFormat string `toml:"log_format"`

	// LogPath overrides the TUI log file location.
	LogPath string `toml:"log_file"`

	// LegacyEdit makes saving an edit also reset the completed flag,
	// matching servers that expect both fields on every update.
	LegacyEdit bool `toml:"legacy_edit"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig configures the reference server started by the serve command.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	Driver   string `toml:"driver"`
	DSN      string `toml:"dsn"`
	Database string `toml:"database"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasklist or $HOME/.config/tasklist.
// The config file is read if present, then environment overrides are applied.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	setDefaults(cfg)

	if cfg.HasConfigFile() {
		if err := loadConfigFile(cfg, cfg.ConfigPath()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", cfg.ConfigPath(), err)
		}
	}

	loadFromEnv(cfg)
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
	cfg.Server = ServerConfig{
		Addr:     DefaultServerAddr,
		Driver:   DriverMemory,
		Database: DefaultDatabase,
	}
}

func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from TASKLIST_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKLIST_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TASKLIST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKLIST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKLIST_LOG_FILE"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("TASKLIST_LEGACY_EDIT"); v != "" {
		cfg.LegacyEdit = boolFromString(v)
	}
	if v := os.Getenv("TASKLIST_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("TASKLIST_STORE_DRIVER"); v != "" {
		cfg.Server.Driver = v
	}
	if v := os.Getenv("TASKLIST_STORE_DSN"); v != "" {
		cfg.Server.DSN = v
	}
	if v := os.Getenv("TASKLIST_STORE_DATABASE"); v != "" {
		cfg.Server.Database = v
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// Validate checks the settings client commands depend on: the API base URL
// and logging. The [server] table is left to ValidateServer.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	return c.validateLogging()
}

// ValidateServer checks the settings the serve command depends on.
func (c *Config) ValidateServer() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	switch c.Server.Driver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverMySQL, DriverMongo:
	default:
		return fmt.Errorf("invalid server.driver %q", c.Server.Driver)
	}
	if c.Server.Driver != DriverMemory && c.Server.DSN == "" {
		return errors.New("server.dsn is required for driver " + c.Server.Driver)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("invalid log_format %q: must be one of text, json, logfmt", c.LogFormat)
	}
	return nil
}

// ConfigPath returns the path to the TOML config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// HasConfigFile checks if the config file exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

// LogFilePath returns the TUI log file path.
func (c *Config) LogFilePath() string {
	if c.LogPath != "" {
		return c.LogPath
	}
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
