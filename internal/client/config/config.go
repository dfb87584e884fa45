package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/nodevault/internal/client/auth"
	"github.com/dmitrijs2005/nodevault/internal/common"
	"github.com/dmitrijs2005/nodevault/internal/cryptox"
	"github.com/dmitrijs2005/nodevault/internal/logging"
)

const (
	DefaultAuthFile          = "auth.json"
	DefaultDatabaseFile      = "vault.db"
	DefaultMinPasswordLength = auth.DefaultMinPasswordLength
	DefaultLogLevel          = "info"
)

// Config holds runtime settings for the NodeVault CLI.
//
// AuthFile and DatabaseFile are resolved against DataDir unless absolute.
type Config struct {
	DataDir           string
	AuthFile          string
	DatabaseFile      string
	MinPasswordLength int
	Iterations        int
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = defaultDataDir()
	c.AuthFile = DefaultAuthFile
	c.DatabaseFile = DefaultDatabaseFile
	c.MinPasswordLength = DefaultMinPasswordLength
	c.Iterations = cryptox.DefaultIterations
	c.LogLevel = DefaultLogLevel
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, common.AppDirName)
}

// AuthPath is the location of the master password record.
func (c *Config) AuthPath() string {
	return c.resolve(c.AuthFile)
}

// DatabasePath is the location of the SQLite record store.
func (c *Config) DatabasePath() string {
	return c.resolve(c.DatabaseFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// Validate rejects settings the application cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data dir must not be empty"))
	}
	if c.AuthFile == "" {
		errs = append(errs, errors.New("auth file must not be empty"))
	}
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("database file must not be empty"))
	}
	if c.MinPasswordLength <= 0 {
		errs = append(errs, fmt.Errorf("min password length must be positive, got %d", c.MinPasswordLength))
	}
	if c.Iterations <= 0 {
		errs = append(errs, fmt.Errorf("iterations must be positive, got %d", c.Iterations))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
