// Package config loads floorplan settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
)

type Config struct {
	DataDir  string `toml:"data_dir"`
	LogLevel string `toml:"log_level"`
	Catalog  string `toml:"catalog"` // optional TOML file with table templates

	Store  StoreConfig  `toml:"store"`
	Canvas CanvasConfig `toml:"canvas"`
	Host   HostConfig   `toml:"host"`
}

type StoreConfig struct {
	Driver   string `toml:"driver"`
	DSN      string `toml:"dsn"`
	Database string `toml:"database"` // mongo database name

	// DSNSecret names a keychain entry holding the DSN. It is used when DSN
	// is empty.
	DSNSecret string `toml:"dsn_secret"`
}

type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

type HostConfig struct {
	// ResetSchedule is a cron expression for clearing table statuses.
	ResetSchedule string `toml:"reset_schedule"`
}

// Default returns the built-in configuration rooted at the user's data dir.
func Default() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		DataDir:  filepath.Join(homeDir, ".local", "share", "floorplan"),
		LogLevel: "info",
		Store:    StoreConfig{Driver: DriverSQLite, Database: "floorplan"},
		Canvas:   CanvasConfig{Width: 800, Height: 600},
		Host:     HostConfig{ResetSchedule: "0 4 * * *"},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "floorplan", "config.toml")
}

// Load reads the file at path on top of the defaults. A missing file is not
// an error. Environment overrides are applied last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	if v := os.Getenv("FLOORPLAN_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("FLOORPLAN_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the fields the rest of the program relies on.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	case DriverMongo:
		if !c.Store.hasDSN() {
			return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if (c.Store.Driver == DriverPostgres || c.Store.Driver == DriverMySQL) && !c.Store.hasDSN() {
		return fmt.Errorf("store.dsn is required for driver %q", c.Store.Driver)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %.0f×%.0f", c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}

func (s StoreConfig) hasDSN() bool {
	return s.DSN != "" || s.DSNSecret != ""
}

// SQLitePath is the database file used by the sqlite driver.
func (c Config) SQLitePath() string {
	if c.Store.DSN != "" {
		return c.Store.DSN
	}
	return filepath.Join(c.DataDir, "floorplan.db")
}
