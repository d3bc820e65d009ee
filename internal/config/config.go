package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath    string `toml:"db_path"`
	Margin    string `toml:"margin"` // Go duration, e.g. "1h" or "45m"
	ChunkSize int    `toml:"chunk_size"`
	Timezone  string `toml:"timezone"`
	LogLevel  string `toml:"log_level"`
	LogFile   string `toml:"log_file"`
}

func defaults(home string) *Config {
	return &Config{
		DBPath:    filepath.Join(home, ".config", "backtime", "backtime.db"),
		Margin:    "1h",
		ChunkSize: 500,
		Timezone:  "Local",
		LogLevel:  "info",
	}
}

// DefaultPath is where Load looks when no explicit file is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "backtime", "config.toml"), nil
}

// Load reads cfgPath (or the default location when empty) over the defaults.
// A missing default file is fine; a missing explicit file is an error.
func Load(cfgPath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := defaults(home)

	explicit := cfgPath != ""
	if !explicit {
		cfgPath = filepath.Join(home, ".config", "backtime", "config.toml")
	}
	cfgPath = expandHome(cfgPath, home)

	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", cfgPath, err)
	}

	// expand ~ in paths
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.LogFile = expandHome(cfg.LogFile, home)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("config: db_path is empty")
	}
	if _, err := c.MarginDuration(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("config: chunk_size must not be negative, got %d", c.ChunkSize)
	}
	return nil
}

func (c *Config) MarginDuration() (time.Duration, error) {
	if c.Margin == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(c.Margin)
	if err != nil {
		return 0, fmt.Errorf("config: margin %q: %w", c.Margin, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config: margin must not be negative, got %s", d)
	}
	return d, nil
}

func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
