// Package config loads potd's infrastructure settings: where the ledger
// lives, how to reach the judge, and how to reach the shared leaderboard.
// User preferences (handle, timezone) live in the ledger, not here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/potd/internal/constants"
)

// Environment variable names
const (
	EnvLedger         = "POTD_LEDGER"
	EnvJudgeURL       = "POTD_JUDGE_URL"
	EnvLeaderboardDSN = "POTD_LEADERBOARD_DSN"
	EnvDebug          = "POTD_DEBUG"
)

// Config holds all potd configuration.
type Config struct {
	Ledger      string            `yaml:"ledger"`
	Debug       bool              `yaml:"debug"`
	Judge       JudgeConfig       `yaml:"judge"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Watch       WatchConfig       `yaml:"watch"`

	// path is the file the config was read from, empty when defaults only.
	path string
}

// JudgeConfig controls calls to the judge's public API.
type JudgeConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateEvery time.Duration `yaml:"rate_every"` // minimum spacing between requests
	Burst     int           `yaml:"burst"`
}

// LeaderboardConfig controls the shared leaderboard.
type LeaderboardConfig struct {
	Disabled bool          `yaml:"disabled"`
	DSN      string        `yaml:"dsn"` // must not embed a password
	Timeout  time.Duration `yaml:"timeout"`
	Limit    int           `yaml:"limit"`
}

// WatchConfig controls `potd watch`.
type WatchConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

func (c *Config) defaults() {
	if c.Ledger == "" {
		c.Ledger = constants.DefaultLedgerPath
	}
	if c.Judge.BaseURL == "" {
		c.Judge.BaseURL = constants.DefaultJudgeBaseURL
	}
	if c.Judge.Timeout <= 0 {
		c.Judge.Timeout = constants.DefaultJudgeTimeout
	}
	if c.Judge.RateEvery <= 0 {
		c.Judge.RateEvery = constants.DefaultJudgeRateEvery
	}
	if c.Judge.Burst <= 0 {
		c.Judge.Burst = constants.DefaultJudgeBurst
	}
	if c.Leaderboard.Timeout <= 0 {
		c.Leaderboard.Timeout = constants.DefaultLeaderboardTimeout
	}
	if c.Leaderboard.Limit <= 0 {
		c.Leaderboard.Limit = constants.DefaultLeaderboardLimit
	}
	if c.Watch.Interval <= 0 {
		c.Watch.Interval = constants.DefaultWatchInterval
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvLedger); v != "" {
		c.Ledger = v
	}
	if v := os.Getenv(EnvJudgeURL); v != "" {
		c.Judge.BaseURL = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.defaults()
	return c
}

// Load reads the YAML file at path (a missing file is not an error), then
// .env files, then environment overrides, then fills defaults.
func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	// .env next to the config file first, then the working directory.
	// godotenv never overrides variables that are already set.
	if path != "" {
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))
	}
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfigFile(path)
		switch {
		case err == nil:
			cfg = loaded
			cfg.path = path
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.defaults()
	cfg.Ledger = ExpandPath(cfg.Ledger)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config back as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	path = ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Validate checks ranges that defaults() cannot repair.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Judge.BaseURL, "http://") && !strings.HasPrefix(c.Judge.BaseURL, "https://") {
		return fmt.Errorf("judge base_url must be an http(s) URL, got %q", c.Judge.BaseURL)
	}
	if c.Leaderboard.Limit > 100 {
		return fmt.Errorf("leaderboard limit must be at most 100, got %d", c.Leaderboard.Limit)
	}
	return nil
}

// Path returns the file the configuration was read from, if any.
func (c *Config) Path() string {
	return c.path
}

// Dir returns the directory that holds the ledger, logs and .env.
func (c *Config) Dir() string {
	if c.Ledger == "" {
		return ExpandPath(constants.DefaultConfigDir)
	}
	return filepath.Dir(c.Ledger)
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
