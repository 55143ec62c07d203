// Package config loads server configuration: a YAML file, then environment
// overrides, then defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Leaderboard struct {
		PostgresURL string        `yaml:"postgres_url"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"leaderboard"`
	Game struct {
		Timing      string `yaml:"timing"`
		Seed        int64  `yaml:"seed"` // 0 means time-based
		CatalogPath string `yaml:"catalog_path"`
		LocalID     string `yaml:"local_id"`
	} `yaml:"game"`
	Schedule struct {
		BackupCron      string `yaml:"backup_cron"`
		LeaderboardCron string `yaml:"leaderboard_cron"`
	} `yaml:"schedule"`
	Network struct {
		ClientSendBuffer int   `yaml:"client_send_buffer"`
		MaxMessageSize   int64 `yaml:"max_message_size"`
	} `yaml:"network"`
}

// Path returns the config file location: CONFIG_PATH or config.yaml.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "config.yaml"
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("KIDCAP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("KIDCAP_ALLOWED_ORIGIN"); v != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}
	if v := os.Getenv("KIDCAP_SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("KIDCAP_LEADERBOARD_URL"); v != "" {
		c.Leaderboard.PostgresURL = v
	}
	if v := os.Getenv("KIDCAP_TIMING"); v != "" {
		c.Game.Timing = v
	}
	if v := os.Getenv("KIDCAP_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse KIDCAP_SEED: %w", err)
		}
		c.Game.Seed = seed
	}
	if v := os.Getenv("KIDCAP_CATALOG"); v != "" {
		c.Game.CatalogPath = v
	}
	if v := os.Getenv("KIDCAP_LOCAL_ID"); v != "" {
		c.Game.LocalID = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/kidcapital.db"
	}
	if c.Leaderboard.Timeout == 0 {
		c.Leaderboard.Timeout = 5 * time.Second
	}
	if c.Game.Timing == "" {
		c.Game.Timing = "standard"
	}
	if c.Game.LocalID == "" {
		c.Game.LocalID = "local"
	}
	if c.Schedule.BackupCron == "" {
		c.Schedule.BackupCron = "*/30 * * * * *"
	}
	if c.Schedule.LeaderboardCron == "" {
		c.Schedule.LeaderboardCron = "0 */5 * * * *"
	}
	if c.Network.ClientSendBuffer == 0 {
		c.Network.ClientSendBuffer = 256
	}
	if c.Network.MaxMessageSize == 0 {
		c.Network.MaxMessageSize = 4096
	}
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch c.Game.Timing {
	case "standard", "fast", "none":
	default:
		return fmt.Errorf("game.timing must be standard, fast or none, got %q", c.Game.Timing)
	}
	if c.Leaderboard.Timeout < 0 {
		return fmt.Errorf("leaderboard.timeout must not be negative")
	}
	if c.Network.ClientSendBuffer < 1 {
		return fmt.Errorf("network.client_send_buffer must be positive")
	}
	if c.Network.MaxMessageSize < 512 {
		return fmt.Errorf("network.max_message_size must be at least 512")
	}
	if strings.TrimSpace(c.Game.LocalID) == "" {
		return fmt.Errorf("game.local_id is required")
	}
	return nil
}
