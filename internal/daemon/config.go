// Package daemon wires configuration, logging, storage and the HTTP API
// into a running EcoTrack server.
package daemon

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/ecotrack-campus/ecotrack/internal/app/session"
	"github.com/ecotrack-campus/ecotrack/internal/domain"
	"github.com/ecotrack-campus/ecotrack/internal/infra/memstore"
	"github.com/ecotrack-campus/ecotrack/internal/infra/sqlite"
)

// EnvPrefix prefixes every environment override, e.g. ECOTRACK_API_PORT.
const EnvPrefix = "ECOTRACK"

// Store backends accepted by [session] store.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config is the full daemon configuration, loaded from config.toml.
// Durations are strings ("1s", "250ms") so the file stays human-editable.
type Config struct {
	API         APIConfig         `toml:"api"`
	Session     SessionConfig     `toml:"session"`
	Log         LogConfig         `toml:"log"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
}

type APIConfig struct {
	Host string `toml:"host" envconfig:"HOST"`
	Port int    `toml:"port" envconfig:"PORT"`
}

type SessionConfig struct {
	Store          string `toml:"store" envconfig:"STORE"` // "memory" or "sqlite"
	LoginDelay     string `toml:"login_delay" envconfig:"LOGIN_DELAY"`
	IdleTimeout    string `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"` // "0" keeps sessions until logout
	MaxSessions    int    `toml:"max_sessions" envconfig:"MAX_SESSIONS"`
	StartingPoints int    `toml:"starting_points" envconfig:"STARTING_POINTS"`
}

type LogConfig struct {
	Level  string `toml:"level" envconfig:"LEVEL"`
	Format string `toml:"format" envconfig:"FORMAT"` // "console" or "json"
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled" envconfig:"ENABLED"`
	Tracing bool `toml:"tracing" envconfig:"TRACING"`
}

type LeaderboardConfig struct {
	Peers []domain.Peer `toml:"peers" ignored:"true"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Session: SessionConfig{
			Store:          StoreMemory,
			LoginDelay:     "1s",
			IdleTimeout:    "30m",
			MaxSessions:    1000,
			StartingPoints: domain.StartingPoints,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Tracing: false,
		},
		Leaderboard: LeaderboardConfig{
			Peers: domain.SeedPeers(),
		},
	}
}

// DefaultConfigPath is ~/.ecotrack/config.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ecotrack", "config.toml")
	}
	return filepath.Join(home, ".ecotrack", "config.toml")
}

// LoadConfig reads path over the defaults, then applies ECOTRACK_*
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		// Peers from the file replace the seeded board outright; decoding
		// over the seeded slice would leave unset fields at seed values.
		cfg.Leaderboard.Peers = nil
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		if err != nil || !md.IsDefined("leaderboard", "peers") {
			cfg.Leaderboard.Peers = domain.SeedPeers()
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return cfg, fmt.Errorf("env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the daemon cannot start with.
func (c Config) Validate() error {
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port %d out of range", c.API.Port)
	}
	switch c.Session.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("session.store %q: want %q or %q", c.Session.Store, StoreMemory, StoreSQLite)
	}
	if _, err := parseDuration(c.Session.LoginDelay); err != nil {
		return fmt.Errorf("session.login_delay: %w", err)
	}
	if _, err := parseDuration(c.Session.IdleTimeout); err != nil {
		return fmt.Errorf("session.idle_timeout: %w", err)
	}
	if c.Session.MaxSessions < 0 {
		return fmt.Errorf("session.max_sessions %d is negative", c.Session.MaxSessions)
	}
	if c.Session.StartingPoints < 0 {
		return fmt.Errorf("session.starting_points %d is negative", c.Session.StartingPoints)
	}
	return nil
}

// Addr is the API listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

// SessionManagerConfig converts the [session] and [leaderboard] sections.
func (c Config) SessionManagerConfig() session.Config {
	delay, _ := parseDuration(c.Session.LoginDelay)
	idle, _ := parseDuration(c.Session.IdleTimeout)
	peers := make([]domain.Peer, len(c.Leaderboard.Peers))
	copy(peers, c.Leaderboard.Peers)
	return session.Config{
		LoginDelay:     delay,
		IdleTimeout:    idle,
		MaxSessions:    c.Session.MaxSessions,
		StartingPoints: c.Session.StartingPoints,
		Peers:          peers,
	}
}

// StoreFactory returns the configured collection store backend.
func (c Config) StoreFactory() domain.StoreFactory {
	if c.Session.Store == StoreSQLite {
		return sqlite.Factory
	}
	return memstore.Factory
}

// parseDuration parses a config duration. Empty means zero.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
