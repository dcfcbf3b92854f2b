package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	Gameweek      GameweekConfig      `yaml:"gameweek"`
	Sweeps        SweepConfig         `yaml:"sweeps"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL selects the in-process bus.
type NATSConfig struct {
	URL        string `yaml:"url"`
	NKeySeed   string `yaml:"nkey_seed"`
	QueueGroup string `yaml:"queue_group"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RatePerSecond  float64       `yaml:"rate_per_second"`
	RateBurst      int           `yaml:"rate_burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// GameweekConfig controls the Friday-Monday window calculation.
type GameweekConfig struct {
	Timezone string `yaml:"timezone"`
	// MinTeamSides is the number of team sides (two per fixture) a window
	// needs before it counts as an active gameweek.
	MinTeamSides int `yaml:"min_team_sides"`
}

// SweepConfig controls the River periodic jobs.
type SweepConfig struct {
	Enabled          bool          `yaml:"enabled"`
	WinnerInterval   time.Duration `yaml:"winner_interval"`
	GameweekInterval time.Duration `yaml:"gameweek_interval"`
	RolloverInterval time.Duration `yaml:"rollover_interval"`
	UnitTimeout      time.Duration `yaml:"unit_timeout"`
	MaxWorkers       int           `yaml:"max_workers"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, cfg.Validate()
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv("DATABASE_URL")
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	cfg.Sweeps.Enabled = true
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_NKEY_SEED"); v != "" {
		cfg.NATS.NKeySeed = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("JWT_DEFAULT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid JWT_DEFAULT_TTL value: %w", err)
		}
		cfg.JWT.DefaultTTL = d
	}
	if v := os.Getenv("GAMEWEEK_TIMEZONE"); v != "" {
		cfg.Gameweek.Timezone = v
	}
	if v := os.Getenv("GAMEWEEK_MIN_TEAM_SIDES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid GAMEWEEK_MIN_TEAM_SIDES value: %w", err)
		}
		cfg.Gameweek.MinTeamSides = n
	}
	if v := os.Getenv("SWEEPS_ENABLED"); v != "" {
		cfg.Sweeps.Enabled = v == "true"
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.NATS.QueueGroup == "" {
		cfg.NATS.QueueGroup = "last-man-standing"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.RequestTimeout == 0 {
		cfg.HTTP.RequestTimeout = 15 * time.Second
	}
	if cfg.HTTP.RatePerSecond == 0 {
		cfg.HTTP.RatePerSecond = 5
	}
	if cfg.HTTP.RateBurst == 0 {
		cfg.HTTP.RateBurst = 20
	}
	if cfg.JWT.DefaultTTL == 0 {
		cfg.JWT.DefaultTTL = 24 * time.Hour
	}
	if cfg.Gameweek.Timezone == "" {
		cfg.Gameweek.Timezone = "Europe/London"
	}
	if cfg.Gameweek.MinTeamSides == 0 {
		cfg.Gameweek.MinTeamSides = 8
	}
	if cfg.Sweeps.WinnerInterval == 0 {
		cfg.Sweeps.WinnerInterval = 15 * time.Minute
	}
	if cfg.Sweeps.GameweekInterval == 0 {
		cfg.Sweeps.GameweekInterval = time.Hour
	}
	if cfg.Sweeps.RolloverInterval == 0 {
		cfg.Sweeps.RolloverInterval = 15 * time.Minute
	}
	if cfg.Sweeps.UnitTimeout == 0 {
		cfg.Sweeps.UnitTimeout = 10 * time.Second
	}
	if cfg.Sweeps.MaxWorkers == 0 {
		cfg.Sweeps.MaxWorkers = 4
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres dsn is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if _, err := time.LoadLocation(c.Gameweek.Timezone); err != nil {
		return fmt.Errorf("invalid gameweek timezone %q: %w", c.Gameweek.Timezone, err)
	}
	if c.Gameweek.MinTeamSides < 0 {
		return fmt.Errorf("gameweek min_team_sides must not be negative")
	}
	return nil
}

// Location returns the configured gameweek time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Gameweek.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func ToObsConfig(appCfg *Config) observability.Config {
	return observability.Config{
		ServiceName: "last-man-standing",
		Environment: appCfg.Observability.Environment,
		LogLevel:    appCfg.Observability.LogLevel,
	}
}
