// Package config loads the client configuration from an optional YAML file
// with environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration.
type Config struct {
	// ServerURL is the websocket endpoint of the game server.
	ServerURL string `yaml:"serverURL"`
	// Name is the display name sent with the join request.
	Name string `yaml:"name"`
	// TickRate is the simulation rate in ticks per second.
	TickRate int `yaml:"tickRate"`
	// PingIntervalMS is the minimum gap between latency probes.
	PingIntervalMS int `yaml:"pingIntervalMS"`
	// AlignTolerance is the movement alignment tolerance as a fraction of
	// tile width.
	AlignTolerance float64 `yaml:"alignTolerance"`
	// LogFile receives rotated structured logs; empty logs to stderr only.
	LogFile string `yaml:"logFile"`
	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL:      "ws://localhost:9002",
		TickRate:       30,
		PingIntervalMS: 1000,
		AlignTolerance: 0.25,
	}
}

// Load reads path when it exists, layering file values over defaults and
// environment overrides over both. A missing file is not an error; a
// malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RUSTONATOR_SERVER_URL"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("RUSTONATOR_NAME"); v != "" {
		cfg.Name = v
	}
	if v := os.Getenv("RUSTONATOR_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("RUSTONATOR_DEBUG"); v == "1" || v == "true" {
		cfg.Debug = true
	}
}

// Validate rejects configurations the simulation cannot run with.
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("config: serverURL is required")
	}
	if c.TickRate <= 0 || c.TickRate > 240 {
		return fmt.Errorf("config: tickRate %d out of range (1-240)", c.TickRate)
	}
	if c.PingIntervalMS <= 0 {
		return fmt.Errorf("config: pingIntervalMS must be positive")
	}
	if c.AlignTolerance < 0 || c.AlignTolerance >= 0.5 {
		return fmt.Errorf("config: alignTolerance %g out of range [0, 0.5)", c.AlignTolerance)
	}
	return nil
}

// PingInterval returns the probe interval as a duration.
func (c Config) PingInterval() time.Duration {
	return time.Duration(c.PingIntervalMS) * time.Millisecond
}
