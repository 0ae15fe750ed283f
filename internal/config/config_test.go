package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "client.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := writeConfig(t, "serverURL: ws://game.example:9002\nname: kat\ndebug: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "ws://game.example:9002" || cfg.Name != "kat" || !cfg.Debug {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.TickRate != 30 {
		t.Fatalf("tickRate = %d, unset keys must keep defaults", cfg.TickRate)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "serverURL: ws://file.example:9002\n")
	t.Setenv("RUSTONATOR_SERVER_URL", "ws://env.example:9002")
	t.Setenv("RUSTONATOR_NAME", "envname")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "ws://env.example:9002" {
		t.Fatalf("serverURL = %q, env must win", cfg.ServerURL)
	}
	if cfg.Name != "envname" {
		t.Fatalf("name = %q", cfg.Name)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "tickRate: [not a number\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("malformed yaml accepted")
	}
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty url", func(c *Config) { c.ServerURL = "" }, "serverURL"},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }, "tickRate"},
		{"absurd tick rate", func(c *Config) { c.TickRate = 1000 }, "tickRate"},
		{"zero ping interval", func(c *Config) { c.PingIntervalMS = 0 }, "pingIntervalMS"},
		{"tolerance too large", func(c *Config) { c.AlignTolerance = 0.5 }, "alignTolerance"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestPingInterval(t *testing.T) {
	cfg := Default()
	cfg.PingIntervalMS = 1500
	if got := cfg.PingInterval(); got != 1500*time.Millisecond {
		t.Fatalf("PingInterval = %v", got)
	}
}
