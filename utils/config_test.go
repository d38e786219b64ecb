package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if config.Interval() != time.Second {
		t.Fatalf("default interval = %v", config.Interval())
	}
	if !config.Torus {
		t.Fatal("default edge mode should wrap")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"interval_ms": 3000,
		"torus": false,
		"reseed_threshold": 10,
		"seed_anchor": [4, 5],
		"alive_color": [255, 200, 255]
	}`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Interval() != 3*time.Second || config.Torus || config.ReseedThreshold != 10 {
		t.Fatalf("overrides not applied: %+v", config)
	}
	if config.SeedAnchor == nil || *config.SeedAnchor != [2]int{4, 5} {
		t.Fatalf("seed anchor = %v", config.SeedAnchor)
	}
	if config.AliveColor != [3]uint8{255, 200, 255} {
		t.Fatalf("alive color = %v", config.AliveColor)
	}
	// untouched fields keep their defaults
	if config.RandomDensity != 0.5 || !config.UseParallel {
		t.Fatalf("defaults lost: %+v", config)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v, want os.ErrNotExist", err)
	}

	if _, err = LoadConfig(writeConfig(t, `{"interval_ms": `)); err == nil {
		t.Fatal("truncated JSON accepted")
	}

	if _, err = LoadConfig(writeConfig(t, `{"interval_ms": 0}`)); err == nil {
		t.Fatal("zero interval accepted")
	}
}

func TestValidate(t *testing.T) {
	anchor := [2]int{-1, 3}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero width", mutate: func(c *Config) { c.Width = 0 }},
		{name: "negative height", mutate: func(c *Config) { c.Height = -4 }},
		{name: "negative interval", mutate: func(c *Config) { c.IntervalMS = -1 }},
		{name: "density above one", mutate: func(c *Config) { c.RandomDensity = 1.5 }},
		{name: "negative anchor", mutate: func(c *Config) { c.SeedAnchor = &anchor }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)
			if err := config.Validate(); err == nil {
				t.Fatal("invalid config accepted")
			}
		})
	}
}
