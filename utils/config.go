package utils

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
)

// Config holds the configuration for the automaton and its host loop
type Config struct {
	Width               int      `json:"width"`
	Height              int      `json:"height"`
	IntervalMS          int      `json:"interval_ms"`
	Torus               bool     `json:"torus"`
	ReseedThreshold     int      `json:"reseed_threshold"`
	SeedAnchor          *[2]int  `json:"seed_anchor,omitempty"`
	AliveColor          [3]uint8 `json:"alive_color"`
	RandomDensity       float64  `json:"random_density"`
	Seed                int64    `json:"seed"`
	UseParallel         bool     `json:"use_parallel"`
	Trail               bool     `json:"trail"`
	Flicker             bool     `json:"flicker"`
	MaxGenerations      int      `json:"max_generations"`
	StagnationThreshold int      `json:"stagnation_threshold"`
	StatsEvery          int      `json:"stats_every"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Width:               96,
		Height:              32,
		IntervalMS:          1000,
		Torus:               true,
		ReseedThreshold:     50,
		AliveColor:          [3]uint8{255, 255, 200},
		RandomDensity:       0.5,
		UseParallel:         true,
		Trail:               true,
		Flicker:             true,
		MaxGenerations:      0, // run until interrupted
		StagnationThreshold: 5,
		StatsEvery:          100,
	}
}

// Interval returns the tick interval as a duration
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// Validate checks that the configuration describes a runnable automaton
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("[Validate] grid dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.IntervalMS <= 0 {
		return errors.Errorf("[Validate] interval_ms must be positive, got %d", c.IntervalMS)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Errorf("[Validate] random_density must be within [0,1], got %v", c.RandomDensity)
	}
	if c.SeedAnchor != nil && (c.SeedAnchor[0] < 0 || c.SeedAnchor[1] < 0) {
		return errors.Errorf("[Validate] seed_anchor must not be negative, got %v", *c.SeedAnchor)
	}
	return nil
}

// LoadConfig loads configuration from JSON file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	if err = json.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}

	return config, nil
}
