// Package config provides configuration loading for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"packedlife/src/engine"
	"packedlife/src/shapes"
	"packedlife/src/universe"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Universe   UniverseConfig   `yaml:"universe"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Snapshot   SnapshotConfig   `yaml:"snapshot"`
	View       ViewConfig       `yaml:"view"`
}

// UniverseConfig describes the grid and its initial state.
type UniverseConfig struct {
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Workers  int           `yaml:"workers"`
	Seed     int64         `yaml:"seed"`
	Strategy string        `yaml:"strategy"`
	Template string        `yaml:"template"`
	Objects  []StampConfig `yaml:"objects"`
}

// StampConfig is one shape stamped after seeding.
type StampConfig struct {
	Shape string `yaml:"shape"`
	Row   int    `yaml:"row"`
	Col   int    `yaml:"col"`
}

type SimulationConfig struct {
	Interval        time.Duration `yaml:"interval"`
	MaxSteps        int           `yaml:"max_steps"`
	MaxSkippedTicks int           `yaml:"max_skipped_ticks"`
}

type TelemetryConfig struct {
	Dir   string `yaml:"dir"`
	Every int    `yaml:"every"`
}

type SnapshotConfig struct {
	Path  string `yaml:"path"`
	Scale int    `yaml:"scale"`
}

type ViewConfig struct {
	Interactive   bool `yaml:"interactive"`
	ProgressEvery int  `yaml:"progress_every"`
}

// Defaults returns the embedded default configuration.
func Defaults() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	u := c.Universe
	if u.Width < 0 || u.Height < 0 {
		return fmt.Errorf("universe size %dx%d: negative dimension", u.Width, u.Height)
	}
	if u.Workers < 0 {
		return fmt.Errorf("universe workers %d: must not be negative", u.Workers)
	}
	if _, err := c.Strategy(); err != nil {
		return err
	}
	if _, err := c.Stamps(); err != nil {
		return err
	}
	if c.Simulation.Interval < 0 || c.Simulation.MaxSteps < 0 || c.Simulation.MaxSkippedTicks < 0 {
		return fmt.Errorf("simulation: negative interval or limit")
	}
	if c.Telemetry.Every < 1 {
		return fmt.Errorf("telemetry every %d: must be positive", c.Telemetry.Every)
	}
	if c.Snapshot.Scale < 1 {
		return fmt.Errorf("snapshot scale %d: must be positive", c.Snapshot.Scale)
	}
	return nil
}

// Strategy resolves the seeding strategy name.
func (c *Config) Strategy() (universe.Strategy, error) {
	s, err := universe.ParseStrategy(c.Universe.Strategy)
	if err != nil {
		return 0, fmt.Errorf("universe strategy: %w", err)
	}
	return s, nil
}

// Stamp is a resolved StampConfig.
type Stamp struct {
	Shape shapes.ID
	Row   int
	Col   int
}

// Stamps resolves the configured objects.
func (c *Config) Stamps() ([]Stamp, error) {
	res := make([]Stamp, 0, len(c.Universe.Objects))
	for i, o := range c.Universe.Objects {
		id, err := shapes.ParseID(o.Shape)
		if err != nil {
			return nil, fmt.Errorf("universe object %d: %w", i, err)
		}
		res = append(res, Stamp{Shape: id, Row: o.Row, Col: o.Col})
	}
	return res, nil
}

// EngineOptions converts the configuration to the engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		Width:           c.Universe.Width,
		Height:          c.Universe.Height,
		Interval:        c.Simulation.Interval,
		MaxSteps:        c.Simulation.MaxSteps,
		MaxSkippedTicks: c.Simulation.MaxSkippedTicks,
		Workers:         c.Universe.Workers,
		Seed:            c.Universe.Seed,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
