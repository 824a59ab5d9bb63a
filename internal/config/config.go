package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt           = 0.001
	DefaultSteps        = 1000
	DefaultSampleEvery  = 10
	DefaultNeighborCap  = 20
	DefaultSkin         = 0.5
	DefaultRebuildEvery = 10
)

type Config struct {
	Potential string    `yaml:"potential"` // parameter table path
	Structure string    `yaml:"structure"` // XYZ start configuration
	Species   []string  `yaml:"species"`   // element symbol per type, in type order
	Masses    []float64 `yaml:"masses"`    // mass per type, same order

	Box      BoxConfig      `yaml:"box"`
	Neighbor NeighborConfig `yaml:"neighbor"`
	MD       MDConfig       `yaml:"md"`
	Output   OutputConfig   `yaml:"output"`

	Workers int `yaml:"workers"` // 0 selects one per CPU
}

type BoxConfig struct {
	Lx       float64     `yaml:"lx,omitempty"`
	Ly       float64     `yaml:"ly,omitempty"`
	Lz       float64     `yaml:"lz,omitempty"`
	Vectors  [][]float64 `yaml:"vectors,omitempty"` // 3 cell vectors for triclinic cells
	Periodic [3]bool     `yaml:"periodic"`
}

type NeighborConfig struct {
	Cap          int     `yaml:"cap"`
	Skin         float64 `yaml:"skin"`
	RebuildEvery int     `yaml:"rebuild_every"`
}

type MDConfig struct {
	Dt          float64 `yaml:"dt"`
	Steps       int     `yaml:"steps"`
	SampleEvery int     `yaml:"sample_every"`
	Thermostat  string  `yaml:"thermostat"`
	Temperature float64 `yaml:"temperature"`
	Coupling    float64 `yaml:"coupling"`
	Seed        int64   `yaml:"seed"`
}

type OutputConfig struct {
	Trajectory string `yaml:"trajectory"`
	Every      int    `yaml:"every"`
	Results    string `yaml:"results"`
}

func DefaultConfig() *Config {
	return &Config{
		Box: BoxConfig{Periodic: [3]bool{true, true, true}},
		Neighbor: NeighborConfig{
			Cap:          DefaultNeighborCap,
			Skin:         DefaultSkin,
			RebuildEvery: DefaultRebuildEvery,
		},
		MD: MDConfig{
			Dt:          DefaultDt,
			Steps:       DefaultSteps,
			SampleEvery: DefaultSampleEvery,
			Thermostat:  "none",
		},
		Output: OutputConfig{Every: 100},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Potential == "" {
		return fmt.Errorf("config: potential file path is required")
	}
	if len(c.Species) == 0 {
		return fmt.Errorf("config: at least one species is required")
	}
	if len(c.Masses) != len(c.Species) {
		return fmt.Errorf("config: %d masses for %d species", len(c.Masses), len(c.Species))
	}
	for i, m := range c.Masses {
		if m <= 0 {
			return fmt.Errorf("config: mass for species %s must be positive, got %g", c.Species[i], m)
		}
	}
	if len(c.Box.Vectors) != 0 && len(c.Box.Vectors) != 3 {
		return fmt.Errorf("config: box vectors must be 3 rows, got %d", len(c.Box.Vectors))
	}
	for i, v := range c.Box.Vectors {
		if len(v) != 3 {
			return fmt.Errorf("config: box vector %d must have 3 components, got %d", i, len(v))
		}
	}
	if len(c.Box.Vectors) == 0 && (c.Box.Lx <= 0 || c.Box.Ly <= 0 || c.Box.Lz <= 0) {
		return fmt.Errorf("config: box edges must be positive, got (%g, %g, %g)", c.Box.Lx, c.Box.Ly, c.Box.Lz)
	}
	if c.Neighbor.Cap <= 0 {
		return fmt.Errorf("config: neighbor cap must be positive, got %d", c.Neighbor.Cap)
	}
	if c.Neighbor.Skin < 0 {
		return fmt.Errorf("config: neighbor skin must be non-negative, got %g", c.Neighbor.Skin)
	}
	if c.MD.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %g", c.MD.Dt)
	}
	if c.MD.Steps < 0 {
		return fmt.Errorf("config: steps must be non-negative, got %d", c.MD.Steps)
	}
	return nil
}

// TypeOf maps an element symbol to its 1-based type index.
func (c *Config) TypeOf(symbol string) (int, error) {
	for i, s := range c.Species {
		if s == symbol {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("config: species %q not declared", symbol)
}

// MassTable returns masses indexed by 1-based type.
func (c *Config) MassTable() []float64 {
	m := make([]float64, len(c.Masses)+1)
	copy(m[1:], c.Masses)
	return m
}
