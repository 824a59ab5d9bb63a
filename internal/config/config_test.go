package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Potential = "si.tersoff"
	cfg.Structure = "start.xyz"
	cfg.Species = []string{"Si"}
	cfg.Masses = []float64{28.0855}
	cfg.Box.Lx, cfg.Box.Ly, cfg.Box.Lz = 10, 10, 10
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultDt, cfg.MD.Dt)
	assert.Equal(t, DefaultSteps, cfg.MD.Steps)
	assert.Equal(t, DefaultNeighborCap, cfg.Neighbor.Cap)
	assert.Equal(t, "none", cfg.MD.Thermostat)
	assert.Equal(t, [3]bool{true, true, true}, cfg.Box.Periodic)
}

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")

	cfg := validConfig()
	cfg.MD.Thermostat = "berendsen"
	cfg.MD.Temperature = 0.05
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Potential, loaded.Potential)
	assert.Equal(t, cfg.Species, loaded.Species)
	assert.Equal(t, "berendsen", loaded.MD.Thermostat)
	assert.InDelta(t, 0.05, loaded.MD.Temperature, 1e-15)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	minimal := `
potential: si.tersoff
structure: start.xyz
species: [Si]
masses: [28.0855]
box: {lx: 10, ly: 10, lz: 10}
`
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultDt, cfg.MD.Dt)
	assert.Equal(t, DefaultNeighborCap, cfg.Neighbor.Cap)
	assert.Equal(t, DefaultSkin, cfg.Neighbor.Skin)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing potential", func(c *Config) { c.Potential = "" }},
		{"no species", func(c *Config) { c.Species = nil }},
		{"mass count mismatch", func(c *Config) { c.Masses = []float64{1, 2} }},
		{"non-positive mass", func(c *Config) { c.Masses = []float64{0} }},
		{"bad box", func(c *Config) { c.Box.Lx = 0 }},
		{"bad vectors", func(c *Config) { c.Box.Vectors = [][]float64{{1, 0, 0}} }},
		{"zero cap", func(c *Config) { c.Neighbor.Cap = 0 }},
		{"negative skin", func(c *Config) { c.Neighbor.Skin = -1 }},
		{"zero dt", func(c *Config) { c.MD.Dt = 0 }},
		{"negative steps", func(c *Config) { c.MD.Steps = -1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := validConfig()
			c.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, validConfig().Validate())
}

func TestTypeOf(t *testing.T) {
	cfg := validConfig()
	cfg.Species = []string{"Si", "C"}
	cfg.Masses = []float64{28.0855, 12.011}

	ty, err := cfg.TypeOf("C")
	require.NoError(t, err)
	assert.Equal(t, 2, ty)

	_, err = cfg.TypeOf("Ge")
	assert.Error(t, err)
}

func TestMassTable(t *testing.T) {
	cfg := validConfig()
	cfg.Species = []string{"Si", "C"}
	cfg.Masses = []float64{28.0855, 12.011}

	m := cfg.MassTable()
	require.Len(t, m, 3)
	assert.InDelta(t, 28.0855, m[1], 1e-12)
	assert.InDelta(t, 12.011, m[2], 1e-12)
}
