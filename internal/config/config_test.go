package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/planktonviz/internal/deposition"
	"github.com/san-kum/planktonviz/internal/history"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	order, err := cfg.HistoryOrder()
	require.NoError(t, err)
	assert.Equal(t, history.SecondOrder, order)
	assert.Equal(t, 256, cfg.Size())
	assert.Equal(t, 128, cfg.GridSpec().Midpoint())

	resp, err := cfg.DepositionResponse()
	require.NoError(t, err)
	assert.Equal(t, deposition.SoftSwitch, resp.Shape)
	assert.Equal(t, 0.08, resp.Params.Threshold)
	assert.Equal(t, 1.0/250, resp.Params.TransitionWidth)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := `
name: aggregate
order: first
grid:
  n: 64
  right: 5
d1: 0.3
deposition:
  shape: linear_soft_switch
  max_strength: 2.5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "aggregate", cfg.Name)
	order, err := cfg.HistoryOrder()
	require.NoError(t, err)
	assert.Equal(t, history.FirstOrder, order)
	assert.Equal(t, 64, cfg.Grid.N)
	assert.Equal(t, 0.0, cfg.Grid.Left)
	assert.Equal(t, 5.0, cfg.Grid.Right)
	assert.Equal(t, DefaultDt, cfg.Dt)
	assert.Equal(t, 0.3, cfg.D1)
	assert.Equal(t, 2.5, cfg.Deposition.MaxStrength)
	assert.Equal(t, deposition.DefaultThreshold, cfg.Deposition.Threshold)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	cfg := GetPreset("first_order")
	require.NotNil(t, cfg)

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty name", func(c *Config) { c.Name = "" }},
		{"parent name", func(c *Config) { c.Name = ".." }},
		{"escaping name", func(c *Config) { c.Name = "../escaped" }},
		{"nested name", func(c *Config) { c.Name = "a/b" }},
		{"backslash name", func(c *Config) { c.Name = `a\b` }},
		{"bad order", func(c *Config) { c.Order = "third" }},
		{"zero grid", func(c *Config) { c.Grid.N = 0 }},
		{"inverted bounds", func(c *Config) { c.Grid.Left, c.Grid.Right = 1, 0 }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"unknown shape", func(c *Config) { c.Deposition.Shape = "gaussian" }},
		{"zero width", func(c *Config) { c.Deposition.TransitionWidth = 0 }},
		{"zero threshold", func(c *Config) { c.Deposition.Threshold = 0 }},
		{"zero fps", func(c *Config) { c.Render.FPS = 0 }},
		{"zero size", func(c *Config) { c.Render.Width = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestHistoryOrderRejectsUnknown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Order = "third"
	_, err := cfg.HistoryOrder()
	assert.ErrorIs(t, err, history.ErrUnknownOrder)
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"run", "switch_0.5", "a..b"} {
		assert.NoError(t, ValidateName(name), name)
	}
}

func TestJSONUsesYAMLNames(t *testing.T) {
	data, err := json.Marshal(GetPreset("first_order"))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"name", "order", "grid", "dt", "d1", "d2", "delta", "deposition", "render"} {
		assert.Contains(t, raw, key)
	}
	assert.Contains(t, raw["grid"], "n")
	assert.Contains(t, raw["deposition"], "max_strength")
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: -1\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	assert.Equal(t, []string{"constant", "first_order", "linear_switch", "switch"}, names)

	for _, name := range names {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.NoError(t, cfg.Validate(), name)
	}

	assert.Nil(t, GetPreset("nonexistent"))

	cfg := GetPreset("switch")
	cfg.Dt = 99
	assert.NotEqual(t, 99.0, Presets["switch"].Dt, "GetPreset must return a copy")
}

func TestTitle(t *testing.T) {
	cfg := GetPreset("switch")
	assert.Equal(t, "Time: 1.50, d1: 0.50, d2: 1.00, delta: 0.001, soft_switch", cfg.Title(1.5))
}

func TestFigureTitles(t *testing.T) {
	cfg := GetPreset("first_order")
	assert.Equal(t, "First Order", cfg.OrderLabel())
	assert.Equal(t, "Total Plankton/Chemical Over Time, First Order", cfg.TotalsTitle())
	assert.Equal(t, "Plankton, First Order, d1: 0.20, d2: 1.00, delta: 0.001, soft_switch", cfg.SeriesTitle("plankton"))
	assert.Equal(t, "Chemical, Second Order, d1: 0.50, d2: 1.00, delta: 0.001, soft_switch", GetPreset("switch").SeriesTitle("chemical"))

	assert.Equal(t, "Total Plankton", AxisLabel("plankton"))
	assert.Equal(t, "Chemical Concentration", AxisLabel("chemical"))
}
