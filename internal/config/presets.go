package config

var Presets = map[string]*Config{
	"constant": {
		Name: "constant", Order: "second", Dt: 0.01, D1: 0.5, D2: 1.0, Delta: 1e-3,
		Grid:       GridConfig{N: 256, Left: 0, Right: 10},
		Deposition: DepositionConfig{Shape: "constant", MaxStrength: 1.0, Threshold: 0.08, TransitionWidth: 1.0 / 250},
		Render:     RenderConfig{Width: 6, Height: 4, FPS: 30},
	},
	"switch": {
		Name: "switch", Order: "second", Dt: 0.01, D1: 0.5, D2: 1.0, Delta: 1e-3,
		Grid:       GridConfig{N: 256, Left: 0, Right: 10},
		Deposition: DepositionConfig{Shape: "soft_switch", MaxStrength: 1.0, Threshold: 0.08, TransitionWidth: 1.0 / 250},
		Render:     RenderConfig{Width: 6, Height: 4, FPS: 30},
	},
	"linear_switch": {
		Name: "linear_switch", Order: "second", Dt: 0.01, D1: 0.5, D2: 1.0, Delta: 1e-3,
		Grid:       GridConfig{N: 256, Left: 0, Right: 10},
		Deposition: DepositionConfig{Shape: "linear_soft_switch", MaxStrength: 1.0, Threshold: 0.08, TransitionWidth: 1.0 / 250},
		Render:     RenderConfig{Width: 6, Height: 4, FPS: 30},
	},
	"first_order": {
		Name: "first_order", Order: "first", Dt: 0.005, D1: 0.2, D2: 1.0, Delta: 1e-3,
		Grid:       GridConfig{N: 512, Left: 0, Right: 20},
		Deposition: DepositionConfig{Shape: "soft_switch", MaxStrength: 2.0, Threshold: 0.08, TransitionWidth: 1.0 / 250},
		Render:     RenderConfig{Width: 8, Height: 5, FPS: 24},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
