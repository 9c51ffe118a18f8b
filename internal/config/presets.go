package config

import "sort"

var Presets = map[string]*Config{
	// Reference scenario over 30 time units.
	"observer": func() *Config {
		c := DefaultConfig()
		c.Steps = 3000
		return c
	}(),
	"noiseless": func() *Config {
		c := DefaultConfig()
		c.NoiseStd = 0
		c.InitState = InitState{X: 1, Y: 1, Z: 1, YHat: -20, ZHat: 45}
		return c
	}(),
	"high_noise": func() *Config {
		c := DefaultConfig()
		c.NoiseStd = 5
		c.Steps = 3000
		return c
	}(),
	"chaos": func() *Config {
		c := DefaultConfig()
		c.Steps = 4000
		c.Ensemble = EnsembleConfig{Count: 100, Perturbation: 0.1}
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
