package config

import "sort"

// Presets tweak the physics block of the default configuration.
var Presets = map[string]func(*Config){
	"classic": func(c *Config) {},
	"moon": func(c *Config) {
		c.Physics.Gravity = 430
	},
	"long": func(c *Config) {
		c.Physics.PlankLength = 560
		c.Stage.Width = 720
	},
	"twitchy": func(c *Config) {
		c.Physics.AngleScale = 2
		c.Physics.MaxAngle = 45
	},
	"heavy": func(c *Config) {
		c.Weights.Min = 5
		c.Weights.Max = 20
		c.Tiers = []TierConfig{
			{Name: "small", MaxWeight: 9, Width: 34},
			{Name: "medium", MaxWeight: 15, Width: 44},
			{Name: "big", MaxWeight: 20, Width: 52},
		}
	},
}

// GetPreset returns the default configuration with the named preset
// applied, or nil when there is no such preset.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
