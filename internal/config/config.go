package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/seesaw/internal/seesaw"
)

const (
	DefaultDataDir   = ".seesaw"
	DefaultBackend   = "json"
	DefaultFrameRate = 60
	DefaultAddr      = "127.0.0.1:8080"
)

type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
	Stage   StageConfig   `yaml:"stage"`
	Weights WeightConfig  `yaml:"weights"`
	Tiers   []TierConfig  `yaml:"tiers"`
	Palette []string      `yaml:"palette"`
	Storage StorageConfig `yaml:"storage"`
	Driver  DriverConfig  `yaml:"driver"`
	Server  ServerConfig  `yaml:"server"`
}

type PhysicsConfig struct {
	PlankLength float64 `yaml:"plank_length"`
	Gravity     float64 `yaml:"gravity"`
	AngleScale  float64 `yaml:"angle_scale"`
	MaxAngle    float64 `yaml:"max_angle"`
	Tolerance   float64 `yaml:"tolerance"`
	EdgeMargin  float64 `yaml:"edge_margin"`
	MinDt       float64 `yaml:"min_dt"`
}

// StageConfig places the pivot and the drop origin in stage pixels.
type StageConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	PivotY      float64 `yaml:"pivot_y"`
	SpawnOffset float64 `yaml:"spawn_offset"`
}

type WeightConfig struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type TierConfig struct {
	Name      string  `yaml:"name"`
	MaxWeight int     `yaml:"max_weight"`
	Width     float64 `yaml:"width"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir"`
	Journal bool   `yaml:"journal"`
}

type DriverConfig struct {
	FrameRate int   `yaml:"frame_rate"`
	Seed      int64 `yaml:"seed"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func DefaultConfig() *Config {
	p := seesaw.DefaultParams()
	cfg := &Config{
		Physics: PhysicsConfig{
			PlankLength: p.PlankLength,
			Gravity:     p.Gravity,
			AngleScale:  p.AngleScale,
			MaxAngle:    p.MaxAngle,
			Tolerance:   p.Tolerance,
			EdgeMargin:  p.EdgeMargin,
			MinDt:       p.MinDt,
		},
		Stage: StageConfig{
			Width:       p.CenterX * 2,
			Height:      p.CenterY + 100,
			PivotY:      p.CenterY,
			SpawnOffset: p.SpawnY,
		},
		Weights: WeightConfig{Min: p.MinWeight, Max: p.MaxWeight},
		Palette: append([]string(nil), p.Palette...),
		Storage: StorageConfig{
			Backend: DefaultBackend,
			DataDir: DefaultDataDir,
			Journal: true,
		},
		Driver: DriverConfig{FrameRate: DefaultFrameRate},
		Server: ServerConfig{Addr: DefaultAddr},
	}
	for _, t := range p.Tiers {
		cfg.Tiers = append(cfg.Tiers, TierConfig{Name: t.Name, MaxWeight: t.MaxWeight, Width: t.Width})
	}
	return cfg
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto reads a YAML file on top of cfg. Keys missing from the file keep
// their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Params converts the file layout into the core's parameter set.
func (c *Config) Params() seesaw.Params {
	p := seesaw.Params{
		PlankLength: c.Physics.PlankLength,
		Gravity:     c.Physics.Gravity,
		AngleScale:  c.Physics.AngleScale,
		MaxAngle:    c.Physics.MaxAngle,
		Tolerance:   c.Physics.Tolerance,
		CenterX:     c.Stage.Width / 2,
		CenterY:     c.Stage.PivotY,
		SpawnY:      c.Stage.SpawnOffset,
		MinWeight:   c.Weights.Min,
		MaxWeight:   c.Weights.Max,
		EdgeMargin:  c.Physics.EdgeMargin,
		MinDt:       c.Physics.MinDt,
		Palette:     append([]string(nil), c.Palette...),
	}
	for _, t := range c.Tiers {
		p.Tiers = append(p.Tiers, seesaw.SizeTier{Name: t.Name, MaxWeight: t.MaxWeight, Width: t.Width})
	}
	return p
}

func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Stage.Width < c.Physics.PlankLength {
		return fmt.Errorf("stage width %.0f is narrower than the plank (%.0f)", c.Stage.Width, c.Physics.PlankLength)
	}
	if c.Stage.SpawnOffset >= c.Stage.PivotY {
		return fmt.Errorf("spawn offset %.0f must be above the pivot (%.0f)", c.Stage.SpawnOffset, c.Stage.PivotY)
	}
	switch c.Storage.Backend {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}
	if c.Driver.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", c.Driver.FrameRate)
	}
	return nil
}
