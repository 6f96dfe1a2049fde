package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides lists the knobs that can be set from the environment. Unset
// variables leave the pointers nil and the file values untouched.
type envOverrides struct {
	DataDir   *string  `env:"SEESAW_DATA_DIR"`
	Backend   *string  `env:"SEESAW_STORAGE"`
	Journal   *bool    `env:"SEESAW_JOURNAL"`
	Addr      *string  `env:"SEESAW_ADDR"`
	FrameRate *int     `env:"SEESAW_FPS"`
	Seed      *int64   `env:"SEESAW_SEED"`
	Gravity   *float64 `env:"SEESAW_GRAVITY"`
	Scale     *float64 `env:"SEESAW_ANGLE_SCALE"`
	MaxAngle  *float64 `env:"SEESAW_MAX_ANGLE"`
}

func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if o.DataDir != nil {
		cfg.Storage.DataDir = *o.DataDir
	}
	if o.Backend != nil {
		cfg.Storage.Backend = *o.Backend
	}
	if o.Journal != nil {
		cfg.Storage.Journal = *o.Journal
	}
	if o.Addr != nil {
		cfg.Server.Addr = *o.Addr
	}
	if o.FrameRate != nil {
		cfg.Driver.FrameRate = *o.FrameRate
	}
	if o.Seed != nil {
		cfg.Driver.Seed = *o.Seed
	}
	if o.Gravity != nil {
		cfg.Physics.Gravity = *o.Gravity
	}
	if o.Scale != nil {
		cfg.Physics.AngleScale = *o.Scale
	}
	if o.MaxAngle != nil {
		cfg.Physics.MaxAngle = *o.MaxAngle
	}
	return nil
}
