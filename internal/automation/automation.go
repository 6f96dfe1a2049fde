// Package automation replays scripted drop sequences and sweeps a physics
// parameter across a scenario.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/storage"
)

var ErrEmptyScenario = errors.New("automation: scenario has no steps")

// Scenario is a scripted sequence of drops.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Dt          float64        `yaml:"dt"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep drops one item at X px from the pivot, or clears the plank
// when Reset is set. With Together the next step is dropped before this one
// lands.
type ScenarioStep struct {
	X        float64 `yaml:"x"`
	Weight   int     `yaml:"w"`
	Reset    bool    `yaml:"reset"`
	Together bool    `yaml:"together"`
}

type StepResult struct {
	Step    int                   `json:"step"`
	Landed  []seesaw.LandingEvent `json:"landed"`
	Tilt    float64               `json:"tilt"`
	RawTilt float64               `json:"raw_tilt"`
	Resting int                   `json:"resting"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	return &scenario, nil
}

// RunScenario plays every step against drv with a fixed dt. A step whose
// weight is zero takes the driver's previewed weight.
func RunScenario(ctx context.Context, scenario *Scenario, drv *driver.Driver) ([]StepResult, error) {
	dt := scenario.Dt
	if dt <= 0 {
		dt = 1.0 / 60
	}
	st := drv.State()
	cx := st.Params().CenterX
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := StepResult{Step: i + 1}
		switch {
		case step.Reset:
			drv.Reset()
		case step.Weight == 0:
			drv.Spawn(cx + step.X)
		default:
			drv.SpawnWeight(cx+step.X, step.Weight)
		}
		if !step.Together || i == len(scenario.Steps)-1 {
			res.Landed, _ = drv.RunUntilIdle(dt, 100000)
		}

		res.Tilt = st.VisualAngle()
		res.RawTilt = st.RawAngle()
		res.Resting = st.RestingCount()
		results = append(results, res)
	}
	return results, nil
}

// ParameterSweep replays a scenario on fresh planks while one parameter
// moves linearly from Min to Max.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

type SweepResult struct {
	ParamValue float64 `json:"value"`
	Tilt       float64 `json:"tilt"`
	RawTilt    float64 `json:"raw_tilt"`
	Resting    int     `json:"resting"`
}

// SweepParams lists the parameter names a sweep can move.
var SweepParams = map[string]func(*seesaw.Params, float64){
	"gravity":     func(p *seesaw.Params, v float64) { p.Gravity = v },
	"angle_scale": func(p *seesaw.Params, v float64) { p.AngleScale = v },
	"max_angle":   func(p *seesaw.Params, v float64) { p.MaxAngle = v },
	"tolerance":   func(p *seesaw.Params, v float64) { p.Tolerance = v },
	"edge_margin": func(p *seesaw.Params, v float64) { p.EdgeMargin = v },
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, scenario *Scenario, base seesaw.Params, seed int64) ([]SweepResult, error) {
	set, ok := SweepParams[sweep.Param]
	if !ok {
		return nil, fmt.Errorf("parameter %s cannot be swept", sweep.Param)
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	paramStep := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		val := sweep.Min + float64(i)*paramStep
		p := base
		set(&p, val)

		st, err := seesaw.New(p)
		if err != nil {
			return results, fmt.Errorf("%s=%.4f: %w", sweep.Param, val, err)
		}
		drv := driver.New(st, storage.NewMemoryStore(), driver.Options{Seed: seed})
		if _, err := RunScenario(ctx, scenario, drv); err != nil {
			return results, err
		}

		results = append(results, SweepResult{
			ParamValue: val,
			Tilt:       st.VisualAngle(),
			RawTilt:    st.RawAngle(),
			Resting:    st.RestingCount(),
		})
	}
	return results, nil
}
