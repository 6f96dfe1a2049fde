package seesaw

import (
	"fmt"
	"math"
)

// RestingItem is an item permanently attached to the plank. X is the signed
// offset from the plank center; it and Weight never change after landing.
type RestingItem struct {
	X      float64 `json:"x"`
	Weight int     `json:"w"`
	Color  int     `json:"colorIdx"`
}

// FallingItem is an item in free fall. XAbs is fixed for the whole fall and
// Y is the offset below the drop origin.
type FallingItem struct {
	XAbs   float64
	Y      float64
	VY     float64
	Weight int
	Color  int
}

// LandingEvent records the instant a falling item reaches the plank surface.
type LandingEvent struct {
	X      float64
	XAbs   float64
	Weight int
	Color  int
}

func (e LandingEvent) Resting() RestingItem {
	return RestingItem{X: e.X, Weight: e.Weight, Color: e.Color}
}

// Side reports which half of the plank x belongs to. Zero counts as right.
func Side(x float64) string {
	if x < 0 {
		return "left"
	}
	return "right"
}

type Phase int

const (
	Idle Phase = iota
	Active
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Active:
		return "active"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// SizeTier maps a weight range to a rendered width. A tier covers every
// weight up to and including MaxWeight not claimed by a lighter tier.
type SizeTier struct {
	Name      string
	MaxWeight int
	Width     float64
}

// Params holds every tunable of the core. Coordinates are stage pixels with
// y growing downwards.
type Params struct {
	PlankLength float64
	Gravity     float64
	// AngleScale divides the torque difference into degrees. It is a
	// calibration knob for visual sensitivity, not a physical constant.
	AngleScale float64
	MaxAngle   float64
	Tolerance  float64

	CenterX float64
	CenterY float64
	SpawnY  float64

	MinWeight  int
	MaxWeight  int
	EdgeMargin float64
	MinDt      float64

	Tiers   []SizeTier
	Palette []string
}

func DefaultParams() Params {
	return Params{
		PlankLength: 400,
		Gravity:     2600,
		AngleScale:  10,
		MaxAngle:    30,
		Tolerance:   2,
		CenterX:     300,
		CenterY:     300,
		SpawnY:      22,
		MinWeight:   1,
		MaxWeight:   10,
		EdgeMargin:  6,
		MinDt:       0.001,
		Tiers: []SizeTier{
			{Name: "small", MaxWeight: 3, Width: 34},
			{Name: "medium", MaxWeight: 7, Width: 44},
			{Name: "big", MaxWeight: 10, Width: 52},
		},
		Palette: []string{"#60a5fa", "#f97316", "#10b981", "#06b6d4", "#ef4444", "#8b5cf6", "#f59e0b"},
	}
}

func (p Params) Validate() error {
	positive := []struct {
		field string
		v     float64
	}{
		{"plank_length", p.PlankLength},
		{"gravity", p.Gravity},
		{"angle_scale", p.AngleScale},
		{"max_angle", p.MaxAngle},
		{"min_dt", p.MinDt},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return &ParamError{Field: f.field, Reason: fmt.Sprintf("must be positive, got %v", f.v)}
		}
	}
	if p.MaxAngle >= 90 {
		return &ParamError{Field: "max_angle", Reason: fmt.Sprintf("must be below 90, got %v", p.MaxAngle)}
	}
	if !(p.Tolerance >= 0) || math.IsInf(p.Tolerance, 0) {
		return &ParamError{Field: "tolerance", Reason: fmt.Sprintf("must be a finite non-negative number, got %v", p.Tolerance)}
	}
	if !(p.EdgeMargin >= 0) || math.IsInf(p.EdgeMargin, 0) {
		return &ParamError{Field: "edge_margin", Reason: fmt.Sprintf("must be a finite non-negative number, got %v", p.EdgeMargin)}
	}
	if p.MinWeight < 1 || p.MaxWeight < p.MinWeight {
		return &ParamError{Field: "weights", Reason: fmt.Sprintf("need 1 <= min <= max, got [%d,%d]", p.MinWeight, p.MaxWeight)}
	}
	if len(p.Tiers) == 0 {
		return &ParamError{Field: "tiers", Reason: "at least one size tier required"}
	}
	prev := math.MinInt
	for _, t := range p.Tiers {
		if t.MaxWeight <= prev {
			return &ParamError{Field: "tiers", Reason: "max weights must be strictly increasing"}
		}
		if t.Width <= 0 {
			return &ParamError{Field: "tiers", Reason: fmt.Sprintf("tier %q needs a positive width", t.Name)}
		}
		if t.Width/2 >= p.PlankLength/2 {
			return &ParamError{Field: "tiers", Reason: fmt.Sprintf("tier %q is wider than the plank", t.Name)}
		}
		prev = t.MaxWeight
	}
	if len(p.Palette) == 0 {
		return &ParamError{Field: "palette", Reason: "at least one color required"}
	}
	return nil
}

func (p Params) HalfLength() float64 { return p.PlankLength / 2 }
