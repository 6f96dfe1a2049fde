package seesaw

import (
	"fmt"
	"math"
)

// Body is the presentation fact for one item: where its center sits on the
// stage, how big it is and which color it wears.
type Body struct {
	X, Y      float64
	Radius    float64
	Weight    int
	SizeClass string
	Color     string
	Resting   bool
	Offset    float64
}

// Snapshot is an immutable view of the state for renderers.
type Snapshot struct {
	Phase       Phase
	RawAngle    float64
	VisualAngle float64
	Torque      Torque
	Loads       Loads
	Plank       Plank
	Resting     []RestingItem
	Bodies      []Body
}

func (s *State) Snapshot() Snapshot {
	pl := s.Plank()
	t := ComputeTorque(s.resting)
	snap := Snapshot{
		Phase:       s.Phase(),
		RawAngle:    s.raw,
		VisualAngle: pl.AngleDeg,
		Torque:      t,
		Loads:       Loads{Left: t.LeftWeight, Right: t.RightWeight},
		Plank:       pl,
		Resting:     s.Serialize(),
		Bodies:      make([]Body, 0, len(s.resting)+len(s.falling)),
	}

	rad := pl.AngleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	for _, it := range s.resting {
		snap.Bodies = append(snap.Bodies, Body{
			X:         pl.CenterX + it.X*cos,
			Y:         pl.CenterY + it.X*sin,
			Radius:    s.params.Radius(it.Weight),
			Weight:    it.Weight,
			SizeClass: s.params.SizeClass(it.Weight),
			Color:     s.params.Color(it.Color),
			Resting:   true,
			Offset:    it.X,
		})
	}
	for _, it := range s.falling {
		r := s.params.Radius(it.Weight)
		snap.Bodies = append(snap.Bodies, Body{
			X:         it.XAbs,
			Y:         s.params.SpawnY + it.Y + r,
			Radius:    r,
			Weight:    it.Weight,
			SizeClass: s.params.SizeClass(it.Weight),
			Color:     s.params.Color(it.Color),
			Offset:    it.XAbs - pl.CenterX,
		})
	}
	return snap
}

// Readout is the text shown next to the plank.
type Readout struct {
	Left  string
	Right string
	Tilt  string
}

func (s Snapshot) Readout() Readout {
	return Readout{
		Left:  fmt.Sprintf("Left: %.1f kg", float64(s.Loads.Left)),
		Right: fmt.Sprintf("Right: %.1f kg", float64(s.Loads.Right)),
		Tilt:  fmt.Sprintf("Tilt: %.1f°", s.VisualAngle),
	}
}

// Saturated reports whether the raw tilt is beyond the visual clamp.
func (s Snapshot) Saturated() bool {
	return math.Abs(s.RawAngle) > math.Abs(s.VisualAngle)
}
