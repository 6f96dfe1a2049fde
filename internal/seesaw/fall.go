package seesaw

import "math"

// Plank is the collision geometry of one step: an infinite line through
// the pivot with the clamped tilt.
type Plank struct {
	CenterX    float64
	CenterY    float64
	HalfLength float64
	AngleDeg   float64
}

func (p Plank) Slope() float64 {
	return math.Tan(p.AngleDeg * math.Pi / 180)
}

// SurfaceY is the plank height directly beneath xAbs.
func (p Plank) SurfaceY(xAbs float64) float64 {
	return p.CenterY + p.Slope()*(xAbs-p.CenterX)
}

// Ends returns the two end points of the plank segment.
func (p Plank) Ends() (x1, y1, x2, y2 float64) {
	rad := p.AngleDeg * math.Pi / 180
	dx, dy := p.HalfLength*math.Cos(rad), p.HalfLength*math.Sin(rad)
	return p.CenterX - dx, p.CenterY - dy, p.CenterX + dx, p.CenterY + dy
}

type StepResult struct {
	StillFalling []FallingItem
	Landed       []LandingEvent
}

// Integrate advances one item with semi-implicit Euler: velocity first,
// then position with the new velocity.
func Integrate(it FallingItem, gravity, dt float64) FallingItem {
	it.VY += gravity * dt
	it.Y += it.VY * dt
	return it
}

// StepAll integrates every falling item and tests it against plank. All
// items see the same geometry; landings come back in input order. An item
// already below the surface lands on its first step.
func StepAll(falling []FallingItem, dt float64, plank Plank, p Params) StepResult {
	res := StepResult{StillFalling: make([]FallingItem, 0, len(falling))}

	for _, it := range falling {
		it = Integrate(it, p.Gravity, dt)

		bottom := p.SpawnY + it.Y + p.Radius(it.Weight)
		if bottom < plank.SurfaceY(it.XAbs)-p.Tolerance {
			res.StillFalling = append(res.StillFalling, it)
			continue
		}

		limit := plank.HalfLength - p.Margin(it.Weight)
		res.Landed = append(res.Landed, LandingEvent{
			X:      clamp(it.XAbs-plank.CenterX, -limit, limit),
			XAbs:   it.XAbs,
			Weight: it.Weight,
			Color:  it.Color,
		})
	}

	return res
}
