package seesaw

import "math"

// Torque is the per-side moment and load of a set of resting items.
type Torque struct {
	Left        float64
	Right       float64
	LeftWeight  int
	RightWeight int
}

type Loads struct {
	Left  int
	Right int
}

// ComputeTorque sums weight*|x| per side. Items at exactly x == 0 count as
// right; they add load but no moment.
func ComputeTorque(items []RestingItem) Torque {
	var t Torque
	for _, it := range items {
		d := math.Abs(it.X)
		if it.X < 0 {
			t.Left += float64(it.Weight) * d
			t.LeftWeight += it.Weight
		} else {
			t.Right += float64(it.Weight) * d
			t.RightWeight += it.Weight
		}
	}
	return t
}

// ComputeTilt returns the raw signed tilt in degrees, positive meaning right
// side down. The result is unbounded; see ClampAngle.
func ComputeTilt(items []RestingItem, angleScale float64) float64 {
	t := ComputeTorque(items)
	return (t.Right - t.Left) / angleScale
}

func ComputeLoads(items []RestingItem) Loads {
	t := ComputeTorque(items)
	return Loads{Left: t.LeftWeight, Right: t.RightWeight}
}

// ClampAngle restricts a raw tilt to [-maxAngle, maxAngle]. Rendering and
// collision both read the clamped value, so loads past saturation look the
// same.
func ClampAngle(raw, maxAngle float64) float64 {
	return clamp(raw, -maxAngle, maxAngle)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
