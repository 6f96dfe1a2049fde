package metrics

import (
	"math"

	"github.com/san-kum/seesaw/internal/seesaw"
)

// PeakTilt tracks the largest raw tilt magnitude seen, clamped or not.
type PeakTilt struct {
	name string
	peak float64
}

func NewPeakTilt() *PeakTilt {
	return &PeakTilt{name: "peak_tilt"}
}

func (p *PeakTilt) Name() string { return p.name }

func (p *PeakTilt) Observe(m seesaw.Mutation) {
	p.peak = math.Max(p.peak, math.Abs(m.Snapshot.RawAngle))
}

func (p *PeakTilt) Value() float64 { return p.peak }

func (p *PeakTilt) Reset() { p.peak = 0 }

// Saturation is the fraction of landing steps after which the raw tilt was
// past the visual clamp.
type Saturation struct {
	name      string
	saturated int
	samples   int
}

func NewSaturation() *Saturation {
	return &Saturation{name: "saturation"}
}

func (s *Saturation) Name() string { return s.name }

func (s *Saturation) Observe(m seesaw.Mutation) {
	if m.Kind != seesaw.MutationStep || len(m.Landed) == 0 {
		return
	}
	s.samples++
	if m.Snapshot.Saturated() {
		s.saturated++
	}
}

func (s *Saturation) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.saturated) / float64(s.samples)
}

func (s *Saturation) Reset() {
	s.saturated = 0
	s.samples = 0
}
