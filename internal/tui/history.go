package tui

import "github.com/san-kum/seesaw/internal/seesaw"

const historyCapacity = 600

// TiltHistory records the visual tilt after every mutation. It is installed
// as a driver renderer.
type TiltHistory struct {
	values []float64
}

func NewTiltHistory() *TiltHistory {
	return &TiltHistory{values: make([]float64, 0, historyCapacity)}
}

func (h *TiltHistory) Render(snap seesaw.Snapshot) error {
	if len(h.values) == historyCapacity {
		copy(h.values, h.values[1:])
		h.values = h.values[:historyCapacity-1]
	}
	h.values = append(h.values, snap.VisualAngle)
	return nil
}

func (h *TiltHistory) Values() []float64 { return h.values }
