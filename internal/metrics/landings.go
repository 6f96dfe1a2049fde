package metrics

import (
	"math"

	"github.com/san-kum/seesaw/internal/seesaw"
)

type Landings struct {
	name  string
	count int
}

func NewLandings() *Landings {
	return &Landings{name: "landings"}
}

func (l *Landings) Name() string { return l.name }

func (l *Landings) Observe(m seesaw.Mutation) {
	l.count += len(m.Landed)
}

func (l *Landings) Value() float64 { return float64(l.count) }

func (l *Landings) Reset() { l.count = 0 }

// MeanOffset is the mean distance from the pivot at which items landed.
type MeanOffset struct {
	name    string
	sum     float64
	samples int
}

func NewMeanOffset() *MeanOffset {
	return &MeanOffset{name: "mean_offset"}
}

func (o *MeanOffset) Name() string { return o.name }

func (o *MeanOffset) Observe(m seesaw.Mutation) {
	for _, ev := range m.Landed {
		o.sum += math.Abs(ev.X)
		o.samples++
	}
}

func (o *MeanOffset) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return o.sum / float64(o.samples)
}

func (o *MeanOffset) Reset() {
	o.sum = 0
	o.samples = 0
}
