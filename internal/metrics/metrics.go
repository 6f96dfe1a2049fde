// Package metrics summarizes a seesaw session by observing its mutations.
package metrics

import (
	"sort"

	"github.com/san-kum/seesaw/internal/seesaw"
)

type Metric interface {
	Name() string
	Observe(m seesaw.Mutation)
	Value() float64
	Reset()
}

// Collector fans mutations out to its metrics. A plank reset resets them.
type Collector struct {
	metrics []Metric
}

func NewCollector(ms ...Metric) *Collector {
	return &Collector{metrics: ms}
}

// Default returns the metrics reported after a session.
func Default() *Collector {
	return NewCollector(NewLandings(), NewPeakTilt(), NewSaturation(), NewMeanOffset())
}

func (c *Collector) Add(m Metric) { c.metrics = append(c.metrics, m) }

func (c *Collector) OnMutation(m seesaw.Mutation) {
	for _, mt := range c.metrics {
		if m.Kind == seesaw.MutationReset {
			mt.Reset()
			continue
		}
		mt.Observe(m)
	}
}

func (c *Collector) Values() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Collector) Names() []string {
	names := make([]string, 0, len(c.metrics))
	for _, m := range c.metrics {
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}
