package seesaw

import "math/rand"

// WeightSource picks the weight of the next drop uniformly from
// [MinWeight, MaxWeight]. The upcoming weight is always known so it can be
// previewed before the drop.
type WeightSource struct {
	rng      *rand.Rand
	min, max int
	next     int
}

func NewWeightSource(p Params, seed int64) *WeightSource {
	w := &WeightSource{
		rng: rand.New(rand.NewSource(seed)),
		min: p.MinWeight,
		max: p.MaxWeight,
	}
	w.next = w.draw()
	return w
}

func (w *WeightSource) Peek() int { return w.next }

func (w *WeightSource) Next() int {
	cur := w.next
	w.next = w.draw()
	return cur
}

func (w *WeightSource) draw() int {
	return w.rng.Intn(w.max-w.min+1) + w.min
}
