// Package ensemble runs many independent headless seesaws in parallel and
// summarizes where they settle.
package ensemble

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/san-kum/seesaw/internal/driver"
	"github.com/san-kum/seesaw/internal/metrics"
	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/storage"
)

var ErrNoRuns = errors.New("ensemble: no runs")

type Config struct {
	Params   seesaw.Params
	Drops    int
	Dt       float64
	MaxSteps int
}

type Result struct {
	Seed    int64                `json:"seed"`
	Items   []seesaw.RestingItem `json:"items"`
	Tilts   []float64            `json:"tilts"`
	RawTilt float64              `json:"raw_tilt"`
	Tilt    float64              `json:"tilt"`
	Metrics map[string]float64   `json:"metrics"`
}

type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	workers   int
}

func New(cfg Config, numRuns int, seedStart int64) *Ensemble {
	if cfg.Dt <= 0 {
		cfg.Dt = 1.0 / 60
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 100000
	}
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, workers: runtime.GOMAXPROCS(0)}
}

// Run executes every trial, seeded seedStart+i, on a bounded set of
// goroutines. Results keep seed order.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	if e.numRuns <= 0 {
		return nil, ErrNoRuns
	}
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx], errs[idx] = Trial(ctx, e.cfg, e.seedStart+int64(idx))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Trial drops cfg.Drops items at random offsets onto an empty plank and
// lets each one land before the next is dropped.
func Trial(ctx context.Context, cfg Config, seed int64) (*Result, error) {
	st, err := seesaw.New(cfg.Params)
	if err != nil {
		return nil, err
	}
	collector := metrics.Default()
	st.AddObserver(collector)
	drv := driver.New(st, storage.NewMemoryStore(), driver.Options{Seed: seed})

	rng := rand.New(rand.NewSource(seed))
	res := &Result{Seed: seed, Tilts: make([]float64, 0, cfg.Drops)}
	for i := 0; i < cfg.Drops; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		drv.Spawn(cfg.Params.CenterX + Offset(rng, cfg.Params))
		drv.RunUntilIdle(cfg.Dt, cfg.MaxSteps)
		res.Tilts = append(res.Tilts, st.VisualAngle())
	}

	res.Items = st.Serialize()
	res.RawTilt = st.RawAngle()
	res.Tilt = st.VisualAngle()
	res.Metrics = collector.Values()
	return res, nil
}

// Offset picks a uniform drop offset from the pivot across the plank.
func Offset(rng *rand.Rand, p seesaw.Params) float64 {
	return (rng.Float64()*2 - 1) * p.HalfLength()
}

type Summary struct {
	Runs      int     `json:"runs"`
	MeanTilt  float64 `json:"mean_tilt"`
	MeanAbs   float64 `json:"mean_abs_tilt"`
	MinTilt   float64 `json:"min_tilt"`
	MaxTilt   float64 `json:"max_tilt"`
	Saturated int     `json:"saturated"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
}

// Summarize reports the spread of final tilts. A run counts as saturated
// when its raw tilt is beyond the visual clamp.
func Summarize(results []*Result) Summary {
	s := Summary{Runs: len(results)}
	if len(results) == 0 {
		return s
	}
	s.MinTilt, s.MaxTilt = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		s.MeanTilt += r.Tilt
		s.MeanAbs += math.Abs(r.Tilt)
		s.MinTilt = math.Min(s.MinTilt, r.Tilt)
		s.MaxTilt = math.Max(s.MaxTilt, r.Tilt)
		if math.Abs(r.RawTilt) > math.Abs(r.Tilt) {
			s.Saturated++
		}
		switch {
		case r.Tilt < 0:
			s.Left++
		case r.Tilt > 0:
			s.Right++
		}
	}
	n := float64(len(results))
	s.MeanTilt /= n
	s.MeanAbs /= n
	return s
}

// Histogram buckets final tilts into bins across [-limit, limit].
func Histogram(results []*Result, limit float64, bins int) []int {
	if bins <= 0 {
		return nil
	}
	out := make([]int, bins)
	width := 2 * limit / float64(bins)
	for _, r := range results {
		i := int((r.Tilt + limit) / width)
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		out[i]++
	}
	return out
}
