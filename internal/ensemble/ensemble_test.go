package ensemble

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/seesaw/internal/seesaw"
)

func testConfig(drops int) Config {
	return Config{Params: seesaw.DefaultParams(), Drops: drops, Dt: 1.0 / 60}
}

func TestTrialLandsEveryDrop(t *testing.T) {
	g := NewWithT(t)
	res, err := Trial(context.Background(), testConfig(12), 3)

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(res.Items).To(HaveLen(12))
	g.Expect(res.Tilts).To(HaveLen(12))
	g.Expect(res.Metrics["landings"]).To(Equal(12.0))
	g.Expect(res.Tilt).To(Equal(res.Tilts[len(res.Tilts)-1]))
	g.Expect(res.Tilt).To(BeNumerically(">=", -30))
	g.Expect(res.Tilt).To(BeNumerically("<=", 30))
}

func TestTrialDeterministic(t *testing.T) {
	g := NewWithT(t)
	a, err := Trial(context.Background(), testConfig(8), 42)
	g.Expect(err).ToNot(HaveOccurred())
	b, err := Trial(context.Background(), testConfig(8), 42)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(a.Items).To(Equal(b.Items))
	g.Expect(a.RawTilt).To(Equal(b.RawTilt))
}

func TestTrialInvalidParams(t *testing.T) {
	cfg := testConfig(1)
	cfg.Params.Gravity = 0
	if _, err := Trial(context.Background(), cfg, 1); !errors.Is(err, seesaw.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestEnsembleRunKeepsSeedOrder(t *testing.T) {
	g := NewWithT(t)
	results, err := New(testConfig(4), 6, 100).Run(context.Background())

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(results).To(HaveLen(6))
	for i, r := range results {
		g.Expect(r.Seed).To(Equal(int64(100 + i)))
	}
}

func TestEnsembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(testConfig(4), 3, 1).Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEnsembleNoRuns(t *testing.T) {
	if _, err := New(testConfig(1), 0, 1).Run(context.Background()); !errors.Is(err, ErrNoRuns) {
		t.Errorf("expected ErrNoRuns, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	g := NewWithT(t)
	s := Summarize([]*Result{
		{Tilt: -30, RawTilt: -45},
		{Tilt: 10, RawTilt: 10},
		{Tilt: 20, RawTilt: 20},
		{Tilt: 0, RawTilt: 0},
	})

	g.Expect(s.Runs).To(Equal(4))
	g.Expect(s.MeanTilt).To(BeNumerically("~", 0, 1e-9))
	g.Expect(s.MeanAbs).To(BeNumerically("~", 15, 1e-9))
	g.Expect(s.MinTilt).To(Equal(-30.0))
	g.Expect(s.MaxTilt).To(Equal(20.0))
	g.Expect(s.Saturated).To(Equal(1))
	g.Expect(s.Left).To(Equal(1))
	g.Expect(s.Right).To(Equal(2))

	g.Expect(Summarize(nil)).To(Equal(Summary{}))
}

func TestHistogram(t *testing.T) {
	g := NewWithT(t)
	h := Histogram([]*Result{{Tilt: -30}, {Tilt: -1}, {Tilt: 0}, {Tilt: 29}, {Tilt: 30}}, 30, 4)

	g.Expect(h).To(Equal([]int{1, 1, 1, 2}))
	g.Expect(Histogram(nil, 30, 0)).To(BeNil())
}

func TestOffsetWithinPlank(t *testing.T) {
	p := seesaw.DefaultParams()
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 1000; i++ {
		if o := Offset(rng, p); o < -p.HalfLength() || o > p.HalfLength() {
			t.Fatalf("offset %v outside plank", o)
		}
	}
}
