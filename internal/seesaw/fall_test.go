package seesaw

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func flatPlank(p Params) Plank {
	return Plank{CenterX: p.CenterX, CenterY: p.CenterY, HalfLength: p.HalfLength()}
}

func TestIntegrate_SemiImplicitEuler(t *testing.T) {
	g := NewWithT(t)

	it := Integrate(FallingItem{Weight: 5}, 2600, 0.1)

	g.Expect(it.VY).To(BeNumerically("~", 260, 1e-9))
	g.Expect(it.Y).To(BeNumerically("~", 26, 1e-9))
	g.Expect(it.XAbs).To(BeZero())
}

func TestStepAll_MonotonicFall(t *testing.T) {
	p := DefaultParams()
	falling := []FallingItem{{XAbs: p.CenterX, Weight: 3}}

	prevY, prevVY := 0.0, 0.0
	for i := 0; i < 5; i++ {
		res := StepAll(falling, 0.01, flatPlank(p), p)
		if len(res.Landed) != 0 {
			t.Fatalf("step %d: unexpected landing", i)
		}
		it := res.StillFalling[0]
		if it.Y <= prevY || it.VY <= prevVY {
			t.Errorf("step %d: expected y and vy to grow, got y=%v vy=%v", i, it.Y, it.VY)
		}
		if it.XAbs != p.CenterX {
			t.Errorf("step %d: horizontal position drifted to %v", i, it.XAbs)
		}
		prevY, prevVY = it.Y, it.VY
		falling = res.StillFalling
	}
}

func TestStepAll_LandsOnFlatPlank(t *testing.T) {
	g := NewWithT(t)
	p := DefaultParams()

	falling := []FallingItem{{XAbs: p.CenterX - 80, Weight: 5, Color: 3}}
	var landed []LandingEvent
	for i := 0; i < 1000 && len(landed) == 0; i++ {
		res := StepAll(falling, 1.0/60, flatPlank(p), p)
		falling, landed = res.StillFalling, res.Landed
	}

	g.Expect(landed).To(HaveLen(1))
	g.Expect(falling).To(BeEmpty())
	g.Expect(landed[0].X).To(BeNumerically("~", -80, 1e-9))
	g.Expect(landed[0].Weight).To(Equal(5))
	g.Expect(landed[0].Color).To(Equal(3))
}

func TestStepAll_CollisionThreshold(t *testing.T) {
	p := DefaultParams()
	p.Gravity = 0
	r := p.Radius(1)

	tests := []struct {
		name  string
		y     float64
		lands bool
	}{
		{"well above", p.CenterY - p.SpawnY - r - 50, false},
		{"just outside tolerance", p.CenterY - p.SpawnY - r - p.Tolerance - 0.5, false},
		{"inside tolerance", p.CenterY - p.SpawnY - r - p.Tolerance + 0.5, true},
		{"below surface", p.CenterY, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := StepAll([]FallingItem{{XAbs: p.CenterX, Y: tt.y, Weight: 1}}, 0.01, flatPlank(p), p)
			if got := len(res.Landed) == 1; got != tt.lands {
				t.Errorf("expected lands=%v, got %v", tt.lands, got)
			}
		})
	}
}

func TestStepAll_TiltedSurface(t *testing.T) {
	p := DefaultParams()
	p.Gravity = 0
	pl := flatPlank(p)
	pl.AngleDeg = 30

	// Right side is lower, so the same height lands on the left only.
	y := p.CenterY - p.SpawnY - p.Radius(1) - 20
	res := StepAll([]FallingItem{
		{XAbs: p.CenterX - 100, Y: y, Weight: 1},
		{XAbs: p.CenterX + 100, Y: y, Weight: 1},
	}, 0.01, pl, p)

	if len(res.Landed) != 1 || res.Landed[0].X >= 0 {
		t.Fatalf("expected only the left item to land, got %+v", res.Landed)
	}
	if len(res.StillFalling) != 1 || res.StillFalling[0].XAbs != p.CenterX+100 {
		t.Errorf("expected right item still falling, got %+v", res.StillFalling)
	}
}

func TestStepAll_LandingClamp(t *testing.T) {
	p := DefaultParams()
	pl := flatPlank(p)

	for w := p.MinWeight; w <= p.MaxWeight; w++ {
		for _, xAbs := range []float64{p.CenterX - 1000, p.CenterX - 199, p.CenterX + 199, p.CenterX + 1000} {
			res := StepAll([]FallingItem{{XAbs: xAbs, Y: p.CenterY, Weight: w}}, 0.01, pl, p)
			if len(res.Landed) != 1 {
				t.Fatalf("weight %d at %v: expected a landing", w, xAbs)
			}
			limit := p.HalfLength() - p.Margin(w)
			if x := res.Landed[0].X; math.Abs(x) > limit {
				t.Errorf("weight %d at %v: |x|=%v exceeds %v", w, xAbs, math.Abs(x), limit)
			}
		}
	}
}

func TestStepAll_SpawnBelowSurfaceLandsImmediately(t *testing.T) {
	p := DefaultParams()
	p.SpawnY = 250
	pl := flatPlank(p)
	pl.AngleDeg = 30

	res := StepAll([]FallingItem{{XAbs: p.CenterX - 190, Weight: 2}}, p.MinDt, pl, p)
	if len(res.Landed) != 1 {
		t.Fatalf("expected landing on first step, got %d", len(res.Landed))
	}
}

func TestStepAll_SameGeometryForAllLandings(t *testing.T) {
	p := DefaultParams()
	pl := flatPlank(p)

	res := StepAll([]FallingItem{
		{XAbs: p.CenterX - 150, Y: p.CenterY, Weight: 10},
		{XAbs: p.CenterX + 30, Y: p.CenterY, Weight: 1},
		{XAbs: p.CenterX + 60, Y: p.CenterY, Weight: 2},
	}, 0.01, pl, p)

	if len(res.Landed) != 3 {
		t.Fatalf("expected 3 landings, got %d", len(res.Landed))
	}
	want := []float64{-150, 30, 60}
	for i, ev := range res.Landed {
		if math.Abs(ev.X-want[i]) > 1e-9 {
			t.Errorf("landing %d: expected x %v, got %v", i, want[i], ev.X)
		}
	}
}

func TestPlankEnds(t *testing.T) {
	pl := Plank{CenterX: 0, CenterY: 0, HalfLength: 200}
	x1, y1, x2, y2 := pl.Ends()
	if x1 != -200 || x2 != 200 || y1 != 0 || y2 != 0 {
		t.Errorf("flat plank ends = (%v,%v)-(%v,%v)", x1, y1, x2, y2)
	}
}
