// Package driver runs the frame loop around a seesaw.State and connects it
// to its collaborators: renderers, the persistent store and the landing
// journal.
package driver

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"time"

	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/storage"
)

const maxLogEntries = 250

// Renderer draws a snapshot. It is called after every spawn, step, reset
// and load.
type Renderer interface {
	Render(snap seesaw.Snapshot) error
}

type RendererFunc func(snap seesaw.Snapshot) error

func (f RendererFunc) Render(snap seesaw.Snapshot) error { return f(snap) }

type Store interface {
	Load() ([]seesaw.RestingItem, error)
	Save(items []seesaw.RestingItem) error
}

type Journal interface {
	Write(e storage.JournalEntry) error
}

type Options struct {
	FrameRate int
	Seed      int64
	Logger    *log.Logger
	Journal   Journal
	Clock     func() time.Time
}

// Driver is the single owner of a seesaw.State.
type Driver struct {
	state     *seesaw.State
	weights   *seesaw.WeightSource
	store     Store
	journal   Journal
	renderers []Renderer
	log       *log.Logger
	now       func() time.Time
	interval  time.Duration

	last    time.Time
	entries []string
}

func New(st *seesaw.State, store Store, opts Options) *Driver {
	if opts.FrameRate <= 0 {
		opts.FrameRate = 60
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	d := &Driver{
		state:    st,
		weights:  seesaw.NewWeightSource(st.Params(), opts.Seed),
		store:    store,
		journal:  opts.Journal,
		log:      opts.Logger,
		now:      opts.Clock,
		interval: time.Second / time.Duration(opts.FrameRate),
		entries:  make([]string, 0, maxLogEntries),
	}
	st.AddObserver(d)
	return d
}

func (d *Driver) AddRenderer(r Renderer) { d.renderers = append(d.renderers, r) }

func (d *Driver) State() *seesaw.State { return d.state }

func (d *Driver) Snapshot() seesaw.Snapshot { return d.state.Snapshot() }

// NextWeight previews the weight of the next drop.
func (d *Driver) NextWeight() int { return d.weights.Peek() }

// Entries returns the drop log, newest first.
func (d *Driver) Entries() []string {
	out := make([]string, len(d.entries))
	for i, e := range d.entries {
		out[len(d.entries)-1-i] = e
	}
	return out
}

// Open restores the resting set from the store. Missing or unreadable
// state starts the plank empty; the failure is only logged.
func (d *Driver) Open() {
	items, err := d.store.Load()
	if err != nil {
		d.log.Printf("driver: starting empty, load failed: %v", err)
		items = nil
	}
	d.state.Deserialize(items)
}

// Close writes the final resting set.
func (d *Driver) Close() error {
	return d.store.Save(d.state.Serialize())
}

// Spawn drops the previewed weight at xAbs and returns it.
func (d *Driver) Spawn(xAbs float64) int {
	w := d.weights.Next()
	d.SpawnWeight(xAbs, w)
	return w
}

func (d *Driver) SpawnWeight(xAbs float64, weight int) {
	p := d.state.Params()
	weight = p.ClampWeight(weight)
	if d.state.Phase() == seesaw.Idle {
		d.last = d.now()
	}

	x := math.Round(xAbs - p.CenterX)
	d.record(fmt.Sprintf("%dkg dropped on %s at %.0fpx from center", weight, seesaw.Side(x), math.Abs(x)))
	d.state.Spawn(xAbs, weight)
}

func (d *Driver) Reset() {
	d.state.Reset()
}

// Frame advances the simulation to now. The elapsed time since the last
// frame is clamped to the configured minimum. Idle frames do nothing.
func (d *Driver) Frame(now time.Time) []seesaw.LandingEvent {
	if d.state.Phase() == seesaw.Idle {
		d.last = time.Time{}
		return nil
	}

	dt := 0.0
	if !d.last.IsZero() {
		dt = now.Sub(d.last).Seconds()
	}
	if minDt := d.state.Params().MinDt; dt < minDt {
		dt = minDt
	}
	d.last = now
	return d.state.Step(dt)
}

// RunUntilIdle steps with a fixed dt until nothing is falling or maxSteps
// is reached. It returns every landing and the number of steps taken.
func (d *Driver) RunUntilIdle(dt float64, maxSteps int) ([]seesaw.LandingEvent, int) {
	var landed []seesaw.LandingEvent
	steps := 0
	for d.state.Phase() == seesaw.Active && steps < maxSteps {
		landed = append(landed, d.state.Step(dt)...)
		steps++
	}
	return landed, steps
}

// Run drives frames at the configured rate while the state is active and
// applies commands between frames. It returns when ctx is done or cmds is
// closed, after saving the final state.
func (d *Driver) Run(ctx context.Context, cmds <-chan Command) error {
	ticker := time.NewTicker(d.interval)
	ticker.Stop()
	defer ticker.Stop()

	var tick <-chan time.Time
	wake := func() {
		if tick == nil && d.state.Phase() == seesaw.Active {
			ticker.Reset(d.interval)
			tick = ticker.C
		}
	}
	wake()

	for {
		select {
		case <-ctx.Done():
			if err := d.Close(); err != nil {
				d.log.Printf("driver: final save failed: %v", err)
			}
			return ctx.Err()
		case cmd, ok := <-cmds:
			if !ok {
				return d.Close()
			}
			cmd.apply(d)
			wake()
		case now := <-tick:
			d.Frame(now)
			if d.state.Phase() == seesaw.Idle {
				ticker.Stop()
				tick = nil
			}
		}
	}
}

// OnMutation renders every change and writes through to the store when
// items land or the plank is reset.
func (d *Driver) OnMutation(m seesaw.Mutation) {
	for _, r := range d.renderers {
		if err := r.Render(m.Snapshot); err != nil {
			d.log.Printf("driver: render failed: %v", err)
		}
	}

	switch m.Kind {
	case seesaw.MutationStep:
		if len(m.Landed) == 0 {
			return
		}
		for _, ev := range m.Landed {
			d.log.Printf("driver: %dkg landed at %.1fpx, tilt %.1f°", ev.Weight, ev.X, m.Snapshot.VisualAngle)
			d.writeJournal(storage.JournalEntry{
				Kind:      "landing",
				X:         ev.X,
				XAbs:      ev.XAbs,
				W:         ev.Weight,
				ColorIdx:  ev.Color,
				TiltAfter: m.Snapshot.RawAngle,
			})
		}
		d.persist(m.Snapshot.Resting)
	case seesaw.MutationReset:
		d.entries = d.entries[:0]
		d.writeJournal(storage.JournalEntry{Kind: "reset"})
		d.persist(m.Snapshot.Resting)
	}
}

func (d *Driver) persist(items []seesaw.RestingItem) {
	if err := d.store.Save(items); err != nil {
		d.log.Printf("driver: save failed: %v", err)
	}
}

func (d *Driver) writeJournal(e storage.JournalEntry) {
	if d.journal == nil {
		return
	}
	e.Time = d.now().UTC()
	if err := d.journal.Write(e); err != nil {
		d.log.Printf("driver: journal write failed: %v", err)
	}
}

func (d *Driver) record(msg string) {
	d.log.Print("driver: " + msg)
	if len(d.entries) == maxLogEntries {
		copy(d.entries, d.entries[1:])
		d.entries = d.entries[:maxLogEntries-1]
	}
	d.entries = append(d.entries, msg)
}
