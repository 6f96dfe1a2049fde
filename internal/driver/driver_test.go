package driver

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/seesaw/internal/seesaw"
	"github.com/san-kum/seesaw/internal/storage"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}

type memJournal struct{ entries []storage.JournalEntry }

func (j *memJournal) Write(e storage.JournalEntry) error {
	j.entries = append(j.entries, e)
	return nil
}

type failingStore struct{}

func (failingStore) Load() ([]seesaw.RestingItem, error) { return nil, errors.New("disk on fire") }
func (failingStore) Save([]seesaw.RestingItem) error     { return errors.New("disk on fire") }

func newTestDriver(t *testing.T, store Store) (*Driver, *fakeClock, *memJournal) {
	t.Helper()
	st, err := seesaw.New(seesaw.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	clock := &fakeClock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	j := &memJournal{}
	d := New(st, store, Options{Seed: 1, Journal: j, Clock: clock.now})
	return d, clock, j
}

func TestDriverOpenMalformed(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetRaw([]byte(`{"items": 42}`))
	d, _, _ := newTestDriver(t, store)

	d.Open()
	if n := d.State().RestingCount(); n != 0 {
		t.Errorf("expected empty state, got %d items", n)
	}
}

func TestDriverOpenLoadError(t *testing.T) {
	d, _, _ := newTestDriver(t, failingStore{})
	d.Open()
	if n := d.State().RestingCount(); n != 0 {
		t.Errorf("expected empty state, got %d items", n)
	}
}

func TestDriverOpenRestores(t *testing.T) {
	store := storage.NewMemoryStore()
	if err := store.Save([]seesaw.RestingItem{{X: -100, Weight: 5}}); err != nil {
		t.Fatal(err)
	}
	d, _, _ := newTestDriver(t, store)

	d.Open()
	if got := d.State().VisualAngle(); got != -30 {
		t.Errorf("expected tilt -30, got %v", got)
	}
}

func TestDriverWritesThroughOnLanding(t *testing.T) {
	store := storage.NewMemoryStore()
	d, clock, j := newTestDriver(t, store)

	renders := 0
	d.AddRenderer(RendererFunc(func(seesaw.Snapshot) error {
		renders++
		return nil
	}))

	w := d.Spawn(d.State().Params().CenterX + 50)
	frames := 0
	for d.State().Phase() == seesaw.Active {
		d.Frame(clock.advance(16 * time.Millisecond))
		frames++
		if frames > 1000 {
			t.Fatal("item never landed")
		}
	}

	if store.Saves() != 1 {
		t.Errorf("expected exactly 1 save, got %d", store.Saves())
	}
	if renders != frames+1 {
		t.Errorf("expected %d renders, got %d", frames+1, renders)
	}
	items, _ := store.Load()
	if len(items) != 1 || items[0].Weight != w || items[0].X != 50 {
		t.Errorf("unexpected stored items %v", items)
	}
	if len(j.entries) != 1 || j.entries[0].Kind != "landing" || j.entries[0].W != w {
		t.Errorf("unexpected journal %+v", j.entries)
	}
}

func TestDriverFrameClampsDt(t *testing.T) {
	d, clock, _ := newTestDriver(t, storage.NewMemoryStore())
	d.SpawnWeight(d.State().Params().CenterX, 1)

	// Clock does not move: the step must still use the minimum dt.
	d.Frame(clock.t)
	p := d.State().Params()
	body := d.Snapshot().Bodies[0]
	want := p.SpawnY + p.Gravity*p.MinDt*p.MinDt + body.Radius
	if diff := body.Y - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("expected y %v, got %v", want, body.Y)
	}

	// Clock moving backwards is clamped too.
	d.Frame(clock.advance(-time.Second))
	if d.Snapshot().Bodies[0].Y <= body.Y {
		t.Error("expected item to keep falling")
	}
}

func TestDriverFrameIdle(t *testing.T) {
	d, clock, _ := newTestDriver(t, storage.NewMemoryStore())
	if landed := d.Frame(clock.advance(time.Second)); landed != nil {
		t.Errorf("expected nil, got %v", landed)
	}
}

func TestDriverReset(t *testing.T) {
	store := storage.NewMemoryStore()
	d, _, j := newTestDriver(t, store)
	d.State().Deserialize([]seesaw.RestingItem{{X: 10, Weight: 2}})
	d.Spawn(0)

	d.Reset()

	items, _ := store.Load()
	if len(items) != 0 {
		t.Errorf("expected empty store after reset, got %v", items)
	}
	if len(d.Entries()) != 0 {
		t.Errorf("expected log cleared, got %v", d.Entries())
	}
	if len(j.entries) != 1 || j.entries[0].Kind != "reset" {
		t.Errorf("expected reset journal entry, got %+v", j.entries)
	}
}

func TestDriverSpawnLog(t *testing.T) {
	d, _, _ := newTestDriver(t, storage.NewMemoryStore())
	cx := d.State().Params().CenterX

	d.SpawnWeight(cx-42.4, 3)
	d.SpawnWeight(cx+100, 12)

	entries := d.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0] != "10kg dropped on right at 100px from center" {
		t.Errorf("unexpected newest entry %q", entries[0])
	}
	if entries[1] != "3kg dropped on left at 42px from center" {
		t.Errorf("unexpected oldest entry %q", entries[1])
	}
}

func TestDriverLogCapped(t *testing.T) {
	d, _, _ := newTestDriver(t, storage.NewMemoryStore())
	for i := 0; i < maxLogEntries+20; i++ {
		d.SpawnWeight(float64(i), 1)
	}
	entries := d.Entries()
	if len(entries) != maxLogEntries {
		t.Errorf("expected %d entries, got %d", maxLogEntries, len(entries))
	}
	if !strings.Contains(entries[0], "at 31px") {
		t.Errorf("expected newest entry first, got %q", entries[0])
	}
}

func TestDriverSpawnUsesPreview(t *testing.T) {
	d, _, _ := newTestDriver(t, storage.NewMemoryStore())
	next := d.NextWeight()
	if got := d.Spawn(100); got != next {
		t.Errorf("expected previewed weight %d, got %d", next, got)
	}
}

func TestDriverRunUntilIdle(t *testing.T) {
	d, _, _ := newTestDriver(t, storage.NewMemoryStore())
	cx := d.State().Params().CenterX
	d.SpawnWeight(cx-30, 4)
	d.SpawnWeight(cx+90, 6)

	landed, steps := d.RunUntilIdle(1.0/120, 10000)
	if len(landed) != 2 {
		t.Errorf("expected 2 landings, got %d", len(landed))
	}
	if steps == 0 || d.State().Phase() != seesaw.Idle {
		t.Errorf("expected idle after %d steps", steps)
	}
}

func TestDriverRun(t *testing.T) {
	store := storage.NewMemoryStore()
	d, _, _ := newTestDriver(t, store)
	d.now = time.Now

	settled := make(chan struct{}, 1)
	d.AddRenderer(RendererFunc(func(s seesaw.Snapshot) error {
		if s.Phase == seesaw.Idle && len(s.Resting) == 1 {
			select {
			case settled <- struct{}{}:
			default:
			}
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cmds := make(chan Command)
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, cmds) }()

	cmds <- SpawnCommand{X: d.State().Params().CenterX - 60, Weight: 7}

	select {
	case <-settled:
	case <-time.After(5 * time.Second):
		t.Fatal("item never settled")
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	items, _ := store.Load()
	if len(items) != 1 || items[0].Weight != 7 {
		t.Errorf("unexpected stored items %v", items)
	}
}

func TestDriverRunClosedCommands(t *testing.T) {
	store := storage.NewMemoryStore()
	d, _, _ := newTestDriver(t, store)

	cmds := make(chan Command, 2)
	cmds <- ResetCommand{}
	close(cmds)

	if err := d.Run(context.Background(), cmds); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if store.Saves() != 2 {
		t.Errorf("expected reset save and final save, got %d", store.Saves())
	}
}
