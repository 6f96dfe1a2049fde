package seesaw

import "math"

type MutationKind int

const (
	MutationSpawn MutationKind = iota
	MutationStep
	MutationReset
	MutationLoad
)

func (k MutationKind) String() string {
	switch k {
	case MutationSpawn:
		return "spawn"
	case MutationStep:
		return "step"
	case MutationReset:
		return "reset"
	case MutationLoad:
		return "load"
	default:
		return "unknown"
	}
}

// Mutation is handed to observers once per public operation, after the
// state is consistent again.
type Mutation struct {
	Kind     MutationKind
	Landed   []LandingEvent
	Snapshot Snapshot
}

type Observer interface {
	OnMutation(m Mutation)
}

type ObserverFunc func(m Mutation)

func (f ObserverFunc) OnMutation(m Mutation) { f(m) }

// State is the single owner of resting and falling items.
type State struct {
	params    Params
	resting   []RestingItem
	falling   []FallingItem
	raw       float64
	nextColor int
	observers []Observer
}

func New(p Params) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &State{
		params:    p,
		resting:   make([]RestingItem, 0),
		falling:   make([]FallingItem, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *State) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *State) Params() Params { return s.params }

func (s *State) Phase() Phase {
	if len(s.falling) > 0 {
		return Active
	}
	return Idle
}

// RawAngle is the unclamped tilt in degrees.
func (s *State) RawAngle() float64 { return s.raw }

// VisualAngle is the clamped tilt used for rendering and collision.
func (s *State) VisualAngle() float64 { return ClampAngle(s.raw, s.params.MaxAngle) }

func (s *State) Plank() Plank {
	return Plank{
		CenterX:    s.params.CenterX,
		CenterY:    s.params.CenterY,
		HalfLength: s.params.HalfLength(),
		AngleDeg:   s.VisualAngle(),
	}
}

func (s *State) RestingCount() int { return len(s.resting) }
func (s *State) FallingCount() int { return len(s.falling) }

// Spawn drops a new item at the drop origin above xAbs. Weights outside
// [MinWeight, MaxWeight] are clamped into range.
func (s *State) Spawn(xAbs float64, weight int) {
	s.falling = append(s.falling, FallingItem{
		XAbs:   xAbs,
		Weight: s.params.ClampWeight(weight),
		Color:  s.nextColor,
	})
	s.nextColor = (s.nextColor + 1) % len(s.params.Palette)
	s.notify(MutationSpawn, nil)
}

// Step advances every falling item by dt. Non-positive or non-finite dt is
// replaced by MinDt. Collision uses the tilt of the resting set as it was at
// the start of the step; the tilt is recomputed once all landings are
// appended. Step on an idle state does nothing.
func (s *State) Step(dt float64) []LandingEvent {
	if len(s.falling) == 0 {
		return nil
	}
	dt = s.sanitizeDt(dt)

	s.recompute()
	res := StepAll(s.falling, dt, s.Plank(), s.params)

	s.falling = res.StillFalling
	for _, ev := range res.Landed {
		s.resting = append(s.resting, ev.Resting())
	}
	s.recompute()

	s.notify(MutationStep, res.Landed)
	return res.Landed
}

// Reset discards everything, in-flight items included, without landing them.
func (s *State) Reset() {
	s.resting = s.resting[:0]
	s.falling = s.falling[:0]
	s.raw = 0
	s.nextColor = 0
	s.notify(MutationReset, nil)
}

// Serialize returns a copy of the resting items in arrival order. Falling
// items are never part of persisted state.
func (s *State) Serialize() []RestingItem {
	out := make([]RestingItem, len(s.resting))
	copy(out, s.resting)
	return out
}

// Deserialize replaces the resting set and drops anything in flight.
func (s *State) Deserialize(items []RestingItem) {
	s.resting = make([]RestingItem, len(items))
	copy(s.resting, items)
	s.falling = s.falling[:0]
	s.nextColor = 0
	if n := len(items); n > 0 {
		s.nextColor = (items[n-1].Color + 1) % len(s.params.Palette)
		if s.nextColor < 0 {
			s.nextColor += len(s.params.Palette)
		}
	}
	s.recompute()
	s.notify(MutationLoad, nil)
}

func (s *State) sanitizeDt(dt float64) float64 {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return s.params.MinDt
	}
	return dt
}

func (s *State) recompute() {
	s.raw = ComputeTilt(s.resting, s.params.AngleScale)
}

func (s *State) notify(kind MutationKind, landed []LandingEvent) {
	if len(s.observers) == 0 {
		return
	}
	m := Mutation{Kind: kind, Landed: landed, Snapshot: s.Snapshot()}
	for _, o := range s.observers {
		o.OnMutation(m)
	}
}
