package driver

// Command is work handed to the driver's goroutine by other goroutines.
type Command interface {
	apply(d *Driver)
}

// SpawnCommand drops an item at X. A zero Weight takes the previewed one.
type SpawnCommand struct {
	X      float64
	Weight int
}

func (c SpawnCommand) apply(d *Driver) {
	if c.Weight == 0 {
		d.Spawn(c.X)
		return
	}
	d.SpawnWeight(c.X, c.Weight)
}

type ResetCommand struct{}

func (ResetCommand) apply(d *Driver) { d.Reset() }
