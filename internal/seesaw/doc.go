// Package seesaw provides the physics and state core of a balanced beam.
//
// Weighted items are dropped onto a plank that pivots around its center.
// The plank's tilt is an algebraic function of the torque of the items
// resting on it; items in flight fall under gravity and are tested against
// the tilted plank surface every step.
//
//   - [ComputeTorque], [ComputeTilt], [ComputeLoads]: pure torque model
//   - [StepAll]: free-fall integration and plank impact detection
//   - [State]: the owned aggregate of resting and falling items
//
// # Example
//
//	st, _ := seesaw.New(seesaw.DefaultParams())
//	st.Spawn(st.Params().CenterX-100, 5)
//	for st.Phase() == seesaw.Active {
//		st.Step(1.0 / 60)
//	}
//
// # Thread Safety
//
// State is NOT thread-safe. It is meant to be owned by a single frame
// driver; other goroutines hand it work through the driver.
package seesaw
