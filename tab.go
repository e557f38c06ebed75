package relaysim

// Point is a 2D coordinate, used for component positions, tab positions and
// waypoints. The kernel treats it as opaque data it must round-trip; layout
// math is a GUI concern.
type Point struct {
	X, Y float64
}

// Tab is a physical connection point: one of the small stubs on a
// component's outline that a Wire can attach to. A Tab is owned by exactly
// one Pin. Its runtime state is written by that Pin's SetState and by the
// run loop's propagateGroupState, which stores the committed VNET state on
// the tab without touching the Pin.
type Tab struct {
	ID       ID
	Pin      ID // owning pin
	Position Point
	state    State
}

// State returns the tab's current runtime state.
func (t *Tab) State() State { return t.state }

// setState is called by Pin.SetState, which keeps every tab of a pin
// synchronized, and by propagateGroupState (loop.go).
func (t *Tab) setState(s State) { t.state = s }
