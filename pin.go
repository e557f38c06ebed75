package relaysim

// Pin is a logical electrical terminal on a Component: a set of one or more
// Tabs. Setting a Pin's state writes the same value to every Tab it owns.
// The run loop's propagateGroupState also writes committed VNET states
// straight onto tabs without updating the owning Pin, so a pin's state is
// what its component last drove and its tabs may hold a different value.
type Pin struct {
	ID        ID
	Component ID
	Tabs      []ID // tab ids owned by this pin, in creation order
	state     State
}

// NewPin creates a Pin that owns the given tab ids. A pin must own at least
// one tab.
func NewPin(id ID, component ID, tabs ...ID) *Pin {
	return &Pin{ID: id, Component: component, Tabs: append([]ID(nil), tabs...)}
}

// State returns the pin's current runtime state.
func (p *Pin) State() State { return p.state }

// SetState sets the pin's state and propagates it to every owned tab,
// looking tabs up in the given document's Tab table. Returns true if the
// state actually changed.
func (p *Pin) SetState(s State, tabs map[ID]*Tab) bool {
	changed := p.state != s
	p.state = s
	for _, tid := range p.Tabs {
		if t, ok := tabs[tid]; ok {
			t.setState(s)
		}
	}
	return changed
}
