package components

import "github.com/pjchick/Relay-Simulator"

// Link is a passive single-pin component whose sole purpose is carrying a
// link name (components/link.py): an easy way to attach a cross-page
// connection to a wire without needing a dedicated junction type. It never
// drives the network on its own.
//
// A SubCircuitInstance's external pins are themselves synthesized as Link
// components living on the cloned FOOTPRINT page, joined to the instance's
// own pins by a synthetic per-instance link name (see subcircuit.go); this
// is the same mechanism a document author uses manually, just generated.
type Link struct {
	relaysim.BaseComponent
	Pin relaysim.ID
}

// NewLink returns a Link with a single pin/tab and the given link name.
func NewLink(id relaysim.ID, pin relaysim.ID, linkName string) *Link {
	l := &Link{
		BaseComponent: relaysim.NewBaseComponent(id, "Link", pin),
		Pin:           pin,
	}
	l.LinkName = linkName
	return l
}

func (l *Link) OnStart(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	net.SetPinState(l.Pin, relaysim.Float)
	return nil
}

// Evaluate is a no-op: Link never drives, it only carries a link name.
func (l *Link) Evaluate(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	return l.RequireLifecycle("Evaluate", relaysim.LifecycleStarted)
}

func (l *Link) Interact(action string, params map[string]any) error {
	return nil
}

func (l *Link) OnStop() error {
	return nil
}

// Clone returns a fresh Link wired to newPins[0], keeping the same link
// name; the instantiator overwrites it with a synthetic per-instance name
// immediately after cloning a FOOTPRINT page.
func (l *Link) Clone(newID relaysim.ID, newPins []relaysim.ID) relaysim.Component {
	c := NewLink(newID, newPins[0], l.LinkName)
	c.Position = l.Position
	c.Rotation = l.Rotation
	c.Properties = cloneProps(l.Properties)
	return c
}
