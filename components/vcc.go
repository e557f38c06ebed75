package components

import "github.com/pjchick/Relay-Simulator"

// Vcc is a constant power source: HIGH for the entire run
// (components/vcc.py); OnStop leaves the pin as it is. It is the degenerate
// case of a source
// component — Evaluate has nothing to do since the value never changes
// after OnStart sets it.
type Vcc struct {
	relaysim.BaseComponent
	Pin relaysim.ID
}

// NewVcc returns a Vcc with a single output pin.
func NewVcc(id relaysim.ID, pin relaysim.ID) *Vcc {
	return &Vcc{
		BaseComponent: relaysim.NewBaseComponent(id, "Vcc", pin),
		Pin:           pin,
	}
}

func (v *Vcc) OnStart(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	net.SetPinState(v.Pin, relaysim.High)
	return nil
}

// Evaluate is a no-op: Vcc's output is constant for the run's duration.
func (v *Vcc) Evaluate(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	return v.RequireLifecycle("Evaluate", relaysim.LifecycleStarted)
}

func (v *Vcc) Interact(action string, params map[string]any) error {
	return nil
}

func (v *Vcc) OnStop() error {
	return nil
}

// Clone returns a fresh Vcc wired to newPins[0].
func (v *Vcc) Clone(newID relaysim.ID, newPins []relaysim.ID) relaysim.Component {
	c := NewVcc(newID, newPins[0])
	c.Position = v.Position
	c.Rotation = v.Rotation
	c.LinkName = v.LinkName
	c.Properties = cloneProps(v.Properties)
	return c
}
