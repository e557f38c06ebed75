package components

import "github.com/pjchick/Relay-Simulator"

// Indicator is a passive visual display: HIGH when its net is energized,
// FLOAT otherwise. It never drives its own pin (components/indicator.py:
// "Pin state ALWAYS stays FLOAT... indicator determines its lit state by
// reading VNET states"), so Lit reads the VNET-observed state via
// NetView.NetState rather than the component's own driven PinState.
type Indicator struct {
	relaysim.BaseComponent
	Pin relaysim.ID

	lit bool
}

// NewIndicator returns an Indicator with a single sensing pin.
func NewIndicator(id relaysim.ID, pin relaysim.ID) *Indicator {
	return &Indicator{
		BaseComponent: relaysim.NewBaseComponent(id, "Indicator", pin),
		Pin:           pin,
	}
}

func (i *Indicator) OnStart(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	net.SetPinState(i.Pin, relaysim.Float)
	i.lit = false
	return nil
}

// Evaluate records whether the pin's net is HIGH, for Lit; it never writes
// the pin.
func (i *Indicator) Evaluate(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	if err := i.RequireLifecycle("Evaluate", relaysim.LifecycleStarted); err != nil {
		return err
	}
	i.lit = net.NetState(i.Pin) == relaysim.High
	return nil
}

func (i *Indicator) Interact(action string, params map[string]any) error {
	return nil
}

func (i *Indicator) OnStop() error {
	i.lit = false
	return nil
}

// Lit reports whether the indicator is currently displaying energized, as
// of the last Evaluate.
func (i *Indicator) Lit() bool { return i.lit }

// Clone returns a fresh Indicator wired to newPins[0].
func (i *Indicator) Clone(newID relaysim.ID, newPins []relaysim.ID) relaysim.Component {
	c := NewIndicator(newID, newPins[0])
	c.Position = i.Position
	c.Rotation = i.Rotation
	c.LinkName = i.LinkName
	c.Properties = cloneProps(i.Properties)
	return c
}
