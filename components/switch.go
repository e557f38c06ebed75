// Package components provides the concrete Component implementations a
// relay-logic document can contain: Switch, Indicator, Vcc, DPDTRelay, Link
// and SubCircuitInstance. Each embeds relaysim.BaseComponent for lifecycle
// bookkeeping and id/type/pins accessors, the same "embed the shared bits,
// implement the behavior" shape PartSpec/Mount closures give every gate
// (hwlib/gates.go), adapted from closures to long-lived structs since a
// relay's switching delay needs state to persist across Evaluate calls in
// a way a stateless Mount closure does not model.
package components

import (
	"github.com/pjchick/Relay-Simulator"
)

// SwitchMode selects whether a Switch latches on click (toggle) or is
// momentary (pushbutton): components/switch.py's "mode" property.
type SwitchMode string

const (
	ModeToggle     SwitchMode = "toggle"
	ModePushbutton SwitchMode = "pushbutton"
)

// Switch is a user-controlled signal source: HIGH while on, FLOAT while
// off (components/switch.py). It is the simplest signal source in the
// kernel — a single pin it always drives, never reads.
type Switch struct {
	relaysim.BaseComponent
	Pin  relaysim.ID
	Mode SwitchMode

	on bool
}

// NewSwitch returns a Switch with a single pin owning tab, in toggle mode.
func NewSwitch(id relaysim.ID, pin relaysim.ID) *Switch {
	return &Switch{
		BaseComponent: relaysim.NewBaseComponent(id, "Switch", pin),
		Pin:           pin,
		Mode:          ModeToggle,
	}
}

func (s *Switch) OnStart(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	s.on = false
	net.SetPinState(s.Pin, relaysim.Float)
	return nil
}

// Evaluate drives the pin from internal state. Switch never reads; it only
// ever pushes what Interact last set (components/switch.py: "Switch is a
// signal SOURCE, so it doesn't read inputs").
func (s *Switch) Evaluate(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	if err := s.RequireLifecycle("Evaluate", relaysim.LifecycleStarted); err != nil {
		return err
	}
	if s.on {
		net.SetPinState(s.Pin, relaysim.High)
	} else {
		net.SetPinState(s.Pin, relaysim.Float)
	}
	return nil
}

// Interact applies a toggle/click/press in toggle mode, or a press/release
// pair in pushbutton mode (components/switch.py:interact).
func (s *Switch) Interact(action string, params map[string]any) error {
	if err := s.RequireLifecycle("Interact", relaysim.LifecycleStarted); err != nil {
		return err
	}
	switch s.Mode {
	case ModePushbutton:
		switch action {
		case "press":
			s.on = true
		case "release":
			s.on = false
		}
	default: // toggle
		switch action {
		case "toggle", "click", "press":
			s.on = !s.on
		}
	}
	return nil
}

func (s *Switch) OnStop() error {
	s.on = false
	return nil
}

// IsOn reports the switch's current internal state, for GUI/status use.
func (s *Switch) IsOn() bool { return s.on }

// Clone returns a fresh Switch with the same mode/properties/placement,
// wired to newPins[0] instead of s.Pin.
func (s *Switch) Clone(newID relaysim.ID, newPins []relaysim.ID) relaysim.Component {
	c := NewSwitch(newID, newPins[0])
	c.Mode = s.Mode
	c.Position = s.Position
	c.Rotation = s.Rotation
	c.LinkName = s.LinkName
	c.Properties = cloneProps(s.Properties)
	return c
}

func cloneProps(p map[string]any) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
