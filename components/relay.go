package components

import "github.com/pjchick/Relay-Simulator"

// DefaultSwitchingDelayTicks is how many simulated ticks elapse between a
// coil state change and its contacts actually switching, at
// relaysim.DefaultTicksPerMillisecond ticks/ms: the original's
// SWITCHING_DELAY = 0.010 seconds (components/dpdt_relay.py), translated
// from wall-clock seconds to simulated ticks.
const DefaultSwitchingDelayTicks = 10

// DPDTRelay is a double-pole double-throw relay: COIL energizes both
// poles together, each pole bridging its COM terminal to NC (de-energized)
// or NO (energized), with a switching delay between the coil changing and
// the contacts actually moving (components/dpdt_relay.py).
//
// The original modeled the delay with a wall-clock threading.Timer running
// on its own goroutine-equivalent thread; this port instead counts
// NetView.Tick() ticks and calls NetView.Wake every Evaluate while a
// transition is pending, so the run loop — not an out-of-band timer —
// drives the delay forward. A target reverting before the deadline cancels
// the pending transition outright ("collapse") rather than queuing a
// second switch, matching the original's _timer_callback re-checking
// _target_energized against _is_energized just before committing.
type DPDTRelay struct {
	relaysim.BaseComponent

	Coil relaysim.ID
	Com1 relaysim.ID
	No1  relaysim.ID
	Nc1  relaysim.ID
	Com2 relaysim.ID
	No2  relaysim.ID
	Nc2  relaysim.ID

	DelayTicks uint64

	energized bool
	pending   *bool
	deadline  uint64

	pole1Bridge relaysim.ID
	pole2Bridge relaysim.ID
}

// NewDPDTRelay returns a relay wired to its seven pins, with the default
// switching delay.
func NewDPDTRelay(id relaysim.ID, coil, com1, no1, nc1, com2, no2, nc2 relaysim.ID) *DPDTRelay {
	return &DPDTRelay{
		BaseComponent: relaysim.NewBaseComponent(id, "DPDTRelay", coil, com1, no1, nc1, com2, no2, nc2),
		Coil:          coil,
		Com1:          com1,
		No1:           no1,
		Nc1:           nc1,
		Com2:          com2,
		No2:           no2,
		Nc2:           nc2,
		DelayTicks:    DefaultSwitchingDelayTicks,
	}
}

func (r *DPDTRelay) OnStart(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	r.energized = false
	r.pending = nil
	for _, pin := range []relaysim.ID{r.Coil, r.Com1, r.No1, r.Nc1, r.Com2, r.No2, r.Nc2} {
		net.SetPinState(pin, relaysim.Float)
	}
	r.switchContacts(bridges)
	return nil
}

// Evaluate reads the coil's net-observed state and schedules, collapses or
// commits a pending contact switch (components/dpdt_relay.py:
// simulate_logic + _timer_callback, collapsed into one tick-driven check).
func (r *DPDTRelay) Evaluate(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	if err := r.RequireLifecycle("Evaluate", relaysim.LifecycleStarted); err != nil {
		return err
	}

	target := net.NetState(r.Coil) == relaysim.High

	switch {
	case target == r.energized:
		// Coil settled back to the currently-switched state before the
		// pending transition fired: cancel it outright.
		r.pending = nil
	case r.pending == nil || *r.pending != target:
		t := target
		r.pending = &t
		delay := r.DelayTicks
		if delay == 0 {
			delay = DefaultSwitchingDelayTicks
		}
		r.deadline = net.Tick() + delay
	}

	if r.pending != nil {
		if net.Tick() >= r.deadline {
			r.energized = *r.pending
			r.pending = nil
			r.switchContacts(bridges)
		} else {
			net.Wake(r.Coil)
		}
	}
	return nil
}

func (r *DPDTRelay) Interact(action string, params map[string]any) error {
	return nil
}

func (r *DPDTRelay) OnStop() error {
	r.pending = nil
	r.energized = false
	r.pole1Bridge = ""
	r.pole2Bridge = ""
	return nil
}

// switchContacts destroys both poles' existing bridges and recreates them
// against NO (energized) or NC (de-energized), per the relay's current
// energized state (components/dpdt_relay.py:_switch_contacts).
func (r *DPDTRelay) switchContacts(bridges relaysim.BridgeOps) {
	if r.pole1Bridge != "" {
		bridges.DestroyBridge(r.pole1Bridge)
		r.pole1Bridge = ""
	}
	if r.pole2Bridge != "" {
		bridges.DestroyBridge(r.pole2Bridge)
		r.pole2Bridge = ""
	}

	throw1, throw2 := r.Nc1, r.Nc2
	if r.energized {
		throw1, throw2 = r.No1, r.No2
	}

	vCom1, vThrow1 := bridges.VNetForPin(r.Com1), bridges.VNetForPin(throw1)
	if vCom1 != "" && vThrow1 != "" {
		r.pole1Bridge = bridges.CreateBridge(vCom1, vThrow1, r.ID())
	}
	vCom2, vThrow2 := bridges.VNetForPin(r.Com2), bridges.VNetForPin(throw2)
	if vCom2 != "" && vThrow2 != "" {
		r.pole2Bridge = bridges.CreateBridge(vCom2, vThrow2, r.ID())
	}
}

// Energized reports the relay's last-committed coil state.
func (r *DPDTRelay) Energized() bool { return r.energized }

// Clone returns a fresh DPDTRelay wired to newPins, in the same order as
// Pins() returns Coil/Com1/No1/Nc1/Com2/No2/Nc2.
func (r *DPDTRelay) Clone(newID relaysim.ID, newPins []relaysim.ID) relaysim.Component {
	c := NewDPDTRelay(newID, newPins[0], newPins[1], newPins[2], newPins[3], newPins[4], newPins[5], newPins[6])
	c.DelayTicks = r.DelayTicks
	c.Position = r.Position
	c.Rotation = r.Rotation
	c.LinkName = r.LinkName
	c.Properties = cloneProps(r.Properties)
	return c
}
