package relaysim

import "github.com/pkg/errors"

// LifecycleState is the phase a Component is in, used to reject operations
// called out of order.
type LifecycleState int

const (
	// LifecycleNew: constructed but on_start has not run yet.
	LifecycleNew LifecycleState = iota
	// LifecycleStarted: on_start has run; evaluate/interact are legal.
	LifecycleStarted
	// LifecycleStopped: on_stop has run; no further operations are legal.
	LifecycleStopped
)

func (s LifecycleState) String() string {
	switch s {
	case LifecycleNew:
		return "new"
	case LifecycleStarted:
		return "started"
	case LifecycleStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// NetView is the read side of the kernel/component contract: it lets
// a component read the state of its own pins and write desired new states,
// without exposing the rest of the document graph.
type NetView interface {
	// PinState returns the state the component itself last drove onto pin
	// via SetPinState. Components that never drive a given pin (Indicator,
	// a relay's coil-sensing pins) should use NetState instead.
	PinState(pin ID) State
	// NetState returns the electrically observed state at pin: the OR of
	// every tab the pin owns, as last committed by the evaluate phase. This
	// reflects contributions from every other source on the same VNET
	// (wires, links, bridges), not just what this component itself wrote.
	NetState(pin ID) State
	// SetPinState requests pin's state become s. The write takes effect
	// immediately on the pin/tabs and dirties the VNETs under the pin's
	// tabs if s differs from the pin's previous state; it does not compare
	// s with the VNET's committed state.
	SetPinState(pin ID, s State)
	// Tick returns the current run-loop tick counter, the injected clock
	// components like DPDTRelay use for their switching delay.
	Tick() uint64
	// Wake unconditionally marks the VNET containing pin's tabs dirty on
	// the next iteration, with no state change involved. A component with
	// a pending timed transition (a relay mid-switch) calls this every
	// Evaluate until its deadline tick arrives, since the dirty-flag loop
	// otherwise has no reason to call Evaluate again once nothing else on
	// the net has changed.
	Wake(pin ID)
}

// BridgeOps is the subset of the bridge manager's contract that
// component kernels are allowed to call from on_start/evaluate/on_stop.
type BridgeOps interface {
	CreateBridge(vnetA, vnetB ID, owner ID) ID
	// MoveBridge replaces whichever endpoint of bridge currently equals
	// oldEndpoint with newEndpoint, dirtying both.
	MoveBridge(bridge ID, oldEndpoint, newEndpoint ID)
	DestroyBridge(bridge ID)
	// VNetForPin returns the id of the VNET currently containing the given
	// pin's tabs, used by on_start to snapshot attachment points.
	VNetForPin(pin ID) ID
}

// Component is the behavior surface every component variant implements:
// on_start, evaluate, interact and on_stop. A tagged-variant dispatch (one
// Go type per component type, all satisfying this interface) replaces a
// class-hierarchy design.
type Component interface {
	// ID returns the component's stable identifier.
	ID() ID
	// Type returns the component's type tag, e.g. "Switch", "DPDTRelay".
	Type() string
	// Pins returns the ids of every pin this component owns, in creation
	// order.
	Pins() []ID

	// OnStart initializes pin states and allocates any bridges the
	// component owns for the run. Called once per simulation start.
	OnStart(net NetView, bridges BridgeOps) error
	// Evaluate reads pin states and requests pin writes and/or bridge
	// mutations. Must be idempotent when nothing has changed.
	Evaluate(net NetView, bridges BridgeOps) error
	// Interact applies an external stimulus (toggle, press, release). It
	// is serialized with respect to Evaluate by the engine and is
	// never called concurrently with it on the same component.
	Interact(action string, params map[string]any) error
	// OnStop clears transient internal state. Bridges owned by the
	// component are destroyed by the engine, not by OnStop itself.
	OnStop() error

	// Clone returns a new component of the same concrete type, with id
	// newID and pins newPins (same length and order as Pins()), with
	// runtime-only fields reset to their construction-time defaults. Used
	// by sub-circuit instantiation to deep-clone a template page.
	Clone(newID ID, newPins []ID) Component

	// lifecycle returns the component's current LifecycleState so the
	// engine can validate calls without every component re-implementing
	// the same bookkeeping; embed BaseComponent to get this for free.
	lifecycle() LifecycleState
	setLifecycle(LifecycleState)
}

// BaseComponent implements the lifecycle bookkeeping and id/type/pins
// accessors shared by every component variant, the way the `wires` helper
// type (builtin.go) gives every part the Pinout() method for free. Concrete
// components embed it and only implement OnStart/Evaluate/Interact/OnStop/
// Clone.
type BaseComponent struct {
	id        ID
	typ       string
	pins      []ID
	state     LifecycleState
	Position  Point
	Rotation  int // 0, 90, 180 or 270
	LinkName  string
	Properties map[string]any
}

// NewBaseComponent constructs the common fields every component embeds.
func NewBaseComponent(id ID, typ string, pins ...ID) BaseComponent {
	return BaseComponent{
		id:         id,
		typ:        typ,
		pins:       append([]ID(nil), pins...),
		state:      LifecycleNew,
		Properties: make(map[string]any),
	}
}

func (b *BaseComponent) ID() ID          { return b.id }
func (b *BaseComponent) Type() string    { return b.typ }
func (b *BaseComponent) Pins() []ID      { return b.pins }
func (b *BaseComponent) Link() string    { return b.LinkName }
func (b *BaseComponent) lifecycle() LifecycleState     { return b.state }
func (b *BaseComponent) setLifecycle(s LifecycleState) { b.state = s }

// SetPlacement copies the file-format fields a deserializer decodes for
// every component kind (canvas position, rotation, link name, free-form
// properties) onto the base, regardless of concrete type.
func (b *BaseComponent) SetPlacement(pos Point, rotation int, linkName string, props map[string]any) {
	b.Position = pos
	b.Rotation = rotation
	b.LinkName = linkName
	if props == nil {
		props = make(map[string]any)
	}
	b.Properties = props
}

// PlacementFields is the read side of SetPlacement, used by a serializer to
// flatten any component back into its on-disk placement fields without
// needing to know its concrete type.
func (b *BaseComponent) PlacementFields() (Point, int, string, map[string]any) {
	return b.Position, b.Rotation, b.LinkName, b.Properties
}

// RequireLifecycle returns an InvalidStateError unless the component is
// currently in one of the allowed states. The kernels in package components
// call it at the top of Evaluate, and Switch also calls it at the top of
// Interact, so those calls fail with InvalidStateError in the wrong
// lifecycle. OnStart, OnStop and the other kernels' Interact do not check
// the lifecycle.
func (b *BaseComponent) RequireLifecycle(op string, allowed ...LifecycleState) error {
	for _, a := range allowed {
		if b.state == a {
			return nil
		}
	}
	return errors.WithStack(&InvalidStateError{
		Op:       op,
		State:    b.state.String(),
		Expected: allowedStatesString(allowed),
	})
}

func allowedStatesString(states []LifecycleState) string {
	if len(states) == 0 {
		return "none"
	}
	out := states[0].String()
	for _, s := range states[1:] {
		out += " or " + s.String()
	}
	return out
}
