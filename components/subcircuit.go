package components

import "github.com/pjchick/Relay-Simulator"

// SubCircuitInstance is the parent-page face of an instantiated sub-circuit
// template: one pin per external connection the template's FOOTPRINT page
// exposes (core/sub_circuit_instantiator.py builds this component's pins
// directly from the FOOTPRINT's Link components). It is passive on the
// parent page — the actual logic lives in the cloned template pages, which
// the instantiator embeds into the same Document as ordinary pages; this
// component only has to exist so the parent page's wires have something to
// attach to.
//
// Each pin here shares a synthetic per-instance link name with the
// matching cloned Link component inside the instance's FOOTPRINT page
// (see Instantiate), so the two are joined purely through the
// existing link-resolution machinery rather than a bespoke pin-to-pin
// mapping table.
type SubCircuitInstance struct {
	relaysim.BaseComponent

	DefinitionID relaysim.ID
	// PinLinkNames maps each of this component's pin ids to the synthetic
	// link name joining it to the corresponding FOOTPRINT Link.
	PinLinkNames map[relaysim.ID]string
}

// NewSubCircuitInstance returns a SubCircuitInstance with one pin per id in
// pins, each carrying its synthetic link name from pinLinkNames.
func NewSubCircuitInstance(id relaysim.ID, definition relaysim.ID, pins []relaysim.ID, pinLinkNames map[relaysim.ID]string) *SubCircuitInstance {
	return &SubCircuitInstance{
		BaseComponent: relaysim.NewBaseComponent(id, "SubCircuitInstance", pins...),
		DefinitionID:  definition,
		PinLinkNames:  pinLinkNames,
	}
}

// PinLinks implements relaysim's pinLinker interface: each external pin is
// joined to the cloned FOOTPRINT Link carrying the same synthetic name.
func (s *SubCircuitInstance) PinLinks() map[relaysim.ID]string {
	return s.PinLinkNames
}

func (s *SubCircuitInstance) OnStart(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	for _, pin := range s.Pins() {
		net.SetPinState(pin, relaysim.Float)
	}
	return nil
}

// Evaluate is a no-op: all the interesting behavior lives in the cloned
// template pages' own components, which the engine evaluates directly.
func (s *SubCircuitInstance) Evaluate(net relaysim.NetView, bridges relaysim.BridgeOps) error {
	return s.RequireLifecycle("Evaluate", relaysim.LifecycleStarted)
}

func (s *SubCircuitInstance) Interact(action string, params map[string]any) error {
	return nil
}

func (s *SubCircuitInstance) OnStop() error {
	return nil
}

// Clone returns a fresh SubCircuitInstance wired to newPins, in the same
// order as Pins(), remapping PinLinkNames onto the new pin ids.
func (s *SubCircuitInstance) Clone(newID relaysim.ID, newPins []relaysim.ID) relaysim.Component {
	oldPins := s.Pins()
	remapped := make(map[relaysim.ID]string, len(s.PinLinkNames))
	for i, oldPin := range oldPins {
		if name, ok := s.PinLinkNames[oldPin]; ok && i < len(newPins) {
			remapped[newPins[i]] = name
		}
	}
	c := NewSubCircuitInstance(newID, s.DefinitionID, newPins, remapped)
	c.Position = s.Position
	c.Rotation = s.Rotation
	c.Properties = cloneProps(s.Properties)
	return c
}
