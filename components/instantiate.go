package components

import "github.com/pjchick/Relay-Simulator"

// Instantiate clones def's template pages into dst and builds the
// parent-page SubCircuitInstance component representing it, wiring each
// external pin to its cloned FOOTPRINT Link via a synthetic per-instance
// link name (core/sub_circuit_instantiator.py: "Build SubCircuit component
// from FOOTPRINT"). The returned component still needs AddComponent'd onto
// whichever page the caller is placing the instance on.
func Instantiate(dst *relaysim.Document, def *relaysim.SubCircuitDefinition, instanceID relaysim.ID) (*SubCircuitInstance, error) {
	result, err := relaysim.InstantiateSubCircuit(dst, def)
	if err != nil {
		return nil, err
	}
	for _, p := range result.ClonedPages {
		p.ParentInstanceID = instanceID
	}

	pins := make([]relaysim.ID, 0, len(result.FootprintPins))
	pinLinkNames := make(map[relaysim.ID]string, len(result.FootprintPins))

	for _, fp := range result.FootprintPins {
		synthetic := relaysim.SyntheticLinkName(instanceID, fp.LinkName)

		linkComponent, page, ok := dst.FindComponent(fp.LinkComponentID)
		if !ok {
			continue
		}
		if link, ok := linkComponent.(*Link); ok {
			link.LinkName = synthetic
		}
		_ = page

		pinID := relaysim.NewID()
		tabID := relaysim.NewID()
		dst.AddPin(relaysim.NewPin(pinID, instanceID, tabID), &relaysim.Tab{ID: tabID, Pin: pinID})
		pins = append(pins, pinID)
		pinLinkNames[pinID] = synthetic
	}

	def.Instances = append(def.Instances, instanceID)
	return NewSubCircuitInstance(instanceID, def.ID, pins, pinLinkNames), nil
}
