package relaysim

// IDRegenerator assigns a fresh id to every distinct old id it is asked to
// map, remembering the mapping so repeated references to the same old id
// (a wire's tab, a junction's child wire) resolve to the same new id. This
// is the deep-clone building block sub-circuit instantiation uses to give
// every entity in a cloned template page identifiers that are unique within
// the destination document.
type IDRegenerator struct {
	mapping map[ID]ID
}

// NewIDRegenerator returns an empty regenerator.
func NewIDRegenerator() *IDRegenerator {
	return &IDRegenerator{mapping: make(map[ID]ID)}
}

// Map returns old's assigned new id, generating and recording one on first
// use.
func (r *IDRegenerator) Map(old ID) ID {
	if new, ok := r.mapping[old]; ok {
		return new
	}
	new := NewID()
	r.mapping[old] = new
	return new
}

// Lookup returns old's assigned new id without creating one, reporting
// whether old has been mapped yet.
func (r *IDRegenerator) Lookup(old ID) (ID, bool) {
	new, ok := r.mapping[old]
	return new, ok
}

// ClonePage deep-clones src into a new Page with entirely fresh identifiers,
// registering every cloned pin/tab into dst's arenas. The cloned page's
// component/wire/junction/waypoint ids enter dst's id space only when the
// caller passes the page to dst.AddPage. Component cloning is delegated to
// each component's own Clone method.
func ClonePage(dst *Document, src *Page, reg *IDRegenerator) (*Page, error) {
	newPage := NewPage(reg.Map(src.ID), src.Name)
	newPage.CanvasX, newPage.CanvasY, newPage.CanvasZoom = src.CanvasX, src.CanvasY, src.CanvasZoom
	newPage.IsSubCircuitPage = src.IsSubCircuitPage

	for _, c := range src.AllComponents() {
		oldPins := c.Pins()
		newPins := make([]ID, len(oldPins))
		for i, oldPinID := range oldPins {
			oldPin, ok := dst.Pins[oldPinID]
			if !ok {
				return nil, newStructuralError(string(c.ID()), "clone: component references unknown pin %q", oldPinID)
			}
			newPinID := reg.Map(oldPinID)
			newTabs := make([]ID, len(oldPin.Tabs))
			for j, oldTabID := range oldPin.Tabs {
				oldTab, ok := dst.Tabs[oldTabID]
				if !ok {
					return nil, newStructuralError(string(oldPinID), "clone: pin references unknown tab %q", oldTabID)
				}
				newTabID := reg.Map(oldTabID)
				newTabs[j] = newTabID
				dst.Tabs[newTabID] = &Tab{ID: newTabID, Pin: newPinID, Position: oldTab.Position}
			}
			dst.Pins[newPinID] = NewPin(newPinID, reg.Map(c.ID()), newTabs...)
			newPins[i] = newPinID
		}
		newComponent := c.Clone(reg.Map(c.ID()), newPins)
		newPage.AddComponent(newComponent)
	}

	for _, j := range orderedJunctions(src) {
		newPage.Junctions[reg.Map(j.ID)] = &Junction{
			ID:         reg.Map(j.ID),
			Position:   j.Position,
			ChildWires: remapIDs(j.ChildWires, reg),
		}
	}
	for _, wp := range orderedWaypoints(src) {
		newPage.Waypoints[reg.Map(wp.ID)] = &Waypoint{ID: reg.Map(wp.ID), Position: wp.Position}
	}
	for _, w := range src.AllWires() {
		newWire := &Wire{
			ID:        reg.Map(w.ID),
			StartTab:  reg.Map(w.StartTab),
			Waypoints: remapIDs(w.Waypoints, reg),
			Junctions: remapIDs(w.Junctions, reg),
		}
		if w.HasEndTab() {
			newWire.EndTab = reg.Map(w.EndTab)
		}
		newPage.AddWire(newWire)
	}

	return newPage, nil
}

func remapIDs(ids []ID, reg *IDRegenerator) []ID {
	out := make([]ID, len(ids))
	for i, id := range ids {
		out[i] = reg.Map(id)
	}
	return out
}

func orderedJunctions(p *Page) []*Junction {
	out := make([]*Junction, 0, len(p.Junctions))
	for _, j := range p.Junctions {
		out = append(out, j)
	}
	return out
}

func orderedWaypoints(p *Page) []*Waypoint {
	out := make([]*Waypoint, 0, len(p.Waypoints))
	for _, wp := range p.Waypoints {
		out = append(out, wp)
	}
	return out
}
