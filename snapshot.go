package relaysim

import "sort"

// ComponentSnapshot is one component's observable state at a stable moment:
// its placement plus the state of every pin it owns.
type ComponentSnapshot struct {
	ID        ID
	Type      string
	Position  Point
	PinStates map[ID]State
}

// VNETSnapshot is one VNET's observable state at a stable moment: its
// committed value and the tab ids that make up its membership.
type VNETSnapshot struct {
	ID      ID
	State   State
	Members []ID
}

// Snapshot is the immutable view handed to observers (OnStable listeners,
// the CLI, a GUI): component placements/pin states and VNET states/members,
// taken at the instant the run loop settled. Mutating it has no effect on
// the live engine.
type Snapshot struct {
	Components []ComponentSnapshot
	VNETs      []VNETSnapshot
}

// Snapshot returns the engine's current component/VNET state. Only legal in
// StateStable — a snapshot mid-evaluation would show a torn, not-yet-
// consistent view, so the method refuses outside that state.
func (e *Engine) Snapshot() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateStable {
		return Snapshot{}, &InvalidStateError{Op: "Snapshot", State: e.state.String(), Expected: StateStable.String()}
	}

	var snap Snapshot
	for _, page := range e.doc.AllPages() {
		for _, c := range page.AllComponents() {
			cs := ComponentSnapshot{
				ID:        c.ID(),
				Type:      c.Type(),
				PinStates: make(map[ID]State, len(c.Pins())),
			}
			if base, ok := c.(interface{ PlacementFields() (Point, int, string, map[string]any) }); ok {
				cs.Position, _, _, _ = base.PlacementFields()
			}
			for _, pinID := range c.Pins() {
				if p, ok := e.doc.Pins[pinID]; ok {
					cs.PinStates[pinID] = p.State()
				}
			}
			snap.Components = append(snap.Components, cs)
		}
	}

	ids := make([]ID, 0, len(e.vnets))
	for id := range e.vnets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		v := e.vnets[id]
		members := make([]ID, 0, len(v.Tabs))
		for t := range v.Tabs {
			members = append(members, t)
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		snap.VNETs = append(snap.VNETs, VNETSnapshot{ID: v.ID, State: v.State(), Members: members})
	}

	return snap, nil
}
