package relaysim

// VNET (virtual electrical net) is the runtime equivalence class of tabs
// electrically connected through wires, links and bridges. It is never
// serialized and is rebuilt from scratch on every simulation start.
//
// Invariant while not dirty: vnet.state = ⊕ over (all tab states in vnet) ⊕
// (all linked VNETs' contributed states) ⊕ (all bridged VNETs' contributed
// states).
type VNET struct {
	ID    ID
	Page  ID
	Tabs  map[ID]struct{}
	Links map[string]struct{}
	// Bridges holds the ids of bridges with at least one endpoint on this
	// VNET; BridgeManager is the source of truth, this is a denormalized
	// index kept in sync by it.
	Bridges map[ID]struct{}

	state State
	dirty bool

	// toggleCount is incremented every time State actually changes and
	// reset whenever the VNET completes one full iteration clean; it feeds
	// OscillationError's offending-VNET ranking.
	toggleCount int
}

// NewVNET returns an empty VNET on the given page.
func NewVNET(id, page ID) *VNET {
	return &VNET{
		ID:      id,
		Page:    page,
		Tabs:    make(map[ID]struct{}),
		Links:   make(map[string]struct{}),
		Bridges: make(map[ID]struct{}),
	}
}

// AddTab adds a tab to the VNET's membership.
func (v *VNET) AddTab(id ID) { v.Tabs[id] = struct{}{} }

// AddLink records that the VNET carries link name name.
func (v *VNET) AddLink(name string) { v.Links[name] = struct{}{} }

// State returns the VNET's last computed state. Only meaningful while the
// VNET is not dirty.
func (v *VNET) State() State { return v.state }

// Dirty reports whether the VNET needs re-evaluation.
func (v *VNET) Dirty() bool { return v.dirty }

// MarkDirty flags the VNET for re-evaluation on the next evaluate phase.
func (v *VNET) MarkDirty() { v.dirty = true }

// ClearDirty clears the re-evaluation flag, normally called right after
// evaluate has produced a new committed state.
func (v *VNET) ClearDirty() {
	if v.dirty {
		v.toggleCount = 0
	}
	v.dirty = false
}

// setState commits a freshly computed state, bumping the toggle counter
// when it actually changes. Returns true if the state changed.
func (v *VNET) setState(s State) bool {
	changed := v.state != s
	if changed {
		v.toggleCount++
	}
	v.state = s
	return changed
}

// TabCount returns the number of tabs in the VNET's membership.
func (v *VNET) TabCount() int { return len(v.Tabs) }
