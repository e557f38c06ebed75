package relaysim

import "sync"

// Bridge is a runtime, directed-symmetric edge between two VNETs, owned by
// the component that created it. Bridges exist only while their
// owner is alive within a simulation run: created in on_start, mutated by
// evaluate, removed in on_stop.
type Bridge struct {
	ID      ID
	VNetA   ID
	VNetB   ID
	OwnerID ID
}

// OtherEnd returns the VNET on the opposite side of the bridge from vnet,
// or "" if vnet is not one of the bridge's endpoints.
func (b *Bridge) OtherEnd(vnet ID) ID {
	switch vnet {
	case b.VNetA:
		return b.VNetB
	case b.VNetB:
		return b.VNetA
	default:
		return ""
	}
}

// BridgeManager owns the canonical bridge records and keeps each VNET's
// Bridges index in sync. All operations are atomic with respect to the
// simulation loop: a single mutex protects the manager and the
// VNET set it touches, mirroring the original BridgeManager's single RLock
// guarding both _bridges and _vnet_to_bridges.
type BridgeManager struct {
	mu      sync.Mutex
	bridges map[ID]*Bridge
	byOwner map[ID]map[ID]struct{}
	vnets   map[ID]*VNET
	dirty   *DirtyFlagManager
}

// NewBridgeManager returns a manager operating over the given VNET set,
// marking dirty through dfm whenever a bridge attaches or detaches.
func NewBridgeManager(vnets map[ID]*VNET, dfm *DirtyFlagManager) *BridgeManager {
	return &BridgeManager{
		bridges: make(map[ID]*Bridge),
		byOwner: make(map[ID]map[ID]struct{}),
		vnets:   vnets,
		dirty:   dfm,
	}
}

// Create allocates a fresh bridge between vnetA and vnetB, owned by owner,
// and dirties both endpoints.
func (m *BridgeManager) Create(vnetA, vnetB ID, owner ID) ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := NewID()
	b := &Bridge{ID: id, VNetA: vnetA, VNetB: vnetB, OwnerID: owner}
	m.bridges[id] = b
	if m.byOwner[owner] == nil {
		m.byOwner[owner] = make(map[ID]struct{})
	}
	m.byOwner[owner][id] = struct{}{}

	if v, ok := m.vnets[vnetA]; ok {
		v.Bridges[id] = struct{}{}
	}
	if v, ok := m.vnets[vnetB]; ok {
		v.Bridges[id] = struct{}{}
	}
	m.dirty.Mark(vnetA)
	m.dirty.Mark(vnetB)
	return id
}

// Move replaces one endpoint of bridge id with newEndpoint, dirtying both
// the old and new endpoint. replacing is the endpoint being replaced,
// identified by its current value;
// Move replaces whichever of VNetA/VNetB currently equals replacing.
func (m *BridgeManager) Move(id ID, replacing, newEndpoint ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bridges[id]
	if !ok {
		return
	}
	if v, ok := m.vnets[replacing]; ok {
		delete(v.Bridges, id)
	}
	switch replacing {
	case b.VNetA:
		b.VNetA = newEndpoint
	case b.VNetB:
		b.VNetB = newEndpoint
	default:
		return
	}
	if v, ok := m.vnets[newEndpoint]; ok {
		v.Bridges[id] = struct{}{}
	}
	m.dirty.Mark(replacing)
	m.dirty.Mark(newEndpoint)
}

// Destroy detaches bridge id from both endpoints and removes it, dirtying
// both endpoints.
func (m *BridgeManager) Destroy(id ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.destroyLocked(id)
}

func (m *BridgeManager) destroyLocked(id ID) {
	b, ok := m.bridges[id]
	if !ok {
		return
	}
	delete(m.bridges, id)
	if owned, ok := m.byOwner[b.OwnerID]; ok {
		delete(owned, id)
		if len(owned) == 0 {
			delete(m.byOwner, b.OwnerID)
		}
	}
	if v, ok := m.vnets[b.VNetA]; ok {
		delete(v.Bridges, id)
	}
	if v, ok := m.vnets[b.VNetB]; ok {
		delete(v.Bridges, id)
	}
	m.dirty.Mark(b.VNetA)
	m.dirty.Mark(b.VNetB)
}

// DestroyOwnedBy removes every bridge owned by owner, bounded by the
// owner's lifetime within a run.
func (m *BridgeManager) DestroyOwnedBy(owner ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := m.byOwner[owner]
	ids := make([]ID, 0, len(owned))
	for id := range owned {
		ids = append(ids, id)
	}
	for _, id := range ids {
		m.destroyLocked(id)
	}
}

// Get returns bridge id, if it exists.
func (m *BridgeManager) Get(id ID) (*Bridge, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bridges[id]
	return b, ok
}

// ByOwner returns every bridge currently owned by owner.
func (m *BridgeManager) ByOwner(owner ID) []*Bridge {
	m.mu.Lock()
	defer m.mu.Unlock()
	owned := m.byOwner[owner]
	out := make([]*Bridge, 0, len(owned))
	for id := range owned {
		out = append(out, m.bridges[id])
	}
	return out
}

// Count returns the total number of live bridges.
func (m *BridgeManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bridges)
}

// DestroyAll removes every bridge, used on engine shutdown.
func (m *BridgeManager) DestroyAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.bridges {
		m.destroyLocked(id)
	}
}
