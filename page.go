package relaysim

// Page is a canvas of Components connected by Wires, plus the canvas view
// state the kernel persists on the GUI's behalf. A Page cloned from a
// sub-circuit template carries the IsSubCircuitPage/ParentInstanceID/
// ParentSubCircuitID backlinks.
type Page struct {
	ID   ID
	Name string

	Components map[ID]Component
	Wires      map[ID]*Wire
	Junctions  map[ID]*Junction
	Waypoints  map[ID]*Waypoint

	// ComponentOrder/WireOrder preserve file/insertion order for
	// deterministic iteration and byte-stable round trips.
	ComponentOrder []ID
	WireOrder      []ID

	CanvasX, CanvasY, CanvasZoom float64

	IsSubCircuitPage   bool
	ParentInstanceID   ID
	ParentSubCircuitID ID
}

// NewPage returns an empty page ready to receive components and wires.
func NewPage(id ID, name string) *Page {
	return &Page{
		ID:         id,
		Name:       name,
		Components: make(map[ID]Component),
		Wires:      make(map[ID]*Wire),
		Junctions:  make(map[ID]*Junction),
		Waypoints:  make(map[ID]*Waypoint),
		CanvasZoom: 1.0,
	}
}

// AddComponent registers c on the page, preserving insertion order.
func (p *Page) AddComponent(c Component) {
	p.Components[c.ID()] = c
	p.ComponentOrder = append(p.ComponentOrder, c.ID())
}

// AddWire registers w on the page, preserving insertion order.
func (p *Page) AddWire(w *Wire) {
	p.Wires[w.ID] = w
	p.WireOrder = append(p.WireOrder, w.ID)
}

// AllComponents returns the page's components in insertion order.
func (p *Page) AllComponents() []Component {
	out := make([]Component, 0, len(p.ComponentOrder))
	for _, id := range p.ComponentOrder {
		out = append(out, p.Components[id])
	}
	return out
}

// AllWires returns the page's wires in insertion order.
func (p *Page) AllWires() []*Wire {
	out := make([]*Wire, 0, len(p.WireOrder))
	for _, id := range p.WireOrder {
		out = append(out, p.Wires[id])
	}
	return out
}
