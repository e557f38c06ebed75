package relaysim

import "github.com/pkg/errors"

// SubCircuitDefinition is an embedded sub-circuit template: the page set a
// SubCircuitInstance component was cloned from, plus the instances cloned
// from it so far. Reused when the same template (by source path) is
// instantiated more than once in the same document.
type SubCircuitDefinition struct {
	ID         ID
	SourcePath string
	// FootprintPageID identifies, among TemplatePages, the page literally
	// named FOOTPRINT whose Link components define the external pins.
	FootprintPageID ID
	TemplatePages   []ID // page ids of the original (uncloned) template pages
	Instances       []ID // component ids of every SubCircuitInstance using this definition
}

// Document is the id-space owner: every identifier appearing anywhere in it
// — across pages, components, pins, tabs, wires, junctions, waypoints — is
// unique within the document. Pins and Tabs are centralized arenas
// so that Pin.Tabs and
// Component.Pins can stay plain ID slices instead of pointers.
type Document struct {
	ID ID

	Version  string
	Metadata Metadata

	Pages     map[ID]*Page
	PageOrder []ID

	SubCircuits map[ID]*SubCircuitDefinition

	// Tabs and Pins are the document-wide arenas; Page/Component/Pin only
	// ever reference them by ID.
	Tabs map[ID]*Tab
	Pins map[ID]*Pin

	ids *IDSet
}

// Metadata is free-text document metadata persisted for the GUI's benefit;
// the kernel round-trips it without interpreting it.
type Metadata struct {
	Title       string
	Author      string
	Description string
	Created     string
	Modified    string
}

// NewDocument returns an empty document with a fresh id.
func NewDocument(version string) *Document {
	d := &Document{
		ID:          NewID(),
		Version:     version,
		Pages:       make(map[ID]*Page),
		SubCircuits: make(map[ID]*SubCircuitDefinition),
		Tabs:        make(map[ID]*Tab),
		Pins:        make(map[ID]*Pin),
		ids:         NewIDSet(),
	}
	d.ids.Add(d.ID)
	return d
}

// Register claims id within the document's id space, returning a
// StructuralError if it is already in use.
func (d *Document) Register(entityDesc string, id ID) error {
	if !ValidID(string(id)) {
		return errors.WithStack(newStructuralError(entityDesc, "malformed identifier %q", id))
	}
	if !d.ids.Add(id) {
		return errors.WithStack(newStructuralError(entityDesc, "duplicate identifier %q", id))
	}
	return nil
}

// AddPage registers p's id and stores it, also registering every tab and
// pin it owns into the document-wide arenas.
func (d *Document) AddPage(p *Page) error {
	if err := d.Register("page", p.ID); err != nil {
		return err
	}
	d.Pages[p.ID] = p
	d.PageOrder = append(d.PageOrder, p.ID)
	for _, c := range p.AllComponents() {
		if err := d.Register("component", c.ID()); err != nil {
			return err
		}
		for _, pid := range c.Pins() {
			pin, ok := d.Pins[pid]
			if !ok {
				continue // pins/tabs are registered by AddComponentPins at construction time
			}
			if err := d.Register("pin", pid); err != nil {
				return err
			}
			for _, tid := range pin.Tabs {
				if err := d.Register("tab", tid); err != nil {
					return err
				}
			}
		}
	}
	for _, w := range p.AllWires() {
		if err := d.Register("wire", w.ID); err != nil {
			return err
		}
	}
	for _, j := range p.Junctions {
		if err := d.Register("junction", j.ID); err != nil {
			return err
		}
	}
	for _, wp := range p.Waypoints {
		if err := d.Register("waypoint", wp.ID); err != nil {
			return err
		}
	}
	return nil
}

// AddPin registers a pin (and its tabs) into the document-wide arenas. Must
// be called once per pin at construction time, before AddPage.
func (d *Document) AddPin(p *Pin, tabs ...*Tab) {
	d.Pins[p.ID] = p
	for _, t := range tabs {
		d.Tabs[t.ID] = t
	}
}

// AllPages returns the document's pages in insertion order.
func (d *Document) AllPages() []*Page {
	out := make([]*Page, 0, len(d.PageOrder))
	for _, id := range d.PageOrder {
		out = append(out, d.Pages[id])
	}
	return out
}

// FindComponent locates a component by id across every page.
func (d *Document) FindComponent(id ID) (Component, *Page, bool) {
	for _, p := range d.Pages {
		if c, ok := p.Components[id]; ok {
			return c, p, true
		}
	}
	return nil, nil, false
}

// PageOf returns the page a pin's owning component lives on.
func (d *Document) PageOf(pinID ID) (*Page, bool) {
	pin, ok := d.Pins[pinID]
	if !ok {
		return nil, false
	}
	_, page, ok := d.FindComponent(pin.Component)
	return page, ok
}
