// Package persist implements the document file format: UTF-8 JSON with a
// SemVer version field, validated on load with go-playground/validator (the
// struct-tag idiom dd0wney-graphdb's pkg/validation/validator.go uses for
// its API request types) before being assembled into a relaysim.Document.
package persist

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/pjchick/Relay-Simulator"
	"github.com/pjchick/Relay-Simulator/components"
)

var validate = validator.New()

// pinLinksKey is the conventional Properties key a SubCircuitInstance's
// per-pin link names round-trip through, since the file format only ever
// gives a component one link_name field and this is the one component kind
// that needs several. definitionKey carries the instance's originating
// sub-circuit definition id the same way.
const (
	pinLinksKey  = "__pin_links__"
	definitionKey = "__definition__"
)

// pointSchema is the on-disk {x, y} object shape shared by every
// positioned entity.
type pointSchema struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type tabSchema struct {
	ID       string      `json:"tab_id" validate:"required,len=8"`
	Position pointSchema `json:"position"`
}

type pinSchema struct {
	ID   string      `json:"pin_id" validate:"required,len=8"`
	Tabs []tabSchema `json:"tabs" validate:"required,min=1,dive"`
}

// componentSchema is deliberately loose on Pins: each component kind wires
// them up in a fixed order (components.Construct), so the schema only needs
// to carry them through, not interpret them.
type componentSchema struct {
	ID         string          `json:"component_id" validate:"required,len=8"`
	Type       string          `json:"component_type" validate:"required"`
	Position   pointSchema     `json:"position"`
	Rotation   int             `json:"rotation" validate:"omitempty,oneof=0 90 180 270"`
	LinkName   string          `json:"link_name,omitempty"`
	Properties map[string]any  `json:"properties,omitempty"`
	Pins       []pinSchema     `json:"pins" validate:"required,min=1,dive"`
}

type junctionSchema struct {
	ID         string      `json:"junction_id" validate:"required,len=8"`
	Position   pointSchema `json:"position"`
	ChildWires []string    `json:"child_wires,omitempty"`
}

type waypointSchema struct {
	ID       string      `json:"waypoint_id" validate:"required,len=8"`
	Position pointSchema `json:"position"`
}

type wireSchema struct {
	ID        string   `json:"wire_id" validate:"required,len=8"`
	StartTab  string   `json:"start_tab_id" validate:"required,len=8"`
	EndTab    string   `json:"end_tab_id,omitempty"`
	Waypoints []string `json:"waypoints,omitempty"`
	Junctions []string `json:"junctions,omitempty"`
}

type pageSchema struct {
	ID         string            `json:"page_id" validate:"required,len=8"`
	Name       string            `json:"name" validate:"required"`
	Components []componentSchema `json:"components,omitempty"`
	Wires      []wireSchema      `json:"wires,omitempty"`
	Junctions  []junctionSchema  `json:"junctions,omitempty"`
	Waypoints  []waypointSchema  `json:"waypoints,omitempty"`
	CanvasX    float64           `json:"canvas_x"`
	CanvasY    float64           `json:"canvas_y"`
	CanvasZoom float64           `json:"canvas_zoom"`
}

type metadataSchema struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

// subCircuitSchema records an embedded sub-circuit template: the source it
// was loaded from, its FOOTPRINT page, the full set of template pages, and
// which instances in this document were cloned from it.
type subCircuitSchema struct {
	SourcePath      string   `json:"source_path"`
	FootprintPageID string   `json:"footprint_page_id" validate:"required,len=8"`
	TemplatePages   []string `json:"template_pages" validate:"required,min=1,dive,len=8"`
	Instances       []string `json:"instances,omitempty"`
}

// documentSchema is the root .rsim/.rsub JSON shape: version, optional
// metadata, required pages, optional sub_circuits.
type documentSchema struct {
	Version     string                      `json:"version" validate:"required"`
	Metadata    metadataSchema              `json:"metadata"`
	Pages       []pageSchema                `json:"pages" validate:"required,min=1,dive"`
	SubCircuits map[string]subCircuitSchema `json:"sub_circuits,omitempty" validate:"omitempty,dive"`
}

// Load reads and validates a document file at path, returning a fully
// assembled relaysim.Document. It fails fast on a VersionIncompatibleError
// or a validation failure; schema and cross-reference failures found by
// ValidateDocument are plain errors, not StructuralError. No failure leaves
// the caller with a partially built document.
func Load(path string, engineVersion string) (*relaysim.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(relaysim.NewIOError(path, err))
	}

	var schema documentSchema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, errors.WithStack(relaysim.NewIOError(path, err))
	}
	if err := ValidateDocument(&schema); err != nil {
		return nil, err
	}
	if err := CheckCompatible(schema.Version, engineVersion); err != nil {
		return nil, err
	}

	return assemble(&schema)
}

// LoadSubCircuit reads a .rsub template file, validating that it carries a
// page literally named FOOTPRINT and that every Link on it has a non-empty
// link name, then returns a document holding just the template pages.
func LoadSubCircuit(path string, engineVersion string) (*relaysim.Document, error) {
	doc, err := Load(path, engineVersion)
	if err != nil {
		return nil, err
	}
	var footprint *relaysim.Page
	for _, p := range doc.AllPages() {
		if p.Name == "FOOTPRINT" {
			footprint = p
			break
		}
	}
	if footprint == nil {
		return nil, errors.WithStack(relaysim.NewIOError(path, errors.New("sub-circuit template has no FOOTPRINT page")))
	}
	for _, c := range footprint.AllComponents() {
		link, ok := c.(interface{ Link() string })
		if ok && link.Link() == "" {
			return nil, errors.WithStack(relaysim.NewIOError(path, errors.Errorf("FOOTPRINT link %q has no link name", c.ID())))
		}
	}
	return doc, nil
}

// Save serializes doc to path as pretty-printed JSON. Byte-stable round
// trips depend on deterministic field/slice ordering, which the
// Document/Page/Pin/Tab arenas already preserve via their *Order slices.
func Save(doc *relaysim.Document, path string) error {
	schema := toSchema(doc)
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return errors.WithStack(relaysim.NewIOError(path, err))
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.WithStack(relaysim.NewIOError(path, err))
	}
	return nil
}

func assemble(schema *documentSchema) (*relaysim.Document, error) {
	doc := relaysim.NewDocument(schema.Version)
	doc.Metadata = relaysim.Metadata{
		Title:       schema.Metadata.Title,
		Author:      schema.Metadata.Author,
		Description: schema.Metadata.Description,
		Created:     schema.Metadata.Created,
		Modified:    schema.Metadata.Modified,
	}

	for _, ps := range schema.Pages {
		page, err := assemblePage(doc, &ps)
		if err != nil {
			return nil, err
		}
		if err := doc.AddPage(page); err != nil {
			return nil, err
		}
	}

	for subID, scs := range schema.SubCircuits {
		templatePages := make([]relaysim.ID, len(scs.TemplatePages))
		for i, p := range scs.TemplatePages {
			templatePages[i] = relaysim.ID(p)
		}
		instances := make([]relaysim.ID, len(scs.Instances))
		for i, c := range scs.Instances {
			instances[i] = relaysim.ID(c)
		}
		doc.SubCircuits[relaysim.ID(subID)] = &relaysim.SubCircuitDefinition{
			ID:              relaysim.ID(subID),
			SourcePath:      scs.SourcePath,
			FootprintPageID: relaysim.ID(scs.FootprintPageID),
			TemplatePages:   templatePages,
			Instances:       instances,
		}
	}

	return doc, nil
}

func assemblePage(doc *relaysim.Document, ps *pageSchema) (*relaysim.Page, error) {
	page := relaysim.NewPage(relaysim.ID(ps.ID), ps.Name)
	page.CanvasX, page.CanvasY, page.CanvasZoom = ps.CanvasX, ps.CanvasY, ps.CanvasZoom

	for _, cs := range ps.Components {
		pinIDs := make([]relaysim.ID, len(cs.Pins))
		for i, pinS := range cs.Pins {
			tabIDs := make([]relaysim.ID, len(pinS.Tabs))
			for j, tabS := range pinS.Tabs {
				tabIDs[j] = relaysim.ID(tabS.ID)
			}
			pin := relaysim.NewPin(relaysim.ID(pinS.ID), relaysim.ID(cs.ID), tabIDs...)
			doc.AddPin(pin, tabsFrom(pinS)...)
			pinIDs[i] = pin.ID
		}
		comp, err := components.Construct(cs.Type, relaysim.ID(cs.ID), pinIDs)
		if err != nil {
			return nil, err
		}
		applyComponentSchema(comp, &cs)
		page.AddComponent(comp)
	}

	for _, js := range ps.Junctions {
		childWires := make([]relaysim.ID, len(js.ChildWires))
		for i, w := range js.ChildWires {
			childWires[i] = relaysim.ID(w)
		}
		page.Junctions[relaysim.ID(js.ID)] = &relaysim.Junction{
			ID:         relaysim.ID(js.ID),
			Position:   relaysim.Point{X: js.Position.X, Y: js.Position.Y},
			ChildWires: childWires,
		}
	}
	for _, wps := range ps.Waypoints {
		page.Waypoints[relaysim.ID(wps.ID)] = &relaysim.Waypoint{
			ID:       relaysim.ID(wps.ID),
			Position: relaysim.Point{X: wps.Position.X, Y: wps.Position.Y},
		}
	}
	for _, ws := range ps.Wires {
		wire := &relaysim.Wire{
			ID:       relaysim.ID(ws.ID),
			StartTab: relaysim.ID(ws.StartTab),
			EndTab:   relaysim.ID(ws.EndTab),
		}
		for _, wp := range ws.Waypoints {
			wire.Waypoints = append(wire.Waypoints, relaysim.ID(wp))
		}
		for _, j := range ws.Junctions {
			wire.Junctions = append(wire.Junctions, relaysim.ID(j))
		}
		page.AddWire(wire)
	}

	return page, nil
}

// toSchema flattens an in-memory Document back into the on-disk shape,
// walking every arena through the page/pin ordering the Document already
// maintains so re-saving an untouched load round-trips byte-for-byte.
func toSchema(doc *relaysim.Document) *documentSchema {
	schema := &documentSchema{
		Version: doc.Version,
		Metadata: metadataSchema{
			Title:       doc.Metadata.Title,
			Author:      doc.Metadata.Author,
			Description: doc.Metadata.Description,
			Created:     doc.Metadata.Created,
			Modified:    doc.Metadata.Modified,
		},
	}

	for _, page := range doc.AllPages() {
		schema.Pages = append(schema.Pages, *pageToSchema(doc, page))
	}

	if len(doc.SubCircuits) > 0 {
		schema.SubCircuits = make(map[string]subCircuitSchema, len(doc.SubCircuits))
		for id, def := range doc.SubCircuits {
			templatePages := make([]string, len(def.TemplatePages))
			for i, p := range def.TemplatePages {
				templatePages[i] = string(p)
			}
			instances := make([]string, len(def.Instances))
			for i, c := range def.Instances {
				instances[i] = string(c)
			}
			schema.SubCircuits[string(id)] = subCircuitSchema{
				SourcePath:      def.SourcePath,
				FootprintPageID: string(def.FootprintPageID),
				TemplatePages:   templatePages,
				Instances:       instances,
			}
		}
	}

	return schema
}

func pageToSchema(doc *relaysim.Document, page *relaysim.Page) *pageSchema {
	ps := &pageSchema{
		ID:         string(page.ID),
		Name:       page.Name,
		CanvasX:    page.CanvasX,
		CanvasY:    page.CanvasY,
		CanvasZoom: page.CanvasZoom,
	}

	for _, c := range page.AllComponents() {
		cs := componentSchema{ID: string(c.ID()), Type: c.Type()}
		if base, ok := c.(interface {
			PlacementFields() (relaysim.Point, int, string, map[string]any)
		}); ok {
			pos, rot, link, props := base.PlacementFields()
			cs.Position = pointSchema{X: pos.X, Y: pos.Y}
			cs.Rotation = rot
			cs.LinkName = link
			cs.Properties = props
		}
		if linker, ok := c.(interface{ PinLinks() map[relaysim.ID]string }); ok {
			links := linker.PinLinks()
			if len(links) > 0 {
				if cs.Properties == nil {
					cs.Properties = make(map[string]any)
				}
				flat := make(map[string]any, len(links))
				for pin, name := range links {
					flat[string(pin)] = name
				}
				cs.Properties[pinLinksKey] = flat
			}
		}
		if instance, ok := c.(*components.SubCircuitInstance); ok && instance.DefinitionID != "" {
			if cs.Properties == nil {
				cs.Properties = make(map[string]any)
			}
			cs.Properties[definitionKey] = string(instance.DefinitionID)
		}
		for _, pinID := range c.Pins() {
			pin := doc.Pins[pinID]
			pinS := pinSchema{ID: string(pin.ID)}
			for _, tabID := range pin.Tabs {
				tab := doc.Tabs[tabID]
				pinS.Tabs = append(pinS.Tabs, tabSchema{
					ID:       string(tab.ID),
					Position: pointSchema{X: tab.Position.X, Y: tab.Position.Y},
				})
			}
			cs.Pins = append(cs.Pins, pinS)
		}
		ps.Components = append(ps.Components, cs)
	}

	for _, id := range orderedKeys(page.Junctions) {
		j := page.Junctions[id]
		childWires := make([]string, len(j.ChildWires))
		for i, w := range j.ChildWires {
			childWires[i] = string(w)
		}
		ps.Junctions = append(ps.Junctions, junctionSchema{
			ID:         string(j.ID),
			Position:   pointSchema{X: j.Position.X, Y: j.Position.Y},
			ChildWires: childWires,
		})
	}
	for _, id := range orderedKeys(page.Waypoints) {
		wp := page.Waypoints[id]
		ps.Waypoints = append(ps.Waypoints, waypointSchema{
			ID:       string(wp.ID),
			Position: pointSchema{X: wp.Position.X, Y: wp.Position.Y},
		})
	}
	for _, w := range page.AllWires() {
		ws := wireSchema{ID: string(w.ID), StartTab: string(w.StartTab), EndTab: string(w.EndTab)}
		for _, wp := range w.Waypoints {
			ws.Waypoints = append(ws.Waypoints, string(wp))
		}
		for _, j := range w.Junctions {
			ws.Junctions = append(ws.Junctions, string(j))
		}
		ps.Wires = append(ps.Wires, ws)
	}

	return ps
}

// orderedKeys returns m's keys sorted so junction/waypoint output is
// deterministic across saves despite being stored in a map.
func orderedKeys[V any](m map[relaysim.ID]V) []relaysim.ID {
	out := make([]relaysim.ID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func tabsFrom(pinS pinSchema) []*relaysim.Tab {
	out := make([]*relaysim.Tab, len(pinS.Tabs))
	for i, t := range pinS.Tabs {
		out[i] = &relaysim.Tab{
			ID:       relaysim.ID(t.ID),
			Pin:      relaysim.ID(pinS.ID),
			Position: relaysim.Point{X: t.Position.X, Y: t.Position.Y},
		}
	}
	return out
}

// applyComponentSchema copies placement/properties fields common to every
// component kind onto the freshly constructed component, then restores a
// SubCircuitInstance's per-pin link names from the properties bag if present.
func applyComponentSchema(c relaysim.Component, cs *componentSchema) {
	if setter, ok := c.(interface {
		SetPlacement(pos relaysim.Point, rotation int, linkName string, props map[string]any)
	}); ok {
		setter.SetPlacement(relaysim.Point{X: cs.Position.X, Y: cs.Position.Y}, cs.Rotation, cs.LinkName, cs.Properties)
	}

	raw, ok := cs.Properties[pinLinksKey]
	if !ok {
		return
	}
	flat, ok := raw.(map[string]any)
	if !ok {
		return
	}
	instance, ok := c.(*components.SubCircuitInstance)
	if !ok {
		return
	}
	for pin, name := range flat {
		if s, ok := name.(string); ok {
			instance.PinLinkNames[relaysim.ID(pin)] = s
		}
	}
	if defID, ok := cs.Properties[definitionKey].(string); ok {
		instance.DefinitionID = relaysim.ID(defID)
	}
}
