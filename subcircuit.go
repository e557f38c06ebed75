package relaysim

// FootprintPin describes one external connection point discovered on a
// cloned FOOTPRINT page: the Link component that carries the connection
// and the name it was instantiated under.
type FootprintPin struct {
	LinkName        string
	LinkComponentID ID
	PinID           ID
}

// InstantiationResult is what InstantiateSubCircuit produces: the freshly
// cloned template pages (added to the document already) plus the
// FOOTPRINT's discovered external pins, from which a caller builds the
// parent-page SubCircuitInstance component.
type InstantiationResult struct {
	ClonedPages   []*Page
	FootprintPage *Page
	FootprintPins []FootprintPin
}

// InstantiateSubCircuit deep-clones every template page of def into dst
// with fresh identifiers and adds them to the document.
// Template pages must already be present in dst (added once, when the
// sub-circuit template was embedded via a prior load), since a document
// only ever references pages it owns.
func InstantiateSubCircuit(dst *Document, def *SubCircuitDefinition) (*InstantiationResult, error) {
	reg := NewIDRegenerator()
	res := &InstantiationResult{}

	for _, pageID := range def.TemplatePages {
		src, ok := dst.Pages[pageID]
		if !ok {
			return nil, newStructuralError(string(def.ID), "sub-circuit definition references unknown template page %q", pageID)
		}
		newPage, err := ClonePage(dst, src, reg)
		if err != nil {
			return nil, err
		}
		newPage.IsSubCircuitPage = true
		newPage.ParentSubCircuitID = def.ID
		if err := dst.AddPage(newPage); err != nil {
			return nil, err
		}
		res.ClonedPages = append(res.ClonedPages, newPage)
		if pageID == def.FootprintPageID {
			res.FootprintPage = newPage
		}
	}

	if res.FootprintPage == nil {
		return nil, newStructuralError(string(def.ID), "sub-circuit definition %q has no FOOTPRINT page", def.ID)
	}

	for _, c := range res.FootprintPage.AllComponents() {
		linked, ok := c.(interface{ Link() string })
		if !ok {
			continue
		}
		name := linked.Link()
		if name == "" {
			continue
		}
		pins := c.Pins()
		if len(pins) == 0 {
			continue
		}
		res.FootprintPins = append(res.FootprintPins, FootprintPin{
			LinkName:        name,
			LinkComponentID: c.ID(),
			PinID:           pins[0],
		})
	}

	return res, nil
}

// SyntheticLinkName builds the per-instance link name joining a
// SubCircuitInstance's external pin to its corresponding cloned FOOTPRINT
// Link, unique to this instance so two instances of the same template
// never cross-connect.
func SyntheticLinkName(instance ID, footprintLinkName string) string {
	return "__subcircuit__:" + string(instance) + ":" + footprintLinkName
}
