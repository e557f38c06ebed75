package relaysim

// pinLinker is implemented by components whose link membership is per-pin
// rather than per-component, e.g. a SubCircuitInstance: each external pin
// carries its own synthetic link name joining it to the matching Link
// component inside the instantiated template.
type pinLinker interface {
	PinLinks() map[ID]string
}

// ResolveLinks annotates vnets with link-name memberships. For every
// component carrying a non-empty link name, it locates the VNET containing
// any of that component's tabs on that component's page and adds the link
// name to it. Two VNETs carrying the same link name are electrically joined
// during evaluation but remain separate VNET entities — adding or removing a
// link later never requires rebuilding VNETs.
//
// Name comparison is exact and case-sensitive. A name with zero members is
// silently ignored; a name with exactly one member produces a
// WarnUnconnectedLink; a name spanning more than two pages produces a
// WarnHighFanoutLink.
func ResolveLinks(doc *Document, vnets map[ID]*VNET, tabToVNet map[ID]ID) []WarningCondition {
	type member struct {
		vnet ID
		page ID
	}
	members := make(map[string][]member)

	for _, page := range doc.AllPages() {
		for _, c := range page.AllComponents() {
			if linked, ok := c.(interface{ Link() string }); ok {
				if name := linked.Link(); name != "" {
					if vnetID := vnetForComponent(doc, c, tabToVNet); vnetID != "" {
						members[name] = append(members[name], member{vnet: vnetID, page: page.ID})
					}
				}
			}
			if pl, ok := c.(pinLinker); ok {
				for pinID, name := range pl.PinLinks() {
					if name == "" {
						continue
					}
					if vnetID := vnetForPin(doc, pinID, tabToVNet); vnetID != "" {
						members[name] = append(members[name], member{vnet: vnetID, page: page.ID})
					}
				}
			}
		}
	}

	var warnings []WarningCondition
	for name, ms := range members {
		seenVnets := make(map[ID]struct{})
		seenPages := make(map[ID]struct{})
		for _, m := range ms {
			seenVnets[m.vnet] = struct{}{}
			seenPages[m.page] = struct{}{}
			if v, ok := vnets[m.vnet]; ok {
				v.AddLink(name)
			}
		}
		switch {
		case len(seenVnets) == 1:
			warnings = append(warnings, WarningCondition{
				Kind:    WarnUnconnectedLink,
				Subject: name,
				Detail:  "link name has only one member",
			})
		case len(seenPages) > 2:
			warnings = append(warnings, WarningCondition{
				Kind:    WarnHighFanoutLink,
				Subject: name,
				Detail:  "link name spans more than two pages",
			})
		}
	}
	return warnings
}

// vnetForComponent returns the id of any VNET containing one of c's tabs,
// or "" if c owns no tabs that made it into a VNET (e.g. a dangling pin).
func vnetForComponent(doc *Document, c Component, tabToVNet map[ID]ID) ID {
	for _, pinID := range c.Pins() {
		if vnetID := vnetForPin(doc, pinID, tabToVNet); vnetID != "" {
			return vnetID
		}
	}
	return ""
}

// vnetForPin returns the id of any VNET containing one of pin's tabs, or ""
// if the pin is unknown or owns no tabs that made it into a VNET.
func vnetForPin(doc *Document, pinID ID, tabToVNet map[ID]ID) ID {
	pin, ok := doc.Pins[pinID]
	if !ok {
		return ""
	}
	for _, tabID := range pin.Tabs {
		if vnetID, ok := tabToVNet[tabID]; ok {
			return vnetID
		}
	}
	return ""
}

// BuildTabIndex inverts a VNET set into a tab -> vnet lookup, used by both
// ResolveLinks and the bridge/evaluate machinery to go from "a pin's tab" to
// "the VNET it belongs to".
func BuildTabIndex(vnets []*VNET) map[ID]ID {
	idx := make(map[ID]ID)
	for _, v := range vnets {
		for t := range v.Tabs {
			idx[t] = v.ID
		}
	}
	return idx
}
