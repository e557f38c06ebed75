package relaysim

import "sort"

// BuildResult is the outcome of building VNETs for a page: the VNETs
// themselves, any non-fatal warnings (isolated tabs), and any structural
// errors encountered along the way. A malformed reference never panics;
// building proceeds for the remainder of the page.
type BuildResult struct {
	VNETs    []*VNET
	Warnings []WarningCondition
	Errors   []*StructuralError
}

// BuildVNets builds every VNET on page by traversing its wire/junction
// forest. Each tab that appears as a wire endpoint seeds a VNET;
// unreferenced tabs form singleton VNETs on demand. Tabs sharing a pin are
// implicitly connected, the same way the original engine's
// _build_connectivity_map wires every tab of a pin to every other tab of
// that pin before ever looking at a Wire.
func BuildVNets(doc *Document, page *Page) *BuildResult {
	res := &BuildResult{}

	allTabs := collectAllTabs(doc, page)
	connectivity := buildConnectivity(doc, page, res)

	processed := make(map[ID]struct{}, len(allTabs))
	for _, tabID := range allTabs {
		if _, done := processed[tabID]; done {
			continue
		}
		connected := findConnectedTabs(tabID, connectivity, processed)
		vnet := NewVNET(NewID(), page.ID)
		for t := range connected {
			vnet.AddTab(t)
		}
		if len(connected) == 1 {
			res.Warnings = append(res.Warnings, WarningCondition{
				Kind:    WarnIsolatedTab,
				Subject: string(tabID),
				Detail:  "tab is not connected to any wire",
			})
		}
		res.VNETs = append(res.VNETs, vnet)
	}

	return res
}

// collectAllTabs returns every tab id owned by every pin of every component
// on the page, in deterministic (component, pin, tab) creation order.
func collectAllTabs(doc *Document, page *Page) []ID {
	var out []ID
	for _, c := range page.AllComponents() {
		for _, pinID := range c.Pins() {
			pin, ok := doc.Pins[pinID]
			if !ok {
				continue
			}
			out = append(out, pin.Tabs...)
		}
	}
	return out
}

// buildConnectivity returns an adjacency map of directly-connected tab ids:
// tabs sharing a pin, plus tabs joined by a wire (recursing through
// junctions). Dangling wire references are reported into res.Errors and
// skipped; building continues for the rest of the page.
func buildConnectivity(doc *Document, page *Page, res *BuildResult) map[ID]map[ID]struct{} {
	connectivity := make(map[ID]map[ID]struct{})
	connect := func(a, b ID) {
		if connectivity[a] == nil {
			connectivity[a] = make(map[ID]struct{})
		}
		if connectivity[b] == nil {
			connectivity[b] = make(map[ID]struct{})
		}
		connectivity[a][b] = struct{}{}
		connectivity[b][a] = struct{}{}
	}

	// same-pin tabs are implicitly connected.
	for _, c := range page.AllComponents() {
		for _, pinID := range c.Pins() {
			pin, ok := doc.Pins[pinID]
			if !ok {
				continue
			}
			for i := 0; i < len(pin.Tabs); i++ {
				for j := i + 1; j < len(pin.Tabs); j++ {
					connect(pin.Tabs[i], pin.Tabs[j])
				}
			}
		}
	}

	for _, w := range page.AllWires() {
		visited := make(map[ID]struct{})
		tabs := wireTabs(page, w, visited, res)
		list := setToSortedSlice(tabs)
		for i := 0; i < len(list); i++ {
			for j := i + 1; j < len(list); j++ {
				connect(list[i], list[j])
			}
		}
	}

	return connectivity
}

// wireTabs returns every tab reachable from w, recursing into junctions,
// with a visited-wires set (one per top-level wire) that prevents infinite
// recursion on circular wire paths.
func wireTabs(page *Page, w *Wire, visited map[ID]struct{}, res *BuildResult) map[ID]struct{} {
	if _, ok := visited[w.ID]; ok {
		return nil
	}
	visited[w.ID] = struct{}{}

	tabs := make(map[ID]struct{})
	if w.StartTab != "" {
		tabs[w.StartTab] = struct{}{}
	}
	if w.HasEndTab() {
		tabs[w.EndTab] = struct{}{}
	}
	for _, jid := range w.Junctions {
		j, ok := page.Junctions[jid]
		if !ok {
			res.Errors = append(res.Errors, newStructuralError(string(w.ID), "wire references unknown junction %q", jid))
			continue
		}
		for _, cwid := range j.ChildWires {
			cw, ok := page.Wires[cwid]
			if !ok {
				res.Errors = append(res.Errors, newStructuralError(string(j.ID), "junction references unknown wire %q", cwid))
				continue
			}
			for t := range wireTabs(page, cw, visited, res) {
				tabs[t] = struct{}{}
			}
		}
	}
	return tabs
}

// findConnectedTabs performs an iterative depth-first search (a LIFO
// worklist) over connectivity starting at
// start, marking every visited tab as processed so the caller's outer loop
// skips it. Mirrors the original _find_connected_tabs's worklist algorithm.
func findConnectedTabs(start ID, connectivity map[ID]map[ID]struct{}, processed map[ID]struct{}) map[ID]struct{} {
	connected := make(map[ID]struct{})
	queue := []ID{start}
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if _, done := processed[cur]; done {
			continue
		}
		processed[cur] = struct{}{}
		connected[cur] = struct{}{}
		for n := range connectivity[cur] {
			if _, done := processed[n]; !done {
				queue = append(queue, n)
			}
		}
	}
	return connected
}

func setToSortedSlice(s map[ID]struct{}) []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
