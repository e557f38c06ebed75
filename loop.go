package relaysim

import (
	"sort"

	"github.com/pkg/errors"
)

// runLoop is the strategy interface behind Engine's single-threaded and
// worker-pool evaluate/execute implementations. Engine.build chooses
// the implementation once, at Start, based on component count, matching the
// original threaded_simulation_engine.py / simulation_engine.py split.
type runLoop interface {
	// runIteration processes one batch of dirty VNETs: it groups them by
	// bridge connectivity, computes and commits each group's new state,
	// and runs Evaluate on every component whose pins sit on an affected
	// VNET. It returns the number of components whose Evaluate ran.
	runIteration(dirty []ID) (int, error)
}

// bridgeGroup collects the full set of VNET ids transitively reachable from
// start by following live bridges, mirroring simulation_engine.py's
// collect_bridge_group: bridged VNETs must be evaluated and committed
// together so that a relay's closed contact doesn't see a stale value on
// one side and a fresh one on the other within the same iteration.
func bridgeGroup(e *Engine, start ID) []ID {
	group := make(map[ID]struct{})
	stack := []ID{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := group[cur]; ok {
			continue
		}
		group[cur] = struct{}{}

		v, ok := e.vnets[cur]
		if !ok {
			continue
		}
		for bridgeID := range v.Bridges {
			b, ok := e.bridges.Get(bridgeID)
			if !ok {
				continue
			}
			other := b.OtherEnd(cur)
			if other != "" {
				if _, seen := group[other]; !seen {
					stack = append(stack, other)
				}
			}
		}
	}
	out := make([]ID, 0, len(group))
	for id := range group {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// evaluateVNetBase computes a VNET's own contribution: the OR of every tab
// it owns plus every VNET sharing one of its link names. Bridge contributions are intentionally excluded
// here; bridgeGroup already folds bridged VNETs together so their base
// states get OR'd as a group, matching evaluate_vnet_state's
// include_bridges=False call from the run loop.
func evaluateVNetBase(e *Engine, v *VNET) State {
	state := Float
	for tabID := range v.Tabs {
		t, ok := e.doc.Tabs[tabID]
		if !ok {
			continue
		}
		if t.State() == High {
			return High
		}
	}
	if len(v.Links) > 0 {
		for _, other := range e.vnets {
			if other.ID == v.ID {
				continue
			}
			if sharesLink(v, other) && other.State() == High {
				return High
			}
		}
	}
	return state
}

func sharesLink(a, b *VNET) bool {
	for name := range a.Links {
		if _, ok := b.Links[name]; ok {
			return true
		}
	}
	return false
}

// componentsForVNET returns every component owning at least one tab in v,
// in no particular guaranteed order (caller is responsible for dedup/sort
// when combining several VNETs' results).
func componentsForVNET(e *Engine, v *VNET) []Component {
	seen := make(map[ID]struct{})
	var out []Component
	for tabID := range v.Tabs {
		tab, ok := e.doc.Tabs[tabID]
		if !ok {
			continue
		}
		pin, ok := e.doc.Pins[tab.Pin]
		if !ok {
			continue
		}
		if _, dup := seen[pin.Component]; dup {
			continue
		}
		c, _, ok := e.doc.FindComponent(pin.Component)
		if !ok {
			continue
		}
		seen[pin.Component] = struct{}{}
		out = append(out, c)
	}
	return out
}

// propagateGroupState commits newState to every VNET in group, clears their
// dirty flags, and collects the set of components whose pins sit on any of
// them. It does not itself call Evaluate; callers run that afterward so
// single- and parallel-loop implementations can choose how.
func propagateGroupState(e *Engine, group []ID, newState State) []Component {
	seen := make(map[ID]struct{})
	var toRun []Component
	for _, vnetID := range group {
		v, ok := e.vnets[vnetID]
		if !ok {
			continue
		}
		if v.setState(newState) && len(v.Links) > 0 {
			// Linked VNETs are electrically joined: a change here must
			// re-evaluate every VNET sharing one of its link names.
			for _, other := range e.vnets {
				if other.ID != v.ID && sharesLink(v, other) {
					e.dirty.Mark(other.ID)
				}
			}
		}
		for tabID := range v.Tabs {
			if t, ok := e.doc.Tabs[tabID]; ok {
				t.setState(newState)
			}
		}
		e.dirty.Clear(vnetID)
		for _, c := range componentsForVNET(e, v) {
			if _, dup := seen[c.ID()]; dup {
				continue
			}
			seen[c.ID()] = struct{}{}
			toRun = append(toRun, c)
		}
	}
	sort.Slice(toRun, func(i, j int) bool { return toRun[i].ID() < toRun[j].ID() })
	return toRun
}

// evaluateDirtyGroups processes the dirty VNET batch into a deduplicated,
// deterministically ordered list of components pending Evaluate, applying
// each bridge group's committed state along the way.
func evaluateDirtyGroups(e *Engine, dirty []ID) []Component {
	processed := make(map[ID]struct{})
	seenComponents := make(map[ID]struct{})
	var pending []Component

	for _, vnetID := range dirty {
		if _, ok := processed[vnetID]; ok {
			continue
		}
		group := bridgeGroup(e, vnetID)
		for _, id := range group {
			processed[id] = struct{}{}
		}

		groupState := Float
		for _, gid := range group {
			v, ok := e.vnets[gid]
			if !ok {
				continue
			}
			if evaluateVNetBase(e, v) == High {
				groupState = High
				break
			}
		}

		for _, c := range propagateGroupState(e, group, groupState) {
			if _, dup := seenComponents[c.ID()]; dup {
				continue
			}
			seenComponents[c.ID()] = struct{}{}
			pending = append(pending, c)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID() < pending[j].ID() })
	return pending
}

// runComponentEvaluate invokes Evaluate on c, turning a component-raised
// error into an accumulated WarnComponentFault rather than aborting the
// run.
func runComponentEvaluate(e *Engine, c Component) {
	if c.lifecycle() != LifecycleStarted {
		return
	}
	net := &componentNetView{engine: e, owner: c}
	if err := c.Evaluate(net, &engineBridgeOps{engine: e}); err != nil {
		e.mu.Lock()
		e.warnings = append(e.warnings, WarningCondition{
			Kind:    WarnComponentFault,
			Subject: string(c.ID()),
			Detail:  errors.Wrap(err, "evaluate").Error(),
		})
		e.mu.Unlock()
	}
}
