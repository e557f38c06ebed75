package relaysim

import (
	"sort"
	"sync"
)

// parallelLoop is the worker-pool runLoop, chosen once a document's
// component count reaches Config.ParallelThreshold. It splits each
// iteration's VNET-group evaluation across vnetWorkers goroutines and each
// iteration's component execution across componentWorkers goroutines,
// adapting the static chunk-split worker pattern from hwsim.go's
// NewCircuit/worker (partition the work slice into len(work)/workers
// chunks, one goroutine per chunk, join on a sync.WaitGroup) to a pool
// sized per-iteration instead of once at circuit-build time, since the
// dirty-VNET batch size varies every iteration.
type parallelLoop struct {
	engine           *Engine
	componentWorkers int
	vnetWorkers      int
}

func newParallelLoop(e *Engine) *parallelLoop {
	return &parallelLoop{engine: e, componentWorkers: 4, vnetWorkers: 2}
}

func (l *parallelLoop) runIteration(dirty []ID) (int, error) {
	groups := partitionGroups(l.engine, dirty)

	groupStates := make([]State, len(groups))
	runChunked(len(groups), l.vnetWorkers, func(i int) {
		state := Float
		for _, vnetID := range groups[i] {
			v, ok := l.engine.vnets[vnetID]
			if !ok {
				continue
			}
			if evaluateVNetBase(l.engine, v) == High {
				state = High
				break
			}
		}
		groupStates[i] = state
	})

	componentSets := make([][]Component, len(groups))
	runChunked(len(groups), l.vnetWorkers, func(i int) {
		componentSets[i] = propagateGroupState(l.engine, groups[i], groupStates[i])
	})

	pending := dedupeComponents(componentSets)

	runChunked(len(pending), l.componentWorkers, func(i int) {
		runComponentEvaluate(l.engine, pending[i])
	})

	return len(pending), nil
}

// partitionGroups sequentially claims each dirty VNET's bridge-connected
// group, the same way evaluateDirtyGroups does, but stops short of
// computing/committing state so the caller can parallelize those phases.
// Partitioning itself stays single-threaded: groups must not overlap, and
// bridgeGroup's traversal order depends on that invariant.
func partitionGroups(e *Engine, dirty []ID) [][]ID {
	processed := make(map[ID]struct{})
	var groups [][]ID
	for _, vnetID := range dirty {
		if _, ok := processed[vnetID]; ok {
			continue
		}
		group := bridgeGroup(e, vnetID)
		for _, id := range group {
			processed[id] = struct{}{}
		}
		groups = append(groups, group)
	}
	return groups
}

func dedupeComponents(sets [][]Component) []Component {
	seen := make(map[ID]struct{})
	var out []Component
	for _, set := range sets {
		for _, c := range set {
			if _, dup := seen[c.ID()]; dup {
				continue
			}
			seen[c.ID()] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// runChunked splits the index range [0,n) into up to workers contiguous
// chunks and runs fn(i) for every index, one goroutine per chunk, joining
// on a WaitGroup before returning.
func runChunked(n, workers int, fn func(i int)) {
	if n == 0 {
		return
	}
	if workers <= 0 || workers > n {
		workers = n
	}
	size := n / workers
	if size*workers < n {
		size++
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(start, end)
	}
	wg.Wait()
}
