package relaysim

// singleLoop is the default runLoop: everything happens on the caller's
// goroutine, grounded on the original SimulationEngine.run's single-threaded
// for-loop. Used whenever the document's component count stays under
// Config.ParallelThreshold.
type singleLoop struct {
	engine *Engine
}

func newSingleLoop(e *Engine) *singleLoop {
	return &singleLoop{engine: e}
}

func (l *singleLoop) runIteration(dirty []ID) (int, error) {
	pending := evaluateDirtyGroups(l.engine, dirty)
	for _, c := range pending {
		runComponentEvaluate(l.engine, c)
	}
	return len(pending), nil
}
