package relaysim

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// EngineState is the simulation lifecycle state machine: Idle before
// first start and after a clean stop, Initializing while on_start is
// running for every component, Running/Stable/Unstable while the evaluate
// loop drives toward a fixed point, and Stopping while on_stop tears
// everything down.
type EngineState int

const (
	StateIdle EngineState = iota
	StateInitializing
	StateRunning
	StateStable
	StateUnstable
	StateStopping
)

func (s EngineState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStable:
		return "stable"
	case StateUnstable:
		return "unstable"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// Statistics summarizes one run-to-stability, reset at the start of every
// Start/Interact cycle.
type Statistics struct {
	Iterations         int
	ComponentsUpdated  int
	TimeToStability    time.Duration
	TotalTime          time.Duration
	MaxIterationsHit   bool
	TimedOut           bool
	Stable             bool
	PeakDirtyCount     int
	OffendingVNETs     []ID
}

// Config bounds the engine's run loop: MaxIterations caps the
// evaluate/execute cycle before declaring oscillation, Timeout caps wall
// time, and ParallelThreshold is the component count at or above which the
// worker-pool loop implementation is chosen over the single-threaded one.
type Config struct {
	MaxIterations       int
	Timeout             time.Duration
	ParallelThreshold   int
	TicksPerMillisecond uint64
}

// DefaultConfig mirrors the original engine's defaults (max_iterations=10000,
// timeout_seconds=30.0, simulation/simulation_engine.py __init__) plus a
// worker-pool cutover point (2000 components) at or above which evaluation
// fans out across goroutines instead of running single-threaded.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       10000,
		Timeout:             30 * time.Second,
		ParallelThreshold:   2000,
		TicksPerMillisecond: DefaultTicksPerMillisecond,
	}
}

// Engine owns one document's runtime simulation state: the VNETs built from
// it, the bridge and dirty-flag managers, and the run loop that drives
// components to a fixed point. It holds no reference back to any
// GUI; OnStable/OnUnstable listeners are how callers observe progress.
type Engine struct {
	mu sync.Mutex

	doc    *Document
	cfg    Config
	clock  *tickClock

	state EngineState

	vnets     map[ID]*VNET
	tabToVNet map[ID]ID
	bridges   *BridgeManager
	dirty     *DirtyFlagManager
	loop      runLoop

	stats    Statistics
	warnings []WarningCondition

	onStable   []func(Statistics)
	onUnstable []func(Statistics)
}

// NewEngine returns an Engine for doc, not yet started. cfg.MaxIterations,
// cfg.Timeout and cfg.ParallelThreshold fall back to DefaultConfig's values
// when zero.
func NewEngine(doc *Document, cfg Config) *Engine {
	d := DefaultConfig()
	if cfg.MaxIterations > 0 {
		d.MaxIterations = cfg.MaxIterations
	}
	if cfg.Timeout > 0 {
		d.Timeout = cfg.Timeout
	}
	if cfg.ParallelThreshold > 0 {
		d.ParallelThreshold = cfg.ParallelThreshold
	}
	if cfg.TicksPerMillisecond > 0 {
		d.TicksPerMillisecond = cfg.TicksPerMillisecond
	}
	return &Engine{
		doc:   doc,
		cfg:   d,
		clock: &tickClock{},
		state: StateIdle,
	}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Statistics returns a copy of the statistics from the most recent run.
func (e *Engine) Statistics() Statistics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Warnings returns every non-fatal WarningCondition accumulated since the
// last Start (build-time link/isolated-tab warnings plus run-time component
// faults).
func (e *Engine) Warnings() []WarningCondition {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]WarningCondition(nil), e.warnings...)
}

// OnStable registers a listener invoked every time the run loop reaches a
// fixed point. Listeners run synchronously on the caller's
// goroutine, after the loop has already settled.
func (e *Engine) OnStable(fn func(Statistics)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStable = append(e.onStable, fn)
}

// OnUnstable registers a listener invoked whenever the run loop starts
// processing from a clean/stopped state (the mirror of OnStable).
func (e *Engine) OnUnstable(fn func(Statistics)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUnstable = append(e.onUnstable, fn)
}

// Start builds VNETs for every page, resolves links, runs on_start on every
// component, marks every VNET dirty, and drives the run loop to a fixed
// point. It is only legal from StateIdle.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return errors.WithStack(&InvalidStateError{Op: "Start", State: e.state.String(), Expected: StateIdle.String()})
	}
	e.state = StateInitializing
	e.mu.Unlock()

	if err := e.build(); err != nil {
		e.mu.Lock()
		e.state = StateIdle
		e.mu.Unlock()
		return err
	}

	for _, page := range e.doc.AllPages() {
		for _, c := range page.AllComponents() {
			e.startComponent(c)
		}
	}

	e.dirty.MarkAll()

	e.mu.Lock()
	e.state = StateRunning
	e.mu.Unlock()

	return e.drive()
}

// Interact delivers an external stimulus (a switch toggle, a button
// press/release) to component, then re-drives the run loop to a fixed
// point. It is only legal once the engine is idle-while-started, i.e. in
// StateStable or StateUnstable.
func (e *Engine) Interact(component ID, action string, params map[string]any) error {
	e.mu.Lock()
	if e.state != StateStable && e.state != StateUnstable {
		st := e.state
		e.mu.Unlock()
		return errors.WithStack(&InvalidStateError{Op: "Interact", State: st.String(), Expected: "stable or unstable"})
	}
	e.state = StateRunning
	e.mu.Unlock()

	c, _, ok := e.doc.FindComponent(component)
	if !ok {
		return errors.WithStack(newStructuralError(string(component), "interact: unknown component"))
	}
	if err := c.Interact(action, params); err != nil {
		return errors.Wrapf(err, "interact %s on %s", action, component)
	}

	// The stimulus only changes the component's internal state; dirty the
	// VNETs under its pins so the run loop calls its Evaluate again.
	net := &componentNetView{engine: e, owner: c}
	for _, pin := range c.Pins() {
		net.Wake(pin)
	}

	return e.drive()
}

// Stop runs on_stop on every component, destroys every bridge, and returns
// the engine to StateIdle. Safe to call from any state
// other than StateIdle; a no-op when already idle.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state == StateIdle {
		e.mu.Unlock()
		return nil
	}
	e.state = StateStopping
	e.mu.Unlock()

	var firstErr error
	for _, page := range e.doc.AllPages() {
		for _, c := range page.AllComponents() {
			if c.lifecycle() != LifecycleStarted {
				continue
			}
			if err := c.OnStop(); err != nil && firstErr == nil {
				firstErr = errors.Wrapf(err, "on_stop %s", c.ID())
			}
			c.setLifecycle(LifecycleStopped)
		}
	}
	if e.bridges != nil {
		e.bridges.DestroyAll()
	}

	e.mu.Lock()
	e.state = StateIdle
	e.mu.Unlock()
	return firstErr
}

// build constructs VNETs for every page, resolves cross-page links, and
// wires up the bridge and dirty-flag managers.
func (e *Engine) build() error {
	e.vnets = make(map[ID]*VNET)
	var warnings []WarningCondition

	for _, page := range e.doc.AllPages() {
		res := BuildVNets(e.doc, page)
		for _, v := range res.VNETs {
			e.vnets[v.ID] = v
		}
		warnings = append(warnings, res.Warnings...)
		for _, se := range res.Errors {
			return errors.WithStack(se)
		}
	}

	var all []*VNET
	for _, v := range e.vnets {
		all = append(all, v)
	}
	e.tabToVNet = BuildTabIndex(all)

	warnings = append(warnings, ResolveLinks(e.doc, e.vnets, e.tabToVNet)...)

	e.dirty = NewDirtyFlagManager(e.vnets)
	e.bridges = NewBridgeManager(e.vnets, e.dirty)
	e.clock = &tickClock{}

	componentCount := 0
	for _, page := range e.doc.AllPages() {
		componentCount += len(page.AllComponents())
	}
	if componentCount >= e.cfg.ParallelThreshold {
		e.loop = newParallelLoop(e)
	} else {
		e.loop = newSingleLoop(e)
	}

	e.warnings = warnings
	e.stats = Statistics{}
	return nil
}

func (e *Engine) startComponent(c Component) {
	net := &componentNetView{engine: e, owner: c}
	if err := c.OnStart(net, &engineBridgeOps{engine: e}); err != nil {
		e.warnings = append(e.warnings, WarningCondition{
			Kind:    WarnComponentFault,
			Subject: string(c.ID()),
			Detail:  "on_start: " + err.Error(),
		})
		return
	}
	c.setLifecycle(LifecycleStarted)
}

// drive runs the evaluate/execute loop until the dirty set empties
// (stable), the iteration cap is hit (oscillating), or the watchdog fires
// (timeout), mirroring simulation_engine.py's run().
func (e *Engine) drive() error {
	for _, fn := range e.onUnstable {
		fn(e.Statistics())
	}

	e.mu.Lock()
	e.stats = Statistics{}
	e.mu.Unlock()

	start := time.Now()
	iteration := 0
	peakDirty := 0

	for {
		iteration++
		e.clock.advance()

		dirty := e.dirty.Drain()
		if len(dirty) == 0 {
			elapsed := time.Since(start)
			e.mu.Lock()
			e.stats.Iterations = iteration - 1
			e.stats.Stable = true
			e.stats.TimeToStability = elapsed
			e.stats.TotalTime = elapsed
			e.stats.PeakDirtyCount = peakDirty
			e.state = StateStable
			stats := e.stats
			e.mu.Unlock()
			for _, fn := range e.onStable {
				fn(stats)
			}
			return nil
		}
		if len(dirty) > peakDirty {
			peakDirty = len(dirty)
		}

		updated, err := e.loop.runIteration(dirty)
		if err != nil {
			return err
		}

		e.mu.Lock()
		e.stats.Iterations = iteration
		e.stats.ComponentsUpdated += updated
		e.state = StateUnstable
		e.mu.Unlock()

		if iteration >= e.cfg.MaxIterations {
			elapsed := time.Since(start)
			offending := e.mostToggledVNETs(5)
			e.mu.Lock()
			e.stats.MaxIterationsHit = true
			e.stats.TotalTime = elapsed
			e.stats.OffendingVNETs = offending
			e.mu.Unlock()
			return errors.WithStack(&OscillationError{Iterations: iteration, VNETIDs: offending})
		}
		if e.cfg.Timeout > 0 && time.Since(start) >= e.cfg.Timeout {
			elapsed := time.Since(start)
			e.mu.Lock()
			e.stats.TimedOut = true
			e.stats.TotalTime = elapsed
			e.mu.Unlock()
			return errors.WithStack(&TimeoutError{Elapsed: elapsed.String()})
		}
	}
}

// mostToggledVNETs returns up to n VNET ids ranked by descending toggle
// count, the diagnostic payload for OscillationError.
func (e *Engine) mostToggledVNETs(n int) []ID {
	type tc struct {
		id    ID
		count int
	}
	var all []tc
	for _, v := range e.vnets {
		if v.toggleCount > 0 {
			all = append(all, tc{id: v.ID, count: v.toggleCount})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return all[i].id < all[j].id
	})
	if len(all) > n {
		all = all[:n]
	}
	out := make([]ID, len(all))
	for i, t := range all {
		out[i] = t.id
	}
	return out
}

// componentNetView is the Engine-backed implementation of NetView handed to
// a component's OnStart/Evaluate/Interact calls.
type componentNetView struct {
	engine *Engine
	owner  Component
}

func (n *componentNetView) PinState(pin ID) State {
	p, ok := n.engine.doc.Pins[pin]
	if !ok {
		return Float
	}
	return p.State()
}

func (n *componentNetView) NetState(pin ID) State {
	p, ok := n.engine.doc.Pins[pin]
	if !ok {
		return Float
	}
	for _, tabID := range p.Tabs {
		if t, ok := n.engine.doc.Tabs[tabID]; ok && t.State() == High {
			return High
		}
	}
	return Float
}

func (n *componentNetView) SetPinState(pin ID, s State) {
	p, ok := n.engine.doc.Pins[pin]
	if !ok {
		return
	}
	if !p.SetState(s, n.engine.doc.Tabs) {
		return
	}
	for _, tabID := range p.Tabs {
		if vnetID, ok := n.engine.tabToVNet[tabID]; ok {
			n.engine.dirty.Mark(vnetID)
		}
	}
}

func (n *componentNetView) Tick() uint64 {
	return n.engine.clock.Tick()
}

func (n *componentNetView) Wake(pin ID) {
	p, ok := n.engine.doc.Pins[pin]
	if !ok {
		return
	}
	for _, tabID := range p.Tabs {
		if vnetID, ok := n.engine.tabToVNet[tabID]; ok {
			n.engine.dirty.Mark(vnetID)
		}
	}
}

// engineBridgeOps adapts an Engine's BridgeManager (and its tab/pin-to-VNET
// index) to the narrower BridgeOps surface a component kernel sees,
// translating VNetForPin's pin argument into the BridgeManager's VNET-id
// vocabulary.
type engineBridgeOps struct {
	engine *Engine
}

func (b *engineBridgeOps) CreateBridge(vnetA, vnetB, owner ID) ID {
	return b.engine.bridges.Create(vnetA, vnetB, owner)
}

func (b *engineBridgeOps) MoveBridge(bridge, oldEndpoint, newEndpoint ID) {
	b.engine.bridges.Move(bridge, oldEndpoint, newEndpoint)
}

func (b *engineBridgeOps) DestroyBridge(bridge ID) {
	b.engine.bridges.Destroy(bridge)
}

func (b *engineBridgeOps) VNetForPin(pin ID) ID {
	p, ok := b.engine.doc.Pins[pin]
	if !ok || len(p.Tabs) == 0 {
		return ""
	}
	return b.engine.tabToVNet[p.Tabs[0]]
}
