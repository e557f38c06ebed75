package relaysim

// Clock is the engine's injected notion of simulated time: a monotonic tick
// counter advanced once per run-loop iteration. Components that need a
// switching delay (the DPDT relay's 10ms contact timer) schedule against
// ticks, not wall-clock time, so that oscillation detection, the watchdog
// and tests all observe the same clock.
type Clock interface {
	Tick() uint64
}

// tickClock is the default Clock: a plain counter advanced by the engine's
// run loop once per iteration.
type tickClock struct {
	n uint64
}

func (c *tickClock) Tick() uint64 { return c.n }

func (c *tickClock) advance() { c.n++ }

// DefaultTicksPerMillisecond is the default for Config.TicksPerMillisecond:
// how many run-loop iterations stand for one millisecond of simulated time.
// The engine stores the configured value, but nothing reads it: DPDTRelay
// counts its switching delay directly in ticks (DelayTicks), so changing it
// does not change any component's timing.
const DefaultTicksPerMillisecond = 1
