package relaysim

// Waypoint is a purely visual routing point on a Wire. It has no electrical
// effect and the net builder skips it entirely.
type Waypoint struct {
	ID       ID
	Position Point
}

// Junction is a branch point that electrically joins every Wire reachable
// through it. A Junction recursively owns child Wires, so a Wire tree can
// fan out through nested Junctions.
type Junction struct {
	ID         ID
	Position   Point
	ChildWires []ID // ordered child wire ids
}

// Wire is a page-local connection between a start Tab and either an end Tab
// or a terminating Junction. Wires form a tree; cross-page connectivity only
// ever happens through link names, never through a Wire.
type Wire struct {
	ID        ID
	StartTab  ID
	EndTab    ID // zero value ("") if the wire terminates at a junction instead
	Waypoints []ID
	Junctions []ID // ordered child junction ids
}

// HasEndTab reports whether the wire terminates directly at a tab, as
// opposed to terminating only through its junctions.
func (w *Wire) HasEndTab() bool { return w.EndTab != "" }
