package relaysim

import (
	"fmt"

	"github.com/pkg/errors"
)

// StructuralError reports a malformed document: a dangling reference (a wire
// pointing at a nonexistent tab), a duplicate identifier, a missing required
// field on load, or a malformed sub-circuit template. Building or starting a
// simulation refuses to proceed past a StructuralError.
type StructuralError struct {
	// Entity is the id of the offending entity, composite where useful
	// (e.g. "page.wire").
	Entity string
	cause   error
}

func (e *StructuralError) Error() string {
	if e.Entity == "" {
		return e.cause.Error()
	}
	return fmt.Sprintf("%s: %s", e.Entity, e.cause.Error())
}

func (e *StructuralError) Unwrap() error { return e.cause }

func newStructuralError(entity string, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Entity: entity, cause: errors.Errorf(format, args...)}
}

// ErrWrongPinCount reports a component deserialized with the wrong number
// of pins for its kind.
func ErrWrongPinCount(kind string, want, got int) *StructuralError {
	return newStructuralError(kind, "expects %d pins, got %d", want, got)
}

// ErrUnknownComponentKind reports a component "type" field the registry
// does not recognize.
func ErrUnknownComponentKind(kind string) *StructuralError {
	return newStructuralError(kind, "unknown component kind %q", kind)
}

// VersionIncompatibleError reports a document file whose major version does
// not match the engine's.
type VersionIncompatibleError struct {
	FileVersion   string
	EngineVersion string
}

func (e *VersionIncompatibleError) Error() string {
	return fmt.Sprintf("document version %s is incompatible with engine version %s", e.FileVersion, e.EngineVersion)
}

// InvalidStateError reports an API call made in the wrong lifecycle state:
// interact() before start(), a double start(), a component operation called
// out of sequence.
type InvalidStateError struct {
	Op       string
	State    string
	Expected string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid call to %s while in state %s (expected %s)", e.Op, e.State, e.Expected)
}

// OscillationError reports that the run loop reached the configured
// iteration cap (Config.MaxIterations) with VNETs still dirty; no check of
// whether the dirty set shrinks is made. VNETIDs names the VNETs that toggled
// most frequently, in descending toggle-count order.
type OscillationError struct {
	Iterations int
	VNETIDs    []ID
}

func (e *OscillationError) Error() string {
	return fmt.Sprintf("oscillation detected after %d iterations (offending vnets: %v)", e.Iterations, e.VNETIDs)
}

// TimeoutError reports that the run-loop watchdog fired.
type TimeoutError struct {
	Elapsed string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("simulation watchdog timed out after %s", e.Elapsed)
}

// IOError reports a document file read/write failure. It wraps the
// underlying I/O error.
type IOError struct {
	Path  string
	cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.cause.Error())
}

func (e *IOError) Unwrap() error { return e.cause }

func newIOError(path string, cause error) *IOError {
	return &IOError{Path: path, cause: cause}
}

// NewIOError wraps a read/write failure against path, for use by callers
// outside this package (persist.Load/Save).
func NewIOError(path string, cause error) *IOError {
	return newIOError(path, cause)
}

// WarningKind enumerates the non-fatal conditions the engine accumulates
// instead of aborting: unconnected and high-fanout links, isolated tabs,
// and errors returned by a component's OnStart or Evaluate. A panic inside
// a component is not recovered.
type WarningKind int

const (
	// WarnUnconnectedLink: a link name has exactly one member.
	WarnUnconnectedLink WarningKind = iota
	// WarnHighFanoutLink: a link name spans more than two pages.
	WarnHighFanoutLink
	// WarnIsolatedTab: a tab belongs to no wire and forms a singleton VNET.
	WarnIsolatedTab
	// WarnComponentFault: a component's evaluate raised and was treated as
	// a no-op for that iteration.
	WarnComponentFault
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnconnectedLink:
		return "unconnected-link"
	case WarnHighFanoutLink:
		return "high-fanout-link"
	case WarnIsolatedTab:
		return "isolated-tab"
	case WarnComponentFault:
		return "component-fault"
	default:
		return "unknown"
	}
}

// WarningCondition is a non-fatal condition recorded during build or run.
// The engine continues after emitting one; it never aborts the operation
// that produced it.
type WarningCondition struct {
	Kind    WarningKind
	Subject string // id or name the warning concerns
	Detail  string
}

func (w WarningCondition) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Kind, w.Subject, w.Detail)
}
