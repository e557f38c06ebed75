package relaysim

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ID is an 8-character lowercase hex identifier, unique document-wide across
// every entity kind (Tab, Pin, Component, Wire, Junction, Waypoint, Page,
// VNET, Bridge). It is always the first 8 characters of a UUIDv4.
type ID string

var idPattern = regexp.MustCompile(`^[0-9a-f]{8}$`)

// ValidID reports whether s matches the identifier pattern required by the
// file format: ^[0-9a-f]{8}$.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}

// NewID generates a fresh identifier from a random UUIDv4, matching the
// original engine's `str(uuid.uuid4())[:8]` convention (core/bridge.py,
// core/id_manager.py).
func NewID() ID {
	return ID(strings.ToLower(uuid.NewString()[:8]))
}

// IDSet tracks identifier uniqueness across a Document. Any entity id
// collision anywhere in the document is a StructuralError.
type IDSet struct {
	seen map[ID]struct{}
}

// NewIDSet returns an empty IDSet.
func NewIDSet() *IDSet {
	return &IDSet{seen: make(map[ID]struct{})}
}

// Add registers id, returning false if it was already present.
func (s *IDSet) Add(id ID) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	return true
}

// Has reports whether id has already been registered.
func (s *IDSet) Has(id ID) bool {
	_, ok := s.seen[id]
	return ok
}

// Len returns the number of distinct identifiers seen.
func (s *IDSet) Len() int {
	return len(s.seen)
}

// CompositeID builds the dot-separated hierarchical identifier
// "page.component.pin.tab" used for diagnostics and lookup. It is built on
// demand and never stored.
func CompositeID(parts ...ID) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(string(p))
	}
	return b.String()
}
