package components

import "github.com/pjchick/Relay-Simulator"

// Kind is the discriminator string stored in a document file for each
// component's "type" field, matching the original's component_type
// class attribute convention.
const (
	KindSwitch             = "Switch"
	KindIndicator          = "Indicator"
	KindVcc                = "Vcc"
	KindDPDTRelay          = "DPDTRelay"
	KindLink               = "Link"
	KindSubCircuitInstance = "SubCircuitInstance"
)

// PinSpec is the minimal per-pin shape the registry needs to construct a
// component: a stable pin id and, for a fresh (non-persisted) pin, how many
// tabs it should own. Deserialization callers already have concrete pin ids
// decoded from the file and pass them straight through.
type PinSpec struct {
	ID   relaysim.ID
	Tabs []relaysim.ID
}

// Construct builds a new, empty component of the named kind, wired to the
// given pin ids in the fixed order each type expects (a single pin for
// Switch/Indicator/Vcc/Link, seven for DPDTRelay: coil, com1, no1, nc1,
// com2, no2, nc2). It does not create Pin/Tab records — those are expected
// to already exist in the destination Document's arenas (persist.Load
// decodes them first), so Construct only needs the ids.
//
// This mirrors the NewPartFn convention (hwsim.go's Part/NewPart: a name
// string dispatches to a constructor), adapted from a closure factory to a
// lookup table since component kinds here are a small fixed enum rather
// than a user-extensible part library.
func Construct(kind string, id relaysim.ID, pins []relaysim.ID) (relaysim.Component, error) {
	switch kind {
	case KindSwitch:
		if len(pins) != 1 {
			return nil, relaysim.ErrWrongPinCount(kind, 1, len(pins))
		}
		return NewSwitch(id, pins[0]), nil
	case KindIndicator:
		if len(pins) != 1 {
			return nil, relaysim.ErrWrongPinCount(kind, 1, len(pins))
		}
		return NewIndicator(id, pins[0]), nil
	case KindVcc:
		if len(pins) != 1 {
			return nil, relaysim.ErrWrongPinCount(kind, 1, len(pins))
		}
		return NewVcc(id, pins[0]), nil
	case KindLink:
		if len(pins) != 1 {
			return nil, relaysim.ErrWrongPinCount(kind, 1, len(pins))
		}
		return NewLink(id, pins[0], ""), nil
	case KindDPDTRelay:
		if len(pins) != 7 {
			return nil, relaysim.ErrWrongPinCount(kind, 7, len(pins))
		}
		return NewDPDTRelay(id, pins[0], pins[1], pins[2], pins[3], pins[4], pins[5], pins[6]), nil
	case KindSubCircuitInstance:
		pinLinkNames := make(map[relaysim.ID]string, len(pins))
		return NewSubCircuitInstance(id, "", pins, pinLinkNames), nil
	default:
		return nil, relaysim.ErrUnknownComponentKind(kind)
	}
}
