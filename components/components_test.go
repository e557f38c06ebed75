package components_test

import (
	"testing"

	"github.com/pjchick/Relay-Simulator"
	"github.com/pjchick/Relay-Simulator/components"
)

// fakeNet is a minimal relaysim.NetView double that records driven pin
// states and the run-loop tick a test wants to simulate, without needing a
// full Engine/Document/VNET graph.
type fakeNet struct {
	driven map[relaysim.ID]relaysim.State
	net    map[relaysim.ID]relaysim.State
	tick   uint64
	woken  map[relaysim.ID]bool
}

func newFakeNet() *fakeNet {
	return &fakeNet{
		driven: make(map[relaysim.ID]relaysim.State),
		net:    make(map[relaysim.ID]relaysim.State),
		woken:  make(map[relaysim.ID]bool),
	}
}

func (f *fakeNet) PinState(pin relaysim.ID) relaysim.State { return f.driven[pin] }
func (f *fakeNet) NetState(pin relaysim.ID) relaysim.State { return f.net[pin] }
func (f *fakeNet) SetPinState(pin relaysim.ID, s relaysim.State) {
	f.driven[pin] = s
	f.net[pin] = s
}
func (f *fakeNet) Tick() uint64        { return f.tick }
func (f *fakeNet) Wake(pin relaysim.ID) { f.woken[pin] = true }

// fakeBridges is a relaysim.BridgeOps double tracking create/move/destroy
// calls without an actual VNET graph backing them.
type fakeBridges struct {
	vnetFor   map[relaysim.ID]relaysim.ID
	created   []relaysim.ID
	destroyed []relaysim.ID
}

func newFakeBridges() *fakeBridges {
	return &fakeBridges{vnetFor: make(map[relaysim.ID]relaysim.ID)}
}

func (b *fakeBridges) CreateBridge(vnetA, vnetB, owner relaysim.ID) relaysim.ID {
	id := relaysim.ID("br000001")
	b.created = append(b.created, id)
	return id
}
func (b *fakeBridges) MoveBridge(bridge, oldEndpoint, newEndpoint relaysim.ID) {}
func (b *fakeBridges) DestroyBridge(bridge relaysim.ID) {
	b.destroyed = append(b.destroyed, bridge)
}
func (b *fakeBridges) VNetForPin(pin relaysim.ID) relaysim.ID { return b.vnetFor[pin] }

func mustStart(t *testing.T, c relaysim.Component, net relaysim.NetView, bridges relaysim.BridgeOps) {
	t.Helper()
	if err := c.OnStart(net, bridges); err != nil {
		t.Fatalf("OnStart: %v", err)
	}
}

func TestSwitch_defaultsFloatAndToggles(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	sw := components.NewSwitch("c0000001", "p0000001")
	mustStart(t, sw, net, bridges)

	if err := sw.Evaluate(net, bridges); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := net.PinState(sw.Pin); got != relaysim.Float {
		t.Errorf("pin state after start = %v, want FLOAT", got)
	}

	if err := sw.Interact("toggle", nil); err != nil {
		t.Fatalf("Interact: %v", err)
	}
	if !sw.IsOn() {
		t.Fatal("expected switch on after toggle")
	}
	if err := sw.Evaluate(net, bridges); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got := net.PinState(sw.Pin); got != relaysim.High {
		t.Errorf("pin state after toggle = %v, want HIGH", got)
	}
}

func TestSwitch_pushbuttonPressRelease(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	sw := components.NewSwitch("c0000001", "p0000001")
	sw.Mode = components.ModePushbutton
	mustStart(t, sw, net, bridges)

	if err := sw.Interact("press", nil); err != nil {
		t.Fatal(err)
	}
	if !sw.IsOn() {
		t.Fatal("expected on after press")
	}
	if err := sw.Interact("release", nil); err != nil {
		t.Fatal(err)
	}
	if sw.IsOn() {
		t.Fatal("expected off after release")
	}
}

func TestSwitch_evaluateBeforeStartFails(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	sw := components.NewSwitch("c0000001", "p0000001")
	if err := sw.Evaluate(net, bridges); err == nil {
		t.Fatal("expected InvalidStateError evaluating before OnStart")
	}
}

func TestIndicator_readsNetStateNotOwnPin(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	ind := components.NewIndicator("c0000002", "p0000002")
	mustStart(t, ind, net, bridges)

	net.net[ind.Pin] = relaysim.High // some other source drives the VNET
	if err := ind.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}
	if !ind.Lit() {
		t.Fatal("expected indicator lit once its net is HIGH")
	}
	// Indicator must never drive its own pin.
	if got := net.PinState(ind.Pin); got != relaysim.Float {
		t.Errorf("indicator drove its pin to %v, want FLOAT (it only reads)", got)
	}
}

func TestVcc_alwaysHighAfterStart(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	v := components.NewVcc("c0000003", "p0000003")
	mustStart(t, v, net, bridges)
	if got := net.PinState(v.Pin); got != relaysim.High {
		t.Errorf("Vcc pin after OnStart = %v, want HIGH", got)
	}
	if err := v.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}
	if got := net.PinState(v.Pin); got != relaysim.High {
		t.Errorf("Vcc pin after Evaluate = %v, want HIGH", got)
	}
}

func TestLink_carriesNameAndNeverDrives(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	l := components.NewLink("c0000004", "p0000004", "NET_A")
	if l.LinkName != "NET_A" {
		t.Fatalf("LinkName = %q, want NET_A", l.LinkName)
	}
	mustStart(t, l, net, bridges)
	if err := l.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}
	if got := net.PinState(l.Pin); got != relaysim.Float {
		t.Errorf("Link drove its pin to %v, want FLOAT", got)
	}
}

func TestDPDTRelay_switchesAfterDelayAndWakesMeanwhile(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	r := components.NewDPDTRelay("c0000005", "coil0001", "com10001", "no100001", "nc100001", "com20001", "no200001", "nc200001")
	r.DelayTicks = 5
	bridges.vnetFor["com10001"] = "v0000001"
	bridges.vnetFor["no100001"] = "v0000002"
	bridges.vnetFor["nc100001"] = "v0000003"
	bridges.vnetFor["com20001"] = "v0000004"
	bridges.vnetFor["no200001"] = "v0000005"
	bridges.vnetFor["nc200001"] = "v0000006"

	mustStart(t, r, net, bridges)
	if r.Energized() {
		t.Fatal("relay must start de-energized")
	}

	net.net["coil0001"] = relaysim.High
	net.tick = 0
	if err := r.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}
	if r.Energized() {
		t.Fatal("relay must not energize before its switching delay elapses")
	}
	if !net.woken["coil0001"] {
		t.Fatal("relay must Wake its coil pin while a transition is pending")
	}

	net.tick = 5
	if err := r.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}
	if !r.Energized() {
		t.Fatal("relay must energize once the deadline tick is reached")
	}
}

func TestDPDTRelay_coilRevertingBeforeDeadlineCollapsesTransition(t *testing.T) {
	net, bridges := newFakeNet(), newFakeBridges()
	r := components.NewDPDTRelay("c0000005", "coil0001", "com10001", "no100001", "nc100001", "com20001", "no200001", "nc200001")
	r.DelayTicks = 10
	mustStart(t, r, net, bridges)

	net.net["coil0001"] = relaysim.High
	net.tick = 0
	if err := r.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}

	// Coil drops back to FLOAT before the 10-tick deadline: the pending
	// energize must collapse rather than still fire later.
	net.net["coil0001"] = relaysim.Float
	net.tick = 3
	if err := r.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}

	net.tick = 20
	if err := r.Evaluate(net, bridges); err != nil {
		t.Fatal(err)
	}
	if r.Energized() {
		t.Fatal("collapsed transition must never energize the relay")
	}
}

func TestSubCircuitInstance_pinLinksRoundTripThroughClone(t *testing.T) {
	pins := []relaysim.ID{"p0000001", "p0000002"}
	links := map[relaysim.ID]string{
		"p0000001": "__sub_0001_a",
		"p0000002": "__sub_0001_b",
	}
	inst := components.NewSubCircuitInstance("c0000006", "def00001", pins, links)

	newPins := []relaysim.ID{"p1000001", "p1000002"}
	cloned := inst.Clone("c1000006", newPins).(*components.SubCircuitInstance)

	if cloned.DefinitionID != "def00001" {
		t.Fatalf("DefinitionID not preserved across Clone")
	}
	if got := cloned.PinLinkNames["p1000001"]; got != "__sub_0001_a" {
		t.Errorf("PinLinkNames[newPin0] = %q, want __sub_0001_a", got)
	}
	if got := cloned.PinLinkNames["p1000002"]; got != "__sub_0001_b" {
		t.Errorf("PinLinkNames[newPin1] = %q, want __sub_0001_b", got)
	}
}

func TestConstruct_rejectsWrongPinCount(t *testing.T) {
	_, err := components.Construct(components.KindDPDTRelay, "c0000007", []relaysim.ID{"p0000001"})
	if err == nil {
		t.Fatal("expected an error constructing a DPDTRelay with only one pin")
	}
}

func TestConstruct_unknownKind(t *testing.T) {
	_, err := components.Construct("Transistor", "c0000008", nil)
	if err == nil {
		t.Fatal("expected an error for an unrecognized component kind")
	}
}
