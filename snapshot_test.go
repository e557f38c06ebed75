package relaysim_test

import (
	"testing"

	relaysim "github.com/pjchick/Relay-Simulator"
)

func TestEngine_snapshotRequiresStable(t *testing.T) {
	doc, _, _ := switchIndicatorDoc(t)
	e := relaysim.NewEngine(doc, relaysim.Config{})

	if _, err := e.Snapshot(); err == nil {
		t.Fatal("Snapshot before Start must fail with InvalidStateError")
	}

	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	snap, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot once stable: %v", err)
	}
	if len(snap.Components) != 2 {
		t.Fatalf("len(Components) = %d, want 2 (switch + indicator)", len(snap.Components))
	}
	if len(snap.VNETs) == 0 {
		t.Fatal("snapshot must report at least one VNET for the switch-indicator wire")
	}
}

func TestEngine_snapshotReflectsCommittedState(t *testing.T) {
	doc, sw, _ := switchIndicatorDoc(t)
	e := relaysim.NewEngine(doc, relaysim.Config{})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	before, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for _, v := range before.VNETs {
		if v.State == relaysim.High {
			t.Fatal("no VNET should be High before the switch is toggled on")
		}
	}

	if err := e.Interact(sw.ID(), "toggle", nil); err != nil {
		t.Fatalf("Interact: %v", err)
	}

	after, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	sawHigh := false
	for _, v := range after.VNETs {
		if v.State == relaysim.High {
			sawHigh = true
		}
	}
	if !sawHigh {
		t.Fatal("at least one VNET must read High once the switch is toggled on")
	}
}

func TestEngine_snapshotVNETsSortedByID(t *testing.T) {
	doc, _, _ := switchIndicatorDoc(t)
	e := relaysim.NewEngine(doc, relaysim.Config{})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	snap, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	for i := 1; i < len(snap.VNETs); i++ {
		if snap.VNETs[i-1].ID >= snap.VNETs[i].ID {
			t.Fatalf("VNETs not sorted ascending by ID at index %d: %q >= %q",
				i, snap.VNETs[i-1].ID, snap.VNETs[i].ID)
		}
	}
	for _, v := range snap.VNETs {
		for i := 1; i < len(v.Members); i++ {
			if v.Members[i-1] >= v.Members[i] {
				t.Fatalf("VNET %q members not sorted ascending at index %d", v.ID, i)
			}
		}
	}
}

func TestComponentSnapshot_carriesPinStatesForEachOwnedPin(t *testing.T) {
	doc, sw, _ := switchIndicatorDoc(t)
	e := relaysim.NewEngine(doc, relaysim.Config{})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer e.Stop()

	snap, err := e.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	var found *relaysim.ComponentSnapshot
	for i := range snap.Components {
		if snap.Components[i].ID == sw.ID() {
			found = &snap.Components[i]
		}
	}
	if found == nil {
		t.Fatal("switch component missing from snapshot")
	}
	if len(found.PinStates) != len(sw.Pins()) {
		t.Fatalf("len(PinStates) = %d, want %d (one entry per owned pin)", len(found.PinStates), len(sw.Pins()))
	}
}
