package relaysim_test

import (
	"testing"

	relaysim "github.com/pjchick/Relay-Simulator"
)

func TestNewID_matchesValidIDPattern(t *testing.T) {
	for i := 0; i < 20; i++ {
		id := relaysim.NewID()
		if !relaysim.ValidID(string(id)) {
			t.Fatalf("NewID() = %q, does not match the required ^[0-9a-f]{8}$ pattern", id)
		}
	}
}

func TestValidID(t *testing.T) {
	data := []struct {
		id   string
		want bool
	}{
		{"0a1b2c3d", true},
		{"ffffffff", true},
		{"0A1B2C3D", false}, // must be lowercase
		{"0a1b2c3", false},  // too short
		{"0a1b2c3d4", false},
		{"", false},
	}
	for _, d := range data {
		if got := relaysim.ValidID(d.id); got != d.want {
			t.Errorf("ValidID(%q) = %v, want %v", d.id, got, d.want)
		}
	}
}

func TestIDSet_AddRejectsDuplicates(t *testing.T) {
	s := relaysim.NewIDSet()
	if !s.Add("0a1b2c3d") {
		t.Fatal("first Add of a fresh id must succeed")
	}
	if s.Add("0a1b2c3d") {
		t.Fatal("second Add of the same id must report a duplicate")
	}
	if !s.Has("0a1b2c3d") {
		t.Fatal("Has must report true for a registered id")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestCompositeID(t *testing.T) {
	got := relaysim.CompositeID("page0001", "comp0001", "pin00001")
	want := "page0001.comp0001.pin00001"
	if got != want {
		t.Errorf("CompositeID(...) = %q, want %q", got, want)
	}
	if got := relaysim.CompositeID("solo0001"); got != "solo0001" {
		t.Errorf("CompositeID(single) = %q, want solo0001", got)
	}
}
