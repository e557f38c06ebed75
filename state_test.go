package relaysim_test

import (
	"testing"

	relaysim "github.com/pjchick/Relay-Simulator"
)

func TestCombine(t *testing.T) {
	data := []struct {
		a, b, want relaysim.State
	}{
		{relaysim.Float, relaysim.Float, relaysim.Float},
		{relaysim.Float, relaysim.High, relaysim.High},
		{relaysim.High, relaysim.Float, relaysim.High},
		{relaysim.High, relaysim.High, relaysim.High},
	}
	for _, d := range data {
		if got := relaysim.Combine(d.a, d.b); got != d.want {
			t.Errorf("Combine(%v, %v) = %v, want %v", d.a, d.b, got, d.want)
		}
	}
}

func TestCombineAll(t *testing.T) {
	if got := relaysim.CombineAll(); got != relaysim.Float {
		t.Errorf("CombineAll() = %v, want FLOAT", got)
	}
	if got := relaysim.CombineAll(relaysim.Float, relaysim.Float, relaysim.High); got != relaysim.High {
		t.Errorf("CombineAll(FLOAT, FLOAT, HIGH) = %v, want HIGH", got)
	}
}

func TestState_String(t *testing.T) {
	if relaysim.Float.String() != "FLOAT" {
		t.Errorf("Float.String() = %q, want FLOAT", relaysim.Float.String())
	}
	if relaysim.High.String() != "HIGH" {
		t.Errorf("High.String() = %q, want HIGH", relaysim.High.String())
	}
}
