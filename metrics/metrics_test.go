package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.RunsTotal == nil {
		t.Error("RunsTotal not initialized")
	}
	if r.IterationsPerRun == nil {
		t.Error("IterationsPerRun not initialized")
	}
	if r.TimeToStability == nil {
		t.Error("TimeToStability not initialized")
	}
	if r.ComponentsUpdated == nil {
		t.Error("ComponentsUpdated not initialized")
	}
	if r.PeakDirtyVNETs == nil {
		t.Error("PeakDirtyVNETs not initialized")
	}
	if r.Warnings == nil {
		t.Error("Warnings not initialized")
	}
	if r.ActiveEngines == nil {
		t.Error("ActiveEngines not initialized")
	}
	if r.Gatherer() == nil {
		t.Error("Gatherer() must expose the underlying registry")
	}
}

func TestNewRegistry_independentInstances(t *testing.T) {
	// Two registries must be able to coexist without colliding on metric
	// names registered against the Prometheus default registry.
	r1 := NewRegistry()
	r2 := NewRegistry()
	r1.RecordRun("stable", 3, time.Millisecond, 2, 1)
	r2.RecordRun("stable", 7, time.Millisecond, 4, 2)

	counter, err := r1.RunsTotal.GetMetricWithLabelValues("stable")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("r1's RunsTotal = %v, want 1 (r2's RecordRun must not leak into r1)", metric.Counter.GetValue())
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()
	r.RecordRun("stable", 12, 5*time.Millisecond, 8, 3)
	r.RecordRun("oscillation", 2000, time.Second, 500, 120)

	counter, err := r.RunsTotal.GetMetricWithLabelValues("stable")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("stable RunsTotal = %v, want 1", metric.Counter.GetValue())
	}

	oscCounter, err := r.RunsTotal.GetMetricWithLabelValues("oscillation")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var oscMetric dto.Metric
	if err := oscCounter.Write(&oscMetric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if oscMetric.Counter.GetValue() != 1 {
		t.Errorf("oscillation RunsTotal = %v, want 1", oscMetric.Counter.GetValue())
	}
}

func TestRecordWarning(t *testing.T) {
	r := NewRegistry()
	r.RecordWarning("high_fanout_link")
	r.RecordWarning("high_fanout_link")
	r.RecordWarning("component_fault")

	counter, err := r.Warnings.GetMetricWithLabelValues("high_fanout_link")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("high_fanout_link Warnings = %v, want 2", metric.Counter.GetValue())
	}
}

func TestEngineStartedStopped(t *testing.T) {
	r := NewRegistry()
	r.EngineStarted()
	r.EngineStarted()
	r.EngineStopped()

	var metric dto.Metric
	if err := r.ActiveEngines.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Gauge.GetValue() != 1 {
		t.Errorf("ActiveEngines = %v, want 1 (two starts, one stop)", metric.Gauge.GetValue())
	}
}
