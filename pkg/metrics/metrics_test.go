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

	if r.GraphsBuiltTotal == nil {
		t.Error("GraphsBuiltTotal not initialized")
	}
	if r.CollapsesTotal == nil {
		t.Error("CollapsesTotal not initialized")
	}
	if r.SamplerDrawsTotal == nil {
		t.Error("SamplerDrawsTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordGraphBuild(t *testing.T) {
	r := NewRegistry()

	r.RecordGraphBuild(100, 250, time.Millisecond)
	r.RecordGraphBuild(10, 20, time.Millisecond)

	var metric dto.Metric
	if err := r.GraphsBuiltTotal.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("GraphsBuiltTotal = %v, want 2", metric.Counter.GetValue())
	}

	var nodes dto.Metric
	if err := r.GraphNodes.Write(&nodes); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if nodes.Histogram.GetSampleSum() != 110 {
		t.Errorf("GraphNodes sum = %v, want 110", nodes.Histogram.GetSampleSum())
	}
}

func TestRecordCollapse(t *testing.T) {
	r := NewRegistry()

	r.RecordCollapse(10, 5, time.Millisecond)
	r.RecordCollapse(0, 0, time.Millisecond)

	var total dto.Metric
	if err := r.CollapsesTotal.Write(&total); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if total.Counter.GetValue() != 2 {
		t.Errorf("CollapsesTotal = %v, want 2", total.Counter.GetValue())
	}

	var ratio dto.Metric
	if err := r.CollapseReduction.Write(&ratio); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if ratio.Histogram.GetSampleCount() != 1 {
		t.Errorf("CollapseReduction count = %v, want 1 (empty graphs are skipped)", ratio.Histogram.GetSampleCount())
	}
	if ratio.Histogram.GetSampleSum() != 0.5 {
		t.Errorf("CollapseReduction sum = %v, want 0.5", ratio.Histogram.GetSampleSum())
	}
}

func TestRecordSampler(t *testing.T) {
	r := NewRegistry()

	r.RecordSamplerTableBuilt()
	r.RecordSamplerDraw("weighted")
	r.RecordSamplerDraw("weighted")
	r.RecordSamplerDraw("uniform")
	r.RecordSamplerError("empty")

	counter, err := r.SamplerDrawsTotal.GetMetricWithLabelValues("weighted")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("weighted draws = %v, want 2", metric.Counter.GetValue())
	}

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "leiden_sampler_errors_total" {
			found = true
		}
	}
	if !found {
		t.Error("leiden_sampler_errors_total not gathered")
	}
}
