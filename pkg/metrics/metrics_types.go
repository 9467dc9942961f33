// Package metrics exposes Prometheus collectors for graph construction, collapsing and
// neighbour sampling.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics of the graph layer
type Registry struct {
	// Construction Metrics
	GraphsBuiltTotal   prometheus.Counter
	GraphBuildDuration prometheus.Histogram
	GraphNodes         prometheus.Histogram
	GraphEdges         prometheus.Histogram

	// Collapse Metrics
	CollapsesTotal    prometheus.Counter
	CollapseDuration  prometheus.Histogram
	CollapseReduction prometheus.Histogram

	// Sampler Metrics
	SamplerTablesBuilt     prometheus.Counter
	SamplerDrawsTotal      *prometheus.CounterVec
	SamplerErrorsTotal     *prometheus.CounterVec
	SamplerPrebuildSeconds prometheus.Histogram

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initGraphMetrics()
	r.initCollapseMetrics()
	r.initSamplerMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
