package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var sizeBuckets = []float64{10, 100, 1000, 10000, 100000, 1000000}

func (r *Registry) initGraphMetrics() {
	r.GraphsBuiltTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "leiden_graphs_built_total",
			Help: "Total number of graphs constructed, collapsed graphs included",
		},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leiden_graph_build_duration_seconds",
			Help:    "Time spent computing graph aggregates",
			Buckets: prometheus.ExponentialBuckets(0.0001, 10, 7),
		},
	)

	r.GraphNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leiden_graph_nodes",
			Help:    "Number of nodes per constructed graph",
			Buckets: sizeBuckets,
		},
	)

	r.GraphEdges = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leiden_graph_edges",
			Help:    "Number of edges per constructed graph",
			Buckets: sizeBuckets,
		},
	)
}

func (r *Registry) initCollapseMetrics() {
	r.CollapsesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "leiden_collapses_total",
			Help: "Total number of graph collapses",
		},
	)

	r.CollapseDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leiden_collapse_duration_seconds",
			Help:    "Time spent collapsing a graph by a partition",
			Buckets: prometheus.ExponentialBuckets(0.0001, 10, 7),
		},
	)

	r.CollapseReduction = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leiden_collapse_node_ratio",
			Help:    "Collapsed node count divided by the node count of the source graph",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
		},
	)
}

func (r *Registry) initSamplerMetrics() {
	r.SamplerTablesBuilt = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "leiden_sampler_tables_built_total",
			Help: "Total number of weighted neighbour sampling tables built",
		},
	)

	r.SamplerDrawsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "leiden_sampler_draws_total",
			Help: "Total number of random neighbour draws",
		},
		[]string{"kind"},
	)

	r.SamplerErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "leiden_sampler_errors_total",
			Help: "Random neighbour selections that had nothing to select from",
		},
		[]string{"reason"},
	)

	r.SamplerPrebuildSeconds = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leiden_sampler_prebuild_duration_seconds",
			Help:    "Time spent building all sampling tables of a graph",
			Buckets: prometheus.ExponentialBuckets(0.001, 10, 6),
		},
	)
}
