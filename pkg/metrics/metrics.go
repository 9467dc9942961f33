package metrics

import (
	"time"
)

// RecordGraphBuild records the construction of a graph
func (r *Registry) RecordGraphBuild(nodes, edges int, duration time.Duration) {
	r.GraphsBuiltTotal.Inc()
	r.GraphBuildDuration.Observe(duration.Seconds())
	r.GraphNodes.Observe(float64(nodes))
	r.GraphEdges.Observe(float64(edges))
}

// RecordCollapse records a collapse from fromNodes nodes to toNodes communities
func (r *Registry) RecordCollapse(fromNodes, toNodes int, duration time.Duration) {
	r.CollapsesTotal.Inc()
	r.CollapseDuration.Observe(duration.Seconds())
	if fromNodes > 0 {
		r.CollapseReduction.Observe(float64(toNodes) / float64(fromNodes))
	}
}

// RecordSamplerTableBuilt counts one sampling table
func (r *Registry) RecordSamplerTableBuilt() {
	r.SamplerTablesBuilt.Inc()
}

// RecordSamplerDraw counts a neighbour draw of the given kind ("uniform" or "weighted")
func (r *Registry) RecordSamplerDraw(kind string) {
	r.SamplerDrawsTotal.WithLabelValues(kind).Inc()
}

// RecordSamplerError counts a failed selection
func (r *Registry) RecordSamplerError(reason string) {
	r.SamplerErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordSamplerPrebuild records the duration of an eager sampling table build
func (r *Registry) RecordSamplerPrebuild(duration time.Duration) {
	r.SamplerPrebuildSeconds.Observe(duration.Seconds())
}
