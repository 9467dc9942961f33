package graph

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-leiden/pkg/logging"
	"github.com/dd0wney/cluso-leiden/pkg/metrics"
)

// Option configures graph construction
type Option func(*buildConfig)

type buildConfig struct {
	edgeWeights     []float64
	nodeSizes       []int
	nodeSelfWeights []float64
	correct         *bool
	parentID        uuid.UUID
	depth           int
	src             rand.Source
	logger          logging.Logger
	metrics         *metrics.Registry
}

// WithEdgeWeights sets one weight per edge. Without it every edge weighs 1.0 and the
// graph reports IsWeighted() == false.
func WithEdgeWeights(weights []float64) Option {
	return func(c *buildConfig) {
		c.edgeWeights = weights
	}
}

// WithNodeSizes sets one size (>= 1) per node. Defaults to 1.
func WithNodeSizes(sizes []int) Option {
	return func(c *buildConfig) {
		c.nodeSizes = sizes
	}
}

// WithNodeSelfWeights sets one self-weight per node. Without it self-weights are
// derived by the self-loop policy.
func WithNodeSelfWeights(selfWeights []float64) Option {
	return func(c *buildConfig) {
		c.nodeSelfWeights = selfWeights
	}
}

// WithSelfLoopCorrection fixes the self-loop policy. Without it the corrected policy is
// used exactly when the edge list contains a self-loop.
func WithSelfLoopCorrection(correct bool) Option {
	return func(c *buildConfig) {
		c.correct = &correct
	}
}

// WithRandSource sets the random source used for random node and neighbour selection.
// Access to the source is serialised by the graph.
func WithRandSource(src rand.Source) Option {
	return func(c *buildConfig) {
		c.src = src
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *buildConfig) {
		c.logger = logger
	}
}

// WithMetrics records construction, collapse and sampler metrics into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(c *buildConfig) {
		c.metrics = r
	}
}

// withParent marks the graph as collapsed from parent
func withParent(parent *Graph) Option {
	return func(c *buildConfig) {
		c.parentID = parent.id
		c.depth = parent.depth + 1
	}
}
