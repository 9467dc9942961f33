package graph

import (
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dd0wney/cluso-leiden/pkg/logging"
	"github.com/dd0wney/cluso-leiden/pkg/metrics"
)

// Mode selects which incident edges of a node are considered
type Mode int

const (
	// Out follows edges from source to target
	Out Mode = iota + 1
	// In follows edges from target to source
	In
	// All follows edges in both directions
	All
)

// String returns the string representation of a mode
func (m Mode) String() string {
	switch m {
	case Out:
		return "out"
	case In:
		return "in"
	case All:
		return "all"
	default:
		return "invalid"
	}
}

// Valid reports whether m is one of Out, In or All
func (m Mode) Valid() bool {
	return m == Out || m == In || m == All
}

// Edge is an ordered (source, target) pair. Source == Target is a self-loop.
type Edge struct {
	Source int
	Target int
}

// IsLoop reports whether the edge starts and ends at the same node
func (e Edge) IsLoop() bool {
	return e.Source == e.Target
}

// incidence is one entry of a node's adjacency: the edge index and the node on the other end
type incidence struct {
	edge      int
	neighbour int
}

// samplerSlot holds a lazily built sampling table for one node and direction
type samplerSlot struct {
	once sync.Once
	dist *distuv.Categorical
	nbrs []int
	err  error
}

// Graph is an immutable weighted graph with eagerly computed aggregates.
//
// Nodes carry an integer size and a self-weight, edges carry a weight. All
// aggregates are computed by New; only the per-node sampling tables used by
// WeightedRandomNeighbour are built later, on first use.
type Graph struct {
	id       uuid.UUID
	parentID uuid.UUID
	depth    int

	n        int
	edges    []Edge
	directed bool
	weighted bool
	policy   SelfLoopPolicy
	hasLoops bool

	edgeWeights     []float64
	nodeSizes       []int
	nodeSelfWeights []float64
	// explicitSelfWeights is true when self-weights were supplied rather than derived from loops
	explicitSelfWeights bool

	// Adjacency, indexed by node
	outAdj [][]incidence
	inAdj  [][]incidence
	allAdj [][]incidence

	strengthIn  []float64
	strengthOut []float64
	degreeIn    []int
	degreeOut   []int
	degreeAll   []int

	totalWeight     float64
	totalSize       int
	totalSelfWeight float64
	density         float64

	// Sampling tables, one slice per direction. Undirected graphs only use samplersAll.
	samplersOut []samplerSlot
	samplersIn  []samplerSlot
	samplersAll []samplerSlot

	src     *lockedSource
	rng     *rand.Rand
	logger  logging.Logger
	metrics *metrics.Registry
}

// ID returns the identifier assigned to the graph at construction
func (g *Graph) ID() uuid.UUID { return g.id }

// ParentID returns the ID of the graph this one was collapsed from, or uuid.Nil
func (g *Graph) ParentID() uuid.UUID { return g.parentID }

// Depth returns the number of collapses between this graph and the graph built from an
// edge list, 0 for the latter
func (g *Graph) Depth() int { return g.depth }

// VCount returns the number of nodes
func (g *Graph) VCount() int { return g.n }

// ECount returns the number of edges
func (g *Graph) ECount() int { return len(g.edges) }

// IsDirected reports whether edges are directed
func (g *Graph) IsDirected() bool { return g.directed }

// IsWeighted reports whether edge weights were supplied at construction
func (g *Graph) IsWeighted() bool { return g.weighted }

// HasSelfLoops reports whether any edge has source == target
func (g *Graph) HasSelfLoops() bool { return g.hasLoops }

// CorrectSelfLoops reports whether the corrected self-loop policy is in effect
func (g *Graph) CorrectSelfLoops() bool { return g.policy.Corrected() }

// Policy returns the self-loop policy of the graph
func (g *Graph) Policy() SelfLoopPolicy { return g.policy }

// TotalWeight returns the total edge weight plus any explicitly supplied self-weight.
//
// Collapsing into a single community gives self_weight(0) == TotalWeight of the source.
// That equals TotalWeight + TotalSelfWeight only when the source has no self-weight, as
// derived self-weights are already part of the loop weights and explicit ones already
// part of TotalWeight.
func (g *Graph) TotalWeight() float64 { return g.totalWeight }

// TotalSize returns the sum of node sizes
func (g *Graph) TotalSize() int { return g.totalSize }

// TotalSelfWeight returns the sum of node self-weights
func (g *Graph) TotalSelfWeight() float64 { return g.totalSelfWeight }

// Density returns TotalWeight divided by the number of possible edges among TotalSize unit nodes
func (g *Graph) Density() float64 { return g.density }

// PossibleEdges returns the number of possible edges among VCount nodes
func (g *Graph) PossibleEdges() int {
	return g.PossibleEdgesN(g.n)
}

// PossibleEdgesN returns the number of possible edges among n nodes under the graph's
// directedness and self-loop policy
func (g *Graph) PossibleEdgesN(n int) int {
	return g.policy.PossibleEdges(n, g.directed)
}

// Edge returns the endpoints of edge e. Panics if e is out of range.
func (g *Graph) Edge(e int) Edge { return g.edges[e] }

// EdgeWeight returns the weight of edge e. Panics if e is out of range.
func (g *Graph) EdgeWeight(e int) float64 { return g.edgeWeights[e] }

// EdgeWeightChecked returns the weight of edge e, or ErrEdgeOutOfRange
func (g *Graph) EdgeWeightChecked(e int) (float64, error) {
	if e < 0 || e >= len(g.edgeWeights) {
		return 0, NewError("EdgeWeight").Edge(e).Cause(ErrEdgeOutOfRange).Err()
	}
	return g.edgeWeights[e], nil
}

// NodeSize returns the size of node v. Panics if v is out of range.
func (g *Graph) NodeSize(v int) int { return g.nodeSizes[v] }

// HasExplicitSelfWeights reports whether self-weights were supplied at construction
// rather than derived from self-loops
func (g *Graph) HasExplicitSelfWeights() bool { return g.explicitSelfWeights }

// NodeSelfWeight returns the self-weight of node v. Panics if v is out of range.
func (g *Graph) NodeSelfWeight(v int) float64 { return g.nodeSelfWeights[v] }
