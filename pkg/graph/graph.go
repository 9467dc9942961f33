package graph

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-leiden/pkg/graphutil"
	"github.com/dd0wney/cluso-leiden/pkg/logging"
)

// New builds a graph with n nodes from an edge list.
//
// Unsupplied attributes are defaulted: every edge weighs 1.0, every node has size 1,
// and self-weights are derived by the self-loop policy. When WithSelfLoopCorrection is
// not given, the corrected policy is chosen exactly when the edge list has a self-loop.
//
// All aggregates (degrees, strengths, totals, density) are computed here in a single
// pass over the edges. On error no graph is returned.
func New(n int, edges []Edge, directed bool, opts ...Option) (*Graph, error) {
	start := time.Now()

	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNopLogger()
	}

	if err := validateInput(n, edges, &cfg); err != nil {
		return nil, err
	}

	g := &Graph{
		id:       uuid.New(),
		parentID: cfg.parentID,
		depth:    cfg.depth,
		n:        n,
		edges:    make([]Edge, len(edges)),
		directed: directed,
		weighted: cfg.edgeWeights != nil,
		src:      newLockedSource(cfg.src),
		logger:   cfg.logger,
		metrics:  cfg.metrics,
	}
	copy(g.edges, edges)
	g.rng = rand.New(g.src)

	for _, edge := range g.edges {
		if edge.IsLoop() {
			g.hasLoops = true
			break
		}
	}

	if cfg.correct != nil {
		g.policy = PolicyFor(*cfg.correct)
	} else {
		g.policy = PolicyFor(g.hasLoops)
	}

	g.setEdgeWeights(cfg.edgeWeights)
	g.setNodeSizes(cfg.nodeSizes)
	g.setSelfWeights(cfg.nodeSelfWeights)
	g.initAggregates()

	g.samplersAll = make([]samplerSlot, n)
	if directed {
		g.samplersOut = make([]samplerSlot, n)
		g.samplersIn = make([]samplerSlot, n)
	}

	elapsed := time.Since(start)
	if g.metrics != nil {
		g.metrics.RecordGraphBuild(n, len(edges), elapsed)
	}
	g.logger.Debug("graph built",
		logging.GraphID(g.id.String()),
		logging.Nodes(n),
		logging.Edges(len(edges)),
		logging.Bool("directed", directed),
		logging.String("self_loops", g.policy.String()),
		logging.Float64("total_weight", g.totalWeight),
		logging.Latency(elapsed),
	)

	return g, nil
}

// validateInput checks index ranges and attribute lengths before anything is allocated
func validateInput(n int, edges []Edge, cfg *buildConfig) error {
	if n < 0 {
		return NewError("New").Entity("graph").Context("node count %d", n).Cause(ErrInvalidAttribute).Err()
	}

	for e, edge := range edges {
		if edge.Source < 0 || edge.Source >= n || edge.Target < 0 || edge.Target >= n {
			return NewError("New").Edge(e).
				Context("endpoints (%d, %d) with %d nodes", edge.Source, edge.Target, n).
				Cause(ErrNodeOutOfRange).Err()
		}
	}

	if cfg.edgeWeights != nil {
		if len(cfg.edgeWeights) != len(edges) {
			return NewError("New").Entity("edge weights").
				Context("got %d, want %d", len(cfg.edgeWeights), len(edges)).
				Cause(ErrAttributeLength).Err()
		}
		for e, w := range cfg.edgeWeights {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return NewError("New").Edge(e).Context("weight %v", w).Cause(ErrInvalidAttribute).Err()
			}
		}
	}

	if cfg.nodeSizes != nil {
		if len(cfg.nodeSizes) != n {
			return NewError("New").Entity("node sizes").
				Context("got %d, want %d", len(cfg.nodeSizes), n).
				Cause(ErrAttributeLength).Err()
		}
		for v, size := range cfg.nodeSizes {
			if size < 1 {
				return NewError("New").Node(v).Context("size %d", size).Cause(ErrInvalidAttribute).Err()
			}
		}
	}

	if cfg.nodeSelfWeights != nil {
		if len(cfg.nodeSelfWeights) != n {
			return NewError("New").Entity("node self weights").
				Context("got %d, want %d", len(cfg.nodeSelfWeights), n).
				Cause(ErrAttributeLength).Err()
		}
		for v, w := range cfg.nodeSelfWeights {
			if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
				return NewError("New").Node(v).Context("self weight %v", w).Cause(ErrInvalidAttribute).Err()
			}
		}
	}

	return nil
}

func (g *Graph) setEdgeWeights(weights []float64) {
	g.edgeWeights = make([]float64, len(g.edges))
	if weights != nil {
		copy(g.edgeWeights, weights)
		return
	}
	for e := range g.edgeWeights {
		g.edgeWeights[e] = 1.0
	}
}

func (g *Graph) setNodeSizes(sizes []int) {
	g.nodeSizes = make([]int, g.n)
	if sizes != nil {
		copy(g.nodeSizes, sizes)
		return
	}
	for v := range g.nodeSizes {
		g.nodeSizes[v] = 1
	}
}

func (g *Graph) setSelfWeights(selfWeights []float64) {
	if selfWeights != nil {
		g.nodeSelfWeights = make([]float64, g.n)
		copy(g.nodeSelfWeights, selfWeights)
		g.explicitSelfWeights = true
		return
	}
	g.nodeSelfWeights = g.policy.DeriveSelfWeights(g.n, g.edges, g.edgeWeights)
}

// initAggregates builds adjacency, degree and strength tables and the graph totals.
//
// Directed: a loop adds its weight once to the in- and once to the out-strength.
// Undirected: a loop adds twice its weight to the node strength, so that the strengths
// always sum to twice the total weight.
func (g *Graph) initAggregates() {
	n := g.n
	loopDegree := g.policy.LoopDegree()

	g.allAdj = make([][]incidence, n)
	g.degreeAll = make([]int, n)
	g.strengthOut = make([]float64, n)

	if g.directed {
		g.outAdj = make([][]incidence, n)
		g.inAdj = make([][]incidence, n)
		g.degreeOut = make([]int, n)
		g.degreeIn = make([]int, n)
		g.strengthIn = make([]float64, n)
	} else {
		g.outAdj = g.allAdj
		g.inAdj = g.allAdj
		g.degreeOut = g.degreeAll
		g.degreeIn = g.degreeAll
		g.strengthIn = g.strengthOut
	}

	for e, edge := range g.edges {
		s, t := edge.Source, edge.Target
		w := g.edgeWeights[e]

		g.allAdj[s] = append(g.allAdj[s], incidence{edge: e, neighbour: t})
		if !edge.IsLoop() {
			g.allAdj[t] = append(g.allAdj[t], incidence{edge: e, neighbour: s})
			g.degreeAll[s]++
			g.degreeAll[t]++
		} else {
			g.degreeAll[s] += loopDegree
		}

		if g.directed {
			g.outAdj[s] = append(g.outAdj[s], incidence{edge: e, neighbour: t})
			g.inAdj[t] = append(g.inAdj[t], incidence{edge: e, neighbour: s})
			g.degreeOut[s]++
			g.degreeIn[t]++
			g.strengthOut[s] += w
			g.strengthIn[t] += w
		} else {
			g.strengthOut[s] += w
			g.strengthOut[t] += w
		}
	}

	extra := g.policy.ExtraMass(g.nodeSelfWeights, g.explicitSelfWeights)
	for v, x := range extra {
		if g.directed {
			g.strengthOut[v] += x
			g.strengthIn[v] += x
		} else {
			g.strengthOut[v] += 2 * x
		}
	}

	g.totalWeight = graphutil.Sum(g.edgeWeights) + graphutil.Sum(extra)
	g.totalSize = graphutil.Sum(g.nodeSizes)
	g.totalSelfWeight = graphutil.Sum(g.nodeSelfWeights)
	g.density = g.policy.Density(g.totalWeight, g.totalSize, g.directed)
}

// Degree returns the number of incident edges of v in the given direction.
// On undirected graphs every mode counts all incident edges.
func (g *Graph) Degree(v int, mode Mode) (int, error) {
	switch mode {
	case In:
		return g.degreeIn[v], nil
	case Out:
		return g.degreeOut[v], nil
	case All:
		return g.degreeAll[v], nil
	default:
		return 0, invalidModeError("Degree", v, mode)
	}
}

// Strength returns the summed incident edge weight of v in the given direction.
//
// Only in- and out-strength are tracked, so All is rejected. On undirected graphs both
// return the same value.
func (g *Graph) Strength(v int, mode Mode) (float64, error) {
	switch mode {
	case In:
		return g.strengthIn[v], nil
	case Out:
		return g.strengthOut[v], nil
	default:
		return 0, invalidModeError("Strength", v, mode)
	}
}
