package graph

import (
	"cmp"
	"slices"
	"time"

	"github.com/dd0wney/cluso-leiden/pkg/logging"
)

// communityPair keys an aggregated edge between two distinct communities.
// For undirected graphs a < b.
type communityPair struct {
	a, b int
}

// Collapse returns a new graph whose nodes are the communities of membership.
//
// membership maps every node to a community id and must be dense over [0, k); use
// graphutil.RenumberMembership to relabel arbitrary ids. In the returned graph:
//   - node c has the summed size of its members,
//   - every pair of distinct communities joined by at least one edge gets one edge whose
//     weight is the summed weight of those edges (per ordered pair if directed),
//   - the self-weight of c is the weight of all edges inside c, loops included, plus the
//     explicitly supplied self-weights of its members.
//
// Total weight, total size, density and the summed strength of every community are
// preserved. Loops always end up in a self-weight, so under the uncorrected policy even
// the identity partition changes a graph with loops: the loop edges disappear, the
// self-weight of their node grows by the loop weight and Degree(v, All) drops by 2 per
// loop.
//
// The result has the same directedness, self-loop policy, random source, logger and
// metrics, and is independent of g, which is not modified.
func (g *Graph) Collapse(membership []int) (*Graph, error) {
	start := time.Now()

	k, err := g.checkMembership(membership)
	if err != nil {
		return nil, err
	}

	sizes := make([]int, k)
	selfWeights := make([]float64, k)
	for v, c := range membership {
		sizes[c] += g.nodeSizes[v]
	}
	extra := g.policy.ExtraMass(g.nodeSelfWeights, g.explicitSelfWeights)
	for v, x := range extra {
		selfWeights[membership[v]] += x
	}

	crossing := make(map[communityPair]float64)
	for e, edge := range g.edges {
		cs, ct := membership[edge.Source], membership[edge.Target]
		w := g.edgeWeights[e]
		if cs == ct {
			selfWeights[cs] += w
			continue
		}
		if !g.directed && cs > ct {
			cs, ct = ct, cs
		}
		crossing[communityPair{a: cs, b: ct}] += w
	}

	pairs := make([]communityPair, 0, len(crossing))
	for p := range crossing {
		pairs = append(pairs, p)
	}
	slices.SortFunc(pairs, func(x, y communityPair) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})

	edges := make([]Edge, len(pairs))
	weights := make([]float64, len(pairs))
	for i, p := range pairs {
		edges[i] = Edge{Source: p.a, Target: p.b}
		weights[i] = crossing[p]
	}

	collapsed, err := New(k, edges, g.directed,
		WithEdgeWeights(weights),
		WithNodeSizes(sizes),
		WithNodeSelfWeights(selfWeights),
		WithSelfLoopCorrection(g.policy.Corrected()),
		WithRandSource(g.src),
		WithLogger(g.logger),
		WithMetrics(g.metrics),
		withParent(g),
	)
	if err != nil {
		return nil, NewError("Collapse").Entity("graph").Context("building collapsed graph").Cause(err).Err()
	}

	elapsed := time.Since(start)
	if g.metrics != nil {
		g.metrics.RecordCollapse(g.n, k, elapsed)
	}
	g.logger.Debug("graph collapsed",
		logging.GraphID(collapsed.id.String()),
		logging.String("parent_id", g.id.String()),
		logging.Depth(collapsed.depth),
		logging.Nodes(k),
		logging.Edges(len(edges)),
		logging.Int("from_nodes", g.n),
		logging.Latency(elapsed),
	)

	return collapsed, nil
}

// checkMembership verifies that membership labels every node with an id in [0, k) and
// that no id in that range is unused. Returns k.
func (g *Graph) checkMembership(membership []int) (int, error) {
	if len(membership) != g.n {
		return 0, NewError("Collapse").Entity("membership").
			Context("got %d entries, want %d", len(membership), g.n).
			Cause(ErrInvalidPartition).Err()
	}

	k := 0
	for v, c := range membership {
		// A dense labelling of n nodes never uses an id >= n
		if c < 0 || c >= len(membership) {
			return 0, NewError("Collapse").Node(v).Context("community %d", c).Cause(ErrInvalidPartition).Err()
		}
		if c+1 > k {
			k = c + 1
		}
	}

	used := make([]bool, k)
	for _, c := range membership {
		used[c] = true
	}
	for c, ok := range used {
		if !ok {
			return 0, NewError("Collapse").Entity("membership").
				Context("community %d of %d is empty", c, k).
				Cause(ErrInvalidPartition).Err()
		}
	}

	return k, nil
}
