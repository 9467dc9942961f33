package graph

// NeighbourEdge pairs a neighbour with the edge that reaches it
type NeighbourEdge struct {
	Neighbour int
	Edge      int
}

// incident returns the adjacency list of v for mode. The returned slice is shared and
// must not be modified.
func (g *Graph) incident(op string, v int, mode Mode) ([]incidence, error) {
	switch mode {
	case Out:
		return g.outAdj[v], nil
	case In:
		return g.inAdj[v], nil
	case All:
		return g.allAdj[v], nil
	default:
		return nil, invalidModeError(op, v, mode)
	}
}

// Neighbours returns the neighbours of v in the given direction, one entry per incident
// edge. A self-loop lists v once, also on undirected graphs where it counts twice towards
// strength. O(deg(v)).
func (g *Graph) Neighbours(v int, mode Mode) ([]int, error) {
	adj, err := g.incident("Neighbours", v, mode)
	if err != nil {
		return nil, err
	}
	nbrs := make([]int, len(adj))
	for i, inc := range adj {
		nbrs[i] = inc.neighbour
	}
	return nbrs, nil
}

// NeighbourEdges returns (neighbour, edge) pairs for the edges of v in the given
// direction. Like Neighbours it holds one pair per self-loop. O(deg(v)).
func (g *Graph) NeighbourEdges(v int, mode Mode) ([]NeighbourEdge, error) {
	adj, err := g.incident("NeighbourEdges", v, mode)
	if err != nil {
		return nil, err
	}
	pairs := make([]NeighbourEdge, len(adj))
	for i, inc := range adj {
		pairs[i] = NeighbourEdge{Neighbour: inc.neighbour, Edge: inc.edge}
	}
	return pairs, nil
}

// WeightToFromCommunity sums the weight of the edges between v and the nodes of
// community comm, following edges of v in the given direction. membership maps every
// node to its community.
func (g *Graph) WeightToFromCommunity(v, comm int, membership []int, mode Mode) (float64, error) {
	if len(membership) != g.n {
		return 0, NewError("WeightToFromCommunity").Entity("membership").
			Context("got %d entries, want %d", len(membership), g.n).
			Cause(ErrInvalidPartition).Err()
	}
	adj, err := g.incident("WeightToFromCommunity", v, mode)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, inc := range adj {
		if membership[inc.neighbour] == comm {
			total += g.edgeWeights[inc.edge]
		}
	}
	return total, nil
}

// RandomNeighbour draws a neighbour of v uniformly over its incident edges in the given
// direction. A self-loop is one of those edges. Keeps no state between calls.
func (g *Graph) RandomNeighbour(v int, mode Mode) (int, error) {
	adj, err := g.incident("RandomNeighbour", v, mode)
	if err != nil {
		return 0, err
	}
	if len(adj) == 0 {
		g.recordSamplerError("empty")
		return 0, NewError("RandomNeighbour").Node(v).Context("mode %s", mode).Cause(ErrEmptyNeighbourhood).Err()
	}
	if g.metrics != nil {
		g.metrics.RecordSamplerDraw("uniform")
	}
	return adj[g.rng.IntN(len(adj))].neighbour, nil
}

// RandomNode draws a node uniformly. Panics on an empty graph.
func (g *Graph) RandomNode() int {
	return g.RandomInt(0, g.n-1)
}

// RandomInt draws an integer uniformly from the closed range [from, to].
// Panics if to < from.
func (g *Graph) RandomInt(from, to int) int {
	return from + g.rng.IntN(to-from+1)
}

func (g *Graph) recordSamplerError(reason string) {
	if g.metrics != nil {
		g.metrics.RecordSamplerError(reason)
	}
}
