package graph

// SelfLoopPolicy decides how self-loops enter size, weight and possible-edge bookkeeping.
//
// Under the uncorrected policy a self-loop is an ordinary edge: its weight counts once
// toward the total weight and node self-weights default to zero. Under the corrected
// policy the loop weight becomes the node's self-weight, a loop counts once toward its
// node's degree, and the diagonal is included in the number of possible edges.
//
// Self-weights derived from loops are a view of those loops, so they are never counted a
// second time. Explicitly supplied self-weights are extra mass on top of the edges.
type SelfLoopPolicy struct {
	corrected bool
}

var (
	// Uncorrected treats self-loops as ordinary edges
	Uncorrected = SelfLoopPolicy{corrected: false}
	// Corrected folds self-loops into the node self-weight
	Corrected = SelfLoopPolicy{corrected: true}
)

// PolicyFor returns Corrected when correct is true
func PolicyFor(correct bool) SelfLoopPolicy {
	if correct {
		return Corrected
	}
	return Uncorrected
}

// Corrected reports whether this is the corrected policy
func (p SelfLoopPolicy) Corrected() bool {
	return p.corrected
}

// String returns the policy name
func (p SelfLoopPolicy) String() string {
	if p.corrected {
		return "corrected"
	}
	return "uncorrected"
}

// PossibleEdges returns n(n-1) for directed graphs and n(n-1)/2 for undirected graphs,
// plus n diagonal slots under the corrected policy.
func (p SelfLoopPolicy) PossibleEdges(n int, directed bool) int {
	possible := n * (n - 1)
	if !directed {
		possible /= 2
	}
	if p.corrected {
		possible += n
	}
	return possible
}

// LoopDegree returns how many times a self-loop counts toward degree(v, All).
func (p SelfLoopPolicy) LoopDegree() int {
	if p.corrected {
		return 1
	}
	return 2
}

// DeriveSelfWeights returns the default self-weights: the summed loop weight per node
// under the corrected policy, zeros otherwise.
func (p SelfLoopPolicy) DeriveSelfWeights(n int, edges []Edge, weights []float64) []float64 {
	selfWeights := make([]float64, n)
	if !p.corrected {
		return selfWeights
	}
	for e, edge := range edges {
		if edge.IsLoop() {
			selfWeights[edge.Source] += weights[e]
		}
	}
	return selfWeights
}

// ExtraMass returns the part of the self-weights that is not already represented by
// loop edges. Derived self-weights contribute nothing.
func (p SelfLoopPolicy) ExtraMass(selfWeights []float64, explicit bool) []float64 {
	extra := make([]float64, len(selfWeights))
	if explicit {
		copy(extra, selfWeights)
	}
	return extra
}

// Density returns totalWeight over the possible edges among totalSize unit nodes.
// Returns 0 when no edge is possible.
func (p SelfLoopPolicy) Density(totalWeight float64, totalSize int, directed bool) float64 {
	possible := p.PossibleEdges(totalSize, directed)
	if possible <= 0 {
		return 0
	}
	return totalWeight / float64(possible)
}
