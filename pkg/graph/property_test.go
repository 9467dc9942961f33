package graph

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

const propertyEps = 1e-9

// randomGraph builds a graph with n nodes from seed. About one edge in eight is a
// self-loop and weights are drawn from [0, 10).
func randomGraph(seed uint64, n int, directed, correct, selfWeights bool) *Graph {
	r := rand.New(rand.NewPCG(seed, seed>>1))
	m := r.IntN(3*n + 1)

	edges := make([]Edge, m)
	weights := make([]float64, m)
	for e := range edges {
		s := r.IntN(n)
		t := r.IntN(n)
		if r.IntN(8) == 0 {
			t = s
		}
		edges[e] = Edge{Source: s, Target: t}
		weights[e] = 10 * r.Float64()
	}

	sizes := make([]int, n)
	for v := range sizes {
		sizes[v] = 1 + r.IntN(3)
	}

	opts := []Option{
		WithEdgeWeights(weights),
		WithNodeSizes(sizes),
		WithSelfLoopCorrection(correct),
		WithRandSource(rand.NewPCG(seed, 1)),
	}
	if selfWeights {
		sw := make([]float64, n)
		for v := range sw {
			sw[v] = r.Float64()
		}
		opts = append(opts, WithNodeSelfWeights(sw))
	}

	g, err := New(n, edges, directed, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// randomMembership assigns each of n nodes to one of at most k communities, densely
func randomMembership(seed uint64, n, k int) []int {
	r := rand.New(rand.NewPCG(seed, 99))
	raw := make([]int, n)
	for v := range raw {
		raw[v] = r.IntN(k)
	}
	relabel := make(map[int]int)
	for v, c := range raw {
		id, ok := relabel[c]
		if !ok {
			id = len(relabel)
			relabel[c] = id
		}
		raw[v] = id
	}
	return raw
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= propertyEps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// TestGraphProperties checks the aggregate and collapse invariants on random graphs
func TestGraphProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	if testing.Short() {
		parameters.MinSuccessfulTests = 30
	}

	properties := gopter.NewProperties(parameters)

	properties.Property("strengths sum to total weight", prop.ForAll(
		func(seed uint64, n int, directed, correct, selfWeights bool) bool {
			g := randomGraph(seed, n, directed, correct, selfWeights)
			var out, in float64
			for v := 0; v < n; v++ {
				so, _ := g.Strength(v, Out)
				si, _ := g.Strength(v, In)
				out += so
				in += si
			}
			if directed {
				return approxEqual(out, g.TotalWeight()) && approxEqual(in, g.TotalWeight())
			}
			return approxEqual(out, 2*g.TotalWeight()) && approxEqual(in, out)
		},
		gen.UInt64(), gen.IntRange(1, 20), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("degrees count every edge", prop.ForAll(
		func(seed uint64, n int, directed, correct bool) bool {
			g := randomGraph(seed, n, directed, correct, false)
			loops := 0
			for e := 0; e < g.ECount(); e++ {
				if g.Edge(e).IsLoop() {
					loops++
				}
			}
			all := 0
			for v := 0; v < n; v++ {
				d, _ := g.Degree(v, All)
				all += d
			}
			want := 2*g.ECount() - loops*(2-g.Policy().LoopDegree())
			if !directed {
				return all == want
			}
			out, in := 0, 0
			for v := 0; v < n; v++ {
				d, _ := g.Degree(v, Out)
				out += d
				d, _ = g.Degree(v, In)
				in += d
			}
			return all == want && out == g.ECount() && in == g.ECount()
		},
		gen.UInt64(), gen.IntRange(1, 20), gen.Bool(), gen.Bool(),
	))

	properties.Property("density is total weight over possible edges", prop.ForAll(
		func(seed uint64, n int, directed, correct bool) bool {
			g := randomGraph(seed, n, directed, correct, false)
			possible := g.PossibleEdgesN(g.TotalSize())
			if possible == 0 {
				return g.Density() == 0
			}
			return approxEqual(g.Density(), g.TotalWeight()/float64(possible))
		},
		gen.UInt64(), gen.IntRange(1, 20), gen.Bool(), gen.Bool(),
	))

	properties.Property("collapse preserves totals and density", prop.ForAll(
		func(seed uint64, n, k int, directed, correct, selfWeights bool) bool {
			g := randomGraph(seed, n, directed, correct, selfWeights)
			membership := randomMembership(seed, n, k)
			c, err := g.Collapse(membership)
			if err != nil {
				return false
			}
			return approxEqual(c.TotalWeight(), g.TotalWeight()) &&
				c.TotalSize() == g.TotalSize() &&
				approxEqual(c.Density(), g.Density()) &&
				c.IsDirected() == g.IsDirected() &&
				c.CorrectSelfLoops() == g.CorrectSelfLoops()
		},
		gen.UInt64(), gen.IntRange(1, 20), gen.IntRange(1, 6), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("collapse preserves community strength", prop.ForAll(
		func(seed uint64, n, k int, directed, correct, selfWeights bool) bool {
			g := randomGraph(seed, n, directed, correct, selfWeights)
			membership := randomMembership(seed, n, k)
			c, err := g.Collapse(membership)
			if err != nil {
				return false
			}
			want := make([]float64, c.VCount())
			for v, comm := range membership {
				s, _ := g.Strength(v, Out)
				want[comm] += s
			}
			for comm := range want {
				got, _ := c.Strength(comm, Out)
				if !approxEqual(got, want[comm]) {
					return false
				}
			}
			return true
		},
		gen.UInt64(), gen.IntRange(1, 20), gen.IntRange(1, 6), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("single community holds all weight", prop.ForAll(
		func(seed uint64, n int, directed, correct, selfWeights bool) bool {
			g := randomGraph(seed, n, directed, correct, selfWeights)
			c, err := g.Collapse(make([]int, n))
			if err != nil {
				return false
			}
			return c.VCount() == 1 && c.ECount() == 0 &&
				c.NodeSize(0) == g.TotalSize() &&
				approxEqual(c.NodeSelfWeight(0), g.TotalWeight())
		},
		gen.UInt64(), gen.IntRange(1, 20), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
