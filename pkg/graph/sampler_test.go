package graph

import (
	"bytes"
	"context"
	"math/rand/v2"
	"sync"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-leiden/pkg/logging"
	"github.com/dd0wney/cluso-leiden/pkg/metrics"
)

// weightedStar has centre 0 and leaves 1, 2, 3 with edge weights 1, 2, 7
func weightedStar(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	edges := []Edge{{0, 1}, {0, 2}, {0, 3}}
	return mustNew(t, 4, edges, false, append([]Option{WithEdgeWeights([]float64{1, 2, 7})}, opts...)...)
}

func TestWeightedRandomNeighbourFrequencies(t *testing.T) {
	g := weightedStar(t, WithRandSource(rand.NewPCG(1, 2)))

	const draws = 20000
	counts := make([]int, 4)
	for i := 0; i < draws; i++ {
		nbr, err := g.WeightedRandomNeighbour(0, All)
		require.NoError(t, err)
		counts[nbr]++
	}

	assert.Zero(t, counts[0])
	assert.InDelta(t, 0.1, float64(counts[1])/draws, 0.02)
	assert.InDelta(t, 0.2, float64(counts[2])/draws, 0.02)
	assert.InDelta(t, 0.7, float64(counts[3])/draws, 0.02)
}

func TestWeightedRandomNeighbourUndirectedLoop(t *testing.T) {
	// The loop is listed once, so it carries weight 1 of the draw mass although it adds 2
	// to the strength of node 0.
	g := mustNew(t, 2, []Edge{{0, 0}, {0, 1}}, false,
		WithEdgeWeights([]float64{1, 1}),
		WithRandSource(rand.NewPCG(3, 4)),
	)
	s, err := g.Strength(0, Out)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, s, eps)

	nbrs, err := g.Neighbours(0, All)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, nbrs)

	const draws = 20000
	counts := make([]int, 2)
	for i := 0; i < draws; i++ {
		nbr, err := g.WeightedRandomNeighbour(0, All)
		require.NoError(t, err)
		counts[nbr]++
	}
	assert.InDelta(t, 0.5, float64(counts[0])/draws, 0.02)
	assert.InDelta(t, 0.5, float64(counts[1])/draws, 0.02)
}

func TestWeightedRandomNeighbourZeroWeightNeverDrawn(t *testing.T) {
	g := mustNew(t, 3, []Edge{{0, 1}, {0, 2}}, false,
		WithEdgeWeights([]float64{0, 1}),
		WithRandSource(rand.NewPCG(3, 4)),
	)

	for i := 0; i < 1000; i++ {
		nbr, err := g.WeightedRandomNeighbour(0, Out)
		require.NoError(t, err)
		assert.Equal(t, 2, nbr)
	}
}

func TestWeightedRandomNeighbourDirected(t *testing.T) {
	g := directedTriangle(t, WithRandSource(rand.NewPCG(5, 6)))

	nbr, err := g.WeightedRandomNeighbour(0, Out)
	require.NoError(t, err)
	assert.Equal(t, 1, nbr)

	nbr, err = g.WeightedRandomNeighbour(0, In)
	require.NoError(t, err)
	assert.Equal(t, 2, nbr)

	for i := 0; i < 100; i++ {
		nbr, err = g.WeightedRandomNeighbour(0, All)
		require.NoError(t, err)
		assert.Contains(t, []int{1, 2}, nbr)
	}
}

func TestWeightedRandomNeighbourErrors(t *testing.T) {
	t.Run("isolated node", func(t *testing.T) {
		g := mustNew(t, 2, nil, false)

		_, err := g.WeightedRandomNeighbour(1, All)
		assert.True(t, IsEmptyNeighbourhood(err))

		// The outcome is cached
		_, err = g.WeightedRandomNeighbour(1, All)
		assert.True(t, IsEmptyNeighbourhood(err))
	})

	t.Run("no in edges", func(t *testing.T) {
		g := mustNew(t, 2, []Edge{{0, 1}}, true)

		_, err := g.WeightedRandomNeighbour(0, In)
		assert.ErrorIs(t, err, ErrEmptyNeighbourhood)

		nbr, err := g.WeightedRandomNeighbour(0, Out)
		require.NoError(t, err)
		assert.Equal(t, 1, nbr)
	})

	t.Run("zero total weight", func(t *testing.T) {
		g := mustNew(t, 2, []Edge{{0, 1}}, false, WithEdgeWeights([]float64{0}))

		_, err := g.WeightedRandomNeighbour(0, All)
		assert.ErrorIs(t, err, ErrEmptyNeighbourhood)
	})

	t.Run("negative weight", func(t *testing.T) {
		g := mustNew(t, 3, []Edge{{0, 1}, {0, 2}}, false, WithEdgeWeights([]float64{1, -1}))

		_, err := g.WeightedRandomNeighbour(0, All)
		assert.ErrorIs(t, err, ErrNegativeWeight)

		// Node 1 only sees the positive edge
		nbr, err := g.WeightedRandomNeighbour(1, All)
		require.NoError(t, err)
		assert.Equal(t, 0, nbr)
	})

	t.Run("invalid mode", func(t *testing.T) {
		g := weightedStar(t)

		_, err := g.WeightedRandomNeighbour(0, Mode(0))
		assert.True(t, IsInvalidMode(err))
	})
}

func TestRandomNeighbour(t *testing.T) {
	g := weightedStar(t, WithRandSource(rand.NewPCG(7, 8)))

	counts := make([]int, 4)
	for i := 0; i < 3000; i++ {
		nbr, err := g.RandomNeighbour(0, All)
		require.NoError(t, err)
		counts[nbr]++
	}
	// Uniform over incident edges, regardless of weight
	for _, leaf := range []int{1, 2, 3} {
		assert.InDelta(t, 1.0/3.0, float64(counts[leaf])/3000, 0.05)
	}

	isolated := mustNew(t, 1, nil, true)
	_, err := isolated.RandomNeighbour(0, Out)
	assert.True(t, IsEmptyNeighbourhood(err))

	_, err = g.RandomNeighbour(0, Mode(9))
	assert.True(t, IsInvalidMode(err))
}

func TestRandomIntAndNode(t *testing.T) {
	g := twoTriangles(t, WithRandSource(rand.NewPCG(9, 10)))

	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		x := g.RandomInt(-2, 2)
		assert.GreaterOrEqual(t, x, -2)
		assert.LessOrEqual(t, x, 2)
		seen[x] = true

		v := g.RandomNode()
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, g.VCount())
	}
	assert.Len(t, seen, 5)
	assert.Equal(t, 4, g.RandomInt(4, 4))
}

func TestSamplingIsReproducible(t *testing.T) {
	draw := func() []int {
		g := weightedStar(t, WithRandSource(rand.NewPCG(11, 12)))
		seq := make([]int, 100)
		for i := range seq {
			nbr, err := g.WeightedRandomNeighbour(0, All)
			require.NoError(t, err)
			seq[i] = nbr
		}
		return seq
	}

	assert.Equal(t, draw(), draw())
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestPrebuildSamplers(t *testing.T) {
	reg := metrics.NewRegistry()
	g := directedTriangle(t, WithMetrics(reg), WithRandSource(rand.NewPCG(13, 14)))

	require.NoError(t, g.PrebuildSamplers(context.Background(), 4))
	// 3 nodes, each with out, in and all tables
	assert.Equal(t, 9.0, counterValue(t, reg.SamplerTablesBuilt))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				v := i % 3
				nbr, err := g.WeightedRandomNeighbour(v, Out)
				if assert.NoError(t, err) {
					assert.Equal(t, (v+1)%3, nbr)
				}
			}
		}()
	}
	wg.Wait()

	// Prebuilt tables are reused
	assert.Equal(t, 9.0, counterValue(t, reg.SamplerTablesBuilt))
	assert.Equal(t, 1600.0, counterValue(t, reg.SamplerDrawsTotal.WithLabelValues("weighted")))
}

func TestPrebuildSamplersCachesEmpty(t *testing.T) {
	reg := metrics.NewRegistry()
	g := mustNew(t, 3, []Edge{{0, 1}}, false, WithMetrics(reg))

	require.NoError(t, g.PrebuildSamplers(context.Background(), 0))
	assert.Equal(t, 2.0, counterValue(t, reg.SamplerTablesBuilt))
	assert.Equal(t, 1.0, counterValue(t, reg.SamplerErrorsTotal.WithLabelValues("empty")))

	_, err := g.WeightedRandomNeighbour(2, All)
	assert.True(t, IsEmptyNeighbourhood(err))
	assert.Equal(t, 1.0, counterValue(t, reg.SamplerErrorsTotal.WithLabelValues("empty")))
}

func TestPrebuildSamplersCancelled(t *testing.T) {
	var buf bytes.Buffer
	g := weightedStar(t, WithLogger(logging.NewJSONLogger(&buf, logging.DebugLevel)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.PrebuildSamplers(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, buf.String(), "foreach cancelled")
}

func TestConstructionMetrics(t *testing.T) {
	reg := metrics.NewRegistry()
	g := twoTriangles(t, WithMetrics(reg))

	_, err := g.Collapse([]int{0, 0, 0, 1, 1, 1})
	require.NoError(t, err)

	// The collapsed graph is built through New as well
	assert.Equal(t, 2.0, counterValue(t, reg.GraphsBuiltTotal))
	assert.Equal(t, 1.0, counterValue(t, reg.CollapsesTotal))
}
