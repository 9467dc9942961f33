package graph

import (
	"context"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dd0wney/cluso-leiden/pkg/logging"
	"github.com/dd0wney/cluso-leiden/pkg/parallel"
)

// samplerSlot returns the cache slot for v in the given direction.
// Undirected graphs keep a single table per node.
func (g *Graph) samplerSlot(v int, mode Mode) (*samplerSlot, error) {
	if !mode.Valid() {
		return nil, invalidModeError("WeightedRandomNeighbour", v, mode)
	}
	if !g.directed {
		return &g.samplersAll[v], nil
	}
	switch mode {
	case Out:
		return &g.samplersOut[v], nil
	case In:
		return &g.samplersIn[v], nil
	default:
		return &g.samplersAll[v], nil
	}
}

// WeightedRandomNeighbour draws a neighbour of v with probability proportional to the
// weight of the connecting edge. A self-loop is a single candidate with its weight w, so
// on an undirected graph it takes w of the draw mass while Strength counts it as 2w.
//
// The first call for a node and direction builds a sampling table in O(deg(v)); later
// calls reuse it. Building is guarded by a sync.Once per table, so a partially built
// table is never observed. Draws share the graph's random source.
func (g *Graph) WeightedRandomNeighbour(v int, mode Mode) (int, error) {
	slot, err := g.samplerSlot(v, mode)
	if err != nil {
		return 0, err
	}
	slot.once.Do(func() { g.buildSampler(v, mode, slot) })
	if slot.err != nil {
		return 0, slot.err
	}
	if g.metrics != nil {
		g.metrics.RecordSamplerDraw("weighted")
	}
	return slot.nbrs[int(slot.dist.Rand())], nil
}

// buildSampler fills slot with a categorical distribution over the incident edges of v
func (g *Graph) buildSampler(v int, mode Mode, slot *samplerSlot) {
	adj, err := g.incident("WeightedRandomNeighbour", v, mode)
	if err != nil {
		slot.err = err
		return
	}
	if len(adj) == 0 {
		g.recordSamplerError("empty")
		slot.err = NewError("WeightedRandomNeighbour").Node(v).
			Context("mode %s", mode).Cause(ErrEmptyNeighbourhood).Err()
		return
	}

	weights := make([]float64, len(adj))
	nbrs := make([]int, len(adj))
	total := 0.0
	for i, inc := range adj {
		w := g.edgeWeights[inc.edge]
		if w < 0 {
			g.recordSamplerError("negative_weight")
			slot.err = NewError("WeightedRandomNeighbour").Edge(inc.edge).
				Context("weight %v", w).Cause(ErrNegativeWeight).Err()
			return
		}
		weights[i] = w
		nbrs[i] = inc.neighbour
		total += w
	}
	if total <= 0 {
		g.recordSamplerError("zero_weight")
		slot.err = NewError("WeightedRandomNeighbour").Node(v).
			Context("mode %s, no positively weighted neighbour", mode).
			Cause(ErrEmptyNeighbourhood).Err()
		return
	}

	dist := distuv.NewCategorical(weights, g.rng)
	slot.dist = &dist
	slot.nbrs = nbrs
	if g.metrics != nil {
		g.metrics.RecordSamplerTableBuilt()
	}
}

// samplerModes lists the directions that have their own tables
func (g *Graph) samplerModes() []Mode {
	if g.directed {
		return []Mode{Out, In, All}
	}
	return []Mode{All}
}

// PrebuildSamplers builds every sampling table up front on a pool of workers, so the
// graph can be shared with concurrent readers afterwards. Nodes whose neighbourhood is
// empty cache that outcome like a lazy build would. Returns ctx.Err() if ctx is
// cancelled before all tables are built.
func (g *Graph) PrebuildSamplers(ctx context.Context, workers int) error {
	timer := logging.StartTimer(g.logger, "sampling tables built",
		logging.GraphID(g.id.String()), logging.Nodes(g.n))
	start := time.Now()

	modes := g.samplerModes()
	err := parallel.ForEach(ctx, g.logger, g.n*len(modes), workers, func(i int) {
		v, mode := i/len(modes), modes[i%len(modes)]
		slot, _ := g.samplerSlot(v, mode)
		slot.once.Do(func() { g.buildSampler(v, mode, slot) })
	})
	if err != nil {
		timer.EndError(err)
		return err
	}
	timer.EndWithLevel(logging.DebugLevel, "sampling tables built")
	if g.metrics != nil {
		g.metrics.RecordSamplerPrebuild(time.Since(start))
	}
	return nil
}
