// Command graph-stats loads a YAML graph document, prints its aggregates and optionally
// collapses it by a community membership.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/prometheus/common/expfmt"

	"github.com/dd0wney/cluso-leiden/pkg/edgelist"
	"github.com/dd0wney/cluso-leiden/pkg/graph"
	"github.com/dd0wney/cluso-leiden/pkg/graphutil"
	"github.com/dd0wney/cluso-leiden/pkg/logging"
	"github.com/dd0wney/cluso-leiden/pkg/metrics"
	"github.com/dd0wney/cluso-leiden/pkg/validation"
)

type config struct {
	Input       string
	Membership  string
	Output      string
	Top         int
	Samples     int
	Workers     int
	Seed        uint64
	LogLevel    string
	ShowMetrics bool
}

func (c *config) Validate() error {
	return validation.NewConfigValidator("graph-stats").
		Required("input", c.Input).
		NonNegative("top", c.Top).
		NonNegative("samples", c.Samples).
		NonNegative("workers", c.Workers).
		OneOf("log-level", c.LogLevel, []string{"debug", "info", "warn", "error"}).
		When(c.Output != "", func(cv *validation.ConfigValidator) {
			cv.Required("membership", c.Membership)
		}).
		Validate()
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("graph-stats", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Input, "input", "", "Graph document (YAML)")
	fs.StringVar(&cfg.Membership, "membership", "", "Membership list (YAML) to collapse the graph by")
	fs.StringVar(&cfg.Output, "output", "", "Write the collapsed graph document here")
	fs.IntVar(&cfg.Top, "top", 5, "Number of highest-degree nodes to list")
	fs.IntVar(&cfg.Samples, "samples", 0, "Weighted random neighbour draws to perform")
	fs.IntVar(&cfg.Workers, "workers", 0, "Workers for building sampling tables (0 = one per CPU)")
	fs.Uint64Var(&cfg.Seed, "seed", 0, "Random seed (0 = random)")
	fs.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.ShowMetrics, "metrics", false, "Print collected metrics in Prometheus text format")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	if err := validation.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "graph-stats: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewJSONLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	if err := run(context.Background(), cfg, os.Stdout, logger); err != nil {
		logger.Error("graph-stats failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config, out io.Writer, logger logging.Logger) error {
	reg := metrics.NewRegistry()

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	doc, err := edgelist.Load(cfg.Input)
	if err != nil {
		return err
	}
	g, err := doc.Build(
		graph.WithRandSource(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		graph.WithLogger(logger),
		graph.WithMetrics(reg),
	)
	if err != nil {
		return err
	}
	logger.Info("graph loaded",
		logging.String("path", cfg.Input),
		logging.GraphID(g.ID().String()),
		logging.Nodes(g.VCount()),
		logging.Edges(g.ECount()),
	)

	printStats(out, "Graph", g)
	if err := printTopNodes(out, g, cfg.Top); err != nil {
		return err
	}

	if cfg.Samples > 0 && g.VCount() > 0 {
		if err := sample(ctx, out, g, cfg.Samples, cfg.Workers); err != nil {
			return err
		}
	}

	if cfg.Membership != "" {
		if err := collapse(out, g, cfg, logger); err != nil {
			return err
		}
	}

	if cfg.ShowMetrics {
		families, err := reg.GetPrometheusRegistry().Gather()
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		for _, mf := range families {
			if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
				return err
			}
		}
	}
	return nil
}

func printStats(out io.Writer, title string, g *graph.Graph) {
	fmt.Fprintf(out, "%s %s\n", title, g.ID())
	fmt.Fprintf(out, "  Nodes:             %d\n", g.VCount())
	fmt.Fprintf(out, "  Edges:             %d\n", g.ECount())
	fmt.Fprintf(out, "  Directed:          %t\n", g.IsDirected())
	fmt.Fprintf(out, "  Weighted:          %t\n", g.IsWeighted())
	fmt.Fprintf(out, "  Self-loops:        %t (%s)\n", g.HasSelfLoops(), g.Policy())
	fmt.Fprintf(out, "  Total weight:      %g\n", g.TotalWeight())
	fmt.Fprintf(out, "  Total size:        %d\n", g.TotalSize())
	fmt.Fprintf(out, "  Total self-weight: %g\n", g.TotalSelfWeight())
	fmt.Fprintf(out, "  Possible edges:    %d\n", g.PossibleEdgesN(g.TotalSize()))
	fmt.Fprintf(out, "  Density:           %g\n", g.Density())
}

func printTopNodes(out io.Writer, g *graph.Graph, top int) error {
	if top == 0 || g.VCount() == 0 {
		return nil
	}
	pairs := make([]graphutil.Pair, g.VCount())
	for _, v := range graphutil.Range(g.VCount()) {
		deg, err := g.Degree(v, graph.All)
		if err != nil {
			return err
		}
		pairs[v] = graphutil.Pair{Index: v, Count: deg}
	}
	graphutil.SortPairsReverseSecond(pairs)

	fmt.Fprintf(out, "  Top nodes by degree:\n")
	for _, p := range pairs[:min(top, len(pairs))] {
		strength, err := g.Strength(p.Index, graph.Out)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    %-6d degree %-6d strength %g\n", p.Index, p.Count, strength)
	}
	return nil
}

func sample(ctx context.Context, out io.Writer, g *graph.Graph, draws, workers int) error {
	start := time.Now()
	if err := g.PrebuildSamplers(ctx, workers); err != nil {
		return err
	}

	hits := make([]int, g.VCount())
	empty := 0
	for i := 0; i < draws; i++ {
		nbr, err := g.WeightedRandomNeighbour(g.RandomNode(), graph.All)
		if graph.IsEmptyNeighbourhood(err) {
			empty++
			continue
		}
		if err != nil {
			return err
		}
		hits[nbr]++
	}

	best := 0
	for v, h := range hits {
		if h > hits[best] {
			best = v
		}
	}
	fmt.Fprintf(out, "  Sampling:          %d draws, %d empty, most drawn node %d (%d) in %v\n",
		draws, empty, best, hits[best], time.Since(start).Round(time.Microsecond))
	return nil
}

func collapse(out io.Writer, g *graph.Graph, cfg *config, logger logging.Logger) error {
	membership, err := edgelist.LoadMembership(cfg.Membership)
	if err != nil {
		return err
	}
	if err := validation.ValidateMembership(membership, g.VCount()); err != nil {
		return err
	}
	dense, k := graphutil.RenumberMembership(membership)

	collapsed, err := g.Collapse(dense)
	if err != nil {
		return err
	}
	logger.Info("graph collapsed",
		logging.GraphID(collapsed.ID().String()),
		logging.String("parent_id", g.ID().String()),
		logging.Int("communities", k),
	)

	fmt.Fprintln(out)
	printStats(out, "Collapsed", collapsed)
	if err := printTopNodes(out, collapsed, cfg.Top); err != nil {
		return err
	}

	if cfg.Output == "" {
		return nil
	}
	data, err := edgelist.Marshal(collapsed)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
		return err
	}
	logger.Info("collapsed graph written", logging.String("path", cfg.Output))
	return nil
}
