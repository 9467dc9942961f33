// Package edgelist reads graphs and partitions from YAML documents.
//
// A graph document looks like
//
//	directed: true
//	correct_self_loops: false
//	nodes: 3
//	sizes: [1, 1, 1]
//	self_weights: [0, 0, 0]
//	edges:
//	  - {source: 0, target: 1, weight: 1}
//	  - {source: 1, target: 2, weight: 2}
//
// Everything but nodes is optional. Edge weights must be given on every edge or on none.
package edgelist

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-leiden/pkg/graph"
	"github.com/dd0wney/cluso-leiden/pkg/validation"
)

// ErrMixedWeights is returned when only some edges carry a weight
var ErrMixedWeights = errors.New("either all edges or none must have a weight")

// EdgeSpec is one edge of a document
type EdgeSpec struct {
	Source int      `yaml:"source" validate:"gte=0"`
	Target int      `yaml:"target" validate:"gte=0"`
	Weight *float64 `yaml:"weight,omitempty" validate:"omitempty,finite"`
}

// Document is the decoded form of a graph document
type Document struct {
	Directed         bool       `yaml:"directed"`
	CorrectSelfLoops *bool      `yaml:"correct_self_loops,omitempty"`
	Nodes            int        `yaml:"nodes" validate:"gte=0"`
	Sizes            []int      `yaml:"sizes,omitempty" validate:"omitempty,dive,gte=1"`
	SelfWeights      []float64  `yaml:"self_weights,omitempty" validate:"omitempty,dive,gte=0,finite"`
	Edges            []EdgeSpec `yaml:"edges" validate:"dive"`
}

// Parse decodes and validates a graph document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("edgelist: empty document")
		}
		return nil, fmt.Errorf("edgelist: decoding document: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("edgelist: %w", err)
	}
	return &doc, nil
}

// Load reads and parses the graph document at path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("edgelist: %w", err)
	}
	return Parse(data)
}

// Validate checks field values and the consistency of the lists with the node count
func (d *Document) Validate() error {
	if err := validation.Struct(d); err != nil {
		return err
	}

	return validation.NewConfigValidator("Document").
		MaxInt("Nodes", d.Nodes, validation.MaxNodes).
		When(d.Sizes != nil, func(cv *validation.ConfigValidator) {
			cv.Length("Sizes", len(d.Sizes), d.Nodes)
		}).
		When(d.SelfWeights != nil, func(cv *validation.ConfigValidator) {
			cv.Length("SelfWeights", len(d.SelfWeights), d.Nodes)
		}).
		Custom("Edges", d.checkEdges).
		Validate()
}

func (d *Document) checkEdges() error {
	weighted := 0
	for i, e := range d.Edges {
		if e.Source >= d.Nodes || e.Target >= d.Nodes {
			return fmt.Errorf("edge %d (%d, %d) references a node outside [0, %d)", i, e.Source, e.Target, d.Nodes)
		}
		if e.Weight != nil {
			weighted++
		}
	}
	if weighted != 0 && weighted != len(d.Edges) {
		return fmt.Errorf("%w: %d of %d edges are weighted", ErrMixedWeights, weighted, len(d.Edges))
	}
	return nil
}

// Weighted reports whether the document's edges carry weights
func (d *Document) Weighted() bool {
	return len(d.Edges) > 0 && d.Edges[0].Weight != nil
}

// Build constructs the graph described by the document. opts are applied after the
// options derived from the document, so they take precedence.
func (d *Document) Build(opts ...graph.Option) (*graph.Graph, error) {
	edges := make([]graph.Edge, len(d.Edges))
	for i, e := range d.Edges {
		edges[i] = graph.Edge{Source: e.Source, Target: e.Target}
	}

	var docOpts []graph.Option
	if d.Weighted() {
		weights := make([]float64, len(d.Edges))
		for i, e := range d.Edges {
			weights[i] = *e.Weight
		}
		docOpts = append(docOpts, graph.WithEdgeWeights(weights))
	}
	if d.Sizes != nil {
		docOpts = append(docOpts, graph.WithNodeSizes(d.Sizes))
	}
	if d.SelfWeights != nil {
		docOpts = append(docOpts, graph.WithNodeSelfWeights(d.SelfWeights))
	}
	if d.CorrectSelfLoops != nil {
		docOpts = append(docOpts, graph.WithSelfLoopCorrection(*d.CorrectSelfLoops))
	}

	return graph.New(d.Nodes, edges, d.Directed, append(docOpts, opts...)...)
}

// Marshal encodes a graph as a document
func Marshal(g *graph.Graph) ([]byte, error) {
	doc := Document{
		Directed: g.IsDirected(),
		Nodes:    g.VCount(),
		Edges:    make([]EdgeSpec, g.ECount()),
		Sizes:    make([]int, g.VCount()),
	}
	correct := g.CorrectSelfLoops()
	doc.CorrectSelfLoops = &correct

	for e := range doc.Edges {
		edge := g.Edge(e)
		doc.Edges[e] = EdgeSpec{Source: edge.Source, Target: edge.Target}
		if g.IsWeighted() {
			w := g.EdgeWeight(e)
			doc.Edges[e].Weight = &w
		}
	}
	for v := range doc.Sizes {
		doc.Sizes[v] = g.NodeSize(v)
	}
	if g.HasExplicitSelfWeights() {
		doc.SelfWeights = make([]float64, g.VCount())
		for v := range doc.SelfWeights {
			doc.SelfWeights[v] = g.NodeSelfWeight(v)
		}
	}

	return yaml.Marshal(&doc)
}

// ParseMembership decodes a YAML list of community ids, one per node
func ParseMembership(data []byte) ([]int, error) {
	var membership []int
	if err := yaml.Unmarshal(data, &membership); err != nil {
		return nil, fmt.Errorf("edgelist: decoding membership: %w", err)
	}
	if membership == nil {
		membership = []int{}
	}
	return membership, nil
}

// LoadMembership reads and parses the membership list at path
func LoadMembership(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("edgelist: %w", err)
	}
	return ParseMembership(data)
}
