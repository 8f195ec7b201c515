// Package export serializes code graphs for downstream consumers: a flat
// JSON form and a Graphviz DOT rendering.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	dgraph "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"

	"codegraph/internal/graph"
)

// WriteJSON writes the flat node/edge form as indented JSON.
func WriteJSON(g *graph.CodeGraph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Export()); err != nil {
		return fmt.Errorf("encoding graph: %w", err)
	}
	return nil
}

var shapeByKind = map[graph.NodeKind]string{
	graph.NodeFile:      "note",
	graph.NodeClass:     "box",
	graph.NodeInterface: "ellipse",
	graph.NodeEnum:      "box",
	graph.NodeMethod:    "oval",
	graph.NodeFunction:  "oval",
}

// WriteDOT renders the graph in Graphviz DOT format. Parallel edges between
// the same pair collapse to one; dangling edge endpoints (annotation and
// import targets without nodes) render as plain vertices.
func WriteDOT(g *graph.CodeGraph, w io.Writer) error {
	dg := dgraph.New(dgraph.StringHash, dgraph.Directed())

	for _, n := range g.Nodes() {
		label := n.Name
		if label == "" {
			label = n.ID
		}
		shape := shapeByKind[n.Kind]
		if shape == "" {
			shape = "box"
		}
		if err := dg.AddVertex(n.ID,
			dgraph.VertexAttribute("label", label),
			dgraph.VertexAttribute("shape", shape),
		); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
			return fmt.Errorf("adding vertex %s: %w", n.ID, err)
		}
	}

	for _, e := range g.Edges() {
		for _, id := range []string{e.Src, e.Dst} {
			if g.Node(id) != nil {
				continue
			}
			if err := dg.AddVertex(id,
				dgraph.VertexAttribute("label", id),
				dgraph.VertexAttribute("shape", "plaintext"),
			); err != nil && !errors.Is(err, dgraph.ErrVertexAlreadyExists) {
				return fmt.Errorf("adding vertex %s: %w", id, err)
			}
		}

		err := dg.AddEdge(e.Src, e.Dst, dgraph.EdgeAttribute("label", string(e.Type)))
		if err != nil && !errors.Is(err, dgraph.ErrEdgeAlreadyExists) {
			return fmt.Errorf("adding edge %s -> %s: %w", e.Src, e.Dst, err)
		}
	}

	if err := draw.DOT(dg, w); err != nil {
		return fmt.Errorf("rendering dot: %w", err)
	}
	return nil
}
