package graph

// Export is the flat serializable form of a graph, consumed by export,
// visualization and prompt-packaging collaborators.
type Export struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Export returns the graph as flat node and edge lists in insertion order.
func (g *CodeGraph) Export() *Export {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := &Export{
		Nodes: make([]Node, 0, len(g.order)),
		Edges: make([]Edge, 0, len(g.edges)),
	}
	for _, id := range g.order {
		out.Nodes = append(out.Nodes, *g.nodes[id])
	}
	for _, e := range g.edges {
		out.Edges = append(out.Edges, *e)
	}
	return out
}
