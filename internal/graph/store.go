package graph

import "sync"

// CodeGraph is a directed multigraph of code entities keyed by stable node
// identifiers, with a secondary index from fully qualified name to identifier.
//
// Nodes merge on re-insert: a supertype may be stub-created from a reference
// before its defining file is parsed, and the full node later fills in the
// blanks. Edges always append; multiple edges between the same ordered pair
// are preserved.
type CodeGraph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string // insertion order, for deterministic iteration
	edges []*Edge
	out   map[string][]*Edge
	in    map[string][]*Edge
	byFQN map[string]string
}

// New creates an empty code graph.
func New() *CodeGraph {
	return &CodeGraph{
		nodes: make(map[string]*Node),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
		byFQN: make(map[string]string),
	}
}

// AddNode upserts a node. An existing node with the same ID keeps its
// attributes and absorbs every non-empty attribute of the incoming one.
// A non-empty fqn refreshes the name index (last writer wins).
func (g *CodeGraph) AddNode(n Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	existing, ok := g.nodes[n.ID]
	if !ok {
		copied := n
		g.nodes[n.ID] = &copied
		g.order = append(g.order, n.ID)
	} else {
		mergeNode(existing, &n)
	}
	if n.FQN != "" {
		g.byFQN[n.FQN] = n.ID
	}
}

// AddEdge appends an edge. Endpoints need not exist as nodes; annotation and
// import edges commonly point at bare identifiers.
func (g *CodeGraph) AddEdge(e Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	copied := e
	g.edges = append(g.edges, &copied)
	g.out[e.Src] = append(g.out[e.Src], &copied)
	g.in[e.Dst] = append(g.in[e.Dst], &copied)
}

// mergeNode fills empty fields of dst from src. Populated fields are never
// cleared, so stub and full nodes reconcile in either arrival order.
func mergeNode(dst, src *Node) {
	if src.Kind != "" {
		dst.Kind = src.Kind
	}
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.FQN != "" {
		dst.FQN = src.FQN
	}
	if src.File != "" {
		dst.File = src.File
	}
	if src.Line != 0 {
		dst.Line = src.Line
	}
	if len(src.Modifiers) > 0 {
		dst.Modifiers = src.Modifiers
	}
	if len(src.Annotations) > 0 {
		dst.Annotations = src.Annotations
	}
	if len(src.Params) > 0 {
		dst.Params = src.Params
	}
	if src.Returns != "" {
		dst.Returns = src.Returns
	}
	if src.Extras != nil {
		if dst.Extras == nil {
			dst.Extras = src.Extras
		} else {
			mergeExtras(dst.Extras, src.Extras)
		}
	}
}

func mergeExtras(dst, src *Extras) {
	if src.ParseError != "" {
		dst.ParseError = src.ParseError
	}
	if len(src.Fields) > 0 {
		if dst.Fields == nil {
			dst.Fields = make(map[string]string, len(src.Fields))
		}
		for k, v := range src.Fields {
			dst.Fields[k] = v
		}
	}
	if len(src.AnnotationDetails) > 0 {
		dst.AnnotationDetails = src.AnnotationDetails
	}
	if src.HTTP != nil {
		dst.HTTP = src.HTTP
	}
}

// Node returns the node for id, or nil.
func (g *CodeGraph) Node(id string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// NodeByFQN returns the node currently indexed under fqn, or nil.
func (g *CodeGraph) NodeByFQN(fqn string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if id, ok := g.byFQN[fqn]; ok {
		return g.nodes[id]
	}
	return nil
}

// Nodes returns all nodes in insertion order.
func (g *CodeGraph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *CodeGraph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// OutEdges returns the outgoing edges of id.
func (g *CodeGraph) OutEdges(id string) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.out[id]
}

// InEdges returns the incoming edges of id.
func (g *CodeGraph) InEdges(id string) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.in[id]
}

// NodeCount returns the number of nodes.
func (g *CodeGraph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *CodeGraph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// replaceEdges swaps the whole edge set and rebuilds adjacency. Used by the
// call-resolution pass, which substitutes guessed edges with resolved ones.
func (g *CodeGraph) replaceEdges(edges []*Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges = edges
	g.out = make(map[string][]*Edge, len(g.out))
	g.in = make(map[string][]*Edge, len(g.in))
	for _, e := range edges {
		g.out[e.Src] = append(g.out[e.Src], e)
		g.in[e.Dst] = append(g.in[e.Dst], e)
	}
}

// Subgraph returns a new graph holding exactly the given nodes (re-hydrated
// from current attributes) and only the edges with both endpoints retained.
func (g *CodeGraph) Subgraph(ids []string) *CodeGraph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	sub := New()
	for _, id := range g.order {
		if keep[id] {
			sub.AddNode(*g.nodes[id])
		}
	}
	for _, e := range g.edges {
		if keep[e.Src] && keep[e.Dst] {
			sub.AddEdge(*e)
		}
	}
	return sub
}

// Neighbors performs k rounds of breadth-first expansion from the seeds,
// following edges in both directions across all edge types, then returns the
// induced subgraph of everything reached. The seeds are always kept; k = 0
// yields the seeds alone.
func (g *CodeGraph) Neighbors(seeds []string, k int) *CodeGraph {
	g.mu.RLock()

	keep := make(map[string]bool)
	frontier := make(map[string]bool, len(seeds))
	for _, s := range seeds {
		frontier[s] = true
	}

	for round := 0; round < k; round++ {
		next := make(map[string]bool)
		for id := range frontier {
			keep[id] = true
			for _, e := range g.out[id] {
				keep[e.Dst] = true
				next[e.Dst] = true
			}
			for _, e := range g.in[id] {
				keep[e.Src] = true
				next[e.Src] = true
			}
		}
		frontier = next
	}
	for _, s := range seeds {
		keep[s] = true
	}
	g.mu.RUnlock()

	ids := make([]string, 0, len(keep))
	for _, nid := range g.orderSnapshot() {
		if keep[nid] {
			ids = append(ids, nid)
		}
	}
	return g.Subgraph(ids)
}

func (g *CodeGraph) orderSnapshot() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}
