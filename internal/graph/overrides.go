package graph

import "strings"

type methodKey struct {
	name  string
	arity int
}

// DeriveOverrides adds an Overrides edge from every method to each ancestor
// method sharing its name and parameter count. Ancestors are the transitive
// closure of Extends edges. Matching is by arity only; overloaded ancestor
// methods can over-match, which is an accepted imprecision of a graph built
// without a type checker.
func DeriveOverrides(g *CodeGraph) int {
	// Class methods grouped by the owning class fqn, derived from the
	// method fqn with its trailing ".name(sig)" segment stripped.
	classMethods := make(map[string][]*Node)
	for _, n := range g.Nodes() {
		if n.Kind != NodeMethod || n.FQN == "" {
			continue
		}
		owner := ownerFQN(n.FQN)
		if owner == "" {
			continue
		}
		classMethods[owner] = append(classMethods[owner], n)
	}

	added := 0
	for cls, methods := range classMethods {
		clsNode := g.NodeByFQN(cls)
		if clsNode == nil {
			continue
		}

		ancestors := ancestorSet(g, clsNode.ID)
		if len(ancestors) == 0 {
			continue
		}

		superIndex := make(map[methodKey][]string)
		for anc := range ancestors {
			for _, e := range g.OutEdges(anc) {
				if e.Type != EdgeContains {
					continue
				}
				m := g.Node(e.Dst)
				if m == nil || m.Kind != NodeMethod {
					continue
				}
				key := methodKey{name: m.Name, arity: len(m.Params)}
				superIndex[key] = append(superIndex[key], m.ID)
			}
		}

		for _, m := range methods {
			key := methodKey{name: m.Name, arity: len(m.Params)}
			for _, super := range superIndex[key] {
				g.AddEdge(Edge{Src: m.ID, Dst: super, Type: EdgeOverrides})
				added++
			}
		}
	}
	return added
}

// ancestorSet computes the Extends closure of a class node via iterative
// frontier expansion with a visited set, so inheritance cycles terminate.
func ancestorSet(g *CodeGraph, classID string) map[string]bool {
	seen := make(map[string]bool)
	var queue []string
	for _, e := range g.OutEdges(classID) {
		if e.Type == EdgeExtends {
			queue = append(queue, e.Dst)
		}
	}
	for len(queue) > 0 {
		cur := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, e := range g.OutEdges(cur) {
			if e.Type == EdgeExtends && !seen[e.Dst] {
				queue = append(queue, e.Dst)
			}
		}
	}
	return seen
}

// ownerFQN strips the final ".member(...)" segment from a method fqn.
// The parenthesized signature may itself contain dots (generic or qualified
// parameter types), so the split runs on the fqn with the signature removed.
func ownerFQN(fqn string) string {
	base := fqn
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	j := strings.LastIndexByte(base, '.')
	if j < 0 {
		return ""
	}
	return base[:j]
}
