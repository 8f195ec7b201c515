package graph

import "strings"

// ResolveCalls rewrites guessed Calls edges to their best-effort targets.
//
// For each guessed edge the pass uses the call-site metadata recorded by the
// front end (qualifier text, enclosing package, visible imports). A qualifier
// naming a field of the caller's class resolves through the field's declared
// type; a capitalized qualifier is treated as a type reference; no qualifier
// means the caller's own class. Once a target class is found, the edge is
// replaced by one resolved edge per contained method with the callee's simple
// name; overloads stay ambiguous on purpose, since no argument types are
// available to pick between them. Edges that resolve to nothing are left
// unchanged.
func ResolveCalls(g *CodeGraph) int {
	classBySimple := make(map[string][]*Node)
	for _, n := range g.Nodes() {
		if n.Kind != NodeClass || n.Name == "" {
			continue
		}
		simple := n.Name
		if i := strings.LastIndexByte(simple, '.'); i >= 0 {
			simple = simple[i+1:]
		}
		classBySimple[simple] = append(classBySimple[simple], n)
	}

	findClassFQN := func(simple, pkg string, imports []string) string {
		for _, imp := range imports {
			if imp == simple || strings.HasSuffix(imp, "."+simple) {
				return imp
			}
		}
		if pkg != "" {
			if n := g.NodeByFQN(pkg + "." + simple); n != nil {
				return pkg + "." + simple
			}
		}
		for _, n := range classBySimple[simple] {
			return n.FQN
		}
		return ""
	}

	resolved := 0
	var rewritten []*Edge
	for _, e := range g.Edges() {
		if e.Type != EdgeCalls || e.Call == nil || e.Call.Resolved {
			rewritten = append(rewritten, e)
			continue
		}

		callee := ""
		if t := g.Node(e.Dst); t != nil && t.Name != "" {
			callee = t.Name
		} else {
			callee = simpleNameFromID(e.Dst)
		}

		targetFQN := ""
		if q := e.Call.Qualifier; q != "" {
			if caller := enclosingClass(g, e.Src); caller != nil {
				if caller.Extras != nil {
					if ftype, ok := caller.Extras.Fields[q]; ok && ftype != "" {
						targetFQN = findClassFQN(ftype, e.Call.Package, e.Call.Imports)
					}
				}
			}
			if targetFQN == "" && isCapitalized(q) {
				targetFQN = findClassFQN(q, e.Call.Package, e.Call.Imports)
			}
		} else if caller := enclosingClass(g, e.Src); caller != nil {
			targetFQN = caller.FQN
		}

		if targetFQN == "" || callee == "" {
			rewritten = append(rewritten, e)
			continue
		}
		target := g.NodeByFQN(targetFQN)
		if target == nil {
			rewritten = append(rewritten, e)
			continue
		}

		var matches []string
		for _, ce := range g.OutEdges(target.ID) {
			if ce.Type != EdgeContains {
				continue
			}
			m := g.Node(ce.Dst)
			if m != nil && m.Kind == NodeMethod && m.Name == callee {
				matches = append(matches, m.ID)
			}
		}
		if len(matches) == 0 {
			rewritten = append(rewritten, e)
			continue
		}

		for _, mid := range matches {
			rewritten = append(rewritten, &Edge{
				Src:  e.Src,
				Dst:  mid,
				Type: EdgeCalls,
				Call: &CallMeta{Resolved: true},
			})
		}
		resolved++
	}

	g.replaceEdges(rewritten)
	return resolved
}

// enclosingClass walks the incoming Contains edge of a method node to its
// owning class.
func enclosingClass(g *CodeGraph, methodID string) *Node {
	for _, e := range g.InEdges(methodID) {
		if e.Type != EdgeContains {
			continue
		}
		if n := g.Node(e.Src); n != nil && n.Kind == NodeClass {
			return n
		}
	}
	return nil
}

func isCapitalized(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

// simpleNameFromID recovers the callee simple name from a guessed edge target
// id of the form "lang::Enclosing.callee".
func simpleNameFromID(id string) string {
	s := id
	if i := strings.Index(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
