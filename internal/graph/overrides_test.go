package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for DeriveOverrides:
// - Sub.f() overrides Base.f() when names and arities match
// - No edge when arities differ
// - Matching is transitive across the Extends chain
// - Overloaded ancestor methods all match the same arity (documented over-match)
// - Inheritance cycles terminate

func addClass(g *CodeGraph, fqn string) string {
	id := "java::" + fqn
	g.AddNode(Node{ID: id, Kind: NodeClass, Name: fqn[strings.LastIndexByte(fqn, '.')+1:], FQN: fqn})
	return id
}

func addMethod(g *CodeGraph, classID, classFQN, name string, params ...string) string {
	sig := "(" + strings.Join(params, ",") + ")"
	fqn := classFQN + "." + name + sig
	id := "java::" + fqn
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = Param{Name: "p", Type: p}
	}
	g.AddNode(Node{ID: id, Kind: NodeMethod, Name: name, FQN: fqn, Params: ps})
	g.AddEdge(Edge{Src: classID, Dst: id, Type: EdgeContains})
	return id
}

func hasEdge(g *CodeGraph, src, dst string, typ EdgeType) bool {
	for _, e := range g.OutEdges(src) {
		if e.Dst == dst && e.Type == typ {
			return true
		}
	}
	return false
}

func TestDeriveOverrides_MatchingArity(t *testing.T) {
	t.Parallel()

	g := New()
	base := addClass(g, "com.acme.Base")
	sub := addClass(g, "com.acme.Sub")
	g.AddEdge(Edge{Src: sub, Dst: base, Type: EdgeExtends})

	baseF := addMethod(g, base, "com.acme.Base", "f")
	subF := addMethod(g, sub, "com.acme.Sub", "f")

	added := DeriveOverrides(g)
	assert.Equal(t, 1, added)
	assert.True(t, hasEdge(g, subF, baseF, EdgeOverrides))
}

func TestDeriveOverrides_ArityMismatch(t *testing.T) {
	t.Parallel()

	g := New()
	base := addClass(g, "com.acme.Base")
	sub := addClass(g, "com.acme.Sub")
	g.AddEdge(Edge{Src: sub, Dst: base, Type: EdgeExtends})

	addMethod(g, base, "com.acme.Base", "f", "int")
	subF := addMethod(g, sub, "com.acme.Sub", "f")

	added := DeriveOverrides(g)
	assert.Equal(t, 0, added)
	assert.Empty(t, overridesOf(g, subF))
}

func TestDeriveOverrides_TransitiveAncestors(t *testing.T) {
	t.Parallel()

	g := New()
	root := addClass(g, "com.acme.Root")
	mid := addClass(g, "com.acme.Mid")
	leaf := addClass(g, "com.acme.Leaf")
	g.AddEdge(Edge{Src: leaf, Dst: mid, Type: EdgeExtends})
	g.AddEdge(Edge{Src: mid, Dst: root, Type: EdgeExtends})

	rootF := addMethod(g, root, "com.acme.Root", "f")
	leafF := addMethod(g, leaf, "com.acme.Leaf", "f")

	DeriveOverrides(g)
	assert.True(t, hasEdge(g, leafF, rootF, EdgeOverrides))
}

func TestDeriveOverrides_OverloadedAncestorOverMatches(t *testing.T) {
	t.Parallel()

	g := New()
	base := addClass(g, "com.acme.Base")
	sub := addClass(g, "com.acme.Sub")
	g.AddEdge(Edge{Src: sub, Dst: base, Type: EdgeExtends})

	// Two single-argument overloads in the ancestor; arity-only matching
	// links both.
	f1 := addMethod(g, base, "com.acme.Base", "f", "int")
	f2 := addMethod(g, base, "com.acme.Base", "f", "String")
	subF := addMethod(g, sub, "com.acme.Sub", "f", "long")

	added := DeriveOverrides(g)
	assert.Equal(t, 2, added)
	assert.True(t, hasEdge(g, subF, f1, EdgeOverrides))
	assert.True(t, hasEdge(g, subF, f2, EdgeOverrides))
}

func TestDeriveOverrides_CycleTerminates(t *testing.T) {
	t.Parallel()

	g := New()
	a := addClass(g, "com.acme.A")
	b := addClass(g, "com.acme.B")
	g.AddEdge(Edge{Src: a, Dst: b, Type: EdgeExtends})
	g.AddEdge(Edge{Src: b, Dst: a, Type: EdgeExtends})

	aF := addMethod(g, a, "com.acme.A", "f")
	bF := addMethod(g, b, "com.acme.B", "f")

	require.NotPanics(t, func() { DeriveOverrides(g) })
	assert.True(t, hasEdge(g, aF, bF, EdgeOverrides))
	assert.True(t, hasEdge(g, bF, aF, EdgeOverrides))
}

func overridesOf(g *CodeGraph, id string) []string {
	var out []string
	for _, e := range g.OutEdges(id) {
		if e.Type == EdgeOverrides {
			out = append(out, e.Dst)
		}
	}
	return out
}
