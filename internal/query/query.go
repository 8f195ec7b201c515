// Package query selects nodes from a code graph with conjunctive predicates
// and returns induced subgraphs, optionally expanded by k-hop neighborhoods.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"codegraph/internal/graph"
)

// Filter is a conjunctive predicate specification. Zero-valued fields do not
// constrain the match; every set field must hold for a node to be selected.
type Filter struct {
	// Text matches as a case-insensitive substring of the node's name,
	// fqn, any annotation name, or file path.
	Text string

	// Kind requires kind equality.
	Kind graph.NodeKind

	// NameRegex matches against the node's name or fqn.
	NameRegex string

	// FileRegex matches against the node's file path.
	FileRegex string

	// AnnotationsAny requires a non-empty intersection with the node's
	// annotation names, compared exactly.
	AnnotationsAny []string

	// AnnotationTextsAny requires some rendered annotation text to start
	// with one of the given prefixes, tolerating argument text.
	AnnotationTextsAny []string

	// ExtendsSuffix requires an outgoing Extends edge whose target's name
	// or fqn ends with the suffix.
	ExtendsSuffix string

	// ImplementsSuffix requires an outgoing Implements edge whose target's
	// name or fqn ends with the suffix.
	ImplementsSuffix string

	// CallsContains requires an outgoing Calls edge whose target fqn or
	// name contains the text, ignoring case.
	CallsContains string

	// PathRegex matches against any of the route's combined paths.
	PathRegex string

	// Verbs requires a non-empty intersection with the route's HTTP methods.
	Verbs []string

	// Produces and Consumes require the given media type to appear in the
	// route's produces/consumes lists.
	Produces string
	Consumes string

	// HasPathVariables, when set, requires the route's in-path variable
	// list to be non-empty (true) or empty (false).
	HasPathVariables *bool

	// Neighbors expands the matched set by this many hops before inducing
	// the result subgraph. Zero returns the matches alone.
	Neighbors int
}

// Run evaluates the filter against every node and returns the induced
// subgraph of the matches, expanded by Filter.Neighbors hops when positive.
// A filter that matches nothing yields an empty graph.
func Run(g *graph.CodeGraph, f Filter) (*graph.CodeGraph, error) {
	m, err := newMatcher(f)
	if err != nil {
		return nil, err
	}

	var seeds []string
	for _, n := range g.Nodes() {
		if m.matches(g, n) {
			seeds = append(seeds, n.ID)
		}
	}

	if f.Neighbors > 0 {
		return g.Neighbors(seeds, f.Neighbors), nil
	}
	return g.Subgraph(seeds), nil
}

type matcher struct {
	f         Filter
	nameRe    *regexp.Regexp
	fileRe    *regexp.Regexp
	pathRe    *regexp.Regexp
	verbs     map[string]bool
	annoNames map[string]bool
}

func newMatcher(f Filter) (*matcher, error) {
	m := &matcher{f: f}

	var err error
	if f.NameRegex != "" {
		if m.nameRe, err = regexp.Compile(f.NameRegex); err != nil {
			return nil, fmt.Errorf("name regex: %w", err)
		}
	}
	if f.FileRegex != "" {
		if m.fileRe, err = regexp.Compile(f.FileRegex); err != nil {
			return nil, fmt.Errorf("file regex: %w", err)
		}
	}
	if f.PathRegex != "" {
		if m.pathRe, err = regexp.Compile(f.PathRegex); err != nil {
			return nil, fmt.Errorf("path regex: %w", err)
		}
	}
	if len(f.Verbs) > 0 {
		m.verbs = make(map[string]bool, len(f.Verbs))
		for _, v := range f.Verbs {
			m.verbs[strings.ToUpper(v)] = true
		}
	}
	if len(f.AnnotationsAny) > 0 {
		m.annoNames = make(map[string]bool, len(f.AnnotationsAny))
		for _, a := range f.AnnotationsAny {
			m.annoNames[a] = true
		}
	}
	return m, nil
}

func (m *matcher) matches(g *graph.CodeGraph, n *graph.Node) bool {
	if m.f.Kind != "" && n.Kind != m.f.Kind {
		return false
	}
	if m.f.Text != "" && !matchesText(n, m.f.Text) {
		return false
	}
	if m.nameRe != nil && !m.nameRe.MatchString(n.Name) && !m.nameRe.MatchString(n.FQN) {
		return false
	}
	if m.fileRe != nil && !m.fileRe.MatchString(n.File) {
		return false
	}
	if m.annoNames != nil && !intersectsExact(n.Annotations, m.annoNames) {
		return false
	}
	if len(m.f.AnnotationTextsAny) > 0 && !anyTextPrefix(n, m.f.AnnotationTextsAny) {
		return false
	}
	if m.f.ExtendsSuffix != "" && !hasEdgeToSuffix(g, n.ID, graph.EdgeExtends, m.f.ExtendsSuffix) {
		return false
	}
	if m.f.ImplementsSuffix != "" && !hasEdgeToSuffix(g, n.ID, graph.EdgeImplements, m.f.ImplementsSuffix) {
		return false
	}
	if m.f.CallsContains != "" && !callsContaining(g, n.ID, m.f.CallsContains) {
		return false
	}
	return m.matchesRoute(n)
}

func (m *matcher) matchesRoute(n *graph.Node) bool {
	wantsRoute := m.pathRe != nil || m.verbs != nil ||
		m.f.Produces != "" || m.f.Consumes != "" || m.f.HasPathVariables != nil
	if !wantsRoute {
		return true
	}

	var route *graph.RouteInfo
	if n.Extras != nil {
		route = n.Extras.HTTP
	}
	if route == nil {
		return false
	}

	if m.pathRe != nil && !anyMatch(route.CombinedPaths, m.pathRe) {
		return false
	}
	if m.verbs != nil && !intersectsUpper(route.Methods, m.verbs) {
		return false
	}
	if m.f.Produces != "" && !containsString(route.Produces, m.f.Produces) {
		return false
	}
	if m.f.Consumes != "" && !containsString(route.Consumes, m.f.Consumes) {
		return false
	}
	if m.f.HasPathVariables != nil && (len(route.PathVarsInCombined) > 0) != *m.f.HasPathVariables {
		return false
	}
	return true
}

// matchesText compares case-insensitively across name, fqn, file path, and
// annotation names.
func matchesText(n *graph.Node, text string) bool {
	needle := strings.ToLower(text)
	if containsFold(n.Name, needle) || containsFold(n.FQN, needle) || containsFold(n.File, needle) {
		return true
	}
	for _, a := range n.Annotations {
		if containsFold(a, needle) {
			return true
		}
	}
	return false
}

// containsFold reports whether s contains needle ignoring case. needle must
// already be lower-cased.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

func anyTextPrefix(n *graph.Node, prefixes []string) bool {
	if n.Extras == nil {
		return false
	}
	for _, rendered := range n.Extras.Texts() {
		for _, p := range prefixes {
			if strings.HasPrefix(rendered, p) {
				return true
			}
		}
	}
	return false
}

func hasEdgeToSuffix(g *graph.CodeGraph, id string, edgeType graph.EdgeType, suffix string) bool {
	for _, e := range g.OutEdges(id) {
		if e.Type != edgeType {
			continue
		}
		target := g.Node(e.Dst)
		if target == nil {
			continue
		}
		if strings.HasSuffix(target.Name, suffix) || strings.HasSuffix(target.FQN, suffix) {
			return true
		}
	}
	return false
}

func callsContaining(g *graph.CodeGraph, id, text string) bool {
	needle := strings.ToLower(text)
	for _, e := range g.OutEdges(id) {
		if e.Type != graph.EdgeCalls {
			continue
		}
		if target := g.Node(e.Dst); target != nil {
			if containsFold(target.FQN, needle) || containsFold(target.Name, needle) {
				return true
			}
			continue
		}
		if containsFold(e.Dst, needle) {
			return true
		}
	}
	return false
}

func intersectsExact(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[v] {
			return true
		}
	}
	return false
}

func intersectsUpper(values []string, set map[string]bool) bool {
	for _, v := range values {
		if set[strings.ToUpper(v)] {
			return true
		}
	}
	return false
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func anyMatch(values []string, re *regexp.Regexp) bool {
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}
