package graph

import (
	"errors"
	"sync"
)

// ErrNoGraph is returned when a session is queried before a graph has been
// attached. This is a caller precondition violation, unlike parse failures
// and unresolved references, which the build absorbs.
var ErrNoGraph = errors.New("no graph loaded")

// Session owns at most one built graph. It replaces ad hoc global registries:
// callers hold a session and pass it to whatever needs the graph.
type Session struct {
	mu sync.RWMutex
	g  *CodeGraph
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{}
}

// SetGraph attaches a built graph, replacing any previous one.
func (s *Session) SetGraph(g *CodeGraph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g = g
}

// Graph returns the attached graph or ErrNoGraph.
func (s *Session) Graph() (*CodeGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.g == nil {
		return nil, ErrNoGraph
	}
	return s.g, nil
}
