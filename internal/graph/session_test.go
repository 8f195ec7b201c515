package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_GraphBeforeBuild(t *testing.T) {
	t.Parallel()

	s := NewSession()
	_, err := s.Graph()
	assert.ErrorIs(t, err, ErrNoGraph)
}

func TestSession_SetAndGet(t *testing.T) {
	t.Parallel()

	s := NewSession()
	g := New()
	g.AddNode(Node{ID: "a", Kind: NodeClass})
	s.SetGraph(g)

	got, err := s.Graph()
	require.NoError(t, err)
	assert.Same(t, g, got)
}
