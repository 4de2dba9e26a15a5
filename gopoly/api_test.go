package gopoly

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEdgeSet(t *testing.T) {
	es := NewEdgeSet(Edge{3, 1}, Edge{0, 2}, Edge{1, 3})
	require.Equal(t, 2, es.Len())
	require.True(t, es.Contains(Edge{3, 1}))
	require.True(t, es.Contains(Edge{1, 3}))
	require.False(t, es.Contains(Edge{0, 1}))
	require.Equal(t, []Edge{{0, 2}, {1, 3}}, es.Edges())

	es.AddAll(NewEdgeSet(Edge{2, 0}, Edge{0, 1}))
	require.Equal(t, []Edge{{0, 1}, {0, 2}, {1, 3}}, es.Edges())

	es.Remove(Edge{2, 0})
	require.Equal(t, "[0-1 1-3]", es.String())
}

func TestEdge(t *testing.T) {
	e := FormEdge(7, 2)
	require.Equal(t, Edge{2, 7}, e)
	require.True(t, e.Contains(7))
	require.Equal(t, VtxID(2), e.Other(7))
	require.Equal(t, VtxID(7), e.Other(2))
	require.Equal(t, Edge{2, 7}, Edge{7, 2}.Canonic())
}
