package libpoly

import (
	"strings"
	"testing"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func hexagonDistance(t *testing.T) *Distance {
	D, err := NewDistanceFromEdges(6, []gopoly.Edge{
		{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 0},
	})
	require.NoError(t, err)
	return D
}

func TestDistanceBasics(t *testing.T) {
	D := TetrahedronDistance()
	require.Equal(t, 4, D.Len())
	require.Equal(t, 6, D.EdgeCount())
	for _, v := range D.Vertices() {
		require.Equal(t, 3, D.Degree(v))
		require.False(t, D.Connected(v, v))
	}
	require.Equal(t, []gopoly.VtxID{0, 1, 3}, D.Connections(2))

	v := D.InsertVertex()
	require.Equal(t, gopoly.VtxID(4), v)
	require.Equal(t, 0, D.Degree(v))
	require.Equal(t, 6, D.EdgeCount())
	D.Connect(4, 2)
	require.True(t, D.Connected(2, 4))
	D.Disconnect(2, 4)
	require.False(t, D.Connected(4, 2))

	_, err := NewDistanceFromEdges(3, []gopoly.Edge{{0, 3}})
	require.True(t, errors.Is(err, gopoly.ErrBadEdge))
}

func TestDistanceDeleteVertex(t *testing.T) {
	D := hexagonDistance(t)
	require.NoError(t, D.DeleteVertex(2))
	require.Equal(t, 5, D.Len())
	require.Equal(t, []gopoly.Edge{{0, 1}, {0, 4}, {2, 3}, {3, 4}}, D.Edges())

	err := D.DeleteVertex(5)
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology))
	require.Equal(t, 5, D.Len())
}

func TestDistanceContractEdges(t *testing.T) {
	D := TetrahedronDistance()
	ctr, err := D.ContractEdges([]gopoly.Edge{{1, 0}})
	require.NoError(t, err)
	require.Equal(t, []gopoly.VtxID{0, 0, 2, 3}, ctr.Rep)
	require.Equal(t, []gopoly.VtxID{0, 0, 1, 2}, ctr.Remap)
	require.Equal(t, []gopoly.VtxID{1}, ctr.Gone)
	require.Equal(t, []gopoly.Edge{{0, 1}, {0, 2}, {1, 2}}, D.Edges())

	// the order of the given edges has no effect
	A := hexagonDistance(t)
	B := hexagonDistance(t)
	_, err = A.ContractEdges([]gopoly.Edge{{4, 5}, {5, 0}})
	require.NoError(t, err)
	_, err = B.ContractEdges([]gopoly.Edge{{0, 5}, {5, 4}})
	require.NoError(t, err)
	require.True(t, A.Equal(B))
	require.Equal(t, []gopoly.Edge{{0, 1}, {0, 3}, {1, 2}, {2, 3}}, A.Edges())

	// a missing edge refuses the whole contraction
	C := hexagonDistance(t)
	_, err = C.ContractEdges([]gopoly.Edge{{0, 1}, {0, 3}})
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology))
	require.True(t, C.Equal(hexagonDistance(t)))
}

func TestDistanceGraphviz(t *testing.T) {
	D := TetrahedronDistance()
	b := strings.Builder{}
	b.WriteString("graph G{\nlayout=neato\n")
	for v := 0; v < 4; v++ {
		b.WriteString("\tV" + string(rune('0'+v)) + " [color=\"red\"];\n")
	}
	for _, e := range []string{"0 -- V1", "0 -- V2", "0 -- V3", "1 -- V2", "1 -- V3", "2 -- V3"} {
		b.WriteString("\tV" + e + ";\n")
	}
	b.WriteString("}")
	require.Equal(t, b.String(), D.Graphviz())

	// degree 4 maps to green
	require.Contains(t, Octahedron().Distance.Graphviz(), "\tV0 [color=\"green\"];\n")
}
