package libpoly

import (
	"testing"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func requireNoAdjacentDupes(t *testing.T, c Cycle) {
	for i := range c {
		require.NotEqual(t, c.At(i), c.At(i+1), "face %v", c)
	}
}

func TestCycleFromEdges(t *testing.T) {
	orders := [][]gopoly.Edge{
		{{0, 1}, {1, 2}, {2, 0}},
		{{2, 0}, {0, 1}, {1, 2}},
		{{1, 2}, {0, 2}, {1, 0}},
		{{2, 1}, {1, 0}, {0, 2}},
	}
	for _, edges := range orders {
		face, err := CycleFromEdges(edges)
		require.NoError(t, err)
		require.Len(t, face, 3)
		require.True(t, face.Equal(Cycle{0, 1, 2}) || face.Equal(Cycle{0, 2, 1}), "%v", face)
	}

	face, err := CycleFromEdges([]gopoly.Edge{{2, 3}, {0, 1}, {3, 0}, {1, 2}})
	require.NoError(t, err)
	require.Equal(t, Cycle{2, 3, 0, 1}, face)

	malformed := [][]gopoly.Edge{
		{{0, 1}, {2, 3}},
		{{0, 1}, {1, 2}, {2, 3}},
		{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}},
		{{0, 1}, {1, 1}, {1, 0}},
		{{0, 1}, {0, 2}, {0, 3}, {1, 2}},
	}
	for _, edges := range malformed {
		_, err := CycleFromEdges(edges)
		require.True(t, errors.Is(err, gopoly.ErrMalformedBoundary), "%v: %v", edges, err)
	}
}

func TestCycleReplace(t *testing.T) {
	c := Cycle{0, 1, 2, 3}
	c.Replace(1, 0)
	require.Equal(t, Cycle{0, 2, 3}, c)

	c = Cycle{1, 2, 3, 0}
	c.Replace(0, 1)
	require.Equal(t, Cycle{1, 2, 3}, c)

	// merging every vertex of a face into one leaves a single id
	c = Cycle{4, 5, 6}
	c.Replace(5, 4)
	c.Replace(6, 4)
	require.Equal(t, Cycle{4}, c)

	faces := Cycles{{0, 1, 2}, {0, 2, 3}, {3, 2, 1, 4}}
	faces.Replace(2, 1)
	for _, f := range faces {
		requireNoAdjacentDupes(t, f)
	}
	require.Equal(t, Cycle{3, 1, 4}, faces[2])
	require.Len(t, faces.Prune(), 2)
}

func TestCycleDelete(t *testing.T) {
	c := Cycle{0, 4, 2, 5}
	c.Delete(2)
	require.Equal(t, Cycle{0, 3, 4}, c)

	faces := Cycles{{0, 1, 2}, {3, 1, 4}}
	faces.Delete(1)
	require.Equal(t, Cycles{{0, 1}, {2, 3}}, faces)
	require.Empty(t, faces.Prune())
}

func TestCycleWalk(t *testing.T) {
	c := Cycle{5, 6, 7}
	require.Equal(t, gopoly.VtxID(7), c.At(-1))
	require.Equal(t, gopoly.VtxID(6), c.At(4))
	require.True(t, c.HasDirected(7, 5))
	require.False(t, c.HasDirected(5, 7))
	require.Equal(t, []gopoly.Edge{{5, 6}, {6, 7}, {7, 5}}, c.Edges())

	d := Cycle{3, 1, 2}
	d.Normalize()
	require.Equal(t, Cycle{1, 2, 3}, d)
	require.True(t, d.Equal(Cycle{2, 3, 1}))
	require.False(t, d.Equal(Cycle{3, 2, 1}))

	d.Reverse()
	require.Equal(t, Cycle{3, 2, 1}, d)

	faces := Cycles{{0, 1, 2}, {0, 2, 3}, {1, 2, 3}}
	require.Equal(t, []int{0, 2}, faces.Incident(1))
}
