package libpoly

import (
	"testing"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func requireCounts(t *testing.T, X *Shape, Nv, Ne, Nf int) {
	t.Helper()
	require.Equal(t, Nv, X.NumVerts(), "%v", X)
	require.Equal(t, Ne, X.NumEdges(), "%v", X)
	require.Equal(t, Nf, X.NumFaces(), "%v", X)
	require.NoError(t, X.Validate())
}

// requireContiguous checks that every vertex ID in use lies in 0..NumVerts-1.
func requireContiguous(t *testing.T, X *Shape) {
	t.Helper()
	for _, f := range X.Cycles {
		for _, v := range f {
			require.Less(t, int(v), X.NumVerts())
		}
		requireNoAdjacentDupes(t, f)
	}
}

func requireSameFaces(t *testing.T, expect, actual Cycles) {
	t.Helper()
	require.Len(t, actual, len(expect))
	for i := range expect {
		require.True(t, expect[i].Equal(actual[i]), "face %d: expected %v, got %v", i, expect[i], actual[i])
	}
}

func TestPresets(t *testing.T) {
	requireCounts(t, Tetrahedron(), 4, 6, 4)
	requireCounts(t, Cube(), 8, 12, 6)
	requireCounts(t, Octahedron(), 6, 12, 8)

	X, err := Prism(5)
	require.NoError(t, err)
	requireCounts(t, X, 10, 15, 7)

	X, err = Antiprism(4)
	require.NoError(t, err)
	requireCounts(t, X, 8, 16, 10)

	X, err = Pyramid(5)
	require.NoError(t, err)
	requireCounts(t, X, 6, 10, 6)

	_, err = Pyramid(2)
	require.True(t, errors.Is(err, gopoly.ErrBadPreset))
}

func TestValidate(t *testing.T) {
	faces := Tetrahedron().Cycles.Clone()
	faces[0].Reverse()
	_, err := NewShapeFromFaces(4, faces)
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology), err)

	_, err = NewShapeFromFaces(3, Tetrahedron().Cycles)
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology), err)

	// a face missing from the set leaves its edges walked only once
	_, err = NewShape(TetrahedronDistance(), Tetrahedron().Cycles[1:])
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology), err)
}

func TestSplitVertex(t *testing.T) {
	X := Tetrahedron()
	ring, err := X.SplitVertex(0)
	require.NoError(t, err)
	require.Equal(t, []gopoly.Edge{{0, 4}, {0, 5}, {4, 5}}, ring.Edges())

	control, err := NewDistanceFromEdges(6, []gopoly.Edge{
		{0, 1}, {4, 2}, {5, 3},
		{0, 4}, {4, 5}, {5, 0},
		{1, 2}, {2, 3}, {3, 1},
	})
	require.NoError(t, err)
	require.True(t, X.Distance.Equal(control), "%v", X.Distance)
	requireCounts(t, X, 6, 9, 5)
	require.True(t, X.Cycles[4].Equal(Cycle{0, 5, 4}), "%v", X.Cycles[4])

	require.NoError(t, X.ContractEdges(ring.Edges()))
	require.True(t, X.Distance.Equal(TetrahedronDistance()))
	requireSameFaces(t, Tetrahedron().Cycles, X.Cycles)

	// a degree 4 vertex opens a square
	O := Octahedron()
	ring, err = O.SplitVertex(3)
	require.NoError(t, err)
	require.Equal(t, 4, ring.Len())
	requireCounts(t, O, 9, 16, 9)
}

func TestTruncateRoundTrip(t *testing.T) {
	for _, seed := range []*Shape{Tetrahedron(), Cube(), Octahedron()} {
		X := seed.Clone()
		Nv, Ne, Nf := X.NumVerts(), X.NumEdges(), X.NumFaces()

		added, err := X.Truncate()
		require.NoError(t, err)
		require.Equal(t, 2*Ne, added.Len())
		requireCounts(t, X, 2*Ne, 3*Ne, Nf+Nv)
		requireContiguous(t, X)

		require.NoError(t, X.ContractEdges(added.Edges()))
		require.True(t, X.Distance.Equal(seed.Distance), "%v", X.Distance)
		requireSameFaces(t, seed.Cycles, X.Cycles)
	}
}

func TestAmboExpand(t *testing.T) {
	X := Tetrahedron()
	require.NoError(t, X.Ambo())
	requireCounts(t, X, 6, 12, 8)
	for _, v := range X.Distance.Vertices() {
		require.Equal(t, 4, X.Distance.Degree(v))
	}
	for _, f := range X.Cycles {
		require.Len(t, f, 3)
	}
	require.Equal(t, Octahedron().AppendSignature(nil), X.AppendSignature(nil))

	C := Cube()
	require.NoError(t, C.Ambo())
	requireCounts(t, C, 12, 24, 14)

	E := Tetrahedron()
	require.NoError(t, E.Expand())
	requireCounts(t, E, 12, 24, 14)
	require.Equal(t, C.Signature(), E.Signature())
	require.NotEqual(t, X.AppendSignature(nil), E.AppendSignature(nil))
}

func TestDeleteVertex(t *testing.T) {
	X := Tetrahedron()
	require.NoError(t, X.DeleteVertex(3))
	requireCounts(t, X, 3, 3, 2)

	C := Cube()
	require.NoError(t, C.DeleteVertex(0))
	requireCounts(t, C, 7, 9, 4)
	requireContiguous(t, C)

	// former vertex 6, the corner opposite 0
	require.NoError(t, C.DeleteVertex(5))
	requireCounts(t, C, 6, 6, 2)
	requireContiguous(t, C)
	for _, v := range C.Distance.Vertices() {
		require.Equal(t, 2, C.Distance.Degree(v))
	}
	for _, f := range C.Cycles {
		require.Len(t, f, 6)
	}
}

func TestFailedOpLeavesShape(t *testing.T) {
	X := Cube()
	before := X.Clone()

	_, err := X.SplitVertex(99)
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology), err)

	err = X.DeleteVertex(8)
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology), err)

	err = X.ContractEdges([]gopoly.Edge{{0, 1}, {0, 6}})
	require.True(t, errors.Is(err, gopoly.ErrInvalidTopology), err)

	require.True(t, X.Distance.Equal(before.Distance))
	requireSameFaces(t, before.Cycles, X.Cycles)

	var nilShape *Shape
	require.Equal(t, gopoly.ErrNilShape, nilShape.Ambo())
}

func TestSnapshot(t *testing.T) {
	X := Cube()
	snap := X.Snapshot("C")
	require.Equal(t, "C", snap.Label)
	require.Equal(t, 8, snap.NumVerts)
	require.Len(t, snap.Edges, 12)

	_, err := X.Truncate()
	require.NoError(t, err)
	require.Equal(t, 8, snap.NumVerts)
	require.Len(t, snap.Faces, 6)
	for _, f := range snap.Faces {
		for _, v := range f {
			require.Less(t, int(v), 8)
		}
	}

	Y, err := NewShapeFromSnapshot(snap)
	require.NoError(t, err)
	require.True(t, Y.Distance.Equal(Cube().Distance))
	requireSameFaces(t, Cube().Cycles, Y.Cycles)
}
