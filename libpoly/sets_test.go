package libpoly

import (
	"testing"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/stretchr/testify/require"
)

func TestSignatureSet(t *testing.T) {
	set := NewSignatureSet()
	defer set.Close()

	sig := Cube().AppendSignature(nil)
	require.True(t, set.TryAdd(sig))
	require.False(t, set.TryAdd(sig))
	require.True(t, set.TryAdd(Octahedron().AppendSignature(nil)))

	set.Close()
	require.True(t, set.TryAdd(sig))
}

func TestDropDupes(t *testing.T) {
	ambo := Tetrahedron()
	require.NoError(t, ambo.Ambo())

	dupes := NewDropDupes()
	defer dupes.Close()

	kept := gopoly.StreamSnapshots(
		Octahedron().Snapshot("O"),
		ambo.Snapshot("aT"),
		Cube().Snapshot("C"),
		&gopoly.Snapshot{Label: "broken", NumVerts: 3, Edges: []gopoly.Edge{{0, 1}}},
	).AddTo(dupes).Collect()

	require.Len(t, kept, 2)
	require.Equal(t, "O", kept[0].Label)
	require.Equal(t, "C", kept[1].Label)
}
