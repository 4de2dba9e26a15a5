package conway

import (
	"testing"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	X, err := Parse("atT")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "t"}, X.Ops)
	require.Equal(t, "T", X.Seed.Kind)
	require.Equal(t, "atT", X.String())

	X, err = Parse(" e P 12 ")
	require.NoError(t, err)
	require.Equal(t, 12, X.Seed.Sides)
	require.Equal(t, "eP12", X.String())

	X, err = Parse("A1024")
	require.NoError(t, err)
	require.Equal(t, MaxSeedSides, X.Seed.Sides)

	for _, expr := range []string{"", "x", "P", "P2", "T3", "Ta", "tt", "P1025", "aY4000000000", "A99999999999999999999"} {
		_, err = Parse(expr)
		require.True(t, errors.Is(err, gopoly.ErrBadExpr), "%q: %v", expr, err)
	}
}

func TestEval(t *testing.T) {
	tests := []struct {
		expr       string
		Nv, Ne, Nf int
	}{
		{"T", 4, 6, 4},
		{"C", 8, 12, 6},
		{"O", 6, 12, 8},
		{"P5", 10, 15, 7},
		{"A4", 8, 16, 10},
		{"Y6", 7, 12, 7},
		{"tT", 12, 18, 8},
		{"aT", 6, 12, 8},
		{"atT", 18, 36, 20},
		{"tO", 24, 36, 14},
		{"eC", 24, 48, 26},
	}
	for _, test := range tests {
		X, err := Eval(test.expr)
		require.NoError(t, err, test.expr)
		require.Equal(t, test.Nv, X.NumVerts(), test.expr)
		require.Equal(t, test.Ne, X.NumEdges(), test.expr)
		require.Equal(t, test.Nf, X.NumFaces(), test.expr)
	}
}
