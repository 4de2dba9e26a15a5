package libpoly

import (
	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
)

// All presets are wound so that each edge is walked in opposite directions by its two faces.

// Pyramid returns an n-gon base (vertices 0..n-1) joined to an apex (vertex n).
func Pyramid(n int) (*Shape, error) {
	if n < 3 {
		return nil, errors.Wrapf(gopoly.ErrBadPreset, "pyramid base must have at least 3 sides, got %d", n)
	}
	apex := gopoly.VtxID(n)
	faces := make(Cycles, 0, n+1)
	faces = append(faces, reversedRing(0, n))
	for i := 0; i < n; i++ {
		faces = append(faces, Cycle{ringID(0, n, i), ringID(0, n, i+1), apex})
	}
	return NewShapeFromFaces(n+1, faces)
}

// Prism returns two n-gons (bottom 0..n-1, top n..2n-1) joined by quads.
func Prism(n int) (*Shape, error) {
	if n < 3 {
		return nil, errors.Wrapf(gopoly.ErrBadPreset, "prism base must have at least 3 sides, got %d", n)
	}
	faces := make(Cycles, 0, n+2)
	faces = append(faces, reversedRing(0, n), ring(n, n))
	for i := 0; i < n; i++ {
		faces = append(faces, Cycle{
			ringID(0, n, i), ringID(0, n, i+1),
			ringID(n, n, i+1), ringID(n, n, i),
		})
	}
	return NewShapeFromFaces(2*n, faces)
}

// Antiprism returns two n-gons (bottom 0..n-1, top n..2n-1) joined by a band of triangles,
// where top vertex n+i sits between bottom vertices i and i+1.
func Antiprism(n int) (*Shape, error) {
	if n < 3 {
		return nil, errors.Wrapf(gopoly.ErrBadPreset, "antiprism base must have at least 3 sides, got %d", n)
	}
	faces := make(Cycles, 0, 2*n+2)
	faces = append(faces, reversedRing(0, n), ring(n, n))
	for i := 0; i < n; i++ {
		faces = append(faces,
			Cycle{ringID(0, n, i), ringID(0, n, i+1), ringID(n, n, i)},
			Cycle{ringID(0, n, i+1), ringID(n, n, i+1), ringID(n, n, i)},
		)
	}
	return NewShapeFromFaces(2*n, faces)
}

// Tetrahedron: 4 vertices, 6 edges (K4), 4 triangles.
func Tetrahedron() *Shape {
	return mustPreset(Pyramid(3))
}

// Cube: 8 vertices, 12 edges, 6 quads.
func Cube() *Shape {
	return mustPreset(Prism(4))
}

// Octahedron: 6 vertices, 12 edges, 8 triangles.
func Octahedron() *Shape {
	return mustPreset(Antiprism(3))
}

// TetrahedronDistance returns the connectivity of Tetrahedron(), the complete graph K4.
func TetrahedronDistance() *Distance {
	return Tetrahedron().Distance
}

func mustPreset(X *Shape, err error) *Shape {
	if err != nil {
		panic(err)
	}
	return X
}

func ringID(base, n, i int) gopoly.VtxID {
	return gopoly.VtxID(base + i%n)
}

func ring(base, n int) Cycle {
	c := make(Cycle, n)
	for i := range c {
		c[i] = ringID(base, n, i)
	}
	return c
}

func reversedRing(base, n int) Cycle {
	c := ring(base, n)
	c.Reverse()
	c.Normalize()
	return c
}
