package libpoly

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
)

// Shape is a polyhedron held as two views that are always mutated together:
// its connectivity (Distance) and its face boundaries (Cycles).
type Shape struct {
	Distance *Distance
	Cycles   Cycles
}

// NewShape pairs the given connectivity and faces, failing if they are inconsistent.
func NewShape(D *Distance, faces Cycles) (*Shape, error) {
	if D == nil {
		return nil, gopoly.ErrNilShape
	}
	X := &Shape{
		Distance: D,
		Cycles:   faces,
	}
	if err := X.Validate(); err != nil {
		return nil, err
	}
	return X, nil
}

// NewShapeFromFaces forms a Shape over numVerts vertices whose edges are the boundary pairs of the given faces.
func NewShapeFromFaces(numVerts int, faces Cycles) (*Shape, error) {
	D := NewDistance(numVerts)
	for _, f := range faces {
		for _, e := range f.Edges() {
			if e[0] == e[1] || !D.HasVertex(e[0]) || !D.HasVertex(e[1]) {
				return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "face %v has bad boundary pair %v", f, e)
			}
			D.Connect(e[0], e[1])
		}
	}
	return NewShape(D, faces)
}

// NewShapeFromSnapshot rebuilds a live Shape from a frozen Snapshot.
func NewShapeFromSnapshot(X *gopoly.Snapshot) (*Shape, error) {
	D, err := NewDistanceFromEdges(X.NumVerts, X.Edges)
	if err != nil {
		return nil, err
	}
	faces := make(Cycles, len(X.Faces))
	for i, f := range X.Faces {
		faces[i] = append(Cycle(nil), f...)
	}
	return NewShape(D, faces)
}

func (X *Shape) NumVerts() int {
	return X.Distance.Len()
}

func (X *Shape) NumEdges() int {
	return X.Distance.EdgeCount()
}

func (X *Shape) NumFaces() int {
	return len(X.Cycles)
}

func (X *Shape) Clone() *Shape {
	return &Shape{
		Distance: X.Distance.Clone(),
		Cycles:   X.Cycles.Clone(),
	}
}

// Validate checks that every face is a simple walk over real edges and that every edge is bounded by
// exactly two faces walking it in opposite directions.
func (X *Shape) Validate() error {
	D := X.Distance
	walked := make(map[gopoly.Edge]int, 2*D.Len())

	for fi, f := range X.Cycles {
		if len(f) < 3 {
			return errors.Wrapf(gopoly.ErrInvalidTopology, "face %d %v has fewer than 3 vertices", fi, f)
		}
		for i, v := range f {
			if !D.HasVertex(v) {
				return errors.Wrapf(gopoly.ErrInvalidTopology, "face %d %v: vertex %d out of range", fi, f, v)
			}
			if f.IndexOf(v) != i {
				return errors.Wrapf(gopoly.ErrInvalidTopology, "face %d %v visits vertex %d twice", fi, f, v)
			}
		}
		for _, e := range f.Edges() {
			if !D.Connected(e[0], e[1]) {
				return errors.Wrapf(gopoly.ErrInvalidTopology, "face %d %v: %v is not an edge", fi, f, e)
			}
			walked[e]++
		}
	}

	for _, e := range D.Edges() {
		fwd := walked[e]
		rev := walked[gopoly.Edge{e[1], e[0]}]
		if fwd != 1 || rev != 1 {
			return errors.Wrapf(gopoly.ErrInvalidTopology, "edge %v walked %d times forward and %d times back", e, fwd, rev)
		}
	}
	return nil
}

// Snapshot returns a value copy of X that shares no memory with it.
func (X *Shape) Snapshot(label string) *gopoly.Snapshot {
	snap := &gopoly.Snapshot{
		Label:    label,
		NumVerts: X.NumVerts(),
		Edges:    X.Distance.Edges(),
		Faces:    make([][]gopoly.VtxID, len(X.Cycles)),
	}
	for i, f := range X.Cycles {
		snap.Faces[i] = append([]gopoly.VtxID(nil), f...)
	}
	return snap
}

// AppendSignature appends an encoding of the relabeling-invariant properties of X:
// vertex, edge and face counts, the sorted degree sequence and the sorted face sizes.
func (X *Shape) AppendSignature(buf []byte) []byte {
	Nv := X.NumVerts()
	buf = binary.AppendUvarint(buf, uint64(Nv))
	buf = binary.AppendUvarint(buf, uint64(X.NumEdges()))
	buf = binary.AppendUvarint(buf, uint64(X.NumFaces()))

	deg := make([]int, Nv)
	for v := range deg {
		deg[v] = X.Distance.Degree(gopoly.VtxID(v))
	}
	sort.Ints(deg)
	for _, d := range deg {
		buf = binary.AppendUvarint(buf, uint64(d))
	}

	sizes := make([]int, len(X.Cycles))
	for i, f := range X.Cycles {
		sizes[i] = len(f)
	}
	sort.Ints(sizes)
	for _, sz := range sizes {
		buf = binary.AppendUvarint(buf, uint64(sz))
	}
	return buf
}

func (X *Shape) Signature() []byte {
	return X.AppendSignature(make([]byte, 0, 16+X.NumVerts()+X.NumFaces()))
}

func (X *Shape) WriteAsString(out io.Writer, opts gopoly.PrintOpts) {
	X.Snapshot(opts.Label).WriteAsString(out, opts)
}

func (X *Shape) String() string {
	return fmt.Sprintf("v=%d,e=%d,f=%d", X.NumVerts(), X.NumEdges(), X.NumFaces())
}
