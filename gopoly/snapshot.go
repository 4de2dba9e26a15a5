package gopoly

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
)

// Snapshot is a frozen value copy of a polyhedron.
//
// Nothing in a Snapshot aliases the live structure it was taken from, so it can be handed to
// a renderer or exporter running on another goroutine while the engine keeps mutating.
type Snapshot struct {
	Label    string
	NumVerts int
	Edges    []Edge    // canonic, ascending
	Faces    [][]VtxID // circular boundary walks, consistently wound
}

// Degrees returns the number of edges incident to each vertex.
func (X *Snapshot) Degrees() []int {
	deg := make([]int, X.NumVerts)
	for _, e := range X.Edges {
		deg[e[0]]++
		deg[e[1]]++
	}
	return deg
}

func (X *Snapshot) GetInfo() ShapeInfo {
	info := ShapeInfo{
		NumVerts: X.NumVerts,
		NumEdges: len(X.Edges),
		NumFaces: len(X.Faces),
	}
	for _, d := range X.Degrees() {
		if d > info.MaxDegree {
			info.MaxDegree = d
		}
	}
	for _, f := range X.Faces {
		if len(f) > info.MaxFaceSize {
			info.MaxFaceSize = len(f)
		}
	}
	return info
}

func (X *Snapshot) WriteAsString(out io.Writer, opts PrintOpts) {
	fmt.Fprintf(out, "%q,v=%d,e=%d,f=%d,", X.Label, X.NumVerts, len(X.Edges), len(X.Faces))

	if opts.Edges {
		out.Write(quote)
		for i, e := range X.Edges {
			if i > 0 {
				out.Write(space)
			}
			fmt.Fprintf(out, "%d-%d", e[0], e[1])
		}
		out.Write(quote)
		out.Write(comma)
	}
	if opts.Faces {
		out.Write(quote)
		for i, f := range X.Faces {
			if i > 0 {
				out.Write(space)
			}
			fmt.Fprint(out, f)
		}
		out.Write(quote)
		out.Write(comma)
	}
	if opts.Degrees {
		fmt.Fprint(out, X.Degrees())
		out.Write(comma)
	}
}

var (
	quote = []byte("\"")
	space = []byte(" ")
	comma = []byte(",")
)

// AppendEncoding appends a binary encoding of X to buf.
//
// Format (uvarints):
//
//	len(Label), Label bytes
//	NumVerts
//	NumEdges
//	<1..NumEdges>
//	    Va, Vb
//	NumFaces
//	<1..NumFaces>
//	    FaceLen
//	    <1..FaceLen> VtxID
func (X *Snapshot) AppendEncoding(buf []byte) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(X.Label)))
	buf = append(buf, X.Label...)
	buf = binary.AppendUvarint(buf, uint64(X.NumVerts))
	buf = binary.AppendUvarint(buf, uint64(len(X.Edges)))
	for _, e := range X.Edges {
		buf = binary.AppendUvarint(buf, uint64(e[0]))
		buf = binary.AppendUvarint(buf, uint64(e[1]))
	}
	buf = binary.AppendUvarint(buf, uint64(len(X.Faces)))
	for _, f := range X.Faces {
		buf = binary.AppendUvarint(buf, uint64(len(f)))
		for _, v := range f {
			buf = binary.AppendUvarint(buf, uint64(v))
		}
	}
	return buf
}

type encReader struct {
	buf []byte
	err error
}

func (rdr *encReader) next() uint64 {
	if rdr.err != nil {
		return 0
	}
	val, n := binary.Uvarint(rdr.buf)
	if n <= 0 {
		rdr.err = ErrBadEncoding
		return 0
	}
	rdr.buf = rdr.buf[n:]
	return val
}

// count reads a length.  Every counted item takes at least one byte, so a length past the bytes left is bad.
func (rdr *encReader) count() int {
	val := rdr.next()
	if rdr.err == nil && val > uint64(len(rdr.buf)) {
		rdr.err = ErrBadEncoding
	}
	if rdr.err != nil {
		return 0
	}
	return int(val)
}

// vtx reads a vertex ID that must be below numVerts.
func (rdr *encReader) vtx(numVerts uint64) VtxID {
	val := rdr.next()
	if rdr.err == nil && val >= numVerts {
		rdr.err = ErrBadEncoding
	}
	if rdr.err != nil {
		return 0
	}
	return VtxID(val)
}

// InitFromEncoding assigns X from an encoding made by AppendEncoding().
func (X *Snapshot) InitFromEncoding(enc []byte) error {
	rdr := encReader{buf: enc}

	labelLen := rdr.count()
	if rdr.err != nil {
		return errors.Wrap(rdr.err, "reading label")
	}
	X.Label = string(rdr.buf[:labelLen])
	rdr.buf = rdr.buf[labelLen:]

	Nv := rdr.next()
	if rdr.err == nil && Nv > math.MaxUint32 {
		rdr.err = ErrBadEncoding
	}
	if rdr.err != nil {
		return errors.Wrapf(rdr.err, "reading vertex count %d", Nv)
	}
	X.NumVerts = int(Nv)

	Ne := rdr.count()
	if rdr.err != nil {
		return errors.Wrap(rdr.err, "reading edges")
	}
	X.Edges = make([]Edge, Ne)
	for i := range X.Edges {
		a := rdr.vtx(Nv)
		b := rdr.vtx(Nv)
		if rdr.err != nil {
			return errors.Wrapf(rdr.err, "reading edge %d", i)
		}
		X.Edges[i] = FormEdge(a, b)
	}

	Nf := rdr.count()
	if rdr.err != nil {
		return errors.Wrap(rdr.err, "reading faces")
	}
	X.Faces = make([][]VtxID, Nf)
	for i := range X.Faces {
		face := make([]VtxID, rdr.count())
		for j := range face {
			face[j] = rdr.vtx(Nv)
		}
		if rdr.err != nil {
			return errors.Wrapf(rdr.err, "reading face %d", i)
		}
		X.Faces[i] = face
	}
	if len(rdr.buf) != 0 {
		return errors.Wrap(ErrBadEncoding, "trailing bytes")
	}
	return nil
}
