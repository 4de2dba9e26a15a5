package libpoly

import (
	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
)

// Cycle is a face boundary: a circular walk of vertex IDs.
type Cycle []gopoly.VtxID

// Cycles holds every face of a polyhedron.
type Cycles []Cycle

func (c Cycle) Len() int {
	return len(c)
}

// At returns the i-th vertex of c, wrapping modulo its length (negative i counts back from the end).
func (c Cycle) At(i int) gopoly.VtxID {
	N := len(c)
	i %= N
	if i < 0 {
		i += N
	}
	return c[i]
}

func (c Cycle) Contains(v gopoly.VtxID) bool {
	return c.IndexOf(v) >= 0
}

// IndexOf returns the position of v in c or -1.
func (c Cycle) IndexOf(v gopoly.VtxID) int {
	for i, vi := range c {
		if vi == v {
			return i
		}
	}
	return -1
}

// Edges returns the directed boundary pairs of c (including the wraparound pair).
func (c Cycle) Edges() []gopoly.Edge {
	edges := make([]gopoly.Edge, len(c))
	for i, v := range c {
		edges[i] = gopoly.Edge{v, c.At(i + 1)}
	}
	return edges
}

// HasDirected returns true if c walks from a directly to b.
func (c Cycle) HasDirected(a, b gopoly.VtxID) bool {
	i := c.IndexOf(a)
	return i >= 0 && c.At(i+1) == b
}

// Delete removes every occurrence of v, then decrements every ID above v.
func (c *Cycle) Delete(v gopoly.VtxID) {
	out := (*c)[:0]
	for _, u := range *c {
		switch {
		case u == v:
		case u > v:
			out = append(out, u-1)
		default:
			out = append(out, u)
		}
	}
	*c = out
}

// Replace substitutes every occurrence of old with new, dropping any occurrence that would sit next to
// an equal ID, so merging two boundary-adjacent vertices leaves a single one.  IDs are not renumbered.
func (c *Cycle) Replace(old, new gopoly.VtxID) {
	out := (*c)[:0]
	for _, u := range *c {
		if u == old {
			u = new
		}
		if len(out) > 0 && out[len(out)-1] == u {
			continue
		}
		out = append(out, u)
	}
	for len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	*c = out
}

func (c *Cycle) Reverse() {
	s := *c
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Normalize rotates c so that its smallest ID comes first.
func (c *Cycle) Normalize() {
	s := *c
	if len(s) == 0 {
		return
	}
	lo := 0
	for i, v := range s {
		if v < s[lo] {
			lo = i
		}
	}
	rotated := make(Cycle, 0, len(s))
	rotated = append(rotated, s[lo:]...)
	rotated = append(rotated, s[:lo]...)
	copy(s, rotated)
}

func (c Cycle) Clone() Cycle {
	return append(Cycle(nil), c...)
}

// Equal returns true if c and other describe the same circular walk in the same direction.
func (c Cycle) Equal(other Cycle) bool {
	if len(c) != len(other) {
		return false
	}
	if len(c) == 0 {
		return true
	}
	start := other.IndexOf(c[0])
	if start < 0 {
		return false
	}
	for i, v := range c {
		if other.At(start+i) != v {
			return false
		}
	}
	return true
}

// CycleFromEdges reconstructs the circular walk formed by an unordered set of undirected edges.
//
// The edges must form exactly one simple closed walk.  The walk grows from the back of the sequence
// and, when no remaining edge touches the back, from the front.  Two direction switches in a row
// without consuming an edge means the edges cannot close into one cycle and gopoly.ErrMalformedBoundary
// is returned.
func CycleFromEdges(edges []gopoly.Edge) (Cycle, error) {
	if len(edges) < 3 {
		return nil, errors.Wrapf(gopoly.ErrMalformedBoundary, "%d edges cannot bound a face", len(edges))
	}

	ends := make(map[gopoly.VtxID]int, len(edges))
	for _, e := range edges {
		if e[0] == e[1] {
			return nil, errors.Wrapf(gopoly.ErrMalformedBoundary, "self loop %v", e)
		}
		ends[e[0]]++
		ends[e[1]]++
	}
	for v, count := range ends {
		if count != 2 {
			return nil, errors.Wrapf(gopoly.ErrMalformedBoundary, "vertex %d touches %d edges", v, count)
		}
	}

	pool := append([]gopoly.Edge(nil), edges...)
	face := Cycle{pool[0][0]}
	front := false
	stalls := 0
	for len(pool) > 0 {
		v := face[len(face)-1]
		if front {
			v = face[0]
		}

		found := -1
		for i, e := range pool {
			if e.Contains(v) {
				found = i
				break
			}
		}

		if found < 0 {
			stalls++
			if stalls >= 2 {
				return nil, errors.Wrapf(gopoly.ErrMalformedBoundary, "%d edges left disconnected from %v", len(pool), face)
			}
			front = !front
			continue
		}
		stalls = 0

		next := pool[found].Other(v)
		if !face.Contains(next) {
			if front {
				face = append(Cycle{next}, face...)
			} else {
				face = append(face, next)
			}
		}
		pool = append(pool[:found], pool[found+1:]...)
	}

	if len(face) != len(edges) {
		return nil, errors.Wrapf(gopoly.ErrMalformedBoundary, "walk %v does not close over %d edges", face, len(edges))
	}
	return face, nil
}

func (C Cycles) Delete(v gopoly.VtxID) {
	for i := range C {
		C[i].Delete(v)
	}
}

// Replace substitutes old with new in every face (see Cycle.Replace).
func (C Cycles) Replace(old, new gopoly.VtxID) {
	for i := range C {
		C[i].Replace(old, new)
	}
}

// Prune drops faces with fewer than 3 vertices.
func (C Cycles) Prune() Cycles {
	out := C[:0]
	for _, c := range C {
		if len(c) >= 3 {
			out = append(out, c)
		}
	}
	return out
}

// Incident returns the indexes of the faces containing v.
func (C Cycles) Incident(v gopoly.VtxID) []int {
	var idx []int
	for i, c := range C {
		if c.Contains(v) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (C Cycles) Clone() Cycles {
	out := make(Cycles, len(C))
	for i, c := range C {
		out[i] = c.Clone()
	}
	return out
}
