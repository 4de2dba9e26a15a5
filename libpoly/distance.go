package libpoly

import (
	"fmt"
	"io"
	"strings"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
)

// Distance is the connectivity of a polyhedron: a symmetric n x n matrix where entry (i, j) is 1
// iff vertices i and j share an edge.  The diagonal is always 0.
type Distance struct {
	n   int
	adj []uint8 // row-major, n*n
}

func NewDistance(n int) *Distance {
	return &Distance{
		n:   n,
		adj: make([]uint8, n*n),
	}
}

// NewDistanceFromEdges forms a Distance over n vertices containing the given edges.
func NewDistanceFromEdges(n int, edges []gopoly.Edge) (*Distance, error) {
	D := NewDistance(n)
	for _, e := range edges {
		if e[0] == e[1] || !D.HasVertex(e[0]) || !D.HasVertex(e[1]) {
			return nil, errors.Wrapf(gopoly.ErrBadEdge, "edge %v in %d vertices", e, n)
		}
		D.Connect(e[0], e[1])
	}
	return D, nil
}

// Len returns the number of vertices.
func (D *Distance) Len() int {
	return D.n
}

func (D *Distance) HasVertex(v gopoly.VtxID) bool {
	return int(v) < D.n
}

// Vertices returns the id range 0..Len()-1.
func (D *Distance) Vertices() []gopoly.VtxID {
	vtx := make([]gopoly.VtxID, D.n)
	for i := range vtx {
		vtx[i] = gopoly.VtxID(i)
	}
	return vtx
}

func (D *Distance) index(a, b gopoly.VtxID) int {
	if int(a) >= D.n || int(b) >= D.n {
		panic(fmt.Sprintf("vertex pair (%d, %d) out of range for %d vertices", a, b, D.n))
	}
	return int(a)*D.n + int(b)
}

func (D *Distance) row(v gopoly.VtxID) []uint8 {
	start := D.index(v, 0)
	return D.adj[start : start+D.n]
}

func (D *Distance) Connected(a, b gopoly.VtxID) bool {
	return D.adj[D.index(a, b)] != 0
}

// Connect sets the edge a-b (equivalently b-a).
func (D *Distance) Connect(a, b gopoly.VtxID) {
	if a == b {
		panic(fmt.Sprintf("self loop on vertex %d", a))
	}
	D.adj[D.index(a, b)] = 1
	D.adj[D.index(b, a)] = 1
}

func (D *Distance) Disconnect(a, b gopoly.VtxID) {
	D.adj[D.index(a, b)] = 0
	D.adj[D.index(b, a)] = 0
}

// Connections returns the neighbors of v in ascending order.
func (D *Distance) Connections(v gopoly.VtxID) []gopoly.VtxID {
	row := D.row(v)
	var conn []gopoly.VtxID
	for u, c := range row {
		if c != 0 {
			conn = append(conn, gopoly.VtxID(u))
		}
	}
	return conn
}

func (D *Distance) Degree(v gopoly.VtxID) int {
	row := D.row(v)
	deg := 0
	for _, c := range row {
		if c != 0 {
			deg++
		}
	}
	return deg
}

// Edges returns every edge once, in ascending canonic order.
func (D *Distance) Edges() []gopoly.Edge {
	var edges []gopoly.Edge
	for a := 0; a < D.n; a++ {
		for b := a + 1; b < D.n; b++ {
			if D.adj[a*D.n+b] != 0 {
				edges = append(edges, gopoly.Edge{gopoly.VtxID(a), gopoly.VtxID(b)})
			}
		}
	}
	return edges
}

func (D *Distance) EdgeCount() int {
	count := 0
	for a := 0; a < D.n; a++ {
		for b := a + 1; b < D.n; b++ {
			if D.adj[a*D.n+b] != 0 {
				count++
			}
		}
	}
	return count
}

// InsertVertex appends a new isolated vertex and returns its id.
func (D *Distance) InsertVertex() gopoly.VtxID {
	n := D.n + 1
	adj := make([]uint8, n*n)
	for a := 0; a < D.n; a++ {
		copy(adj[a*n:a*n+D.n], D.adj[a*D.n:(a+1)*D.n])
	}
	D.adj = adj
	D.n = n
	return gopoly.VtxID(n - 1)
}

// DeleteVertex removes v and its incident edges, then renumbers every id above v down by one.
func (D *Distance) DeleteVertex(v gopoly.VtxID) error {
	if !D.HasVertex(v) {
		return errors.Wrapf(gopoly.ErrInvalidTopology, "delete vertex %d of %d", v, D.n)
	}
	remap := make([]int, D.n)
	for i := range remap {
		switch {
		case i < int(v):
			remap[i] = i
		case i == int(v):
			remap[i] = -1
		default:
			remap[i] = i - 1
		}
	}
	D.compact(remap, D.n-1)
	return nil
}

// compact rebuilds D over n vertices where old vertex i becomes remap[i] (or is dropped if negative).
// Edges that land on the same new vertex are dropped.
func (D *Distance) compact(remap []int, n int) {
	adj := make([]uint8, n*n)
	for a := 0; a < D.n; a++ {
		na := remap[a]
		if na < 0 {
			continue
		}
		for b := 0; b < D.n; b++ {
			nb := remap[b]
			if nb < 0 || na == nb || D.adj[a*D.n+b] == 0 {
				continue
			}
			adj[na*n+nb] = 1
		}
	}
	D.adj = adj
	D.n = n
}

// Contraction records how ContractEdges renumbered vertices.
type Contraction struct {
	Rep   []gopoly.VtxID // old id -> representative old id (min id of its merged group)
	Remap []gopoly.VtxID // old id -> new id
	Gone  []gopoly.VtxID // old ids that no longer exist, ascending
}

// ContractEdges merges the two endpoints of every given edge into one vertex.
//
// Merging is resolved against the pre-contraction labeling: each merged group is represented by its
// smallest id, and every other member is removed in one final renumbering pass, so the order of the
// given edges does not matter.  If any edge is not present, D is left unchanged.
func (D *Distance) ContractEdges(edges []gopoly.Edge) (*Contraction, error) {
	for _, e := range edges {
		if e[0] == e[1] || !D.HasVertex(e[0]) || !D.HasVertex(e[1]) || !D.Connected(e[0], e[1]) {
			return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "contract missing edge %v", e)
		}
	}

	parent := make([]gopoly.VtxID, D.n)
	for i := range parent {
		parent[i] = gopoly.VtxID(i)
	}
	find := func(v gopoly.VtxID) gopoly.VtxID {
		for parent[v] != v {
			parent[v] = parent[parent[v]]
			v = parent[v]
		}
		return v
	}
	for _, e := range edges {
		ra, rb := find(e[0]), find(e[1])
		if ra == rb {
			continue
		}
		if ra > rb {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	ctr := &Contraction{
		Rep:   make([]gopoly.VtxID, D.n),
		Remap: make([]gopoly.VtxID, D.n),
	}
	remap := make([]int, D.n)
	next := 0
	for i := 0; i < D.n; i++ {
		rep := find(gopoly.VtxID(i))
		ctr.Rep[i] = rep
		if int(rep) == i {
			remap[i] = next
			next++
		} else {
			ctr.Gone = append(ctr.Gone, gopoly.VtxID(i))
		}
	}
	for i := range remap {
		rep := int(ctr.Rep[i])
		if rep != i {
			// reps are minimal, so rep < i and remap[rep] is already assigned
			remap[i] = remap[rep]
		}
		ctr.Remap[i] = gopoly.VtxID(remap[i])
	}

	D.compact(remap, next)
	return ctr, nil
}

func (D *Distance) Equal(other *Distance) bool {
	if D.n != other.n {
		return false
	}
	for i, c := range D.adj {
		if (c != 0) != (other.adj[i] != 0) {
			return false
		}
	}
	return true
}

func (D *Distance) Clone() *Distance {
	return &Distance{
		n:   D.n,
		adj: append([]uint8(nil), D.adj...),
	}
}

var degreeColors = []string{"red", "green", "blue"}

// WriteGraphviz writes a Graphviz description of D: each vertex colored by its degree, then each edge.
func (D *Distance) WriteGraphviz(out io.Writer) {
	fmt.Fprint(out, "graph G{\nlayout=neato\n")
	for _, v := range D.Vertices() {
		fmt.Fprintf(out, "\tV%d [color=%q];\n", v, degreeColors[D.Degree(v)%len(degreeColors)])
	}
	for _, e := range D.Edges() {
		fmt.Fprintf(out, "\tV%d -- V%d;\n", e[0], e[1])
	}
	fmt.Fprint(out, "}")
}

func (D *Distance) Graphviz() string {
	b := strings.Builder{}
	b.Grow(32 * (D.n + D.EdgeCount()))
	D.WriteGraphviz(&b)
	return b.String()
}

func (D *Distance) String() string {
	return fmt.Sprintf("v=%d,e=%d,%v", D.n, D.EdgeCount(), D.Edges())
}
