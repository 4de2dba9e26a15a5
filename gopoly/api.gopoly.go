package gopoly

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
)

// VtxID is a zero-based index that identifies a vertex of a polyhedron (0..NumVerts-1).
//
// The id space is always dense: removing a vertex renumbers every higher id down by one.
type VtxID uint32

// Edge is an undirected vertex pair.  The canonic form has Edge[0] < Edge[1].
type Edge [2]VtxID

// FormEdge forms a canonic Edge from the given vertex pair.
func FormEdge(Va, Vb VtxID) Edge {
	if Va > Vb {
		return Edge{Vb, Va}
	}
	return Edge{Va, Vb}
}

func (e Edge) Contains(v VtxID) bool {
	return e[0] == v || e[1] == v
}

// Other returns the endpoint of e that is not v.
func (e Edge) Other(v VtxID) VtxID {
	if e[0] == v {
		return e[1]
	}
	return e[0]
}

func (e Edge) Canonic() Edge {
	return FormEdge(e[0], e[1])
}

func (e Edge) String() string {
	return fmt.Sprintf("%d-%d", e[0], e[1])
}

// EdgeComparator orders canonic edges by their first then second vertex.
func EdgeComparator(A, B interface{}) int {
	a := A.(Edge)
	b := B.(Edge)
	switch {
	case a[0] < b[0]:
		return -1
	case a[0] > b[0]:
		return 1
	case a[1] < b[1]:
		return -1
	case a[1] > b[1]:
		return 1
	}
	return 0
}

// EdgeSet is an ordered set of canonic edges.
type EdgeSet struct {
	set *treeset.Set
}

func NewEdgeSet(edges ...Edge) *EdgeSet {
	es := &EdgeSet{
		set: treeset.NewWith(EdgeComparator),
	}
	for _, e := range edges {
		es.Add(e)
	}
	return es
}

func (es *EdgeSet) Add(e Edge) {
	es.set.Add(e.Canonic())
}

func (es *EdgeSet) AddAll(other *EdgeSet) {
	for _, e := range other.Edges() {
		es.set.Add(e)
	}
}

func (es *EdgeSet) Remove(e Edge) {
	es.set.Remove(e.Canonic())
}

func (es *EdgeSet) Contains(e Edge) bool {
	return es.set.Contains(e.Canonic())
}

func (es *EdgeSet) Len() int {
	return es.set.Size()
}

// Edges returns the edges of this set in ascending order.
func (es *EdgeSet) Edges() []Edge {
	vals := es.set.Values()
	edges := make([]Edge, len(vals))
	for i, v := range vals {
		edges[i] = v.(Edge)
	}
	return edges
}

func (es *EdgeSet) String() string {
	return fmt.Sprint(es.Edges())
}

// ShapeInfo summarizes the size of a polyhedron.
type ShapeInfo struct {
	NumVerts    int
	NumEdges    int
	NumFaces    int
	MaxDegree   int
	MaxFaceSize int
}

// ShapeSelector either selects a given Snapshot or not.
type ShapeSelector struct {
	Min ShapeInfo // lower select bounds
	Max ShapeInfo // upper select bounds
}

// DefaultShapeSelector selects every shape.
var DefaultShapeSelector = ShapeSelector{
	Max: ShapeInfo{
		NumVerts:    MaxSelectBound,
		NumEdges:    MaxSelectBound,
		NumFaces:    MaxSelectBound,
		MaxDegree:   MaxSelectBound,
		MaxFaceSize: MaxSelectBound,
	},
}

const MaxSelectBound = 1 << 30

// SelectsShape returns true if X falls within the bounds of sel.
func (sel *ShapeSelector) SelectsShape(X *Snapshot) bool {
	info := X.GetInfo()
	if info.NumVerts < sel.Min.NumVerts || info.NumEdges < sel.Min.NumEdges || info.NumFaces < sel.Min.NumFaces || info.MaxDegree < sel.Min.MaxDegree || info.MaxFaceSize < sel.Min.MaxFaceSize {
		return false
	}
	if info.NumVerts > sel.Max.NumVerts || info.NumEdges > sel.Max.NumEdges || info.NumFaces > sel.Max.NumFaces || info.MaxDegree > sel.Max.MaxDegree || info.MaxFaceSize > sel.Max.MaxFaceSize {
		return false
	}
	return true
}

// PrintOpts specifies what is printed when printing a Snapshot
type PrintOpts struct {
	Label   string // Prefix label
	Edges   bool   // If set, prints the edge list
	Faces   bool   // If set, prints each face boundary
	Degrees bool   // If set, prints the degree of each vertex
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Edges: true,
	Faces: true,
}

// OnSnapshotHit is used to return Snapshots meeting a set of selection criteria.
type OnSnapshotHit chan<- *Snapshot

type SnapshotAdder interface {

	// Tries to add the given snapshot.
	// If true is returned, X was not yet present and was added.
	TryAddSnapshot(X *Snapshot) bool
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Catalog wraps a database of polyhedron snapshots keyed by label.
type Catalog interface {
	SnapshotAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// Get loads the snapshot stored under the given label.
	Get(label string) (*Snapshot, error)

	// Count returns the number of snapshots in this catalog.
	Count() int64

	// Select sends each stored Snapshot that meets the selection criteria to onHit.
	Select(sel ShapeSelector, onHit OnSnapshotHit)

	Close() error
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Closes all open catalogs then closes.
	Close()

	// Signals when Close() completed and all open Catalogs have been closed
	Done() <-chan struct{}
}
