package libpoly

import (
	"github.com/2x3systems/gopoly/gopoly"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// apply runs op on a copy of X and adopts the copy only if op succeeds and the result validates.
// On any failure X is left untouched.
func (X *Shape) apply(opName string, op func(Y *Shape) error) (err error) {
	if X == nil || X.Distance == nil {
		return gopoly.ErrNilShape
	}
	Y := X.Clone()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(gopoly.ErrInvalidTopology, "%s: %v", opName, r)
			klog.Warningf("%s aborted: %v", opName, r)
		}
	}()

	if err = op(Y); err != nil {
		return errors.WithMessage(err, opName)
	}
	if err = Y.Validate(); err != nil {
		return errors.WithMessage(err, opName)
	}

	if klog.V(2) {
		klog.Infof("%s: %v -> %v", opName, X, Y)
	}
	*X = *Y
	return nil
}

// SplitVertex replaces vertex v (of degree k >= 3) with a ring of k vertices, one per former neighbor,
// bounding a new face.  v keeps its smallest neighbor; the others go to new vertices appended in
// rotation order.  Returns the ring edges: contracting them restores X.
func (X *Shape) SplitVertex(v gopoly.VtxID) (*gopoly.EdgeSet, error) {
	var ring *gopoly.EdgeSet
	err := X.apply("split vertex", func(Y *Shape) error {
		var err error
		ring, err = Y.splitVertex(v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ring, nil
}

// Truncate splits every vertex, replacing each with a small face.
// Returns every edge it introduced: contracting them restores X.
func (X *Shape) Truncate() (*gopoly.EdgeSet, error) {
	var added *gopoly.EdgeSet
	err := X.apply("truncate", func(Y *Shape) error {
		var err error
		added, err = Y.truncate()
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// ContractEdges merges the endpoints of each given edge, in connectivity and faces alike.
// Faces that collapse below 3 vertices are dropped.
func (X *Shape) ContractEdges(edges []gopoly.Edge) error {
	return X.apply("contract", func(Y *Shape) error {
		return Y.contractEdges(edges)
	})
}

// DeleteVertex removes v and its edges.  The faces around v merge into one face.
func (X *Shape) DeleteVertex(v gopoly.VtxID) error {
	return X.apply("delete vertex", func(Y *Shape) error {
		return Y.deleteVertex(v)
	})
}

// Ambo truncates X and then contracts every original edge, leaving one vertex per original edge.
func (X *Shape) Ambo() error {
	return X.apply("ambo", func(Y *Shape) error {
		return Y.ambo()
	})
}

// Expand is ambo applied twice.
func (X *Shape) Expand() error {
	return X.apply("expand", func(Y *Shape) error {
		if err := Y.ambo(); err != nil {
			return err
		}
		return Y.ambo()
	})
}

func (Y *Shape) splitVertex(v gopoly.VtxID) (*gopoly.EdgeSet, error) {
	D := Y.Distance
	if !D.HasVertex(v) {
		return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "split vertex %d of %d", v, D.Len())
	}
	conn := D.Connections(v)
	k := len(conn)
	if k < 3 {
		return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "split vertex %d has degree %d", v, k)
	}

	// Each face ...p, v, q... steps the rotation around v from p to q.
	incident := Y.Cycles.Incident(v)
	next := make(map[gopoly.VtxID]gopoly.VtxID, k)
	for _, fi := range incident {
		f := Y.Cycles[fi]
		i := f.IndexOf(v)
		p, q := f.At(i-1), f.At(i+1)
		if _, dupe := next[p]; dupe {
			return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "vertex %d is not a manifold vertex", v)
		}
		next[p] = q
	}

	order := make([]gopoly.VtxID, 0, k)
	for c := conn[0]; len(order) < k; {
		order = append(order, c)
		nc, ok := next[c]
		if !ok {
			return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "faces around vertex %d do not close", v)
		}
		c = nc
		if c == conn[0] {
			break
		}
	}
	if len(order) != k || len(next) != k || next[order[k-1]] != order[0] {
		return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "faces around vertex %d visit %d of %d neighbors", v, len(order), k)
	}

	// v keeps order[0]; every other neighbor gets a new vertex.
	x := make(map[gopoly.VtxID]gopoly.VtxID, k)
	x[order[0]] = v
	for _, c := range order[1:] {
		xc := D.InsertVertex()
		x[c] = xc
		D.Disconnect(v, c)
		D.Connect(xc, c)
	}

	ring := gopoly.NewEdgeSet()
	for i, c := range order {
		a, b := x[c], x[order[(i+1)%k]]
		D.Connect(a, b)
		ring.Add(gopoly.FormEdge(a, b))
	}

	for _, fi := range incident {
		f := Y.Cycles[fi]
		i := f.IndexOf(v)
		p, q := f.At(i-1), f.At(i+1)
		split := make(Cycle, 0, len(f)+1)
		split = append(split, f[:i]...)
		split = append(split, x[p], x[q])
		split = append(split, f[i+1:]...)
		Y.Cycles[fi] = split
	}

	face, err := CycleFromEdges(ring.Edges())
	if err != nil {
		return nil, errors.Wrapf(gopoly.ErrInvalidTopology, "split vertex %d: %v", v, err)
	}

	// The new face walks each ring edge opposite to the incident face that borders it.
	p := order[0]
	if face.HasDirected(x[p], x[next[p]]) {
		face.Reverse()
	}
	face.Normalize()
	Y.Cycles = append(Y.Cycles, face)

	return ring, nil
}

func (Y *Shape) truncate() (*gopoly.EdgeSet, error) {
	added := gopoly.NewEdgeSet()
	Nv := Y.NumVerts()
	for v := 0; v < Nv; v++ {
		ring, err := Y.splitVertex(gopoly.VtxID(v))
		if err != nil {
			return nil, err
		}
		added.AddAll(ring)
	}
	return added, nil
}

func (Y *Shape) contractEdges(edges []gopoly.Edge) error {
	ctr, err := Y.Distance.ContractEdges(edges)
	if err != nil {
		return err
	}

	for old, rep := range ctr.Rep {
		if rep != gopoly.VtxID(old) {
			Y.Cycles.Replace(gopoly.VtxID(old), rep)
		}
	}

	// Removing the highest vacated ID first keeps each lower one valid.
	for i := len(ctr.Gone) - 1; i >= 0; i-- {
		Y.Cycles.Delete(ctr.Gone[i])
	}
	Y.Cycles = Y.Cycles.Prune()
	return nil
}

func (Y *Shape) deleteVertex(v gopoly.VtxID) error {
	D := Y.Distance
	if !D.HasVertex(v) {
		return errors.Wrapf(gopoly.ErrInvalidTopology, "delete vertex %d of %d", v, D.Len())
	}

	incident := Y.Cycles.Incident(v)
	if len(incident) == 0 {
		if D.Degree(v) != 0 {
			return errors.Wrapf(gopoly.ErrInvalidTopology, "vertex %d has edges but no faces", v)
		}
		Y.Cycles.Delete(v)
		return D.DeleteVertex(v)
	}

	// The merged face is bounded by the edges that belong to exactly one of the incident faces.
	count := make(map[gopoly.Edge]int)
	for _, fi := range incident {
		for _, e := range Y.Cycles[fi].Edges() {
			if !e.Contains(v) {
				count[e.Canonic()]++
			}
		}
	}
	var boundary []gopoly.Edge
	for _, e := range D.Edges() {
		if count[e] == 1 {
			boundary = append(boundary, e)
		}
	}

	merged, err := CycleFromEdges(boundary)
	if err != nil {
		return errors.Wrapf(gopoly.ErrInvalidTopology, "delete vertex %d: %v", v, err)
	}
	if Y.windsAgainst(merged, incident, func(e gopoly.Edge) bool {
		return !e.Contains(v) && count[e.Canonic()] == 1
	}) {
		merged.Reverse()
	}

	isIncident := make(map[int]bool, len(incident))
	for _, fi := range incident {
		isIncident[fi] = true
	}
	faces := make(Cycles, 0, len(Y.Cycles)-len(incident)+1)
	for fi, f := range Y.Cycles {
		if !isIncident[fi] {
			faces = append(faces, f)
		}
	}
	merged.Normalize()
	Y.Cycles = append(faces, merged)

	if err = D.DeleteVertex(v); err != nil {
		return err
	}
	Y.Cycles.Delete(v)
	return nil
}

func (Y *Shape) ambo() error {
	added, err := Y.truncate()
	if err != nil {
		return err
	}
	var original []gopoly.Edge
	for _, e := range Y.Distance.Edges() {
		if !added.Contains(e) {
			original = append(original, e)
		}
	}
	return Y.contractEdges(original)
}

// windsAgainst reports if face walks the first boundary edge selected by keep (taken from the given faces)
// in the direction opposite to the face it came from.
func (Y *Shape) windsAgainst(face Cycle, faces []int, keep func(e gopoly.Edge) bool) bool {
	for _, fi := range faces {
		for _, e := range Y.Cycles[fi].Edges() {
			if keep(e) {
				return face.HasDirected(e[1], e[0])
			}
		}
	}
	return false
}
