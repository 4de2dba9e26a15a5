package pypoly

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/2x3systems/gopoly/libpoly"
	"github.com/2x3systems/gopoly/libpoly/catalog"
	"github.com/2x3systems/gopoly/libpoly/conway"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyShapeType      = py.NewType("Shape", "a polyhedron: vertices, edges and consistently wound faces")
	pyPolyStreamType = py.NewType("PolyStream", "gopoly.PolyStream")
	pyCatalogType    = py.NewType("Catalog", "gopoly.Catalog")
	pyWorkspaceType  = py.NewType("Workspace", "collects active session resources and catalogs")
)

type pyShape struct {
	*libpoly.Shape
}

func (X pyShape) Type() *py.Type {
	return pyShapeType
}

func (X pyShape) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	X.WriteAsString(&writer, gopoly.DefaultPrintOpts)
	return py.String(writer.String()), nil
}

func (X pyShape) M__repr__() (py.Object, error) {
	return X.M__str__()
}

func wrapErr(err error) error {
	return py.ExceptionNewf(py.ValueError, "%v", err)
}

func edgesToTuple(edges []gopoly.Edge) py.Tuple {
	tuple := make(py.Tuple, len(edges))
	for i, e := range edges {
		tuple[i] = py.Tuple{py.Int(e[0]), py.Int(e[1])}
	}
	return tuple
}

func edgesFromObj(obj py.Object) ([]gopoly.Edge, error) {
	var items []py.Object
	switch seq := obj.(type) {
	case py.Tuple:
		items = seq
	case *py.List:
		items = seq.Items
	default:
		return nil, py.ExceptionNewf(py.TypeError, "expected a sequence of edges (got %v)", obj.Type().Name)
	}

	edges := make([]gopoly.Edge, len(items))
	for i, item := range items {
		pair, ok := item.(py.Tuple)
		if !ok || len(pair) != 2 {
			return nil, py.ExceptionNewf(py.TypeError, "edge %d is not a pair", i)
		}
		for j := range pair {
			v, err := py.GetInt(pair[j])
			if err != nil {
				return nil, err
			}
			if v < 0 {
				return nil, py.ExceptionNewf(py.ValueError, "edge %d has a negative vertex", i)
			}
			edges[i][j] = gopoly.VtxID(v)
		}
	}
	return edges, nil
}

func py_Tetrahedron(module py.Object, args py.Tuple) (py.Object, error) {
	return pyShape{libpoly.Tetrahedron()}, nil
}

func py_Cube(module py.Object, args py.Tuple) (py.Object, error) {
	return pyShape{libpoly.Cube()}, nil
}

func py_Octahedron(module py.Object, args py.Tuple) (py.Object, error) {
	return pyShape{libpoly.Octahedron()}, nil
}

// Arg 1 (str): Conway expression, e.g. "atT"
func py_Conway(module py.Object, args py.Tuple) (py.Object, error) {
	var expr string
	err := py.LoadTuple(args, []interface{}{&expr})
	if err != nil {
		return nil, err
	}
	X, err := conway.Eval(expr)
	if err != nil {
		return nil, wrapErr(err)
	}
	return pyShape{X}, nil
}

func py_Shape_Truncate(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	added, err := X.Truncate()
	if err != nil {
		return nil, wrapErr(err)
	}
	return edgesToTuple(added.Edges()), nil
}

func py_Shape_Ambo(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	if err := X.Ambo(); err != nil {
		return nil, wrapErr(err)
	}
	return self, nil
}

func py_Shape_Expand(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	if err := X.Expand(); err != nil {
		return nil, wrapErr(err)
	}
	return self, nil
}

// Arg 1 (int): vertex to split
func py_Shape_SplitVertex(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	var v int32
	err := py.LoadTuple(args, []interface{}{&v})
	if err != nil {
		return nil, err
	}
	if v < 0 {
		return nil, py.ExceptionNewf(py.ValueError, "negative vertex %d", v)
	}
	ring, err := X.SplitVertex(gopoly.VtxID(v))
	if err != nil {
		return nil, wrapErr(err)
	}
	return edgesToTuple(ring.Edges()), nil
}

// Arg 1 (sequence of (int, int)): edges to contract
func py_Shape_Contract(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "Contract() takes a sequence of edges")
	}
	edges, err := edgesFromObj(args[0])
	if err != nil {
		return nil, err
	}
	if err = X.ContractEdges(edges); err != nil {
		return nil, wrapErr(err)
	}
	return self, nil
}

func py_Shape_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	return py.Int(X.NumVerts()), nil
}

func py_Shape_NumEdges(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	return py.Int(X.NumEdges()), nil
}

func py_Shape_NumFaces(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	return py.Int(X.NumFaces()), nil
}

func py_Shape_Graphviz(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	return py.String(X.Distance.Graphviz()), nil
}

// Arg 1 (str, optional): snapshot label
func py_Shape_Stream(self py.Object, args py.Tuple) (py.Object, error) {
	X := self.(pyShape)
	var label string
	if len(args) > 0 {
		if err := py.LoadTuple(args, []interface{}{&label}); err != nil {
			return nil, err
		}
	}
	next := gopoly.StreamSnapshots(X.Snapshot(label))
	return wrapPolyStream(next), nil
}

const (
	READ_ONLY = 0x01

	kWorkspaceAttr = "_Workspace"
)

type Workspace struct {
	CatalogCtx gopoly.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: gopoly.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

// Arg 1 (str): catalog pathname ("" for in-memory)
// Arg 2 (int, optional): flags (READ_ONLY)
func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	targets := []interface{}{&pathname, &flags}
	if len(args) < len(targets) {
		targets = targets[:len(args)]
	}
	err := py.LoadTuple(args, targets)
	if err != nil {
		return nil, err
	}

	opts := gopoly.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}

	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return pyCatalog{cat}, nil
}

type pyCatalog struct {
	gopoly.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_Count(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	return py.Int(cat.Count()), nil
}

// Arg 1 (str): label of the snapshot to load
func py_Catalog_Get(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	var label string
	err := py.LoadTuple(args, []interface{}{&label})
	if err != nil {
		return nil, err
	}
	X, err := cat.Get(label)
	if err != nil {
		return nil, py.ExceptionNewf(py.KeyError, "%v", err)
	}
	shape, err := libpoly.NewShapeFromSnapshot(X)
	if err != nil {
		return nil, wrapErr(err)
	}
	return pyShape{shape}, nil
}

// kwargs: min_verts, max_verts
func py_Catalog_Select(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	cat := self.(pyCatalog)
	sel := gopoly.DefaultShapeSelector
	var minVerts, maxVerts int
	if err := loadKwargs(kwargs, "min_verts", &minVerts, "max_verts", &maxVerts); err != nil {
		return nil, err
	}
	if minVerts > 0 {
		sel.Min.NumVerts = minVerts
	}
	if maxVerts > 0 {
		sel.Max.NumVerts = maxVerts
	}

	next := gopoly.SelectFromCatalog(cat, sel)
	return wrapPolyStream(next), nil
}

// loadKwargs assigns each given (name, dst) pair from kwargs, leaving dst untouched when name is absent.
func loadKwargs(kwargs py.StringDict, pairs ...interface{}) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		obj, exists := kwargs[name]
		if !exists {
			continue
		}
		switch dst := pairs[i+1].(type) {
		case *string:
			str, ok := obj.(py.String)
			if !ok {
				return py.ExceptionNewf(py.TypeError, "%s must be a str", name)
			}
			*dst = string(str)
		case *bool:
			*dst = obj == py.True
		case *int:
			val, err := py.GetInt(obj)
			if err != nil {
				return err
			}
			*dst = int(val)
		}
	}
	return nil
}

type polyStream struct {
	*gopoly.PolyStream
}

func (stream polyStream) Type() *py.Type {
	return pyPolyStreamType
}

func wrapPolyStream(stream *gopoly.PolyStream) py.Object {
	return py.Object(polyStream{stream})
}

func py_PolyStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(polyStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

// Arg 1 (str, optional): label
// kwargs: label, edges, faces, degrees, file
func py_PolyStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(polyStream)
	var pathname string

	opts := gopoly.DefaultPrintOpts

	if len(args) > 0 {
		if err := py.LoadTuple(args[:1], []interface{}{&opts.Label}); err != nil {
			return nil, err
		}
	}
	err := loadKwargs(kwargs,
		"label", &opts.Label,
		"edges", &opts.Edges,
		"faces", &opts.Faces,
		"degrees", &opts.Degrees,
		"file", &pathname,
	)
	if err != nil {
		return nil, err
	}

	outCount := atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", outCount)
	}

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)

		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	next := stream.Print(writer, opts)
	return wrapPolyStream(next), nil
}

// Arg 1 (Catalog): where each snapshot is added; only newly added snapshots pass through
func py_PolyStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(polyStream)
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "AddTo() takes a Catalog")
	}
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", gopoly.ErrReadOnly)
	}

	next := stream.AddTo(cat)
	return wrapPolyStream(next), nil
}

func py_PolyStream_DropDupes(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(polyStream)

	dupes := libpoly.NewDropDupes()
	next := stream.AddTo(dupes)

	// Release the signature set once the stream drains
	out := gopoly.NewPolyStream()
	go func() {
		for X := range next.Outlet {
			out.PushSnapshot(X)
		}
		dupes.Close()
		out.Close()
	}()
	return wrapPolyStream(out), nil
}

func init() {

	/////////////////////////////////
	// Shape
	{
		pyShapeType.Dict["Truncate"] = py.MustNewMethod("Truncate", py_Shape_Truncate, 0, "truncates every vertex and returns the edges it added")
		pyShapeType.Dict["Ambo"] = py.MustNewMethod("Ambo", py_Shape_Ambo, 0, "")
		pyShapeType.Dict["Expand"] = py.MustNewMethod("Expand", py_Shape_Expand, 0, "")
		pyShapeType.Dict["SplitVertex"] = py.MustNewMethod("SplitVertex", py_Shape_SplitVertex, 0, "splits a vertex into a new face and returns the ring edges")
		pyShapeType.Dict["Contract"] = py.MustNewMethod("Contract", py_Shape_Contract, 0, "")
		pyShapeType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", py_Shape_NumVerts, 0, "")
		pyShapeType.Dict["NumEdges"] = py.MustNewMethod("NumEdges", py_Shape_NumEdges, 0, "")
		pyShapeType.Dict["NumFaces"] = py.MustNewMethod("NumFaces", py_Shape_NumFaces, 0, "")
		pyShapeType.Dict["Graphviz"] = py.MustNewMethod("Graphviz", py_Shape_Graphviz, 0, "")
		pyShapeType.Dict["Stream"] = py.MustNewMethod("Stream", py_Shape_Stream, 0, "")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "")
		pyCatalogType.Dict["Count"] = py.MustNewMethod("Count", py_Catalog_Count, 0, "")
		pyCatalogType.Dict["Get"] = py.MustNewMethod("Get", py_Catalog_Get, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
	}

	/////////////////////////////////
	// PolyStream
	{
		pyPolyStreamType.Dict["Go"] = py.MustNewMethod("Go", py_PolyStream_Go, 0, "counts the number of shapes output from the PolyStream")
		pyPolyStreamType.Dict["Print"] = py.MustNewMethod("Print", py_PolyStream_Print, 0, "prints each shape from the PolyStream")
		pyPolyStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_PolyStream_AddTo, 0, "")
		pyPolyStreamType.Dict["DropDupes"] = py.MustNewMethod("DropDupes", py_PolyStream_DropDupes, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("Tetrahedron", py_Tetrahedron, 0, ""),
			py.MustNewMethod("Cube", py_Cube, 0, ""),
			py.MustNewMethod("Octahedron", py_Octahedron, 0, ""),
			py.MustNewMethod("Conway", py_Conway, 0, "evaluates a Conway expression such as \"atT\""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
			"READ_ONLY":   py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pypoly",
				Doc:  "polyhedron combinatorics gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
