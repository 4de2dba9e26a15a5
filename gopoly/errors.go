package gopoly

import "errors"

// Errors
var (
	ErrInvalidTopology   = errors.New("invalid polyhedron topology")
	ErrMalformedBoundary = errors.New("edges do not form a single simple closed boundary")
	ErrBadVtxID          = errors.New("bad vertex ID")
	ErrBadEdge           = errors.New("bad edge")
	ErrBadPreset         = errors.New("bad preset param")
	ErrBadExpr           = errors.New("bad conway expression")
	ErrBadEncoding       = errors.New("bad snapshot encoding")
	ErrBadCatalogParam   = errors.New("bad catalog param")
	ErrReadOnly          = errors.New("catalog is read-only")
	ErrNilShape          = errors.New("nil shape")
)
