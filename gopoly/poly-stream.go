package gopoly

import (
	"fmt"
	"io"
	"strings"
)

// PolyStream is a pipeline stage of frozen polyhedron snapshots.
// Ownership of each Snapshot travels through the channel.
type PolyStream struct {
	Outlet chan *Snapshot
}

func NewPolyStream() *PolyStream {
	stream := &PolyStream{
		Outlet: make(chan *Snapshot),
	}
	return stream
}

// StreamSnapshots emits the given snapshots then closes.
func StreamSnapshots(snaps ...*Snapshot) *PolyStream {
	next := &PolyStream{
		Outlet: make(chan *Snapshot, 1),
	}

	go func() {
		for _, X := range snaps {
			next.Outlet <- X
		}
		next.Close()
	}()

	return next
}

func (stream *PolyStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *PolyStream) PushSnapshot(X *Snapshot) {
	stream.Outlet <- X
}

// PullAll drains the stream and returns how many snapshots went by.
func (stream *PolyStream) PullAll() int {
	count := int(0)
	for range stream.Outlet {
		count++
	}
	return count
}

// Collect drains the stream into a slice.
func (stream *PolyStream) Collect() []*Snapshot {
	var snaps []*Snapshot
	for X := range stream.Outlet {
		snaps = append(snaps, X)
	}
	return snaps
}

func (stream *PolyStream) Print(
	out io.WriteCloser,
	opts PrintOpts) *PolyStream {

	next := &PolyStream{
		Outlet: make(chan *Snapshot, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for X := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
			}
			buf.WriteByte(',')

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			X.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo forwards only the snapshots that target reports as newly added.
func (stream *PolyStream) AddTo(target SnapshotAdder) *PolyStream {
	next := &PolyStream{
		Outlet: make(chan *Snapshot, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if target.TryAddSnapshot(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

func SelectFromCatalog(cat Catalog, sel ShapeSelector) *PolyStream {
	next := &PolyStream{
		Outlet: make(chan *Snapshot, 1),
	}

	onHit := make(chan *Snapshot, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for X := range onHit {
			if sel.SelectsShape(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}

func (stream *PolyStream) Select(sel ShapeSelector) *PolyStream {
	next := &PolyStream{
		Outlet: make(chan *Snapshot, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if sel.SelectsShape(X) {
				next.Outlet <- X
			}
		}
		next.Close()
	}()

	return next
}
