package catalog

import (
	"encoding/binary"
	"runtime"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey                         => CatalogState (uvarints: MajorVers, MinorVers, NumSnapshots)

	kSnapshotPrefix, Label (utf8)            => Snapshot.AppendEncoding()
	...

Labels sort bytewise, so Select() visits snapshots in label order.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	kSnapshotPrefix = byte(0x01)

	kMajorVers = 2026
	kMinorVers = 1
)

type catalogState struct {
	MajorVers    uint64
	MinorVers    uint64
	NumSnapshots uint64
}

func (state *catalogState) marshal(buf []byte) []byte {
	buf = binary.AppendUvarint(buf, state.MajorVers)
	buf = binary.AppendUvarint(buf, state.MinorVers)
	buf = binary.AppendUvarint(buf, state.NumSnapshots)
	return buf
}

func (state *catalogState) unmarshal(buf []byte) error {
	fields := []*uint64{&state.MajorVers, &state.MinorVers, &state.NumSnapshots}
	for _, field := range fields {
		val, n := binary.Uvarint(buf)
		if n <= 0 {
			return errors.Wrap(gopoly.ErrBadEncoding, "catalog state")
		}
		*field = val
		buf = buf[n:]
	}
	return nil
}

// catalog is a db wrapper for a catalog of named polyhedron snapshots
type catalog struct {
	ctx        gopoly.CatalogContext
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
}

// OpenCatalog opens (or creates) the catalog at opts.DbPathName and attaches it to ctx.
// An empty DbPathName opens an in-memory catalog.
func OpenCatalog(ctx gopoly.CatalogContext, opts gopoly.CatalogOpts) (gopoly.Catalog, error) {
	if ctx == nil {
		return nil, errors.Wrap(gopoly.ErrBadCatalogParam, "missing CatalogContext")
	}

	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(gopoly.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "open catalog %q", opts.DbPathName)
	}

	// Once the db is open, we consider the catalog ctx blocked until the catalog closes
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}

	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Errorf("catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	klog.V(1).Infof("opened catalog %q holding %d snapshots", opts.DbPathName, cat.state.NumSnapshots)
	return cat, nil
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.unmarshal(val)
			})
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() {
	if cat.stateDirty && !cat.readOnly {
		err := cat.db.Update(func(txn *badger.Txn) error {
			return txn.Set(gCatalogStateKey, cat.state.marshal(nil))
		})
		if err != nil {
			klog.Warningf("catalog state not saved: %v", err)
			return
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) Close() error {
	if cat.db == nil {
		return nil
	}
	cat.flushState()
	err := cat.db.Close()
	cat.db = nil
	cat.ctx.DetachCatalog(cat)
	cat.ctx = nil
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) Count() int64 {
	return int64(cat.state.NumSnapshots)
}

func formSnapshotKey(key []byte, label string) []byte {
	key = append(key, kSnapshotPrefix)
	key = append(key, label...)
	return key
}

// TryAddSnapshot adds X under its label if no snapshot with that label is present.
//
// If false is returned, X is already present, has no label, or this catalog is read-only.
func (cat *catalog) TryAddSnapshot(X *gopoly.Snapshot) bool {
	return cat.tryAdd(X) == nil
}

func (cat *catalog) tryAdd(X *gopoly.Snapshot) error {
	if cat.readOnly {
		return gopoly.ErrReadOnly
	}
	if X == nil || len(X.Label) == 0 {
		return errors.Wrap(gopoly.ErrBadCatalogParam, "snapshot needs a label")
	}

	txn := cat.db.NewTransaction(true)
	defer txn.Discard()

	key := formSnapshotKey(nil, X.Label)
	_, err := txn.Get(key)
	if err == nil {
		return errors.Errorf("snapshot %q already present", X.Label)
	}
	if err != badger.ErrKeyNotFound {
		return err
	}

	err = txn.Set(key, X.AppendEncoding(nil))
	if err == nil {
		err = txn.Commit()
	}
	if err != nil {
		klog.Warningf("catalog add %q failed: %v", X.Label, err)
		return err
	}

	cat.state.NumSnapshots++
	cat.stateDirty = true
	return nil
}

// Get loads the snapshot stored under the given label.
func (cat *catalog) Get(label string) (*gopoly.Snapshot, error) {
	X := &gopoly.Snapshot{}
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(formSnapshotKey(nil, label))
		if err != nil {
			return err
		}
		return item.Value(X.InitFromEncoding)
	})
	if err == badger.ErrKeyNotFound {
		return nil, errors.Errorf("snapshot %q not found", label)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load snapshot %q", label)
	}
	return X, nil
}

// Select will send each stored snapshot matching the given search criteria to onHit, in label order.
//
// Entries that fail to decode are skipped with a warning.
func (cat *catalog) Select(sel gopoly.ShapeSelector, onHit gopoly.OnSnapshotHit) {
	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         []byte{kSnapshotPrefix},
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		X := &gopoly.Snapshot{}
		err := item.Value(X.InitFromEncoding)
		if err != nil {
			klog.Warningf("skipping catalog entry %q: %v", item.Key()[1:], err)
			continue
		}
		if sel.SelectsShape(X) {
			onHit <- X
		}
	}
}
