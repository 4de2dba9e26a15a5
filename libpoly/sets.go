package libpoly

import (
	"github.com/2x3systems/gopoly/gopoly"
	"github.com/dgraph-io/badger/v3"
)

// SignatureSet allows adding of shape signatures to an internal set and returning if a given signature has already been added.
type SignatureSet interface {

	// TryAdd adds the given signature if it is not already present.
	//
	// If sig already is in this set, false is returned and this call has no effect.
	// If sig isn't in this set, a copy of sig is added and true is returned.
	//
	// After one or more calls to TryAdd(), be sure to call Close() for cleanup.
	TryAdd(sig []byte) bool

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAdd(), call Close() when you're done.
	Close()
}

func NewSignatureSet() SignatureSet {
	return &lsmSet{}
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) TryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Discard()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		if err == nil {
			err = txn.Commit()
		}
		added = true
	}

	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}

// SnapshotSet is a SnapshotAdder holding resources until Close.
type SnapshotSet interface {
	gopoly.SnapshotAdder
	Close()
}

// dropDupes passes along only the first snapshot seen for each shape signature.
type dropDupes struct {
	seen SignatureSet
}

// NewDropDupes returns a SnapshotAdder that rejects snapshots whose signature (see Shape.AppendSignature)
// was already added.  Snapshots that do not form a valid Shape are rejected.
func NewDropDupes() SnapshotSet {
	return &dropDupes{
		seen: NewSignatureSet(),
	}
}

func (dd *dropDupes) TryAddSnapshot(X *gopoly.Snapshot) bool {
	shape, err := NewShapeFromSnapshot(X)
	if err != nil {
		return false
	}
	var buf [128]byte
	return dd.seen.TryAdd(shape.AppendSignature(buf[:0]))
}

func (dd *dropDupes) Close() {
	dd.seen.Close()
}
