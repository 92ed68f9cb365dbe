package barter

// Storage interfaces. Controllers read and write through KVStore, and wrap
// every operation in a cache layer of a CacheableKVStore so that a failed
// operation leaves no trace.

// ReadOnlyKVStore queries data. Key and value slices passed in or returned
// must not be modified.
type ReadOnlyKVStore interface {
	// Get returns nil if the key does not exist.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator returns entries with a key within [start, end) in
	// ascending order. A nil bound is open. The domain must not be
	// written to while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator is like Iterator, in descending order.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write part shared by stores and batches.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore can be read and written.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	// NewBatch returns a batch writing into this store.
	NewBatch() Batch
}

// Batch groups writes until Write is called.
type Batch interface {
	SetDeleter
	Write() error
}

/*
Iterator reads a range of entries, one at a time.

	it, err := kv.Iterator(start, end)
	if err != nil {
		return err
	}
	defer it.Release()

	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		} else if err != nil {
			return err
		}
		// ...
	}
*/
type Iterator interface {
	// Next returns the next entry and advances. ErrIteratorDone is
	// returned once all entries were read.
	Next() (key, value []byte, err error)

	Release()
}

// CacheableKVStore can stack cache layers on top of itself, much like
// SAVEPOINT in SQL databases.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a cache layer. Its changes are visible to reads through it
// and reach the store it wraps only on Write.
type KVCacheWrap interface {
	CacheableKVStore

	// Write flushes all changes to the wrapped store.
	Write() error

	// Discard drops all changes.
	Discard()
}

// CommitKVStore is a store persisting versions of its state. Changes are
// done through cache layers and become durable with Commit.
type CommitKVStore interface {
	// Get reads from the last committed version.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit persists the current state as a new version.
	Commit() (CommitID, error)

	// LoadLatestVersion loads the last version that was fully committed.
	LoadLatestVersion() error

	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by its number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}

// Model is a raw key value pair.
type Model struct {
	Key   []byte
	Value []byte
}
