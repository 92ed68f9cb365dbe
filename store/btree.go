package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/barter/errors"
)

// cache keeps the writes of one atomic operation in a btree until they are
// written to the parent store or discarded.
type cache struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = (*cache)(nil)

// NewCache returns a cache layer over parent. Reads fall through to parent
// for keys the cache does not know about. Write replays all changes into
// batch and writes it.
func NewCache(parent ReadOnlyKVStore, batch Batch) KVCacheWrap {
	return newCache(parent, batch, btree.NewFreeList(btree.DefaultFreeListSize))
}

func newCache(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) *cache {
	return &cache{
		tree:   btree.NewWithFreeList(2, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// MemStore returns an empty in-memory store. Nothing is persisted, which
// makes it suited for tests and for the single process CLI state.
func MemStore() CacheableKVStore {
	return NewCache(emptyStore{}, NewNonAtomicBatch(emptyStore{}))
}

// CacheWrap stacks another cache on top of this one. Nested caches share
// the btree free list.
func (c *cache) CacheWrap() KVCacheWrap {
	return newCache(c, c.NewBatch(), c.free)
}

func (c *cache) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write flushes all changes to the parent and empties the cache.
func (c *cache) Write() error {
	err := c.batch.Write()
	c.Discard()
	return err
}

// Discard drops all changes. The cache is empty afterwards and can be
// reused.
func (c *cache) Discard() {
	for c.tree.DeleteMin() != nil {
	}
	if b, ok := c.batch.(*NonAtomicBatch); ok {
		b.ops = nil
	}
}

func (c *cache) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, value: value})
	return c.batch.Set(key, value)
}

func (c *cache) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return c.batch.Delete(key)
}

func (c *cache) Get(key []byte) ([]byte, error) {
	if e, ok := c.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return c.parent.Get(key)
}

func (c *cache) Has(key []byte) (bool, error) {
	if e, ok := c.lookup(key); ok {
		return !e.deleted, nil
	}
	return c.parent.Has(key)
}

func (c *cache) lookup(key []byte) (entry, bool) {
	item := c.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// Iterator returns cached and parent values with a key within [start, end)
// in ascending order.
func (c *cache) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	return newItemIter(entries(c.tree, start, end), parent, false), nil
}

// ReverseIterator is like Iterator, in descending order.
func (c *cache) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	items := entries(c.tree, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newItemIter(items, parent, true), nil
}

// entry is a cached change of a single key. A deleted entry hides the
// parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}

// emptyStore holds nothing and ignores all writes. It is the bottom layer
// of a MemStore.
type emptyStore struct{}

func (emptyStore) Get([]byte) ([]byte, error) { return nil, nil }
func (emptyStore) Has([]byte) (bool, error)   { return false, nil }
func (emptyStore) Set(_, _ []byte) error      { return nil }
func (emptyStore) Delete([]byte) error        { return nil }

func (emptyStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (emptyStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
