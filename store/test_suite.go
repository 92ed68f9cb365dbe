package store

import (
	"testing"

	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/errors"
)

// Suite checks the behaviour every CacheableKVStore must provide for the
// escrow and wallet controllers to be atomic: cache layers that can be
// written or discarded, reads that fall through to the parent, and
// iterators merging both layers. The btree and iavl packages run it against
// their stores.
type Suite struct {
	open func() (CacheableKVStore, func())
}

// NewSuite returns a suite running against stores returned by open. The
// second value returned by open releases the store.
func NewSuite(open func() (CacheableKVStore, func())) *Suite {
	return &Suite{open: open}
}

// WriteAndDiscard checks that changes done in a cache are visible in its
// parent only after a write.
func (s *Suite) WriteAndDiscard(t *testing.T) {
	base, cleanup := s.open()
	defer cleanup()

	wallet, esc := []byte("wallet/alice"), []byte("esc/1")
	AssertGetHas(t, base, wallet, nil)
	assert.Nil(t, base.Set(wallet, []byte("10 IOV")))
	AssertGetHas(t, base, wallet, []byte("10 IOV"))

	tx := base.CacheWrap()
	AssertGetHas(t, tx, wallet, []byte("10 IOV"))
	assert.Nil(t, tx.Delete(wallet))
	assert.Nil(t, tx.Set(esc, []byte("created")))
	AssertGetHas(t, tx, wallet, nil)
	AssertGetHas(t, base, wallet, []byte("10 IOV"))
	AssertGetHas(t, base, esc, nil)
	assert.Nil(t, tx.Write())
	AssertGetHas(t, base, wallet, nil)
	AssertGetHas(t, base, esc, []byte("created"))

	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(esc, []byte("exchanged")))
	assert.Nil(t, failed.Set(wallet, []byte("5 AAA")))
	failed.Discard()
	AssertGetHas(t, base, esc, []byte("created"))
	AssertGetHas(t, base, wallet, nil)
}

// DiscardNested checks that a discarded child cache never leaks into its
// parent, even after the parent itself is written.
func (s *Suite) DiscardNested(t *testing.T) {
	base, cleanup := s.open()
	defer cleanup()

	k, v := []byte("escrow"), []byte("created")
	parent := base.CacheWrap()
	assert.Nil(t, parent.Set(k, v))

	child := parent.CacheWrap()
	assert.Nil(t, child.Set(k, []byte("exchanged")))
	assert.Nil(t, child.Set([]byte("badge"), []byte("burned")))
	child.Discard()

	AssertGetHas(t, parent, k, v)
	assert.Nil(t, parent.Write())
	AssertGetHas(t, base, k, v)
	AssertGetHas(t, base, []byte("badge"), nil)
}

// Iteration checks that cache iterators merge the cache with its parent,
// in both directions and within bounds. The end of a range is exclusive.
func (s *Suite) Iteration(t *testing.T) {
	parentOps := []Op{
		SetOp([]byte("esc/1"), []byte("created")),
		SetOp([]byte("esc/2"), []byte("created")),
		SetOp([]byte("esc/4"), []byte("created")),
		SetOp([]byte("wallet/bob"), []byte("5 AAA")),
	}
	childOps := []Op{
		SetOp([]byte("esc/2"), []byte("exchanged")),
		SetOp([]byte("esc/3"), []byte("created")),
		DelOp([]byte("esc/4")),
		DelOp([]byte("esc/9")),
		SetOp([]byte("badge/1"), []byte("minted")),
	}
	merged := []Model{
		Pair([]byte("badge/1"), []byte("minted")),
		Pair([]byte("esc/1"), []byte("created")),
		Pair([]byte("esc/2"), []byte("exchanged")),
		Pair([]byte("esc/3"), []byte("created")),
		Pair([]byte("wallet/bob"), []byte("5 AAA")),
	}

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		want       []Model
	}{
		"all":             {want: merged},
		"all reversed":    {reverse: true, want: reversed(merged)},
		"prefix":          {start: []byte("esc/"), end: []byte("esc0"), want: merged[1:4]},
		"prefix reversed": {start: []byte("esc/"), end: []byte("esc0"), reverse: true, want: reversed(merged[1:4])},
		"from key":        {start: []byte("esc/2"), want: merged[2:]},
		"to key":          {end: []byte("esc/2"), want: merged[:2]},
		"deleted only":    {start: []byte("esc/4"), end: []byte("esc/9~")},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.open()
			defer cleanup()

			for _, op := range parentOps {
				assert.Nil(t, op.Apply(base))
			}
			child := base.CacheWrap()
			for _, op := range childOps {
				assert.Nil(t, op.Apply(child))
			}

			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = child.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = child.Iterator(tc.start, tc.end)
			}
			assert.Nil(t, err)
			defer it.Release()

			var got []Model
			for {
				key, value, err := it.Next()
				if errors.ErrIteratorDone.Is(err) {
					break
				}
				assert.Nil(t, err)
				got = append(got, Pair(key, value))
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

// AssertGetHas fails the test if Get and Has do not agree with given
// value. A nil value means the key must not exist.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, exists)
}

func reversed(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}
