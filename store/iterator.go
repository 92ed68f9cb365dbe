package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/barter/errors"
)

// entries returns in ascending order all items of the tree with a key
// within [start, end). A nil limit is unbounded.
func entries(bt *btree.BTree, start, end []byte) []entry {
	var items []entry
	collect := func(item btree.Item) bool {
		items = append(items, item.(entry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(entry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(entry{key: start}, collect)
	default:
		bt.AscendRange(entry{key: start}, entry{key: end}, collect)
	}
	return items
}

// itemIter combines the items of a cache with the iterator of the store it
// wraps. Cached values overwrite the parent ones and deleted items hide
// them.
type itemIter struct {
	items   []entry
	parent  Iterator
	reverse bool

	// the next parent element, read ahead to be compared with our items
	peeked     bool
	parentDone bool
	pkey, pval []byte
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []entry, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next element in order of iteration and advances.
func (i *itemIter) Next() ([]byte, []byte, error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}

		if len(i.items) == 0 {
			if i.parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			return i.popParent()
		}

		item := i.items[0]
		if !i.parentDone {
			cmp := bytes.Compare(item.key, i.pkey)
			if i.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				return i.popParent()
			}
			if cmp == 0 {
				// our item shadows the parent entry
				i.peeked = false
			}
		}

		i.items = i.items[1:]
		if !item.deleted {
			return item.key, item.value, nil
		}
	}
}

func (i *itemIter) peekParent() error {
	if i.peeked || i.parentDone {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.pkey, i.pval, i.peeked = key, value, true
		return nil
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
		return nil
	default:
		return err
	}
}

func (i *itemIter) popParent() ([]byte, []byte, error) {
	i.peeked = false
	return i.pkey, i.pval, nil
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.items = nil
}
