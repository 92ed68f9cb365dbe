package store

import (
	"github.com/iov-one/barter/errors"
)

// Pair constructs a model from a key-value pair
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// SliceIterator iterates over models kept in memory, in slice order.
type SliceIterator struct {
	data []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Next() ([]byte, []byte, error) {
	if len(s.data) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[0]
	s.data = s.data[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.data = nil
}

// Op is a single change recorded by a batch. A nil value deletes the key.
type Op struct {
	key   []byte
	value []byte
}

// SetOp returns an operation storing value under key.
func SetOp(key, value []byte) Op {
	if value == nil {
		value = []byte{}
	}
	return Op{key: key, value: value}
}

// DelOp returns an operation deleting key.
func DelOp(key []byte) Op {
	return Op{key: key}
}

// Apply performs the operation on out.
func (o Op) Apply(out SetDeleter) error {
	if o.key == nil {
		return errors.Wrap(errors.ErrDatabase, "operation without key")
	}
	if o.value == nil {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch records operations and replays them in order on Write.
// A failure in the middle of Write leaves the operations before it applied,
// so it must only back in-memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write applies all recorded operations and resets the batch.
func (b *NonAtomicBatch) Write() error {
	ops := b.ops
	b.ops = nil
	for i, op := range ops {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrapf(err, "operation %d", i)
		}
	}
	return nil
}

// Len returns the number of operations waiting for Write.
func (b *NonAtomicBatch) Len() int {
	return len(b.ops)
}
