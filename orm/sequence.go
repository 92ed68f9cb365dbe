package orm

import (
	"encoding/binary"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// Sequence is a persisted counter generating primary keys. Every value is
// greater than the previous one both as a number and in byte order, so
// entities keyed by a sequence are iterated over in creation order.
type Sequence struct {
	id []byte
}

// NewSequence returns the sequence of given name in the bucket namespace.
// Its state is stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// NextVal increments the sequence and returns the new value, encoded as
// by EncodeSequence.
func (s *Sequence) NextVal(db barter.KVStore) ([]byte, error) {
	n, _, err := s.Current(db)
	if err != nil {
		return nil, err
	}
	raw := EncodeSequence(n + 1)
	if err := db.Set(s.id, raw); err != nil {
		return nil, errors.Wrap(err, "cannot store sequence")
	}
	return raw, nil
}

// Current returns the last value given away by NextVal, both as a number
// and encoded. A sequence that was never used returns zero and a nil value.
func (s *Sequence) Current(db barter.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, errors.Wrap(err, "cannot read sequence")
	}
	return DecodeSequence(raw), raw, nil
}

// DecodeSequence reads the value stored by a sequence. An unset sequence
// decodes to zero.
func DecodeSequence(bz []byte) int64 {
	if len(bz) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(bz))
}

// EncodeSequence returns the sortable, 8 bytes long representation of a
// sequence value.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
