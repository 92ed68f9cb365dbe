package orm

import (
	"github.com/iov-one/barter/errors"
)

// ValidateSequence returns an error if this is not an 8-byte
// as expected for orm.Sequence
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}

// prefixRange turns a prefix into (start, end) to create
// an iterator. A nil end means the range is not bounded.
func prefixRange(prefix []byte) ([]byte, []byte) {
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}
