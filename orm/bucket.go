/*
Package orm stores models in prefixed sections of a key value store called
buckets.

Each bucket holds entities of a single model type under a primary key, and
can host any number of sequences generating increasing keys. Entities can be
loaded one by one or iterated over by key prefix.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// SeqID is the name of the default primary key sequence.
const SeqID = "id"

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// bucket maps entity keys to database keys.
type bucket struct {
	name   string
	prefix []byte
}

func newBucket(name string) bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name: %q", name))
	}
	return bucket{name: name, prefix: append([]byte(name), ':')}
}

// dbKey returns a new slice, so that keys of separate calls never share
// memory.
func (b bucket) dbKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(out, b.prefix...), key...)
}

// iterator returns raw entries with a key starting with prefix. Returned
// keys are stripped of the bucket prefix.
func (b bucket) iterator(db barter.ReadOnlyKVStore, prefix []byte, reverse bool) (barter.Iterator, error) {
	start, end := prefixRange(b.dbKey(prefix))
	var (
		it  barter.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &unprefixedIterator{it: it, cut: len(b.prefix)}, nil
}

type unprefixedIterator struct {
	it  barter.Iterator
	cut int
}

func (u *unprefixedIterator) Next() ([]byte, []byte, error) {
	key, value, err := u.it.Next()
	if err != nil {
		return nil, nil, err
	}
	return key[u.cut:], value, nil
}

func (u *unprefixedIterator) Release() {
	u.it.Release()
}
