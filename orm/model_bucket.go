package orm

import (
	"reflect"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
)

// ModelBucket stores entities of a single Model type.
type ModelBucket interface {
	// One loads the entity stored under given primary key into dest. It
	// returns ErrNotFound if the entity does not exist and ErrType if dest
	// is not of the bucket model type.
	One(db barter.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists in the
	// database and ErrNotFound otherwise.
	Has(db barter.ReadOnlyKVStore, key []byte) error

	// Put validates and saves given model under the primary key.
	Put(db barter.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db barter.KVStore, key []byte) error

	// PrefixScan returns an iterator over all entities with a primary key
	// that starts with given prefix, in key order. A nil prefix iterates
	// over the whole bucket.
	PrefixScan(db barter.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)

	// Sequence returns a sequence stored under the namespace of this
	// bucket.
	Sequence(name string) Sequence
}

// ModelIterator loads models one by one. When there are no more entities
// ErrIteratorDone is returned.
type ModelIterator interface {
	// Load loads the next entity into given destination and returns its
	// primary key.
	Load(dest Model) ([]byte, error)
	Release()
}

// NewModelBucket returns a ModelBucket instance that stores all entities
// of the same type as model under the name namespace. It panics if name is
// not 3 to 10 lower case letters or underscores.
func NewModelBucket(name string, model Model) ModelBucket {
	return &modelBucket{
		b:     newBucket(name),
		model: reflect.TypeOf(model),
	}
}

type modelBucket struct {
	b     bucket
	model reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) One(db barter.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	raw, err := db.Get(mb.b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	return mb.decode(raw, dest)
}

// decode unmarshals into a zero model, so that no state of dest is kept.
func (mb *modelBucket) decode(raw []byte, dest Model) error {
	fresh := reflect.New(mb.model.Elem())
	if err := fresh.Interface().(Model).Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s", mb.model)
	}
	reflect.ValueOf(dest).Elem().Set(fresh.Elem())
	return nil
}

func (mb *modelBucket) checkType(m Model) error {
	if reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "%T cannot be used with a bucket of %s", m, mb.model)
	}
	return nil
}

func (mb *modelBucket) Has(db barter.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (mb *modelBucket) Put(db barter.KVStore, key []byte, m Model) error {
	if err := mb.checkType(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	if err := db.Set(mb.b.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db barter.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	return db.Delete(mb.b.dbKey(key))
}

func (mb *modelBucket) PrefixScan(db barter.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	it, err := mb.b.iterator(db, prefix, reverse)
	if err != nil {
		return nil, err
	}
	return &modelIterator{it: it, mb: mb}, nil
}

func (mb *modelBucket) Sequence(name string) Sequence {
	return NewSequence(mb.b.name, name)
}

type modelIterator struct {
	it barter.Iterator
	mb *modelBucket
}

func (m *modelIterator) Load(dest Model) ([]byte, error) {
	if err := m.mb.checkType(dest); err != nil {
		return nil, err
	}
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := m.mb.decode(value, dest); err != nil {
		return nil, errors.Wrapf(err, "entity %q", key)
	}
	return key, nil
}

func (m *modelIterator) Release() {
	m.it.Release()
}
