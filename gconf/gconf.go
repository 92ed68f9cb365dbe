package gconf

import (
	"github.com/iov-one/barter/errors"
)

// ReadStore is the part of barter.ReadOnlyKVStore that Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of barter.KVStore that Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Configuration is implemented by all configuration entities.
type Configuration interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates c and stores it as the configuration of pkg, overwriting
// any previous one.
func Save(db Store, pkg string, c Configuration) error {
	if err := c.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s configuration", pkg)
	}
	raw, err := c.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %s configuration", pkg)
	}
	if err := db.Set(key(pkg), raw); err != nil {
		return errors.Wrapf(err, "cannot store %s configuration", pkg)
	}
	return nil
}

// Load reads the configuration of pkg into dst. ErrNotFound is returned if
// no configuration was saved.
func Load(db ReadStore, pkg string, dst Configuration) error {
	raw, err := db.Get(key(pkg))
	switch {
	case err != nil:
		return errors.Wrapf(err, "cannot read %s configuration", pkg)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s configuration", pkg)
	}
	return nil
}
