package badge

import (
	"strings"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// Issuer mints and burns badges. Every badge it has ever minted is recorded,
// so that a badge type cannot be reused.
type Issuer struct {
	bucket orm.ModelBucket
}

// NewIssuer returns an issuer keeping its records in the "badge" bucket.
func NewIssuer() *Issuer {
	return &Issuer{
		bucket: orm.NewModelBucket("badge", &Badge{}),
	}
}

// Mint creates a badge of given type and returns the only handle to it. The
// type must belong to Namespace. ErrDuplicate is returned if a badge of that
// type was minted before, even if it was burned since.
func (is *Issuer) Mint(db barter.KVStore, typ asset.Type, details Details) (*asset.Handle, error) {
	switch err := is.bucket.Has(db, []byte(typ)); {
	case err == nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "badge %s", typ)
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "cannot check badge")
	}

	h, err := minter.MintInstances(typ, DefaultID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot mint badge")
	}
	b := &Badge{
		Metadata: &barter.Metadata{Schema: 1},
		Type:     typ,
		Instance: DefaultID,
		Details:  details,
	}
	if err := is.bucket.Put(db, []byte(typ), b); err != nil {
		return nil, errors.Wrap(err, "cannot save badge")
	}
	return h, nil
}

// Burn destroys the badge referenced by given handle. The handle is drained
// and the badge is marked as burned.
func (is *Issuer) Burn(db barter.KVStore, h *asset.Handle) error {
	if h.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "badge handle")
	}
	if h.Kind() != asset.Unique || !strings.HasPrefix(string(h.Type()), Namespace) {
		return errors.Wrapf(errors.ErrType, "%s is not a badge", h.Type())
	}
	b, err := is.Get(db, h.Type())
	if err != nil {
		return err
	}
	if b.Burned {
		return errors.Wrapf(errors.ErrState, "badge %s already burned", b.Type)
	}

	// Badges are burned by locking them in a vault that is never
	// persisted.
	furnace, err := asset.NewVault(b.Type, asset.Unique)
	if err != nil {
		return errors.Wrap(err, "furnace")
	}
	if ids := h.Instances(); len(ids) != 1 || ids[0] != b.Instance {
		return errors.Wrapf(errors.ErrType, "%s is not a badge", h)
	}
	if err := furnace.Put(h); err != nil {
		return errors.Wrap(err, "cannot burn")
	}

	b.Burned = true
	if err := is.bucket.Put(db, []byte(b.Type), b); err != nil {
		return errors.Wrap(err, "cannot save badge")
	}
	return nil
}

// TypeOf returns the badge type referenced by given handle.
func (is *Issuer) TypeOf(h *asset.Handle) asset.Type {
	return h.Type()
}

// Get returns the record of a minted badge. ErrNotFound is returned if no
// badge of given type was ever minted.
func (is *Issuer) Get(db barter.ReadOnlyKVStore, typ asset.Type) (*Badge, error) {
	var b Badge
	if err := is.bucket.One(db, []byte(typ), &b); err != nil {
		return nil, errors.Wrapf(err, "badge %s", typ)
	}
	return &b, nil
}
