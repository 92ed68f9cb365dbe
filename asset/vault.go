package asset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
)

// Vault is a container for assets of a single type and kind. Its content can
// only change through Put and the Take family of methods.
type Vault struct {
	typ       Type
	kind      Kind
	amount    coin.Coin
	instances []InstanceID
}

// NewVault returns an empty vault bound to given type and kind.
func NewVault(t Type, k Kind) (Vault, error) {
	if err := t.ValidateFor(k); err != nil {
		return Vault{}, err
	}
	return Vault{typ: t, kind: k}, nil
}

// Type returns the type this vault is bound to.
func (v *Vault) Type() Type { return v.typ }

// Kind returns the kind this vault is bound to.
func (v *Vault) Kind() Kind { return v.kind }

// Amount returns the fungible amount held. It is zero for unique vaults.
func (v *Vault) Amount() coin.Coin {
	if v.kind != Fungible {
		return coin.Coin{}
	}
	if v.amount.IsZero() {
		return coin.NewCoin(0, 0, string(v.typ))
	}
	return v.amount
}

// Instances returns a sorted copy of the unique instances held.
func (v *Vault) Instances() []InstanceID {
	if len(v.instances) == 0 {
		return nil
	}
	return append([]InstanceID(nil), v.instances...)
}

// Has returns true if the vault holds given instance.
func (v *Vault) Has(id InstanceID) bool {
	i := sort.Search(len(v.instances), func(i int) bool { return v.instances[i] >= id })
	return i < len(v.instances) && v.instances[i] == id
}

// IsEmpty returns true if the vault holds nothing.
func (v *Vault) IsEmpty() bool {
	if v.kind == Fungible {
		return v.amount.IsZero()
	}
	return len(v.instances) == 0
}

// Put moves the whole content of given handle into the vault. The handle is
// drained on success and left untouched on failure.
func (v *Vault) Put(h *Handle) error {
	if err := h.check(v.typ, v.kind); err != nil {
		return err
	}

	switch v.kind {
	case Fungible:
		total, err := v.amount.Add(h.s.amount)
		if err != nil {
			return errors.Wrap(err, "cannot add to vault")
		}
		v.amount = total
	case Unique:
		for _, id := range h.s.instances {
			if v.Has(id) {
				return errors.Wrapf(errors.ErrDuplicate, "instance %d already in vault", id)
			}
		}
		set, err := instanceSet(append(v.Instances(), h.s.instances...))
		if err != nil {
			return err
		}
		v.instances = set
	}
	h.drain()
	return nil
}

// TakeAll empties the vault and returns its content. Taking from an empty
// vault returns an empty handle.
func (v *Vault) TakeAll() *Handle {
	h := newHandle(v.typ, v.kind, v.amount, v.instances)
	v.amount = coin.Coin{}
	v.instances = nil
	return h
}

// Take withdraws exactly the given amount out of a fungible vault.
func (v *Vault) Take(amount coin.Coin) (*Handle, error) {
	if v.kind != Fungible {
		return nil, errors.Wrapf(errors.ErrType, "cannot take an amount out of %s vault", v.kind)
	}
	if err := validateAmount(v.typ, amount); err != nil {
		return nil, err
	}
	if !v.amount.IsGTE(amount) {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "want %s, have %s", amount, v.Amount())
	}
	left, err := v.amount.Subtract(amount)
	if err != nil {
		return nil, errors.Wrap(err, "cannot subtract")
	}
	if left.IsZero() {
		left = coin.Coin{}
	}
	v.amount = left
	return newHandle(v.typ, Fungible, amount, nil), nil
}

// TakeInstances withdraws exactly the listed instances out of a unique vault.
// Nothing is withdrawn if any of the instances is missing.
func (v *Vault) TakeInstances(ids ...InstanceID) (*Handle, error) {
	if v.kind != Unique {
		return nil, errors.Wrapf(errors.ErrType, "cannot take instances out of %s vault", v.kind)
	}
	want, err := instanceSet(ids)
	if err != nil {
		return nil, err
	}
	if len(want) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no instances")
	}
	for _, id := range want {
		if !v.Has(id) {
			return nil, errors.Wrapf(errors.ErrNotFound, "instance %d of %s", id, v.typ)
		}
	}

	left := make([]InstanceID, 0, len(v.instances)-len(want))
	for _, id := range v.instances {
		if i := sort.Search(len(want), func(i int) bool { return want[i] >= id }); i < len(want) && want[i] == id {
			continue
		}
		left = append(left, id)
	}
	if len(left) == 0 {
		left = nil
	}
	v.instances = left
	return newHandle(v.typ, Unique, coin.Coin{}, want), nil
}

// Validate returns an error if the vault state is not consistent.
func (v *Vault) Validate() error {
	if err := v.typ.ValidateFor(v.kind); err != nil {
		return err
	}
	switch v.kind {
	case Fungible:
		if len(v.instances) != 0 {
			return errors.Wrap(errors.ErrState, "fungible vault holds instances")
		}
		if v.amount.IsZero() {
			return nil
		}
		if err := validateAmount(v.typ, v.amount); err != nil {
			return err
		}
	case Unique:
		if !v.amount.IsZero() {
			return errors.Wrap(errors.ErrState, "unique vault holds an amount")
		}
		for i := 1; i < len(v.instances); i++ {
			if v.instances[i] <= v.instances[i-1] {
				return errors.Wrap(errors.ErrState, "instances not sorted or duplicated")
			}
		}
	}
	return nil
}

// String returns a human readable representation of the content.
func (v Vault) String() string {
	if v.kind == Unique {
		ids := make([]string, len(v.instances))
		for i, id := range v.instances {
			ids[i] = id.String()
		}
		return fmt.Sprintf("%s[%s]", v.typ, strings.Join(ids, ","))
	}
	return v.Amount().String()
}

// vaultRepr is the serialized form of a vault.
type vaultRepr struct {
	Type       string
	Kind       uint32
	Whole      int64
	Fractional int64
	Instances  []uint64
}

// MarshalAmino implements the go-amino custom encoding.
func (v Vault) MarshalAmino() (vaultRepr, error) {
	r := vaultRepr{
		Type:       string(v.typ),
		Kind:       uint32(v.kind),
		Whole:      v.amount.Whole,
		Fractional: v.amount.Fractional,
	}
	for _, id := range v.instances {
		r.Instances = append(r.Instances, uint64(id))
	}
	return r, nil
}

// UnmarshalAmino implements the go-amino custom decoding.
func (v *Vault) UnmarshalAmino(r vaultRepr) error {
	*v = Vault{typ: Type(r.Type), kind: Kind(r.Kind)}
	if r.Whole != 0 || r.Fractional != 0 {
		v.amount = coin.NewCoin(r.Whole, r.Fractional, r.Type)
	}
	for _, id := range r.Instances {
		v.instances = append(v.instances, InstanceID(id))
	}
	return nil
}
