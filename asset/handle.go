package asset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
)

// Handle is an opaque reference to assets of one type. Its content can only
// be moved, never copied: depositing a handle drains it. Copies of a Handle
// value share the same content, so draining one drains them all.
type Handle struct {
	s *handleState
}

// handleState is the value referenced by a handle.
type handleState struct {
	typ       Type
	kind      Kind
	amount    coin.Coin
	instances []InstanceID
}

func newHandle(t Type, k Kind, amount coin.Coin, instances []InstanceID) *Handle {
	return &Handle{s: &handleState{typ: t, kind: k, amount: amount, instances: instances}}
}

// Mint creates a handle holding a fungible amount of a new value. Types
// within a reserved namespace can be minted only by their Minter.
func Mint(t Type, amount coin.Coin) (*Handle, error) {
	if reservedBy(t) != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "type %s is reserved", t)
	}
	return mint(t, amount)
}

// MintInstances creates a handle holding new unique instances of given type.
// Types within a reserved namespace can be minted only by their Minter.
func MintInstances(t Type, ids ...InstanceID) (*Handle, error) {
	if reservedBy(t) != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "type %s is reserved", t)
	}
	return mintInstances(t, ids)
}

func mint(t Type, amount coin.Coin) (*Handle, error) {
	if err := t.ValidateFor(Fungible); err != nil {
		return nil, err
	}
	if err := validateAmount(t, amount); err != nil {
		return nil, err
	}
	return newHandle(t, Fungible, amount, nil), nil
}

func mintInstances(t Type, ids []InstanceID) (*Handle, error) {
	if err := t.ValidateFor(Unique); err != nil {
		return nil, err
	}
	set, err := instanceSet(ids)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no instances")
	}
	return newHandle(t, Unique, coin.Coin{}, set), nil
}

func validateAmount(t Type, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if amount.Ticker != string(t) {
		return errors.Wrapf(errors.ErrCurrency, "amount of %s for type %s", amount.Ticker, t)
	}
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	return nil
}

// instanceSet returns sorted copy of ids. Duplicates are rejected.
func instanceSet(ids []InstanceID) ([]InstanceID, error) {
	set := append([]InstanceID(nil), ids...)
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	for i := 1; i < len(set); i++ {
		if set[i] == set[i-1] {
			return nil, errors.Wrapf(errors.ErrDuplicate, "instance %d", set[i])
		}
	}
	return set, nil
}

func (h *Handle) state() *handleState {
	if h == nil || h.s == nil {
		return &handleState{}
	}
	return h.s
}

// Type returns the asset type referenced by the handle.
func (h *Handle) Type() Type {
	return h.state().typ
}

// Kind returns the asset kind referenced by the handle.
func (h *Handle) Kind() Kind {
	return h.state().kind
}

// Amount returns the fungible amount held. It is zero for unique assets.
func (h *Handle) Amount() coin.Coin {
	c := h.state()
	if c.kind != Fungible {
		return coin.Coin{}
	}
	if c.amount.IsZero() {
		return coin.NewCoin(0, 0, string(c.typ))
	}
	return c.amount
}

// Instances returns a sorted copy of the unique instances held.
func (h *Handle) Instances() []InstanceID {
	c := h.state()
	if len(c.instances) == 0 {
		return nil
	}
	return append([]InstanceID(nil), c.instances...)
}

// IsEmpty returns true if the handle holds no value. A nil handle is empty.
func (h *Handle) IsEmpty() bool {
	c := h.state()
	switch c.kind {
	case Fungible:
		return c.amount.IsZero()
	case Unique:
		return len(c.instances) == 0
	default:
		return true
	}
}

// String returns a human readable representation of the content.
func (h *Handle) String() string {
	if h == nil || h.s == nil {
		return "(nil)"
	}
	if h.s.kind == Unique {
		ids := make([]string, len(h.s.instances))
		for i, id := range h.s.instances {
			ids[i] = id.String()
		}
		return fmt.Sprintf("%s[%s]", h.s.typ, strings.Join(ids, ","))
	}
	return h.Amount().String()
}

// drain removes the whole content of the handle.
func (h *Handle) drain() {
	h.s.amount = coin.Coin{}
	h.s.instances = nil
}

// check returns an error if the handle cannot be deposited into a container
// of given type and kind.
func (h *Handle) check(t Type, k Kind) error {
	if h.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "handle")
	}
	if h.s.typ != t {
		return errors.Wrapf(errors.ErrType, "%s cannot hold %s", t, h.s.typ)
	}
	if h.s.kind != k {
		return errors.Wrapf(errors.ErrType, "%s cannot hold %s assets", k, h.s.kind)
	}
	return nil
}
