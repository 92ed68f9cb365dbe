package wallet

import (
	"sort"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

// BucketName is where we store the wallets
const BucketName = "wallet"

// Wallet holds all assets owned by an address. Holdings are sorted by type
// and never contain an empty vault.
type Wallet struct {
	Metadata *barter.Metadata `json:"metadata"`
	Address  barter.Address   `json:"address"`
	Holdings []asset.Vault    `json:"holdings"`
}

var _ orm.Model = (*Wallet)(nil)

// NewWallet returns an empty wallet of given address.
func NewWallet(addr barter.Address) *Wallet {
	return &Wallet{
		Metadata: &barter.Metadata{Schema: 1},
		Address:  addr,
	}
}

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, w)
}

// Validate ensures the wallet is valid.
func (w *Wallet) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", w.Metadata.Validate())
	errs = errors.AppendField(errs, "Address", w.Address.Validate())
	for i := range w.Holdings {
		v := &w.Holdings[i]
		if err := v.Validate(); err != nil {
			errs = errors.AppendField(errs, errors.Index("Holdings", i), err)
			continue
		}
		if v.IsEmpty() {
			errs = errors.AppendField(errs, errors.Index("Holdings", i), errors.Wrap(errors.ErrEmpty, "empty vault"))
		}
		if i > 0 && w.Holdings[i-1].Type() >= v.Type() {
			errs = errors.AppendField(errs, errors.Index("Holdings", i), errors.Wrap(errors.ErrState, "holdings not sorted or duplicated"))
		}
	}
	return errs
}

// Copy returns a deep copy of the wallet.
func (w *Wallet) Copy() orm.Model {
	return &Wallet{
		Metadata: w.Metadata.Copy(),
		Address:  append(barter.Address(nil), w.Address...),
		Holdings: append([]asset.Vault(nil), w.Holdings...),
	}
}

// vault returns the holding of given type or nil.
func (w *Wallet) vault(t asset.Type) *asset.Vault {
	i := sort.Search(len(w.Holdings), func(i int) bool { return w.Holdings[i].Type() >= t })
	if i < len(w.Holdings) && w.Holdings[i].Type() == t {
		return &w.Holdings[i]
	}
	return nil
}

// put deposits given handle, creating a holding if necessary.
func (w *Wallet) put(h *asset.Handle) error {
	if h.IsEmpty() {
		return errors.Wrap(errors.ErrEmpty, "handle")
	}
	if v := w.vault(h.Type()); v != nil {
		return v.Put(h)
	}
	v, err := asset.NewVault(h.Type(), h.Kind())
	if err != nil {
		return err
	}
	if err := v.Put(h); err != nil {
		return err
	}
	w.Holdings = append(w.Holdings, v)
	sort.Slice(w.Holdings, func(i, j int) bool { return w.Holdings[i].Type() < w.Holdings[j].Type() })
	return nil
}

// compact removes all empty holdings.
func (w *Wallet) compact() {
	left := w.Holdings[:0]
	for _, v := range w.Holdings {
		if !v.IsEmpty() {
			left = append(left, v)
		}
	}
	if len(left) == 0 {
		left = nil
	}
	w.Holdings = left
}
