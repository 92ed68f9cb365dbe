package wallet

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x/escrow"
)

// Controller moves assets in and out of wallets.
type Controller struct {
	bucket orm.ModelBucket
}

// NewController returns a controller keeping wallets in the wallet bucket.
func NewController() *Controller {
	return &Controller{
		bucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// Take withdraws exactly the asset described by spec.
func (c *Controller) Take(db barter.KVStore, addr barter.Address, spec escrow.Specifier) (*asset.Handle, error) {
	var h *asset.Handle
	err := spec.Match(
		func(f escrow.Fungible) (err error) {
			h, err = c.TakeAmount(db, addr, f.Amount)
			return err
		},
		func(u escrow.Unique) (err error) {
			h, err = c.TakeInstances(db, addr, u.Type, u.Instance)
			return err
		},
	)
	return h, err
}

// TakeAmount withdraws exactly given amount of a fungible asset.
// ErrInsufficientAmount is returned if the wallet does not hold enough.
func (c *Controller) TakeAmount(db barter.KVStore, addr barter.Address, amount coin.Coin) (*asset.Handle, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return nil, err
	}
	v := w.vault(asset.Type(amount.Ticker))
	if v == nil {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "%s holds no %s", addr, amount.Ticker)
	}
	h, err := v.Take(amount)
	if err != nil {
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
	return h, c.save(db, w)
}

// TakeInstances withdraws exactly the listed instances of a unique asset.
// ErrNotFound is returned if any of them is not held by the wallet.
func (c *Controller) TakeInstances(db barter.KVStore, addr barter.Address, t asset.Type, ids ...asset.InstanceID) (*asset.Handle, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return nil, err
	}
	v := w.vault(t)
	if v == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s holds no %s", addr, t)
	}
	h, err := v.TakeInstances(ids...)
	if err != nil {
		return nil, errors.Wrapf(err, "wallet %s", addr)
	}
	return h, c.save(db, w)
}

// Put deposits the whole content of given handle into the wallet of addr.
// The wallet is created if it does not exist yet.
func (c *Controller) Put(db barter.KVStore, addr barter.Address, h *asset.Handle) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	w, err := c.load(db, addr)
	if err != nil {
		return err
	}
	if err := w.put(h); err != nil {
		return errors.Wrapf(err, "wallet %s", addr)
	}
	return c.save(db, w)
}

// Balance returns all holdings of given address. An unknown address holds
// nothing.
func (c *Controller) Balance(db barter.ReadOnlyKVStore, addr barter.Address) ([]asset.Vault, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return nil, err
	}
	return w.Holdings, nil
}

func (c *Controller) load(db barter.ReadOnlyKVStore, addr barter.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return NewWallet(addr), nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

func (c *Controller) save(db barter.KVStore, w *Wallet) error {
	w.compact()
	if len(w.Holdings) == 0 {
		switch err := c.bucket.Delete(db, w.Address); {
		case err == nil, errors.ErrNotFound.Is(err):
			return nil
		default:
			return errors.Wrap(err, "cannot delete wallet")
		}
	}
	if err := c.bucket.Put(db, w.Address, w); err != nil {
		return errors.Wrap(err, "cannot save wallet")
	}
	return nil
}
