package escrow

import (
	"context"
	"encoding/hex"
	"sync"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x/badge"
)

// Controller runs the escrow state machine. All operations are serialized and
// atomic: a failed operation changes neither the store nor any of the handles
// passed to it.
type Controller struct {
	mu      sync.Mutex
	bucket  orm.ModelBucket
	seq     orm.Sequence
	badges  *badge.Issuer
	metrics *Metrics
}

// NewController returns a controller using given badge issuer. Metrics are
// optional and can be nil.
func NewController(badges *badge.Issuer, metrics *Metrics) *Controller {
	b := NewBucket()
	return &Controller{
		bucket:  b,
		seq:     b.Sequence("id"),
		badges:  badges,
		metrics: metrics,
	}
}

// Create opens a new escrow that offers the content of given handle in
// exchange for the requested asset. It returns the ID of the escrow and the
// badge that authorizes withdrawing the payment or cancelling the escrow.
func (c *Controller) Create(ctx context.Context, db barter.CacheableKVStore, requested Specifier, offered *asset.Handle) ([]byte, *asset.Handle, error) {
	if requested == nil {
		return nil, nil, errors.Wrap(errors.ErrInput, "requested asset is required")
	}
	if err := requested.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "requested asset")
	}
	if offered.IsEmpty() {
		return nil, nil, errors.Wrap(errors.ErrEmpty, "offered asset")
	}

	var (
		id    []byte
		token *asset.Handle
	)
	ctx = barter.WithLogInfo(ctx, "module", "escrow", "op", "create")
	err := c.atomic(ctx, db, "create", []*asset.Handle{offered}, func(db barter.KVStore) error {
		key, err := c.seq.NextVal(db)
		if err != nil {
			return errors.Wrap(err, "cannot acquire ID")
		}
		conf, err := loadConf(db)
		if err != nil {
			return err
		}

		esc := &Escrow{
			Metadata:  &barter.Metadata{Schema: 1},
			Requested: requested,
			BadgeType: BadgeType(key),
			State:     Created,
			Address:   Condition(key).Address(),
		}
		if esc.Offered, err = asset.NewVault(offered.Type(), offered.Kind()); err != nil {
			return errors.Wrap(err, "offered vault")
		}
		if esc.Received, err = asset.NewVault(requested.AssetType(), requested.AssetKind()); err != nil {
			return errors.Wrap(err, "received vault")
		}
		if err := esc.Offered.Put(offered); err != nil {
			return errors.Wrap(err, "cannot deposit offer")
		}

		b, err := c.badges.Mint(db, esc.BadgeType, badge.Details{
			Name:    conf.BadgeName,
			Offered: esc.Offered.Type(),
		})
		if err != nil {
			return errors.Wrap(err, "cannot mint badge")
		}
		if err := c.bucket.Put(db, key, esc); err != nil {
			return errors.Wrap(err, "cannot save escrow")
		}
		id, token = key, b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	barter.GetLogger(ctx).Info("escrow created", "id", hex.EncodeToString(id))
	return id, token, nil
}

// Exchange pays the requested asset and returns the whole offer. The payment
// must be exactly the requested asset.
func (c *Controller) Exchange(ctx context.Context, db barter.CacheableKVStore, id []byte, payment *asset.Handle) (*asset.Handle, error) {
	var out *asset.Handle
	ctx = barter.WithLogInfo(ctx, "module", "escrow", "op", "exchange")
	err := c.atomic(ctx, db, "exchange", []*asset.Handle{payment}, func(db barter.KVStore) error {
		esc, err := c.Get(db, id)
		if err != nil {
			return err
		}
		if esc.Offered.IsEmpty() {
			return errors.Wrapf(ErrAlreadySettled, "escrow is %s", esc.State)
		}
		if err := satisfies(esc.Requested, payment); err != nil {
			return err
		}
		if err := esc.Received.Put(payment); err != nil {
			return errors.Wrap(err, "cannot deposit payment")
		}
		offer := esc.Offered.TakeAll()
		esc.State = Exchanged
		if err := c.bucket.Put(db, id, esc); err != nil {
			return errors.Wrap(err, "cannot save escrow")
		}
		out = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	barter.GetLogger(ctx).Info("escrow exchanged", "id", hex.EncodeToString(id))
	return out, nil
}

// Withdraw burns the badge and returns the payment collected by the escrow.
func (c *Controller) Withdraw(ctx context.Context, db barter.CacheableKVStore, id []byte, token *asset.Handle) (*asset.Handle, error) {
	var out *asset.Handle
	ctx = barter.WithLogInfo(ctx, "module", "escrow", "op", "withdraw")
	err := c.atomic(ctx, db, "withdraw", []*asset.Handle{token}, func(db barter.KVStore) error {
		esc, err := c.Get(db, id)
		if err != nil {
			return err
		}
		if err := authorize(esc, token); err != nil {
			return err
		}
		if esc.Received.IsEmpty() {
			return errors.Wrapf(ErrNotYetExchanged, "escrow is %s", esc.State)
		}
		if err := c.badges.Burn(db, token); err != nil {
			return errors.Wrap(err, "cannot burn badge")
		}
		payment := esc.Received.TakeAll()
		esc.State = Withdrawn
		if err := c.bucket.Put(db, id, esc); err != nil {
			return errors.Wrap(err, "cannot save escrow")
		}
		out = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	barter.GetLogger(ctx).Info("escrow withdrawn", "id", hex.EncodeToString(id))
	return out, nil
}

// Cancel burns the badge and returns the offer. An escrow can be cancelled
// only before anybody paid.
func (c *Controller) Cancel(ctx context.Context, db barter.CacheableKVStore, id []byte, token *asset.Handle) (*asset.Handle, error) {
	var out *asset.Handle
	ctx = barter.WithLogInfo(ctx, "module", "escrow", "op", "cancel")
	err := c.atomic(ctx, db, "cancel", []*asset.Handle{token}, func(db barter.KVStore) error {
		esc, err := c.Get(db, id)
		if err != nil {
			return err
		}
		if err := authorize(esc, token); err != nil {
			return err
		}
		if esc.Offered.IsEmpty() {
			return errors.Wrapf(ErrAlreadySettled, "escrow is %s", esc.State)
		}
		if err := c.badges.Burn(db, token); err != nil {
			return errors.Wrap(err, "cannot burn badge")
		}
		offer := esc.Offered.TakeAll()
		esc.State = Cancelled
		if err := c.bucket.Put(db, id, esc); err != nil {
			return errors.Wrap(err, "cannot save escrow")
		}
		out = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	barter.GetLogger(ctx).Info("escrow cancelled", "id", hex.EncodeToString(id))
	return out, nil
}

// Get returns the escrow with given ID. ErrNotFound is returned if it does
// not exist.
func (c *Controller) Get(db barter.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var esc Escrow
	if err := c.bucket.One(db, id, &esc); err != nil {
		return nil, errors.Wrapf(err, "escrow %X", id)
	}
	return &esc, nil
}

// All calls fn for every escrow, in the order of creation. Iteration stops
// at the first error returned by fn.
func (c *Controller) All(db barter.ReadOnlyKVStore, fn func(id []byte, e *Escrow) error) error {
	it, err := c.bucket.PrefixScan(db, nil, false)
	if err != nil {
		return errors.Wrap(err, "cannot scan escrows")
	}
	defer it.Release()

	for {
		var esc Escrow
		switch key, err := it.Load(&esc); {
		case errors.ErrIteratorDone.Is(err):
			return nil
		case err != nil:
			return errors.Wrap(err, "cannot load escrow")
		default:
			if err := fn(key, &esc); err != nil {
				return err
			}
		}
	}
}

// authorize returns an error if token is not a live badge of given escrow.
func authorize(esc *Escrow, token *asset.Handle) error {
	if token.IsEmpty() {
		return errors.Wrap(ErrAuthorizationMismatch, "no badge")
	}
	if token.Type() != esc.BadgeType {
		return errors.Wrapf(ErrAuthorizationMismatch, "want %s, got %s", esc.BadgeType, token.Type())
	}
	return nil
}

// atomic runs fn within a transaction. The changes fn made are written to db
// only if it succeeds. Otherwise they are discarded and given handles are
// restored to their content from before the call.
func (c *Controller) atomic(
	ctx context.Context,
	db barter.CacheableKVStore,
	op string,
	handles []*asset.Handle,
	fn func(barter.KVStore) error,
) (err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := asset.Checkpoint(handles...)
	cache := db.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
			snap.Restore()
			barter.GetLogger(ctx).Debug("escrow operation failed", "err", err)
		}
		c.metrics.observe(op, err)
	}()
	defer errors.Recover(&err)

	if err := fn(cache); err != nil {
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write")
	}
	return nil
}
