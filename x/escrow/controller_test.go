package escrow

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/x/badge"
)

func want(whole int64, ticker string) Specifier {
	return Fungible{Type: asset.Type(ticker), Amount: coin.NewCoin(whole, 0, ticker)}
}

func newController() *Controller {
	return NewController(badge.NewIssuer(), nil)
}

func TestEscrowFungibleSwap(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	id, token, err := c.Create(ctx, db, want(10, "AAA"), bartertest.MintCoins(t, 10, "BBB"))
	assert.Nil(t, err)
	assert.Equal(t, BadgeType(id), token.Type())
	assert.Equal(t, []asset.InstanceID{badge.DefaultID}, token.Instances())

	esc, err := c.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, Created, esc.State)
	assert.Equal(t, coin.NewCoin(10, 0, "BBB"), esc.Offered.Amount())
	assert.Equal(t, true, esc.Received.IsEmpty())
	assert.Equal(t, Condition(id).Address(), esc.Address)

	payment := bartertest.MintCoins(t, 10, "AAA")
	offer, err := c.Exchange(ctx, db, id, payment)
	assert.Nil(t, err)
	assert.Equal(t, true, payment.IsEmpty())
	assert.Equal(t, coin.NewCoin(10, 0, "BBB"), offer.Amount())

	esc, err = c.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, Exchanged, esc.State)
	assert.Equal(t, true, esc.Offered.IsEmpty())
	assert.Equal(t, coin.NewCoin(10, 0, "AAA"), esc.Received.Amount())

	got, err := c.Withdraw(ctx, db, id, token)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(10, 0, "AAA"), got.Amount())
	assert.Equal(t, true, token.IsEmpty())

	esc, err = c.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, Withdrawn, esc.State)
	assert.Equal(t, true, esc.Offered.IsEmpty())
	assert.Equal(t, true, esc.Received.IsEmpty())

	b, err := badge.NewIssuer().Get(db, BadgeType(id))
	assert.Nil(t, err)
	assert.Equal(t, true, b.Burned)
	assert.Equal(t, asset.Type("BBB"), b.Details.Offered)
	assert.Equal(t, DefaultBadgeName, b.Details.Name)
}

func TestEscrowUniqueSwap(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	id, token, err := c.Create(ctx, db, Unique{Type: "cats", Instance: 7}, bartertest.MintCoins(t, 3, "IOV"))
	assert.Nil(t, err)

	_, err = c.Exchange(ctx, db, id, bartertest.MintInstances(t, "cats", 8))
	assert.FieldError(t, err, "Instance", ErrAssetMismatch)
	_, err = c.Exchange(ctx, db, id, bartertest.MintInstances(t, "cats", 7, 8))
	assert.FieldError(t, err, "Instance", ErrAssetMismatch)

	offer, err := c.Exchange(ctx, db, id, bartertest.MintInstances(t, "cats", 7))
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(3, 0, "IOV"), offer.Amount())

	got, err := c.Withdraw(ctx, db, id, token)
	assert.Nil(t, err)
	assert.Equal(t, asset.Type("cats"), got.Type())
	assert.Equal(t, []asset.InstanceID{7}, got.Instances())
}

func TestEscrowOffersUniqueAsset(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	deed := bartertest.MintInstances(t, "deeds", 42)
	id, token, err := c.Create(ctx, db, want(100, "IOV"), deed)
	assert.Nil(t, err)
	assert.Equal(t, true, deed.IsEmpty())

	b, err := badge.NewIssuer().Get(db, BadgeType(id))
	assert.Nil(t, err)
	assert.Equal(t, asset.Type("deeds"), b.Details.Offered)

	back, err := c.Cancel(ctx, db, id, token)
	assert.Nil(t, err)
	assert.Equal(t, []asset.InstanceID{42}, back.Instances())

	esc, err := c.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, Cancelled, esc.State)
}

func TestExchangeValidation(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		payment   func(t testing.TB) *asset.Handle
		wantField string
	}{
		"wrong type": {
			payment:   func(t testing.TB) *asset.Handle { return bartertest.MintCoins(t, 10, "CCC") },
			wantField: "Type",
		},
		"too little": {
			payment:   func(t testing.TB) *asset.Handle { return bartertest.MintCoins(t, 9, "AAA") },
			wantField: "Amount",
		},
		"too much": {
			payment:   func(t testing.TB) *asset.Handle { return bartertest.MintCoins(t, 11, "AAA") },
			wantField: "Amount",
		},
		"unique asset of the requested type name": {
			payment:   func(t testing.TB) *asset.Handle { return bartertest.MintInstances(t, "AAA", 10) },
			wantField: "Amount",
		},
		"nil handle": {
			payment:   func(t testing.TB) *asset.Handle { return nil },
			wantField: "Type",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			c := newController()
			id, _, err := c.Create(ctx, db, want(10, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
			assert.Nil(t, err)

			payment := tc.payment(t)
			before := payment.String()
			_, err = c.Exchange(ctx, db, id, payment)
			assert.FieldError(t, err, tc.wantField, ErrAssetMismatch)
			assert.Equal(t, before, payment.String())

			esc, err := c.Get(db, id)
			assert.Nil(t, err)
			assert.Equal(t, Created, esc.State)
			assert.Equal(t, coin.NewCoin(1, 0, "BBB"), esc.Offered.Amount())
		})
	}
}

func TestIllegalTransitions(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	// exchanged escrow
	exID, exToken, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)
	_, err = c.Exchange(ctx, db, exID, bartertest.MintCoins(t, 1, "AAA"))
	assert.Nil(t, err)

	// second exchange cannot happen
	second := bartertest.MintCoins(t, 1, "AAA")
	_, err = c.Exchange(ctx, db, exID, second)
	assert.IsErr(t, ErrAlreadySettled, err)
	assert.Equal(t, false, second.IsEmpty())

	// cancel after an exchange is too late
	_, err = c.Cancel(ctx, db, exID, exToken)
	assert.IsErr(t, ErrAlreadySettled, err)
	assert.Equal(t, false, exToken.IsEmpty())

	_, err = c.Withdraw(ctx, db, exID, exToken)
	assert.Nil(t, err)

	// the badge was burned, so nothing else can be done
	_, err = c.Withdraw(ctx, db, exID, exToken)
	assert.IsErr(t, ErrAuthorizationMismatch, err)
	_, err = c.Cancel(ctx, db, exID, exToken)
	assert.IsErr(t, ErrAuthorizationMismatch, err)

	// created escrow
	crID, crToken, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)
	_, err = c.Withdraw(ctx, db, crID, crToken)
	assert.IsErr(t, ErrNotYetExchanged, err)
	assert.Equal(t, false, crToken.IsEmpty())

	_, err = c.Cancel(ctx, db, crID, crToken)
	assert.Nil(t, err)

	// cancelled escrow cannot be paid or reclaimed again
	late := bartertest.MintCoins(t, 1, "AAA")
	_, err = c.Exchange(ctx, db, crID, late)
	assert.IsErr(t, ErrAlreadySettled, err)
	assert.Equal(t, false, late.IsEmpty())
	_, err = c.Cancel(ctx, db, crID, crToken)
	assert.IsErr(t, ErrAuthorizationMismatch, err)
	_, err = c.Withdraw(ctx, db, crID, crToken)
	assert.IsErr(t, ErrAuthorizationMismatch, err)

	esc, err := c.Get(db, crID)
	assert.Nil(t, err)
	assert.Equal(t, Cancelled, esc.State)
}

func TestBadgeOfAnotherEscrow(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	aID, aToken, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)
	bID, bToken, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)

	_, err = c.Cancel(ctx, db, aID, bToken)
	assert.IsErr(t, ErrAuthorizationMismatch, err)
	_, err = c.Exchange(ctx, db, bID, bartertest.MintCoins(t, 1, "AAA"))
	assert.Nil(t, err)
	_, err = c.Withdraw(ctx, db, bID, aToken)
	assert.IsErr(t, ErrAuthorizationMismatch, err)

	// a fungible asset is never a badge
	_, err = c.Cancel(ctx, db, aID, bartertest.MintCoins(t, 1, "AAA"))
	assert.IsErr(t, ErrAuthorizationMismatch, err)

	_, err = c.Cancel(ctx, db, aID, aToken)
	assert.Nil(t, err)
	_, err = c.Withdraw(ctx, db, bID, bToken)
	assert.Nil(t, err)
}

func TestForgedBadgeRejected(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	id, token, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 10, "BBB"))
	assert.Nil(t, err)

	// Badge types can be minted by the issuer only.
	_, err = asset.MintInstances(BadgeType(id), badge.DefaultID)
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = asset.MintInstances(BadgeType(orm.EncodeSequence(2)), badge.DefaultID)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// A copy of the badge is the same badge, it cannot be used twice.
	dup := *token
	offer, err := c.Cancel(ctx, db, id, token)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(10, 0, "BBB"), offer.Amount())
	assert.Equal(t, true, dup.IsEmpty())
	_, err = c.Cancel(ctx, db, id, &dup)
	assert.IsErr(t, ErrAuthorizationMismatch, err)
}

func TestCopiedOfferCannotBeDepositedTwice(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	offered := bartertest.MintCoins(t, 10, "BBB")
	dup := *offered
	id, _, err := c.Create(ctx, db, want(1, "AAA"), offered)
	assert.Nil(t, err)
	_, _, err = c.Create(ctx, db, want(1, "AAA"), &dup)
	assert.IsErr(t, errors.ErrEmpty, err)

	esc, err := c.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(10, 0, "BBB"), esc.Offered.Amount())

	var count int
	assert.Nil(t, c.All(db, func([]byte, *Escrow) error { count++; return nil }))
	assert.Equal(t, 1, count)
}

func TestUnknownEscrow(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	payment := bartertest.MintCoins(t, 1, "AAA")
	_, err := c.Exchange(ctx, db, []byte("unknown"), payment)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, false, payment.IsEmpty())

	_, err = c.Withdraw(ctx, db, []byte("unknown"), nil)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = c.Cancel(ctx, db, []byte("unknown"), nil)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = c.Get(db, []byte("unknown"))
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	_, _, err := c.Create(ctx, db, nil, bartertest.MintCoins(t, 1, "BBB"))
	assert.IsErr(t, errors.ErrInput, err)
	_, _, err = c.Create(ctx, db, want(1, "AAA"), nil)
	assert.IsErr(t, errors.ErrEmpty, err)
	_, _, err = c.Create(ctx, db, Fungible{Type: "AAA", Amount: coin.NewCoin(1, 0, "BBB")}, bartertest.MintCoins(t, 1, "BBB"))
	assert.FieldError(t, err, "Amount", errors.ErrCurrency)
	_, _, err = c.Create(ctx, db, Fungible{Type: "AAA", Amount: coin.NewCoin(0, 0, "AAA")}, bartertest.MintCoins(t, 1, "BBB"))
	assert.FieldError(t, err, "Amount", errors.ErrAmount)
	_, _, err = c.Create(ctx, db, Unique{Type: "x"}, bartertest.MintCoins(t, 1, "BBB"))
	assert.FieldError(t, err, "Type", errors.ErrInput)

	drained := bartertest.MintCoins(t, 1, "BBB")
	_, _, err = c.Create(ctx, db, want(1, "AAA"), drained)
	assert.Nil(t, err)
	_, _, err = c.Create(ctx, db, want(1, "AAA"), drained)
	assert.IsErr(t, errors.ErrEmpty, err)
}

func TestFailedCreateIsRolledBack(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	// Occupy the badge type of the first escrow, so that minting fails
	// after the offer was already deposited.
	_, err := badge.NewIssuer().Mint(db, BadgeType(orm.EncodeSequence(1)), badge.Details{Name: "squatter"})
	assert.Nil(t, err)

	offer := bartertest.MintCoins(t, 5, "BBB")
	_, _, err = c.Create(ctx, db, want(1, "AAA"), offer)
	assert.IsErr(t, errors.ErrDuplicate, err)
	assert.Equal(t, coin.NewCoin(5, 0, "BBB"), offer.Amount())

	// The sequence is not consumed either.
	id, _, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.IsErr(t, errors.ErrDuplicate, err)
	assert.Nil(t, id)

	var n int
	assert.Nil(t, c.All(db, func([]byte, *Escrow) error { n++; return nil }))
	assert.Equal(t, 0, n)
}

func TestFailedWithdrawIsRolledBack(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	id, token, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)
	_, err = c.Exchange(ctx, db, id, bartertest.MintCoins(t, 1, "AAA"))
	assert.Nil(t, err)

	// A panic in the middle of the operation must not leave the badge
	// burned nor the handle drained.
	c.bucket = panickingBucket{c.bucket}
	_, err = c.Withdraw(ctx, db, id, token)
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Equal(t, false, token.IsEmpty())

	c.bucket = NewBucket()
	b, err := badge.NewIssuer().Get(db, BadgeType(id))
	assert.Nil(t, err)
	assert.Equal(t, false, b.Burned)

	got, err := c.Withdraw(ctx, db, id, token)
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(1, 0, "AAA"), got.Amount())
}

func TestListEscrows(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	var ids [][]byte
	for i := int64(1); i <= 3; i++ {
		id, _, err := c.Create(ctx, db, want(i, "AAA"), bartertest.MintCoins(t, i, "BBB"))
		assert.Nil(t, err)
		ids = append(ids, id)
	}

	var got [][]byte
	err := c.All(db, func(id []byte, e *Escrow) error {
		got = append(got, id)
		assert.Equal(t, Created, e.State)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, ids, got)

	stop := errors.ErrHuman.New("stop")
	err = c.All(db, func([]byte, *Escrow) error { return stop })
	assert.IsErr(t, errors.ErrHuman, err)
}

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	assert.Nil(t, reg.Register(m))
	c := NewController(badge.NewIssuer(), m)

	id, _, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)
	_, err = c.Exchange(ctx, db, id, bartertest.MintCoins(t, 2, "AAA"))
	assert.IsErr(t, ErrAssetMismatch, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("create", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.operations.WithLabelValues("exchange", "error")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.operations.WithLabelValues("exchange", "ok")))
}

func TestConfiguredBadgeName(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	c := newController()

	assert.Nil(t, SaveConfiguration(db, Configuration{BadgeName: "swap ticket"}))
	id, _, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)

	b, err := badge.NewIssuer().Get(db, BadgeType(id))
	assert.Nil(t, err)
	assert.Equal(t, "swap ticket", b.Details.Name)

	assert.IsErr(t, errors.ErrEmpty, SaveConfiguration(db, Configuration{}))
}

func TestOperationsAreLogged(t *testing.T) {
	var logged []string
	ctx := barter.WithLogger(context.Background(), &recordingLogger{msgs: &logged})
	db := store.MemStore()
	c := newController()

	id, token, err := c.Create(ctx, db, want(1, "AAA"), bartertest.MintCoins(t, 1, "BBB"))
	assert.Nil(t, err)
	_, err = c.Cancel(ctx, db, id, token)
	assert.Nil(t, err)

	assert.Equal(t, []string{
		fmt.Sprint("escrow created", "module", "escrow", "op", "create"),
		fmt.Sprint("escrow cancelled", "module", "escrow", "op", "cancel"),
	}, logged)
}

// panickingBucket fails every write in the most disruptive way.
type panickingBucket struct {
	orm.ModelBucket
}

func (panickingBucket) Put(barter.KVStore, []byte, orm.Model) error {
	panic("disk on fire")
}

type recordingLogger struct {
	msgs    *[]string
	keyvals []interface{}
}

var _ log.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Debug(string, ...interface{}) {}

func (l *recordingLogger) Info(msg string, keyvals ...interface{}) {
	*l.msgs = append(*l.msgs, fmt.Sprint(append([]interface{}{msg}, l.keyvals...)...))
}

func (l *recordingLogger) Error(msg string, keyvals ...interface{}) {
	l.Info(msg, keyvals...)
}

func (l *recordingLogger) With(keyvals ...interface{}) log.Logger {
	kv := append(append([]interface{}(nil), l.keyvals...), keyvals...)
	return &recordingLogger{msgs: l.msgs, keyvals: kv}
}

func TestSwapOnCommitStore(t *testing.T) {
	ctx := context.Background()
	db := bartertest.CommitStore(t)
	c := newController()

	id, token, err := c.Create(ctx, db.Adapter(), Unique{Type: "cats", Instance: 1}, bartertest.MintCoins(t, 2, "IOV"))
	assert.Nil(t, err)
	_, err = db.Commit()
	assert.Nil(t, err)

	_, err = c.Exchange(ctx, db.Adapter(), id, bartertest.MintInstances(t, "cats", 1))
	assert.Nil(t, err)
	_, err = db.Commit()
	assert.Nil(t, err)

	got, err := c.Withdraw(ctx, db.Adapter(), id, token)
	assert.Nil(t, err)
	assert.Equal(t, []asset.InstanceID{1}, got.Instances())
	_, err = db.Commit()
	assert.Nil(t, err)

	esc, err := c.Get(db.Adapter(), id)
	assert.Nil(t, err)
	assert.Equal(t, Withdrawn, esc.State)
}
