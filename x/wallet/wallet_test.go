package wallet

import (
	"strings"
	"testing"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/bartertest"
	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
	"github.com/iov-one/barter/store"
	"github.com/iov-one/barter/x/escrow"
)

func TestPutAndTake(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	alice := bartertest.RandomAddr(t)

	iov := bartertest.MintCoins(t, 10, "IOV")
	cats := bartertest.MintInstances(t, "cats", 1, 2, 3)
	assert.Nil(t, c.Put(db, alice, iov))
	assert.Nil(t, c.Put(db, alice, cats))
	assert.Equal(t, true, iov.IsEmpty())

	holdings, err := c.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(holdings))
	assert.Equal(t, asset.Type("IOV"), holdings[0].Type())
	assert.Equal(t, asset.Type("cats"), holdings[1].Type())

	h, err := c.TakeAmount(db, alice, coin.NewCoin(4, 0, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(4, 0, "IOV"), h.Amount())

	_, err = c.TakeAmount(db, alice, coin.NewCoin(7, 0, "IOV"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	_, err = c.TakeAmount(db, alice, coin.NewCoin(1, 0, "ETH"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	h, err = c.Take(db, alice, escrow.Unique{Type: "cats", Instance: 2})
	assert.Nil(t, err)
	assert.Equal(t, []asset.InstanceID{2}, h.Instances())

	_, err = c.TakeInstances(db, alice, "cats", 2)
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = c.TakeInstances(db, alice, "dogs", 1)
	assert.IsErr(t, errors.ErrNotFound, err)

	h, err = c.Take(db, alice, escrow.Fungible{Type: "IOV", Amount: coin.NewCoin(6, 0, "IOV")})
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(6, 0, "IOV"), h.Amount())

	// Empty holdings are removed.
	holdings, err = c.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(holdings))
	assert.Equal(t, []asset.InstanceID{1, 3}, holdings[0].Instances())
}

func TestEmptyWalletIsDeleted(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	bob := bartertest.RandomAddr(t)

	assert.Nil(t, c.Put(db, bob, bartertest.MintCoins(t, 1, "IOV")))

	_, err := c.TakeAmount(db, bob, coin.NewCoin(1, 0, "IOV"))
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrNotFound, c.bucket.Has(db, bob))

	holdings, err := c.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(holdings))
}

func TestPutRejects(t *testing.T) {
	db := store.MemStore()
	c := NewController()
	alice := barter.NewAddress([]byte("alice"))

	assert.IsErr(t, errors.ErrEmpty, c.Put(db, alice, nil))
	drained := bartertest.MintCoins(t, 1, "IOV")
	assert.Nil(t, c.Put(db, alice, drained))
	assert.IsErr(t, errors.ErrEmpty, c.Put(db, alice, drained))
	assert.IsErr(t, errors.ErrEmpty, c.Put(db, alice, &asset.Handle{}))
	h, err := asset.MintInstances("cats", 1)
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrInput, c.Put(db, barter.Address("short"), h))

	assert.Nil(t, c.Put(db, alice, h))
	dup, err := asset.MintInstances("cats", 1)
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrDuplicate, c.Put(db, alice, dup))
	assert.Equal(t, false, dup.IsEmpty())
}

func TestGenesis(t *testing.T) {
	alice := barter.NewAddress([]byte("alice"))
	bob := barter.NewAddress([]byte("bob"))
	doc := `
escrow:
  badge_name: swap ticket
wallets:
  - address: "` + alice.Bech32("barter") + `"
    coins: ["10 IOV", "0.5 ETH"]
  - address: "hex:` + alice.String() + `"
    coins: ["1 IOV"]
  - address: "` + bob.String() + `"
    assets:
      - type: cats
        instances: [3, 1]
`
	g, err := ReadGenesis(strings.NewReader(doc))
	assert.Nil(t, err)

	db := store.MemStore()
	c := NewController()
	assert.Nil(t, c.FromGenesis(db, g))

	holdings, err := c.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(holdings))
	assert.Equal(t, coin.NewCoin(0, 500000000, "ETH"), holdings[0].Amount())
	assert.Equal(t, coin.NewCoin(11, 0, "IOV"), holdings[1].Amount())

	holdings, err = c.Balance(db, bob)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(holdings))
	assert.Equal(t, []asset.InstanceID{1, 3}, holdings[0].Instances())

	var conf escrow.Configuration
	assert.Nil(t, gconf.Load(db, "escrow", &conf))
	assert.Equal(t, "swap ticket", conf.BadgeName)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		doc     string
		wantErr *errors.Error
	}{
		"unknown field": {
			doc:     "wallets:\n  - adress: foo\n",
			wantErr: errors.ErrInput,
		},
		"bad coin": {
			doc:     "wallets:\n  - address: foo\n    coins: [\"ten IOV\"]\n",
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			_, err := ReadGenesis(strings.NewReader(tc.doc))
			assert.IsErr(t, tc.wantErr, err)
		})
	}

	db := store.MemStore()
	c := NewController()
	err := c.FromGenesis(db, &Genesis{Wallets: []GenesisWallet{{Address: "nope"}}})
	assert.IsErr(t, errors.ErrInput, err)

	err = c.FromGenesis(db, &Genesis{Wallets: []GenesisWallet{{
		Address: barter.NewAddress([]byte("x")).String(),
		Assets:  []GenesisAsset{{Type: "cats", Instances: []asset.InstanceID{1, 1}}},
	}}})
	assert.IsErr(t, errors.ErrDuplicate, err)

	// Badges cannot be handed out at genesis.
	doc := "wallets:\n  - address: \"" + barter.NewAddress([]byte("x")).String() + "\"\n" +
		"    assets:\n      - type: escrow/badge/0000000000000001\n        instances: [1]\n"
	g, err := ReadGenesis(strings.NewReader(doc))
	assert.Nil(t, err)
	assert.IsErr(t, errors.ErrUnauthorized, c.FromGenesis(db, g))
	holdings, err := c.Balance(db, barter.NewAddress([]byte("x")))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(holdings))
}

func TestWalletValidate(t *testing.T) {
	w := NewWallet(barter.NewAddress([]byte("carol")))
	assert.Nil(t, w.Validate())

	empty, err := asset.NewVault("cats", asset.Unique)
	assert.Nil(t, err)
	w.Holdings = []asset.Vault{empty}
	assert.FieldError(t, w.Validate(), "Holdings.0", errors.ErrEmpty)

	w.Address = nil
	w.Holdings = nil
	assert.FieldError(t, w.Validate(), "Address", errors.ErrInput)
}
