package asset

import (
	"testing"

	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
)

func mustMint(t testing.TB, amount coin.Coin) *Handle {
	t.Helper()
	h, err := Mint(Type(amount.Ticker), amount)
	if err != nil {
		t.Fatalf("cannot mint: %s", err)
	}
	return h
}

func mustMintInstances(t testing.TB, typ Type, ids ...InstanceID) *Handle {
	t.Helper()
	h, err := MintInstances(typ, ids...)
	if err != nil {
		t.Fatalf("cannot mint: %s", err)
	}
	return h
}

func mustVault(t testing.TB, typ Type, kind Kind) Vault {
	t.Helper()
	v, err := NewVault(typ, kind)
	if err != nil {
		t.Fatalf("cannot create vault: %s", err)
	}
	return v
}

func TestFungibleVault(t *testing.T) {
	v := mustVault(t, "IOV", Fungible)
	assert.Equal(t, true, v.IsEmpty())
	assert.Equal(t, coin.NewCoin(0, 0, "IOV"), v.Amount())

	h := mustMint(t, coin.NewCoin(10, 0, "IOV"))
	assert.Nil(t, v.Put(h))
	assert.Equal(t, true, h.IsEmpty())
	assert.Equal(t, coin.NewCoin(10, 0, "IOV"), v.Amount())

	// a drained handle cannot be deposited again
	assert.IsErr(t, errors.ErrEmpty, v.Put(h))
	assert.Equal(t, coin.NewCoin(10, 0, "IOV"), v.Amount())

	part, err := v.Take(coin.NewCoin(3, 500000000, "IOV"))
	assert.Nil(t, err)
	assert.Equal(t, coin.NewCoin(3, 500000000, "IOV"), part.Amount())
	assert.Equal(t, coin.NewCoin(6, 500000000, "IOV"), v.Amount())

	_, err = v.Take(coin.NewCoin(7, 0, "IOV"))
	assert.IsErr(t, errors.ErrInsufficientAmount, err)
	_, err = v.Take(coin.NewCoin(1, 0, "ETH"))
	assert.IsErr(t, errors.ErrCurrency, err)
	_, err = v.TakeInstances(1)
	assert.IsErr(t, errors.ErrType, err)

	all := v.TakeAll()
	assert.Equal(t, coin.NewCoin(6, 500000000, "IOV"), all.Amount())
	assert.Equal(t, true, v.IsEmpty())

	again := v.TakeAll()
	assert.Equal(t, true, again.IsEmpty())
	assert.Equal(t, Type("IOV"), again.Type())
}

func TestUniqueVault(t *testing.T) {
	v := mustVault(t, "cats", Unique)
	assert.Nil(t, v.Put(mustMintInstances(t, "cats", 5, 1)))
	assert.Nil(t, v.Put(mustMintInstances(t, "cats", 3)))
	assert.Equal(t, []InstanceID{1, 3, 5}, v.Instances())
	assert.Equal(t, true, v.Has(3))
	assert.Equal(t, false, v.Has(4))

	dup := mustMintInstances(t, "cats", 3)
	assert.IsErr(t, errors.ErrDuplicate, v.Put(dup))
	assert.Equal(t, false, dup.IsEmpty())

	h, err := v.TakeInstances(5, 1)
	assert.Nil(t, err)
	assert.Equal(t, []InstanceID{1, 5}, h.Instances())
	assert.Equal(t, []InstanceID{3}, v.Instances())

	_, err = v.TakeInstances(3, 4)
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, []InstanceID{3}, v.Instances())

	_, err = v.TakeInstances()
	assert.IsErr(t, errors.ErrEmpty, err)
	_, err = v.Take(coin.NewCoin(1, 0, "IOV"))
	assert.IsErr(t, errors.ErrType, err)

	last, err := v.TakeInstances(3)
	assert.Nil(t, err)
	assert.Equal(t, []InstanceID{3}, last.Instances())
	assert.Equal(t, true, v.IsEmpty())
	assert.Nil(t, v.Instances())
}

func TestVaultRejectsForeignHandles(t *testing.T) {
	cases := map[string]struct {
		vault   Vault
		handle  *Handle
		wantErr *errors.Error
	}{
		"other fungible type": {
			vault:   mustVault(t, "IOV", Fungible),
			handle:  mustMint(t, coin.NewCoin(1, 0, "ETH")),
			wantErr: errors.ErrType,
		},
		"other unique type": {
			vault:   mustVault(t, "cats", Unique),
			handle:  mustMintInstances(t, "dogs", 1),
			wantErr: errors.ErrType,
		},
		"nil handle": {
			vault:   mustVault(t, "cats", Unique),
			handle:  nil,
			wantErr: errors.ErrEmpty,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			before := tc.handle.String()
			assert.IsErr(t, tc.wantErr, tc.vault.Put(tc.handle))
			assert.Equal(t, true, tc.vault.IsEmpty())
			assert.Equal(t, before, tc.handle.String())
		})
	}
}

func TestNewVaultValidates(t *testing.T) {
	_, err := NewVault("cats", Fungible)
	assert.IsErr(t, errors.ErrCurrency, err)
	_, err = NewVault("x", Unique)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestVaultSerialization(t *testing.T) {
	fungible := mustVault(t, "IOV", Fungible)
	assert.Nil(t, fungible.Put(mustMint(t, coin.NewCoin(2, 5, "IOV"))))
	unique := mustVault(t, "cats", Unique)
	assert.Nil(t, unique.Put(mustMintInstances(t, "cats", 9, 4)))
	empty := mustVault(t, "dogs", Unique)

	for _, v := range []Vault{fungible, unique, empty} {
		raw, err := codec.Marshal(v)
		assert.Nil(t, err)

		var got Vault
		assert.Nil(t, codec.Unmarshal(raw, &got))
		assert.Equal(t, v, got)
		assert.Nil(t, got.Validate())
	}
}

func TestVaultValidate(t *testing.T) {
	bad := Vault{typ: "IOV", kind: Fungible, instances: []InstanceID{1}}
	assert.IsErr(t, errors.ErrState, bad.Validate())

	unsorted := Vault{typ: "cats", kind: Unique, instances: []InstanceID{2, 1}}
	assert.IsErr(t, errors.ErrState, unsorted.Validate())

	ticker := Vault{typ: "IOV", kind: Fungible, amount: coin.NewCoin(1, 0, "ETH")}
	assert.IsErr(t, errors.ErrCurrency, ticker.Validate())

	var zero Vault
	assert.IsErr(t, errors.ErrInput, zero.Validate())
}

func TestCheckpointRestore(t *testing.T) {
	fungible := mustMint(t, coin.NewCoin(4, 0, "IOV"))
	unique := mustMintInstances(t, "cats", 1, 2)

	snap := Checkpoint(fungible, nil, unique)

	fv := mustVault(t, "IOV", Fungible)
	uv := mustVault(t, "cats", Unique)
	assert.Nil(t, fv.Put(fungible))
	assert.Nil(t, uv.Put(unique))
	assert.Equal(t, true, fungible.IsEmpty())
	assert.Equal(t, true, unique.IsEmpty())

	snap.Restore()
	assert.Equal(t, coin.NewCoin(4, 0, "IOV"), fungible.Amount())
	assert.Equal(t, []InstanceID{1, 2}, unique.Instances())
}
