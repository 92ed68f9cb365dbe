package bartertest

import (
	"testing"

	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/coin"
)

// MintCoins returns a new handle holding given whole amount of a fungible
// asset. The ticker is used as the asset type.
func MintCoins(t testing.TB, whole int64, ticker string) *asset.Handle {
	t.Helper()
	h, err := asset.Mint(asset.Type(ticker), coin.NewCoin(whole, 0, ticker))
	if err != nil {
		t.Fatalf("cannot mint %d %s: %s", whole, ticker, err)
	}
	return h
}

// MintInstances returns a new handle holding given unique instances.
func MintInstances(t testing.TB, typ asset.Type, ids ...asset.InstanceID) *asset.Handle {
	t.Helper()
	h, err := asset.MintInstances(typ, ids...)
	if err != nil {
		t.Fatalf("cannot mint %s%v: %s", typ, ids, err)
	}
	return h
}
