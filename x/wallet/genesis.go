package wallet

import (
	"io"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
)

// Genesis describes the initial state of the holdings.
//
//	escrow:
//	  badge_name: swap badge
//	wallets:
//	  - address: bech32:barter1...
//	    coins: ["10 IOV", "0.5 ETH"]
//	    assets:
//	      - type: cats
//	        instances: [1, 2]
type Genesis struct {
	Escrow  *escrow.Configuration `yaml:"escrow"`
	Wallets []GenesisWallet       `yaml:"wallets"`
}

// GenesisWallet is the initial content of a single wallet. The address can
// be given in any format understood by barter.ParseAddress.
type GenesisWallet struct {
	Address string         `yaml:"address"`
	Coins   []coin.Coin    `yaml:"coins"`
	Assets  []GenesisAsset `yaml:"assets"`
}

// GenesisAsset lists unique instances of a type.
type GenesisAsset struct {
	Type      asset.Type         `yaml:"type"`
	Instances []asset.InstanceID `yaml:"instances"`
}

// ReadGenesis parses a YAML genesis document.
func ReadGenesis(r io.Reader) (*Genesis, error) {
	raw, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	var g Genesis
	if err := yaml.UnmarshalStrict(raw, &g); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot parse genesis: %s", err)
	}
	return &g, nil
}

// FromGenesis mints all declared assets into their wallets and stores the
// escrow configuration, if any.
func (c *Controller) FromGenesis(db barter.KVStore, g *Genesis) error {
	if g.Escrow != nil {
		if err := escrow.SaveConfiguration(db, *g.Escrow); err != nil {
			return errors.Wrap(err, "escrow configuration")
		}
	}
	for i, gw := range g.Wallets {
		addr, err := barter.ParseAddress(gw.Address)
		if err != nil {
			return errors.Wrapf(err, "wallet %d", i)
		}
		for _, amount := range gw.Coins {
			h, err := asset.Mint(asset.Type(amount.Ticker), amount)
			if err != nil {
				return errors.Wrapf(err, "wallet %d: coin %s", i, amount)
			}
			if err := c.Put(db, addr, h); err != nil {
				return err
			}
		}
		for _, ga := range gw.Assets {
			h, err := asset.MintInstances(ga.Type, ga.Instances...)
			if err != nil {
				return errors.Wrapf(err, "wallet %d: asset %s", i, ga.Type)
			}
			if err := c.Put(db, addr, h); err != nil {
				return err
			}
		}
	}
	return nil
}
