package escrow

import (
	"fmt"

	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
)

func init() {
	codec.RegisterInterface((*Specifier)(nil))
	codec.RegisterConcrete(Fungible{}, "escrow/Fungible")
	codec.RegisterConcrete(Unique{}, "escrow/Unique")
}

// Specifier describes exactly the asset an escrow accepts as payment. It is
// implemented only by Fungible and Unique.
type Specifier interface {
	// AssetType returns the type of the requested asset.
	AssetType() asset.Type
	// AssetKind returns the kind of the requested asset.
	AssetKind() asset.Kind
	// Match calls the function that corresponds to the variant.
	Match(fungible func(Fungible) error, unique func(Unique) error) error
	Validate() error
	// String returns the request in the "<amount> <ticker>" or
	// "<type>:<instance>" form.
	String() string

	isSpecifier()
}

// Fungible requests an exact amount of a fungible asset.
type Fungible struct {
	Type   asset.Type `json:"type"`
	Amount coin.Coin  `json:"amount"`
}

var _ Specifier = Fungible{}

func (Fungible) isSpecifier() {}

// AssetType returns the requested type.
func (f Fungible) AssetType() asset.Type { return f.Type }

// AssetKind returns asset.Fungible.
func (Fungible) AssetKind() asset.Kind { return asset.Fungible }

// Match calls fungible.
func (f Fungible) Match(fungible func(Fungible) error, unique func(Unique) error) error {
	return fungible(f)
}

// Validate returns an error if the request cannot be satisfied by any
// fungible handle.
func (f Fungible) Validate() error {
	if err := f.Type.ValidateFor(asset.Fungible); err != nil {
		return errors.Field("Type", err, "invalid type")
	}
	if err := f.Amount.Validate(); err != nil {
		return errors.Field("Amount", err, "invalid amount")
	}
	if f.Amount.Ticker != string(f.Type) {
		return errors.Field("Amount", errors.ErrCurrency, "ticker %s does not match type %s", f.Amount.Ticker, f.Type)
	}
	if !f.Amount.IsPositive() {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func (f Fungible) String() string { return f.Amount.String() }

// Unique requests a single instance of a unique asset.
type Unique struct {
	Type     asset.Type       `json:"type"`
	Instance asset.InstanceID `json:"instance"`
}

var _ Specifier = Unique{}

func (Unique) isSpecifier() {}

// AssetType returns the requested type.
func (u Unique) AssetType() asset.Type { return u.Type }

// AssetKind returns asset.Unique.
func (Unique) AssetKind() asset.Kind { return asset.Unique }

// Match calls unique.
func (u Unique) Match(fungible func(Fungible) error, unique func(Unique) error) error {
	return unique(u)
}

func (u Unique) String() string { return fmt.Sprintf("%s:%s", u.Type, u.Instance) }

// Validate returns an error if the type is not a valid unique asset type.
func (u Unique) Validate() error {
	if err := u.Type.ValidateFor(asset.Unique); err != nil {
		return errors.Field("Type", err, "invalid type")
	}
	return nil
}

// satisfies returns an error if the payment is not exactly the requested
// asset. Checks are done in order: type, then amount or instance.
func satisfies(s Specifier, payment *asset.Handle) error {
	if payment.Type() != s.AssetType() {
		return errors.Field("Type", ErrAssetMismatch, "want %s, got %s", s.AssetType(), payment.Type())
	}
	return s.Match(
		func(f Fungible) error {
			if payment.Kind() != asset.Fungible || !payment.Amount().Equals(f.Amount) {
				return errors.Field("Amount", ErrAssetMismatch, "want %s, got %s", f.Amount, payment)
			}
			return nil
		},
		func(u Unique) error {
			ids := payment.Instances()
			if payment.Kind() != asset.Unique || len(ids) != 1 || ids[0] != u.Instance {
				return errors.Field("Instance", ErrAssetMismatch, "want %s[%s], got %s", u.Type, u.Instance, payment)
			}
			return nil
		},
	)
}
