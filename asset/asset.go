package asset

import (
	"regexp"
	"strconv"

	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
)

var isType = regexp.MustCompile(`^[a-zA-Z0-9_\-.:/]{3,64}$`).MatchString

// Type identifies a class of assets. Fungible types must also be valid
// currency tickers.
type Type string

// Validate returns an error if the type is not a valid asset type.
func (t Type) Validate() error {
	if !isType(string(t)) {
		return errors.Wrapf(errors.ErrInput, "invalid asset type %q", t)
	}
	return nil
}

// ValidateFor returns an error if the type cannot be used for assets of
// given kind.
func (t Type) ValidateFor(k Kind) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := k.Validate(); err != nil {
		return err
	}
	if k == Fungible && !coin.IsCC(string(t)) {
		return errors.Wrapf(errors.ErrCurrency, "fungible type %q is not a ticker", t)
	}
	return nil
}

// Kind declares how assets of a type are counted.
type Kind uint8

const (
	// Fungible assets are interchangeable and counted by amount.
	Fungible Kind = iota + 1
	// Unique assets are distinguishable items, each with its own
	// instance ID.
	Unique
)

// String returns a human readable name of the kind.
func (k Kind) String() string {
	switch k {
	case Fungible:
		return "fungible"
	case Unique:
		return "unique"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Validate returns an error if the kind is not one of the declared ones.
func (k Kind) Validate() error {
	switch k {
	case Fungible, Unique:
		return nil
	default:
		return errors.Wrapf(errors.ErrType, "unknown asset kind %d", k)
	}
}

// InstanceID identifies a single unique asset within its type.
type InstanceID uint64

// String returns the decimal representation of the ID.
func (id InstanceID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseInstanceID parses a decimal instance ID.
func ParseInstanceID(raw string) (InstanceID, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "invalid instance id %q", raw)
	}
	return InstanceID(n), nil
}
