/*
Package codec holds the binary codec shared by all persisted models.

Models are serialized with go-amino. Interfaces stored inside a model must be
registered together with all of their concrete implementations before the
first use of the codec, usually from an init function of the package that
declares them.
*/
package codec

import (
	amino "github.com/tendermint/go-amino"

	"github.com/iov-one/barter/errors"
)

// Amino is the codec instance used by every model in this repository.
var Amino = amino.NewCodec()

// RegisterInterface declares an interface type that is stored in a model.
// ptr must be a pointer to the interface, for example (*Specifier)(nil).
func RegisterInterface(ptr interface{}) {
	Amino.RegisterInterface(ptr, nil)
}

// RegisterConcrete declares an implementation of a registered interface. The
// name must be unique and must not change once data was persisted.
func RegisterConcrete(o interface{}, name string) {
	Amino.RegisterConcrete(o, name, nil)
}

// Marshal serializes given value.
func Marshal(o interface{}) ([]byte, error) {
	raw, err := Amino.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal %T: %s", o, err)
	}
	return raw, nil
}

// Unmarshal deserializes raw into ptr.
func Unmarshal(raw []byte, ptr interface{}) error {
	if err := Amino.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: %s", ptr, err)
	}
	return nil
}

// MustMarshal works like Marshal but panics on failure. Use it only for
// values that are known to serialize, such as keys built from primitives.
func MustMarshal(o interface{}) []byte {
	raw, err := Marshal(o)
	if err != nil {
		panic(err)
	}
	return raw
}
