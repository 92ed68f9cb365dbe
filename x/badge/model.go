package badge

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
)

const (
	// DefaultID is the instance ID of every minted badge.
	DefaultID asset.InstanceID = 1

	// Namespace prefixes the type of every badge. No other package can mint
	// assets of these types.
	Namespace = "escrow/badge/"
)

var minter = asset.Reserve(Namespace)

// Details are attached to a badge for discoverability only. They do not
// influence authorization.
type Details struct {
	// Name is a human readable label of the badge.
	Name string `json:"name"`
	// Offered is the type of the asset the badge grants access to.
	Offered asset.Type `json:"offered"`
}

// Validate returns an error if the details are not complete.
func (d *Details) Validate() error {
	var errs error
	if d.Name == "" {
		errs = errors.AppendField(errs, "Name", errors.ErrEmpty)
	}
	if d.Offered != "" {
		errs = errors.AppendField(errs, "Offered", d.Offered.Validate())
	}
	return errs
}

// Badge is the record the issuer keeps for every minted badge.
type Badge struct {
	Metadata *barter.Metadata `json:"metadata"`
	Type     asset.Type       `json:"type"`
	Instance asset.InstanceID `json:"instance"`
	Details  Details          `json:"details"`
	Burned   bool             `json:"burned"`
}

var _ orm.Model = (*Badge)(nil)

// Marshal serializes the badge.
func (b *Badge) Marshal() ([]byte, error) {
	return codec.Marshal(b)
}

// Unmarshal loads the badge from its serialized form.
func (b *Badge) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, b)
}

// Validate ensures the badge record is valid.
func (b *Badge) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", b.Metadata.Validate())
	errs = errors.AppendField(errs, "Type", b.Type.ValidateFor(asset.Unique))
	if b.Instance != DefaultID {
		errs = errors.AppendField(errs, "Instance", errors.Wrapf(errors.ErrInput, "must be %d", DefaultID))
	}
	errs = errors.AppendField(errs, "Details", b.Details.Validate())
	return errs
}

// Copy returns a deep copy of the badge.
func (b *Badge) Copy() orm.Model {
	return &Badge{
		Metadata: b.Metadata.Copy(),
		Type:     b.Type,
		Instance: b.Instance,
		Details:  b.Details,
		Burned:   b.Burned,
	}
}
