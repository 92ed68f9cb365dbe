package escrow

import (
	"encoding/hex"
	"fmt"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/orm"
	"github.com/iov-one/barter/x/badge"
)

// State is the lifecycle stage of an escrow.
type State uint32

const (
	// Created escrows hold the offer and wait for a payment.
	Created State = iota + 1
	// Exchanged escrows hold the payment and wait for a withdrawal.
	Exchanged
	// Cancelled escrows were reclaimed by the depositor before anyone paid.
	Cancelled
	// Withdrawn escrows were paid and the payment was collected.
	Withdrawn
)

var stateNames = map[State]string{
	Created:   "created",
	Exchanged: "exchanged",
	Cancelled: "cancelled",
	Withdrawn: "withdrawn",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", uint32(s))
}

// Validate returns an error if the state is not one of the declared ones.
func (s State) Validate() error {
	if _, ok := stateNames[s]; !ok {
		return errors.Wrapf(errors.ErrState, "unknown state %d", uint32(s))
	}
	return nil
}

// Escrow is the persisted record of a single swap.
type Escrow struct {
	Metadata *barter.Metadata `json:"metadata"`
	// Requested is the asset accepted as a payment. It never changes once
	// the escrow is created.
	Requested Specifier `json:"requested"`
	// Offered holds the deposit until it is claimed by an exchange or a
	// cancellation.
	Offered asset.Vault `json:"offered"`
	// Received holds the payment until it is withdrawn.
	Received  asset.Vault    `json:"received"`
	BadgeType asset.Type     `json:"badge_type"`
	State     State          `json:"state"`
	Address   barter.Address `json:"address"`
}

var _ orm.Model = (*Escrow)(nil)

// Marshal serializes the escrow.
func (e *Escrow) Marshal() ([]byte, error) {
	return codec.Marshal(e)
}

// Unmarshal loads the escrow from its serialized form.
func (e *Escrow) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, e)
}

// Validate ensures the escrow is valid. Besides the fields, the content of
// both vaults must match the state.
func (e *Escrow) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Metadata", e.Metadata.Validate())
	if e.Requested == nil {
		errs = errors.AppendField(errs, "Requested", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Requested", e.Requested.Validate())
	}
	errs = errors.AppendField(errs, "Offered", e.Offered.Validate())
	errs = errors.AppendField(errs, "Received", e.Received.Validate())
	if e.Requested != nil {
		if e.Received.Type() != e.Requested.AssetType() || e.Received.Kind() != e.Requested.AssetKind() {
			errs = errors.AppendField(errs, "Received",
				errors.Wrapf(errors.ErrState, "vault of %s cannot receive %s", e.Received.Type(), e.Requested.AssetType()))
		}
	}
	errs = errors.AppendField(errs, "BadgeType", e.BadgeType.ValidateFor(asset.Unique))
	errs = errors.AppendField(errs, "Address", e.Address.Validate())
	if err := e.State.Validate(); err != nil {
		return errors.Append(errs, errors.Field("State", err, ""))
	}

	offered, received := !e.Offered.IsEmpty(), !e.Received.IsEmpty()
	switch e.State {
	case Created:
		if !offered || received {
			errs = errors.AppendField(errs, "State", errors.Wrap(errors.ErrState, "created escrow must hold the offer only"))
		}
	case Exchanged:
		if offered || !received {
			errs = errors.AppendField(errs, "State", errors.Wrap(errors.ErrState, "exchanged escrow must hold the payment only"))
		}
	case Cancelled, Withdrawn:
		if offered || received {
			errs = errors.AppendField(errs, "State", errors.Wrapf(errors.ErrState, "%s escrow must be empty", e.State))
		}
	}
	return errs
}

// Copy returns a deep copy of the escrow.
func (e *Escrow) Copy() orm.Model {
	return &Escrow{
		Metadata:  e.Metadata.Copy(),
		Requested: e.Requested,
		Offered:   e.Offered,
		Received:  e.Received,
		BadgeType: e.BadgeType,
		State:     e.State,
		Address:   append(barter.Address(nil), e.Address...),
	}
}

// Condition calculates the address of an escrow given the key.
func Condition(key []byte) barter.Condition {
	return barter.NewCondition("escrow", "seq", key)
}

// BadgeType returns the type of the badge that authorizes the escrow with
// given ID.
func BadgeType(key []byte) asset.Type {
	return asset.Type(badge.Namespace + hex.EncodeToString(key))
}

// NewBucket returns the bucket that all escrows are stored in.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket("esc", &Escrow{})
}
