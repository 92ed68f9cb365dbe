package escrow

import "github.com/iov-one/barter/errors"

// escrow takes 1010-1020
var (
	// ErrAlreadySettled is returned when the offered asset was already
	// claimed, either by an exchange or by a cancellation.
	ErrAlreadySettled = errors.Register(1010, "escrow already settled")

	// ErrAssetMismatch is returned when a payment is not exactly the
	// requested asset.
	ErrAssetMismatch = errors.Register(1011, "asset mismatch")

	// ErrAuthorizationMismatch is returned when a badge presented is not
	// the badge of the escrow.
	ErrAuthorizationMismatch = errors.Register(1012, "authorization mismatch")

	// ErrNotYetExchanged is returned when a withdrawal is requested before
	// anybody paid.
	ErrNotYetExchanged = errors.Register(1013, "not yet exchanged")
)
