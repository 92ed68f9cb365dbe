package orm

import (
	"github.com/iov-one/barter"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	barter.Persistent
	barter.Validator
	Copy() Model
}
