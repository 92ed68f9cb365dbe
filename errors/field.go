package errors

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the model attribute it was found in, for
// example the Amount of a requested asset. Nested attributes use the dot
// notation (Requested.Amount) and slice elements their index (Holdings.2).
// It returns nil if err is nil.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{field: name, desc: description, parent: err}
}

// AppendField adds err, tagged with given field name, to errs. Nil values
// are ignored, so that validation of a model can be written as a sequence
// of AppendField calls.
func AppendField(errs error, name string, err error) error {
	return Append(errs, Field(name, err, ""))
}

// Index returns the field name of the i-th element of a slice field, for
// example Index("Holdings", 2) is "Holdings.2".
func Index(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}

type fieldError struct {
	field  string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

// FieldErrors returns all errors within err that were created for given
// field name. When field errors of the same name are nested, only the
// outermost one is returned.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		if f, ok := err.(*fieldError); ok && f.field == name {
			return append(found, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				found = append(found, FieldErrors(e, name)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}
