package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none or a single non-nil error is provided, it is returned as it is.
// Errors created with Append are flattened, so that the result never contains
// a nested group.
func Append(errs ...error) error {
	var flat []error
	for _, err := range errs {
		if isNilErr(err) {
			continue
		}
		if m, ok := err.(*multiErr); ok {
			flat = append(flat, m.errs...)
		} else {
			flat = append(flat, err)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return &multiErr{errs: flat}
	}
}

// multiErr groups several errors together. Use Append to create one.
type multiErr struct {
	errs []error
}

var (
	_ unpacker = (*multiErr)(nil)
	_ error    = (*multiErr)(nil)
)

// Unpack returns all grouped errors.
func (m *multiErr) Unpack() []error {
	return m.errs
}

func (m *multiErr) Error() string {
	points := make([]string, len(m.errs))
	for i, err := range m.errs {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(m.errs), strings.Join(points, "\n\t"))
}
