package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors of the module. Extensions declare their own with Register,
// using codes outside of this list.
var (
	// ErrUnauthorized is returned when the caller does not hold what an
	// operation requires, for example the badge of an escrow.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrModel is returned when stored data cannot be decoded.
	ErrModel = Register(5, "invalid model")

	// ErrDuplicate is returned when a value must be unique but is not, for
	// example an instance listed twice.
	ErrDuplicate = Register(6, "duplicate")

	// ErrHuman is returned on code paths a correct caller never reaches.
	ErrHuman = Register(7, "coding error")

	// ErrEmpty is returned when a value is required but missing.
	ErrEmpty = Register(9, "value is empty")

	// ErrState is returned when an entity does not allow the requested
	// transition.
	ErrState = Register(10, "invalid state")

	// ErrType is returned when a value is not of the expected asset type
	// or kind.
	ErrType = Register(11, "invalid type")

	// ErrInsufficientAmount is returned when a wallet or vault holds less
	// than requested.
	ErrInsufficientAmount = Register(12, "insufficient amount")

	// ErrAmount is returned for malformed or non positive amounts.
	ErrAmount = Register(13, "invalid amount")

	// ErrInput is returned for malformed input.
	ErrInput = Register(14, "invalid input")

	// ErrIteratorDone is returned by iterators when there are no more
	// elements to read.
	ErrIteratorDone = Register(15, "iterator done")

	// ErrOverflow is returned when the result of an amount computation
	// does not fit.
	ErrOverflow = Register(16, "an operation cannot be completed due to value overflow")

	// ErrCurrency is returned when coins of different tickers are mixed.
	ErrCurrency = Register(17, "currency")

	// ErrDatabase is returned when the storage layer fails.
	ErrDatabase = Register(18, "database")

	// ErrMetadata is returned when model metadata is missing or declares
	// an unsupported schema.
	ErrMetadata = Register(19, "metadata")

	// ErrPanic is returned by Recover. Its message must not leak details
	// of the process state.
	ErrPanic = Register(111222, "panic")
)

// Register declares a root error. It panics if code is already taken, so it
// must only be called while initializing package variables.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{code: code, desc: description}
	usedCodes[code] = err
	return err
}

// Code 1 is reserved for errors that were not declared with Register.
var usedCodes = map[uint32]*Error{
	1: {code: 1, desc: "internal"},
}

// Error is a root error. Every error returned by this module wraps one of
// them, so that callers can test for a condition with Is regardless of the
// context added on the way.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

// Code returns the registered code of this root error.
func (e Error) Code() uint32 {
	return e.code
}

// New is a shortcut for Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is a shortcut for Wrapf(e, format, args...).
func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrapf(e, format, args...)
}

// Is returns true if err is this root error or wraps it. Errors created
// with Append match when any of the contained errors matches. A nil kind
// matches only nil errors.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		return isNilErr(err)
	}
	return visit(err, func(e error) bool { return e == kind })
}

// Code returns the code of the first root error found within err, or 1 if
// err does not wrap any. A nil error has code 0.
func Code(err error) uint32 {
	if isNilErr(err) {
		return 0
	}
	code := uint32(1)
	visit(err, func(e error) bool {
		if root, ok := e.(*Error); ok {
			code = root.code
			return true
		}
		return false
	})
	return code
}

// visit calls fn with err and every error it wraps, depth first, until fn
// returns true.
func visit(err error, fn func(error) bool) bool {
	for !isNilErr(err) {
		if fn(err) {
			return true
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				if visit(e, fn) {
					return true
				}
			}
			return false
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds description to err. It returns nil if err is nil, so that the
// last call of a function can be wrapped without an if statement. A stack
// trace is attached by the innermost Wrap only.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format prints the stack trace after the message for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s\n%+v", e.Error(), stackTrace(e))
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover stops a panic and stores it in err as an ErrPanic. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// unpacker is implemented by errors that group several errors together.
type unpacker interface {
	Unpack() []error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the stack trace of the innermost wrap of err, following
// causes only. It is nil if none of them carries one.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// isNilErr returns true for nil and for typed nil errors.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	switch v := reflect.ValueOf(err); v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
