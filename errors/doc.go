/*
Package errors declares the root errors of barter and helpers to wrap them.

Every error returned by the module wraps a root error declared with Register.
Callers test for a condition with Is, for example

	if errors.ErrNotFound.Is(err) {
		...
	}

and map errors to a stable number with Code. Extensions register their own
root errors with codes of their own range, see x/escrow.

Wrap and Wrapf add context on the way up and attach a stack trace at the
innermost call. Print an error with %+v to see it. Field and AppendField tag
errors with the name of the model attribute they were found in, and Append
groups errors of independent checks into one.
*/
package errors
