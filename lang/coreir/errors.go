package coreir

import (
	"fmt"
	"go/token"
)

// MissingPrimitiveError reports a TopLevel reference to a name the target
// namespace has no binding for.
type MissingPrimitiveError struct {
	Name string
	Pos  token.Position
}

func (e *MissingPrimitiveError) Error() string {
	return fmt.Sprintf("%s: missing primitive %q", e.Pos, e.Name)
}

// UnrecognizedCoreFormError reports a form whose head does not name any
// core form the compiler knows how to lower.
type UnrecognizedCoreFormError struct {
	Form string
	Pos  token.Position
}

func (e *UnrecognizedCoreFormError) Error() string {
	return fmt.Sprintf("%s: unrecognized core form %q", e.Pos, e.Form)
}

// BadSyntaxError reports a core form used with the wrong shape: wrong
// operand count, a non-identifier where an identifier was required, and
// so on.
type BadSyntaxError struct {
	Reason string
	Pos    token.Position
}

func (e *BadSyntaxError) Error() string {
	return fmt.Sprintf("%s: bad syntax: %s", e.Pos, e.Reason)
}
