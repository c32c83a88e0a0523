package expander

import (
	"fmt"
	"go/token"

	"github.com/mna/schemec/lang/synx"
)

// NoTransformerError reports that an implicit form (%app, %datum, %top) has
// no transformer installed in the namespace being expanded against.
type NoTransformerError struct {
	Form string
	Pos  token.Position
}

func (e *NoTransformerError) Error() string {
	return fmt.Sprintf("%s: no transformer for implicit form %q", e.Pos, e.Form)
}

// IllegalUseOfSyntaxError reports a binding that is neither a core form, a
// transformer, nor the variable marker: a syntax-only binding used outside
// of a position the expander can dispatch.
type IllegalUseOfSyntaxError struct {
	Pos token.Position
}

func (e *IllegalUseOfSyntaxError) Error() string {
	return fmt.Sprintf("%s: illegal use of syntax", e.Pos)
}

// NonSyntaxTransformerResultError reports a transformer procedure that
// returned something other than a syntax object.
type NonSyntaxTransformerResultError struct {
	Pos token.Position
}

func (e *NonSyntaxTransformerResultError) Error() string {
	return fmt.Sprintf("%s: transformer did not return a syntax object", e.Pos)
}

// DuplicateBindingError reports two definitions in the same body binding the
// same identifier.
type DuplicateBindingError struct {
	Id *synx.Syntax
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("%s: %s is already bound in this body", e.Id.Pos, e.Id.Datum)
}

// OutOfContextError reports a local binding resolved in a compile-time
// environment that has no entry for it: a local identifier escaped the
// expansion it was bound in.
type OutOfContextError struct {
	Id *synx.Syntax
}

func (e *OutOfContextError) Error() string {
	return fmt.Sprintf("%s: %s is used out of context", e.Id.Pos, e.Id.Datum)
}

// WrongResultCountError reports eval-for-syntaxes producing a different
// number of values than the binding form asked for.
type WrongResultCountError struct {
	Expected, Got int
}

func (e *WrongResultCountError) Error() string {
	return fmt.Sprintf("expected %d result value(s), got %d", e.Expected, e.Got)
}

// UnimplementedFormError reports use of a core form the source language
// stubs out (loop, stop, skip, module) rather than a clean reimplementation
// ever needing to define, per spec §9.
type UnimplementedFormError struct {
	Form string
	Pos  token.Position
}

func (e *UnimplementedFormError) Error() string {
	return fmt.Sprintf("%s: %s is not implemented", e.Pos, e.Form)
}

// BadSyntaxError reports a core form used with the wrong shape.
type BadSyntaxError struct {
	Reason string
	Pos    token.Position
}

func (e *BadSyntaxError) Error() string {
	return fmt.Sprintf("%s: bad syntax: %s", e.Pos, e.Reason)
}
