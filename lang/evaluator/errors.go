package evaluator

import "fmt"

// UnboundVariableError reports a Ref or a set! target with no reachable
// binding in the environment chain.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("unbound variable: %s", e.Name)
}

// ExpectedSingleValueError reports a context that required exactly one
// value (an argument, a condition, a set! rhs) but got a different count.
type ExpectedSingleValueError struct {
	Got int
}

func (e *ExpectedSingleValueError) Error() string {
	return fmt.Sprintf("expected a single value, got %d", e.Got)
}

// ArityMismatchError reports a lambda or primitive called with the wrong
// number of arguments.
type ArityMismatchError struct {
	Callee   string
	Expected string
	Got      int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s argument(s), got %d", e.Callee, e.Expected, e.Got)
}

// NotAFunctionError reports an application whose rator is not callable.
type NotAFunctionError struct {
	Value Value
}

func (e *NotAFunctionError) Error() string {
	return fmt.Sprintf("not a function: %s", e.Value)
}

// BindingCountMismatchError reports a let-values/letrec-values clause whose
// rhs produced a different number of values than it has ids to bind.
type BindingCountMismatchError struct {
	Expected int
	Got      int
}

func (e *BindingCountMismatchError) Error() string {
	return fmt.Sprintf("expected %d value(s), got %d", e.Expected, e.Got)
}
