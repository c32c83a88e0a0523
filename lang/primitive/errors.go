package primitive

import (
	"fmt"

	"github.com/mna/schemec/lang/evaluator"
)

// WrongTypeError reports a primitive invoked with an argument of the wrong
// shape: car/cdr on a non-pair, map's first argument not a function, and
// so on.
type WrongTypeError struct {
	Primitive string
	Expected  string
	Value     evaluator.Value
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Primitive, e.Expected, e.Value)
}
