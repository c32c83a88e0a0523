package bindstore

import (
	"fmt"

	"github.com/mna/schemec/lang/synx"
)

// EmptyScopeSetError reports an attempt to record a binding for an
// identifier whose scope set is empty: there is no scope to record it in.
type EmptyScopeSetError struct {
	Id *synx.Syntax
}

func (e *EmptyScopeSetError) Error() string {
	return fmt.Sprintf("%s: cannot bind %s, its scope set is empty", e.Id.Pos, e.Id.Datum)
}

// FreeVariableError reports that an identifier resolved to no binding at
// all: no recorded entry's scope set is a subset of the identifier's.
type FreeVariableError struct {
	Id *synx.Syntax
}

func (e *FreeVariableError) Error() string {
	return fmt.Sprintf("%s: %s is a free variable", e.Id.Pos, e.Id.Datum)
}

// AmbiguousBindingError reports that an identifier's scope set admits more
// than one maximal candidate binding, with neither a subset of the other.
type AmbiguousBindingError struct {
	Id *synx.Syntax
}

func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf("%s: %s has an ambiguous binding", e.Id.Pos, e.Id.Datum)
}
