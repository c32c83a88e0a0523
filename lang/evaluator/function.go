package evaluator

import (
	"fmt"

	"github.com/mna/schemec/lang/coreir"
	"github.com/mna/schemec/lang/synx"
)

// Function is implemented by every callable runtime value.
type Function interface {
	Value
	apply(args []Value) (Values, error)
}

// Primitive is a host-implemented procedure: a named host function taking
// the evaluated argument values (ordinary data or, for a higher-order
// primitive like map, another Function) and producing a Values, per the
// primitive environment's contract (§4.8).
type Primitive struct {
	Name string
	Fn   func(args []Value) (Values, error)
}

var _ Function = (*Primitive)(nil)

func (p *Primitive) String() string { return fmt.Sprintf("#<primitive:%s>", p.Name) }

func (p *Primitive) apply(args []Value) (Values, error) { return p.Fn(args) }

// Closure is a lambda value: a curried, at-most-one-parameter core IR
// lambda closed over the environment active where it was created.
type Closure struct {
	Param    synx.Sym
	HasParam bool
	Body     coreir.Expr
	Env      *Env
}

var _ Function = (*Closure)(nil)

func (c *Closure) String() string { return "#<closure>" }

func (c *Closure) apply(args []Value) (Values, error) {
	if !c.HasParam {
		if len(args) != 0 {
			return Values{}, &ArityMismatchError{Callee: "closure", Expected: "0", Got: len(args)}
		}
		return Eval(c.Body, NewEnv(c.Env))
	}
	if len(args) != 1 {
		return Values{}, &ArityMismatchError{Callee: "closure", Expected: "1", Got: len(args)}
	}
	env := NewEnv(c.Env)
	env.DefineLocal(c.Param, args[0])
	return Eval(c.Body, env)
}

// Apply calls fn with args, the shared entry point for App evaluation and
// for a primitive like map invoking a callback.
func Apply(fn Value, args []Value) (Values, error) {
	f, ok := fn.(Function)
	if !ok {
		return Values{}, &NotAFunctionError{Value: fn}
	}
	return f.apply(args)
}
