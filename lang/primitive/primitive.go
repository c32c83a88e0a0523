// Package primitive implements the host-provided procedures named in §4.8
// and §6: datum<->syntax conversions and a small list kit. Each is a named
// evaluator.Primitive, taking its already-evaluated arguments and returning
// a Values, per the primitive environment's datum -> Values contract.
package primitive

import (
	"go/token"
	"strconv"

	"github.com/mna/schemec/lang/evaluator"
	"github.com/mna/schemec/lang/synx"
)

// All returns every host primitive, keyed by its namespace name. A
// namespace installs each entry as both a TopLevel binding (so ordinary
// identifier resolution finds it) and a run-time/expand-time variable
// bound to the Primitive value (so both evaluation phases can call it).
func All() map[string]*evaluator.Primitive {
	prims := []*evaluator.Primitive{
		datumToSyntax(),
		syntaxToDatum(),
		syntaxE(),
		cons(),
		car(),
		cdr(),
		list(),
		mapPrim(),
	}
	out := make(map[string]*evaluator.Primitive, len(prims))
	for _, p := range prims {
		out[p.Name] = p
	}
	return out
}

func arity(name string, args []evaluator.Value, want int) error {
	if len(args) != want {
		return &evaluator.ArityMismatchError{Callee: name, Expected: strconv.Itoa(want), Got: len(args)}
	}
	return nil
}

func asDatum(name, expected string, v evaluator.Value) (synx.Datum, error) {
	d, ok := v.(synx.Datum)
	if !ok {
		return nil, &WrongTypeError{Primitive: name, Expected: expected, Value: v}
	}
	return d, nil
}

func datumToSyntax() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "datum->syntax",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			if err := arity("datum->syntax", args, 2); err != nil {
				return evaluator.Values{}, err
			}
			ctx, err := asDatum("datum->syntax", "a syntax object", args[0])
			if err != nil {
				return evaluator.Values{}, err
			}
			d, err := asDatum("datum->syntax", "a datum", args[1])
			if err != nil {
				return evaluator.Values{}, err
			}
			scopes := synx.ScopeSetOf(ctx)
			pos := token.Position{}
			if s, ok := ctx.(*synx.Syntax); ok {
				pos = s.Pos
			}
			return evaluator.Single(synx.DatumToSyntax(d, scopes, pos, nil)), nil
		},
	}
}

func syntaxToDatum() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "syntax->datum",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			if err := arity("syntax->datum", args, 1); err != nil {
				return evaluator.Values{}, err
			}
			d, err := asDatum("syntax->datum", "a datum", args[0])
			if err != nil {
				return evaluator.Values{}, err
			}
			return evaluator.Single(synx.SyntaxToDatum(d)), nil
		},
	}
}

func syntaxE() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "syntax-e",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			if err := arity("syntax-e", args, 1); err != nil {
				return evaluator.Values{}, err
			}
			d, err := asDatum("syntax-e", "a datum", args[0])
			if err != nil {
				return evaluator.Values{}, err
			}
			return evaluator.Single(synx.Unwrap(d)), nil
		},
	}
}

func cons() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "cons",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			if err := arity("cons", args, 2); err != nil {
				return evaluator.Values{}, err
			}
			car, err := asDatum("cons", "a datum", args[0])
			if err != nil {
				return evaluator.Values{}, err
			}
			cdr, err := asDatum("cons", "a datum", args[1])
			if err != nil {
				return evaluator.Values{}, err
			}
			return evaluator.Single(synx.NewPair(car, cdr)), nil
		},
	}
}

func asPair(name string, v evaluator.Value) (*synx.Pair, error) {
	d, err := asDatum(name, "a pair", v)
	if err != nil {
		return nil, err
	}
	p, ok := synx.Unwrap(d).(*synx.Pair)
	if !ok {
		return nil, &WrongTypeError{Primitive: name, Expected: "a pair", Value: v}
	}
	return p, nil
}

func car() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "car",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			if err := arity("car", args, 1); err != nil {
				return evaluator.Values{}, err
			}
			p, err := asPair("car", args[0])
			if err != nil {
				return evaluator.Values{}, err
			}
			return evaluator.Single(p.Car), nil
		},
	}
}

func cdr() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "cdr",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			if err := arity("cdr", args, 1); err != nil {
				return evaluator.Values{}, err
			}
			p, err := asPair("cdr", args[0])
			if err != nil {
				return evaluator.Values{}, err
			}
			return evaluator.Single(p.Cdr), nil
		},
	}
}

func list() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "list",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			datums := make([]synx.Datum, len(args))
			for i, a := range args {
				d, err := asDatum("list", "a datum", a)
				if err != nil {
					return evaluator.Values{}, err
				}
				datums[i] = d
			}
			return evaluator.Single(synx.List(datums...)), nil
		},
	}
}

func mapPrim() *evaluator.Primitive {
	return &evaluator.Primitive{
		Name: "map",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			if err := arity("map", args, 2); err != nil {
				return evaluator.Values{}, err
			}
			fn, ok := args[0].(evaluator.Function)
			if !ok {
				return evaluator.Values{}, &WrongTypeError{Primitive: "map", Expected: "a function", Value: args[0]}
			}
			lst, err := asDatum("map", "a list", args[1])
			if err != nil {
				return evaluator.Values{}, err
			}
			elems, ok := synx.ToSlice(synx.Unwrap(lst))
			if !ok {
				return evaluator.Values{}, &WrongTypeError{Primitive: "map", Expected: "a proper list", Value: args[1]}
			}
			out := make([]synx.Datum, len(elems))
			for i, el := range elems {
				vs, err := evaluator.Apply(fn, []evaluator.Value{el})
				if err != nil {
					return evaluator.Values{}, err
				}
				v, err := vs.IntoSingle()
				if err != nil {
					return evaluator.Values{}, err
				}
				d, err := asDatum("map", "a datum", v)
				if err != nil {
					return evaluator.Values{}, err
				}
				out[i] = d
			}
			return evaluator.Single(synx.List(out...)), nil
		},
	}
}
