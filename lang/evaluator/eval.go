package evaluator

import (
	"math/rand"

	"github.com/mna/schemec/lang/coreir"
	"github.com/mna/schemec/lang/synx"
)

// CoinFlip decides the branch taken by an If whose condition evaluates to
// the ternary maybe boolean. It is a package variable, not a hardcoded
// math/rand call, so tests can make the "random" branch deterministic.
var CoinFlip = func() bool { return rand.Intn(2) == 0 }

// unspecified is the sentinel letrec-values binds its ids to before their
// rhs is evaluated.
type unspecified struct{}

func (unspecified) String() string { return "#<unspecified>" }

// Eval evaluates expr in env, the chained environment frame active at this
// point. It is used both to run compile-time transformers and to run
// fully-compiled top-level programs; the two differ only in which
// Namespace populated env's outermost frame.
func Eval(expr coreir.Expr, env *Env) (Values, error) {
	switch e := expr.(type) {
	case *coreir.Quote:
		return Single(e.Datum), nil

	case *coreir.Ref:
		if e.Local {
			v, ok := env.GetLocal(e.Sym)
			if !ok {
				return Values{}, &UnboundVariableError{Name: e.Sym.String()}
			}
			return Single(v), nil
		}
		v, ok := env.GetTopLevel(e.Name)
		if !ok {
			return Values{}, &UnboundVariableError{Name: e.Name}
		}
		return Single(v), nil

	case *coreir.Lambda:
		return Single(&Closure{Param: e.Param, HasParam: e.HasParam, Body: e.Body, Env: env}), nil

	case *coreir.If:
		cond, err := evalSingle(e.Cond, env)
		if err != nil {
			return Values{}, err
		}
		if branchIsElse(cond) {
			return Eval(e.Else, env)
		}
		return Eval(e.Then, env)

	case *coreir.Set:
		rhs, err := evalSingle(e.Rhs, env)
		if err != nil {
			return Values{}, err
		}
		if err := env.SetLocal(e.Id, rhs); err != nil {
			return Values{}, err
		}
		return Many(), nil

	case *coreir.Begin:
		return evalSeq(e.Exprs, env)

	case *coreir.LetValues:
		return evalLetValues(e, env)

	case *coreir.LetRecValues:
		return evalLetRecValues(e, env)

	case *coreir.App:
		rator, err := evalSingle(e.Rator, env)
		if err != nil {
			return Values{}, err
		}
		args := make([]Value, len(e.Rands))
		for i, operand := range e.Rands {
			v, err := evalSingle(operand, env)
			if err != nil {
				return Values{}, err
			}
			args[i] = v
		}
		return Apply(rator, args)

	case *coreir.Link:
		return Many(), nil

	default:
		panic("evaluator: unhandled core IR node")
	}
}

// evalSingle evaluates expr and requires exactly one resulting value.
func evalSingle(expr coreir.Expr, env *Env) (Value, error) {
	vs, err := Eval(expr, env)
	if err != nil {
		return nil, err
	}
	return vs.IntoSingle()
}

// evalSeq evaluates exprs in order; the last one's values are the result.
// An empty slice produces zero values.
func evalSeq(exprs []coreir.Expr, env *Env) (Values, error) {
	if len(exprs) == 0 {
		return Many(), nil
	}
	for _, e := range exprs[:len(exprs)-1] {
		if _, err := Eval(e, env); err != nil {
			return Values{}, err
		}
	}
	return Eval(exprs[len(exprs)-1], env)
}

// branchIsElse reports whether an If condition value takes the else
// branch: #false always does, and maybe does on a coin flip. Every other
// value (including #t and any non-boolean datum) takes the then branch.
func branchIsElse(v Value) bool {
	b, ok := v.(synx.Boolean)
	if !ok {
		return false
	}
	switch b {
	case synx.BooleanFalse:
		return true
	case synx.BooleanMaybe:
		return CoinFlip()
	default:
		return false
	}
}

func evalLetValues(e *coreir.LetValues, env *Env) (Values, error) {
	inner := NewEnv(env)
	for _, clause := range e.Clauses {
		vs, err := Eval(clause.Rhs, env)
		if err != nil {
			return Values{}, err
		}
		if vs.Count() != len(clause.Ids) {
			return Values{}, &BindingCountMismatchError{Expected: len(clause.Ids), Got: vs.Count()}
		}
		for i, id := range clause.Ids {
			inner.DefineLocal(id, vs.Slice()[i])
		}
	}
	return Eval(e.Body, inner)
}

func evalLetRecValues(e *coreir.LetRecValues, env *Env) (Values, error) {
	inner := NewEnv(env)
	for _, clause := range e.Clauses {
		for _, id := range clause.Ids {
			inner.DefineLocal(id, unspecified{})
		}
	}
	for _, clause := range e.Clauses {
		vs, err := Eval(clause.Rhs, inner)
		if err != nil {
			return Values{}, err
		}
		if vs.Count() != len(clause.Ids) {
			return Values{}, &BindingCountMismatchError{Expected: len(clause.Ids), Got: vs.Count()}
		}
		for i, id := range clause.Ids {
			inner.DefineLocal(id, vs.Slice()[i])
		}
	}
	return Eval(e.Body, inner)
}
