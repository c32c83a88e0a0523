// Package coreir is the target of compilation: a small tree IR with one
// node per core form, built from a fully-expanded syntax object. The
// evaluator (lang/evaluator) walks this tree directly; there is no
// bytecode or control-flow graph underneath it.
package coreir

import "github.com/mna/schemec/lang/synx"

// Expr is the sum type of core IR nodes. It is a closed interface: only the
// types in this package implement it.
type Expr interface {
	expr()

	// String renders the node in the S-expression format of printer.go.
	String() string
}

// Quote carries a literal datum, unevaluated. quote-syntax compiles to a
// Quote whose Datum is still a syntax object; quote compiles to a Quote
// whose Datum has had every syntax wrapper stripped.
type Quote struct {
	Datum synx.Datum
}

func (*Quote) expr() {}

// Lambda is a curried, at-most-one-parameter closure template. HasParam is
// false for a zero-argument lambda, in which case Param is the zero Sym.
type Lambda struct {
	Param    synx.Sym
	HasParam bool
	Body     Expr
}

func (*Lambda) expr() {}

// If evaluates Cond and branches to Then or Else.
type If struct {
	Cond, Then, Else Expr
}

func (*If) expr() {}

// Set mutates the innermost binding of Id.
type Set struct {
	Id  synx.Sym
	Rhs Expr
}

func (*Set) expr() {}

// Begin evaluates Exprs in order; the last one's values are the result.
type Begin struct {
	Exprs []Expr
}

func (*Begin) expr() {}

// Clause is one (ids rhs) binding group of a LetValues/LetRecValues.
type Clause struct {
	Ids []synx.Sym
	Rhs Expr
}

// LetValues binds each clause's rhs values to its ids, all rhs's evaluated
// before any binding is visible, then evaluates Body.
type LetValues struct {
	Clauses []Clause
	Body    Expr
}

func (*LetValues) expr() {}

// LetRecValues is LetValues except every id is bound (to an unspecified
// sentinel) before any rhs is evaluated, so a clause's rhs may refer to
// sibling clauses' ids (and its own, for self-recursive procedures).
type LetRecValues struct {
	Clauses []Clause
	Body    Expr
}

func (*LetRecValues) expr() {}

// App applies Rator to Rands.
type App struct {
	Rator Expr
	Rands []Expr
}

func (*App) expr() {}

// Ref looks up a variable: a Local ref names an interned local symbol, a
// non-local ref names a top-level binding by its namespace name.
type Ref struct {
	Local bool
	Sym   synx.Sym
	Name  string
}

func (*Ref) expr() {}

// Link names a backend linkage directive: dest and each src are label
// literals, never subject to scope-set resolution.
type Link struct {
	Dest synx.Label
	Srcs []synx.Label
}

func (*Link) expr() {}
