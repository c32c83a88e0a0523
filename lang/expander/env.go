package expander

import "github.com/mna/schemec/lang/synx"

// Env is the compile-time environment: a map from a local symbol to the
// compile-time binding it denotes (the variable marker, or a transformer).
// It is functional — Extend never mutates the receiver, it links a fresh
// frame in front of it — so that two expansions branching from the same
// point in the environment never see each other's extensions, matching the
// spec's "each extension returns a fresh environment".
//
// A nil *Env is the empty environment; every lookup against it misses.
type Env struct {
	parent *Env
	sym    synx.Sym
	val    CompileTimeBinding
}

// Extend returns a new environment identical to e except that sym now maps
// to val, shadowing any existing entry for sym.
func (e *Env) Extend(sym synx.Sym, val CompileTimeBinding) *Env {
	return &Env{parent: e, sym: sym, val: val}
}

// Lookup walks the frame chain for sym.
func (e *Env) Lookup(sym synx.Sym) (CompileTimeBinding, bool) {
	for n := e; n != nil; n = n.parent {
		if n.sym == sym {
			return n.val, true
		}
	}
	return CompileTimeBinding{}, false
}
