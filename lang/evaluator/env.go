package evaluator

import (
	"github.com/dolthub/swiss"
	"github.com/mna/schemec/lang/synx"
)

// envKey is the single key type an Env's table is keyed by, for both local
// symbols (interned per expansion) and top-level names, so that Ref(local)
// and Ref(top) both resolve by walking the same parent chain.
type envKey struct {
	local bool
	sym   synx.Sym
	name  string
}

func localKey(s synx.Sym) envKey { return envKey{local: true, sym: s} }
func topKey(name string) envKey  { return envKey{name: name} }

// Env is one frame of the chained, mutable environment the evaluator
// threads through Eval: a table plus a link to the enclosing frame.
type Env struct {
	parent *Env
	vars   *swiss.Map[envKey, Value]
}

// NewEnv creates a fresh, empty frame chained to parent. parent is nil for
// the outermost (top-level) frame.
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, vars: swiss.NewMap[envKey, Value](0)}
}

func (e *Env) lookup(k envKey) (*Env, Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars.Get(k); ok {
			return env, v, true
		}
	}
	return nil, nil, false
}

// GetLocal looks up a local symbol through the chain.
func (e *Env) GetLocal(sym synx.Sym) (Value, bool) {
	_, v, ok := e.lookup(localKey(sym))
	return v, ok
}

// GetTopLevel looks up a top-level name through the chain.
func (e *Env) GetTopLevel(name string) (Value, bool) {
	_, v, ok := e.lookup(topKey(name))
	return v, ok
}

// DefineLocal binds sym to v in this frame, shadowing any outer binding.
func (e *Env) DefineLocal(sym synx.Sym, v Value) { e.vars.Put(localKey(sym), v) }

// DefineTopLevel binds name to v in this frame.
func (e *Env) DefineTopLevel(name string, v Value) { e.vars.Put(topKey(name), v) }

// SetLocal updates the innermost frame that already binds sym, failing
// with UnboundVariableError if none does.
func (e *Env) SetLocal(sym synx.Sym, v Value) error {
	owner, _, ok := e.lookup(localKey(sym))
	if !ok {
		return &UnboundVariableError{Name: sym.String()}
	}
	owner.vars.Put(localKey(sym), v)
	return nil
}
