package expander

import "github.com/mna/schemec/lang/synx"

// scopeCollector is the mutable set apply-transformer inserts a fresh
// use-site scope into, shared by every macro use within one internal-
// definition body so that define-syntaxes can later strip exactly those
// scopes back off the identifiers it defines.
type scopeCollector struct {
	scopes synx.ScopeSet
}

func newScopeCollector() *scopeCollector { return &scopeCollector{} }

func (c *scopeCollector) add(s synx.Scope) { c.scopes = c.scopes.Add(s) }

// Context carries everything §4.5's expand needs beyond the syntax object
// itself. It is copied (never mutated in place) whenever a handler needs a
// variant of it, so that two recursive expansions branching from the same
// context never see each other's env extension or only-immediate flag.
type Context struct {
	Namespace *Namespace
	Env       *Env

	// OnlyImmediate, when true, makes dispatch stop at any core form without
	// running its handler (used while walking an internal-definition body,
	// so the body loop can classify each form by its still-unexpanded head
	// before deciding whether to splice/accumulate/recurse into it).
	OnlyImmediate bool

	// PostExpansionScope, if non-nil, is added to the result of every
	// immediate dispatch — the internal-definition body's inside scope.
	PostExpansionScope *synx.Scope

	// UseSiteScopes, if non-nil, collects every fresh use-site scope minted
	// while expanding within this context, for define-syntaxes to strip.
	UseSiteScopes *scopeCollector
}

// NewContext builds the root context for expanding a whole program against
// ns: no local bindings yet, not in a body, no scope bookkeeping active.
func NewContext(ns *Namespace) *Context {
	return &Context{Namespace: ns}
}

func (c *Context) clone() *Context {
	cp := *c
	return &cp
}

// WithEnv returns a copy of c with the compile-time environment replaced.
func (c *Context) WithEnv(env *Env) *Context {
	cp := c.clone()
	cp.Env = env
	return cp
}

// WithOnlyImmediate returns a copy of c with OnlyImmediate set to v.
func (c *Context) WithOnlyImmediate(v bool) *Context {
	cp := c.clone()
	cp.OnlyImmediate = v
	return cp
}

// WithPostExpansionScope returns a copy of c with the post-expansion scope
// replaced (pass nil to clear it).
func (c *Context) WithPostExpansionScope(s *synx.Scope) *Context {
	cp := c.clone()
	cp.PostExpansionScope = s
	return cp
}

// WithUseSiteScopes returns a copy of c with the use-site scope collector
// replaced (pass nil to clear it).
func (c *Context) WithUseSiteScopes(u *scopeCollector) *Context {
	cp := c.clone()
	cp.UseSiteScopes = u
	return cp
}
