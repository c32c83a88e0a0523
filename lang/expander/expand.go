package expander

import (
	"github.com/mna/schemec/lang/bindstore"
	"github.com/mna/schemec/lang/evaluator"
	"github.com/mna/schemec/lang/synx"
)

// Expand is the entry point of §4.5: dispatch on the shape of stx and route
// it to the form it denotes. An identifier goes through expandIdentifier; a
// pair headed by an identifier goes through expandIdApplication (which may
// still fall back to an implicit %app); anything else — an empty list, or a
// pair whose head is not itself an identifier — goes through %app or
// %datum.
func Expand(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	if id, ok := asIdentifier(stx); ok {
		return expandIdentifier(id, ctx)
	}

	switch v := synx.Unwrap(stx).(type) {
	case *synx.Pair:
		if _, ok := asIdentifier(v.Car); ok {
			return expandIdApplication(stx, ctx)
		}
		return expandImplicit("%app", stx, ctx)
	case synx.Empty:
		return expandImplicit("%app", stx, ctx)
	default:
		return expandImplicit("%datum", stx, ctx)
	}
}

// expandIdentifier resolves id and dispatches on what it denotes. An
// unresolved (free) identifier, or one that resolves to the plain variable
// marker, is routed to the implicit %top form.
func expandIdentifier(id *synx.Syntax, ctx *Context) (synx.Datum, error) {
	binding, err := bindstore.Resolve(id)
	if err != nil {
		return expandImplicit("%top", id, ctx)
	}
	ctb, err := lookupBinding(binding, id, ctx)
	if err != nil {
		return nil, err
	}
	if ctb.IsVariable() {
		return expandImplicit("%top", id, ctx)
	}
	return dispatch(ctb, id, ctx)
}

// expandIdApplication resolves the head of a pair whose car is an
// identifier. If the head denotes a core form or transformer, dispatch runs
// against the whole, unstripped form; otherwise (an ordinary variable head,
// or a head that fails to resolve) it falls back to the implicit %app form.
func expandIdApplication(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) == 0 {
		return expandImplicit("%app", stx, ctx)
	}
	head, ok := asIdentifier(elems[0])
	if !ok {
		return expandImplicit("%app", stx, ctx)
	}
	binding, err := bindstore.Resolve(head)
	if err != nil {
		return expandImplicit("%app", stx, ctx)
	}
	ctb, err := lookupBinding(binding, head, ctx)
	if err != nil {
		return nil, err
	}
	if ctb.IsVariable() {
		return expandImplicit("%app", stx, ctx)
	}
	return dispatch(ctb, stx, ctx)
}

// expandImplicit resolves one of the three implicit forms (%app, %datum,
// %top) against form's own scope set and dispatches stx to it. It fails
// with NoTransformerError if the namespace has no binding for that implicit
// form under these scopes — which should not happen for a namespace built
// by NewNamespace, but can for a hand-built one missing a core form.
func expandImplicit(form string, stx synx.Datum, ctx *Context) (synx.Datum, error) {
	scopes := synx.ScopeSetOf(stx)
	id := synx.DatumToSyntax(synx.Sym{Name: form}, scopes, posOf(stx), nil).(*synx.Syntax)
	binding, err := bindstore.Resolve(id)
	if err != nil {
		return nil, &NoTransformerError{Form: form, Pos: posOf(stx)}
	}
	ctb, err := lookupBinding(binding, id, ctx)
	if err != nil {
		return nil, err
	}
	if ctb.IsVariable() {
		return nil, &NoTransformerError{Form: form, Pos: posOf(stx)}
	}
	return dispatch(ctb, stx, ctx)
}

// lookupBinding resolves a binding to its compile-time meaning: a local
// binding is looked up in ctx.Env (OutOfContextError if absent, meaning the
// identifier escaped the expansion that bound it), a top-level binding is
// looked up in ctx.Namespace (defaulting to the variable marker).
func lookupBinding(binding synx.Binding, id *synx.Syntax, ctx *Context) (CompileTimeBinding, error) {
	switch binding.Kind {
	case synx.LocalBinding:
		ctb, ok := ctx.Env.Lookup(binding.Local)
		if !ok {
			return CompileTimeBinding{}, &OutOfContextError{Id: id}
		}
		return ctb, nil
	default:
		return ctx.Namespace.lookupTopLevel(binding.TopLevel), nil
	}
}

// dispatch runs the form or transformer ctb denotes against stx. A core
// form is skipped — stx is returned unchanged — whenever ctx.OnlyImmediate
// is set: this is what lets ExpandBody classify begin, define-syntaxes and
// define-values by their still-unexpanded head before deciding what to do
// with them, without the handler itself ever running. A transformer is
// applied and its result re-expanded from scratch, under the same ctx.
func dispatch(ctb CompileTimeBinding, stx synx.Datum, ctx *Context) (synx.Datum, error) {
	switch {
	case ctb.IsCoreForm():
		if ctx.OnlyImmediate {
			return stx, nil
		}
		return ctb.form(stx, ctx)
	case ctb.IsTransformer():
		expanded, err := ApplyTransformer(ctb.transformer, stx, ctx)
		if err != nil {
			return nil, err
		}
		return Expand(expanded, ctx)
	case ctb.IsVariable():
		return stx, nil
	default:
		return nil, &IllegalUseOfSyntaxError{Pos: posOf(stx)}
	}
}

// ApplyTransformer runs a user transformer procedure on stx, the hygiene
// algorithm of §4.5 and §8: mint a fresh introduction scope and add it to
// stx; if this context is collecting use-site scopes (an internal-
// definition body), mint a fresh one of those too and add it as well; call
// f with stx as its sole argument, requiring a syntax-object result; flip
// the introduction scope across that result (identifiers that came from stx
// lose it, identifiers the transformer introduced gain it, the mechanism
// that makes a macro's own definitions invisible to its use site and vice
// versa); finally add the
// context's post-expansion scope, if any.
func ApplyTransformer(f evaluator.Function, stx synx.Datum, ctx *Context) (synx.Datum, error) {
	introScope := synx.NewScope()
	arg := synx.AddScope(stx, introScope)
	arg = maybeAddUseSiteScope(arg, ctx)

	vs, err := evaluator.Apply(f, []evaluator.Value{arg})
	if err != nil {
		return nil, err
	}
	v, err := vs.IntoSingle()
	if err != nil {
		return nil, err
	}
	result, ok := v.(*synx.Syntax)
	if !ok {
		return nil, &NonSyntaxTransformerResultError{Pos: posOf(stx)}
	}

	flipped := synx.FlipScope(result, introScope)
	return ctx.applyPostExpansionScope(flipped), nil
}

func maybeAddUseSiteScope(d synx.Datum, ctx *Context) synx.Datum {
	if ctx.UseSiteScopes == nil {
		return d
	}
	s := synx.NewScope()
	ctx.UseSiteScopes.add(s)
	return synx.AddScope(d, s)
}

func (c *Context) applyPostExpansionScope(d synx.Datum) synx.Datum {
	if c.PostExpansionScope == nil {
		return d
	}
	return synx.AddScope(d, *c.PostExpansionScope)
}
