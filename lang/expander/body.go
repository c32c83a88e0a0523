package expander

import (
	"go/token"

	"github.com/mna/schemec/lang/bindstore"
	"github.com/mna/schemec/lang/coreir"
	"github.com/mna/schemec/lang/evaluator"
	"github.com/mna/schemec/lang/synx"
)

// bodyBinding is one define-values clause accumulated while walking an
// internal-definition body: the identifiers it binds (already locally
// bound, and already stripped of the body's use-site scopes) and its
// still-to-be-fully-expanded right-hand side.
type bodyBinding struct {
	ids []*synx.Syntax
	rhs synx.Datum
}

// ExpandBody implements §4.5's expand-body: it turns a sequence of internal
// definitions and expressions into a single letrec-values. forms is the
// raw, not yet scope-adjusted body; scope is the caller's own scope (a
// lambda's parameter scope, typically) added to every sub-form alongside
// two scopes ExpandBody mints itself: outside (added to every form, so
// identifiers referring out of the body still resolve correctly) and inside
// (the post-expansion scope every immediately-dispatched form picks up,
// marking it as belonging to this body).
func ExpandBody(forms []synx.Datum, scope synx.Scope, ctx *Context) (synx.Datum, error) {
	var origPos token.Position
	if len(forms) > 0 {
		origPos = posOf(forms[0])
	}

	outside := synx.NewScope()
	inside := synx.NewScope()

	queue := make([]synx.Datum, len(forms))
	for i, f := range forms {
		f = synx.AddScope(f, scope)
		f = synx.AddScope(f, outside)
		f = synx.AddScope(f, inside)
		queue[i] = f
	}

	useSite := newScopeCollector()
	bodyCtx := ctx.WithOnlyImmediate(true).WithPostExpansionScope(&inside).WithUseSiteScopes(useSite)

	var done []synx.Datum
	var defs []bodyBinding
	var boundIds []*synx.Syntax

	for len(queue) > 0 {
		form := queue[0]
		queue = queue[1:]

		expanded, err := Expand(form, bodyCtx)
		if err != nil {
			return nil, err
		}

		head, _ := classifyBodyForm(expanded)
		switch head {
		case "begin":
			elems, ok := formElems(expanded)
			if !ok || len(elems) < 2 {
				return nil, &BadSyntaxError{Reason: "begin expects at least one sub-form", Pos: posOf(expanded)}
			}
			queue = append(append([]synx.Datum{}, elems[1:]...), queue...)

		case "define-syntaxes":
			elems, ok := formElems(expanded)
			if !ok || len(elems) != 3 {
				return nil, &BadSyntaxError{Reason: "define-syntaxes expects (define-syntaxes (id ...) rhs)", Pos: posOf(expanded)}
			}
			ids, err := stripAndCheckIds(elems[1], useSite, &boundIds)
			if err != nil {
				return nil, err
			}
			vals, err := EvalForSyntaxes(elems[2], len(ids), ctx)
			if err != nil {
				return nil, err
			}
			for i, id := range ids {
				fresh, err := addLocalBinding(id)
				if err != nil {
					return nil, err
				}
				fn, ok := vals[i].(evaluator.Function)
				if !ok {
					return nil, &BadSyntaxError{Reason: "define-syntaxes right-hand side must produce transformer procedures", Pos: id.Pos}
				}
				bodyCtx = bodyCtx.WithEnv(bodyCtx.Env.Extend(fresh, TransformerBinding(fn)))
			}

		case "define-values":
			elems, ok := formElems(expanded)
			if !ok || len(elems) != 3 {
				return nil, &BadSyntaxError{Reason: "define-values expects (define-values (id ...) rhs)", Pos: posOf(expanded)}
			}
			ids, err := stripAndCheckIds(elems[1], useSite, &boundIds)
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				fresh, err := addLocalBinding(id)
				if err != nil {
					return nil, err
				}
				bodyCtx = bodyCtx.WithEnv(bodyCtx.Env.Extend(fresh, variableBinding()))
			}
			defs = append(defs, bodyBinding{ids: ids, rhs: elems[2]})

		default:
			done = append(done, expanded)
		}
	}

	if len(done) == 0 {
		return nil, &BadSyntaxError{Reason: "body has no expressions", Pos: origPos}
	}

	finalCtx := bodyCtx.WithOnlyImmediate(false).WithPostExpansionScope(nil).WithUseSiteScopes(nil)

	finalDone := make([]synx.Datum, len(done))
	for i, d := range done {
		e, err := Expand(d, finalCtx)
		if err != nil {
			return nil, err
		}
		finalDone[i] = e
	}

	clauses := make([]synx.Datum, len(defs))
	for i, d := range defs {
		rhs, err := Expand(d.rhs, finalCtx)
		if err != nil {
			return nil, err
		}
		idForms := make([]synx.Datum, len(d.ids))
		for j, id := range d.ids {
			idForms[j] = id
		}
		clauses[i] = synx.List(synx.List(idForms...), rhs)
	}

	var bodyExpr synx.Datum
	if len(finalDone) == 1 {
		bodyExpr = finalDone[0]
	} else {
		beginKW := ctx.Namespace.syntheticCoreIdentifier("begin", origPos)
		bodyExpr = synx.List(append([]synx.Datum{beginKW}, finalDone...)...)
	}

	letrecKW := ctx.Namespace.syntheticCoreIdentifier("letrec-values", origPos)
	return synx.List(letrecKW, synx.List(clauses...), bodyExpr), nil
}

// stripAndCheckIds converts idsForm's elements to identifiers, strips this
// body's use-site scopes from each (so a macro that expanded to a
// define-syntaxes/define-values is not itself bound under its own use-site
// scope, which no reference at the use site carries), and checks that none
// of them is already bound earlier in this same body.
func stripAndCheckIds(idsForm synx.Datum, useSite *scopeCollector, seen *[]*synx.Syntax) ([]*synx.Syntax, error) {
	forms, ok := formElems(idsForm)
	if !ok {
		return nil, &BadSyntaxError{Reason: "expected a list of identifiers", Pos: posOf(idsForm)}
	}
	ids := make([]*synx.Syntax, 0, len(forms))
	for _, f := range forms {
		id, ok := asIdentifier(f)
		if !ok {
			return nil, &BadSyntaxError{Reason: "expected an identifier", Pos: posOf(f)}
		}
		stripped := synx.RemoveScopes(id, useSite.scopes).(*synx.Syntax)
		for _, s := range *seen {
			if synx.BoundIdentifier(s, stripped) {
				return nil, &DuplicateBindingError{Id: stripped}
			}
		}
		*seen = append(*seen, stripped)
		ids = append(ids, stripped)
	}
	return ids, nil
}

// classifyBodyForm reports the top-level name d's still-unexpanded head
// resolves to, the textual classification expand-body-loop performs instead
// of calling that core form's own handler.
func classifyBodyForm(d synx.Datum) (string, bool) {
	elems, ok := formElems(d)
	if !ok || len(elems) == 0 {
		return "", false
	}
	return bindstore.CoreFormName(elems[0])
}

// addLocalBinding mints a fresh symbol for id's surface name and records it
// as id's binding under id's own scope set.
func addLocalBinding(id *synx.Syntax) (synx.Sym, error) {
	sym, _ := id.Symbol()
	fresh := synx.GenSym(sym.Name)
	if err := bindstore.AddBinding(id, synx.NewLocalBinding(fresh)); err != nil {
		return synx.Sym{}, err
	}
	return fresh, nil
}

// EvalForSyntaxes evaluates rhs at compile time and requires it to produce
// exactly k values: the implementation of §4.5's eval-for-syntaxes, used by
// both let-syntax and define-syntaxes to turn a transformer right-hand side
// into the procedure value(s) it denotes.
func EvalForSyntaxes(rhs synx.Datum, k int, ctx *Context) ([]evaluator.Value, error) {
	evalCtx := ctx.WithOnlyImmediate(false).WithPostExpansionScope(nil).WithUseSiteScopes(nil)
	expanded, err := Expand(rhs, evalCtx)
	if err != nil {
		return nil, err
	}
	expr, err := coreir.Compile(expanded, ctx.Namespace)
	if err != nil {
		return nil, err
	}
	vs, err := evaluator.Eval(expr, ctx.Namespace.ExpandTimeEnv)
	if err != nil {
		return nil, err
	}
	if vs.Count() != k {
		return nil, &WrongResultCountError{Expected: k, Got: vs.Count()}
	}
	return vs.Slice(), nil
}
