package expander

import (
	"strconv"

	"github.com/mna/schemec/lang/bindstore"
	"github.com/mna/schemec/lang/evaluator"
	"github.com/mna/schemec/lang/synx"
)

// coreFormTable returns the handler registered for every core form a fresh
// Namespace installs. It is consulted exactly once, by NewNamespace.
func coreFormTable() map[string]CoreFormHandler {
	return map[string]CoreFormHandler{
		"lambda":          lambdaForm,
		"param":           paramForm,
		"let-syntax":      letSyntaxForm,
		"%app":            appForm,
		"%datum":          datumForm,
		"%top":            topForm,
		"quote":           quoteForm,
		"quote-syntax":    quoteSyntaxForm,
		"if":              ifForm,
		"set!":            setForm,
		"begin":           beginForm,
		"link":            linkForm,
		"define-syntaxes": defineSyntaxesForm,
		"define-values":   defineValuesForm,
		"loop":            unimplementedForm("loop"),
		"stop":            unimplementedForm("stop"),
		"skip":            unimplementedForm("skip"),
		"module":          unimplementedForm("module"),
	}
}

// unimplementedForm builds the handler for a core form the source stubs out
// with todo!() (§9's open question): rather than leave the name unbound
// (which would make it an ordinary free-variable error, indistinguishable
// from a typo), it is registered so that using it fails clearly with
// UnimplementedFormError.
func unimplementedForm(name string) CoreFormHandler {
	return func(stx synx.Datum, ctx *Context) (synx.Datum, error) {
		return nil, &UnimplementedFormError{Form: name, Pos: posOf(stx)}
	}
}

// lambdaFormals parses a (lambda formals body) form's formals datum, one of
// (n), (n +) or (n *): a parameter count, optionally followed by a marker
// for a trailing at-least-1 or at-least-0 variadic parameter.
func lambdaFormals(formals synx.Datum) (n int, variadic string, err error) {
	elems, ok := formElems(formals)
	if !ok || len(elems) == 0 || len(elems) > 2 {
		return 0, "", &BadSyntaxError{Reason: "lambda formals must be (n), (n +) or (n *)", Pos: posOf(formals)}
	}
	num, ok := synx.Unwrap(elems[0]).(synx.Number)
	if !ok {
		return 0, "", &BadSyntaxError{Reason: "lambda parameter count must be a number", Pos: posOf(formals)}
	}
	if len(elems) == 2 {
		sym, ok := synx.Unwrap(elems[1]).(synx.Sym)
		if !ok || (sym.Name != "+" && sym.Name != "*") {
			return 0, "", &BadSyntaxError{Reason: "lambda variadic marker must be + or *", Pos: posOf(formals)}
		}
		variadic = sym.Name
	}
	return int(num), variadic, nil
}

// lambdaForm expands (lambda formals body) into a chain of curried
// single-argument lambdas, one per formal parameter, each parameter named
// the octal representation of its position. A zero-argument, non-variadic
// lambda collapses to (lambda body) with no parameter at all.
func lambdaForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) != 3 {
		return nil, &BadSyntaxError{Reason: "lambda expects (lambda formals body)", Pos: posOf(stx)}
	}
	n, variadic, err := lambdaFormals(elems[1])
	if err != nil {
		return nil, err
	}

	argCount := n
	if variadic != "" {
		argCount++
	}

	s := synx.NewScope()
	env := ctx.Env
	names := make([]string, argCount)
	for i := 0; i < argCount; i++ {
		name := strconv.FormatInt(int64(i), 8)
		if variadic != "" && i == argCount-1 {
			name += variadic
		}
		names[i] = name

		paramID := synx.DatumToSyntax(synx.Sym{Name: name}, synx.NewScopeSet(s), posOf(stx), nil).(*synx.Syntax)
		fresh, err := addLocalBinding(paramID)
		if err != nil {
			return nil, err
		}
		env = env.Extend(fresh, variableBinding())
	}

	expandedBody, err := ExpandBody([]synx.Datum{elems[2]}, s, ctx.WithEnv(env))
	if err != nil {
		return nil, err
	}

	if argCount == 0 {
		return rebuild(stx, synx.List(elems[0], expandedBody)), nil
	}

	cur := expandedBody
	for i := argCount - 1; i >= 0; i-- {
		ref := synx.DatumToSyntax(synx.Sym{Name: names[i]}, synx.NewScopeSet(s), posOf(stx), nil)
		cur = synx.List(elems[0], ref, cur)
	}
	return rebuild(stx, cur), nil
}

// paramForm expands (param index) to the bare octal-named symbol the
// enclosing lambda bound for the parameter at that position, preserving the
// index identifier's own scope set so it resolves against that lambda's
// parameter scope.
func paramForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) != 2 {
		return nil, &BadSyntaxError{Reason: "param expects (param index)", Pos: posOf(stx)}
	}
	num, ok := synx.Unwrap(elems[1]).(synx.Number)
	if !ok {
		return nil, &BadSyntaxError{Reason: "param index must be a number", Pos: posOf(stx)}
	}
	return rebuild(elems[1], synx.Sym{Name: strconv.FormatInt(int64(num), 8)}), nil
}

// letSyntaxForm expands (let-syntax ((id rhs) ...) body): each id is bound
// locally to the transformer its rhs evaluates to at compile time, and body
// is expanded against the extended environment.
func letSyntaxForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) != 3 {
		return nil, &BadSyntaxError{Reason: "let-syntax expects (let-syntax (binding ...) body)", Pos: posOf(stx)}
	}
	bindings, ok := formElems(elems[1])
	if !ok {
		return nil, &BadSyntaxError{Reason: "let-syntax bindings must be a proper list", Pos: posOf(stx)}
	}

	s := synx.NewScope()
	env := ctx.Env
	for _, bf := range bindings {
		pair, ok := formElems(bf)
		if !ok || len(pair) != 2 {
			return nil, &BadSyntaxError{Reason: "each let-syntax binding must be (id rhs)", Pos: posOf(stx)}
		}
		id, ok := asIdentifier(pair[0])
		if !ok {
			return nil, &BadSyntaxError{Reason: "let-syntax binding name must be an identifier", Pos: posOf(stx)}
		}
		scopedID := synx.AddScope(id, s).(*synx.Syntax)
		fresh, err := addLocalBinding(scopedID)
		if err != nil {
			return nil, err
		}
		vals, err := EvalForSyntaxes(pair[1], 1, ctx)
		if err != nil {
			return nil, err
		}
		fn, ok := vals[0].(evaluator.Function)
		if !ok {
			return nil, &BadSyntaxError{Reason: "let-syntax right-hand side must produce a transformer procedure", Pos: posOf(pair[1])}
		}
		env = env.Extend(fresh, TransformerBinding(fn))
	}

	body := synx.AddScope(elems[2], s)
	return Expand(body, ctx.WithEnv(env))
}

// appForm expands an application, whether written explicitly as (%app rator
// rand ...) or reached implicitly as a plain (rator rand ...): every operand
// is expanded and the result is always rebuilt with an explicit %app head.
func appForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) == 0 {
		return nil, &BadSyntaxError{Reason: "application expects at least a rator", Pos: posOf(stx)}
	}
	operands := elems
	if name, ok := bindstore.CoreFormName(elems[0]); ok && name == "%app" {
		operands = elems[1:]
	}
	if len(operands) == 0 {
		return nil, &BadSyntaxError{Reason: "application expects at least a rator", Pos: posOf(stx)}
	}

	expanded := make([]synx.Datum, len(operands))
	for i, o := range operands {
		e, err := Expand(o, ctx)
		if err != nil {
			return nil, err
		}
		expanded[i] = e
	}
	appKW := ctx.Namespace.syntheticCoreIdentifier("%app", posOf(stx))
	return rebuild(stx, synx.List(append([]synx.Datum{appKW}, expanded...)...)), nil
}

// quoteForm and quoteSyntaxForm both leave their operand untouched: quote
// and quote-syntax return their datum as written, the former stripped of
// its syntax meaning only at compile time, the latter never.
func quoteForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) != 2 {
		return nil, &BadSyntaxError{Reason: "quote expects exactly one operand", Pos: posOf(stx)}
	}
	return stx, nil
}

func quoteSyntaxForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) != 2 {
		return nil, &BadSyntaxError{Reason: "quote-syntax expects exactly one operand", Pos: posOf(stx)}
	}
	return stx, nil
}

// ifForm expands each of (if cond then else)'s three sub-forms.
func ifForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) != 4 {
		return nil, &BadSyntaxError{Reason: "if expects (if cond then else)", Pos: posOf(stx)}
	}
	cond, err := Expand(elems[1], ctx)
	if err != nil {
		return nil, err
	}
	then, err := Expand(elems[2], ctx)
	if err != nil {
		return nil, err
	}
	els, err := Expand(elems[3], ctx)
	if err != nil {
		return nil, err
	}
	return rebuild(stx, synx.List(elems[0], cond, then, els)), nil
}

// setForm expands (set! id rhs), requiring id to resolve to a local binding:
// a top-level variable is never mutated through set! in this language.
func setForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) != 3 {
		return nil, &BadSyntaxError{Reason: "set! expects (set! id rhs)", Pos: posOf(stx)}
	}
	id, ok := asIdentifier(elems[1])
	if !ok {
		return nil, &BadSyntaxError{Reason: "set! target must be an identifier", Pos: posOf(stx)}
	}
	binding, err := bindstore.Resolve(id)
	if err != nil {
		return nil, err
	}
	if binding.Kind != synx.LocalBinding {
		return nil, &BadSyntaxError{Reason: "set! target must be a local binding", Pos: id.Pos}
	}
	rhs, err := Expand(elems[2], ctx)
	if err != nil {
		return nil, err
	}
	return rebuild(stx, synx.List(elems[0], elems[1], rhs)), nil
}

// beginForm expands every sub-form of (begin e ...) in place. Splicing a
// begin into an enclosing internal-definition body happens in ExpandBody,
// not here: this handler only runs when begin is reached as an ordinary
// expression, already past that classification step.
func beginForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) < 2 {
		return nil, &BadSyntaxError{Reason: "begin expects at least one sub-form", Pos: posOf(stx)}
	}
	out := make([]synx.Datum, len(elems))
	out[0] = elems[0]
	for i := 1; i < len(elems); i++ {
		e, err := Expand(elems[i], ctx)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return rebuild(stx, synx.List(out...)), nil
}

// linkForm checks that (link label ...) names only label literals; a link
// records a cross-reference resolved at run time (§4.8), it has nothing
// left to expand.
func linkForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	elems, ok := formElems(stx)
	if !ok || len(elems) < 2 {
		return nil, &BadSyntaxError{Reason: "link expects (link label ...)", Pos: posOf(stx)}
	}
	for _, e := range elems[1:] {
		if _, ok := synx.Unwrap(e).(synx.Label); !ok {
			return nil, &BadSyntaxError{Reason: "link operands must be label literals", Pos: posOf(stx)}
		}
	}
	return stx, nil
}

// datumForm implicitly quotes a literal datum reached through %datum: a
// number, string, boolean or other self-evaluating value that was never
// wrapped in an explicit quote by its author.
func datumForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	quoteKW := ctx.Namespace.syntheticCoreIdentifier("quote", posOf(stx))
	return rebuild(stx, synx.List(quoteKW, stx)), nil
}

// topForm is %top's default handler: a reference to an unresolved or
// ordinary-variable identifier expands to itself unchanged.
func topForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	return stx, nil
}

// defineSyntaxesForm and defineValuesForm only run if dispatch ever reaches
// them directly, which only happens outside an internal-definition body:
// ExpandBody recognizes and handles both forms itself, by their still-
// unexpanded head, before a handler call is ever made.
func defineSyntaxesForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	return nil, &BadSyntaxError{Reason: "define-syntaxes is only allowed inside a body", Pos: posOf(stx)}
}

func defineValuesForm(stx synx.Datum, ctx *Context) (synx.Datum, error) {
	return nil, &BadSyntaxError{Reason: "define-values is only allowed inside a body", Pos: posOf(stx)}
}
