package coreir

import (
	"fmt"
	"go/token"

	"github.com/mna/schemec/lang/bindstore"
	"github.com/mna/schemec/lang/synx"
)

// Namespace is the compile-time view of a namespace: whether it has a
// binding for a top-level name. lang/expander's Namespace satisfies this
// interface; coreir depends on nothing from lang/expander to avoid an
// import cycle (the expander calls Compile during eval-for-syntaxes).
type Namespace interface {
	HasTopLevel(name string) bool
}

// Compile lowers a fully-expanded syntax object to a core IR expression.
// Every identifier in d must already resolve (via lang/bindstore) to a
// Local or TopLevel binding, and every form's head must name a core form
// ns recognizes; Compile does no further macro expansion.
func Compile(d synx.Datum, ns Namespace) (Expr, error) {
	if id, ok := asIdentifier(d); ok {
		return compileRef(id, ns)
	}

	elems, ok := elemsOf(d)
	if !ok || len(elems) == 0 {
		return nil, &BadSyntaxError{Reason: "expected an identifier or a non-empty form", Pos: posOf(d)}
	}

	form, ok := bindstore.CoreFormName(elems[0])
	if !ok {
		return nil, &UnrecognizedCoreFormError{Form: datumString(elems[0]), Pos: posOf(d)}
	}

	switch form {
	case "lambda":
		return compileLambda(elems, ns, posOf(d))
	case "quote":
		return compileQuote(elems, posOf(d))
	case "quote-syntax":
		return compileQuoteSyntax(elems, posOf(d))
	case "if":
		return compileIf(elems, ns, posOf(d))
	case "set!":
		return compileSet(elems, ns, posOf(d))
	case "begin":
		return compileBegin(elems, ns, posOf(d))
	case "%app":
		return compileApp(elems, ns, posOf(d))
	case "let-values":
		return compileLet(elems, ns, posOf(d), false)
	case "letrec-values":
		return compileLet(elems, ns, posOf(d), true)
	case "link":
		return compileLink(elems, posOf(d))
	default:
		return nil, &UnrecognizedCoreFormError{Form: form, Pos: posOf(d)}
	}
}

func compileRef(id *synx.Syntax, ns Namespace) (Expr, error) {
	binding, err := bindstore.Resolve(id)
	if err != nil {
		return nil, err
	}
	switch binding.Kind {
	case synx.LocalBinding:
		return &Ref{Local: true, Sym: binding.Local}, nil
	case synx.TopLevelBinding:
		if !ns.HasTopLevel(binding.TopLevel) {
			return nil, &MissingPrimitiveError{Name: binding.TopLevel, Pos: id.Pos}
		}
		return &Ref{Name: binding.TopLevel}, nil
	default:
		return nil, &BadSyntaxError{Reason: "identifier resolved to an unrecognized binding kind", Pos: id.Pos}
	}
}

func compileLambda(elems []synx.Datum, ns Namespace, pos token.Position) (Expr, error) {
	switch len(elems) {
	case 2:
		body, err := Compile(elems[1], ns)
		if err != nil {
			return nil, err
		}
		return &Lambda{Body: body}, nil
	case 3:
		paramID, ok := asIdentifier(elems[1])
		if !ok {
			return nil, &BadSyntaxError{Reason: "lambda parameter must be an identifier", Pos: pos}
		}
		binding, err := bindstore.Resolve(paramID)
		if err != nil {
			return nil, err
		}
		if binding.Kind != synx.LocalBinding {
			return nil, &BadSyntaxError{Reason: "lambda parameter must be a local binding", Pos: paramID.Pos}
		}
		body, err := Compile(elems[2], ns)
		if err != nil {
			return nil, err
		}
		return &Lambda{Param: binding.Local, HasParam: true, Body: body}, nil
	default:
		return nil, &BadSyntaxError{Reason: "lambda expects (lambda body) or (lambda param body)", Pos: pos}
	}
}

func compileQuote(elems []synx.Datum, pos token.Position) (Expr, error) {
	if len(elems) != 2 {
		return nil, &BadSyntaxError{Reason: "quote expects exactly one operand", Pos: pos}
	}
	return &Quote{Datum: synx.SyntaxToDatum(elems[1])}, nil
}

func compileQuoteSyntax(elems []synx.Datum, pos token.Position) (Expr, error) {
	if len(elems) != 2 {
		return nil, &BadSyntaxError{Reason: "quote-syntax expects exactly one operand", Pos: pos}
	}
	return &Quote{Datum: elems[1]}, nil
}

func compileIf(elems []synx.Datum, ns Namespace, pos token.Position) (Expr, error) {
	if len(elems) != 4 {
		return nil, &BadSyntaxError{Reason: "if expects (if cond then else)", Pos: pos}
	}
	cond, err := Compile(elems[1], ns)
	if err != nil {
		return nil, err
	}
	then, err := Compile(elems[2], ns)
	if err != nil {
		return nil, err
	}
	els, err := Compile(elems[3], ns)
	if err != nil {
		return nil, err
	}
	return &If{Cond: cond, Then: then, Else: els}, nil
}

func compileSet(elems []synx.Datum, ns Namespace, pos token.Position) (Expr, error) {
	if len(elems) != 3 {
		return nil, &BadSyntaxError{Reason: "set! expects (set! id rhs)", Pos: pos}
	}
	id, ok := asIdentifier(elems[1])
	if !ok {
		return nil, &BadSyntaxError{Reason: "set! target must be an identifier", Pos: pos}
	}
	binding, err := bindstore.Resolve(id)
	if err != nil {
		return nil, err
	}
	if binding.Kind != synx.LocalBinding {
		return nil, &BadSyntaxError{Reason: "set! target must be a local binding", Pos: id.Pos}
	}
	rhs, err := Compile(elems[2], ns)
	if err != nil {
		return nil, err
	}
	return &Set{Id: binding.Local, Rhs: rhs}, nil
}

func compileBegin(elems []synx.Datum, ns Namespace, pos token.Position) (Expr, error) {
	if len(elems) < 2 {
		return nil, &BadSyntaxError{Reason: "begin expects at least one sub-form", Pos: pos}
	}
	exprs := make([]Expr, 0, len(elems)-1)
	for _, e := range elems[1:] {
		c, err := Compile(e, ns)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, c)
	}
	return &Begin{Exprs: exprs}, nil
}

func compileApp(elems []synx.Datum, ns Namespace, pos token.Position) (Expr, error) {
	if len(elems) < 2 {
		return nil, &BadSyntaxError{Reason: "%app expects a rator", Pos: pos}
	}
	rator, err := Compile(elems[1], ns)
	if err != nil {
		return nil, err
	}
	rands := make([]Expr, 0, len(elems)-2)
	for _, e := range elems[2:] {
		c, err := Compile(e, ns)
		if err != nil {
			return nil, err
		}
		rands = append(rands, c)
	}
	return &App{Rator: rator, Rands: rands}, nil
}

func compileLet(elems []synx.Datum, ns Namespace, pos token.Position, rec bool) (Expr, error) {
	if len(elems) != 3 {
		return nil, &BadSyntaxError{Reason: "let-values/letrec-values expects (_ (clause …) body)", Pos: pos}
	}
	clauseForms, ok := elemsOf(elems[1])
	if !ok {
		return nil, &BadSyntaxError{Reason: "let-values/letrec-values clause list must be a proper list", Pos: pos}
	}
	clauses := make([]Clause, 0, len(clauseForms))
	for _, cf := range clauseForms {
		celems, ok := elemsOf(cf)
		if !ok || len(celems) != 2 {
			return nil, &BadSyntaxError{Reason: "each clause must be ((id …) rhs)", Pos: pos}
		}
		idForms, ok := elemsOf(celems[0])
		if !ok {
			return nil, &BadSyntaxError{Reason: "clause ids must be a proper list of identifiers", Pos: pos}
		}
		ids := make([]synx.Sym, 0, len(idForms))
		for _, idf := range idForms {
			id, ok := asIdentifier(idf)
			if !ok {
				return nil, &BadSyntaxError{Reason: "clause id must be an identifier", Pos: pos}
			}
			binding, err := bindstore.Resolve(id)
			if err != nil {
				return nil, err
			}
			if binding.Kind != synx.LocalBinding {
				return nil, &BadSyntaxError{Reason: "clause id must be a local binding", Pos: id.Pos}
			}
			ids = append(ids, binding.Local)
		}
		rhs, err := Compile(celems[1], ns)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, Clause{Ids: ids, Rhs: rhs})
	}
	body, err := Compile(elems[2], ns)
	if err != nil {
		return nil, err
	}
	if rec {
		return &LetRecValues{Clauses: clauses, Body: body}, nil
	}
	return &LetValues{Clauses: clauses, Body: body}, nil
}

func compileLink(elems []synx.Datum, pos token.Position) (Expr, error) {
	if len(elems) < 2 {
		return nil, &BadSyntaxError{Reason: "link expects (link dest src …)", Pos: pos}
	}
	dest, ok := asLabel(elems[1])
	if !ok {
		return nil, &BadSyntaxError{Reason: "link operands must be label literals", Pos: pos}
	}
	srcs := make([]synx.Label, 0, len(elems)-2)
	for _, e := range elems[2:] {
		src, ok := asLabel(e)
		if !ok {
			return nil, &BadSyntaxError{Reason: "link operands must be label literals", Pos: pos}
		}
		srcs = append(srcs, src)
	}
	return &Link{Dest: dest, Srcs: srcs}, nil
}

// asIdentifier reports whether d is a syntax object wrapping a symbol.
func asIdentifier(d synx.Datum) (*synx.Syntax, bool) {
	s, ok := d.(*synx.Syntax)
	if !ok || !s.IsIdentifier() {
		return nil, false
	}
	return s, true
}

// asLabel reports whether d is (possibly wrapped in syntax) a label datum.
func asLabel(d synx.Datum) (synx.Label, bool) {
	l, ok := synx.Unwrap(d).(synx.Label)
	return l, ok
}

// elemsOf converts a (possibly syntax-wrapped) proper list to its element
// datums, each still carrying its own syntax wrapper where the reader put
// one, stopping at the first non-pair, non-empty tail.
func elemsOf(d synx.Datum) ([]synx.Datum, bool) {
	var out []synx.Datum
	cur := synx.Unwrap(d)
	for {
		switch v := cur.(type) {
		case synx.Empty:
			return out, true
		case *synx.Pair:
			out = append(out, v.Car)
			cur = synx.Unwrap(v.Cdr)
		default:
			return nil, false
		}
	}
}

// posOf returns the source position recorded on d's syntax wrapper, or the
// zero position if d carries none.
func posOf(d synx.Datum) token.Position {
	if s, ok := d.(*synx.Syntax); ok {
		return s.Pos
	}
	return token.Position{}
}

// datumString renders d for an error message without panicking on nil.
func datumString(d synx.Datum) string {
	if d == nil {
		return "<nil>"
	}
	return fmt.Sprint(d)
}
