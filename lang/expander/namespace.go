// Package expander implements the hygienic macro expander: dispatch from a
// syntax object to a core-form handler or a user transformer, the
// introduction/use-site scope dance that makes macro expansion hygienic, and
// the internal-definition-body walk that turns a sequence of definitions and
// expressions into a single letrec-values.
package expander

import (
	"go/token"

	"github.com/mna/schemec/lang/bindstore"
	"github.com/mna/schemec/lang/evaluator"
	"github.com/mna/schemec/lang/primitive"
	"github.com/mna/schemec/lang/synx"
	"golang.org/x/exp/maps"
)

// bindingKind distinguishes the three things a compile-time binding can
// denote, per §4.5: an ordinary variable, a core form, or a transformer
// procedure.
type bindingKind int

const (
	variableKind bindingKind = iota
	coreFormKind
	transformerKind
)

// CoreFormHandler implements one core form's expansion rule. It receives
// the full, still-unexpanded form and returns its fully-expanded
// replacement. A core-form keyword used as a bare identifier is dispatched
// here too, with the identifier itself as stx.
type CoreFormHandler func(stx synx.Datum, ctx *Context) (synx.Datum, error)

// CompileTimeBinding is the value an Env/Namespace lookup produces: the
// variable marker, a core form, or a transformer procedure.
type CompileTimeBinding struct {
	kind        bindingKind
	form        CoreFormHandler
	transformer evaluator.Function
}

// variableBinding is the marker meaning "this identifier names an ordinary
// run-time variable, not syntax".
func variableBinding() CompileTimeBinding { return CompileTimeBinding{kind: variableKind} }

func coreFormBinding(h CoreFormHandler) CompileTimeBinding {
	return CompileTimeBinding{kind: coreFormKind, form: h}
}

// TransformerBinding wraps a transformer procedure (a Function value
// produced by evaluating a define-syntaxes/let-syntax rhs) as a compile-time
// binding, for install into an Env or a Namespace's transformer table.
func TransformerBinding(f evaluator.Function) CompileTimeBinding {
	return CompileTimeBinding{kind: transformerKind, transformer: f}
}

// IsVariable reports whether b is the variable marker.
func (b CompileTimeBinding) IsVariable() bool { return b.kind == variableKind }

// IsCoreForm reports whether b names a core form.
func (b CompileTimeBinding) IsCoreForm() bool { return b.kind == coreFormKind }

// IsTransformer reports whether b names a transformer procedure.
func (b CompileTimeBinding) IsTransformer() bool { return b.kind == transformerKind }

// Namespace is the top-level scope every expansion runs against: the core
// scope every top-level form is introduced with, the core-form/transformer
// table resolving top-level names, and the two run-time environments
// (expand-time, for compile-time evaluation, and run-time, for the final
// program) that back every primitive and every top-level define.
type Namespace struct {
	// CoreScope is added to every top-level form before it is expanded, so
	// that "lambda", "if", "cons" and so on resolve to this namespace's
	// bindings rather than being free variables.
	CoreScope synx.Scope

	// Transformers maps a top-level name to its compile-time binding: a core
	// form or a user-installed macro. A name present in RunTimeEnv but absent
	// here is an ordinary variable (the default the spec calls "variable").
	Transformers map[string]CompileTimeBinding

	// ExpandTimeEnv is the run-time environment eval-for-syntaxes evaluates
	// compile-time right-hand sides against.
	ExpandTimeEnv *evaluator.Env

	// RunTimeEnv is the run-time environment the final, fully-compiled
	// program evaluates against.
	RunTimeEnv *evaluator.Env
}

// NewNamespace builds a namespace with every core form installed and every
// host primitive (§4.8) bound as a top-level variable in both run-time
// environments.
func NewNamespace() *Namespace {
	ns := &Namespace{
		CoreScope:     synx.NewScope(),
		Transformers:  make(map[string]CompileTimeBinding),
		ExpandTimeEnv: evaluator.NewEnv(nil),
		RunTimeEnv:    evaluator.NewEnv(nil),
	}
	for name, handler := range coreFormTable() {
		ns.declareTransformer(name, coreFormBinding(handler))
	}
	for name, prim := range primitive.All() {
		ns.declareVariable(name, prim)
	}
	return ns
}

// declareTransformer installs a core-form or macro binding under name: a
// TopLevelBinding for the name in the core scope's table, plus the
// compile-time binding in Transformers.
func (ns *Namespace) declareTransformer(name string, binding CompileTimeBinding) {
	ns.bind(name)
	ns.Transformers[name] = binding
}

// declareVariable installs an ordinary top-level variable: a TopLevelBinding
// for the name, and its run-time value in both environments. It is not
// added to Transformers, so lookupTopLevel falls through to the variable marker.
func (ns *Namespace) declareVariable(name string, value evaluator.Value) {
	ns.bind(name)
	ns.ExpandTimeEnv.DefineTopLevel(name, value)
	ns.RunTimeEnv.DefineTopLevel(name, value)
}

// bind records name as a TopLevelBinding under the namespace's core scope,
// so that an occurrence of the bare symbol carrying (at least) that scope
// resolves to it.
func (ns *Namespace) bind(name string) {
	id := synx.DatumToSyntax(synx.Sym{Name: name}, synx.NewScopeSet(ns.CoreScope), token.Position{}, nil)
	if err := bindstore.AddBinding(id.(*synx.Syntax), synx.NewTopLevelBinding(name)); err != nil {
		// ns.CoreScope is always present, so the scope set is never empty.
		panic(err)
	}
}

// syntheticCoreIdentifier mints a fresh occurrence of name carrying only the
// core scope, used when a handler rebuilds a form with a keyword the source
// didn't literally write (inserting an explicit %app, quote or letrec-values
// head), so that the result resolves to this namespace's binding regardless
// of what the surrounding user scopes happen to shadow.
func (ns *Namespace) syntheticCoreIdentifier(name string, pos token.Position) synx.Datum {
	return synx.DatumToSyntax(synx.Sym{Name: name}, synx.NewScopeSet(ns.CoreScope), pos, nil)
}

// Introduce adds the namespace's core scope to d, the step a top-level
// reader/driver performs on every form before calling Expand so that core
// forms and primitives are visible to it.
func (ns *Namespace) Introduce(d synx.Datum) synx.Datum {
	return synx.AddScope(d, ns.CoreScope)
}

// HasTopLevel reports whether name is bound in the run-time environment,
// satisfying lang/coreir's Namespace interface.
func (ns *Namespace) HasTopLevel(name string) bool {
	_, ok := ns.RunTimeEnv.GetTopLevel(name)
	return ok
}

// lookupTopLevel resolves a TopLevel binding to its compile-time meaning:
// the registered transformer/core-form if any, else the variable marker.
func (ns *Namespace) lookupTopLevel(name string) CompileTimeBinding {
	if b, ok := ns.Transformers[name]; ok {
		return b
	}
	return variableBinding()
}

// TransformerNames returns every top-level name bound to a core form or a
// macro, for collaborators that need to report or enumerate them (e.g. a
// REPL's completion list).
func (ns *Namespace) TransformerNames() []string {
	return maps.Keys(ns.Transformers)
}
