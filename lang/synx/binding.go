package synx

// BindingKind distinguishes the two kinds of Binding the spec defines.
type BindingKind int

const (
	// LocalBinding names a symbol local to the current expansion (a lambda
	// parameter, a let-syntax transformer, a letrec-values identifier).
	LocalBinding BindingKind = iota
	// TopLevelBinding names a top-level variable or transformer by its
	// textual name, for lookup in a Namespace.
	TopLevelBinding
)

// Binding is what a (symbol, scope-set) pair resolves to.
type Binding struct {
	Kind     BindingKind
	Local    Sym
	TopLevel string
}

// NewLocalBinding builds a Binding naming a local symbol.
func NewLocalBinding(sym Sym) Binding { return Binding{Kind: LocalBinding, Local: sym} }

// NewTopLevelBinding builds a Binding naming a top-level identifier.
func NewTopLevelBinding(name string) Binding { return Binding{Kind: TopLevelBinding, TopLevel: name} }

// BindingEntry is one row of a scope's binding table: the scope set the
// binding was recorded under, and the binding itself.
type BindingEntry struct {
	Scopes  ScopeSet
	Binding Binding
}
