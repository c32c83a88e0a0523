package synx

import (
	"sync/atomic"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"
)

// idCounter mints the process-wide monotonic integers backing both fresh
// scopes and fresh symbol identities. A single counter is shared by both so
// that a Scope and a Sym can never collide if compared carelessly, matching
// the spec's "a process-wide monotonic counter mints fresh scopes and fresh
// symbol identities".
var idCounter uint64

func nextID() uint64 { return atomic.AddUint64(&idCounter, 1) }

// Scope is an opaque identity minted during expansion, associated with a
// specific lexical region: a lambda body, a let-syntax body, a macro
// use-site, or a macro's introduction site. Scopes are totally ordered by
// their id, which is what makes "pick the maximal scope in the set"
// deterministic.
type Scope struct {
	id    uint64
	table *swiss.Map[Sym, []BindingEntry]
}

// NewScope mints a fresh scope with a fresh, empty binding table.
func NewScope() Scope {
	return Scope{id: nextID(), table: swiss.NewMap[Sym, []BindingEntry](0)}
}

// Less reports whether s sorts before o in the scope total order.
func (s Scope) Less(o Scope) bool { return s.id < o.id }

// AddEntry records a binding entry in the scope's own table, keyed by sym.
// Multiple entries may accumulate under the same symbol, one per distinct
// scope set the symbol was ever bound under with this scope as the maximal
// member; resolution against a query scope set picks among them.
func (s Scope) AddEntry(sym Sym, entry BindingEntry) {
	existing, _ := s.table.Get(sym)
	s.table.Put(sym, append(existing, entry))
}

// Entries returns the binding entries recorded under sym in this scope's
// table, or nil if none.
func (s Scope) Entries(sym Sym) []BindingEntry {
	entries, _ := s.table.Get(sym)
	return entries
}

// GenSym mints a symbol with the given surface name and a fresh identity,
// distinct from every other symbol with the same name (including the one
// the reader might have produced for a literal occurrence of that name in
// the source).
func GenSym(name string) Sym {
	return Sym{Name: name, Identity: nextID()}
}

// ScopeSet is an ordered, deduplicated set of scopes. The order is the total
// order over Scope (by id), which is required for resolution to be
// deterministic: the binding store always picks the "largest" candidate by
// cardinality, and reports a tie between two different sets as ambiguous.
type ScopeSet []Scope

// Add returns a new scope set with s inserted (a no-op if already present).
func (ss ScopeSet) Add(s Scope) ScopeSet {
	i, found := ss.search(s)
	if found {
		return ss
	}
	out := make(ScopeSet, 0, len(ss)+1)
	out = append(out, ss[:i]...)
	out = append(out, s)
	out = append(out, ss[i:]...)
	return out
}

// Remove returns a new scope set with s erased (a no-op if absent).
func (ss ScopeSet) Remove(s Scope) ScopeSet {
	i, found := ss.search(s)
	if !found {
		return ss
	}
	out := make(ScopeSet, 0, len(ss)-1)
	out = append(out, ss[:i]...)
	out = append(out, ss[i+1:]...)
	return out
}

// Flip returns a new scope set with s toggled: removed if present, added if
// absent. Flip(Flip(ss, s), s) == ss, the hygiene involution required by
// the spec.
func (ss ScopeSet) Flip(s Scope) ScopeSet {
	if _, found := ss.search(s); found {
		return ss.Remove(s)
	}
	return ss.Add(s)
}

// Contains reports whether s is a member.
func (ss ScopeSet) Contains(s Scope) bool {
	_, found := ss.search(s)
	return found
}

// Subset reports whether every scope in ss is also in other.
func (ss ScopeSet) Subset(other ScopeSet) bool {
	for _, s := range ss {
		if !other.Contains(s) {
			return false
		}
	}
	return true
}

// Max returns the greatest scope in ss by the total order, and true, or the
// zero Scope and false if ss is empty. This is the scope a binding is
// recorded under: the spec records every binding in the single scope that
// sorts greatest in the identifier's scope set.
func (ss ScopeSet) Max() (Scope, bool) {
	if len(ss) == 0 {
		return Scope{}, false
	}
	return ss[len(ss)-1], true
}

// Equal reports whether ss and other contain exactly the same scopes.
func (ss ScopeSet) Equal(other ScopeSet) bool {
	return slices.Equal(ss, other)
}

func (ss ScopeSet) search(s Scope) (int, bool) {
	return slices.BinarySearchFunc(ss, s, func(a, b Scope) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		default:
			return 0
		}
	})
}

// AdjustOp names the three scope operations a syntax object adjustment can
// apply, per the spec's adjust-scope.
type AdjustOp int

const (
	// OpAdd inserts the scope.
	OpAdd AdjustOp = iota
	// OpRemove erases the scope.
	OpRemove
	// OpFlip toggles the scope; it is the hygiene primitive used when a
	// transformer's output is reintegrated into the surrounding expansion.
	OpFlip
)

func (op AdjustOp) apply(ss ScopeSet, s Scope) ScopeSet {
	switch op {
	case OpAdd:
		return ss.Add(s)
	case OpRemove:
		return ss.Remove(s)
	case OpFlip:
		return ss.Flip(s)
	default:
		panic("synx: unknown AdjustOp")
	}
}
