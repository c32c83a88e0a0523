// Package bindstore implements the binding store: the algorithm that
// records which identifier a binding form introduces, and resolves any
// identifier occurrence back to the binding it refers to.
//
// The table itself lives on synx.Scope (each scope owns a table mapping
// symbol to the binding entries recorded under it); this package supplies
// the two operations spec'd over that table, AddBindingInScope and
// Resolve, plus the maximal-subset-wins algorithm that makes resolution
// deterministic.
package bindstore

import "github.com/mna/schemec/lang/synx"

// AddBindingInScope records binding for sym under scopes, choosing the
// scope with the greatest id in scopes as the one whose table holds the
// entry. It fails with EmptyScopeSetError if scopes is empty: there would
// be no scope left to record the binding in, and an identifier introduced
// with an empty scope set can never be this binding's target anyway.
func AddBindingInScope(id *synx.Syntax, scopes synx.ScopeSet, binding synx.Binding) error {
	max, ok := scopes.Max()
	if !ok {
		return &EmptyScopeSetError{Id: id}
	}
	sym, _ := id.Symbol()
	max.AddEntry(sym, synx.BindingEntry{Scopes: scopes, Binding: binding})
	return nil
}

// AddBinding records binding for id under id's own scope set, the common
// case: a binding form records the identifier it introduces exactly as
// that identifier currently reads.
func AddBinding(id *synx.Syntax, binding synx.Binding) error {
	return AddBindingInScope(id, id.Scopes, binding)
}

// Resolve finds the binding id refers to: among every entry recorded for
// id's symbol whose scope set is a subset of id's scope set, the one with
// the largest scope set wins. Resolution fails with FreeVariableError if no
// entry qualifies, or AmbiguousBindingError if two or more maximal entries
// disagree (neither's scope set is a subset of the other's).
func Resolve(id *synx.Syntax) (synx.Binding, error) {
	sym, ok := id.Symbol()
	if !ok {
		return synx.Binding{}, &FreeVariableError{Id: id}
	}

	var candidates []synx.BindingEntry
	for _, scope := range id.Scopes {
		for _, entry := range scope.Entries(sym) {
			if entry.Scopes.Subset(id.Scopes) {
				candidates = append(candidates, entry)
			}
		}
	}
	if len(candidates) == 0 {
		return synx.Binding{}, &FreeVariableError{Id: id}
	}

	chosen := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.Scopes) > len(chosen.Scopes) {
			chosen = c
		}
	}
	for _, c := range candidates {
		if !c.Scopes.Subset(chosen.Scopes) {
			return synx.Binding{}, &AmbiguousBindingError{Id: id}
		}
	}
	return chosen.Binding, nil
}

// CoreFormName reports the top-level name d resolves to, if d is an
// identifier that resolves unambiguously to a TopLevelBinding. It is the
// guard the expander and the compiler share to recognize a core form (or
// any other top-level keyword) at the head of a form without triggering a
// FreeVariableError for ordinary free identifiers that are not in head
// position.
func CoreFormName(d synx.Datum) (string, bool) {
	id, ok := d.(*synx.Syntax)
	if !ok || !id.IsIdentifier() {
		return "", false
	}
	binding, err := Resolve(id)
	if err != nil || binding.Kind != synx.TopLevelBinding {
		return "", false
	}
	return binding.TopLevel, true
}
