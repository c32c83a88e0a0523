package synx

import "go/token"

// NewScopeSet builds a scope set from the given scopes, in no particular
// input order (the result is normalized to the total order).
func NewScopeSet(scopes ...Scope) ScopeSet {
	var ss ScopeSet
	for _, s := range scopes {
		ss = ss.Add(s)
	}
	return ss
}

// DatumToSyntax wraps datum with scopes, pos and props. If datum is already
// a *Syntax it is returned unchanged — the spec's "if the datum is already a
// syntax object return it unchanged". For a Pair, the pair is wrapped and
// its Car/Cdr are themselves recursively converted (so that every identifier
// reachable by walking Pairs ends up wrapped in Syntax carrying the same
// scope set); for any other atom, the atom is simply wrapped.
func DatumToSyntax(d Datum, scopes ScopeSet, pos token.Position, props Properties) Datum {
	if _, ok := d.(*Syntax); ok {
		return d
	}
	if p, ok := d.(*Pair); ok {
		return &Syntax{
			Datum: &Pair{
				Car: DatumToSyntax(p.Car, scopes, pos, props),
				Cdr: DatumToSyntax(p.Cdr, scopes, pos, props),
			},
			Scopes:     scopes,
			Pos:        pos,
			Properties: props,
		}
	}
	return &Syntax{Datum: d, Scopes: scopes, Pos: pos, Properties: props}
}

// SyntaxToDatum strips every Syntax wrapper recursively, returning the plain
// datum tree underneath.
func SyntaxToDatum(d Datum) Datum {
	switch v := d.(type) {
	case *Syntax:
		return SyntaxToDatum(v.Datum)
	case *Pair:
		return &Pair{Car: SyntaxToDatum(v.Car), Cdr: SyntaxToDatum(v.Cdr)}
	default:
		return d
	}
}

// AdjustScope applies op(scopeSet, scope) at the outermost Syntax wrapper of
// d and, for pairs, recursively to both components. A plain (unwrapped) Pair
// or atom is returned unchanged — only Syntax wrappers carry scope sets.
//
// OpFlip is the one operation that continues into a nested Syntax wrapper
// rather than stopping at it: this is what lets a macro's output, which may
// itself contain Syntax objects introduced at a different point in the
// expansion, have the introduction scope flipped uniformly across all of it,
// per the spec's hygiene primitive.
func AdjustScope(d Datum, scope Scope, op AdjustOp) Datum {
	switch v := d.(type) {
	case *Syntax:
		adjusted := &Syntax{
			Datum:      AdjustScopeInner(v.Datum, scope, op),
			Scopes:     op.apply(v.Scopes, scope),
			Pos:        v.Pos,
			Properties: v.Properties,
		}
		return adjusted
	case *Pair:
		return &Pair{
			Car: AdjustScope(v.Car, scope, op),
			Cdr: AdjustScope(v.Cdr, scope, op),
		}
	default:
		return d
	}
}

// AdjustScopeInner recurses into the datum a Syntax wraps. For OpFlip it
// continues adjusting nested Syntax wrappers (so inner identifiers the
// transformer produced, and inner identifiers from the original input, are
// both adjusted uniformly); for OpAdd/OpRemove it stops at the first nested
// Pair/atom boundary and leaves nested Syntax wrappers alone, matching the
// spec's "stop at inner syntax boundaries unless a flip is requested".
func AdjustScopeInner(d Datum, scope Scope, op AdjustOp) Datum {
	if op == OpFlip {
		return AdjustScope(d, scope, op)
	}
	if p, ok := d.(*Pair); ok {
		return &Pair{
			Car: AdjustScope(p.Car, scope, op),
			Cdr: AdjustScope(p.Cdr, scope, op),
		}
	}
	return d
}

// AddScope is a convenience wrapper for AdjustScope(d, scope, OpAdd).
func AddScope(d Datum, scope Scope) Datum { return AdjustScope(d, scope, OpAdd) }

// RemoveScope is a convenience wrapper for AdjustScope(d, scope, OpRemove).
func RemoveScope(d Datum, scope Scope) Datum { return AdjustScope(d, scope, OpRemove) }

// FlipScope is a convenience wrapper for AdjustScope(d, scope, OpFlip).
func FlipScope(d Datum, scope Scope) Datum { return AdjustScope(d, scope, OpFlip) }

// RemoveScopes removes every scope in scopes from d, in order.
func RemoveScopes(d Datum, scopes ScopeSet) Datum {
	for _, s := range scopes {
		d = RemoveScope(d, s)
	}
	return d
}

// ScopeSetOf returns the scope set of d: the outermost Syntax wrapper's
// scopes, or the empty set if d is not a Syntax.
func ScopeSetOf(d Datum) ScopeSet {
	if s, ok := d.(*Syntax); ok {
		return s.Scopes
	}
	return nil
}

// BoundIdentifier reports whether a and b are the same identifier: equal
// wrapped symbol name+identity and equal scope sets. This is distinct from
// free-identifier equality (same binding), which requires resolution and
// lives in lang/bindstore.
func BoundIdentifier(a, b Datum) bool {
	as, aok := a.(*Syntax)
	bs, bok := b.(*Syntax)
	if !aok || !bok {
		return false
	}
	asym, aok := as.Datum.(Sym)
	bsym, bok := bs.Datum.(Sym)
	if !aok || !bok {
		return false
	}
	return asym == bsym && as.Scopes.Equal(bs.Scopes)
}

// Unwrap peels a single Syntax wrapper off d, returning the wrapped datum
// unchanged if d is not a Syntax.
func Unwrap(d Datum) Datum {
	if s, ok := d.(*Syntax); ok {
		return s.Datum
	}
	return d
}
