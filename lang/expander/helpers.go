package expander

import (
	"go/token"

	"github.com/mna/schemec/lang/synx"
)

// formElems converts a (possibly syntax-wrapped) proper list to its element
// datums, each still carrying whatever syntax wrapper the reader or an
// earlier expansion step gave it. It reports false for anything that is not
// a proper list (an atom, or an improper tail).
func formElems(d synx.Datum) ([]synx.Datum, bool) {
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

// asIdentifier reports whether d is a syntax object wrapping a symbol.
func asIdentifier(d synx.Datum) (*synx.Syntax, bool) {
	s, ok := d.(*synx.Syntax)
	if !ok || !s.IsIdentifier() {
		return nil, false
	}
	return s, true
}

// posOf returns the source position recorded on d's syntax wrapper, or the
// zero position if d carries none.
func posOf(d synx.Datum) token.Position {
	if s, ok := d.(*synx.Syntax); ok {
		return s.Pos
	}
	return token.Position{}
}

// rebuild wraps datum in template's own Syntax envelope (its scopes,
// position and properties), the operation every core-form handler uses to
// turn its expanded sub-parts back into a single result that still carries
// the original form's identity. If template carries no Syntax envelope,
// datum is returned unchanged.
func rebuild(template synx.Datum, datum synx.Datum) synx.Datum {
	if s, ok := template.(*synx.Syntax); ok {
		return &synx.Syntax{Datum: datum, Scopes: s.Scopes, Pos: s.Pos, Properties: s.Properties}
	}
	return datum
}
