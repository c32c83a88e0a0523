package maincmd

import (
	"go/token"

	"github.com/mna/schemec/lang/synx"
)

// introduceAll wraps each raw datum read from file in a fresh syntax object
// (no scopes of its own yet) and introduces it into ns, the same two-step
// (DatumToSyntax then Introduce) a REPL or loader performs before expanding.
func introduceAll(ns introducer, file string, data []synx.Datum) []synx.Datum {
	out := make([]synx.Datum, len(data))
	for i, d := range data {
		stx := synx.DatumToSyntax(d, synx.NewScopeSet(), token.Position{Filename: file}, nil)
		out[i] = ns.Introduce(stx)
	}
	return out
}

type introducer interface {
	Introduce(synx.Datum) synx.Datum
}
