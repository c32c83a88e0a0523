package synx_test

import (
	"go/token"
	"testing"

	"github.com/mna/schemec/lang/synx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string, scopes ...synx.Scope) *synx.Syntax {
	d := synx.DatumToSyntax(synx.Sym{Name: name}, synx.NewScopeSet(scopes...), token.Position{}, nil)
	return d.(*synx.Syntax)
}

func TestDatumToSyntaxRoundTrip(t *testing.T) {
	lst := synx.List(synx.Number(1), synx.Sym{Name: "x"}, synx.String("s"))
	wrapped := synx.DatumToSyntax(lst, nil, token.Position{}, nil)
	got := synx.SyntaxToDatum(wrapped)

	items, ok := synx.ToSlice(got)
	require.True(t, ok)
	require.Len(t, items, 3)
	assert.Equal(t, synx.Number(1), items[0])
	assert.Equal(t, synx.Sym{Name: "x"}, items[1])
	assert.Equal(t, synx.String("s"), items[2])
}

func TestDatumToSyntaxIsIdentityOnSyntax(t *testing.T) {
	wrapped := synx.DatumToSyntax(synx.Sym{Name: "x"}, nil, token.Position{}, nil)
	again := synx.DatumToSyntax(wrapped, synx.NewScopeSet(synx.NewScope()), token.Position{}, nil)
	assert.Same(t, wrapped, again)
}

func TestScopeInvolution(t *testing.T) {
	s := synx.NewScope()
	id := ident("x")
	flipped := synx.FlipScope(id, s)
	back := synx.FlipScope(flipped, s)
	assert.True(t, synx.BoundIdentifier(id, back))
}

func TestScopeIdempotence(t *testing.T) {
	s := synx.NewScope()
	id := ident("x")
	once := synx.AddScope(id, s)
	twice := synx.AddScope(once, s)
	assert.True(t, synx.BoundIdentifier(once.(*synx.Syntax), twice.(*synx.Syntax)))
}

func TestBoundIdentifierDistinguishesScopeSets(t *testing.T) {
	s1, s2 := synx.NewScope(), synx.NewScope()
	a := ident("x", s1)
	b := ident("x", s1, s2)
	assert.False(t, synx.BoundIdentifier(a, b))
}

func TestAdjustScopeRecursesThroughPairsNotNestedSyntax(t *testing.T) {
	s := synx.NewScope()
	inner := ident("inner")
	lst := synx.DatumToSyntax(synx.List(synx.Sym{Name: "outer"}), nil, token.Position{}, nil).(*synx.Syntax)
	// splice the pre-wrapped inner identifier into the list's tail so it is a
	// nested Syntax boundary.
	pair := lst.Datum.(*synx.Pair)
	pair.Cdr = synx.NewPair(inner, synx.TheEmptyList)

	added := synx.AddScope(lst, s).(*synx.Syntax)
	addedPair := added.Datum.(*synx.Pair)
	innerAfterAdd := addedPair.Cdr.(*synx.Pair).Car.(*synx.Syntax)
	assert.False(t, innerAfterAdd.Scopes.Contains(s), "Add must not cross into a nested Syntax wrapper")

	flipped := synx.FlipScope(lst, s).(*synx.Syntax)
	flippedPair := flipped.Datum.(*synx.Pair)
	innerAfterFlip := flippedPair.Cdr.(*synx.Pair).Car.(*synx.Syntax)
	assert.True(t, innerAfterFlip.Scopes.Contains(s), "Flip must cross into a nested Syntax wrapper")
}

func TestScopeSetOrderingTotalOrder(t *testing.T) {
	a, b := synx.NewScope(), synx.NewScope()
	ss := synx.NewScopeSet(b, a, a, b)
	assert.Len(t, ss, 2)
	assert.True(t, ss.Contains(a))
	assert.True(t, ss.Contains(b))
}
