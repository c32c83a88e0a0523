package bindstore_test

import (
	"go/token"
	"testing"

	"github.com/mna/schemec/lang/bindstore"
	"github.com/mna/schemec/lang/synx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(name string, scopes ...synx.Scope) *synx.Syntax {
	d := synx.DatumToSyntax(synx.Sym{Name: name}, synx.NewScopeSet(scopes...), token.Position{}, nil)
	return d.(*synx.Syntax)
}

func TestResolveFreeVariable(t *testing.T) {
	id := ident("x", synx.NewScope())
	_, err := bindstore.Resolve(id)
	require.Error(t, err)
	assert.IsType(t, &bindstore.FreeVariableError{}, err)
}

func TestAddBindingEmptyScopeSet(t *testing.T) {
	id := ident("x")
	err := bindstore.AddBinding(id, synx.NewLocalBinding(id.Datum.(synx.Sym)))
	require.Error(t, err)
	assert.IsType(t, &bindstore.EmptyScopeSetError{}, err)
}

func TestResolveFindsBindingThroughSupersetScopeSet(t *testing.T) {
	s1 := synx.NewScope()
	def := ident("x", s1)
	require.NoError(t, bindstore.AddBinding(def, synx.NewLocalBinding(def.Datum.(synx.Sym))))

	s2 := synx.NewScope()
	use := ident("x", s1, s2)
	got, err := bindstore.Resolve(use)
	require.NoError(t, err)
	assert.Equal(t, synx.LocalBinding, got.Kind)
	assert.Equal(t, def.Datum.(synx.Sym), got.Local)
}

func TestResolvePicksMostSpecificShadowingBinding(t *testing.T) {
	s1 := synx.NewScope()
	outer := ident("x", s1)
	require.NoError(t, bindstore.AddBinding(outer, synx.NewTopLevelBinding("outer")))

	s2 := synx.NewScope()
	inner := ident("x", s1, s2)
	require.NoError(t, bindstore.AddBinding(inner, synx.NewTopLevelBinding("inner")))

	use := ident("x", s1, s2)
	got, err := bindstore.Resolve(use)
	require.NoError(t, err)
	assert.Equal(t, "inner", got.TopLevel)
}

func TestResolveAmbiguousBinding(t *testing.T) {
	s1, s2 := synx.NewScope(), synx.NewScope()
	a := ident("x", s1)
	require.NoError(t, bindstore.AddBinding(a, synx.NewTopLevelBinding("a")))
	b := ident("x", s2)
	require.NoError(t, bindstore.AddBinding(b, synx.NewTopLevelBinding("b")))

	use := ident("x", s1, s2)
	_, err := bindstore.Resolve(use)
	require.Error(t, err)
	assert.IsType(t, &bindstore.AmbiguousBindingError{}, err)
}

func TestCoreFormNameRecognizesTopLevelBindingOnly(t *testing.T) {
	s := synx.NewScope()
	kw := ident("if", s)
	require.NoError(t, bindstore.AddBinding(kw, synx.NewTopLevelBinding("if")))

	name, ok := bindstore.CoreFormName(ident("if", s))
	require.True(t, ok)
	assert.Equal(t, "if", name)

	local := ident("y", s)
	require.NoError(t, bindstore.AddBinding(local, synx.NewLocalBinding(local.Datum.(synx.Sym))))
	_, ok = bindstore.CoreFormName(ident("y", s))
	assert.False(t, ok)

	_, ok = bindstore.CoreFormName(ident("unbound", s))
	assert.False(t, ok)
}
