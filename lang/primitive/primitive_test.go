package primitive_test

import (
	"go/token"
	"testing"

	"github.com/mna/schemec/lang/evaluator"
	"github.com/mna/schemec/lang/primitive"
	"github.com/mna/schemec/lang/synx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, name string, args ...evaluator.Value) evaluator.Value {
	t.Helper()
	prims := primitive.All()
	p, ok := prims[name]
	require.True(t, ok, "no such primitive %q", name)
	vs, err := p.Fn(args)
	require.NoError(t, err)
	v, err := vs.IntoSingle()
	require.NoError(t, err)
	return v
}

func TestConsCarCdr(t *testing.T) {
	pair := call(t, "cons", synx.Number(1), synx.Number(2))
	assert.Equal(t, synx.Number(1), call(t, "car", pair))
	assert.Equal(t, synx.Number(2), call(t, "cdr", pair))
}

func TestList(t *testing.T) {
	got := call(t, "list", synx.Number(1), synx.Number(2), synx.Number(3))
	elems, ok := synx.ToSlice(got.(synx.Datum))
	require.True(t, ok)
	assert.Equal(t, []synx.Datum{synx.Number(1), synx.Number(2), synx.Number(3)}, elems)
}

func TestCarWrongType(t *testing.T) {
	prims := primitive.All()
	_, err := prims["car"].Fn([]evaluator.Value{synx.Number(1)})
	require.Error(t, err)
	assert.IsType(t, &primitive.WrongTypeError{}, err)
}

func TestSyntaxRoundTrip(t *testing.T) {
	ctx := synx.DatumToSyntax(synx.Sym{Name: "ctx"}, synx.NewScopeSet(synx.NewScope()), token.Position{}, nil)
	wrapped := call(t, "datum->syntax", ctx, synx.Sym{Name: "x"})
	_, ok := wrapped.(*synx.Syntax)
	require.True(t, ok)

	unwrapped := call(t, "syntax-e", wrapped)
	assert.Equal(t, synx.Sym{Name: "x"}, unwrapped)

	stripped := call(t, "syntax->datum", wrapped)
	assert.Equal(t, synx.Sym{Name: "x"}, stripped)
}

func TestMapAppliesClosureToEachElement(t *testing.T) {
	doubler := &evaluator.Primitive{
		Name: "double",
		Fn: func(args []evaluator.Value) (evaluator.Values, error) {
			n := args[0].(synx.Number)
			return evaluator.Single(n * 2), nil
		},
	}
	lst := synx.List(synx.Number(1), synx.Number(2), synx.Number(3))
	got := call(t, "map", doubler, lst)
	elems, ok := synx.ToSlice(got.(synx.Datum))
	require.True(t, ok)
	assert.Equal(t, []synx.Datum{synx.Number(2), synx.Number(4), synx.Number(6)}, elems)
}

func TestArityMismatch(t *testing.T) {
	prims := primitive.All()
	_, err := prims["cons"].Fn([]evaluator.Value{synx.Number(1)})
	require.Error(t, err)
	assert.IsType(t, &evaluator.ArityMismatchError{}, err)
}
