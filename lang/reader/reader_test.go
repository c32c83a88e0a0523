package reader_test

import (
	"testing"

	"github.com/mna/schemec/lang/reader"
	"github.com/mna/schemec/lang/synx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAtoms(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want synx.Datum
	}{
		{"integer", "42", synx.Number(42)},
		{"negative integer", "-7", synx.Number(-7)},
		{"float", "3.14", synx.Number(3.14)},
		{"leading-dot float", ".5", synx.Number(0.5)},
		{"symbol", "foo-bar!", synx.Sym{Name: "foo-bar!"}},
		{"digit-led symbol falls back", "1+", synx.Sym{Name: "1+"}},
		{"operator symbol", "+", synx.Sym{Name: "+"}},
		{"true", "#t", synx.BooleanTrue},
		{"false", "#f", synx.BooleanFalse},
		{"label", "@entry", synx.Label("entry")},
		{"string", `"hi\nthere"`, synx.String("hi\nthere")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reader.Read("test", []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadListsAndQuote(t *testing.T) {
	got, err := reader.Read("test", []byte("(1 2 3)"))
	require.NoError(t, err)
	want := synx.List(synx.Number(1), synx.Number(2), synx.Number(3))
	assert.Equal(t, want, got)

	got, err = reader.Read("test", []byte("[a b]"))
	require.NoError(t, err)
	want = synx.List(synx.Sym{Name: "a"}, synx.Sym{Name: "b"})
	assert.Equal(t, want, got)

	got, err = reader.Read("test", []byte("'x"))
	require.NoError(t, err)
	want = synx.List(synx.Sym{Name: "quote"}, synx.Sym{Name: "x"})
	assert.Equal(t, want, got)

	got, err = reader.Read("test", []byte("(a . b)"))
	require.NoError(t, err)
	want = synx.NewPair(synx.Sym{Name: "a"}, synx.Sym{Name: "b"})
	assert.Equal(t, want, got)

	got, err = reader.Read("test", []byte("(a b . c)"))
	require.NoError(t, err)
	want = synx.NewPair(synx.Sym{Name: "a"}, synx.NewPair(synx.Sym{Name: "b"}, synx.Sym{Name: "c"}))
	assert.Equal(t, want, got)
}

func TestReadSkipsCommentsAndWhitespace(t *testing.T) {
	got, err := reader.Read("test", []byte("  ; a comment\n  42 ; trailing\n"))
	require.NoError(t, err)
	assert.Equal(t, synx.Number(42), got)
}

func TestReadEmptyInput(t *testing.T) {
	_, err := reader.Read("test", []byte("   ; just a comment"))
	require.Error(t, err)
}

func TestReadUnterminatedForm(t *testing.T) {
	_, err := reader.Read("test", []byte("(1 2"))
	require.Error(t, err)
}

func TestReadBracketMismatch(t *testing.T) {
	_, err := reader.Read("test", []byte("(1 2]"))
	require.Error(t, err)
}

func TestReadUnexpectedClose(t *testing.T) {
	_, err := reader.Read("test", []byte(")"))
	require.Error(t, err)
}

func TestReadDanglingDot(t *testing.T) {
	_, err := reader.Read("test", []byte("(. a)"))
	require.Error(t, err)

	_, err = reader.Read("test", []byte("(a . b c)"))
	require.Error(t, err)
}

func TestReadWithContinuationRefills(t *testing.T) {
	chunks := [][]byte{[]byte(" 2 3)")}
	refill := func() ([]byte, bool) {
		if len(chunks) == 0 {
			return nil, false
		}
		next := chunks[0]
		chunks = chunks[1:]
		return next, true
	}
	got, err := reader.ReadWithContinuation("test", []byte("(1"), refill)
	require.NoError(t, err)
	want := synx.List(synx.Number(1), synx.Number(2), synx.Number(3))
	assert.Equal(t, want, got)
}

func TestReadWithContinuationFailsWhenRefillExhausted(t *testing.T) {
	refill := func() ([]byte, bool) { return nil, false }
	_, err := reader.ReadWithContinuation("test", []byte("(1 2"), refill)
	require.Error(t, err)
}

func TestReadAll(t *testing.T) {
	got, err := reader.ReadAll("test", []byte("1 2 (3 4) ; trailing comment\n"))
	require.NoError(t, err)
	want := []synx.Datum{
		synx.Number(1),
		synx.Number(2),
		synx.List(synx.Number(3), synx.Number(4)),
	}
	assert.Equal(t, want, got)
}

func TestReadAllEmptyIsNotAnError(t *testing.T) {
	got, err := reader.ReadAll("test", []byte("  ; only a comment\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}
