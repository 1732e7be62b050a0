package secd

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadInteger(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("42"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	require.True(t, v.IsInteger())
	assert.Equal(t, int64(42), v.Integer())
}

func TestReadNegativeInteger(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("-7"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	assert.Equal(t, int64(-7), v.Integer())
}

func TestReadSymbol(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("foo-bar"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	require.True(t, v.IsSymbol())
	assert.Equal(t, "foo-bar", v.SymbolName())
}

func TestReadProperList(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("(1 2 3)"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	var got []int64
	cur := v.Copy()
	for !cur.IsNil() {
		car := cur.Car()
		got = append(got, car.Integer())
		car.Close()
		next := cur.Cdr()
		cur.Close()
		cur = next
	}
	cur.Close()
	assert.Equal(t, []int64{1, 2, 3}, got)
}

func TestReadDottedPair(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("(1 . 2)"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	require.True(t, v.IsCons())
	car := v.Car()
	cdr := v.Cdr()
	defer car.Close()
	defer cdr.Close()
	assert.Equal(t, int64(1), car.Integer())
	assert.Equal(t, int64(2), cdr.Integer())
}

func TestReadQuoteShorthand(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("'x"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	require.True(t, v.IsCons(), "expected (quote x)")
	head := v.Car()
	defer head.Close()
	require.True(t, head.IsSymbol())
	assert.Equal(t, "quote", head.SymbolName())
}

func TestReadSkipsCommentsAndWhitespace(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("  ; a comment\n  99 ; trailing\n"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	assert.Equal(t, int64(99), v.Integer())
}

func TestReadMultipleFormsInSequence(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("1 2 3"))
	for _, want := range []int64{1, 2, 3} {
		v, err := rt.Read(rd)
		require.NoError(t, err)
		assert.Equal(t, want, v.Integer())
		v.Close()
	}
	_, err := rt.Read(rd)
	assert.Equal(t, io.EOF, err, "expected io.EOF at end of source")
}

func TestReadAcrossMultipleSources(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("1"))
	rd.AddSource(strings.NewReader("2"))

	a, err := rt.Read(rd)
	require.NoError(t, err, "reading first source")
	defer a.Close()
	b, err := rt.Read(rd)
	require.NoError(t, err, "reading second source")
	defer b.Close()
	assert.Equal(t, int64(1), a.Integer())
	assert.Equal(t, int64(2), b.Integer())
}

func TestReadUnexpectedCloseParen(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader(")"))
	_, err := rt.Read(rd)
	assert.Equal(t, errUnexpectedCloseParen, err)
}
