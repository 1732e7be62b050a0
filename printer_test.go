package secd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueStringInteger(t *testing.T) {
	rt := NewRuntime()
	v := rt.Integer(7)
	defer v.Close()
	assert.Equal(t, "7", v.String())
}

func TestValueStringSymbol(t *testing.T) {
	rt := NewRuntime()
	v := rt.Symbol("foo")
	defer v.Close()
	assert.Equal(t, "foo", v.String())
}

func TestValueStringNil(t *testing.T) {
	rt := NewRuntime()
	v := rt.Nil()
	defer v.Close()
	assert.Equal(t, "nil", v.String())
}

func TestValueStringProperList(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("(1 2 3)"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	assert.Equal(t, "(1 2 3)", v.String())
}

func TestValueStringDottedPair(t *testing.T) {
	rt := NewRuntime()
	rd := NewReader(strings.NewReader("(1 . 2)"))
	v, err := rt.Read(rd)
	require.NoError(t, err)
	defer v.Close()
	assert.Equal(t, "(1 . 2)", v.String())
}

func TestPrintCodeDisassemblesLiteral(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "(+ 1 2)")
	defer form.Close()
	code, err := rt.Compile(form)
	require.NoError(t, err)
	defer code.Close()

	var sb stringsBuilder
	require.NoError(t, rt.PrintCode(&sb, code))
	out := sb.String()
	assert.Contains(t, out, "LDC")
	assert.Contains(t, out, "ADD")
}

func TestPrintCodeDisassemblesNestedSelAndLdf(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "((lambda (x) (if x 1 2)) 0)")
	defer form.Close()
	code, err := rt.Compile(form)
	require.NoError(t, err)
	defer code.Close()

	var sb stringsBuilder
	require.NoError(t, rt.PrintCode(&sb, code))
	out := sb.String()
	for _, want := range []string{"LDF", "SEL", "then:", "else:"} {
		assert.Contains(t, out, want)
	}
}
