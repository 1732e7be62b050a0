package secd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolInterningIsByIdentity(t *testing.T) {
	rt := NewRuntime()
	a := rt.Symbol("foo")
	b := rt.Symbol("foo")
	defer a.Close()
	defer b.Close()

	assert.True(t, a.Eq(b), "expected two interns of %q to be Eq", "foo")
	assert.Equal(t, "foo", a.SymbolName())
	assert.Equal(t, "foo", b.SymbolName())
}

func TestDistinctNamesInternDistinctCells(t *testing.T) {
	rt := NewRuntime()
	a := rt.Symbol("foo")
	b := rt.Symbol("bar")
	defer a.Close()
	defer b.Close()

	assert.False(t, a.Eq(b), "expected distinct names to intern distinct cells")
}

func TestInternedSymbolsSurviveCollection(t *testing.T) {
	rt := NewRuntime()
	sym := rt.Symbol("persistent")
	sym.Close()

	rt.Collect()

	again := rt.Symbol("persistent")
	defer again.Close()
	assert.Equal(t, "persistent", again.SymbolName())
}

func TestWellKnownSymbolsAreInterned(t *testing.T) {
	rt := NewRuntime()
	for _, name := range []string{"nil", "t", "quote", "if", "lambda", "defun", "let", "letrec", "progn"} {
		_, already := rt.symbols.byName[name]
		assert.True(t, already, "expected well-known symbol %q to be interned by NewRuntime", name)
		v := rt.Symbol(name)
		assert.Equal(t, name, v.SymbolName(), "expected well-known symbol %q to already be interned", name)
		v.Close()
	}
}
