package secd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilIsASymbolCellNamedNil(t *testing.T) {
	rt := NewRuntime()
	n := rt.Nil()
	assert.True(t, n.IsNil())
	require.True(t, n.IsSymbol(), "expected Nil's cell to be a symbol, got kind %v", n.Kind())
	assert.Equal(t, "nil", n.SymbolName())
}

func TestNilIsEqAcrossCalls(t *testing.T) {
	rt := NewRuntime()
	a, b := rt.Nil(), rt.Nil()
	assert.True(t, a.Eq(b), "expected every Nil() call to be Eq")
}

func TestUnsetValuePanics(t *testing.T) {
	var v Value
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic reading an unset Value")
		_, ok := r.(unsetValueError)
		assert.True(t, ok, "expected unsetValueError, got %#v", r)
	}()
	v.IsNil()
}

func TestCopyIsIndependentlyCloseable(t *testing.T) {
	rt := NewRuntime()
	v := rt.Integer(7)
	cp := v.Copy()
	v.Close()
	// cp should still be usable: it owns its own root.
	assert.Equal(t, int64(7), cp.Integer())
	cp.Close()
}

func TestUseAfterClosePanics(t *testing.T) {
	rt := NewRuntime()
	v := rt.Integer(1)
	v.Close()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic reading a closed Value")
		_, ok := r.(useAfterCloseError)
		assert.True(t, ok, "expected useAfterCloseError, got %#v", r)
	}()
	v.Integer()
}

func TestCloseIsIdempotent(t *testing.T) {
	rt := NewRuntime()
	v := rt.Integer(1)
	v.Close()
	v.Close() // must not panic
}

func TestKindMismatchPanics(t *testing.T) {
	rt := NewRuntime()
	v := rt.Integer(1)
	defer v.Close()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a kindMismatchError panic")
		_, ok := r.(kindMismatchError)
		assert.True(t, ok, "expected kindMismatchError, got %#v", r)
	}()
	v.Car()
}

func TestConsCarCdr(t *testing.T) {
	rt := NewRuntime()
	a, b := rt.Integer(1), rt.Integer(2)
	pair := rt.Cons(a, b)
	defer pair.Close()
	a.Close()
	b.Close()

	require.True(t, pair.IsCons())
	car := pair.Car()
	cdr := pair.Cdr()
	defer car.Close()
	defer cdr.Close()
	assert.Equal(t, int64(1), car.Integer())
	assert.Equal(t, int64(2), cdr.Integer())
}
