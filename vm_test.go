package secd

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalSrc(t *testing.T, rt *Runtime, src string) Value {
	t.Helper()
	form := mustParse(t, rt, src)
	defer form.Close()
	code, err := rt.Compile(form)
	require.NoError(t, err, "compiling %q", src)
	defer code.Close()
	v, err := rt.Run(context.Background(), code)
	require.NoError(t, err, "running %q", src)
	return v
}

func TestVMAddition(t *testing.T) {
	rt := NewRuntime()
	v := evalSrc(t, rt, "(+ 1 2)")
	defer v.Close()
	assert.Equal(t, int64(3), v.Integer())
}

func TestVMIfEq(t *testing.T) {
	rt := NewRuntime()
	v := evalSrc(t, rt, "(if (eq 1 1) (quote yes) (quote no))")
	defer v.Close()
	require.True(t, v.IsSymbol())
	assert.Equal(t, "yes", v.SymbolName())
}

func TestVMLambdaApplication(t *testing.T) {
	rt := NewRuntime()
	v := evalSrc(t, rt, "((lambda (x) (* x x)) 7)")
	defer v.Close()
	assert.Equal(t, int64(49), v.Integer())
}

func TestVMLetrecFactorial(t *testing.T) {
	rt := NewRuntime()
	v := evalSrc(t, rt, "(letrec (f) ((lambda (n) (if (eq n 0) 1 (* n (f (- n 1)))))) (f 5))")
	defer v.Close()
	assert.Equal(t, int64(120), v.Integer())
}

func TestVMPrognDefun(t *testing.T) {
	rt := NewRuntime()
	v := evalSrc(t, rt, "(progn (defun inc (x) (+ x 1)) (inc 41))")
	defer v.Close()
	assert.Equal(t, int64(42), v.Integer())
}

func TestVMNestedConsCarCdr(t *testing.T) {
	rt := NewRuntime()
	v := evalSrc(t, rt, "(car (cdr (cons 1 (cons 2 (cons 3 nil)))))")
	defer v.Close()
	assert.Equal(t, int64(2), v.Integer())
}

// CONSP's documented contract (see DESIGN.md) is the literal reading of
// the instruction, not the "is this a cons" reading the spec's own open
// question warns against: it requires the popped value itself be a cons,
// then tests whether *that cons's cdr* is itself a cons.
func TestVMConspTestsThePoppedConssOwnCdr(t *testing.T) {
	rt := NewRuntime()

	// (cons 1 (cons 2 3))'s cdr is (cons 2 3), itself a cons: truthy.
	v := evalSrc(t, rt, "(consp (cons 1 (cons 2 3)))")
	defer v.Close()
	assert.False(t, v.IsNil(), "expected a true value for (consp (cons 1 (cons 2 3)))")

	// (cons 1 2)'s cdr is 2, an integer, not a cons: nil.
	v2 := evalSrc(t, rt, "(consp (cons 1 2))")
	defer v2.Close()
	assert.True(t, v2.IsNil(), "expected nil for (consp (cons 1 2))")
}

func TestVMConspOfNonConsPanics(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "(consp 1)")
	defer form.Close()
	code, err := rt.Compile(form)
	require.NoError(t, err)
	defer code.Close()

	_, err = rt.Run(context.Background(), code)
	_, ok := err.(vmError)
	assert.True(t, ok, "expected vmError for (consp 1), got %#v", err)
}

func TestVMEqLtGtUseIntegerZeroOneConvention(t *testing.T) {
	rt := NewRuntime()
	for _, tc := range []struct {
		src  string
		want int64
	}{
		{"(eq 1 1)", 1},
		{"(eq 1 2)", 0},
		{"(< 1 2)", 1},
		{"(< 2 1)", 0},
		{"(> 2 1)", 1},
		{"(> 1 2)", 0},
	} {
		v := evalSrc(t, rt, tc.src)
		require.True(t, v.IsInteger(), "%v: expected an integer result", tc.src)
		assert.Equal(t, tc.want, v.Integer(), "%v", tc.src)
		v.Close()
	}
}

func TestVMDivisionByZeroPanicsAsVMError(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "(/ 1 0)")
	defer form.Close()
	code, err := rt.Compile(form)
	require.NoError(t, err)
	defer code.Close()
	_, err = rt.Run(context.Background(), code)
	_, ok := err.(vmError)
	assert.True(t, ok, "expected vmError, got %#v", err)
}

func TestVMContextCancellationStopsRun(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "1")
	defer form.Close()
	code, err := rt.Compile(form)
	require.NoError(t, err)
	defer code.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = rt.Run(ctx, code)
	assert.Error(t, err, "expected a cancellation error")
}

func TestVMReadPullsFromConfiguredInput(t *testing.T) {
	rt := NewRuntime(WithInput(strings.NewReader("99")))
	v := evalSrc(t, rt, "(read)")
	defer v.Close()
	assert.Equal(t, int64(99), v.Integer())
}
