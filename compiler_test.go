package secd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, rt *Runtime, src string) Value {
	t.Helper()
	rd := NewReader(strings.NewReader(src))
	v, err := rt.Read(rd)
	require.NoError(t, err, "parsing %q", src)
	return v
}

func TestCompileLiteralsAndSymbols(t *testing.T) {
	rt := NewRuntime()

	form := mustParse(t, rt, "42")
	defer form.Close()
	code, err := rt.Compile(form)
	require.NoError(t, err, "compiling an integer literal")
	defer code.Close()
	assert.False(t, code.IsNil(), "expected non-empty bytecode for a literal")
}

func TestCompileUnboundSymbolErrors(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "undefined-name")
	defer form.Close()
	_, err := rt.Compile(form)
	_, ok := err.(unboundSymbolError)
	assert.True(t, ok, "expected unboundSymbolError, got %#v", err)
}

func TestCompileQuoteArity(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "(quote a b)")
	defer form.Close()
	_, err := rt.Compile(form)
	_, ok := err.(arityError)
	assert.True(t, ok, "expected arityError, got %#v", err)
}

func TestCompileIfArity(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "(if 1 2)")
	defer form.Close()
	_, err := rt.Compile(form)
	_, ok := err.(arityError)
	assert.True(t, ok, "expected arityError, got %#v", err)
}

func TestCompileDefunOnlyAtGlobalScope(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "(lambda (x) (defun f (y) y))")
	defer form.Close()
	_, err := rt.Compile(form)
	_, ok := err.(compileError)
	assert.True(t, ok, "expected compileError for nested defun, got %#v", err)
}

func TestCompilePrimitiveArity(t *testing.T) {
	rt := NewRuntime()
	form := mustParse(t, rt, "(+ 1)")
	defer form.Close()
	_, err := rt.Compile(form)
	_, ok := err.(arityError)
	assert.True(t, ok, "expected arityError, got %#v", err)
}

func TestCompileLambdaAllFormsAccepted(t *testing.T) {
	rt := NewRuntime()
	for _, src := range []string{
		"(lambda (x) x)",
		"(let (x) (1) x)",
		"(letrec (f) ((lambda (n) n)) (f 1))",
		"(progn 1 2 3)",
		"(apply (lambda (x) x) 1)",
		"(defun id (x) x)",
		"(cons 1 2)",
		"(car (cons 1 2))",
		"(cdr (cons 1 2))",
		"(consp (cons 1 2))",
		"(eq 1 1)",
		"(< 1 2)",
		"(> 2 1)",
		"(- 2 1)",
		"(* 2 1)",
		"(/ 4 2)",
	} {
		form := mustParse(t, rt, src)
		code, err := rt.Compile(form)
		form.Close()
		require.NoError(t, err, "compiling %q", src)
		code.Close()
	}
}
