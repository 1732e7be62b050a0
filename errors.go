package secd

import "fmt"

// compileError is returned for malformed source the compiler rejects other
// than an unbound name (unboundSymbolError) or a quote/if/primitive arity
// mismatch (arityError): a defun outside global scope, a missing parameter
// list, a non-symbol where a name is required. Grounded in the
// teacher's internals.go typed-error style (progError, codeError): a small
// struct carrying just enough context to format a useful message, never a
// bare sentinel string.
type compileError struct {
	form string
	why  string
}

func (e compileError) Error() string {
	return fmt.Sprintf("compile %v: %v", e.form, e.why)
}

// unboundSymbolError is raised when the compiler cannot resolve a name
// against the current chain of environment frames.
type unboundSymbolError struct{ name string }

func (e unboundSymbolError) Error() string {
	return fmt.Sprintf("unbound symbol: %v", e.name)
}

// arityError is raised when a primitive or special form sees the wrong
// number of arguments at compile time.
type arityError struct {
	form          string
	want, got     int
}

func (e arityError) Error() string {
	return fmt.Sprintf("%v: expected %v argument(s), got %v", e.form, e.want, e.got)
}

// vmError wraps a fault the VM detected mid-execution: stack underflow,
// a type mismatch an opcode didn't expect, a malformed code list.
type vmError struct {
	op  Opcode
	why string
}

func (e vmError) Error() string {
	return fmt.Sprintf("%v: %v", e.op, e.why)
}

// haltError marks a deliberate VM halt distinct from a fault. Run does not
// return it: a run whose control register is exhausted ends normally and
// returns the value at the top of S.
type haltError struct{ error }

func (e haltError) Error() string {
	if e.error != nil {
		return fmt.Sprintf("halted: %v", e.error)
	}
	return "halted"
}
func (e haltError) Unwrap() error { return e.error }

// memLimitError is returned when bank growth would exceed a configured
// bank-count limit (see WithBankLimit).
type memLimitError struct{ limit int }

func (e memLimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded: %v banks", e.limit)
}
