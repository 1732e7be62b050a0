package secd

import "fmt"

// kindMismatchError is returned by an accessor when a Value's cell does not
// carry the kind the accessor expects.
type kindMismatchError struct {
	want, got CellKind
}

func (e kindMismatchError) Error() string {
	return fmt.Sprintf("value: expected %v, got %v", e.want, e.got)
}

// useAfterCloseError guards against reading a Value handle after Close has
// released its root registration: the underlying cell may already have been
// reclaimed by a later collection.
type useAfterCloseError struct{}

func (useAfterCloseError) Error() string { return "value: use after Close" }

// unsetValueError is what an accessor panics with when called on a zero
// Value: a Go-level "no handle here" state, distinct from Lisp's Nil, which
// is an ordinary interned symbol cell reachable through Runtime.Nil.
type unsetValueError struct{}

func (unsetValueError) Error() string { return "value: unset handle" }

// valueRoot is the indirection a Value points at. It is heap-allocated once
// per independent handle so its address is stable for the handle's whole
// lifetime and can serve as the root-set key the heap's addRoot/removeRoot
// expect (see heap.go). Value itself stays a thin, copyable wrapper; the
// root it wraps is what must not be silently duplicated.
type valueRoot struct {
	rt     *Runtime
	ref    *cell
	closed bool
}

// Value is an owning handle on one heap cell: a root-registered reference
// that keeps its cell (and everything reachable from it) alive across
// collections.
//
// The zero Value carries no root and is not a usable handle — it is a
// Go-level "unset" state, not Lisp's nil. Lisp's nil is an ordinary
// pre-interned symbol cell, obtained from Runtime.Nil.
//
// Value must not be copied with a plain assignment if the copy is meant to
// outlive the original in a way the original's Close cannot account for:
// assignment aliases the same underlying root, so closing either one
// invalidates both. Call Copy to obtain a handle with its own, independent
// root registration, the way spec.md's handle-copy contract requires.
type Value struct {
	root *valueRoot
}

// newValue registers c as a fresh root and wraps it. c must not be nil:
// every reference slot in this system resolves to a real cell, including
// the empty list, which is the interned "nil" symbol (see wellKnown).
func (rt *Runtime) newValue(c *cell) Value {
	r := &valueRoot{rt: rt, ref: c}
	rt.heap.addRoot(&r.ref)
	return Value{root: r}
}

// Nil is the empty list / boolean false, the pre-interned symbol cell
// named "nil".
func (rt *Runtime) Nil() Value { return rt.newValue(rt.wellKnown.nilCell) }

// T is the canonical true value, the integer 1 (see DESIGN.md on why this
// differs from the dispatch symbol "t").
func (rt *Runtime) T() Value { return rt.newValue(rt.heap.allocateInteger(1)) }

// Integer returns a handle on a fresh cell holding n.
func (rt *Runtime) Integer(n int64) Value { return rt.newValue(rt.heap.allocateInteger(n)) }

// Cons returns a handle on a fresh cons cell pairing a and b.
func (rt *Runtime) Cons(a, b Value) Value {
	return rt.newValue(rt.heap.allocateCons(a.cellRef(), b.cellRef()))
}

// Copy returns an independent handle on the same cell, with its own root
// registration: closing v or the copy independently is safe, and the cell
// stays alive as long as either is open.
func (v Value) Copy() Value {
	if v.root == nil {
		panic(unsetValueError{})
	}
	if v.root.closed {
		panic(useAfterCloseError{})
	}
	return v.root.rt.newValue(v.root.ref)
}

// Close deregisters v's root. Close on an already-closed or zero Value is a
// no-op: it is not an error to close a handle you never used.
func (v Value) Close() {
	if v.root == nil || v.root.closed {
		return
	}
	v.root.closed = true
	v.root.rt.heap.removeRoot(&v.root.ref)
}

func (v Value) cellRef() *cell {
	if v.root == nil {
		panic(unsetValueError{})
	}
	if v.root.closed {
		panic(useAfterCloseError{})
	}
	return v.root.ref
}

// IsNil reports whether v is the empty list.
func (v Value) IsNil() bool {
	return v.cellRef() == v.root.rt.wellKnown.nilCell
}

// IsInteger reports whether v holds an integer.
func (v Value) IsInteger() bool { return v.cellRef().kind == KindInteger }

// IsSymbol reports whether v holds an interned symbol.
func (v Value) IsSymbol() bool { return v.cellRef().kind == KindSymbol }

// IsCons reports whether v holds a car/cdr pair.
func (v Value) IsCons() bool { return v.cellRef().kind == KindCons }

// IsClosure reports whether v holds a compiled function.
func (v Value) IsClosure() bool { return v.cellRef().kind == KindClosure }

func (v Value) expect(want CellKind) *cell {
	c := v.cellRef()
	if c.kind != want {
		panic(kindMismatchError{want, c.kind})
	}
	return c
}

// Integer returns v's integer payload. It panics if v is not an integer.
func (v Value) Integer() int64 { return v.expect(KindInteger).ival }

// SymbolName returns v's interned name. It panics if v is not a symbol.
func (v Value) SymbolName() string { return v.expect(KindSymbol).name }

// Car returns the head of a cons cell. It panics if v is not a cons.
func (v Value) Car() Value {
	c := v.expect(KindCons)
	return v.root.rt.newValue(c.a)
}

// Cdr returns the tail of a cons cell. It panics if v is not a cons.
func (v Value) Cdr() Value {
	c := v.expect(KindCons)
	return v.root.rt.newValue(c.b)
}

// Body returns a closure's compiled code list. It panics if v is not a
// closure.
func (v Value) Body() Value {
	c := v.expect(KindClosure)
	return v.root.rt.newValue(c.a)
}

// Environment returns a closure's captured environment list. It panics if
// v is not a closure.
func (v Value) Environment() Value {
	c := v.expect(KindClosure)
	return v.root.rt.newValue(c.b)
}

// Eq reports cell-identity equality: two handles are Eq if they reference
// the same cell. Symbols compare Eq by interning identity, never by name;
// nil compares Eq to nil because both resolve to the one interned cell.
func (v Value) Eq(other Value) bool {
	return v.cellRef() == other.cellRef()
}

// Kind returns v's cell kind.
func (v Value) Kind() CellKind { return v.cellRef().kind }
