package secd

import (
	"context"
	"fmt"
)

// registers holds the four SECD registers as raw cell pointers rather than
// Value handles: a single root per register, added once for the life of a
// Run call, is enough to keep everything reachable from S/E/C/D alive, and
// avoids minting (and leaking) a fresh root registration on every push and
// pop of a tight loop. Value handles remain the public API; Run converts
// at the boundary.
type registers struct {
	s, e, c, d *cell
}

func (rt *Runtime) carC(c *cell, op Opcode, why string) *cell {
	if c.kind != KindCons {
		panic(vmError{op, why})
	}
	return c.a
}

func (rt *Runtime) cdrC(c *cell, op Opcode, why string) *cell {
	if c.kind != KindCons {
		panic(vmError{op, why})
	}
	return c.b
}

func (reg *registers) popC(rt *Runtime) *cell {
	if reg.c.kind != KindCons {
		panic(vmError{0, "control register exhausted"})
	}
	v := reg.c.a
	reg.c = reg.c.b
	return v
}

func (reg *registers) pushS(rt *Runtime, v *cell) {
	reg.s = rt.heap.allocateCons(v, reg.s)
}

func (reg *registers) popS(rt *Runtime, op Opcode) *cell {
	if reg.s.kind != KindCons {
		panic(vmError{op, "stack underflow"})
	}
	v := reg.s.a
	reg.s = reg.s.b
	return v
}

func (reg *registers) peekS(rt *Runtime, op Opcode) *cell {
	if reg.s.kind != KindCons {
		panic(vmError{op, "stack underflow"})
	}
	return reg.s.a
}

func (reg *registers) pushD(rt *Runtime, v *cell) {
	reg.d = rt.heap.allocateCons(v, reg.d)
}

func (reg *registers) popD(rt *Runtime, op Opcode) *cell {
	if reg.d.kind != KindCons {
		panic(vmError{op, "dump underflow"})
	}
	v := reg.d.a
	reg.d = reg.d.b
	return v
}

// nthElement walks n cdrs into list and returns the car found there.
func (rt *Runtime) nthElement(list *cell, n int64, op Opcode) *cell {
	cur := list
	for i := int64(0); i < n; i++ {
		cur = rt.cdrC(cur, op, "environment coordinate out of range")
	}
	return rt.carC(cur, op, "environment coordinate out of range")
}

func (rt *Runtime) truthy(c *cell) bool {
	if c == rt.wellKnown.nilCell {
		return false
	}
	if c.kind == KindInteger && c.ival == 0 {
		return false
	}
	return true
}

// boolAsT returns the canonical true cell (integer 1) or nil, the
// convention CONSP uses.
func (rt *Runtime) boolAsT(v bool) *cell {
	if v {
		return rt.heap.allocateInteger(1)
	}
	return rt.wellKnown.nilCell
}

// boolAsInt returns Integer(1) or Integer(0), the convention EQ/LT/GT use.
func (rt *Runtime) boolAsInt(v bool) *cell {
	if v {
		return rt.heap.allocateInteger(1)
	}
	return rt.heap.allocateInteger(0)
}

func (rt *Runtime) requireInteger(c *cell, op Opcode) int64 {
	if c.kind != KindInteger {
		panic(vmError{op, "expected an integer"})
	}
	return c.ival
}

// appendToOutermostFrame walks E to its last (global) frame and appends
// val to that frame's binding list, mutating it in place exactly as DEFUN
// specifies: it must land at the same offset the compiler reserved when it
// appended the name to the global compile-time frame.
func (rt *Runtime) appendToOutermostFrame(e *cell, val *cell) {
	outer := e
	for outer.kind == KindCons && outer.b.kind == KindCons {
		outer = outer.b
	}
	if outer.kind != KindCons {
		panic(vmError{OpDEFUN, "malformed environment"})
	}
	entry := rt.heap.allocateCons(val, rt.wellKnown.nilCell)
	if outer.a == rt.wellKnown.nilCell {
		outer.a = entry
		return
	}
	tail := outer.a
	for tail.kind == KindCons && tail.b.kind == KindCons {
		tail = tail.b
	}
	if tail.kind != KindCons {
		panic(vmError{OpDEFUN, "malformed global frame"})
	}
	tail.b = entry
}

// Run executes code to completion and returns the value left at the top
// of S. S, C and D are local to this call: a failed run never corrupts a
// later one, since there is no process-wide register file to reset for
// them (see spec.md §7's reset-on-failure contract, satisfied here for
// free). E starts from rt.globalEnv, the one persistent outermost frame
// DEFUN mutates in place, so a name defined by one Run call resolves
// correctly in a later one — AP/RAP only ever push temporary frames in
// front of it for the duration of a call and pop back to it on RTN.
func (rt *Runtime) Run(ctx context.Context, code Value) (result Value, err error) {
	reg := &registers{
		s: rt.wellKnown.nilCell,
		e: rt.globalEnv,
		c: code.cellRef(),
		d: rt.wellKnown.nilCell,
	}
	rt.heap.addRoot(&reg.s)
	rt.heap.addRoot(&reg.e)
	rt.heap.addRoot(&reg.c)
	rt.heap.addRoot(&reg.d)
	defer func() {
		rt.heap.removeRoot(&reg.s)
		rt.heap.removeRoot(&reg.e)
		rt.heap.removeRoot(&reg.c)
		rt.heap.removeRoot(&reg.d)
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	for reg.c != rt.wellKnown.nilCell {
		if cerr := ctx.Err(); cerr != nil {
			return Value{}, cerr
		}
		opCell := reg.popC(rt)
		op := Opcode(rt.requireInteger(opCell, 0))
		if rt.logfn != nil {
			rt.logf("vm", "exec %v", op)
		}
		rt.step(reg, op)
	}
	return rt.newValue(reg.peekS(rt, 0)), nil
}

func (rt *Runtime) step(reg *registers, op Opcode) {
	switch op {
	case OpNIL:
		reg.pushS(rt, rt.wellKnown.nilCell)
	case OpLDC:
		reg.pushS(rt, reg.popC(rt))
	case OpLD:
		pair := reg.popC(rt)
		depth := rt.requireInteger(rt.carC(pair, op, "malformed LD operand"), op)
		offset := rt.requireInteger(rt.cdrC(pair, op, "malformed LD operand"), op)
		frame := rt.nthElement(reg.e, depth, op)
		reg.pushS(rt, rt.nthElement(frame, offset, op))
	case OpSEL:
		cond := reg.popS(rt, op)
		thenCode := reg.popC(rt)
		elseCode := reg.popC(rt)
		reg.pushD(rt, reg.c)
		if rt.truthy(cond) {
			reg.c = thenCode
		} else {
			reg.c = elseCode
		}
	case OpJOIN:
		reg.c = reg.popD(rt, op)
	case OpLDF:
		body := reg.popC(rt)
		reg.pushS(rt, rt.heap.allocateClosure(body, reg.e))
	case OpAP:
		closure := reg.popS(rt, op)
		if closure.kind != KindClosure {
			panic(vmError{op, "AP target is not a closure"})
		}
		argList := reg.popS(rt, op)
		reg.pushD(rt, rt.heap.allocateCons(reg.s,
			rt.heap.allocateCons(reg.e, rt.heap.allocateCons(reg.c, rt.wellKnown.nilCell))))
		reg.s = rt.wellKnown.nilCell
		reg.e = rt.heap.allocateCons(argList, closure.b)
		reg.c = closure.a
	case OpRTN:
		result := reg.popS(rt, op)
		triple := reg.popD(rt, op)
		reg.s = rt.carC(triple, op, "malformed dump entry")
		rest := rt.cdrC(triple, op, "malformed dump entry")
		reg.e = rt.carC(rest, op, "malformed dump entry")
		rest2 := rt.cdrC(rest, op, "malformed dump entry")
		reg.c = rt.carC(rest2, op, "malformed dump entry")
		reg.pushS(rt, result)
	case OpDUM:
		reg.e = rt.heap.allocateCons(rt.wellKnown.nilCell, reg.e)
	case OpRAP:
		reg.e = rt.cdrC(reg.e, op, "missing dummy environment")
		closure := reg.popS(rt, op)
		if closure.kind != KindClosure {
			panic(vmError{op, "RAP target is not a closure"})
		}
		argList := reg.popS(rt, op)
		env := closure.b
		if env.kind != KindCons {
			panic(vmError{op, "expected dummy environment from DUM"})
		}
		env.a = argList
		reg.pushD(rt, rt.heap.allocateCons(reg.s,
			rt.heap.allocateCons(reg.e, rt.heap.allocateCons(reg.c, rt.wellKnown.nilCell))))
		reg.s = rt.wellKnown.nilCell
		reg.e = env
		reg.c = closure.a
	case OpDEFUN:
		val := reg.popS(rt, op)
		rt.appendToOutermostFrame(reg.e, val)
		reg.pushS(rt, rt.wellKnown.nilCell)
	case OpPOP:
		reg.popS(rt, op)
	case OpCONS:
		a := reg.popS(rt, op)
		b := reg.popS(rt, op)
		reg.pushS(rt, rt.heap.allocateCons(a, b))
	case OpCAR:
		v := reg.popS(rt, op)
		reg.pushS(rt, rt.carC(v, op, "CAR of non-cons"))
	case OpCDR:
		v := reg.popS(rt, op)
		reg.pushS(rt, rt.cdrC(v, op, "CDR of non-cons"))
	case OpCONSP:
		v := reg.popS(rt, op)
		cdr := rt.cdrC(v, op, "CONSP of non-cons")
		reg.pushS(rt, rt.boolAsT(cdr.kind == KindCons))
	case OpADD:
		a, b := reg.popS(rt, op), reg.popS(rt, op)
		reg.pushS(rt, rt.heap.allocateInteger(rt.requireInteger(a, op)+rt.requireInteger(b, op)))
	case OpSUB:
		a, b := reg.popS(rt, op), reg.popS(rt, op)
		reg.pushS(rt, rt.heap.allocateInteger(rt.requireInteger(a, op)-rt.requireInteger(b, op)))
	case OpMUL:
		a, b := reg.popS(rt, op), reg.popS(rt, op)
		reg.pushS(rt, rt.heap.allocateInteger(rt.requireInteger(a, op)*rt.requireInteger(b, op)))
	case OpDIV:
		a, b := reg.popS(rt, op), reg.popS(rt, op)
		bi := rt.requireInteger(b, op)
		if bi == 0 {
			panic(vmError{op, "division by zero"})
		}
		reg.pushS(rt, rt.heap.allocateInteger(rt.requireInteger(a, op)/bi))
	case OpEQ:
		a, b := reg.popS(rt, op), reg.popS(rt, op)
		var eq bool
		if a.kind == KindInteger && b.kind == KindInteger {
			eq = a.ival == b.ival
		} else {
			eq = a == b
		}
		reg.pushS(rt, rt.boolAsInt(eq))
	case OpLT:
		a, b := reg.popS(rt, op), reg.popS(rt, op)
		reg.pushS(rt, rt.boolAsInt(rt.requireInteger(a, op) < rt.requireInteger(b, op)))
	case OpGT:
		a, b := reg.popS(rt, op), reg.popS(rt, op)
		reg.pushS(rt, rt.boolAsInt(rt.requireInteger(a, op) > rt.requireInteger(b, op)))
	case OpPRINT:
		v := reg.peekS(rt, op)
		rt.printCell(v)
	case OpREAD:
		reg.pushS(rt, rt.heap.allocateInteger(rt.readInt()))
	default:
		panic(vmError{op, fmt.Sprintf("unknown opcode %d", int64(op))})
	}
}
