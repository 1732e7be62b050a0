package secd

// envFrame is one lexical scope in the compile-time environment: an
// ordered list of bound names, parent-linked to the enclosing scope. It
// exists only at compile time, in the compiler's own memory, per the
// "code buffer nesting" design note: the interpreter's runtime E register
// is a parallel but separate structure built by LDF/AP/RAP.
type envFrame struct {
	names  []string
	parent *envFrame
}

// lookup searches frames parent-first starting at depth 0 until name is
// found, returning its (depth, offset) coordinate.
func (f *envFrame) lookup(name string) (depth, offset int, ok bool) {
	for fr := f; fr != nil; fr = fr.parent {
		for i, n := range fr.names {
			if n == name {
				return depth, i, true
			}
		}
		depth++
	}
	return 0, 0, false
}

// codeBuffer is one in-progress bytecode list: an append-only cons chain
// built tail-first so append is O(1). head is root-registered for as long
// as the buffer is open; tail is a bare pointer, kept alive transitively
// through head since it is always the last cell of that same chain.
type codeBuffer struct {
	head Value
	tail *cell
}

func newCodeBuffer(rt *Runtime) *codeBuffer {
	return &codeBuffer{head: rt.Nil()}
}

// emit appends v to the buffer, consing it onto the end.
func (b *codeBuffer) emit(rt *Runtime, v Value) {
	c := rt.heap.allocateCons(v.cellRef(), rt.wellKnown.nilCell)
	if b.tail == nil {
		b.head.Close()
		b.head = rt.newValue(c)
	} else {
		b.tail.b = c
	}
	b.tail = c
}

func (b *codeBuffer) emitOp(rt *Runtime, op Opcode) {
	b.emit(rt, rt.Integer(int64(op)))
}

// finish hands ownership of the buffer's list to the caller; the buffer
// must not be used again afterward.
func (b *codeBuffer) finish() Value {
	return b.head
}

// Compiler translates one source Value into bytecode. Grounded in
// spec.md §4.4; the dispatch table and argument-compilation conventions
// (including the general-call vs. binary-primitive asymmetry) are
// preserved exactly as specified.
type Compiler struct {
	rt      *Runtime
	frame   *envFrame
	buffers []*codeBuffer
}

func (rt *Runtime) newCompiler() *Compiler {
	return &Compiler{
		rt:      rt,
		frame:   rt.globalFrame,
		buffers: []*codeBuffer{newCodeBuffer(rt)},
	}
}

func (c *Compiler) top() *codeBuffer { return c.buffers[len(c.buffers)-1] }

func (c *Compiler) pushBuffer() { c.buffers = append(c.buffers, newCodeBuffer(c.rt)) }

func (c *Compiler) popBuffer() Value {
	n := len(c.buffers) - 1
	b := c.buffers[n]
	c.buffers = c.buffers[:n]
	return b.finish()
}

func (c *Compiler) pushFrame(names []string) {
	c.frame = &envFrame{names: names, parent: c.frame}
}

func (c *Compiler) popFrame() { c.frame = c.frame.parent }

// Compile translates source into a bytecode Value. The global compile-time
// frame persists across calls on the same Runtime, so a defun in one call
// is visible by name in a later one.
func (rt *Runtime) Compile(source Value) (code Value, err error) {
	c := rt.newCompiler()
	defer func() {
		if r := recover(); r != nil {
			for _, b := range c.buffers {
				b.head.Close()
			}
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	c.compile(source)
	return c.popBuffer(), nil
}

func (c *Compiler) compile(form Value) {
	switch {
	case form.IsInteger():
		c.top().emitOp(c.rt, OpLDC)
		c.top().emit(c.rt, form.Copy())
	case form.IsSymbol():
		c.compileSymbol(form)
	case form.IsCons():
		c.compileCall(form)
	default:
		panic(compileError{"form", "value is not compilable (closures are not source literals)"})
	}
}

func (c *Compiler) compileSymbol(form Value) {
	wk := &c.rt.wellKnown
	ref := form.cellRef()
	switch ref {
	case wk.nilCell:
		c.top().emitOp(c.rt, OpNIL)
	case wk.t:
		c.top().emitOp(c.rt, OpLDC)
		c.top().emit(c.rt, c.rt.T())
	default:
		depth, offset, ok := c.frame.lookup(form.SymbolName())
		if !ok {
			panic(unboundSymbolError{form.SymbolName()})
		}
		c.top().emitOp(c.rt, OpLD)
		c.top().emit(c.rt, c.rt.Cons(c.rt.Integer(int64(depth)), c.rt.Integer(int64(offset))))
	}
}

func (c *Compiler) compileCall(form Value) {
	head := form.Car()
	args := form.Cdr()
	if head.IsSymbol() {
		wk := &c.rt.wellKnown
		switch head.cellRef() {
		case wk.quote:
			c.compileQuote(args)
			return
		case wk.ifs:
			c.compileIf(args)
			return
		case wk.lambda:
			c.compileLambda(args)
			return
		case wk.defun:
			c.compileDefun(args)
			return
		case wk.let:
			c.compileLet(args)
			return
		case wk.letrec:
			c.compileLetrec(args)
			return
		case wk.progn:
			c.compilePrognForms(args)
			return
		case wk.apply:
			c.compileApply(args)
			return
		case wk.cons:
			c.compilePrimitive(OpCONS, 2, args)
			return
		case wk.car:
			c.compilePrimitive(OpCAR, 1, args)
			return
		case wk.cdr:
			c.compilePrimitive(OpCDR, 1, args)
			return
		case wk.consp:
			c.compilePrimitive(OpCONSP, 1, args)
			return
		case wk.print:
			c.compilePrimitive(OpPRINT, 1, args)
			return
		case wk.read:
			c.compilePrimitive(OpREAD, 0, args)
			return
		case wk.add:
			c.compilePrimitive(OpADD, 2, args)
			return
		case wk.sub:
			c.compilePrimitive(OpSUB, 2, args)
			return
		case wk.mul:
			c.compilePrimitive(OpMUL, 2, args)
			return
		case wk.div:
			c.compilePrimitive(OpDIV, 2, args)
			return
		case wk.eq:
			c.compilePrimitive(OpEQ, 2, args)
			return
		case wk.lt:
			c.compilePrimitive(OpLT, 2, args)
			return
		case wk.gt:
			c.compilePrimitive(OpGT, 2, args)
			return
		}
	}
	c.compileGeneralCall(head, args)
}

func (c *Compiler) compileQuote(args Value) {
	if args.IsNil() || !args.Cdr().IsNil() {
		panic(arityError{"quote", 1, formListLen(args)})
	}
	c.top().emitOp(c.rt, OpLDC)
	c.top().emit(c.rt, args.Car().Copy())
}

func (c *Compiler) compileIf(args Value) {
	if formListLen(args) != 3 {
		panic(arityError{"if", 3, formListLen(args)})
	}
	cond := args.Car()
	thenE := args.Cdr().Car()
	elseE := args.Cdr().Cdr().Car()

	c.compile(cond)
	c.top().emitOp(c.rt, OpSEL)

	c.pushBuffer()
	c.compile(thenE)
	c.top().emitOp(c.rt, OpJOIN)
	thenCode := c.popBuffer()
	c.top().emit(c.rt, thenCode)

	c.pushBuffer()
	c.compile(elseE)
	c.top().emitOp(c.rt, OpJOIN)
	elseCode := c.popBuffer()
	c.top().emit(c.rt, elseCode)
}

// compileLambdaInline emits LDF for a lambda whose parameter list is
// names and whose body is the (possibly empty, possibly multi-form) list
// bodyForms, shared by lambda, defun, let and letrec.
func (c *Compiler) compileLambdaInline(names, bodyForms Value) {
	c.top().emitOp(c.rt, OpLDF)
	c.pushBuffer()
	c.pushFrame(collectSymbolNames(names))
	c.compilePrognForms(bodyForms)
	c.top().emitOp(c.rt, OpRTN)
	c.popFrame()
	code := c.popBuffer()
	c.top().emit(c.rt, code)
}

func (c *Compiler) compileLambda(args Value) {
	if args.IsNil() {
		panic(compileError{"lambda", "missing parameter list"})
	}
	c.compileLambdaInline(args.Car(), args.Cdr())
}

func (c *Compiler) compileDefun(args Value) {
	if c.frame != c.rt.globalFrame {
		panic(compileError{"defun", "not at global scope"})
	}
	if formListLen(args) < 2 {
		panic(compileError{"defun", "expected name, parameter list and body"})
	}
	name := args.Car()
	if !name.IsSymbol() {
		panic(compileError{"defun", "name must be a symbol"})
	}
	params := args.Cdr().Car()
	bodyForms := args.Cdr().Cdr()

	c.frame.names = append(c.frame.names, name.SymbolName())
	c.compileLambdaInline(params, bodyForms)
	c.top().emitOp(c.rt, OpDEFUN)
}

func (c *Compiler) compileLet(args Value) {
	if formListLen(args) < 2 {
		panic(compileError{"let", "expected bindings and body"})
	}
	names := args.Car()
	values := args.Cdr().Car()
	bodyForms := args.Cdr().Cdr()

	c.compileFunctionArgs(values)
	c.compileLambdaInline(names, bodyForms)
	c.top().emitOp(c.rt, OpAP)
}

func (c *Compiler) compileLetrec(args Value) {
	if formListLen(args) < 2 {
		panic(compileError{"letrec", "expected bindings and body"})
	}
	names := args.Car()
	values := args.Cdr().Car()
	bodyForms := args.Cdr().Cdr()

	c.top().emitOp(c.rt, OpDUM)
	c.pushFrame(collectSymbolNames(names))
	c.compileFunctionArgs(values)
	c.popFrame()
	c.compileLambdaInline(names, bodyForms)
	c.top().emitOp(c.rt, OpRAP)
}

func (c *Compiler) compilePrognForms(forms Value) {
	var items []Value
	for cur := forms; !cur.IsNil(); cur = cur.Cdr() {
		items = append(items, cur.Car())
	}
	if len(items) == 0 {
		c.top().emitOp(c.rt, OpNIL)
		return
	}
	for i, it := range items {
		c.compile(it)
		if i < len(items)-1 {
			c.top().emitOp(c.rt, OpPOP)
		}
	}
}

func (c *Compiler) compileApply(args Value) {
	if args.IsNil() {
		panic(compileError{"apply", "missing function"})
	}
	fn := args.Car()
	rest := args.Cdr()
	if rest.IsNil() {
		panic(compileError{"apply", "missing argument"})
	}
	if !rest.Cdr().IsNil() {
		panic(compileError{"apply", "too many arguments"})
	}
	c.compileFunctionArgs(rest)
	c.compile(fn)
	c.top().emitOp(c.rt, OpAP)
}

// compileFunctionArgs emits NIL, then for each form in forms, in reverse
// order, compiles it and emits CONS — the general-call argument
// convention: args are consed up right-to-left so the resulting runtime
// list appears left-to-right, with the first argument as its car.
func (c *Compiler) compileFunctionArgs(forms Value) {
	c.top().emitOp(c.rt, OpNIL)
	var items []Value
	for cur := forms; !cur.IsNil(); cur = cur.Cdr() {
		items = append(items, cur.Car())
	}
	for i := len(items) - 1; i >= 0; i-- {
		c.compile(items[i])
		c.top().emitOp(c.rt, OpCONS)
	}
}

func (c *Compiler) compileGeneralCall(fn, args Value) {
	c.compileFunctionArgs(args)
	c.compile(fn)
	c.top().emitOp(c.rt, OpAP)
}

// compilePrimitive compiles a unary or binary built-in. Binary primitives
// compile their second argument before their first: at runtime CONS/ADD/
// etc. pop a = first pop, b = second pop, and this compile order makes
// a the lhs and b the rhs, giving the surface reading (op lhs rhs) even
// though general calls compile arguments in the opposite order.
func (c *Compiler) compilePrimitive(op Opcode, arity int, args Value) {
	var items []Value
	for cur := args; !cur.IsNil(); cur = cur.Cdr() {
		items = append(items, cur.Car())
	}
	if len(items) != arity {
		panic(arityError{op.String(), arity, len(items)})
	}
	switch arity {
	case 1:
		c.compile(items[0])
	case 2:
		c.compile(items[1])
		c.compile(items[0])
	}
	c.top().emitOp(c.rt, op)
}

func collectSymbolNames(list Value) []string {
	var names []string
	for cur := list; !cur.IsNil(); cur = cur.Cdr() {
		item := cur.Car()
		if !item.IsSymbol() {
			panic(compileError{"parameter list", "expected a symbol"})
		}
		names = append(names, item.SymbolName())
	}
	return names
}

func formListLen(list Value) int {
	n := 0
	for cur := list; !cur.IsNil(); cur = cur.Cdr() {
		n++
	}
	return n
}
