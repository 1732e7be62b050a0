package secd

// wellKnown holds the interned cells for every symbol the compiler and
// reader recognize by name, resolved once per Runtime so hot paths compare
// cell pointers instead of hashing strings.
type wellKnown struct {
	nilCell, t                                            *cell
	quote, ifs, lambda, defun, let, letrec, progn, apply *cell
	cons, car, cdr, consp, print, read                   *cell
	add, sub, mul, div, eq, lt, gt                        *cell
}

func (rt *Runtime) initWellKnown() {
	w := &rt.wellKnown
	w.nilCell = rt.intern("nil")
	w.quote = rt.intern("quote")
	w.ifs = rt.intern("if")
	w.lambda = rt.intern("lambda")
	w.defun = rt.intern("defun")
	w.let = rt.intern("let")
	w.letrec = rt.intern("letrec")
	w.progn = rt.intern("progn")
	w.apply = rt.intern("apply")
	w.cons = rt.intern("cons")
	w.car = rt.intern("car")
	w.cdr = rt.intern("cdr")
	w.consp = rt.intern("consp")
	w.print = rt.intern("print")
	w.read = rt.intern("read")
	w.add = rt.intern("+")
	w.sub = rt.intern("-")
	w.mul = rt.intern("*")
	w.div = rt.intern("/")
	w.eq = rt.intern("eq")
	w.lt = rt.intern("<")
	w.gt = rt.intern(">")
	w.t = rt.intern("t")
}
