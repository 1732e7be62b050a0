package secd

// Runtime is one independent SECD machine: its own heap, symbol table,
// and VM registers. Nothing inside a Runtime is shared with any other
// Runtime in the same process, which is what lets a caller run many of
// them concurrently, one per goroutine (see the batch runner in cmd/secd).
//
// Grounded in the teacher's VM struct (api.go, options.go): a single
// struct gathering every process-wide-in-the-original piece of state
// behind a constructor and a functional-options configuration surface.
type Runtime struct {
	heap      heap
	symbols   symbolTable
	wellKnown wellKnown
	logging

	// globalFrame is the compile-time environment frame for top-level
	// bindings (defun). It is shared across every call to Compile on this
	// Runtime, so a name defun reserves in one Compile call resolves
	// correctly in a later one, the way a REPL accumulates definitions.
	globalFrame *envFrame

	// globalEnv is the runtime counterpart of globalFrame: the single,
	// permanently-rooted outermost environment cell every Run call seeds
	// its E register from, instead of each call getting its own fresh
	// (nil . nil) frame. DEFUN mutates its car in place (see
	// appendToOutermostFrame in vm.go), so a name a defun binds in one
	// Eval/Run call stays visible to LD lookups in a later one, matching
	// globalFrame's compile-time persistence.
	globalEnv *cell

	bankLimit int

	io ioCore
}

// NewRuntime constructs a Runtime ready to Compile and Run programs.
// Options are applied in order after a small set of defaults (an
// unbounded bank limit, no trace logging).
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{}
	for _, opt := range defaultRuntimeOptions {
		opt.apply(rt)
	}
	for _, opt := range opts {
		opt.apply(rt)
	}
	rt.heap.logf = func(mess string, args ...interface{}) {
		rt.logging.logf("gc", mess, args...)
	}
	rt.initWellKnown()
	rt.globalFrame = &envFrame{}
	rt.globalEnv = rt.heap.allocateCons(rt.wellKnown.nilCell, rt.wellKnown.nilCell)
	rt.heap.addRoot(&rt.globalEnv)
	if rt.io.in == nil {
		rt.io.in = defaultIn
	}
	if rt.io.out == nil {
		rt.io.out = discardWriteFlusher
	}
	return rt
}

// GC reports the heap's current bookkeeping counters, as named in
// spec.md's gc_stats() contract.
func (rt *Runtime) GC() GCStats {
	return rt.heap.stats()
}

// Collect forces an immediate mark-sweep cycle, independent of allocation
// pressure. Mainly useful for tests that want a deterministic heap shape.
func (rt *Runtime) Collect() {
	rt.heap.collect()
}
