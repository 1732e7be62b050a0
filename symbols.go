package secd

// symbolTable interns symbol names to unique cells: spec.md's symbol
// equality is cell identity, so two lookups of the same name must always
// yield the same *cell, never merely equal names.
//
// Grounded in the teacher's symbols.go, which interned names to small
// integer ids in a slice+map pair. Here the "id" each name maps to is the
// heap cell itself rather than an index, since downstream code (the
// compiler's environment frames, the VM's LD/LDF dispatch) wants to carry
// a Value around, not translate back and forth between ids and cells.
type symbolTable struct {
	byName map[string]*cell
	// roots holds one stable **cell per interned symbol, registered with
	// the heap for the lifetime of the Runtime. A plain slice of *cell
	// cannot serve as the root key: append may reallocate its backing
	// array and move every element's address, invalidating any already
	// registered with addRoot. Each entry here is heap-allocated once via
	// new and never moves.
	roots []**cell
}

// intern returns the unique symbol cell for name, allocating and
// permanently rooting one on first use. Permanently rooted because a
// symbol, once named in source or code, must never be collected for as
// long as its Runtime lives — the same guarantee the original gives its
// global symbol table.
func (rt *Runtime) intern(name string) *cell {
	if rt.symbols.byName == nil {
		rt.symbols.byName = make(map[string]*cell)
	}
	if c, ok := rt.symbols.byName[name]; ok {
		return c
	}
	c := rt.heap.allocate(KindSymbol)
	c.name = name
	rt.symbols.byName[name] = c
	ref := new(*cell)
	*ref = c
	rt.heap.addRoot(ref)
	rt.symbols.roots = append(rt.symbols.roots, ref)
	return c
}

// Symbol interns name and returns an owning handle on it. Repeated calls
// with the same name return handles that are Eq but independently owned.
func (rt *Runtime) Symbol(name string) Value {
	return rt.newValue(rt.intern(name))
}
