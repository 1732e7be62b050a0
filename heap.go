package secd

import "fmt"

// GCStats reports the counters named in spec.md's gc_stats() contract.
type GCStats struct {
	AllocationsSinceGC int
	LiveObjects        int
	Banks              int
	RootChanges        int
}

// heap owns the bank chain, the free list threaded through it, and the set
// of live roots. It is a process-wide singleton in the original design;
// here it is a field of Runtime so that a process can run more than one
// independent SECD machine (see §5 of SPEC_FULL.md).
type heap struct {
	top      *bank
	banks    int
	freeList *cell

	roots       map[**cell]struct{}
	rootChanges int

	allocations int
	live        int

	bankLimit int
	bankSize  int

	logf func(mess string, args ...interface{})
}

// rootNotRegisteredError and rootAlreadyRegisteredError indicate a bug in
// Value's own root-tracking bookkeeping, never a mutator mistake: they are
// internal invariant violations, not ordinary runtime errors.
type rootNotRegisteredError struct{ loc **cell }
type rootAlreadyRegisteredError struct{ loc **cell }

func (e rootNotRegisteredError) Error() string {
	return fmt.Sprintf("remove_root: location %p not registered", e.loc)
}
func (e rootAlreadyRegisteredError) Error() string {
	return fmt.Sprintf("add_root: location %p already registered", e.loc)
}

func (h *heap) addRoot(loc **cell) {
	if h.roots == nil {
		h.roots = make(map[**cell]struct{})
	}
	if _, already := h.roots[loc]; already {
		panic(rootAlreadyRegisteredError{loc})
	}
	h.roots[loc] = struct{}{}
	h.rootChanges++
}

func (h *heap) removeRoot(loc **cell) {
	if _, present := h.roots[loc]; !present {
		panic(rootNotRegisteredError{loc})
	}
	delete(h.roots, loc)
	h.rootChanges++
}

// allocate returns a fresh Used cell. If the free list is empty it runs a
// full collection first; collect guarantees at least one free cell on
// return by growing a new bank if sweeping recovered none.
func (h *heap) allocate(kind CellKind) *cell {
	if h.freeList == nil {
		h.collect()
	}
	c := h.freeList
	h.freeList = c.a
	c.status = statusUsed
	c.kind = kind
	c.ival = 0
	c.name = ""
	c.a, c.b = nil, nil
	h.allocations++
	return c
}

// allocateInteger returns a fresh Integer cell holding n.
func (h *heap) allocateInteger(n int64) *cell {
	c := h.allocate(KindInteger)
	c.ival = n
	return c
}

// allocateCons returns a fresh Cons cell with the given car/cdr.
func (h *heap) allocateCons(a, b *cell) *cell {
	c := h.allocate(KindCons)
	c.a, c.b = a, b
	return c
}

// allocateClosure returns a fresh Closure cell with the given body/env.
func (h *heap) allocateClosure(body, env *cell) *cell {
	c := h.allocate(KindClosure)
	c.a, c.b = body, env
	return c
}

// collect runs one full mark-sweep cycle, growing the heap with a new bank
// if sweeping recovered no free cells.
func (h *heap) collect() {
	h.mark()
	recovered := h.sweep()
	if h.freeList == nil {
		h.growBank()
	}
	if h.logf != nil {
		h.logf("gc: allocations %v, live %v, recovered %v, banks %v",
			h.allocations, h.live, recovered, h.banks)
	}
	h.allocations = 0
}

// mark walks every root, marking everything transitively reachable from it.
func (h *heap) mark() {
	h.live = 0
	work := make([]*cell, 0, len(h.roots))
	for loc := range h.roots {
		work = append(work, *loc)
	}
	for len(work) > 0 {
		n := len(work) - 1
		c := work[n]
		work = work[:n]
		if c == nil || c.status == statusMarked {
			continue
		}
		c.status = statusMarked
		h.live++
		switch c.kind {
		case KindCons, KindClosure:
			work = append(work, c.a, c.b)
		}
	}
}

// sweep walks every bank, demoting Marked cells back to Used and reclaiming
// unmarked Used cells onto the free list. A recovered cell is threaded onto
// whatever the free-list head currently is, so the list freely crosses bank
// boundaries without needing a distinguished end-of-bank marker: the head
// itself is the only state the allocator ever consults. Returns the number
// of cells recovered.
func (h *heap) sweep() (recovered int) {
	for b := h.top; b != nil; b = b.prev {
		for i := range b.cells {
			c := &b.cells[i]
			switch c.status {
			case statusMarked:
				c.status = statusUsed
			case statusUsed:
				c.status = statusFree
				c.a = h.freeList
				h.freeList = c
				recovered++
			}
		}
	}
	return recovered
}

// growBank appends a new bank and threads its cells onto the free list,
// pushing the whole bank in front of whatever was already free (typically
// nothing, since growBank only runs when a collection recovered no cells).
// Bank growth never removes banks once appended (see spec.md §4.1 and
// DESIGN.md's note on the optional bank-reclamation extension).
func (h *heap) growBank() {
	if h.bankLimit > 0 && h.banks >= h.bankLimit {
		panic(memLimitError{h.bankLimit})
	}
	size := h.bankSize
	if size <= 0 {
		size = defaultBankSize
	}
	b := &bank{prev: h.top, cells: make([]cell, size)}
	for i := range b.cells {
		c := &b.cells[i]
		c.status = statusFree
		if i == size-1 {
			c.a = h.freeList
		} else {
			c.a = &b.cells[i+1]
		}
	}
	h.top = b
	h.banks++
	h.freeList = &b.cells[0]
}

func (h *heap) stats() GCStats {
	return GCStats{
		AllocationsSinceGC: h.allocations,
		LiveObjects:        h.live,
		Banks:              h.banks,
		RootChanges:        h.rootChanges,
	}
}
