package secd

// cellStatus tags the lifecycle state of a cell. Marked only exists during
// a collection cycle; outside of Mark/Sweep every cell is either Used or
// Free.
type cellStatus uint8

const (
	statusUsed cellStatus = iota
	statusMarked
	statusFree
)

// CellKind names the four shapes a cell's payload can take.
type CellKind uint8

const (
	// KindInteger cells hold a 64-bit signed integer.
	KindInteger CellKind = iota
	// KindSymbol cells hold a non-owning reference to an interned name.
	KindSymbol
	// KindCons cells hold a car/cdr pair.
	KindCons
	// KindClosure cells hold a body/environment pair.
	KindClosure
)

func (k CellKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindSymbol:
		return "symbol"
	case KindCons:
		return "cons"
	case KindClosure:
		return "closure"
	default:
		return "invalid"
	}
}

// cell is the single heap object. Its payload fields are all present at
// once, C-union style, and are only meaningful for the matching kind: an
// Integer cell reads ival, a Symbol cell reads name, a Cons cell reads
// a/b as car/cdr, a Closure cell reads a/b as body/environment.
//
// A Free cell's a field threads the free list; its kind and other fields
// are stale and must not be read.
type cell struct {
	status cellStatus
	kind   CellKind

	ival int64
	name string

	a, b *cell
}

// defaultBankSize is the number of cells per bank when a Runtime doesn't
// configure one explicitly. 1000 is the design value from the original
// implementation.
const defaultBankSize = 1000

// bank is a contiguously-allocated slice of cells plus a link to the
// previously-allocated bank. Every bank in a given heap is the same size
// (heap.bankSize, fixed at construction), and banks are only ever
// appended; freeing an empty bank is left as an extension (see
// DESIGN.md). The slice never grows after allocation, so pointers into
// it (&b.cells[i]) stay stable for the bank's lifetime.
type bank struct {
	cells []cell
	prev  *bank
}
