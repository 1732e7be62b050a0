package secd

// Opcode is one SECD instruction. Numeric values are frozen by spec.md's
// bytecode format and must never be renumbered.
type Opcode int64

const (
	OpNIL   Opcode = 0
	OpLDC   Opcode = 1
	OpLD    Opcode = 2
	OpSEL   Opcode = 3
	OpJOIN  Opcode = 4
	OpLDF   Opcode = 5
	OpAP    Opcode = 6
	OpRTN   Opcode = 7
	OpDUM   Opcode = 8
	OpRAP   Opcode = 9
	OpDEFUN Opcode = 10
	OpPOP   Opcode = 11

	OpCONS  Opcode = 90
	OpCAR   Opcode = 91
	OpCDR   Opcode = 92
	OpCONSP Opcode = 94

	OpADD Opcode = 100
	OpSUB Opcode = 101
	OpMUL Opcode = 102
	OpDIV Opcode = 103
	OpEQ  Opcode = 104
	OpLT  Opcode = 105
	OpGT  Opcode = 106

	OpPRINT Opcode = 110
	OpREAD  Opcode = 111
)

var opcodeNames = map[Opcode]string{
	OpNIL:   "NIL",
	OpLDC:   "LDC",
	OpLD:    "LD",
	OpSEL:   "SEL",
	OpJOIN:  "JOIN",
	OpLDF:   "LDF",
	OpAP:    "AP",
	OpRTN:   "RTN",
	OpDUM:   "DUM",
	OpRAP:   "RAP",
	OpDEFUN: "DEFUN",
	OpPOP:   "POP",
	OpCONS:  "CONS",
	OpCAR:   "CAR",
	OpCDR:   "CDR",
	OpCONSP: "CONSP",
	OpADD:   "ADD",
	OpSUB:   "SUB",
	OpMUL:   "MUL",
	OpDIV:   "DIV",
	OpEQ:    "EQ",
	OpLT:    "LT",
	OpGT:    "GT",
	OpPRINT: "PRINT",
	OpREAD:  "READ",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// operandCount reports how many immediate operands follow op in the code
// list: LDC takes a literal, LD takes a (depth . offset) pair, SEL and LDF
// take sub-code lists, the rest take none.
func (op Opcode) operandCount() int {
	switch op {
	case OpLDC, OpLD:
		return 1
	case OpSEL:
		return 2
	case OpLDF:
		return 1
	default:
		return 0
	}
}
