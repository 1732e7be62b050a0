package secd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tinylisp/secd/internal/runeio"
)

// writeCell renders c in s-expression syntax: integers as decimal, symbols
// by name, proper lists as "(a b c)", improper lists with a trailing
// ". tail", and closures as an opaque "#<closure>" token, since a closure
// is not itself a reader-producible literal.
func writeCell(w io.Writer, c *cell, nilCell *cell) {
	switch c.kind {
	case KindInteger:
		io.WriteString(w, strconv.FormatInt(c.ival, 10))
	case KindSymbol:
		runeio.WriteANSIString(w, c.name)
	case KindClosure:
		io.WriteString(w, "#<closure>")
	case KindCons:
		io.WriteString(w, "(")
		writeCell(w, c.a, nilCell)
		rest := c.b
		for rest != nilCell && rest.kind == KindCons {
			io.WriteString(w, " ")
			writeCell(w, rest.a, nilCell)
			rest = rest.b
		}
		if rest != nilCell {
			io.WriteString(w, " . ")
			writeCell(w, rest, nilCell)
		}
		io.WriteString(w, ")")
	default:
		fmt.Fprintf(w, "#<invalid kind %v>", c.kind)
	}
}

// printCell writes c to the Runtime's configured output sink in
// s-expression syntax followed by a newline, then flushes, per PRINT's
// contract in spec.md.
func (rt *Runtime) printCell(c *cell) {
	writeCell(rt.io.out, c, rt.wellKnown.nilCell)
	io.WriteString(rt.io.out, "\n")
	rt.io.out.Flush()
}

// String renders v in s-expression syntax, the same form PRINT emits.
func (v Value) String() string {
	var sb stringsBuilder
	writeCell(&sb, v.cellRef(), v.root.rt.wellKnown.nilCell)
	return sb.String()
}

// stringsBuilder is a minimal io.Writer sink; kept local rather than
// importing strings.Builder's whole surface for one use site.
type stringsBuilder struct{ buf []byte }

func (sb *stringsBuilder) Write(p []byte) (int, error) {
	sb.buf = append(sb.buf, p...)
	return len(p), nil
}
func (sb *stringsBuilder) String() string { return string(sb.buf) }

// codeDumper disassembles a compiled code list into one instruction per
// line, each prefixed with its ordinal offset. Grounded in the teacher's
// dumper.go, which walks a flat memory image printing one decoded
// instruction per address; here the "addresses" are positions along the
// compiled cons-list instead of memory cells, since the compiler targets a
// list-structured instruction stream rather than a byte-addressable one.
type codeDumper struct {
	rt  *Runtime
	out io.Writer
}

// PrintCode disassembles code to w, one instruction per line, recursively
// expanding the nested code lists SEL and LDF carry as operands with
// increasing indent.
func (rt *Runtime) PrintCode(w io.Writer, code Value) error {
	d := codeDumper{rt: rt, out: w}
	return d.dumpList(code.cellRef(), 0)
}

func (d *codeDumper) dumpList(c *cell, indent int) error {
	nilCell := d.rt.wellKnown.nilCell
	offset := 0
	for c != nilCell {
		if c.kind != KindCons {
			fmt.Fprintf(d.out, "%*s; improper code list tail: %v\n", indent, "", c)
			return nil
		}
		opCell := c.a
		if opCell.kind != KindInteger {
			fmt.Fprintf(d.out, "%*s%3d  <non-opcode: %v>\n", indent, "", offset, opCell)
			c = c.b
			offset++
			continue
		}
		op := Opcode(opCell.ival)
		rest := c.b
		fmt.Fprintf(d.out, "%*s%3d  %v", indent, "", offset, op)
		switch op {
		case OpLDC:
			if rest.kind == KindCons {
				fmt.Fprintf(d.out, " ")
				writeCell(d.out, rest.a, nilCell)
				rest = rest.b
			}
			fmt.Fprintln(d.out)
		case OpLD:
			if rest.kind == KindCons {
				fmt.Fprintf(d.out, " ")
				writeCell(d.out, rest.a, nilCell)
				rest = rest.b
			}
			fmt.Fprintln(d.out)
		case OpSEL:
			fmt.Fprintln(d.out)
			if rest.kind == KindCons {
				fmt.Fprintf(d.out, "%*s  then:\n", indent, "")
				d.dumpList(rest.a, indent+4)
				rest = rest.b
			}
			if rest.kind == KindCons {
				fmt.Fprintf(d.out, "%*s  else:\n", indent, "")
				d.dumpList(rest.a, indent+4)
				rest = rest.b
			}
		case OpLDF:
			fmt.Fprintln(d.out)
			if rest.kind == KindCons {
				d.dumpList(rest.a, indent+4)
				rest = rest.b
			}
		default:
			fmt.Fprintln(d.out)
		}
		c = rest
		offset++
	}
	return nil
}
