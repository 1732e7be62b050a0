package secd

import (
	"bufio"
	"io"
	"unicode"

	"github.com/tinylisp/secd/internal/flushio"
)

// ioCore holds a Runtime's PRINT/READ endpoints. Grounded in the teacher's
// io.go ioCore: a rune-scanning input paired with a flush-able output, both
// defaulting to something inert so a Runtime built with no I/O options
// never blocks or panics touching a nil writer.
type ioCore struct {
	in  io.RuneScanner
	out flushio.WriteFlusher
}

func newRuneScanner(r io.Reader) io.RuneScanner {
	if rs, ok := r.(io.RuneScanner); ok {
		return rs
	}
	return bufio.NewReader(r)
}

type eofReader struct{}

func (*eofReader) Read([]byte) (int, error) { return 0, io.EOF }

var defaultIn io.RuneScanner = bufio.NewReader(&eofReader{})

var discardWriteFlusher = flushio.NewWriteFlusher(io.Discard)

// readInt reads one decimal (optionally signed) integer, skipping leading
// whitespace, per READ's contract. EOF or a malformed token raises a
// vmError.
func (rt *Runtime) readInt() int64 {
	if rt.io.in == nil {
		panic(vmError{OpREAD, "no input configured"})
	}
	r, _, err := rt.io.in.ReadRune()
	for err == nil && unicode.IsSpace(r) {
		r, _, err = rt.io.in.ReadRune()
	}
	if err != nil {
		panic(vmError{OpREAD, err.Error()})
	}

	neg := false
	if r == '-' || r == '+' {
		neg = r == '-'
		r, _, err = rt.io.in.ReadRune()
	}

	var n int64
	digits := 0
	for err == nil && unicode.IsDigit(r) {
		n = n*10 + int64(r-'0')
		digits++
		r, _, err = rt.io.in.ReadRune()
	}
	if digits == 0 {
		panic(vmError{OpREAD, "expected a decimal integer"})
	}
	if err == nil {
		rt.io.in.UnreadRune()
	}
	if neg {
		n = -n
	}
	return n
}
