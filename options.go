package secd

import (
	"io"

	"github.com/tinylisp/secd/internal/flushio"
	"github.com/tinylisp/secd/internal/logio"
)

// RuntimeOption configures a Runtime at construction time. Grounded in the
// teacher's options.go VMOption pattern: a small interface plus a slice of
// defaults applied before the caller's own options, so every option is
// just a value that knows how to mutate a *Runtime.
type RuntimeOption interface{ apply(rt *Runtime) }

var defaultRuntimeOptions = []RuntimeOption{
	withBankLimit(0),
	withBankSize(defaultBankSize),
}

type logfnOption func(mess string, args ...interface{})

func (f logfnOption) apply(rt *Runtime) { rt.logging.logfn = f }

// WithLogf installs a trace sink. Each GC cycle (reporting the bank count
// after any growth it triggered) and each VM instruction step emit one
// line through it when configured; the compiler emits none. A nil logf
// (the default) makes tracing a complete no-op.
func WithLogf(logf func(mess string, args ...interface{})) RuntimeOption {
	return logfnOption(logf)
}

type bankLimitOption int

func (n bankLimitOption) apply(rt *Runtime) {
	rt.bankLimit = int(n)
	rt.heap.bankLimit = int(n)
}

func withBankLimit(n int) RuntimeOption { return bankLimitOption(n) }

// WithBankLimit caps the number of banks the heap may grow to; 0 (the
// default) means unbounded. Exceeding the limit during collection raises
// memLimitError instead of growing further.
func WithBankLimit(n int) RuntimeOption { return bankLimitOption(n) }

type bankSizeOption int

func (n bankSizeOption) apply(rt *Runtime) { rt.heap.bankSize = int(n) }

func withBankSize(n int) RuntimeOption { return bankSizeOption(n) }

// WithBankSize sets the number of cells each bank holds (the default is
// 1000, the design value from the original implementation). Only banks
// grown after this option is applied are affected; it has no effect on
// banks a heap already allocated.
func WithBankSize(n int) RuntimeOption { return bankSizeOption(n) }

type inputOption struct{ r io.Reader }

func (o inputOption) apply(rt *Runtime) { rt.io.in = newRuneScanner(o.r) }

// WithInput sets the source READ draws decimal integers from.
func WithInput(r io.Reader) RuntimeOption { return inputOption{r} }

type outputOption struct{ w io.Writer }

func (o outputOption) apply(rt *Runtime) { rt.io.out = flushio.NewWriteFlusher(o.w) }

// WithOutput sets the sink PRINT writes s-expressions to.
func WithOutput(w io.Writer) RuntimeOption { return outputOption{w} }

type teeOption struct{ w io.Writer }

func (o teeOption) apply(rt *Runtime) {
	if rt.io.out == nil {
		rt.io.out = discardWriteFlusher
	}
	rt.io.out = flushio.WriteFlushers(rt.io.out, flushio.NewWriteFlusher(o.w))
}

// WithTee adds an additional copy-to destination for everything PRINT
// writes, without replacing the primary output — useful for capturing a
// trace log alongside a program's normal output.
func WithTee(w io.Writer) RuntimeOption { return teeOption{w} }

// TeeToLog returns a writer suitable for WithTee that routes PRINT output
// line-by-line through logf instead of a file or buffer, using the same
// line-buffering io.Writer adapter the teacher's internal/logio package
// gives its own diagnostic output.
func TeeToLog(logf func(mess string, args ...interface{})) io.Writer {
	return &logio.Writer{Logf: logf}
}
