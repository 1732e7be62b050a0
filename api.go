package secd

import (
	"context"
	"errors"
	"io"

	"github.com/tinylisp/secd/internal/panicerr"
)

// Eval is the common convenience path: compile source, then run the
// compiled code to completion, returning its result. Grounded in the
// teacher's top-level Run, which wraps the whole call through
// internal/panicerr so an unexpected internal panic surfaces as an error
// carrying a stack trace instead of crashing the process.
func (rt *Runtime) Eval(ctx context.Context, source Value) (result Value, err error) {
	err = panicerr.Recover("secd", func() error {
		code, cerr := rt.Compile(source)
		if cerr != nil {
			return cerr
		}
		defer code.Close()
		v, rerr := rt.Run(ctx, code)
		if rerr != nil {
			return rerr
		}
		result = v
		return nil
	})
	if err != nil {
		result = Value{}
	}
	return result, err
}

// EvalSource reads every form out of r in turn, compiling and running each
// one against this Runtime's persistent global frame, and returns the
// result of the last one. This is the shape a script file or a REPL-style
// batch of top-level forms takes: each form sees defuns an earlier form in
// the same call established, matching Compile's cross-call name
// persistence (see runtime.go).
func (rt *Runtime) EvalSource(ctx context.Context, rd *Reader) (result Value, err error) {
	err = panicerr.Recover("secd", func() error {
		any := false
		for {
			form, rerr := rt.Read(rd)
			if rerr != nil {
				if errors.Is(rerr, io.EOF) {
					break
				}
				return rerr
			}
			any = true
			v, eerr := rt.Eval(ctx, form)
			form.Close()
			if eerr != nil {
				return eerr
			}
			result.Close()
			result = v
		}
		if !any {
			result = rt.Nil()
		}
		return nil
	})
	return result, err
}
