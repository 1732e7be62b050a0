package main

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tinylisp/secd"
	"github.com/tinylisp/secd/internal/panicerr"
)

// BatchResult is one program's outcome from runBatch.
type BatchResult struct {
	Source string
	Value  string
	Err    error
}

// runBatch compiles and runs each of sources independently, each against
// its own fresh Runtime on its own goroutine: Runtimes share no heap, no
// symbol table and no root set, so one program faulting or looping never
// affects another's result. Grounded in vovakirdan-surge's parallel.go
// errgroup-with-bounded-concurrency pattern, combined with
// internal/panicerr's goroutine-isolate-and-recover-into-error wrapper
// per program (the same one api.go's Eval/EvalSource already use).
func runBatch(ctx context.Context, sources []string, jobs int) []BatchResult {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]BatchResult, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			results[i] = runOne(gctx, src)
			return nil
		})
	}
	g.Wait()
	return results
}

func runOne(ctx context.Context, src string) BatchResult {
	res := BatchResult{Source: src}
	err := panicerr.Recover("secd", func() error {
		rt := secd.NewRuntime()
		rd := secd.NewReader(strings.NewReader(src))
		v, err := rt.EvalSource(ctx, rd)
		if err != nil {
			return err
		}
		res.Value = v.String()
		v.Close()
		return nil
	})
	if err != nil {
		res.Err = err
	}
	return res
}
