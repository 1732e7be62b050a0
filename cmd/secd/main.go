// Command secd compiles and runs s-expression source through the SECD
// machine implemented by github.com/tinylisp/secd.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tinylisp/secd"
)

func main() {
	ctx := context.Background()

	var (
		timeout   time.Duration
		trace     bool
		bankSize  int
		bankLimit int
		dump      bool
		gcStats   bool
		batch     bool
		jobs      int
	)
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable VM/GC trace logging")
	flag.IntVar(&bankSize, "bank-size", 0, "cells per heap bank (0: use the built-in default)")
	flag.IntVar(&bankLimit, "bank-limit", 0, "cap the heap at this many banks (0: unbounded)")
	flag.BoolVar(&dump, "dump", false, "print disassembled bytecode instead of running it")
	flag.BoolVar(&gcStats, "gc-stats", false, "print heap statistics after running")
	flag.BoolVar(&batch, "batch", false, "run each file argument as an independent program, concurrently")
	flag.IntVar(&jobs, "jobs", 0, "batch concurrency limit (0: GOMAXPROCS)")
	flag.Parse()

	if batch {
		runBatchCommand(flag.Args(), jobs, timeout)
		return
	}

	opts := []secd.RuntimeOption{
		secd.WithInput(os.Stdin),
		secd.WithOutput(os.Stdout),
	}
	if trace {
		opts = append(opts, secd.WithLogf(log.Printf))
	}
	if bankSize != 0 {
		opts = append(opts, secd.WithBankSize(bankSize))
	}
	if bankLimit != 0 {
		opts = append(opts, secd.WithBankLimit(bankLimit))
	}
	rt := secd.NewRuntime(opts...)

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	args := flag.Args()
	var rd *secd.Reader
	if len(args) == 0 {
		rd = secd.NewReader(os.Stdin)
	} else {
		f, err := os.Open(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		rd = secd.NewReader(f)
		for _, extra := range args[1:] {
			g, err := os.Open(extra)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
				os.Exit(1)
			}
			defer g.Close()
			rd.AddSource(g)
		}
	}

	if dump {
		if err := runDump(rt, rd, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
			os.Exit(1)
		}
		return
	}

	result, err := rt.EvalSource(ctx, rd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
	fmt.Println(result.String())

	if gcStats {
		stats := rt.GC()
		fmt.Fprintf(os.Stderr, "gc: banks=%v live=%v allocations=%v root-changes=%v\n",
			stats.Banks, stats.LiveObjects, stats.AllocationsSinceGC, stats.RootChanges)
	}
}

// runBatchCommand loads every file argument's full contents as one
// independent program and runs them all concurrently, printing one result
// line per program in argument order.
func runBatchCommand(files []string, jobs int, timeout time.Duration) {
	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	sources := make([]string, len(files))
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		sources[i] = string(data)
	}

	failed := false
	for i, res := range runBatch(ctx, sources, jobs) {
		if res.Err != nil {
			failed = true
			fmt.Printf("%v: ERROR: %+v\n", files[i], res.Err)
			continue
		}
		fmt.Printf("%v: %v\n", files[i], res.Value)
	}
	if failed {
		os.Exit(1)
	}
}
