package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/tinylisp/secd"
)

// runDump compiles each top-level form read from rd and writes its
// disassembly to out, without running any of it.
func runDump(rt *secd.Runtime, rd *secd.Reader, out io.Writer) error {
	n := 0
	for {
		form, err := rt.Read(rd)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		code, cerr := rt.Compile(form)
		form.Close()
		if cerr != nil {
			return cerr
		}
		fmt.Fprintf(out, "; form %d\n", n)
		if err := rt.PrintCode(out, code); err != nil {
			code.Close()
			return err
		}
		code.Close()
		n++
	}
}
