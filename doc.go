// Package secd implements a small Lisp-like s-expression language: a
// compiler targeting the classic SECD abstract machine (Landin's Stack,
// Environment, Control, Dump architecture), a mark-and-sweep cell heap
// backing it, and the virtual machine that executes the compiled bytecode.
//
// A Runtime is one independent machine: its own heap, symbol table and
// compile-time global frame. Source is turned into bytecode with Compile,
// and bytecode is executed with Run; Eval and EvalSource combine the two
// for the common case of running a form (or a whole file of forms) to
// completion.
package secd
