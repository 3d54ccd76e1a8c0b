package interp

import "github.com/badlogic/jailjs/ast"

// Option is a function that configures an Interpreter. Options are applied
// during construction via NewInterpreter().
type Option func(*Interpreter)

// WithMaxOps sets the operation-count ceiling that triggers a TimeoutError.
// A value of 0 disables the guard entirely; embedders running untrusted
// scripts should never do this. Without this option the interpreter runs
// unbounded.
func WithMaxOps(n int) Option {
	return func(i *Interpreter) {
		i.maxOps = n
	}
}

// ParseFunc compiles source text into a Program for the script-level eval()
// primitive. Embedders that never expose eval to script can omit
// WithParse entirely; calling eval() then fails with errEvalUnsupported.
type ParseFunc func(source string) (*ast.Program, error)

// WithParse wires a host-supplied parser into the dynamic-eval primitive.
// Without it, eval() throws rather than silently doing nothing.
func WithParse(fn ParseFunc) Option {
	return func(i *Interpreter) {
		i.parse = fn
	}
}
