// Package errors formats evaluation-time diagnostics for the jailjs CLI
// demo. The core interpreter package never imports this: it communicates
// failures via Go's error interface (interp.ThrownException,
// interp.TimeoutError) so embedders can handle them however they like. This
// package exists purely to render those errors for a terminal.
package errors

import (
	"fmt"

	"github.com/badlogic/jailjs/ast"
)

// Diagnostic pairs a message with the source position it came from, the
// minimum an embedder needs to report a useful location. There is no
// source-line/caret rendering here: the core never retains the original
// source text, only ast.Position values carried on each node — parsing and
// its diagnostics are the host's responsibility.
type Diagnostic struct {
	Message string
	Pos     ast.Position
	File    string
}

// NewDiagnostic builds a Diagnostic from an evaluation error and the node
// position it was raised against.
func NewDiagnostic(file string, pos ast.Position, err error) *Diagnostic {
	return &Diagnostic{Message: err.Error(), Pos: pos, File: file}
}

func (d *Diagnostic) Error() string { return d.Format() }

// Format renders "file:line:col: message", omitting the position when it is
// unknown (position 0:0, meaning the originating node never set one).
func (d *Diagnostic) Format() string {
	if d.Pos.Line == 0 && d.Pos.Column == 0 {
		if d.File == "" {
			return d.Message
		}
		return fmt.Sprintf("%s: %s", d.File, d.Message)
	}
	file := d.File
	if file == "" {
		file = "<script>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", file, d.Pos.Line, d.Pos.Column, d.Message)
}

// CallFrame is one entry of a reconstructed call-stack trace, used when the
// embedder wants to show where a thrown exception originated through nested
// script calls.
type CallFrame struct {
	FunctionName string
	Pos          ast.Position
}

func (f CallFrame) String() string {
	if f.Pos.Line == 0 && f.Pos.Column == 0 {
		return f.FunctionName
	}
	return fmt.Sprintf("%s [line %d, column %d]", f.FunctionName, f.Pos.Line, f.Pos.Column)
}

// CallStack is a sequence of CallFrame, oldest call first.
type CallStack []CallFrame

// String renders frames newest-first, matching how stack traces are
// conventionally displayed.
func (s CallStack) String() string {
	out := ""
	for idx := len(s) - 1; idx >= 0; idx-- {
		out += s[idx].String()
		if idx > 0 {
			out += "\n"
		}
	}
	return out
}
