// Package jailjs is the embedder-facing facade over the jailjs ES5
// evaluator: construct an Engine with a capability table of host values,
// hand it a pre-parsed AST, and get back a Result or a catchable/uncatchable
// error.
package jailjs

import (
	"github.com/badlogic/jailjs/ast"
	"github.com/badlogic/jailjs/internal/interp"
)

// Option configures an Engine at construction time, mirroring the
// functional-options pattern used throughout this module's interpreter
// layer (see internal/interp.Option).
type Option func(*engineConfig)

type engineConfig struct {
	maxOps int
	parse  ParseFunc
}

// ParseFunc compiles source text into an AST for the script-level eval()
// primitive. Passing one via WithParse is the only way eval() becomes
// usable; without it eval() throws.
type ParseFunc func(source string) (*ast.Program, error)

// WithMaxOps bounds the number of evaluation steps a single Eval call may
// take before it fails with a *TimeoutExceededError. Unset (or 0), the guard is
// disabled and Eval runs unbounded — fine for trusted scripts, not
// recommended for untrusted ones.
func WithMaxOps(n int) Option {
	return func(c *engineConfig) { c.maxOps = n }
}

// WithParse wires a host-supplied parser into the dynamic-eval primitive.
func WithParse(fn ParseFunc) Option {
	return func(c *engineConfig) { c.parse = fn }
}

// Engine is one configured evaluator instance. It is not safe for
// concurrent use by multiple goroutines evaluating simultaneously — create
// one Engine per concurrent evaluation, or serialize calls to Eval.
type Engine struct {
	interp *interp.Interpreter
}

// New creates an Engine whose global scope is seeded with globals (the
// capability table the host exposes to script) plus the curated default
// built-ins.
func New(globals map[string]any, opts ...Option) (*Engine, error) {
	cfg := &engineConfig{maxOps: 0}
	for _, opt := range opts {
		opt(cfg)
	}

	hostGlobals := make(map[string]interp.Value, len(globals))
	for name, v := range globals {
		hostGlobals[name] = ToValue(v)
	}

	var interpOpts []interp.Option
	if cfg.maxOps != 0 {
		interpOpts = append(interpOpts, interp.WithMaxOps(cfg.maxOps))
	}
	if cfg.parse != nil {
		fn := cfg.parse
		interpOpts = append(interpOpts, interp.WithParse(func(src string) (*ast.Program, error) {
			return fn(src)
		}))
	}

	return &Engine{interp: interp.NewInterpreter(hostGlobals, interpOpts...)}, nil
}

// RegisterGlobal adds or replaces one binding in the engine's global scope
// after construction, for hosts that build their capability table
// incrementally.
func (e *Engine) RegisterGlobal(name string, v any) {
	e.interp.Global().DeclareLet(name, ToValue(v))
}

// Result is the outcome of a successful Eval call: the script's completion
// value, already unwrapped to a plain Go value via FromValue.
type Result struct {
	Value any
}

// Eval runs program against the engine's global scope and returns its
// completion value, the value of the last executed expression statement or
// directive. A script `throw` or an internal abstract operation failure
// surfaces as *ThrownError; exceeding the operation ceiling surfaces as
// *TimeoutExceededError.
func (e *Engine) Eval(program *ast.Program) (*Result, error) {
	v, err := e.interp.Evaluate(program)
	if err != nil {
		return nil, translateError(err)
	}
	return &Result{Value: FromValue(v)}, nil
}
