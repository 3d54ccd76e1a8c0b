// Package interp implements the jailjs tree-walking evaluator.
//
// The evaluator walks a pre-parsed AST (package ast) against a mutable
// interpreter state: a global environment frame, an operation counter, and
// an optional dynamic-evaluation callback. It owns:
//   - the runtime value model (value.go)
//   - lexical scope chains (environment.go)
//   - the hoisting pre-pass (hoist.go)
//   - non-local control-flow signalling, disjoint from user exceptions
//     (control_flow.go)
//   - expression and statement evaluation (expressions.go, statements.go)
//   - script function objects and the call/apply/bind adapters (function.go)
//   - the native/script call boundary (host_bridge.go)
//   - the default globals table and the reflective-access filter (globals.go)
//
// Parsing source text into an AST is out of scope: callers supply a
// *ast.Program, typically produced by their own parser or desugaring stage.
package interp
