package interp

import "fmt"

// ThrownException wraps a script-level thrown Value (from `throw`, or from
// an internal abstract operation such as a missing binding or a call to a
// non-callable target). It is catchable by script `try`/`catch`.
type ThrownException struct {
	Value Value
}

func (e *ThrownException) Error() string {
	return "uncaught exception: " + e.Value.String()
}

// Throw constructs a *ThrownException, the uniform way every abstract
// operation failure and every script `throw` statement signals a catchable
// error.
func Throw(v Value) error {
	return &ThrownException{Value: v}
}

// throwf builds a *ThrownException around a plain Error-class script object
// carrying message, matching the stable wording every abstract operation
// failure uses.
func throwf(class, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	obj := NewObject(Undefined{})
	obj.Class = class
	obj.SetOwn("message", String(msg))
	obj.SetOwn("name", String(class))
	return Throw(obj)
}

func throwReferenceError(name string) error {
	return throwf("ReferenceError", "%s is not defined", name)
}

func throwNotAFunction(label string) error {
	return throwf("TypeError", "%s is not a function", label)
}

func throwCannotReadProperty(key string, onNull bool) error {
	base := "undefined"
	if onNull {
		base = "null"
	}
	return throwf("TypeError", "Cannot read properties of %s (reading '%s')", base, key)
}

// TimeoutError signals that the interpreter's operation-count ceiling was
// exceeded. It is deliberately NOT a *ThrownException: it must bypass every
// script `catch` handler while still unwinding through `finally` blocks, so
// the statement evaluator special-cases it rather than routing it through
// the signal/exception machinery a user-level throw uses.
type TimeoutError struct {
	MaxOps int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution timeout: maximum operations exceeded (%d)", e.MaxOps)
}

// uncatchable reports whether err must bypass script catch clauses.
func uncatchable(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}

func unhandledNodeType(t string) error {
	return fmt.Errorf("unhandled node type: %s", t)
}

func errWithUnsupported() error {
	return fmt.Errorf("with statement is not supported")
}

func errEvalUnsupported() error {
	return fmt.Errorf("eval() is not supported without a parser")
}
