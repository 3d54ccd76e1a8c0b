package interp

import "github.com/badlogic/jailjs/ast"

// ScriptFunction is a user-defined function object created by a
// FunctionDeclaration, FunctionExpression, or ArrowFunctionExpression.
// It implements Value so it can flow through the same channels as any other
// runtime value.
type ScriptFunction struct {
	Name      string
	Params    []*ast.Identifier
	Body      ast.Node // *ast.BlockStatement, or a bare Expression for concise arrows
	Closure   *Environment
	IsArrow   bool // arrows have no own this/arguments and no prototype property

	// Bound-function state, set by bind(). Original is nil for an ordinary
	// function.
	Original  *ScriptFunction
	BoundThis Value
	BoundArgs []Value

	proto *Object // the function's own `prototype` object, lazily nil for arrows/bound
}

func (*ScriptFunction) Type() string { return "function" }
func (f *ScriptFunction) String() string {
	if f.Name != "" {
		return "function " + f.Name + "() { [script code] }"
	}
	return "function () { [script code] }"
}

// makeFunction builds a ScriptFunction closing over frame. selfName is
// non-empty for named function expressions, which get their own binding
// frame so the function can refer to itself.
func (i *Interpreter) makeFunction(params []*ast.Identifier, body ast.Node, frame *Environment, selfName string, isArrow bool) *ScriptFunction {
	closure := frame
	fn := &ScriptFunction{Params: params, Body: body, IsArrow: isArrow}
	if selfName != "" {
		closure = NewBlockFrame(frame)
		fn.Name = selfName
	}
	fn.Closure = closure
	if selfName != "" {
		closure.DeclareLet(selfName, fn)
	}
	if !isArrow {
		fn.proto = NewObject(Undefined{})
		fn.proto.SetOwn("constructor", fn)
	}
	return fn
}

// prototypeProperty returns the function's own `prototype` object, or
// Undefined for arrows and bound functions, which have none.
func (f *ScriptFunction) prototypeProperty() Value {
	if f.proto == nil {
		return Undefined{}
	}
	return f.proto
}

// bind implements Function.prototype.bind: a bound function forwards calls
// to Original with thisArg and leading args fixed. Binding an already-bound
// function keeps its first bound this and appends the new leading args.
// Bound functions cannot be used with `new` (see construct).
func (f *ScriptFunction) bind(thisArg Value, args []Value) *ScriptFunction {
	origin := f
	if f.Original != nil {
		origin = f.Original
		thisArg = f.BoundThis
	}
	return &ScriptFunction{
		Name:      "bound " + origin.Name,
		Original:  origin,
		BoundThis: thisArg,
		BoundArgs: append(append([]Value{}, f.BoundArgs...), args...),
	}
}

// Invoke calls any callable Value — a *ScriptFunction or a callable
// *HostValue — implementing the bidirectional native/script call boundary:
// script code calling a host function and host code calling back into
// script both funnel through this one entry point.
func (i *Interpreter) Invoke(callee Value, thisArg Value, args []Value, isNew bool) (Value, error) {
	switch fn := callee.(type) {
	case *ScriptFunction:
		return i.callScriptFunction(fn, thisArg, args, isNew)
	case *HostValue:
		if !fn.IsCallable() {
			return nil, throwNotAFunction(fn.String())
		}
		return fn.Native(i, thisArg, args, isNew)
	default:
		return nil, throwNotAFunction(valueLabel(callee))
	}
}

func valueLabel(v Value) string {
	if v == nil {
		return "undefined"
	}
	return v.String()
}

// callScriptFunction runs the invocation procedure: bound functions forward
// to their origin with fixed this/args, arrows never rebind this, and every
// ordinary call gets a fresh function-frame environment seeded with
// parameters, `arguments`, and (for non-arrows) `this`.
func (i *Interpreter) callScriptFunction(fn *ScriptFunction, thisArg Value, args []Value, isNew bool) (Value, error) {
	if fn.Original != nil {
		return i.callScriptFunction(fn.Original, fn.BoundThis, append(append([]Value{}, fn.BoundArgs...), args...), isNew)
	}

	if isNew && fn.IsArrow {
		return nil, throwNotAFunction(fn.String())
	}

	frame := NewFunctionFrame(fn.Closure)

	if !fn.IsArrow {
		frame.DeclareLet("this", thisArg)
		frame.DeclareLet("arguments", makeArguments(args))
	}

	for idx, p := range fn.Params {
		var v Value = Undefined{}
		if idx < len(args) {
			v = args[idx]
		}
		frame.DeclareLet(p.Name, v)
	}

	body, ok := fn.Body.(*ast.BlockStatement)
	if !ok {
		// Concise-form arrow: Body is a bare Expression.
		expr, ok := fn.Body.(ast.Expression)
		if !ok {
			return nil, unhandledNodeType(fn.Body.Type())
		}
		return i.evalExpression(frame, expr)
	}

	i.hoist(frame, body.Body)
	sig, err := i.execStatements(frame, body.Body)
	if err != nil {
		return nil, err
	}
	if sig != nil && sig.kind == signalReturn {
		return sig.value, nil
	}
	return Undefined{}, nil
}

// functionCallMethod/functionApplyMethod/functionBindMethod implement
// Function.prototype.call/apply/bind as bare HostValues shared across every
// ScriptFunction, since the receiver arrives as the Native call's thisArg
// rather than anything they need to close over.
var functionCallMethod = &HostValue{
	Label: "function call() { [native code] }",
	Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
		fn, ok := this.(*ScriptFunction)
		if !ok {
			return nil, throwNotAFunction(valueLabel(this))
		}
		var thisArg Value = Undefined{}
		var rest []Value
		if len(args) > 0 {
			thisArg = args[0]
			rest = args[1:]
		}
		return i.Invoke(fn, thisArg, rest, false)
	},
}

var functionApplyMethod = &HostValue{
	Label: "function apply() { [native code] }",
	Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
		fn, ok := this.(*ScriptFunction)
		if !ok {
			return nil, throwNotAFunction(valueLabel(this))
		}
		var thisArg Value = Undefined{}
		if len(args) > 0 {
			thisArg = args[0]
		}
		var rest []Value
		if len(args) > 1 {
			if arr, ok := args[1].(*Object); ok && (arr.Class == "Array" || arr.Class == "Arguments") {
				rest = append([]Value{}, arr.Elements...)
			}
		}
		return i.Invoke(fn, thisArg, rest, false)
	},
}

var functionBindMethod = &HostValue{
	Label: "function bind() { [native code] }",
	Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
		fn, ok := this.(*ScriptFunction)
		if !ok {
			return nil, throwNotAFunction(valueLabel(this))
		}
		var thisArg Value = Undefined{}
		var rest []Value
		if len(args) > 0 {
			thisArg = args[0]
			rest = args[1:]
		}
		return fn.bind(thisArg, rest), nil
	},
}

func makeArguments(args []Value) *Object {
	obj := NewArray(append([]Value{}, args...), Undefined{})
	return obj
}

// construct implements `new Callee(...)`: a fresh object is created with its
// prototype set from Callee.prototype, the function body runs with that
// object as `this`, and if the body explicitly returns an object-typed
// value — a plain object or a function, functions being object-typed too —
// that value is used instead of the freshly built instance. `null` is not
// object-typed for this check since a typeof-null value can't carry
// properties.
func (i *Interpreter) construct(callee Value, args []Value) (Value, error) {
	switch fn := callee.(type) {
	case *ScriptFunction:
		if fn.Original != nil {
			return nil, throwNotAFunction(fn.String())
		}
		origin := fn
		for origin.Original != nil {
			origin = origin.Original
		}
		proto := origin.prototypeProperty()
		if _, ok := proto.(*Object); !ok {
			proto = Undefined{}
		}
		instance := NewObject(proto)
		result, err := i.callScriptFunction(fn, instance, args, true)
		if err != nil {
			return nil, err
		}
		switch result.(type) {
		case *Object, *ScriptFunction:
			return result, nil
		}
		return instance, nil
	case *HostValue:
		if !fn.Constructible {
			return nil, throwNotAFunction(fn.String())
		}
		return fn.Native(i, Undefined{}, args, true)
	default:
		return nil, throwNotAFunction(valueLabel(callee))
	}
}
