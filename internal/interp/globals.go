package interp

import (
	"math"
	"strings"
)

// defaultObjectProto/defaultArrayProto are the prototype objects every plain
// object and array literal links to, giving `for...in` a stable chain root
// and a place for curated built-in methods to live.
var (
	defaultObjectProto = NewObject(Null{})
	defaultArrayProto  = NewObject(defaultObjectProto)
)

// DefaultArrayProto exposes the Array.prototype object so embedders
// constructing arrays outside script (see pkg/jailjs.ToValue) can give them
// the same prototype chain script-literal arrays get.
func DefaultArrayProto() *Object { return defaultArrayProto }

// DefaultObjectProto exposes the Object.prototype object for the same
// reason as DefaultArrayProto.
func DefaultObjectProto() *Object { return defaultObjectProto }

func init() {
	defaultObjectProto.Class = "Object"
	defaultArrayProto.Class = "Array"
	installArrayMethods(defaultArrayProto)
	installStringMethods()
}

// blockedConstructorNames is the set of built-in constructor names the
// reflective filter blocks: a `.constructor` read that resolves to a script
// function with one of these names yields undefined. Function is listed
// too, although no Function constructor is exposed to script.
var blockedConstructorNames = map[string]bool{
	"Object": true, "Array": true, "String": true, "Number": true,
	"Boolean": true, "Function": true, "RegExp": true, "Date": true,
	"Error": true,
}

// reflectiveFilter is the host-boundary read filter. It returns (true,
// replacement) when key's read must be intercepted regardless of what the
// underlying lookup would have produced.
func reflectiveFilter(objVal Value, key string) (blocked bool, replacement Value) {
	switch key {
	case "__proto__":
		return true, Undefined{}
	case "prototype":
		if _, ok := objVal.(*ScriptFunction); ok {
			return false, nil // functions legitimately expose .prototype
		}
		if hv, ok := objVal.(*HostValue); ok && hv.IsCallable() {
			return false, nil
		}
		return true, Undefined{}
	case "constructor":
		if o, ok := objVal.(*Object); ok {
			if v, ok := o.GetOwn("constructor"); ok {
				switch fn := v.(type) {
				case *ScriptFunction:
					if blockedConstructorNames[fn.Name] {
						return true, Undefined{}
					}
				case *HostValue:
					if fn.BuiltinConstructor {
						return true, Undefined{}
					}
				}
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

// installDefaultGlobals seeds frame with the curated built-in surface:
// undefined/NaN/Infinity, the Object/Array/String/Number/Boolean
// constructors, Error with its TypeError/RangeError/ReferenceError/
// SyntaxError variants, JSON, Math, and a console-style logging stub. There
// is no RegExp or Date constructor, and Function is deliberately omitted — no
// dynamic function construction from script.
func installDefaultGlobals(frame *Environment) {
	frame.DeclareLet("undefined", Undefined{})
	frame.DeclareLet("NaN", Number(nan()))
	frame.DeclareLet("Infinity", Number(posInf()))

	objectCtor := objectConstructor()
	arrayCtor := arrayConstructor()
	stringCtor := stringConstructor()
	frame.DeclareLet("Object", objectCtor)
	frame.DeclareLet("Array", arrayCtor)
	frame.DeclareLet("String", stringCtor)
	frame.DeclareLet("Number", numberConstructor())
	frame.DeclareLet("Boolean", booleanConstructor())
	frame.DeclareLet("Error", errorConstructor("Error"))

	// Wire each instance's own prototype back to its constructor so the
	// reflective-access filter has something real to intercept instead of
	// `.constructor` simply resolving to nothing.
	defaultObjectProto.SetOwn("constructor", objectCtor)
	defaultArrayProto.SetOwn("constructor", arrayCtor)
	stringProto.SetOwn("constructor", stringCtor)
	frame.DeclareLet("TypeError", errorConstructor("TypeError"))
	frame.DeclareLet("RangeError", errorConstructor("RangeError"))
	frame.DeclareLet("ReferenceError", errorConstructor("ReferenceError"))
	frame.DeclareLet("SyntaxError", errorConstructor("SyntaxError"))

	frame.DeclareLet("JSON", jsonGlobal())
	frame.DeclareLet("Math", mathGlobal())
	frame.DeclareLet("console", consoleGlobal())
}

func posInf() float64 { return math.Inf(1) }

func objectConstructor() *HostValue {
	return &HostValue{
		Label:              "function Object() { [native code] }",
		BuiltinConstructor: true,
		Constructible:      true,
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			if len(args) > 0 {
				if obj, ok := args[0].(*Object); ok {
					return obj, nil
				}
			}
			return NewObject(defaultObjectProto), nil
		},
	}
}

func arrayConstructor() *HostValue {
	return &HostValue{
		Label:              "function Array() { [native code] }",
		BuiltinConstructor: true,
		Constructible:      true,
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			if len(args) == 1 {
				if n, ok := args[0].(Number); ok {
					return NewArray(make([]Value, int(n)), defaultArrayProto), nil
				}
			}
			return NewArray(append([]Value{}, args...), defaultArrayProto), nil
		},
	}
}

func stringConstructor() *HostValue {
	return &HostValue{
		Label:              "function String() { [native code] }",
		BuiltinConstructor: true,
		Constructible:      false,
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			if len(args) == 0 {
				return String(""), nil
			}
			return ToStringValue(args[0]), nil
		},
	}
}

func numberConstructor() *HostValue {
	return &HostValue{
		Label:              "function Number() { [native code] }",
		BuiltinConstructor: true,
		Constructible:      false,
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			if len(args) == 0 {
				return Number(0), nil
			}
			return Number(ToNumber(args[0])), nil
		},
	}
}

func booleanConstructor() *HostValue {
	return &HostValue{
		Label:              "function Boolean() { [native code] }",
		BuiltinConstructor: true,
		Constructible:      false,
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			if len(args) == 0 {
				return Boolean(false), nil
			}
			return Boolean(ToBoolean(args[0])), nil
		},
	}
}

func errorConstructor(class string) *HostValue {
	return &HostValue{
		Label:              "function " + class + "() { [native code] }",
		BuiltinConstructor: class == "Error",
		Constructible:      true,
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			obj := NewObject(defaultObjectProto)
			obj.Class = class
			obj.SetOwn("name", String(class))
			msg := ""
			if len(args) > 0 {
				msg = ToStringValue(args[0]).String()
			}
			obj.SetOwn("message", String(msg))
			return obj, nil
		},
	}
}

func consoleGlobal() *Object {
	obj := NewObject(Undefined{})
	noop := &HostValue{
		Label: "function () { [native code] }",
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			return Undefined{}, nil
		},
	}
	obj.SetOwn("log", noop)
	obj.SetOwn("error", noop)
	obj.SetOwn("warn", noop)
	return obj
}

// installArrayMethods grounds a minimal, commonly-needed subset of
// Array.prototype onto proto: push/pop/join/slice/indexOf/forEach/map. The
// core does not attempt a complete ES5 standard library.
func installArrayMethods(proto *Object) {
	proto.SetOwn("push", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		arr := mustArray(this)
		arr.Elements = append(arr.Elements, args...)
		return Number(float64(len(arr.Elements))), nil
	}))
	proto.SetOwn("pop", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		arr := mustArray(this)
		if len(arr.Elements) == 0 {
			return Undefined{}, nil
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		return last, nil
	}))
	proto.SetOwn("join", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		arr := mustArray(this)
		sep := ","
		if len(args) > 0 {
			sep = ToStringValue(args[0]).String()
		}
		parts := make([]string, len(arr.Elements))
		for idx, e := range arr.Elements {
			if _, isUndef := e.(Undefined); isUndef {
				parts[idx] = ""
				continue
			}
			if _, isNull := e.(Null); isNull {
				parts[idx] = ""
				continue
			}
			parts[idx] = ToStringValue(e).String()
		}
		return String(strings.Join(parts, sep)), nil
	}))
	proto.SetOwn("indexOf", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		arr := mustArray(this)
		if len(args) == 0 {
			return Number(-1), nil
		}
		for idx, e := range arr.Elements {
			if StrictEquals(e, args[0]) {
				return Number(float64(idx)), nil
			}
		}
		return Number(-1), nil
	}))
	proto.SetOwn("slice", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		arr := mustArray(this)
		start, end := 0, len(arr.Elements)
		if len(args) > 0 {
			start = clampIndex(int(ToNumber(args[0])), len(arr.Elements))
		}
		if len(args) > 1 {
			end = clampIndex(int(ToNumber(args[1])), len(arr.Elements))
		}
		if start > end {
			start = end
		}
		out := append([]Value{}, arr.Elements[start:end]...)
		return NewArray(out, defaultArrayProto), nil
	}))
	proto.SetOwn("forEach", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		arr := mustArray(this)
		if len(args) == 0 {
			return Undefined{}, nil
		}
		for idx, e := range arr.Elements {
			if _, err := i.Invoke(args[0], Undefined{}, []Value{e, Number(float64(idx)), arr}, false); err != nil {
				return nil, err
			}
		}
		return Undefined{}, nil
	}))
	proto.SetOwn("map", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		arr := mustArray(this)
		if len(args) == 0 {
			return NewArray(nil, defaultArrayProto), nil
		}
		out := make([]Value, len(arr.Elements))
		for idx, e := range arr.Elements {
			v, err := i.Invoke(args[0], Undefined{}, []Value{e, Number(float64(idx)), arr}, false)
			if err != nil {
				return nil, err
			}
			out[idx] = v
		}
		return NewArray(out, defaultArrayProto), nil
	}))
}

func clampIndex(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

func mustArray(v Value) *Object {
	obj, ok := v.(*Object)
	if !ok || obj.Class != "Array" {
		return NewArray(nil, defaultArrayProto)
	}
	return obj
}

// nativeMethod adapts a (this, args)-shaped Go closure into the NativeFunc
// signature used by HostValue, the common case for built-in methods that
// never need isNew.
func nativeMethod(fn func(i *Interpreter, this Value, args []Value) (Value, error)) *HostValue {
	return &HostValue{
		Native: func(i *Interpreter, this Value, args []Value, isNew bool) (Value, error) {
			return fn(i, this, args)
		},
	}
}
