package interp

import (
	"fmt"
	"reflect"
)

// WrapAsGoFunc adapts a script-callable Value (a *ScriptFunction or a
// callable *HostValue) into a Go function value of targetType, so it can be
// handed to an arbitrary Go API that expects a concrete func signature
// rather than jailjs's own NativeFunc shape — e.g. a sort.Slice less-func,
// or a callback parameter on a host library the embedder also uses.
//
// Grounded on the reflect.MakeFunc callback-wrapping pattern: arguments are
// marshaled to script Values with goToValue, the script function is invoked
// through Interpreter.Invoke (the same call path script-to-script calls
// use), and the result is marshaled back with valueToGo. A thrown exception
// becomes a Go panic, since targetType's signature has no room for an error
// return unless its last result implements error.
func WrapAsGoFunc(callee Value, targetType reflect.Type, interp *Interpreter) any {
	if targetType.Kind() != reflect.Func {
		panic(fmt.Sprintf("WrapAsGoFunc: targetType must be a function, got %s", targetType.Kind()))
	}

	return reflect.MakeFunc(targetType, func(in []reflect.Value) []reflect.Value {
		args := make([]Value, len(in))
		for idx, a := range in {
			args[idx] = goToValue(a.Interface())
		}

		result, err := interp.Invoke(callee, Undefined{}, args, false)

		numOut := targetType.NumOut()
		if err != nil {
			if numOut > 0 {
				last := targetType.Out(numOut - 1)
				if last.Implements(reflect.TypeOf((*error)(nil)).Elem()) {
					out := make([]reflect.Value, numOut)
					for idx := 0; idx < numOut-1; idx++ {
						out[idx] = reflect.Zero(targetType.Out(idx))
					}
					out[numOut-1] = reflect.ValueOf(err)
					return out
				}
			}
			panic(err)
		}

		if numOut == 0 {
			return nil
		}
		out := make([]reflect.Value, numOut)
		out[0] = reflect.ValueOf(valueToGo(result)).Convert(targetType.Out(0))
		for idx := 1; idx < numOut; idx++ {
			out[idx] = reflect.Zero(targetType.Out(idx))
		}
		return out
	}).Interface()
}

// goToValue marshals a plain Go value observed through reflection into the
// script Value domain for the common primitive and slice/array cases; maps,
// structs and other kinds become an opaque *HostValue labelled with their
// %v form.
func goToValue(v any) Value {
	switch t := v.(type) {
	case nil:
		return Undefined{}
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Boolean(t)
	case float64:
		return Number(t)
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			elems := make([]Value, rv.Len())
			for idx := range elems {
				elems[idx] = goToValue(rv.Index(idx).Interface())
			}
			return NewArray(elems, defaultArrayProto)
		case reflect.Float32, reflect.Float64:
			return Number(rv.Float())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return Number(float64(rv.Int()))
		default:
			return &HostValue{Label: fmt.Sprintf("%v", v)}
		}
	}
}

// valueToGo is goToValue's inverse for the same primitive subset, used to
// hand a script return value back across a WrapAsGoFunc boundary.
func valueToGo(v Value) any {
	switch t := v.(type) {
	case Undefined:
		return nil
	case Null:
		return nil
	case Boolean:
		return bool(t)
	case Number:
		return float64(t)
	case String:
		return string(t)
	case *HostValue:
		return t
	default:
		return v
	}
}
