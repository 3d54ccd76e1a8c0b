package jailjs

import (
	"reflect"

	"github.com/badlogic/jailjs/internal/interp"
)

// ToValue marshals a plain Go value from the host's capability table into
// the interpreter's Value domain. Functions are wrapped as callable
// HostValues via reflection, the Go-side mirror of how WrapAsGoFunc lets
// host code call back into script.
func ToValue(v any) interp.Value {
	switch t := v.(type) {
	case nil:
		return interp.Undefined{}
	case interp.Value:
		return t
	case string:
		return interp.String(t)
	case bool:
		return interp.Boolean(t)
	case float64:
		return interp.Number(t)
	case int:
		return interp.Number(float64(t))
	case int64:
		return interp.Number(float64(t))
	case []any:
		elems := make([]interp.Value, len(t))
		for idx, e := range t {
			elems[idx] = ToValue(e)
		}
		return interp.NewArray(elems, interp.DefaultArrayProto())
	case map[string]any:
		obj := interp.NewObject(interp.DefaultObjectProto())
		for k, val := range t {
			obj.SetOwn(k, ToValue(val))
		}
		return obj
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Func {
			return wrapGoFunc(rv)
		}
		return &interp.HostValue{Label: rv.String()}
	}
}

// wrapGoFunc adapts an arbitrary Go function the embedder registers as a
// global into the NativeFunc shape script calls invoke, marshaling
// arguments positionally and — when the Go function's last result is an
// error — surfacing a non-nil one as a catchable script exception rather
// than panicking across the call boundary.
func wrapGoFunc(rv reflect.Value) *interp.HostValue {
	rt := rv.Type()
	return &interp.HostValue{
		Native: func(i *interp.Interpreter, thisArg interp.Value, args []interp.Value, isNew bool) (interp.Value, error) {
			fixed := rt.NumIn()
			if rt.IsVariadic() {
				fixed--
			}
			in := make([]reflect.Value, 0, len(args))
			convertOne := func(av interp.Value, target reflect.Type) reflect.Value {
				goVal := FromValue(av)
				if goVal == nil {
					return reflect.Zero(target)
				}
				gv := reflect.ValueOf(goVal)
				if gv.Type().ConvertibleTo(target) {
					return gv.Convert(target)
				}
				return reflect.Zero(target)
			}
			for idx := 0; idx < fixed; idx++ {
				var av interp.Value = interp.Undefined{}
				if idx < len(args) {
					av = args[idx]
				}
				in = append(in, convertOne(av, rt.In(idx)))
			}
			var out []reflect.Value
			if rt.IsVariadic() {
				elemType := rt.In(fixed).Elem()
				for idx := fixed; idx < len(args); idx++ {
					in = append(in, convertOne(args[idx], elemType))
				}
				out = rv.CallSlice(packVariadic(in, fixed, elemType))
			} else {
				out = rv.Call(in)
			}
			return hostResultsToValue(out)
		},
		Constructible: false,
	}
}

// packVariadic reassembles in (fixed args followed by individually
// converted variadic args) into the []reflect.Value shape reflect.Value.
// CallSlice expects: fixed positional values followed by one slice value.
func packVariadic(in []reflect.Value, fixed int, elemType reflect.Type) []reflect.Value {
	slice := reflect.MakeSlice(reflect.SliceOf(elemType), 0, len(in)-fixed)
	for _, v := range in[fixed:] {
		slice = reflect.Append(slice, v)
	}
	return append(append([]reflect.Value{}, in[:fixed]...), slice)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func hostResultsToValue(out []reflect.Value) (interp.Value, error) {
	if len(out) == 0 {
		return interp.Undefined{}, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errorType) && !last.IsNil() {
		err, _ := last.Interface().(error)
		return nil, interp.Throw(interp.String(err.Error()))
	}
	if len(out) == 1 && out[0].Type().Implements(errorType) {
		return interp.Undefined{}, nil
	}
	return ToValue(out[0].Interface()), nil
}

// FromValue converts a script Value back to a plain Go value, the inverse
// of ToValue for the primitive, array, and object cases. Functions and
// other host references pass through as
// *interp.HostValue/*interp.ScriptFunction for the embedder to pattern-match
// on, rather than being flattened to a string.
func FromValue(v interp.Value) any {
	switch t := v.(type) {
	case interp.Undefined:
		return nil
	case interp.Null:
		return nil
	case interp.Boolean:
		return bool(t)
	case interp.Number:
		return float64(t)
	case interp.String:
		return string(t)
	case *interp.Object:
		if t.Class == "Array" {
			out := make([]any, len(t.Elements))
			for idx, e := range t.Elements {
				out[idx] = FromValue(e)
			}
			return out
		}
		out := make(map[string]any)
		for _, k := range t.OwnKeys() {
			if val, ok := t.GetOwn(k); ok {
				out[k] = FromValue(val)
			}
		}
		return out
	default:
		return v
	}
}
