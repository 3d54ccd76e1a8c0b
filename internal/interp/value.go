package interp

import (
	"math"
	"strconv"
)

// Value is the tagged-union runtime representation every runtime datum
// implements: primitives, an opaque host reference, script objects, script
// functions, and regular expressions.
type Value interface {
	// Type returns the value's typeof-ish kind, used for dispatch (never
	// returned verbatim by the `typeof` operator; see TypeOf in operators.go).
	Type() string
	// String returns the ToString() abstract-operation result.
	String() string
}

// Undefined is the single value of "undefined" type.
type Undefined struct{}

func (Undefined) Type() string   { return "undefined" }
func (Undefined) String() string { return "undefined" }

// Null is the single value of "null" type.
type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "null" }

// Boolean is a primitive true/false value.
type Boolean bool

func (b Boolean) Type() string { return "boolean" }
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number is an IEEE-754 double, the sole numeric type.
type Number float64

func (Number) Type() string { return "number" }
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	a := math.Abs(f)
	if a == 0 {
		return "0"
	}
	if a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	if n := len(s); s[n-2] == '0' && (s[n-3] == '+' || s[n-3] == '-') {
		s = s[:n-2] + s[n-1:]
	}
	return s
}

// String is a primitive string value.
type String string

func (String) Type() string     { return "string" }
func (s String) String() string { return string(s) }

// RegExp is a literal regular expression value (pattern + flags only; the
// core does not implement matching — that is a host/library concern).
type RegExp struct {
	Pattern string
	Flags   string
}

func (*RegExp) Type() string { return "regexp" }
func (r *RegExp) String() string {
	return "/" + r.Pattern + "/" + r.Flags
}

// HostValue is an opaque reference into the embedder's value domain: a Go
// value the core never introspects beyond invoking it (if Callable) and
// forwarding property reads/writes to Get/Set.
//
// Embedders construct these directly (see pkg/jailjs) rather than the core
// synthesizing them, except where the default globals table exposes a
// curated built-in (globals.go).
type HostValue struct {
	// Native, if non-nil, makes this value callable from script.
	Native NativeFunc
	// Constructible marks whether `new` is permitted on Native.
	Constructible bool
	// Get/Set back a simple property-style host object. Either may be nil.
	Get func(key string) (Value, bool)
	Set func(key string, v Value) error
	// Label is used only for error messages and String().
	Label string
	// BuiltinConstructor marks one of the curated built-in constructors
	// (Object, Array, String, Number, Boolean, Error), so the
	// reflective-access filter can recognize a `.constructor` read that
	// resolves to one of these without string-matching on Label.
	BuiltinConstructor bool
}

func (*HostValue) Type() string { return "host" }
func (h *HostValue) String() string {
	if h.Label != "" {
		return h.Label
	}
	if h.Native != nil {
		return "function () { [native code] }"
	}
	return "[object HostObject]"
}

// IsCallable reports whether a HostValue can be invoked from script.
func (h *HostValue) IsCallable() bool { return h.Native != nil }

// NativeFunc is the signature every host callable must present at the
// script boundary. thisArg is Undefined for bare calls. isNew is true
// when invoked via `new` from script.
type NativeFunc func(i *Interpreter, thisArg Value, args []Value, isNew bool) (Value, error)

// Object is an ordered string-keyed container with an optional prototype
// link, preserving insertion order for `for ... in`.
type Object struct {
	props *orderedMap
	// Proto is another *Object, Null{}, or a *HostValue prototype; nil means
	// no prototype was ever set (equivalent to Null for lookup purposes).
	Proto Value
	// Class names built-in-flavored objects, e.g. "Object", "Array",
	// "Error": "Array" routes index and length properties to Elements, and
	// the class shows in the "[object X]" string form. Empty means a plain
	// user object.
	Class string
	// Elements backs Array-class objects; index properties alias into it so
	// that `arr[0]` and `arr.length` stay consistent with `for ... in`.
	Elements []Value
}

// NewObject creates an empty plain object with the given prototype.
func NewObject(proto Value) *Object {
	return &Object{props: newOrderedMap(), Proto: proto}
}

// NewArray creates an Array-class object wrapping elems.
func NewArray(elems []Value, proto Value) *Object {
	return &Object{props: newOrderedMap(), Proto: proto, Class: "Array", Elements: elems}
}

func (*Object) Type() string { return "object" }
func (o *Object) String() string {
	if o.Class == "Array" {
		out := "["
		for idx, e := range o.Elements {
			if idx > 0 {
				out += ","
			}
			if e == nil {
				continue
			}
			out += e.String()
		}
		return out + "]"
	}
	return "[object " + o.displayClass() + "]"
}

func (o *Object) displayClass() string {
	if o.Class != "" {
		return o.Class
	}
	return "Object"
}

// GetOwn reads an own property, not walking the prototype chain (the evaluator
// walks chains itself so it can apply the reflective filter at each level).
func (o *Object) GetOwn(key string) (Value, bool) {
	if o.Class == "Array" {
		if key == "length" {
			return Number(len(o.Elements)), true
		}
		if idx, ok := arrayIndex(key); ok {
			if idx >= 0 && idx < len(o.Elements) {
				v := o.Elements[idx]
				if v == nil {
					return Undefined{}, true
				}
				return v, true
			}
			return nil, false
		}
	}
	return o.props.get(key)
}

// SetOwn writes an own property; on arrays, an index at or past the end
// grows Elements (padding with undefined) and a length write resizes it.
func (o *Object) SetOwn(key string, v Value) {
	if o.Class == "Array" {
		if key == "length" {
			n := int(ToNumber(v))
			if n < 0 {
				n = 0
			}
			if n < len(o.Elements) {
				o.Elements = o.Elements[:n]
			} else {
				for len(o.Elements) < n {
					o.Elements = append(o.Elements, Undefined{})
				}
			}
			return
		}
		if idx, ok := arrayIndex(key); ok && idx >= 0 {
			for len(o.Elements) <= idx {
				o.Elements = append(o.Elements, Undefined{})
			}
			o.Elements[idx] = v
			return
		}
	}
	o.props.set(key, v)
}

// DeleteOwn removes an own property.
func (o *Object) DeleteOwn(key string) {
	if o.Class == "Array" {
		if idx, ok := arrayIndex(key); ok && idx >= 0 && idx < len(o.Elements) {
			o.Elements[idx] = Undefined{}
			return
		}
	}
	o.props.delete(key)
}

// HasOwn reports whether key is an own property.
func (o *Object) HasOwn(key string) bool {
	_, ok := o.GetOwn(key)
	return ok
}

// OwnKeys returns own enumerable keys in insertion order; for arrays, index
// keys precede named keys, matching typical engine enumeration order.
func (o *Object) OwnKeys() []string {
	if o.Class != "Array" {
		return o.props.keys()
	}
	keys := make([]string, 0, len(o.Elements)+o.props.len())
	for idx := range o.Elements {
		keys = append(keys, strconv.Itoa(idx))
	}
	keys = append(keys, o.props.keys()...)
	return keys
}

func arrayIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

