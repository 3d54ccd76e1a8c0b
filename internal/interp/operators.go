package interp

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean implements the ES5 ToBoolean abstract operation.
func ToBoolean(v Value) bool {
	switch t := v.(type) {
	case Undefined:
		return false
	case Null:
		return false
	case Boolean:
		return bool(t)
	case Number:
		f := float64(t)
		return f != 0 && !math.IsNaN(f)
	case String:
		return len(t) > 0
	default:
		return true // objects, functions, regexps, host values
	}
}

// ToNumber implements the ES5 ToNumber abstract operation. Objects
// are not given a real ToPrimitive/valueOf protocol by the core; they
// coerce to NaN unless they are Array-class, matching the common
// single-element/empty-array coercions scripts rely on.
func ToNumber(v Value) float64 {
	switch t := v.(type) {
	case Undefined:
		return math.NaN()
	case Null:
		return 0
	case Boolean:
		if t {
			return 1
		}
		return 0
	case Number:
		return float64(t)
	case String:
		return stringToNumber(string(t))
	case *Object:
		if t.Class == "Array" {
			switch len(t.Elements) {
			case 0:
				return 0
			case 1:
				return ToNumber(t.Elements[0])
			}
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	return math.NaN()
}

// ToStringValue implements the ES5 ToString abstract operation, returning a
// script String rather than a Go string so call sites can avoid a second
// wrap (used by `+` concatenation and template-free string coercion).
func ToStringValue(v Value) String {
	if o, ok := v.(*Object); ok {
		return String(o.String())
	}
	return String(v.String())
}

// TypeOf implements the `typeof` operator, distinct from Value.Type(): it
// folds the host-callable and script-function cases into "function" and
// everything else in the Object family into "object".
func TypeOf(v Value) string {
	switch t := v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "object" // ES5's famous typeof null quirk, preserved
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *ScriptFunction:
		return "function"
	case *HostValue:
		if t.IsCallable() {
			return "function"
		}
		return "object"
	default:
		return "object"
	}
}

// Add implements ES5 `+`: string concatenation if either operand is (or
// coerces from an object preference toward) a string, numeric addition
// otherwise.
func Add(l, r Value) Value {
	lp, rp := toPrimitiveForAdd(l), toPrimitiveForAdd(r)
	if isStringy(lp) || isStringy(rp) {
		return String(ToStringValue(lp).String() + ToStringValue(rp).String())
	}
	return Number(ToNumber(lp) + ToNumber(rp))
}

func isStringy(v Value) bool {
	_, ok := v.(String)
	return ok
}

// toPrimitiveForAdd handles the one ToPrimitive case the core supports:
// Array-class objects reduce to their String() join, matching what scripts
// observe from `[1,2] + ""`. Other object kinds fall back to their display
// string, which is "[object X]" per Object.String().
func toPrimitiveForAdd(v Value) Value {
	if o, ok := v.(*Object); ok {
		return String(o.String())
	}
	return v
}

// StrictEquals implements `===`. `==`/`!=` are deliberately aliased to
// `===`/`!==` (see DESIGN.md), so this is also the sole equality primitive
// the evaluator needs for BinaryExpression.
func StrictEquals(l, r Value) bool {
	switch lt := l.(type) {
	case Undefined:
		_, ok := r.(Undefined)
		return ok
	case Null:
		_, ok := r.(Null)
		return ok
	case Boolean:
		rt, ok := r.(Boolean)
		return ok && lt == rt
	case Number:
		rt, ok := r.(Number)
		if !ok {
			return false
		}
		if math.IsNaN(float64(lt)) || math.IsNaN(float64(rt)) {
			return false
		}
		return lt == rt
	case String:
		rt, ok := r.(String)
		return ok && lt == rt
	default:
		// Objects, functions, regexps, and host values compare by identity.
		return l == r
	}
}

func nan() float64 { return math.NaN() }

// toInt32/toUint32 implement the ES5 ToInt32/ToUint32 abstract operations
// used by the bitwise operators.
func toInt32(v Value) int32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(f)))
}

func toUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}

// Compare implements the ES5 relational operators' abstract comparison for
// the numeric/string cases the core supports; ok=false indicates the
// comparison is undefined (NaN involved), which every relational operator
// must treat as false.
func Compare(l, r Value) (less, ok bool) {
	ls, lIsStr := l.(String)
	rs, rIsStr := r.(String)
	if lIsStr && rIsStr {
		return ls < rs, true
	}
	ln, rn := ToNumber(l), ToNumber(r)
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return false, false
	}
	return ln < rn, true
}
