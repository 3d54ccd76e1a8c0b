package interp

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// stringProto backs method lookups on String primitives (getMember's String
// case); String values have no Object wrapper of their own, so this is
// consulted directly rather than via a prototype chain walk.
var stringProto = NewObject(Null{})

// installStringMethods grounds a minimal, commonly-needed subset of
// String.prototype, using golang.org/x/text/cases for the Unicode-aware
// upper/lower folding ES5's own case-conversion algorithm specifies, rather
// than Go's locale-naive strings.ToUpper/ToLower.
func installStringMethods() {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	stringProto.SetOwn("toUpperCase", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		return String(upper.String(thisString(this))), nil
	}))
	stringProto.SetOwn("toLowerCase", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		return String(lower.String(thisString(this))), nil
	}))
	stringProto.SetOwn("charAt", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		runes := []rune(thisString(this))
		idx := 0
		if len(args) > 0 {
			idx = int(ToNumber(args[0]))
		}
		if idx < 0 || idx >= len(runes) {
			return String(""), nil
		}
		return String(string(runes[idx])), nil
	}))
	stringProto.SetOwn("indexOf", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Number(-1), nil
		}
		idx := strings.Index(thisString(this), ToStringValue(args[0]).String())
		return Number(float64(idx)), nil
	}))
	stringProto.SetOwn("slice", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		runes := []rune(thisString(this))
		start, end := 0, len(runes)
		if len(args) > 0 {
			start = clampIndex(int(ToNumber(args[0])), len(runes))
		}
		if len(args) > 1 {
			end = clampIndex(int(ToNumber(args[1])), len(runes))
		}
		if start > end {
			start = end
		}
		return String(string(runes[start:end])), nil
	}))
	stringProto.SetOwn("split", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		s := thisString(this)
		if len(args) == 0 {
			return NewArray([]Value{String(s)}, defaultArrayProto), nil
		}
		sep := ToStringValue(args[0]).String()
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]Value, len(parts))
		for idx, p := range parts {
			out[idx] = String(p)
		}
		return NewArray(out, defaultArrayProto), nil
	}))
	stringProto.SetOwn("trim", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		return String(strings.TrimSpace(thisString(this))), nil
	}))
	stringProto.SetOwn("replace", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		s := thisString(this)
		if len(args) < 2 {
			return String(s), nil
		}
		old := ToStringValue(args[0]).String()
		new := ToStringValue(args[1]).String()
		return String(strings.Replace(s, old, new, 1)), nil
	}))
	stringProto.SetOwn("concat", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		out := thisString(this)
		for _, a := range args {
			out += ToStringValue(a).String()
		}
		return String(out), nil
	}))
}

func thisString(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return v.String()
}
