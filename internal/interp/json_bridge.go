package interp

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

func jsonPathEscape(key string) string {
	key = strings.ReplaceAll(key, "\\", "\\\\")
	key = strings.ReplaceAll(key, ".", "\\.")
	key = strings.ReplaceAll(key, ":", "\\:")
	key = strings.ReplaceAll(key, "*", "\\*")
	key = strings.ReplaceAll(key, "?", "\\?")
	return key
}

// jsonGlobal implements the `JSON.parse`/`JSON.stringify` bridge using
// tidwall/gjson for decoding and tidwall/sjson for encoding, rather than
// encoding/json, so value construction stays in terms of raw JSON text
// (matching how both libraries are meant to be composed) instead of an
// intermediate map[string]any layer.
func jsonGlobal() *Object {
	obj := NewObject(Undefined{})
	obj.SetOwn("parse", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return nil, throwf("SyntaxError", "Unexpected end of JSON input")
		}
		text := ToStringValue(args[0]).String()
		if !gjson.Valid(text) {
			return nil, throwf("SyntaxError", "Unexpected token in JSON")
		}
		return gjsonToValue(gjson.Parse(text)), nil
	}))
	obj.SetOwn("stringify", nativeMethod(func(i *Interpreter, this Value, args []Value) (Value, error) {
		if len(args) == 0 {
			return Undefined{}, nil
		}
		text, err := valueToJSON(args[0])
		if err != nil {
			return nil, err
		}
		return String(text), nil
	}))
	return obj
}

func gjsonToValue(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null{}
	case gjson.False:
		return Boolean(false)
	case gjson.True:
		return Boolean(true)
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(v))
				return true
			})
			return NewArray(elems, defaultArrayProto)
		}
		obj := NewObject(defaultObjectProto)
		r.ForEach(func(k, v gjson.Result) bool {
			obj.SetOwn(k.String(), gjsonToValue(v))
			return true
		})
		return obj
	default:
		return Undefined{}
	}
}

// valueToJSON serializes v by building up a JSON document with
// sjson.SetRaw, one property/element at a time, which keeps the encoder
// symmetric with gjsonToValue's traversal rather than reaching for
// encoding/json's reflection-driven Marshal.
func valueToJSON(v Value) (string, error) {
	switch t := v.(type) {
	case Undefined:
		return "null", nil
	case Null:
		return "null", nil
	case Boolean:
		if t {
			return "true", nil
		}
		return "false", nil
	case Number:
		return strconv.FormatFloat(float64(t), 'g', -1, 64), nil
	case String:
		raw, err := sjson.Set("", "v", string(t))
		if err != nil {
			return "", err
		}
		return gjson.Get(raw, "v").Raw, nil
	case *Object:
		if t.Class == "Array" {
			doc := "[]"
			for idx, e := range t.Elements {
				elemJSON, err := valueToJSON(e)
				if err != nil {
					return "", err
				}
				var err2 error
				doc, err2 = sjson.SetRaw(doc, strconv.Itoa(idx), elemJSON)
				if err2 != nil {
					return "", err2
				}
			}
			return doc, nil
		}
		doc := "{}"
		for _, k := range t.OwnKeys() {
			val, _ := t.GetOwn(k)
			valJSON, err := valueToJSON(val)
			if err != nil {
				return "", err
			}
			// sjson treats "." and ":" in a path as structural separators;
			// escaping them keeps object keys containing those characters
			// from being mis-split into nested paths.
			path := jsonPathEscape(k)
			var err2 error
			doc, err2 = sjson.SetRaw(doc, path, valJSON)
			if err2 != nil {
				return "", err2
			}
		}
		return doc, nil
	default:
		return "null", nil // functions, host values, regexps stringify as null
	}
}
