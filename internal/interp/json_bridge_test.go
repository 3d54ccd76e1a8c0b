package interp

import "testing"

func TestJSONGlobalParseProducesValueTree(t *testing.T) {
	i := NewInterpreter(nil)
	j := jsonGlobal()
	parse, _ := j.GetOwn("parse")
	got, err := i.Invoke(parse, Undefined{}, []Value{String(`{"a":1,"b":[true,null,"x"]}`)}, false)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	obj, ok := got.(*Object)
	if !ok {
		t.Fatalf("want *Object, got %T", got)
	}
	a, _ := obj.GetOwn("a")
	if a != Number(1) {
		t.Fatalf("want a=1, got %v", a)
	}
	b, _ := obj.GetOwn("b")
	arr, ok := b.(*Object)
	if !ok || arr.Class != "Array" || len(arr.Elements) != 3 {
		t.Fatalf("want a 3-element array for b, got %v", b)
	}
	if arr.Elements[0] != Boolean(true) {
		t.Fatalf("want b[0]=true, got %v", arr.Elements[0])
	}
	if _, isNull := arr.Elements[1].(Null); !isNull {
		t.Fatalf("want b[1]=null, got %v", arr.Elements[1])
	}
	if arr.Elements[2] != String("x") {
		t.Fatalf("want b[2]=\"x\", got %v", arr.Elements[2])
	}
}

func TestJSONGlobalParseRejectsInvalidInput(t *testing.T) {
	i := NewInterpreter(nil)
	j := jsonGlobal()
	parse, _ := j.GetOwn("parse")
	_, err := i.Invoke(parse, Undefined{}, []Value{String("{not valid json")}, false)
	if err == nil {
		t.Fatal("want a SyntaxError for invalid JSON text")
	}
	te, ok := err.(*ThrownException)
	if !ok {
		t.Fatalf("want *ThrownException, got %T", err)
	}
	if obj, ok := te.Value.(*Object); !ok || obj.Class != "SyntaxError" {
		t.Fatalf("want a SyntaxError object, got %v", te.Value)
	}
}

func TestJSONGlobalStringifyRoundTrip(t *testing.T) {
	i := NewInterpreter(nil)
	j := jsonGlobal()
	parse, _ := j.GetOwn("parse")
	stringify, _ := j.GetOwn("stringify")

	arr := NewArray([]Value{Number(1), String("two"), Boolean(false)}, defaultArrayProto)
	obj := NewObject(defaultObjectProto)
	obj.SetOwn("nested", arr)
	obj.SetOwn("name", String("jailjs"))

	out, err := i.Invoke(stringify, Undefined{}, []Value{obj}, false)
	if err != nil {
		t.Fatalf("stringify: %v", err)
	}
	text, ok := out.(String)
	if !ok {
		t.Fatalf("want String, got %T", out)
	}

	roundTripped, err := i.Invoke(parse, Undefined{}, []Value{text}, false)
	if err != nil {
		t.Fatalf("re-parse: %v", err)
	}
	rt, ok := roundTripped.(*Object)
	if !ok {
		t.Fatalf("want *Object, got %T", roundTripped)
	}
	name, _ := rt.GetOwn("name")
	if name != String("jailjs") {
		t.Fatalf("want name=jailjs after round-trip, got %v", name)
	}
	nested, _ := rt.GetOwn("nested")
	nestedArr, ok := nested.(*Object)
	if !ok || len(nestedArr.Elements) != 3 {
		t.Fatalf("want a 3-element nested array after round-trip, got %v", nested)
	}
}
