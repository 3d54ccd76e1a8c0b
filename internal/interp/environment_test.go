package interp

import "testing"

func TestDeclareVarTargetsNearestFunctionFrame(t *testing.T) {
	fn := NewGlobalEnvironment()
	block := NewBlockFrame(fn)
	inner := NewBlockFrame(block)

	inner.DeclareVar("x", Number(1))

	if !fn.HasOwn("x") {
		t.Fatal("DeclareVar from a nested block frame must bind in the nearest function frame")
	}
	if block.HasOwn("x") || inner.HasOwn("x") {
		t.Fatal("DeclareVar must not bind in intermediate block frames")
	}
}

func TestDeclareLetTargetsCurrentFrame(t *testing.T) {
	fn := NewGlobalEnvironment()
	block := NewBlockFrame(fn)

	block.DeclareLet("y", Number(2))

	if !block.HasOwn("y") {
		t.Fatal("DeclareLet must bind in the current frame")
	}
	if fn.HasOwn("y") {
		t.Fatal("DeclareLet must not leak into the parent frame")
	}
}

func TestGetWalksParentChain(t *testing.T) {
	fn := NewGlobalEnvironment()
	fn.DeclareLet("z", Number(3))
	block := NewBlockFrame(fn)

	v, ok := block.Get("z")
	if !ok {
		t.Fatal("Get should find z via the parent chain")
	}
	if v != Number(3) {
		t.Fatalf("want 3, got %v", v)
	}
}

func TestGetUnboundIdentifierFails(t *testing.T) {
	fn := NewGlobalEnvironment()
	if _, ok := fn.Get("nope"); ok {
		t.Fatal("Get on an unbound identifier must report ok=false")
	}
}

// TestSetFallsBackToOriginatingFrame verifies the documented fallback
// behavior (see DESIGN.md): assigning to an unresolved identifier creates
// the binding in the originating frame, not the global frame.
func TestSetFallsBackToOriginatingFrame(t *testing.T) {
	global := NewGlobalEnvironment()
	fn := NewFunctionFrame(global)
	block := NewBlockFrame(fn)

	block.Set("implicit", Number(9))

	if !block.HasOwn("implicit") {
		t.Fatal("Set's lenient fallback must bind in the originating frame")
	}
	if global.HasOwn("implicit") {
		t.Fatal("Set's lenient fallback must not bind in the global frame")
	}
}

func TestSetMutatesExistingBindingInAncestorFrame(t *testing.T) {
	fn := NewGlobalEnvironment()
	fn.DeclareLet("count", Number(0))
	block := NewBlockFrame(fn)

	block.Set("count", Number(1))
	v, _ := fn.Get("count")
	if v != Number(1) {
		t.Fatalf("want count mutated to 1 in the declaring frame, got %v", v)
	}
	if block.HasOwn("count") {
		t.Fatal("Set must mutate the existing binding, not shadow it locally")
	}
}
