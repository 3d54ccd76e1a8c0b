package ast_test

import (
	"encoding/json"
	"testing"

	"github.com/badlogic/jailjs/ast"
	"github.com/gkampitakis/go-snaps/snaps"
)

func TestDecodeProgramShape(t *testing.T) {
	src := `{
		"type": "Program",
		"body": [
			{"type": "VariableDeclaration", "kind": "var", "declarations": [
				{"id": {"type": "Identifier", "name": "x"}, "init": {"type": "NumericLiteral", "value": 2}}
			]},
			{"type": "ExpressionStatement", "expression":
				{"type": "BinaryExpression", "operator": "+",
				 "left": {"type": "Identifier", "name": "x"},
				 "right": {"type": "NumericLiteral", "value": 3}}}
		]
	}`
	prog, err := ast.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("want 2 top-level statements, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("want *VariableDeclaration, got %T", prog.Body[0])
	}
	if decl.Kind != "var" || len(decl.Declarations) != 1 || decl.Declarations[0].ID.Name != "x" {
		t.Fatalf("unexpected declaration shape: %+v", decl)
	}

	re, _ := json.MarshalIndent(prog.Body[0].Type(), "", "  ")
	snaps.MatchSnapshot(t, string(re))
}

func TestDecodeUnknownNodeTypeFails(t *testing.T) {
	_, err := ast.Decode([]byte(`{"type":"Program","body":[{"type":"WeirdStatement"}]}`))
	if err == nil {
		t.Fatal("want an error for an unhandled node type")
	}
}

func TestDecodeRejectsNonProgramRoot(t *testing.T) {
	_, err := ast.Decode([]byte(`{"type":"Identifier","name":"x"}`))
	if err == nil {
		t.Fatal("want an error when the root node is not a Program")
	}
}

func TestDecodeRejectsDestructuringDeclaratorID(t *testing.T) {
	src := `{"type":"Program","body":[
		{"type":"VariableDeclaration","kind":"var","declarations":[
			{"id":{"type":"ArrayExpression","elements":[]},"init":null}
		]}
	]}`
	_, err := ast.Decode([]byte(src))
	if err == nil {
		t.Fatal("want an error: destructuring patterns in declarator id are unsupported")
	}
}
