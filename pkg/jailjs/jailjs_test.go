package jailjs_test

import (
	"strings"
	"testing"

	"github.com/badlogic/jailjs/ast"
	"github.com/badlogic/jailjs/pkg/jailjs"
)

// eval decodes a JSON AST and runs it against a fresh Engine with the given
// globals, failing the test on any construction or evaluation error.
func eval(t *testing.T, globals map[string]any, opts []jailjs.Option, src string) any {
	t.Helper()
	prog, err := ast.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	engine, err := jailjs.New(globals, opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	res, err := engine.Eval(prog)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	return res.Value
}

func evalErr(t *testing.T, globals map[string]any, opts []jailjs.Option, src string) error {
	t.Helper()
	prog, err := ast.Decode([]byte(src))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	engine, err := jailjs.New(globals, opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	_, err = engine.Eval(prog)
	return err
}

// program wraps a single top-level expression's ExpressionStatement in a
// Program so scenarios can be written as one-line expression ASTs.
func program(bodyJSON string) string {
	return `{"type":"Program","body":[` + bodyJSON + `]}`
}

// TestArithmeticPrecedence checks that `*` binds tighter than `+`: 2 + 3 * 4 -> 14.
func TestArithmeticPrecedence(t *testing.T) {
	src := program(`{"type":"ExpressionStatement","expression":
		{"type":"BinaryExpression","operator":"+",
		 "left":{"type":"NumericLiteral","value":2},
		 "right":{"type":"BinaryExpression","operator":"*",
		          "left":{"type":"NumericLiteral","value":3},
		          "right":{"type":"NumericLiteral","value":4}}}}`)
	got := eval(t, nil, nil, src)
	if got != float64(14) {
		t.Fatalf("want 14, got %v", got)
	}
}

// TestFibonacci checks recursive function calls: fib(10) == 55.
func TestFibonacci(t *testing.T) {
	src := `{
		"type":"Program",
		"body":[
			{"type":"FunctionDeclaration","id":{"type":"Identifier","name":"fib"},
			 "params":[{"type":"Identifier","name":"n"}],
			 "body":{"type":"BlockStatement","body":[
				{"type":"IfStatement",
				 "test":{"type":"BinaryExpression","operator":"<=",
				         "left":{"type":"Identifier","name":"n"},
				         "right":{"type":"NumericLiteral","value":1}},
				 "consequent":{"type":"ReturnStatement","argument":{"type":"Identifier","name":"n"}}},
				{"type":"ReturnStatement","argument":
					{"type":"BinaryExpression","operator":"+",
					 "left":{"type":"CallExpression","callee":{"type":"Identifier","name":"fib"},
					         "arguments":[{"type":"BinaryExpression","operator":"-",
					                       "left":{"type":"Identifier","name":"n"},
					                       "right":{"type":"NumericLiteral","value":1}}]},
					 "right":{"type":"CallExpression","callee":{"type":"Identifier","name":"fib"},
					          "arguments":[{"type":"BinaryExpression","operator":"-",
					                        "left":{"type":"Identifier","name":"n"},
					                        "right":{"type":"NumericLiteral","value":2}}]}}}
			 ]}},
			{"type":"ExpressionStatement","expression":
				{"type":"CallExpression","callee":{"type":"Identifier","name":"fib"},
				 "arguments":[{"type":"NumericLiteral","value":10}]}}
		]
	}`
	got := eval(t, nil, nil, src)
	if got != float64(55) {
		t.Fatalf("want 55, got %v", got)
	}
}

// TestClosureCounter checks that a closure over a counter retains state
// across separate calls.
func TestClosureCounter(t *testing.T) {
	src := `{
		"type":"Program",
		"body":[
			{"type":"VariableDeclaration","kind":"var","declarations":[
				{"type":"VariableDeclarator","id":{"type":"Identifier","name":"mk"},
				 "init":{"type":"FunctionExpression","params":[],"body":{"type":"BlockStatement","body":[
					{"type":"VariableDeclaration","kind":"var","declarations":[
						{"type":"VariableDeclarator","id":{"type":"Identifier","name":"c"},
						 "init":{"type":"NumericLiteral","value":0}}]},
					{"type":"ReturnStatement","argument":
						{"type":"FunctionExpression","params":[],"body":{"type":"BlockStatement","body":[
							{"type":"ReturnStatement","argument":
								{"type":"UpdateExpression","operator":"++","prefix":true,
								 "argument":{"type":"Identifier","name":"c"}}}
						]}}}
				 ]}}}]},
			{"type":"VariableDeclaration","kind":"var","declarations":[
				{"type":"VariableDeclarator","id":{"type":"Identifier","name":"f"},
				 "init":{"type":"CallExpression","callee":{"type":"Identifier","name":"mk"},"arguments":[]}}]},
			{"type":"ExpressionStatement","expression":{"type":"CallExpression","callee":{"type":"Identifier","name":"f"},"arguments":[]}},
			{"type":"ExpressionStatement","expression":{"type":"CallExpression","callee":{"type":"Identifier","name":"f"},"arguments":[]}},
			{"type":"ExpressionStatement","expression":{"type":"CallExpression","callee":{"type":"Identifier","name":"f"},"arguments":[]}}
		]
	}`
	got := eval(t, nil, nil, src)
	if got != float64(3) {
		t.Fatalf("want 3, got %v", got)
	}
}

// TestTryCatchFinallyOrdering checks try/catch/finally execution order when
// the try block throws: the catch handler and finally block both run, in
// that order, producing "acd".
func TestTryCatchFinallyOrdering(t *testing.T) {
	src := `{
		"type":"Program",
		"body":[
			{"type":"VariableDeclaration","kind":"var","declarations":[
				{"type":"VariableDeclarator","id":{"type":"Identifier","name":"r"},
				 "init":{"type":"StringLiteral","value":""}}]},
			{"type":"TryStatement",
			 "block":{"type":"BlockStatement","body":[
				{"type":"ExpressionStatement","expression":
					{"type":"AssignmentExpression","operator":"+=",
					 "left":{"type":"Identifier","name":"r"},
					 "right":{"type":"StringLiteral","value":"a"}}},
				{"type":"ThrowStatement","argument":
					{"type":"NewExpression","callee":{"type":"Identifier","name":"Error"},
					 "arguments":[{"type":"StringLiteral","value":"x"}]}},
				{"type":"ExpressionStatement","expression":
					{"type":"AssignmentExpression","operator":"+=",
					 "left":{"type":"Identifier","name":"r"},
					 "right":{"type":"StringLiteral","value":"b"}}}
			 ]},
			 "handler":{"type":"CatchClause","param":{"type":"Identifier","name":"e"},
				"body":{"type":"BlockStatement","body":[
					{"type":"ExpressionStatement","expression":
						{"type":"AssignmentExpression","operator":"+=",
						 "left":{"type":"Identifier","name":"r"},
						 "right":{"type":"StringLiteral","value":"c"}}}
				]}},
			 "finalizer":{"type":"BlockStatement","body":[
				{"type":"ExpressionStatement","expression":
					{"type":"AssignmentExpression","operator":"+=",
					 "left":{"type":"Identifier","name":"r"},
					 "right":{"type":"StringLiteral","value":"d"}}}
			 ]}},
			{"type":"ExpressionStatement","expression":{"type":"Identifier","name":"r"}}
		]
	}`
	got := eval(t, nil, nil, src)
	if got != "acd" {
		t.Fatalf("want %q, got %v", "acd", got)
	}
}

// TestLabeledBreak checks that `break outer` from inside a doubly-nested
// loop unwinds both loop levels, leaving the loop variables at their
// break-time values ("1,1").
func TestLabeledBreak(t *testing.T) {
	src := `{
		"type":"Program",
		"body":[
			{"type":"LabeledStatement","label":{"type":"Identifier","name":"outer"},
			 "body":{"type":"ForStatement",
				"init":{"type":"VariableDeclaration","kind":"var","declarations":[
					{"type":"VariableDeclarator","id":{"type":"Identifier","name":"i"},"init":{"type":"NumericLiteral","value":0}}]},
				"test":{"type":"BinaryExpression","operator":"<","left":{"type":"Identifier","name":"i"},"right":{"type":"NumericLiteral","value":3}},
				"update":{"type":"UpdateExpression","operator":"++","prefix":false,"argument":{"type":"Identifier","name":"i"}},
				"body":{"type":"BlockStatement","body":[
					{"type":"ForStatement",
					 "init":{"type":"VariableDeclaration","kind":"var","declarations":[
						{"type":"VariableDeclarator","id":{"type":"Identifier","name":"j"},"init":{"type":"NumericLiteral","value":0}}]},
					 "test":{"type":"BinaryExpression","operator":"<","left":{"type":"Identifier","name":"j"},"right":{"type":"NumericLiteral","value":3}},
					 "update":{"type":"UpdateExpression","operator":"++","prefix":false,"argument":{"type":"Identifier","name":"j"}},
					 "body":{"type":"BlockStatement","body":[
						{"type":"IfStatement",
						 "test":{"type":"LogicalExpression","operator":"&&",
							"left":{"type":"BinaryExpression","operator":"===","left":{"type":"Identifier","name":"i"},"right":{"type":"NumericLiteral","value":1}},
							"right":{"type":"BinaryExpression","operator":"===","left":{"type":"Identifier","name":"j"},"right":{"type":"NumericLiteral","value":1}}},
						 "consequent":{"type":"BreakStatement","label":{"type":"Identifier","name":"outer"}}}
					 ]}}
				]}}},
			{"type":"ExpressionStatement","expression":
				{"type":"CallExpression",
				 "callee":{"type":"MemberExpression","computed":false,
					"object":{"type":"ArrayExpression","elements":[{"type":"Identifier","name":"i"},{"type":"Identifier","name":"j"}]},
					"property":{"type":"Identifier","name":"join"}},
				 "arguments":[{"type":"StringLiteral","value":","}]}}
		]
	}`
	got := eval(t, nil, nil, src)
	if got != "1,1" {
		t.Fatalf("want \"1,1\", got %v", got)
	}
}

// TestArrayMapAndConstructorBlocked checks Array.prototype.map/join, and
// that reading `.constructor` off an array is blocked by the reflective
// filter.
func TestArrayMapAndConstructorBlocked(t *testing.T) {
	src := `{
		"type":"Program",
		"body":[
			{"type":"ExpressionStatement","expression":
				{"type":"CallExpression",
				 "callee":{"type":"MemberExpression","computed":false,
					"object":{"type":"CallExpression",
						"callee":{"type":"MemberExpression","computed":false,
							"object":{"type":"ArrayExpression","elements":[
								{"type":"NumericLiteral","value":1},
								{"type":"NumericLiteral","value":2},
								{"type":"NumericLiteral","value":3}]},
							"property":{"type":"Identifier","name":"map"}},
						"arguments":[{"type":"FunctionExpression","params":[{"type":"Identifier","name":"x"}],
							"body":{"type":"BlockStatement","body":[
								{"type":"ReturnStatement","argument":
									{"type":"BinaryExpression","operator":"*",
									 "left":{"type":"Identifier","name":"x"},
									 "right":{"type":"NumericLiteral","value":2}}}
							]}}]},
					"property":{"type":"Identifier","name":"join"}},
				 "arguments":[{"type":"StringLiteral","value":","}]}}
		]
	}`
	got := eval(t, nil, nil, src)
	if got != "2,4,6" {
		t.Fatalf("want 2,4,6, got %v", got)
	}

	ctorBlocked := program(`{"type":"ExpressionStatement","expression":
		{"type":"MemberExpression","computed":false,
		 "object":{"type":"ArrayExpression","elements":[]},
		 "property":{"type":"Identifier","name":"constructor"}}}`)
	got = eval(t, nil, nil, ctorBlocked)
	if got != nil {
		t.Fatalf("want undefined (nil), got %v", got)
	}
}

// TestMaxOpsTimeout checks that an infinite loop trips the operation-count
// ceiling and surfaces as *TimeoutExceededError.
func TestMaxOpsTimeout(t *testing.T) {
	src := program(`{"type":"WhileStatement",
		"test":{"type":"BooleanLiteral","value":true},
		"body":{"type":"BlockStatement","body":[]}}`)
	err := evalErr(t, nil, []jailjs.Option{jailjs.WithMaxOps(1000)}, src)
	if err == nil {
		t.Fatal("want timeout error, got nil")
	}
	if _, ok := err.(*jailjs.TimeoutExceededError); !ok {
		t.Fatalf("want *TimeoutExceededError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "maximum operations") {
		t.Fatalf("unexpected message: %v", err)
	}
}

// TestEvalGating checks that eval works with a parser wired in via
// WithParse, and fails with a descriptive error without one.
func TestEvalGating(t *testing.T) {
	parse := func(source string) (*ast.Program, error) {
		return ast.Decode([]byte(program(`{"type":"ExpressionStatement","expression":
			{"type":"BinaryExpression","operator":"+",
			 "left":{"type":"NumericLiteral","value":2},
			 "right":{"type":"NumericLiteral","value":3}}}`)))
	}
	src := program(`{"type":"ExpressionStatement","expression":
		{"type":"CallExpression","callee":{"type":"Identifier","name":"eval"},
		 "arguments":[{"type":"StringLiteral","value":"2 + 3"}]}}`)

	got := eval(t, nil, []jailjs.Option{jailjs.WithParse(parse)}, src)
	if got != float64(5) {
		t.Fatalf("want 5, got %v", got)
	}

	err := evalErr(t, nil, nil, src)
	if err == nil {
		t.Fatal("want error without a parser configured")
	}
}

// TestHostCallback exercises the host bridge: a Go function passed into the
// capability table is callable from script with marshaled args, including a
// variadic signature.
func TestHostCallback(t *testing.T) {
	var captured []any
	globals := map[string]any{
		"record": func(args ...any) {
			captured = append(captured, args...)
		},
	}
	src := program(`{"type":"ExpressionStatement","expression":
		{"type":"CallExpression","callee":{"type":"Identifier","name":"record"},
		 "arguments":[{"type":"StringLiteral","value":"a"},{"type":"NumericLiteral","value":1}]}}`)
	eval(t, globals, nil, src)
	if len(captured) != 2 || captured[0] != "a" || captured[1] != float64(1) {
		t.Fatalf("unexpected captured args: %#v", captured)
	}
}

// TestFunctionCallApplyBind checks the bound-function-forwarding behavior:
// call/apply fix `this` for a single invocation, bind produces a reusable
// function with `this` and leading arguments permanently fixed.
func TestFunctionCallApplyBind(t *testing.T) {
	// function greet(greeting) { return greeting + " " + this.name; }
	greetFn := `{"type":"FunctionDeclaration","id":{"type":"Identifier","name":"greet"},
		"params":[{"type":"Identifier","name":"greeting"}],
		"body":{"type":"BlockStatement","body":[
			{"type":"ReturnStatement","argument":
				{"type":"BinaryExpression","operator":"+",
				 "left":{"type":"BinaryExpression","operator":"+",
					"left":{"type":"Identifier","name":"greeting"},
					"right":{"type":"StringLiteral","value":" "}},
				 "right":{"type":"MemberExpression","computed":false,
					"object":{"type":"ThisExpression"},"property":{"type":"Identifier","name":"name"}}}}
		]}}`
	receiver := `{"type":"ObjectExpression","properties":[
		{"type":"ObjectProperty","computed":false,"key":{"type":"Identifier","name":"name"},
		 "value":{"type":"StringLiteral","value":"Ada"}}]}`

	callSrc := program(greetFn + `,
		{"type":"ExpressionStatement","expression":
			{"type":"CallExpression",
			 "callee":{"type":"MemberExpression","computed":false,
				"object":{"type":"Identifier","name":"greet"},"property":{"type":"Identifier","name":"call"}},
			 "arguments":[` + receiver + `,{"type":"StringLiteral","value":"Hello"}]}}`)
	if got := eval(t, nil, nil, callSrc); got != "Hello Ada" {
		t.Fatalf("call: want %q, got %v", "Hello Ada", got)
	}

	applySrc := program(greetFn + `,
		{"type":"ExpressionStatement","expression":
			{"type":"CallExpression",
			 "callee":{"type":"MemberExpression","computed":false,
				"object":{"type":"Identifier","name":"greet"},"property":{"type":"Identifier","name":"apply"}},
			 "arguments":[` + receiver + `,{"type":"ArrayExpression","elements":[{"type":"StringLiteral","value":"Hi"}]}]}}`)
	if got := eval(t, nil, nil, applySrc); got != "Hi Ada" {
		t.Fatalf("apply: want %q, got %v", "Hi Ada", got)
	}

	bindSrc := program(greetFn + `,
		{"type":"VariableDeclaration","kind":"var","declarations":[
			{"type":"VariableDeclarator","id":{"type":"Identifier","name":"bound"},
			 "init":{"type":"CallExpression",
				"callee":{"type":"MemberExpression","computed":false,
					"object":{"type":"Identifier","name":"greet"},"property":{"type":"Identifier","name":"bind"}},
				"arguments":[` + receiver + `]}}]},
		{"type":"ExpressionStatement","expression":
			{"type":"CallExpression","callee":{"type":"Identifier","name":"bound"},
			 "arguments":[{"type":"StringLiteral","value":"Yo"}]}}`)
	if got := eval(t, nil, nil, bindSrc); got != "Yo Ada" {
		t.Fatalf("bind: want %q, got %v", "Yo Ada", got)
	}
}

// TestNamedFunctionExpressionSelfReference checks that a named function
// expression can call itself by name from within its own body, but that
// name is invisible to the enclosing scope.
func TestNamedFunctionExpressionSelfReference(t *testing.T) {
	src := program(`{"type":"VariableDeclaration","kind":"var","declarations":[
		{"type":"VariableDeclarator","id":{"type":"Identifier","name":"fact"},
		 "init":{"type":"FunctionExpression","id":{"type":"Identifier","name":"selfFact"},
			"params":[{"type":"Identifier","name":"n"}],
			"body":{"type":"BlockStatement","body":[
				{"type":"IfStatement",
				 "test":{"type":"BinaryExpression","operator":"<=","left":{"type":"Identifier","name":"n"},"right":{"type":"NumericLiteral","value":1}},
				 "consequent":{"type":"ReturnStatement","argument":{"type":"NumericLiteral","value":1}}},
				{"type":"ReturnStatement","argument":
					{"type":"BinaryExpression","operator":"*",
					 "left":{"type":"Identifier","name":"n"},
					 "right":{"type":"CallExpression","callee":{"type":"Identifier","name":"selfFact"},
						"arguments":[{"type":"BinaryExpression","operator":"-","left":{"type":"Identifier","name":"n"},"right":{"type":"NumericLiteral","value":1}}]}}}
			]}}}]},
		{"type":"ExpressionStatement","expression":{"type":"CallExpression","callee":{"type":"Identifier","name":"fact"},
			"arguments":[{"type":"NumericLiteral","value":5}]}}`)
	if got := eval(t, nil, nil, src); got != float64(120) {
		t.Fatalf("want 120, got %v", got)
	}

	leakSrc := program(`{"type":"VariableDeclaration","kind":"var","declarations":[
		{"type":"VariableDeclarator","id":{"type":"Identifier","name":"fact"},
		 "init":{"type":"FunctionExpression","id":{"type":"Identifier","name":"selfFact"},
			"params":[],"body":{"type":"BlockStatement","body":[]}}}]},
		{"type":"ExpressionStatement","expression":{"type":"UnaryExpression","operator":"typeof","prefix":true,
			"argument":{"type":"Identifier","name":"selfFact"}}}`)
	if got := eval(t, nil, nil, leakSrc); got != "undefined" {
		t.Fatalf("named function expression's own name leaked into enclosing scope: got %v", got)
	}
}

// TestReflectiveAccessBlocklist checks that reads of __proto__ and
// prototype-on-a-plain-object are always undefined, regardless of whether
// the underlying property genuinely exists.
func TestReflectiveAccessBlocklist(t *testing.T) {
	protoSrc := program(`{"type":"ExpressionStatement","expression":
		{"type":"MemberExpression","computed":false,
		 "object":{"type":"ObjectExpression","properties":[]},
		 "property":{"type":"Identifier","name":"__proto__"}}}`)
	if got := eval(t, nil, nil, protoSrc); got != nil {
		t.Fatalf("want undefined (nil) for __proto__ read, got %v", got)
	}

	protoPropSrc := program(`{"type":"ExpressionStatement","expression":
		{"type":"MemberExpression","computed":false,
		 "object":{"type":"ObjectExpression","properties":[]},
		 "property":{"type":"Identifier","name":"prototype"}}}`)
	if got := eval(t, nil, nil, protoPropSrc); got != nil {
		t.Fatalf("want undefined (nil) for .prototype on a plain object, got %v", got)
	}

	// A function's own .prototype is NOT blocked — only plain objects are.
	fnProtoSrc := program(`{"type":"FunctionDeclaration","id":{"type":"Identifier","name":"f"},"params":[],
			"body":{"type":"BlockStatement","body":[]}},
		{"type":"ExpressionStatement","expression":{"type":"UnaryExpression","operator":"typeof","prefix":true,
			"argument":{"type":"MemberExpression","computed":false,
				"object":{"type":"Identifier","name":"f"},"property":{"type":"Identifier","name":"prototype"}}}}`)
	if got := eval(t, nil, nil, fnProtoSrc); got != "object" {
		t.Fatalf("want function .prototype to resolve to its real object, got %v", got)
	}
}

// TestVarHoistingWithoutInitialization checks that `var` declarations are
// hoisted to the top of their enclosing function but left undefined until
// their declarator actually runs.
func TestVarHoistingWithoutInitialization(t *testing.T) {
	src := `{
		"type":"Program",
		"body":[
			{"type":"ExpressionStatement","expression":
				{"type":"BinaryExpression","operator":"===",
				 "left":{"type":"Identifier","name":"x"},
				 "right":{"type":"Identifier","name":"undefined"}}},
			{"type":"VariableDeclaration","kind":"var","declarations":[
				{"type":"VariableDeclarator","id":{"type":"Identifier","name":"x"},"init":{"type":"NumericLiteral","value":1}}]}
		]
	}`
	got := eval(t, nil, nil, src)
	if got != true {
		t.Fatalf("want true (x undefined before its declarator runs), got %v", got)
	}
}
