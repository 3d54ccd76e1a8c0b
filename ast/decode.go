package ast

import (
	"encoding/json"
	"fmt"
)

// Decode parses a JSON-encoded AST (the shape a host embedder's parser would
// emit: objects discriminated by a "type" field) into a *Program. This is
// the reference encoding used by the cmd/jailjs CLI demo harness; embedders
// that build the tree directly in Go never need it.
func Decode(data []byte) (*Program, error) {
	node, err := decodeNode(data)
	if err != nil {
		return nil, err
	}
	prog, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("ast: root node must be a Program, got %s", typeOf(data))
	}
	return prog, nil
}

func typeOf(raw json.RawMessage) string {
	var head struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(raw, &head)
	return head.Type
}

func posOf(raw json.RawMessage) Position {
	var pos Position
	if fraw, ok, _ := rawField(raw, "position"); ok {
		_ = json.Unmarshal(fraw, &pos)
	}
	return pos
}

func str(raw json.RawMessage, field string) string    { return scalarField[string](raw, field) }
func boolean(raw json.RawMessage, field string) bool   { return scalarField[bool](raw, field) }
func number(raw json.RawMessage, field string) float64 { return scalarField[float64](raw, field) }

func scalarField[T any](raw json.RawMessage, field string) T {
	var zero T
	fraw, ok, err := rawField(raw, field)
	if err != nil || !ok {
		return zero
	}
	var v T
	if err := json.Unmarshal(fraw, &v); err != nil {
		return zero
	}
	return v
}

// decodeNode dispatches on the "type" discriminant to the concrete struct,
// recursively decoding any nested Node/Statement/Expression fields. Scalar
// fields are read individually (rather than via a single json.Unmarshal into
// the destination struct) because encoding/json cannot unmarshal a JSON
// object directly into a non-empty interface field.
func decodeNode(raw json.RawMessage) (Node, error) {
	if raw == nil || string(raw) == "null" {
		return nil, nil
	}
	b := base{Position: posOf(raw)}
	kind := typeOf(raw)
	switch kind {
	case "Program":
		body, err := decodeStatementList(raw, "body")
		if err != nil {
			return nil, err
		}
		return &Program{base: b, Body: body}, nil
	case "Identifier":
		return &Identifier{base: b, Name: str(raw, "name")}, nil
	case "ThisExpression":
		return &ThisExpression{base: b}, nil
	case "StringLiteral":
		return &StringLiteral{base: b, Value: str(raw, "value")}, nil
	case "NumericLiteral":
		return &NumericLiteral{base: b, Value: number(raw, "value")}, nil
	case "BooleanLiteral":
		return &BooleanLiteral{base: b, Value: boolean(raw, "value")}, nil
	case "NullLiteral":
		return &NullLiteral{base: b}, nil
	case "RegExpLiteral":
		return &RegExpLiteral{base: b, Pattern: str(raw, "pattern"), Flags: str(raw, "flags")}, nil
	case "DirectiveLiteral":
		return &DirectiveLiteral{base: b, Value: str(raw, "value")}, nil
	case "Directive":
		expr, err := decodeField(raw, "expression")
		if err != nil {
			return nil, err
		}
		lit, _ := expr.(*DirectiveLiteral)
		return &Directive{base: b, Expression: lit, Directive: str(raw, "directive")}, nil
	case "BlockStatement":
		body, err := decodeStatementList(raw, "body")
		if err != nil {
			return nil, err
		}
		return &BlockStatement{base: b, Body: body}, nil
	case "EmptyStatement":
		return &EmptyStatement{base: b}, nil
	case "ExpressionStatement":
		expr, err := decodeExprField(raw, "expression")
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{base: b, Expression: expr}, nil
	case "VariableDeclaration":
		return decodeVariableDeclaration(raw, b)
	case "FunctionDeclaration":
		return decodeFunctionLike(raw, b, false)
	case "IfStatement":
		test, err := decodeExprField(raw, "test")
		if err != nil {
			return nil, err
		}
		cons, err := decodeStmtField(raw, "consequent")
		if err != nil {
			return nil, err
		}
		alt, err := decodeStmtField(raw, "alternate")
		if err != nil {
			return nil, err
		}
		return &IfStatement{base: b, Test: test, Consequent: cons, Alternate: alt}, nil
	case "WhileStatement":
		test, body, err := decodeTestBody(raw)
		if err != nil {
			return nil, err
		}
		return &WhileStatement{base: b, Test: test, Body: body}, nil
	case "DoWhileStatement":
		test, body, err := decodeTestBody(raw)
		if err != nil {
			return nil, err
		}
		return &DoWhileStatement{base: b, Test: test, Body: body}, nil
	case "ForStatement":
		init, err := decodeField(raw, "init")
		if err != nil {
			return nil, err
		}
		test, err := decodeExprField(raw, "test")
		if err != nil {
			return nil, err
		}
		update, err := decodeExprField(raw, "update")
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtField(raw, "body")
		if err != nil {
			return nil, err
		}
		return &ForStatement{base: b, Init: init, Test: test, Update: update, Body: body}, nil
	case "ForInStatement":
		left, err := decodeField(raw, "left")
		if err != nil {
			return nil, err
		}
		right, err := decodeExprField(raw, "right")
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtField(raw, "body")
		if err != nil {
			return nil, err
		}
		return &ForInStatement{base: b, Left: left, Right: right, Body: body}, nil
	case "BreakStatement":
		label, err := decodeIdentField(raw, "label")
		if err != nil {
			return nil, err
		}
		return &BreakStatement{base: b, Label: label}, nil
	case "ContinueStatement":
		label, err := decodeIdentField(raw, "label")
		if err != nil {
			return nil, err
		}
		return &ContinueStatement{base: b, Label: label}, nil
	case "ReturnStatement":
		arg, err := decodeExprField(raw, "argument")
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{base: b, Argument: arg}, nil
	case "LabeledStatement":
		label, err := decodeIdentField(raw, "label")
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtField(raw, "body")
		if err != nil {
			return nil, err
		}
		return &LabeledStatement{base: b, Label: label, Body: body}, nil
	case "TryStatement":
		blockNode, err := decodeField(raw, "block")
		if err != nil {
			return nil, err
		}
		block, _ := blockNode.(*BlockStatement)
		var handler *CatchClause
		if handlerRaw, ok, err := rawField(raw, "handler"); err != nil {
			return nil, err
		} else if ok {
			hNode, err := decodeNode(handlerRaw)
			if err != nil {
				return nil, err
			}
			handler, _ = hNode.(*CatchClause)
		}
		finNode, err := decodeField(raw, "finalizer")
		if err != nil {
			return nil, err
		}
		finalizer, _ := finNode.(*BlockStatement)
		return &TryStatement{base: b, Block: block, Handler: handler, Finalizer: finalizer}, nil
	case "CatchClause":
		param, err := decodeIdentField(raw, "param")
		if err != nil {
			return nil, err
		}
		bodyNode, err := decodeField(raw, "body")
		if err != nil {
			return nil, err
		}
		body, _ := bodyNode.(*BlockStatement)
		return &CatchClause{base: b, Param: param, Body: body}, nil
	case "ThrowStatement":
		arg, err := decodeExprField(raw, "argument")
		if err != nil {
			return nil, err
		}
		return &ThrowStatement{base: b, Argument: arg}, nil
	case "SwitchStatement":
		return decodeSwitchStatement(raw, b)
	case "WithStatement":
		obj, err := decodeExprField(raw, "object")
		if err != nil {
			return nil, err
		}
		body, err := decodeStmtField(raw, "body")
		if err != nil {
			return nil, err
		}
		return &WithStatement{base: b, Object: obj, Body: body}, nil
	case "BinaryExpression":
		l, r, err := decodeLeftRight(raw)
		if err != nil {
			return nil, err
		}
		return &BinaryExpression{base: b, Operator: str(raw, "operator"), Left: l, Right: r}, nil
	case "LogicalExpression":
		l, r, err := decodeLeftRight(raw)
		if err != nil {
			return nil, err
		}
		return &LogicalExpression{base: b, Operator: str(raw, "operator"), Left: l, Right: r}, nil
	case "UnaryExpression":
		arg, err := decodeExprField(raw, "argument")
		if err != nil {
			return nil, err
		}
		return &UnaryExpression{base: b, Operator: str(raw, "operator"), Argument: arg}, nil
	case "UpdateExpression":
		arg, err := decodeExprField(raw, "argument")
		if err != nil {
			return nil, err
		}
		return &UpdateExpression{base: b, Operator: str(raw, "operator"), Argument: arg, Prefix: boolean(raw, "prefix")}, nil
	case "AssignmentExpression":
		l, r, err := decodeLeftRight(raw)
		if err != nil {
			return nil, err
		}
		return &AssignmentExpression{base: b, Operator: str(raw, "operator"), Left: l, Right: r}, nil
	case "SequenceExpression":
		exprs, err := decodeExpressionList(raw, "expressions")
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{base: b, Expressions: exprs}, nil
	case "ConditionalExpression":
		test, err := decodeExprField(raw, "test")
		if err != nil {
			return nil, err
		}
		cons, err := decodeExprField(raw, "consequent")
		if err != nil {
			return nil, err
		}
		alt, err := decodeExprField(raw, "alternate")
		if err != nil {
			return nil, err
		}
		return &ConditionalExpression{base: b, Test: test, Consequent: cons, Alternate: alt}, nil
	case "MemberExpression":
		obj, err := decodeExprField(raw, "object")
		if err != nil {
			return nil, err
		}
		prop, err := decodeExprField(raw, "property")
		if err != nil {
			return nil, err
		}
		return &MemberExpression{base: b, Object: obj, Property: prop, Computed: boolean(raw, "computed")}, nil
	case "CallExpression":
		callee, err := decodeExprField(raw, "callee")
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressionList(raw, "arguments")
		if err != nil {
			return nil, err
		}
		return &CallExpression{base: b, Callee: callee, Arguments: args}, nil
	case "NewExpression":
		callee, err := decodeExprField(raw, "callee")
		if err != nil {
			return nil, err
		}
		args, err := decodeExpressionList(raw, "arguments")
		if err != nil {
			return nil, err
		}
		return &NewExpression{base: b, Callee: callee, Arguments: args}, nil
	case "ObjectExpression":
		return decodeObjectExpression(raw, b)
	case "ObjectProperty":
		key, err := decodeExprField(raw, "key")
		if err != nil {
			return nil, err
		}
		val, err := decodeExprField(raw, "value")
		if err != nil {
			return nil, err
		}
		return &ObjectProperty{base: b, Key: key, Value: val, Computed: boolean(raw, "computed")}, nil
	case "ObjectMethod":
		key, err := decodeExprField(raw, "key")
		if err != nil {
			return nil, err
		}
		var fn *FunctionExpression
		if fnRaw, ok, err := rawField(raw, "function"); err != nil {
			return nil, err
		} else if ok {
			fnNode, err := decodeFunctionLike(fnRaw, base{Position: posOf(fnRaw)}, true)
			if err != nil {
				return nil, err
			}
			fn, _ = fnNode.(*FunctionExpression)
		}
		return &ObjectMethod{base: b, Key: key, Computed: boolean(raw, "computed"), Function: fn}, nil
	case "SpreadElement":
		arg, err := decodeExprField(raw, "argument")
		if err != nil {
			return nil, err
		}
		return &SpreadElement{base: b, Argument: arg}, nil
	case "ArrayExpression":
		elems, err := decodeExpressionList(raw, "elements")
		if err != nil {
			return nil, err
		}
		return &ArrayExpression{base: b, Elements: elems}, nil
	case "FunctionExpression":
		return decodeFunctionLike(raw, b, true)
	case "ArrowFunctionExpression":
		params, err := decodeIdentifierList(raw, "params")
		if err != nil {
			return nil, err
		}
		body, err := decodeField(raw, "body")
		if err != nil {
			return nil, err
		}
		return &ArrowFunctionExpression{base: b, Params: params, Body: body}, nil
	default:
		return nil, fmt.Errorf("ast: unhandled node type: %s", kind)
	}
}

func decodeLeftRight(raw json.RawMessage) (Expression, Expression, error) {
	l, err := decodeExprField(raw, "left")
	if err != nil {
		return nil, nil, err
	}
	r, err := decodeExprField(raw, "right")
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func decodeTestBody(raw json.RawMessage) (Expression, Statement, error) {
	test, err := decodeExprField(raw, "test")
	if err != nil {
		return nil, nil, err
	}
	body, err := decodeStmtField(raw, "body")
	if err != nil {
		return nil, nil, err
	}
	return test, body, nil
}

func decodeVariableDeclaration(raw json.RawMessage, b base) (Node, error) {
	items, err := rawList(raw, "declarations")
	if err != nil {
		return nil, err
	}
	n := &VariableDeclaration{base: b, Kind: str(raw, "kind")}
	for _, d := range items {
		id, err := decodeField(d, "id")
		if err != nil {
			return nil, err
		}
		ident, ok := id.(*Identifier)
		if !ok {
			return nil, fmt.Errorf("ast: destructuring patterns in declarator id are not supported")
		}
		init, err := decodeExprField(d, "init")
		if err != nil {
			return nil, err
		}
		n.Declarations = append(n.Declarations, &VariableDeclaratorNode{
			base: base{Position: posOf(d)},
			ID:   ident,
			Init: init,
		})
	}
	return n, nil
}

func decodeFunctionLike(raw json.RawMessage, b base, expression bool) (Node, error) {
	params, err := decodeIdentifierList(raw, "params")
	if err != nil {
		return nil, err
	}
	bodyNode, err := decodeField(raw, "body")
	if err != nil {
		return nil, err
	}
	block, _ := bodyNode.(*BlockStatement)
	id, err := decodeIdentField(raw, "id")
	if err != nil {
		return nil, err
	}
	if expression {
		return &FunctionExpression{base: b, ID: id, Params: params, Body: block}, nil
	}
	return &FunctionDeclaration{base: b, ID: id, Params: params, Body: block}, nil
}

func decodeSwitchStatement(raw json.RawMessage, b base) (Node, error) {
	disc, err := decodeExprField(raw, "discriminant")
	if err != nil {
		return nil, err
	}
	n := &SwitchStatement{base: b, Discriminant: disc}
	items, err := rawList(raw, "cases")
	if err != nil {
		return nil, err
	}
	for _, c := range items {
		test, err := decodeExprField(c, "test")
		if err != nil {
			return nil, err
		}
		stmts, err := decodeStatementList(c, "consequent")
		if err != nil {
			return nil, err
		}
		n.Cases = append(n.Cases, &SwitchCase{
			base:       base{Position: posOf(c)},
			Test:       test,
			Consequent: stmts,
		})
	}
	return n, nil
}

func decodeObjectExpression(raw json.RawMessage, b base) (Node, error) {
	items, err := rawList(raw, "properties")
	if err != nil {
		return nil, err
	}
	n := &ObjectExpression{base: b}
	for _, p := range items {
		node, err := decodeNode(p)
		if err != nil {
			return nil, err
		}
		expr, ok := node.(Expression)
		if !ok {
			return nil, fmt.Errorf("ast: object property must decode to an expression, got %s", typeOf(p))
		}
		n.Properties = append(n.Properties, expr)
	}
	return n, nil
}

// decodeField decodes the named field of a raw JSON object as a single Node.
func decodeField(raw json.RawMessage, field string) (Node, error) {
	fieldRaw, ok, err := rawField(raw, field)
	if err != nil || !ok {
		return nil, err
	}
	return decodeNode(fieldRaw)
}

func decodeExprField(raw json.RawMessage, field string) (Expression, error) {
	node, err := decodeField(raw, field)
	if err != nil {
		return nil, err
	}
	expr, _ := node.(Expression)
	return expr, nil
}

func decodeStmtField(raw json.RawMessage, field string) (Statement, error) {
	node, err := decodeField(raw, field)
	if err != nil {
		return nil, err
	}
	stmt, _ := node.(Statement)
	return stmt, nil
}

func decodeIdentField(raw json.RawMessage, field string) (*Identifier, error) {
	node, err := decodeField(raw, field)
	if err != nil {
		return nil, err
	}
	ident, _ := node.(*Identifier)
	return ident, nil
}

func rawField(raw json.RawMessage, field string) (json.RawMessage, bool, error) {
	var holder map[string]json.RawMessage
	if err := json.Unmarshal(raw, &holder); err != nil {
		return nil, false, err
	}
	v, ok := holder[field]
	if !ok || string(v) == "null" {
		return nil, false, nil
	}
	return v, true, nil
}

func decodeStatementList(raw json.RawMessage, field string) ([]Statement, error) {
	items, err := rawList(raw, field)
	if err != nil {
		return nil, err
	}
	var out []Statement
	for _, item := range items {
		node, err := decodeNode(item)
		if err != nil {
			return nil, err
		}
		stmt, ok := node.(Statement)
		if !ok {
			return nil, fmt.Errorf("ast: expected statement in %s, got %s", field, typeOf(item))
		}
		out = append(out, stmt)
	}
	return out, nil
}

func decodeExpressionList(raw json.RawMessage, field string) ([]Expression, error) {
	items, err := rawList(raw, field)
	if err != nil {
		return nil, err
	}
	var out []Expression
	for _, item := range items {
		if item == nil || string(item) == "null" {
			out = append(out, nil)
			continue
		}
		node, err := decodeNode(item)
		if err != nil {
			return nil, err
		}
		expr, ok := node.(Expression)
		if !ok {
			return nil, fmt.Errorf("ast: expected expression in %s, got %s", field, typeOf(item))
		}
		out = append(out, expr)
	}
	return out, nil
}

func decodeIdentifierList(raw json.RawMessage, field string) ([]*Identifier, error) {
	items, err := rawList(raw, field)
	if err != nil {
		return nil, err
	}
	var out []*Identifier
	for _, item := range items {
		node, err := decodeNode(item)
		if err != nil {
			return nil, err
		}
		ident, ok := node.(*Identifier)
		if !ok {
			return nil, fmt.Errorf("ast: destructuring patterns in parameters are not supported")
		}
		out = append(out, ident)
	}
	return out, nil
}

func rawList(raw json.RawMessage, field string) ([]json.RawMessage, error) {
	var holder map[string]json.RawMessage
	if err := json.Unmarshal(raw, &holder); err != nil {
		return nil, err
	}
	v, ok := holder[field]
	if !ok || string(v) == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v, &items); err != nil {
		return nil, err
	}
	return items, nil
}
