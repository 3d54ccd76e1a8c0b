package interp

import "github.com/badlogic/jailjs/ast"

// hoist implements the hoisting pre-pass: before a function body or
// the program is evaluated, every `var` name reachable by walking immediate
// statements (never descending into nested function bodies) is declared as
// Undefined in frame unless already bound, and every FunctionDeclaration at
// this level is materialized into a closure and bound to its name,
// overwriting any var pre-seed of the same name. Function declarations are
// processed after var names so they win the pre-pass, matching typical
// engine ordering.
func (i *Interpreter) hoist(frame *Environment, stmts []ast.Statement) {
	i.hoistVars(frame, stmts)
	for _, s := range stmts {
		if fd, ok := s.(*ast.FunctionDeclaration); ok && fd.ID != nil {
			fn := i.makeFunction(fd.Params, fd.Body, frame, "", false)
			frame.DeclareLet(fd.ID.Name, fn)
		}
	}
}

func (i *Interpreter) hoistVars(frame *Environment, stmts []ast.Statement) {
	for _, s := range stmts {
		i.hoistVarsInStatement(frame, s)
	}
}

// hoistVarsInStatement walks one statement's var declarations and nested
// (non-function) statement bodies, never crossing into a FunctionDeclaration
// or FunctionExpression body — those get their own hoisting pass when
// invoked.
func (i *Interpreter) hoistVarsInStatement(frame *Environment, s ast.Statement) {
	switch n := s.(type) {
	case *ast.VariableDeclaration:
		if n.Kind != "var" {
			return
		}
		for _, d := range n.Declarations {
			if d.ID != nil {
				frame.DeclareVarIfAbsent(d.ID.Name, Undefined{})
			}
		}
	case *ast.BlockStatement:
		i.hoistVars(frame, n.Body)
	case *ast.IfStatement:
		i.hoistVarsInStatement(frame, n.Consequent)
		if n.Alternate != nil {
			i.hoistVarsInStatement(frame, n.Alternate)
		}
	case *ast.WhileStatement:
		i.hoistVarsInStatement(frame, n.Body)
	case *ast.DoWhileStatement:
		i.hoistVarsInStatement(frame, n.Body)
	case *ast.ForStatement:
		if vd, ok := n.Init.(*ast.VariableDeclaration); ok {
			i.hoistVarsInStatement(frame, vd)
		}
		i.hoistVarsInStatement(frame, n.Body)
	case *ast.ForInStatement:
		if vd, ok := n.Left.(*ast.VariableDeclaration); ok {
			i.hoistVarsInStatement(frame, vd)
		}
		i.hoistVarsInStatement(frame, n.Body)
	case *ast.TryStatement:
		i.hoistVarsInStatement(frame, n.Block)
		if n.Handler != nil {
			i.hoistVarsInStatement(frame, n.Handler.Body)
		}
		if n.Finalizer != nil {
			i.hoistVarsInStatement(frame, n.Finalizer)
		}
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			i.hoistVars(frame, c.Consequent)
		}
	case *ast.LabeledStatement:
		i.hoistVarsInStatement(frame, n.Body)
	case *ast.FunctionDeclaration:
		// Handled by the caller's second pass; not a var.
	default:
		// ExpressionStatement, ReturnStatement, BreakStatement,
		// ContinueStatement, ThrowStatement, EmptyStatement: no var
		// declarations or nested statement bodies to walk.
	}
}
