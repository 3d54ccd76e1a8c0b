package interp

import "github.com/badlogic/jailjs/ast"

// execStatements runs stmts in frame, stopping at the first non-local
// control signal. It returns that signal (nil if the list ran to
// completion); completion values are dropped (execStatementsWithCompletion
// keeps the last one).
func (i *Interpreter) execStatements(frame *Environment, stmts []ast.Statement) (*controlSignal, error) {
	_, sig, err := i.execStatementsWithCompletion(frame, stmts)
	return sig, err
}

func (i *Interpreter) execStatementsWithCompletion(frame *Environment, stmts []ast.Statement) (Value, *controlSignal, error) {
	var last Value
	for _, s := range stmts {
		sig, val, err := i.execStatementWithCompletion(frame, s)
		if err != nil {
			return last, nil, err
		}
		if val != nil {
			last = val
		}
		if sig != nil {
			return last, sig, nil
		}
	}
	return last, nil, nil
}

// execStatementWithCompletion evaluates one statement, returning any
// non-local signal, its completion value (non-nil for ExpressionStatement
// and Directive, and passed up from the statements nested in a block, if,
// labeled or try statement), and an error for either a catchable
// *ThrownException or the uncatchable *TimeoutError.
func (i *Interpreter) execStatementWithCompletion(frame *Environment, stmt ast.Statement) (*controlSignal, Value, error) {
	if err := i.tick(); err != nil {
		return nil, nil, err
	}

	switch n := stmt.(type) {
	case *ast.EmptyStatement:
		return nil, nil, nil

	case *ast.Directive:
		return nil, String(n.Directive), nil

	case *ast.ExpressionStatement:
		v, err := i.evalExpression(frame, n.Expression)
		if err != nil {
			return nil, nil, err
		}
		return nil, v, nil

	case *ast.BlockStatement:
		block := NewBlockFrame(frame)
		i.hoistVars(block, n.Body) // var names hoist to the enclosing function frame; function decls inside a block are bound when reached, see below
		val, sig, err := i.execStatementsWithCompletion(block, n.Body)
		return sig, val, err

	case *ast.VariableDeclaration:
		return nil, nil, i.execVariableDeclaration(frame, n)

	case *ast.FunctionDeclaration:
		// Function declarations at the top of their enclosing function body
		// are already bound by the hoisting pre-pass; this guards the
		// Annex-B case of a function declaration nested inside a block,
		// which only gets materialized when control actually reaches it.
		if n.ID != nil && !frame.HasOwn(n.ID.Name) {
			frame.DeclareLet(n.ID.Name, i.makeFunction(n.Params, n.Body, frame, "", false))
		}
		return nil, nil, nil

	case *ast.IfStatement:
		test, err := i.evalExpression(frame, n.Test)
		if err != nil {
			return nil, nil, err
		}
		if ToBoolean(test) {
			return i.execStatementWithCompletion(frame, n.Consequent)
		}
		if n.Alternate != nil {
			return i.execStatementWithCompletion(frame, n.Alternate)
		}
		return nil, nil, nil

	case *ast.WhileStatement:
		return i.execWhile(frame, n, nil)

	case *ast.DoWhileStatement:
		return i.execDoWhile(frame, n, nil)

	case *ast.ForStatement:
		return i.execFor(frame, n, nil)

	case *ast.ForInStatement:
		return i.execForIn(frame, n, nil)

	case *ast.BreakStatement:
		return breakSignal(labelName(n.Label)), nil, nil

	case *ast.ContinueStatement:
		return continueSignal(labelName(n.Label)), nil, nil

	case *ast.ReturnStatement:
		var v Value = Undefined{}
		if n.Argument != nil {
			val, err := i.evalExpression(frame, n.Argument)
			if err != nil {
				return nil, nil, err
			}
			v = val
		}
		return returnSignal(v), nil, nil

	case *ast.LabeledStatement:
		return i.execLabeled(frame, n)

	case *ast.TryStatement:
		return i.execTry(frame, n)

	case *ast.ThrowStatement:
		v, err := i.evalExpression(frame, n.Argument)
		if err != nil {
			return nil, nil, err
		}
		return nil, nil, Throw(v)

	case *ast.SwitchStatement:
		return i.execSwitch(frame, n)

	case *ast.WithStatement:
		return nil, nil, errWithUnsupported()

	default:
		return nil, nil, unhandledNodeType(stmt.Type())
	}
}

func labelName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func (i *Interpreter) execVariableDeclaration(frame *Environment, n *ast.VariableDeclaration) error {
	for _, d := range n.Declarations {
		var v Value = Undefined{}
		if d.Init != nil {
			val, err := i.evalExpression(frame, d.Init)
			if err != nil {
				return err
			}
			v = val
		} else if n.Kind != "var" {
			// let/const with no initializer still starts as undefined.
		} else {
			// var with no initializer must not clobber a value already
			// observed via hoisting or an earlier assignment.
			if _, ok := frame.Get(d.ID.Name); ok {
				continue
			}
		}
		if n.Kind == "var" {
			frame.DeclareVar(d.ID.Name, v)
		} else {
			frame.DeclareLet(d.ID.Name, v)
		}
	}
	return nil
}

// loop bodies share the same break/continue handling: an unlabeled or
// matching-label break stops the loop; an unlabeled or matching-label
// continue skips to the next iteration; anything else (return, or a
// differently-labeled break/continue) propagates out.
func loopShouldStop(sig *controlSignal, labels []string) (stop bool, propagate *controlSignal) {
	if sig == nil {
		return false, nil
	}
	switch sig.kind {
	case signalBreak:
		if sig.targetsLabel(labels) {
			return true, nil
		}
		return true, sig
	case signalContinue:
		if sig.targetsLabel(labels) {
			return false, nil
		}
		return true, sig
	default: // signalReturn
		return true, sig
	}
}

func (i *Interpreter) execWhile(frame *Environment, n *ast.WhileStatement, labels []string) (*controlSignal, Value, error) {
	for {
		test, err := i.evalExpression(frame, n.Test)
		if err != nil {
			return nil, nil, err
		}
		if !ToBoolean(test) {
			return nil, nil, nil
		}
		sig, _, err := i.execStatementWithCompletion(frame, n.Body)
		if err != nil {
			return nil, nil, err
		}
		stop, propagate := loopShouldStop(sig, labels)
		if stop {
			return propagate, nil, nil
		}
	}
}

func (i *Interpreter) execDoWhile(frame *Environment, n *ast.DoWhileStatement, labels []string) (*controlSignal, Value, error) {
	for {
		sig, _, err := i.execStatementWithCompletion(frame, n.Body)
		if err != nil {
			return nil, nil, err
		}
		stop, propagate := loopShouldStop(sig, labels)
		if stop {
			return propagate, nil, nil
		}
		test, err := i.evalExpression(frame, n.Test)
		if err != nil {
			return nil, nil, err
		}
		if !ToBoolean(test) {
			return nil, nil, nil
		}
	}
}

func (i *Interpreter) execFor(frame *Environment, n *ast.ForStatement, labels []string) (*controlSignal, Value, error) {
	loopFrame := NewBlockFrame(frame)
	if n.Init != nil {
		if vd, ok := n.Init.(*ast.VariableDeclaration); ok {
			if err := i.execVariableDeclaration(loopFrame, vd); err != nil {
				return nil, nil, err
			}
		} else if expr, ok := n.Init.(ast.Expression); ok {
			if _, err := i.evalExpression(loopFrame, expr); err != nil {
				return nil, nil, err
			}
		}
	}
	for {
		if n.Test != nil {
			test, err := i.evalExpression(loopFrame, n.Test)
			if err != nil {
				return nil, nil, err
			}
			if !ToBoolean(test) {
				return nil, nil, nil
			}
		}
		sig, _, err := i.execStatementWithCompletion(loopFrame, n.Body)
		if err != nil {
			return nil, nil, err
		}
		stop, propagate := loopShouldStop(sig, labels)
		if stop {
			return propagate, nil, nil
		}
		if n.Update != nil {
			if _, err := i.evalExpression(loopFrame, n.Update); err != nil {
				return nil, nil, err
			}
		}
	}
}

func (i *Interpreter) execForIn(frame *Environment, n *ast.ForInStatement, labels []string) (*controlSignal, Value, error) {
	right, err := i.evalExpression(frame, n.Right)
	if err != nil {
		return nil, nil, err
	}
	obj, ok := right.(*Object)
	if !ok {
		return nil, nil, nil // for-in over a non-object enumerates nothing
	}

	bindName := func(iterFrame *Environment, key string) error {
		switch left := n.Left.(type) {
		case *ast.VariableDeclaration:
			iterFrame.DeclareVar(left.Declarations[0].ID.Name, String(key))
			return nil
		case ast.Expression:
			return i.assignTo(iterFrame, left, String(key))
		default:
			return unhandledNodeType(n.Left.Type())
		}
	}

	for _, key := range enumerableKeys(obj) {
		iterFrame := NewBlockFrame(frame)
		if err := bindName(iterFrame, key); err != nil {
			return nil, nil, err
		}
		sig, _, err := i.execStatementWithCompletion(iterFrame, n.Body)
		if err != nil {
			return nil, nil, err
		}
		stop, propagate := loopShouldStop(sig, labels)
		if stop {
			return propagate, nil, nil
		}
	}
	return nil, nil, nil
}

// enumerableKeys walks the prototype chain accumulating own keys, matching
// the everyday for-in behavior scripts depend on; shadowed names are not
// repeated.
func enumerableKeys(obj *Object) []string {
	seen := map[string]bool{}
	var out []string
	for cur := Value(obj); cur != nil; {
		o, ok := cur.(*Object)
		if !ok {
			break
		}
		for _, k := range o.OwnKeys() {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
		cur = o.Proto
	}
	return out
}

func (i *Interpreter) execLabeled(frame *Environment, n *ast.LabeledStatement) (*controlSignal, Value, error) {
	label := labelName(n.Label)
	switch body := n.Body.(type) {
	case *ast.WhileStatement:
		return i.execWhile(frame, body, []string{label})
	case *ast.DoWhileStatement:
		return i.execDoWhile(frame, body, []string{label})
	case *ast.ForStatement:
		return i.execFor(frame, body, []string{label})
	case *ast.ForInStatement:
		return i.execForIn(frame, body, []string{label})
	default:
		sig, val, err := i.execStatementWithCompletion(frame, n.Body)
		if err != nil {
			return nil, nil, err
		}
		if sig != nil && sig.kind == signalBreak && sig.label == label {
			return nil, val, nil
		}
		return sig, val, nil
	}
}

func (i *Interpreter) execTry(frame *Environment, n *ast.TryStatement) (*controlSignal, Value, error) {
	runFinally := func(sig *controlSignal, val Value, err error) (*controlSignal, Value, error) {
		if n.Finalizer == nil {
			return sig, val, err
		}
		fSig, _, fErr := i.execStatementWithCompletion(frame, n.Finalizer)
		if fErr != nil {
			// finally's own error/timeout supersedes whatever the try/catch
			// body produced.
			return nil, nil, fErr
		}
		if fSig != nil {
			// finally's own control transfer supersedes the try/catch
			// body's, per ES5 completion semantics.
			return fSig, nil, nil
		}
		return sig, val, err
	}

	blockFrame := NewBlockFrame(frame)
	sig, val, err := i.execStatementWithCompletion(blockFrame, n.Block)

	if err != nil {
		if uncatchable(err) || n.Handler == nil {
			return runFinally(nil, nil, err)
		}
		thrown, ok := err.(*ThrownException)
		if !ok {
			return runFinally(nil, nil, err)
		}
		catchFrame := NewBlockFrame(frame)
		if n.Handler.Param != nil {
			catchFrame.DeclareLet(n.Handler.Param.Name, thrown.Value)
		}
		cSig, cVal, cErr := i.execStatementWithCompletion(catchFrame, n.Handler.Body)
		return runFinally(cSig, cVal, cErr)
	}

	return runFinally(sig, val, nil)
}

func (i *Interpreter) execSwitch(frame *Environment, n *ast.SwitchStatement) (*controlSignal, Value, error) {
	disc, err := i.evalExpression(frame, n.Discriminant)
	if err != nil {
		return nil, nil, err
	}

	switchFrame := NewBlockFrame(frame)
	matchedIdx := -1
	defaultIdx := -1
	for idx, c := range n.Cases {
		if c.Test == nil {
			defaultIdx = idx
			continue
		}
		test, err := i.evalExpression(switchFrame, c.Test)
		if err != nil {
			return nil, nil, err
		}
		if StrictEquals(disc, test) {
			matchedIdx = idx
			break
		}
	}
	if matchedIdx == -1 {
		matchedIdx = defaultIdx
	}
	if matchedIdx == -1 {
		return nil, nil, nil
	}

	for idx := matchedIdx; idx < len(n.Cases); idx++ {
		sig, err := i.execStatements(switchFrame, n.Cases[idx].Consequent)
		if err != nil {
			return nil, nil, err
		}
		if sig != nil {
			if sig.kind == signalBreak && sig.label == "" {
				return nil, nil, nil
			}
			return sig, nil, nil
		}
	}
	return nil, nil, nil
}
