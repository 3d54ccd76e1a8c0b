package interp

import "github.com/badlogic/jailjs/ast"

// evalExpression dispatches on the concrete expression node type. Every
// abstract-operation failure (missing binding, non-callable target, reading
// off undefined/null) is surfaced as a catchable *ThrownException, never a
// bare Go error, so script try/catch can observe it.
func (i *Interpreter) evalExpression(frame *Environment, expr ast.Expression) (Value, error) {
	if err := i.tick(); err != nil {
		return nil, err
	}

	switch n := expr.(type) {
	case *ast.Identifier:
		v, ok := frame.Get(n.Name)
		if !ok {
			return nil, throwReferenceError(n.Name)
		}
		return v, nil

	case *ast.ThisExpression:
		v, ok := frame.Get("this")
		if !ok {
			return Undefined{}, nil
		}
		return v, nil

	case *ast.StringLiteral:
		return String(n.Value), nil
	case *ast.NumericLiteral:
		return Number(n.Value), nil
	case *ast.BooleanLiteral:
		return Boolean(n.Value), nil
	case *ast.NullLiteral:
		return Null{}, nil
	case *ast.RegExpLiteral:
		return &RegExp{Pattern: n.Pattern, Flags: n.Flags}, nil

	case *ast.FunctionExpression:
		selfName := ""
		if n.ID != nil {
			selfName = n.ID.Name
		}
		return i.makeFunction(n.Params, n.Body, frame, selfName, false), nil

	case *ast.ArrowFunctionExpression:
		return i.makeFunction(n.Params, n.Body, frame, "", true), nil

	case *ast.SequenceExpression:
		var v Value = Undefined{}
		for _, e := range n.Expressions {
			val, err := i.evalExpression(frame, e)
			if err != nil {
				return nil, err
			}
			v = val
		}
		return v, nil

	case *ast.ConditionalExpression:
		test, err := i.evalExpression(frame, n.Test)
		if err != nil {
			return nil, err
		}
		if ToBoolean(test) {
			return i.evalExpression(frame, n.Consequent)
		}
		return i.evalExpression(frame, n.Alternate)

	case *ast.LogicalExpression:
		left, err := i.evalExpression(frame, n.Left)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "&&":
			if !ToBoolean(left) {
				return left, nil
			}
			return i.evalExpression(frame, n.Right)
		case "||":
			if ToBoolean(left) {
				return left, nil
			}
			return i.evalExpression(frame, n.Right)
		default:
			return nil, unhandledNodeType("LogicalExpression:" + n.Operator)
		}

	case *ast.BinaryExpression:
		return i.evalBinary(frame, n)

	case *ast.UnaryExpression:
		return i.evalUnary(frame, n)

	case *ast.UpdateExpression:
		return i.evalUpdate(frame, n)

	case *ast.AssignmentExpression:
		return i.evalAssignment(frame, n)

	case *ast.MemberExpression:
		_, v, err := i.evalMember(frame, n)
		return v, err

	case *ast.CallExpression:
		return i.evalCall(frame, n)

	case *ast.NewExpression:
		callee, err := i.evalExpression(frame, n.Callee)
		if err != nil {
			return nil, err
		}
		args, err := i.evalArgs(frame, n.Arguments)
		if err != nil {
			return nil, err
		}
		return i.construct(callee, args)

	case *ast.ObjectExpression:
		return i.evalObject(frame, n)

	case *ast.ArrayExpression:
		return i.evalArray(frame, n)

	default:
		return nil, unhandledNodeType(expr.Type())
	}
}

func (i *Interpreter) evalArgs(frame *Environment, exprs []ast.Expression) ([]Value, error) {
	args := make([]Value, 0, len(exprs))
	for _, e := range exprs {
		if sp, ok := e.(*ast.SpreadElement); ok {
			v, err := i.evalExpression(frame, sp.Argument)
			if err != nil {
				return nil, err
			}
			if obj, ok := v.(*Object); ok && obj.Class == "Array" {
				args = append(args, obj.Elements...)
				continue
			}
			continue
		}
		v, err := i.evalExpression(frame, e)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (i *Interpreter) evalBinary(frame *Environment, n *ast.BinaryExpression) (Value, error) {
	if n.Operator == "in" {
		left, err := i.evalExpression(frame, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.evalExpression(frame, n.Right)
		if err != nil {
			return nil, err
		}
		obj, ok := right.(*Object)
		if !ok {
			return nil, throwf("TypeError", "Cannot use 'in' operator to search for '%s' in %s", ToStringValue(left), right.String())
		}
		key := ToStringValue(left).String()
		for cur := Value(obj); cur != nil; {
			o, ok := cur.(*Object)
			if !ok {
				break
			}
			if o.HasOwn(key) {
				return Boolean(true), nil
			}
			cur = o.Proto
		}
		return Boolean(false), nil
	}

	if n.Operator == "instanceof" {
		left, err := i.evalExpression(frame, n.Left)
		if err != nil {
			return nil, err
		}
		right, err := i.evalExpression(frame, n.Right)
		if err != nil {
			return nil, err
		}
		return Boolean(instanceOf(left, right)), nil
	}

	left, err := i.evalExpression(frame, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(frame, n.Right)
	if err != nil {
		return nil, err
	}
	return applyBinary(n.Operator, left, right)
}

func instanceOf(left, right Value) bool {
	fn, ok := right.(*ScriptFunction)
	if !ok {
		return false
	}
	for fn.Original != nil {
		fn = fn.Original
	}
	proto := fn.prototypeProperty()
	cur, ok := left.(*Object)
	if !ok {
		return false
	}
	for p := cur.Proto; p != nil; {
		po, ok := p.(*Object)
		if !ok {
			return false
		}
		if po == proto {
			return true
		}
		p = po.Proto
	}
	return false
}

func applyBinary(op string, left, right Value) (Value, error) {
	switch op {
	case "+":
		return Add(left, right), nil
	case "-":
		return Number(ToNumber(left) - ToNumber(right)), nil
	case "*":
		return Number(ToNumber(left) * ToNumber(right)), nil
	case "/":
		return Number(ToNumber(left) / ToNumber(right)), nil
	case "%":
		return Number(mod(ToNumber(left), ToNumber(right))), nil
	case "===":
		return Boolean(StrictEquals(left, right)), nil
	case "!==":
		return Boolean(!StrictEquals(left, right)), nil
	case "==":
		// Aliased to === — see DESIGN.md for the rationale.
		return Boolean(StrictEquals(left, right)), nil
	case "!=":
		return Boolean(!StrictEquals(left, right)), nil
	case "<":
		less, ok := Compare(left, right)
		return Boolean(ok && less), nil
	case ">":
		less, ok := Compare(right, left)
		return Boolean(ok && less), nil
	case "<=":
		less, ok := Compare(right, left)
		return Boolean(ok && !less), nil
	case ">=":
		less, ok := Compare(left, right)
		return Boolean(ok && !less), nil
	case "&":
		return Number(float64(toInt32(left) & toInt32(right))), nil
	case "|":
		return Number(float64(toInt32(left) | toInt32(right))), nil
	case "^":
		return Number(float64(toInt32(left) ^ toInt32(right))), nil
	case "<<":
		return Number(float64(toInt32(left) << (uint32(toInt32(right)) & 31))), nil
	case ">>":
		return Number(float64(toInt32(left) >> (uint32(toInt32(right)) & 31))), nil
	case ">>>":
		return Number(float64(toUint32(left) >> (uint32(toInt32(right)) & 31))), nil
	default:
		return nil, unhandledNodeType("BinaryExpression:" + op)
	}
}

func mod(a, b float64) float64 {
	if b == 0 {
		return nan()
	}
	r := a - b*float64(int64(a/b))
	return r
}

func (i *Interpreter) evalUnary(frame *Environment, n *ast.UnaryExpression) (Value, error) {
	if n.Operator == "typeof" {
		if id, ok := n.Argument.(*ast.Identifier); ok {
			if v, ok := frame.Get(id.Name); ok {
				return String(TypeOf(v)), nil
			}
			return String("undefined"), nil
		}
		v, err := i.evalExpression(frame, n.Argument)
		if err != nil {
			return nil, err
		}
		return String(TypeOf(v)), nil
	}

	if n.Operator == "delete" {
		return i.evalDelete(frame, n.Argument)
	}

	v, err := i.evalExpression(frame, n.Argument)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case "-":
		return Number(-ToNumber(v)), nil
	case "+":
		return Number(ToNumber(v)), nil
	case "!":
		return Boolean(!ToBoolean(v)), nil
	case "~":
		return Number(float64(^toInt32(v))), nil
	case "void":
		return Undefined{}, nil
	default:
		return nil, unhandledNodeType("UnaryExpression:" + n.Operator)
	}
}

func (i *Interpreter) evalDelete(frame *Environment, target ast.Expression) (Value, error) {
	member, ok := target.(*ast.MemberExpression)
	if !ok {
		return Boolean(true), nil // delete of a bare identifier is a no-op success
	}
	objVal, err := i.evalExpression(frame, member.Object)
	if err != nil {
		return nil, err
	}
	obj, ok := objVal.(*Object)
	if !ok {
		return Boolean(true), nil
	}
	key, err := i.memberKey(frame, member)
	if err != nil {
		return nil, err
	}
	obj.DeleteOwn(key)
	return Boolean(true), nil
}

func (i *Interpreter) evalUpdate(frame *Environment, n *ast.UpdateExpression) (Value, error) {
	old, err := i.evalExpression(frame, n.Argument)
	if err != nil {
		return nil, err
	}
	oldNum := ToNumber(old)
	var newNum float64
	if n.Operator == "++" {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	if err := i.assignTo(frame, n.Argument, Number(newNum)); err != nil {
		return nil, err
	}
	if n.Prefix {
		return Number(newNum), nil
	}
	return Number(oldNum), nil
}

func (i *Interpreter) evalAssignment(frame *Environment, n *ast.AssignmentExpression) (Value, error) {
	if n.Operator == "=" {
		v, err := i.evalExpression(frame, n.Right)
		if err != nil {
			return nil, err
		}
		if err := i.assignTo(frame, n.Left, v); err != nil {
			return nil, err
		}
		return v, nil
	}

	op := n.Operator[:len(n.Operator)-1] // strip trailing '='
	cur, err := i.evalExpression(frame, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(frame, n.Right)
	if err != nil {
		return nil, err
	}
	v, err := applyBinary(op, cur, right)
	if err != nil {
		return nil, err
	}
	if err := i.assignTo(frame, n.Left, v); err != nil {
		return nil, err
	}
	return v, nil
}

// assignTo implements the AssignmentExpression/UpdateExpression/for-in
// write target rules: an Identifier assigns via Environment.Set (including
// its documented lenient fallback), a MemberExpression writes through
// setMember without consulting the reflective filter — writes are not
// blocked, only reads.
func (i *Interpreter) assignTo(frame *Environment, target ast.Expression, v Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		frame.Set(t.Name, v)
		return nil
	case *ast.MemberExpression:
		objVal, err := i.evalExpression(frame, t.Object)
		if err != nil {
			return err
		}
		key, err := i.memberKey(frame, t)
		if err != nil {
			return err
		}
		return i.setMember(objVal, key, v)
	default:
		return unhandledNodeType(target.Type())
	}
}

func (i *Interpreter) setMember(objVal Value, key string, v Value) error {
	switch o := objVal.(type) {
	case *Object:
		o.SetOwn(key, v)
		return nil
	case *HostValue:
		if o.Set == nil {
			return throwf("TypeError", "Cannot set property '%s' of host value", key)
		}
		return o.Set(key, v)
	case Undefined:
		return throwCannotReadProperty(key, false)
	case Null:
		return throwCannotReadProperty(key, true)
	default:
		// Primitives silently ignore property writes, matching non-strict
		// ES5 semantics for e.g. `(1).x = 2`.
		return nil
	}
}

func (i *Interpreter) memberKey(frame *Environment, n *ast.MemberExpression) (string, error) {
	if !n.Computed {
		id, ok := n.Property.(*ast.Identifier)
		if !ok {
			return "", unhandledNodeType(n.Property.Type())
		}
		return id.Name, nil
	}
	v, err := i.evalExpression(frame, n.Property)
	if err != nil {
		return "", err
	}
	return ToStringValue(v).String(), nil
}

// evalMember evaluates a MemberExpression, returning both the resolved
// object (for CallExpression's this-binding) and the property value, with
// the reflective-access filter applied at every prototype-chain level.
func (i *Interpreter) evalMember(frame *Environment, n *ast.MemberExpression) (Value, Value, error) {
	objVal, err := i.evalExpression(frame, n.Object)
	if err != nil {
		return nil, nil, err
	}
	key, err := i.memberKey(frame, n)
	if err != nil {
		return nil, nil, err
	}
	v, err := i.getMember(objVal, key)
	return objVal, v, err
}

func (i *Interpreter) getMember(objVal Value, key string) (Value, error) {
	if blocked, replacement := reflectiveFilter(objVal, key); blocked {
		return replacement, nil
	}

	switch o := objVal.(type) {
	case *Object:
		for cur := Value(o); cur != nil; {
			co, ok := cur.(*Object)
			if !ok {
				break
			}
			if blocked, replacement := reflectiveFilter(co, key); blocked {
				return replacement, nil
			}
			if v, ok := co.GetOwn(key); ok {
				return v, nil
			}
			cur = co.Proto
		}
		return Undefined{}, nil
	case *HostValue:
		if o.Get != nil {
			if v, ok := o.Get(key); ok {
				return v, nil
			}
		}
		return Undefined{}, nil
	case *ScriptFunction:
		if key == "prototype" {
			return o.prototypeProperty(), nil
		}
		if key == "name" {
			return String(o.Name), nil
		}
		if key == "length" {
			return Number(float64(len(o.Params))), nil
		}
		switch key {
		case "call":
			return functionCallMethod, nil
		case "apply":
			return functionApplyMethod, nil
		case "bind":
			return functionBindMethod, nil
		}
		return Undefined{}, nil
	case String:
		if key == "length" {
			return Number(float64(len([]rune(string(o))))), nil
		}
		if idx, ok := arrayIndex(key); ok {
			runes := []rune(string(o))
			if idx >= 0 && idx < len(runes) {
				return String(string(runes[idx])), nil
			}
			return Undefined{}, nil
		}
		if blocked, replacement := reflectiveFilter(stringProto, key); blocked {
			return replacement, nil
		}
		if m, ok := stringProto.GetOwn(key); ok {
			return m, nil
		}
		return Undefined{}, nil
	case Undefined:
		return nil, throwCannotReadProperty(key, false)
	case Null:
		return nil, throwCannotReadProperty(key, true)
	default:
		return Undefined{}, nil
	}
}

func (i *Interpreter) evalCall(frame *Environment, n *ast.CallExpression) (Value, error) {
	if id, ok := n.Callee.(*ast.Identifier); ok && id.Name == "eval" {
		if _, bound := frame.Get("eval"); !bound {
			return i.evalEval(frame, n.Arguments)
		}
	}

	var thisArg Value = Undefined{}
	var calleeVal Value
	var err error

	if member, ok := n.Callee.(*ast.MemberExpression); ok {
		thisArg, calleeVal, err = i.evalMember(frame, member)
		if err != nil {
			return nil, err
		}
	} else {
		calleeVal, err = i.evalExpression(frame, n.Callee)
		if err != nil {
			return nil, err
		}
	}

	args, err := i.evalArgs(frame, n.Arguments)
	if err != nil {
		return nil, err
	}
	return i.Invoke(calleeVal, thisArg, args, false)
}

// evalEval implements the gated dynamic-eval primitive: without a
// WithParse callback it throws rather than silently no-oping, and the
// parsed program is evaluated in the caller's own frame, participating in
// that frame's hoisting the same way any nested block's statements would.
func (i *Interpreter) evalEval(frame *Environment, argExprs []ast.Expression) (Value, error) {
	if i.parse == nil {
		return nil, errEvalUnsupported()
	}
	args, err := i.evalArgs(frame, argExprs)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return Undefined{}, nil
	}
	src, ok := args[0].(String)
	if !ok {
		return args[0], nil // eval of a non-string returns it unchanged
	}
	program, perr := i.parse(string(src))
	if perr != nil {
		return nil, throwf("SyntaxError", "%s", perr.Error())
	}
	i.hoist(frame, program.Body)
	val, _, err := i.execStatementsWithCompletion(frame, program.Body)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return Undefined{}, nil
	}
	return val, nil
}

func (i *Interpreter) evalObject(frame *Environment, n *ast.ObjectExpression) (Value, error) {
	obj := NewObject(defaultObjectProto)
	for _, p := range n.Properties {
		switch prop := p.(type) {
		case *ast.ObjectProperty:
			key, err := i.propertyKey(frame, prop.Key, prop.Computed)
			if err != nil {
				return nil, err
			}
			v, err := i.evalExpression(frame, prop.Value)
			if err != nil {
				return nil, err
			}
			obj.SetOwn(key, v)
		case *ast.ObjectMethod:
			key, err := i.propertyKey(frame, prop.Key, prop.Computed)
			if err != nil {
				return nil, err
			}
			fn := i.makeFunction(prop.Function.Params, prop.Function.Body, frame, "", false)
			obj.SetOwn(key, fn)
		case *ast.SpreadElement:
			v, err := i.evalExpression(frame, prop.Argument)
			if err != nil {
				return nil, err
			}
			if src, ok := v.(*Object); ok {
				for _, k := range src.OwnKeys() {
					if val, ok := src.GetOwn(k); ok {
						obj.SetOwn(k, val)
					}
				}
			}
		default:
			return nil, unhandledNodeType(p.Type())
		}
	}
	return obj, nil
}

func (i *Interpreter) propertyKey(frame *Environment, key ast.Expression, computed bool) (string, error) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return k.Name, nil
		case *ast.StringLiteral:
			return k.Value, nil
		case *ast.NumericLiteral:
			return Number(k.Value).String(), nil
		}
	}
	v, err := i.evalExpression(frame, key)
	if err != nil {
		return "", err
	}
	return ToStringValue(v).String(), nil
}

func (i *Interpreter) evalArray(frame *Environment, n *ast.ArrayExpression) (Value, error) {
	elems := make([]Value, 0, len(n.Elements))
	for _, e := range n.Elements {
		if e == nil {
			elems = append(elems, Undefined{}) // elided hole
			continue
		}
		if sp, ok := e.(*ast.SpreadElement); ok {
			v, err := i.evalExpression(frame, sp.Argument)
			if err != nil {
				return nil, err
			}
			if obj, ok := v.(*Object); ok && obj.Class == "Array" {
				elems = append(elems, obj.Elements...)
			}
			continue
		}
		v, err := i.evalExpression(frame, e)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return NewArray(elems, defaultArrayProto), nil
}
