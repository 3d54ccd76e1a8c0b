package interp

import "github.com/badlogic/jailjs/ast"

// Interpreter holds the mutable state of one evaluation run: the global
// scope frame, the operation-count guard, and an optional dynamic-eval
// callback.
type Interpreter struct {
	global *Environment
	opCount int
	maxOps  int
	parse   ParseFunc
}

// NewInterpreter creates an Interpreter whose global frame is seeded from
// globals (the embedder's capability table) plus the curated default
// built-ins (globals.go). Passing a nil globals map is equivalent to
// an empty one.
func NewInterpreter(globals map[string]Value, opts ...Option) *Interpreter {
	i := &Interpreter{
		global: NewGlobalEnvironment(),
	}
	installDefaultGlobals(i.global)
	for name, v := range globals {
		i.global.DeclareLet(name, v)
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Evaluate runs program against the interpreter's global frame, resetting
// the operation counter first. The result is the value of the last
// executed ExpressionStatement or Directive, matching how interactive
// JS evaluation surfaces a "completion value".
func (i *Interpreter) Evaluate(program *ast.Program) (Value, error) {
	i.opCount = 0
	i.hoist(i.global, program.Body)

	var last Value = Undefined{}
	for _, stmt := range program.Body {
		sig, val, err := i.execStatementWithCompletion(i.global, stmt)
		if err != nil {
			return nil, err
		}
		if val != nil {
			last = val
		}
		if sig != nil {
			// A bare return/break/continue at program top level has no
			// enclosing construct to target; treat it as a no-op completion
			// rather than a crash, matching permissive top-level script
			// evaluation.
			break
		}
	}
	return last, nil
}

// tick increments the operation counter and returns a *TimeoutError once the
// ceiling configured via WithMaxOps is exceeded. maxOps == 0 disables
// the guard.
func (i *Interpreter) tick() error {
	if i.maxOps == 0 {
		return nil
	}
	i.opCount++
	if i.opCount > i.maxOps {
		return &TimeoutError{MaxOps: i.maxOps}
	}
	return nil
}

// Global exposes the root environment frame, used by the public facade to
// register additional globals after construction.
func (i *Interpreter) Global() *Environment { return i.global }
