package interp

// FrameKind distinguishes a var-declaration target (function frame) from a
// block-scoped frame.
type FrameKind int

const (
	// FrameFunction frames are created for the global program and every
	// function invocation; `var` declarations always target the nearest
	// enclosing one.
	FrameFunction FrameKind = iota
	// FrameBlock frames are created for block statements, for-headers,
	// switch bodies, and catch clauses; `let`/`const` target the immediate
	// frame, whatever its kind.
	FrameBlock
)

// binding distinguishes "declared but still undefined" from "never
// declared", matching the environment's "exists bit" invariant.
type binding struct {
	value Value
}

// Environment is one frame in the lexical scope chain. Frames are shared by
// every closure that captures them; nothing explicitly frees a frame, it is
// simply unreachable once no script function or other frame references it.
type Environment struct {
	parent  *Environment
	kind    FrameKind
	vars    map[string]*binding
}

// NewGlobalEnvironment creates a root function frame with no parent.
func NewGlobalEnvironment() *Environment {
	return &Environment{kind: FrameFunction, vars: make(map[string]*binding)}
}

// NewFunctionFrame creates a function-kind frame enclosed by parent, used
// for program entry and every function call.
func NewFunctionFrame(parent *Environment) *Environment {
	return &Environment{parent: parent, kind: FrameFunction, vars: make(map[string]*binding)}
}

// NewBlockFrame creates a block-kind frame enclosed by parent.
func NewBlockFrame(parent *Environment) *Environment {
	return &Environment{parent: parent, kind: FrameBlock, vars: make(map[string]*binding)}
}

// Get walks parent links looking for name, returning ok=false if no frame in
// the chain has ever declared it.
func (e *Environment) Get(name string) (Value, bool) {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.vars[name]; ok {
			return b.value, true
		}
	}
	return nil, false
}

// Set walks parent links and mutates the first frame that already has the
// binding. If none is found, it creates the binding in the originating
// frame — a lenient, non-ES5 fallback kept deliberately rather than
// throwing a ReferenceError (see DESIGN.md).
func (e *Environment) Set(name string, v Value) {
	for f := e; f != nil; f = f.parent {
		if b, ok := f.vars[name]; ok {
			b.value = v
			return
		}
	}
	e.vars[name] = &binding{value: v}
}

// DeclareVar walks past block frames to the nearest function frame and binds
// there, used by the hoisting pre-pass and by `var`
// declarators reached during normal evaluation.
func (e *Environment) DeclareVar(name string, v Value) {
	f := e
	for f.kind != FrameFunction && f.parent != nil {
		f = f.parent
	}
	if b, ok := f.vars[name]; ok {
		// An existing binding (from hoisting or an earlier declarator) is
		// overwritten; execVariableDeclaration skips initializer-less `var`
		// declarators for bound names, so those never reach here.
		b.value = v
		return
	}
	f.vars[name] = &binding{value: v}
}

// DeclareVarIfAbsent seeds name with v only when the function frame does not
// already have a binding; used by the hoisting pre-pass so it never
// clobbers a value bound by an earlier statement in the same pre-pass.
func (e *Environment) DeclareVarIfAbsent(name string, v Value) {
	f := e
	for f.kind != FrameFunction && f.parent != nil {
		f = f.parent
	}
	if _, ok := f.vars[name]; ok {
		return
	}
	f.vars[name] = &binding{value: v}
}

// DeclareLet binds name in the current frame, whatever its kind, used for
// `let`/`const`, function-declaration bindings, the self-name of named
// function expressions, formal parameters, and `arguments`/`this`.
func (e *Environment) DeclareLet(name string, v Value) {
	e.vars[name] = &binding{value: v}
}

// HasOwn reports whether name is bound directly in this frame, not an
// ancestor.
func (e *Environment) HasOwn(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Kind reports whether this frame is a function or block frame.
func (e *Environment) Kind() FrameKind { return e.kind }

// Parent returns the enclosing frame, or nil at the root.
func (e *Environment) Parent() *Environment { return e.parent }
