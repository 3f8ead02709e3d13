package types

// TypeEnvironment is a chain of lexical scopes mapping names to types.
// check_program (internal/compiler/typechecker) pushes one scope per
// block, function body, and when/match arm so smart-cast refinements
// can be discarded at the scope's join point (spec.md 4.F).
type TypeEnvironment struct {
	parent *TypeEnvironment
	vars   map[string]*Type
	// refined holds smart-cast narrowings local to this scope; they are
	// consulted before vars but never written back to a parent scope.
	refined map[string]*Type
}

// NewTypeEnvironment returns an empty root environment; it binds no
// names, built-in primitives included.
func NewTypeEnvironment() *TypeEnvironment {
	env := &TypeEnvironment{vars: map[string]*Type{}, refined: map[string]*Type{}}
	return env
}

// Child opens a new nested scope; lookups fall through to e when a name
// is not found locally.
func (e *TypeEnvironment) Child() *TypeEnvironment {
	return &TypeEnvironment{parent: e, vars: map[string]*Type{}, refined: map[string]*Type{}}
}

// Define binds name to t in the current scope, shadowing any outer
// binding of the same name (spec.md 9 open question: re-declaration of
// an existing name in the SAME scope is rejected by the type checker
// before Define is called; Define itself always shadows).
func (e *TypeEnvironment) Define(name string, t *Type) {
	e.vars[name] = t
}

// Lookup resolves name, preferring a smart-cast refinement over the
// declared type, then walking outward through parent scopes.
func (e *TypeEnvironment) Lookup(name string) (*Type, bool) {
	for cur := e; cur != nil; cur = cur.parent {
		if t, ok := cur.refined[name]; ok {
			return t, true
		}
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// LookupLocal resolves name only within this exact scope, used to detect
// duplicate bindings within a single block.
func (e *TypeEnvironment) LookupLocal(name string) (*Type, bool) {
	t, ok := e.vars[name]
	return t, ok
}

// Refine narrows name to t for the remainder of this scope only
// (spec.md 4.F smart-cast: "the refinement is discarded at join
// points" — achieved structurally because Refine never touches a
// parent's maps, and a fresh Child() scope for each branch means the
// refinement simply goes out of scope when the branch ends).
func (e *TypeEnvironment) Refine(name string, t *Type) {
	e.refined[name] = t
}
