package types

import "fmt"

// MismatchError reports a failed unification, grounded on spec.md 4.F's
// TypeMismatch error kind. Span attachment happens one layer up, in the
// type checker, which knows the expression being checked.
type MismatchError struct {
	Left, Right *Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %s vs %s", e.Left, e.Right)
}

// OccursError reports a type variable unifying with a type that contains
// it, which would otherwise build an infinite type.
type OccursError struct {
	VarID int
	In    *Type
}

func (e *OccursError) Error() string {
	return fmt.Sprintf("occurs check failed: 't%d occurs in %s", e.VarID, e.In)
}

// Substitution maps type-variable ids to their resolved type. It is
// built incrementally by Unify and applied to close over chains of
// substitutions (e.g. 't0 -> 't1, 't1 -> Int resolves 't0 to Int).
type Substitution struct {
	bindings map[int]*Type
}

func NewSubstitution() *Substitution {
	return &Substitution{bindings: map[int]*Type{}}
}

// Bind records varID -> t. Callers are expected to have run the occurs
// check first.
func (s *Substitution) Bind(varID int, t *Type) {
	s.bindings[varID] = t
}

// Apply walks t, replacing every KTypeVar with its bound type (following
// chains of bindings), leaving unbound variables untouched.
func (s *Substitution) Apply(t *Type) *Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case KTypeVar:
		if bound, ok := s.bindings[t.VarID]; ok {
			return s.Apply(bound)
		}
		return t
	case KArray:
		return Array(s.Apply(t.Elem))
	case KNullable:
		return Nullable(s.Apply(t.Elem))
	case KTuple:
		return TupleOf(s.applyAll(t.Tuple)...)
	case KFunction:
		return Function(s.applyAll(t.Params), s.Apply(t.Return), t.IsAsync)
	case KStruct:
		return &Type{Kind: KStruct, Name: t.Name, Fields: t.Fields, Generics: s.applyAll(t.Generics)}
	case KEnum:
		return &Type{Kind: KEnum, Name: t.Name, Variants: t.Variants, Generics: s.applyAll(t.Generics)}
	case KInterface:
		return &Type{Kind: KInterface, Name: t.Name, Methods: t.Methods, Generics: s.applyAll(t.Generics)}
	default:
		return t
	}
}

func (s *Substitution) applyAll(ts []*Type) []*Type {
	out := make([]*Type, len(ts))
	for i, t := range ts {
		out[i] = s.Apply(t)
	}
	return out
}

// Compose returns a substitution equivalent to applying s first, then
// other, on top of s's own bindings. Composition is idempotent in the
// sense that Compose(s, s) behaves the same as s: re-applying an
// already-closed substitution to itself changes nothing because Apply
// already follows chains to their end.
func (s *Substitution) Compose(other *Substitution) *Substitution {
	merged := NewSubstitution()
	for id, t := range s.bindings {
		merged.bindings[id] = other.Apply(t)
	}
	for id, t := range other.bindings {
		if _, exists := merged.bindings[id]; !exists {
			merged.bindings[id] = t
		}
	}
	return merged
}

func occurs(varID int, t *Type) bool {
	switch t.Kind {
	case KTypeVar:
		return t.VarID == varID
	case KArray, KNullable:
		return occurs(varID, t.Elem)
	case KTuple:
		return occursAny(varID, t.Tuple)
	case KFunction:
		return occurs(varID, t.Return) || occursAny(varID, t.Params)
	case KStruct, KEnum, KInterface:
		return occursAny(varID, t.Generics)
	}
	return false
}

func occursAny(varID int, ts []*Type) bool {
	for _, t := range ts {
		if occurs(varID, t) {
			return true
		}
	}
	return false
}

// Unify implements spec.md 4.F's six unification rules, returning a
// Substitution that makes t1 and t2 equal, or a *MismatchError /
// *OccursError.
func Unify(t1, t2 *Type) (*Substitution, error) {
	sub := NewSubstitution()
	return unify(t1, t2, sub)
}

func unify(t1, t2 *Type, sub *Substitution) (*Substitution, error) {
	t1 = sub.Apply(t1)
	t2 = sub.Apply(t2)

	// Rule 5: Unknown unifies with anything.
	if t1.Kind == KUnknown || t2.Kind == KUnknown {
		return sub, nil
	}
	// Error is a sentinel that always "succeeds" so a single bad
	// sub-expression doesn't cascade unrelated mismatch errors.
	if t1.Kind == KError || t2.Kind == KError {
		return sub, nil
	}

	// Rule 2: type variable unifies with anything not containing it.
	if t1.Kind == KTypeVar {
		return bindVar(t1.VarID, t2, sub)
	}
	if t2.Kind == KTypeVar {
		return bindVar(t2.VarID, t1, sub)
	}

	// Rule 1: identical concrete types (covers Never, which is handled
	// specially by callers that need "Never is a subtype of every type"
	// rather than strict equality — Unify itself only ever equates).
	if t1.Equal(t2) {
		return sub, nil
	}

	// Rule 4: Nullable lifting.
	if t1.Kind == KNullable && t2.Kind == KNullable {
		inner, err := unify(t1.Elem, t2.Elem, sub)
		return inner, err
	}
	if t1.Kind == KNullable {
		return unify(t1.Elem, t2, sub)
	}
	if t2.Kind == KNullable {
		return unify(t1, t2.Elem, sub)
	}

	// Rule 3: constructors unify componentwise.
	if t1.Kind != t2.Kind {
		return nil, &MismatchError{Left: t1, Right: t2}
	}
	switch t1.Kind {
	case KArray:
		return unify(t1.Elem, t2.Elem, sub)
	case KTuple:
		return unifyAll(t1.Tuple, t2.Tuple, sub, t1, t2)
	case KFunction:
		if len(t1.Params) != len(t2.Params) || t1.IsAsync != t2.IsAsync {
			return nil, &MismatchError{Left: t1, Right: t2}
		}
		next, err := unifyAll(t1.Params, t2.Params, sub, t1, t2)
		if err != nil {
			return nil, err
		}
		return unify(t1.Return, t2.Return, next)
	case KStruct, KEnum, KInterface:
		if t1.Name != t2.Name {
			return nil, &MismatchError{Left: t1, Right: t2}
		}
		return unifyAll(t1.Generics, t2.Generics, sub, t1, t2)
	case KGeneric:
		if t1.Name != t2.Name {
			return nil, &MismatchError{Left: t1, Right: t2}
		}
		return sub, nil
	}
	return nil, &MismatchError{Left: t1, Right: t2}
}

func unifyAll(a, b []*Type, sub *Substitution, whole1, whole2 *Type) (*Substitution, error) {
	if len(a) != len(b) {
		return nil, &MismatchError{Left: whole1, Right: whole2}
	}
	cur := sub
	for i := range a {
		next, err := unify(a[i], b[i], cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func bindVar(varID int, t *Type, sub *Substitution) (*Substitution, error) {
	if t.Kind == KTypeVar && t.VarID == varID {
		return sub, nil
	}
	if occurs(varID, t) {
		return nil, &OccursError{VarID: varID, In: t}
	}
	sub.Bind(varID, t)
	return sub, nil
}

// PromoteNumeric implements spec.md 4.F rule 6 and the binary-operator
// resolution table: Int/Float promotion is permitted only here, inside
// arithmetic resolution, never through Unify/assignment. It returns the
// promoted result type for a binary op over a and b, or false if neither
// promotion nor exact match applies.
func PromoteNumeric(a, b *Type) (*Type, bool) {
	au, bu := a.Underlying(), b.Underlying()
	if !au.IsNumeric() || !bu.IsNumeric() {
		return nil, false
	}
	if au.Equal(bu) {
		return a, true
	}
	if au.IsFloat() && bu.IsInteger() {
		return au, true
	}
	if bu.IsFloat() && au.IsInteger() {
		return bu, true
	}
	return nil, false
}
