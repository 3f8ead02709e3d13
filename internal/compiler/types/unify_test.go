package types

import "testing"

func TestUnify_IdenticalPrimitives(t *testing.T) {
	_, err := Unify(Prim(I32), Prim(I32))
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestUnify_MismatchedPrimitives(t *testing.T) {
	_, err := Unify(Prim(I32), Prim(Bool))
	if err == nil {
		t.Fatal("expected a mismatch error")
	}
	if _, ok := err.(*MismatchError); !ok {
		t.Fatalf("expected *MismatchError, got %T", err)
	}
}

func TestUnify_TypeVarBindsAndResolves(t *testing.T) {
	v := TypeVar(0)
	sub, err := Unify(v, Prim(Str))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved := sub.Apply(v); !resolved.Equal(Prim(Str)) {
		t.Fatalf("expected t0 to resolve to Str, got %s", resolved)
	}
}

func TestUnify_OccursCheck(t *testing.T) {
	v := TypeVar(1)
	_, err := Unify(v, Array(v))
	if err == nil {
		t.Fatal("expected an occurs-check failure")
	}
	if _, ok := err.(*OccursError); !ok {
		t.Fatalf("expected *OccursError, got %T", err)
	}
}

func TestUnify_ConstructorsComponentwise(t *testing.T) {
	v := TypeVar(2)
	sub, err := Unify(Array(v), Array(Prim(I64)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved := sub.Apply(v); !resolved.Equal(Prim(I64)) {
		t.Fatalf("expected element var to resolve to I64, got %s", resolved)
	}
}

func TestUnify_NullableLifting(t *testing.T) {
	// A bare type variable unifying with Nullable(T) simply binds to
	// Nullable(T) (variable binding always takes the whole term).
	v := TypeVar(3)
	sub, err := Unify(Nullable(Prim(Str)), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved := sub.Apply(v); !resolved.Equal(Nullable(Prim(Str))) {
		t.Fatalf("expected var to resolve to Nullable(Str), got %s", resolved)
	}
}

func TestUnify_NullableWithConcreteLifts(t *testing.T) {
	// Nullable(T) unifying with a concrete (non-variable) T succeeds by
	// descending into the nullable wrapper (spec.md 4.F rule 4).
	if _, err := Unify(Nullable(Prim(Str)), Prim(Str)); err != nil {
		t.Fatalf("expected Nullable(Str)/Str to unify, got %v", err)
	}
}

func TestUnify_NullableNullableBothSides(t *testing.T) {
	_, err := Unify(Nullable(Prim(I32)), Nullable(Prim(I32)))
	if err != nil {
		t.Fatalf("expected nullable-nullable unification to succeed, got %v", err)
	}
}

func TestUnify_UnknownUnifiesWithAnything(t *testing.T) {
	_, err := Unify(Unknown(), Prim(Bool))
	if err != nil {
		t.Fatalf("expected Unknown to unify with anything, got %v", err)
	}
}

func TestUnify_FunctionComponentwise(t *testing.T) {
	f1 := Function([]*Type{Prim(I32), Prim(Str)}, Prim(Bool), false)
	f2 := Function([]*Type{Prim(I32), Prim(Str)}, Prim(Bool), false)
	if _, err := Unify(f1, f2); err != nil {
		t.Fatalf("expected identical function types to unify, got %v", err)
	}

	f3 := Function([]*Type{Prim(I32)}, Prim(Bool), false)
	if _, err := Unify(f1, f3); err == nil {
		t.Fatal("expected arity mismatch to fail unification")
	}
}

func TestNullableCanonicalization(t *testing.T) {
	n := Nullable(Nullable(Prim(I32)))
	if n.Elem.Kind == KNullable {
		t.Fatalf("Nullable(Nullable(T)) must canonicalize to Nullable(T), got %s", n)
	}
	if n.String() != "I32?" {
		t.Errorf("got %s, want I32?", n)
	}
}

func TestPromoteNumeric_IntFloat(t *testing.T) {
	result, ok := PromoteNumeric(Prim(I32), Prim(F64))
	if !ok {
		t.Fatal("expected Int/Float promotion to succeed")
	}
	if !result.Equal(Prim(F64)) {
		t.Errorf("expected promoted type F64, got %s", result)
	}
}

func TestPromoteNumeric_RejectsNonNumeric(t *testing.T) {
	if _, ok := PromoteNumeric(Prim(Bool), Prim(F64)); ok {
		t.Fatal("expected promotion to reject a non-numeric operand")
	}
}

func TestSubstitution_ComposeChainsBindings(t *testing.T) {
	s1 := NewSubstitution()
	s1.Bind(0, TypeVar(1))
	s2 := NewSubstitution()
	s2.Bind(1, Prim(I64))

	composed := s1.Compose(s2)
	if got := composed.Apply(TypeVar(0)); !got.Equal(Prim(I64)) {
		t.Fatalf("expected t0 to resolve through the chain to I64, got %s", got)
	}
}
