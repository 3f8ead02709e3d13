// Package types implements Seen's structural type representation, the
// environment used during checking, and Hindley-Milner-style
// unification with nullable lifting (spec.md 4.F).
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the Type variants from spec.md 3.
type Kind int

const (
	KPrimitive Kind = iota
	KArray
	KTuple
	KFunction
	KStruct
	KEnum
	KInterface
	KNullable
	KGeneric
	KUnknown
	KError
	KTypeVar // unification metavariable, not part of the surface grammar
)

type Primitive int

const (
	I8 Primitive = iota
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	F32
	F64
	Bool
	Char
	Str
	Unit
	Never
)

var primitiveNames = map[Primitive]string{
	I8: "I8", I16: "I16", I32: "I32", I64: "I64", I128: "I128",
	U8: "U8", U16: "U16", U32: "U32", U64: "U64", U128: "U128",
	F32: "F32", F64: "F64", Bool: "Bool", Char: "Char", Str: "Str",
	Unit: "Unit", Never: "Never",
}

// StructField is one field of a KStruct type.
type StructField struct {
	Name string
	Type *Type
}

// EnumVariant is one variant of a KEnum type.
type EnumVariant struct {
	Name   string
	Fields []StructField
}

// InterfaceMethod is one method signature of a KInterface type.
type InterfaceMethod struct {
	Name   string
	Params []*Type
	Return *Type
}

// Type is a single structurally-shared representation for every shape in
// spec.md 3. Only the fields relevant to Kind are populated; the zero
// value of unrelated fields is never inspected.
type Type struct {
	Kind Kind

	Primitive Primitive // KPrimitive

	Elem *Type // KArray, KNullable

	Tuple []*Type // KTuple

	Params   []*Type // KFunction
	Return   *Type   // KFunction
	IsAsync  bool    // KFunction

	Name     string // KStruct, KEnum, KInterface, KGeneric
	Fields   []StructField
	Variants []EnumVariant
	Methods  []InterfaceMethod
	Generics []*Type // instantiated generic arguments on Struct/Enum/Interface

	VarID int // KTypeVar: unique id within a single inference run
}

// Prim returns a freshly allocated primitive Type on every call.
func Prim(p Primitive) *Type { return &Type{Kind: KPrimitive, Primitive: p} }

func Array(elem *Type) *Type { return &Type{Kind: KArray, Elem: elem} }

func TupleOf(elems ...*Type) *Type { return &Type{Kind: KTuple, Tuple: elems} }

func Function(params []*Type, ret *Type, isAsync bool) *Type {
	return &Type{Kind: KFunction, Params: params, Return: ret, IsAsync: isAsync}
}

func Struct(name string, fields []StructField, generics []*Type) *Type {
	return &Type{Kind: KStruct, Name: name, Fields: fields, Generics: generics}
}

func Enum(name string, variants []EnumVariant, generics []*Type) *Type {
	return &Type{Kind: KEnum, Name: name, Variants: variants, Generics: generics}
}

func Interface(name string, methods []InterfaceMethod, generics []*Type) *Type {
	return &Type{Kind: KInterface, Name: name, Methods: methods, Generics: generics}
}

// Nullable wraps t, canonicalizing Nullable(Nullable(T)) to Nullable(T)
// per spec.md 3's nullability-closure invariant.
func Nullable(t *Type) *Type {
	if t.Kind == KNullable {
		return t
	}
	return &Type{Kind: KNullable, Elem: t}
}

func GenericParam(name string) *Type { return &Type{Kind: KGeneric, Name: name} }

func Unknown() *Type { return &Type{Kind: KUnknown} }

func ErrorType() *Type { return &Type{Kind: KError} }

func TypeVar(id int) *Type { return &Type{Kind: KTypeVar, VarID: id} }

// IsNullable reports whether t is a Nullable wrapper.
func (t *Type) IsNullable() bool { return t.Kind == KNullable }

// Underlying returns the wrapped type for a Nullable, or t itself.
func (t *Type) Underlying() *Type {
	if t.Kind == KNullable {
		return t.Elem
	}
	return t
}

// IsNever reports whether t is the bottom type, a subtype of everything
// (spec.md 3's "Never is a subtype of every type").
func (t *Type) IsNever() bool { return t.Kind == KPrimitive && t.Primitive == Never }

// IsNumeric reports whether t is one of the integer or float primitives.
func (t *Type) IsNumeric() bool {
	if t.Kind != KPrimitive {
		return false
	}
	switch t.Primitive {
	case I8, I16, I32, I64, I128, U8, U16, U32, U64, U128, F32, F64:
		return true
	}
	return false
}

func (t *Type) IsFloat() bool {
	return t.Kind == KPrimitive && (t.Primitive == F32 || t.Primitive == F64)
}

func (t *Type) IsInteger() bool { return t.IsNumeric() && !t.IsFloat() }

// Equal reports structural equality, ignoring type-variable identity
// (two distinct unresolved KTypeVar never compare equal, matching
// standard unification semantics: equality is for concrete types).
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KPrimitive:
		return t.Primitive == o.Primitive
	case KArray, KNullable:
		return t.Elem.Equal(o.Elem)
	case KTuple:
		return equalTypeSlices(t.Tuple, o.Tuple)
	case KFunction:
		return t.IsAsync == o.IsAsync && t.Return.Equal(o.Return) && equalTypeSlices(t.Params, o.Params)
	case KStruct, KEnum, KInterface:
		return t.Name == o.Name && equalTypeSlices(t.Generics, o.Generics)
	case KGeneric:
		return t.Name == o.Name
	case KUnknown, KError:
		return true
	case KTypeVar:
		return t.VarID == o.VarID
	}
	return false
}

func equalTypeSlices(a, b []*Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String renders t for diagnostics, mirroring the surface syntax (T?
// for Nullable, [T] for Array, (A, B) for Tuple).
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KPrimitive:
		return primitiveNames[t.Primitive]
	case KArray:
		return "[" + t.Elem.String() + "]"
	case KTuple:
		parts := make([]string, len(t.Tuple))
		for i, e := range t.Tuple {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		prefix := ""
		if t.IsAsync {
			prefix = "suspend "
		}
		return fmt.Sprintf("%sfun(%s) -> %s", prefix, strings.Join(parts, ", "), t.Return.String())
	case KStruct, KEnum, KInterface:
		if len(t.Generics) == 0 {
			return t.Name
		}
		parts := make([]string, len(t.Generics))
		for i, g := range t.Generics {
			parts[i] = g.String()
		}
		return fmt.Sprintf("%s<%s>", t.Name, strings.Join(parts, ", "))
	case KNullable:
		return t.Elem.String() + "?"
	case KGeneric:
		return t.Name
	case KUnknown:
		return "Unknown"
	case KError:
		return "<error>"
	case KTypeVar:
		return fmt.Sprintf("'t%d", t.VarID)
	}
	return "<invalid type>"
}
