// Package ir implements spec.md 3's intermediate representation: typed
// SSA-ish values and instructions grouped into basic blocks with a
// control-flow graph, functions, and a module. It is rebuilt per
// function by internal/compiler/lowering and consumed by
// internal/compiler/passes and internal/compiler/backend/llvm.
//
// Grounded on the original Rust seen_ir crate's value.rs/function.rs
// shape (IRType/IRValue catalogue, size_bytes, is_assignable_from),
// adapted into idiomatic Go: a closed Kind enum plus a single struct
// carrying only the fields relevant to that Kind, the same shape
// internal/compiler/types.Type already uses.
package ir

import (
	"fmt"
	"strings"
)

// Kind discriminates the IRType variants from spec.md 3.
type Kind int

const (
	KVoid Kind = iota
	KInteger
	KFloat
	KBoolean
	KChar
	KString
	KArray
	KFunction
	KStruct
	KEnum
	KPointer
	KReference
	KOptional
	KGeneric
)

// EnumVariantShape is one variant of a KEnum IRType: a name plus its
// optional tuple field types (spec.md 3's IR Enum{...}).
type EnumVariantShape struct {
	Name   string
	Fields []Type
}

// StructFieldShape is one field of a KStruct IRType.
type StructFieldShape struct {
	Name string
	Type Type
}

// Type is the IR-level type catalogue (spec.md 3's IRType). Only the
// fields relevant to Kind are populated.
type Type struct {
	Kind Kind

	Elem *Type // KArray, KPointer, KReference, KOptional

	Params []Type // KFunction
	Return *Type  // KFunction

	Name     string // KStruct, KEnum, KGeneric
	Fields   []StructFieldShape
	Variants []EnumVariantShape
}

func VoidType() Type              { return Type{Kind: KVoid} }
func Integer() Type              { return Type{Kind: KInteger} }
func Float() Type                { return Type{Kind: KFloat} }
func Boolean() Type              { return Type{Kind: KBoolean} }
func Char() Type                 { return Type{Kind: KChar} }
func StringT() Type              { return Type{Kind: KString} }
func Array(elem Type) Type       { return Type{Kind: KArray, Elem: &elem} }
func Pointer(elem Type) Type     { return Type{Kind: KPointer, Elem: &elem} }
func Reference(elem Type) Type   { return Type{Kind: KReference, Elem: &elem} }
func Optional(elem Type) Type    { return Type{Kind: KOptional, Elem: &elem} }
func Generic(name string) Type   { return Type{Kind: KGeneric, Name: name} }

func FuncType(params []Type, ret Type) Type {
	return Type{Kind: KFunction, Params: params, Return: &ret}
}

func Struct(name string, fields []StructFieldShape) Type {
	return Type{Kind: KStruct, Name: name, Fields: fields}
}

func Enum(name string, variants []EnumVariantShape) Type {
	return Type{Kind: KEnum, Name: name, Variants: variants}
}

// SizeBytes mirrors seen_ir's IRType::size_bytes: the number of bytes a
// value of this type occupies in the emitted layout. Struct size sums
// its fields; Enum size is a discriminant tag plus the largest variant.
func (t Type) SizeBytes() int {
	switch t.Kind {
	case KVoid:
		return 0
	case KInteger, KFloat:
		return 8
	case KBoolean, KChar:
		return 1
	case KString, KArray, KFunction, KPointer, KReference:
		return 8 // pointer-sized handle to heap/stack data
	case KStruct:
		total := 0
		for _, f := range t.Fields {
			total += f.Type.SizeBytes()
		}
		return total
	case KEnum:
		const tagSize = 8
		largest := 0
		for _, v := range t.Variants {
			sum := 0
			for _, f := range v.Fields {
				sum += f.SizeBytes()
			}
			if sum > largest {
				largest = sum
			}
		}
		return tagSize + largest
	case KOptional:
		return t.Elem.SizeBytes() + 1 // value plus a null-discriminant byte
	case KGeneric:
		return 8
	}
	return 0
}

// IsAssignableFrom mirrors seen_ir's IRType::is_assignable_from: whether
// a value of type other may be assigned into a slot of type t, allowing
// the int-to-float widening the Rust original permits and the T -> T?
// optional-wrapping every nullable slot accepts.
func (t Type) IsAssignableFrom(other Type) bool {
	switch {
	case t.Kind == KFloat && other.Kind == KInteger:
		return true
	case t.Kind == KOptional && other.Kind != KOptional:
		return t.Elem.IsAssignableFrom(other)
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KVoid, KInteger, KFloat, KBoolean, KChar, KString:
		return true
	case KArray, KPointer, KReference, KOptional:
		return t.Elem.IsAssignableFrom(*other.Elem)
	case KFunction:
		if len(t.Params) != len(other.Params) || !t.Return.IsAssignableFrom(*other.Return) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].IsAssignableFrom(other.Params[i]) {
				return false
			}
		}
		return true
	case KStruct, KEnum:
		return t.Name == other.Name
	case KGeneric:
		return t.Name == other.Name
	}
	return false
}

func (t Type) IsNumeric() bool { return t.Kind == KInteger || t.Kind == KFloat }

func (t Type) IsPointerLike() bool {
	switch t.Kind {
	case KPointer, KReference, KString, KArray:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t.Kind {
	case KVoid:
		return "void"
	case KInteger:
		return "i64"
	case KFloat:
		return "f64"
	case KBoolean:
		return "bool"
	case KChar:
		return "char"
	case KString:
		return "string"
	case KArray:
		return "[" + t.Elem.String() + "]"
	case KFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), t.Return.String())
	case KStruct:
		return "struct " + t.Name
	case KEnum:
		return "enum " + t.Name
	case KPointer:
		return "*" + t.Elem.String()
	case KReference:
		return "&" + t.Elem.String()
	case KOptional:
		return t.Elem.String() + "?"
	case KGeneric:
		return t.Name
	}
	return "<invalid ir type>"
}
