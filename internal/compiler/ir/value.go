package ir

import "fmt"

// ValueKind discriminates the IRValue variants from spec.md 3, carried
// over from seen_ir's value.rs IRValue enum.
type ValueKind int

const (
	VVoid ValueKind = iota
	VInt
	VFloat
	VBool
	VChar
	VString         // literal string payload
	VStringConstant // index into the module's interned string table
	VArray
	VStruct
	VFunction
	VVariable
	VRegister
	VGlobalVariable
	VLabel
	VAddressOf
	VNull
	VUndefined
)

// StructFieldValue pairs a field name with its value, used instead of a
// map so Value stays comparable-by-value where the caller needs it.
type StructFieldValue struct {
	Name  string
	Value Value
}

// Value is a single IR operand (spec.md 3's IRValue).
type Value struct {
	Kind ValueKind

	Int    int64
	Float  float64
	Bool   bool
	Char   rune
	String string // VString literal text, VVariable/VGlobalVariable/VLabel/VFunction name

	StringConstID int // VStringConstant

	Array  []Value            // VArray
	Fields []StructFieldValue // VStruct
	Type   string             // VStruct: struct type name

	Params   []string // VFunction: parameter names
	Register uint32   // VRegister

	Addressed *Value // VAddressOf
}

func Void() Value                     { return Value{Kind: VVoid} }
func Int(v int64) Value               { return Value{Kind: VInt, Int: v} }
func FloatVal(v float64) Value        { return Value{Kind: VFloat, Float: v} }
func Bool(v bool) Value               { return Value{Kind: VBool, Bool: v} }
func CharVal(v rune) Value            { return Value{Kind: VChar, Char: v} }
func StringVal(v string) Value        { return Value{Kind: VString, String: v} }
func StringConst(id int) Value        { return Value{Kind: VStringConstant, StringConstID: id} }
func ArrayVal(vs []Value) Value       { return Value{Kind: VArray, Array: vs} }
func Variable(name string) Value      { return Value{Kind: VVariable, String: name} }
func Register(n uint32) Value         { return Value{Kind: VRegister, Register: n} }
func GlobalVariable(name string) Value { return Value{Kind: VGlobalVariable, String: name} }
func Label(name string) Value         { return Value{Kind: VLabel, String: name} }
func Null() Value                     { return Value{Kind: VNull} }
func Undefined() Value                { return Value{Kind: VUndefined} }

func FunctionVal(name string, params []string) Value {
	return Value{Kind: VFunction, String: name, Params: params}
}

func StructVal(typeName string, fields []StructFieldValue) Value {
	return Value{Kind: VStruct, Type: typeName, Fields: fields}
}

func AddressOf(v Value) Value { return Value{Kind: VAddressOf, Addressed: &v} }

// IsConstant reports whether v is a compile-time-known literal, mirrored
// from seen_ir's IRValue::is_constant — used by the constant-folding
// pass to decide whether both operands of a binary op can fold.
func (v Value) IsConstant() bool {
	switch v.Kind {
	case VInt, VFloat, VBool, VChar, VString, VStringConstant, VNull:
		return true
	}
	return false
}

// IsVariable reports whether v references a named or numbered storage
// location rather than carrying a value directly.
func (v Value) IsVariable() bool {
	switch v.Kind {
	case VVariable, VRegister, VGlobalVariable:
		return true
	}
	return false
}

// Text renders v in a short human-readable form for debugging; the LLVM
// emitter formats operands with its own printer.
func (v Value) Text() string {
	switch v.Kind {
	case VVoid:
		return "void"
	case VInt:
		return fmt.Sprintf("%d", v.Int)
	case VFloat:
		return fmt.Sprintf("%g", v.Float)
	case VBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case VChar:
		return fmt.Sprintf("%q", v.Char)
	case VString:
		return fmt.Sprintf("%q", v.String)
	case VStringConstant:
		return fmt.Sprintf("@str.%d", v.StringConstID)
	case VArray:
		return "array"
	case VStruct:
		return "struct " + v.Type
	case VFunction:
		return "@" + v.String
	case VVariable:
		return "%" + v.String
	case VRegister:
		return fmt.Sprintf("%%r%d", v.Register)
	case VGlobalVariable:
		return "@" + v.String
	case VLabel:
		return "." + v.String
	case VAddressOf:
		return "&" + v.Addressed.Text()
	case VNull:
		return "null"
	case VUndefined:
		return "undef"
	}
	return "<invalid ir value>"
}
