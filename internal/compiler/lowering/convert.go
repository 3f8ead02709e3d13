package lowering

import (
	"strconv"

	"github.com/seen-lang/seenc/internal/compiler/ir"
	"github.com/seen-lang/seenc/internal/compiler/types"
)

// irType converts a checked types.Type into the IR-level ir.Type,
// spec.md 4.H's implicit "checked AST feeds a typed IR" contract.
// Struct/Enum field types are converted recursively but methods are
// dropped: the IR has no interface-dispatch type, only the struct/enum
// data shapes method bodies close over.
func irType(t *types.Type) ir.Type {
	if t == nil {
		return ir.VoidType()
	}
	switch t.Kind {
	case types.KPrimitive:
		return irPrimitive(t.Primitive)
	case types.KArray:
		return ir.Array(irType(t.Elem))
	case types.KTuple:
		// The IR has no tuple constructor; lower a tuple to an
		// anonymous struct with positional field names, the same
		// representation a tuple-returning function's caller unpacks.
		fields := make([]ir.StructFieldShape, len(t.Tuple))
		for i, e := range t.Tuple {
			fields[i] = ir.StructFieldShape{Name: tupleFieldName(i), Type: irType(e)}
		}
		return ir.Struct("", fields)
	case types.KFunction:
		params := make([]ir.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = irType(p)
		}
		return ir.FuncType(params, irType(t.Return))
	case types.KStruct:
		fields := make([]ir.StructFieldShape, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = ir.StructFieldShape{Name: f.Name, Type: irType(f.Type)}
		}
		return ir.Struct(t.Name, fields)
	case types.KEnum:
		variants := make([]ir.EnumVariantShape, len(t.Variants))
		for i, v := range t.Variants {
			fields := make([]ir.Type, len(v.Fields))
			for j, f := range v.Fields {
				fields[j] = irType(f.Type)
			}
			variants[i] = ir.EnumVariantShape{Name: v.Name, Fields: fields}
		}
		return ir.Enum(t.Name, variants)
	case types.KNullable:
		return ir.Optional(irType(t.Elem))
	case types.KGeneric:
		return ir.Generic(t.Name)
	case types.KUnknown, types.KError, types.KTypeVar:
		return ir.Generic("?")
	}
	return ir.VoidType()
}

func irPrimitive(p types.Primitive) ir.Type {
	switch p {
	case types.Bool:
		return ir.Boolean()
	case types.Char:
		return ir.Char()
	case types.Str:
		return ir.StringT()
	case types.Unit:
		return ir.VoidType()
	case types.F32, types.F64:
		return ir.Float()
	default:
		return ir.Integer()
	}
}

func tupleFieldName(i int) string {
	return "_" + strconv.Itoa(i)
}
