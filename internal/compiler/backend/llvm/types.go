package llvm

import (
	"fmt"
	"strings"

	"github.com/seen-lang/seenc/internal/compiler/ir"
)

// llvmType renders t as an LLVM IR type name. Structs/enums reduce to
// their literal field layout since this backend emits one flat textual
// module rather than maintaining named %struct.Foo declarations.
func llvmType(t ir.Type) string {
	switch t.Kind {
	case ir.KVoid:
		return "void"
	case ir.KInteger:
		return "i64"
	case ir.KFloat:
		return "double"
	case ir.KBoolean:
		return "i1"
	case ir.KChar:
		return "i32"
	case ir.KString:
		return "i8*"
	case ir.KArray, ir.KPointer, ir.KReference:
		return llvmType(*t.Elem) + "*"
	case ir.KOptional:
		return "{ i1, " + llvmType(*t.Elem) + " }"
	case ir.KFunction:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = llvmType(p)
		}
		return fmt.Sprintf("%s (%s)*", llvmType(*t.Return), strings.Join(parts, ", "))
	case ir.KStruct:
		fields := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = llvmType(f.Type)
		}
		return "{ " + strings.Join(fields, ", ") + " }"
	case ir.KEnum:
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
		return fmt.Sprintf("{ i64, [%d x i8] }", largest)
	case ir.KGeneric:
		return "i8*" // erased generic: opaque pointer, matches the erasure backend's call convention
	}
	return "void"
}
