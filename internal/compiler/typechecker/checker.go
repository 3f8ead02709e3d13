// Package typechecker implements spec.md 4.F/4.G: a two-pass Hindley-
// Milner-style checker over the parsed AST. The first pass registers
// every item's signature in a global TypeEnvironment so forward
// references resolve; the second pass walks each body, generating a
// type per expression id and resolving nullable subtyping, smart-cast
// refinement, and the binary-operator promotion table.
package typechecker

import (
	"fmt"

	"github.com/seen-lang/seenc/internal/compiler/ast"
	cerrors "github.com/seen-lang/seenc/internal/compiler/errors"
	"github.com/seen-lang/seenc/internal/compiler/types"
)

// TypedProgram pairs the original AST with the type resolved for every
// expression id, keeping the AST itself immutable per spec.md 4.D.
type TypedProgram struct {
	Program   *ast.Program
	ExprTypes map[uint64]*types.Type
	Globals   *types.TypeEnvironment
}

// TypeOf returns the checked type of e, or Unknown if e was never typed
// (e.g. it lives in a function whose earlier statement aborted checking).
func (tp *TypedProgram) TypeOf(e ast.Expr) *types.Type {
	if e == nil {
		return types.Unknown()
	}
	if t, ok := tp.ExprTypes[e.ExprID()]; ok {
		return t
	}
	return types.Unknown()
}

// Checker carries the state of a single check_program run (spec.md 4.F
// entry point). One Checker is used for exactly one Program.
type Checker struct {
	file      string
	global    *types.TypeEnvironment
	diags     *cerrors.ErrorRecovery
	exprTypes map[uint64]*types.Type

	// structTypes/enumTypes let field-access and when-is resolve
	// member shapes without re-walking the item list for every use.
	structTypes map[string]*types.Type
	enumTypes   map[string]*types.Type
	nextVar     int

	// currentReturn is the declared return type of the function body
	// being checked, consulted by ReturnStmt.
	currentReturn *types.Type
}

// New creates a Checker for file, seeding the global environment with
// spec.md 3's built-in primitives under their surface-syntax names.
func New(file string) *Checker {
	c := &Checker{
		file:        file,
		global:      types.NewTypeEnvironment(),
		diags:       cerrors.NewErrorRecovery(),
		exprTypes:   map[uint64]*types.Type{},
		structTypes: map[string]*types.Type{},
		enumTypes:   map[string]*types.Type{},
	}
	for name, prim := range builtinPrimitives {
		c.global.Define("type:"+name, types.Prim(prim))
	}
	return c
}

var builtinPrimitives = map[string]types.Primitive{
	"I8": types.I8, "I16": types.I16, "I32": types.I32, "I64": types.I64, "I128": types.I128,
	"U8": types.U8, "U16": types.U16, "U32": types.U32, "U64": types.U64, "U128": types.U128,
	"F32": types.F32, "F64": types.F64, "Bool": types.Bool, "Char": types.Char,
	"Str": types.Str, "Unit": types.Unit, "Never": types.Never,
	"Int":   types.I64, // bilingual surface alias used by hello-world style sources
	"Float": types.F64,
}

// CheckProgram is the spec.md 4.F entry point: check_program(&Program)
// -> Result<TypedProgram, [TypeError]>. It never stops at the first
// error (spec.md 7: "record and continue to next item"); callers test
// Diagnostics().HasErrors() for the Result's Ok/Err discriminant.
func CheckProgram(prog *ast.Program, file string) (*TypedProgram, *cerrors.ErrorRecovery) {
	c := New(file)
	c.collectSignatures(prog)
	for _, item := range prog.Items {
		c.checkItem(item)
	}
	return &TypedProgram{Program: prog, ExprTypes: c.exprTypes, Globals: c.global}, c.diags
}

// Diagnostics exposes the bag for callers that build a Checker directly
// instead of going through CheckProgram.
func (c *Checker) Diagnostics() *cerrors.ErrorRecovery { return c.diags }

// collectSignatures is pass one: every item's name and shape is bound in
// the global scope before any body is checked, so a function may call a
// sibling declared later in the file.
func (c *Checker) collectSignatures(prog *ast.Program) {
	for _, item := range prog.Items {
		switch it := item.(type) {
		case *ast.FunItem:
			c.global.Define("func:"+it.Name, c.funcSigType(it))
		case *ast.StructItem:
			st := c.structSigType(it)
			c.structTypes[it.Name] = st
			c.global.Define("type:"+it.Name, st)
		case *ast.EnumItem:
			et := c.enumSigType(it)
			c.enumTypes[it.Name] = et
			c.global.Define("type:"+it.Name, et)
		case *ast.InterfaceItem:
			c.global.Define("type:"+it.Name, c.interfaceSigType(it))
		case *ast.TypeAliasItem:
			c.global.Define("type:"+it.Name, c.resolveTypeExpr(it.Aliased, c.global))
		case *ast.ValItem:
			c.collectGlobalBinding(it.Name, it.Type, it.Span_)
		case *ast.VarItem:
			c.collectGlobalBinding(it.Name, it.Type, it.Span_)
		case *ast.ExtensionItem:
			for _, m := range it.Methods {
				c.global.Define("func:"+it.TargetType+"."+m.Name, c.funcSigType(m))
			}
		}
	}
}

// collectGlobalBinding registers a typed top-level val/var ahead of body
// checking so sibling functions can reference it. Duplicates among typed
// globals are reported here; untyped globals are bound (and duplicate-
// checked) during pass two, once their initializer's type is known.
func (c *Checker) collectGlobalBinding(name string, typeExpr *ast.TypeExpr, span ast.Span) {
	if _, exists := c.global.LookupLocal("var:" + name); exists {
		c.errorAt(span, cerrors.ErrDuplicateBinding, fmt.Sprintf("%q is already bound in this scope", name))
		return
	}
	if typeExpr != nil {
		c.global.Define("var:"+name, c.resolveTypeExpr(typeExpr, c.global))
	}
}

func (c *Checker) funcSigType(f *ast.FunItem) *types.Type {
	params := make([]*types.Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = c.resolveTypeExpr(p.Type, c.global)
	}
	ret := types.Prim(types.Unit)
	if f.ReturnType != nil {
		ret = c.resolveTypeExpr(f.ReturnType, c.global)
	}
	return types.Function(params, ret, f.IsSuspend)
}

func (c *Checker) structSigType(s *ast.StructItem) *types.Type {
	fields := make([]types.StructField, len(s.Fields))
	for i, f := range s.Fields {
		fields[i] = types.StructField{Name: f.Name, Type: c.resolveTypeExpr(f.Type, c.global)}
	}
	generics := make([]*types.Type, len(s.Generics))
	for i, g := range s.Generics {
		generics[i] = types.GenericParam(g.Name)
	}
	return types.Struct(s.Name, fields, generics)
}

func (c *Checker) enumSigType(e *ast.EnumItem) *types.Type {
	variants := make([]types.EnumVariant, len(e.Variants))
	for i, v := range e.Variants {
		fields := make([]types.StructField, len(v.Fields))
		for j, f := range v.Fields {
			fields[j] = types.StructField{Name: f.Name, Type: c.resolveTypeExpr(f.Type, c.global)}
		}
		variants[i] = types.EnumVariant{Name: v.Name, Fields: fields}
	}
	generics := make([]*types.Type, len(e.Generics))
	for i, g := range e.Generics {
		generics[i] = types.GenericParam(g.Name)
	}
	return types.Enum(e.Name, variants, generics)
}

func (c *Checker) interfaceSigType(it *ast.InterfaceItem) *types.Type {
	methods := make([]types.InterfaceMethod, len(it.Methods))
	for i, m := range it.Methods {
		params := make([]*types.Type, len(m.Params))
		for j, p := range m.Params {
			params[j] = c.resolveTypeExpr(p.Type, c.global)
		}
		ret := types.Prim(types.Unit)
		if m.ReturnType != nil {
			ret = c.resolveTypeExpr(m.ReturnType, c.global)
		}
		methods[i] = types.InterfaceMethod{Name: m.Name, Params: params, Return: ret}
	}
	generics := make([]*types.Type, len(it.Generics))
	for i, g := range it.Generics {
		generics[i] = types.GenericParam(g.Name)
	}
	return types.Interface(it.Name, methods, generics)
}

// resolveTypeExpr turns a parsed TypeExpr into a checked types.Type,
// looking up named types in env and falling back to Unknown for an
// identifier no item has declared (the checker still records an
// UndefinedType diagnostic at the use site that references it).
func (c *Checker) resolveTypeExpr(t *ast.TypeExpr, env *types.TypeEnvironment) *types.Type {
	if t == nil {
		return types.Prim(types.Unit)
	}
	if t.Name == "" {
		return types.Unknown()
	}
	var base *types.Type
	if looked, ok := env.Lookup("type:" + t.Name); ok {
		base = looked
	} else if len(t.Generics) > 0 {
		base = types.GenericParam(t.Name)
	} else if prim, ok := builtinPrimitives[t.Name]; ok {
		base = types.Prim(prim)
	} else {
		// Unresolved at this point; a diagnostic belongs to the caller
		// which has the span. resolveTypeExpr itself is span-agnostic.
		base = types.GenericParam(t.Name)
	}
	if len(t.Generics) > 0 {
		generics := make([]*types.Type, len(t.Generics))
		for i, g := range t.Generics {
			generics[i] = c.resolveTypeExpr(g, env)
		}
		switch base.Kind {
		case types.KStruct:
			base = types.Struct(base.Name, base.Fields, generics)
		case types.KEnum:
			base = types.Enum(base.Name, base.Variants, generics)
		case types.KInterface:
			base = types.Interface(base.Name, base.Methods, generics)
		}
	}
	if t.IsNullable {
		return types.Nullable(base)
	}
	return base
}

func (c *Checker) freshVar() *types.Type {
	c.nextVar++
	return types.TypeVar(c.nextVar)
}

func (c *Checker) setType(e ast.Expr, t *types.Type) *types.Type {
	c.exprTypes[e.ExprID()] = t
	return t
}

func (c *Checker) errorAt(span ast.Span, code, message string) {
	loc := cerrors.SourceLocation{File: c.file, Line: span.Start.Line, Column: span.Start.Column}
	c.diags.Recover(cerrors.NewCompilerError(cerrors.PhaseTypeChecker, code, message, loc, cerrors.Error))
}

func (c *Checker) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FunItem:
		c.checkFunBody(it)
	case *ast.ExtensionItem:
		for _, m := range it.Methods {
			c.checkFunBody(m)
		}
	case *ast.ValItem:
		c.checkGlobalBinding(it.Name, it.Type, it.Value, it.Span_)
	case *ast.VarItem:
		c.checkGlobalBinding(it.Name, it.Type, it.Value, it.Span_)
	// Structs/enums/interfaces/aliases carry no executable body; their
	// shape was already validated while building the signature.
	case *ast.StructItem, *ast.EnumItem, *ast.InterfaceItem, *ast.TypeAliasItem:
	}
}

func (c *Checker) checkFunBody(f *ast.FunItem) {
	if f.Body == nil {
		return
	}
	sig, _ := c.global.Lookup("func:" + f.Name)
	var ret *types.Type
	if sig != nil {
		ret = sig.Return
	} else {
		ret = types.Prim(types.Unit)
	}
	prevReturn := c.currentReturn
	c.currentReturn = ret
	defer func() { c.currentReturn = prevReturn }()

	scope := c.global.Child()
	for i, p := range f.Params {
		var pt *types.Type
		if sig != nil && i < len(sig.Params) {
			pt = sig.Params[i]
		} else {
			pt = c.resolveTypeExpr(p.Type, scope)
		}
		scope.Define("var:"+p.Name, pt)
	}
	bodyType := c.inferExpr(f.Body, scope)
	if f.ReturnType != nil && !bodyType.IsNever() {
		if _, err := types.Unify(bodyType, ret); err != nil {
			c.errorAt(f.Body.ExprSpan(), cerrors.ErrTypeMismatch,
				fmt.Sprintf("function %q returns %s, body produces %s", f.Name, ret, bodyType))
		}
	}
}

func (c *Checker) checkValDecl(name string, typeExpr *ast.TypeExpr, value ast.Expr, span ast.Span, env *types.TypeEnvironment) {
	if value == nil {
		return
	}
	valueType := c.inferExpr(value, env)
	declared := valueType
	if typeExpr != nil {
		declared = c.resolveTypeExpr(typeExpr, env)
		if _, err := types.Unify(valueType, declared); err != nil {
			c.errorAt(span, cerrors.ErrTypeMismatch,
				fmt.Sprintf("cannot assign %s to %q of declared type %s", valueType, name, declared))
		}
	}
	if _, exists := env.LookupLocal("var:" + name); exists {
		c.errorAt(span, cerrors.ErrDuplicateBinding, fmt.Sprintf("%q is already bound in this scope", name))
	}
	env.Define("var:"+name, declared)
}

// checkGlobalBinding is the pass-two half of a top-level val/var. A typed
// global was already bound by collectGlobalBinding, so only its
// initializer is checked against the declared type here; an untyped
// global binds now, from its inferred initializer type.
func (c *Checker) checkGlobalBinding(name string, typeExpr *ast.TypeExpr, value ast.Expr, span ast.Span) {
	if value == nil {
		return
	}
	valueType := c.inferExpr(value, c.global)
	if typeExpr != nil {
		declared := c.resolveTypeExpr(typeExpr, c.global)
		if _, err := types.Unify(valueType, declared); err != nil {
			c.errorAt(span, cerrors.ErrTypeMismatch,
				fmt.Sprintf("cannot assign %s to %q of declared type %s", valueType, name, declared))
		}
		return
	}
	if _, exists := c.global.LookupLocal("var:" + name); exists {
		c.errorAt(span, cerrors.ErrDuplicateBinding, fmt.Sprintf("%q is already bound in this scope", name))
		return
	}
	c.global.Define("var:"+name, valueType)
}
