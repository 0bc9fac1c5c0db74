package codegen

import (
	"fmt"

	"github.com/plc-lang/plc/internal/ast"
)

// formatDouble renders f as an LLVM double constant. LLVM requires a
// fractional part or exponent on floating-point constants, so a value like
// 8 must print as "8.000000e+00" rather than the bare "8" that %g would
// sometimes produce.
func formatDouble(f float64) string {
	return fmt.Sprintf("%e", f)
}

// genGlobalDecl lowers one global declaration to a `global` line, emitted
// ahead of every function definition.
func (g *Generator) genGlobalDecl(stmt ast.Statement) {
	switch d := stmt.(type) {
	case *ast.VariableDeclaration:
		elemIR := irType(d.Type.Elem())
		name := fmt.Sprintf("@g%d", g.nextVar())
		init := "zeroinitializer"
		if d.Initializer != nil {
			init = g.constScalar(d.Initializer, d.Type.Elem())
		}
		g.emit(fmt.Sprintf("%s = global %s %s, align %d", name, elemIR, init, irAlign(elemIR)))
		g.declare(d.Name, varEntry{Type: d.Type, IRName: name})
	case *ast.ArrayDeclaration:
		lengths := d.Initializer.Dimensions()
		elemIR := irType(d.Type.Elem())
		arrTy := arrayIRType(lengths, elemIR)
		name := fmt.Sprintf("@g%d", g.nextVar())
		init := g.constArray(d.Initializer, d.Type.Elem())
		g.emit(fmt.Sprintf("%s = global %s %s, align %d", name, arrTy, init, irAlign(elemIR)))
		g.declare(d.Name, varEntry{Type: d.Type, IRName: name, Lengths: lengths})
	case *ast.ArrayAllocation:
		elemIR := irType(d.Type.Elem())
		arrTy := arrayIRType(d.Lengths, elemIR)
		name := fmt.Sprintf("@g%d", g.nextVar())
		g.emit(fmt.Sprintf("%s = global %s zeroinitializer, align %d", name, arrTy, irAlign(elemIR)))
		g.declare(d.Name, varEntry{Type: d.Type, IRName: name, Lengths: d.Lengths})
	default:
		fail("unsupported global declaration %T", stmt)
	}
}

// constScalar folds a global initializer expression to an LLVM constant
// literal. Only literal expressions (optionally wrapped in unary '-') are
// supported at global scope; anything else is a fatal codegen error, since
// LLVM global initializers must themselves be constants.
func (g *Generator) constScalar(expr ast.Expression, targetType string) string {
	switch e := expr.(type) {
	case *ast.Literal:
		return literalConst(e, targetType)
	case *ast.Unary:
		if e.Op == "-" {
			inner := g.constScalar(e.Operand, targetType)
			if targetType == "float" || targetType == "double" {
				return "-" + inner
			}
			return fmt.Sprintf("sub (%s 0, %s %s)", irType(targetType), irType(targetType), inner)
		}
	}
	fail("non-constant expression in global initializer")
	return ""
}

func literalConst(lit *ast.Literal, targetType string) string {
	switch lit.Kind {
	case ast.IntLiteral:
		if targetType == "float" || targetType == "double" {
			return formatDouble(float64(lit.Int))
		}
		return fmt.Sprintf("%d", lit.Int)
	case ast.FloatLiteral:
		return formatDouble(lit.Float)
	case ast.BoolLiteral:
		if lit.Bool {
			return "1"
		}
		return "0"
	case ast.StringLiteral:
		fail("string literal is not a valid scalar global initializer")
	}
	return ""
}

func (g *Generator) constArray(lit *ast.ArrayLiteral, elemType string) string {
	elemIR := irType(elemType)
	if len(lit.NestedElems) > 0 {
		parts := make([]string, len(lit.NestedElems))
		innerTy := arrayIRType(lit.NestedElems[0].Dimensions(), elemIR)
		for i, nested := range lit.NestedElems {
			parts[i] = innerTy + " " + g.constArray(nested, elemType)
		}
		return "[" + joinComma(parts) + "]"
	}
	parts := make([]string, len(lit.Elems))
	for i, e := range lit.Elems {
		parts[i] = elemIR + " " + g.constScalar(e, elemType)
	}
	return "[" + joinComma(parts) + "]"
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
