package codegen

import (
	"fmt"
	"strings"

	"github.com/plc-lang/plc/internal/ast"
)

// value is the result of lowering one expression: its LLVM type and the
// SSA name or constant spelling holding it.
type value struct {
	Type string
	Val  string
}

func (g *Generator) genExpr(expr ast.Expression) value {
	switch e := expr.(type) {
	case *ast.Literal:
		return g.genLiteral(e)
	case *ast.VariableReference:
		return g.genVariableReference(e)
	case *ast.FunctionCall:
		return g.genCall(e)
	case *ast.ArrayAccess:
		return g.genArrayAccess(e)
	case *ast.Unary:
		return g.genUnary(e)
	case *ast.Binary:
		return g.genBinary(e)
	}
	fail("unsupported expression type %T", expr)
	return value{}
}

func (g *Generator) genLiteral(lit *ast.Literal) value {
	switch lit.Kind {
	case ast.IntLiteral:
		return value{Type: "i32", Val: fmt.Sprintf("%d", lit.Int)}
	case ast.FloatLiteral:
		return value{Type: "double", Val: formatDouble(lit.Float)}
	case ast.BoolLiteral:
		if lit.Bool {
			return value{Type: "i1", Val: "true"}
		}
		return value{Type: "i1", Val: "false"}
	case ast.StringLiteral:
		name := g.internString(lit.String)
		return value{Type: "i8*", Val: name}
	}
	fail("unsupported literal kind")
	return value{}
}

// internString registers a string literal as a global constant and returns
// a getelementptr constant expression pointing at its first byte. Each
// occurrence gets its own global; identical literals are not deduplicated.
func (g *Generator) internString(s string) string {
	id := g.nextVar()
	name := fmt.Sprintf("@.str%d", id)
	bytes, length := encodeCString(s)
	g.stringLits = append(g.stringLits, fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c\"%s\", align 1", name, length, bytes))
	return fmt.Sprintf("getelementptr inbounds ([%d x i8], [%d x i8]* %s, i32 0, i32 0)", length, length, name)
}

// encodeCString escapes s into LLVM's quoted byte-array syntax and appends
// the implicit NUL terminator, returning the escaped text and total length.
func encodeCString(s string) (string, int) {
	var b strings.Builder
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteString(fmt.Sprintf("\\%02X", c))
		} else if c >= 0x20 && c < 0x7f {
			b.WriteByte(c)
		} else {
			b.WriteString(fmt.Sprintf("\\%02X", c))
		}
		n++
	}
	b.WriteString("\\00")
	n++
	return b.String(), n
}

func (g *Generator) genVariableReference(ref *ast.VariableReference) value {
	entry, ok := g.lookup(ref.Name)
	if !ok {
		fail("undefined variable %q", ref.Name)
	}
	ty := irType(entry.Type.Elem())
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = load %s, %s* %s, align %d", tmp, ty, ty, entry.IRName, irAlign(ty)))
	return value{Type: ty, Val: tmp}
}

func (g *Generator) genArrayAccess(a *ast.ArrayAccess) value {
	entry, ok := g.lookup(a.Name)
	if !ok {
		fail("undefined array %q", a.Name)
	}
	elemIR := irType(entry.Type.Elem())
	arrTy := arrayIRType(entry.Lengths, elemIR)
	indices := []string{"i32 0"}
	for _, idxExpr := range a.Index {
		v := g.genExpr(idxExpr)
		v = g.promoteTo(v, "i32")
		indices = append(indices, "i32 "+v.Val)
	}
	ptr := g.newTempName()
	g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* %s, %s", ptr, arrTy, arrTy, entry.IRName, strings.Join(indices, ", ")))
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = load %s, %s* %s, align %d", tmp, elemIR, elemIR, ptr, irAlign(elemIR)))
	return value{Type: elemIR, Val: tmp}
}

func (g *Generator) genCall(c *ast.FunctionCall) value {
	sig, ok := g.funcs[c.Name]
	if !ok {
		fail("undefined function %q", c.Name)
	}

	if c.Name == "printf" {
		return g.genPrintf(c)
	}

	argParts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		v := g.genExpr(arg)
		if i < len(sig.Params) {
			v = g.promoteTo(v, irType(sig.Params[i].Elem()))
		}
		argParts[i] = fmt.Sprintf("%s %s", v.Type, v.Val)
	}

	retIR := irType(sig.Return.Elem())
	if retIR == "void" {
		g.emit(fmt.Sprintf("  call void @%s(%s)", c.Name, strings.Join(argParts, ", ")))
		return value{Type: "void", Val: ""}
	}
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = call %s @%s(%s)", tmp, retIR, c.Name, strings.Join(argParts, ", ")))
	return value{Type: retIR, Val: tmp}
}

// genPrintf lowers a desugared print_int/print_double/print_string/printf
// call. The format-string argument (supplied by the parser's print-intrinsic
// sugar, or written by the user in a direct printf call) is generated like
// any other argument, a string literal being interned like any other string
// constant; varargs use printf's i8*/... signature directly.
func (g *Generator) genPrintf(c *ast.FunctionCall) value {
	argParts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		v := g.genExpr(arg)
		argParts[i] = fmt.Sprintf("%s %s", v.Type, v.Val)
	}
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = call i32 (i8*, ...) @printf(%s)", tmp, strings.Join(argParts, ", ")))
	return value{Type: "i32", Val: tmp}
}

func (g *Generator) genUnary(u *ast.Unary) value {
	operand := g.genExpr(u.Operand)
	switch u.Op {
	case "!":
		tmp := g.newTempName()
		g.emit(fmt.Sprintf("  %s = xor i1 %s, true", tmp, operand.Val))
		return value{Type: "i1", Val: tmp}
	case "-":
		if operand.Type == "double" {
			tmp := g.newTempName()
			g.emit(fmt.Sprintf("  %s = fsub double 0.0, %s", tmp, operand.Val))
			return value{Type: "double", Val: tmp}
		}
		v := g.promoteTo(operand, "i32")
		tmp := g.newTempName()
		g.emit(fmt.Sprintf("  %s = sub i32 0, %s", tmp, v.Val))
		return value{Type: "i32", Val: tmp}
	case "~":
		v := g.promoteTo(operand, "i32")
		tmp := g.newTempName()
		g.emit(fmt.Sprintf("  %s = xor i32 %s, -1", tmp, v.Val))
		return value{Type: "i32", Val: tmp}
	}
	fail("unsupported unary operator %q", u.Op)
	return value{}
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true,
}

var bitwiseOps = map[string]bool{
	"&": true, "|": true, "<<": true, ">>": true,
}

func (g *Generator) genBinary(b *ast.Binary) value {
	switch b.Op {
	case "&&":
		return g.genShortCircuit(b, false)
	case "||":
		return g.genShortCircuit(b, true)
	case "^":
		return g.genPow(b)
	}

	left := g.genExpr(b.Left)
	right := g.genExpr(b.Right)

	if bitwiseOps[b.Op] {
		left = g.promoteTo(left, "i32")
		right = g.promoteTo(right, "i32")
		return g.emitIntOp(b.Op, left, right)
	}

	common := "i32"
	if left.Type == "double" || right.Type == "double" {
		common = "double"
	}
	left = g.promoteTo(left, common)
	right = g.promoteTo(right, common)

	if comparisonOps[b.Op] {
		return g.emitComparison(b.Op, left, right, common)
	}
	return g.emitArith(b.Op, left, right, common)
}

func (g *Generator) emitIntOp(op string, left, right value) value {
	var instr string
	switch op {
	case "&":
		instr = "and"
	case "|":
		instr = "or"
	case "<<":
		instr = "shl"
	case ">>":
		instr = "ashr"
	default:
		fail("unsupported bitwise operator %q", op)
	}
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = %s i32 %s, %s", tmp, instr, left.Val, right.Val))
	return value{Type: "i32", Val: tmp}
}

func (g *Generator) emitArith(op string, left, right value, ty string) value {
	isDouble := ty == "double"
	var instr string
	switch op {
	case "+":
		instr = pick(isDouble, "fadd", "add")
	case "-":
		instr = pick(isDouble, "fsub", "sub")
	case "*":
		instr = pick(isDouble, "fmul", "mul")
	case "/":
		instr = pick(isDouble, "fdiv", "sdiv")
	case "%":
		instr = pick(isDouble, "frem", "srem")
	default:
		fail("unsupported binary operator %q", op)
	}
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = %s %s %s, %s", tmp, instr, ty, left.Val, right.Val))
	return value{Type: ty, Val: tmp}
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func (g *Generator) emitComparison(op string, left, right value, ty string) value {
	isDouble := ty == "double"
	var cc string
	switch op {
	case "==":
		cc = pick(isDouble, "oeq", "eq")
	case "!=":
		cc = pick(isDouble, "one", "ne")
	case ">":
		cc = pick(isDouble, "ogt", "sgt")
	case "<":
		cc = pick(isDouble, "olt", "slt")
	case ">=":
		cc = pick(isDouble, "oge", "sge")
	case "<=":
		cc = pick(isDouble, "ole", "sle")
	default:
		fail("unsupported comparison operator %q", op)
	}
	instr := pick(isDouble, "fcmp", "icmp")
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = %s %s %s %s, %s", tmp, instr, cc, ty, left.Val, right.Val))
	return value{Type: "i1", Val: tmp}
}

// genPow lowers '^' to a call to the @pow extern, narrowing the result back
// to i32 when both operands were originally integral. '^' is always
// exponentiation, never bitwise xor, regardless of its position alongside
// the other bitwise operators in the grammar's precedence tier.
func (g *Generator) genPow(b *ast.Binary) value {
	left := g.genExpr(b.Left)
	bothInt := left.Type == "i32"
	right := g.genExpr(b.Right)
	bothInt = bothInt && right.Type == "i32"

	l := g.promoteTo(left, "double")
	r := g.promoteTo(right, "double")
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = call double @pow(double %s, double %s)", tmp, l.Val, r.Val))
	if !bothInt {
		return value{Type: "double", Val: tmp}
	}
	narrowed := g.newTempName()
	g.emit(fmt.Sprintf("  %s = fptosi double %s to i32", narrowed, tmp))
	return value{Type: "i32", Val: narrowed}
}

// genShortCircuit lowers '&&'/'||' via three blocks and a phi, evaluating
// the right operand only when the left one does not already decide the
// result. shortCircuitOnTrue is true for '||' (a true left operand skips
// the right-hand evaluation) and false for '&&'.
func (g *Generator) genShortCircuit(b *ast.Binary, shortCircuitOnTrue bool) value {
	id := g.nextTemp()
	trueLabel := fmt.Sprintf("true_block%d", id)
	falseLabel := fmt.Sprintf("false_block%d", id)
	endLabel := fmt.Sprintf("end_block%d", id)

	// shortLabel is entered when the left operand already decides the
	// result; rhsLabel is entered when the right operand must be
	// evaluated. Which literal label plays which role swaps between
	// '||' (short-circuits on true) and '&&' (short-circuits on false).
	shortLabel, rhsLabel := falseLabel, trueLabel
	if shortCircuitOnTrue {
		shortLabel, rhsLabel = trueLabel, falseLabel
	}

	left := g.genExpr(b.Left)
	if left.Type != "i1" {
		fail("logical operator requires bool operands, got %s", left.Type)
	}
	if shortCircuitOnTrue {
		g.terminate(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", left.Val, shortLabel, rhsLabel))
	} else {
		g.terminate(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", left.Val, rhsLabel, shortLabel))
	}

	g.startBlock(rhsLabel)
	right := g.genExpr(b.Right)
	if right.Type != "i1" {
		fail("logical operator requires bool operands, got %s", right.Type)
	}
	rhsExitLabel := g.currentLabel
	g.terminate(fmt.Sprintf("  br label %%%s", endLabel))

	g.startBlock(shortLabel)
	shortConst := "false"
	if shortCircuitOnTrue {
		shortConst = "true"
	}
	shortExitLabel := g.currentLabel
	g.terminate(fmt.Sprintf("  br label %%%s", endLabel))

	g.startBlock(endLabel)
	tmp := g.newTempName()
	g.emit(fmt.Sprintf("  %s = phi i1 [ %s, %%%s ], [ %s, %%%s ]", tmp, shortConst, shortExitLabel, right.Val, rhsExitLabel))
	return value{Type: "i1", Val: tmp}
}

// promoteTo converts v to the requested IR scalar type: i32 widens to
// double via sitofp and i1 widens to i32 via zext. No narrowing is
// performed here; any other conversion (such as double to i32) is a fatal
// CodegenError.
func (g *Generator) promoteTo(v value, target string) value {
	if v.Type == target {
		return v
	}
	if v.Type == "i32" && target == "double" {
		tmp := g.newTempName()
		g.emit(fmt.Sprintf("  %s = sitofp i32 %s to double", tmp, v.Val))
		return value{Type: "double", Val: tmp}
	}
	if v.Type == "i1" && target == "i32" {
		tmp := g.newTempName()
		g.emit(fmt.Sprintf("  %s = zext i1 %s to i32", tmp, v.Val))
		return value{Type: "i32", Val: tmp}
	}
	fail("cannot promote %s to %s", v.Type, target)
	return value{}
}
