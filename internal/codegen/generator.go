// Package codegen walks a validated *ast.Program and emits LLVM textual IR:
// SSA temporaries, alloca/load/store discipline, properly terminated basic
// blocks, numeric promotion, multidimensional array indexing via
// getelementptr, short-circuit Boolean evaluation, structured control flow,
// and a single-exit epilogue per function.
package codegen

import (
	"fmt"
	"strings"

	"github.com/plc-lang/plc/internal/ast"
)

// CodegenError is fatal: type mismatches surviving promotion, unsupported
// operators, and undefined variables at this stage indicate an analyzer bug
// or an unchecked construct, never something recoverable mid-generation.
type CodegenError struct{ Message string }

func (e *CodegenError) Error() string { return e.Message }

func fail(format string, args ...any) {
	panic(&CodegenError{Message: fmt.Sprintf(format, args...)})
}

// varEntry is one symbol-table binding: its source type and the IR name
// that backs it (a global or a stack slot; parameters are bound to the
// slots the prologue stores them into).
type varEntry struct {
	Type    ast.Type
	IRName  string
	Lengths []int // populated for array bindings; nil for scalars
}

type funcSig struct {
	Params []ast.Type
	Return ast.Type
}

type loopFrame struct {
	CondLabel string
	BodyLabel string
	EndLabel  string
}

// Generator is a recursive-descent visitor over one *ast.Program. It owns
// the output buffer and every monotonic counter for the duration of
// Generate; nothing here is safe for concurrent use.
type Generator struct {
	lines      []string
	stringLits []string

	tempCount int // SSA temporaries and block labels
	varCount  int // allocas, globals, string literal names

	funcs  map[string]funcSig
	scopes []map[string]varEntry

	loopStack []loopFrame

	curRetType  string // IR type of the enclosing function's return slot ("void" if void)
	curRetSlot  string
	curRetBlock string

	// terminated tracks whether the current basic block already ends in a
	// terminator (br/ret); see startBlock/terminate in blocks.go.
	terminated bool

	// currentLabel is the label of the basic block presently being filled,
	// used to name the correct predecessor when building phi nodes for
	// short-circuit evaluation.
	currentLabel string
}

// New creates a Generator. Call Generate exactly once.
func New() *Generator {
	return &Generator{funcs: map[string]funcSig{
		"printf": {Return: ast.Scalar("int")},
		"scanf":  {Return: ast.Scalar("int")},
		"pow":    {Params: []ast.Type{ast.Scalar("double"), ast.Scalar("double")}, Return: ast.Scalar("double")},
	}}
}

func (g *Generator) emit(line string) {
	g.lines = append(g.lines, line)
}

func (g *Generator) pushScope() { g.scopes = append(g.scopes, map[string]varEntry{}) }
func (g *Generator) popScope()  { g.scopes = g.scopes[:len(g.scopes)-1] }

func (g *Generator) declare(name string, e varEntry) {
	g.scopes[len(g.scopes)-1][name] = e
}

func (g *Generator) lookup(name string) (varEntry, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if e, ok := g.scopes[i][name]; ok {
			return e, true
		}
	}
	return varEntry{}, false
}

func (g *Generator) nextTemp() int {
	g.tempCount++
	return g.tempCount
}

func (g *Generator) nextVar() int {
	g.varCount++
	return g.varCount
}

func (g *Generator) newTempName() string {
	return fmt.Sprintf("%%tmp%d", g.nextTemp())
}

// Generate lowers prog to a complete LLVM IR module and returns its text.
// A panic raised by a fatal *CodegenError is recovered and returned as err;
// every other panic is allowed to propagate (it indicates a generator bug).
func (g *Generator) Generate(prog *ast.Program) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CodegenError); ok {
				err = ce
				return
			}
			panic(r)
		}
	}()

	g.emit("declare i32 @printf(i8*, ...)")
	g.emit("declare i32 @scanf(i8*, ...)")
	g.emit("declare double @pow(double, double)")
	g.emit("")

	g.pushScope() // global scope
	defer g.popScope()

	for _, d := range prog.Declarations {
		switch fn := d.(type) {
		case *ast.FunctionStatement:
			g.registerSig(fn.Name, fn.Parameters, fn.ReturnType)
		case *ast.FunctionDeclaration:
			g.registerSig(fn.Name, fn.Parameters, fn.ReturnType)
			g.emit(fmt.Sprintf("declare %s @%s(%s)", irType(fn.ReturnType.Elem()), fn.Name, g.declParamTypes(fn.Parameters)))
		}
	}

	if prog.Globals != nil {
		for _, stmt := range prog.Globals.Declarations {
			g.genGlobalDecl(stmt)
		}
	}

	for _, d := range prog.Declarations {
		if fn, ok := d.(*ast.FunctionStatement); ok {
			g.genFunction(fn)
		}
	}

	body := strings.Join(g.lines, "\n")
	if len(g.stringLits) == 0 {
		return body, nil
	}
	return strings.Join(g.stringLits, "\n") + "\n" + body, nil
}

func (g *Generator) registerSig(name string, params []ast.Parameter, ret ast.Type) {
	ptypes := make([]ast.Type, len(params))
	for i, p := range params {
		ptypes[i] = p.Type
	}
	g.funcs[name] = funcSig{Params: ptypes, Return: ret}
}

func (g *Generator) declParamTypes(params []ast.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = irType(p.Type.Elem())
	}
	return strings.Join(parts, ", ")
}

// irType lowers a source scalar type spelling to its LLVM type. The
// asymmetric mapping of float to double is intentional: all floating-point
// math happens in double regardless of the source spelling.
func irType(name string) string {
	switch name {
	case "int":
		return "i32"
	case "bool":
		return "i1"
	case "float", "double":
		return "double"
	case "string":
		return "i8"
	case "void":
		return "void"
	}
	fail("unsupported type %q in codegen", name)
	return ""
}

// irAlign returns the alignment attribute for a scalar IR type.
func irAlign(ty string) int {
	switch ty {
	case "double":
		return 8
	case "i1":
		return 1
	default:
		return 4
	}
}

// arrayIRType builds the nested LLVM array type for a shape, e.g.
// "[2 x [2 x i32]]" for lengths [2,2] and element type i32.
func arrayIRType(lengths []int, elemIR string) string {
	ty := elemIR
	for i := len(lengths) - 1; i >= 0; i-- {
		ty = fmt.Sprintf("[%d x %s]", lengths[i], ty)
	}
	return ty
}
