// Package semantic walks a *ast.Program with a stack of scoped symbol
// tables, enforcing declaration, mutability, and typing rules. Errors are
// accumulated as plain strings rather than aborting: a violation on one
// statement never prevents the analyzer from checking its siblings.
package semantic

import (
	"fmt"

	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/types"
)

// funcSig is a function's checkable signature: its declared parameter types
// and return type.
type funcSig struct {
	Params []ast.Type
	Return ast.Type
}

// Analyzer is the semantic analysis pass over one *ast.Program.
type Analyzer struct {
	scopes scopeStack
	funcs  map[string]funcSig

	// Errors accumulates every violation found, in discovery order.
	Errors []string

	// Types records, for every expression node visited, its inferred scalar
	// type spelling, consulted by tests and by the driver's --typecheck_print
	// output (internal/codegen does not read it).
	Types map[ast.Expression]string

	curFunc   string
	curReturn ast.Type
	curIsVoid bool
}

// builtinExterns are always available regardless of whether the source
// declares them, matching the IR generator's fixed preamble.
var builtinExterns = map[string]funcSig{
	"printf": {Return: ast.Scalar("int")},
	"scanf":  {Return: ast.Scalar("int")},
	"pow":    {Params: []ast.Type{ast.Scalar("double"), ast.Scalar("double")}, Return: ast.Scalar("double")},
}

// Analyze runs the full analysis pass and returns the Analyzer (for its
// accumulated Errors/Types) regardless of whether any errors were found.
func Analyze(prog *ast.Program) *Analyzer {
	a := &Analyzer{funcs: make(map[string]funcSig), Types: make(map[ast.Expression]string)}
	for name, sig := range builtinExterns {
		a.funcs[name] = sig
	}

	a.scopes.push() // global scope
	defer a.scopes.pop()

	// Function signatures must all be visible before any body is checked,
	// since calls may appear in any declaration order.
	for _, d := range prog.Declarations {
		switch fn := d.(type) {
		case *ast.FunctionStatement:
			a.registerSignature(fn.Name, fn.Parameters, fn.ReturnType)
		case *ast.FunctionDeclaration:
			a.registerSignature(fn.Name, fn.Parameters, fn.ReturnType)
		}
	}

	if prog.Globals != nil {
		for _, stmt := range prog.Globals.Declarations {
			a.analyzeGlobalDecl(stmt)
		}
	}

	for _, d := range prog.Declarations {
		if fn, ok := d.(*ast.FunctionStatement); ok {
			a.analyzeFunction(fn)
		}
	}

	return a
}

func (a *Analyzer) registerSignature(name string, params []ast.Parameter, ret ast.Type) {
	ptypes := make([]ast.Type, len(params))
	for i, p := range params {
		ptypes[i] = p.Type
	}
	a.funcs[name] = funcSig{Params: ptypes, Return: ret}
}

func (a *Analyzer) errorf(format string, args ...any) {
	a.Errors = append(a.Errors, fmt.Sprintf(format, args...))
}

func (a *Analyzer) analyzeGlobalDecl(stmt ast.Statement) {
	switch d := stmt.(type) {
	case *ast.VariableDeclaration:
		if a.scopes.declaredInGlobal(d.Name) {
			a.errorf("Variable '%s' already declared in global scope", d.Name)
		} else {
			a.scopes.declare(d.Name, symbol{Type: d.Type, Immutable: d.Kind == ast.Val})
		}
		if d.Kind == ast.Val && d.Initializer == nil {
			a.errorf("Constant variable '%s' must be initialized", d.Name)
		}
		if d.Initializer != nil {
			initType := a.inferExpr(d.Initializer)
			if initType != "" && !types.Compatible(initType, d.Type.Elem()) {
				a.errorf("Type mismatch in assignment for variable '%s'", d.Name)
			}
		}
	case *ast.ArrayDeclaration:
		if a.scopes.declaredInGlobal(d.Name) {
			a.errorf("Array '%s' already declared in global scope", d.Name)
		} else {
			a.scopes.declare(d.Name, symbol{Type: d.Type, Immutable: d.Kind == ast.Val})
		}
		a.analyzeArrayLiteral(d.Initializer, d.Type.Elem())
	case *ast.ArrayAllocation:
		if a.scopes.declaredInGlobal(d.Name) {
			a.errorf("Array '%s' already declared in global scope", d.Name)
		} else {
			a.scopes.declare(d.Name, symbol{Type: d.Type, Immutable: d.Kind == ast.Val})
		}
	default:
		a.errorf("Unknown global declaration type: %T", stmt)
	}
}

func (a *Analyzer) analyzeArrayLiteral(lit *ast.ArrayLiteral, elemType string) {
	if lit == nil {
		return
	}
	for _, nested := range lit.NestedElems {
		a.analyzeArrayLiteral(nested, elemType)
	}
	for _, e := range lit.Elems {
		et := a.inferExpr(e)
		if et != "" && !types.Compatible(et, elemType) {
			a.errorf("Type mismatch in array literal: expected %s, got %s", elemType, et)
		}
	}
}

func (a *Analyzer) analyzeFunction(fn *ast.FunctionStatement) {
	a.scopes.push()
	defer a.scopes.pop()

	prevFunc, prevReturn, prevVoid := a.curFunc, a.curReturn, a.curIsVoid
	a.curFunc = fn.Name
	a.curReturn = fn.ReturnType
	a.curIsVoid = fn.ReturnType.Elem() == "void"
	defer func() { a.curFunc, a.curReturn, a.curIsVoid = prevFunc, prevReturn, prevVoid }()

	for _, p := range fn.Parameters {
		if a.scopes.declaredInCurrent(p.Name) {
			a.errorf("Variable '%s' already declared in current scope", p.Name)
			continue
		}
		a.scopes.declare(p.Name, symbol{Type: p.Type})
	}

	a.analyzeBlock(fn.Body)
}

func (a *Analyzer) analyzeBlock(block *ast.StatementBlock) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		a.analyzeStatement(stmt)
	}
}

func (a *Analyzer) analyzeStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		a.analyzeLocalVarDecl(s)
	case *ast.ArrayDeclaration:
		a.analyzeLocalArrayDecl(s)
	case *ast.ArrayAllocation:
		a.analyzeLocalArrayAlloc(s)
	case *ast.Assignment:
		a.analyzeAssignment(s)
	case *ast.ArrayAssignment:
		a.analyzeArrayAssignment(s)
	case *ast.If:
		a.inferExpr(s.Condition)
		a.analyzeBlock(s.Then)
		a.analyzeBlock(s.Else)
	case *ast.While:
		a.inferExpr(s.Condition)
		a.analyzeBlock(s.Body)
	case *ast.DoWhile:
		a.analyzeBlock(s.Body)
		a.inferExpr(s.Condition)
	case *ast.Return:
		a.analyzeReturn(s)
	case *ast.ExpressionStatement:
		a.inferExpr(s.Expression)
	case *ast.Break, *ast.Continue:
		// no scoping or typing obligations
	default:
		a.errorf("Unknown statement type: %T", stmt)
	}
}

func (a *Analyzer) analyzeLocalVarDecl(d *ast.VariableDeclaration) {
	if a.scopes.declaredInGlobal(d.Name) {
		a.errorf("Variable '%s' already declared in global scope", d.Name)
	} else if a.scopes.declaredInCurrent(d.Name) {
		a.errorf("Variable '%s' already declared in current scope", d.Name)
	} else {
		a.scopes.declare(d.Name, symbol{Type: d.Type, Immutable: d.Kind == ast.Val})
	}
	if d.Kind == ast.Val && d.Initializer == nil {
		a.errorf("Constant variable '%s' must be initialized", d.Name)
	}
	if d.Initializer != nil {
		initType := a.inferExpr(d.Initializer)
		if initType != "" && !types.Compatible(initType, d.Type.Elem()) {
			a.errorf("Type mismatch in assignment for variable '%s'", d.Name)
		}
	}
}

func (a *Analyzer) analyzeLocalArrayDecl(d *ast.ArrayDeclaration) {
	if a.scopes.declaredInGlobal(d.Name) {
		a.errorf("Array '%s' already declared in global scope", d.Name)
	} else if a.scopes.declaredInCurrent(d.Name) {
		a.errorf("Array '%s' already declared in current scope", d.Name)
	} else {
		a.scopes.declare(d.Name, symbol{Type: d.Type, Immutable: d.Kind == ast.Val})
	}
	a.analyzeArrayLiteral(d.Initializer, d.Type.Elem())
}

func (a *Analyzer) analyzeLocalArrayAlloc(d *ast.ArrayAllocation) {
	if a.scopes.declaredInGlobal(d.Name) {
		a.errorf("Array '%s' already declared in global scope", d.Name)
	} else if a.scopes.declaredInCurrent(d.Name) {
		a.errorf("Array '%s' already declared in current scope", d.Name)
	} else {
		a.scopes.declare(d.Name, symbol{Type: d.Type, Immutable: d.Kind == ast.Val})
	}
}

func (a *Analyzer) analyzeAssignment(s *ast.Assignment) {
	sym, ok := a.scopes.lookup(s.Target)
	if !ok {
		a.errorf("Variable '%s' not declared", s.Target)
		a.inferExpr(s.Value)
		return
	}
	if sym.Immutable {
		a.errorf("Cannot assign to constant variable '%s'", s.Target)
	}
	valType := a.inferExpr(s.Value)
	if valType != "" && !types.Compatible(valType, sym.Type.Elem()) {
		a.errorf("Type mismatch in assignment for variable '%s'", s.Target)
	}
}

func (a *Analyzer) analyzeArrayAssignment(s *ast.ArrayAssignment) {
	sym, ok := a.scopes.lookup(s.Target)
	if !ok {
		a.errorf("Array '%s' not declared", s.Target)
		for _, idx := range s.Index {
			a.inferExpr(idx)
		}
		a.inferExpr(s.Value)
		return
	}
	if sym.Immutable {
		a.errorf("Cannot assign to constant array '%s'", s.Target)
	}
	for _, idx := range s.Index {
		a.inferExpr(idx)
	}
	valType := a.inferExpr(s.Value)
	if valType != "" && !types.Compatible(valType, sym.Type.Elem()) {
		a.errorf("Type mismatch in array assignment for array '%s'", s.Target)
	}
}

func (a *Analyzer) analyzeReturn(s *ast.Return) {
	if s.Value == nil {
		if !a.curIsVoid {
			a.errorf("Return type mismatch in %s function", a.curFunc)
		}
		return
	}
	if a.curIsVoid {
		a.errorf("Return type mismatch in %s function", a.curFunc)
		a.inferExpr(s.Value)
		return
	}
	valType := a.inferExpr(s.Value)
	if valType != "" && !types.Compatible(valType, a.curReturn.Elem()) {
		a.errorf("Return type mismatch in %s function", a.curFunc)
	}
}

// inferExpr type-checks an expression, records its inferred type in
// a.Types, and returns that type spelling ("" if it could not be determined,
// e.g. after an already-reported error).
func (a *Analyzer) inferExpr(expr ast.Expression) string {
	if expr == nil {
		return ""
	}
	t := a.inferExprInner(expr)
	if t != "" {
		a.Types[expr] = t
	}
	return t
}

func (a *Analyzer) inferExprInner(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.IntLiteral:
			return "int"
		case ast.FloatLiteral:
			return "float"
		case ast.BoolLiteral:
			return "bool"
		case ast.StringLiteral:
			return "string"
		}
		return ""
	case *ast.VariableReference:
		sym, ok := a.scopes.lookup(e.Name)
		if !ok {
			a.errorf("Variable '%s' not declared", e.Name)
			return ""
		}
		return sym.Type.Elem()
	case *ast.ArrayAccess:
		sym, ok := a.scopes.lookup(e.Name)
		if !ok {
			a.errorf("Array '%s' not declared", e.Name)
			for _, idx := range e.Index {
				a.inferExpr(idx)
			}
			return ""
		}
		for _, idx := range e.Index {
			a.inferExpr(idx)
		}
		return sym.Type.Elem()
	case *ast.FunctionCall:
		sig, ok := a.funcs[e.Name]
		if !ok {
			a.errorf("Function '%s' not declared", e.Name)
		}
		for _, arg := range e.Args {
			a.inferExpr(arg)
		}
		if ok {
			return sig.Return.Elem()
		}
		return ""
	case *ast.Unary:
		operandType := a.inferExpr(e.Operand)
		switch e.Op {
		case "!":
			return "bool"
		case "-":
			return operandType
		case "~":
			return operandType
		}
		return operandType
	case *ast.Binary:
		leftType := a.inferExpr(e.Left)
		rightType := a.inferExpr(e.Right)
		return a.inferBinary(e, leftType, rightType)
	case *ast.ArrayLiteral:
		return ""
	default:
		a.errorf("Unknown expression type: %T", expr)
		return ""
	}
}

func isComparisonOperator(op string) bool {
	switch op {
	case "<", ">", "<=", ">=", "==", "!=":
		return true
	}
	return false
}

func isLogicalOperator(op string) bool {
	return op == "&&" || op == "||"
}

func (a *Analyzer) inferBinary(e *ast.Binary, leftType, rightType string) string {
	if leftType == "" || rightType == "" {
		return ""
	}
	if isComparisonOperator(e.Op) || isLogicalOperator(e.Op) {
		if !types.Compatible(leftType, rightType) {
			a.errorf("Type mismatch in binary expression: %s and %s", leftType, rightType)
		}
		return "bool"
	}
	if e.Op == "^" {
		// exponentiation computes in double and, like the IR generator's
		// lowering, narrows back to int when both operands are int.
		if !types.Numeric(leftType) || !types.Numeric(rightType) {
			a.errorf("Type mismatch in binary expression: %s and %s", leftType, rightType)
			return ""
		}
		if leftType == "int" && rightType == "int" {
			return "int"
		}
		return "double"
	}
	common, ok := types.CommonType(leftType, rightType)
	if !ok {
		a.errorf("Type mismatch in binary expression: %s and %s", leftType, rightType)
		return ""
	}
	return common
}
