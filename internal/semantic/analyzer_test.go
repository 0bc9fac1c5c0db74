package semantic

import (
	"testing"

	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/parser"
)

func analyze(t *testing.T, src string) *Analyzer {
	t.Helper()
	prog, err := parser.New(src, nil).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return Analyze(prog)
}

func TestConstantReassignmentIsRejected(t *testing.T) {
	a := analyze(t, `val x:int:=1;
function f():int { x:=2; return x; }`)
	want := "Cannot assign to constant variable 'x'"
	if !contains(a.Errors, want) {
		t.Fatalf("expected error %q, got %v", want, a.Errors)
	}
}

func TestGlobalRedeclarationIsRejected(t *testing.T) {
	a := analyze(t, `var x:int; var x:float;`)
	want := "Variable 'x' already declared in global scope"
	if !contains(a.Errors, want) {
		t.Fatalf("expected error %q, got %v", want, a.Errors)
	}
}

func TestUndeclaredUseReportsExactlyAandB(t *testing.T) {
	a := analyze(t, `function f(x:int,y:float):float { a := 2*x+y; b := 3*(x-y); return x+y*2; }`)
	want := []string{"Variable 'a' not declared", "Variable 'b' not declared"}
	if len(a.Errors) != len(want) {
		t.Fatalf("expected exactly %v, got %v", want, a.Errors)
	}
	for i, w := range want {
		if a.Errors[i] != w {
			t.Fatalf("error %d: expected %q, got %q", i, w, a.Errors[i])
		}
	}
}

func TestValWithoutInitializerIsRejected(t *testing.T) {
	a := analyze(t, `val x:int;`)
	want := "Constant variable 'x' must be initialized"
	if !contains(a.Errors, want) {
		t.Fatalf("expected error %q, got %v", want, a.Errors)
	}
}

func TestAssignmentTypeMismatchIsRejected(t *testing.T) {
	a := analyze(t, `function f():void { var x:int:=1; x := true; }`)
	if len(a.Errors) == 0 {
		t.Fatalf("expected a type mismatch error, got none")
	}
}

func TestReturnTypeMismatchIsRejected(t *testing.T) {
	a := analyze(t, `function f():int { return true; }`)
	want := "Return type mismatch in f function"
	if !contains(a.Errors, want) {
		t.Fatalf("expected error %q, got %v", want, a.Errors)
	}
}

func TestBareReturnValidOnlyInVoidFunction(t *testing.T) {
	a := analyze(t, `function f():int { return; }`)
	if !contains(a.Errors, "Return type mismatch in f function") {
		t.Fatalf("expected a return type mismatch error, got %v", a.Errors)
	}

	a2 := analyze(t, `function f():void { return; }`)
	if len(a2.Errors) != 0 {
		t.Fatalf("expected no errors for bare return in void function, got %v", a2.Errors)
	}
}

func TestCallToUndeclaredFunctionIsRejected(t *testing.T) {
	a := analyze(t, `function main():int { return missing(); }`)
	if !contains(a.Errors, "Function 'missing' not declared") {
		t.Fatalf("expected undeclared-function error, got %v", a.Errors)
	}
}

func TestNumericCompatibilityAcrossIntFloatDouble(t *testing.T) {
	a := analyze(t, `function f():double { var a:int:=1; var b:double:=2.0; return a+b; }`)
	if len(a.Errors) != 0 {
		t.Fatalf("expected int/double mixing to be accepted, got %v", a.Errors)
	}
}

func TestBoolCannotMixWithNumeric(t *testing.T) {
	a := analyze(t, `function f():int { var a:bool:=true; var b:int:=1; return a+b; }`)
	if len(a.Errors) == 0 {
		t.Fatalf("expected a type mismatch between bool and int, got none")
	}
}

func TestAnalyzerIsTotalAcrossSiblingErrors(t *testing.T) {
	a := analyze(t, `function f():int { a:=1; b:=2; return 0; }`)
	if len(a.Errors) != 2 {
		t.Fatalf("expected analysis to continue past the first error, got %d errors: %v", len(a.Errors), a.Errors)
	}
}

func TestParametersDoNotLeakAcrossFunctions(t *testing.T) {
	a := analyze(t, `function f(n:int):int { return n; }
function g():int { return n; }`)
	if !contains(a.Errors, "Variable 'n' not declared") {
		t.Fatalf("expected 'n' to be out of scope in g, got %v", a.Errors)
	}
}

func TestInferredTypesRecordedForExpressions(t *testing.T) {
	prog, err := parser.New(`function f():int { return 1+2; }`, nil).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	a := Analyze(prog)
	fn := prog.Declarations[0].(*ast.FunctionStatement)
	ret := fn.Body.Statements[0].(*ast.Return)
	got, ok := a.Types[ret.Value]
	if !ok || got != "int" {
		t.Fatalf("expected inferred type %q for return expression, got %q (ok=%v)", "int", got, ok)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
