package codegen

import (
	"strings"
	"testing"
)

func TestGlobalScalarWithInitializer(t *testing.T) {
	out := generate(t, `var count : int := 5;
function main():void { }`)
	if !strings.Contains(out, "= global i32 5, align 4") {
		t.Fatalf("expected a global i32 initialized to 5, got:\n%s", out)
	}
}

func TestGlobalScalarWithoutInitializerZeroes(t *testing.T) {
	out := generate(t, `var count : int;
function main():void { }`)
	if !strings.Contains(out, "= global i32 zeroinitializer, align 4") {
		t.Fatalf("expected a zero-initialized global, got:\n%s", out)
	}
}

func TestGlobalArrayLiteralLowersToNestedConstantArray(t *testing.T) {
	out := generate(t, `var grid : [[int]] := [[1,2],[3,4]];
function main():void { }`)
	if !strings.Contains(out, "= global [2 x [2 x i32]]") {
		t.Fatalf("expected a nested constant array global, got:\n%s", out)
	}
	if !strings.Contains(out, "[i32 1, i32 2]") || !strings.Contains(out, "[i32 3, i32 4]") {
		t.Fatalf("expected inner rows as constant i32 arrays, got:\n%s", out)
	}
}

func TestGlobalSizedArrayAllocationZeroes(t *testing.T) {
	out := generate(t, `var buf : [3][4]int;
function main():void { }`)
	if !strings.Contains(out, "= global [3 x [4 x i32]] zeroinitializer") {
		t.Fatalf("expected a zero-initialized sized array global, got:\n%s", out)
	}
}

func TestGlobalNegativeConstantFoldsViaSub(t *testing.T) {
	out := generate(t, `var n : int := -3;
function main():void { }`)
	if !strings.Contains(out, "sub (i32 0, i32 3)") {
		t.Fatalf("expected a constant sub expression for -3, got:\n%s", out)
	}
}

func TestGlobalFloatInitializerUsesDoubleConstantSyntax(t *testing.T) {
	out := generate(t, `var pi : double := 3.5;
function main():void { }`)
	if !strings.Contains(out, "= global double 3.500000e+00") {
		t.Fatalf("expected a double constant with exponent notation, got:\n%s", out)
	}
}
