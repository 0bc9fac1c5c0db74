package errors

import (
	"strings"
	"testing"

	"github.com/plc-lang/plc/internal/lexer"
)

func TestFormatIncludesFileLineAndCaret(t *testing.T) {
	src := "var x : int := 1;\nx := true;\n"
	ce := NewCompilerError(lexer.Position{Line: 2, Column: 1}, "Type mismatch in assignment for variable 'x'", src, "main.pl")
	out := ce.Format(false)
	if !strings.Contains(out, "Error in main.pl:2:1") {
		t.Fatalf("expected a file:line:column header, got:\n%s", out)
	}
	if !strings.Contains(out, "x := true;") {
		t.Fatalf("expected the offending source line, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected a caret indicator, got:\n%s", out)
	}
	if !strings.Contains(out, "Type mismatch in assignment for variable 'x'") {
		t.Fatalf("expected the error message, got:\n%s", out)
	}
}

func TestFormatWithoutFileUsesBareLineHeader(t *testing.T) {
	ce := NewCompilerError(lexer.Position{Line: 3, Column: 5}, "unexpected token", "a\nb\nc\n", "")
	out := ce.Format(false)
	if !strings.Contains(out, "Error at line 3:5") {
		t.Fatalf("expected a bare line:column header, got:\n%s", out)
	}
}

func TestFormatWithContextShowsSurroundingLines(t *testing.T) {
	src := "line1\nline2\nline3\nline4\nline5\n"
	ce := NewCompilerError(lexer.Position{Line: 3, Column: 1}, "boom", src, "f.pl")
	out := ce.FormatWithContext(1, false)
	for _, want := range []string{"line2", "line3", "line4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected context to include %q, got:\n%s", want, out)
		}
	}
}

func TestFormatErrorsSingleVsMultiple(t *testing.T) {
	one := []*CompilerError{NewCompilerError(lexer.Position{Line: 1, Column: 1}, "only error", "x;\n", "f.pl")}
	out := FormatErrors(one, false)
	if strings.Contains(out, "Compilation failed with") {
		t.Fatalf("single error should not get a summary header, got:\n%s", out)
	}

	many := []*CompilerError{
		NewCompilerError(lexer.Position{Line: 1, Column: 1}, "first", "x;\ny;\n", "f.pl"),
		NewCompilerError(lexer.Position{Line: 2, Column: 1}, "second", "x;\ny;\n", "f.pl"),
	}
	out = FormatErrors(many, false)
	if !strings.Contains(out, "Compilation failed with 2 error(s):") {
		t.Fatalf("expected a summary header for multiple errors, got:\n%s", out)
	}
	if !strings.Contains(out, "[Error 1 of 2]") || !strings.Contains(out, "[Error 2 of 2]") {
		t.Fatalf("expected each error to be numbered, got:\n%s", out)
	}
}

func TestFromStringErrorsWithoutPositionDefaultsToZero(t *testing.T) {
	errs := FromStringErrors([]string{"Variable 'x' not declared"}, "src", "f.pl")
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if errs[0].Pos.Line != 0 || errs[0].Pos.Column != 0 {
		t.Fatalf("expected a zero position for a plain message, got %+v", errs[0].Pos)
	}
	if errs[0].Message != "Variable 'x' not declared" {
		t.Fatalf("expected the message preserved verbatim, got %q", errs[0].Message)
	}
}

func TestFromStringErrorsParsesTrailingPosition(t *testing.T) {
	errs := FromStringErrors([]string{"unexpected token at 4:7"}, "src", "f.pl")
	if errs[0].Pos.Line != 4 || errs[0].Pos.Column != 7 {
		t.Fatalf("expected position {4 7}, got %+v", errs[0].Pos)
	}
	if errs[0].Message != "unexpected token" {
		t.Fatalf("expected the position suffix stripped from the message, got %q", errs[0].Message)
	}
}
