package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/plc-lang/plc/internal/parser"
	"github.com/plc-lang/plc/internal/semantic"
)

func TestPrintTypecheckReportsNoErrorsForAValidProgram(t *testing.T) {
	prog, err := parser.New(`function main():int { return 1; }`, nil).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	analyzer := semantic.Analyze(prog)
	var buf bytes.Buffer
	PrintTypecheck(&buf, prog, analyzer)
	if !strings.Contains(buf.String(), "No semantic errors.") {
		t.Fatalf("expected no-errors message, got:\n%s", buf.String())
	}
}

func TestPrintTypecheckListsAccumulatedErrorsAndInferredTypes(t *testing.T) {
	prog, err := parser.New(`function main():int { a := 1 + 2; return a; }`, nil).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	analyzer := semantic.Analyze(prog)
	var buf bytes.Buffer
	PrintTypecheck(&buf, prog, analyzer)
	out := buf.String()
	if !strings.Contains(out, "2 semantic error(s):") {
		t.Fatalf("expected exactly two reported errors, got:\n%s", out)
	}
	if !strings.Contains(out, "Variable 'a' not declared") {
		t.Fatalf("expected the undeclared-variable error, got:\n%s", out)
	}
	if !strings.Contains(out, "binary + : int") {
		t.Fatalf("expected the inferred type of the binary expression, got:\n%s", out)
	}
}
