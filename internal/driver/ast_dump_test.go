package driver

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/plc-lang/plc/internal/parser"
)

func TestDumpTreeJSONIsValidAndTagsEveryNode(t *testing.T) {
	prog, err := parser.New(`function main():int { return 1 + 2; }`, nil).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	out, err := DumpTreeJSON(prog)
	if err != nil {
		t.Fatalf("unexpected dump error: %v", err)
	}
	var generic map[string]any
	if err := json.Unmarshal([]byte(out), &generic); err != nil {
		t.Fatalf("expected valid JSON, got error %v for:\n%s", err, out)
	}
	if generic["node"] != "Program" {
		t.Fatalf("expected root node tag %q, got %v", "Program", generic["node"])
	}
	if !strings.Contains(out, `"node": "FunctionStatement"`) {
		t.Fatalf("expected a FunctionStatement node tag, got:\n%s", out)
	}
	if !strings.Contains(out, `"node": "Binary"`) {
		t.Fatalf("expected a Binary node tag, got:\n%s", out)
	}
}

func TestDumpTreePrettyWritesReadableOutline(t *testing.T) {
	prog, err := parser.New(`function main():void { var x:int:=1; }`, nil).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	var buf bytes.Buffer
	DumpTreePretty(&buf, prog)
	out := buf.String()
	if !strings.Contains(out, "main") {
		t.Fatalf("expected pretty output to mention the function name, got:\n%s", out)
	}
	if !strings.Contains(out, "x") {
		t.Fatalf("expected pretty output to mention the variable name, got:\n%s", out)
	}
}
