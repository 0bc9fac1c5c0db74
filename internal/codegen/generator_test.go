package codegen

import (
	"regexp"
	"strings"
	"testing"

	"github.com/plc-lang/plc/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	prog, err := parser.New(src, nil).Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	out, err := New().Generate(prog)
	if err != nil {
		t.Fatalf("unexpected codegen error: %v", err)
	}
	return out
}

func TestPreambleDeclaresTheThreeExterns(t *testing.T) {
	out := generate(t, `function main():void { }`)
	for _, want := range []string{
		"declare i32 @printf(i8*, ...)",
		"declare i32 @scanf(i8*, ...)",
		"declare double @pow(double, double)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected preamble to contain %q, got:\n%s", want, out)
		}
	}
}

func TestEveryLabelHasExactlyOneTerminator(t *testing.T) {
	src := `function classify(n:int):int {
		if (n < 0) {
			return 0;
		} else {
			var i:int:=0;
			while (i < n) {
				if (i == 5) {
					break;
				}
				i := i + 1;
			}
			return i;
		}
	}`
	out := generate(t, src)
	checkOneTerminatorPerBlock(t, out)
}

// checkOneTerminatorPerBlock walks the emitted lines of a function body and
// verifies that each label's block contains exactly one br/ret instruction,
// which must be its last line.
func checkOneTerminatorPerBlock(t *testing.T, out string) {
	t.Helper()
	labelRe := regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*:$`)
	termRe := regexp.MustCompile(`^\s*(br |ret )`)

	lines := strings.Split(out, "\n")
	inBlock := false
	terminators := 0
	lastWasTerm := true
	blockName := ""

	flush := func() {
		if inBlock {
			if terminators != 1 {
				t.Fatalf("block %q has %d terminators, want exactly 1", blockName, terminators)
			}
			if !lastWasTerm {
				t.Fatalf("block %q does not end in a terminator", blockName)
			}
		}
	}

	for _, line := range lines {
		if labelRe.MatchString(strings.TrimSpace(line)) {
			flush()
			inBlock = true
			terminators = 0
			lastWasTerm = false
			blockName = line
			continue
		}
		if !inBlock {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if line == "}" {
			flush()
			inBlock = false
			continue
		}
		if termRe.MatchString(line) {
			terminators++
			lastWasTerm = true
		} else {
			lastWasTerm = false
		}
	}
	flush()
}

func TestShortCircuitOrEmitsThreeBlocksAndPhi(t *testing.T) {
	out := generate(t, `function main(x:bool, y:bool):bool { return !x || y; }`)
	for _, want := range []string{"true_block", "false_block", "end_block", "= phi i1 ["} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected short-circuit IR to contain %q, got:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "true, %true_block") {
		t.Fatalf("expected the phi's true incoming pair to come from true_block, got:\n%s", out)
	}
	checkOneTerminatorPerBlock(t, out)
}

func TestShortCircuitAndEmitsThreeBlocksAndPhi(t *testing.T) {
	out := generate(t, `function main(x:bool, y:bool):bool { return x && y; }`)
	for _, want := range []string{"true_block", "false_block", "end_block", "= phi i1 ["} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected short-circuit IR to contain %q, got:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "false, %false_block") {
		t.Fatalf("expected the phi's false incoming pair to come from false_block, got:\n%s", out)
	}
}

func TestIntTimesDoublePromotesBeforeMultiplying(t *testing.T) {
	out := generate(t, `function main(x:int, y:double):double { return x * y; }`)
	sitofpIdx := strings.Index(out, "sitofp i32")
	fmulIdx := strings.Index(out, "fmul double")
	if sitofpIdx == -1 || fmulIdx == -1 {
		t.Fatalf("expected both sitofp and fmul in:\n%s", out)
	}
	if sitofpIdx > fmulIdx {
		t.Fatalf("expected sitofp to precede fmul, got sitofp@%d fmul@%d", sitofpIdx, fmulIdx)
	}
}

func TestExponentiationLowersToPowAndNarrowsIntResult(t *testing.T) {
	out := generate(t, `function main(x:int):int { return x ^ 3; }`)
	if !strings.Contains(out, "call double @pow(double") {
		t.Fatalf("expected a call to @pow, got:\n%s", out)
	}
	if !strings.Contains(out, "fptosi double") {
		t.Fatalf("expected the pow result to be narrowed back to i32 via fptosi, got:\n%s", out)
	}
}

func TestNestedArrayLiteralAllocatesNestedArrayTypeAndIndexes(t *testing.T) {
	out := generate(t, `function main():void {
		var a : [[int]] := [[1,2],[3,4]];
		var first:int := a[0][1];
	}`)
	if !strings.Contains(out, "alloca [2 x [2 x i32]]") {
		t.Fatalf("expected a nested array alloca, got:\n%s", out)
	}
	if !strings.Contains(out, "getelementptr inbounds [2 x [2 x i32]]") {
		t.Fatalf("expected nested getelementptr addressing, got:\n%s", out)
	}
}

func TestBreakInsideIfInsideWhileBranchesToLoopEndNotEpilogue(t *testing.T) {
	out := generate(t, `function main():void {
		var i:int:=0;
		while (i < 10) {
			if (i == 5) {
				break;
			}
			i := i + 1;
		}
	}`)
	lines := strings.Split(out, "\n")
	endLabel := ""
	for _, l := range lines {
		if strings.HasPrefix(l, "end") && strings.HasSuffix(l, ":") {
			endLabel = strings.TrimSuffix(l, ":")
			break
		}
	}
	if endLabel == "" {
		t.Fatalf("expected a while end label, got:\n%s", out)
	}
	want := "br label %" + endLabel
	found := false
	for _, l := range lines {
		if strings.Contains(l, want) && !strings.HasPrefix(strings.TrimSpace(l), "end") {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected break to branch directly to %q, got:\n%s", endLabel, out)
	}
	if strings.Contains(out, "br label %retblock") == false {
		t.Fatalf("expected the function's own epilogue branch to still exist, got:\n%s", out)
	}
}

func TestFunctionHasSingleExitEpilogue(t *testing.T) {
	out := generate(t, `function abs(x:int):int {
		if (x < 0) {
			return 0 - x;
		}
		return x;
	}`)
	retCount := strings.Count(out, "ret i32")
	if retCount != 1 {
		t.Fatalf("expected exactly one 'ret i32' instruction (single-exit epilogue), got %d in:\n%s", retCount, out)
	}
}

func TestStringLiteralsAreNotDeduplicated(t *testing.T) {
	out := generate(t, `function main():void { print_string("hi"); print_string("hi"); }`)
	if strings.Count(out, `c"hi\00"`) != 2 {
		t.Fatalf("expected two separate globals for two identical string literals, got:\n%s", out)
	}
}
