package driver

import (
	"fmt"
	"io"
	"sort"

	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/semantic"
)

// PrintTypecheck writes every accumulated semantic error followed by each
// visited expression's inferred type, for the `compile --typecheck_print`
// flag. Expressions are ordered by source line for stable, readable output
// since the analyzer's Types map has no inherent order.
func PrintTypecheck(w io.Writer, prog *ast.Program, analyzer *semantic.Analyzer) {
	if len(analyzer.Errors) == 0 {
		fmt.Fprintln(w, "No semantic errors.")
	} else {
		fmt.Fprintf(w, "%d semantic error(s):\n", len(analyzer.Errors))
		for _, e := range analyzer.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w, "\nInferred types:")
	type entry struct {
		line int
		desc string
		typ  string
	}
	var entries []entry
	for expr, typ := range analyzer.Types {
		entries = append(entries, entry{line: exprLine(expr), desc: describeExpr(expr), typ: typ})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].line != entries[j].line {
			return entries[i].line < entries[j].line
		}
		return entries[i].desc < entries[j].desc
	})
	for _, e := range entries {
		fmt.Fprintf(w, "  line %d: %s : %s\n", e.line, e.desc, e.typ)
	}
}

func exprLine(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Line
	case *ast.VariableReference:
		return e.Line
	case *ast.ArrayAccess:
		return e.Line
	case *ast.FunctionCall:
		return e.Line
	case *ast.Unary:
		return e.Line
	case *ast.Binary:
		return e.Line
	}
	return 0
}

func describeExpr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.Literal:
		return "literal " + literalText(e)
	case *ast.VariableReference:
		return "variable " + e.Name
	case *ast.ArrayAccess:
		return "array access " + e.Name
	case *ast.FunctionCall:
		return "call " + e.Name
	case *ast.Unary:
		return "unary " + e.Op
	case *ast.Binary:
		return "binary " + e.Op
	}
	return fmt.Sprintf("%T", expr)
}
