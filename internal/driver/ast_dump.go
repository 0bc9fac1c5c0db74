package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/plc-lang/plc/internal/ast"
)

// DumpTreeJSON renders prog as indented JSON for the `compile --tree` flag.
// Each node is a map carrying its own "node" type tag, since Go's
// encoding/json has no notion of the Expression/Statement/Declaration
// interfaces and would otherwise flatten every variant into anonymous
// field sets indistinguishable from one another.
func DumpTreeJSON(prog *ast.Program) (string, error) {
	data, err := json.MarshalIndent(treeOf(prog), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal AST: %w", err)
	}
	return string(data), nil
}

func treeOf(prog *ast.Program) map[string]any {
	var globals []any
	if prog.Globals != nil {
		for _, d := range prog.Globals.Declarations {
			globals = append(globals, nodeTree(d))
		}
	}
	var decls []any
	for _, d := range prog.Declarations {
		decls = append(decls, nodeTree(d))
	}
	return map[string]any{
		"node":    "Program",
		"globals": globals,
		"decls":   decls,
		"imports": prog.Imports,
	}
}

func nodeTree(node ast.Node) map[string]any {
	switch n := node.(type) {
	case *ast.FunctionStatement:
		return map[string]any{
			"node": "FunctionStatement", "name": n.Name, "params": paramsTree(n.Parameters),
			"returnType": n.ReturnType.String(), "body": blockTree(n.Body), "line": n.Line,
		}
	case *ast.FunctionDeclaration:
		return map[string]any{
			"node": "FunctionDeclaration", "name": n.Name, "params": paramsTree(n.Parameters),
			"returnType": n.ReturnType.String(), "line": n.Line,
		}
	case *ast.VariableDeclaration:
		m := map[string]any{"node": "VariableDeclaration", "kind": n.Kind.String(), "name": n.Name, "type": n.Type.String(), "line": n.Line}
		if n.Initializer != nil {
			m["initializer"] = nodeTree(n.Initializer)
		}
		return m
	case *ast.ArrayDeclaration:
		return map[string]any{
			"node": "ArrayDeclaration", "kind": n.Kind.String(), "name": n.Name, "type": n.Type.String(),
			"initializer": nodeTree(n.Initializer), "line": n.Line,
		}
	case *ast.ArrayAllocation:
		return map[string]any{
			"node": "ArrayAllocation", "kind": n.Kind.String(), "name": n.Name, "type": n.Type.String(),
			"lengths": n.Lengths, "line": n.Line,
		}
	case *ast.ArrayLiteral:
		var elems []any
		for _, nested := range n.NestedElems {
			elems = append(elems, nodeTree(nested))
		}
		for _, e := range n.Elems {
			elems = append(elems, nodeTree(e))
		}
		return map[string]any{"node": "ArrayLiteral", "elems": elems, "line": n.Line}
	case *ast.Assignment:
		return map[string]any{"node": "Assignment", "target": n.Target, "value": nodeTree(n.Value), "line": n.Line}
	case *ast.ArrayAssignment:
		return map[string]any{
			"node": "ArrayAssignment", "target": n.Target, "index": exprsTree(n.Index),
			"value": nodeTree(n.Value), "line": n.Line,
		}
	case *ast.If:
		m := map[string]any{
			"node": "If", "condition": nodeTree(n.Condition), "then": blockTree(n.Then), "line": n.Line,
		}
		if n.Else != nil {
			m["else"] = blockTree(n.Else)
		}
		return m
	case *ast.While:
		return map[string]any{"node": "While", "condition": nodeTree(n.Condition), "body": blockTree(n.Body), "line": n.Line}
	case *ast.DoWhile:
		return map[string]any{"node": "DoWhile", "body": blockTree(n.Body), "condition": nodeTree(n.Condition), "line": n.Line}
	case *ast.Return:
		m := map[string]any{"node": "Return", "line": n.Line}
		if n.Value != nil {
			m["value"] = nodeTree(n.Value)
		}
		return m
	case *ast.ExpressionStatement:
		return map[string]any{"node": "ExpressionStatement", "expression": nodeTree(n.Expression), "line": n.Line}
	case *ast.Break:
		return map[string]any{"node": "Break", "line": n.Line}
	case *ast.Continue:
		return map[string]any{"node": "Continue", "line": n.Line}
	case *ast.Binary:
		return map[string]any{"node": "Binary", "op": n.Op, "left": nodeTree(n.Left), "right": nodeTree(n.Right), "line": n.Line}
	case *ast.Unary:
		return map[string]any{"node": "Unary", "op": n.Op, "operand": nodeTree(n.Operand), "line": n.Line}
	case *ast.Literal:
		return map[string]any{"node": "Literal", "value": literalText(n), "line": n.Line}
	case *ast.VariableReference:
		return map[string]any{"node": "VariableReference", "name": n.Name, "line": n.Line}
	case *ast.FunctionCall:
		return map[string]any{"node": "FunctionCall", "name": n.Name, "args": exprsTree(n.Args), "line": n.Line}
	case *ast.ArrayAccess:
		return map[string]any{"node": "ArrayAccess", "name": n.Name, "index": exprsTree(n.Index), "line": n.Line}
	default:
		return map[string]any{"node": fmt.Sprintf("%T", node)}
	}
}

func blockTree(block *ast.StatementBlock) []any {
	if block == nil {
		return nil
	}
	out := make([]any, len(block.Statements))
	for i, stmt := range block.Statements {
		out[i] = nodeTree(stmt)
	}
	return out
}

func exprsTree(exprs []ast.Expression) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = nodeTree(e)
	}
	return out
}

func paramsTree(params []ast.Parameter) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = map[string]any{"name": p.Name, "type": p.Type.String()}
	}
	return out
}

// DumpTreePretty writes a human-readable, indented recursive dump of prog
// for the `compile --pretty` flag.
func DumpTreePretty(w io.Writer, prog *ast.Program) {
	fmt.Fprintln(w, "Program")
	if prog.Globals != nil {
		for _, d := range prog.Globals.Declarations {
			dumpNode(w, d, 1)
		}
	}
	for _, d := range prog.Declarations {
		dumpNode(w, d, 1)
	}
}

func indent(n int) string { return strings.Repeat("  ", n) }

func dumpNode(w io.Writer, node ast.Node, depth int) {
	pad := indent(depth)
	switch n := node.(type) {
	case *ast.FunctionStatement:
		fmt.Fprintf(w, "%sFunctionStatement %s(%s) : %s\n", pad, n.Name, joinParams(n.Parameters), n.ReturnType.String())
		dumpBlock(w, n.Body, depth+1)
	case *ast.FunctionDeclaration:
		fmt.Fprintf(w, "%sFunctionDeclaration %s(%s) : %s\n", pad, n.Name, joinParams(n.Parameters), n.ReturnType.String())
	case *ast.VariableDeclaration:
		fmt.Fprintf(w, "%sVariableDeclaration %s %s : %s\n", pad, n.Kind, n.Name, n.Type.String())
		if n.Initializer != nil {
			dumpNode(w, n.Initializer, depth+1)
		}
	case *ast.ArrayDeclaration:
		fmt.Fprintf(w, "%sArrayDeclaration %s %s : %s\n", pad, n.Kind, n.Name, n.Type.String())
		dumpNode(w, n.Initializer, depth+1)
	case *ast.ArrayAllocation:
		fmt.Fprintf(w, "%sArrayAllocation %s %s : %s lengths=%v\n", pad, n.Kind, n.Name, n.Type.String(), n.Lengths)
	case *ast.ArrayLiteral:
		fmt.Fprintf(w, "%sArrayLiteral\n", pad)
		for _, nested := range n.NestedElems {
			dumpNode(w, nested, depth+1)
		}
		for _, e := range n.Elems {
			dumpNode(w, e, depth+1)
		}
	case *ast.Assignment:
		fmt.Fprintf(w, "%sAssignment %s\n", pad, n.Target)
		dumpNode(w, n.Value, depth+1)
	case *ast.ArrayAssignment:
		fmt.Fprintf(w, "%sArrayAssignment %s\n", pad, n.Target)
		for _, idx := range n.Index {
			dumpNode(w, idx, depth+1)
		}
		dumpNode(w, n.Value, depth+1)
	case *ast.If:
		fmt.Fprintf(w, "%sIf\n", pad)
		dumpNode(w, n.Condition, depth+1)
		dumpBlock(w, n.Then, depth+1)
		if n.Else != nil {
			dumpBlock(w, n.Else, depth+1)
		}
	case *ast.While:
		fmt.Fprintf(w, "%sWhile\n", pad)
		dumpNode(w, n.Condition, depth+1)
		dumpBlock(w, n.Body, depth+1)
	case *ast.DoWhile:
		fmt.Fprintf(w, "%sDoWhile\n", pad)
		dumpBlock(w, n.Body, depth+1)
		dumpNode(w, n.Condition, depth+1)
	case *ast.Return:
		fmt.Fprintf(w, "%sReturn\n", pad)
		if n.Value != nil {
			dumpNode(w, n.Value, depth+1)
		}
	case *ast.ExpressionStatement:
		fmt.Fprintf(w, "%sExpressionStatement\n", pad)
		dumpNode(w, n.Expression, depth+1)
	case *ast.Break:
		fmt.Fprintf(w, "%sBreak\n", pad)
	case *ast.Continue:
		fmt.Fprintf(w, "%sContinue\n", pad)
	case *ast.Binary:
		fmt.Fprintf(w, "%sBinary (%s)\n", pad, n.Op)
		dumpNode(w, n.Left, depth+1)
		dumpNode(w, n.Right, depth+1)
	case *ast.Unary:
		fmt.Fprintf(w, "%sUnary (%s)\n", pad, n.Op)
		dumpNode(w, n.Operand, depth+1)
	case *ast.Literal:
		fmt.Fprintf(w, "%sLiteral %s\n", pad, literalText(n))
	case *ast.VariableReference:
		fmt.Fprintf(w, "%sVariableReference %s\n", pad, n.Name)
	case *ast.FunctionCall:
		fmt.Fprintf(w, "%sFunctionCall %s\n", pad, n.Name)
		for _, arg := range n.Args {
			dumpNode(w, arg, depth+1)
		}
	case *ast.ArrayAccess:
		fmt.Fprintf(w, "%sArrayAccess %s\n", pad, n.Name)
		for _, idx := range n.Index {
			dumpNode(w, idx, depth+1)
		}
	default:
		fmt.Fprintf(w, "%s%T\n", pad, node)
	}
}

func dumpBlock(w io.Writer, block *ast.StatementBlock, depth int) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		dumpNode(w, stmt, depth)
	}
}

func literalText(lit *ast.Literal) string {
	switch lit.Kind {
	case ast.IntLiteral:
		return fmt.Sprintf("%d", lit.Int)
	case ast.FloatLiteral:
		return fmt.Sprintf("%g", lit.Float)
	case ast.BoolLiteral:
		return fmt.Sprintf("%v", lit.Bool)
	case ast.StringLiteral:
		return fmt.Sprintf("%q", lit.String)
	}
	return ""
}

func joinParams(params []ast.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Type.String())
	}
	return strings.Join(parts, ", ")
}
