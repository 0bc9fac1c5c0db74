package codegen

import (
	"fmt"
	"strings"

	"github.com/plc-lang/plc/internal/ast"
)

func (g *Generator) genFunction(fn *ast.FunctionStatement) {
	g.pushScope()
	defer g.popScope()

	retElem := fn.ReturnType.Elem()
	isVoid := retElem == "void"
	retIR := irType(retElem)

	paramDecls := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		paramDecls[i] = fmt.Sprintf("%s %%p%d", irType(p.Type.Elem()), i)
	}

	g.emit("")
	g.emit(fmt.Sprintf("define %s @%s(%s) {", retIR, fn.Name, strings.Join(paramDecls, ", ")))
	g.emit("entry:")
	g.terminated = false
	g.currentLabel = "entry"

	prevRetType, prevRetSlot, prevRetBlock := g.curRetType, g.curRetSlot, g.curRetBlock
	prevLoopStack := g.loopStack
	g.loopStack = nil
	defer func() {
		g.curRetType, g.curRetSlot, g.curRetBlock = prevRetType, prevRetSlot, prevRetBlock
		g.loopStack = prevLoopStack
	}()

	id := g.nextVar()
	retBlock := fmt.Sprintf("retblock%d", id)
	var retSlot string
	if !isVoid {
		retSlot = fmt.Sprintf("%%retval%d", id)
		g.emit(fmt.Sprintf("  %s = alloca %s, align %d", retSlot, retIR, irAlign(retIR)))
	}
	g.curRetType, g.curRetSlot, g.curRetBlock = retIR, retSlot, retBlock

	for i, p := range fn.Parameters {
		pty := irType(p.Type.Elem())
		slot := fmt.Sprintf("%%x%d", g.nextVar())
		g.emit(fmt.Sprintf("  %s = alloca %s, align %d", slot, pty, irAlign(pty)))
		g.emit(fmt.Sprintf("  store %s %%p%d, %s* %s, align %d", pty, i, pty, slot, irAlign(pty)))
		g.declare(p.Name, varEntry{Type: p.Type, IRName: slot})
	}

	g.genBlock(fn.Body)

	g.startBlock(retBlock)
	if isVoid {
		g.terminate("  ret void")
	} else {
		tmp := g.newTempName()
		g.emit(fmt.Sprintf("  %s = load %s, %s* %s, align %d", tmp, retIR, retIR, retSlot, irAlign(retIR)))
		g.terminate(fmt.Sprintf("  ret %s %s", retIR, tmp))
	}
	g.emit("}")
}

// genBlock lowers a scope-delimited statement sequence. Once a statement
// terminates the current basic block (return/break/continue), any further
// statements in the same source block are unreachable and are not emitted,
// since LLVM basic blocks may have only one terminator.
func (g *Generator) genBlock(block *ast.StatementBlock) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if g.terminated {
			return
		}
		g.genStatement(stmt)
	}
}

func (g *Generator) genStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		g.genLocalVarDecl(s)
	case *ast.ArrayDeclaration:
		g.genLocalArrayDecl(s)
	case *ast.ArrayAllocation:
		g.genLocalArrayAlloc(s)
	case *ast.Assignment:
		g.genAssignment(s)
	case *ast.ArrayAssignment:
		g.genArrayAssignment(s)
	case *ast.If:
		g.genIf(s)
	case *ast.While:
		g.genWhile(s)
	case *ast.DoWhile:
		g.genDoWhile(s)
	case *ast.Return:
		g.genReturn(s)
	case *ast.ExpressionStatement:
		g.genExpr(s.Expression)
	case *ast.Break:
		g.genBreak()
	case *ast.Continue:
		g.genContinue()
	default:
		fail("unsupported statement type %T", stmt)
	}
}

func (g *Generator) genLocalVarDecl(d *ast.VariableDeclaration) {
	ty := irType(d.Type.Elem())
	slot := fmt.Sprintf("%%x%d", g.nextVar())
	g.emit(fmt.Sprintf("  %s = alloca %s, align %d", slot, ty, irAlign(ty)))
	g.declare(d.Name, varEntry{Type: d.Type, IRName: slot})
	if d.Initializer != nil {
		v := g.genExpr(d.Initializer)
		v = g.promoteTo(v, ty)
		g.emit(fmt.Sprintf("  store %s %s, %s* %s, align %d", ty, v.Val, ty, slot, irAlign(ty)))
	}
}

func (g *Generator) genLocalArrayDecl(d *ast.ArrayDeclaration) {
	lengths := d.Initializer.Dimensions()
	elemIR := irType(d.Type.Elem())
	arrTy := arrayIRType(lengths, elemIR)
	slot := fmt.Sprintf("%%x%d", g.nextVar())
	g.emit(fmt.Sprintf("  %s = alloca %s, align %d", slot, arrTy, irAlign(elemIR)))
	g.declare(d.Name, varEntry{Type: d.Type, IRName: slot, Lengths: lengths})
	g.genArrayInit(slot, arrTy, d.Initializer, d.Type.Elem(), nil)
}

func (g *Generator) genLocalArrayAlloc(d *ast.ArrayAllocation) {
	elemIR := irType(d.Type.Elem())
	arrTy := arrayIRType(d.Lengths, elemIR)
	slot := fmt.Sprintf("%%x%d", g.nextVar())
	g.emit(fmt.Sprintf("  %s = alloca %s, align %d", slot, arrTy, irAlign(elemIR)))
	g.declare(d.Name, varEntry{Type: d.Type, IRName: slot, Lengths: d.Lengths})
}

// genArrayInit recursively walks a literal and emits, for every scalar
// leaf, a getelementptr to that leaf's address followed by a typed store.
func (g *Generator) genArrayInit(base, arrTy string, lit *ast.ArrayLiteral, elemType string, prefixIdx []string) {
	elemIR := irType(elemType)
	if len(lit.NestedElems) > 0 {
		for i, nested := range lit.NestedElems {
			g.genArrayInit(base, arrTy, nested, elemType, append(append([]string{}, prefixIdx...), fmt.Sprintf("%d", i)))
		}
		return
	}
	for i, elem := range lit.Elems {
		idx := append(append([]string{}, prefixIdx...), fmt.Sprintf("%d", i))
		indices := []string{"i32 0"}
		for _, n := range idx {
			indices = append(indices, "i32 "+n)
		}
		ptr := g.newTempName()
		g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* %s, %s", ptr, arrTy, arrTy, base, strings.Join(indices, ", ")))
		v := g.genExpr(elem)
		v = g.promoteTo(v, elemIR)
		g.emit(fmt.Sprintf("  store %s %s, %s* %s, align %d", elemIR, v.Val, elemIR, ptr, irAlign(elemIR)))
	}
}

func (g *Generator) genAssignment(s *ast.Assignment) {
	entry, ok := g.lookup(s.Target)
	if !ok {
		fail("undefined variable %q", s.Target)
	}
	ty := irType(entry.Type.Elem())
	v := g.genExpr(s.Value)
	v = g.promoteTo(v, ty)
	g.emit(fmt.Sprintf("  store %s %s, %s* %s, align %d", ty, v.Val, ty, entry.IRName, irAlign(ty)))
}

func (g *Generator) genArrayAssignment(s *ast.ArrayAssignment) {
	entry, ok := g.lookup(s.Target)
	if !ok {
		fail("undefined array %q", s.Target)
	}
	elemIR := irType(entry.Type.Elem())
	arrTy := arrayIRType(entry.Lengths, elemIR)
	indices := []string{"i32 0"}
	for _, idxExpr := range s.Index {
		v := g.genExpr(idxExpr)
		v = g.promoteTo(v, "i32")
		indices = append(indices, "i32 "+v.Val)
	}
	ptr := g.newTempName()
	g.emit(fmt.Sprintf("  %s = getelementptr inbounds %s, %s* %s, %s", ptr, arrTy, arrTy, entry.IRName, strings.Join(indices, ", ")))
	v := g.genExpr(s.Value)
	v = g.promoteTo(v, elemIR)
	g.emit(fmt.Sprintf("  store %s %s, %s* %s, align %d", elemIR, v.Val, elemIR, ptr, irAlign(elemIR)))
}

func (g *Generator) genIf(s *ast.If) {
	id := g.nextTemp()
	thenL := fmt.Sprintf("then%d", id)
	elseL := fmt.Sprintf("else%d", id)
	contL := fmt.Sprintf("ifcont%d", id)

	cond := g.genExpr(s.Condition)
	if cond.Type != "i1" {
		fail("if condition must be bool, got %s", cond.Type)
	}
	g.terminate(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", cond.Val, thenL, elseL))

	g.startBlock(thenL)
	g.genBlock(s.Then)
	if !g.terminated {
		g.terminate(fmt.Sprintf("  br label %%%s", contL))
	}

	g.startBlock(elseL)
	g.genBlock(s.Else)
	if !g.terminated {
		g.terminate(fmt.Sprintf("  br label %%%s", contL))
	}

	g.startBlock(contL)
}

func (g *Generator) genWhile(s *ast.While) {
	id := g.nextTemp()
	condL := fmt.Sprintf("cond%d", id)
	bodyL := fmt.Sprintf("body%d", id)
	endL := fmt.Sprintf("end%d", id)

	g.terminate(fmt.Sprintf("  br label %%%s", condL))
	g.startBlock(condL)
	cond := g.genExpr(s.Condition)
	if cond.Type != "i1" {
		fail("while condition must be bool, got %s", cond.Type)
	}
	g.terminate(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", cond.Val, bodyL, endL))

	g.startBlock(bodyL)
	g.loopStack = append(g.loopStack, loopFrame{CondLabel: condL, BodyLabel: bodyL, EndLabel: endL})
	g.genBlock(s.Body)
	g.loopStack = g.loopStack[:len(g.loopStack)-1]
	if !g.terminated {
		g.terminate(fmt.Sprintf("  br label %%%s", condL))
	}

	g.startBlock(endL)
}

func (g *Generator) genDoWhile(s *ast.DoWhile) {
	id := g.nextTemp()
	bodyL := fmt.Sprintf("body%d", id)
	condL := fmt.Sprintf("cond%d", id)
	endL := fmt.Sprintf("end%d", id)

	g.terminate(fmt.Sprintf("  br label %%%s", bodyL))
	g.startBlock(bodyL)
	g.loopStack = append(g.loopStack, loopFrame{CondLabel: condL, BodyLabel: bodyL, EndLabel: endL})
	g.genBlock(s.Body)
	g.loopStack = g.loopStack[:len(g.loopStack)-1]
	if !g.terminated {
		g.terminate(fmt.Sprintf("  br label %%%s", condL))
	}

	g.startBlock(condL)
	cond := g.genExpr(s.Condition)
	if cond.Type != "i1" {
		fail("do-while condition must be bool, got %s", cond.Type)
	}
	g.terminate(fmt.Sprintf("  br i1 %s, label %%%s, label %%%s", cond.Val, bodyL, endL))

	g.startBlock(endL)
}

func (g *Generator) genBreak() {
	if len(g.loopStack) == 0 {
		fail("break outside of loop")
	}
	top := g.loopStack[len(g.loopStack)-1]
	g.terminate(fmt.Sprintf("  br label %%%s", top.EndLabel))
}

func (g *Generator) genContinue() {
	if len(g.loopStack) == 0 {
		fail("continue outside of loop")
	}
	top := g.loopStack[len(g.loopStack)-1]
	g.terminate(fmt.Sprintf("  br label %%%s", top.CondLabel))
}

func (g *Generator) genReturn(s *ast.Return) {
	if s.Value != nil {
		v := g.genExpr(s.Value)
		v = g.promoteTo(v, g.curRetType)
		g.emit(fmt.Sprintf("  store %s %s, %s* %s, align %d", g.curRetType, v.Val, g.curRetType, g.curRetSlot, irAlign(g.curRetType)))
	}
	g.terminate(fmt.Sprintf("  br label %%%s", g.curRetBlock))
}
