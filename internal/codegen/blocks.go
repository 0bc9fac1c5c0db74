package codegen

import "fmt"

// startBlock opens a new labeled basic block. If the previous block was
// left unterminated, an explicit `br` to this label is emitted first so no
// block is ever left without a terminator.
func (g *Generator) startBlock(label string) {
	if !g.terminated {
		g.emit(fmt.Sprintf("  br label %%%s", label))
	}
	g.emit(label + ":")
	g.terminated = false
	g.currentLabel = label
}

// terminate emits a terminator instruction (br/ret) and marks the current
// block closed; any statement generated after this point in the same
// textual block is unreachable and must not be emitted (see genBlock).
func (g *Generator) terminate(line string) {
	g.emit(line)
	g.terminated = true
}
