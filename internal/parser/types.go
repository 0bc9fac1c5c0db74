package parser

import (
	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/lexer"
)

// typeSpec is the parsed form of a declared type, disambiguating the two
// array surface syntaxes that coexist in this grammar:
//
//   - typed literal : [[int]]       -> Sized == false, Type.Shape = [array,array,int]
//   - sized alloc   : [3][4]int     -> Sized == true,  Lengths = [3,4]
type typeSpec struct {
	Type    ast.Type
	Sized   bool
	Lengths []int
}

// parseType parses a scalar or array type spelling. A leading '[' starts an
// array type; the token immediately after it disambiguates the two forms:
// an INT means a sized allocation (`[3][4]int`), anything else (another '['
// or a TYPE keyword) means a typed-literal array (`[[int]]`).
func (p *Parser) parseType() typeSpec {
	if !p.at(lexer.LBRACKET) {
		tok := p.expect(lexer.TYPE)
		return typeSpec{Type: ast.Scalar(tok.Literal)}
	}

	if p.next.Type == lexer.INT {
		var lengths []int
		for p.at(lexer.LBRACKET) {
			p.advance()
			n := p.expect(lexer.INT)
			p.expect(lexer.RBRACKET)
			if p.failed() {
				return typeSpec{}
			}
			lengths = append(lengths, int(n.IntVal))
		}
		elem := p.expect(lexer.TYPE)
		if p.failed() {
			return typeSpec{}
		}
		shape := make([]string, 0, len(lengths)+1)
		for range lengths {
			shape = append(shape, "array")
		}
		shape = append(shape, elem.Literal)
		return typeSpec{Type: ast.Type{Shape: shape}, Sized: true, Lengths: lengths}
	}

	depth := 0
	for p.at(lexer.LBRACKET) {
		p.advance()
		depth++
	}
	elem := p.expect(lexer.TYPE)
	for i := 0; i < depth; i++ {
		p.expect(lexer.RBRACKET)
	}
	if p.failed() {
		return typeSpec{}
	}
	shape := make([]string, 0, depth+1)
	for i := 0; i < depth; i++ {
		shape = append(shape, "array")
	}
	shape = append(shape, elem.Literal)
	return typeSpec{Type: ast.Type{Shape: shape}}
}
