package parser

import (
	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/lexer"
)

// parseExpression is the grammar's entry point. Tiers are ordered loosest to
// tightest: comparison, additive, multiplicative, logical, unary-logical (!),
// bitwise, with call/index/paren binding tightest of all (folded into
// parsePrimary).
func (p *Parser) parseExpression() ast.Expression {
	return p.parseComparison()
}

func isComparisonOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.LT, lexer.GT, lexer.LTE, lexer.GTE, lexer.EQ, lexer.NEQ:
		return true
	}
	return false
}

// parseComparison implements the nonassoc comparison tier: at most one
// comparison operator may appear without parentheses.
func (p *Parser) parseComparison() ast.Expression {
	left := p.parseAdditive()
	if p.failed() || !isComparisonOp(p.cur.Type) {
		return left
	}
	op := p.cur.Literal
	line := p.cur.Pos.Line
	p.advance()
	right := p.parseAdditive()
	result := ast.Expression(&ast.Binary{Op: op, Left: left, Right: right, Line: line})
	if isComparisonOp(p.cur.Type) {
		p.fail(syntaxErrorAt(p.cur.Literal, p.cur.Pos.Line))
		return result
	}
	return result
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for !p.failed() && (p.cur.Type == lexer.PLUS || p.cur.Type == lexer.MINUS) {
		op := p.cur.Literal
		line := p.cur.Pos.Line
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseLogical()
	for !p.failed() && (p.cur.Type == lexer.STAR || p.cur.Type == lexer.SLASH || p.cur.Type == lexer.PERCENT) {
		op := p.cur.Literal
		line := p.cur.Pos.Line
		p.advance()
		right := p.parseLogical()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left
}

func (p *Parser) parseLogical() ast.Expression {
	left := p.parseUnaryNot()
	for !p.failed() && (p.cur.Type == lexer.AND || p.cur.Type == lexer.OR) {
		op := p.cur.Literal
		line := p.cur.Pos.Line
		p.advance()
		right := p.parseUnaryNot()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left
}

// parseUnaryNot implements the right-associative `!` tier: `!!!!b` is four
// nested Unary nodes around a single operand.
func (p *Parser) parseUnaryNot() ast.Expression {
	if p.cur.Type == lexer.NOT {
		line := p.cur.Pos.Line
		p.advance()
		operand := p.parseUnaryNot()
		return &ast.Unary{Op: "!", Operand: operand, Line: line}
	}
	return p.parseBitwise()
}

func isBitwiseOp(tt lexer.TokenType) bool {
	switch tt {
	case lexer.BAND, lexer.BOR, lexer.CARET, lexer.SHL, lexer.SHR:
		return true
	}
	return false
}

func (p *Parser) parseBitwise() ast.Expression {
	left := p.parseUnaryPrefix()
	for !p.failed() && isBitwiseOp(p.cur.Type) {
		op := p.cur.Literal
		line := p.cur.Pos.Line
		p.advance()
		right := p.parseUnaryPrefix()
		left = &ast.Binary{Op: op, Left: left, Right: right, Line: line}
	}
	return left
}

// parseUnaryPrefix implements `~` (bitwise not) and unary `-` (negation),
// the tightest prefix operators before call/index/paren/primary.
func (p *Parser) parseUnaryPrefix() ast.Expression {
	if p.cur.Type == lexer.BNOT || p.cur.Type == lexer.MINUS {
		op := p.cur.Literal
		line := p.cur.Pos.Line
		p.advance()
		operand := p.parseUnaryPrefix()
		return &ast.Unary{Op: op, Operand: operand, Line: line}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur
	switch tok.Type {
	case lexer.INT:
		p.advance()
		return &ast.Literal{Kind: ast.IntLiteral, Int: tok.IntVal, Line: tok.Pos.Line}
	case lexer.FLOAT:
		p.advance()
		return &ast.Literal{Kind: ast.FloatLiteral, Float: tok.FltVal, Line: tok.Pos.Line}
	case lexer.TRUE:
		p.advance()
		return &ast.Literal{Kind: ast.BoolLiteral, Bool: true, Line: tok.Pos.Line}
	case lexer.FALSE:
		p.advance()
		return &ast.Literal{Kind: ast.BoolLiteral, Bool: false, Line: tok.Pos.Line}
	case lexer.STRING:
		p.advance()
		return &ast.Literal{Kind: ast.StringLiteral, String: tok.Literal, Line: tok.Pos.Line}
	case lexer.LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.expect(lexer.RPAREN)
		return expr
	case lexer.PRINT_INT:
		return p.parsePrintSugar("%d\n", tok.Pos.Line)
	case lexer.PRINT_DOUBLE:
		return p.parsePrintSugar("%f\n", tok.Pos.Line)
	case lexer.PRINT_STRING:
		return p.parsePrintSugar("%s\n", tok.Pos.Line)
	case lexer.PRINTF:
		p.advance()
		p.expect(lexer.LPAREN)
		args := p.parseArgs()
		p.expect(lexer.RPAREN)
		return &ast.FunctionCall{Name: "printf", Args: args, Line: tok.Pos.Line}
	case lexer.IDENT:
		p.advance()
		return p.parseIdentLedExpressionTail(tok)
	default:
		p.fail(syntaxErrorAt(tok.Literal, tok.Pos.Line))
		return &ast.Literal{Kind: ast.IntLiteral, Line: tok.Pos.Line}
	}
}

// parsePrintSugar desugars `print_int(e)`/`print_double(e)`/`print_string(e)`
// into a call of the declared extern `printf` with a fixed format string, so
// no runtime beyond printf/scanf/pow is ever required.
func (p *Parser) parsePrintSugar(format string, line int) ast.Expression {
	p.advance()
	p.expect(lexer.LPAREN)
	arg := p.parseExpression()
	p.expect(lexer.RPAREN)
	return &ast.FunctionCall{
		Name: "printf",
		Args: []ast.Expression{&ast.Literal{Kind: ast.StringLiteral, String: format, Line: line}, arg},
		Line: line,
	}
}

// parseIdentLedExpressionTail parses what may follow a bare identifier in
// expression position: a call `name(args)`, an indexed access
// `name[i][j]...`, or a plain variable reference.
func (p *Parser) parseIdentLedExpressionTail(nameTok lexer.Token) ast.Expression {
	switch p.cur.Type {
	case lexer.LPAREN:
		p.advance()
		args := p.parseArgs()
		p.expect(lexer.RPAREN)
		return &ast.FunctionCall{Name: nameTok.Literal, Args: args, Line: nameTok.Pos.Line}
	case lexer.LBRACKET:
		var index []ast.Expression
		for p.at(lexer.LBRACKET) {
			p.advance()
			index = append(index, p.parseExpression())
			p.expect(lexer.RBRACKET)
		}
		return &ast.ArrayAccess{Name: nameTok.Literal, Index: index, Line: nameTok.Pos.Line}
	default:
		return &ast.VariableReference{Name: nameTok.Literal, Line: nameTok.Pos.Line}
	}
}

func (p *Parser) parseArgs() []ast.Expression {
	var args []ast.Expression
	for !p.at(lexer.RPAREN) && !p.failed() {
		args = append(args, p.parseExpression())
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	return args
}

// parseArrayLiteral parses a bracketed, possibly nested, list of expressions
// used as an array initializer. rank is the remaining nesting depth: at
// rank 1 the elements are scalar expressions; above that they are nested
// *ast.ArrayLiteral siblings.
func (p *Parser) parseArrayLiteral(rank int) *ast.ArrayLiteral {
	line := p.cur.Pos.Line
	p.expect(lexer.LBRACKET)
	lit := &ast.ArrayLiteral{Line: line}
	for !p.at(lexer.RBRACKET) && !p.failed() {
		if rank > 1 {
			lit.NestedElems = append(lit.NestedElems, p.parseArrayLiteral(rank-1))
		} else {
			lit.Elems = append(lit.Elems, p.parseExpression())
		}
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RBRACKET)
	return lit
}
