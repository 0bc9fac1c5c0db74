package parser

import (
	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/lexer"
)

func (p *Parser) parseStatementBlock() *ast.StatementBlock {
	p.expect(lexer.LBRACE)
	block := &ast.StatementBlock{}
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) && !p.failed() {
		stmt := p.parseStatement()
		if p.failed() {
			return block
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(lexer.RBRACE)
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.VAL, lexer.VAR:
		return p.parseVariableOrArrayDecl()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.DO:
		return p.parseDoWhile()
	case lexer.BREAK:
		line := p.cur.Pos.Line
		p.advance()
		p.expect(lexer.SEMICOLON)
		return &ast.Break{Line: line}
	case lexer.CONTINUE:
		line := p.cur.Pos.Line
		p.advance()
		p.expect(lexer.SEMICOLON)
		return &ast.Continue{Line: line}
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.IDENT:
		return p.parseIdentLedStatement()
	case lexer.INCR, lexer.DECR:
		return p.parsePrefixIncrDecrStatement()
	case lexer.PRINT_INT, lexer.PRINT_DOUBLE, lexer.PRINT_STRING, lexer.PRINTF:
		line := p.cur.Pos.Line
		expr := p.parsePrimary()
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil
		}
		return &ast.ExpressionStatement{Expression: expr, Line: line}
	default:
		p.fail(syntaxErrorAt(p.cur.Literal, p.cur.Pos.Line))
		return nil
	}
}

func (p *Parser) parseIf() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	then := p.parseStatementBlock()
	if p.failed() {
		return nil
	}
	var elseBlock *ast.StatementBlock
	if p.at(lexer.ELSE) {
		p.advance()
		if p.at(lexer.IF) {
			nested := p.parseIf()
			if p.failed() {
				return nil
			}
			elseBlock = &ast.StatementBlock{Statements: []ast.Statement{nested}}
		} else {
			elseBlock = p.parseStatementBlock()
			if p.failed() {
				return nil
			}
		}
	}
	return &ast.If{Condition: cond, Then: then, Else: elseBlock, Line: line}
}

// parseWhile parses a `while (cond) { body }` with no trailing semicolon.
func (p *Parser) parseWhile() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	body := p.parseStatementBlock()
	if p.failed() {
		return nil
	}
	return &ast.While{Condition: cond, Body: body, Line: line}
}

// parseDoWhile parses `do { body } while (cond);`, which does require the
// trailing semicolon, unlike parseWhile's form.
func (p *Parser) parseDoWhile() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	body := p.parseStatementBlock()
	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	cond := p.parseExpression()
	p.expect(lexer.RPAREN)
	p.expect(lexer.SEMICOLON)
	if p.failed() {
		return nil
	}
	return &ast.DoWhile{Body: body, Condition: cond, Line: line}
}

func (p *Parser) parseReturn() ast.Statement {
	line := p.cur.Pos.Line
	p.advance()
	if p.at(lexer.SEMICOLON) {
		p.advance()
		return &ast.Return{Line: line}
	}
	val := p.parseExpression()
	p.expect(lexer.SEMICOLON)
	if p.failed() {
		return nil
	}
	return &ast.Return{Value: val, Line: line}
}

// parsePrefixIncrDecrStatement handles `--x;` / `++x;`, the prefix spelling
// of the increment/decrement sugar (`x--;` / `x++;` is handled as the
// postfix case inside parseIdentLedStatement). Both desugar identically.
func (p *Parser) parsePrefixIncrDecrStatement() ast.Statement {
	line := p.cur.Pos.Line
	op := "+"
	if p.cur.Type == lexer.DECR {
		op = "-"
	}
	p.advance()
	nameTok := p.expect(lexer.IDENT)
	p.expect(lexer.SEMICOLON)
	if p.failed() {
		return nil
	}
	return &ast.Assignment{
		Target: nameTok.Literal,
		Value: &ast.Binary{Op: op, Left: &ast.VariableReference{Name: nameTok.Literal, Line: line},
			Right: &ast.Literal{Kind: ast.IntLiteral, Int: 1, Line: line}, Line: line},
		Line: line,
	}
}

// parseIdentLedStatement handles every statement form that starts with an
// identifier: plain assignment, array-element assignment, the ++/--/+=/-=
// sugar forms (desugared here into an Assignment), and a bare expression
// statement (a function call used for its side effect).
func (p *Parser) parseIdentLedStatement() ast.Statement {
	nameTok := p.cur
	line := nameTok.Pos.Line
	p.advance()

	switch p.cur.Type {
	case lexer.INCR, lexer.DECR:
		op := "+"
		if p.cur.Type == lexer.DECR {
			op = "-"
		}
		p.advance()
		p.expect(lexer.SEMICOLON)
		return &ast.Assignment{
			Target: nameTok.Literal,
			Value: &ast.Binary{Op: op, Left: &ast.VariableReference{Name: nameTok.Literal, Line: line},
				Right: &ast.Literal{Kind: ast.IntLiteral, Int: 1, Line: line}, Line: line},
			Line: line,
		}
	case lexer.PLUSEQ, lexer.MINUSEQ:
		op := "+"
		if p.cur.Type == lexer.MINUSEQ {
			op = "-"
		}
		p.advance()
		rhs := p.parseExpression()
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil
		}
		return &ast.Assignment{
			Target: nameTok.Literal,
			Value:  &ast.Binary{Op: op, Left: &ast.VariableReference{Name: nameTok.Literal, Line: line}, Right: rhs, Line: line},
			Line:   line,
		}
	case lexer.ASSIGN:
		p.advance()
		val := p.parseExpression()
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil
		}
		return &ast.Assignment{Target: nameTok.Literal, Value: val, Line: line}
	case lexer.LBRACKET:
		var index []ast.Expression
		for p.at(lexer.LBRACKET) {
			p.advance()
			index = append(index, p.parseExpression())
			p.expect(lexer.RBRACKET)
		}
		p.expect(lexer.ASSIGN)
		val := p.parseExpression()
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil
		}
		return &ast.ArrayAssignment{Target: nameTok.Literal, Index: index, Value: val, Line: line}
	default:
		expr := p.parseIdentLedExpressionTail(nameTok)
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil
		}
		return &ast.ExpressionStatement{Expression: expr, Line: line}
	}
}
