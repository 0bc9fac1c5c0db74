package parser

import (
	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/lexer"
)

func kindFromToken(tt lexer.TokenType) ast.VarKind {
	if tt == lexer.VAL {
		return ast.Val
	}
	return ast.Var
}

// parseVariableOrArrayDecl parses a `val`/`var` declaration, dispatching to a
// scalar VariableDeclaration, a typed-literal ArrayDeclaration, or a
// sized-shape ArrayAllocation depending on the type that follows the name.
func (p *Parser) parseVariableOrArrayDecl() ast.Statement {
	kindTok := p.cur
	kind := kindFromToken(kindTok.Type)
	p.advance()

	nameTok := p.expect(lexer.IDENT)
	p.expect(lexer.COLON)
	if p.failed() {
		return nil
	}

	ts := p.parseType()
	if p.failed() {
		return nil
	}

	if !ts.Type.IsArray() {
		var init ast.Expression
		if p.at(lexer.ASSIGN) {
			p.advance()
			init = p.parseExpression()
		}
		// A missing initializer on a `val` is a semantic error ("Constant
		// variable 'x' must be initialized"), not a parse error; the parser
		// accepts the bare declaration here and leaves Initializer nil for
		// the analyzer to catch.
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil
		}
		return &ast.VariableDeclaration{Kind: kind, Name: nameTok.Literal, Type: ts.Type, Initializer: init, Line: kindTok.Pos.Line}
	}

	if ts.Sized {
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil
		}
		return &ast.ArrayAllocation{Kind: kind, Name: nameTok.Literal, Type: ts.Type, Lengths: ts.Lengths, Line: kindTok.Pos.Line}
	}

	p.expect(lexer.ASSIGN)
	lit := p.parseArrayLiteral(ts.Type.Rank())
	p.expect(lexer.SEMICOLON)
	if p.failed() {
		return nil
	}
	return &ast.ArrayDeclaration{Kind: kind, Name: nameTok.Literal, Type: ts.Type, Initializer: lit, Line: kindTok.Pos.Line}
}

// parseFunction parses `function name(params) : returnType { body }`,
// including the fixed-name `main` entry point.
func (p *Parser) parseFunction() *ast.FunctionStatement {
	fnTok := p.cur
	p.advance()

	nameTok := p.cur
	if p.at(lexer.MAIN) {
		p.advance()
	} else {
		nameTok = p.expect(lexer.IDENT)
	}
	if p.failed() {
		return nil
	}

	p.expect(lexer.LPAREN)
	params := p.parseParams(nameTok.Literal == "main")
	p.expect(lexer.RPAREN)
	p.expect(lexer.COLON)
	retType := p.parseType()
	if p.failed() {
		return nil
	}

	body := p.parseStatementBlock()
	if p.failed() {
		return nil
	}

	return &ast.FunctionStatement{Name: nameTok.Literal, Parameters: params, ReturnType: retType.Type, Body: body, Line: fnTok.Pos.Line}
}

// parseParams parses a comma-separated parameter list. `args:[string]`, the
// reserved verbatim token, is accepted only when allowArgString is set (in
// main's signature) and is parsed as a single array-of-string parameter;
// anywhere else it is a syntax error.
func (p *Parser) parseParams(allowArgString bool) []ast.Parameter {
	var params []ast.Parameter
	for !p.at(lexer.RPAREN) && !p.failed() {
		if p.at(lexer.ARGSTRING) {
			if !allowArgString {
				p.fail(syntaxErrorAt(p.cur.Literal, p.cur.Pos.Line))
				return params
			}
			tok := p.cur
			p.advance()
			params = append(params, ast.Parameter{Name: tok.Literal, Type: ast.Type{Shape: []string{"array", "string"}}})
		} else {
			nameTok := p.expect(lexer.IDENT)
			p.expect(lexer.COLON)
			ts := p.parseType()
			if p.failed() {
				return params
			}
			params = append(params, ast.Parameter{Name: nameTok.Literal, Type: ts.Type})
		}
		if p.at(lexer.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	return params
}
