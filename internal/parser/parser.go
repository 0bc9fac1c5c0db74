// Package parser turns a token stream from internal/lexer into a typed
// *ast.Program. It is a hand-written recursive-descent parser: one function
// per grammar tier for expressions (see expressions.go), and one function
// per statement/declaration shape (see statements.go, declarations.go).
package parser

import (
	"fmt"

	"github.com/plc-lang/plc/internal/ast"
	"github.com/plc-lang/plc/internal/lexer"
)

// ImportResolver loads the source text of an imported module by name (the
// bare name used in `import "name";`, without its .pl extension). The parser
// calls back through this interface rather than touching the filesystem
// itself, so import splicing stays unit-testable; internal/driver supplies
// the real file-reading implementation.
type ImportResolver func(name string) (string, error)

// Parser consumes a token stream and produces an *ast.Program.
type Parser struct {
	lex      *lexer.Lexer
	resolver ImportResolver

	cur  lexer.Token
	next lexer.Token

	err *ParseError
}

// New creates a Parser over source text. resolver may be nil if the source
// is known not to use `import`.
func New(source string, resolver ImportResolver, opts ...lexer.Option) *Parser {
	p := &Parser{lex: lexer.New(source, opts...), resolver: resolver}
	p.cur = p.lex.NextToken()
	p.next = p.lex.NextToken()
	return p
}

func (p *Parser) advance() {
	p.cur = p.next
	p.next = p.lex.NextToken()
}

func (p *Parser) fail(err *ParseError) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) failed() bool { return p.err != nil }

// expect consumes the current token if it matches tt, else records a syntax
// error and returns the zero Token.
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.failed() {
		return lexer.Token{}
	}
	if p.cur.Type == lexer.EOF {
		p.fail(eofErrorAt(p.cur.Pos.Line))
		return lexer.Token{}
	}
	if p.cur.Type != tt {
		p.fail(syntaxErrorAt(p.cur.Literal, p.cur.Pos.Line))
		return lexer.Token{}
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur.Type == tt }

// Parse runs the full grammar: optional imports, then global and function
// declarations in any order, producing a *ast.Program. On any syntax error it
// returns (nil, error) and aborts immediately rather than attempting
// recovery.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{Globals: &ast.GlobalVariables{}}

	for p.at(lexer.IMPORT) {
		p.advance()
		pathTok := p.expect(lexer.STRING)
		p.expect(lexer.SEMICOLON)
		if p.failed() {
			return nil, p.err
		}
		if err := p.spliceImport(prog, pathTok.Literal); err != nil {
			return nil, err
		}
		prog.Imports = append(prog.Imports, pathTok.Literal)
	}

	for !p.at(lexer.EOF) {
		switch p.cur.Type {
		case lexer.VAL, lexer.VAR:
			stmt := p.parseVariableOrArrayDecl()
			if p.failed() {
				return nil, p.err
			}
			prog.Globals.Declarations = append(prog.Globals.Declarations, stmt)
		case lexer.FUNCTION:
			fn := p.parseFunction()
			if p.failed() {
				return nil, p.err
			}
			prog.Declarations = append(prog.Declarations, fn)
		default:
			p.fail(syntaxErrorAt(p.cur.Literal, p.cur.Pos.Line))
			return nil, p.err
		}
	}

	return prog, nil
}

// spliceImport reads and reparses an imported module, discarding any `main`
// function it defines and prepending its remaining declarations ahead of the
// current program's.
func (p *Parser) spliceImport(prog *ast.Program, name string) error {
	if p.resolver == nil {
		return &ParseError{Message: fmt.Sprintf("import '%s' requires a resolver, line %d", name, p.cur.Pos.Line)}
	}
	src, err := p.resolver(name)
	if err != nil {
		return err
	}
	sub := New(src, p.resolver)
	subProg, err := sub.Parse()
	if err != nil {
		return err
	}
	prog.Globals.Declarations = append(append([]ast.Statement{}, subProg.Globals.Declarations...), prog.Globals.Declarations...)
	var kept []ast.Declaration
	for _, d := range subProg.Declarations {
		if fn, ok := d.(*ast.FunctionStatement); ok && fn.IsMain() {
			continue
		}
		kept = append(kept, d)
	}
	prog.Declarations = append(kept, prog.Declarations...)
	return nil
}
