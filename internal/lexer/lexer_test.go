package lexer

import "testing"

func TestNextTokenBasics(t *testing.T) {
	input := `var x : int := 5;
x := x + 10;
`
	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{VAR, "var"},
		{IDENT, "x"},
		{COLON, ":"},
		{TYPE, "int"},
		{ASSIGN, ":="},
		{INT, "5"},
		{SEMICOLON, ";"},
		{IDENT, "x"},
		{ASSIGN, ":="},
		{IDENT, "x"},
		{PLUS, "+"},
		{INT, "10"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (literal=%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywordsAndTypes(t *testing.T) {
	input := `val var function main if else while do break continue true false return import
		print_int print_double print_string printf
		int float double string bool void`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{VAL, "val"}, {VAR, "var"}, {FUNCTION, "function"}, {MAIN, "main"},
		{IF, "if"}, {ELSE, "else"}, {WHILE, "while"}, {DO, "do"},
		{BREAK, "break"}, {CONTINUE, "continue"}, {TRUE, "true"}, {FALSE, "false"},
		{RETURN, "return"}, {IMPORT, "import"},
		{PRINT_INT, "print_int"}, {PRINT_DOUBLE, "print_double"}, {PRINT_STRING, "print_string"}, {PRINTF, "printf"},
		{TYPE, "int"}, {TYPE, "float"}, {TYPE, "double"}, {TYPE, "string"}, {TYPE, "bool"}, {TYPE, "void"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - expected {%s %q}, got {%s %q}", i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestOperatorDisambiguation(t *testing.T) {
	input := `:= : == != >= <= > < ++ -- += -= + - && & || | ! ~ << >> ^ * / % args:[string]`

	tests := []TokenType{
		ASSIGN, COLON, EQ, NEQ, GTE, LTE, GT, LT, INCR, DECR, PLUSEQ, MINUSEQ,
		PLUS, MINUS, AND, BAND, OR, BOR, NOT, BNOT, SHL, SHR, CARET, STAR, SLASH, PERCENT,
		ARGSTRING, EOF,
	}

	l := New(input)
	for i, want := range tests {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("tests[%d] - expected %s, got %s (literal=%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestIntegerDigitSeparators(t *testing.T) {
	l := New("1__000______0_______0____;")
	tok := l.NextToken()
	if tok.Type != INT {
		t.Fatalf("expected INT, got %s", tok.Type)
	}
	if tok.IntVal != 100000 {
		t.Fatalf("expected 100000, got %d", tok.IntVal)
	}
}

func TestFloatLiteral(t *testing.T) {
	l := New("3.14;")
	tok := l.NextToken()
	if tok.Type != FLOAT {
		t.Fatalf("expected FLOAT, got %s", tok.Type)
	}
	if tok.FltVal != 3.14 {
		t.Fatalf("expected 3.14, got %v", tok.FltVal)
	}
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello world";`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING, got %s", tok.Type)
	}
	if tok.Literal != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", tok.Literal)
	}
}

func TestCommentsAreSkipped(t *testing.T) {
	input := `x := 1; # this is a comment
y := 2;`
	l := New(input)
	var got []TokenType
	for {
		tok := l.NextToken()
		got = append(got, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	for _, tt := range got {
		if tt == ILLEGAL {
			t.Fatalf("comment leaked an ILLEGAL token: %v", got)
		}
	}
}

func TestLineTracking(t *testing.T) {
	input := "var x : int := 1;\nvar y : int := 2;\n"
	l := New(input)
	var lines []int
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		lines = append(lines, tok.Pos.Line)
	}
	if lines[0] != 1 {
		t.Fatalf("expected first token on line 1, got %d", lines[0])
	}
	if lines[len(lines)-1] != 2 {
		t.Fatalf("expected last token on line 2, got %d", lines[len(lines)-1])
	}
}

func TestIdentifierRegex(t *testing.T) {
	for _, name := range []string{"a", "_x", "snake_case_1", "CamelCase2"} {
		l := New(name + ";")
		tok := l.NextToken()
		if tok.Type != IDENT {
			t.Fatalf("%q: expected IDENT, got %s", name, tok.Type)
		}
		if tok.Literal != name {
			t.Fatalf("expected literal %q, got %q", name, tok.Literal)
		}
	}
}

func TestWithFileOption(t *testing.T) {
	l := New("x;", WithFile("foo.pl"))
	if l.File() != "foo.pl" {
		t.Fatalf("expected file %q, got %q", "foo.pl", l.File())
	}
}
