package lexer

import (
	"math/big"
	"testing"

	"github.com/nalgeon/be"
	"github.com/tangzhangming/jpy/internal/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `+ - * / % = == != < <= > >= && || ! ( ) { } [ ] , . ; : ? -> :: ... @ ~ & | ^ << ++ -- += -= *= /= %= &= |= ^= <<=`

	expected := []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.ASSIGN, token.EQ, token.NE,
		token.LT, token.LE, token.GT, token.GE,
		token.AND, token.OR, token.NOT,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET,
		token.COMMA, token.DOT, token.SEMICOLON, token.COLON, token.QUESTION,
		token.ARROW, token.DOUBLE_COLON, token.ELLIPSIS, token.AT,
		token.BIT_NOT, token.BIT_AND, token.BIT_OR, token.BIT_XOR, token.SHL,
		token.INCREMENT, token.DECREMENT,
		token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN,
		token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN, token.SHL_ASSIGN,
		token.EOF,
	}

	l := New(input, "Test.java")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerRightAnglesStaySingle(t *testing.T) {
	// >> 与 >>> 由语法分析器组合
	l := New(`List<List<Integer>> a >>> b >>= c`, "Test.java")
	tokens := l.ScanTokens()

	var got []token.TokenType
	for _, tok := range tokens {
		got = append(got, tok.Type)
	}
	want := []token.TokenType{
		token.IDENT, token.LT, token.IDENT, token.LT, token.IDENT, token.GT, token.GT, token.IDENT,
		token.GT, token.GT, token.GT, token.IDENT,
		token.GT, token.GE, token.IDENT,
		token.EOF,
	}
	be.Equal(t, got, want)
}

func TestLexerKeywords(t *testing.T) {
	input := `class interface enum extends implements package import new instanceof
	public private protected static final abstract
	if else switch case default for while do break continue return try catch finally throw throws
	boolean byte char short int long float double void true false null this super`

	l := New(input, "Test.java")
	tokens := l.ScanTokens()

	expectedKeywords := []token.TokenType{
		token.CLASS, token.INTERFACE, token.ENUM, token.EXTENDS, token.IMPLEMENTS,
		token.PACKAGE, token.IMPORT, token.NEW, token.INSTANCEOF,
		token.PUBLIC, token.PRIVATE, token.PROTECTED, token.STATIC, token.FINAL, token.ABSTRACT,
		token.IF, token.ELSE, token.SWITCH, token.CASE, token.DEFAULT, token.FOR, token.WHILE, token.DO,
		token.BREAK, token.CONTINUE, token.RETURN, token.TRY, token.CATCH, token.FINALLY, token.THROW, token.THROWS,
		token.BOOLEAN, token.BYTE, token.CHAR_TYPE, token.SHORT, token.INT_TYPE, token.LONG,
		token.FLOAT_TYPE, token.DOUBLE, token.VOID,
		token.TRUE, token.FALSE, token.NULL, token.THIS, token.SUPER,
		token.EOF,
	}

	if len(tokens) != len(expectedKeywords) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expectedKeywords))
	}

	for i, tok := range tokens {
		if tok.Type != expectedKeywords[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s (literal: %s)",
				i, tok.Type, expectedKeywords[i], tok.Literal)
		}
	}
}

func TestLexerIdentifiers(t *testing.T) {
	l := New(`name _count $tmp user123 var`, "Test.java")
	tokens := l.ScanTokens()

	names := []string{"name", "_count", "$tmp", "user123", "var"}
	for i, name := range names {
		if tokens[i].Type != token.IDENT {
			t.Errorf("token[%d]: expected IDENT, got %s", i, tokens[i].Type)
		}
		be.Equal(t, tokens[i].Literal, name)
	}
}

func TestLexerIntegers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"42", "42"},
		{"1_000_000", "1000000"},
		{"10L", "10"},
		{"0x1F", "31"},
		{"0XffL", "255"},
		{"0b1010", "10"},
		{"017", "15"},
		{"9223372036854775807", "9223372036854775807"},
	}

	for _, tt := range tests {
		l := New(tt.input, "Test.java")
		tokens := l.ScanTokens()
		if l.HasErrors() {
			t.Fatalf("%q: unexpected errors: %v", tt.input, l.Errors())
		}
		if tokens[0].Type != token.INT {
			t.Fatalf("%q: expected INT, got %s", tt.input, tokens[0].Type)
		}
		v, ok := tokens[0].Value.(*big.Int)
		if !ok {
			t.Fatalf("%q: expected *big.Int value, got %T", tt.input, tokens[0].Value)
		}
		be.Equal(t, v.String(), tt.want)
	}
}

func TestLexerFloats(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"3.14", 3.14},
		{".5", 0.5},
		{"1e3", 1000},
		{"2.5e-1", 0.25},
		{"2f", 2},
		{"1.5F", 1.5},
		{"3d", 3},
		{"1.", 1},
	}

	for _, tt := range tests {
		l := New(tt.input, "Test.java")
		tokens := l.ScanTokens()
		if l.HasErrors() {
			t.Fatalf("%q: unexpected errors: %v", tt.input, l.Errors())
		}
		if tokens[0].Type != token.FLOAT {
			t.Fatalf("%q: expected FLOAT, got %s", tt.input, tokens[0].Type)
		}
		be.Equal(t, tokens[0].Value.(float64), tt.want)
	}
}

func TestLexerStringsAndChars(t *testing.T) {
	l := New(`"hello" "a\tb\n" "q\"uote" 'x' '\n' 'A' '\''`, "Test.java")
	tokens := l.ScanTokens()
	be.True(t, !l.HasErrors())

	be.Equal(t, tokens[0].Type, token.STRING)
	be.Equal(t, tokens[0].Value.(string), "hello")
	be.Equal(t, tokens[1].Value.(string), "a\tb\n")
	be.Equal(t, tokens[2].Value.(string), `q"uote`)

	be.Equal(t, tokens[3].Type, token.CHAR)
	be.Equal(t, tokens[3].Value.(rune), 'x')
	be.Equal(t, tokens[4].Value.(rune), '\n')
	be.Equal(t, tokens[5].Value.(rune), 'A')
	be.Equal(t, tokens[6].Value.(rune), '\'')
}

func TestLexerComments(t *testing.T) {
	input := `int a; // trailing
/* block
   comment */ int b;`
	l := New(input, "Test.java")
	tokens := l.ScanTokens()
	be.True(t, !l.HasErrors())

	want := []token.TokenType{
		token.INT_TYPE, token.IDENT, token.SEMICOLON,
		token.INT_TYPE, token.IDENT, token.SEMICOLON,
		token.EOF,
	}
	if len(tokens) != len(want) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(want))
	}
	for i := range want {
		be.Equal(t, tokens[i].Type, want[i])
	}
	be.Equal(t, tokens[3].Pos.Line, 3)
}

func TestLexerPositions(t *testing.T) {
	l := New("class A {\n  int x;\n}", "A.java")
	tokens := l.ScanTokens()

	be.Equal(t, tokens[0].Pos, token.Position{Filename: "A.java", Line: 1, Column: 1, Offset: 0})
	be.Equal(t, tokens[1].Pos.Column, 7)
	be.Equal(t, tokens[3].Pos.Line, 2)
	be.Equal(t, tokens[3].Pos.Column, 3)
	be.Equal(t, tokens[4].Pos.Column, 7)
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated string", `"abc`},
		{"string across lines", "\"abc\ndef\""},
		{"empty char", `''`},
		{"unterminated char", `'ab'`},
		{"bad escape", `"\q"`},
		{"unterminated comment", `/* never closed`},
		{"unexpected char", "int a = #;"},
		{"bad octal", "09"},
		{"bad suffix", "12abc"},
		{"missing exponent", "1e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input, "Test.java")
			l.ScanTokens()
			if !l.HasErrors() {
				t.Fatalf("expected a lexical error for %q", tt.input)
			}
		})
	}
}

func TestTokenizeReturnsFirstError(t *testing.T) {
	_, err := Tokenize("int a = #;", "Bad.java")
	be.Err(t, err)

	lexErr, ok := err.(Error)
	if !ok {
		t.Fatalf("expected lexer.Error, got %T", err)
	}
	be.Equal(t, lexErr.Pos.Line, 1)
	be.Equal(t, lexErr.Pos.Column, 9)
}

func TestStreamPeekAndConsume(t *testing.T) {
	s, err := Tokenize("a = 1;", "Test.java")
	be.Err(t, err, nil)

	be.Equal(t, s.Peek(0).Type, token.IDENT)
	be.Equal(t, s.Peek(1).Type, token.ASSIGN)
	be.Equal(t, s.Peek(2).Type, token.INT)
	be.Equal(t, s.Peek(10).Type, token.EOF)

	be.Equal(t, s.Consume().Literal, "a")
	be.Equal(t, s.Peek(0).Type, token.ASSIGN)

	for i := 0; i < 10; i++ {
		s.Consume()
	}
	be.Equal(t, s.Peek(0).Type, token.EOF)
	be.Equal(t, s.Consume().Type, token.EOF)
}

func TestNewStreamAppendsEOF(t *testing.T) {
	s := NewStream([]token.Token{{Type: token.IDENT, Literal: "x", Pos: token.Position{Line: 1, Column: 1}}})
	be.Equal(t, s.Len(), 2)
	be.Equal(t, s.Peek(1).Type, token.EOF)
	be.Equal(t, s.Peek(1).Pos.Column, 2)
}
