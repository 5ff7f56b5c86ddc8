package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenize(t *testing.T, input string) []Token {
	t.Helper()
	l := New(input)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestOperators(t *testing.T) {
	input := `+ - * / \ ^ == ~= < > <= >= && || & | ~ = : , ; @ ( ) [ ] { }`
	expected := []TokenType{
		PLUS, MINUS, ASTERISK, SLASH, BACKSLASH, CARET,
		EQ, NOT_EQ, LESS, GREATER, LESS_EQ, GREATER_EQ,
		AMP_AMP, PIPEPIPE, AMP, PIPE, NOT, ASSIGN, COLON,
		COMMA, SEMICOLON, AT, LPAREN, RPAREN, LBRACK, RBRACK,
		LBRACE, RBRACE, EOF,
	}

	toks := tokenize(t, input)
	require.Len(t, toks, len(expected))
	for i, tt := range expected {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestDotOperators(t *testing.T) {
	toks := tokenize(t, `a .* b ./ c .\ d .^ e`)
	types := []TokenType{IDENT, DOT_ASTERISK, IDENT, DOT_SLASH, IDENT, DOT_BACKSLASH, IDENT, DOT_CARET, IDENT, EOF}
	require.Len(t, toks, len(types))
	for i, tt := range types {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		value float64
		imag  float64
	}{
		{"42", 42, 0},
		{"3.14", 3.14, 0},
		{".5", 0.5, 0},
		{"1e3", 1000, 0},
		{"2.5e-2", 0.025, 0},
		{"1E+2", 100, 0},
		{"3i", 0, 3},
		{"2.5j", 0, 2.5},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			toks := tokenize(t, tc.input)
			require.Equal(t, NUMBER, toks[0].Type)
			assert.Equal(t, tc.value, toks[0].Value)
			assert.Equal(t, tc.imag, toks[0].Imag)
		})
	}
}

func TestNumberDotOperator(t *testing.T) {
	// The dot in 1./x belongs to the element-wise operator, not the number.
	toks := tokenize(t, `1./x`)
	types := []TokenType{NUMBER, DOT_SLASH, IDENT, EOF}
	require.Len(t, toks, len(types))
	for i, tt := range types {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
	assert.Equal(t, 1.0, toks[0].Value)
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`'hello'`, "hello"},
		{`"world"`, "world"},
		{`'it''s'`, "it's"},
		{`"say ""hi"""`, `say "hi"`},
		{`''`, ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			toks := tokenize(t, tc.input)
			require.Equal(t, STRING, toks[0].Type)
			assert.Equal(t, tc.expected, toks[0].Literal)
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New("x = 'oops")
	for {
		if tok := l.NextToken(); tok.Type == EOF {
			break
		}
	}
	require.NotEmpty(t, l.Errors())
	err := l.Errors()[0]
	assert.Contains(t, err.Message, "unterminated string")
	assert.Equal(t, 1, err.Pos.Line)
	assert.Equal(t, 5, err.Pos.Column)
}

func TestTransposeDisambiguation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		types []TokenType
	}{
		{"after identifier", `A'`, []TokenType{IDENT, TRANSPOSE, EOF}},
		{"after number", `3'`, []TokenType{NUMBER, TRANSPOSE, EOF}},
		{"after rparen", `(x)'`, []TokenType{LPAREN, IDENT, RPAREN, TRANSPOSE, EOF}},
		{"after rbrack", `[1 2]'`, []TokenType{LBRACK, NUMBER, NUMBER, RBRACK, TRANSPOSE, EOF}},
		{"after transpose", `A''`, []TokenType{IDENT, TRANSPOSE, TRANSPOSE, EOF}},
		{"string at start", `'abc'`, []TokenType{STRING, EOF}},
		{"string after assign", `x = 'abc'`, []TokenType{IDENT, ASSIGN, STRING, EOF}},
		{"string after comma", `f(x, 'abc')`, []TokenType{IDENT, LPAREN, IDENT, COMMA, STRING, RPAREN, EOF}},
		{"string after operator", `x + 'abc'`, []TokenType{IDENT, PLUS, STRING, EOF}},
		{"dot transpose", `A.'`, []TokenType{IDENT, DOT_TRANSPOSE, EOF}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			toks := tokenize(t, tc.input)
			require.Len(t, toks, len(tc.types))
			for i, tt := range tc.types {
				assert.Equal(t, tt, toks[i].Type, "token %d", i)
			}
		})
	}
}

func TestNewlines(t *testing.T) {
	toks := tokenize(t, "x = 1\ny = 2")
	types := []TokenType{IDENT, ASSIGN, NUMBER, NEWLINE, IDENT, ASSIGN, NUMBER, EOF}
	require.Len(t, toks, len(types))
	for i, tt := range types {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestNewlineSuppression(t *testing.T) {
	// After a semicolon the newline is insignificant, and blank lines do
	// not stack NEWLINE tokens.
	toks := tokenize(t, "x = 1;\n\n\ny = 2\n")
	types := []TokenType{IDENT, ASSIGN, NUMBER, SEMICOLON, IDENT, ASSIGN, NUMBER, NEWLINE, EOF}
	require.Len(t, toks, len(types))
	for i, tt := range types {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestLineContinuation(t *testing.T) {
	toks := tokenize(t, "x = 1 + ...\n2")
	types := []TokenType{IDENT, ASSIGN, NUMBER, PLUS, NUMBER, EOF}
	require.Len(t, toks, len(types))
	for i, tt := range types {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
	assert.Equal(t, 2.0, toks[4].Value)
}

func TestComments(t *testing.T) {
	toks := tokenize(t, "x = 1 % set x\ny = 2")
	types := []TokenType{IDENT, ASSIGN, NUMBER, NEWLINE, IDENT, ASSIGN, NUMBER, EOF}
	require.Len(t, toks, len(types))
	for i, tt := range types {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestBlockComments(t *testing.T) {
	input := "a = 1\n%{\ncomment %{ nested %} still comment\n%}\nb = 2"
	toks := tokenize(t, input)
	types := []TokenType{IDENT, ASSIGN, NUMBER, NEWLINE, IDENT, ASSIGN, NUMBER, EOF}
	require.Len(t, toks, len(types))
	for i, tt := range types {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestKeywords(t *testing.T) {
	input := "if elseif else end for while switch case otherwise try catch function return break continue global persistent true false"
	expected := []TokenType{
		IF, ELSEIF, ELSE, END, FOR, WHILE, SWITCH, CASE, OTHERWISE,
		TRY, CATCH, FUNCTION, RETURN, BREAK, CONTINUE, GLOBAL, PERSISTENT,
		TRUE, FALSE, EOF,
	}
	toks := tokenize(t, input)
	require.Len(t, toks, len(expected))
	for i, tt := range expected {
		assert.Equal(t, tt, toks[i].Type, "token %d", i)
	}
}

func TestPositions(t *testing.T) {
	toks := tokenize(t, "x = 1\ny = 2")
	require.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	// y on line 2
	require.Equal(t, IDENT, toks[4].Type)
	assert.Equal(t, 2, toks[4].Pos.Line)
	assert.Equal(t, 1, toks[4].Pos.Column)
}

func TestIllegalCharacter(t *testing.T) {
	l := New("x = #")
	var illegal *Token
	for {
		tok := l.NextToken()
		if tok.Type == ILLEGAL {
			cp := tok
			illegal = &cp
		}
		if tok.Type == EOF {
			break
		}
	}
	require.NotNil(t, illegal)
	require.NotEmpty(t, l.Errors())
}
