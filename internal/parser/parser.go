// Package parser implements a Pratt parser for MATLAB source code.
//
// The parser walks a pre-lexed token slice through a cursor, which makes
// speculative parsing cheap: multi-return assignment headers are tried
// first and the cursor is rewound to re-parse the bracket as a matrix
// literal when the header shape does not hold.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/lexer"
)

// Precedence levels for operators (lowest to highest).
const (
	_ int = iota
	LOWEST
	SHORTOR   // ||
	SHORTAND  // &&
	BITOR     // |
	BITAND    // &
	COMPARE   // == ~= < > <= >=
	RANGE     // :
	SUM       // + -
	PRODUCT   // * / \ .* ./ .\
	PREFIX    // -x, +x, ~x
	POWER     // ^ .^ (right-associative)
	POSTFIX   // call, index, field access, transpose
)

// precedences maps token types to their precedence levels.
var precedences = map[lexer.TokenType]int{
	lexer.PIPEPIPE:      SHORTOR,
	lexer.AMP_AMP:       SHORTAND,
	lexer.PIPE:          BITOR,
	lexer.AMP:           BITAND,
	lexer.EQ:            COMPARE,
	lexer.NOT_EQ:        COMPARE,
	lexer.LESS:          COMPARE,
	lexer.GREATER:       COMPARE,
	lexer.LESS_EQ:       COMPARE,
	lexer.GREATER_EQ:    COMPARE,
	lexer.COLON:         RANGE,
	lexer.PLUS:          SUM,
	lexer.MINUS:         SUM,
	lexer.ASTERISK:      PRODUCT,
	lexer.SLASH:         PRODUCT,
	lexer.BACKSLASH:     PRODUCT,
	lexer.DOT_ASTERISK:  PRODUCT,
	lexer.DOT_SLASH:     PRODUCT,
	lexer.DOT_BACKSLASH: PRODUCT,
	lexer.CARET:         POWER,
	lexer.DOT_CARET:     POWER,
	lexer.LPAREN:        POSTFIX,
	lexer.LBRACE:        POSTFIX,
	lexer.DOT:           POSTFIX,
	lexer.TRANSPOSE:     POSTFIX,
	lexer.DOT_TRANSPOSE: POSTFIX,
}

// prefixParseFn parses prefix expressions (literals, unary ops, grouping).
type prefixParseFn func() ast.Expression

// infixParseFn parses infix and postfix expressions (binary ops, calls,
// indexing, transposes).
type infixParseFn func(ast.Expression) ast.Expression

// Parser parses a token stream into an AST.
type Parser struct {
	tokens         []lexer.Token
	pos            int
	errors         []*ParseError
	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over the given lexer. The entire source is
// tokenized up front; lexical errors surface through Errors().
func New(l *lexer.Lexer) *Parser {
	p := &Parser{}

	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	for _, lexErr := range l.Errors() {
		p.errors = append(p.errors, &ParseError{
			Message: lexErr.Message,
			Pos:     lexErr.Pos,
		})
	}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.NUMBER: p.parseNumberLiteral,
		lexer.STRING: p.parseStringLiteral,
		lexer.TRUE:   p.parseBooleanLiteral,
		lexer.FALSE:  p.parseBooleanLiteral,
		lexer.IDENT:  p.parseIdentifier,
		lexer.END:    p.parseEndExpression,
		lexer.MINUS:  p.parsePrefixExpression,
		lexer.PLUS:   p.parsePrefixExpression,
		lexer.NOT:    p.parsePrefixExpression,
		lexer.LPAREN: p.parseGroupedExpression,
		lexer.LBRACK: p.parseMatrixLiteral,
		lexer.LBRACE: p.parseCellLiteral,
		lexer.AT:     p.parseFunctionHandle,
	}

	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PIPEPIPE:      p.parseInfixExpression,
		lexer.AMP_AMP:       p.parseInfixExpression,
		lexer.PIPE:          p.parseInfixExpression,
		lexer.AMP:           p.parseInfixExpression,
		lexer.EQ:            p.parseInfixExpression,
		lexer.NOT_EQ:        p.parseInfixExpression,
		lexer.LESS:          p.parseInfixExpression,
		lexer.GREATER:       p.parseInfixExpression,
		lexer.LESS_EQ:       p.parseInfixExpression,
		lexer.GREATER_EQ:    p.parseInfixExpression,
		lexer.PLUS:          p.parseInfixExpression,
		lexer.MINUS:         p.parseInfixExpression,
		lexer.ASTERISK:      p.parseInfixExpression,
		lexer.SLASH:         p.parseInfixExpression,
		lexer.BACKSLASH:     p.parseInfixExpression,
		lexer.DOT_ASTERISK:  p.parseInfixExpression,
		lexer.DOT_SLASH:     p.parseInfixExpression,
		lexer.DOT_BACKSLASH: p.parseInfixExpression,
		lexer.CARET:         p.parsePowerExpression,
		lexer.DOT_CARET:     p.parsePowerExpression,
		lexer.COLON:         p.parseRangeExpression,
		lexer.LPAREN:        p.parseCallExpression,
		lexer.LBRACE:        p.parseCellIndexExpression,
		lexer.DOT:           p.parseFieldAccess,
		lexer.TRANSPOSE:     p.parsePostfixExpression,
		lexer.DOT_TRANSPOSE: p.parsePostfixExpression,
	}

	return p
}

// Errors returns all accumulated parse errors.
func (p *Parser) Errors() []*ParseError {
	return p.errors
}

// FirstError returns the first accumulated error, or nil.
func (p *Parser) FirstError() error {
	if len(p.errors) > 0 {
		return p.errors[0]
	}
	return nil
}

// curToken returns the token at the cursor.
func (p *Parser) curToken() lexer.Token {
	if p.pos >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.pos]
}

// peekToken returns the token after the cursor.
func (p *Parser) peekToken() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.pos+1]
}

// nextToken advances the cursor.
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.curToken().Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekToken().Type == t }

// mark returns the cursor position and error count for later rewind.
func (p *Parser) mark() (int, int) {
	return p.pos, len(p.errors)
}

// rewind restores the cursor and drops errors recorded since mark.
func (p *Parser) rewind(pos, errCount int) {
	p.pos = pos
	p.errors = p.errors[:errCount]
}

// addError records a parse error at the given token.
func (p *Parser) addError(tok lexer.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, &ParseError{
		Message: fmt.Sprintf(format, args...),
		Lexeme:  tok.Literal,
		Pos:     tok.Pos,
	})
}

// expect consumes the current token if it has the given type; otherwise it
// records an error and leaves the cursor in place.
func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.curToken(), "expected '%s'", t)
	return false
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken().Type]; ok {
		return prec
	}
	return LOWEST
}

// skipNewlines consumes any run of NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.curIs(lexer.NEWLINE) {
		p.nextToken()
	}
}

// skipSeparators consumes any run of statement separators, tolerating
// stray semicolons and commas between statements.
func (p *Parser) skipSeparators() {
	for p.curIs(lexer.NEWLINE) || p.curIs(lexer.SEMICOLON) || p.curIs(lexer.COMMA) {
		p.nextToken()
	}
}

// ParseProgram parses the full token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	p.skipSeparators()
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.skipSeparators()
	}

	return program
}

// synchronize advances to the next statement boundary after an error.
func (p *Parser) synchronize() {
	for !p.curIs(lexer.EOF) {
		switch p.curToken().Type {
		case lexer.NEWLINE, lexer.SEMICOLON, lexer.COMMA:
			p.nextToken()
			return
		}
		p.nextToken()
	}
}
