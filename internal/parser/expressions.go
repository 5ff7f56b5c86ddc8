package parser

import (
	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/lexer"
)

// parseExpression parses an expression with precedence climbing.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken().Type]
	if prefix == nil {
		p.addError(p.curToken(), "unexpected token")
		return nil
	}
	grouped := p.curToken().Type == lexer.LPAREN
	left := prefix()

	for left != nil && precedence < p.curPrecedence() {
		tt := p.curToken().Type
		// Only reference-shaped expressions can be called or indexed;
		// a paren after a grouped expression or a literal starts a new
		// element in a bracketed literal instead.
		if (tt == lexer.LPAREN || tt == lexer.LBRACE) && (grouped || !isCallable(left)) {
			return left
		}
		infix := p.infixParseFns[tt]
		if infix == nil {
			return left
		}
		left = infix(left)
		grouped = false
	}
	return left
}

// isCallable reports whether an expression may be the callee of a call,
// an indexing, or a brace indexing.
func isCallable(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.Identifier, *ast.CallExpression, *ast.CellIndexExpression, *ast.FieldAccess:
		return true
	}
	return false
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.NumberLiteral{Token: tok, Value: tok.Value, Imag: tok.Imag}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.StringLiteral{Token: tok, Value: tok.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == lexer.TRUE}
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.Identifier{Token: tok, Value: tok.Literal}
}

// parseEndExpression parses `end` in expression position. The interpreter
// resolves it against the innermost indexed dimension; outside an indexing
// context it is a runtime error.
func (p *Parser) parseEndExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.EndExpression{Token: tok}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken()
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.PrefixExpression{Token: tok, Operator: tok.Literal, Operand: operand}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

// parsePowerExpression parses ^ and .^ right-associatively.
func (p *Parser) parsePowerExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken()
	right := p.parseExpression(POWER - 1)
	if right == nil {
		return nil
	}
	return &ast.InfixExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

// parsePostfixExpression parses the transpose operators.
func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken()
	return &ast.PostfixExpression{Token: tok, Operator: tok.Literal, Operand: left}
}

// parseRangeExpression parses start:stop and start:step:stop.
func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken()
	second := p.parseExpression(RANGE)
	if second == nil {
		return nil
	}
	if p.curIs(lexer.COLON) {
		p.nextToken()
		third := p.parseExpression(RANGE)
		if third == nil {
			return nil
		}
		return &ast.RangeExpression{Token: tok, Start: left, Step: second, Stop: third}
	}
	return &ast.RangeExpression{Token: tok, Start: left, Stop: second}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken() // consume (
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	return expr
}

// parseMatrixLiteral parses [ ... ]. Rows are separated by semicolons or
// newlines; elements by commas or plain juxtaposition.
func (p *Parser) parseMatrixLiteral() ast.Expression {
	lit := &ast.MatrixLiteral{Token: p.curToken()}
	rows := p.parseBracketedRows(lexer.RBRACK)
	if rows == nil {
		return nil
	}
	lit.Rows = rows
	return lit
}

// parseCellLiteral parses { ... } with the same row/element layout as a
// matrix literal.
func (p *Parser) parseCellLiteral() ast.Expression {
	lit := &ast.CellLiteral{Token: p.curToken()}
	rows := p.parseBracketedRows(lexer.RBRACE)
	if rows == nil {
		return nil
	}
	lit.Rows = rows
	return lit
}

func (p *Parser) parseBracketedRows(closer lexer.TokenType) [][]ast.Expression {
	p.nextToken() // consume opening bracket

	rows := [][]ast.Expression{}
	var row []ast.Expression
	for {
		switch p.curToken().Type {
		case closer:
			p.nextToken()
			if len(row) > 0 {
				rows = append(rows, row)
			}
			return rows
		case lexer.SEMICOLON, lexer.NEWLINE:
			p.nextToken()
			if len(row) > 0 {
				rows = append(rows, row)
				row = nil
			}
		case lexer.COMMA:
			p.nextToken()
		case lexer.EOF:
			p.addError(p.curToken(), "unterminated '%s' literal", openBracket(closer))
			return nil
		default:
			elem := p.parseExpression(LOWEST)
			if elem == nil {
				return nil
			}
			row = append(row, elem)
		}
	}
}

func openBracket(closer lexer.TokenType) string {
	if closer == lexer.RBRACE {
		return "{"
	}
	return "["
}

// parseCallExpression parses f(args). Bare colons are legal arguments and
// select a whole dimension when the call turns out to be an indexing.
func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken(), Callee: callee}
	args := p.parseIndexArguments(lexer.RPAREN)
	if args == nil {
		return nil
	}
	call.Arguments = args
	return call
}

// parseCellIndexExpression parses c{args}.
func (p *Parser) parseCellIndexExpression(callee ast.Expression) ast.Expression {
	idx := &ast.CellIndexExpression{Token: p.curToken(), Callee: callee}
	args := p.parseIndexArguments(lexer.RBRACE)
	if args == nil {
		return nil
	}
	idx.Arguments = args
	return idx
}

func (p *Parser) parseIndexArguments(closer lexer.TokenType) []ast.Expression {
	p.nextToken() // consume opening bracket

	args := []ast.Expression{}
	for {
		if p.curIs(closer) {
			p.nextToken()
			return args
		}
		if p.curIs(lexer.EOF) {
			p.addError(p.curToken(), "unterminated argument list")
			return nil
		}

		// A bare colon argument selects every element of its dimension.
		if p.curIs(lexer.COLON) && (p.peekIs(lexer.COMMA) || p.peekIs(closer)) {
			args = append(args, &ast.RangeExpression{Token: p.curToken()})
			p.nextToken()
		} else {
			arg := p.parseExpression(LOWEST)
			if arg == nil {
				return nil
			}
			args = append(args, arg)
		}

		if p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
}

// parseFieldAccess parses s.field.
func (p *Parser) parseFieldAccess(object ast.Expression) ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume .
	if !p.curIs(lexer.IDENT) {
		p.addError(p.curToken(), "expected field name after '.'")
		return nil
	}
	field := p.curToken().Literal
	p.nextToken()
	return &ast.FieldAccess{Token: tok, Object: object, Field: field}
}

// parseFunctionHandle parses @name and @(params) body.
func (p *Parser) parseFunctionHandle() ast.Expression {
	tok := p.curToken()
	p.nextToken() // consume @

	if p.curIs(lexer.IDENT) {
		name := p.curToken().Literal
		p.nextToken()
		return &ast.FuncHandle{Token: tok, Name: name}
	}

	if !p.curIs(lexer.LPAREN) {
		p.addError(p.curToken(), "expected function name or parameter list after '@'")
		return nil
	}
	p.nextToken() // consume (

	fn := &ast.AnonFunction{Token: tok}
	for p.curIs(lexer.IDENT) {
		fn.Params = append(fn.Params, &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal})
		p.nextToken()
		if p.curIs(lexer.COMMA) {
			p.nextToken()
		}
	}
	if !p.expect(lexer.RPAREN) {
		return nil
	}

	fn.Body = p.parseExpression(LOWEST)
	if fn.Body == nil {
		return nil
	}
	return fn
}
