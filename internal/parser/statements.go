package parser

import (
	"github.com/cwbudde/go-mlab/internal/ast"
	"github.com/cwbudde/go-mlab/internal/lexer"
)

// blockTerminators are token types that end a statement block without
// being consumed by the block itself.
var blockTerminators = map[lexer.TokenType]bool{
	lexer.END:       true,
	lexer.ELSE:      true,
	lexer.ELSEIF:    true,
	lexer.CASE:      true,
	lexer.OTHERWISE: true,
	lexer.CATCH:     true,
	lexer.FUNCTION:  true,
	lexer.EOF:       true,
}

// parseStatement parses a single statement. It returns nil when the
// statement could not be parsed; an error has been recorded in that case.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken().Type {
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.FUNCTION:
		return p.parseFunctionDecl()
	case lexer.BREAK:
		stmt := &ast.BreakStatement{Token: p.curToken()}
		p.nextToken()
		p.parseSeparator()
		return stmt
	case lexer.CONTINUE:
		stmt := &ast.ContinueStatement{Token: p.curToken()}
		p.nextToken()
		p.parseSeparator()
		return stmt
	case lexer.RETURN:
		stmt := &ast.ReturnStatement{Token: p.curToken()}
		p.nextToken()
		p.parseSeparator()
		return stmt
	case lexer.GLOBAL:
		return p.parseGlobalStatement()
	case lexer.PERSISTENT:
		return p.parsePersistentStatement()
	case lexer.CLASSDEF:
		p.addError(p.curToken(), "classdef is not supported")
		p.synchronize()
		return nil
	case lexer.LBRACK:
		// Optimistically try a multi-return assignment header; on failure
		// the bracket is re-parsed as a matrix literal.
		if stmt := p.tryParseMultiAssign(); stmt != nil {
			return stmt
		}
		return p.parseExpressionStatement()
	case lexer.IDENT:
		// Command syntax: an identifier followed by bare words calls the
		// function with the words as strings (format long, hold on,
		// clear x y).
		if p.peekIs(lexer.IDENT) {
			return p.parseCommandStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseCommandStatement() ast.Statement {
	nameTok := p.curToken()
	callee := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}
	p.nextToken()

	call := &ast.CallExpression{Token: nameTok, Callee: callee}
	for p.curIs(lexer.IDENT) {
		word := p.curToken()
		call.Arguments = append(call.Arguments, &ast.StringLiteral{Token: word, Value: word.Literal})
		p.nextToken()
	}

	stmt := &ast.ExpressionStatement{Token: nameTok, Expression: call}
	stmt.PrintResult = p.parseSeparator()
	return stmt
}

// parseSeparator consumes a statement separator and reports whether the
// statement result should be printed. A semicolon suppresses printing; a
// comma or newline requests it. Block terminators and EOF are tolerated
// without being consumed.
func (p *Parser) parseSeparator() bool {
	switch p.curToken().Type {
	case lexer.SEMICOLON:
		p.nextToken()
		return false
	case lexer.COMMA, lexer.NEWLINE:
		p.nextToken()
		return true
	}
	if blockTerminators[p.curToken().Type] {
		return true
	}
	p.addError(p.curToken(), "expected end of statement")
	p.synchronize()
	return true
}

// parseBlock parses statements until a block terminator is reached.
// The terminator is not consumed.
func (p *Parser) parseBlock() []ast.Statement {
	var body []ast.Statement
	p.skipSeparators()
	for !blockTerminators[p.curToken().Type] {
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		} else if p.curIs(lexer.EOF) {
			break
		}
		p.skipSeparators()
	}
	return body
}

// parseExpressionStatement parses an expression statement or a single
// assignment.
func (p *Parser) parseExpressionStatement() ast.Statement {
	startTok := p.curToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		p.synchronize()
		return nil
	}

	if p.curIs(lexer.ASSIGN) {
		assignTok := p.curToken()
		if !isAssignable(expr) {
			p.addError(assignTok, "invalid assignment target")
			p.synchronize()
			return nil
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			p.synchronize()
			return nil
		}
		stmt := &ast.AssignStatement{Token: assignTok, Target: expr, Value: value}
		stmt.PrintResult = p.parseSeparator()
		return stmt
	}

	stmt := &ast.ExpressionStatement{Token: startTok, Expression: expr}
	stmt.PrintResult = p.parseSeparator()
	return stmt
}

// isAssignable reports whether an expression is a legal assignment target:
// a bare identifier, an indexing call, a cell index, or a field access.
func isAssignable(expr ast.Expression) bool {
	switch e := expr.(type) {
	case *ast.Identifier:
		return true
	case *ast.CallExpression:
		return isAssignable(e.Callee)
	case *ast.CellIndexExpression:
		return isAssignable(e.Callee)
	case *ast.FieldAccess:
		return isAssignable(e.Object)
	}
	return false
}

// tryParseMultiAssign attempts to parse [a, b, ~] = expr. It returns nil
// and rewinds the cursor when the bracket is not a multi-return header.
func (p *Parser) tryParseMultiAssign() ast.Statement {
	pos, errCount := p.mark()
	bracket := p.curToken()
	p.nextToken() // consume [

	var targets []ast.Expression
	for {
		switch p.curToken().Type {
		case lexer.NOT:
			targets = append(targets, nil)
			p.nextToken()
		case lexer.IDENT:
			target := p.parseExpression(LOWEST)
			if target == nil || !isAssignable(target) {
				p.rewind(pos, errCount)
				return nil
			}
			targets = append(targets, target)
		default:
			p.rewind(pos, errCount)
			return nil
		}
		if p.curIs(lexer.COMMA) {
			p.nextToken()
			continue
		}
		// Targets may also be separated by bare whitespace: [a b] = f().
		if p.curIs(lexer.IDENT) || p.curIs(lexer.NOT) {
			continue
		}
		break
	}

	if !p.curIs(lexer.RBRACK) || !p.peekIs(lexer.ASSIGN) {
		p.rewind(pos, errCount)
		return nil
	}
	p.nextToken() // consume ]
	p.nextToken() // consume =

	value := p.parseExpression(LOWEST)
	if value == nil {
		p.synchronize()
		return nil
	}

	stmt := &ast.MultiAssignStatement{Token: bracket, Targets: targets, Value: value}
	stmt.PrintResult = p.parseSeparator()
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken()}
	p.nextToken() // consume if

	cond := p.parseExpression(LOWEST)
	if cond == nil {
		p.synchronize()
		return nil
	}
	p.parseSeparator()
	stmt.Clauses = append(stmt.Clauses, ast.IfClause{Condition: cond, Body: p.parseBlock()})

	for {
		switch p.curToken().Type {
		case lexer.ELSEIF:
			p.nextToken()
			cond := p.parseExpression(LOWEST)
			if cond == nil {
				p.synchronize()
				return nil
			}
			p.parseSeparator()
			stmt.Clauses = append(stmt.Clauses, ast.IfClause{Condition: cond, Body: p.parseBlock()})
		case lexer.ELSE:
			p.nextToken()
			p.parseSeparator()
			stmt.Clauses = append(stmt.Clauses, ast.IfClause{Body: p.parseBlock()})
			p.expect(lexer.END)
			return stmt
		case lexer.END:
			p.nextToken()
			return stmt
		default:
			p.addError(p.curToken(), "expected 'end' to close 'if'")
			return stmt
		}
	}
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken()}
	p.nextToken() // consume for

	if !p.curIs(lexer.IDENT) {
		p.addError(p.curToken(), "expected loop variable after 'for'")
		p.synchronize()
		return nil
	}
	stmt.Var = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
	p.nextToken()

	if !p.expect(lexer.ASSIGN) {
		p.synchronize()
		return nil
	}

	stmt.Range = p.parseExpression(LOWEST)
	if stmt.Range == nil {
		p.synchronize()
		return nil
	}
	p.parseSeparator()
	stmt.Body = p.parseBlock()
	p.expect(lexer.END)
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken()}
	p.nextToken() // consume while

	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		p.synchronize()
		return nil
	}
	p.parseSeparator()
	stmt.Body = p.parseBlock()
	p.expect(lexer.END)
	return stmt
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	stmt := &ast.SwitchStatement{Token: p.curToken()}
	p.nextToken() // consume switch

	stmt.Subject = p.parseExpression(LOWEST)
	if stmt.Subject == nil {
		p.synchronize()
		return nil
	}
	p.parseSeparator()
	p.skipNewlines()

	for {
		switch p.curToken().Type {
		case lexer.CASE:
			p.nextToken()
			value := p.parseExpression(LOWEST)
			if value == nil {
				p.synchronize()
				return stmt
			}
			p.parseSeparator()
			stmt.Cases = append(stmt.Cases, ast.SwitchCase{Value: value, Body: p.parseBlock()})
		case lexer.OTHERWISE:
			p.nextToken()
			p.parseSeparator()
			stmt.Otherwise = p.parseBlock()
			p.expect(lexer.END)
			return stmt
		case lexer.END:
			p.nextToken()
			return stmt
		default:
			p.addError(p.curToken(), "expected 'case', 'otherwise' or 'end' in switch")
			return stmt
		}
	}
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken()}
	p.nextToken() // consume try
	p.parseSeparator()
	stmt.Body = p.parseBlock()

	if p.curIs(lexer.CATCH) {
		p.nextToken()
		// An identifier on the catch line binds the error; a newline or
		// separator means an unbound catch.
		if p.curIs(lexer.IDENT) {
			stmt.CatchVar = &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal}
			p.nextToken()
		}
		p.parseSeparator()
		stmt.Catch = p.parseBlock()
	}
	p.expect(lexer.END)
	return stmt
}

func (p *Parser) parseGlobalStatement() ast.Statement {
	stmt := &ast.GlobalStatement{Token: p.curToken()}
	p.nextToken() // consume global
	for p.curIs(lexer.IDENT) {
		stmt.Names = append(stmt.Names, &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal})
		p.nextToken()
		if p.curIs(lexer.COMMA) && p.peekIs(lexer.IDENT) {
			p.nextToken()
		}
	}
	if len(stmt.Names) == 0 {
		p.addError(p.curToken(), "expected variable name after 'global'")
	}
	p.parseSeparator()
	return stmt
}

func (p *Parser) parsePersistentStatement() ast.Statement {
	stmt := &ast.PersistentStatement{Token: p.curToken()}
	p.nextToken() // consume persistent
	for p.curIs(lexer.IDENT) {
		stmt.Names = append(stmt.Names, &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal})
		p.nextToken()
		if p.curIs(lexer.COMMA) && p.peekIs(lexer.IDENT) {
			p.nextToken()
		}
	}
	if len(stmt.Names) == 0 {
		p.addError(p.curToken(), "expected variable name after 'persistent'")
	}
	p.parseSeparator()
	return stmt
}

// parseFunctionDecl parses a function definition. Three header shapes are
// accepted:
//
//	function name(a, b)
//	function r = name(a, b)
//	function [r1, r2] = name(a, b)
//
// The body runs to the matching end; script-style files may also end at
// EOF or at the next function definition.
func (p *Parser) parseFunctionDecl() ast.Statement {
	stmt := &ast.FunctionDecl{Token: p.curToken()}
	p.nextToken() // consume function

	switch p.curToken().Type {
	case lexer.LBRACK:
		p.nextToken()
		for p.curIs(lexer.IDENT) {
			stmt.Returns = append(stmt.Returns, &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal})
			p.nextToken()
			if p.curIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		if !p.expect(lexer.RBRACK) || !p.expect(lexer.ASSIGN) {
			p.synchronize()
			return nil
		}
		if !p.curIs(lexer.IDENT) {
			p.addError(p.curToken(), "expected function name")
			p.synchronize()
			return nil
		}
		stmt.Name = p.curToken().Literal
		p.nextToken()
	case lexer.IDENT:
		first := p.curToken()
		if p.peekIs(lexer.ASSIGN) {
			stmt.Returns = append(stmt.Returns, &ast.Identifier{Token: first, Value: first.Literal})
			p.nextToken() // consume return name
			p.nextToken() // consume =
			if !p.curIs(lexer.IDENT) {
				p.addError(p.curToken(), "expected function name")
				p.synchronize()
				return nil
			}
			stmt.Name = p.curToken().Literal
			p.nextToken()
		} else {
			stmt.Name = first.Literal
			p.nextToken()
		}
	default:
		p.addError(p.curToken(), "expected function name")
		p.synchronize()
		return nil
	}

	if p.curIs(lexer.LPAREN) {
		p.nextToken()
		for p.curIs(lexer.IDENT) || p.curIs(lexer.NOT) {
			if p.curIs(lexer.NOT) {
				// ~ marks an ignored parameter slot.
				stmt.Params = append(stmt.Params, &ast.Identifier{Token: p.curToken(), Value: "~"})
			} else {
				stmt.Params = append(stmt.Params, &ast.Identifier{Token: p.curToken(), Value: p.curToken().Literal})
			}
			p.nextToken()
			if p.curIs(lexer.COMMA) {
				p.nextToken()
			}
		}
		p.expect(lexer.RPAREN)
	}
	p.parseSeparator()

	stmt.Body = p.parseBlock()
	if p.curIs(lexer.END) {
		p.nextToken()
	}
	return stmt
}
