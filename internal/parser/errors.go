package parser

import (
	"fmt"

	"github.com/cwbudde/go-mlab/internal/lexer"
)

// ParseError represents a syntax error with the offending lexeme and its
// source position.
type ParseError struct {
	Message string
	Lexeme  string
	Pos     lexer.Position
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Lexeme != "" {
		return fmt.Sprintf("parse error at %s near '%s': %s", e.Pos, e.Lexeme, e.Message)
	}
	return fmt.Sprintf("parse error at %s: %s", e.Pos, e.Message)
}
