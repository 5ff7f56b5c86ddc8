package lexer

import "fmt"

// LexerError represents a lexical error with its source position.
type LexerError struct {
	Message string
	Pos     Position
}

// Error implements the error interface.
func (e *LexerError) Error() string {
	return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Message)
}
