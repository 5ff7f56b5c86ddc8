// Package errors formats engine errors with source context: the
// offending line and a caret pointing at the error column.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/cwbudde/go-mlab/internal/interp/runtime"
	"github.com/cwbudde/go-mlab/internal/lexer"
	"github.com/cwbudde/go-mlab/internal/parser"
)

// SourceError is an engine error paired with the source it came from,
// ready for terminal display.
type SourceError struct {
	Kind    string // "lexical", "parse" or "runtime"
	Message string
	Pos     lexer.Position
	HasPos  bool
	Source  string
	File    string
}

// Wrap classifies an error returned by the engine and attaches source
// context. Runtime errors carry no position.
func Wrap(err error, source, file string) *SourceError {
	switch e := err.(type) {
	case *lexer.LexerError:
		return &SourceError{Kind: "lexical", Message: e.Message, Pos: e.Pos, HasPos: true, Source: source, File: file}
	case *parser.ParseError:
		msg := e.Message
		if e.Lexeme != "" {
			msg = fmt.Sprintf("%s (near '%s')", e.Message, e.Lexeme)
		}
		return &SourceError{Kind: "parse", Message: msg, Pos: e.Pos, HasPos: true, Source: source, File: file}
	case *runtime.RuntimeError:
		return &SourceError{Kind: "runtime", Message: e.Message, Source: source, File: file}
	}
	return &SourceError{Kind: "runtime", Message: err.Error(), Source: source, File: file}
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return e.Format(false)
}

// Format renders the error, optionally with ANSI colors.
func (e *SourceError) Format(colored bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s error", e.Kind)
	if e.HasPos {
		if e.File != "" {
			header = fmt.Sprintf("%s error in %s:%d:%d", e.Kind, e.File, e.Pos.Line, e.Pos.Column)
		} else {
			header = fmt.Sprintf("%s error at line %d:%d", e.Kind, e.Pos.Line, e.Pos.Column)
		}
	}
	if colored {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	if e.HasPos {
		if line := sourceLine(e.Source, e.Pos.Line); line != "" {
			prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
			caret := "^"
			if colored {
				caret = color.New(color.FgRed, color.Bold).Sprint(caret)
			}
			sb.WriteString(caret)
			sb.WriteString("\n")
		}
	}

	sb.WriteString(e.Message)
	return sb.String()
}

// sourceLine extracts a 1-indexed line from the source.
func sourceLine(source string, lineNum int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
