package ast

import (
	"bytes"
	"strings"

	"github.com/cwbudde/go-mlab/internal/lexer"
)

func writeBlock(out *bytes.Buffer, body []Statement) {
	for _, stmt := range body {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
}

// ExpressionStatement wraps an expression used as a statement.
// PrintResult records whether the trailing separator requests the result
// to be displayed (comma or newline) or suppressed (semicolon).
type ExpressionStatement struct {
	Token       lexer.Token // The first token of the expression
	Expression  Expression
	PrintResult bool
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	s := es.Expression.String()
	if !es.PrintResult {
		s += ";"
	}
	return s
}
func (es *ExpressionStatement) Pos() lexer.Position { return es.Token.Pos }

// AssignStatement represents a single assignment. The target is an
// identifier, an indexing call, a cell index, or a field access.
type AssignStatement struct {
	Token       lexer.Token // The = token
	Target      Expression
	Value       Expression
	PrintResult bool
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	s := as.Target.String() + " = " + as.Value.String()
	if !as.PrintResult {
		s += ";"
	}
	return s
}
func (as *AssignStatement) Pos() lexer.Position { return as.Token.Pos }

// MultiAssignStatement represents [a, b, ...] = f(...). A nil entry in
// Targets is a ~ discard slot.
type MultiAssignStatement struct {
	Token       lexer.Token // The [ token
	Targets     []Expression
	Value       Expression
	PrintResult bool
}

func (ms *MultiAssignStatement) statementNode()       {}
func (ms *MultiAssignStatement) TokenLiteral() string { return ms.Token.Literal }
func (ms *MultiAssignStatement) String() string {
	var targets []string
	for _, t := range ms.Targets {
		if t == nil {
			targets = append(targets, "~")
		} else {
			targets = append(targets, t.String())
		}
	}
	s := "[" + strings.Join(targets, ", ") + "] = " + ms.Value.String()
	if !ms.PrintResult {
		s += ";"
	}
	return s
}
func (ms *MultiAssignStatement) Pos() lexer.Position { return ms.Token.Pos }

// IfClause is one branch of an if/elseif/else chain. The final else
// branch has a nil Condition.
type IfClause struct {
	Condition Expression // nil for else
	Body      []Statement
}

// IfStatement represents an if/elseif/else chain.
type IfStatement struct {
	Token   lexer.Token // The if token
	Clauses []IfClause
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	for i, clause := range is.Clauses {
		switch {
		case i == 0:
			out.WriteString("if " + clause.Condition.String() + "\n")
		case clause.Condition != nil:
			out.WriteString("elseif " + clause.Condition.String() + "\n")
		default:
			out.WriteString("else\n")
		}
		writeBlock(&out, clause.Body)
	}
	out.WriteString("end")
	return out.String()
}
func (is *IfStatement) Pos() lexer.Position { return is.Token.Pos }

// ForStatement represents a for loop. The range expression is evaluated
// once to a matrix; iteration proceeds over its columns.
type ForStatement struct {
	Token lexer.Token // The for token
	Var   *Identifier
	Range Expression
	Body  []Statement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	out.WriteString("for " + fs.Var.Value + " = " + fs.Range.String() + "\n")
	writeBlock(&out, fs.Body)
	out.WriteString("end")
	return out.String()
}
func (fs *ForStatement) Pos() lexer.Position { return fs.Token.Pos }

// WhileStatement represents a while loop.
type WhileStatement struct {
	Token     lexer.Token // The while token
	Condition Expression
	Body      []Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	var out bytes.Buffer
	out.WriteString("while " + ws.Condition.String() + "\n")
	writeBlock(&out, ws.Body)
	out.WriteString("end")
	return out.String()
}
func (ws *WhileStatement) Pos() lexer.Position { return ws.Token.Pos }

// SwitchCase is one case of a switch statement. A cell-literal value
// matches any of its elements.
type SwitchCase struct {
	Value Expression
	Body  []Statement
}

// SwitchStatement represents a switch with cases and an optional
// otherwise block. There is no fall-through.
type SwitchStatement struct {
	Token     lexer.Token // The switch token
	Subject   Expression
	Cases     []SwitchCase
	Otherwise []Statement // nil when absent
}

func (ss *SwitchStatement) statementNode()       {}
func (ss *SwitchStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch " + ss.Subject.String() + "\n")
	for _, c := range ss.Cases {
		out.WriteString("case " + c.Value.String() + "\n")
		writeBlock(&out, c.Body)
	}
	if ss.Otherwise != nil {
		out.WriteString("otherwise\n")
		writeBlock(&out, ss.Otherwise)
	}
	out.WriteString("end")
	return out.String()
}
func (ss *SwitchStatement) Pos() lexer.Position { return ss.Token.Pos }

// TryStatement represents try/catch. CatchVar, when present, receives a
// struct with message and identifier fields.
type TryStatement struct {
	Token    lexer.Token // The try token
	Body     []Statement
	CatchVar *Identifier // nil when the catch binds no variable
	Catch    []Statement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try\n")
	writeBlock(&out, ts.Body)
	out.WriteString("catch")
	if ts.CatchVar != nil {
		out.WriteString(" " + ts.CatchVar.Value)
	}
	out.WriteString("\n")
	writeBlock(&out, ts.Catch)
	out.WriteString("end")
	return out.String()
}
func (ts *TryStatement) Pos() lexer.Position { return ts.Token.Pos }

// BreakStatement terminates the innermost loop.
type BreakStatement struct {
	Token lexer.Token // The break token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string       { return "break" }
func (bs *BreakStatement) Pos() lexer.Position  { return bs.Token.Pos }

// ContinueStatement skips to the next iteration of the innermost loop.
type ContinueStatement struct {
	Token lexer.Token // The continue token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string       { return "continue" }
func (cs *ContinueStatement) Pos() lexer.Position  { return cs.Token.Pos }

// ReturnStatement exits the current function.
type ReturnStatement struct {
	Token lexer.Token // The return token
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string       { return "return" }
func (rs *ReturnStatement) Pos() lexer.Position  { return rs.Token.Pos }

// GlobalStatement declares names as referring to the root scope.
type GlobalStatement struct {
	Token lexer.Token // The global token
	Names []*Identifier
}

func (gs *GlobalStatement) statementNode()       {}
func (gs *GlobalStatement) TokenLiteral() string { return gs.Token.Literal }
func (gs *GlobalStatement) String() string {
	var names []string
	for _, n := range gs.Names {
		names = append(names, n.Value)
	}
	return "global " + strings.Join(names, " ")
}
func (gs *GlobalStatement) Pos() lexer.Position { return gs.Token.Pos }

// PersistentStatement declares names whose values survive across calls to
// the enclosing function.
type PersistentStatement struct {
	Token lexer.Token // The persistent token
	Names []*Identifier
}

func (ps *PersistentStatement) statementNode()       {}
func (ps *PersistentStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PersistentStatement) String() string {
	var names []string
	for _, n := range ps.Names {
		names = append(names, n.Value)
	}
	return "persistent " + strings.Join(names, " ")
}
func (ps *PersistentStatement) Pos() lexer.Position { return ps.Token.Pos }

// FunctionDecl represents a named function definition.
type FunctionDecl struct {
	Token   lexer.Token // The function token
	Name    string
	Params  []*Identifier
	Returns []*Identifier
	Body    []Statement
}

func (fd *FunctionDecl) statementNode()       {}
func (fd *FunctionDecl) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDecl) String() string {
	var out bytes.Buffer
	out.WriteString("function ")
	switch len(fd.Returns) {
	case 0:
	case 1:
		out.WriteString(fd.Returns[0].Value + " = ")
	default:
		var rets []string
		for _, r := range fd.Returns {
			rets = append(rets, r.Value)
		}
		out.WriteString("[" + strings.Join(rets, ", ") + "] = ")
	}
	var params []string
	for _, p := range fd.Params {
		params = append(params, p.Value)
	}
	out.WriteString(fd.Name + "(" + strings.Join(params, ", ") + ")\n")
	writeBlock(&out, fd.Body)
	out.WriteString("end")
	return out.String()
}
func (fd *FunctionDecl) Pos() lexer.Position { return fd.Token.Pos }
