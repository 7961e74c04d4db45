package ast

import (
	"strconv"
	"strings"

	"github.com/pontaoski/arrow/types"
)

const indentUnit = "    "

func joinSpans(spans []types.Span) string {
	var names []string
	for _, s := range spans {
		names = append(names, s.Text)
	}
	return strings.Join(names, ", ")
}

func (v *IntLiteral) String() string {
	return strconv.FormatInt(v.Value, 10)
}

func (v *FloatLiteral) String() string {
	s := strconv.FormatFloat(v.Value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (v *Var) String() string {
	return v.Name.Text
}

func (v *Call) String() string {
	var args []string
	for _, arg := range v.Arguments {
		args = append(args, ExprString(arg))
	}
	return v.Callee.Text + "[" + strings.Join(args, ", ") + "]"
}

// operand parenthesises nested binaries so that printing never depends on
// precedence rules.
func operand(e Expression) string {
	if _, ok := e.(*Binary); ok {
		return "(" + ExprString(e) + ")"
	}
	return ExprString(e)
}

func (v *Binary) String() string {
	return operand(v.Left) + " " + string(v.Operation) + " " + operand(v.Right)
}

func (v *Field) String() string {
	return operand(v.Of) + "." + v.Name.Text
}

func ExprString(e Expression) string {
	switch expr := e.(type) {
	case *IntLiteral:
		return expr.String()
	case *FloatLiteral:
		return expr.String()
	case *Var:
		return expr.String()
	case *Call:
		return expr.String()
	case *Binary:
		return expr.String()
	case *Field:
		return expr.String()
	}

	panic("unhandled expression")
}

type printer struct {
	strings.Builder
	depth int
}

func (p *printer) line(s string) {
	p.WriteString(strings.Repeat(indentUnit, p.depth))
	p.WriteString(s)
	p.WriteString("\n")
}

func (p *printer) block(b *Block) {
	p.depth++
	for _, stmt := range b.Statements {
		p.statement(stmt)
	}
	p.depth--
}

func (p *printer) statement(s Statement) {
	switch stmt := s.(type) {
	case *ExprStatement:
		p.line(ExprString(stmt.Expression))
	case *LetBlock:
		var assigns []string
		for _, a := range stmt.Assignments {
			assigns = append(assigns, a.To.Text+" -> "+ExprString(a.Value))
		}
		p.line("let [" + joinSpans(stmt.Names) + "] -> { " + strings.Join(assigns, ", ") + " }")
	case *If:
		p.line("if " + ExprString(stmt.Condition) + " {")
		p.block(stmt.Then)
		p.line("} else {")
		p.block(stmt.Else)
		p.line("}")
	default:
		panic("unhandled statement")
	}
}

func (p *printer) decl(d Decl) {
	switch decl := d.(type) {
	case *FuncDecl:
		p.line("def " + decl.Name.Text + "[" + joinSpans(decl.Params) + "] -> {")
		p.block(decl.Body)
		p.line("}")
	case *RecordDecl:
		p.line("def " + decl.Name.Text + "[" + joinSpans(decl.Fields) + "]")
	default:
		panic("unhandled declaration")
	}
}

// String renders the module back to canonical source text.
func (m *Module) String() string {
	var p printer
	for i, d := range m.Decls {
		if i > 0 {
			p.WriteString("\n")
		}
		p.decl(d)
	}
	return p.String()
}
