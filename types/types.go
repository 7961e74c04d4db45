package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

// Span is a view into the source buffer. Text shares memory with the source
// string it was sliced from.
type Span struct {
	Text   string
	Offset int
	From   Position
	To     Position
}

type TokenKind int

const (
	EOF TokenKind = iota

	INT
	FLOAT
	IDENT

	DEF
	LET
	IF
	ELSE

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	PERIOD
	BANG
	EQUALS

	PLUS
	MINUS
	STAR
	SLASH

	EQEQ
	NOTEQ
	LT
	LTEQ
	GT
	GTEQ
	ANDAND
	OROR

	ARROW
)

var kindNames = map[TokenKind]string{
	EOF:      "EOF",
	INT:      "INT",
	FLOAT:    "FLOAT",
	IDENT:    "IDENT",
	DEF:      "DEF",
	LET:      "LET",
	IF:       "IF",
	ELSE:     "ELSE",
	LPAREN:   "LPAREN",
	RPAREN:   "RPAREN",
	LBRACKET: "LBRACKET",
	RBRACKET: "RBRACKET",
	LBRACE:   "LBRACE",
	RBRACE:   "RBRACE",
	COMMA:    "COMMA",
	PERIOD:   "PERIOD",
	BANG:     "BANG",
	EQUALS:   "EQUALS",
	PLUS:     "PLUS",
	MINUS:    "MINUS",
	STAR:     "STAR",
	SLASH:    "SLASH",
	EQEQ:     "EQEQ",
	NOTEQ:    "NOTEQ",
	LT:       "LT",
	LTEQ:     "LTEQ",
	GT:       "GT",
	GTEQ:     "GTEQ",
	ANDAND:   "ANDAND",
	OROR:     "OROR",
	ARROW:    "ARROW",
}

func (t TokenKind) String() string {
	if name, ok := kindNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

var Keywords = map[string]TokenKind{
	"def":  DEF,
	"let":  LET,
	"if":   IF,
	"else": ELSE,
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

// Equals compares the spanned text, never the location it came from.
func (s Span) Equals(o Span) bool {
	return s.Text == o.Text
}

func (s Span) Len() int {
	return len(s.Text)
}

// NewSpan builds a span for generated names that do not come from a source
// buffer, such as the entry point name.
func NewSpan(text string) Span {
	return Span{Text: text}
}

func SingleCharSpan(p Position) Span {
	return Span{From: p, To: p}
}

type Token struct {
	Kind     TokenKind
	Location Span
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Location.Text)
}
