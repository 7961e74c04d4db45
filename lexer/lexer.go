package lexer

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/arrow/errors"
	"github.com/pontaoski/arrow/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/arrow", "lexer")

// Lexer is a single-pass cursor over one source buffer. Each Lexer owns its
// own position, so several may run side by side.
type Lexer struct {
	source string
	off    int
	pos    types.Position
	last   types.Position
}

func NewLexer(source string, filename string) *Lexer {
	return &Lexer{
		source: source,
		pos:    types.Position{Line: 1, Column: 1, Filename: filename},
	}
}

func (l *Lexer) eof() bool {
	return l.off >= len(l.source)
}

func (l *Lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.source[l.off]
}

func (l *Lexer) advance() {
	l.last = l.pos
	if l.source[l.off] == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}
	l.off++
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func firstChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func otherChar(c byte) bool {
	return firstChar(c) || isDigit(c)
}

func (l *Lexer) skipBlank() {
	for !l.eof() {
		switch c := l.peek(); {
		case isSpace(c):
			l.advance()
		case c == '#':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) span(start int, from types.Position) types.Span {
	return types.Span{
		Text:   l.source[start:l.off],
		Offset: start,
		From:   from,
		To:     l.last,
	}
}

func (l *Lexer) kinded(k types.TokenKind, start int, from types.Position) types.Token {
	return types.Token{Kind: k, Location: l.span(start, from)}
}

// lexNumber expects the cursor on the first digit; a leading '-' has already
// been consumed by the caller when present.
func (l *Lexer) lexNumber(start int, from types.Position) (types.Token, error) {
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() != '.' {
		return l.kinded(types.INT, start, from), nil
	}
	l.advance()

	mantissa := 0
	for isDigit(l.peek()) {
		l.advance()
		mantissa++
	}
	if mantissa == 0 {
		return types.Token{}, tracerr.Wrap(errors.MalformedFloat{Location: l.span(start, from)})
	}

	return l.kinded(types.FLOAT, start, from), nil
}

func (l *Lexer) lexIdent(start int, from types.Position) types.Token {
	for otherChar(l.peek()) {
		l.advance()
	}

	tok := l.kinded(types.IDENT, start, from)
	if kind, ok := types.Keywords[tok.Location.Text]; ok {
		tok.Kind = kind
	}
	return tok
}

// doubled handles the operators whose meaning depends on a second character.
func (l *Lexer) doubled(second byte, two, one types.TokenKind, start int, from types.Position) types.Token {
	if l.peek() == second {
		l.advance()
		return l.kinded(two, start, from)
	}
	return l.kinded(one, start, from)
}

var punctuation = map[byte]types.TokenKind{
	'(': types.LPAREN,
	')': types.RPAREN,
	'[': types.LBRACKET,
	']': types.RBRACKET,
	'{': types.LBRACE,
	'}': types.RBRACE,
	',': types.COMMA,
	'.': types.PERIOD,
	'+': types.PLUS,
	'*': types.STAR,
	'/': types.SLASH,
}

// Lex returns the next token. Once the input is exhausted it keeps returning
// EOF tokens.
func (l *Lexer) Lex() (types.Token, error) {
	l.skipBlank()

	start, from := l.off, l.pos
	if l.eof() {
		return types.Token{
			Kind:     types.EOF,
			Location: types.Span{Offset: start, From: from, To: from},
		}, nil
	}

	c := l.peek()
	if kind, ok := punctuation[c]; ok {
		l.advance()
		return l.kinded(kind, start, from), nil
	}

	switch c {
	case '=':
		l.advance()
		return l.doubled('=', types.EQEQ, types.EQUALS, start, from), nil
	case '!':
		l.advance()
		return l.doubled('=', types.NOTEQ, types.BANG, start, from), nil
	case '<':
		l.advance()
		return l.doubled('=', types.LTEQ, types.LT, start, from), nil
	case '>':
		l.advance()
		return l.doubled('=', types.GTEQ, types.GT, start, from), nil
	case '&', '|':
		l.advance()
		if l.peek() != c {
			return types.Token{}, tracerr.Wrap(errors.LoneOperator{
				Operator: string(c),
				Location: l.span(start, from),
			})
		}
		l.advance()
		if c == '&' {
			return l.kinded(types.ANDAND, start, from), nil
		}
		return l.kinded(types.OROR, start, from), nil
	case '-':
		l.advance()
		switch {
		case isDigit(l.peek()):
			return l.lexNumber(start, from)
		case l.peek() == '>':
			l.advance()
			return l.kinded(types.ARROW, start, from), nil
		}
		return l.kinded(types.MINUS, start, from), nil
	}

	switch {
	case isDigit(c):
		return l.lexNumber(start, from)
	case firstChar(c):
		return l.lexIdent(start, from), nil
	}

	for !l.eof() && !isSpace(l.peek()) {
		l.advance()
	}
	return types.Token{}, tracerr.Wrap(errors.GarbageToken{Location: l.span(start, from)})
}

// LexAll scans the whole buffer. The returned slice always ends with exactly
// one EOF token.
func (l *Lexer) LexAll() ([]types.Token, error) {
	var tokens []types.Token
	for {
		tok, err := l.Lex()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
		if tok.Kind == types.EOF {
			break
		}
	}

	plog.Debugf("%s: lexed %d tokens", l.pos.Filename, len(tokens)-1)
	return tokens, nil
}
