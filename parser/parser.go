package parser

import (
	"runtime"
	"strconv"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/arrow/ast"
	"github.com/pontaoski/arrow/errors"
	"github.com/pontaoski/arrow/lexer"
	"github.com/pontaoski/arrow/types"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/arrow", "parser")

// Parser reads a fixed token slice with one token of lookahead. The slice must
// end with an EOF token, as lexer.LexAll produces.
type Parser struct {
	tokens []types.Token
	cursor int
	module *ast.Module
}

func NewParser(tokens []types.Token, filename string) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != types.EOF {
		tokens = append(tokens, types.Token{Kind: types.EOF})
	}

	return &Parser{
		tokens: tokens,
		module: ast.NewModule(filename),
	}
}

// ParseSource lexes and parses a complete source buffer.
func ParseSource(source string, filename string) (*ast.Module, error) {
	tokens, err := lexer.NewLexer(source, filename).LexAll()
	if err != nil {
		return nil, err
	}

	return NewParser(tokens, filename).Parse()
}

// Parse consumes every token. Syntax errors abort parsing; no partial module
// is returned.
func (p *Parser) Parse() (m *ast.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if _, isRuntime := r.(runtime.Error); !ok || isRuntime {
				panic(r)
			}
			m, err = nil, tracerr.Wrap(rerr)
		}
	}()

	for !p.peekIs(types.EOF) {
		p.module.Add(p.parseDecl())
	}

	plog.Debugf("%s: parsed %d declarations", p.module.Filename, len(p.module.Decls))
	return p.module, nil
}

func (p *Parser) peek() types.Token {
	return p.tokens[p.cursor]
}

func (p *Parser) peekIs(k ...types.TokenKind) bool {
	tok := p.peek()
	for _, kind := range k {
		if tok.Kind == kind {
			return true
		}
	}

	return false
}

func (p *Parser) lex() types.Token {
	tok := p.tokens[p.cursor]
	if tok.Kind != types.EOF {
		p.cursor++
	}
	return tok
}

func (p *Parser) lexExpecting(k ...types.TokenKind) types.Token {
	tok := p.lex()
	for _, kind := range k {
		if tok.Kind == kind {
			return tok
		}
	}

	if tok.Kind == types.EOF {
		panic(errors.UnexpectedEOF{
			Expected: k,
			Location: tok.Location,
		})
	}
	panic(errors.UnexpectedToken{
		Expected: k,
		Got:      tok,
	})
}

// parseIdents reads `id (, id)*` up to, but not including, the closing
// bracket. An empty list is allowed only when allowEmpty is set.
func (p *Parser) parseIdents(allowEmpty bool) (ids []types.Span) {
	if allowEmpty && p.peekIs(types.RBRACKET) {
		return nil
	}

	for {
		ids = append(ids, p.lexExpecting(types.IDENT).Location)
		if !p.peekIs(types.COMMA) {
			return
		}
		p.lex()
	}
}

func (p *Parser) parseDecl() ast.Decl {
	p.lexExpecting(types.DEF)
	name := p.lexExpecting(types.IDENT).Location

	p.lexExpecting(types.LBRACKET)
	params := p.parseIdents(true)
	p.lexExpecting(types.RBRACKET)

	if !p.peekIs(types.ARROW) {
		return &ast.RecordDecl{
			Name:   name,
			Fields: params,
		}
	}
	p.lex()

	return &ast.FuncDecl{
		Name:   name,
		Params: params,
		Body:   p.parseBlock(),
	}
}

func (p *Parser) parseBlock() *ast.Block {
	open := p.lexExpecting(types.LBRACE)
	block := &ast.Block{Pos: open.Location}

	for !p.peekIs(types.RBRACE) {
		if p.peekIs(types.EOF) {
			break
		}
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.lexExpecting(types.RBRACE)

	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.peekIs(types.LET):
		return p.parseLetBlock()
	case p.peekIs(types.IF):
		return p.parseIf()
	default:
		return &ast.ExprStatement{Expression: p.parseExpression()}
	}
}

func (p *Parser) parseLetBlock() *ast.LetBlock {
	p.lexExpecting(types.LET)

	p.lexExpecting(types.LBRACKET)
	let := &ast.LetBlock{Names: p.parseIdents(false)}
	p.lexExpecting(types.RBRACKET)

	p.lexExpecting(types.ARROW)
	p.lexExpecting(types.LBRACE)
	for {
		to := p.lexExpecting(types.IDENT).Location
		p.lexExpecting(types.ARROW)

		let.Assignments = append(let.Assignments, ast.Assignment{
			To:    to,
			Value: p.parseExpression(),
		})

		if !p.peekIs(types.COMMA) {
			break
		}
		p.lex()
	}
	p.lexExpecting(types.RBRACE)

	return let
}

func (p *Parser) parseIf() *ast.If {
	tok := p.lexExpecting(types.IF)
	cond := p.parseExpression()
	then := p.parseBlock()
	p.lexExpecting(types.ELSE)

	return &ast.If{
		Condition: cond,
		Then:      then,
		Else:      p.parseBlock(),
		Pos:       tok.Location,
	}
}

var comparisonOps = map[types.TokenKind]ast.BinaryOp{
	types.EQEQ:   ast.BinaryEq,
	types.NOTEQ:  ast.BinaryNeq,
	types.GT:     ast.BinaryGt,
	types.LT:     ast.BinaryLt,
	types.GTEQ:   ast.BinaryGte,
	types.LTEQ:   ast.BinaryLte,
	types.ANDAND: ast.BinaryAnd,
	types.OROR:   ast.BinaryOr,
}

var additiveOps = map[types.TokenKind]ast.BinaryOp{
	types.PLUS:  ast.BinaryAdd,
	types.MINUS: ast.BinarySub,
}

var multiplicativeOps = map[types.TokenKind]ast.BinaryOp{
	types.STAR:  ast.BinaryMul,
	types.SLASH: ast.BinaryDiv,
}

// binaryLevel parses one left-associative precedence level.
func (p *Parser) binaryLevel(ops map[types.TokenKind]ast.BinaryOp, next func() ast.Expression) ast.Expression {
	lhs := next()

	for {
		op, ok := ops[p.peek().Kind]
		if !ok {
			return lhs
		}
		tok := p.lex()

		lhs = &ast.Binary{
			Operation: op,
			Left:      lhs,
			Right:     next(),
			Pos:       tok.Location,
		}
	}
}

func (p *Parser) parseExpression() ast.Expression {
	return p.binaryLevel(comparisonOps, p.parseTerm)
}

func (p *Parser) parseTerm() ast.Expression {
	return p.binaryLevel(additiveOps, p.parseFactor)
}

func (p *Parser) parseFactor() ast.Expression {
	return p.binaryLevel(multiplicativeOps, p.parsePrimary)
}

func (p *Parser) parsePrimary() ast.Expression {
	expr := p.parseAtom()

	for p.peekIs(types.PERIOD) {
		p.lex()
		expr = &ast.Field{
			Of:   expr,
			Name: p.lexExpecting(types.IDENT).Location,
		}
	}

	return expr
}

func (p *Parser) parseAtom() ast.Expression {
	tok := p.lexExpecting(types.LPAREN, types.INT, types.FLOAT, types.IDENT)

	switch tok.Kind {
	case types.LPAREN:
		expr := p.parseExpression()
		p.lexExpecting(types.RPAREN)
		return expr
	case types.INT:
		v, err := strconv.ParseInt(tok.Location.Text, 10, 64)
		if err != nil {
			panic(errors.InvalidLiteral{Location: tok.Location, Reason: err})
		}
		return &ast.IntLiteral{Value: v, Pos: tok.Location}
	case types.FLOAT:
		v, err := strconv.ParseFloat(tok.Location.Text, 64)
		if err != nil {
			panic(errors.InvalidLiteral{Location: tok.Location, Reason: err})
		}
		return &ast.FloatLiteral{Value: v, Pos: tok.Location}
	}

	if !p.peekIs(types.LBRACKET) {
		return &ast.Var{Name: tok.Location}
	}
	p.lex()

	call := &ast.Call{Callee: tok.Location}
	if !p.peekIs(types.RBRACKET) {
		for {
			call.Arguments = append(call.Arguments, p.parseExpression())
			if !p.peekIs(types.COMMA) {
				break
			}
			p.lex()
		}
	}
	p.lexExpecting(types.RBRACKET)

	return call
}
