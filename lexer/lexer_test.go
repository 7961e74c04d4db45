package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/arrow/errors"
	"github.com/pontaoski/arrow/internal/test"
	"github.com/pontaoski/arrow/types"
)

type kindText struct {
	Kind types.TokenKind
	Text string
}

func lexKinds(t *testing.T, src string) []kindText {
	t.Helper()

	toks, err := NewLexer(src, "test").LexAll()
	require.NoError(t, err)

	var out []kindText
	for _, tok := range toks {
		if tok.Kind == types.EOF {
			break
		}
		out = append(out, kindText{tok.Kind, tok.Location.Text})
	}
	return out
}

func TestLexer(t *testing.T) {
	cases := []struct {
		data   string
		expect []kindText
	}{
		{
			"def main[] -> { 1 }",
			[]kindText{
				{types.DEF, "def"},
				{types.IDENT, "main"},
				{types.LBRACKET, "["},
				{types.RBRACKET, "]"},
				{types.ARROW, "->"},
				{types.LBRACE, "{"},
				{types.INT, "1"},
				{types.RBRACE, "}"},
			},
		},
		{
			"a == b != c < d <= e > f >= g && h || i",
			[]kindText{
				{types.IDENT, "a"}, {types.EQEQ, "=="},
				{types.IDENT, "b"}, {types.NOTEQ, "!="},
				{types.IDENT, "c"}, {types.LT, "<"},
				{types.IDENT, "d"}, {types.LTEQ, "<="},
				{types.IDENT, "e"}, {types.GT, ">"},
				{types.IDENT, "f"}, {types.GTEQ, ">="},
				{types.IDENT, "g"}, {types.ANDAND, "&&"},
				{types.IDENT, "h"}, {types.OROR, "||"},
				{types.IDENT, "i"},
			},
		},
		{
			"= ! . ,",
			[]kindText{
				{types.EQUALS, "="},
				{types.BANG, "!"},
				{types.PERIOD, "."},
				{types.COMMA, ","},
			},
		},
		{
			"x - 1 x -1 x->y",
			[]kindText{
				{types.IDENT, "x"}, {types.MINUS, "-"}, {types.INT, "1"},
				{types.IDENT, "x"}, {types.INT, "-1"},
				{types.IDENT, "x"}, {types.ARROW, "->"}, {types.IDENT, "y"},
			},
		},
		{
			"3.14 -2.5 10 007",
			[]kindText{
				{types.FLOAT, "3.14"},
				{types.FLOAT, "-2.5"},
				{types.INT, "10"},
				{types.INT, "007"},
			},
		},
		{
			"# leading comment\nlet # trailing\n  if else _under score9 #eof",
			[]kindText{
				{types.LET, "let"},
				{types.IF, "if"},
				{types.ELSE, "else"},
				{types.IDENT, "_under"},
				{types.IDENT, "score9"},
			},
		},
		{
			"definitely letter iff elsewhere",
			[]kindText{
				{types.IDENT, "definitely"},
				{types.IDENT, "letter"},
				{types.IDENT, "iff"},
				{types.IDENT, "elsewhere"},
			},
		},
		{
			"p.x",
			[]kindText{
				{types.IDENT, "p"}, {types.PERIOD, "."}, {types.IDENT, "x"},
			},
		},
		{
			"",
			nil,
		},
	}

	for _, c := range cases {
		assert.Equal(t, c.expect, lexKinds(t, c.data), c.data)
	}
}

func TestLexerPositions(t *testing.T) {
	toks, err := NewLexer("def f[]\n  -> { 12 }", "pos.arrow").LexAll()
	require.NoError(t, err)
	require.Len(t, toks, 9)

	assert.Equal(t, types.Position{Line: 1, Column: 1, Filename: "pos.arrow"}, toks[0].Location.From)
	assert.Equal(t, types.Position{Line: 1, Column: 3, Filename: "pos.arrow"}, toks[0].Location.To)

	arrow := toks[4]
	assert.Equal(t, types.ARROW, arrow.Kind)
	assert.Equal(t, 2, arrow.Location.From.Line)
	assert.Equal(t, 3, arrow.Location.From.Column)

	num := toks[6]
	assert.Equal(t, "12", num.Location.Text)
	assert.Equal(t, 15, num.Location.Offset)
	assert.Equal(t, 8, num.Location.From.Column)
	assert.Equal(t, 9, num.Location.To.Column)

	assert.Equal(t, types.EOF, toks[8].Kind)
}

func TestLexerErrors(t *testing.T) {
	cases := []struct {
		data   string
		expect interface{}
		text   string
	}{
		{"1.", errors.MalformedFloat{}, "1."},
		{"-3. x", errors.MalformedFloat{}, "-3."},
		{"a & b", errors.LoneOperator{}, "&"},
		{"a | b", errors.LoneOperator{}, "|"},
		{"x @foo$ y", errors.GarbageToken{}, "@foo$"},
		{"\n  ~", errors.GarbageToken{}, "~"},
	}

	for _, c := range cases {
		_, err := NewLexer(c.data, "test").LexAll()
		require.Error(t, err, c.data)

		switch e := tracerr.Unwrap(err).(type) {
		case errors.MalformedFloat:
			assert.IsType(t, c.expect, e)
			assert.Equal(t, c.text, e.Location.Text)
		case errors.LoneOperator:
			assert.IsType(t, c.expect, e)
			assert.Equal(t, c.text, e.Location.Text)
		case errors.GarbageToken:
			assert.IsType(t, c.expect, e)
			assert.Equal(t, c.text, e.Location.Text)
		default:
			t.Fatalf("%q: unexpected error %T: %v", c.data, e, e)
		}
	}
}

func TestGarbagePosition(t *testing.T) {
	_, err := NewLexer("def\n   $$", "test").LexAll()
	require.Error(t, err)

	e, ok := tracerr.Unwrap(err).(errors.GarbageToken)
	require.True(t, ok)
	assert.Equal(t, 2, e.Location.From.Line)
	assert.Equal(t, 4, e.Location.From.Column)
	assert.Contains(t, e.Error(), "[2:4]")
}

func TestSpansReproduceSource(t *testing.T) {
	for i := 0; i < 50; i++ {
		src := test.GetRandomTokensWithSep(200, "\n \t")
		toks, err := NewLexer(src, "random").LexAll()
		require.NoError(t, err)

		var got strings.Builder
		for _, tok := range toks {
			got.WriteString(tok.Location.Text)
		}

		expect := strings.Join(strings.Fields(src), "")
		assert.Equal(t, expect, got.String())
	}
}

func TestSpansSkipComments(t *testing.T) {
	src := "def # a comment ->\nmain[] # another\n-> {1}"
	toks, err := NewLexer(src, "test").LexAll()
	require.NoError(t, err)

	var got strings.Builder
	for _, tok := range toks {
		got.WriteString(tok.Location.Text)
	}
	assert.Equal(t, "defmain[]->{1}", got.String())
}

func TestLexAfterEOF(t *testing.T) {
	l := NewLexer("x", "test")

	tok, err := l.Lex()
	require.NoError(t, err)
	assert.Equal(t, types.IDENT, tok.Kind)

	for i := 0; i < 3; i++ {
		tok, err = l.Lex()
		require.NoError(t, err)
		assert.Equal(t, types.EOF, tok.Kind)
	}
}

// Use a package-level variable to avoid compiler optimisation
var benchResult []types.Token

func benchmarkLexer(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		l := NewLexer(test.GetRandomTokens(size), "bench")

		var err error
		b.StartTimer()

		benchResult, err = l.LexAll()
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLexer100(b *testing.B) {
	benchmarkLexer(100, b)
}

func BenchmarkLexer10000(b *testing.B) {
	benchmarkLexer(10000, b)
}

func BenchmarkLexer1000000(b *testing.B) {
	benchmarkLexer(1000000, b)
}
