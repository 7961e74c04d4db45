package interpreter

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/pontaoski/arrow/ast"
	"github.com/pontaoski/arrow/errors"
	"github.com/pontaoski/arrow/parser"
	"github.com/pontaoski/arrow/types"
)

type program struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Result   int64  `yaml:"result"`
	Output   string `yaml:"output"`
	Error    string `yaml:"error"`
	MaxDepth int    `yaml:"max-depth"`
}

func loadPrograms(t *testing.T) []program {
	t.Helper()

	data, err := os.ReadFile("testdata/programs.yaml")
	require.NoError(t, err)

	var programs []program
	require.NoError(t, yaml.Unmarshal(data, &programs))
	require.NotEmpty(t, programs)
	return programs
}

func TestPrograms(t *testing.T) {
	for _, p := range loadPrograms(t) {
		p := p
		t.Run(p.Name, func(t *testing.T) {
			m, err := parser.ParseSource(p.Source, p.Name)
			require.NoError(t, err)

			var out bytes.Buffer
			result, err := New(m, Options{Stdout: &out, MaxDepth: p.MaxDepth}).Run()
			assert.Equal(t, p.Output, out.String())

			if p.Error != "" {
				require.Error(t, err)
				assert.Equal(t, "errors."+p.Error, fmt.Sprintf("%T", tracerr.Unwrap(err)), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, p.Result, result)
		})
	}
}

func run(t *testing.T, src string) (int64, error) {
	t.Helper()

	m, err := parser.ParseSource(src, "test")
	require.NoError(t, err)
	return New(m, Options{Stdout: &bytes.Buffer{}}).Run()
}

func TestTypeMismatchNamesBothOperands(t *testing.T) {
	_, err := run(t, "def main[] -> { 2.0 * 3 }")
	require.Error(t, err)

	e, ok := tracerr.Unwrap(err).(errors.TypeMismatch)
	require.True(t, ok)
	assert.Equal(t, errors.TypeMismatch{Operator: "*", Left: "Float", Right: "Int"}, e)
}

func TestArityMismatchNamesCounts(t *testing.T) {
	_, err := run(t, "def add[x, y] -> { x + y } def main[] -> { add[1] }")
	require.Error(t, err)

	e, ok := tracerr.Unwrap(err).(errors.ArityMismatch)
	require.True(t, ok)
	assert.Equal(t, "add", e.Name.Text)
	assert.Equal(t, 2, e.Expected)
	assert.Equal(t, 1, e.Got)
}

func TestRecordConstruction(t *testing.T) {
	m, err := parser.ParseSource("def Point[a, b] def mk[] -> { Point[1, 2.5] }", "test")
	require.NoError(t, err)

	obj, err := New(m, Options{}).Call("mk")
	require.NoError(t, err)

	rec, ok := obj.(*Record)
	require.True(t, ok)
	assert.Equal(t, "Point", rec.Name.Text)
	require.Len(t, rec.Fields, 2)
	assert.Equal(t, "a", rec.Fields[0].Name.Text)
	assert.Equal(t, Int(1), rec.Fields[0].Value)
	assert.Equal(t, "b", rec.Fields[1].Name.Text)
	assert.Equal(t, Float(2.5), rec.Fields[1].Value)

	s, err := Format(rec)
	require.NoError(t, err)
	assert.Equal(t, "Point [ a: 1 b: 2.500000 ] ", s)
}

func TestCall(t *testing.T) {
	m, err := parser.ParseSource("def scale[x, k] -> { x * k }", "test")
	require.NoError(t, err)
	in := New(m, Options{})

	obj, err := in.Call("scale", Float(1.5), Float(4))
	require.NoError(t, err)
	assert.Equal(t, Float(6), obj)

	_, err = in.Call("scale", Int(1))
	assert.IsType(t, errors.ArityMismatch{}, tracerr.Unwrap(err))

	_, err = in.Call("missing")
	assert.Error(t, err)
}

func TestRunDoesNotMutateModule(t *testing.T) {
	src := "def Point[a, b] def main[] -> { let [p] -> { p -> Point[1, 2] } print[p] p.b }"
	m, err := parser.ParseSource(src, "test")
	require.NoError(t, err)
	before := m.String()

	in := New(m, Options{Stdout: &bytes.Buffer{}})
	for n := 0; n < 2; n++ {
		result, err := in.Run()
		require.NoError(t, err)
		assert.Equal(t, int64(2), result)
	}
	assert.Equal(t, before, m.String())
}

func TestFormat(t *testing.T) {
	cases := []struct {
		obj    Object
		expect string
	}{
		{Int(-4), "-4 "},
		{Float(0.1), "0.100000 "},
		{&Record{Name: types.NewSpan("E")}, "E [ ] "},
	}

	for _, c := range cases {
		s, err := Format(c.obj)
		require.NoError(t, err)
		assert.Equal(t, c.expect, s)
	}

	_, err := Format(Void{})
	assert.IsType(t, errors.PrintVoid{}, tracerr.Unwrap(err))
}

func TestBinaryOperators(t *testing.T) {
	cases := []struct {
		op     ast.BinaryOp
		l, r   Object
		expect Object
	}{
		{ast.BinaryAdd, Int(2), Int(3), Int(5)},
		{ast.BinarySub, Int(2), Int(3), Int(-1)},
		{ast.BinaryMul, Float(1.5), Float(2), Float(3)},
		{ast.BinaryDiv, Float(1), Float(4), Float(0.25)},
		{ast.BinaryDiv, Int(-7), Int(2), Int(-3)},
		{ast.BinaryEq, Float(1), Float(1), Int(1)},
		{ast.BinaryNeq, Int(1), Int(1), Int(0)},
		{ast.BinaryLt, Int(1), Int(2), Int(1)},
		{ast.BinaryLte, Int(2), Int(2), Int(1)},
		{ast.BinaryGt, Float(1), Float(2), Int(0)},
		{ast.BinaryGte, Float(2), Float(2), Int(1)},
		{ast.BinaryAnd, Int(2), Int(3), Int(1)},
		{ast.BinaryAnd, Float(0.5), Float(0), Int(0)},
		{ast.BinaryOr, Int(0), Int(0), Int(0)},
		{ast.BinaryOr, Float(0), Float(0.5), Int(1)},
	}

	for _, c := range cases {
		got, err := binary(c.op, c.l, c.r)
		require.NoError(t, err, "%v %s %v", c.l, c.op, c.r)
		assert.Equal(t, c.expect, got, "%v %s %v", c.l, c.op, c.r)
	}
}

func TestBinaryOperandErrors(t *testing.T) {
	rec := &Record{Name: types.NewSpan("R")}

	_, err := binary(ast.BinaryEq, rec, rec)
	assert.Equal(t, errors.InvalidOperand{Operator: "==", Type: "Record"}, tracerr.Unwrap(err))

	_, err = binary(ast.BinaryAdd, Int(1), Void{})
	assert.Equal(t, errors.InvalidOperand{Operator: "+", Type: "Void"}, tracerr.Unwrap(err))

	_, err = binary(ast.BinaryLt, Int(1), Float(1))
	assert.Equal(t, errors.TypeMismatch{Operator: "<", Left: "Int", Right: "Float"}, tracerr.Unwrap(err))

	_, err = binary(ast.BinaryDiv, Int(1), Int(0))
	assert.Equal(t, errors.DivisionByZero{}, tracerr.Unwrap(err))
}

var benchResult int64

func BenchmarkFib(b *testing.B) {
	m, err := parser.ParseSource(`
def fib[n] -> { if n < 2 { n } else { fib[n - 1] + fib[n - 2] } }
def main[] -> { fib[15] }`, "bench")
	if err != nil {
		b.Fatal(err)
	}
	in := New(m, Options{})

	for n := 0; n < b.N; n++ {
		r, err := in.Run()
		if err != nil {
			b.Fatal(err)
		}
		benchResult = r
	}
}
