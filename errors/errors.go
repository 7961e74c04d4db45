package errors

import (
	"fmt"
	"strings"

	"github.com/pontaoski/arrow/types"
)

// Lexical errors.

type GarbageToken struct {
	Location types.Span
}

func (e GarbageToken) Error() string {
	return fmt.Sprintf("[%d:%d] found garbage token: %s", e.Location.From.Line, e.Location.From.Column, e.Location.Text)
}

type MalformedFloat struct {
	Location types.Span
}

func (e MalformedFloat) Error() string {
	return fmt.Sprintf("invalid floating point number: %s. %s", e.Location.Text, e.Location)
}

// LoneOperator is a single '&' or '|' that is not doubled.
type LoneOperator struct {
	Operator string
	Location types.Span
}

func (e LoneOperator) Error() string {
	return fmt.Sprintf("invalid token: %s. %s", e.Operator, e.Location)
}

// Syntax errors.

type UnexpectedToken struct {
	Expected []types.TokenKind
	Got      types.Token
}

func (e UnexpectedToken) Error() string {
	return fmt.Sprintf("got %s, expected %s. %s", e.Got, kinds(e.Expected), e.Got.Location)
}

type UnexpectedEOF struct {
	Expected []types.TokenKind
	Location types.Span
}

func (e UnexpectedEOF) Error() string {
	return fmt.Sprintf("unexpected end of file, expected %s. %s", kinds(e.Expected), e.Location)
}

type InvalidLiteral struct {
	Location types.Span
	Reason   error
}

func (e InvalidLiteral) Error() string {
	return fmt.Sprintf("invalid literal %s: %s. %s", e.Location.Text, e.Reason, e.Location)
}

func (e InvalidLiteral) Unwrap() error {
	return e.Reason
}

func kinds(k []types.TokenKind) string {
	if len(k) == 1 {
		return k[0].String()
	}
	var names []string
	for _, kind := range k {
		names = append(names, kind.String())
	}
	return "one of " + strings.Join(names, ", ")
}

// Runtime errors.

type NoEntryPoint struct{}

func (e NoEntryPoint) Error() string {
	return "no entry main point function"
}

type EntryPointArity struct {
	Got      int
	Location types.Span
}

func (e EntryPointArity) Error() string {
	return fmt.Sprintf("main function should take no arguments, but takes %d. %s", e.Got, e.Location)
}

type NonIntResult struct {
	Got string
}

func (e NonIntResult) Error() string {
	return fmt.Sprintf("main function should return integer, got %s", e.Got)
}

type UnknownCallee struct {
	Name types.Span
}

func (e UnknownCallee) Error() string {
	return fmt.Sprintf("no such function or record: %s. %s", e.Name.Text, e.Name)
}

type UnknownVariable struct {
	Name types.Span
}

func (e UnknownVariable) Error() string {
	return fmt.Sprintf("no such variable: %s. %s", e.Name.Text, e.Name)
}

// Unassigned is a read of a let-declared slot before its assignment ran.
type Unassigned struct {
	Name types.Span
}

func (e Unassigned) Error() string {
	return fmt.Sprintf("variable %s read before assignment. %s", e.Name.Text, e.Name)
}

type ArityMismatch struct {
	Name     types.Span
	Expected int
	Got      int
}

func (e ArityMismatch) Error() string {
	return fmt.Sprintf("%s expected: %d arguments but got: %d. %s", e.Name.Text, e.Expected, e.Got, e.Name)
}

type TypeMismatch struct {
	Operator string
	Left     string
	Right    string
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("type mismatch for '%s': %s and %s", e.Operator, e.Left, e.Right)
}

// InvalidOperand is a record or void operand given to a binary operator.
type InvalidOperand struct {
	Operator string
	Type     string
}

func (e InvalidOperand) Error() string {
	return fmt.Sprintf("operator '%s' is not defined for %s", e.Operator, e.Type)
}

type NonIntCondition struct {
	Got string
}

func (e NonIntCondition) Error() string {
	return fmt.Sprintf("if condition should be integer, got %s", e.Got)
}

type MissingResult struct {
	Reason string
}

func (e MissingResult) Error() string {
	return "expected return value: " + e.Reason
}

type PrintVoid struct{}

func (e PrintVoid) Error() string {
	return "cannot print void"
}

type DivisionByZero struct{}

func (e DivisionByZero) Error() string {
	return "integer division by zero"
}

type NotARecord struct {
	Field types.Span
	Got   string
}

func (e NotARecord) Error() string {
	return fmt.Sprintf("cannot access field %s of %s. %s", e.Field.Text, e.Got, e.Field)
}

type UnknownField struct {
	Record string
	Field  types.Span
}

func (e UnknownField) Error() string {
	return fmt.Sprintf("record %s has no field %s. %s", e.Record, e.Field.Text, e.Field)
}

type RecursionLimit struct {
	Depth int
	Name  types.Span
}

func (e RecursionLimit) Error() string {
	return fmt.Sprintf("call depth limit of %d exceeded calling %s. %s", e.Depth, e.Name.Text, e.Name)
}

// Unsupported is raised by the native lowering for constructs it cannot express.
type Unsupported struct {
	What     string
	Location types.Span
}

func (e Unsupported) Error() string {
	return fmt.Sprintf("%s is not supported by native lowering. %s", e.What, e.Location)
}
