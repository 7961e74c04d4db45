// Package ast holds the syntax tree built by the parser. Every node is owned
// by exactly one parent; the Module owns all declarations.
package ast

import "github.com/pontaoski/arrow/types"

//go:generate sh -c "cd ../tool && go run . ../ast/nodes.adt ../ast/nodes_gen.go ast"

type BinaryOp string

const (
	BinaryAdd BinaryOp = "+"
	BinarySub BinaryOp = "-"
	BinaryMul BinaryOp = "*"
	BinaryDiv BinaryOp = "/"
	BinaryEq  BinaryOp = "=="
	BinaryNeq BinaryOp = "!="
	BinaryGt  BinaryOp = ">"
	BinaryLt  BinaryOp = "<"
	BinaryGte BinaryOp = ">="
	BinaryLte BinaryOp = "<="
	BinaryAnd BinaryOp = "&&"
	BinaryOr  BinaryOp = "||"
)

type IntLiteral struct {
	Value int64
	Pos   types.Span
}

type FloatLiteral struct {
	Value float64
	Pos   types.Span
}

type Var struct {
	Name types.Span
}

// Call is the `id[args...]` form. Whether it calls a function or constructs a
// record is decided when it is evaluated.
type Call struct {
	Callee    types.Span
	Arguments []Expression
}

type Binary struct {
	Operation BinaryOp
	Left      Expression
	Right     Expression
	Pos       types.Span
}

type Field struct {
	Of   Expression
	Name types.Span
}

type Assignment struct {
	To    types.Span
	Value Expression
}

// LetBlock declares all of Names first, then runs Assignments in order
// against the same scope.
type LetBlock struct {
	Names       []types.Span
	Assignments []Assignment
}

type If struct {
	Condition Expression
	Then      *Block
	Else      *Block
	Pos       types.Span
}

type ExprStatement struct {
	Expression
}

type Block struct {
	Statements []Statement
	Pos        types.Span
}

type FuncDecl struct {
	Name   types.Span
	Params []types.Span
	Body   *Block
}

type RecordDecl struct {
	Name   types.Span
	Fields []types.Span
}
