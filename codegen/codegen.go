// Package codegen lowers the integer subset of a module to LLVM IR.
//
// Every value is an i64. Let slots and parameters live in allocas placed in
// the entry block of their function; an if becomes a diamond of blocks joined
// by a phi. Floats and records have no native representation here and are
// rejected with errors.Unsupported.
package codegen

import (
	"fmt"
	"runtime"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/arrow/ast"
	"github.com/pontaoski/arrow/errors"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/arrow", "codegen")

const (
	entryPoint = "main"
	// user functions are prefixed so they cannot collide with libc symbols
	// or the C entry point
	funcPrefix = "arrow."
)

var zero = constant.NewInt(types.I64, 0)

type slot struct {
	name     string
	ptr      value.Value
	assigned bool
}

type ctx struct {
	mod    *ir.Module
	module *ast.Module
	funcs  map[string]*ir.Func
	print  *ir.Func

	fn     *ir.Func
	entry  *ir.Block
	block  *ir.Block
	slots  []slot
	blocks int
}

// Lower translates m into an LLVM module. The module's own main is emitted as
// arrow.main and called from a C-compatible main that truncates its result to
// the process exit status.
func Lower(m *ast.Module) (mod *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if _, isRuntime := r.(runtime.Error); !ok || isRuntime {
				panic(r)
			}
			mod, err = nil, tracerr.Wrap(rerr)
		}
	}()

	entry, ok := m.Function(entryPoint)
	if !ok {
		panic(errors.NoEntryPoint{})
	}
	if len(entry.Params) != 0 {
		panic(errors.EntryPointArity{Got: len(entry.Params), Location: entry.Name})
	}

	c := &ctx{
		mod:    ir.NewModule(),
		module: m,
		funcs:  make(map[string]*ir.Func),
	}
	c.print = addPrint(c.mod)

	// forward declaration pass, so calls may precede the callee
	var decls []*ast.FuncDecl
	for _, decl := range m.Functions() {
		if winner, _ := m.Function(decl.Name.Text); winner != decl {
			continue
		}

		var params []*ir.Param
		for _, p := range decl.Params {
			params = append(params, ir.NewParam(p.Text, types.I64))
		}
		c.funcs[decl.Name.Text] = c.mod.NewFunc(funcPrefix+decl.Name.Text, types.I64, params...)
		decls = append(decls, decl)
	}

	for _, decl := range decls {
		c.lowerFunc(decl)
	}

	cmain := c.mod.NewFunc("main", types.I32)
	b := cmain.NewBlock("entry")
	result := b.NewCall(c.funcs[entryPoint])
	b.NewRet(b.NewTrunc(result, types.I32))

	plog.Debugf("%s: lowered %d functions", m.Filename, len(decls))
	return c.mod, nil
}

// addPrint defines rt.print, which writes one integer the way the
// interpreter's print does.
func addPrint(mod *ir.Module) *ir.Func {
	printf := mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	format := constant.NewCharArrayFromString("%ld \n\x00")
	glob := mod.NewGlobalDef("rt.print.format", format)
	glob.Immutable = true

	idx := constant.NewInt(types.I32, 0)
	addr := constant.NewGetElementPtr(format.Typ, glob, idx, idx)

	f := mod.NewFunc("rt.print", types.Void, ir.NewParam("v", types.I64))
	b := f.NewBlock("entry")
	b.NewCall(printf, addr, f.Params[0])
	b.NewRet(nil)

	return f
}

func (c *ctx) lowerFunc(decl *ast.FuncDecl) {
	c.fn = c.funcs[decl.Name.Text]
	c.entry = c.fn.NewBlock("entry")
	c.block = c.entry
	c.slots = nil
	c.blocks = 0

	for idx, p := range decl.Params {
		ptr := c.declare(p.Text)
		c.block.NewStore(c.fn.Params[idx], ptr)
		c.slots[len(c.slots)-1].assigned = true
	}

	ret := c.lowerBlock(decl.Body)
	if ret == nil {
		if decl.Name.Text == entryPoint {
			panic(errors.NonIntResult{Got: "Void"})
		}
		panic(errors.Unsupported{What: "function without an integer result", Location: decl.Name})
	}
	c.block.NewRet(ret)
}

func (c *ctx) declare(name string) value.Value {
	ptr := c.entry.NewAlloca(types.I64)
	c.slots = append(c.slots, slot{name: name, ptr: ptr})
	return ptr
}

// lookup returns the index of the latest slot with the given name, or -1.
func (c *ctx) lookup(name string) int {
	for i := len(c.slots) - 1; i >= 0; i-- {
		if c.slots[i].name == name {
			return i
		}
	}
	return -1
}

func (c *ctx) newBlock(kind string) *ir.Block {
	c.blocks++
	return c.fn.NewBlock(fmt.Sprintf("%s.%d", kind, c.blocks))
}

// lowerBlock returns the value of the final statement, or nil when it is a
// print call.
func (c *ctx) lowerBlock(b *ast.Block) value.Value {
	if len(b.Statements) == 0 {
		panic(errors.MissingResult{Reason: "empty block at " + b.Pos.String()})
	}

	last := len(b.Statements) - 1
	if _, ok := b.Statements[last].(*ast.LetBlock); ok {
		panic(errors.MissingResult{Reason: "block at " + b.Pos.String() + " ends with a let block"})
	}

	var ret value.Value
	for _, stmt := range b.Statements {
		ret = c.lowerStatement(stmt)
	}
	return ret
}

func (c *ctx) lowerStatement(s ast.Statement) value.Value {
	switch stmt := s.(type) {
	case *ast.ExprStatement:
		return c.lowerExpression(stmt.Expression)
	case *ast.LetBlock:
		c.lowerLetBlock(stmt)
		return nil
	case *ast.If:
		return c.lowerIf(stmt)
	}

	panic("unhandled statement")
}

func (c *ctx) lowerLetBlock(let *ast.LetBlock) {
	for _, name := range let.Names {
		c.declare(name.Text)
	}

	for _, assign := range let.Assignments {
		if c.lookup(assign.To.Text) < 0 {
			panic(errors.UnknownVariable{Name: assign.To})
		}

		val := c.lowerExpression(assign.Value)
		if val == nil {
			panic(errors.Unsupported{What: "binding a void value", Location: assign.To})
		}

		idx := c.lookup(assign.To.Text)
		c.block.NewStore(val, c.slots[idx].ptr)
		c.slots[idx].assigned = true
	}
}

// lowerIf joins both branches in a merge block. Names declared inside a
// branch go out of scope at the merge, and a slot counts as assigned
// afterwards only when both branches assign it.
func (c *ctx) lowerIf(stmt *ast.If) value.Value {
	cond := c.lowerExpression(stmt.Condition)
	if cond == nil {
		panic(errors.NonIntCondition{Got: "Void"})
	}
	test := c.block.NewICmp(enum.IPredNE, cond, zero)

	then := c.newBlock("then")
	els := c.newBlock("else")
	merge := c.newBlock("merge")
	c.block.NewCondBr(test, then, els)

	saved := append([]slot(nil), c.slots...)

	c.block = then
	thenVal := c.lowerBlock(stmt.Then)
	thenEnd, thenSlots := c.block, c.slots

	c.block = els
	c.slots = append([]slot(nil), saved...)
	elseVal := c.lowerBlock(stmt.Else)
	elseEnd, elseSlots := c.block, c.slots

	thenEnd.NewBr(merge)
	elseEnd.NewBr(merge)

	c.slots = saved
	for i := range c.slots {
		c.slots[i].assigned = thenSlots[i].assigned && elseSlots[i].assigned
	}

	c.block = merge
	if thenVal == nil || elseVal == nil {
		return nil
	}
	return merge.NewPhi(ir.NewIncoming(thenVal, thenEnd), ir.NewIncoming(elseVal, elseEnd))
}

func (c *ctx) lowerExpression(e ast.Expression) value.Value {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		return constant.NewInt(types.I64, expr.Value)
	case *ast.FloatLiteral:
		panic(errors.Unsupported{What: "float literal", Location: expr.Pos})
	case *ast.Var:
		idx := c.lookup(expr.Name.Text)
		if idx < 0 {
			panic(errors.UnknownVariable{Name: expr.Name})
		}
		if !c.slots[idx].assigned {
			panic(errors.Unassigned{Name: expr.Name})
		}
		return c.block.NewLoad(types.I64, c.slots[idx].ptr)
	case *ast.Call:
		return c.lowerCall(expr)
	case *ast.Binary:
		return c.lowerBinary(expr)
	case *ast.Field:
		panic(errors.Unsupported{What: "field access", Location: expr.Name})
	}

	panic("unhandled expression")
}

func (c *ctx) lowerCall(call *ast.Call) value.Value {
	name := call.Callee.Text

	if name == "print" {
		if len(call.Arguments) != 1 {
			panic(errors.ArityMismatch{Name: call.Callee, Expected: 1, Got: len(call.Arguments)})
		}
		arg := c.lowerExpression(call.Arguments[0])
		if arg == nil {
			panic(errors.PrintVoid{})
		}
		c.block.NewCall(c.print, arg)
		return nil
	}

	if decl, ok := c.module.Function(name); ok {
		if len(call.Arguments) != len(decl.Params) {
			panic(errors.ArityMismatch{Name: call.Callee, Expected: len(decl.Params), Got: len(call.Arguments)})
		}

		var args []value.Value
		for _, arg := range call.Arguments {
			val := c.lowerExpression(arg)
			if val == nil {
				panic(errors.Unsupported{What: "passing a void argument", Location: call.Callee})
			}
			args = append(args, val)
		}
		return c.block.NewCall(c.funcs[name], args...)
	}

	if _, ok := c.module.Record(name); ok {
		panic(errors.Unsupported{What: "record construction", Location: call.Callee})
	}

	panic(errors.UnknownCallee{Name: call.Callee})
}

var predicates = map[ast.BinaryOp]enum.IPred{
	ast.BinaryEq:  enum.IPredEQ,
	ast.BinaryNeq: enum.IPredNE,
	ast.BinaryLt:  enum.IPredSLT,
	ast.BinaryLte: enum.IPredSLE,
	ast.BinaryGt:  enum.IPredSGT,
	ast.BinaryGte: enum.IPredSGE,
}

func (c *ctx) lowerBinary(expr *ast.Binary) value.Value {
	l := c.lowerExpression(expr.Left)
	r := c.lowerExpression(expr.Right)
	if l == nil || r == nil {
		panic(errors.InvalidOperand{Operator: string(expr.Operation), Type: "Void"})
	}

	b := c.block
	switch expr.Operation {
	case ast.BinaryAdd:
		return b.NewAdd(l, r)
	case ast.BinarySub:
		return b.NewSub(l, r)
	case ast.BinaryMul:
		return b.NewMul(l, r)
	case ast.BinaryDiv:
		return b.NewSDiv(l, r)
	case ast.BinaryAnd:
		return b.NewZExt(b.NewAnd(b.NewICmp(enum.IPredNE, l, zero), b.NewICmp(enum.IPredNE, r, zero)), types.I64)
	case ast.BinaryOr:
		return b.NewZExt(b.NewOr(b.NewICmp(enum.IPredNE, l, zero), b.NewICmp(enum.IPredNE, r, zero)), types.I64)
	}

	pred, ok := predicates[expr.Operation]
	if !ok {
		panic("unhandled operator " + string(expr.Operation))
	}
	return b.NewZExt(b.NewICmp(pred, l, r), types.I64)
}
