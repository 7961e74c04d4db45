package interpreter

import (
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/arrow/ast"
	"github.com/pontaoski/arrow/errors"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/arrow", "interpreter")

const EntryPoint = "main"

type Options struct {
	// Stdout receives the output of print. Defaults to os.Stdout.
	Stdout io.Writer
	// MaxDepth bounds call nesting. Zero means unbounded.
	MaxDepth int
}

// Interpreter walks a module's syntax tree. It never modifies the tree; all
// mutable state lives in the scopes it creates per call.
type Interpreter struct {
	module   *ast.Module
	out      io.Writer
	maxDepth int
	builtins map[string]builtinFunc
}

func New(m *ast.Module, opts Options) *Interpreter {
	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}

	return &Interpreter{
		module:   m,
		out:      out,
		maxDepth: opts.MaxDepth,
		builtins: addBuiltins(),
	}
}

// Run executes main and returns its integer result.
func (i *Interpreter) Run() (int64, error) {
	entry, ok := i.module.Function(EntryPoint)
	if !ok {
		return 0, tracerr.Wrap(errors.NoEntryPoint{})
	}
	if len(entry.Params) != 0 {
		return 0, tracerr.Wrap(errors.EntryPointArity{Got: len(entry.Params), Location: entry.Name})
	}

	plog.Debugf("%s: running %s", i.module.Filename, EntryPoint)

	result, err := i.execBlock(entry.Body, NewScope(nil))
	if err != nil {
		return 0, err
	}

	n, ok := result.(Int)
	if !ok {
		return 0, tracerr.Wrap(errors.NonIntResult{Got: result.TypeName()})
	}
	return int64(n), nil
}

// Call invokes a declared function with already evaluated arguments.
func (i *Interpreter) Call(name string, args ...Object) (Object, error) {
	fn, ok := i.module.Function(name)
	if !ok {
		return nil, tracerr.Errorf("no such function: %s", name)
	}
	if len(args) != len(fn.Params) {
		return nil, tracerr.Wrap(errors.ArityMismatch{Name: fn.Name, Expected: len(fn.Params), Got: len(args)})
	}

	scope := NewScope(nil)
	for idx, param := range fn.Params {
		scope.Declare(param, args[idx])
	}
	return i.execBlock(fn.Body, scope)
}

func (i *Interpreter) execBlock(b *ast.Block, scope *Scope) (Object, error) {
	if len(b.Statements) == 0 {
		return nil, tracerr.Wrap(errors.MissingResult{Reason: "empty block at " + b.Pos.String()})
	}

	last := len(b.Statements) - 1
	if _, ok := b.Statements[last].(*ast.LetBlock); ok {
		return nil, tracerr.Wrap(errors.MissingResult{Reason: "block at " + b.Pos.String() + " ends with a let block"})
	}

	for _, stmt := range b.Statements[:last] {
		if _, err := i.execStatement(stmt, scope); err != nil {
			return nil, err
		}
	}

	return i.execStatement(b.Statements[last], scope)
}

// execStatement returns nil for let blocks, which produce no value.
func (i *Interpreter) execStatement(s ast.Statement, scope *Scope) (Object, error) {
	switch stmt := s.(type) {
	case *ast.ExprStatement:
		return i.evalExpression(stmt.Expression, scope)
	case *ast.LetBlock:
		return nil, i.execLetBlock(stmt, scope)
	case *ast.If:
		return i.execIf(stmt, scope)
	}

	panic("unhandled statement")
}

func (i *Interpreter) execLetBlock(let *ast.LetBlock, scope *Scope) error {
	for _, name := range let.Names {
		scope.Declare(name, nil)
	}

	for _, assign := range let.Assignments {
		if scope.Find(assign.To) == nil {
			return tracerr.Wrap(errors.UnknownVariable{Name: assign.To})
		}

		val, err := i.evalExpression(assign.Value, scope)
		if err != nil {
			return err
		}
		scope.Find(assign.To).Value = val
	}

	return nil
}

func (i *Interpreter) execIf(stmt *ast.If, scope *Scope) (Object, error) {
	cond, err := i.evalExpression(stmt.Condition, scope)
	if err != nil {
		return nil, err
	}

	n, ok := cond.(Int)
	if !ok {
		return nil, tracerr.Wrap(errors.NonIntCondition{Got: cond.TypeName()})
	}

	if n != 0 {
		return i.execBlock(stmt.Then, scope)
	}
	return i.execBlock(stmt.Else, scope)
}

func (i *Interpreter) evalExpression(e ast.Expression, scope *Scope) (Object, error) {
	switch expr := e.(type) {
	case *ast.IntLiteral:
		return Int(expr.Value), nil
	case *ast.FloatLiteral:
		return Float(expr.Value), nil
	case *ast.Var:
		v := scope.Find(expr.Name)
		if v == nil {
			return nil, tracerr.Wrap(errors.UnknownVariable{Name: expr.Name})
		}
		if v.Value == nil {
			return nil, tracerr.Wrap(errors.Unassigned{Name: expr.Name})
		}
		return v.Value, nil
	case *ast.Call:
		return i.evalCall(expr, scope)
	case *ast.Binary:
		lhs, err := i.evalExpression(expr.Left, scope)
		if err != nil {
			return nil, err
		}
		rhs, err := i.evalExpression(expr.Right, scope)
		if err != nil {
			return nil, err
		}
		return binary(expr.Operation, lhs, rhs)
	case *ast.Field:
		of, err := i.evalExpression(expr.Of, scope)
		if err != nil {
			return nil, err
		}
		rec, ok := of.(*Record)
		if !ok {
			return nil, tracerr.Wrap(errors.NotARecord{Field: expr.Name, Got: of.TypeName()})
		}
		val, ok := rec.Get(expr.Name.Text)
		if !ok {
			return nil, tracerr.Wrap(errors.UnknownField{Record: rec.Name.Text, Field: expr.Name})
		}
		return val, nil
	}

	panic("unhandled expression")
}

func (i *Interpreter) evalArguments(args []ast.Expression, scope *Scope) ([]Object, error) {
	vals := make([]Object, 0, len(args))
	for _, arg := range args {
		val, err := i.evalExpression(arg, scope)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	return vals, nil
}

// evalCall resolves the callee as the print builtin, then a function, then a
// record, in that order.
func (i *Interpreter) evalCall(call *ast.Call, scope *Scope) (Object, error) {
	if builtin, ok := i.builtins[call.Callee.Text]; ok {
		return builtin(i, call, scope)
	}

	if fn, ok := i.module.Function(call.Callee.Text); ok {
		return i.callFunction(fn, call, scope)
	}

	if rec, ok := i.module.Record(call.Callee.Text); ok {
		return i.construct(rec, call, scope)
	}

	return nil, tracerr.Wrap(errors.UnknownCallee{Name: call.Callee})
}

func (i *Interpreter) callFunction(fn *ast.FuncDecl, call *ast.Call, caller *Scope) (Object, error) {
	if len(call.Arguments) != len(fn.Params) {
		return nil, tracerr.Wrap(errors.ArityMismatch{Name: call.Callee, Expected: len(fn.Params), Got: len(call.Arguments)})
	}

	args, err := i.evalArguments(call.Arguments, caller)
	if err != nil {
		return nil, err
	}

	scope := NewScope(caller)
	if i.maxDepth > 0 && scope.Depth() > i.maxDepth {
		return nil, tracerr.Wrap(errors.RecursionLimit{Depth: i.maxDepth, Name: call.Callee})
	}
	for idx, param := range fn.Params {
		scope.Declare(param, args[idx])
	}

	plog.Tracef("%s: calling %s at depth %d", call.Callee, fn.Name.Text, scope.Depth())
	return i.execBlock(fn.Body, scope)
}

func (i *Interpreter) construct(rec *ast.RecordDecl, call *ast.Call, scope *Scope) (Object, error) {
	if len(call.Arguments) != len(rec.Fields) {
		return nil, tracerr.Wrap(errors.ArityMismatch{Name: call.Callee, Expected: len(rec.Fields), Got: len(call.Arguments)})
	}

	args, err := i.evalArguments(call.Arguments, scope)
	if err != nil {
		return nil, err
	}

	obj := &Record{Name: rec.Name, Fields: make([]FieldValue, len(args))}
	for idx, field := range rec.Fields {
		obj.Fields[idx] = FieldValue{Name: field, Value: args[idx]}
	}
	return obj, nil
}
