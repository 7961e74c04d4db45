package interpreter

import (
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/arrow/ast"
	"github.com/pontaoski/arrow/errors"
)

// binary applies op to two evaluated operands. Both sides must be Int or both
// Float; there is no implicit conversion. Comparisons and the logical
// operators yield Int 0 or 1.
func binary(op ast.BinaryOp, l, r Object) (Object, error) {
	for _, o := range []Object{l, r} {
		switch o.(type) {
		case Int, Float:
		default:
			return nil, tracerr.Wrap(errors.InvalidOperand{Operator: string(op), Type: o.TypeName()})
		}
	}

	switch lhs := l.(type) {
	case Int:
		rhs, ok := r.(Int)
		if !ok {
			break
		}
		return intBinary(op, lhs, rhs)
	case Float:
		rhs, ok := r.(Float)
		if !ok {
			break
		}
		return floatBinary(op, lhs, rhs)
	}

	return nil, tracerr.Wrap(errors.TypeMismatch{Operator: string(op), Left: l.TypeName(), Right: r.TypeName()})
}

func intBinary(op ast.BinaryOp, l, r Int) (Object, error) {
	switch op {
	case ast.BinaryAdd:
		return l + r, nil
	case ast.BinarySub:
		return l - r, nil
	case ast.BinaryMul:
		return l * r, nil
	case ast.BinaryDiv:
		if r == 0 {
			return nil, tracerr.Wrap(errors.DivisionByZero{})
		}
		return l / r, nil
	case ast.BinaryAnd:
		return boolInt(l != 0 && r != 0), nil
	case ast.BinaryOr:
		return boolInt(l != 0 || r != 0), nil
	}

	return compare(op, l, r), nil
}

func floatBinary(op ast.BinaryOp, l, r Float) (Object, error) {
	switch op {
	case ast.BinaryAdd:
		return l + r, nil
	case ast.BinarySub:
		return l - r, nil
	case ast.BinaryMul:
		return l * r, nil
	case ast.BinaryDiv:
		return l / r, nil
	case ast.BinaryAnd:
		return boolInt(l != 0 && r != 0), nil
	case ast.BinaryOr:
		return boolInt(l != 0 || r != 0), nil
	}

	return compare(op, l, r), nil
}

func compare[T Int | Float](op ast.BinaryOp, l, r T) Int {
	switch op {
	case ast.BinaryEq:
		return boolInt(l == r)
	case ast.BinaryNeq:
		return boolInt(l != r)
	case ast.BinaryLt:
		return boolInt(l < r)
	case ast.BinaryLte:
		return boolInt(l <= r)
	case ast.BinaryGt:
		return boolInt(l > r)
	case ast.BinaryGte:
		return boolInt(l >= r)
	}

	panic("unhandled operator " + string(op))
}
