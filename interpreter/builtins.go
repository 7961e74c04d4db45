package interpreter

import (
	"fmt"
	"io"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/pontaoski/arrow/ast"
	"github.com/pontaoski/arrow/errors"
)

// builtinFunc receives the unevaluated call so each builtin decides how its
// arguments are evaluated.
type builtinFunc func(i *Interpreter, call *ast.Call, scope *Scope) (Object, error)

func addBuiltins() (ret map[string]builtinFunc) {
	ret = make(map[string]builtinFunc)

	funcs := []func() (string, builtinFunc){
		addPrint,
	}
	for _, fn := range funcs {
		k, v := fn()
		ret[k] = v
	}

	return
}

func addPrint() (string, builtinFunc) {
	return "print", func(i *Interpreter, call *ast.Call, scope *Scope) (Object, error) {
		if len(call.Arguments) != 1 {
			return nil, tracerr.Wrap(errors.ArityMismatch{Name: call.Callee, Expected: 1, Got: len(call.Arguments)})
		}

		val, err := i.evalExpression(call.Arguments[0], scope)
		if err != nil {
			return nil, err
		}

		if err := writeObject(i.out, val); err != nil {
			return nil, err
		}
		if _, err := io.WriteString(i.out, "\n"); err != nil {
			return nil, tracerr.Wrap(err)
		}

		return Void{}, nil
	}
}

// writeObject emits one value followed by a space. Record fields are written
// recursively in declaration order.
func writeObject(w io.Writer, o Object) (err error) {
	switch v := o.(type) {
	case Int:
		_, err = fmt.Fprintf(w, "%d ", int64(v))
	case Float:
		_, err = fmt.Fprintf(w, "%f ", float64(v))
	case *Record:
		if _, err = fmt.Fprintf(w, "%s [ ", v.Name.Text); err != nil {
			break
		}
		for _, f := range v.Fields {
			if _, err = fmt.Fprintf(w, "%s: ", f.Name.Text); err != nil {
				break
			}
			if err = writeObject(w, f.Value); err != nil {
				return err
			}
		}
		if err == nil {
			_, err = io.WriteString(w, "] ")
		}
	case Void:
		return tracerr.Wrap(errors.PrintVoid{})
	default:
		panic("unhandled object")
	}

	return tracerr.Wrap(err)
}

// Format renders an object the way print does, without the trailing newline.
func Format(o Object) (string, error) {
	var sb strings.Builder
	if err := writeObject(&sb, o); err != nil {
		return "", err
	}
	return sb.String(), nil
}
