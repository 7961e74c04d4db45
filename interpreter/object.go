package interpreter

import (
	"github.com/pontaoski/arrow/types"
)

// Object is a runtime value: Int, Float, *Record or Void.
type Object interface {
	TypeName() string
}

type Int int64

func (Int) TypeName() string { return "Int" }

type Float float64

func (Float) TypeName() string { return "Float" }

type FieldValue struct {
	Name  types.Span
	Value Object
}

// Record is an instance of a record declaration. Fields keep declaration order.
type Record struct {
	Name   types.Span
	Fields []FieldValue
}

func (*Record) TypeName() string { return "Record" }

// Get returns the first field with the given name.
func (r *Record) Get(name string) (Object, bool) {
	for _, f := range r.Fields {
		if f.Name.Text == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Void is what print returns. It cannot be printed or used as an operand.
type Void struct{}

func (Void) TypeName() string { return "Void" }

func boolInt(b bool) Int {
	if b {
		return 1
	}
	return 0
}
