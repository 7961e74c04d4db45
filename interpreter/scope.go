package interpreter

import (
	"github.com/pontaoski/arrow/types"
)

// Variable is one slot of a scope. A nil Value marks a let slot that has been
// declared but not assigned yet.
type Variable struct {
	Name  types.Span
	Value Object
}

// Scope is created per function activation and dropped when the call returns.
// Parent links the caller's scope; lookups never follow it.
type Scope struct {
	Parent    *Scope
	Variables []Variable
	depth     int
}

func NewScope(parent *Scope) *Scope {
	s := &Scope{Parent: parent}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

// Depth is the number of activations below this one.
func (s *Scope) Depth() int {
	return s.depth
}

func (s *Scope) Declare(name types.Span, value Object) {
	s.Variables = append(s.Variables, Variable{Name: name, Value: value})
}

// Find scans this scope only. When a name was declared more than once the
// latest declaration is returned.
func (s *Scope) Find(name types.Span) *Variable {
	var found *Variable
	for i := range s.Variables {
		if s.Variables[i].Name.Equals(name) {
			found = &s.Variables[i]
		}
	}
	return found
}
