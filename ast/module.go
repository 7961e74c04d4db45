package ast

import (
	"github.com/coreos/pkg/capnslog"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/arrow", "ast")

// Module is a whole parsed program. Declarations keep their source order in
// Decls; lookups by name see the last declaration with that name.
type Module struct {
	Filename string
	Decls    []Decl

	functions map[string]*FuncDecl
	records   map[string]*RecordDecl
}

func NewModule(filename string) *Module {
	return &Module{
		Filename:  filename,
		functions: make(map[string]*FuncDecl),
		records:   make(map[string]*RecordDecl),
	}
}

// Add appends a declaration. Redeclaring a name is not an error: the new
// declaration shadows the old one.
func (m *Module) Add(d Decl) {
	m.Decls = append(m.Decls, d)

	switch decl := d.(type) {
	case *FuncDecl:
		if prev, ok := m.functions[decl.Name.Text]; ok {
			plog.Warningf("%s: function %s redeclared, shadowing %s", decl.Name, decl.Name.Text, prev.Name)
		}
		m.functions[decl.Name.Text] = decl
	case *RecordDecl:
		if prev, ok := m.records[decl.Name.Text]; ok {
			plog.Warningf("%s: record %s redeclared, shadowing %s", decl.Name, decl.Name.Text, prev.Name)
		}
		m.records[decl.Name.Text] = decl
	}
}

func (m *Module) Function(name string) (*FuncDecl, bool) {
	f, ok := m.functions[name]
	return f, ok
}

func (m *Module) Record(name string) (*RecordDecl, bool) {
	r, ok := m.records[name]
	return r, ok
}

// Functions lists function declarations in source order, duplicates included.
func (m *Module) Functions() (ret []*FuncDecl) {
	for _, d := range m.Decls {
		if f, ok := d.(*FuncDecl); ok {
			ret = append(ret, f)
		}
	}
	return
}

func (m *Module) Records() (ret []*RecordDecl) {
	for _, d := range m.Decls {
		if r, ok := d.(*RecordDecl); ok {
			ret = append(ret, r)
		}
	}
	return
}
