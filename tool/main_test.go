package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/alecthomas/participle"
)

func TestGenerateDecls(t *testing.T) {
	parser := participle.MustBuild(&SumDecls{})

	decls := SumDecls{}
	err := parser.ParseString("type Shape = | Circle | Square;", &decls)
	if err != nil {
		t.Fatal(err)
	}

	if len(decls.Declarations) != 1 || len(decls.Declarations[0].Variants) != 2 {
		t.Fatalf("unexpected parse: %#v", decls)
	}

	out := fmt.Sprintf("%#v", GenerateDecls("shapes", &decls))
	for _, want := range []string{
		"// Code generated by adtgen. DO NOT EDIT.",
		"package shapes",
		"type Shape interface {\n\tisShape()\n}",
		"func (*Circle) isShape() {}",
		"func (*Square) isShape() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("generated code is missing %q:\n%s", want, out)
		}
	}
}
