// Command adtgen turns sum-type declarations such as
//
//	type Expression = | IntLiteral | Var;
//
// into a marker interface plus one pointer-receiver marker method per variant.
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type SumDecls struct {
	Declarations []*SumDecl `@@*`
}

type SumDecl struct {
	Name     string   `"type" @Ident "="`
	Variants []string `("|" @Ident)+ ";"`
}

func markerName(decl *SumDecl) string {
	return "is" + decl.Name
}

func GenerateDecls(pkgname string, t *SumDecls) *File {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtgen. DO NOT EDIT.")

	for _, decl := range t.Declarations {
		f.Type().Id(decl.Name).Interface(
			Id(markerName(decl)).Params(),
		)

		for _, variant := range decl.Variants {
			f.Func().Params(Op("*").Id(variant)).Id(markerName(decl)).Params().Block()
		}
	}

	return f
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: adtgen INPUT OUTPUT PACKAGE")
		os.Exit(2)
	}

	parser := participle.MustBuild(&SumDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := SumDecls{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}

	err = GenerateDecls(pkgname, &decls).Save(out)
	if err != nil {
		panic(err)
	}
}
