// Command tool generates the kind enumeration and the per-node Kind, Pos and
// marker methods of the ast package from a list of node declarations:
//
//	node Program;
//	node ReturnStatement : Statement located;
package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

const typesPath = "github.com/pontaoski/gigly/types"

type Nodes struct {
	Declarations []*Declaration `@@*`
}

type Declaration struct {
	Name      string   `"node" @Ident`
	Interface string   `(":" @Ident)?`
	Located   bool     `@"located"?`
	I         struct{} `";"`
}

var grammar = participle.MustBuild(&Nodes{})

func Parse(data []byte) (*Nodes, error) {
	nodes := &Nodes{}
	if err := grammar.ParseBytes(data, nodes); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, decl := range nodes.Declarations {
		if seen[decl.Name] {
			return nil, fmt.Errorf("node %s is declared twice", decl.Name)
		}
		seen[decl.Name] = true
	}
	return nodes, nil
}

func GenerateDecls(pkgname string, n *Nodes) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by tool/main.go from nodes.adt. DO NOT EDIT.")

	var kinds, names []Code
	for i, decl := range n.Declarations {
		if i == 0 {
			kinds = append(kinds, Id(decl.Name+"Kind").Id("NodeKind").Op("=").Iota())
		} else {
			kinds = append(kinds, Id(decl.Name+"Kind"))
		}
		names = append(names, Lit(decl.Name))
	}
	f.Const().Defs(kinds...)
	f.Var().Id("kindNames").Op("=").Index().String().Values(names...)

	for _, decl := range n.Declarations {
		recv := Id("n").Op("*").Id(decl.Name)

		f.Func().Params(recv.Clone()).Id("Kind").Params().Id("NodeKind").Block(
			Return(Id(decl.Name + "Kind")),
		)
		if decl.Located {
			f.Func().Params(recv.Clone()).Id("Pos").Params().Qual(typesPath, "Span").Block(
				Return(Id("n").Dot("Location")),
			)
		}
		if decl.Interface != "" {
			f.Func().Params(recv.Clone()).Id("is_" + decl.Interface).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: tool <in.adt> <out.go> <package>")
		os.Exit(2)
	}
	in, out, pkgname := os.Args[1], os.Args[2], os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	nodes, err := Parse(inData)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(pkgname, nodes)), 0644)
	if err != nil {
		panic(err)
	}
}
