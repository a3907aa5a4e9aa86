package main

import (
	"go/parser"
	"go/token"
	"io/ioutil"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	nodes, err := Parse([]byte(`
// comment
node Program;
node ReturnStatement : Statement located;
node FunctionParameter;
`))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes.Declarations) != 3 {
		t.Fatalf("got %d declarations", len(nodes.Declarations))
	}

	ret := nodes.Declarations[1]
	if ret.Name != "ReturnStatement" || ret.Interface != "Statement" || !ret.Located {
		t.Errorf("unexpected declaration %+v", ret)
	}
	if param := nodes.Declarations[2]; param.Interface != "" || param.Located {
		t.Errorf("unexpected declaration %+v", param)
	}
}

func TestParseErrors(t *testing.T) {
	for _, src := range []string{
		"node Program",
		"node : Statement;",
		"node A; node A;",
	} {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("expected %q to fail", src)
		}
	}
}

func TestGenerate(t *testing.T) {
	nodes, err := Parse([]byte("node Program;\nnode ReturnStatement : Statement located;\n"))
	if err != nil {
		t.Fatal(err)
	}
	out := GenerateDecls("ast", nodes)

	file, err := parser.ParseFile(token.NewFileSet(), "nodes_gen.go", out, 0)
	if err != nil {
		t.Fatalf("generated code does not parse: %s\n%s", err, out)
	}
	if file.Name.Name != "ast" {
		t.Errorf("package %s", file.Name.Name)
	}

	for _, want := range []string{
		"ProgramKind NodeKind = iota",
		"func (n *ReturnStatement) Kind() NodeKind",
		"func (n *ReturnStatement) Pos() types.Span",
		"func (n *ReturnStatement) is_Statement() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "func (n *Program) Pos()") {
		t.Errorf("Program has no Location field\n%s", out)
	}
}

func TestNodesFile(t *testing.T) {
	data, err := ioutil.ReadFile("../ast/nodes.adt")
	if err != nil {
		t.Fatal(err)
	}
	nodes, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}

	gen, err := ioutil.ReadFile("../ast/nodes_gen.go")
	if err != nil {
		t.Fatal(err)
	}
	for _, decl := range nodes.Declarations {
		if !strings.Contains(string(gen), "func (n *"+decl.Name+") Kind() NodeKind") {
			t.Errorf("nodes_gen.go is stale: %s has no Kind method", decl.Name)
		}
	}
}
