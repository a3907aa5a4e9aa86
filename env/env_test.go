package env

import (
	"testing"

	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

func TestShadowing(t *testing.T) {
	root := New(nil, "root")
	root.Add(&Variable{Ident: "x", Type: types.I32})

	inner := New(root, "f")
	if v, ok := inner.Variable("x", false); !ok || !v.Type.Equal(types.I32) {
		t.Fatalf("inner scope should see outer x, got %s", repr.String(v))
	}
	if _, ok := inner.Get("x", true); ok {
		t.Error("x must not be found when limited to the inner scope")
	}

	inner.Add(&Variable{Ident: "x", Type: types.Float})
	if v, _ := inner.Variable("x", false); !v.Type.Equal(types.Float) {
		t.Errorf("inner x should shadow the outer one")
	}
	if v, _ := root.Variable("x", false); !v.Type.Equal(types.I32) {
		t.Errorf("adding to the inner scope must not touch the outer one")
	}
}

func TestAddOverwritesInCurrentScope(t *testing.T) {
	e := New(nil, "root")
	e.Add(&BuiltinType{Ident: "int", Type: types.I32})
	e.Add(&Variable{Ident: "int", Type: types.I1})

	if e.IsBuiltinType("int", true) {
		t.Error("builtin should have been replaced")
	}
	if !e.IsVariable("int", true) {
		t.Error("variable should be bound")
	}
}

func TestTypedViews(t *testing.T) {
	m := ir.NewModule()
	fn := m.NewFunc("f", types.I32)

	e := New(nil, "root")
	e.Add(&BuiltinType{Ident: "int", Type: types.I32})
	e.Add(&Function{Ident: "f", Func: fn, Sig: fn.Sig})
	e.Add(&ClassType{Ident: "A"})
	e.Add(&EnumType{Ident: "Color"})

	tests := []struct {
		name string
		kind RecordKind
	}{
		{"int", BuiltinTypeRecord},
		{"f", FunctionRecord},
		{"A", ClassTypeRecord},
		{"Color", EnumTypeRecord},
	}
	for _, tt := range tests {
		r, ok := e.Get(tt.name, false)
		if !ok {
			t.Errorf("%s not found", tt.name)
			continue
		}
		if r.Kind() != tt.kind {
			t.Errorf("%s is a %s, want %s", tt.name, r.Kind(), tt.kind)
		}
	}

	if _, ok := e.Variable("f", false); ok {
		t.Error("a function must not be returned as a variable")
	}
	if f, ok := e.Function("f", false); !ok || !f.ReturnType().Equal(types.I32) {
		t.Error("function view failed")
	}
	if !e.IsClass("A", false) || !e.IsEnum("Color", false) {
		t.Error("class/enum views failed")
	}
	if _, ok := e.Get("missing", false); ok {
		t.Error("missing names must be absent")
	}
}

func TestDepthAndNames(t *testing.T) {
	root := New(nil, "root")
	child := New(New(root, "a"), "b")
	if root.Depth() != 0 || child.Depth() != 2 {
		t.Errorf("unexpected depths %d, %d", root.Depth(), child.Depth())
	}

	child.Add(&Variable{Ident: "z"})
	child.Add(&Variable{Ident: "a"})
	if got := repr.String(child.Names()); got != repr.String([]string{"a", "z"}) {
		t.Errorf("unexpected names %s", got)
	}
}
