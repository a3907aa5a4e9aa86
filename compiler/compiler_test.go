package compiler

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/pontaoski/gigly/ast"
	"github.com/pontaoski/gigly/errors"
	"github.com/pontaoski/gigly/parser"
)

func compile(t *testing.T, c *Compiler, src string) {
	t.Helper()
	prog, errs := parser.Parse(src, "test.gg")
	if len(errs) > 0 {
		t.Fatalf("unexpected syntax errors: %s", errs)
	}
	c.Compile(prog)
}

func compileFunctions(t *testing.T, src string, opts ...Option) *Compiler {
	t.Helper()
	c := New("test.gg", opts...)
	compile(t, c, src)
	return c
}

func compileEntry(t *testing.T, src string) *Compiler {
	t.Helper()
	c := New("test.gg")
	c.BeginEntry("main")
	compile(t, c, src)
	c.EndEntry()
	return c
}

func function(t *testing.T, c *Compiler, name string) *ir.Func {
	t.Helper()
	for _, fn := range c.Module().Funcs {
		if fn.Name() == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}

func block(t *testing.T, fn *ir.Func, name string) *ir.Block {
	t.Helper()
	for _, b := range fn.Blocks {
		if b.Name() == name {
			return b
		}
	}
	t.Fatalf("block %s not found in %s", name, fn.Name())
	return nil
}

// slotsInEntry fails the test when a stack slot is allocated anywhere but
// the function's entry block, where it would not dominate every use.
func slotsInEntry(t *testing.T, fn *ir.Func) {
	t.Helper()
	for i, b := range fn.Blocks {
		for _, inst := range b.Insts {
			if a, ok := inst.(*ir.InstAlloca); ok && i != 0 {
				t.Errorf("%s: slot %s allocated in %s", fn.Name(), a.Name(), b.Name())
			}
		}
	}
}

func errorType(c *Compiler) string {
	if len(c.Errors()) == 0 {
		return ""
	}
	return fmt.Sprintf("%T", c.Errors()[0])
}

func TestBuiltins(t *testing.T) {
	c := New("test.gg")
	for _, name := range []string{"int", "float", "bool"} {
		if !c.Scope().IsBuiltinType(name, true) {
			t.Errorf("%s is not a builtin type", name)
		}
	}
	for _, name := range []string{"True", "False"} {
		v, ok := c.Scope().Variable(name, true)
		if !ok {
			t.Fatalf("%s is not registered", name)
		}
		g, ok := v.Storage.(*ir.Global)
		if !ok || !g.Immutable {
			t.Errorf("%s should be stored in an immutable global, got %T", name, v.Storage)
		}
	}
}

func TestDeclarationAndUse(t *testing.T) {
	c := New("test.gg")
	c.BeginEntry("main")
	compile(t, c, "x : int = 5 ;")
	if len(c.Errors()) > 0 {
		t.Fatalf("unexpected errors: %s", c.Errors())
	}

	entry := function(t, c, "main").Blocks[0]
	alloca, ok := entry.Insts[0].(*ir.InstAlloca)
	if !ok {
		t.Fatalf("expected an alloca, got %T", entry.Insts[0])
	}
	store := entry.Insts[1].(*ir.InstStore)
	if store.Src.(*constant.Int).X.Int64() != 5 || store.Dst != alloca {
		t.Errorf("expected 5 to be stored into x, got %s", store.LLString())
	}

	v, ok := c.Scope().Variable("x", true)
	if !ok || v.Storage != alloca || !v.Type.Equal(irtypes.I32) {
		t.Fatalf("x is not registered correctly")
	}

	op, ok := c.ResolveValue(&ast.IdentifierLiteral{Value: "x"})
	if !ok {
		t.Fatalf("x did not resolve: %s", c.Errors())
	}
	load, isLoad := op.Value.(*ir.InstLoad)
	if !isLoad || load.Src != alloca || !op.Type.Equal(irtypes.I32) {
		t.Errorf("expected an int load from x, got %T of %s", op.Value, op.Type)
	}
	c.EndEntry()
}

func TestRedeclaration(t *testing.T) {
	c := compileEntry(t, "x : int = 5 ; x : int = 6 ;")
	if errorType(c) != "errors.Redeclaration" {
		t.Fatalf("expected a redeclaration error, got %s", c.Errors())
	}

	entry := function(t, c, "main").Blocks[0]
	first := entry.Insts[0].(*ir.InstAlloca)
	v, _ := c.Scope().Variable("x", true)
	if v.Storage != first {
		t.Error("the second declaration replaced the first binding")
	}
	for _, inst := range entry.Insts[1:] {
		if _, ok := inst.(*ir.InstAlloca); ok {
			t.Error("the second declaration allocated storage")
		}
	}
}

func TestFunctionScope(t *testing.T) {
	c := compileFunctions(t, `
def f(a: int) -> int {
	y: int = a + 1;
	return y;
}
`)
	if len(c.Errors()) > 0 {
		t.Fatalf("unexpected errors: %s", c.Errors())
	}

	if _, ok := c.Scope().Get("y", true); ok {
		t.Error("y leaked out of the function body")
	}
	if _, ok := c.Scope().Get("a", true); ok {
		t.Error("parameter a leaked out of the function body")
	}
	if !c.Scope().IsFunction("f", true) {
		t.Error("f is not callable from the enclosing scope")
	}
	if len(c.scopes) != 1 || c.block != nil {
		t.Errorf("compiler state was not restored: %d scopes", len(c.scopes))
	}

	fn, _ := c.Scope().Function("f", true)
	if len(fn.Params) != 1 || fn.Params[0].Storage.(*ir.InstAlloca).Name() != "a.addr" {
		t.Errorf("unexpected parameter storage for %d parameters", len(fn.Params))
	}
}

func TestRecursion(t *testing.T) {
	c := compileFunctions(t, `
def fact(n: int) -> int {
	if n <= 1 {
		return 1;
	}
	return n * fact(n - 1);
}
`)
	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestIfElse(t *testing.T) {
	c := compileFunctions(t, "def f(a: int) -> int { if (a > 0) { return 1 ; } else { return 2 ; } }")
	if len(c.Errors()) > 0 {
		t.Fatalf("unexpected errors: %s", c.Errors())
	}

	fn := function(t, c, "f")
	if _, ok := fn.Blocks[0].Term.(*ir.TermCondBr); !ok {
		t.Errorf("entry should end in a conditional branch, got %T", fn.Blocks[0].Term)
	}
	for _, name := range []string{"then.0", "else.0"} {
		if _, ok := block(t, fn, name).Term.(*ir.TermRet); !ok {
			t.Errorf("%s should end in its own return", name)
		}
	}

	cont := block(t, fn, "cont.0")
	if len(cont.Insts) != 0 || cont.Term != nil {
		t.Errorf("continue block should be empty, got %d instructions", len(cont.Insts))
	}

	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if _, ok := cont.Term.(*ir.TermUnreachable); !ok {
		t.Errorf("continue block should be unreachable, got %T", cont.Term)
	}
}

func TestIfWithoutElse(t *testing.T) {
	c := compileFunctions(t, `
def f(a: bool) -> int {
	x: int = 1;
	if a {
		x = 2;
	}
	return x;
}
`)
	fn := function(t, c, "f")
	slotsInEntry(t, fn)
	then := block(t, fn, "then.0")
	br, ok := then.Term.(*ir.TermBr)
	if !ok || br.Target != block(t, fn, "cont.0") {
		t.Errorf("then should branch to the continue block, got %T", then.Term)
	}
	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestDeclarationInBranch(t *testing.T) {
	c := compileFunctions(t, `
def f(a: bool) -> int {
	if a {
		y: int = 1;
	} else {
		z: int = 2;
		y = z;
	}
	return y;
}
`)
	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	fn := function(t, c, "f")
	slotsInEntry(t, fn)

	entry := fn.Blocks[0]
	var slots []string
	for _, inst := range entry.Insts {
		if a, ok := inst.(*ir.InstAlloca); ok {
			slots = append(slots, a.Name())
		}
	}
	expected := []string{"a.addr", "y", "z"}
	if repr.String(slots) != repr.String(expected) {
		t.Errorf("got slots %s, want %s", repr.String(slots), repr.String(expected))
	}
	if _, ok := entry.Insts[len(slots)].(*ir.InstStore); !ok {
		t.Errorf("the parameter store should follow the slots, got %T", entry.Insts[len(slots)])
	}

	then := block(t, fn, "then.0")
	if len(then.Insts) != 1 {
		t.Fatalf("then should only store y, got %d instructions", len(then.Insts))
	}
	if _, ok := then.Insts[0].(*ir.InstStore); !ok {
		t.Errorf("then should store y, got %T", then.Insts[0])
	}

	cont := block(t, fn, "cont.0")
	load, ok := cont.Insts[0].(*ir.InstLoad)
	if !ok {
		t.Fatalf("expected a load of y in the continue block, got %T", cont.Insts[0])
	}
	if slot, ok := load.Src.(*ir.InstAlloca); !ok || slot.Name() != "y" {
		t.Errorf("return should load y from its entry slot")
	}
}

func TestElifChain(t *testing.T) {
	c := compileFunctions(t, `
def sign(a: int) -> int {
	if a > 0 {
		return 1;
	} elif a < 0 {
		return -1;
	} else {
		return 0;
	}
}
`)
	fn := function(t, c, "sign")
	block(t, fn, "then.1")
	block(t, fn, "cont.1")
	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
}

func TestCallArgumentOrder(t *testing.T) {
	c := compileFunctions(t, `
def sub(a: int, b: int) -> int { return a - b; }
def g(x: int) -> int { return sub(x + 1, x * 2); }
`)
	if len(c.Errors()) > 0 {
		t.Fatalf("unexpected errors: %s", c.Errors())
	}

	entry := function(t, c, "g").Blocks[0]
	add, mul, call := -1, -1, -1
	for i, inst := range entry.Insts {
		switch inst.(type) {
		case *ir.InstAdd:
			add = i
		case *ir.InstMul:
			mul = i
		case *ir.InstCall:
			call = i
		}
	}
	if !(add >= 0 && add < mul && mul < call) {
		t.Fatalf("arguments were not lowered in order: %s", entry.LLString())
	}
	args := entry.Insts[call].(*ir.InstCall).Args
	if args[0] != entry.Insts[add].(*ir.InstAdd) || args[1] != entry.Insts[mul].(*ir.InstMul) {
		t.Errorf("call arguments are out of order: %s", entry.Insts[call].LLString())
	}
}

func TestUndeclaredCall(t *testing.T) {
	c := compileFunctions(t, "def f() -> int { return g(1); }")
	if errorType(c) != "errors.UndeclaredFunction" {
		t.Fatalf("expected an undeclared function error, got %s", c.Errors())
	}
	for _, b := range function(t, c, "f").Blocks {
		for _, inst := range b.Insts {
			if _, ok := inst.(*ir.InstCall); ok {
				t.Errorf("a call was emitted in %s", b.Name())
			}
		}
	}
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"undeclared variable", "def f() -> int { return y; }", "errors.UndeclaredIdentifier"},
		{"undeclared assignment", "def f() -> int { y = 1; return 0; }", "errors.UndeclaredIdentifier"},
		{"unknown type", "def f() -> int { y: string = 1; return 0; }", "errors.UnknownType"},
		{"generic type", "def f() -> int { y: list[int] = 1; return 0; }", "errors.UnknownType"},
		{"mixed arithmetic", "def f() -> int { x: int = 1; y: float = 2.0; z: int = x + y; return z; }", "errors.MismatchedTypes"},
		{"declaration mismatch", "def f() -> int { x: int = 1.5; return x; }", "errors.MismatchedTypes"},
		{"assignment mismatch", "def f() -> int { x: int = 1; x = true; return x; }", "errors.MismatchedTypes"},
		{"return mismatch", "def f() -> int { return 1.5; }", "errors.MismatchedTypes"},
		{"non-bool condition", "def f() -> int { if 1 { return 1; } return 0; }", "errors.MismatchedTypes"},
		{"argument type", "def g(a: float) -> int { return 0; } def f() -> int { return g(1); }", "errors.MismatchedTypes"},
		{"argument count", "def g(a: int) -> int { return a; } def f() -> int { return g(1, 2); }", "errors.ArgumentCount"},
		{"bool arithmetic", "def f() -> bool { return true + false; }", "errors.UnsupportedOperator"},
		{"exponent", "def f() -> int { return 2 ** 3; }", "errors.UnsupportedOperator"},
		{"not on int", "def f() -> int { return not 1; }", "errors.UnsupportedOperator"},
		{"string literal", "def f() -> int { x: int = 'a'; return 0; }", "errors.UnsupportedExpression"},
		{"duplicate function", "def f() -> int { return 0; } def f() -> int { return 1; }", "errors.Redeclaration"},
		{"duplicate parameter", "def f(a: int, a: int) -> int { return a; }", "errors.Redeclaration"},
		{"enclosing variable", "def f() -> int { x: int = 1; def g() -> int { return x; } return x; }", "errors.UnsupportedExpression"},
		{"outside function", "x: int = 1;", "errors.NoInsertionPoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compileFunctions(t, tt.input)
			if got := errorType(c); got != tt.expected {
				t.Errorf("got %s (%s), want %s", got, c.Errors(), tt.expected)
			}
		})
	}
}

func TestOperators(t *testing.T) {
	c := compileFunctions(t, `
def ints(a: int, b: int) -> int { return (a % b) + (a ^ b) + (a << 2) + (a >> 1) + ~a + -b; }
def floats(a: float, b: float) -> float { return a / b - a % b * -a; }
def bools(a: bool, b: bool) -> bool { return (a and b) or not (a == b) || a != b; }
def compare(a: float, b: float) -> bool { return a <= b; }
`)
	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	out := c.Module().String()
	for _, want := range []string{"srem i32", "xor i32", "shl i32", "ashr i32", "frem float", "fdiv float", "fcmp ole float", "and i1", "or i1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in\n%s", want, out)
		}
	}
}

func TestMissingReturn(t *testing.T) {
	c := compileFunctions(t, "def f(a: bool) -> int { if a { return 1; } }")
	m, err := c.Finish()
	if err == nil || m != nil {
		t.Fatal("expected Finish to refuse the module")
	}
	if errorType(c) != "errors.MissingReturn" {
		t.Errorf("expected a missing return error, got %s", c.Errors())
	}
}

func TestNoMissingReturnAfterFailure(t *testing.T) {
	c := compileFunctions(t, `
def g() -> int { return nope; }
def h(a: bool) -> int { if a { return 1; } }
`)
	if _, err := c.Finish(); err == nil {
		t.Fatal("expected Finish to fail")
	}

	errs := c.Errors()
	if len(errs) != 2 {
		t.Fatalf("expected two errors, got %s", errs)
	}
	if got := fmt.Sprintf("%T", errs[0]); got != "errors.UndeclaredIdentifier" {
		t.Errorf("got %s first", got)
	}
	missing, ok := errs[1].(errors.MissingReturn)
	if !ok || missing.Function != "h" {
		t.Errorf("only h should miss a return, got %s", errs[1])
	}
}

func TestSmallestInt(t *testing.T) {
	c := compileFunctions(t, "def f() -> int { return -2147483648; }")
	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	ret := function(t, c, "f").Blocks[0].Term.(*ir.TermRet)
	if v, ok := ret.X.(*constant.Int); !ok || v.X.Int64() != math.MinInt32 {
		t.Errorf("expected the constant -2147483648, got %T", ret.X)
	}

	c = compileFunctions(t, "def f() -> int { return -2147483649; }")
	if errorType(c) != "errors.UnsupportedExpression" {
		t.Errorf("expected an out of range error, got %s", c.Errors())
	}
}

func TestCodeAfterReturn(t *testing.T) {
	c := compileFunctions(t, "def f() -> int { return 1; x: int = 2; }")
	if _, err := c.Finish(); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	fn := function(t, c, "f")
	dead := block(t, fn, "dead.0")
	if _, ok := dead.Term.(*ir.TermUnreachable); !ok {
		t.Errorf("dead block should be unreachable, got %T", dead.Term)
	}
	for _, inst := range fn.Blocks[0].Insts {
		if _, ok := inst.(*ir.InstAlloca); !ok {
			t.Errorf("only stack slots may follow the return in the entry block, got %T", inst)
		}
	}
	if len(dead.Insts) != 1 {
		t.Errorf("the store to x belongs in the dead block, got %d instructions", len(dead.Insts))
	}
}

func TestEntry(t *testing.T) {
	c := compileEntry(t, `
x: int = 2;
def double(a: int) -> int { return a * 2; }
double(x);
`)
	m, err := c.Finish()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	out := m.String()
	for _, want := range []string{"define i32 @main()", "define i32 @double(i32 %a)", "call i32 @double", "ret i32 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in\n%s", want, out)
		}
	}
}

func TestTypeInfo(t *testing.T) {
	c := compileFunctions(t, "def add(a: int, b: float) -> float { return b; }", WithTypeInfo())
	m, err := c.Finish()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	found := false
	for _, g := range m.Globals {
		if g.Name() == TypeInfoSymbol {
			found = g.Immutable
		}
	}
	if !found {
		t.Errorf("%s is missing from the module", TypeInfoSymbol)
	}

	sig := c.TypeInfo().Functions["add"]
	expected := Signature{
		Parameters: []Parameter{{Name: "a", Type: "int"}, {Name: "b", Type: "float"}},
		Returns:    "float",
	}
	if repr.String(sig) != repr.String(expected) {
		t.Errorf("got %s, want %s", repr.String(sig), repr.String(expected))
	}
}

func TestDecodeTypeInfo(t *testing.T) {
	info, err := DecodeTypeInfo([]byte(`{"module":"m","functions":{"f":{"parameters":null,"returns":"int"}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if info.Module != "m" || info.Functions["f"].Returns != "int" {
		t.Errorf("unexpected type info %s", repr.String(info))
	}
	if _, err := DecodeTypeInfo([]byte("{")); err == nil {
		t.Error("expected malformed type info to fail")
	}
}
