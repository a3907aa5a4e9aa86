package compiler

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/gigly/ast"
	"github.com/pontaoski/gigly/env"
	"github.com/pontaoski/gigly/errors"
	"github.com/pontaoski/gigly/types"
)

// Operand is a lowered expression together with its resolved type.
type Operand struct {
	Value value.Value
	Type  irtypes.Type
}

type Option func(*Compiler)

// WithTypeInfo embeds a description of every compiled function in the
// module when it is finished.
func WithTypeInfo() Option {
	return func(c *Compiler) {
		c.typeInfo = true
	}
}

type Compiler struct {
	module *ir.Module
	scopes []*env.Environment
	errors errors.List

	// insertion point; nil outside of functions
	fn    *ir.Func
	block *ir.Block
	taken map[string]bool

	globals   map[string]bool
	functions []*env.Function
	spans     map[*ir.Func]types.Span
	owners    map[value.Value]*ir.Func
	// functions whose bodies already produced a diagnostic
	failed map[*ir.Func]bool

	entry    *ir.Func
	typeInfo bool
	finished bool
}

func New(moduleName string, opts ...Option) *Compiler {
	c := &Compiler{
		module:  ir.NewModule(),
		globals: make(map[string]bool),
		spans:   make(map[*ir.Func]types.Span),
		owners:  make(map[value.Value]*ir.Func),
		failed:  make(map[*ir.Func]bool),
	}
	c.module.SourceFilename = moduleName
	c.scopes = []*env.Environment{env.New(nil, moduleName)}

	for _, opt := range opts {
		opt(c)
	}

	c.addBuiltins()
	return c
}

func (c *Compiler) Module() *ir.Module      { return c.module }
func (c *Compiler) Errors() errors.List     { return c.errors }
func (c *Compiler) Scope() *env.Environment { return c.scope() }

func (c *Compiler) scope() *env.Environment {
	return c.scopes[len(c.scopes)-1]
}

func (c *Compiler) pushScope(name string) {
	c.scopes = append(c.scopes, env.New(c.scope(), name))
}

func (c *Compiler) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

// uniqueName hands out name.0, name.1, ... within the current function.
func (c *Compiler) uniqueName(base string) string {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s.%d", base, i)
		if !c.taken[name] {
			c.taken[name] = true
			return name
		}
	}
}

func (c *Compiler) localName(base string) string {
	if !c.taken[base] {
		c.taken[base] = true
		return base
	}
	return c.uniqueName(base)
}

// insertion returns the block new instructions go into. Code following a
// terminator is placed in a fresh block with no predecessors.
func (c *Compiler) insertion(what string, at types.Span) (*ir.Block, bool) {
	if c.block == nil {
		c.errors.Add(errors.NoInsertionPoint{What: what, Location: at})
		return nil, false
	}
	if c.block.Term != nil {
		c.block = c.fn.NewBlock(c.uniqueName("dead"))
	}
	return c.block, true
}

// alloca reserves a stack slot at the top of the current function's entry
// block, after any slots already there, so it dominates every use.
func (c *Compiler) alloca(typ irtypes.Type, name string) *ir.InstAlloca {
	slot := ir.NewAlloca(typ)
	slot.SetName(c.localName(name))

	entry := c.fn.Blocks[0]
	n := 0
	for n < len(entry.Insts) {
		if _, ok := entry.Insts[n].(*ir.InstAlloca); !ok {
			break
		}
		n++
	}
	entry.Insts = append(entry.Insts, nil)
	copy(entry.Insts[n+1:], entry.Insts[n:])
	entry.Insts[n] = slot
	return slot
}

type frame struct {
	fn    *ir.Func
	block *ir.Block
	taken map[string]bool
}

func (c *Compiler) enterFunction(fn *ir.Func) frame {
	saved := frame{c.fn, c.block, c.taken}
	c.fn = fn
	c.block = fn.NewBlock("entry")
	c.taken = map[string]bool{"entry": true}
	return saved
}

func (c *Compiler) leaveFunction(saved frame) {
	c.fn, c.block, c.taken = saved.fn, saved.block, saved.taken
}

// BeginEntry starts an `i32 name()` function that receives top-level
// statements until EndEntry is called.
func (c *Compiler) BeginEntry(name string) {
	fn := c.module.NewFunc(name, irtypes.I32)
	c.globals[name] = true
	c.entry = fn
	c.enterFunction(fn)
}

// EndEntry returns 0 from the entry function unless it already returned.
func (c *Compiler) EndEntry() {
	if c.entry == nil || c.fn != c.entry {
		return
	}
	if c.block.Term == nil {
		c.block.NewRet(constant.NewInt(irtypes.I32, 0))
	}
	c.leaveFunction(frame{})
}

// Finish checks that every block is terminated and hands out the module,
// unless any diagnostic was reported along the way.
func (c *Compiler) Finish() (*ir.Module, error) {
	if !c.finished {
		c.finished = true
		c.verify()
		if c.typeInfo && len(c.errors) == 0 {
			if err := c.registerTypeInfo(); err != nil {
				return nil, err
			}
		}
	}

	if len(c.errors) > 0 {
		return nil, c.errors
	}
	return c.module, nil
}

func (c *Compiler) Compile(node ast.Node) {
	switch n := node.(type) {
	case nil:
	case *ast.Program:
		for _, stmt := range n.Statements {
			c.Compile(stmt)
		}
	case *ast.BlockStatement:
		for _, stmt := range n.Statements {
			c.Compile(stmt)
		}
	case *ast.ExpressionStatement:
		c.ResolveValue(n.Expr)
	case *ast.VariableDeclarationStatement:
		c.compileDeclaration(n)
	case *ast.VariableAssignmentStatement:
		c.compileAssignment(n)
	case *ast.FunctionStatement:
		c.compileFunction(n)
	case *ast.ReturnStatement:
		c.compileReturn(n)
	case *ast.IfElseStatement:
		c.compileIfElse(n)
	case ast.Expression:
		c.ResolveValue(n)
	default:
		c.errors.Add(errors.UnsupportedExpression{What: node.Kind().String(), Location: node.Pos()})
	}
}

func (c *Compiler) resolveType(t ast.BaseType) (irtypes.Type, bool) {
	if t == nil {
		return nil, false
	}

	g, ok := t.(*ast.GenericType)
	if !ok || len(g.Generics) > 0 {
		c.errors.Add(errors.UnknownType{Name: t.String(), Location: t.Pos()})
		return nil, false
	}

	b, ok := c.scope().BuiltinType(ast.TypeName(t), false)
	if !ok {
		c.errors.Add(errors.UnknownType{Name: ast.TypeName(t), Location: t.Pos()})
		return nil, false
	}
	return b.Type, true
}

func (c *Compiler) compileDeclaration(n *ast.VariableDeclarationStatement) {
	name := n.Name.Value

	typ, ok := c.resolveType(n.ValueType)
	if !ok {
		return
	}
	if c.scope().Contains(name, true) {
		c.errors.Add(errors.Redeclaration{Name: name, Location: n.Name.Location})
		return
	}

	initial := Operand{Value: constant.NewZeroInitializer(typ), Type: typ}
	if n.Value != nil {
		initial, ok = c.ResolveValue(n.Value)
		if !ok {
			return
		}
		if !initial.Type.Equal(typ) {
			c.errors.Add(errors.MismatchedTypes{
				Context:  "declaration of " + name,
				Left:     typeName(typ),
				Right:    typeName(initial.Type),
				Location: n.Location,
			})
			return
		}
	}

	b, ok := c.insertion("variable declaration", n.Location)
	if !ok {
		return
	}

	slot := c.alloca(typ, name)
	b.NewStore(initial.Value, slot)

	c.owners[slot] = c.fn
	c.scope().Add(&env.Variable{Ident: name, Value: initial.Value, Type: typ, Storage: slot})
}

func (c *Compiler) compileAssignment(n *ast.VariableAssignmentStatement) {
	name := n.Name.Value

	v, ok := c.variable(name, n.Name.Location)
	if !ok {
		return
	}

	val, ok := c.ResolveValue(n.Value)
	if !ok {
		return
	}
	if !val.Type.Equal(v.Type) {
		c.errors.Add(errors.MismatchedTypes{
			Context:  "assignment to " + name,
			Left:     typeName(v.Type),
			Right:    typeName(val.Type),
			Location: n.Location,
		})
		return
	}

	b, ok := c.insertion("assignment", n.Location)
	if !ok {
		return
	}
	b.NewStore(val.Value, v.Storage)
}

// variable looks a variable up for reading or writing. Stack slots of an
// enclosing function are not reachable from a nested one.
func (c *Compiler) variable(name string, at types.Span) (*env.Variable, bool) {
	v, ok := c.scope().Variable(name, false)
	if !ok {
		c.errors.Add(errors.UndeclaredIdentifier{Name: name, Location: at})
		return nil, false
	}
	if owner, local := c.owners[v.Storage]; local && owner != c.fn {
		c.errors.Add(errors.UnsupportedExpression{
			What:     "use of " + name + " from an enclosing function",
			Location: at,
		})
		return nil, false
	}
	return v, true
}

func (c *Compiler) compileFunction(n *ast.FunctionStatement) {
	name := n.Name.Value
	if c.scope().Contains(name, true) || c.globals[name] {
		c.errors.Add(errors.Redeclaration{Name: name, Location: n.Name.Location})
		return
	}

	ret, ok := c.resolveType(n.ReturnType)
	params := make([]*ir.Param, 0, len(n.Parameters))
	for _, p := range n.Parameters {
		t, found := c.resolveType(p.ValueType)
		ok = ok && found
		params = append(params, ir.NewParam(p.Name.Value, t))
	}
	if !ok {
		return
	}

	fn := c.module.NewFunc(name, ret, params...)
	c.globals[name] = true
	c.spans[fn] = n.Location

	record := &env.Function{Ident: name, Func: fn, Sig: fn.Sig}

	saved := c.enterFunction(fn)
	defer c.leaveFunction(saved)

	c.pushScope(name)
	c.scope().Add(record)

	for i, p := range n.Parameters {
		pname := p.Name.Value
		if c.scope().Contains(pname, true) {
			c.errors.Add(errors.Redeclaration{Name: pname, Location: p.Name.Location})
			continue
		}
		params[i].SetName(c.localName(pname))

		slot := c.alloca(params[i].Typ, pname+".addr")
		c.block.NewStore(params[i], slot)

		v := &env.Variable{Ident: pname, Value: params[i], Type: params[i].Typ, Storage: slot}
		c.owners[slot] = fn
		record.Params = append(record.Params, v)
		c.scope().Add(v)
	}

	before := len(c.errors)
	c.Compile(n.Body)
	if len(c.errors) > before {
		c.failed[fn] = true
	}

	c.popScope()
	c.scope().Add(record)
	c.functions = append(c.functions, record)
}

func (c *Compiler) compileReturn(n *ast.ReturnStatement) {
	val, ok := c.ResolveValue(n.Value)
	if !ok {
		return
	}

	b, ok := c.insertion("return", n.Location)
	if !ok {
		return
	}
	if want := c.fn.Sig.RetType; !want.Equal(val.Type) {
		c.errors.Add(errors.MismatchedTypes{
			Context:  "return from " + c.fn.Name(),
			Left:     typeName(want),
			Right:    typeName(val.Type),
			Location: n.Location,
		})
		return
	}
	b.NewRet(val.Value)
}

func (c *Compiler) compileIfElse(n *ast.IfElseStatement) {
	cond, ok := c.ResolveValue(n.Condition)
	if !ok {
		return
	}
	if !isBool(cond.Type) {
		c.errors.Add(errors.MismatchedTypes{
			Context:  "if condition",
			Left:     "bool",
			Right:    typeName(cond.Type),
			Location: n.Condition.Pos(),
		})
		return
	}

	b, ok := c.insertion("if statement", n.Location)
	if !ok {
		return
	}

	then := c.fn.NewBlock(c.uniqueName("then"))
	var els *ir.Block
	if n.Alternative != nil {
		els = c.fn.NewBlock(c.uniqueName("else"))
	}
	cont := c.fn.NewBlock(c.uniqueName("cont"))

	if els != nil {
		b.NewCondBr(cond.Value, then, els)
	} else {
		b.NewCondBr(cond.Value, then, cont)
	}

	c.block = then
	c.Compile(n.Consequence)
	c.branchTo(cont)

	if els != nil {
		c.block = els
		c.Compile(n.Alternative)
		c.branchTo(cont)
	}

	c.block = cont
}

func (c *Compiler) branchTo(target *ir.Block) {
	if c.block.Term == nil {
		c.block.NewBr(target)
	}
}
