package env

import (
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

type RecordKind int

const (
	BuiltinTypeRecord RecordKind = iota
	VariableRecord
	FunctionRecord
	ClassTypeRecord
	EnumTypeRecord
)

func (k RecordKind) String() string {
	switch k {
	case BuiltinTypeRecord:
		return "builtin type"
	case VariableRecord:
		return "variable"
	case FunctionRecord:
		return "function"
	case ClassTypeRecord:
		return "class"
	case EnumTypeRecord:
		return "enum"
	}
	return "unknown"
}

// Record is anything a name can be bound to.
type Record interface {
	Name() string
	Kind() RecordKind
	is_Record()
}

type BuiltinType struct {
	Ident string
	Type  types.Type
}

func (r *BuiltinType) Name() string     { return r.Ident }
func (r *BuiltinType) Kind() RecordKind { return BuiltinTypeRecord }
func (r *BuiltinType) is_Record()       {}

// Variable is a named storage location. Value is the value it was
// initialised with, Storage the pointer loads and stores go through.
type Variable struct {
	Ident   string
	Value   value.Value
	Type    types.Type
	Storage value.Value
}

func (r *Variable) Name() string     { return r.Ident }
func (r *Variable) Kind() RecordKind { return VariableRecord }
func (r *Variable) is_Record()       {}

type Function struct {
	Ident  string
	Func   *ir.Func
	Sig    *types.FuncType
	Params []*Variable
}

func (r *Function) Name() string     { return r.Ident }
func (r *Function) Kind() RecordKind { return FunctionRecord }
func (r *Function) is_Record()       {}

// ReturnType is the declared return type of the function.
func (r *Function) ReturnType() types.Type {
	return r.Sig.RetType
}

type ClassType struct {
	Ident string
}

func (r *ClassType) Name() string     { return r.Ident }
func (r *ClassType) Kind() RecordKind { return ClassTypeRecord }
func (r *ClassType) is_Record()       {}

type EnumType struct {
	Ident string
}

func (r *EnumType) Name() string     { return r.Ident }
func (r *EnumType) Kind() RecordKind { return EnumTypeRecord }
func (r *EnumType) is_Record()       {}

// Environment is one lexical scope. Lookups fall through to the parent
// unless limited to the current scope, so inner bindings shadow outer ones.
type Environment struct {
	parent  *Environment
	name    string
	records map[string]Record
}

func New(parent *Environment, name string) *Environment {
	return &Environment{
		parent:  parent,
		name:    name,
		records: make(map[string]Record),
	}
}

func (e *Environment) Parent() *Environment { return e.parent }
func (e *Environment) Name() string         { return e.name }

// Depth is 0 for the root scope.
func (e *Environment) Depth() int {
	d := 0
	for p := e.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Add binds the record in this scope only, replacing any binding of the
// same name here.
func (e *Environment) Add(r Record) {
	e.records[r.Name()] = r
}

func (e *Environment) Get(name string, limitToCurrentScope bool) (Record, bool) {
	if r, ok := e.records[name]; ok {
		return r, true
	}
	if limitToCurrentScope || e.parent == nil {
		return nil, false
	}
	return e.parent.Get(name, false)
}

func (e *Environment) Contains(name string, limitToCurrentScope bool) bool {
	_, ok := e.Get(name, limitToCurrentScope)
	return ok
}

// Names lists the names bound in this scope, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.records))
	for name := range e.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) BuiltinType(name string, limitToCurrentScope bool) (*BuiltinType, bool) {
	r, ok := e.Get(name, limitToCurrentScope)
	if !ok {
		return nil, false
	}
	t, ok := r.(*BuiltinType)
	return t, ok
}

func (e *Environment) IsBuiltinType(name string, limitToCurrentScope bool) bool {
	_, ok := e.BuiltinType(name, limitToCurrentScope)
	return ok
}

func (e *Environment) Variable(name string, limitToCurrentScope bool) (*Variable, bool) {
	r, ok := e.Get(name, limitToCurrentScope)
	if !ok {
		return nil, false
	}
	v, ok := r.(*Variable)
	return v, ok
}

func (e *Environment) IsVariable(name string, limitToCurrentScope bool) bool {
	_, ok := e.Variable(name, limitToCurrentScope)
	return ok
}

func (e *Environment) Function(name string, limitToCurrentScope bool) (*Function, bool) {
	r, ok := e.Get(name, limitToCurrentScope)
	if !ok {
		return nil, false
	}
	f, ok := r.(*Function)
	return f, ok
}

func (e *Environment) IsFunction(name string, limitToCurrentScope bool) bool {
	_, ok := e.Function(name, limitToCurrentScope)
	return ok
}

func (e *Environment) Class(name string, limitToCurrentScope bool) (*ClassType, bool) {
	r, ok := e.Get(name, limitToCurrentScope)
	if !ok {
		return nil, false
	}
	c, ok := r.(*ClassType)
	return c, ok
}

func (e *Environment) IsClass(name string, limitToCurrentScope bool) bool {
	_, ok := e.Class(name, limitToCurrentScope)
	return ok
}

func (e *Environment) Enum(name string, limitToCurrentScope bool) (*EnumType, bool) {
	r, ok := e.Get(name, limitToCurrentScope)
	if !ok {
		return nil, false
	}
	en, ok := r.(*EnumType)
	return en, ok
}

func (e *Environment) IsEnum(name string, limitToCurrentScope bool) bool {
	_, ok := e.Enum(name, limitToCurrentScope)
	return ok
}
