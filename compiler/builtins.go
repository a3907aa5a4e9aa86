package compiler

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/pontaoski/gigly/env"
)

var (
	Int   = &env.BuiltinType{Ident: "int", Type: irtypes.I32}
	Float = &env.BuiltinType{Ident: "float", Type: irtypes.Float}
	Bool  = &env.BuiltinType{Ident: "bool", Type: irtypes.I1}
)

var builtinTypes = []*env.BuiltinType{Int, Float, Bool}

// addBuiltins fills the root scope with the builtin types and the True and
// False constants, which live in the module as immutable globals.
func (c *Compiler) addBuiltins() {
	root := c.scope()
	for _, t := range builtinTypes {
		root.Add(t)
	}

	consts := []struct {
		name  string
		value *constant.Int
	}{
		{"True", constant.True},
		{"False", constant.False},
	}
	for _, k := range consts {
		g := c.module.NewGlobalDef(k.name, k.value)
		g.Immutable = true
		c.globals[k.name] = true

		root.Add(&env.Variable{Ident: k.name, Value: k.value, Type: irtypes.I1, Storage: g})
	}
}

func typeName(t irtypes.Type) string {
	if t == nil {
		return "nothing"
	}
	for _, b := range builtinTypes {
		if b.Type.Equal(t) {
			return b.Ident
		}
	}
	return t.String()
}

func isInt(t irtypes.Type) bool {
	i, ok := t.(*irtypes.IntType)
	return ok && i.BitSize == 32
}

func isBool(t irtypes.Type) bool {
	i, ok := t.(*irtypes.IntType)
	return ok && i.BitSize == 1
}

func isFloat(t irtypes.Type) bool {
	_, ok := t.(*irtypes.FloatType)
	return ok
}
