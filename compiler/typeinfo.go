package compiler

import (
	"encoding/json"

	"github.com/llir/llvm/ir/constant"
	"github.com/ztrue/tracerr"
)

// TypeInfoSymbol is the global holding the embedded type information.
const TypeInfoSymbol = "__gigly_types"

type Parameter struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Signature struct {
	Parameters []Parameter `json:"parameters"`
	Returns    string      `json:"returns"`
}

type TypeInfo struct {
	Module    string               `json:"module"`
	Functions map[string]Signature `json:"functions"`
}

// TypeInfo describes the functions compiled so far. The entry function is
// not part of it.
func (c *Compiler) TypeInfo() TypeInfo {
	t := TypeInfo{
		Module:    c.module.SourceFilename,
		Functions: make(map[string]Signature),
	}
	for _, fn := range c.functions {
		sig := Signature{Returns: typeName(fn.ReturnType())}
		for _, p := range fn.Params {
			sig.Parameters = append(sig.Parameters, Parameter{Name: p.Ident, Type: typeName(p.Type)})
		}
		t.Functions[fn.Ident] = sig
	}
	return t
}

func (c *Compiler) registerTypeInfo() error {
	data, err := json.Marshal(c.TypeInfo())
	if err != nil {
		return tracerr.Wrap(err)
	}

	g := c.module.NewGlobalDef(TypeInfoSymbol, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
	return nil
}

func DecodeTypeInfo(data []byte) (TypeInfo, error) {
	var t TypeInfo
	if err := json.Unmarshal(data, &t); err != nil {
		return TypeInfo{}, tracerr.Wrap(err)
	}
	return t, nil
}
