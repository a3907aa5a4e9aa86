package ast

import (
	"github.com/pontaoski/gigly/types"
)

//go:generate go run ../tool nodes.adt nodes_gen.go ast

// NodeKind identifies a node type. The kinds and the per-node Kind, Pos and
// marker methods are generated from nodes.adt.
type NodeKind int

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

type Node interface {
	Kind() NodeKind
	Pos() types.Span
	String() string
}

type Statement interface {
	Node
	is_Statement()
}

type Expression interface {
	Node
	is_Expression()
}

type BaseType interface {
	Node
	is_BaseType()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() types.Span {
	if len(p.Statements) == 0 {
		return types.Span{}
	}
	return types.Join(p.Statements[0].Pos(), p.Statements[len(p.Statements)-1].Pos())
}

type ExpressionStatement struct {
	Expr     Expression
	Location types.Span
}

type BlockStatement struct {
	Statements []Statement
	Location   types.Span
}

type VariableDeclarationStatement struct {
	Name      *IdentifierLiteral
	ValueType BaseType
	// Value is nil when the declaration has no initializer.
	Value    Expression
	Location types.Span
}

type VariableAssignmentStatement struct {
	Name     *IdentifierLiteral
	Value    Expression
	Location types.Span
}

type FunctionParameter struct {
	Name      *IdentifierLiteral
	ValueType BaseType
}

func (p *FunctionParameter) Pos() types.Span {
	return types.Join(p.Name.Pos(), p.ValueType.Pos())
}

type FunctionStatement struct {
	Name       *IdentifierLiteral
	Parameters []*FunctionParameter
	ReturnType BaseType
	Body       *BlockStatement
	Location   types.Span
}

type ReturnStatement struct {
	Value    Expression
	Location types.Span
}

type IfElseStatement struct {
	Condition   Expression
	Consequence Statement
	// Alternative is nil when there is no else branch.
	Alternative Statement
	Location    types.Span
}

type CallExpression struct {
	Name      *IdentifierLiteral
	Arguments []Expression
	Location  types.Span
}

type InfixExpression struct {
	Left     Expression
	Operator types.TokenKind
	Right    Expression
	Location types.Span
}

type PrefixExpression struct {
	Operator types.TokenKind
	Right    Expression
	Location types.Span
}

type IntegerLiteral struct {
	Value    int64
	Location types.Span
}

type FloatLiteral struct {
	Value    float64
	Location types.Span
}

type StringLiteral struct {
	Value    string
	Location types.Span
}

type BooleanLiteral struct {
	Value    bool
	Location types.Span
}

type IdentifierLiteral struct {
	Value    string
	Location types.Span
}

// GenericType is a type reference such as `int` or `list[int]`.
type GenericType struct {
	Name     Expression
	Generics []BaseType
	Location types.Span
}

// TypeName returns the bare name of a type reference, ignoring generic
// arguments. Literal names (`5`, `"x"`) are rendered in source form.
func TypeName(t BaseType) string {
	g, ok := t.(*GenericType)
	if !ok || g.Name == nil {
		return ""
	}
	if id, ok := g.Name.(*IdentifierLiteral); ok {
		return id.Value
	}
	return g.Name.String()
}
