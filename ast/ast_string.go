package ast

import (
	"fmt"
	"strconv"
	"strings"
)

func stringOrNil(n Node) string {
	if n == nil || isNilNode(n) {
		return "<nil>"
	}
	return n.String()
}

// isNilNode catches typed nil pointers stored in an interface, which the
// parser produces when a sub-parse fails.
func isNilNode(n Node) bool {
	switch v := n.(type) {
	case *IdentifierLiteral:
		return v == nil
	case *BlockStatement:
		return v == nil
	case *GenericType:
		return v == nil
	}
	return false
}

func (p *Program) String() string {
	var b strings.Builder
	for _, stmt := range p.Statements {
		b.WriteString(stringOrNil(stmt))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *ExpressionStatement) String() string {
	return stringOrNil(s.Expr) + ";"
}

func (s *BlockStatement) String() string {
	var parts []string
	for _, stmt := range s.Statements {
		parts = append(parts, stringOrNil(stmt))
	}
	if len(parts) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func (s *VariableDeclarationStatement) String() string {
	if s.Value == nil {
		return fmt.Sprintf("%s: %s;", stringOrNil(s.Name), stringOrNil(s.ValueType))
	}
	return fmt.Sprintf("%s: %s = %s;", stringOrNil(s.Name), stringOrNil(s.ValueType), stringOrNil(s.Value))
}

func (s *VariableAssignmentStatement) String() string {
	return fmt.Sprintf("%s = %s;", stringOrNil(s.Name), stringOrNil(s.Value))
}

func (p *FunctionParameter) String() string {
	return fmt.Sprintf("%s: %s", stringOrNil(p.Name), stringOrNil(p.ValueType))
}

func (s *FunctionStatement) String() string {
	var params []string
	for _, p := range s.Parameters {
		params = append(params, p.String())
	}
	return fmt.Sprintf("def %s(%s) -> %s %s",
		stringOrNil(s.Name), strings.Join(params, ", "), stringOrNil(s.ReturnType), stringOrNil(s.Body))
}

func (s *ReturnStatement) String() string {
	return "return " + stringOrNil(s.Value) + ";"
}

func (s *IfElseStatement) String() string {
	out := fmt.Sprintf("if %s %s", stringOrNil(s.Condition), stringOrNil(s.Consequence))
	if s.Alternative != nil {
		out += " else " + s.Alternative.String()
	}
	return out
}

func (e *CallExpression) String() string {
	var args []string
	for _, arg := range e.Arguments {
		args = append(args, stringOrNil(arg))
	}
	return fmt.Sprintf("%s(%s)", stringOrNil(e.Name), strings.Join(args, ", "))
}

func (e *InfixExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", stringOrNil(e.Left), e.Operator, stringOrNil(e.Right))
}

func (e *PrefixExpression) String() string {
	if e.Operator.String() == "not" {
		return fmt.Sprintf("(not %s)", stringOrNil(e.Right))
	}
	return fmt.Sprintf("(%s%s)", e.Operator, stringOrNil(e.Right))
}

func (e *IntegerLiteral) String() string { return strconv.FormatInt(e.Value, 10) }

func (e *FloatLiteral) String() string {
	s := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (e *StringLiteral) String() string     { return strconv.Quote(e.Value) }
func (e *BooleanLiteral) String() string    { return strconv.FormatBool(e.Value) }
func (e *IdentifierLiteral) String() string { return e.Value }

func (t *GenericType) String() string {
	if len(t.Generics) == 0 {
		return stringOrNil(t.Name)
	}
	var args []string
	for _, g := range t.Generics {
		args = append(args, stringOrNil(g))
	}
	return fmt.Sprintf("%s[%s]", stringOrNil(t.Name), strings.Join(args, ", "))
}
