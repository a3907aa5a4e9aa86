package compiler

import (
	"fmt"
	"math"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/gigly/ast"
	"github.com/pontaoski/gigly/errors"
	"github.com/pontaoski/gigly/types"
)

// ResolveValue lowers an expression. The second result is false when the
// expression could not be lowered; the reason has been reported already.
func (c *Compiler) ResolveValue(e ast.Node) (Operand, bool) {
	switch expr := e.(type) {
	case *ast.ExpressionStatement:
		return c.ResolveValue(expr.Expr)
	case *ast.IntegerLiteral:
		if expr.Value > math.MaxInt32 || expr.Value < math.MinInt32 {
			c.errors.Add(errors.UnsupportedExpression{
				What:     fmt.Sprintf("integer literal %d, which does not fit in an int,", expr.Value),
				Location: expr.Location,
			})
			return Operand{}, false
		}
		return Operand{constant.NewInt(irtypes.I32, expr.Value), irtypes.I32}, true
	case *ast.FloatLiteral:
		return Operand{constant.NewFloat(irtypes.Float, float64(float32(expr.Value))), irtypes.Float}, true
	case *ast.BooleanLiteral:
		if expr.Value {
			return Operand{constant.True, irtypes.I1}, true
		}
		return Operand{constant.False, irtypes.I1}, true
	case *ast.StringLiteral:
		c.errors.Add(errors.UnsupportedExpression{What: "string literal", Location: expr.Location})
		return Operand{}, false
	case *ast.IdentifierLiteral:
		return c.resolveIdentifier(expr)
	case *ast.CallExpression:
		return c.resolveCall(expr)
	case *ast.InfixExpression:
		return c.resolveInfix(expr)
	case *ast.PrefixExpression:
		return c.resolvePrefix(expr)
	case nil:
		return Operand{}, false
	default:
		c.errors.Add(errors.UnsupportedExpression{What: e.Kind().String(), Location: e.Pos()})
		return Operand{}, false
	}
}

func (c *Compiler) resolveIdentifier(id *ast.IdentifierLiteral) (Operand, bool) {
	v, ok := c.variable(id.Value, id.Location)
	if !ok {
		return Operand{}, false
	}

	b, ok := c.insertion("use of "+id.Value, id.Location)
	if !ok {
		return Operand{}, false
	}
	return Operand{b.NewLoad(v.Type, v.Storage), v.Type}, true
}

// resolveCall lowers the arguments left to right before emitting the call.
func (c *Compiler) resolveCall(call *ast.CallExpression) (Operand, bool) {
	name := call.Name.Value

	fn, ok := c.scope().Function(name, false)
	if !ok {
		c.errors.Add(errors.UndeclaredFunction{Name: name, Location: call.Name.Location})
		return Operand{}, false
	}

	args := make([]Operand, 0, len(call.Arguments))
	for _, arg := range call.Arguments {
		val, ok := c.ResolveValue(arg)
		if !ok {
			return Operand{}, false
		}
		args = append(args, val)
	}

	params := fn.Sig.Params
	if len(args) != len(params) {
		c.errors.Add(errors.ArgumentCount{
			Name:     name,
			Expected: len(params),
			Got:      len(args),
			Location: call.Location,
		})
		return Operand{}, false
	}

	values := make([]value.Value, len(args))
	for i, arg := range args {
		if !params[i].Equal(arg.Type) {
			c.errors.Add(errors.MismatchedTypes{
				Context:  fmt.Sprintf("argument %d of %s", i+1, name),
				Left:     typeName(params[i]),
				Right:    typeName(arg.Type),
				Location: call.Arguments[i].Pos(),
			})
			return Operand{}, false
		}
		values[i] = arg.Value
	}

	b, ok := c.insertion("call to "+name, call.Location)
	if !ok {
		return Operand{}, false
	}
	return Operand{b.NewCall(fn.Func, values...), fn.ReturnType()}, true
}

func (c *Compiler) resolveInfix(expr *ast.InfixExpression) (Operand, bool) {
	left, ok := c.ResolveValue(expr.Left)
	if !ok {
		return Operand{}, false
	}
	right, ok := c.ResolveValue(expr.Right)
	if !ok {
		return Operand{}, false
	}

	if !left.Type.Equal(right.Type) {
		c.errors.Add(errors.MismatchedTypes{
			Context:  "operands of " + expr.Operator.String(),
			Left:     typeName(left.Type),
			Right:    typeName(right.Type),
			Location: expr.Location,
		})
		return Operand{}, false
	}

	b, ok := c.insertion("expression", expr.Location)
	if !ok {
		return Operand{}, false
	}

	var result Operand
	switch {
	case isInt(left.Type):
		result, ok = intInfix(b, expr.Operator, left.Value, right.Value)
	case isFloat(left.Type):
		result, ok = floatInfix(b, expr.Operator, left.Value, right.Value)
	case isBool(left.Type):
		result, ok = boolInfix(b, expr.Operator, left.Value, right.Value)
	default:
		ok = false
	}
	if !ok {
		c.errors.Add(errors.UnsupportedOperator{
			Operator: expr.Operator,
			Operand:  typeName(left.Type),
			Location: expr.Location,
		})
		return Operand{}, false
	}
	return result, true
}

var intPredicates = map[types.TokenKind]enum.IPred{
	types.GT:    enum.IPredSGT,
	types.LT:    enum.IPredSLT,
	types.GTEQ:  enum.IPredSGE,
	types.LTEQ:  enum.IPredSLE,
	types.EQEQ:  enum.IPredEQ,
	types.NOTEQ: enum.IPredNE,
}

var floatPredicates = map[types.TokenKind]enum.FPred{
	types.GT:    enum.FPredOGT,
	types.LT:    enum.FPredOLT,
	types.GTEQ:  enum.FPredOGE,
	types.LTEQ:  enum.FPredOLE,
	types.EQEQ:  enum.FPredOEQ,
	types.NOTEQ: enum.FPredUNE,
}

func intInfix(b *ir.Block, op types.TokenKind, x, y value.Value) (Operand, bool) {
	if pred, ok := intPredicates[op]; ok {
		return Operand{b.NewICmp(pred, x, y), irtypes.I1}, true
	}

	var v value.Value
	switch op {
	case types.PLUS:
		v = b.NewAdd(x, y)
	case types.MINUS:
		v = b.NewSub(x, y)
	case types.STAR:
		v = b.NewMul(x, y)
	case types.SLASH:
		v = b.NewSDiv(x, y)
	case types.PERCENT:
		v = b.NewSRem(x, y)
	case types.CARET:
		v = b.NewXor(x, y)
	case types.SHL:
		v = b.NewShl(x, y)
	case types.SHR:
		v = b.NewAShr(x, y)
	default:
		return Operand{}, false
	}
	return Operand{v, irtypes.I32}, true
}

func floatInfix(b *ir.Block, op types.TokenKind, x, y value.Value) (Operand, bool) {
	if pred, ok := floatPredicates[op]; ok {
		return Operand{b.NewFCmp(pred, x, y), irtypes.I1}, true
	}

	var v value.Value
	switch op {
	case types.PLUS:
		v = b.NewFAdd(x, y)
	case types.MINUS:
		v = b.NewFSub(x, y)
	case types.STAR:
		v = b.NewFMul(x, y)
	case types.SLASH:
		v = b.NewFDiv(x, y)
	case types.PERCENT:
		v = b.NewFRem(x, y)
	default:
		return Operand{}, false
	}
	return Operand{v, irtypes.Float}, true
}

// boolInfix evaluates both operands; and/or do not short-circuit.
func boolInfix(b *ir.Block, op types.TokenKind, x, y value.Value) (Operand, bool) {
	var v value.Value
	switch op {
	case types.AND, types.ANDAND:
		v = b.NewAnd(x, y)
	case types.OR, types.OROR:
		v = b.NewOr(x, y)
	case types.CARET:
		v = b.NewXor(x, y)
	case types.EQEQ:
		v = b.NewICmp(enum.IPredEQ, x, y)
	case types.NOTEQ:
		v = b.NewICmp(enum.IPredNE, x, y)
	default:
		return Operand{}, false
	}
	return Operand{v, irtypes.I1}, true
}

func (c *Compiler) resolvePrefix(expr *ast.PrefixExpression) (Operand, bool) {
	// fold so that the smallest int is reachable as a literal
	if lit, ok := expr.Right.(*ast.IntegerLiteral); ok && expr.Operator == types.MINUS {
		return c.ResolveValue(&ast.IntegerLiteral{Value: -lit.Value, Location: expr.Location})
	}

	right, ok := c.ResolveValue(expr.Right)
	if !ok {
		return Operand{}, false
	}

	b, ok := c.insertion("expression", expr.Location)
	if !ok {
		return Operand{}, false
	}

	switch {
	case expr.Operator == types.MINUS && isInt(right.Type):
		return Operand{b.NewSub(constant.NewInt(irtypes.I32, 0), right.Value), right.Type}, true
	case expr.Operator == types.MINUS && isFloat(right.Type):
		negZero := constant.NewFloat(irtypes.Float, math.Copysign(0, -1))
		return Operand{b.NewFSub(negZero, right.Value), right.Type}, true
	case expr.Operator == types.NOT && isBool(right.Type):
		return Operand{b.NewXor(right.Value, constant.True), right.Type}, true
	case expr.Operator == types.TILDE && isInt(right.Type):
		return Operand{b.NewXor(right.Value, constant.NewInt(irtypes.I32, -1)), right.Type}, true
	}

	c.errors.Add(errors.UnsupportedOperator{
		Operator: expr.Operator,
		Operand:  typeName(right.Type),
		Location: expr.Location,
	})
	return Operand{}, false
}
