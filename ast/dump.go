package ast

// Dump converts a node into a tree of maps and slices tagged with each
// node's kind, suitable for JSON or YAML serialisation.
func Dump(n Node) interface{} {
	if n == nil || isNilNode(n) {
		return nil
	}

	out := map[string]interface{}{"type": n.Kind().String()}

	switch v := n.(type) {
	case *Program:
		out["statements"] = dumpStatements(v.Statements)
	case *ExpressionStatement:
		out["expr"] = Dump(v.Expr)
	case *BlockStatement:
		out["statements"] = dumpStatements(v.Statements)
	case *VariableDeclarationStatement:
		out["name"] = Dump(v.Name)
		out["value_type"] = Dump(v.ValueType)
		out["value"] = dumpExpr(v.Value)
	case *VariableAssignmentStatement:
		out["name"] = Dump(v.Name)
		out["value"] = dumpExpr(v.Value)
	case *FunctionStatement:
		params := []interface{}{}
		for _, p := range v.Parameters {
			params = append(params, Dump(p))
		}
		out["name"] = Dump(v.Name)
		out["parameters"] = params
		out["return_type"] = Dump(v.ReturnType)
		out["body"] = Dump(v.Body)
	case *FunctionParameter:
		out["name"] = Dump(v.Name)
		out["value_type"] = Dump(v.ValueType)
	case *ReturnStatement:
		out["value"] = dumpExpr(v.Value)
	case *IfElseStatement:
		out["condition"] = dumpExpr(v.Condition)
		out["consequence"] = dumpStatement(v.Consequence)
		out["alternative"] = dumpStatement(v.Alternative)
	case *CallExpression:
		args := []interface{}{}
		for _, a := range v.Arguments {
			args = append(args, dumpExpr(a))
		}
		out["name"] = Dump(v.Name)
		out["arguments"] = args
	case *InfixExpression:
		out["left"] = dumpExpr(v.Left)
		out["operator"] = v.Operator.String()
		out["right"] = dumpExpr(v.Right)
	case *PrefixExpression:
		out["operator"] = v.Operator.String()
		out["right"] = dumpExpr(v.Right)
	case *IntegerLiteral:
		out["value"] = v.Value
	case *FloatLiteral:
		out["value"] = v.Value
	case *StringLiteral:
		out["value"] = v.Value
	case *BooleanLiteral:
		out["value"] = v.Value
	case *IdentifierLiteral:
		out["value"] = v.Value
	case *GenericType:
		generics := []interface{}{}
		for _, g := range v.Generics {
			generics = append(generics, Dump(g))
		}
		out["name"] = dumpExpr(v.Name)
		out["generics"] = generics
	}

	return out
}

func dumpStatements(stmts []Statement) []interface{} {
	ret := []interface{}{}
	for _, s := range stmts {
		ret = append(ret, dumpStatement(s))
	}
	return ret
}

func dumpStatement(s Statement) interface{} {
	if s == nil {
		return nil
	}
	return Dump(s)
}

func dumpExpr(e Expression) interface{} {
	if e == nil {
		return nil
	}
	return Dump(e)
}
