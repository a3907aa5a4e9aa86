package parser

import (
	"strconv"

	"github.com/pontaoski/gigly/ast"
	"github.com/pontaoski/gigly/errors"
	"github.com/pontaoski/gigly/types"
)

type Precedence int

const (
	LOWEST Precedence = iota
	ASSIGN
	COMPARISON
	SUM
	PRODUCT
	EXPONENT
	PREFIX
	CALL
	INDEX
	MEMBER_ACCESS
	POSTFIX
)

var precedences = map[types.TokenKind]Precedence{
	types.EQUALS:      ASSIGN,
	types.PLUSEQ:      ASSIGN,
	types.MINUSEQ:     ASSIGN,
	types.STAREQ:      ASSIGN,
	types.PERCENTEQ:   ASSIGN,
	types.CARETEQ:     ASSIGN,
	types.SLASHEQ:     ASSIGN,
	types.BACKSLASHEQ: ASSIGN,
	types.IS:          ASSIGN,
	types.AND:         ASSIGN,
	types.OR:          ASSIGN,
	types.ANDAND:      ASSIGN,
	types.OROR:        ASSIGN,

	types.GT:    COMPARISON,
	types.LT:    COMPARISON,
	types.GTEQ:  COMPARISON,
	types.LTEQ:  COMPARISON,
	types.EQEQ:  COMPARISON,
	types.NOTEQ: COMPARISON,
	types.CARET: COMPARISON,
	types.SHL:   COMPARISON,
	types.SHR:   COMPARISON,

	types.PLUS:      SUM,
	types.MINUS:     SUM,
	types.STAR:      PRODUCT,
	types.SLASH:     PRODUCT,
	types.BACKSLASH: PRODUCT,
	types.PERCENT:   PRODUCT,
	types.STARSTAR:  EXPONENT,
	types.TILDE:     PREFIX,

	types.LPAREN:    CALL,
	types.LBRACKET:  INDEX,
	types.PERIOD:    MEMBER_ACCESS,
	types.INCREMENT: POSTFIX,
	types.DECREMENT: POSTFIX,
}

func precedenceOf(k types.TokenKind) Precedence {
	if p, ok := precedences[k]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() Precedence {
	return precedenceOf(p.peek.Kind)
}

func (p *Parser) curPrecedence() Precedence {
	return precedenceOf(p.cur.Kind)
}

func (p *Parser) parseExpression(precedence Precedence) ast.Expression {
	prefix := p.prefixParseFns[p.cur.Kind]
	if prefix == nil {
		p.noPrefixParseFnError(p.cur)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekIs(types.EOS) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peek.Kind]
		if infix == nil {
			return left
		}

		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

// parseInfixExpression parses the right-hand side with the operator's own
// precedence, so chains of equal precedence nest to the left.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{Left: left, Operator: p.cur.Kind}
	precedence := p.curPrecedence()

	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}

	expr.Location = types.Join(left.Pos(), expr.Right.Pos())
	return expr
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	from := p.cur.Location
	expr := &ast.PrefixExpression{Operator: p.cur.Kind}

	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}

	expr.Location = types.Join(from, expr.Right.Pos())
	return expr
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	args, ok := p.parseCallArguments()
	if !ok {
		return nil
	}

	name, isIdent := left.(*ast.IdentifierLiteral)
	if !isIdent {
		p.errors.Add(errors.InvalidCallee{Location: p.spanFrom(left.Pos())})
		return nil
	}

	return &ast.CallExpression{Name: name, Arguments: args, Location: p.spanFrom(left.Pos())}
}

// parseCallArguments is called with the opening parenthesis as the current
// token and leaves the parser on the closing one.
func (p *Parser) parseCallArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}

	if p.peekIs(types.RPAREN) {
		p.nextToken()
		return args, true
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil, false
	}
	args = append(args, arg)

	for p.peekIs(types.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expectPeek(types.RPAREN) {
		return nil, false
	}

	return args, true
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(types.RPAREN) {
		return nil
	}

	return expr
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.cur.Literal, 10, 64)
	if err != nil {
		p.errors.Add(errors.InvalidLiteral{Got: p.cur, Reason: err})
		return nil
	}

	return &ast.IntegerLiteral{Value: value, Location: p.cur.Location}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.cur.Literal, 64)
	if err != nil {
		p.errors.Add(errors.InvalidLiteral{Got: p.cur, Reason: err})
		return nil
	}

	return &ast.FloatLiteral{Value: value, Location: p.cur.Location}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Value: p.cur.Literal, Location: p.cur.Location}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Value: p.curIs(types.TRUE), Location: p.cur.Location}
}

func (p *Parser) parseIdentifier() ast.Expression {
	return p.identifier()
}
