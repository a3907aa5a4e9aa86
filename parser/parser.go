package parser

import (
	"io"
	"strings"

	"github.com/pontaoski/gigly/ast"
	"github.com/pontaoski/gigly/errors"
	"github.com/pontaoski/gigly/lexer"
	"github.com/pontaoski/gigly/types"
	"github.com/ztrue/tracerr"
)

// TokenStream is anything that hands out tokens one at a time. It must keep
// returning an EOF token once the input is exhausted.
type TokenStream interface {
	NextToken() types.Token
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l      TokenStream
	errors errors.List

	cur  types.Token
	peek types.Token

	prefixParseFns map[types.TokenKind]prefixParseFn
	infixParseFns  map[types.TokenKind]infixParseFn
}

func New(l TokenStream) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[types.TokenKind]prefixParseFn{
		types.INT:    p.parseIntegerLiteral,
		types.FLOAT:  p.parseFloatLiteral,
		types.STRING: p.parseStringLiteral,
		types.TRUE:   p.parseBooleanLiteral,
		types.FALSE:  p.parseBooleanLiteral,
		types.IDENT:  p.parseIdentifier,
		types.LPAREN: p.parseGroupedExpression,
		types.MINUS:  p.parsePrefixExpression,
		types.NOT:    p.parsePrefixExpression,
		types.TILDE:  p.parsePrefixExpression,
	}

	p.infixParseFns = map[types.TokenKind]infixParseFn{
		types.LPAREN: p.parseCallExpression,
	}
	for _, k := range []types.TokenKind{
		types.PLUS, types.MINUS, types.STAR, types.SLASH, types.PERCENT, types.STARSTAR,
		types.GT, types.LT, types.GTEQ, types.LTEQ, types.EQEQ, types.NOTEQ,
		types.AND, types.OR, types.ANDAND, types.OROR, types.CARET, types.SHL, types.SHR,
	} {
		p.infixParseFns[k] = p.parseInfixExpression
	}

	p.nextToken()
	p.nextToken()

	return p
}

// Parse lexes and parses src in one go.
func Parse(src, filename string) (*ast.Program, errors.List) {
	prog, errs, _ := ParseReader(strings.NewReader(src), filename)
	return prog, errs
}

// ParseReader parses everything r yields. The error is set when reading
// failed, in which case the program only covers the input read so far.
func ParseReader(r io.Reader, filename string) (*ast.Program, errors.List, error) {
	l := lexer.NewLexer(r, filename)
	p := New(l)
	prog := p.ParseProgram()
	if err := l.Err(); err != nil {
		return prog, p.Errors(), tracerr.Wrap(err)
	}
	return prog, p.Errors(), nil
}

// Errors returns the syntax errors collected so far. A program with errors
// must not be handed to the compiler.
func (p *Parser) Errors() errors.List {
	return p.errors
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) curIs(k types.TokenKind) bool {
	return p.cur.Kind == k
}

func (p *Parser) peekIs(k types.TokenKind) bool {
	return p.peek.Kind == k
}

func (p *Parser) expectPeek(k types.TokenKind) bool {
	if p.peekIs(k) {
		p.nextToken()
		return true
	}

	p.peekError(k)
	return false
}

var suggestedFixes = map[types.TokenKind]string{
	types.RPAREN: "close the list with )",
	types.RBRACE: "close the block with }",
	types.ARROW:  "declare the return type, e.g. `-> int`",
	types.COLON:  "annotate the name with a type, e.g. `x: int`",
	types.LBRACE: "open a block with {",
}

func (p *Parser) peekError(k types.TokenKind) {
	p.errors.Add(errors.ExpectedKindGotKind{
		Expected: k,
		Got:      p.peek,
		Fix:      suggestedFixes[k],
	})
}

func (p *Parser) curError(k types.TokenKind, fix string) {
	p.errors.Add(errors.ExpectedKindGotKind{
		Expected: k,
		Got:      p.cur,
		Fix:      fix,
	})
}

func (p *Parser) noPrefixParseFnError(tok types.Token) {
	p.errors.Add(errors.NoPrefixParseFn{Got: tok})
}

func (p *Parser) spanFrom(from types.Span) types.Span {
	return types.Span{From: from.From, To: p.cur.Location.To}
}

func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for !p.curIs(types.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.nextToken()
	}

	return prog
}

// parseStatement leaves the parser on the last token of the statement,
// including an optional trailing semicolon.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case types.IDENT:
		switch p.peek.Kind {
		case types.COLON:
			return p.parseVariableDeclaration()
		case types.EQUALS:
			return p.parseVariableAssignment()
		case types.PLUSEQ, types.MINUSEQ, types.STAREQ, types.SLASHEQ, types.PERCENTEQ:
			return p.parseCompoundAssignment()
		}
		return p.parseExpressionStatement()
	case types.LBRACE:
		return p.parseBlockStatement()
	case types.RETURN:
		return p.parseReturnStatement()
	case types.DEF:
		return p.parseFunctionStatement()
	case types.IF:
		return p.parseIfElseStatement()
	case types.EOS:
		// empty statement
		return nil
	}

	return p.parseExpressionStatement()
}

func (p *Parser) skipSemicolon() {
	if p.peekIs(types.EOS) {
		p.nextToken()
	}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	from := p.cur.Location

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	p.skipSemicolon()

	return &ast.ExpressionStatement{Expr: expr, Location: p.spanFrom(from)}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	from := p.cur.Location
	block := &ast.BlockStatement{}

	p.nextToken()
	for !p.curIs(types.RBRACE) && !p.curIs(types.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	if p.curIs(types.EOF) {
		p.curError(types.RBRACE, suggestedFixes[types.RBRACE])
	}

	block.Location = p.spanFrom(from)
	return block
}

func (p *Parser) identifier() *ast.IdentifierLiteral {
	return &ast.IdentifierLiteral{Value: p.cur.Literal, Location: p.cur.Location}
}

func (p *Parser) parseVariableDeclaration() ast.Statement {
	from := p.cur.Location
	stmt := &ast.VariableDeclarationStatement{Name: p.identifier()}

	p.nextToken()
	p.nextToken()
	stmt.ValueType = p.parseType()
	if stmt.ValueType == nil {
		return nil
	}

	if p.peekIs(types.EQUALS) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}
	p.skipSemicolon()

	stmt.Location = p.spanFrom(from)
	return stmt
}

func (p *Parser) parseVariableAssignment() ast.Statement {
	from := p.cur.Location
	stmt := &ast.VariableAssignmentStatement{Name: p.identifier()}

	p.nextToken()
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	p.skipSemicolon()

	stmt.Location = p.spanFrom(from)
	return stmt
}

var compoundOperators = map[types.TokenKind]types.TokenKind{
	types.PLUSEQ:    types.PLUS,
	types.MINUSEQ:   types.MINUS,
	types.STAREQ:    types.STAR,
	types.SLASHEQ:   types.SLASH,
	types.PERCENTEQ: types.PERCENT,
}

// parseCompoundAssignment turns `x += e` into `x = x + e`.
func (p *Parser) parseCompoundAssignment() ast.Statement {
	from := p.cur.Location
	name := p.identifier()

	p.nextToken()
	op := compoundOperators[p.cur.Kind]
	p.nextToken()
	right := p.parseExpression(LOWEST)
	if right == nil {
		return nil
	}

	value := &ast.InfixExpression{
		Left:     &ast.IdentifierLiteral{Value: name.Value, Location: name.Location},
		Operator: op,
		Right:    right,
		Location: types.Join(name.Location, right.Pos()),
	}
	p.skipSemicolon()

	return &ast.VariableAssignmentStatement{Name: name, Value: value, Location: p.spanFrom(from)}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	from := p.cur.Location

	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	p.skipSemicolon()

	return &ast.ReturnStatement{Value: value, Location: p.spanFrom(from)}
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	from := p.cur.Location

	if !p.expectPeek(types.IDENT) {
		return nil
	}
	stmt := &ast.FunctionStatement{Name: p.identifier()}

	if !p.expectPeek(types.LPAREN) {
		return nil
	}
	p.nextToken()

	for !p.curIs(types.RPAREN) {
		if !p.curIs(types.IDENT) {
			p.curError(types.IDENT, "parameters are written as `name: type`")
			break
		}
		name := p.identifier()
		if !p.expectPeek(types.COLON) {
			break
		}
		p.nextToken()
		kind := p.parseType()
		if kind == nil {
			break
		}
		stmt.Parameters = append(stmt.Parameters, &ast.FunctionParameter{Name: name, ValueType: kind})

		p.nextToken()
		if p.curIs(types.COMMA) {
			p.nextToken()
			continue
		}
		if p.curIs(types.RPAREN) {
			break
		}
		p.curError(types.RPAREN, "separate parameters with , and close the list with )")
		break
	}

	// a broken parameter list may already have stopped on the arrow
	if !p.curIs(types.ARROW) && !p.expectPeek(types.ARROW) {
		return nil
	}
	p.nextToken()
	stmt.ReturnType = p.parseType()
	if stmt.ReturnType == nil {
		return nil
	}

	if !p.expectPeek(types.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()

	stmt.Location = p.spanFrom(from)
	return stmt
}

func (p *Parser) parseIfElseStatement() ast.Statement {
	from := p.cur.Location

	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}

	if !p.expectPeek(types.LBRACE) {
		return nil
	}
	stmt := &ast.IfElseStatement{Condition: cond, Consequence: p.parseBlockStatement()}

	switch {
	case p.peekIs(types.ELIF):
		p.nextToken()
		alt := p.parseIfElseStatement()
		if alt == nil {
			return nil
		}
		stmt.Alternative = alt
	case p.peekIs(types.ELSE):
		p.nextToken()
		if p.peekIs(types.IF) {
			p.nextToken()
			alt := p.parseIfElseStatement()
			if alt == nil {
				return nil
			}
			stmt.Alternative = alt
		} else {
			if !p.expectPeek(types.LBRACE) {
				return nil
			}
			stmt.Alternative = p.parseBlockStatement()
		}
	}

	stmt.Location = p.spanFrom(from)
	return stmt
}

// parseType parses a type reference starting at the current token:
// a name optionally followed by `[arg, arg, ...]`.
func (p *Parser) parseType() ast.BaseType {
	from := p.cur.Location

	var name ast.Expression
	switch p.cur.Kind {
	case types.IDENT:
		name = p.identifier()
	case types.INT:
		name = p.parseIntegerLiteral()
	case types.FLOAT:
		name = p.parseFloatLiteral()
	case types.STRING:
		name = p.parseStringLiteral()
	default:
		p.errors.Add(errors.InvalidType{Got: p.cur})
		return nil
	}
	if name == nil {
		return nil
	}

	t := &ast.GenericType{Name: name}
	if p.peekIs(types.LBRACKET) {
		p.nextToken()
		p.nextToken()
		for !p.curIs(types.RBRACKET) {
			if p.curIs(types.EOF) {
				p.curError(types.RBRACKET, "close the generic arguments with ]")
				return nil
			}
			arg := p.parseType()
			if arg == nil {
				return nil
			}
			t.Generics = append(t.Generics, arg)

			p.nextToken()
			if p.curIs(types.COMMA) {
				p.nextToken()
			}
		}
	}

	t.Location = p.spanFrom(from)
	return t
}
