package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	// comparison
	GT
	LT
	GTEQ
	LTEQ
	EQEQ
	NOTEQ

	IDENT
	INT
	FLOAT
	STRING

	// assignment
	PLUSEQ
	MINUSEQ
	STAREQ
	PERCENTEQ
	CARETEQ
	SLASHEQ
	BACKSLASHEQ
	EQUALS

	INCREMENT
	DECREMENT

	// bitwise
	ANDAND
	OROR
	CARET
	TILDE
	SHL
	SHR

	// arithmetic
	PERIOD
	ELLIPSIS
	PLUS
	MINUS
	STAR
	PERCENT
	STARSTAR
	SLASH
	BACKSLASH

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COLON
	EOS
	ARROW
	COMMA

	AND
	OR
	NOT
	VAR
	DEF
	RETURN
	IF
	ELSE
	ELIF
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	TRUE
	FALSE
	MAYBE
	NONE
	IS
)

var kindNames = map[TokenKind]string{
	EOF:         "EOF",
	ILLEGAL:     "ILLEGAL",
	GT:          ">",
	LT:          "<",
	GTEQ:        ">=",
	LTEQ:        "<=",
	EQEQ:        "==",
	NOTEQ:       "!=",
	IDENT:       "IDENT",
	INT:         "INT",
	FLOAT:       "FLOAT",
	STRING:      "STRING",
	PLUSEQ:      "+=",
	MINUSEQ:     "-=",
	STAREQ:      "*=",
	PERCENTEQ:   "%=",
	CARETEQ:     "^=",
	SLASHEQ:     "/=",
	BACKSLASHEQ: "\\=",
	EQUALS:      "=",
	INCREMENT:   "++",
	DECREMENT:   "--",
	ANDAND:      "&&",
	OROR:        "||",
	CARET:       "^",
	TILDE:       "~",
	SHL:         "<<",
	SHR:         ">>",
	PERIOD:      ".",
	ELLIPSIS:    "...",
	PLUS:        "+",
	MINUS:       "-",
	STAR:        "*",
	PERCENT:     "%",
	STARSTAR:    "**",
	SLASH:       "/",
	BACKSLASH:   "\\",
	LPAREN:      "(",
	RPAREN:      ")",
	LBRACE:      "{",
	RBRACE:      "}",
	LBRACKET:    "[",
	RBRACKET:    "]",
	COLON:       ":",
	EOS:         ";",
	ARROW:       "->",
	COMMA:       ",",
	AND:         "and",
	OR:          "or",
	NOT:         "not",
	VAR:         "var",
	DEF:         "def",
	RETURN:      "return",
	IF:          "if",
	ELSE:        "else",
	ELIF:        "elif",
	WHILE:       "while",
	FOR:         "for",
	IN:          "in",
	BREAK:       "break",
	CONTINUE:    "continue",
	TRUE:        "true",
	FALSE:       "false",
	MAYBE:       "maybe",
	NONE:        "none",
	IS:          "is",
}

func (t TokenKind) String() string {
	if s, ok := kindNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// Keywords maps every reserved word to its kind. The capitalised spellings
// are accepted for compatibility with older sources.
var Keywords = map[string]TokenKind{
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"var":      VAR,
	"def":      DEF,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"elif":     ELIF,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"maybe":    MAYBE,
	"none":     NONE,
	"is":       IS,
	"True":     TRUE,
	"False":    FALSE,
	"MayBe":    MAYBE,
	"None":     NONE,
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

// IsZero reports whether the span carries no location at all.
func (s Span) IsZero() bool {
	return s.From.Line == 0 && s.To.Line == 0
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Join returns the span covering both a and b.
func Join(a, b Span) Span {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	return Span{From: a.From, To: b.To}
}

type Token struct {
	Kind     TokenKind
	Literal  string
	Location Span
}

func (t Token) String() string {
	if t.Literal == "" || t.Literal == t.Kind.String() {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", t.Kind, t.Literal)
}
