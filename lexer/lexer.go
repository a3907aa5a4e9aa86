package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/pontaoski/gigly/types"
)

// Lexer turns source text into a stream of tokens. Once the input is
// exhausted every further call to NextToken returns an EOF token.
type Lexer struct {
	pos    types.Position
	prev   types.Position
	reader *bufio.Reader
	err    error
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

// FromString is a shorthand for lexing an in-memory snippet.
func FromString(src, filename string) *Lexer {
	return NewLexer(strings.NewReader(src), filename)
}

// Err returns the first read error other than io.EOF, if any.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) read() (rune, bool) {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err != io.EOF && l.err == nil {
			l.err = err
		}
		return 0, false
	}

	l.prev = l.pos
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	} else {
		l.pos.Column++
	}

	return r, true
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}

	l.pos = l.prev
}

func (l *Lexer) peekBytes(n int) []byte {
	byt, err := l.reader.Peek(n)
	if err != nil && err != io.EOF && l.err == nil {
		l.err = err
	}
	return byt
}

func (l *Lexer) token(kind types.TokenKind, lit string, from types.Position) types.Token {
	return types.Token{
		Kind:     kind,
		Literal:  lit,
		Location: types.Span{From: from, To: l.pos},
	}
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}

var singles = map[rune]types.TokenKind{
	'+':  types.PLUS,
	'-':  types.MINUS,
	'*':  types.STAR,
	'/':  types.SLASH,
	'\\': types.BACKSLASH,
	'%':  types.PERCENT,
	'^':  types.CARET,
	'~':  types.TILDE,
	'=':  types.EQUALS,
	'>':  types.GT,
	'<':  types.LT,
	'.':  types.PERIOD,
	'(':  types.LPAREN,
	')':  types.RPAREN,
	'{':  types.LBRACE,
	'}':  types.RBRACE,
	'[':  types.LBRACKET,
	']':  types.RBRACKET,
	':':  types.COLON,
	';':  types.EOS,
	',':  types.COMMA,
}

var doubles = map[string]types.TokenKind{
	"++":  types.INCREMENT,
	"+=":  types.PLUSEQ,
	"--":  types.DECREMENT,
	"-=":  types.MINUSEQ,
	"->":  types.ARROW,
	"**":  types.STARSTAR,
	"*=":  types.STAREQ,
	"/=":  types.SLASHEQ,
	"\\=": types.BACKSLASHEQ,
	"%=":  types.PERCENTEQ,
	"^=":  types.CARETEQ,
	"==":  types.EQEQ,
	"!=":  types.NOTEQ,
	">=":  types.GTEQ,
	">>":  types.SHR,
	"<=":  types.LTEQ,
	"<<":  types.SHL,
	"&&":  types.ANDAND,
	"||":  types.OROR,
}

func (l *Lexer) NextToken() types.Token {
	for {
		r, ok := l.read()
		if !ok {
			return l.token(types.EOF, "", l.pos)
		}
		from := l.pos

		switch {
		case r == '#':
			l.skipComment()
			continue
		case unicode.IsSpace(r):
			continue
		case r == '"' || r == '\'':
			return l.lexString(r, from)
		case unicode.IsDigit(r):
			l.backup()
			return l.lexNumber()
		case firstChar(r):
			l.backup()
			return l.lexIdent()
		}

		return l.lexOperator(r, from)
	}
}

func (l *Lexer) skipComment() {
	for {
		r, ok := l.read()
		if !ok || r == '\n' {
			return
		}
	}
}

func (l *Lexer) lexOperator(r rune, from types.Position) types.Token {
	if r == '.' {
		if byt := l.peekBytes(2); len(byt) == 2 && byt[0] == '.' && byt[1] == '.' {
			l.read()
			l.read()
			return l.token(types.ELLIPSIS, "...", from)
		}
		return l.token(types.PERIOD, ".", from)
	}

	if n, ok := l.read(); ok {
		pair := string(r) + string(n)
		if kind, ok := doubles[pair]; ok {
			return l.token(kind, pair, from)
		}
		l.backup()
	}

	if kind, ok := singles[r]; ok {
		return l.token(kind, string(r), from)
	}

	return l.token(types.ILLEGAL, string(r), from)
}

func (l *Lexer) lexIdent() types.Token {
	var lit strings.Builder

	r, _ := l.read()
	from := l.pos
	lit.WriteRune(r)

	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !otherChar(r) {
			l.backup()
			break
		}
		lit.WriteRune(r)
	}

	if kind, ok := types.Keywords[lit.String()]; ok {
		return l.token(kind, lit.String(), from)
	}

	return l.token(types.IDENT, lit.String(), from)
}

func (l *Lexer) lexNumber() types.Token {
	var lit strings.Builder
	kind := types.INT

	r, _ := l.read()
	from := l.pos
	lit.WriteRune(r)

	for {
		r, ok := l.read()
		if !ok {
			break
		}
		if !unicode.IsDigit(r) {
			l.backup()

			if kind == types.INT {
				// only take the dot when a digit follows, so `1.` stays INT PERIOD
				if byt := l.peekBytes(2); len(byt) == 2 && byt[0] == '.' && isDigitByte(byt[1]) {
					l.read()
					lit.WriteByte('.')
					kind = types.FLOAT
					continue
				}
			}
			break
		}
		lit.WriteRune(r)
	}

	return l.token(kind, lit.String(), from)
}

func (l *Lexer) lexString(quote rune, from types.Position) types.Token {
	var lit strings.Builder

	for {
		r, ok := l.read()
		if !ok {
			// unterminated
			return l.token(types.ILLEGAL, string(quote)+lit.String(), from)
		}

		switch r {
		case quote:
			return l.token(types.STRING, lit.String(), from)
		case '\\':
			esc, ok := l.read()
			if !ok {
				return l.token(types.ILLEGAL, string(quote)+lit.String(), from)
			}
			switch esc {
			case 'n':
				lit.WriteByte('\n')
			case 't':
				lit.WriteByte('\t')
			case 'r':
				lit.WriteByte('\r')
			case '0':
				lit.WriteByte(0)
			default:
				lit.WriteRune(esc)
			}
		default:
			lit.WriteRune(r)
		}
	}
}

// All drains the lexer, returning every token up to but excluding EOF.
func (l *Lexer) All() (ret []types.Token) {
	t := l.NextToken()
	for t.Kind != types.EOF {
		ret = append(ret, t)
		t = l.NextToken()
	}
	return
}
