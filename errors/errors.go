package errors

import (
	"fmt"
	"strings"

	"github.com/pontaoski/gigly/types"
)

type Category int

const (
	Syntax Category = iota
	Semantic
)

func (c Category) String() string {
	switch c {
	case Syntax:
		return "SyntaxError"
	case Semantic:
		return "CompileError"
	}
	return "Error"
}

// Diagnostic is an error that knows where in the source it happened and,
// optionally, how to fix it.
type Diagnostic interface {
	error
	Span() types.Span
	Suggestion() string
	Category() Category
}

type ExpectedKindGotKind struct {
	Expected types.TokenKind
	Got      types.Token
	Fix      string
}

func (e ExpectedKindGotKind) Error() string {
	return fmt.Sprintf("expected next token to be %s, got %s", e.Expected, e.Got.Kind)
}
func (e ExpectedKindGotKind) Span() types.Span   { return e.Got.Location }
func (e ExpectedKindGotKind) Suggestion() string { return e.Fix }
func (e ExpectedKindGotKind) Category() Category { return Syntax }

type NoPrefixParseFn struct {
	Got types.Token
}

func (e NoPrefixParseFn) Error() string {
	return fmt.Sprintf("no prefix parse function for %s", e.Got.Kind)
}
func (e NoPrefixParseFn) Span() types.Span { return e.Got.Location }
func (e NoPrefixParseFn) Suggestion() string {
	return fmt.Sprintf("%q cannot start an expression", e.Got.Literal)
}
func (e NoPrefixParseFn) Category() Category { return Syntax }

type InvalidType struct {
	Got types.Token
}

func (e InvalidType) Error() string {
	return fmt.Sprintf("expected a type name, got %s", e.Got.Kind)
}
func (e InvalidType) Span() types.Span   { return e.Got.Location }
func (e InvalidType) Suggestion() string { return "write a type such as int, float or bool" }
func (e InvalidType) Category() Category { return Syntax }

type InvalidCallee struct {
	Location types.Span
}

func (e InvalidCallee) Error() string {
	return "only named functions can be called"
}
func (e InvalidCallee) Span() types.Span   { return e.Location }
func (e InvalidCallee) Suggestion() string { return "" }
func (e InvalidCallee) Category() Category { return Syntax }

type InvalidLiteral struct {
	Got    types.Token
	Reason error
}

func (e InvalidLiteral) Error() string {
	return fmt.Sprintf("invalid %s literal %q: %s", e.Got.Kind, e.Got.Literal, e.Reason)
}
func (e InvalidLiteral) Span() types.Span   { return e.Got.Location }
func (e InvalidLiteral) Suggestion() string { return "" }
func (e InvalidLiteral) Category() Category { return Syntax }

type UndeclaredIdentifier struct {
	Name     string
	Location types.Span
}

func (e UndeclaredIdentifier) Error() string {
	return fmt.Sprintf("variable %s is not declared", e.Name)
}
func (e UndeclaredIdentifier) Span() types.Span { return e.Location }
func (e UndeclaredIdentifier) Suggestion() string {
	return fmt.Sprintf("declare it first, e.g. `%s: int = 0;`", e.Name)
}
func (e UndeclaredIdentifier) Category() Category { return Semantic }

type Redeclaration struct {
	Name     string
	Location types.Span
}

func (e Redeclaration) Error() string {
	return fmt.Sprintf("%s is already declared in this scope", e.Name)
}
func (e Redeclaration) Span() types.Span { return e.Location }
func (e Redeclaration) Suggestion() string {
	return fmt.Sprintf("assign to the existing variable with `%s = ...;`", e.Name)
}
func (e Redeclaration) Category() Category { return Semantic }

type UndeclaredFunction struct {
	Name     string
	Location types.Span
}

func (e UndeclaredFunction) Error() string {
	return fmt.Sprintf("function %s is not declared", e.Name)
}
func (e UndeclaredFunction) Span() types.Span   { return e.Location }
func (e UndeclaredFunction) Suggestion() string { return "" }
func (e UndeclaredFunction) Category() Category { return Semantic }

type UnknownType struct {
	Name     string
	Location types.Span
}

func (e UnknownType) Error() string {
	return fmt.Sprintf("unknown type %s", e.Name)
}
func (e UnknownType) Span() types.Span   { return e.Location }
func (e UnknownType) Suggestion() string { return "the builtin types are int, float and bool" }
func (e UnknownType) Category() Category { return Semantic }

type UnsupportedOperator struct {
	Operator types.TokenKind
	Operand  string
	Location types.Span
}

func (e UnsupportedOperator) Error() string {
	return fmt.Sprintf("operator %s is not supported for %s operands", e.Operator, e.Operand)
}
func (e UnsupportedOperator) Span() types.Span   { return e.Location }
func (e UnsupportedOperator) Suggestion() string { return "" }
func (e UnsupportedOperator) Category() Category { return Semantic }

type MismatchedTypes struct {
	Context  string
	Left     string
	Right    string
	Location types.Span
}

func (e MismatchedTypes) Error() string {
	return fmt.Sprintf("mismatched types in %s: %s and %s", e.Context, e.Left, e.Right)
}
func (e MismatchedTypes) Span() types.Span { return e.Location }
func (e MismatchedTypes) Suggestion() string {
	return "values are never converted implicitly"
}
func (e MismatchedTypes) Category() Category { return Semantic }

type ArgumentCount struct {
	Name     string
	Expected int
	Got      int
	Location types.Span
}

func (e ArgumentCount) Error() string {
	return fmt.Sprintf("function %s takes %d arguments, got %d", e.Name, e.Expected, e.Got)
}
func (e ArgumentCount) Span() types.Span   { return e.Location }
func (e ArgumentCount) Suggestion() string { return "" }
func (e ArgumentCount) Category() Category { return Semantic }

type MissingReturn struct {
	Function string
	Location types.Span
}

func (e MissingReturn) Error() string {
	return fmt.Sprintf("function %s does not return on every path", e.Function)
}
func (e MissingReturn) Span() types.Span   { return e.Location }
func (e MissingReturn) Suggestion() string { return "add a return statement at the end of the function" }
func (e MissingReturn) Category() Category { return Semantic }

type NoInsertionPoint struct {
	What     string
	Location types.Span
}

func (e NoInsertionPoint) Error() string {
	return fmt.Sprintf("%s outside of a function", e.What)
}
func (e NoInsertionPoint) Span() types.Span { return e.Location }
func (e NoInsertionPoint) Suggestion() string {
	return "move it into a function body"
}
func (e NoInsertionPoint) Category() Category { return Semantic }

type UnsupportedExpression struct {
	What     string
	Location types.Span
}

func (e UnsupportedExpression) Error() string {
	return fmt.Sprintf("%s cannot be compiled yet", e.What)
}
func (e UnsupportedExpression) Span() types.Span   { return e.Location }
func (e UnsupportedExpression) Suggestion() string { return "" }
func (e UnsupportedExpression) Category() Category { return Semantic }

// List collects diagnostics in the order they were reported.
type List []Diagnostic

func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

func (l List) Len() int {
	return len(l)
}

// Err returns the list as an error, or nil when it is empty.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return fmt.Sprintf("%s: %s", l[0].Span().From, l[0].Error())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(l))
	for _, d := range l {
		fmt.Fprintf(&b, "\n\t%s: %s", d.Span().From, d.Error())
	}
	return b.String()
}
