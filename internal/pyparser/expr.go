package pyparser

import "strings"

// Expr is a Python expression. Every expression keeps its verbatim source text.
type Expr interface {
	Source() string
	Line() int
}

type exprBase struct {
	src  string
	line int
}

func (e exprBase) Source() string { return e.src }
func (e exprBase) Line() int      { return e.line }

// Name is an identifier reference
type Name struct {
	exprBase
	ID string
}

// Attribute is "value.attr"
type Attribute struct {
	exprBase
	Value Expr
	Attr  string
}

// Keyword is a "name=value" call argument. Name is empty for "**value".
type Keyword struct {
	Name  string
	Value Expr
}

// Call is "func(args, name=value)"
type Call struct {
	exprBase
	Func     Expr
	Args     []Expr
	Keywords []Keyword
}

// ConstKind is the type of a literal
type ConstKind int

const (
	ConstString ConstKind = iota
	ConstBytes
	ConstInt
	ConstFloat
	ConstComplex
	ConstBool
	ConstNone
	ConstEllipsis
)

// Constant is a literal. Value holds what Python's str() would print for it
// (decoded text for strings, "None", "True", "10", "1.5", ...).
type Constant struct {
	exprBase
	Kind  ConstKind
	Value string
}

// List is "[a, b]"
type List struct {
	exprBase
	Elts []Expr
}

// Tuple is "(a, b)" or "a, b"
type Tuple struct {
	exprBase
	Elts []Expr
}

// Subscript is "value[...]"
type Subscript struct {
	exprBase
	Value Expr
}

// Raw is any expression without a dedicated node (operators, lambdas, f-strings, ...)
type Raw struct {
	exprBase
	Kind string // tree-sitter node type
}

// Keyword returns the value of the named keyword argument
func (c *Call) Keyword(name string) (Expr, bool) {
	for _, kw := range c.Keywords {
		if kw.Name == name {
			return kw.Value, true
		}
	}
	return nil, false
}

// CalleeName returns the decorator/function name for "name" and "name(...)" forms
func CalleeName(e Expr) string {
	switch x := e.(type) {
	case *Name:
		return x.ID
	case *Call:
		if n, ok := x.Func.(*Name); ok {
			return n.ID
		}
	}
	return ""
}

// StringValue returns the decoded value of a str constant
func StringValue(e Expr) (string, bool) {
	c, ok := e.(*Constant)
	if !ok || c.Kind != ConstString {
		return "", false
	}
	return c.Value, true
}

// StringElements returns the str constants of a list or tuple literal, in order.
// Non-constant elements are skipped.
func StringElements(e Expr) ([]string, bool) {
	var elts []Expr
	switch x := e.(type) {
	case *List:
		elts = x.Elts
	case *Tuple:
		elts = x.Elts
	default:
		return nil, false
	}
	out := make([]string, 0, len(elts))
	for _, el := range elts {
		if s, ok := StringValue(el); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// TypeString stringifies an annotation: names as-is, attribute and subscript forms
// as source text, anything else as "Any".
func TypeString(e Expr) string {
	switch x := e.(type) {
	case *Name:
		return x.ID
	case *Attribute, *Subscript:
		return collapseSpace(x.Source())
	}
	return "Any"
}

// ValueString stringifies a default value: constants as Python's str() would,
// other expressions as their source text.
func ValueString(e Expr) string {
	if c, ok := e.(*Constant); ok {
		return c.Value
	}
	return e.Source()
}

// collapseSpace joins multi-line annotations onto one line
func collapseSpace(s string) string {
	if !strings.ContainsAny(s, "\n\t") {
		return s
	}
	return strings.Join(strings.Fields(s), " ")
}
