package pyparser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax is returned (wrapped) when the source does not parse cleanly
var ErrSyntax = errors.New("python syntax error")

// SyntaxError carries the first line that failed to parse
type SyntaxError struct {
	Line int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d", ErrSyntax, e.Line)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// ParseFile parses Python source and converts the tree-sitter tree into the typed AST.
// A fresh tree-sitter parser is created per call, so ParseFile is safe for concurrent use.
func ParseFile(ctx context.Context, content []byte) (*Module, error) {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())

	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("tree-sitter parse: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, &SyntaxError{Line: firstErrorLine(root)}
	}
	if line, ok := rejectedLine(root); ok {
		return nil, &SyntaxError{Line: line}
	}

	c := &converter{src: content}
	mod := &Module{}
	mod.Body, mod.Doc = c.suite(root)
	return mod, nil
}

// firstErrorLine finds the first ERROR or MISSING node in source order
func firstErrorLine(n *sitter.Node) int {
	if n.IsMissing() || n.Type() == "ERROR" {
		return int(n.StartPoint().Row) + 1
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.HasError() || child.IsMissing() {
			return firstErrorLine(child)
		}
	}
	return int(n.StartPoint().Row) + 1
}

// python2Statements parse without an ERROR node but are rejected by Python 3
var python2Statements = map[string]bool{
	"print_statement": true,
	"exec_statement":  true,
}

// rejectedLine finds trees the grammar accepts but the interpreter does not:
// Python 2 print/exec statements and definitions with an empty body, which is
// what an unindented body parses to.
func rejectedLine(n *sitter.Node) (int, bool) {
	switch n.Type() {
	case "function_definition", "class_definition":
		body := n.ChildByFieldName("body")
		if body == nil || body.NamedChildCount() == 0 {
			return int(n.StartPoint().Row) + 1, true
		}
	default:
		if python2Statements[n.Type()] {
			return int(n.StartPoint().Row) + 1, true
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if line, ok := rejectedLine(n.NamedChild(i)); ok {
			return line, true
		}
	}
	return 0, false
}

// compound statements whose nested blocks are flattened into a Block
var compoundKinds = map[string]bool{
	"if_statement":        true,
	"for_statement":       true,
	"while_statement":     true,
	"try_statement":       true,
	"with_statement":      true,
	"match_statement":     true,
	"elif_clause":         true,
	"else_clause":         true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
	"case_clause":         true,
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string {
	return n.Content(c.src)
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// namedChildren returns the named children of n without comments
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// suite converts a module or block body and extracts its docstring
func (c *converter) suite(n *sitter.Node) ([]Stmt, string) {
	children := namedChildren(n)
	doc := ""
	if len(children) > 0 {
		doc = c.docstring(children[0])
	}
	var body []Stmt
	for _, child := range children {
		body = c.stmt(child, body)
	}
	return body, doc
}

func (c *converter) docstring(first *sitter.Node) string {
	if first.Type() != "expression_statement" {
		return ""
	}
	inner := namedChildren(first)
	if len(inner) != 1 {
		return ""
	}
	if s, ok := StringValue(c.expr(inner[0])); ok {
		return CleanDoc(s)
	}
	return ""
}

func (c *converter) stmt(n *sitter.Node, out []Stmt) []Stmt {
	switch n.Type() {
	case "function_definition":
		return append(out, c.funcDef(n, nil))
	case "class_definition":
		return append(out, c.classDef(n, nil))
	case "decorated_definition":
		var decorators []Expr
		for _, child := range namedChildren(n) {
			if child.Type() != "decorator" {
				continue
			}
			if inner := namedChildren(child); len(inner) > 0 {
				decorators = append(decorators, c.expr(inner[0]))
			}
		}
		def := n.ChildByFieldName("definition")
		if def == nil {
			return out
		}
		switch def.Type() {
		case "function_definition":
			return append(out, c.funcDef(def, decorators))
		case "class_definition":
			return append(out, c.classDef(def, decorators))
		}
		return out
	case "expression_statement":
		inner := namedChildren(n)
		if len(inner) == 1 && inner[0].Type() == "assignment" {
			return append(out, c.assignment(inner[0]))
		}
		return out
	case "block":
		for _, child := range namedChildren(n) {
			out = c.stmt(child, out)
		}
		return out
	}

	if compoundKinds[n.Type()] {
		blk := &Block{Kind: n.Type(), Line: line(n)}
		for _, child := range namedChildren(n) {
			if child.Type() == "block" || compoundKinds[child.Type()] {
				blk.Body = c.stmt(child, blk.Body)
			}
		}
		return append(out, blk)
	}
	return out
}

func (c *converter) assignment(n *sitter.Node) Stmt {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	if typ := n.ChildByFieldName("type"); typ != nil {
		ann := &AnnAssign{
			Target:     c.expr(left),
			Annotation: c.typeExpr(typ),
			Line:       line(n),
		}
		if right != nil {
			ann.Value = c.expr(right)
		}
		return ann
	}

	// a = b = value nests as assignment(left=a, right=assignment(left=b, right=value))
	as := &Assign{Line: line(n)}
	as.Targets = append(as.Targets, c.expr(left))
	for right != nil && right.Type() == "assignment" {
		as.Targets = append(as.Targets, c.expr(right.ChildByFieldName("left")))
		right = right.ChildByFieldName("right")
	}
	if right != nil {
		as.Value = c.expr(right)
	}
	return as
}

func (c *converter) funcDef(n *sitter.Node, decorators []Expr) *FunctionDef {
	fn := &FunctionDef{
		Name:       c.text(n.ChildByFieldName("name")),
		Decorators: decorators,
		Line:       line(n),
	}
	if n.ChildCount() > 0 && n.Child(0).Type() == "async" {
		fn.Async = true
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = c.params(params)
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = c.typeExpr(ret)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body, fn.Doc = c.suite(body)
	}
	return fn
}

func (c *converter) classDef(n *sitter.Node, decorators []Expr) *ClassDef {
	cls := &ClassDef{
		Name:       c.text(n.ChildByFieldName("name")),
		Decorators: decorators,
		Line:       line(n),
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		cls.Bases, cls.Keywords = c.arguments(supers)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		cls.Body, cls.Doc = c.suite(body)
	}
	return cls
}

// params converts a parameters node, assigning each entry its signature slot
func (c *converter) params(n *sitter.Node) []Param {
	var out []Param
	kind := ParamRegular

	splat := func(p *sitter.Node, name string) (string, ParamKind, bool) {
		switch p.Type() {
		case "list_splat_pattern":
			return name, ParamVarArgs, true
		case "dictionary_splat_pattern":
			return name, ParamVarKeywords, true
		}
		return "", 0, false
	}

	for _, child := range namedChildren(n) {
		p := Param{Kind: kind}
		switch child.Type() {
		case "identifier":
			p.Name = c.text(child)
		case "typed_parameter":
			inner := namedChildren(child)
			if len(inner) == 0 {
				continue
			}
			p.Name = c.text(inner[0])
			if name, k, ok := splat(inner[0], c.splatName(inner[0])); ok {
				p.Name, p.Kind = name, k
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				p.Annotation = c.typeExpr(typ)
			}
		case "default_parameter":
			p.Name = c.text(child.ChildByFieldName("name"))
			p.Default = c.expr(child.ChildByFieldName("value"))
		case "typed_default_parameter":
			p.Name = c.text(child.ChildByFieldName("name"))
			if typ := child.ChildByFieldName("type"); typ != nil {
				p.Annotation = c.typeExpr(typ)
			}
			p.Default = c.expr(child.ChildByFieldName("value"))
		case "list_splat_pattern", "dictionary_splat_pattern":
			p.Name, p.Kind, _ = splat(child, c.splatName(child))
		case "keyword_separator":
			kind = ParamKeywordOnly
			continue
		case "positional_separator":
			for i := range out {
				if out[i].Kind == ParamRegular {
					out[i].Kind = ParamPositionalOnly
				}
			}
			continue
		default:
			continue
		}
		if p.Kind == ParamVarArgs {
			kind = ParamKeywordOnly
		}
		out = append(out, p)
	}
	return out
}

func (c *converter) splatName(n *sitter.Node) string {
	if inner := namedChildren(n); len(inner) > 0 {
		return c.text(inner[0])
	}
	return strings.TrimLeft(c.text(n), "*")
}

// typeExpr unwraps the "type" wrapper node tree-sitter puts around annotations
func (c *converter) typeExpr(n *sitter.Node) Expr {
	if n.Type() == "type" {
		if inner := namedChildren(n); len(inner) == 1 {
			return c.expr(inner[0])
		}
		return &Raw{exprBase: c.base(n), Kind: n.Type()}
	}
	return c.expr(n)
}

func (c *converter) base(n *sitter.Node) exprBase {
	return exprBase{src: c.text(n), line: line(n)}
}

func (c *converter) arguments(n *sitter.Node) ([]Expr, []Keyword) {
	var args []Expr
	var kws []Keyword
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "keyword_argument":
			kws = append(kws, Keyword{
				Name:  c.text(child.ChildByFieldName("name")),
				Value: c.expr(child.ChildByFieldName("value")),
			})
		case "dictionary_splat":
			var value Expr = &Raw{exprBase: c.base(child), Kind: child.Type()}
			if inner := namedChildren(child); len(inner) > 0 {
				value = c.expr(inner[0])
			}
			kws = append(kws, Keyword{Value: value})
		default:
			args = append(args, c.expr(child))
		}
	}
	return args, kws
}

func (c *converter) elements(n *sitter.Node) []Expr {
	var out []Expr
	for _, child := range namedChildren(n) {
		out = append(out, c.expr(child))
	}
	return out
}

func (c *converter) expr(n *sitter.Node) Expr {
	if n == nil {
		return &Raw{Kind: "missing"}
	}
	b := c.base(n)

	switch n.Type() {
	case "identifier":
		return &Name{exprBase: b, ID: b.src}
	case "attribute":
		return &Attribute{
			exprBase: b,
			Value:    c.expr(n.ChildByFieldName("object")),
			Attr:     c.text(n.ChildByFieldName("attribute")),
		}
	case "member_type":
		inner := namedChildren(n)
		if len(inner) >= 2 {
			return &Attribute{exprBase: b, Value: c.expr(inner[0]), Attr: c.text(inner[len(inner)-1])}
		}
	case "type":
		return c.typeExpr(n)
	case "call":
		call := &Call{exprBase: b, Func: c.expr(n.ChildByFieldName("function"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			if args.Type() == "argument_list" {
				call.Args, call.Keywords = c.arguments(args)
			} else {
				call.Args = []Expr{c.expr(args)}
			}
		}
		return call
	case "subscript":
		return &Subscript{exprBase: b, Value: c.expr(n.ChildByFieldName("value"))}
	case "generic_type":
		if inner := namedChildren(n); len(inner) > 0 {
			return &Subscript{exprBase: b, Value: c.expr(inner[0])}
		}
	case "list":
		return &List{exprBase: b, Elts: c.elements(n)}
	case "tuple":
		return &Tuple{exprBase: b, Elts: c.elements(n)}
	case "parenthesized_expression":
		if inner := namedChildren(n); len(inner) == 1 {
			return c.expr(inner[0])
		}
	case "string", "concatenated_string":
		if kind, value, ok := decodeStringNode(b.src); ok {
			return &Constant{exprBase: b, Kind: kind, Value: value}
		}
	case "integer":
		return numberConstant(b)
	case "float":
		return numberConstant(b)
	case "true":
		return &Constant{exprBase: b, Kind: ConstBool, Value: "True"}
	case "false":
		return &Constant{exprBase: b, Kind: ConstBool, Value: "False"}
	case "none":
		return &Constant{exprBase: b, Kind: ConstNone, Value: "None"}
	case "ellipsis":
		return &Constant{exprBase: b, Kind: ConstEllipsis, Value: "Ellipsis"}
	}
	return &Raw{exprBase: b, Kind: n.Type()}
}
