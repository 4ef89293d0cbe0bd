package pyparser

// Stmt is a statement the extractors care about. Simple statements other than
// assignments are dropped during conversion.
type Stmt interface {
	StmtLine() int
}

// Module represents a parsed Python source file
type Module struct {
	Body []Stmt
	Doc  string // Module docstring (cleaned)
}

// ClassDef represents a class definition
type ClassDef struct {
	Name       string    // e.g., "ProductViewSet"
	Bases      []Expr    // e.g., viewsets.ModelViewSet
	Keywords   []Keyword // e.g., metaclass=ABCMeta
	Decorators []Expr
	Body       []Stmt
	Doc        string
	Line       int // Line of the "class" keyword
}

// FunctionDef represents a function or method definition
type FunctionDef struct {
	Name       string
	Async      bool
	Params     []Param
	Returns    Expr // Return annotation, nil if absent
	Decorators []Expr
	Body       []Stmt
	Doc        string
	Line       int // Line of the "def" keyword
}

// ParamKind mirrors the slots of a Python signature
type ParamKind int

const (
	ParamPositionalOnly ParamKind = iota
	ParamRegular
	ParamVarArgs
	ParamKeywordOnly
	ParamVarKeywords
)

// Param is a single declared parameter
type Param struct {
	Name       string
	Kind       ParamKind
	Annotation Expr // nil if unannotated
	Default    Expr // nil if no default
}

// Assign is "a = b = value"
type Assign struct {
	Targets []Expr
	Value   Expr
	Line    int
}

// AnnAssign is "target: annotation [= value]"
type AnnAssign struct {
	Target     Expr
	Annotation Expr
	Value      Expr
	Line       int
}

// Block holds the statements nested in a compound statement (if/for/while/try/with/match)
type Block struct {
	Kind string // tree-sitter node type, e.g. "if_statement"
	Body []Stmt
	Line int
}

func (c *ClassDef) StmtLine() int    { return c.Line }
func (f *FunctionDef) StmtLine() int { return f.Line }
func (a *Assign) StmtLine() int      { return a.Line }
func (a *AnnAssign) StmtLine() int   { return a.Line }
func (b *Block) StmtLine() int       { return b.Line }

// BaseText returns the source text of every base class
func (c *ClassDef) BaseText() []string {
	out := make([]string, 0, len(c.Bases))
	for _, b := range c.Bases {
		out = append(out, b.Source())
	}
	return out
}

// Methods returns the functions defined directly in the class body
func (c *ClassDef) Methods() []*FunctionDef {
	var out []*FunctionDef
	for _, s := range c.Body {
		if fn, ok := s.(*FunctionDef); ok {
			out = append(out, fn)
		}
	}
	return out
}

// FieldNames returns names assigned or annotated directly in the class body, in order.
// Only plain name targets count (tuple and attribute targets are ignored).
func (c *ClassDef) FieldNames() []string {
	var names []string
	for _, s := range c.Body {
		switch st := s.(type) {
		case *Assign:
			for _, t := range st.Targets {
				if n, ok := t.(*Name); ok {
					names = append(names, n.ID)
				}
			}
		case *AnnAssign:
			if n, ok := st.Target.(*Name); ok {
				names = append(names, n.ID)
			}
		}
	}
	return names
}

// HasDecorator reports whether any decorator is the bare name or a call of it
func (f *FunctionDef) HasDecorator(name string) bool {
	for _, d := range f.Decorators {
		if CalleeName(d) == name {
			return true
		}
	}
	return false
}

// Walk visits statements depth-first in source order. When fn returns false the
// children of that statement are skipped.
func Walk(stmts []Stmt, fn func(Stmt) bool) {
	for _, s := range stmts {
		if !fn(s) {
			continue
		}
		switch st := s.(type) {
		case *ClassDef:
			Walk(st.Body, fn)
		case *FunctionDef:
			Walk(st.Body, fn)
		case *Block:
			Walk(st.Body, fn)
		}
	}
}

// Functions returns every function definition in the module, nested ones included
func (m *Module) Functions() []*FunctionDef {
	var out []*FunctionDef
	Walk(m.Body, func(s Stmt) bool {
		if fn, ok := s.(*FunctionDef); ok {
			out = append(out, fn)
		}
		return true
	})
	return out
}

// Classes returns every class definition in the module, nested ones included
func (m *Module) Classes() []*ClassDef {
	var out []*ClassDef
	Walk(m.Body, func(s Stmt) bool {
		if cls, ok := s.(*ClassDef); ok {
			out = append(out, cls)
		}
		return true
	})
	return out
}
