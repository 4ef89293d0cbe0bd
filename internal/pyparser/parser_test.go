package pyparser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Module {
	t.Helper()
	mod, err := ParseFile(context.Background(), []byte(src))
	require.NoError(t, err)
	return mod
}

func TestParseFile_DecoratedFunction(t *testing.T) {
	mod := parse(t, `
from fastapi import FastAPI

app = FastAPI()

@app.get("/items/{item_id}", tags=["items"], status_code=201)
async def read_item(item_id: int, q: str = None, *, limit: int = 10) -> Item:
    """Read an item.

    Returns the stored item.
    """
    return {"item_id": item_id}
`)

	fns := mod.Functions()
	require.Len(t, fns, 1)
	fn := fns[0]

	assert.Equal(t, "read_item", fn.Name)
	assert.True(t, fn.Async)
	assert.Equal(t, 7, fn.Line)
	assert.Equal(t, "Read an item.\n\nReturns the stored item.", fn.Doc)

	require.Len(t, fn.Decorators, 1)
	call, ok := fn.Decorators[0].(*Call)
	require.True(t, ok)
	attr, ok := call.Func.(*Attribute)
	require.True(t, ok)
	assert.Equal(t, "get", attr.Attr)
	path, ok := StringValue(call.Args[0])
	require.True(t, ok)
	assert.Equal(t, "/items/{item_id}", path)

	tags, ok := call.Keyword("tags")
	require.True(t, ok)
	tagList, ok := StringElements(tags)
	require.True(t, ok)
	assert.Equal(t, []string{"items"}, tagList)

	status, ok := call.Keyword("status_code")
	require.True(t, ok)
	assert.Equal(t, "201", ValueString(status))

	require.Len(t, fn.Params, 3)
	assert.Equal(t, "item_id", fn.Params[0].Name)
	assert.Equal(t, "int", TypeString(fn.Params[0].Annotation))
	assert.Nil(t, fn.Params[0].Default)
	assert.Equal(t, "None", ValueString(fn.Params[1].Default))
	assert.Equal(t, ParamKeywordOnly, fn.Params[2].Kind)
	assert.Equal(t, "10", ValueString(fn.Params[2].Default))
	assert.Equal(t, "Item", TypeString(fn.Returns))
}

func TestParseFile_ParameterKinds(t *testing.T) {
	mod := parse(t, `
def handler(a, /, b, *args, c, d=1, **kwargs):
    pass
`)
	fn := mod.Functions()[0]
	var kinds []ParamKind
	var names []string
	for _, p := range fn.Params {
		kinds = append(kinds, p.Kind)
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "b", "args", "c", "d", "kwargs"}, names)
	assert.Equal(t, []ParamKind{
		ParamPositionalOnly, ParamRegular, ParamVarArgs,
		ParamKeywordOnly, ParamKeywordOnly, ParamVarKeywords,
	}, kinds)
}

func TestParseFile_AnnotationForms(t *testing.T) {
	mod := parse(t, `
def handler(
    a: Annotated[int, Path()],
    b: models.Item,
    c: "Item",
    d: int | None = None,
):
    pass
`)
	fn := mod.Functions()[0]
	require.Len(t, fn.Params, 4)
	assert.Equal(t, "Annotated[int, Path()]", TypeString(fn.Params[0].Annotation))
	assert.Equal(t, "models.Item", TypeString(fn.Params[1].Annotation))
	assert.Equal(t, "Any", TypeString(fn.Params[2].Annotation))
	assert.Equal(t, "Any", TypeString(fn.Params[3].Annotation))
}

func TestParseFile_ClassBody(t *testing.T) {
	mod := parse(t, `
class ProductSerializer(serializers.ModelSerializer):
    """Serializer for products."""
    name = serializers.CharField()
    price: float = 0.0
    a = b = serializers.IntegerField()

    class Meta:
        model = Product

    def validate(self, data):
        return data
`)
	classes := mod.Classes()
	require.Len(t, classes, 2)
	cls := classes[0]
	assert.Equal(t, "ProductSerializer", cls.Name)
	assert.Equal(t, []string{"serializers.ModelSerializer"}, cls.BaseText())
	assert.Equal(t, "Serializer for products.", cls.Doc)
	assert.Equal(t, []string{"name", "price", "a", "b"}, cls.FieldNames())
	require.Len(t, cls.Methods(), 1)
	assert.Equal(t, "validate", cls.Methods()[0].Name)
	assert.Equal(t, "Meta", classes[1].Name)
}

func TestParseFile_NestedBlocks(t *testing.T) {
	mod := parse(t, `
if True:
    def inside_if():
        pass
else:
    try:
        def inside_try():
            pass
    except Exception:
        pass

def outer():
    def inner():
        pass
`)
	var names []string
	for _, fn := range mod.Functions() {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"inside_if", "inside_try", "outer", "inner"}, names)
}

func TestParseFile_SyntaxError(t *testing.T) {
	_, err := ParseFile(context.Background(), []byte("def broken(:\n    pass\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))

	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Line)
}

func TestParseFile_RejectedByInterpreter(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"unindented function body", "def a():\nreturn 1\n", 0},
		{"unindented class body", "x = 1\nclass A:\nname = 'a'\n", 0},
		{"print statement", "x = 1\nprint 'legacy'\n", 2},
		{"exec statement", "exec 'x = 1'\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(context.Background(), []byte(tt.src))
			var se *SyntaxError
			require.True(t, errors.As(err, &se), "expected *SyntaxError, got %v", err)
			if tt.line > 0 {
				assert.Equal(t, tt.line, se.Line)
			}
		})
	}

	_, err := ParseFile(context.Background(), []byte("def a():\n    print('ok')\n"))
	assert.NoError(t, err)
}

func TestParseFile_Constants(t *testing.T) {
	mod := parse(t, `
def f(
    a=None, b=True, c=1_000, d=0x1F, e=1.5, f=1e20, g='it\'s',
    h=r"\d+", i="a" "b", j=f"{x}", k=b"raw", l=..., m=-1, n=Query(None, max_length=50),
):
    pass
`)
	fn := mod.Functions()[0]
	got := map[string]string{}
	for _, p := range fn.Params {
		got[p.Name] = ValueString(p.Default)
	}
	assert.Equal(t, map[string]string{
		"a": "None",
		"b": "True",
		"c": "1000",
		"d": "31",
		"e": "1.5",
		"f": "1e+20",
		"g": "it's",
		"h": `\d+`,
		"i": "ab",
		"j": `f"{x}"`,
		"k": `b"raw"`,
		"l": "Ellipsis",
		"m": "-1",
		"n": "Query(None, max_length=50)",
	}, got)
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		1.0:     "1.0",
		0.5:     "0.5",
		1e16:    "1e+16",
		1e15:    "1000000000000000.0",
		0.0001:  "0.0001",
		0.00001: "1e-05",
		-2.25:   "-2.25",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in), "FormatFloat(%v)", in)
	}
}

func TestCleanDoc(t *testing.T) {
	doc := "\n    Summary line.\n\n        Indented detail.\n    Last line.\n    "
	assert.Equal(t, "Summary line.\n\n    Indented detail.\nLast line.", CleanDoc(doc))
	assert.Equal(t, "One liner", CleanDoc("One liner"))
}

func TestWalk_SkipChildren(t *testing.T) {
	mod := parse(t, `
class A:
    def method(self):
        pass

def top():
    pass
`)
	var visited []int
	Walk(mod.Body, func(s Stmt) bool {
		visited = append(visited, s.StmtLine())
		_, isClass := s.(*ClassDef)
		return !isClass
	})
	assert.Equal(t, []int{2, 6}, visited)
}
