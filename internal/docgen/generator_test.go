package docgen

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-recon/internal/model"
)

// scriptedModel answers prompts from a queue and records what it was asked
type scriptedModel struct {
	mu       sync.Mutex
	replies  []string
	errs     []error
	requests []Request
}

func (m *scriptedModel) Name() string { return "scripted" }

func (m *scriptedModel) Generate(_ context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := len(m.requests)
	m.requests = append(m.requests, req)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i >= len(m.replies) {
		return "", errors.New("script exhausted")
	}
	return m.replies[i], nil
}

func sampleEndpoints() []model.EndpointInfo {
	read := model.NewEndpointInfo("GET", "/items/{item_id}", "read_item")
	read.Tags = []string{"items"}
	read.Parameters = append(read.Parameters, model.NewParameter("item_id", model.LocationPath, "int", nil))
	q := "None"
	read.Parameters = append(read.Parameters, model.NewParameter("q", model.LocationQuery, "str", &q))
	read.ResponseModel = model.StringPtr("Item")

	create := model.NewEndpointInfo("POST", "/items", "create_item")
	create.Summary = model.StringPtr("Create an item.")
	create.RequestModel = model.StringPtr("Item")
	create.StatusCode = 201
	return []model.EndpointInfo{read, create}
}

func TestDescribeEndpoints(t *testing.T) {
	text := DescribeEndpoints(sampleEndpoints())

	assert.Contains(t, text, "### GET /items/{item_id}")
	assert.Contains(t, text, "- **Summary**: Not provided")
	assert.Contains(t, text, "- **Tags**: items")
	assert.Contains(t, text, "  - `item_id` (path): int\n")
	assert.Contains(t, text, "  - `q` (query): str [Optional, default: None]")
	assert.Contains(t, text, "**Response Model**: Item")
	assert.Contains(t, text, "- **Tags**: None")
	assert.Contains(t, text, "- **Status Code**: 201")
}

func TestGenerator_Generate(t *testing.T) {
	m := &scriptedModel{replies: []string{"# Shop API\n"}}

	doc, err := NewGenerator(m).Generate(context.Background(), sampleEndpoints(), "Shop")
	require.NoError(t, err)
	assert.Equal(t, "# Shop API\n", doc)

	require.Len(t, m.requests, 1)
	assert.Equal(t, writerSystem, m.requests[0].System)
	assert.Contains(t, m.requests[0].Prompt, `"Shop" project`)
	assert.Contains(t, m.requests[0].Prompt, "### POST /items")
}

func TestGenerator_Errors(t *testing.T) {
	_, err := NewGenerator(&scriptedModel{}).Generate(context.Background(), nil, "Shop")
	assert.Error(t, err)

	boom := errors.New("quota exceeded")
	_, err = NewGenerator(&scriptedModel{errs: []error{boom}}).Generate(context.Background(), sampleEndpoints(), "")
	assert.ErrorIs(t, err, boom)
}

func TestReviewer_PassKeepsDraft(t *testing.T) {
	m := &scriptedModel{replies: []string{"draft", StatusPass}}
	gen := NewGenerator(m).WithReviewer(NewReviewer(m, 3))

	doc, err := gen.Generate(context.Background(), sampleEndpoints(), "Shop")
	require.NoError(t, err)
	assert.Equal(t, "draft", doc)
	assert.Len(t, m.requests, 2)
	assert.Contains(t, m.requests[1].Prompt, "**Generated Documentation**:\ndraft")
}

func TestReviewer_RefinesUntilPass(t *testing.T) {
	m := &scriptedModel{replies: []string{
		"draft",
		"STATUS: FAIL\n- q is optional",
		"fixed",
		StatusPass,
	}}
	gen := NewGenerator(m).WithReviewer(NewReviewer(m, 3))

	doc, err := gen.Generate(context.Background(), sampleEndpoints(), "Shop")
	require.NoError(t, err)
	assert.Equal(t, "fixed", doc)
	require.Len(t, m.requests, 4)
	assert.Contains(t, m.requests[2].Prompt, "- q is optional")
	assert.Equal(t, refinerSystem, m.requests[2].System)
}

func TestReviewer_StopsAtMaxRounds(t *testing.T) {
	m := &scriptedModel{replies: []string{
		"STATUS: FAIL", "v1",
		"STATUS: FAIL", "v2",
	}}

	doc := NewReviewer(m, 2).Polish(context.Background(), "v0", sampleEndpoints())
	assert.Equal(t, "v2", doc)
	assert.Len(t, m.requests, 4)
}

func TestReviewer_FailsOpen(t *testing.T) {
	m := &scriptedModel{errs: []error{errors.New("unavailable")}}

	passed, doc := NewReviewer(m, 1).Review(context.Background(), "draft", sampleEndpoints())
	assert.True(t, passed)
	assert.Equal(t, "draft", doc)

	// A failed refinement keeps the previous draft
	m = &scriptedModel{replies: []string{"STATUS: FAIL"}, errs: []error{nil, errors.New("unavailable")}}
	passed, doc = NewReviewer(m, 1).Review(context.Background(), "draft", sampleEndpoints())
	assert.False(t, passed)
	assert.Equal(t, "draft", doc)
}

func TestReviewer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &scriptedModel{}
	assert.Equal(t, "draft", NewReviewer(m, 3).Polish(ctx, "draft", sampleEndpoints()))
	assert.Empty(t, m.requests)
}

func TestNewGeminiModel_RequiresKey(t *testing.T) {
	_, err := NewGeminiModel(context.Background(), " ", "gemini-2.5-flash")
	assert.Error(t, err)
}

func TestCompareEndpoints(t *testing.T) {
	previous := sampleEndpoints()
	current := sampleEndpoints()

	assert.True(t, CompareEndpoints(previous, current).Empty())

	current[0].Parameters = current[0].Parameters[:1]
	gone := model.NewEndpointInfo("DELETE", "/items/{item_id}", "delete_item")
	previous = append(previous, gone)
	current = append(current, model.NewEndpointInfo("GET", "/health", "health"))

	changes := CompareEndpoints(previous, current)
	assert.Equal(t, []string{"GET /health"}, changes.Added)
	assert.Equal(t, []string{"DELETE /items/{item_id}"}, changes.Removed)
	assert.Equal(t, []string{"GET /items/{item_id}"}, changes.Modified)

	md := changes.Markdown()
	assert.True(t, strings.HasPrefix(md, "## API Documentation Changes"))
	assert.Contains(t, md, "### Removed Endpoints\n- `DELETE /items/{item_id}`")
	assert.NotContains(t, md, "No changes detected.")
	assert.Contains(t, ChangeSet{}.Markdown(), "No changes detected.")
}
