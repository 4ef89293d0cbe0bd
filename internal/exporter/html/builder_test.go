package html

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-recon/internal/config"
	"route-recon/internal/model"
)

func sampleInventory() *model.Inventory {
	inv := model.NewInventory("fastapi", "/srv/shop")

	read := model.NewEndpointInfo("GET", "/items/{item_id}", "read_item")
	read.Tags = []string{"items"}
	read.Summary = model.StringPtr("Read an item")
	read.Description = model.StringPtr("Returns <b>one</b> item.")
	read.Parameters = append(read.Parameters, model.NewParameter("item_id", model.LocationPath, "int", nil))
	read.FilePath = "app/main.py"
	read.LineNumber = 12

	create := model.NewEndpointInfo("POST", "/items", "create_item")
	create.Tags = []string{"items"}
	create.RequestModel = model.StringPtr("Item")
	create.StatusCode = 201

	root := model.NewEndpointInfo("GET", "/", "root")

	inv.Endpoints = []model.EndpointInfo{root, read, create}
	inv.Models = []model.ModelSchema{{Name: "Item", Fields: []model.ModelField{{Name: "name", Type: "str"}}, File: "app/models.py"}}
	inv.AddDiagnostic(model.DiagParseError, "app/broken.py", 3, "invalid syntax")
	return inv
}

func TestNewReportData(t *testing.T) {
	data := NewReportData(sampleInventory(), "shop API")

	require.Len(t, data.Groups, 2)
	assert.Equal(t, "default", data.Groups[0].Tag)
	assert.Equal(t, "items", data.Groups[1].Tag)
	assert.Equal(t, "tag-1", data.Groups[1].Anchor)

	items := data.Groups[1].Endpoints
	require.Len(t, items, 2)
	assert.Equal(t, "/items", items[0].Path)
	assert.Equal(t, "Item", items[0].Request)
	assert.Equal(t, "app/main.py:12", items[1].Source)
	assert.Equal(t, 3, data.TotalEndpoints)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewReportData(sampleInventory(), "shop API")))
	out := buf.String()

	assert.Contains(t, out, "<title>shop API</title>")
	assert.Contains(t, out, `class="method-badge method-post"`)
	assert.Contains(t, out, "/items/{item_id}")
	assert.Contains(t, out, "REQUIRED")
	assert.Contains(t, out, "[parse_error] app/broken.py:3 invalid syntax")

	// Docstrings are escaped, never injected
	assert.Contains(t, out, "Returns &lt;b&gt;one&lt;/b&gt; item.")
	assert.False(t, strings.Contains(out, "<b>one</b>"))
}

func TestRender_NoEndpoints(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, NewReportData(model.NewInventory("django", "/srv/x"), "x API")))
	assert.Contains(t, buf.String(), "No API endpoints found")
}

func TestHTMLExport(t *testing.T) {
	cfg := &config.Config{
		Project: config.ProjectConfig{RootDir: "/srv/shop"},
		Output:  config.OutputConfig{Dir: t.TempDir(), FileName: "report"},
	}

	path, err := NewHTMLExporter().Export(sampleInventory(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "report.html"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "shop API")
}
