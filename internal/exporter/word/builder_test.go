package word

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyenthenguyen/docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-recon/internal/config"
	"route-recon/internal/model"
)

func sampleInventory() *model.Inventory {
	inv := model.NewInventory("django", "/srv/shop")
	inv.AnalyzedAt = "2026-10-18"

	list := model.NewEndpointInfo("GET", "/products/", "list")
	list.Tags = []string{"Products"}
	list.Summary = model.StringPtr("List products")
	page := "1"
	list.Parameters = append(list.Parameters, model.NewParameter("page", model.LocationQuery, "int", &page))

	create := model.NewEndpointInfo("POST", "/products/", "create")
	create.Tags = []string{"Products"}
	create.RequestModel = model.StringPtr("ProductSerializer")
	create.StatusCode = 201

	inv.Endpoints = []model.EndpointInfo{create, list}
	inv.Models = []model.ModelSchema{{Name: "ProductSerializer", Fields: []model.ModelField{{Name: "name"}}, File: "shop/serializers.py"}}
	return inv
}

func TestTemplate(t *testing.T) {
	data, err := Template()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var names []string
	var document string
	for _, f := range zr.File {
		names = append(names, f.Name)
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			require.NoError(t, err)
			body, err := io.ReadAll(rc)
			rc.Close()
			require.NoError(t, err)
			document = string(body)
		}
	}
	assert.Contains(t, names, "word/_rels/document.xml.rels")
	for _, p := range []string{PlaceholderTitle, PlaceholderDate, PlaceholderConvention, PlaceholderEndpoints, PlaceholderContent} {
		assert.Contains(t, document, p)
	}
}

func TestBuildContent(t *testing.T) {
	content := BuildContent(sampleInventory())

	assert.Contains(t, content, "## Products")
	assert.Contains(t, content, "Summary: List products")
	assert.Contains(t, content, "REQUEST BODY: ProductSerializer")
	assert.Contains(t, content, "RESPONSE: 201 -")
	assert.Contains(t, content, "  └ name")

	// GET is listed before POST on the same path
	assert.Less(t, strings.Index(content, "[GET] /products/"), strings.Index(content, "[POST] /products/"))
}

func TestWordExport(t *testing.T) {
	cfg := &config.Config{
		Project: config.ProjectConfig{RootDir: "/srv/shop"},
		Output:  config.OutputConfig{Dir: t.TempDir(), FileName: "report"},
	}

	path, err := NewWordExporter().Export(sampleInventory(), cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "report.docx"), path)

	r, err := docx.ReadDocxFile(path)
	require.NoError(t, err)
	defer r.Close()

	content := r.Editable().GetContent()
	assert.Contains(t, content, "shop API")
	assert.Contains(t, content, "Total Endpoints: 2")
	assert.Contains(t, content, "[GET] /products/")
	assert.NotContains(t, content, PlaceholderContent)
}
