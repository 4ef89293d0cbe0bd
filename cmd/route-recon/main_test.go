package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-recon/internal/artifact"
	"route-recon/internal/model"
)

func TestRun_Commands(t *testing.T) {
	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 0, run([]string{"version"}))
	assert.Equal(t, 2, run([]string{"deploy"}))
}

func TestRun_AnalyzeWritesArtifact(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.py"), []byte(`from fastapi import FastAPI

app = FastAPI()


@app.get("/ping")
def ping():
    return "pong"
`), 0644))
	out := t.TempDir()

	code := run([]string{"analyze", "-no-progress", "-config", filepath.Join(root, "missing.yaml"), "-output", out, root})
	require.Equal(t, 0, code)

	data, err := os.ReadFile(filepath.Join(out, "api-analysis.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path": "/ping"`)
}

func TestRun_UnsupportedFramework(t *testing.T) {
	root := t.TempDir()
	code := run([]string{"analyze", "-no-progress", "-f", "flask", "-config", filepath.Join(root, "missing.yaml"), "-output", t.TempDir(), root})
	assert.Equal(t, 1, code)
}

func TestPrintEndpoints(t *testing.T) {
	color.NoColor = true
	inv := model.NewInventory("django", "/srv/shop")
	inv.Endpoints = []model.EndpointInfo{model.NewEndpointInfo("GET", "/products/", "list")}
	inv.AddDiagnostic(model.DiagUnmatchedURL, "shop/urls.py", 4, "no view named GhostViewSet")

	var buf bytes.Buffer
	printEndpoints(&buf, inv)

	assert.Contains(t, buf.String(), "Endpoints (django, 1):")
	assert.Contains(t, buf.String(), "GET     /products/")
	assert.Contains(t, buf.String(), "[unmatched_url] shop/urls.py:4 no view named GhostViewSet")
}

func TestStoreFiles_CountsOnlySuccessfulWrites(t *testing.T) {
	dir := t.TempDir()
	written := filepath.Join(dir, "api-analysis.json")
	require.NoError(t, os.WriteFile(written, []byte("[]\n"), 0644))

	store, err := artifact.NewFileStore(filepath.Join(dir, "runs"))
	require.NoError(t, err)

	files := map[string]string{
		"api-analysis.json": written,
		"api-report.html":   filepath.Join(dir, "missing.html"),
	}
	runID := artifact.NewRunID()
	assert.Equal(t, 1, storeFiles(context.Background(), store, runID, files))

	names, err := store.List(context.Background(), runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"api-analysis.json"}, names)

	assert.Equal(t, 0, storeFiles(context.Background(), store, artifact.NewRunID(), map[string]string{
		"gone.json": filepath.Join(dir, "gone.json"),
	}))
}
