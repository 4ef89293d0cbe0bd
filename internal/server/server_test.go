package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"route-recon/internal/analyzer"
	"route-recon/internal/artifact"
	"route-recon/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const mainPy = `from fastapi import FastAPI

app = FastAPI()


@app.get("/items/{item_id}")
def read_item(item_id: int, q: str = None):
    """Read an item."""
    return {}


@app.post("/items", status_code=201)
def create_item(name: str):
    return {}
`

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newTestServer(t *testing.T) (*Server, artifact.Store) {
	t.Helper()
	store, err := artifact.NewFileStore(t.TempDir())
	require.NoError(t, err)
	cfg := &config.Config{
		Analysis: config.AnalysisConfig{ExcludePatterns: analyzer.DefaultExcludePatterns},
		Project:  config.ProjectConfig{Encoding: []string{"utf-8"}},
	}
	return New(cfg, store), store
}

func do(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(HeaderRequestID))
}

func TestDetect(t *testing.T) {
	s, _ := newTestServer(t)
	root := writeProject(t, map[string]string{"manage.py": "import django\n"})

	rec := do(t, s, http.MethodPost, "/v1/detect", map[string]string{"path": root})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp detectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "django", resp.Convention)
}

func TestAnalyze(t *testing.T) {
	s, store := newTestServer(t)
	root := writeProject(t, map[string]string{"app/main.py": mainPy})

	rec := do(t, s, http.MethodPost, "/v1/analyze", map[string]string{"path": root})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "fastapi", resp.Convention)
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Endpoints, 2)
	assert.Equal(t, "GET /items/{item_id}", resp.Endpoints[0].Key())
	assert.Equal(t, 201, resp.Endpoints[1].StatusCode)
	assert.NotEmpty(t, resp.RunID)

	names, err := store.List(t.Context(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, []string{AnalysisArtifact}, names)

	rec = do(t, s, http.MethodGet, "/v1/runs/"+resp.RunID+"/artifacts/"+AnalysisArtifact, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"function_name": "read_item"`)

	rec = do(t, s, http.MethodGet, "/v1/runs/"+resp.RunID+"/artifacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), AnalysisArtifact)
}

func TestAnalyze_Errors(t *testing.T) {
	s, _ := newTestServer(t)
	root := writeProject(t, map[string]string{"app/main.py": mainPy})

	tests := []struct {
		name   string
		body   interface{}
		status int
	}{
		{"unsupported framework", map[string]string{"path": root, "framework": "flask"}, http.StatusBadRequest},
		{"missing path", map[string]string{"framework": "fastapi"}, http.StatusBadRequest},
		{"nonexistent path", map[string]string{"path": filepath.Join(root, "nope")}, http.StatusNotFound},
		{"malformed body", "not an object", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/v1/analyze", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestGetArtifact_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/v1/runs/unknown/artifacts/analysis.json", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
