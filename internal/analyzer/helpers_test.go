package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"route-recon/internal/model"
)

// writeTree creates files (relative path -> content) under a fresh temp dir
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func analyze(t *testing.T, conv Convention, root string) *model.Inventory {
	t.Helper()
	ext, err := New(conv, DefaultConfig(root))
	require.NoError(t, err)
	inv, err := ext.Analyze(context.Background())
	require.NoError(t, err)
	return inv
}

func endpointKeys(inv *model.Inventory) []string {
	keys := make([]string, 0, len(inv.Endpoints))
	for _, ep := range inv.Endpoints {
		keys = append(keys, ep.Key())
	}
	return keys
}

func findEndpoint(t *testing.T, inv *model.Inventory, key string) model.EndpointInfo {
	t.Helper()
	for _, ep := range inv.Endpoints {
		if ep.Key() == key {
			return ep
		}
	}
	t.Fatalf("endpoint %s not found in %v", key, endpointKeys(inv))
	return model.EndpointInfo{}
}

func requireParamInvariant(t *testing.T, inv *model.Inventory) {
	t.Helper()
	for _, ep := range inv.Endpoints {
		for _, p := range ep.Parameters {
			require.Equal(t, p.DefaultValue == nil, p.Required,
				"%s parameter %s: required must be false exactly when a default exists", ep.Key(), p.Name)
		}
	}
}
