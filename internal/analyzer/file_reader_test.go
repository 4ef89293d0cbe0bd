package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/korean"
)

func TestScanDirectory(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b/views.py":               "",
		"a/urls.py":                "",
		"a/readme.md":              "",
		"main.py":                  "",
		"migrations/0001.py":       "",
		"app/__pycache__/x.py":     "",
		".git/hooks/pre-commit.py": "",
	})

	files, err := ScanDirectory(root, DefaultExcludePatterns)
	require.NoError(t, err)

	var rels []string
	for _, f := range files {
		rels = append(rels, relPath(root, f))
	}
	assert.Equal(t, []string{"a/urls.py", "b/views.py", "main.py"}, rels)
}

func TestScanDirectory_MissingRoot(t *testing.T) {
	_, err := ScanDirectory(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestReadFile_UTF8WithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.py")
	require.NoError(t, os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "x = 'é'\n"...), 0644))

	got, err := ReadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "x = 'é'\n", got)
}

func TestReadFile_CodingCookie(t *testing.T) {
	src := "# -*- coding: euc-kr -*-\n# 상품 목록\nx = 1\n"
	encoded, err := korean.EUCKR.NewEncoder().String(src)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "legacy.py")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))

	got, err := ReadFile(path, []string{"utf-8"})
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestReadFile_EncodingHints(t *testing.T) {
	src := "# café\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "latin.py")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))

	got, err := ReadFile(path, []string{"utf-8", "no-such-encoding", "windows-1252"})
	require.NoError(t, err)
	assert.Equal(t, src, got)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.py"), nil)
	assert.Error(t, err)
}
