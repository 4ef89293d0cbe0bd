package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Convention
	}{
		{
			name:  "manage.py wins over fastapi imports",
			files: map[string]string{"manage.py": "", "main.py": "from fastapi import FastAPI\n"},
			want:  ConventionDjango,
		},
		{
			name:  "nested settings module",
			files: map[string]string{"proj/settings.py": "DEBUG = True\n", "main.py": "import fastapi\n"},
			want:  ConventionDjango,
		},
		{
			name:  "settings package",
			files: map[string]string{"proj/settings/base.py": "DEBUG = True\n"},
			want:  ConventionDjango,
		},
		{
			name: "django import beats fastapi import",
			files: map[string]string{
				"a.py": "from fastapi import FastAPI\n",
				"b.py": "x = 1\nfrom django.urls import path\n",
			},
			want: ConventionDjango,
		},
		{
			name:  "fastapi import",
			files: map[string]string{"app/main.py": "import os\nfrom fastapi import FastAPI\n"},
			want:  ConventionFastAPI,
		},
		{
			name:  "no markers",
			files: map[string]string{"lib.py": "print('hi')\n"},
			want:  ConventionFastAPI,
		},
		{
			name:  "empty project",
			files: map[string]string{},
			want:  ConventionFastAPI,
		},
		{
			name:  "excluded settings are ignored",
			files: map[string]string{"venv/lib/settings.py": "", "tests/test_x.py": "import django\n"},
			want:  ConventionFastAPI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeTree(t, tt.files)
			assert.Equal(t, tt.want, Detect(root, DefaultConfig(root)))
		})
	}
}

func TestDetect_SampleSizeBoundsImportScan(t *testing.T) {
	files := map[string]string{"z_last.py": "import django\n"}
	for _, name := range []string{"a", "b", "c"} {
		files[name+".py"] = "x = 1\n"
	}
	root := writeTree(t, files)

	cfg := DefaultConfig(root)
	cfg.SampleSize = 3
	assert.Equal(t, ConventionFastAPI, Detect(root, cfg))

	cfg.SampleSize = 4
	assert.Equal(t, ConventionDjango, Detect(root, cfg))
}

func TestDetect_MissingRoot(t *testing.T) {
	assert.Equal(t, ConventionFastAPI, Detect("/definitely/not/here", nil))
}
