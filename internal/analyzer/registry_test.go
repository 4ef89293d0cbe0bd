package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())

	fa, err := New(ConventionFastAPI, cfg)
	require.NoError(t, err)
	assert.Equal(t, ConventionFastAPI, fa.Convention())

	dj, err := New(ConventionDjango, cfg)
	require.NoError(t, err)
	assert.Equal(t, ConventionDjango, dj.Convention())

	_, err = New("flask", cfg)
	assert.ErrorIs(t, err, ErrUnsupportedConvention)

	// auto is resolved by ForProject, never by New
	_, err = New(ConventionAuto, cfg)
	assert.ErrorIs(t, err, ErrUnsupportedConvention)
}

func TestNew_FreshInstances(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	a, err := New(ConventionDjango, cfg)
	require.NoError(t, err)
	b, err := New(ConventionDjango, cfg)
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestParseConvention(t *testing.T) {
	tests := []struct {
		in      string
		want    Convention
		wantErr bool
	}{
		{"", ConventionAuto, false},
		{"auto", ConventionAuto, false},
		{"FastAPI", ConventionFastAPI, false},
		{" django ", ConventionDjango, false},
		{"flask", "", true},
	}
	for _, tt := range tests {
		got, err := ParseConvention(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedConvention, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestForProject_ResolvesAuto(t *testing.T) {
	root := writeTree(t, map[string]string{"manage.py": ""})
	ext, err := ForProject(ConventionAuto, DefaultConfig(root))
	require.NoError(t, err)
	assert.Equal(t, ConventionDjango, ext.Convention())

	ext, err = ForProject(ConventionFastAPI, DefaultConfig(root))
	require.NoError(t, err)
	assert.Equal(t, ConventionFastAPI, ext.Convention())
}
