package utils

import "testing"

func TestIsNonViewKeyword(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"include", true},
		{"path", true},
		{"re_path", true},
		{"name", true},
		{"basename", true},
		{"", true},
		{"  ", true},
		{"ProductViewSet", false},
		{"health_check", false},
	}

	for _, tt := range tests {
		if got := IsNonViewKeyword(tt.name); got != tt.want {
			t.Errorf("IsNonViewKeyword(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsExcluded(t *testing.T) {
	patterns := []string{"venv", "tests", "test_", ""}

	tests := []struct {
		path string
		want bool
	}{
		{"venv/lib/site.py", true},
		{"app/tests/conftest.py", true},
		{"app/test_views.py", true},
		{"app/views.py", false},
		{"app/latest.py", false},
	}

	for _, tt := range tests {
		if got := IsExcluded(tt.path, patterns); got != tt.want {
			t.Errorf("IsExcluded(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
