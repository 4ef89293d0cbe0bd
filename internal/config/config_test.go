package config

import (
	"os"
	"path/filepath"
	"testing"

	"route-recon/internal/analyzer"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	// Load config without a file (should use defaults)
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Failed to load config with defaults: %v", err)
	}

	// Verify defaults
	if cfg.Project.RootDir == "" {
		t.Error("Expected RootDir to be set")
	}

	if cfg.Project.Framework != "auto" {
		t.Errorf("Expected framework auto, got %q", cfg.Project.Framework)
	}

	if cfg.Output.Dir == "" {
		t.Error("Expected Output.Dir to be set")
	}

	if cfg.Output.FileName == "" {
		t.Error("Expected Output.FileName to be set")
	}

	if len(cfg.Project.Encoding) == 0 {
		t.Error("Expected at least one encoding hint")
	}

	if len(cfg.Analysis.ExcludePatterns) == 0 {
		t.Error("Expected at least one exclude pattern")
	}

	if cfg.Docgen.MaxRounds != 3 {
		t.Errorf("Expected docgen.max_rounds 3, got %d", cfg.Docgen.MaxRounds)
	}

	t.Logf("Config loaded successfully with defaults")
	cfg.Print()
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	path := filepath.Join(dir, "route-recon.yaml")
	content := "project:\n" +
		"  root_dir: " + dir + "\n" +
		"  framework: django\n" +
		"analysis:\n" +
		"  exclude_patterns: [\"vendor\"]\n" +
		"  sample_size: 5\n" +
		"output:\n" +
		"  dir: " + outDir + "\n" +
		"  file_name: shop\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	t.Setenv("ROUTE_RECON_ANALYSIS_WORKERS", "3")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", path, err)
	}

	if cfg.Project.Framework != "django" {
		t.Errorf("framework = %q, expected django", cfg.Project.Framework)
	}
	if cfg.Analysis.Workers != 3 {
		t.Errorf("workers = %d, expected 3 from environment", cfg.Analysis.Workers)
	}
	if cfg.Docgen.APIKey != "secret" {
		t.Errorf("api_key = %q, expected value of GEMINI_API_KEY", cfg.Docgen.APIKey)
	}
	if _, err := os.Stat(outDir); err != nil {
		t.Errorf("Expected output dir to be created: %v", err)
	}

	ac := cfg.AnalyzerConfig()
	if ac.RootDir != cfg.Project.RootDir || ac.SampleSize != 5 || ac.Workers != 3 {
		t.Errorf("AnalyzerConfig() = %+v", ac)
	}
	if len(ac.ExcludePatterns) != 1 || ac.ExcludePatterns[0] != "vendor" {
		t.Errorf("exclude patterns = %v, expected [vendor]", ac.ExcludePatterns)
	}
}

func TestShouldExclude(t *testing.T) {
	cfg := &Config{
		Analysis: AnalysisConfig{
			ExcludePatterns: analyzer.DefaultExcludePatterns,
		},
	}

	tests := []struct {
		path     string
		expected bool
	}{
		{"app/views.py", false},
		{"app/tests/test_views.py", true},
		{"venv/lib/python3.12/site.py", true},
		{"shop/migrations/0001_initial.py", true},
		{"shop/__pycache__/urls.cpython-312.pyc", true},
		{"shop/serializers.py", false},
	}

	for _, tt := range tests {
		result := cfg.ShouldExclude(tt.path)
		if result != tt.expected {
			t.Errorf("ShouldExclude(%s) = %v, expected %v", tt.path, result, tt.expected)
		}
	}
}

func TestProjectName(t *testing.T) {
	cfg := &Config{Project: ProjectConfig{RootDir: "/srv/shop"}}
	if got := cfg.ProjectName(); got != "shop" {
		t.Errorf("ProjectName() = %s, expected shop", got)
	}

	cfg.Project.Name = "Shop API"
	if got := cfg.ProjectName(); got != "Shop API" {
		t.Errorf("ProjectName() = %s, expected Shop API", got)
	}
}

func TestGetOutputPath(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{
			Dir:      "/tmp/output",
			FileName: "test-report",
		},
		Docgen: DocgenConfig{FileName: "API_DOCS"},
	}

	expected := filepath.Join("/tmp/output", "test-report.json")
	if result := cfg.GetOutputPath(); result != expected {
		t.Errorf("GetOutputPath() = %s, expected %s", result, expected)
	}

	expected = filepath.Join("/tmp/output", "API_DOCS.md")
	if result := cfg.GetDocsPath(); result != expected {
		t.Errorf("GetDocsPath() = %s, expected %s", result, expected)
	}
}

func TestValidate(t *testing.T) {
	tmpDir := t.TempDir()

	valid := func() *Config {
		return &Config{
			Project: ProjectConfig{
				RootDir:   tmpDir,
				Framework: "auto",
				Encoding:  []string{"utf-8"},
			},
			Output: OutputConfig{
				FileName: "report",
			},
			Docgen: DocgenConfig{MaxRounds: 3},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		shouldErr bool
	}{
		{"Valid config", func(*Config) {}, false},
		{"Nonexistent root directory", func(c *Config) { c.Project.RootDir = "/nonexistent/directory" }, true},
		{"Unsupported framework", func(c *Config) { c.Project.Framework = "flask" }, true},
		{"Empty encoding list", func(c *Config) { c.Project.Encoding = []string{} }, true},
		{"Empty output filename", func(c *Config) { c.Output.FileName = "" }, true},
		{"Docgen without key", func(c *Config) { c.Docgen.Enabled = true }, true},
		{"Docgen with key", func(c *Config) { c.Docgen.Enabled = true; c.Docgen.APIKey = "k" }, false},
		{"Zero review rounds", func(c *Config) { c.Docgen.MaxRounds = 0 }, true},
		{"Artifact without bucket", func(c *Config) { c.Artifact.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.shouldErr && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}
