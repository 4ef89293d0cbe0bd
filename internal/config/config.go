package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"route-recon/internal/analyzer"
	"route-recon/internal/utils"
)

// EnvPrefix is prepended to every environment override (analysis.workers -> ROUTE_RECON_ANALYSIS_WORKERS)
const EnvPrefix = "ROUTE_RECON"

// Config represents the application configuration
type Config struct {
	Project  ProjectConfig  `mapstructure:"project"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
	Docgen   DocgenConfig   `mapstructure:"docgen"`
	Artifact ArtifactConfig `mapstructure:"artifact"`
	Server   ServerConfig   `mapstructure:"server"`
}

// ProjectConfig holds project-specific settings
type ProjectConfig struct {
	RootDir   string   `mapstructure:"root_dir"`  // Root directory to analyze
	Name      string   `mapstructure:"name"`      // Project name used in generated docs (defaults to the root dir name)
	Framework string   `mapstructure:"framework"` // "auto", "fastapi" or "django"
	Encoding  []string `mapstructure:"encoding"`  // Encoding hints (e.g., ["utf-8", "euc-kr", "windows-1252"])
}

// AnalysisConfig holds analysis behavior settings
type AnalysisConfig struct {
	ExcludePatterns []string `mapstructure:"exclude_patterns"` // Path substrings to skip
	SampleSize      int      `mapstructure:"sample_size"`      // Files sampled by the detector
	Workers         int      `mapstructure:"workers"`          // Parallel parsers (0 = GOMAXPROCS)
	ParseCacheSize  int      `mapstructure:"parse_cache_size"` // Parsed modules kept across django passes
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Analysis artifact / report base name (without extension)
	Formats  []string `mapstructure:"formats"`   // Report formats for "generate"
}

// DocgenConfig holds documentation generation settings
type DocgenConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	Agentic   bool   `mapstructure:"agentic"`    // Run the critique/refine loop
	MaxRounds int    `mapstructure:"max_rounds"` // Upper bound on review rounds
	FileName  string `mapstructure:"file_name"`  // Markdown output name (without extension)
}

// ArtifactConfig holds object storage settings for analysis artifacts
type ArtifactConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "route-recon.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
// Environment variables (ROUTE_RECON_*) and a local .env file override both
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Set sensible defaults
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("docgen.api_key", EnvPrefix+"_DOCGEN_API_KEY", "GEMINI_API_KEY")

	// Determine config file to use
	if configPath == "" {
		configPath = "route-recon.yaml"
	}

	// Set config file
	v.SetConfigFile(configPath)

	// Read config file (ignore error if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		// Check if it's just a file not found error
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Printf("  Source: %s\n", v.GetString("project.root_dir"))
			fmt.Printf("  Output: %s\n", v.GetString("output.dir"))
			fmt.Println("==========================================")
		} else {
			// Config file found but has some other error
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Normalize paths
	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	// Create output directory if it doesn't exist
	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	// Project defaults - analyze the current directory
	v.SetDefault("project.root_dir", ".")
	v.SetDefault("project.name", "")
	v.SetDefault("project.framework", string(analyzer.ConventionAuto))
	v.SetDefault("project.encoding", []string{"utf-8", "euc-kr", "windows-1252"})

	// Analysis defaults
	v.SetDefault("analysis.exclude_patterns", analyzer.DefaultExcludePatterns)
	v.SetDefault("analysis.sample_size", 20)
	v.SetDefault("analysis.workers", 0)
	v.SetDefault("analysis.parse_cache_size", 512)

	// Output defaults
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "api-analysis")
	v.SetDefault("output.formats", []string{"json", "openapi"})

	// Docgen defaults
	v.SetDefault("docgen.enabled", false)
	v.SetDefault("docgen.model", "gemini-2.5-flash")
	v.SetDefault("docgen.api_key", "")
	v.SetDefault("docgen.agentic", false)
	v.SetDefault("docgen.max_rounds", 3)
	v.SetDefault("docgen.file_name", "API_DOCS")

	// Artifact defaults
	v.SetDefault("artifact.enabled", false)
	v.SetDefault("artifact.endpoint", "localhost:9000")
	v.SetDefault("artifact.region", "us-east-1")
	v.SetDefault("artifact.bucket", "route-recon-artifacts")
	v.SetDefault("artifact.access_key", "")
	v.SetDefault("artifact.secret_key", "")
	v.SetDefault("artifact.use_ssl", false)

	// Server defaults
	v.SetDefault("server.addr", ":8080")
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	// Normalize root directory
	absRoot, err := filepath.Abs(c.Project.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve root_dir: %w", err)
	}
	c.Project.RootDir = absRoot

	// Normalize output directory
	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ProjectName returns the configured name, or the root directory's base name
func (c *Config) ProjectName() string {
	if strings.TrimSpace(c.Project.Name) != "" {
		return c.Project.Name
	}
	return filepath.Base(c.Project.RootDir)
}

// ShouldExclude checks if a root-relative path is skipped by exclude_patterns
func (c *Config) ShouldExclude(relPath string) bool {
	return utils.IsExcluded(filepath.ToSlash(relPath), c.Analysis.ExcludePatterns)
}

// AnalyzerConfig converts the loaded settings into the analyzer's configuration
func (c *Config) AnalyzerConfig() *analyzer.AnalyzerConfig {
	ac := analyzer.DefaultConfig(c.Project.RootDir)
	ac.ExcludePatterns = append([]string(nil), c.Analysis.ExcludePatterns...)
	if len(c.Project.Encoding) > 0 {
		ac.EncodingHints = append([]string(nil), c.Project.Encoding...)
	}
	ac.SampleSize = c.Analysis.SampleSize
	ac.Workers = c.Analysis.Workers
	ac.ParseCacheSize = c.Analysis.ParseCacheSize
	return ac
}

// GetOutputPath returns the full path for the JSON analysis artifact
func (c *Config) GetOutputPath() string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+".json")
}

// GetDocsPath returns the full path for the generated Markdown documentation
func (c *Config) GetDocsPath() string {
	return filepath.Join(c.Output.Dir, c.Docgen.FileName+".md")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Check if root directory exists
	if _, err := os.Stat(c.Project.RootDir); os.IsNotExist(err) {
		return fmt.Errorf("root_dir does not exist: %s", c.Project.RootDir)
	}

	if _, err := analyzer.ParseConvention(c.Project.Framework); err != nil {
		return fmt.Errorf("project.framework: %w", err)
	}

	// Check if encoding list is not empty
	if len(c.Project.Encoding) == 0 {
		return fmt.Errorf("project.encoding must contain at least one encoding")
	}

	// Check if output filename is not empty
	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if c.Docgen.Enabled && c.Docgen.APIKey == "" {
		return fmt.Errorf("docgen.api_key is required when docgen is enabled (or set GEMINI_API_KEY)")
	}

	if c.Docgen.MaxRounds < 1 {
		return fmt.Errorf("docgen.max_rounds must be at least 1")
	}

	if c.Artifact.Enabled && c.Artifact.Bucket == "" {
		return fmt.Errorf("artifact.bucket cannot be empty when artifact storage is enabled")
	}

	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Route Recon Configuration ===")
	fmt.Printf("Project Root:     %s\n", c.Project.RootDir)
	fmt.Printf("Project Name:     %s\n", c.ProjectName())
	fmt.Printf("Framework:        %s\n", c.Project.Framework)
	fmt.Printf("Encoding Hints:   %v\n", c.Project.Encoding)
	fmt.Printf("Exclude Patterns: %v\n", c.Analysis.ExcludePatterns)
	fmt.Printf("Workers:          %d\n", c.Analysis.Workers)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output File:      %s\n", c.GetOutputPath())
	fmt.Printf("Report Formats:   %v\n", c.Output.Formats)
	fmt.Printf("Docgen:           %v (model %s, agentic %v)\n", c.Docgen.Enabled, c.Docgen.Model, c.Docgen.Agentic)
	fmt.Printf("Artifact Store:   %v\n", c.Artifact.Enabled)
	fmt.Println("=================================")
}
