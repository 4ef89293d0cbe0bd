package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"route-recon/internal/model"
)

// Convention names a source-layout convention for declaring HTTP endpoints
type Convention string

const (
	// ConventionAuto asks the detector to pick a convention
	ConventionAuto Convention = "auto"

	// ConventionFastAPI: route-registering decorators on handler functions
	ConventionFastAPI Convention = "fastapi"

	// ConventionDjango: URL tables, views and serializers split across modules
	ConventionDjango Convention = "django"
)

// ErrUnsupportedConvention is returned for a convention outside the supported set
var ErrUnsupportedConvention = errors.New("unsupported framework")

// SupportedConventions lists the conventions the registry can build extractors for
var SupportedConventions = []Convention{ConventionFastAPI, ConventionDjango}

// Extractor is the main interface for analyzing a Python project
type Extractor interface {
	// Convention returns the convention this extractor understands
	Convention() Convention

	// Analyze scans the configured root directory and returns:
	// - inventory: endpoints in emission order, payload models and diagnostics
	// - error: only for an unreadable root or a cancelled context
	Analyze(ctx context.Context) (*model.Inventory, error)
}

// AnalyzerConfig holds configuration for the analyzer
type AnalyzerConfig struct {
	// RootDir is the root directory to analyze
	RootDir string

	// ExcludePatterns are substrings; a file whose root-relative path contains one is skipped
	ExcludePatterns []string

	// EncodingHints are tried in order for files that are not valid UTF-8
	// (e.g., "euc-kr", "windows-1252")
	EncodingHints []string

	// SampleSize is how many files the detector reads when looking at imports
	SampleSize int

	// Workers bounds concurrent file parsing (0 means GOMAXPROCS)
	Workers int

	// ParseCacheSize bounds the parsed-module cache shared by the django passes
	ParseCacheSize int

	// OnFileDone, if set, is called once per file read and parsed (from worker goroutines)
	OnFileDone func(relPath string)
}

// DefaultExcludePatterns are the directory and file fragments skipped by default
var DefaultExcludePatterns = []string{
	"__pycache__",
	"venv",
	"env",
	".venv",
	".git",
	"test_",
	"tests",
	"migrations",
}

// DefaultConfig returns the default analyzer configuration
func DefaultConfig(rootDir string) *AnalyzerConfig {
	return &AnalyzerConfig{
		RootDir:         rootDir,
		ExcludePatterns: append([]string(nil), DefaultExcludePatterns...),
		EncodingHints: []string{
			"utf-8",
			"euc-kr",
			"windows-1252",
		},
		SampleSize:     20,
		Workers:        0,
		ParseCacheSize: 512,
	}
}

func (c *AnalyzerConfig) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *AnalyzerConfig) sampleSize() int {
	if c.SampleSize > 0 {
		return c.SampleSize
	}
	return 20
}

func (c *AnalyzerConfig) cacheSize() int {
	if c.ParseCacheSize > 0 {
		return c.ParseCacheSize
	}
	return 512
}

// ParseConvention normalises user input ("FastAPI", " django ", "") into a Convention.
// The empty string and "auto" select detection.
func ParseConvention(s string) (Convention, error) {
	switch c := Convention(strings.ToLower(strings.TrimSpace(s))); c {
	case "", ConventionAuto:
		return ConventionAuto, nil
	case ConventionFastAPI, ConventionDjango:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: fastapi, django)", ErrUnsupportedConvention, s)
	}
}

// New returns a fresh extractor for the given convention.
// Extractors share no mutable state, so several may run concurrently.
func New(conv Convention, cfg *AnalyzerConfig) (Extractor, error) {
	if cfg == nil {
		cfg = DefaultConfig(".")
	}
	switch conv {
	case ConventionFastAPI:
		return NewFastAPIExtractor(cfg), nil
	case ConventionDjango:
		return NewDjangoExtractor(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: fastapi, django)", ErrUnsupportedConvention, conv)
	}
}

// ForProject resolves ConventionAuto through the detector and returns the matching extractor
func ForProject(conv Convention, cfg *AnalyzerConfig) (Extractor, error) {
	if cfg == nil {
		cfg = DefaultConfig(".")
	}
	if conv == ConventionAuto || conv == "" {
		conv = Detect(cfg.RootDir, cfg)
	}
	return New(conv, cfg)
}
