package analyzer

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar"

	"route-recon/internal/logger"
)

var (
	djangoImport  = regexp.MustCompile(`(?m)^\s*from django|^\s*import django`)
	fastapiImport = regexp.MustCompile(`(?m)^\s*from fastapi|^\s*import fastapi`)

	// settingsGlobs mark a django project layout
	settingsGlobs = []string{"**/settings.py", "**/settings/*.py"}
)

// Detect classifies the project under root. It never fails: unreadable files are
// skipped and an undecided project defaults to fastapi.
//
// Priority (first match wins):
//  1. manage.py at the root
//  2. a settings module anywhere in the tree
//  3. a django import in the sampled files
//  4. a fastapi import in the sampled files
func Detect(root string, cfg *AnalyzerConfig) Convention {
	if cfg == nil {
		cfg = DefaultConfig(root)
	}

	if info, err := os.Stat(filepath.Join(root, "manage.py")); err == nil && !info.IsDir() {
		logger.Debug("Detected django: manage.py at project root")
		return ConventionDjango
	}

	files, err := ScanDirectory(root, cfg.ExcludePatterns)
	if err != nil {
		logger.Debug("Detection scan failed, defaulting to fastapi: %v", err)
		return ConventionFastAPI
	}

	for _, path := range files {
		rel := relPath(root, path)
		for _, pattern := range settingsGlobs {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				logger.Debug("Detected django: settings module %s", rel)
				return ConventionDjango
			}
		}
	}

	sample := files
	if len(sample) > cfg.sampleSize() {
		sample = sample[:cfg.sampleSize()]
	}
	contents := make([]string, 0, len(sample))
	for _, path := range sample {
		content, err := ReadFile(path, cfg.EncodingHints)
		if err != nil {
			continue
		}
		contents = append(contents, content)
	}

	for _, content := range contents {
		if djangoImport.MatchString(content) {
			logger.Debug("Detected django: import found in sampled files")
			return ConventionDjango
		}
	}
	for _, content := range contents {
		if fastapiImport.MatchString(content) {
			logger.Debug("Detected fastapi: import found in sampled files")
			return ConventionFastAPI
		}
	}

	logger.Debug("No convention markers found, defaulting to fastapi")
	return ConventionFastAPI
}
