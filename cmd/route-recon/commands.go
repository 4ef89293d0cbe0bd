package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"route-recon/internal/analyzer"
	"route-recon/internal/artifact"
	"route-recon/internal/config"
	"route-recon/internal/docgen"
	"route-recon/internal/exporter"
	"route-recon/internal/logger"
	"route-recon/internal/model"
	"route-recon/internal/server"
	"route-recon/internal/ui"
)

// runPipeline detects the convention and extracts the inventory, driving the
// first three phases of pipeline
func runPipeline(ctx context.Context, cfg *config.Config, pipeline *ui.Pipeline) (*model.Inventory, error) {
	ac := cfg.AnalyzerConfig()

	// --- Phase 1: Detecting ---
	detectBar := pipeline.NextPhase(1)
	conv, err := analyzer.ParseConvention(cfg.Project.Framework)
	if err != nil {
		return nil, err
	}
	if conv == analyzer.ConventionAuto {
		conv = analyzer.Detect(ac.RootDir, ac)
		logger.Debug("Detected framework: %s", conv)
	}
	detectBar.Increment()

	// --- Phase 2: Parsing ---
	files, err := analyzer.ScanDirectory(ac.RootDir, ac.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	parseBar := pipeline.NextPhase(len(files))
	ac.OnFileDone = parseBar.FileDone()

	ext, err := analyzer.New(conv, ac)
	if err != nil {
		return nil, err
	}
	inv, err := ext.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	// --- Phase 3: Linking (resolved inside Analyze) ---
	linkBar := pipeline.NextPhase(1)
	linkBar.Increment()
	pipeline.Finish()

	inv.AnalyzedAt = time.Now().Format("2006-01-02 15:04:05")
	return inv, nil
}

func newPipeline(phases []ui.Phase, opts *options) *ui.Pipeline {
	p := ui.NewPipeline(phases)
	if opts.noProgress {
		p.Disable()
	}
	return p
}

func runAnalyze(ctx context.Context, cfg *config.Config, opts *options) error {
	logger.Info("Analyzing %s ...", cfg.Project.RootDir)
	pipeline := newPipeline(ui.AnalyzePhases, opts)
	inv, err := runPipeline(ctx, cfg, pipeline)
	if err != nil {
		return err
	}
	pipeline.PrintSummary()

	printEndpoints(os.Stdout, inv)

	path, err := exporter.NewJSONExporter().Export(inv, cfg)
	if err != nil {
		return err
	}
	logger.Info("✓ Analysis saved: %s", path)

	storeRun(ctx, cfg, map[string]string{filepath.Base(path): path})
	return nil
}

func runGenerate(ctx context.Context, cfg *config.Config, opts *options) error {
	pipeline := newPipeline(ui.GeneratePhases, opts)

	previous := loadPreviousAnalysis(cfg.GetOutputPath())

	inv, err := runPipeline(ctx, cfg, pipeline)
	if err != nil {
		return err
	}
	if len(inv.Endpoints) == 0 {
		logger.Warn("No %s endpoints found in the project", inv.Convention)
		return nil
	}
	logger.Info("✓ Found %d endpoint(s)", len(inv.Endpoints))

	if previous != nil {
		changes := docgen.CompareEndpoints(previous, inv.Endpoints)
		if !changes.Empty() {
			logger.InfoClean("%s", changes.Markdown())
		}
	}

	written := make(map[string]string)

	// --- Phase 4: Generating ---
	genBar := pipeline.NextPhase(1)
	if cfg.Docgen.Enabled {
		path, err := generateDocs(ctx, cfg, inv)
		if err != nil {
			return err
		}
		written[filepath.Base(path)] = path
		logger.Info("✓ Documentation ready: %s", path)
	}
	genBar.Increment()

	// --- Phase 5: Reporting ---
	exporters, unknown := exporter.GetExporters(append([]string{"json"}, cfg.Output.Formats...))
	for _, f := range unknown {
		logger.Warn("Unknown report format %q skipped", f)
	}

	reportBar := pipeline.NextPhase(len(exporters))
	var exportErrors []error
	for _, exp := range exporters {
		path, err := exp.Export(inv, cfg)
		if err != nil {
			logger.Error("%s export failed: %v", exp.Format(), err)
			exportErrors = append(exportErrors, err)
		} else {
			written[filepath.Base(path)] = path
		}
		reportBar.Increment()
	}
	pipeline.Finish()
	pipeline.PrintSummary()

	storeRun(ctx, cfg, written)

	if len(exportErrors) > 0 {
		return fmt.Errorf("one or more exports failed: %w", errors.Join(exportErrors...))
	}
	logger.Info("✅ Generation complete. Check [%s] directory.", cfg.Output.Dir)
	return nil
}

func generateDocs(ctx context.Context, cfg *config.Config, inv *model.Inventory) (string, error) {
	m, err := docgen.NewGeminiModel(ctx, cfg.Docgen.APIKey, cfg.Docgen.Model)
	if err != nil {
		return "", err
	}
	gen := docgen.NewGenerator(m)
	if cfg.Docgen.Agentic {
		gen.WithReviewer(docgen.NewReviewer(m, cfg.Docgen.MaxRounds))
	}

	spinner := ui.NewSpinner(fmt.Sprintf("Generating documentation with %s...", m.Name()))
	spinner.Start(120 * time.Millisecond)
	doc, err := gen.Generate(ctx, inv.Endpoints, cfg.ProjectName())
	spinner.Stop()
	if err != nil {
		return "", err
	}

	path := cfg.GetDocsPath()
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", fmt.Errorf("failed to write documentation: %w", err)
	}
	return path, nil
}

// loadPreviousAnalysis reads the analysis artifact of an earlier run, if any
func loadPreviousAnalysis(path string) []model.EndpointInfo {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Previous analysis unreadable: %v", err)
		}
		return nil
	}
	var endpoints []model.EndpointInfo
	if err := json.Unmarshal(data, &endpoints); err != nil {
		logger.Debug("Previous analysis is not an endpoint list: %v", err)
		return nil
	}
	return endpoints
}

// storeRun copies the written files into the artifact store under a fresh run id.
// Storage problems are reported but never fail the command.
func storeRun(ctx context.Context, cfg *config.Config, files map[string]string) {
	if !cfg.Artifact.Enabled || len(files) == 0 {
		return
	}
	store, err := artifact.New(cfg)
	if err != nil {
		logger.Warn("Artifact store unavailable: %v", err)
		return
	}

	runID := artifact.NewRunID()
	stored := storeFiles(ctx, store, runID, files)
	if stored == 0 {
		logger.Warn("Run %s: no artifacts stored", runID)
		return
	}
	logger.Info("✓ Run %s: %d of %d artifact(s) stored in bucket %s", runID, stored, len(files), cfg.Artifact.Bucket)
}

// storeFiles puts each file under runID in name order and returns how many were written
func storeFiles(ctx context.Context, store artifact.Store, runID string, files map[string]string) int {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	stored := 0
	for _, name := range names {
		data, err := os.ReadFile(files[name])
		if err == nil {
			err = store.Put(ctx, runID, name, data)
		}
		if err != nil {
			logger.Warn("Failed to store %s: %v", name, err)
			continue
		}
		stored++
	}
	return stored
}

func runDetect(cfg *config.Config) error {
	conv := analyzer.Detect(cfg.Project.RootDir, cfg.AnalyzerConfig())
	fmt.Println(conv)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, opts *options) error {
	store, err := artifact.New(cfg)
	if err != nil {
		return err
	}
	return server.New(cfg, store).Run(ctx, cfg.Server.Addr)
}
