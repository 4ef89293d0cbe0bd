package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"route-recon/internal/analyzer"
	"route-recon/internal/config"
	"route-recon/internal/logger"
)

const (
	appName    = "Route Recon"
	appVersion = "1.0.0"
	appDesc    = "Static HTTP endpoint extraction for FastAPI and Django projects"
)

// options are the flags shared by every subcommand
type options struct {
	configPath string
	verbose    bool
	outputDir  string
	framework  string
	formats    string
	agentic    bool
	docs       bool
	noProgress bool
	addr       string
}

func newFlagSet(name string, opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "route-recon.yaml", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "route-recon.yaml", "Path to configuration file (shorthand)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	fs.BoolVar(&opts.verbose, "v", false, "Enable verbose logging (shorthand)")
	fs.StringVar(&opts.outputDir, "output", "", "Override output directory from config")
	fs.StringVar(&opts.framework, "framework", "", "Framework: fastapi, django or auto (overrides config)")
	fs.StringVar(&opts.framework, "f", "", "Framework (shorthand)")
	fs.BoolVar(&opts.noProgress, "no-progress", false, "Disable progress bars")

	switch name {
	case "generate":
		fs.StringVar(&opts.formats, "format", "", "Comma-separated report formats (json,openapi,openapi-yaml,excel,html,word)")
		fs.BoolVar(&opts.docs, "docs", false, "Generate Markdown documentation with the configured model")
		fs.BoolVar(&opts.agentic, "agentic", false, "Enable the review and self-correction loop")
	case "serve":
		fs.StringVar(&opts.addr, "addr", "", "Listen address (overrides config)")
	}
	return fs
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "version", "-version", "--version":
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	case "help", "-h", "--help":
		usage()
		return 0
	case "analyze", "generate", "detect", "serve":
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		return 2
	}

	var opts options
	fs := newFlagSet(cmd, &opts)
	if err := fs.Parse(rest); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	printBanner()

	// 1. Initialize
	cfg, err := loadConfig(&opts, fs.Arg(0))
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "route_recon.log")
	if err := logger.Init(os.Stdout, logPath, opts.verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		return 1
	}
	if opts.verbose {
		cfg.Print()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "analyze":
		err = runAnalyze(ctx, cfg, &opts)
	case "generate":
		err = runGenerate(ctx, cfg, &opts)
	case "detect":
		err = runDetect(cfg)
	case "serve":
		err = runServe(ctx, cfg, &opts)
	}
	if err != nil {
		if errors.Is(err, analyzer.ErrUnsupportedConvention) {
			logger.Error("%v", err)
			return 2
		}
		logger.Error("%s failed: %v", cmd, err)
		return 1
	}
	return 0
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(opts *options, path string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		cfg.Project.RootDir = abs
	}
	if opts.framework != "" {
		cfg.Project.Framework = opts.framework
	}
	if opts.outputDir != "" {
		abs, err := filepath.Abs(opts.outputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", opts.outputDir, err)
		}
		cfg.Output.Dir = abs
		if err := cfg.EnsureOutputDir(); err != nil {
			return nil, err
		}
	}
	if opts.formats != "" {
		cfg.Output.Formats = strings.Split(opts.formats, ",")
	}
	if opts.docs {
		cfg.Docgen.Enabled = true
	}
	if opts.agentic {
		cfg.Docgen.Agentic = true
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	return cfg, nil
}

func usage() {
	fmt.Printf(`%s v%s
%s

Usage:
  route-recon <command> [flags] [path]

Commands:
  analyze    Extract endpoints and save the analysis artifact
  generate   Analyze, then write reports and (optionally) Markdown documentation
  detect     Print the detected framework
  serve      Run the HTTP service
  version    Show version information

Run "route-recon <command> -h" for the flags of a command.
`, appName, appVersion, appDesc)
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                     ROUTE RECON v1.0.0                    ║
║       Static Endpoint Extraction for Python Web APIs      ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
