package main

import (
	"context"
	"errors"
	"fmt"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/config"
	"github.com/alnah/go-mdpress/internal/fileutil"
	"github.com/alnah/go-mdpress/internal/hints"
)

// Sentinel errors for CLI argument handling.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrTooManyArgs    = errors.New("too many arguments")
	ErrReadTemplate   = errors.New("failed to read template")
	ErrInvalidOptions = errors.New("invalid options")
)

// maxPositionalArgs is input, output and template.
const maxPositionalArgs = 3

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if len(positionalArgs) > maxPositionalArgs {
		return fmt.Errorf("%w: got %d, want at most %d (input, output, template)",
			ErrTooManyArgs, len(positionalArgs), maxPositionalArgs)
	}

	if !flags.quiet {
		warnUnknownEnvVars(env.Environ(), env.Stderr)
	}

	// --config wins over MDPRESS_CONFIG
	envName, _ := env.LookupEnv(envConfigName)
	cfg, err := loadConfig(flags.config, envName)
	if err != nil {
		return err
	}

	// flags > env > config file > defaults
	applyEnv(cfg, env.LookupEnv, env.Stderr)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}
	if err := checkWorkers(cfg.Workers); err != nil {
		return err
	}

	inputPath := resolveInputPath(positionalArgs, cfg)
	outputDir := resolveOutputDir(positionalArgs, cfg)

	style, err := resolveStyle(positionalArgs, cfg)
	if err != nil {
		return err
	}

	jobs, err := planJobs(inputPath, outputDir)
	if err != nil {
		return fmt.Errorf("planning conversion: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("%w: no markdown files found in %s", ErrNoInput, inputPath)
	}

	params, err := newConversionParams(cfg, env.Now())
	if err != nil {
		return err
	}
	params.htmlOnly, params.htmlOutput = flags.noPDF, flags.html

	logger := newLogger(env.Stderr, flags.quiet, flags.verbose)
	opts, err := converterOptions(cfg, style, logger)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	poolSize := min(mdpress.ResolvePoolSize(cfg.Workers), len(jobs))
	logger.Debug("starting conversion", "files", len(jobs), "workers", poolSize)

	pool := env.NewPool(poolSize, opts...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converters", "error", err)
		}
	}()

	results := runJobs(ctx, pool, jobs, params)
	failed, first := report(results, flags.quiet, flags.verbose, cfg.Diagram.Command, env)
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, first)
	}
	return nil
}

// loadConfig loads the named config file, or returns defaults when no name
// is given.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags copies every flag given on the command line into cfg. Footer
// content switches the footer on; --no-footer and --no-diagrams win over
// everything else.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	given := f.changed
	if given == nil {
		given = func(string) bool { return false }
	}
	set := func(name string, apply func()) {
		if given(name) {
			apply()
		}
	}

	set("output", func() { cfg.Output.DefaultDir = f.output })
	set("workers", func() { cfg.Workers = f.workers })
	set("timeout", func() { cfg.Timeout = f.timeout })
	set("locale", func() { cfg.Locale = f.locale })
	set("style", func() { cfg.Style = f.style })
	set("asset-path", func() { cfg.Assets.BasePath = f.assetPath })

	set("page-size", func() { cfg.Page.Size = f.pageSize })
	set("orientation", func() { cfg.Page.Orientation = f.orientation })
	set("margin", func() { cfg.Page.Margin = f.margin })

	set("footer-position", func() { cfg.Footer.Position = f.footerPosition })
	set("footer-text", func() { cfg.Footer.Text, cfg.Footer.Enabled = f.footerText, true })
	set("footer-date", func() { cfg.Footer.Date, cfg.Footer.Enabled = f.footerDate, true })
	set("footer-page-number", func() {
		cfg.Footer.ShowPageNumber = f.pageNumber
		cfg.Footer.Enabled = cfg.Footer.Enabled || f.pageNumber
	})

	set("mmdc", func() { cfg.Diagram.Command = f.mmdc })
	set("diagram-timeout", func() { cfg.Diagram.Timeout = f.diagramTimeout })
	set("diagram-width", func() { cfg.Diagram.Width = f.diagramWidth })
	set("diagram-scale", func() { cfg.Diagram.Scale = f.diagramScale })
	set("diagram-theme", func() { cfg.Diagram.Theme = f.diagramTheme })
	set("dpi", func() { cfg.Image.DPI = f.dpi })
	set("max-image-width", func() { cfg.Image.MaxWidth = f.maxImageWidth })

	if f.noFooter {
		cfg.Footer.Enabled = false
	}
	if f.noDiagrams {
		cfg.Diagram.Enabled = false
	}
}

// resolveInputPath determines the input path from args or config.
// Without either, the working directory is scanned.
func resolveInputPath(args []string, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir
	}
	return "."
}

// resolveOutputDir determines the output path from args, flag or config.
// A positional output argument wins over --output.
func resolveOutputDir(args []string, cfg *config.Config) string {
	if len(args) > 1 {
		return args[1]
	}
	return cfg.Output.DefaultDir
}

// resolveStyle returns the style layered on the house style. A template
// argument replaces any configured style. File paths must exist so a typo
// fails before any browser starts.
func resolveStyle(args []string, cfg *config.Config) (string, error) {
	style := cfg.Style
	if len(args) > 2 {
		style = args[2]
	}
	if style == "" {
		return "", nil
	}
	if fileutil.IsFilePath(style) || fileutil.HasExtension(style, ".css") {
		if !fileutil.FileExists(style) {
			return "", fmt.Errorf("%w: %s", ErrReadTemplate, style)
		}
	}
	return style, nil
}
