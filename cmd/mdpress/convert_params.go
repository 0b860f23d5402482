package main

import (
	"fmt"
	"log/slog"
	"time"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/config"
	"github.com/alnah/go-mdpress/internal/dateutil"
)

// conversionParams is what every job of a batch shares.
type conversionParams struct {
	footer     *mdpress.Footer
	page       *mdpress.PageSettings // nil prints with the library defaults
	htmlOnly   bool
	htmlOutput bool // HTML is written next to the PDF
}

// newConversionParams resolves the document settings once per batch, so
// every file of a run carries the same footer date.
func newConversionParams(cfg *config.Config, now time.Time) (*conversionParams, error) {
	footer, err := footerFor(cfg, now)
	if err != nil {
		return nil, err
	}
	page, err := pageFor(cfg.Page)
	if err != nil {
		return nil, err
	}
	return &conversionParams{footer: footer, page: page}, nil
}

// footerFor returns nil when the footer is switched off.
func footerFor(cfg *config.Config, now time.Time) (*mdpress.Footer, error) {
	fc := cfg.Footer
	if !fc.Enabled {
		return nil, nil
	}
	date, err := dateutil.ResolveDate(fc.Date, now, cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", mdpress.ErrInvalidFooterDate, err)
	}
	footer := &mdpress.Footer{Position: fc.Position, ShowPageNumber: fc.ShowPageNumber, Date: date, Text: fc.Text}
	return footer, footer.Validate()
}

// pageFor fills what the page section leaves out from the library defaults.
// An empty section returns nil.
func pageFor(pc config.PageConfig) (*mdpress.PageSettings, error) {
	if pc == (config.PageConfig{}) {
		return nil, nil
	}
	ps := mdpress.DefaultPageSettings()
	if pc.Size != "" {
		ps.Size = pc.Size
	}
	if pc.Orientation != "" {
		ps.Orientation = pc.Orientation
	}
	if pc.Margin > 0 {
		ps.Margin = pc.Margin
	}
	return ps, ps.Validate()
}

// renderConfigFor overlays the diagram and image sections on the library
// defaults. Zero fields are left alone.
func renderConfigFor(cfg *config.Config) (mdpress.RenderConfig, error) {
	rc := mdpress.DefaultRenderConfig()
	timeout, err := cfg.Diagram.TimeoutDuration()
	if err != nil {
		return rc, err
	}
	if timeout > 0 {
		rc.DiagramTimeout = timeout
	}
	if cfg.Diagram.Width > 0 {
		rc.DiagramWidth = cfg.Diagram.Width
	}
	if cfg.Image.DPI > 0 {
		rc.DPI = cfg.Image.DPI
	}
	if cfg.Image.MaxWidth > 0 {
		rc.MaxImageWidth = cfg.Image.MaxWidth
	}
	return rc, nil
}

func mermaidFor(dc config.DiagramConfig) mdpress.MermaidCLI {
	return mdpress.MermaidCLI{
		Command:         dc.Command,
		Scale:           dc.Scale,
		Theme:           dc.Theme,
		ConfigFile:      dc.ConfigFile,
		PuppeteerConfig: dc.PuppeteerConfig,
	}
}

// converterOptions turns the merged config into the options every pooled
// converter is built with. style is the layered style already resolved from
// the config and the command line.
func converterOptions(cfg *config.Config, style string, logger *slog.Logger) ([]mdpress.Option, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	rc, err := renderConfigFor(cfg)
	if err != nil {
		return nil, err
	}

	opts := []mdpress.Option{
		mdpress.WithLogger(logger),
		mdpress.WithRenderConfig(rc),
		mdpress.WithMermaidCLI(mermaidFor(cfg.Diagram)),
	}
	optional := []struct {
		when bool
		opt  func() mdpress.Option
	}{
		{timeout > 0, func() mdpress.Option { return mdpress.WithTimeout(timeout) }},
		{style != "", func() mdpress.Option { return mdpress.WithStyle(style) }},
		{cfg.Assets.BasePath != "", func() mdpress.Option { return mdpress.WithAssetPath(cfg.Assets.BasePath) }},
		{cfg.Locale != "", func() mdpress.Option { return mdpress.WithLocale(cfg.Locale) }},
		{!cfg.Diagram.Enabled, mdpress.WithoutDiagramRendering},
	}
	for _, o := range optional {
		if o.when {
			opts = append(opts, o.opt())
		}
	}
	return opts, nil
}
