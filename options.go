package mdpress

import (
	"context"
	"log/slog"
	"time"
)

// DiagramRenderer turns diagram source into a PNG image. Implementations
// must honour ctx cancellation. Any error makes the converter fall back to
// a text summary of the diagram.
type DiagramRenderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	styleInput    string // style name or CSS file path
	resolvedStyle string // CSS content of styleInput
	houseStyle    string
	assetPath     string
	locale        string
	render        RenderConfig
	renderer      DiagramRenderer
	mermaid       MermaidCLI
	noDiagrams    bool
	now           func() time.Time
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdpress: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger used for warnings such as diagram fallbacks
// and encoding fallbacks. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStyle layers a style over the house style. nameOrPath is either a
// built-in style name ("serif", "compact") or a path to a CSS file.
func WithStyle(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = nameOrPath
	}
}

// WithAssetPath sets a directory whose styles/{name}.css files override the
// built-in ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = path
	}
}

// WithAssetLoader sets a custom style loader. It takes precedence over
// WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.customLoader = loader
	}
}

// WithLocale selects the typographic quote set and the month names of
// "auto" footer dates. Unknown locales use English.
func WithLocale(locale string) Option {
	return func(c *Converter) {
		c.cfg.locale = locale
	}
}

// WithRenderConfig sets diagram and image sizing parameters.
func WithRenderConfig(rc RenderConfig) Option {
	return func(c *Converter) {
		c.cfg.render = rc
	}
}

// WithMermaidCLI configures the default mermaid CLI renderer.
func WithMermaidCLI(m MermaidCLI) Option {
	return func(c *Converter) {
		c.cfg.mermaid = m
	}
}

// WithDiagramRenderer replaces the mermaid CLI with r.
func WithDiagramRenderer(r DiagramRenderer) Option {
	return func(c *Converter) {
		c.cfg.renderer = r
	}
}

// WithoutDiagramRendering turns every diagram into a text summary without
// invoking any renderer.
func WithoutDiagramRendering() Option {
	return func(c *Converter) {
		c.cfg.noDiagrams = true
	}
}
