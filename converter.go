package mdpress

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/alnah/go-mdpress/internal/assets"
	"github.com/alnah/go-mdpress/internal/dateutil"
	"github.com/alnah/go-mdpress/internal/diagram"
	"github.com/alnah/go-mdpress/internal/fileutil"
	"github.com/alnah/go-mdpress/internal/markup"
	"github.com/alnah/go-mdpress/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.StyleInjector    = (*pipeline.StyleInjection)(nil)
	_ pipeline.DiagramProcessor = (*diagram.Processor)(nil)
	_ diagram.Renderer          = DiagramRenderer(nil)
)

// Converter turns one markup document into HTML and then into a PDF. It owns
// a single browser, so Convert calls must not overlap; ConverterPool runs
// batches in parallel.
type Converter struct {
	cfg         converterConfig
	logger      *slog.Logger
	normalizer  markup.Normalizer
	styles      pipeline.StyleInjector
	diagrams    pipeline.DiagramProcessor
	printer     printer
	assetLoader assets.Loader
	// customLoader is set by WithAssetLoader and replaces assetLoader.
	customLoader AssetLoader
}

// NewConverter applies opts and loads the styles. Chrome is not started
// until the first PDF is printed.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout: defaultTimeout,
			render:  DefaultRenderConfig(),
			now:     time.Now,
		},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		styles:      &pipeline.StyleInjection{},
		assetLoader: assets.Embedded{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.cfg.render.Validate(); err != nil {
		return nil, err
	}
	switch {
	case c.customLoader != nil:
		c.assetLoader = c.customLoader
	case c.cfg.assetPath != "":
		resolver, err := assets.NewResolver(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.assetLoader = resolver
	}
	if err := c.loadStyles(); err != nil {
		return nil, err
	}

	if loc := c.cfg.locale; loc != "" && !markup.IsKnownLocale(loc) {
		c.logger.Warn("unknown locale, using English quotes", "locale", loc)
	}
	c.normalizer = markup.NewNormalizer(c.cfg.locale)

	// Tests install their own processor and printer.
	if c.diagrams == nil {
		c.diagrams = c.cfg.render.pipeline().NewDiagramProcessor(c.diagramRenderer(), diagram.WithLogger(c.logger))
	}
	if c.printer == nil {
		c.printer = newChromePrinter(c.cfg.timeout)
	}
	return c, nil
}

// diagramRenderer returns nil when diagrams are summarized without trying.
func (c *Converter) diagramRenderer() diagram.Renderer {
	if c.cfg.noDiagrams {
		return nil
	}
	if c.cfg.renderer != nil {
		return c.cfg.renderer
	}
	m := c.cfg.mermaid
	return &diagram.MermaidCLI{
		Command:         m.Command,
		Width:           c.cfg.render.DiagramWidth,
		Scale:           m.Scale,
		Theme:           m.Theme,
		ConfigFile:      m.ConfigFile,
		PuppeteerConfig: m.PuppeteerConfig,
	}
}

// Convert renders input to a styled HTML document and prints it, unless
// input.HTMLOnly is set. A panic inside the pipeline is returned as an error.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := checkInput(input); err != nil {
		return nil, err
	}
	page, res, err := c.render(ctx, input)
	if err != nil {
		return nil, err
	}
	if input.HTMLOnly {
		return res, nil
	}

	footer, err := c.resolveFooter(input.Footer)
	if err != nil {
		return nil, err
	}
	pdf, err := c.printer.Print(ctx, page, &printOptions{Footer: footer, Page: input.Page})
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}
	res.PDF = pdf
	return res, nil
}

// render decodes, parses and assembles the document, then layers the styles:
// house style, page geometry, the chosen style and input.CSS last.
func (c *Converter) render(ctx context.Context, input Input) (string, *ConvertResult, error) {
	src := input.Source
	if src == nil {
		src = []byte(input.Markdown)
	}
	text, enc, err := pipeline.DecodeInput(src)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInputDecoding, err)
	}
	if enc == pipeline.EncodingGBK {
		c.logger.Warn("input is not valid UTF-8, decoded as GBK")
	}

	doc := markup.Parse(text, markup.WithNormalizer(c.normalizer), markup.WithLogger(c.logger))
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	tally := &diagramTally{inner: c.diagrams}
	body, err := pipeline.RenderBody(ctx, doc, tally,
		pipeline.WithNormalizer(c.normalizer),
		pipeline.WithRenderConfig(c.cfg.render.pipeline()),
		pipeline.WithLogger(c.logger),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", nil, ctxErr
		}
		return "", nil, fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	title := input.Title
	if title == "" {
		title = documentTitle(doc)
	}
	page := c.styles.InjectStyles(ctx, pipeline.WrapDocument(title, body),
		c.cfg.houseStyle,
		pageCSS(input.Page),
		c.cfg.resolvedStyle,
		input.CSS,
	)
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	rendered, summarized := tally.counts()
	return page, &ConvertResult{
		HTML:               []byte(page),
		Encoding:           string(enc),
		DiagramsRendered:   rendered,
		DiagramsSummarized: summarized,
	}, nil
}

// Close stops the browser, if one was started.
func (c *Converter) Close() error {
	if c.printer == nil {
		return nil
	}
	return c.printer.Close()
}

// loadStyles reads the house style and the style named by WithStyle. A
// value that looks like a path or ends in .css is read from disk.
func (c *Converter) loadStyles() error {
	house, err := c.assetLoader.LoadStyle(assets.HouseStyleName)
	if err != nil {
		// Custom loaders may not carry the house style.
		house = assets.HouseStyle()
	}
	c.cfg.houseStyle = house

	name := c.cfg.styleInput
	switch {
	case name == "":
		return nil
	case fileutil.IsFilePath(name) || fileutil.HasExtension(name, ".css"):
		data, err := os.ReadFile(name) // #nosec G304 -- path given by the caller
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", name, err)
		}
		c.cfg.resolvedStyle = string(data)
	default:
		css, err := c.assetLoader.LoadStyle(name)
		if err != nil {
			return fmt.Errorf("loading style %q: %w", name, err)
		}
		c.cfg.resolvedStyle = css
	}
	return nil
}

// checkInput guards library callers that build Input by hand; the CLI has
// already validated the same values through its config.
func checkInput(input Input) error {
	if len(input.Source) == 0 && input.Markdown == "" {
		return ErrEmptyDocument
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return input.Footer.Validate()
}

// resolveFooter fixes "auto" dates with the converter clock and locale.
func (c *Converter) resolveFooter(f *Footer) (*footerData, error) {
	if f == nil {
		return nil, nil
	}
	date, err := dateutil.ResolveDate(f.Date, c.cfg.now(), c.cfg.locale)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFooterDate, err)
	}
	return &footerData{Position: f.Position, ShowPageNumber: f.ShowPageNumber, Date: date, Text: f.Text}, nil
}

// documentTitle returns the text of the first level-1 heading, if any.
func documentTitle(doc *markup.Document) string {
	for _, b := range doc.Blocks {
		if b.Kind == markup.KindHeading && b.Level == 1 {
			return strings.ReplaceAll(markup.PlainText(b.Runs), "\n", " ")
		}
	}
	return ""
}

// diagramTally counts how each diagram of one conversion was emitted.
type diagramTally struct {
	inner pipeline.DiagramProcessor

	mu         sync.Mutex
	rendered   int
	summarized int
}

func (t *diagramTally) Process(ctx context.Context, src string) diagram.Result {
	res := t.inner.Process(ctx, src)
	t.mu.Lock()
	defer t.mu.Unlock()
	if res.Rendered() {
		t.rendered++
	} else {
		t.summarized++
	}
	return res
}

func (t *diagramTally) counts() (rendered, summarized int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rendered, t.summarized
}
