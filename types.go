package mdpress

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-mdpress/internal/dateutil"
	"github.com/alnah/go-mdpress/internal/diagram"
	"github.com/alnah/go-mdpress/internal/pipeline"
)

// Page sizes.
const (
	PageSizeLetter = "letter"
	PageSizeA4     = "a4"
	PageSizeLegal  = "legal"
)

// Orientations.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Margins, in inches, applied to all four sides.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.75
)

// Footer positions. Empty means FooterRight.
const (
	FooterLeft   = "left"
	FooterCenter = "center"
	FooterRight  = "right"
)

// paper is a sheet in portrait, in inches.
type paper struct {
	name          string
	width, height float64
}

var papers = []paper{
	{PageSizeLetter, 8.5, 11},
	{PageSizeA4, 8.27, 11.69},
	{PageSizeLegal, 8.5, 14},
}

func lookupPaper(name string) (paper, bool) {
	for _, p := range papers {
		if strings.EqualFold(p.name, name) {
			return p, true
		}
	}
	return paper{}, false
}

// PageSizes lists the accepted page size names.
func PageSizes() []string {
	names := make([]string, len(papers))
	for i, p := range papers {
		names[i] = p.name
	}
	return names
}

// PageSettings is the sheet every page is printed on. Names compare
// case-insensitively.
type PageSettings struct {
	Size        string
	Orientation string
	Margin      float64
}

// DefaultPageSettings is A4 portrait with 0.75in margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{Size: PageSizeA4, Orientation: OrientationPortrait, Margin: DefaultMargin}
}

// Validate accepts nil, which stands for the defaults.
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := lookupPaper(p.Size); !ok {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidPageSize, p.Size, strings.Join(PageSizes(), ", "))
	}
	if !strings.EqualFold(p.Orientation, OrientationPortrait) && !strings.EqualFold(p.Orientation, OrientationLandscape) {
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}
	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Dimensions returns width and height in inches with the orientation
// applied. Nil settings and unknown sizes print on A4.
func (p *PageSettings) Dimensions() (width, height float64) {
	if p == nil {
		p = DefaultPageSettings()
	}
	pp, ok := lookupPaper(p.Size)
	if !ok {
		pp, _ = lookupPaper(PageSizeA4)
	}
	if strings.EqualFold(p.Orientation, OrientationLandscape) {
		return pp.height, pp.width
	}
	return pp.width, pp.height
}

// Footer is the line printed at the bottom of every page: the page number,
// the date and the text, in that order, each only when set.
type Footer struct {
	Position       string
	ShowPageNumber bool
	Date           string // literal, "auto" or "auto:FORMAT"
	Text           string
}

// Validate accepts nil, which means no footer.
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", FooterLeft, FooterCenter, FooterRight:
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
	if _, err := dateutil.ResolveDate(f.Date, time.Time{}, ""); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFooterDate, err)
	}
	return nil
}

// Input contains conversion parameters.
type Input struct {
	// Markdown is the document text. Ignored when Source is set.
	Markdown string
	// Source is raw document bytes. A BOM selects UTF-8 or UTF-16; bytes that
	// are not valid UTF-8 are read as GBK.
	Source []byte
	// Title is the HTML document title. Empty uses the first level-1
	// heading, then "Document".
	Title    string
	CSS      string        // Custom CSS layered last (optional)
	Footer   *Footer       // Footer config (optional)
	Page     *PageSettings // Page settings (optional, nil = defaults)
	HTMLOnly bool          // Skip PDF generation
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	HTML []byte
	PDF  []byte // nil when Input.HTMLOnly is set
	// Encoding names how Source was decoded, e.g. "utf-8" or "gbk".
	Encoding string
	// DiagramsRendered and DiagramsSummarized count diagram blocks emitted
	// as images and as text summaries.
	DiagramsRendered   int
	DiagramsSummarized int
}

// Rendering defaults, re-exported from the pipeline.
const (
	DefaultDPI           = pipeline.DefaultDPI
	DefaultMaxImageWidth = pipeline.DefaultMaxImageWidth
	DefaultDiagramWidth  = diagram.DefaultRenderWidth
)

// RenderConfig controls diagram rendering and image sizing. Zero fields use
// the defaults.
type RenderConfig struct {
	DPI            int           // pixels per inch used to size images
	MaxImageWidth  float64       // inches
	DiagramTimeout time.Duration // per diagram
	DiagramWidth   int           // renderer canvas width in pixels
}

// DefaultRenderConfig returns the default rendering parameters.
func DefaultRenderConfig() RenderConfig {
	d := pipeline.DefaultRenderConfig()
	return RenderConfig{
		DPI:            d.DPI,
		MaxImageWidth:  d.MaxImageWidth,
		DiagramTimeout: d.DiagramTimeout,
		DiagramWidth:   d.DiagramWidth,
	}
}

// Validate rejects negative values.
func (c RenderConfig) Validate() error {
	switch {
	case c.DPI < 0:
		return fmt.Errorf("%w: DPI %d", ErrInvalidRenderConfig, c.DPI)
	case c.MaxImageWidth < 0:
		return fmt.Errorf("%w: max image width %.2f", ErrInvalidRenderConfig, c.MaxImageWidth)
	case c.DiagramTimeout < 0:
		return fmt.Errorf("%w: diagram timeout %v", ErrInvalidRenderConfig, c.DiagramTimeout)
	case c.DiagramWidth < 0:
		return fmt.Errorf("%w: diagram width %d", ErrInvalidRenderConfig, c.DiagramWidth)
	}
	return nil
}

func (c RenderConfig) pipeline() pipeline.RenderConfig {
	return pipeline.RenderConfig{
		DPI:            c.DPI,
		MaxImageWidth:  c.MaxImageWidth,
		DiagramTimeout: c.DiagramTimeout,
		DiagramWidth:   c.DiagramWidth,
	}
}

// MermaidCLI configures the mermaid command line renderer.
// Zero fields use the renderer defaults.
type MermaidCLI struct {
	Command         string  // executable plus leading args, default "mmdc"
	Scale           float64 // device scale factor
	Theme           string  // mermaid theme, default "neutral"
	ConfigFile      string  // mermaid JSON config passed with -c
	PuppeteerConfig string  // puppeteer JSON config passed with -p
}
