package pipeline

import (
	"math"
	"time"

	"github.com/alnah/go-mdpress/internal/diagram"
)

// Rendering defaults. The image width leaves a small margin inside an A4
// text block; 260 DPI keeps diagrams sharp without bloating the output.
const (
	DefaultDPI           = 260
	DefaultMaxImageWidth = 5.3 // inches
)

// RenderConfig holds the rendering parameters shared by the assembler and
// the diagram processor. It is passed by value and never mutated.
type RenderConfig struct {
	// DPI converts rendered pixels to display inches.
	DPI int
	// MaxImageWidth caps the display width of images, in inches.
	MaxImageWidth float64
	// DiagramTimeout bounds each diagram renderer invocation.
	DiagramTimeout time.Duration
	// DiagramWidth is the canvas width, in pixels, the renderer draws on.
	DiagramWidth int
}

// DefaultRenderConfig returns the house rendering parameters.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		DPI:            DefaultDPI,
		MaxImageWidth:  DefaultMaxImageWidth,
		DiagramTimeout: diagram.DefaultTimeout,
		DiagramWidth:   diagram.DefaultRenderWidth,
	}
}

// withDefaults fills zero fields from DefaultRenderConfig.
func (c RenderConfig) withDefaults() RenderConfig {
	d := DefaultRenderConfig()
	if c.DPI <= 0 {
		c.DPI = d.DPI
	}
	if c.MaxImageWidth <= 0 {
		c.MaxImageWidth = d.MaxImageWidth
	}
	if c.DiagramTimeout <= 0 {
		c.DiagramTimeout = d.DiagramTimeout
	}
	if c.DiagramWidth <= 0 {
		c.DiagramWidth = d.DiagramWidth
	}
	return c
}

// MaxImagePixels is the pixel width that fills MaxImageWidth at DPI.
func (c RenderConfig) MaxImagePixels() int {
	c = c.withDefaults()
	return int(math.Round(c.MaxImageWidth * float64(c.DPI)))
}

// DisplayWidth converts a pixel width to inches, capped at MaxImageWidth.
func (c RenderConfig) DisplayWidth(px int) float64 {
	c = c.withDefaults()
	return min(float64(px)/float64(c.DPI), c.MaxImageWidth)
}

// NewDiagramProcessor builds a diagram processor sized for c. A nil renderer
// yields a processor that always summarizes.
func (c RenderConfig) NewDiagramProcessor(r diagram.Renderer, opts ...diagram.Option) *diagram.Processor {
	c = c.withDefaults()
	base := []diagram.Option{
		diagram.WithTimeout(c.DiagramTimeout),
		diagram.WithMaxWidth(c.MaxImagePixels()),
	}
	return diagram.NewProcessor(r, append(base, opts...)...)
}
