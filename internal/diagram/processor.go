package diagram

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a single renderer invocation.
const DefaultTimeout = 30 * time.Second

// Result is the outcome of processing one diagram: either a PNG image or a
// fallback summary, never both.
type Result struct {
	PNG      []byte
	WidthPx  int
	Fallback *Summary
}

// Rendered reports whether the result carries an image.
func (r Result) Rendered() bool {
	return r.Fallback == nil
}

// Option configures a Processor.
type Option func(*Processor)

// WithTimeout sets the per-diagram renderer timeout.
// Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(p *Processor) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMaxWidth sets the pixel width rendered images are downscaled to.
// Zero disables downscaling.
func WithMaxWidth(px int) Option {
	return func(p *Processor) { p.maxWidth = px }
}

// WithLogger sets the logger used to report renderer failures.
func WithLogger(l *slog.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// Processor preprocesses diagram source, renders it with a bounded timeout
// and falls back to a textual summary on any failure.
type Processor struct {
	renderer Renderer
	timeout  time.Duration
	maxWidth int
	logger   *slog.Logger
}

// NewProcessor creates a Processor. A nil renderer disables rendering:
// every diagram becomes a summary.
func NewProcessor(r Renderer, opts ...Option) *Processor {
	p := &Processor{
		renderer: r,
		timeout:  DefaultTimeout,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process renders src. It never returns an error: renderer unavailability,
// failure, timeout or unusable output all produce Result.Fallback.
func (p *Processor) Process(ctx context.Context, src string) Result {
	if p.renderer == nil {
		return p.fallback(src)
	}

	rctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	img, err := p.renderer.Render(rctx, Preprocess(src))
	if err != nil {
		p.logger.Warn("diagram rendering failed, using text summary", "error", err)
		return p.fallback(src)
	}

	scaled, width, err := Downscale(img, p.maxWidth)
	if err != nil {
		p.logger.Warn("diagram image unusable, using text summary", "error", err)
		return p.fallback(src)
	}
	return Result{PNG: scaled, WidthPx: width}
}

func (p *Processor) fallback(src string) Result {
	s := Summarize(src)
	p.logger.Debug("diagram summarized", "kind", s.Kind, "items", len(s.Items))
	return Result{Fallback: &s}
}
