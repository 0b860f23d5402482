package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-mdpress/internal/diagram"
	"github.com/alnah/go-mdpress/internal/markup"
)

// DiagramProcessor renders diagram source or summarizes it. It never fails.
type DiagramProcessor interface {
	Process(ctx context.Context, src string) diagram.Result
}

var _ DiagramProcessor = (*diagram.Processor)(nil)

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithNormalizer sets the quote normalizer applied to table cells.
func WithNormalizer(n markup.Normalizer) AssemblerOption {
	return func(a *Assembler) { a.norm = n }
}

// WithRenderConfig sets the image sizing parameters.
func WithRenderConfig(cfg RenderConfig) AssemblerOption {
	return func(a *Assembler) { a.cfg = cfg.withDefaults() }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// Assembler walks a Document and issues one Sink call per block.
// Diagrams go through the DiagramProcessor and are emitted as an image or
// as a captioned summary.
type Assembler struct {
	sink     Sink
	diagrams DiagramProcessor
	norm     markup.Normalizer
	cfg      RenderConfig
	logger   *slog.Logger
}

// NewAssembler creates an Assembler writing to sink.
func NewAssembler(sink Sink, diagrams DiagramProcessor, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		sink:     sink,
		diagrams: diagrams,
		cfg:      DefaultRenderConfig(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RenderBody assembles doc into an HTMLSink and returns the body fragment.
func RenderBody(ctx context.Context, doc *markup.Document, diagrams DiagramProcessor, opts ...AssemblerOption) (string, error) {
	var b strings.Builder
	sink := NewHTMLSink(&b)
	if err := NewAssembler(sink, diagrams, opts...).Assemble(ctx, doc); err != nil {
		return "", err
	}
	if err := sink.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSinkFailure, err)
	}
	return b.String(), nil
}

// Assemble emits doc to the sink in block order. The first sink error
// aborts assembly and is returned wrapped in ErrSinkFailure. Context
// cancellation is checked between blocks.
func (a *Assembler) Assemble(ctx context.Context, doc *markup.Document) error {
	for i, b := range doc.Blocks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.block(ctx, b); err != nil {
			return fmt.Errorf("%w: %s block %d: %v", ErrSinkFailure, b.Kind, i, err)
		}
	}
	return nil
}

func (a *Assembler) block(ctx context.Context, b markup.Block) error {
	switch b.Kind {
	case markup.KindHeading:
		return a.sink.AddHeading(b.Level, b.Runs)
	case markup.KindParagraph:
		return a.sink.AddParagraph(b.Runs)
	case markup.KindSpacer:
		return a.sink.AddParagraph(nil)
	case markup.KindListItem:
		return a.sink.AddListItem(b.List, b.Runs)
	case markup.KindQuote:
		for _, line := range b.Quote {
			if err := a.sink.AddQuoteLine(line); err != nil {
				return err
			}
		}
		return nil
	case markup.KindCode:
		return a.sink.AddCodeBlock(b.Lang, b.Lines)
	case markup.KindTable:
		return a.sink.AddTable(a.table(b.Grid))
	case markup.KindRule:
		return a.sink.AddRule()
	case markup.KindDiagram:
		return a.diagram(ctx, b.Source)
	default:
		a.logger.Debug("ignoring unknown block", "kind", b.Kind)
		return nil
	}
}

// table formats every cell as inline content. Header cells are bold unless
// their own style overrides it.
func (a *Assembler) table(g markup.Grid) Table {
	t := Table{Columns: g.Width()}
	t.Header = make([]Cell, len(g.Header))
	for i, text := range g.Header {
		runs := a.cell(text)
		for j := range runs {
			runs[j].Style = runs[j].Style.With(markup.Bold)
		}
		t.Header[i] = runs
	}
	t.Rows = make([][]Cell, len(g.Rows))
	for i, row := range g.Rows {
		cells := make([]Cell, len(row))
		for j, text := range row {
			cells[j] = a.cell(text)
		}
		t.Rows[i] = cells
	}
	return t
}

func (a *Assembler) cell(text string) Cell {
	return markup.ParseInline(a.norm.Normalize(text))
}

func (a *Assembler) diagram(ctx context.Context, src string) error {
	res := a.diagrams.Process(ctx, src)
	if res.Rendered() {
		return a.sink.AddImage(res.PNG, a.cfg.DisplayWidth(res.WidthPx))
	}

	s := res.Fallback
	caption := []markup.Run{{Text: s.Caption(), Style: markup.Italic}}
	if err := a.sink.AddParagraph(caption); err != nil {
		return err
	}
	if s.Empty() {
		return a.sink.AddCodeBlock(diagramFenceLang, strings.Split(src, "\n"))
	}
	bullet := markup.ListMarker{Kind: markup.ListBullet}
	for _, item := range s.Items {
		if err := a.sink.AddListItem(bullet, []markup.Run{{Text: item}}); err != nil {
			return err
		}
	}
	return nil
}

// diagramFenceLang tags the raw source shown when nothing could be summarized.
const diagramFenceLang = "mermaid"
