package markup

import (
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// Precompiled line classifiers.
var (
	fenceOpen     = regexp.MustCompile("^\\s*(`{3,})\\s*([^\\s`]*)")
	htmlTableOpen = regexp.MustCompile(`(?i)<table[\s>]`)
	htmlTableEnd  = regexp.MustCompile(`(?i)</table\s*>`)
	taskItem      = regexp.MustCompile(`^\s*[-*+]\s+\[([ xX])\](?:\s+(.*))?$`)
	bulletItem    = regexp.MustCompile(`^\s*[-*+]\s+(.*)$`)
	numberedItem  = regexp.MustCompile(`^\s*(\d+)\.\s+(.*)$`)
	quoteBullet   = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	quoteNumbered = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	headingLine   = regexp.MustCompile(`^\s*(#{1,4}) (.*)$`)
)

// diagramLang is the fence tag that marks diagram source.
const diagramLang = "mermaid"

// ScanOption configures a Scanner.
type ScanOption func(*Scanner)

// WithNormalizer sets the quote normalizer applied to inline content.
func WithNormalizer(n Normalizer) ScanOption {
	return func(s *Scanner) { s.norm = n }
}

// WithLogger sets the logger used to report skipped blocks.
func WithLogger(l *slog.Logger) ScanOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scanner classifies the lines of a document into blocks in a single
// top-to-bottom pass. A Scanner is not safe for concurrent use; Scan resets
// its state so one Scanner can be reused sequentially.
type Scanner struct {
	norm   Normalizer
	logger *slog.Logger

	blocks      []Block
	seenContent bool // a block other than a heading was emitted
	seenH2      bool
}

// NewScanner creates a Scanner.
func NewScanner(opts ...ScanOption) *Scanner {
	s := &Scanner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse is shorthand for NewScanner(opts...).Scan(src).
func Parse(src string, opts ...ScanOption) *Document {
	return NewScanner(opts...).Scan(src)
}

// Scan parses src, which must use "\n" line endings.
func (s *Scanner) Scan(src string) *Document {
	s.blocks = nil
	s.seenContent = false
	s.seenH2 = false

	c := newLineCursor(src)
	for !c.done() {
		line := c.next()
		switch {
		case s.scanFence(line, c):
		case s.scanHTMLTable(line, c):
		case s.scanDelimitedTable(line, c):
		case s.scanRule(line):
		case s.scanListItem(line):
		case s.scanQuote(line, c):
		case s.scanHeading(line):
		default:
			s.scanParagraph(line)
		}
	}
	return &Document{Blocks: s.blocks}
}

// emit appends b. A level-2 heading gets a spacer before it when an earlier
// level-2 heading or any non-heading block was emitted.
func (s *Scanner) emit(b Block) {
	if b.Kind == KindHeading && b.Level == 2 {
		if s.seenH2 || s.seenContent {
			s.blocks = append(s.blocks, Block{Kind: KindSpacer})
		}
		s.seenH2 = true
	}
	s.blocks = append(s.blocks, b)
	if b.Kind != KindHeading {
		s.seenContent = true
	}
}

// inline normalizes quotes, then resolves emphasis.
func (s *Scanner) inline(text string) []Run {
	return ParseInline(s.norm.Normalize(text))
}

// scanFence handles diagram and code fences. Both run to the closing fence
// or to the end of input. A diagram fence with no source is dropped.
func (s *Scanner) scanFence(line string, c *lineCursor) bool {
	m := fenceOpen.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	width := len(m[1])
	lang := m[2]
	body, _, _ := c.collectUntil(func(l string) bool { return isFenceClose(l, width) })

	if strings.EqualFold(lang, diagramLang) {
		src := strings.Join(body, "\n")
		if strings.TrimSpace(src) == "" {
			s.logger.Debug("skipping empty diagram fence")
			return true
		}
		s.emit(Block{Kind: KindDiagram, Source: src})
		return true
	}
	s.emit(Block{Kind: KindCode, Lang: lang, Lines: body})
	return true
}

func isFenceClose(line string, width int) bool {
	t := strings.TrimSpace(line)
	return len(t) >= width && strings.Trim(t, "`") == ""
}

func (s *Scanner) scanHTMLTable(line string, c *lineCursor) bool {
	if !htmlTableOpen.MatchString(line) {
		return false
	}
	src := line
	if !htmlTableEnd.MatchString(line) {
		body, last, _ := c.collectUntil(htmlTableEnd.MatchString)
		src = strings.Join(append(append([]string{line}, body...), last), "\n")
	}

	grid, err := ParseHTMLTable(src)
	if err != nil {
		s.logger.Debug("skipping embedded table", "error", err)
		return true
	}
	s.emit(Block{Kind: KindTable, Grid: grid})
	return true
}

// scanDelimitedTable greedily collects table lines. Runs shorter than two
// lines or without a header row are rejected and only line is consumed.
func (s *Scanner) scanDelimitedTable(line string, c *lineCursor) bool {
	if !isTableLine(line) {
		return false
	}
	mark := c.mark()
	lines := append([]string{line}, c.collectWhile(isTableLine)...)
	if len(lines) >= 2 {
		if grid, ok := ParseDelimitedTable(lines); ok {
			s.emit(Block{Kind: KindTable, Grid: grid})
			return true
		}
	}
	c.reset(mark)
	return false
}

// scanRule accepts three or more copies of one of "-", "*" or "_".
func (s *Scanner) scanRule(line string) bool {
	t := strings.TrimSpace(line)
	if len(t) < 3 || !strings.ContainsRune("-*_", rune(t[0])) {
		return false
	}
	if strings.Trim(t, t[:1]) != "" {
		return false
	}
	s.emit(Block{Kind: KindRule})
	return true
}

func (s *Scanner) scanListItem(line string) bool {
	if m := taskItem.FindStringSubmatch(line); m != nil {
		s.emit(Block{
			Kind: KindListItem,
			List: ListMarker{Kind: ListTask, Checked: m[1] != " "},
			Runs: s.inline(strings.TrimSpace(m[2])),
		})
		return true
	}
	if m := bulletItem.FindStringSubmatch(line); m != nil {
		s.emit(Block{
			Kind: KindListItem,
			List: ListMarker{Kind: ListBullet},
			Runs: s.inline(strings.TrimSpace(m[1])),
		})
		return true
	}
	if m := numberedItem.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[1])
		s.emit(Block{
			Kind: KindListItem,
			List: ListMarker{Kind: ListNumbered, Number: n},
			Runs: s.inline(strings.TrimSpace(m[2])),
		})
		return true
	}
	return false
}

func isQuoteLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), ">")
}

// scanQuote collects consecutive quote lines into one block. A bare ">"
// line is kept as an empty quote line.
func (s *Scanner) scanQuote(line string, c *lineCursor) bool {
	if !isQuoteLine(line) {
		return false
	}
	lines := append([]string{line}, c.collectWhile(isQuoteLine)...)

	quote := make([]QuoteLine, 0, len(lines))
	for _, l := range lines {
		quote = append(quote, s.quoteLine(l))
	}
	s.emit(Block{Kind: KindQuote, Quote: quote})
	return true
}

func (s *Scanner) quoteLine(line string) QuoteLine {
	text := strings.TrimLeft(line, " \t")
	text = strings.TrimPrefix(text, ">")
	text = strings.TrimPrefix(text, " ")
	text = strings.TrimRight(text, " \t")
	if strings.TrimSpace(text) == "" {
		return QuoteLine{}
	}
	if m := quoteBullet.FindStringSubmatch(text); m != nil {
		return QuoteLine{Marker: &ListMarker{Kind: ListBullet}, Runs: s.inline(m[1])}
	}
	if m := quoteNumbered.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return QuoteLine{Marker: &ListMarker{Kind: ListNumbered, Number: n}, Runs: s.inline(m[2])}
	}
	return QuoteLine{Runs: s.inline(text)}
}

func (s *Scanner) scanHeading(line string) bool {
	m := headingLine.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	s.emit(Block{
		Kind:  KindHeading,
		Level: len(m[1]),
		Runs:  s.inline(strings.TrimSpace(m[2])),
	})
	return true
}

// scanParagraph turns any non-blank line into a paragraph. Blank lines
// separate blocks and are never emitted.
func (s *Scanner) scanParagraph(line string) {
	text := strings.TrimSpace(line)
	if text == "" {
		return
	}
	s.emit(Block{Kind: KindParagraph, Runs: s.inline(text)})
}
