package pipeline

import (
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-mdpress/internal/markup"
)

// htmlTemplate wraps the sink output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<main class="document">
%s</main>
</body>
</html>`

// WrapDocument wraps an HTML body fragment in a standalone document.
func WrapDocument(title, body string) string {
	if title == "" {
		title = "Document"
	}
	return fmt.Sprintf(htmlTemplate, html.EscapeString(title), body)
}

// Column width hints, in terminal cells, used to size <col> elements.
const (
	minColumnWidth = 4
	maxColumnWidth = 40
)

// container is a wrapper element shared by consecutive sink calls.
type container int

const (
	noContainer container = iota
	bulletList
	numberedList
	taskList
	quoteBox
)

var containerTags = map[container][2]string{
	bulletList:   {"<ul>\n", "</ul>\n"},
	numberedList: {"<ol>\n", "</ol>\n"},
	taskList:     {"<ul class=\"tasks\">\n", "</ul>\n"},
	quoteBox:     {"<blockquote>\n", "</blockquote>\n"},
}

// styleTags lists inline wrappers from outermost to innermost.
var styleTags = []struct {
	flag       markup.Style
	open, done string
}{
	{markup.Bold, "<strong>", "</strong>"},
	{markup.Italic, "<em>", "</em>"},
	{markup.Underline, "<u>", "</u>"},
	{markup.Strike, "<s>", "</s>"},
	{markup.Code, "<code>", "</code>"},
	{markup.Math, `<span class="math">`, "</span>"},
}

// HTMLSink renders sink commands as house-style HTML body markup.
// Consecutive list items share one list element and consecutive quote
// lines one blockquote. The first write error is sticky: every later call
// returns it. Call Close to terminate any open container.
type HTMLSink struct {
	w    io.Writer
	err  error
	open container
}

var _ Sink = (*HTMLSink)(nil)

// NewHTMLSink creates an HTMLSink writing to w.
func NewHTMLSink(w io.Writer) *HTMLSink {
	return &HTMLSink{w: w}
}

func (s *HTMLSink) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

func (s *HTMLSink) text(str string) {
	if s.err != nil {
		return
	}
	_, s.err = s.w.Write(util.EscapeHTML([]byte(str)))
}

// enter switches to container c, closing a different open one.
func (s *HTMLSink) enter(c container) {
	if s.open == c {
		return
	}
	if s.open != noContainer {
		s.write(containerTags[s.open][1])
	}
	if c != noContainer {
		s.write(containerTags[c][0])
	}
	s.open = c
}

func (s *HTMLSink) runs(runs []markup.Run) {
	for _, r := range runs {
		style := r.Style.Normalize()
		if style == markup.LineBreak {
			s.write("<br>")
			continue
		}
		for _, t := range styleTags {
			if style.Has(t.flag) {
				s.write(t.open)
			}
		}
		s.text(r.Text)
		for i := len(styleTags) - 1; i >= 0; i-- {
			if style.Has(styleTags[i].flag) {
				s.write(styleTags[i].done)
			}
		}
	}
}

// AddHeading writes an h1 to h4 element.
func (s *HTMLSink) AddHeading(level int, runs []markup.Run) error {
	s.enter(noContainer)
	level = min(max(level, 1), 4)
	tag := "h" + strconv.Itoa(level)
	s.write("<" + tag + ">")
	s.runs(runs)
	s.write("</" + tag + ">\n")
	return s.err
}

// AddParagraph writes a paragraph, or a spacer when runs is empty.
func (s *HTMLSink) AddParagraph(runs []markup.Run) error {
	s.enter(noContainer)
	if len(runs) == 0 {
		s.write("<p class=\"spacer\"></p>\n")
		return s.err
	}
	s.write("<p>")
	s.runs(runs)
	s.write("</p>\n")
	return s.err
}

// AddListItem writes a list item, opening a list of the matching kind.
func (s *HTMLSink) AddListItem(marker markup.ListMarker, runs []markup.Run) error {
	switch marker.Kind {
	case markup.ListNumbered:
		s.enter(numberedList)
		s.write("<li value=\"" + strconv.Itoa(marker.Number) + "\">")
	case markup.ListTask:
		s.enter(taskList)
		if marker.Checked {
			s.write("<li class=\"task done\"><span class=\"box\">☑</span> ")
		} else {
			s.write("<li class=\"task\"><span class=\"box\">☐</span> ")
		}
	default:
		s.enter(bulletList)
		s.write("<li>")
	}
	s.runs(runs)
	s.write("</li>\n")
	return s.err
}

// AddQuoteLine writes one line inside the current blockquote.
func (s *HTMLSink) AddQuoteLine(line markup.QuoteLine) error {
	s.enter(quoteBox)
	switch {
	case line.HasListMarker():
		s.write("<p class=\"quote-item\"><span class=\"marker\">")
		if line.Marker.Kind == markup.ListNumbered {
			s.write(strconv.Itoa(line.Marker.Number) + ".")
		} else {
			s.write("•")
		}
		s.write("</span> ")
		s.runs(line.Runs)
		s.write("</p>\n")
	case len(line.Runs) == 0:
		s.write("<p class=\"quote-gap\"></p>\n")
	default:
		s.write("<p>")
		s.runs(line.Runs)
		s.write("</p>\n")
	}
	return s.err
}

// AddTable writes a table. Short rows are padded with empty cells and
// column widths follow the widest cell text of each column.
func (s *HTMLSink) AddTable(t Table) error {
	s.enter(noContainer)
	s.write("<table>\n<colgroup>")
	for _, pct := range columnWidths(t) {
		s.write(fmt.Sprintf("<col style=\"width:%.1f%%\">", pct))
	}
	s.write("</colgroup>\n")

	if len(t.Header) > 0 {
		s.write("<thead><tr>")
		for _, c := range t.HeaderRow() {
			s.write("<th>")
			s.runs(c)
			s.write("</th>")
		}
		s.write("</tr></thead>\n")
	}
	s.write("<tbody>\n")
	for i := range t.Rows {
		s.write("<tr>")
		for _, c := range t.Row(i) {
			s.write("<td>")
			s.runs(c)
			s.write("</td>")
		}
		s.write("</tr>\n")
	}
	s.write("</tbody>\n</table>\n")
	return s.err
}

// columnWidths returns each column's share of the table width, in percent.
func columnWidths(t Table) []float64 {
	if t.Columns == 0 {
		return nil
	}
	widths := make([]int, t.Columns)
	measure := func(row []Cell) {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], cellWidth(c))
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}

	total := 0
	for i, w := range widths {
		widths[i] = min(max(w, minColumnWidth), maxColumnWidth)
		total += widths[i]
	}
	out := make([]float64, len(widths))
	for i, w := range widths {
		out[i] = 100 * float64(w) / float64(total)
	}
	return out
}

// cellWidth is the display width of the widest line of a cell.
func cellWidth(c Cell) int {
	w := 0
	for line := range strings.SplitSeq(markup.PlainText(c), "\n") {
		w = max(w, runewidth.StringWidth(line))
	}
	return w
}

// AddCodeBlock writes a syntax highlighted code block.
func (s *HTMLSink) AddCodeBlock(lang string, lines []string) error {
	s.enter(noContainer)
	if s.err != nil {
		return s.err
	}
	s.err = writeCode(s.w, lang, lines)
	return s.err
}

// AddImage embeds png as a data URI, widthHint inches wide.
func (s *HTMLSink) AddImage(png []byte, widthHint float64) error {
	s.enter(noContainer)
	s.write(fmt.Sprintf("<figure class=\"diagram\"><img alt=\"diagram\" style=\"width:%.2fin\" src=\"data:image/png;base64,", widthHint))
	s.write(base64.StdEncoding.EncodeToString(png))
	s.write("\"></figure>\n")
	return s.err
}

// AddRule writes a horizontal rule.
func (s *HTMLSink) AddRule() error {
	s.enter(noContainer)
	s.write("<hr>\n")
	return s.err
}

// Close ends any open list or blockquote and reports the first write error.
func (s *HTMLSink) Close() error {
	s.enter(noContainer)
	return s.err
}
