package pipeline

import "github.com/alnah/go-mdpress/internal/markup"

// Sink receives structured rendering commands, one call per block, in
// document order. Any returned error aborts the document.
type Sink interface {
	AddHeading(level int, runs []markup.Run) error
	// AddParagraph with no runs emits an empty separator paragraph.
	AddParagraph(runs []markup.Run) error
	AddListItem(marker markup.ListMarker, runs []markup.Run) error
	AddQuoteLine(line markup.QuoteLine) error
	AddTable(t Table) error
	AddCodeBlock(lang string, lines []string) error
	// AddImage embeds a PNG displayed widthHint inches wide.
	AddImage(png []byte, widthHint float64) error
	AddRule() error
}

// Cell is the formatted content of one table cell.
type Cell []markup.Run

// Table is a table with formatted cells. Rows may be shorter than Columns;
// sinks pad them with empty cells.
type Table struct {
	Header  []Cell
	Rows    [][]Cell
	Columns int
}

// Row returns row i padded to Columns cells.
func (t Table) Row(i int) []Cell {
	return padRow(t.Rows[i], t.Columns)
}

// HeaderRow returns the header padded to Columns cells.
func (t Table) HeaderRow() []Cell {
	return padRow(t.Header, t.Columns)
}

func padRow(row []Cell, n int) []Cell {
	if len(row) >= n {
		return row
	}
	out := make([]Cell, n)
	copy(out, row)
	return out
}
