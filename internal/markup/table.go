package markup

import "strings"

// Grid is the rectangular content of a table before inline formatting.
// Rows may be shorter than Width; padding is left to the renderer.
type Grid struct {
	Header []string
	Rows   [][]string
}

// Width returns the widest row length across header and body.
func (g Grid) Width() int {
	w := len(g.Header)
	for _, r := range g.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// isTableLine reports whether line can belong to a delimited table: it has a
// column separator, or it is a divider row.
func isTableLine(line string) bool {
	return strings.ContainsRune(line, '|') || isDividerRow(line)
}

// isDividerRow reports whether line is a header/body divider such as
// "|---|:--:|". At least one dash is required so that blank lines and lone
// colons do not qualify.
func isDividerRow(line string) bool {
	dash := false
	for _, c := range line {
		switch c {
		case '-':
			dash = true
		case '|', ':', ' ', '\t':
		default:
			return false
		}
	}
	return dash
}

// ParseDelimitedTable parses pipe-delimited rows. Divider rows are skipped,
// the first remaining row is the header. It returns false when no header
// row exists.
func ParseDelimitedTable(lines []string) (Grid, bool) {
	var g Grid
	seenHeader := false
	for _, line := range lines {
		if isDividerRow(line) {
			continue
		}
		cells := splitTableRow(line)
		if !seenHeader {
			g.Header = cells
			seenHeader = true
			continue
		}
		g.Rows = append(g.Rows, cells)
	}
	return g, seenHeader
}

// splitTableRow strips one outer pipe on each side and splits on the
// remaining unescaped pipes. "\|" yields a literal pipe inside a cell.
func splitTableRow(row string) []string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, `\|`) {
		row = row[:len(row)-1]
	}

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(row); i++ {
		switch {
		case row[i] == '\\' && i+1 < len(row) && row[i+1] == '|':
			cell.WriteByte('|')
			i++
		case row[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(row[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}
