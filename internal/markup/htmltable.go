package markup

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoTable indicates embedded markup without a usable table element.
var ErrNoTable = errors.New("no table element found")

// ParseHTMLTable extracts the first <table> of an HTML fragment. Each <tr>
// becomes a row of whitespace-collapsed cell texts, tags stripped; the first
// row is the header.
func ParseHTMLTable(src string) (Grid, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return Grid{}, fmt.Errorf("parsing embedded table: %w", err)
	}

	var table *html.Node
	for _, n := range nodes {
		if table = findElement(n, atom.Table); table != nil {
			break
		}
	}
	if table == nil {
		return Grid{}, ErrNoTable
	}

	var rows [][]string
	collectRows(table, &rows)
	if len(rows) == 0 {
		return Grid{}, fmt.Errorf("%w: table has no rows", ErrNoTable)
	}
	return Grid{Header: rows[0], Rows: rows[1:]}, nil
}

// findElement returns the first element with the given atom in document order.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// collectRows appends the cells of every <tr> below n. Nested tables are
// not descended into.
func collectRows(n *html.Node, rows *[][]string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Tr:
			*rows = append(*rows, rowCells(c))
		case atom.Table:
		default:
			collectRows(c, rows)
		}
	}
}

func rowCells(tr *html.Node) []string {
	var cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
			var b strings.Builder
			textContent(c, &b)
			cells = append(cells, strings.Join(strings.Fields(b.String()), " "))
		}
	}
	return cells
}

func textContent(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	// Kept as markup so the cell's inline pass turns it into a line break.
	if n.Type == html.ElementNode && n.DataAtom == atom.Br {
		b.WriteString("<br>")
		return
	}
	breaks := n.Type == html.ElementNode && isBreakingElement(n.DataAtom)
	if breaks {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(c, b)
	}
	if breaks {
		b.WriteByte(' ')
	}
}

// isBreakingElement reports elements whose boundaries separate words.
func isBreakingElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol:
		return true
	}
	return false
}
