package markup

import "strconv"

// BlockKind identifies the structural type of a Block.
type BlockKind int

// Block kinds, in no particular order.
const (
	KindParagraph BlockKind = iota
	KindHeading
	KindListItem
	KindQuote
	KindCode
	KindTable
	KindDiagram
	KindRule
	KindSpacer // blank separator emitted before a level-2 heading
)

var kindNames = [...]string{
	KindParagraph: "paragraph",
	KindHeading:   "heading",
	KindListItem:  "list-item",
	KindQuote:     "quote",
	KindCode:      "code",
	KindTable:     "table",
	KindDiagram:   "diagram",
	KindRule:      "rule",
	KindSpacer:    "spacer",
}

func (k BlockKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ListKind distinguishes the list item flavours.
type ListKind int

const (
	ListBullet ListKind = iota
	ListNumbered
	ListTask
)

// ListMarker describes the marker in front of a list item.
type ListMarker struct {
	Kind    ListKind
	Number  int  // ListNumbered only, as written in the source
	Checked bool // ListTask only
}

// QuoteLine is one line of a block quote. Runs is empty for an interior
// blank line.
type QuoteLine struct {
	Marker *ListMarker
	Runs   []Run
}

// HasListMarker reports whether the quote line started with a list marker.
func (q QuoteLine) HasListMarker() bool {
	return q.Marker != nil
}

// Block is one structural unit of a document. Only the fields relevant to
// Kind are populated; a Block never references another Block.
type Block struct {
	Kind   BlockKind
	Level  int         // KindHeading: 1-4
	Runs   []Run       // KindHeading, KindParagraph, KindListItem
	List   ListMarker  // KindListItem
	Quote  []QuoteLine // KindQuote
	Lang   string      // KindCode
	Lines  []string    // KindCode, verbatim
	Grid   Grid        // KindTable
	Source string      // KindDiagram, verbatim
}

// Document is the ordered block sequence produced by one Parse call.
type Document struct {
	Blocks []Block
}

// PlainText concatenates the text of runs. A line break becomes a newline.
func PlainText(runs []Run) string {
	n := 0
	for _, r := range runs {
		n += len(r.Text)
	}
	b := make([]byte, 0, n)
	for _, r := range runs {
		if r.Style.Has(LineBreak) {
			b = append(b, '\n')
			continue
		}
		b = append(b, r.Text...)
	}
	return string(b)
}
