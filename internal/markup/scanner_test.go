package markup

import (
	"reflect"
	"strings"
	"testing"
)

// kinds returns the block kinds of doc, for compact assertions.
func kinds(doc *Document) []BlockKind {
	out := make([]BlockKind, len(doc.Blocks))
	for i, b := range doc.Blocks {
		out[i] = b.Kind
	}
	return out
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

// ---------------------------------------------------------------------------
// TestParse - Block classification
// ---------------------------------------------------------------------------

func TestParse_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []BlockKind
	}{
		{
			name: "blank lines never produce blocks",
			src:  lines("one", "", "", "two", "   "),
			want: []BlockKind{KindParagraph, KindParagraph},
		},
		{
			name: "rule characters",
			src:  lines("---", "***", "___", "--"),
			want: []BlockKind{KindRule, KindRule, KindRule, KindParagraph},
		},
		{
			name: "list flavours",
			src:  lines("- bullet", "* star", "+ plus", "1. one", "- [ ] todo", "- [x] done"),
			want: []BlockKind{KindListItem, KindListItem, KindListItem, KindListItem, KindListItem, KindListItem},
		},
		{
			name: "single pipe line falls through to paragraph",
			src:  lines("a | b", "plain"),
			want: []BlockKind{KindParagraph, KindParagraph},
		},
		{
			name: "five hashes is a paragraph",
			src:  lines("##### deep"),
			want: []BlockKind{KindParagraph},
		},
		{
			name: "indented heading",
			src:  lines("  ## Indented", "\t# Tabbed"),
			want: []BlockKind{KindHeading, KindHeading},
		},
		{
			name: "empty diagram fence is dropped",
			src:  lines("```mermaid", "```", "after"),
			want: []BlockKind{KindParagraph},
		},
		{
			name: "blank diagram fence is dropped",
			src:  lines("```mermaid", "", "   ", "```"),
			want: nil,
		},
		{
			name: "table inside fence stays code",
			src:  lines("```", "| a | b |", "|---|---|", "```"),
			want: []BlockKind{KindCode},
		},
		{
			name: "two dividers fall back to rules",
			src:  lines("---", "---"),
			want: []BlockKind{KindRule, KindRule},
		},
		{
			name: "embedded table without table element is skipped",
			src:  lines(`<table class="x">`, "text"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := kinds(Parse(tt.src))
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParse_ListMarkers(t *testing.T) {
	t.Parallel()

	doc := Parse(lines("- a", "7. b", "- [ ] c", "* [X] d"))
	want := []ListMarker{
		{Kind: ListBullet},
		{Kind: ListNumbered, Number: 7},
		{Kind: ListTask},
		{Kind: ListTask, Checked: true},
	}
	for i, b := range doc.Blocks {
		if b.List != want[i] {
			t.Errorf("block %d marker = %+v, want %+v", i, b.List, want[i])
		}
	}
	if got := PlainText(doc.Blocks[3].Runs); got != "d" {
		t.Errorf("task text = %q, want %q", got, "d")
	}
}

func TestParse_Heading(t *testing.T) {
	t.Parallel()

	doc := Parse(lines(`### A "quoted" **title**`))
	if len(doc.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(doc.Blocks))
	}
	b := doc.Blocks[0]
	if b.Kind != KindHeading || b.Level != 3 {
		t.Fatalf("block = %v level %d, want heading level 3", b.Kind, b.Level)
	}
	want := []Run{{"A “quoted” ", Plain}, {"title", Bold}}
	if !reflect.DeepEqual(b.Runs, want) {
		t.Errorf("runs = %v, want %v", b.Runs, want)
	}
}

func TestParse_IndentedHeadingLevel(t *testing.T) {
	t.Parallel()

	doc := Parse(lines("   ### Three"))
	if len(doc.Blocks) != 1 || doc.Blocks[0].Level != 3 || PlainText(doc.Blocks[0].Runs) != "Three" {
		t.Errorf("blocks = %+v, want one level-3 heading titled Three", doc.Blocks)
	}
}

func TestParse_LineBreaks(t *testing.T) {
	t.Parallel()

	doc := Parse(lines("## a<br>b", "c<BR/>d", "> e<br />f", "| g<br>h |", "|---|"))
	if got := kinds(doc); !reflect.DeepEqual(got, []BlockKind{KindHeading, KindParagraph, KindQuote, KindTable}) {
		t.Fatalf("kinds = %v", got)
	}
	for i, runs := range [][]Run{doc.Blocks[0].Runs, doc.Blocks[1].Runs, doc.Blocks[2].Quote[0].Runs} {
		if len(runs) != 3 || runs[1].Style != LineBreak {
			t.Errorf("block %d runs = %v, want a line break between two runs", i, runs)
		}
	}
	if got := PlainText(ParseInline(doc.Blocks[3].Grid.Header[0])); got != "g\nh" {
		t.Errorf("table cell = %q, want %q", got, "g\nh")
	}
}

func TestParse_CodeVerbatim(t *testing.T) {
	t.Parallel()

	doc := Parse(lines("```go", `s := "**x**"`, "", "```", "after"))
	if got := kinds(doc); !reflect.DeepEqual(got, []BlockKind{KindCode, KindParagraph}) {
		t.Fatalf("kinds = %v", got)
	}
	code := doc.Blocks[0]
	if code.Lang != "go" {
		t.Errorf("Lang = %q, want %q", code.Lang, "go")
	}
	if want := []string{`s := "**x**"`, ""}; !reflect.DeepEqual(code.Lines, want) {
		t.Errorf("Lines = %q, want %q", code.Lines, want)
	}
}

func TestParse_UnclosedFenceRunsToEnd(t *testing.T) {
	t.Parallel()

	doc := Parse(lines("```", "a", "b"))
	if len(doc.Blocks) != 1 || len(doc.Blocks[0].Lines) != 2 {
		t.Fatalf("blocks = %+v, want one code block with 2 lines", doc.Blocks)
	}
}

func TestParse_Diagram(t *testing.T) {
	t.Parallel()

	doc := Parse(lines("```Mermaid", "graph TD", "", "  A --> B", "```"))
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != KindDiagram {
		t.Fatalf("blocks = %+v, want one diagram", doc.Blocks)
	}
	if want := "graph TD\n\n  A --> B"; doc.Blocks[0].Source != want {
		t.Errorf("Source = %q, want %q", doc.Blocks[0].Source, want)
	}
}

func TestParse_Tables(t *testing.T) {
	t.Parallel()

	doc := Parse(lines(
		"| A | B |",
		"|---|---|",
		"| 1 | 2 |",
		"",
		"<TABLE><tr><td>h</td></tr>",
		"<tr><td>v</td></tr></table>",
	))
	if got := kinds(doc); !reflect.DeepEqual(got, []BlockKind{KindTable, KindTable}) {
		t.Fatalf("kinds = %v", got)
	}
	want := Grid{Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}}
	if !reflect.DeepEqual(doc.Blocks[0].Grid, want) {
		t.Errorf("delimited grid = %#v, want %#v", doc.Blocks[0].Grid, want)
	}
	want = Grid{Header: []string{"h"}, Rows: [][]string{{"v"}}}
	if !reflect.DeepEqual(doc.Blocks[1].Grid, want) {
		t.Errorf("embedded grid = %#v, want %#v", doc.Blocks[1].Grid, want)
	}
}

func TestParse_Quote(t *testing.T) {
	t.Parallel()

	doc := Parse(lines("> first", ">", "> - item", "> 2. second", "after"))
	if got := kinds(doc); !reflect.DeepEqual(got, []BlockKind{KindQuote, KindParagraph}) {
		t.Fatalf("kinds = %v", got)
	}
	q := doc.Blocks[0].Quote
	if len(q) != 4 {
		t.Fatalf("quote has %d lines, want 4", len(q))
	}
	if PlainText(q[0].Runs) != "first" || q[0].HasListMarker() {
		t.Errorf("line 0 = %+v", q[0])
	}
	if len(q[1].Runs) != 0 || q[1].HasListMarker() {
		t.Errorf("interior blank line = %+v, want empty", q[1])
	}
	if !q[2].HasListMarker() || q[2].Marker.Kind != ListBullet || PlainText(q[2].Runs) != "item" {
		t.Errorf("line 2 = %+v", q[2])
	}
	if !q[3].HasListMarker() || q[3].Marker.Number != 2 {
		t.Errorf("line 3 = %+v", q[3])
	}
}

// ---------------------------------------------------------------------------
// TestParse_HeadingSpacing - Separator before level-2 headings
// ---------------------------------------------------------------------------

func TestParse_HeadingSpacing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []BlockKind
	}{
		{
			name: "title then first h2 has no spacer",
			src:  lines("# Title", "## One", "text", "## Two"),
			want: []BlockKind{KindHeading, KindHeading, KindParagraph, KindSpacer, KindHeading},
		},
		{
			name: "content before first h2 adds spacer",
			src:  lines("intro", "## One"),
			want: []BlockKind{KindParagraph, KindSpacer, KindHeading},
		},
		{
			name: "consecutive h2 headings",
			src:  lines("## One", "## Two"),
			want: []BlockKind{KindHeading, KindSpacer, KindHeading},
		},
		{
			name: "h3 before first h2 adds no spacer",
			src:  lines("### a", "## b"),
			want: []BlockKind{KindHeading, KindHeading},
		},
		{
			name: "h4 after title adds no spacer",
			src:  lines("# Title", "#### note", "## One"),
			want: []BlockKind{KindHeading, KindHeading, KindHeading},
		},
		{
			name: "h3 is never spaced",
			src:  lines("text", "### Three"),
			want: []BlockKind{KindParagraph, KindHeading},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := kinds(Parse(tt.src)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanner_ReuseResetsState(t *testing.T) {
	t.Parallel()

	s := NewScanner()
	s.Scan(lines("text", "## One"))
	doc := s.Scan(lines("## Fresh"))
	if got := kinds(doc); !reflect.DeepEqual(got, []BlockKind{KindHeading}) {
		t.Errorf("kinds = %v, want a single heading", got)
	}
}

func TestParse_Locale(t *testing.T) {
	t.Parallel()

	doc := Parse(lines(`"x"`), WithNormalizer(NewNormalizer("fr")))
	if got := PlainText(doc.Blocks[0].Runs); got != "«x»" {
		t.Errorf("text = %q, want %q", got, "«x»")
	}
}
