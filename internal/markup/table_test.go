package markup

import (
	"errors"
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// TestParseDelimitedTable - Pipe tables
// ---------------------------------------------------------------------------

func TestParseDelimitedTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		lines  []string
		want   Grid
		wantOK bool
	}{
		{
			name:   "header divider body",
			lines:  []string{"| A | B |", "|---|---|", "| 1 | 2 |"},
			want:   Grid{Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}},
			wantOK: true,
		},
		{
			name:   "no outer pipes and aligned divider",
			lines:  []string{"A | B", ":--|--:", "1 | 2", "3 | 4"},
			want:   Grid{Header: []string{"A", "B"}, Rows: [][]string{{"1", "2"}, {"3", "4"}}},
			wantOK: true,
		},
		{
			name:   "short rows are not padded",
			lines:  []string{"| A | B | C |", "|---|---|---|", "| 1 |"},
			want:   Grid{Header: []string{"A", "B", "C"}, Rows: [][]string{{"1"}}},
			wantOK: true,
		},
		{
			name:   "escaped pipe",
			lines:  []string{`| a \| b | c |`, "|---|---|"},
			want:   Grid{Header: []string{"a | b", "c"}},
			wantOK: true,
		},
		{
			name:   "dividers only",
			lines:  []string{"|---|", "|---|"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := ParseDelimitedTable(tt.lines)
			if ok != tt.wantOK {
				t.Fatalf("ParseDelimitedTable() ok = %v, want %v", ok, tt.wantOK)
			}
			if !tt.wantOK {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDelimitedTable() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestGrid_Width(t *testing.T) {
	t.Parallel()

	g := Grid{Header: []string{"a"}, Rows: [][]string{{"1", "2", "3"}, {"x"}}}
	if got := g.Width(); got != 3 {
		t.Errorf("Width() = %d, want 3", got)
	}
}

func TestIsDividerRow(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"|---|---|":   true,
		":---:":       true,
		"---":         true,
		"| : |":       false,
		"":            false,
		"| a |":       false,
		"|--- x ---|": false,
	}
	for in, want := range tests {
		if got := isDividerRow(in); got != want {
			t.Errorf("isDividerRow(%q) = %v, want %v", in, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestParseHTMLTable - Embedded markup tables
// ---------------------------------------------------------------------------

func TestParseHTMLTable(t *testing.T) {
	t.Parallel()

	src := `<table>
  <thead><tr><th>Name</th><th>Role</th></tr></thead>
  <tbody>
    <tr><td><b>Ada</b>   Lovelace</td><td>first<br>programmer</td></tr>
    <tr><td>Alan</td></tr>
  </tbody>
</table>`

	got, err := ParseHTMLTable(src)
	if err != nil {
		t.Fatalf("ParseHTMLTable() error = %v", err)
	}
	want := Grid{
		Header: []string{"Name", "Role"},
		Rows:   [][]string{{"Ada Lovelace", "first<br>programmer"}, {"Alan"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseHTMLTable() = %#v, want %#v", got, want)
	}
}

func TestParseHTMLTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"no table element", "<div>not a table</div>"},
		{"table without rows", "<table></table>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseHTMLTable(tt.src)
			if !errors.Is(err, ErrNoTable) {
				t.Errorf("ParseHTMLTable() error = %v, want ErrNoTable", err)
			}
		})
	}
}
