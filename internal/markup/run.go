package markup

import "strings"

// Style is a set of inline formatting flags.
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Underline
	Strike
	Code
	Math
	// LineBreak marks an empty run standing for a hard line break.
	LineBreak
)

// Plain is the empty style.
const Plain Style = 0

var styleNames = []struct {
	flag Style
	name string
}{
	{Bold, "bold"},
	{Italic, "italic"},
	{Underline, "underline"},
	{Strike, "strike"},
	{Code, "code"},
	{Math, "math"},
	{LineBreak, "break"},
}

// Has reports whether every flag in f is set.
func (s Style) Has(f Style) bool {
	return s&f == f
}

// With adds flags and normalizes the result.
func (s Style) With(f Style) Style {
	return (s | f).Normalize()
}

// Normalize applies flag precedence: Code and Math are rendered in a fixed
// face, so either one clears every other flag. Code wins over Math. A line
// break carries no text and takes no other flag.
func (s Style) Normalize() Style {
	switch {
	case s&LineBreak != 0:
		return LineBreak
	case s&Code != 0:
		return Code
	case s&Math != 0:
		return Math
	}
	return s
}

func (s Style) String() string {
	if s == Plain {
		return "plain"
	}
	var parts []string
	for _, n := range styleNames {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// Run is a span of text sharing one style.
type Run struct {
	Text  string
	Style Style
}
