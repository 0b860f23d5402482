// Package dateutil resolves the footer date stamp. "auto" dates are rendered
// from a small token language with month names in the document locale.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits the length of a format string.
const MaxDateFormatLength = 50

// DefaultDateFormat is used by a bare "auto".
const DefaultDateFormat = "YYYY-MM-DD"

// DatePresets are named shortcuts accepted after "auto:".
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
}

type field int

const (
	fieldLiteral field = iota
	fieldYear
	fieldYear2
	fieldMonthName
	fieldMonthAbbr
	fieldMonth2
	fieldMonth
	fieldDay2
	fieldDay
)

// tokens are tried longest first at each position.
var tokens = []struct {
	text  string
	field field
}{
	{"YYYY", fieldYear},
	{"MMMM", fieldMonthName},
	{"MMM", fieldMonthAbbr},
	{"YY", fieldYear2},
	{"MM", fieldMonth2},
	{"DD", fieldDay2},
	{"M", fieldMonth},
	{"D", fieldDay},
}

type part struct {
	field field
	text  string
}

// Layout is a compiled date format.
type Layout []part

// Compile parses format. Tokens are YYYY, YY, MMMM, MMM, MM, M, DD and D;
// text in brackets is copied literally ("[Week of] D MMMM"), as is any other
// character outside brackets.
func Compile(format string) (Layout, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var layout Layout
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			layout = append(layout, part{field: fieldLiteral, text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}
		n := 0
		for _, tok := range tokens {
			if strings.HasPrefix(format[i:], tok.text) {
				flush()
				layout = append(layout, part{field: tok.field})
				n = len(tok.text)
				break
			}
		}
		if n == 0 {
			lit.WriteByte(format[i])
			n = 1
		}
		i += n
	}
	flush()
	return layout, nil
}

// Format renders t. Month names follow locale ("fr", "de-AT", ...); unknown
// locales get English names.
func (l Layout) Format(t time.Time, locale string) string {
	var b strings.Builder
	for _, p := range l {
		switch p.field {
		case fieldLiteral:
			b.WriteString(p.text)
		case fieldYear:
			b.WriteString(pad(t.Year(), 4))
		case fieldYear2:
			b.WriteString(pad(t.Year()%100, 2))
		case fieldMonthName:
			b.WriteString(monthName(t.Month(), locale))
		case fieldMonthAbbr:
			b.WriteString(monthAbbr(t.Month(), locale))
		case fieldMonth2:
			b.WriteString(pad(int(t.Month()), 2))
		case fieldMonth:
			b.WriteString(strconv.Itoa(int(t.Month())))
		case fieldDay2:
			b.WriteString(pad(t.Day(), 2))
		case fieldDay:
			b.WriteString(strconv.Itoa(t.Day()))
		}
	}
	return b.String()
}

func pad(n, width int) string {
	s := strconv.Itoa(n)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return s
}

// ResolveDate expands "auto" date values:
//   - "auto" is the date of t as YYYY-MM-DD
//   - "auto:FORMAT" uses a custom format, e.g. "auto:DD/MM/YYYY"
//   - "auto:PRESET" uses a named preset (iso, european, us, long)
//
// Any other value is returned unchanged. Callers validating configuration
// pass the zero time.
func ResolveDate(value string, t time.Time, locale string) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	format := DefaultDateFormat
	if lower != "auto" {
		if !strings.HasPrefix(lower, "auto:") {
			return "", fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
		}
		// Tokens are case-sensitive, so slice the original value.
		format = value[len("auto:"):]
		if format == "" {
			return "", fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(format)]; ok {
			format = preset
		}
	}

	layout, err := Compile(format)
	if err != nil {
		return "", err
	}
	return layout.Format(t, locale), nil
}
