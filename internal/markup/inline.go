package markup

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// inlinePattern describes one emphasis syntax. Patterns are applied to the
// whole text independently of each other; nesting is not supported.
type inlinePattern struct {
	open, close string
	style       Style
	// solo rejects delimiters touching another copy of the same character,
	// which keeps *x* from matching inside **x**.
	solo bool
	// wordBound rejects delimiters glued to letters or digits on the outside,
	// so snake_case_names stay plain.
	wordBound bool
	inner     func(string) bool
}

var inlinePatterns = []inlinePattern{
	{open: "***", close: "***", style: Bold | Italic, inner: emphasisInner},
	{open: "___", close: "___", style: Bold | Italic, wordBound: true, inner: emphasisInner},
	{open: "**", close: "**", style: Bold, inner: emphasisInner},
	{open: "__", close: "__", style: Bold, wordBound: true, inner: emphasisInner},
	{open: "*", close: "*", style: Italic, solo: true, inner: emphasisInner},
	{open: "_", close: "_", style: Italic, solo: true, wordBound: true, inner: emphasisInner},
	{open: "<u>", close: "</u>", style: Underline, inner: nonEmpty},
	{open: "~~", close: "~~", style: Strike, inner: emphasisInner},
	{open: "`", close: "`", style: Code, inner: func(s string) bool { return !strings.Contains(s, "`") }},
	{open: "$", close: "$", style: Math, inner: mathInner},
}

func nonEmpty(s string) bool { return s != "" }

// emphasisInner requires content that does not start or end with whitespace.
func emphasisInner(s string) bool {
	if s == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return !unicode.IsSpace(first) && !unicode.IsSpace(last)
}

// mathInner keeps currency amounts such as "$5 and $10" out of math mode.
func mathInner(s string) bool {
	return emphasisInner(s) && !strings.Contains(s, "$")
}

type inlineMatch struct {
	start, end int
	inner      string
	style      Style
}

func (m inlineMatch) length() int { return m.end - m.start }

var lineBreakTag = regexp.MustCompile(`(?i)<br\s*/?>`)

// ParseInline splits text into styled runs. Every recognized marker pair is
// stripped and its content becomes one run; the text between matches
// becomes unstyled runs. A <br> tag becomes an empty LineBreak run and
// bounds emphasis: no marker pair spans it. Concatenating the run texts
// gives the input with marker syntax removed. Empty input yields no runs.
func ParseInline(text string) []Run {
	if text == "" {
		return nil
	}
	segments := lineBreakTag.Split(text, -1)
	if len(segments) == 1 {
		return parseSegment(text)
	}
	var runs []Run
	for i, seg := range segments {
		if i > 0 {
			runs = append(runs, Run{Style: LineBreak})
		}
		runs = append(runs, parseSegment(seg)...)
	}
	return runs
}

func parseSegment(text string) []Run {
	if text == "" {
		return nil
	}

	var matches []inlineMatch
	for _, p := range inlinePatterns {
		matches = append(matches, p.findAll(text)...)
	}
	matches = resolveOverlaps(matches)

	if len(matches) == 0 {
		return []Run{{Text: text}}
	}

	runs := make([]Run, 0, 2*len(matches)+1)
	pos := 0
	for _, m := range matches {
		if m.start > pos {
			runs = append(runs, Run{Text: text[pos:m.start]})
		}
		runs = append(runs, Run{Text: m.inner, Style: m.style.Normalize()})
		pos = m.end
	}
	if pos < len(text) {
		runs = append(runs, Run{Text: text[pos:]})
	}
	return runs
}

// resolveOverlaps orders matches by start offset, longest first, and drops
// every match that intersects a kept one. A later match displaces the last
// kept match only when it is strictly longer.
func resolveOverlaps(ms []inlineMatch) []inlineMatch {
	if len(ms) < 2 {
		return ms
	}
	sort.SliceStable(ms, func(i, j int) bool {
		if ms[i].start != ms[j].start {
			return ms[i].start < ms[j].start
		}
		return ms[i].length() > ms[j].length()
	})

	kept := ms[:1]
	for _, m := range ms[1:] {
		last := &kept[len(kept)-1]
		if m.start >= last.end {
			kept = append(kept, m)
			continue
		}
		if m.length() > last.length() {
			*last = m
		}
	}
	return kept
}

// findAll scans text left to right. At each offset it tries to open a match
// and close it at the nearest valid closing delimiter; on success scanning
// resumes after the match, otherwise at the next byte.
func (p inlinePattern) findAll(text string) []inlineMatch {
	var out []inlineMatch
	for i := 0; i < len(text); {
		if m, ok := p.matchAt(text, i); ok {
			out = append(out, m)
			i = m.end
			continue
		}
		i++
	}
	return out
}

func (p inlinePattern) matchAt(text string, i int) (inlineMatch, bool) {
	if !strings.HasPrefix(text[i:], p.open) || !p.openOK(text, i) {
		return inlineMatch{}, false
	}
	innerStart := i + len(p.open)
	for j := innerStart + 1; j+len(p.close) <= len(text); j++ {
		if !strings.HasPrefix(text[j:], p.close) || !p.closeOK(text, j) {
			continue
		}
		inner := text[innerStart:j]
		if !p.inner(inner) {
			continue
		}
		return inlineMatch{start: i, end: j + len(p.close), inner: inner, style: p.style}, true
	}
	return inlineMatch{}, false
}

func (p inlinePattern) openOK(text string, i int) bool {
	if p.solo {
		c := p.open[0]
		if i > 0 && text[i-1] == c {
			return false
		}
		if i+1 < len(text) && text[i+1] == c {
			return false
		}
	}
	if p.wordBound {
		if r, _ := utf8.DecodeLastRuneInString(text[:i]); isWordRune(r) {
			return false
		}
	}
	return true
}

func (p inlinePattern) closeOK(text string, j int) bool {
	end := j + len(p.close)
	if p.solo {
		c := p.close[0]
		if text[j-1] == c {
			return false
		}
		if end < len(text) && text[end] == c {
			return false
		}
	}
	if p.wordBound {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
