package markup

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

// QuoteSet holds the directional glyphs of one locale.
type QuoteSet struct {
	DoubleOpen  string
	DoubleClose string
	SingleOpen  string
	SingleClose string
}

// DefaultLocale is used when no locale, or an unknown one, is configured.
const DefaultLocale = "en"

var quoteSets = map[string]QuoteSet{
	"en": {"“", "”", "‘", "’"},
	"de": {"„", "“", "‚", "‘"},
	"fr": {"«", "»", "‹", "›"},
	"pl": {"„", "”", "‚", "’"},
}

// QuotesFor returns the quote set of a locale such as "de" or "en-GB".
// Unknown locales get the English set.
func QuotesFor(locale string) QuoteSet {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	if q, ok := quoteSets[lang]; ok {
		return q
	}
	return quoteSets[DefaultLocale]
}

// IsKnownLocale reports whether locale maps to a dedicated quote set.
func IsKnownLocale(locale string) bool {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	_, ok := quoteSets[lang]
	return ok
}

// Normalizer converts straight quotes to directional quotes.
// The zero value uses the English set.
type Normalizer struct {
	Quotes QuoteSet
}

// NewNormalizer returns a Normalizer for locale.
func NewNormalizer(locale string) Normalizer {
	return Normalizer{Quotes: QuotesFor(locale)}
}

func (n Normalizer) quotes() QuoteSet {
	if n.Quotes.DoubleOpen == "" {
		return quoteSets[DefaultLocale]
	}
	return n.Quotes
}

// Normalize replaces every straight double quote and every straight single
// quote outside inline code with its directional form. A single quote between
// two letters is an apostrophe and stays as is.
//
// Each maximal backtick run toggles the code state regardless of its length,
// so a span opened by two backticks is closed by the next single one.
// Bytes that are not valid UTF-8 are copied.
func (n Normalizer) Normalize(s string) string {
	if !strings.ContainsAny(s, `"'`) {
		return s
	}
	q := n.quotes()

	var b strings.Builder
	b.Grow(len(s) + 8)

	inCode := false
	var prev rune // last emitted rune, emphasis markers excluded
	hasPrev := false
	var before rune = -1 // rune immediately before i in the input

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])

		if r == '`' {
			j := i
			for j < len(s) && s[j] == '`' {
				j++
			}
			b.WriteString(s[i:j])
			inCode = !inCode
			prev, hasPrev, before = '`', true, '`'
			i = j
			continue
		}

		if inCode || (r != '"' && r != '\'') {
			b.WriteString(s[i : i+size])
			if !isEmphasisMarker(r) {
				prev, hasPrev = r, true
			}
			before = r
			i += size
			continue
		}

		if r == '\'' && unicode.IsLetter(before) {
			if next, _ := utf8.DecodeRuneInString(s[i+size:]); unicode.IsLetter(next) {
				b.WriteByte('\'')
				prev, hasPrev, before = r, true, r
				i += size
				continue
			}
		}

		opening := !hasPrev || q.opensAfter(prev)
		var glyph string
		switch {
		case r == '"' && opening:
			glyph = q.DoubleOpen
		case r == '"':
			glyph = q.DoubleClose
		case opening:
			glyph = q.SingleOpen
		default:
			glyph = q.SingleClose
		}
		b.WriteString(glyph)
		g, _ := utf8.DecodeRuneInString(glyph)
		prev, hasPrev, before = g, true, g
		i += size
	}
	return b.String()
}

// openingContext lists the runes after which a quote opens, besides
// whitespace and the locale's own opening glyphs: brackets, dashes, clause
// and terminal punctuation in ASCII and full-width forms, and closing glyphs
// that end a previous quotation.
const openingContext = "([{<（【《〈" + `"'` + "-–—/" +
	":;,.!?、，。；：！？" +
	"“‘”）〉》»…"

// opensAfter reports whether a quote following r starts a quotation.
func (q QuoteSet) opensAfter(r rune) bool {
	if util.IsSpaceRune(r) || strings.ContainsRune(openingContext, r) {
		return true
	}
	s := string(r)
	return s == q.DoubleOpen || s == q.SingleOpen || s == q.DoubleClose
}

func isEmphasisMarker(r rune) bool {
	return r == '*' || r == '_' || r == '~'
}
