package dateutil

import (
	"strings"
	"time"
)

// monthNames holds full and abbreviated month names per language, January
// first. Polish uses the genitive form that follows a day number.
var monthNames = map[string]struct{ full, short [12]string }{
	"de": {
		full:  [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
		short: [12]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"},
	},
	"fr": {
		full:  [12]string{"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
		short: [12]string{"janv.", "févr.", "mars", "avr.", "mai", "juin", "juil.", "août", "sept.", "oct.", "nov.", "déc."},
	},
	"pl": {
		full:  [12]string{"stycznia", "lutego", "marca", "kwietnia", "maja", "czerwca", "lipca", "sierpnia", "września", "października", "listopada", "grudnia"},
		short: [12]string{"sty", "lut", "mar", "kwi", "maj", "cze", "lip", "sie", "wrz", "paź", "lis", "gru"},
	},
}

// language reduces a locale tag such as "de-AT" or "pl_PL" to its language.
func language(locale string) string {
	lang := strings.ToLower(locale)
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

func monthName(m time.Month, locale string) string {
	if names, ok := monthNames[language(locale)]; ok {
		return names.full[m-1]
	}
	return m.String()
}

func monthAbbr(m time.Month, locale string) string {
	if names, ok := monthNames[language(locale)]; ok {
		return names.short[m-1]
	}
	return m.String()[:3]
}
