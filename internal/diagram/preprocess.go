package diagram

import (
	"regexp"
	"strings"
)

// Label rewrites. A label opener is one of [ ( { > optionally followed by a
// double quote; the renderer reads "1. " or "- " right after it as list
// syntax and rejects the diagram.
var (
	labelNumbered = regexp.MustCompile(`([\[({>]"?[ \t]*)(\d+)\.[ \t]`)
	labelBullet   = regexp.MustCompile(`([\[({>]"?[ \t]*)[-*][ \t]`)
	lineNumbered  = regexp.MustCompile(`(?m)^([ \t]*)(\d+)\.[ \t]+`)
	lineBullet    = regexp.MustCompile(`(?m)^([ \t]*)[-*][ \t]+`)
)

const bullet = "•"

// Preprocess rewrites diagram source so the renderer does not misread label
// text as markup. Backticks become apostrophes, "N. " at the start of a label
// or line becomes "N: ", and "- " or "* " there becomes a bullet glyph.
func Preprocess(src string) string {
	src = strings.ReplaceAll(src, "`", "'")
	src = labelNumbered.ReplaceAllString(src, "${1}${2}: ")
	src = labelBullet.ReplaceAllString(src, "${1}"+bullet+" ")
	src = lineNumbered.ReplaceAllString(src, "${1}${2}: ")
	src = lineBullet.ReplaceAllString(src, "${1}"+bullet+" ")
	return src
}
