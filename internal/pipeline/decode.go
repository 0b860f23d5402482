package pipeline

import (
	"bytes"
	"fmt"
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Encoding names the character encoding input was decoded from.
type Encoding string

// Encodings reported by DecodeInput.
const (
	EncodingUTF8    Encoding = "utf-8"
	EncodingUTF16LE Encoding = "utf-16le"
	EncodingUTF16BE Encoding = "utf-16be"
	EncodingGBK     Encoding = "gbk"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Line ending normalization
var crlfOrCR = regexp.MustCompile(`\r\n?`)

// DecodeInput turns raw document bytes into NFC-normalized text with "\n"
// line endings. A byte order mark selects UTF-8 or UTF-16 and is dropped.
// Input without a BOM is read as UTF-8; if it is not valid UTF-8 it is
// decoded as GBK and the fallback is reported through the returned Encoding.
// Bytes that are valid in neither fail with ErrInputDecoding.
func DecodeInput(data []byte) (string, Encoding, error) {
	var (
		text []byte
		enc  Encoding
		err  error
	)

	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		enc = EncodingUTF16LE
		if bytes.HasPrefix(data, bomUTF16BE) {
			enc = EncodingUTF16BE
		}
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		text, _, err = transform.Bytes(dec, data)
		if err != nil {
			return "", enc, fmt.Errorf("%w: %v", ErrInputDecoding, err)
		}
	case utf8.Valid(bytes.TrimPrefix(data, bomUTF8)):
		enc = EncodingUTF8
		text = bytes.TrimPrefix(data, bomUTF8)
	default:
		enc = EncodingGBK
		text, err = simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err != nil {
			return "", enc, fmt.Errorf("%w: %v", ErrInputDecoding, err)
		}
		// The decoder substitutes U+FFFD for invalid sequences.
		if i := bytes.IndexRune(text, utf8.RuneError); i >= 0 {
			return "", enc, fmt.Errorf("%w: invalid GBK sequence near character %d", ErrInputDecoding, utf8.RuneCount(text[:i]))
		}
	}

	return normalizeLineEndings(norm.NFC.String(string(text))), enc, nil
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
