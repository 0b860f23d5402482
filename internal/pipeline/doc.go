// Package pipeline turns a parsed markup.Document into output through a Sink.
//
// The assembler walks blocks in order and makes exactly one Sink call per
// block. Around it sit the pieces a conversion needs before and after that
// walk: DecodeInput normalizes raw bytes (BOM, GBK fallback, NFC,
// line endings), HTMLSink writes the house-style HTML body with chroma code
// highlighting, and StyleInjection layers stylesheets into the wrapped page.
//
// Page layout and PDF output belong to the root mdpress package.
package pipeline
