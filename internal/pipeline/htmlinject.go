package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StyleInjector places stylesheets into a finished HTML document.
type StyleInjector interface {
	InjectStyles(ctx context.Context, htmlContent string, sheets ...string) string
}

// StyleInjection writes all sheets as a single <style> element.
type StyleInjection struct{}

var _ StyleInjector = (*StyleInjection)(nil)

// InjectStyles layers the non-empty sheets in the order given, so a later
// sheet overrides an earlier one. The block goes right before </head>, right
// after <body> when the document has no head, and in front of everything
// otherwise. Tags inside comments, titles and scripts are not matched.
func (s *StyleInjection) InjectStyles(ctx context.Context, htmlContent string, sheets ...string) string {
	css := layerSheets(sheets)
	if css == "" || ctx.Err() != nil {
		return htmlContent
	}
	block := "<style>" + escapeStyleText(css) + "</style>"
	at := styleInsertPos(htmlContent)
	return htmlContent[:at] + block + htmlContent[at:]
}

// styleInsertPos returns the byte offset where the style block belongs.
func styleInsertPos(doc string) int {
	z := html.NewTokenizer(strings.NewReader(doc))
	afterBody := -1
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if !errors.Is(z.Err(), io.EOF) {
				return 0
			}
			break
		}
		start := offset
		offset += len(z.Raw())

		name, _ := z.TagName()
		switch a := atom.Lookup(name); {
		case tt == html.EndTagToken && a == atom.Head:
			return start
		case tt == html.StartTagToken && a == atom.Body && afterBody < 0:
			afterBody = offset
		}
	}
	if afterBody >= 0 {
		return afterBody
	}
	return 0
}

func layerSheets(sheets []string) string {
	var b strings.Builder
	for _, sheet := range sheets {
		if strings.TrimSpace(sheet) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sheet)
	}
	return b.String()
}

// escapeStyleText keeps stylesheet text from closing the <style> element.
func escapeStyleText(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
