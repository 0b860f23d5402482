package mdpress

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpress/internal/fileutil"
)

// printer prints a finished HTML document to PDF.
type printer interface {
	Print(ctx context.Context, htmlContent string, opts *printOptions) ([]byte, error)
	Close() error
}

var _ printer = (*chromePrinter)(nil)

// printOptions holds options for PDF generation.
type printOptions struct {
	Footer *footerData
	Page   *PageSettings
}

// footerData is a Footer with its date already resolved.
type footerData struct {
	Position       string
	ShowPageNumber bool
	Date           string
	Text           string
}

func (o *printOptions) page() *PageSettings {
	if o == nil || o.Page == nil {
		return DefaultPageSettings()
	}
	return o.Page
}

func (o *printOptions) footer() *footerData {
	if o == nil {
		return nil
	}
	return o.Footer
}

// footerReserve is added to the bottom margin, in inches, when a footer is
// printed, so it never overlaps body text.
const footerReserve = 0.25

// footerFont matches the house style body font.
const footerFont = `Calibri, Carlito, "Segoe UI", sans-serif`

// emptyTemplate replaces Chrome's default header and footer (URL, title).
const emptyTemplate = "<span></span>"

// chromePrinter writes the HTML to a scratch file and has a Chrome tab print
// it. Loading from file:// lets the page reference local files.
type chromePrinter struct {
	tabs tabPrinter
}

func newChromePrinter(timeout time.Duration) *chromePrinter {
	return &chromePrinter{tabs: newChromeSession(timeout)}
}

// Print prints htmlContent with the page geometry and footer of opts.
func (p *chromePrinter) Print(ctx context.Context, htmlContent string, opts *printOptions) ([]byte, error) {
	scratch, err := fileutil.NewScratch("page")
	if err != nil {
		return nil, err
	}
	defer func() { _ = scratch.Close() }()

	path, err := scratch.WriteFile("page.html", htmlContent)
	if err != nil {
		return nil, err
	}
	return p.tabs.PrintFile(ctx, path, printSettings(opts))
}

// Close shuts the browser down.
func (p *chromePrinter) Close() error {
	return p.tabs.Close()
}

// printSettings maps page geometry and the footer onto Chrome's print
// parameters. Sizes are in inches.
func printSettings(opts *printOptions) *proto.PagePrintToPDF {
	page := opts.page()
	width, height := page.Dimensions()
	margin := page.Margin
	bottom := margin

	settings := &proto.PagePrintToPDF{
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
		MarginBottom:    &bottom,
		PrintBackground: true,
	}
	if f := opts.footer(); f != nil {
		bottom += footerReserve
		settings.DisplayHeaderFooter = true
		settings.HeaderTemplate = emptyTemplate
		settings.FooterTemplate = footerTemplate(f, margin)
	}
	return settings
}

// footerTemplate lays out "page/total - date - text", leaving out the parts
// that are unset. Chrome fills the pageNumber and totalPages elements.
func footerTemplate(f *footerData, margin float64) string {
	var parts []string
	if f.ShowPageNumber {
		parts = append(parts, `<span class="pageNumber"></span>/<span class="totalPages"></span>`)
	}
	for _, s := range []string{f.Date, f.Text} {
		if s != "" {
			parts = append(parts, html.EscapeString(s))
		}
	}
	if len(parts) == 0 {
		return emptyTemplate
	}
	return fmt.Sprintf(`<div style="width: 100%%; padding: 0 %.2fin; font-size: 9px; font-family: %s; color: #888; text-align: %s;">%s</div>`,
		margin, html.EscapeString(footerFont), footerAlign(f.Position), strings.Join(parts, " - "))
}

func footerAlign(position string) string {
	switch p := strings.ToLower(position); p {
	case FooterLeft, FooterCenter:
		return p
	default:
		return FooterRight
	}
}

// pageCSS returns the @page rule for p, so the HTML output previews with the
// geometry of the PDF. printSettings stays authoritative for the PDF.
func pageCSS(p *PageSettings) string {
	if p == nil {
		p = DefaultPageSettings()
	}
	w, h := p.Dimensions()
	return fmt.Sprintf("@page {\n  size: %.2fin %.2fin;\n  margin: %.2fin;\n}\n", w, h, p.Margin)
}
