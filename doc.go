// Package mdpress turns documents written in a lightweight markup dialect
// into paginated PDFs, printed by headless Chrome.
//
// # Quick Start
//
//	conv, err := mdpress.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	raw, _ := os.ReadFile("notes.md")
//	result, err := conv.Convert(ctx, mdpress.Input{Source: raw})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("notes.pdf", result.PDF, 0o644)
//
// Input.Source takes raw bytes and reports in result.Encoding how they were
// read: UTF-8 (with or without a BOM), UTF-16 with a BOM, or GBK when the
// bytes are not valid UTF-8. Input.Markdown takes text that is
// already decoded. Every result carries the intermediate HTML; set
// Input.HTMLOnly to stop there.
//
// # What a conversion does
//
// The source is split into blocks (headings, paragraphs, bullet, numbered
// and task lists, quotes, tables, fenced code, diagrams, rules) and inline
// spans are parsed inside each block, with straight quotes turned into the
// typographic quotes of the document locale. Blocks are assembled into one
// HTML page in the house style, the page CSS and any user CSS are layered on
// top, and Chrome prints the page with an optional footer.
//
// # Options
//
// Converter-wide settings are functional options:
//
//	conv, err := mdpress.NewConverter(
//	    mdpress.WithTimeout(2*time.Minute),
//	    mdpress.WithStyle("serif"),
//	    mdpress.WithLocale("fr"),
//	    mdpress.WithRenderConfig(mdpress.RenderConfig{DPI: 300}),
//	)
//
// Per-document settings travel with the Input:
//
//	result, err := conv.Convert(ctx, mdpress.Input{
//	    Source: raw,
//	    CSS:    "main.document { font-size: 12pt; }",
//	    Page:   &mdpress.PageSettings{Size: "letter", Orientation: "portrait", Margin: 1},
//	    Footer: &mdpress.Footer{ShowPageNumber: true, Date: "auto:long"},
//	})
//
// # Diagrams
//
// Fenced blocks tagged mermaid go to the mmdc executable. If it is missing,
// fails or runs out of time, the diagram becomes a caption and a short list
// of its edges, and the conversion goes on. WithDiagramRenderer plugs in
// another renderer; WithoutDiagramRendering always writes the summary.
//
// # Styles
//
// The built-in styles are listed by StyleNames. A style directory overrides
// or extends them:
//
//	loader, err := mdpress.NewAssetLoader("/srv/brand")
//	conv, err := mdpress.NewConverter(mdpress.WithAssetLoader(loader), mdpress.WithStyle("brand"))
//
// Styles are read from the styles subdirectory, one file per name, and never
// from outside it:
//
//	/srv/brand/
//	└── styles/
//	    └── brand.css
//
// # Batches
//
// A Converter owns one browser. ConverterPool hands out up to n of them to
// parallel workers, building each on first demand:
//
//	pool := mdpress.NewConverterPool(4, mdpress.WithStyle("compact"))
//	defer pool.Close()
//
//	conv, err := pool.Acquire(ctx) // waits while all n are lent out
//	if err != nil {
//	    return err
//	}
//	defer pool.Release(conv)
//
// # Browser
//
// go-rod downloads a managed Chromium on first use (~/.cache/rod/browser/)
// unless ROD_BROWSER_BIN names a local binary. Chrome runs without its
// sandbox in CI, in containers, with a custom binary or when
// ROD_NO_SANDBOX=1.
package mdpress
