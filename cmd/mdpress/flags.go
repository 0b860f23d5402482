package main

import (
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// convertFlags is everything the convert command accepts. Zero values mean
// "not given"; changed tells an explicit zero apart from an absent flag.
type convertFlags struct {
	config  string
	quiet   bool
	verbose bool

	output  string
	workers int
	timeout string
	locale  string
	html    bool
	noPDF   bool

	style     string
	assetPath string

	pageSize    string
	orientation string
	margin      float64

	footerPosition string
	footerText     string
	footerDate     string
	pageNumber     bool
	noFooter       bool

	mmdc           string
	diagramTimeout string
	diagramWidth   int
	diagramScale   float64
	diagramTheme   string
	noDiagrams     bool

	dpi           int
	maxImageWidth float64

	changed func(name string) bool
}

// flagGroup is a titled section of the convert help.
type flagGroup struct {
	title string
	flags *flag.FlagSet
}

// convertFlagGroups declares the convert flags bound to f, in help order.
func convertFlagGroups(f *convertFlags) []flagGroup {
	group := func(title string, define func(fs *flag.FlagSet)) flagGroup {
		fs := flag.NewFlagSet(title, flag.ContinueOnError)
		fs.SortFlags = false
		define(fs)
		return flagGroup{title: title, flags: fs}
	}

	return []flagGroup{
		group("Input/Output", func(fs *flag.FlagSet) {
			fs.StringVarP(&f.output, "output", "o", "", "PDF file or directory to write to")
			fs.StringVarP(&f.config, "config", "c", "", "config `name` or path")
			fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions, 0 for one per CPU")
			fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document time limit, e.g. 30s or 2m")
			fs.BoolVar(&f.html, "html", false, "also write the intermediate HTML")
			fs.BoolVar(&f.noPDF, "html-only", false, "write the intermediate HTML and skip the PDF")
		}),
		group("Typography", func(fs *flag.FlagSet) {
			fs.StringVarP(&f.locale, "locale", "l", "", "quote style and month names, e.g. en, fr, de")
			fs.StringVar(&f.style, "style", "", "built-in `style` (serif, compact) or CSS file")
			fs.StringVar(&f.assetPath, "asset-path", "", "`dir`ectory holding styles/{name}.css overrides")
		}),
		group("Page", func(fs *flag.FlagSet) {
			fs.StringVarP(&f.pageSize, "page-size", "p", "", "letter, a4 or legal")
			fs.StringVar(&f.orientation, "orientation", "", "portrait or landscape")
			fs.Float64Var(&f.margin, "margin", 0, "margin in `inches`, 0.25 to 3.0")
		}),
		group("Footer", func(fs *flag.FlagSet) {
			fs.StringVar(&f.footerPosition, "footer-position", "", "left, center or right")
			fs.StringVar(&f.footerText, "footer-text", "", "footer text")
			fs.StringVar(&f.footerDate, "footer-date", "", "\"auto\", \"auto:FORMAT\" or a literal `date`\n"+
				"tokens YYYY YY MMMM MMM MM M DD D, presets iso european us long")
			fs.BoolVar(&f.pageNumber, "footer-page-number", false, "number the pages")
			fs.BoolVar(&f.noFooter, "no-footer", false, "no footer at all")
		}),
		group("Diagrams and images", func(fs *flag.FlagSet) {
			fs.StringVar(&f.mmdc, "mmdc", "", "mermaid CLI `command` (default mmdc)")
			fs.StringVar(&f.diagramTimeout, "diagram-timeout", "", "per-diagram time limit (default 30s)")
			fs.IntVar(&f.diagramWidth, "diagram-width", 0, "canvas width in `pixels` (default 2200)")
			fs.Float64Var(&f.diagramScale, "diagram-scale", 0, "device scale factor (default 2)")
			fs.StringVar(&f.diagramTheme, "diagram-theme", "", "mermaid `theme` (default neutral)")
			fs.BoolVar(&f.noDiagrams, "no-diagrams", false, "show diagrams as text summaries")
			fs.IntVar(&f.dpi, "dpi", 0, "image pixels per inch (default 260)")
			fs.Float64Var(&f.maxImageWidth, "max-image-width", 0, "widest image in `inches` (default 5.3)")
		}),
		group("Output Control", func(fs *flag.FlagSet) {
			fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
			fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
		}),
	}
}

// parseConvertFlags parses args and returns the flags and the positional
// arguments. -h prints the convert help to usage.
func parseConvertFlags(args []string, usage io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SortFlags = false
	fs.SetNormalizeFunc(dashes)
	for _, g := range convertFlagGroups(f) {
		fs.AddFlagSet(g.flags)
	}
	fs.Usage = func() { printConvertUsage(usage) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.changed = fs.Changed
	return f, fs.Args(), nil
}

// dashes lets --page_size stand for --page-size.
func dashes(_ *flag.FlagSet, name string) flag.NormalizedName {
	return flag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
