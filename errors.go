package mdpress

import (
	"errors"

	"github.com/alnah/go-mdpress/internal/assets"
)

// Input and assembly.
var (
	ErrEmptyDocument  = errors.New("document is empty")
	ErrInputDecoding  = errors.New("input is neither UTF-8 nor GBK text")
	ErrHTMLConversion = errors.New("assembling document HTML")
)

// Browser and PDF output. The CLI maps all of these to the browser exit code.
var (
	ErrBrowserConnect = errors.New("starting headless browser")
	ErrPageCreate     = errors.New("opening browser page")
	ErrPageLoad       = errors.New("loading document into browser")
	ErrPDFGeneration  = errors.New("printing PDF")
)

// Option validation.
var (
	ErrInvalidPageSize       = errors.New("invalid page size")
	ErrInvalidOrientation    = errors.New("invalid orientation")
	ErrInvalidMargin         = errors.New("invalid margin")
	ErrInvalidFooterPosition = errors.New("invalid footer position")
	ErrInvalidFooterDate     = errors.New("invalid footer date")
	ErrInvalidRenderConfig   = errors.New("invalid render config")
)

// Stylesheets. These are the sentinels the style loaders return.
var (
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = assets.ErrInvalidStyleDir
)
