package diagram

import "errors"

// Sentinel errors returned by renderers. Processor converts all of them into
// a fallback summary.
var (
	ErrRendererUnavailable = errors.New("diagram renderer not available")
	ErrRendererTimeout     = errors.New("diagram renderer timed out")
	ErrRendererFailed      = errors.New("diagram renderer failed")
	ErrNoOutput            = errors.New("diagram renderer produced no output")
)
