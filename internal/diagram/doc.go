// Package diagram turns fenced diagram source into an image, or into a short
// textual summary when no renderer is available.
//
// Source is first rewritten by Preprocess so that list-like label text does
// not trip the renderer's parser. A Renderer (normally MermaidCLI) then gets a
// bounded amount of time to produce a PNG. Processor ties both together and
// never fails: any renderer error degrades to Summarize.
package diagram
