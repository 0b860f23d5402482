// Package markup turns plain-text markup into a structured Document.
//
// The package is split along the stages of a single conversion pass:
//   - Normalizer rewrites straight quotes into directional ones, leaving
//     inline code spans alone
//   - ParseInline resolves emphasis markers into styled runs
//   - ParseDelimitedTable and ParseHTMLTable extract table grids
//   - Scanner classifies lines into blocks and drives the above
//
// Nothing here performs I/O. Diagram sources are carried verbatim in
// KindDiagram blocks; rendering them is the job of the diagram package.
package markup
